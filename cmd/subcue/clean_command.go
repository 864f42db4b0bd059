package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"subcue/internal/config"
	"subcue/internal/srt"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "clean <file|->",
		Short: "Remove advertisement cues and markup, writing SRT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			document, err := ctx.readDocument(cmd, args[0])
			if err != nil {
				return err
			}
			result := srt.ParseDetailed(document, srt.Options{Index: ctx.indexPolicy(false)})
			cleaned, stats := srt.Clean(result.Cues)
			rendered := srt.Format(cleaned)

			target := strings.TrimSpace(output)
			if target == "" || target == "-" {
				_, err := cmd.OutOrStdout().Write(rendered)
				return err
			}
			path, err := config.ExpandPath(target)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, rendered, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d cues to %s (removed %d, stripped %d lines, dropped %d blocks)\n",
				len(cleaned), path, stats.RemovedCues, stats.StrippedLines, result.Dropped())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (default stdout)")
	return cmd
}
