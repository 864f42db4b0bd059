package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subcue/internal/srt"
)

func newParseCommand(ctx *commandContext) *cobra.Command {
	var (
		asJSON      bool
		lenient     bool
		diagnostics bool
	)

	cmd := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Parse an SRT document and print its cues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			document, err := ctx.readDocument(cmd, args[0])
			if err != nil {
				return err
			}
			result := srt.ParseDetailed(document, srt.Options{Index: ctx.indexPolicy(lenient)})

			if asJSON {
				if diagnostics {
					return writeJSON(cmd, result)
				}
				return writeJSON(cmd, result.Cues)
			}

			out := cmd.OutOrStdout()
			if len(result.Cues) == 0 {
				fmt.Fprintln(out, "No cues found")
			} else {
				fmt.Fprintln(out, renderCueTable(result.Cues))
			}
			if diagnostics && !result.Clean() {
				fmt.Fprintf(out, "\nDropped %d of %d blocks:\n", result.Dropped(), result.Blocks)
				fmt.Fprintln(out, renderDiagnosticTable(result.Diagnostics))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output cues as JSON")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "Keep blocks whose index is not a number (id 0)")
	cmd.Flags().BoolVar(&diagnostics, "diagnostics", false, "Report dropped blocks")
	return cmd
}
