package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subcue/internal/srt"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var mediaSeconds float64

	cmd := &cobra.Command{
		Use:   "validate <file|->",
		Short: "Check an SRT document for dropped blocks and timing problems",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			document, err := ctx.readDocument(cmd, args[0])
			if err != nil {
				return err
			}
			result := srt.ParseDetailed(document, srt.Options{Index: ctx.indexPolicy(false)})
			issues := srt.Validate(result, mediaSeconds)

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader(args[0], colorize) {
				fmt.Fprintln(out, line)
			}
			first, last := srt.Bounds(result.Cues)
			fmt.Fprintln(out, renderStatusLine("Cues", statusInfo,
				fmt.Sprintf("%d of %d blocks", len(result.Cues), result.Blocks), colorize))
			fmt.Fprintln(out, renderStatusLine("Span", statusInfo,
				fmt.Sprintf("%s - %s", srt.FormatTimecode(first), srt.FormatTimecode(last)), colorize))

			if len(issues) == 0 {
				fmt.Fprintln(out, renderStatusLine("Result", statusOK, "no issues", colorize))
				return nil
			}
			for _, issue := range issues {
				fmt.Fprintln(out, renderStatusLine("Issue", issueStatus(issue), issue, colorize))
			}
			return fmt.Errorf("%s: %d issue(s) found", args[0], len(issues))
		},
	}

	cmd.Flags().Float64Var(&mediaSeconds, "media-seconds", 0, "Media runtime in seconds for the duration check")
	return cmd
}
