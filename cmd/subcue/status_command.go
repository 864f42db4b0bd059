package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subcue/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check directories, server lock, and bind address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)
			if asJSON {
				return writeJSON(cmd, results)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("subcue status", colorize) {
				fmt.Fprintln(out, line)
			}
			for _, r := range results {
				fmt.Fprintln(out, renderStatusLine(r.Name, checkStatus(r), r.Detail, colorize))
			}
			fmt.Fprintln(out, renderStatusLine("Auth", statusInfo, "token required: "+yesNo(cfg.Paths.APIToken != ""), colorize))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
