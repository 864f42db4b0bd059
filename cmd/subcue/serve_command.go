package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subcue/internal/api"
	"subcue/internal/server"
	"subcue/internal/store"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API for the learning player",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if bind != "" {
				cfg.Paths.APIBind = bind
			}
			logger := ctx.loggerValue()

			st, err := store.Open(cfg)
			if err != nil {
				return fmt.Errorf("open document cache: %w", err)
			}
			defer st.Close()

			srv, err := server.New(cfg, api.NewTrackServiceFromConfig(cfg, st, logger), logger)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Override paths.api_bind")
	return cmd
}
