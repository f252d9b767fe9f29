package main

import (
	"github.com/spf13/cobra"

	"github.com/disa/mapa/internal/pkg/logger"
	"github.com/disa/mapa/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := server.NewServer(cmd.Context(), configPath)
			if err != nil {
				return err
			}

			// Blocks until a shutdown signal
			if err := srv.Run(); err != nil {
				return err
			}

			logger.Info().Msg("Application finished gracefully.")
			return nil
		},
	}
}
