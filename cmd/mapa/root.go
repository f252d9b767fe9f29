package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/disa/mapa/internal/pkg/logger"
)

var configPath string

func newRootCmd() *cobra.Command {
	serve := newServeCmd()

	cmd := &cobra.Command{
		Use:           "mapa",
		Short:         "Naval health personnel and institution map backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		// Running the binary without a subcommand starts the API
		RunE: serve.RunE,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", filepath.Join("configs", "config.yaml"), "Path to the YAML configuration file")

	cmd.AddCommand(serve, newMigrateCmd(), newImportCmd(), newHashPasswordCmd())
	return cmd
}

func execute() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
