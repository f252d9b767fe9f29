package main

import (
	"github.com/spf13/cobra"

	"github.com/disa/mapa/internal/bootstrap"
	"github.com/disa/mapa/internal/seed"
)

func newMigrateCmd() *cobra.Command {
	var skipSeed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations and seed the default personnel types",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
			if err != nil {
				return err
			}

			database, err := bootstrap.ConnectDatabase(cmd.Context(), cfg, lgr)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := bootstrap.Migrate(cmd.Context(), cfg, database, lgr); err != nil {
				return err
			}
			if skipSeed {
				return nil
			}
			return seed.CreateDefaultData(cmd.Context(), database, lgr)
		},
	}

	cmd.Flags().BoolVar(&skipSeed, "skip-seed", false, "Do not insert the default personnel types")
	return cmd
}
