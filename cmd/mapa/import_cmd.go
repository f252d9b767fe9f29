package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/disa/mapa/internal/bootstrap"
)

func newImportCmd() *cobra.Command {
	var (
		file   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a personnel spreadsheet, appending its rows in file order",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open %s: %w", file, err)
			}
			defer f.Close()

			cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
			if err != nil {
				return err
			}

			database, err := bootstrap.ConnectDatabase(cmd.Context(), cfg, lgr)
			if err != nil {
				return err
			}
			defer database.Close()

			c := bootstrap.SetupCache(cmd.Context(), cfg, lgr)
			defer c.Close()

			deps := bootstrap.BuildServices(cfg, database.Pool, c, lgr)
			result, err := deps.PersonnelService.ImportSpreadsheet(cmd.Context(), f, dryRun)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to the .xlsx workbook (required)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate and sequence the rows without writing them")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
