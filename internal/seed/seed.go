// Package seed inserts the reference data the dashboard expects on a fresh database
package seed

import (
	"context"
	"fmt"

	"github.com/disa/mapa/internal/app/models"
	"github.com/disa/mapa/internal/app/repositories"
	"github.com/disa/mapa/internal/app/services"
	"github.com/disa/mapa/internal/db"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// CreateDefaultData inserts the default personnel types that are missing. Existing entries,
// including edited colors, are left alone.
func CreateDefaultData(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (personnel types)...")

	err := database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return EnsureDefaults(ctx, repositories.NewLookupRepository(tx, models.LookupPersonnelType))
	})
	if err != nil {
		return fmt.Errorf("failed to seed personnel types: %w", err)
	}

	lgr.Info().Int("count", len(services.DefaultPersonnelTypes)).Msg("Default personnel types ensured")
	return nil
}

// DefaultsSeeder is a lookup table that can insert missing named entries
type DefaultsSeeder interface {
	EnsureDefaults(ctx context.Context, defaults []models.Lookup) error
}

// EnsureDefaults seeds the default personnel types through s
func EnsureDefaults(ctx context.Context, s DefaultsSeeder) error {
	return s.EnsureDefaults(ctx, services.DefaultPersonnelTypes)
}
