package repositories

import (
	"context"
	"fmt"

	"github.com/disa/mapa/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
)

// importLockKey identifies the personnel import advisory lock ("mapa" in ASCII)
const importLockKey int64 = 0x6d617061

// TxStarter begins transactions; *pgxpool.Pool satisfies it
type TxStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ImportLock serializes personnel imports across processes with a transaction-scoped
// PostgreSQL advisory lock. The lock is held from before the sequence base is read until the
// last row is written, and released when the holding transaction ends.
type ImportLock struct {
	db TxStarter
}

// NewImportLock creates an ImportLock on db
func NewImportLock(db TxStarter) *ImportLock {
	return &ImportLock{db: db}
}

// WithImportLock blocks until the lock is free, then runs fn while holding it
func (l *ImportLock) WithImportLock(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := l.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin import lock transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}
	}()

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", importLockKey); err != nil {
		logger.Error().Err(err).Msg("Error acquiring import lock")
		return fmt.Errorf("error acquiring import lock: %w", err)
	}

	if err := fn(ctx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to release import lock: %w", err)
	}
	committed = true
	return nil
}
