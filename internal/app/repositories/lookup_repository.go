package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/disa/mapa/internal/app/models"
	"github.com/disa/mapa/internal/pkg/apperrors"
	"github.com/disa/mapa/internal/pkg/dberrors"
	"github.com/disa/mapa/internal/pkg/logger"
	"github.com/jackc/pgx/v5"
)

// LookupRepository serves one of the labeled lookup tables. The table name comes from the
// LookupKind constants, never from user input.
type LookupRepository struct {
	db    DBTX
	sb    squirrel.StatementBuilderType
	kind  models.LookupKind
	table string
}

// NewLookupRepository creates a repository for the table behind kind
func NewLookupRepository(db DBTX, kind models.LookupKind) *LookupRepository {
	return &LookupRepository{
		db:    db,
		sb:    newStatementBuilder(),
		kind:  kind,
		table: string(kind),
	}
}

// Kind returns the lookup kind this repository serves
func (r *LookupRepository) Kind() models.LookupKind {
	return r.kind
}

// List retrieves all entries ordered by name
func (r *LookupRepository) List(ctx context.Context) ([]models.Lookup, error) {
	sql, args, err := r.sb.Select("id", "name", "color", "description").
		From(r.table).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list %s query: %w", r.table, err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("table", r.table).Msg("Error executing list lookup query")
		return nil, fmt.Errorf("error querying %s: %w", r.table, err)
	}
	defer rows.Close()

	entries := []models.Lookup{}
	for rows.Next() {
		var l models.Lookup
		if err := rows.Scan(&l.ID, &l.Name, &l.Color, &l.Description); err != nil {
			return nil, fmt.Errorf("error scanning %s row: %w", r.table, err)
		}
		entries = append(entries, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", r.table, err)
	}

	return entries, nil
}

// GetByID retrieves one entry
func (r *LookupRepository) GetByID(ctx context.Context, id int64) (*models.Lookup, error) {
	sql, args, err := r.sb.Select("id", "name", "color", "description").
		From(r.table).
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get %s query: %w", r.table, err)
	}

	var l models.Lookup
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&l.ID, &l.Name, &l.Color, &l.Description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLookupNotFound
		}
		return nil, fmt.Errorf("error getting %s entry: %w", r.table, err)
	}
	return &l, nil
}

// Create inserts an entry and returns its id
func (r *LookupRepository) Create(ctx context.Context, l *models.Lookup) (int64, error) {
	sql, args, err := r.sb.Insert(r.table).
		Columns("name", "color", "description").
		Values(l.Name, l.Color, l.Description).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create %s query: %w", r.table, err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&l.ID); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return 0, apperrors.ErrLookupNameTaken
		}
		logger.Error().Err(err).Str("table", r.table).Msg("Error executing create lookup query")
		return 0, fmt.Errorf("error creating %s entry: %w", r.table, err)
	}
	return l.ID, nil
}

// Update overwrites an entry
func (r *LookupRepository) Update(ctx context.Context, l *models.Lookup) error {
	sql, args, err := r.sb.Update(r.table).
		SetMap(map[string]interface{}{
			"name":        l.Name,
			"color":       l.Color,
			"description": l.Description,
		}).
		Where(squirrel.Eq{"id": l.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update %s query: %w", r.table, err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrLookupNameTaken
		}
		return fmt.Errorf("error updating %s entry: %w", r.table, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLookupNotFound
	}
	return nil
}

// Delete removes an entry. Personnel referencing a deleted specialty lose the reference.
func (r *LookupRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete(r.table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete %s query: %w", r.table, err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting %s entry: %w", r.table, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLookupNotFound
	}
	return nil
}

// EnsureDefaults inserts the named entries that do not exist yet
func (r *LookupRepository) EnsureDefaults(ctx context.Context, defaults []models.Lookup) error {
	for _, l := range defaults {
		sql, args, err := r.sb.Insert(r.table).
			Columns("name", "color", "description").
			Values(l.Name, l.Color, l.Description).
			Suffix("ON CONFLICT (name) DO NOTHING").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build seed %s query: %w", r.table, err)
		}
		if _, err := r.db.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error seeding %s entry %q: %w", r.table, l.Name, err)
		}
	}
	return nil
}
