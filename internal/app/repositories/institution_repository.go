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

const destinationCodeConstraint = "institutions_destination_code_key"

var institutionColumns = []string{
	"id", "destination_code", "name", "kind", "category", "phone", "latitude", "longitude", "created_at",
}

// InstitutionRepository handles institution database operations
type InstitutionRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewInstitutionRepository creates a new InstitutionRepository
func NewInstitutionRepository(db DBTX) *InstitutionRepository {
	return &InstitutionRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

func scanInstitution(row pgx.Row) (*models.Institution, error) {
	var (
		inst     models.Institution
		kind     string
		category string
	)
	if err := row.Scan(
		&inst.ID,
		&inst.DestinationCode,
		&inst.Name,
		&kind,
		&category,
		&inst.Phone,
		&inst.Latitude,
		&inst.Longitude,
		&inst.CreatedAt,
	); err != nil {
		return nil, err
	}
	inst.Kind = models.InstitutionKind(kind)
	inst.Category = models.Category(category)
	return &inst, nil
}

// Create inserts an institution and fills in its id and creation time
func (r *InstitutionRepository) Create(ctx context.Context, inst *models.Institution) (int64, error) {
	sql, args, err := r.sb.Insert("institutions").
		Columns("destination_code", "name", "kind", "category", "phone", "latitude", "longitude").
		Values(inst.DestinationCode, inst.Name, string(inst.Kind), string(inst.Category), inst.Phone, inst.Latitude, inst.Longitude).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create institution query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&inst.ID, &inst.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, destinationCodeConstraint) {
			return 0, apperrors.ErrDestinationCodeTaken
		}
		logger.Error().Err(err).Str("destinationCode", inst.DestinationCode).Msg("Error executing create institution query")
		return 0, fmt.Errorf("error creating institution: %w", err)
	}

	return inst.ID, nil
}

// GetByID retrieves an institution by ID
func (r *InstitutionRepository) GetByID(ctx context.Context, id int64) (*models.Institution, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByDestinationCode retrieves an institution by its destination code
func (r *InstitutionRepository) GetByDestinationCode(ctx context.Context, code string) (*models.Institution, error) {
	return r.getOne(ctx, squirrel.Eq{"destination_code": code})
}

func (r *InstitutionRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.Institution, error) {
	sql, args, err := r.sb.Select(institutionColumns...).
		From("institutions").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get institution query: %w", err)
	}

	inst, err := scanInstitution(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrInstitutionNotFound
		}
		return nil, fmt.Errorf("error getting institution: %w", err)
	}
	return inst, nil
}

// List retrieves all institutions ordered by name
func (r *InstitutionRepository) List(ctx context.Context) ([]models.Institution, error) {
	sql, args, err := r.sb.Select(institutionColumns...).
		From("institutions").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list institutions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list institutions query")
		return nil, fmt.Errorf("error querying institutions: %w", err)
	}
	defer rows.Close()

	institutions := []models.Institution{}
	for rows.Next() {
		inst, err := scanInstitution(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning institution row: %w", err)
		}
		institutions = append(institutions, *inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating institution rows: %w", err)
	}

	return institutions, nil
}

// ExistsByDestinationCode reports whether some institution owns code
func (r *InstitutionRepository) ExistsByDestinationCode(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM institutions WHERE destination_code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking institution existence: %w", err)
	}
	return exists, nil
}

// Update overwrites every editable column of an institution
func (r *InstitutionRepository) Update(ctx context.Context, inst *models.Institution) error {
	sql, args, err := r.sb.Update("institutions").
		SetMap(map[string]interface{}{
			"destination_code": inst.DestinationCode,
			"name":             inst.Name,
			"kind":             string(inst.Kind),
			"category":         string(inst.Category),
			"phone":            inst.Phone,
			"latitude":         inst.Latitude,
			"longitude":        inst.Longitude,
		}).
		Where(squirrel.Eq{"id": inst.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update institution query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, destinationCodeConstraint) {
			return apperrors.ErrDestinationCodeTaken
		}
		logger.Error().Err(err).Int64("institutionID", inst.ID).Msg("Error executing update institution query")
		return fmt.Errorf("error updating institution: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrInstitutionNotFound
	}

	return nil
}

// Delete removes an institution. Personnel pointing at its code are left untouched.
func (r *InstitutionRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("institutions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete institution query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("institutionID", id).Msg("Error executing delete institution query")
		return fmt.Errorf("error deleting institution: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrInstitutionNotFound
	}

	return nil
}
