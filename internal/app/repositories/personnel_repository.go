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

var personnelColumns = []string{
	"p.id", "p.kind", "p.rank", "p.corps_code", "p.orientation_code", "p.profession",
	"p.surname", "p.given_name", "p.destination_code", "p.registration_number", "p.national_id",
	"p.specialty_id", "COALESCE(s.name, '')", "p.import_sequence", "p.created_at", "p.updated_at",
}

// PersonnelRepository handles personnel database operations
type PersonnelRepository struct {
	db DBTX
	sb squirrel.StatementBuilderType
}

// NewPersonnelRepository creates a new PersonnelRepository
func NewPersonnelRepository(db DBTX) *PersonnelRepository {
	return &PersonnelRepository{
		db: db,
		sb: newStatementBuilder(),
	}
}

func scanPersonnel(row pgx.Row) (*models.Personnel, error) {
	var (
		p    models.Personnel
		kind string
	)
	if err := row.Scan(
		&p.ID,
		&kind,
		&p.Rank,
		&p.CorpsCode,
		&p.OrientationCode,
		&p.Profession,
		&p.Surname,
		&p.GivenName,
		&p.DestinationCode,
		&p.RegistrationNumber,
		&p.NationalID,
		&p.SpecialtyID,
		&p.SpecialtyName,
		&p.ImportSequence,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Kind = models.PersonnelKind(kind)
	return &p, nil
}

func (r *PersonnelRepository) selectPersonnel() squirrel.SelectBuilder {
	return r.sb.Select(personnelColumns...).
		From("personnel p").
		LeftJoin("specialties s ON s.id = p.specialty_id")
}

// Create inserts one record, import sequence included, and returns its id
func (r *PersonnelRepository) Create(ctx context.Context, p *models.Personnel) (int64, error) {
	sql, args, err := r.sb.Insert("personnel").
		Columns(
			"kind", "rank", "corps_code", "orientation_code", "profession", "surname", "given_name",
			"destination_code", "registration_number", "national_id", "specialty_id", "import_sequence",
		).
		Values(
			string(p.Kind), p.Rank, p.CorpsCode, p.OrientationCode, p.Profession, p.Surname, p.GivenName,
			p.DestinationCode, p.RegistrationNumber, p.NationalID, p.SpecialtyID, p.ImportSequence,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create personnel query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return 0, apperrors.ErrUnknownSpecialty
		}
		logger.Error().Err(err).Str("nationalId", p.NationalID).Msg("Error executing create personnel query")
		return 0, fmt.Errorf("error creating personnel: %w", err)
	}

	return p.ID, nil
}

// GetByID retrieves a record with its specialty name
func (r *PersonnelRepository) GetByID(ctx context.Context, id int64) (*models.Personnel, error) {
	sql, args, err := r.selectPersonnel().
		Where(squirrel.Eq{"p.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get personnel query: %w", err)
	}

	p, err := scanPersonnel(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPersonnelNotFound
		}
		return nil, fmt.Errorf("error getting personnel: %w", err)
	}
	return p, nil
}

// List retrieves every record. The order is only a stable default; views re-sort.
func (r *PersonnelRepository) List(ctx context.Context) ([]models.Personnel, error) {
	sql, args, err := r.selectPersonnel().
		OrderBy("p.import_sequence ASC NULLS LAST", "p.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list personnel query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list personnel query")
		return nil, fmt.Errorf("error querying personnel: %w", err)
	}
	defer rows.Close()

	list := []models.Personnel{}
	for rows.Next() {
		p, err := scanPersonnel(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning personnel row: %w", err)
		}
		list = append(list, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating personnel rows: %w", err)
	}

	return list, nil
}

// Update overwrites the editable columns. import_sequence is never written here.
func (r *PersonnelRepository) Update(ctx context.Context, p *models.Personnel) error {
	sql, args, err := r.sb.Update("personnel").
		SetMap(map[string]interface{}{
			"kind":                string(p.Kind),
			"rank":                p.Rank,
			"corps_code":          p.CorpsCode,
			"orientation_code":    p.OrientationCode,
			"profession":          p.Profession,
			"surname":             p.Surname,
			"given_name":          p.GivenName,
			"destination_code":    p.DestinationCode,
			"registration_number": p.RegistrationNumber,
			"national_id":         p.NationalID,
			"specialty_id":        p.SpecialtyID,
			"updated_at":          squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": p.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update personnel query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrUnknownSpecialty
		}
		logger.Error().Err(err).Int64("personnelID", p.ID).Msg("Error executing update personnel query")
		return fmt.Errorf("error updating personnel: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPersonnelNotFound
	}

	return nil
}

// Delete removes a record by ID
func (r *PersonnelRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("personnel").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete personnel query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("personnelID", id).Msg("Error executing delete personnel query")
		return fmt.Errorf("error deleting personnel: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPersonnelNotFound
	}

	return nil
}
