package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/disa/mapa/internal/app/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so repositories can run
// either on the pool or inside a transaction
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories holds all the repository instances
type Repositories struct {
	InstitutionRepository   *InstitutionRepository
	PersonnelRepository     *PersonnelRepository
	PersonnelTypeRepository *LookupRepository
	SpecialtyRepository     *LookupRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db DBTX) *Repositories {
	return &Repositories{
		InstitutionRepository:   NewInstitutionRepository(db),
		PersonnelRepository:     NewPersonnelRepository(db),
		PersonnelTypeRepository: NewLookupRepository(db, models.LookupPersonnelType),
		SpecialtyRepository:     NewLookupRepository(db, models.LookupSpecialty),
	}
}

func newStatementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
