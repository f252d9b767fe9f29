package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/disa/mapa/internal/app/models"
	"github.com/disa/mapa/internal/pkg/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func TestInstitutionRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewInstitutionRepository(mock)
	now := time.Now()

	inst := &models.Institution{
		DestinationCode: "HNPM", Name: "Hospital Naval Puerto Belgrano", Kind: models.InstitutionHospital,
		Category: models.CategoryI, Latitude: -38.9, Longitude: -62.1,
	}
	mock.ExpectQuery("INSERT INTO institutions").
		WithArgs("HNPM", "Hospital Naval Puerto Belgrano", "hospital", "I", "", -38.9, -62.1).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))

	id, err := repo.Create(context.Background(), inst)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Equal(t, int64(7), inst.ID)
	assert.Equal(t, now, inst.CreatedAt)
}

func TestInstitutionRepository_CreateDuplicateCode(t *testing.T) {
	mock := newMock(t)
	repo := NewInstitutionRepository(mock)

	mock.ExpectQuery("INSERT INTO institutions").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: destinationCodeConstraint})

	_, err := repo.Create(context.Background(), &models.Institution{DestinationCode: "HNPM"})
	assert.ErrorIs(t, err, apperrors.ErrDestinationCodeTaken)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestInstitutionRepository_GetByDestinationCodeNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewInstitutionRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM institutions WHERE destination_code").
		WithArgs("ZZZZ").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByDestinationCode(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestInstitutionRepository_UpdateNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewInstitutionRepository(mock)

	mock.ExpectExec("UPDATE institutions SET").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.Update(context.Background(), &models.Institution{ID: 99, DestinationCode: "HNPM"})
	assert.ErrorIs(t, err, apperrors.ErrInstitutionNotFound)
}

func TestInstitutionRepository_Delete(t *testing.T) {
	mock := newMock(t)
	repo := NewInstitutionRepository(mock)

	mock.ExpectExec("DELETE FROM institutions").WithArgs(int64(3)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM institutions").WithArgs(int64(4)).
		WillReturnError(errors.New("connection reset"))

	require.NoError(t, repo.Delete(context.Background(), 3))
	err := repo.Delete(context.Background(), 4)
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestInstitutionRepository_ExistsByDestinationCode(t *testing.T) {
	mock := newMock(t)
	repo := NewInstitutionRepository(mock)

	mock.ExpectQuery("SELECT EXISTS").WithArgs("HNPM").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.ExistsByDestinationCode(context.Background(), "HNPM")
	require.NoError(t, err)
	assert.True(t, ok)
}
