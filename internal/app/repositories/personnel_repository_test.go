package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/disa/mapa/internal/app/models"
	"github.com/disa/mapa/internal/pkg/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonnelRepository_CreateKeepsImportSequence(t *testing.T) {
	mock := newMock(t)
	repo := NewPersonnelRepository(mock)
	now := time.Now()
	seq := int64(12)

	p := &models.Personnel{
		Kind: models.KindMilitary, Rank: "SM", CorpsCode: "EN", Surname: "Diaz", GivenName: "Luis",
		DestinationCode: "HNPM", NationalID: "20111222", ImportSequence: &seq,
	}
	mock.ExpectQuery("INSERT INTO personnel").
		WithArgs("military", "SM", "EN", "", "", "Diaz", "Luis", "HNPM", "", "20111222", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(41), now, now))

	id, err := repo.Create(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, int64(41), id)
	assert.Equal(t, int64(12), *p.ImportSequence)
}

func TestPersonnelRepository_CreateUnknownSpecialty(t *testing.T) {
	mock := newMock(t)
	repo := NewPersonnelRepository(mock)

	mock.ExpectQuery("INSERT INTO personnel").
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := repo.Create(context.Background(), &models.Personnel{Kind: models.KindCivilian})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestPersonnelRepository_UpdateNeverWritesImportSequence(t *testing.T) {
	var executed string
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherFunc(
		func(_, actual string) error {
			executed = actual
			return nil
		})))
	require.NoError(t, err)
	defer mock.Close()
	repo := NewPersonnelRepository(mock)

	mock.ExpectExec("UPDATE personnel").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	seq := int64(5)
	err = repo.Update(context.Background(), &models.Personnel{ID: 8, Kind: models.KindMilitary, ImportSequence: &seq})
	assert.ErrorIs(t, err, apperrors.ErrPersonnelNotFound)
	assert.Contains(t, executed, "UPDATE personnel SET")
	assert.NotContains(t, executed, "import_sequence")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonnelRepository_Delete(t *testing.T) {
	mock := newMock(t)
	repo := NewPersonnelRepository(mock)

	mock.ExpectExec("DELETE FROM personnel").WithArgs(int64(2)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), 2), apperrors.ErrPersonnelNotFound)
}
