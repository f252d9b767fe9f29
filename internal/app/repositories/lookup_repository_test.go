package repositories

import (
	"context"
	"testing"

	"github.com/disa/mapa/internal/app/models"
	"github.com/disa/mapa/internal/pkg/apperrors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupRepository_ListUsesKindTable(t *testing.T) {
	mock := newMock(t)
	repo := NewLookupRepository(mock, models.LookupSpecialty)

	mock.ExpectQuery("SELECT id, name, color, description FROM specialties ORDER BY name ASC").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "color", "description"}).
			AddRow(int64(1), "Cardiología", "#e53935", "").
			AddRow(int64(2), "Traumatología", "#1e88e5", "Guardia"))

	entries, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Traumatología", entries[1].Name)
	assert.Equal(t, models.LookupSpecialty, repo.Kind())
}

func TestLookupRepository_CreateDuplicateName(t *testing.T) {
	mock := newMock(t)
	repo := NewLookupRepository(mock, models.LookupPersonnelType)

	mock.ExpectQuery("INSERT INTO personnel_types").
		WithArgs("Militar", "#0d47a1", "").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.Lookup{Name: "Militar", Color: "#0d47a1"})
	assert.ErrorIs(t, err, apperrors.ErrLookupNameTaken)
}

func TestLookupRepository_EnsureDefaults(t *testing.T) {
	mock := newMock(t)
	repo := NewLookupRepository(mock, models.LookupPersonnelType)

	mock.ExpectExec("INSERT INTO personnel_types (.+) ON CONFLICT").WithArgs("Militar", "#1565c0", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO personnel_types (.+) ON CONFLICT").WithArgs("Civil", "#2e7d32", "").
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	err := repo.EnsureDefaults(context.Background(), []models.Lookup{
		{Name: "Militar", Color: "#1565c0"},
		{Name: "Civil", Color: "#2e7d32"},
	})
	require.NoError(t, err)
}
