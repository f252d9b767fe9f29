package services

import (
	"context"
	"testing"

	"github.com/disa/mapa/internal/app/models"
	"github.com/disa/mapa/internal/pkg/apperrors"
	"github.com/disa/mapa/internal/pkg/cache"
	"github.com/disa/mapa/internal/pkg/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInstitution(code string) *models.Institution {
	return &models.Institution{
		DestinationCode: code,
		Name:            "Enfermería Base Naval",
		Kind:            models.InstitutionInfirmary,
		Category:        models.CategoryII,
		Latitude:        -38.88,
		Longitude:       -62.10,
	}
}

func TestCreateInstitution(t *testing.T) {
	store := &fakeInstitutionStore{}
	events := &recordingPublisher{}
	svc := NewInstitutionService(store, nil, events)
	ctx := context.Background()

	id, err := svc.CreateInstitution(ctx, newInstitution(" bnpb "))
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Equal(t, "BNPB", store.items[0].DestinationCode)
	assert.Equal(t, []string{websocket.EventInstitutionCreated}, events.types())

	_, err = svc.CreateInstitution(ctx, newInstitution("BNPB"))
	assert.ErrorIs(t, err, apperrors.ErrDestinationCodeTaken)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestCreateInstitution_Validation(t *testing.T) {
	svc := NewInstitutionService(&fakeInstitutionStore{}, nil, nil)

	tests := []struct {
		name   string
		mutate func(*models.Institution)
	}{
		{"short code", func(i *models.Institution) { i.DestinationCode = "AB1" }},
		{"symbol in code", func(i *models.Institution) { i.DestinationCode = "AB-1" }},
		{"empty name", func(i *models.Institution) { i.Name = "  " }},
		{"unknown kind", func(i *models.Institution) { i.Kind = "clinic" }},
		{"unknown category", func(i *models.Institution) { i.Category = "IV" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := newInstitution("HNPM")
			tt.mutate(inst)
			_, err := svc.CreateInstitution(context.Background(), inst)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
}

func TestInstitutionList_CachedAndInvalidated(t *testing.T) {
	store := &fakeInstitutionStore{}
	c := newMemoryCache()
	svc := NewInstitutionService(store, c, nil)
	ctx := context.Background()

	_, err := svc.CreateInstitution(ctx, newInstitution("HNPM"))
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	store.listErr = errBoom
	list, err = svc.List(ctx)
	require.NoError(t, err, "second read comes from the cache")
	assert.Len(t, list, 1)

	inst := list[0]
	inst.Name = "Hospital Naval"
	require.NoError(t, svc.UpdateInstitution(ctx, &inst))
	var cached []models.Institution
	found, _ := c.Get(ctx, cache.KeyInstitutionList, &cached)
	assert.False(t, found)

	_, err = svc.List(ctx)
	assert.ErrorIs(t, err, errBoom)
}

func TestDeleteInstitution(t *testing.T) {
	store := &fakeInstitutionStore{}
	events := &recordingPublisher{}
	svc := NewInstitutionService(store, nil, events)
	ctx := context.Background()

	id, err := svc.CreateInstitution(ctx, newInstitution("HNPM"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteInstitution(ctx, id))
	assert.Empty(t, store.items)
	assert.Equal(t, []string{websocket.EventInstitutionCreated, websocket.EventInstitutionDeleted}, events.types())

	assert.ErrorIs(t, svc.DeleteInstitution(ctx, id), apperrors.ErrInstitutionNotFound)
	assert.ErrorIs(t, svc.DeleteInstitution(ctx, -1), apperrors.ErrValidationFailed)

	_, err = svc.GetInstitutionByID(ctx, id)
	assert.ErrorIs(t, err, apperrors.ErrInstitutionNotFound)
}
