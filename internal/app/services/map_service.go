package services

import (
	"context"

	"github.com/disa/mapa/internal/app/models"
	"github.com/disa/mapa/internal/app/roster"
	"golang.org/x/sync/errgroup"
)

// MapService builds the institution markers of the resource map
type MapService interface {
	Markers(ctx context.Context, filter roster.MarkerFilter) ([]roster.Marker, error)
}

type mapServiceImpl struct {
	institutions InstitutionLister
	personnel    PersonnelLoader
}

// NewMapService creates a new map service instance
func NewMapService(institutions InstitutionLister, personnel PersonnelLoader) MapService {
	return &mapServiceImpl{institutions: institutions, personnel: personnel}
}

// Markers loads institutions and personnel concurrently and joins them
func (s *mapServiceImpl) Markers(ctx context.Context, filter roster.MarkerFilter) ([]roster.Marker, error) {
	var (
		institutions []models.Institution
		personnel    []models.Personnel
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		institutions, err = s.institutions.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		personnel, err = s.personnel.Load(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return roster.BuildMarkers(institutions, personnel, filter), nil
}
