package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/disa/mapa/internal/app/models"
	"github.com/disa/mapa/internal/app/models/dto"
	"github.com/disa/mapa/internal/pkg/apperrors"
	"github.com/disa/mapa/internal/pkg/cache"
	"github.com/disa/mapa/internal/pkg/logger"
	"github.com/disa/mapa/internal/pkg/websocket"
	"golang.org/x/sync/errgroup"
)

// DefaultPersonnelTypes stand in for the personnel type table when it cannot be read, and
// seed it on first start
var DefaultPersonnelTypes = []models.Lookup{
	{Name: "Militar", Color: "#1565c0", Description: "Personal militar"},
	{Name: "Civil", Color: "#2e7d32", Description: "Personal civil"},
}

// LookupService defines the operations on personnel types and specialties
type LookupService interface {
	List(ctx context.Context, kind models.LookupKind) ([]models.Lookup, error)
	Create(ctx context.Context, kind models.LookupKind, l *models.Lookup) (int64, error)
	Update(ctx context.Context, kind models.LookupKind, l *models.Lookup) error
	Delete(ctx context.Context, kind models.LookupKind, id int64) error
	FilterOptions(ctx context.Context) *dto.FilterOptions
}

// lookupServiceImpl implements the LookupService interface
type lookupServiceImpl struct {
	stores map[models.LookupKind]LookupStore
	cache  cache.Cache
	events EventPublisher
}

// NewLookupService creates a lookup service over the given stores, keyed by their kind
func NewLookupService(c cache.Cache, events EventPublisher, stores ...LookupStore) LookupService {
	if c == nil {
		c = cache.Noop{}
	}
	if events == nil {
		events = noopPublisher{}
	}
	s := &lookupServiceImpl{stores: make(map[models.LookupKind]LookupStore, len(stores)), cache: c, events: events}
	for _, st := range stores {
		s.stores[st.Kind()] = st
	}
	return s
}

func (s *lookupServiceImpl) store(kind models.LookupKind) (LookupStore, error) {
	st, ok := s.stores[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownLookupKind, kind)
	}
	return st, nil
}

func validateLookup(l *models.Lookup) error {
	if l == nil {
		return fmt.Errorf("%w: lookup is nil", apperrors.ErrValidationFailed)
	}
	l.Name = strings.TrimSpace(l.Name)
	if l.Name == "" {
		return fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}
	return nil
}

// changed publishes the change. Specialty names are part of the cached personnel list.
func (s *lookupServiceImpl) changed(ctx context.Context, kind models.LookupKind, id int64) {
	if kind == models.LookupSpecialty {
		if err := s.cache.Delete(ctx, cache.KeyPersonnelList); err != nil {
			logger.Warn().Err(err).Msg("Failed to invalidate personnel cache")
		}
	}
	s.events.Publish(websocket.Event{Type: websocket.EventLookupChanged, ID: id, Payload: map[string]string{"kind": string(kind)}})
}

// List returns every entry of kind
func (s *lookupServiceImpl) List(ctx context.Context, kind models.LookupKind) ([]models.Lookup, error) {
	st, err := s.store(kind)
	if err != nil {
		return nil, err
	}
	return st.List(ctx)
}

// Create adds an entry to kind
func (s *lookupServiceImpl) Create(ctx context.Context, kind models.LookupKind, l *models.Lookup) (int64, error) {
	st, err := s.store(kind)
	if err != nil {
		return 0, err
	}
	if err := validateLookup(l); err != nil {
		return 0, err
	}

	id, err := st.Create(ctx, l)
	if err != nil {
		return 0, err
	}
	s.changed(ctx, kind, id)
	return id, nil
}

// Update overwrites an entry of kind
func (s *lookupServiceImpl) Update(ctx context.Context, kind models.LookupKind, l *models.Lookup) error {
	st, err := s.store(kind)
	if err != nil {
		return err
	}
	if err := validateLookup(l); err != nil {
		return err
	}
	if l.ID <= 0 {
		return fmt.Errorf("%w: invalid lookup ID", apperrors.ErrValidationFailed)
	}

	if err := st.Update(ctx, l); err != nil {
		return err
	}
	s.changed(ctx, kind, l.ID)
	return nil
}

// Delete removes an entry of kind
func (s *lookupServiceImpl) Delete(ctx context.Context, kind models.LookupKind, id int64) error {
	st, err := s.store(kind)
	if err != nil {
		return err
	}
	if id <= 0 {
		return fmt.Errorf("%w: invalid lookup ID", apperrors.ErrValidationFailed)
	}

	if err := st.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, kind, id)
	return nil
}

// FilterOptions loads both lookups concurrently. Each one falls back on its own: personnel
// types to the defaults, specialties to an empty list.
func (s *lookupServiceImpl) FilterOptions(ctx context.Context) *dto.FilterOptions {
	var (
		types, specialties   []models.Lookup
		typesErr, specialErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		types, typesErr = s.List(ctx, models.LookupPersonnelType)
		return nil
	})
	g.Go(func() error {
		specialties, specialErr = s.List(ctx, models.LookupSpecialty)
		return nil
	})
	_ = g.Wait()

	opts := &dto.FilterOptions{PersonnelTypes: types, Specialties: specialties}
	if typesErr != nil {
		logger.Warn().Err(typesErr).Msg("Personnel types unavailable, using defaults")
		opts.Warnings = append(opts.Warnings, "personnel types unavailable, showing defaults")
		opts.PersonnelTypes = append([]models.Lookup(nil), DefaultPersonnelTypes...)
	}
	if specialErr != nil {
		logger.Warn().Err(specialErr).Msg("Specialties unavailable, using an empty list")
		opts.Warnings = append(opts.Warnings, "specialties unavailable")
		opts.Specialties = nil
	}
	if opts.PersonnelTypes == nil {
		opts.PersonnelTypes = []models.Lookup{}
	}
	if opts.Specialties == nil {
		opts.Specialties = []models.Lookup{}
	}
	return opts
}
