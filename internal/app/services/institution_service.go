package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/disa/mapa/internal/app/models"
	"github.com/disa/mapa/internal/pkg/apperrors"
	"github.com/disa/mapa/internal/pkg/cache"
	"github.com/disa/mapa/internal/pkg/logger"
	"github.com/disa/mapa/internal/pkg/validation"
	"github.com/disa/mapa/internal/pkg/websocket"
)

// InstitutionService defines the interface for institution operations
type InstitutionService interface {
	CreateInstitution(ctx context.Context, inst *models.Institution) (int64, error)
	GetInstitutionByID(ctx context.Context, id int64) (*models.Institution, error)
	List(ctx context.Context) ([]models.Institution, error)
	UpdateInstitution(ctx context.Context, inst *models.Institution) error
	DeleteInstitution(ctx context.Context, id int64) error
}

// institutionServiceImpl implements the InstitutionService interface
type institutionServiceImpl struct {
	repo   InstitutionStore
	cache  cache.Cache
	events EventPublisher
}

// NewInstitutionService creates a new institution service instance
func NewInstitutionService(repo InstitutionStore, c cache.Cache, events EventPublisher) InstitutionService {
	if c == nil {
		c = cache.Noop{}
	}
	if events == nil {
		events = noopPublisher{}
	}
	return &institutionServiceImpl{repo: repo, cache: c, events: events}
}

// validateInstitution normalizes the destination code and checks the enumerations
func (s *institutionServiceImpl) validateInstitution(inst *models.Institution) error {
	if inst == nil {
		return fmt.Errorf("%w: institution is nil", apperrors.ErrValidationFailed)
	}

	inst.DestinationCode = strings.ToUpper(strings.TrimSpace(inst.DestinationCode))
	if !validation.IsDestinationCode(inst.DestinationCode) {
		return fmt.Errorf("%w: destination code must be 4 letters or digits", apperrors.ErrValidationFailed)
	}
	if strings.TrimSpace(inst.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}
	if !inst.Kind.Valid() {
		return fmt.Errorf("%w: unknown institution kind %q", apperrors.ErrValidationFailed, inst.Kind)
	}
	if !inst.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", apperrors.ErrValidationFailed, inst.Category)
	}
	return nil
}

func (s *institutionServiceImpl) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.KeyInstitutionList); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate institution cache")
	}
}

// CreateInstitution creates a new institution
func (s *institutionServiceImpl) CreateInstitution(ctx context.Context, inst *models.Institution) (int64, error) {
	if err := s.validateInstitution(inst); err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, inst)
	if err != nil {
		if errors.Is(err, apperrors.ErrDestinationCodeTaken) {
			return 0, err
		}
		return 0, fmt.Errorf("error creating institution: %w", err)
	}

	s.invalidate(ctx)
	s.events.Publish(websocket.Event{Type: websocket.EventInstitutionCreated, ID: id})
	return id, nil
}

// GetInstitutionByID retrieves an institution by ID
func (s *institutionServiceImpl) GetInstitutionByID(ctx context.Context, id int64) (*models.Institution, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid institution ID", apperrors.ErrValidationFailed)
	}
	return s.repo.GetByID(ctx, id)
}

// List returns every institution, from the cache when possible
func (s *institutionServiceImpl) List(ctx context.Context) ([]models.Institution, error) {
	var cached []models.Institution
	found, err := s.cache.Get(ctx, cache.KeyInstitutionList, &cached)
	if err != nil {
		logger.Warn().Err(err).Msg("Institution cache read failed")
	}
	if found {
		return cached, nil
	}

	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving institutions: %w", err)
	}
	if err := s.cache.Set(ctx, cache.KeyInstitutionList, list); err != nil {
		logger.Warn().Err(err).Msg("Institution cache write failed")
	}
	return list, nil
}

// UpdateInstitution updates an existing institution
func (s *institutionServiceImpl) UpdateInstitution(ctx context.Context, inst *models.Institution) error {
	if inst != nil && inst.ID <= 0 {
		return fmt.Errorf("%w: invalid institution ID", apperrors.ErrValidationFailed)
	}
	if err := s.validateInstitution(inst); err != nil {
		return err
	}

	if err := s.repo.Update(ctx, inst); err != nil {
		return err
	}

	s.invalidate(ctx)
	s.events.Publish(websocket.Event{Type: websocket.EventInstitutionUpdated, ID: inst.ID})
	return nil
}

// DeleteInstitution deletes an institution. Personnel assigned to it keep their destination code.
func (s *institutionServiceImpl) DeleteInstitution(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid institution ID", apperrors.ErrValidationFailed)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	s.events.Publish(websocket.Event{Type: websocket.EventInstitutionDeleted, ID: id})
	return nil
}
