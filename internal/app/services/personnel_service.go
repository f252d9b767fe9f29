package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/disa/mapa/internal/app/models"
	"github.com/disa/mapa/internal/app/models/dto"
	"github.com/disa/mapa/internal/app/roster"
	"github.com/disa/mapa/internal/pkg/apperrors"
	"github.com/disa/mapa/internal/pkg/cache"
	"github.com/disa/mapa/internal/pkg/logger"
	"github.com/disa/mapa/internal/pkg/metrics"
	"github.com/disa/mapa/internal/pkg/spreadsheet"
	"github.com/disa/mapa/internal/pkg/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PersonnelService owns the personnel list: loading it, deriving views and importing batches
type PersonnelService interface {
	PersonnelLoader
	View(ctx context.Context, criteria roster.Criteria) (roster.View, error)
	GetPersonnelByID(ctx context.Context, id int64) (*models.Personnel, error)
	CreatePersonnel(ctx context.Context, p *models.Personnel) (int64, error)
	UpdatePersonnel(ctx context.Context, p *models.Personnel) error
	DeletePersonnel(ctx context.Context, id int64) error
	ImportRows(ctx context.Context, rows []spreadsheet.Row, dryRun bool) (*dto.BatchResult, error)
	ImportSpreadsheet(ctx context.Context, r io.Reader, dryRun bool) (*dto.BatchResult, error)
}

// ImportLocker serializes imports across every process sharing the personnel table
type ImportLocker interface {
	WithImportLock(ctx context.Context, fn func(ctx context.Context) error) error
}

// PersonnelDeps are the collaborators of the personnel service. Writer, Cache, Events and
// Lock are optional.
type PersonnelDeps struct {
	Personnel    PersonnelStore
	Institutions InstitutionStore
	Specialties  LookupStore
	Writer       roster.OrderedBatchWriter
	Cache        cache.Cache
	Events       EventPublisher
	Lock         ImportLocker
}

// personnelServiceImpl implements the PersonnelService interface
type personnelServiceImpl struct {
	personnel    PersonnelStore
	institutions InstitutionStore
	specialties  LookupStore
	writer       roster.OrderedBatchWriter
	cache        cache.Cache
	events       EventPublisher
	lock         ImportLocker
	log          zerolog.Logger

	// importMu serializes imports of this process; lock covers the other processes
	importMu sync.Mutex

	// cacheMu guards generation and every cache write or invalidation of the list.
	// A Load only stores what it read if no write finished in between.
	cacheMu    sync.Mutex
	generation uint64
}

// NewPersonnelService creates a new personnel service instance
func NewPersonnelService(deps PersonnelDeps) PersonnelService {
	s := &personnelServiceImpl{
		personnel:    deps.Personnel,
		institutions: deps.Institutions,
		specialties:  deps.Specialties,
		writer:       deps.Writer,
		cache:        deps.Cache,
		events:       deps.Events,
		lock:         deps.Lock,
		log:          logger.Component("personnel"),
	}
	if s.writer == nil {
		s.writer = roster.NewSequentialWriter(deps.Personnel)
	}
	if s.cache == nil {
		s.cache = cache.Noop{}
	}
	if s.events == nil {
		s.events = noopPublisher{}
	}
	if s.lock == nil {
		s.lock = processLocker{}
	}
	return s
}

func (s *personnelServiceImpl) invalidate(ctx context.Context) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.generation++
	if err := s.cache.Delete(ctx, cache.KeyPersonnelList); err != nil {
		s.log.Warn().Err(err).Msg("Failed to invalidate personnel cache")
	}
}

// Load returns the full list, from the cache when possible
func (s *personnelServiceImpl) Load(ctx context.Context) ([]models.Personnel, error) {
	var cached []models.Personnel
	found, err := s.cache.Get(ctx, cache.KeyPersonnelList, &cached)
	if err != nil {
		s.log.Warn().Err(err).Msg("Personnel cache read failed")
	}
	if found {
		return cached, nil
	}

	s.cacheMu.Lock()
	gen := s.generation
	s.cacheMu.Unlock()

	list, err := s.personnel.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving personnel: %w", err)
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if gen != s.generation {
		// A write finished while we were reading; the list may predate it
		return list, nil
	}
	if err := s.cache.Set(ctx, cache.KeyPersonnelList, list); err != nil {
		s.log.Warn().Err(err).Msg("Personnel cache write failed")
	}
	return list, nil
}

// View loads the list and derives the filtered, ordered view
func (s *personnelServiceImpl) View(ctx context.Context, criteria roster.Criteria) (roster.View, error) {
	list, err := s.Load(ctx)
	if err != nil {
		return roster.View{}, err
	}
	return roster.ApplyFilter(list, criteria), nil
}

// GetPersonnelByID retrieves one record
func (s *personnelServiceImpl) GetPersonnelByID(ctx context.Context, id int64) (*models.Personnel, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid personnel ID", apperrors.ErrValidationFailed)
	}
	return s.personnel.GetByID(ctx, id)
}

// checkReferences verifies the destination institution and the specialty exist. Only the
// manual path calls it; imports trust the spreadsheet's destination codes.
func (s *personnelServiceImpl) checkReferences(ctx context.Context, p *models.Personnel) error {
	exists, err := s.institutions.ExistsByDestinationCode(ctx, p.DestinationCode)
	if err != nil {
		return fmt.Errorf("error checking destination: %w", err)
	}
	if !exists {
		return apperrors.NewCustomError(apperrors.ErrUnknownDestination, apperrors.ErrUnknownDestination.Error()).
			WithDetails(map[string]interface{}{"destinationCode": p.DestinationCode})
	}

	if p.SpecialtyID != nil {
		if _, err := s.specialties.GetByID(ctx, *p.SpecialtyID); err != nil {
			if errors.Is(err, apperrors.ErrLookupNotFound) {
				return apperrors.ErrUnknownSpecialty
			}
			return fmt.Errorf("error checking specialty: %w", err)
		}
	}
	return nil
}

func (s *personnelServiceImpl) validateManual(ctx context.Context, p *models.Personnel) error {
	if p == nil {
		return fmt.Errorf("%w: personnel is nil", apperrors.ErrValidationFailed)
	}
	if err := roster.ValidateManual(p); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}
	return s.checkReferences(ctx, p)
}

// CreatePersonnel creates a record entered by hand. Manual records never get an import sequence.
func (s *personnelServiceImpl) CreatePersonnel(ctx context.Context, p *models.Personnel) (int64, error) {
	if err := s.validateManual(ctx, p); err != nil {
		return 0, err
	}
	p.ImportSequence = nil

	id, err := s.personnel.Create(ctx, p)
	if err != nil {
		return 0, err
	}

	s.invalidate(ctx)
	s.events.Publish(websocket.Event{Type: websocket.EventPersonnelCreated, ID: id})
	return id, nil
}

// UpdatePersonnel updates a record. Its import sequence is kept as it was.
func (s *personnelServiceImpl) UpdatePersonnel(ctx context.Context, p *models.Personnel) error {
	if p != nil && p.ID <= 0 {
		return fmt.Errorf("%w: invalid personnel ID", apperrors.ErrValidationFailed)
	}
	if err := s.validateManual(ctx, p); err != nil {
		return err
	}

	if err := s.personnel.Update(ctx, p); err != nil {
		return err
	}

	s.invalidate(ctx)
	s.events.Publish(websocket.Event{Type: websocket.EventPersonnelUpdated, ID: p.ID})
	return nil
}

// DeletePersonnel deletes a record. The sequences of the remaining records are not compacted.
func (s *personnelServiceImpl) DeletePersonnel(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid personnel ID", apperrors.ErrValidationFailed)
	}
	if err := s.personnel.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	s.events.Publish(websocket.Event{Type: websocket.EventPersonnelDeleted, ID: id})
	return nil
}

// ImportSpreadsheet parses an xlsx workbook and imports its rows. A workbook that cannot be
// read fails the whole batch before anything is written.
func (s *personnelServiceImpl) ImportSpreadsheet(ctx context.Context, r io.Reader, dryRun bool) (*dto.BatchResult, error) {
	rows, err := spreadsheet.ReadRows(r)
	if err != nil {
		metrics.RecordUnreadableImport()
		s.log.Warn().Err(err).Msg("Rejected unreadable spreadsheet")
		return nil, apperrors.NewCustomError(apperrors.ErrUnreadableSpreadsheet, "spreadsheet could not be read").
			WithDetails(map[string]interface{}{"cause": err.Error()})
	}
	return s.ImportRows(ctx, rows, dryRun)
}

// ImportRows extracts, validates, sequences and persists rows in file order. Rejected rows
// and failed creates are reported without stopping the batch. With dryRun nothing is written.
func (s *personnelServiceImpl) ImportRows(ctx context.Context, rows []spreadsheet.Row, dryRun bool) (*dto.BatchResult, error) {
	s.importMu.Lock()
	defer s.importMu.Unlock()

	var result *dto.BatchResult
	err := s.lock.WithImportLock(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.importLocked(ctx, rows, dryRun)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// importLocked runs with the import lock held, from reading the sequence base until the
// last create.
func (s *personnelServiceImpl) importLocked(ctx context.Context, rows []spreadsheet.Row, dryRun bool) (*dto.BatchResult, error) {
	started := time.Now()
	result := &dto.BatchResult{
		BatchID:    uuid.New().String(),
		DryRun:     dryRun,
		RowsRead:   len(rows),
		Rejections: []roster.Rejection{},
		Failures:   []dto.RowFailure{},
	}
	log := s.log.With().Str("batchId", result.BatchID).Logger()

	plan := roster.Prepare(rows)
	for _, rej := range plan.Rejections {
		log.Warn().Int("row", rej.Row).Str("reason", rej.Reason).Msg("Row rejected")
	}
	result.Rejections = append(result.Rejections, plan.Rejections...)
	result.Rejected = len(plan.Rejections)
	result.Accepted = len(plan.Accepted)

	// The base comes from the stored list, never from the cache
	current, err := s.personnel.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading personnel for sequencing: %w", err)
	}
	drafts := roster.AssignSequences(roster.MaxSequence(current), plan.Accepted)
	if len(drafts) > 0 {
		result.FirstSeq = *drafts[0].Record.ImportSequence
		result.LastSeq = *drafts[len(drafts)-1].Record.ImportSequence
	}

	if !dryRun && len(drafts) > 0 {
		outcome := s.writer.WriteOrdered(ctx, drafts)
		result.Created = len(outcome.Created)
		for _, f := range outcome.Failures {
			log.Error().Err(f.Err).Int("row", f.Row).Int64("importSequence", f.ImportSequence).Msg("Row could not be saved")
			result.Failures = append(result.Failures, dto.RowFailure{
				Row:            f.Row,
				ImportSequence: f.ImportSequence,
				Reason:         f.Err.Error(),
			})
		}
		result.Failed = len(outcome.Failures)

		s.invalidate(ctx)
		s.events.Publish(websocket.Event{
			Type: websocket.EventPersonnelImported,
			Payload: map[string]interface{}{
				"batchId": result.BatchID,
				"created": result.Created,
				"failed":  result.Failed,
			},
		})
	}

	metrics.RecordImport(metrics.ImportOutcome{
		DryRun:   dryRun,
		Rejected: result.Rejected,
		Created:  result.Created,
		Failed:   result.Failed,
		Elapsed:  time.Since(started),
	})
	log.Info().
		Bool("dryRun", dryRun).
		Int("rowsRead", result.RowsRead).
		Int("rejected", result.Rejected).
		Int("created", result.Created).
		Int("failed", result.Failed).
		Msg("Import finished")

	return result, nil
}
