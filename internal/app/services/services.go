package services

import (
	"context"

	"github.com/disa/mapa/internal/app/models"
	"github.com/disa/mapa/internal/app/roster"
	"github.com/disa/mapa/internal/pkg/websocket"
)

// Services defined in this package:
// - AuthService: checks operator credentials and issues tokens
// - InstitutionService: institution CRUD
// - PersonnelService: personnel CRUD, the filtered view and spreadsheet imports
// - LookupService: personnel types, specialties and the filter options
// - StatsService: dashboard aggregates
// - MapService: institution markers

// InstitutionStore is the persistence used by InstitutionService
type InstitutionStore interface {
	Create(ctx context.Context, inst *models.Institution) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Institution, error)
	List(ctx context.Context) ([]models.Institution, error)
	ExistsByDestinationCode(ctx context.Context, code string) (bool, error)
	Update(ctx context.Context, inst *models.Institution) error
	Delete(ctx context.Context, id int64) error
}

// PersonnelStore is the persistence used by PersonnelService
type PersonnelStore interface {
	roster.Creator
	GetByID(ctx context.Context, id int64) (*models.Personnel, error)
	List(ctx context.Context) ([]models.Personnel, error)
	Update(ctx context.Context, p *models.Personnel) error
	Delete(ctx context.Context, id int64) error
}

// LookupStore is the persistence of one lookup table
type LookupStore interface {
	Kind() models.LookupKind
	List(ctx context.Context) ([]models.Lookup, error)
	GetByID(ctx context.Context, id int64) (*models.Lookup, error)
	Create(ctx context.Context, l *models.Lookup) (int64, error)
	Update(ctx context.Context, l *models.Lookup) error
	Delete(ctx context.Context, id int64) error
}

// EventPublisher pushes change events to connected dashboards
type EventPublisher interface {
	Publish(event websocket.Event)
}

// PersonnelLoader returns the full personnel list
type PersonnelLoader interface {
	Load(ctx context.Context) ([]models.Personnel, error)
}

// InstitutionLister returns every institution
type InstitutionLister interface {
	List(ctx context.Context) ([]models.Institution, error)
}

// processLocker is the ImportLocker used without a database lock; importMu already
// serializes the batches of one process
type processLocker struct{}

func (processLocker) WithImportLock(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type noopPublisher struct{}

func (noopPublisher) Publish(websocket.Event) {}
