package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/disa/mapa/internal/app/models"
	"github.com/disa/mapa/internal/pkg/apperrors"
	"github.com/disa/mapa/internal/pkg/websocket"
)

type fakePersonnelStore struct {
	mu        sync.Mutex
	records   []models.Personnel
	nextID    int64
	listCalls int
	listErr   error
	failOn    func(p *models.Personnel) error
	// afterList runs once the snapshot is taken, outside the lock
	afterList func()
}

func (f *fakePersonnelStore) Create(_ context.Context, p *models.Personnel) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != nil {
		if err := f.failOn(p); err != nil {
			return 0, err
		}
	}
	f.nextID++
	p.ID = f.nextID
	f.records = append(f.records, *p)
	return p.ID, nil
}

func (f *fakePersonnelStore) GetByID(_ context.Context, id int64) (*models.Personnel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == id {
			p := f.records[i]
			return &p, nil
		}
	}
	return nil, apperrors.ErrPersonnelNotFound
}

func (f *fakePersonnelStore) List(context.Context) ([]models.Personnel, error) {
	f.mu.Lock()
	f.listCalls++
	if f.listErr != nil {
		f.mu.Unlock()
		return nil, f.listErr
	}
	snapshot := append([]models.Personnel(nil), f.records...)
	hook := f.afterList
	f.mu.Unlock()

	if hook != nil {
		hook()
	}
	return snapshot, nil
}

// sharedImportLock stands in for the database lock shared by several service instances
type sharedImportLock struct {
	mu       sync.Mutex
	attempts chan struct{}
}

func newSharedImportLock() *sharedImportLock {
	return &sharedImportLock{attempts: make(chan struct{}, 8)}
}

func (l *sharedImportLock) WithImportLock(ctx context.Context, fn func(ctx context.Context) error) error {
	l.attempts <- struct{}{}
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(ctx)
}

func (f *fakePersonnelStore) Update(_ context.Context, p *models.Personnel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == p.ID {
			seq := f.records[i].ImportSequence
			f.records[i] = *p
			f.records[i].ImportSequence = seq
			return nil
		}
	}
	return apperrors.ErrPersonnelNotFound
}

func (f *fakePersonnelStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrPersonnelNotFound
}

type fakeInstitutionStore struct {
	mu      sync.Mutex
	items   []models.Institution
	listErr error
}

func (f *fakeInstitutionStore) Create(_ context.Context, inst *models.Institution) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.DestinationCode == inst.DestinationCode {
			return 0, apperrors.ErrDestinationCodeTaken
		}
	}
	inst.ID = int64(len(f.items) + 1)
	f.items = append(f.items, *inst)
	return inst.ID, nil
}

func (f *fakeInstitutionStore) GetByID(_ context.Context, id int64) (*models.Institution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			it := f.items[i]
			return &it, nil
		}
	}
	return nil, apperrors.ErrInstitutionNotFound
}

func (f *fakeInstitutionStore) List(context.Context) ([]models.Institution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Institution(nil), f.items...), nil
}

func (f *fakeInstitutionStore) ExistsByDestinationCode(_ context.Context, code string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.DestinationCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInstitutionStore) Update(_ context.Context, inst *models.Institution) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == inst.ID {
			f.items[i] = *inst
			return nil
		}
	}
	return apperrors.ErrInstitutionNotFound
}

func (f *fakeInstitutionStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrInstitutionNotFound
}

type fakeLookupStore struct {
	kind    models.LookupKind
	entries []models.Lookup
	err     error
}

func (f *fakeLookupStore) Kind() models.LookupKind { return f.kind }

func (f *fakeLookupStore) List(context.Context) ([]models.Lookup, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Lookup(nil), f.entries...), nil
}

func (f *fakeLookupStore) GetByID(_ context.Context, id int64) (*models.Lookup, error) {
	for i := range f.entries {
		if f.entries[i].ID == id {
			l := f.entries[i]
			return &l, nil
		}
	}
	return nil, apperrors.ErrLookupNotFound
}

func (f *fakeLookupStore) Create(_ context.Context, l *models.Lookup) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	l.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, *l)
	return l.ID, nil
}

func (f *fakeLookupStore) Update(_ context.Context, l *models.Lookup) error {
	for i := range f.entries {
		if f.entries[i].ID == l.ID {
			f.entries[i] = *l
			return nil
		}
	}
	return apperrors.ErrLookupNotFound
}

func (f *fakeLookupStore) Delete(_ context.Context, id int64) error {
	for i := range f.entries {
		if f.entries[i].ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrLookupNotFound
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []websocket.Event
}

func (r *recordingPublisher) Publish(e websocket.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingPublisher) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

// memoryCache is a JSON round-tripping cache.Cache
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = raw
	return nil
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryCache) Close() error { return nil }

var errBoom = errors.New("boom")
