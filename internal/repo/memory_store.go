package repo

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/rogerio-castellano/stocktrack/internal/models"
)

type memoryState struct {
	products   map[int]models.Product
	categories map[int]models.Category
	suppliers  map[int]models.Supplier
	movements  []models.Movement
	alerts     map[int]models.Alert
	users      map[int]models.User
	sessions   map[string]models.Session
	settings   map[string]models.Setting
	nextID     map[string]int
}

func newMemoryState() *memoryState {
	return &memoryState{
		products:   map[int]models.Product{},
		categories: map[int]models.Category{},
		suppliers:  map[int]models.Supplier{},
		alerts:     map[int]models.Alert{},
		users:      map[int]models.User{},
		sessions:   map[string]models.Session{},
		settings:   map[string]models.Setting{},
		nextID:     map[string]int{},
	}
}

func (s *memoryState) clone() memoryState {
	return memoryState{
		products:   maps.Clone(s.products),
		categories: maps.Clone(s.categories),
		suppliers:  maps.Clone(s.suppliers),
		movements:  slices.Clone(s.movements),
		alerts:     maps.Clone(s.alerts),
		users:      maps.Clone(s.users),
		sessions:   maps.Clone(s.sessions),
		settings:   maps.Clone(s.settings),
		nextID:     maps.Clone(s.nextID),
	}
}

func (s *memoryState) next(table string) int {
	s.nextID[table]++
	return s.nextID[table]
}

// noopLocker is handed to repositories running inside WithTx, which already holds the store lock.
type noopLocker struct{}

func (noopLocker) Lock()   {}
func (noopLocker) Unlock() {}

// MemoryStore keeps everything in process. Transactions are serialized by a single mutex
// and rolled back by restoring a snapshot taken when they started.
type MemoryStore struct {
	mu    sync.Mutex
	state *memoryState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newMemoryState()}
}

func (s *MemoryStore) Repos() Repositories {
	return s.repos(&s.mu)
}

func (s *MemoryStore) repos(mu sync.Locker) Repositories {
	return Repositories{
		Products:   &InMemoryProductRepository{st: s.state, mu: mu},
		Categories: &InMemoryCategoryRepository{st: s.state, mu: mu},
		Suppliers:  &InMemorySupplierRepository{st: s.state, mu: mu},
		Movements:  &InMemoryMovementRepository{st: s.state, mu: mu},
		Alerts:     &InMemoryAlertRepository{st: s.state, mu: mu},
		Users:      &InMemoryUserRepository{st: s.state, mu: mu},
		Sessions:   &InMemorySessionRepository{st: s.state, mu: mu},
		Settings:   &InMemorySettingRepository{st: s.state, mu: mu},
	}
}

func (s *MemoryStore) WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(ctx, s.repos(noopLocker{})); err != nil {
		*s.state = snapshot
		return err
	}
	return nil
}

// Clear drops all data. Used by tests between cases.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	*s.state = *newMemoryState()
}
