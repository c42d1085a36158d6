package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/rogerio-castellano/stocktrack/internal/models"
)

type InMemoryMovementRepository struct {
	st *memoryState
	mu sync.Locker
}

func (r *InMemoryMovementRepository) Create(_ context.Context, m models.Movement) (models.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m.ID = r.st.next("movements")
	r.st.movements = append(r.st.movements, m)
	return m, nil
}

func (r *InMemoryMovementRepository) GetByID(_ context.Context, id int) (models.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.st.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return models.Movement{}, ErrMovementNotFound
}

func matchesMovementFilter(m models.Movement, mf MovementFilter) bool {
	if mf.ProductID != nil && m.ProductID != *mf.ProductID {
		return false
	}
	if mf.Kind != nil && m.Kind != *mf.Kind {
		return false
	}
	if mf.Since != nil && m.CreatedAt.Before(*mf.Since) {
		return false
	}
	if mf.Until != nil && m.CreatedAt.After(*mf.Until) {
		return false
	}
	return true
}

// Filter returns matching movements newest first.
func (r *InMemoryMovementRepository) Filter(_ context.Context, mf MovementFilter) ([]models.Movement, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	filtered := []models.Movement{}
	for _, m := range r.st.movements {
		if matchesMovementFilter(m, mf) {
			filtered = append(filtered, m)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if !filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		}
		return filtered[i].ID > filtered[j].ID
	})

	start, end := page(len(filtered), mf.Offset, mf.Limit)
	return filtered[start:end], len(filtered), nil
}

func (r *InMemoryMovementRepository) CountByProduct(_ context.Context, productID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, m := range r.st.movements {
		if m.ProductID == productID {
			n++
		}
	}
	return n, nil
}

func (r *InMemoryMovementRepository) GetCancellation(_ context.Context, movementID int) (models.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.st.movements {
		if m.CancelsID != nil && *m.CancelsID == movementID {
			return m, nil
		}
	}
	return models.Movement{}, ErrMovementNotFound
}
