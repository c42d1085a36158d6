package repo

import (
	"context"
	"sort"
	"sync"

	"github.com/rogerio-castellano/stocktrack/internal/models"
)

type InMemoryAlertRepository struct {
	st *memoryState
	mu sync.Locker
}

// Create stores a new alert. Only one unresolved alert per product and kind may exist.
func (r *InMemoryAlertRepository) Create(_ context.Context, a models.Alert) (models.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !a.Resolved && r.hasOpen(a.ProductID, a.Kind, 0) {
		return models.Alert{}, ErrDuplicatedValueUnique
	}
	a.ID = r.st.next("alerts")
	r.st.alerts[a.ID] = a
	return a, nil
}

func (r *InMemoryAlertRepository) hasOpen(productID int, kind models.AlertKind, exceptID int) bool {
	for _, a := range r.st.alerts {
		if a.ID != exceptID && a.ProductID == productID && a.Kind == kind && !a.Resolved {
			return true
		}
	}
	return false
}

func (r *InMemoryAlertRepository) GetByID(_ context.Context, id int) (models.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.st.alerts[id]
	if !ok {
		return models.Alert{}, ErrAlertNotFound
	}
	return a, nil
}

func (r *InMemoryAlertRepository) Update(_ context.Context, a models.Alert) (models.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.st.alerts[a.ID]; !ok {
		return models.Alert{}, ErrAlertNotFound
	}
	if !a.Resolved && r.hasOpen(a.ProductID, a.Kind, a.ID) {
		return models.Alert{}, ErrDuplicatedValueUnique
	}
	r.st.alerts[a.ID] = a
	return a, nil
}

func (r *InMemoryAlertRepository) FindOpen(_ context.Context, productID int, kind models.AlertKind) (models.Alert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.st.alerts {
		if a.ProductID == productID && a.Kind == kind && !a.Resolved {
			return a, nil
		}
	}
	return models.Alert{}, ErrAlertNotFound
}

func matchesAlertFilter(a models.Alert, af AlertFilter) bool {
	if af.ProductID != nil && a.ProductID != *af.ProductID {
		return false
	}
	if af.Kind != nil && a.Kind != *af.Kind {
		return false
	}
	if af.Priority != nil && a.Priority != *af.Priority {
		return false
	}
	if af.Resolved != nil && a.Resolved != *af.Resolved {
		return false
	}
	return true
}

// Filter returns matching alerts, highest priority first, then newest.
func (r *InMemoryAlertRepository) Filter(_ context.Context, af AlertFilter) ([]models.Alert, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	filtered := []models.Alert{}
	for _, a := range r.st.alerts {
		if matchesAlertFilter(a, af) {
			filtered = append(filtered, a)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		ri, rj := filtered[i].Priority.Rank(), filtered[j].Priority.Rank()
		if ri != rj {
			return ri > rj
		}
		if !filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		}
		return filtered[i].ID > filtered[j].ID
	})

	start, end := page(len(filtered), af.Offset, af.Limit)
	return filtered[start:end], len(filtered), nil
}
