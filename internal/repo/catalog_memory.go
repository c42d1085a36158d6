package repo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rogerio-castellano/stocktrack/internal/models"
)

type InMemoryCategoryRepository struct {
	st *memoryState
	mu sync.Locker
}

func (r *InMemoryCategoryRepository) Create(_ context.Context, c models.Category) (models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.st.categories {
		if strings.EqualFold(existing.Name, c.Name) {
			return models.Category{}, ErrDuplicatedValueUnique
		}
	}
	c.ID = r.st.next("categories")
	r.st.categories[c.ID] = c
	return c, nil
}

func (r *InMemoryCategoryRepository) GetByID(_ context.Context, id int) (models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.st.categories[id]
	if !ok {
		return models.Category{}, ErrCategoryNotFound
	}
	return c, nil
}

func (r *InMemoryCategoryRepository) GetByName(_ context.Context, name string) (models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.st.categories {
		if strings.EqualFold(c.Name, name) {
			return c, nil
		}
	}
	return models.Category{}, ErrCategoryNotFound
}

func (r *InMemoryCategoryRepository) Update(_ context.Context, c models.Category) (models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.st.categories[c.ID]; !ok {
		return models.Category{}, ErrCategoryNotFound
	}
	for _, existing := range r.st.categories {
		if existing.ID != c.ID && strings.EqualFold(existing.Name, c.Name) {
			return models.Category{}, ErrDuplicatedValueUnique
		}
	}
	r.st.categories[c.ID] = c
	return c, nil
}

func (r *InMemoryCategoryRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.st.categories[id]; !ok {
		return ErrCategoryNotFound
	}
	delete(r.st.categories, id)
	return nil
}

func (r *InMemoryCategoryRepository) List(_ context.Context, activeOnly bool) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.Category{}
	for _, c := range r.st.categories {
		if activeOnly && !c.Active {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type InMemorySupplierRepository struct {
	st *memoryState
	mu sync.Locker
}

func (r *InMemorySupplierRepository) Create(_ context.Context, s models.Supplier) (models.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.st.suppliers {
		if strings.EqualFold(existing.Name, s.Name) {
			return models.Supplier{}, ErrDuplicatedValueUnique
		}
	}
	s.ID = r.st.next("suppliers")
	r.st.suppliers[s.ID] = s
	return s, nil
}

func (r *InMemorySupplierRepository) GetByID(_ context.Context, id int) (models.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.st.suppliers[id]
	if !ok {
		return models.Supplier{}, ErrSupplierNotFound
	}
	return s, nil
}

func (r *InMemorySupplierRepository) GetByName(_ context.Context, name string) (models.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.st.suppliers {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return models.Supplier{}, ErrSupplierNotFound
}

func (r *InMemorySupplierRepository) Update(_ context.Context, s models.Supplier) (models.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.st.suppliers[s.ID]; !ok {
		return models.Supplier{}, ErrSupplierNotFound
	}
	for _, existing := range r.st.suppliers {
		if existing.ID != s.ID && strings.EqualFold(existing.Name, s.Name) {
			return models.Supplier{}, ErrDuplicatedValueUnique
		}
	}
	r.st.suppliers[s.ID] = s
	return s, nil
}

func (r *InMemorySupplierRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.st.suppliers[id]; !ok {
		return ErrSupplierNotFound
	}
	delete(r.st.suppliers, id)
	return nil
}

func (r *InMemorySupplierRepository) List(_ context.Context, activeOnly bool) ([]models.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.Supplier{}
	for _, s := range r.st.suppliers {
		if activeOnly && !s.Active {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
