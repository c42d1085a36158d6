package repo

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/rogerio-castellano/stocktrack/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
type InMemoryProductRepository struct {
	st *memoryState
	mu sync.Locker
}

func matchesFilter(p models.Product, pf ProductFilter) bool {
	if pf.Search != "" {
		term := strings.ToLower(pf.Search)
		if !strings.Contains(strings.ToLower(p.Code), term) &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			return false
		}
	}
	if pf.CategoryID != nil && p.CategoryID != *pf.CategoryID {
		return false
	}
	if pf.SupplierID != nil && p.SupplierID != *pf.SupplierID {
		return false
	}
	if pf.LowStockOnly && !p.NeedsAlert() {
		return false
	}
	if pf.Active != nil && p.Active != *pf.Active {
		return false
	}
	return true
}

func (r *InMemoryProductRepository) Filter(_ context.Context, pf ProductFilter) ([]models.Product, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	filtered := []models.Product{}
	for _, p := range r.st.products {
		if matchesFilter(p, pf) {
			filtered = append(filtered, p)
		}
	}
	sort.Slice(filtered, func(i, j int) bool {
		if filtered[i].Name != filtered[j].Name {
			return filtered[i].Name < filtered[j].Name
		}
		return filtered[i].ID < filtered[j].ID
	})

	start, end := page(len(filtered), pf.Offset, pf.Limit)
	return filtered[start:end], len(filtered), nil
}

// Create adds a new product. Codes are unique across active and inactive products.
func (r *InMemoryProductRepository) Create(_ context.Context, p models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.st.products {
		if existing.Code == p.Code {
			return models.Product{}, ErrDuplicatedValueUnique
		}
	}
	p.ID = r.st.next("products")
	r.st.products[p.ID] = p
	return p, nil
}

func (r *InMemoryProductRepository) GetByID(_ context.Context, id int) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.st.products[id]
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

// GetByIDForUpdate is GetByID: transactions already hold the store lock.
func (r *InMemoryProductRepository) GetByIDForUpdate(ctx context.Context, id int) (models.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *InMemoryProductRepository) GetByCode(_ context.Context, code string) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.st.products {
		if strings.EqualFold(p.Code, code) {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) Update(_ context.Context, p models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.st.products[p.ID]; !ok {
		return models.Product{}, ErrProductNotFound
	}
	for _, existing := range r.st.products {
		if existing.ID != p.ID && existing.Code == p.Code {
			return models.Product{}, ErrDuplicatedValueUnique
		}
	}
	r.st.products[p.ID] = p
	return p, nil
}

func (r *InMemoryProductRepository) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.st.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.st.products, id)
	return nil
}

func (r *InMemoryProductRepository) CountByCategory(_ context.Context, categoryID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, p := range r.st.products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r *InMemoryProductRepository) CountBySupplier(_ context.Context, supplierID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, p := range r.st.products {
		if p.SupplierID == supplierID {
			n++
		}
	}
	return n, nil
}
