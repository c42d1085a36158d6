package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rogerio-castellano/stocktrack/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_WithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	created, err := store.Repos().Products.Create(ctx, models.Product{Code: "A1", Name: "Alpha", Active: true})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.WithTx(ctx, func(ctx context.Context, r Repositories) error {
		p, err := r.Products.GetByIDForUpdate(ctx, created.ID)
		require.NoError(t, err)
		p.StockCurrent = 50
		_, err = r.Products.Update(ctx, p)
		require.NoError(t, err)
		_, err = r.Movements.Create(ctx, models.Movement{ProductID: p.ID, Kind: models.MovementEntry, Quantity: 50, StockAfter: 50})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := store.Repos().Products.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.StockCurrent)

	n, err := store.Repos().Movements.CountByProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMemoryStore_WithTxCommits(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.WithTx(ctx, func(ctx context.Context, r Repositories) error {
		_, err := r.Categories.Create(ctx, models.Category{Name: "Tools", Active: true})
		return err
	})
	require.NoError(t, err)

	list, err := store.Repos().Categories.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestInMemoryProductRepository_FilterAndUniqueness(t *testing.T) {
	ctx := context.Background()
	products := NewMemoryStore().Repos().Products

	seed := []models.Product{
		{Code: "SCR-1", Name: "Screwdriver", Description: "flat head", CategoryID: 1, StockCurrent: 2, StockMinimum: 5, Active: true},
		{Code: "HAM-1", Name: "Hammer", CategoryID: 1, StockCurrent: 20, StockMinimum: 5, Active: true},
		{Code: "NAI-1", Name: "Nails", CategoryID: 2, StockCurrent: 500, StockMinimum: 100, Active: true},
		{Code: "OLD-1", Name: "Old saw", CategoryID: 1, Active: false},
	}
	for _, p := range seed {
		_, err := products.Create(ctx, p)
		require.NoError(t, err)
	}

	_, err := products.Create(ctx, models.Product{Code: "HAM-1", Name: "Other"})
	assert.ErrorIs(t, err, ErrDuplicatedValueUnique)

	active := true
	cat := 1
	tests := []struct {
		name  string
		f     ProductFilter
		names []string
		total int
	}{
		{"active sorted by name", ProductFilter{Active: &active}, []string{"Hammer", "Nails", "Screwdriver"}, 3},
		{"search in description", ProductFilter{Search: "FLAT"}, []string{"Screwdriver"}, 1},
		{"search in code", ProductFilter{Search: "nai"}, []string{"Nails"}, 1},
		{"category", ProductFilter{CategoryID: &cat, Active: &active}, []string{"Hammer", "Screwdriver"}, 2},
		{"low stock", ProductFilter{LowStockOnly: true, Active: &active}, []string{"Screwdriver"}, 1},
		{"paged", ProductFilter{Active: &active, Offset: intPtr(1), Limit: intPtr(1)}, []string{"Nails"}, 3},
		{"offset past end", ProductFilter{Active: &active, Offset: intPtr(10)}, []string{}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := products.Filter(ctx, tt.f)
			require.NoError(t, err)
			assert.Equal(t, tt.total, total)
			names := []string{}
			for _, p := range got {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.names, names)
		})
	}
}

func TestInMemoryMovementRepository_NewestFirstAndCancellation(t *testing.T) {
	ctx := context.Background()
	movements := NewMemoryStore().Repos().Movements
	base := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)

	first, _ := movements.Create(ctx, models.Movement{ProductID: 1, Kind: models.MovementEntry, Quantity: 10, CreatedAt: base})
	second, _ := movements.Create(ctx, models.Movement{ProductID: 1, Kind: models.MovementExit, Quantity: 3, CreatedAt: base.Add(time.Hour)})
	_, _ = movements.Create(ctx, models.Movement{ProductID: 2, Kind: models.MovementEntry, Quantity: 1, CreatedAt: base})

	pid := 1
	got, total, err := movements.Filter(ctx, MovementFilter{ProductID: &pid})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)

	_, err = movements.GetCancellation(ctx, second.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, _ = movements.Create(ctx, models.Movement{ProductID: 1, Kind: models.MovementEntry, Quantity: 3, CancelsID: &second.ID})
	c, err := movements.GetCancellation(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MovementEntry, c.Kind)
}

func TestInMemoryAlertRepository_OneOpenAlertPerKind(t *testing.T) {
	ctx := context.Background()
	alerts := NewMemoryStore().Repos().Alerts

	a, err := alerts.Create(ctx, models.Alert{ProductID: 1, Kind: models.AlertLowStock, Priority: models.PriorityMedium})
	require.NoError(t, err)

	_, err = alerts.Create(ctx, models.Alert{ProductID: 1, Kind: models.AlertLowStock, Priority: models.PriorityHigh})
	assert.ErrorIs(t, err, ErrDuplicatedValueUnique)

	_, err = alerts.Create(ctx, models.Alert{ProductID: 1, Kind: models.AlertOutOfStock, Priority: models.PriorityCritical})
	require.NoError(t, err)

	a.Resolved = true
	_, err = alerts.Update(ctx, a)
	require.NoError(t, err)

	_, err = alerts.FindOpen(ctx, 1, models.AlertLowStock)
	assert.ErrorIs(t, err, ErrAlertNotFound)

	got, total, err := alerts.Filter(ctx, AlertFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, models.PriorityCritical, got[0].Priority)
}

func intPtr(v int) *int { return &v }
