package repo_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rogerio-castellano/stocktrack/internal/db"
	"github.com/rogerio-castellano/stocktrack/internal/models"
	"github.com/rogerio-castellano/stocktrack/internal/repo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestDB connects to DATABASE_URL, or skips when it is not set.
func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}
	database, err := db.Connect(db.Options{URL: url})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(context.Background(), database))
	t.Cleanup(func() { database.Close() })
	return database
}

func TestPostgresStore_ProductLedgerRoundTrip(t *testing.T) {
	database := openTestDB(t)
	store := repo.NewPostgresStore(database)
	ctx := context.Background()
	suffix := uuid.NewString()[:8]
	now := time.Now().UTC().Truncate(time.Microsecond)

	var productID int
	err := store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		cat, err := r.Categories.Create(ctx, models.Category{Name: "cat-" + suffix, Color: models.DefaultCategoryColor, Active: true, CreatedAt: now})
		if err != nil {
			return err
		}
		sup, err := r.Suppliers.Create(ctx, models.Supplier{Name: "sup-" + suffix, Active: true, CreatedAt: now})
		if err != nil {
			return err
		}
		p, err := r.Products.Create(ctx, models.Product{
			Code: "PG-" + suffix, Name: "Postgres item", CategoryID: cat.ID, SupplierID: sup.ID,
			PurchasePrice: decimal.RequireFromString("3.25"), SalePrice: decimal.RequireFromString("5.00"),
			StockMinimum: 5, Unit: models.DefaultUnit, Active: true, CreatedAt: now, UpdatedAt: now,
		})
		if err != nil {
			return err
		}
		productID = p.ID

		locked, err := r.Products.GetByIDForUpdate(ctx, p.ID)
		if err != nil {
			return err
		}
		locked.StockCurrent = 12
		if _, err := r.Products.Update(ctx, locked); err != nil {
			return err
		}
		_, err = r.Movements.Create(ctx, models.Movement{
			ProductID: p.ID, Kind: models.MovementEntry, Quantity: 12, StockBefore: 0, StockAfter: 12,
			Reason: "initial stock", CreatedAt: now,
		})
		return err
	})
	require.NoError(t, err)

	p, err := store.Repos().Products.GetByID(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 12, p.StockCurrent)
	assert.True(t, decimal.RequireFromString("3.25").Equal(p.PurchasePrice))
	assert.False(t, p.Weight.Valid)

	pid := productID
	movements, total, err := store.Repos().Movements.Filter(ctx, repo.MovementFilter{ProductID: &pid})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Nil(t, movements[0].UserID)
}

func TestPostgresStore_RollbackOnError(t *testing.T) {
	database := openTestDB(t)
	store := repo.NewPostgresStore(database)
	ctx := context.Background()
	name := "rollback-" + uuid.NewString()[:8]

	boom := errors.New("boom")
	err := store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		if _, err := r.Categories.Create(ctx, models.Category{Name: name, Active: true, CreatedAt: time.Now()}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.Repos().Categories.GetByName(ctx, name)
	assert.ErrorIs(t, err, repo.ErrCategoryNotFound)
}
