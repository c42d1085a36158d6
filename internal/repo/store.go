package repo

import (
	"context"
	"time"

	"github.com/rogerio-castellano/stocktrack/internal/models"
)

const queryTimeout = 3 * time.Second

type ProductRepository interface {
	Create(ctx context.Context, p models.Product) (models.Product, error)
	GetByID(ctx context.Context, id int) (models.Product, error)
	// GetByIDForUpdate loads the product and holds it until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id int) (models.Product, error)
	GetByCode(ctx context.Context, code string) (models.Product, error)
	Update(ctx context.Context, p models.Product) (models.Product, error)
	Delete(ctx context.Context, id int) error
	Filter(ctx context.Context, f ProductFilter) ([]models.Product, int, error)
	CountByCategory(ctx context.Context, categoryID int) (int, error)
	CountBySupplier(ctx context.Context, supplierID int) (int, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, c models.Category) (models.Category, error)
	GetByID(ctx context.Context, id int) (models.Category, error)
	GetByName(ctx context.Context, name string) (models.Category, error)
	Update(ctx context.Context, c models.Category) (models.Category, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, activeOnly bool) ([]models.Category, error)
}

type SupplierRepository interface {
	Create(ctx context.Context, s models.Supplier) (models.Supplier, error)
	GetByID(ctx context.Context, id int) (models.Supplier, error)
	GetByName(ctx context.Context, name string) (models.Supplier, error)
	Update(ctx context.Context, s models.Supplier) (models.Supplier, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, activeOnly bool) ([]models.Supplier, error)
}

// MovementRepository is append-only: ledger entries are never updated or deleted.
type MovementRepository interface {
	Create(ctx context.Context, m models.Movement) (models.Movement, error)
	GetByID(ctx context.Context, id int) (models.Movement, error)
	Filter(ctx context.Context, f MovementFilter) ([]models.Movement, int, error)
	CountByProduct(ctx context.Context, productID int) (int, error)
	// GetCancellation returns the entry compensating movementID, or ErrMovementNotFound.
	GetCancellation(ctx context.Context, movementID int) (models.Movement, error)
}

type AlertRepository interface {
	Create(ctx context.Context, a models.Alert) (models.Alert, error)
	GetByID(ctx context.Context, id int) (models.Alert, error)
	Update(ctx context.Context, a models.Alert) (models.Alert, error)
	// FindOpen returns the unresolved alert of kind for the product, or ErrAlertNotFound.
	FindOpen(ctx context.Context, productID int, kind models.AlertKind) (models.Alert, error)
	Filter(ctx context.Context, f AlertFilter) ([]models.Alert, int, error)
}

type UserRepository interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id int) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByResetToken(ctx context.Context, token string) (models.User, error)
	Update(ctx context.Context, u models.User) (models.User, error)
	List(ctx context.Context, f UserFilter) ([]models.User, error)
}

type SessionRepository interface {
	Create(ctx context.Context, s models.Session) error
	GetByID(ctx context.Context, id string) (models.Session, error)
	Update(ctx context.Context, s models.Session) error
	ListActiveByUser(ctx context.Context, userID int) ([]models.Session, error)
	CountActive(ctx context.Context, now time.Time) (int, error)
	// DeleteExpired removes sessions that expired before now and returns how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

type SettingRepository interface {
	Get(ctx context.Context, key string) (models.Setting, error)
	List(ctx context.Context, prefix string) ([]models.Setting, error)
	Upsert(ctx context.Context, s models.Setting) (models.Setting, error)
	// CreateIfMissing inserts s unless the key exists and reports whether it inserted.
	CreateIfMissing(ctx context.Context, s models.Setting) (bool, error)
	Delete(ctx context.Context, key string) error
}

// Repositories groups every repository bound to the same connection or transaction.
type Repositories struct {
	Products   ProductRepository
	Categories CategoryRepository
	Suppliers  SupplierRepository
	Movements  MovementRepository
	Alerts     AlertRepository
	Users      UserRepository
	Sessions   SessionRepository
	Settings   SettingRepository
}

// Store hands out repositories and runs units of work atomically.
type Store interface {
	Repos() Repositories
	// WithTx runs fn inside one transaction. Any error from fn rolls every change back.
	WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
}
