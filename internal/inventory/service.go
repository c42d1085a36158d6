// Package inventory keeps product stock, the movement ledger and stock alerts consistent.
// Every mutating operation runs in a single store transaction.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rogerio-castellano/stocktrack/internal/models"
	"github.com/rogerio-castellano/stocktrack/internal/repo"
	"github.com/rogerio-castellano/stocktrack/internal/settings"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultPageSize    = 20
	MaxPageSize        = 100
	DefaultHistorySize = 50
)

// Notifier is told about alerts worth a human's attention once they are committed.
type Notifier interface {
	AlertRaised(ctx context.Context, alert models.Alert, product models.Product)
}

type noopNotifier struct{}

func (noopNotifier) AlertRaised(context.Context, models.Alert, models.Product) {}

type Service struct {
	store    repo.Store
	settings *settings.Service
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
	encodeQR func(payload string) (string, error)
}

func NewService(store repo.Store, settingsSvc *settings.Service, notifier Notifier, logger *zap.Logger) *Service {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Service{
		store:    store,
		settings: settingsSvc,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		encodeQR: EncodeQRDataURL,
	}
}

// alertPolicy is read from settings before a transaction starts.
type alertPolicy struct {
	enabled     bool
	notify      bool
	excessLimit int
}

func (s *Service) policy(ctx context.Context) alertPolicy {
	return alertPolicy{
		enabled:     s.settings.Bool(ctx, settings.KeyLowStockAlerts, true),
		notify:      s.settings.Bool(ctx, settings.KeyEmailNotifications, true),
		excessLimit: int(s.settings.Number(ctx, settings.KeyExcessLimit, settings.DefaultExcessLimit)),
	}
}

// OverdueWindow is how long an alert may stay unresolved before it counts as overdue.
func (s *Service) OverdueWindow(ctx context.Context) time.Duration {
	days := s.settings.Number(ctx, settings.KeyOverdueDays, settings.DefaultOverdueDays)
	return time.Duration(days * float64(24*time.Hour))
}

func (s *Service) notifyRaised(ctx context.Context, p models.Product, alerts []models.Alert, pol alertPolicy) {
	for _, a := range alerts {
		s.logger.Info("alert raised",
			zap.Int("product_id", p.ID),
			zap.String("kind", string(a.Kind)),
			zap.String("priority", string(a.Priority)))
		if pol.notify && a.Priority.Rank() >= models.PriorityHigh.Rank() {
			s.notifier.AlertRaised(ctx, a, p)
		}
	}
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type CreateProductInput struct {
	Code          string
	Name          string
	Description   string
	CategoryID    int
	SupplierID    int
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	StockMinimum  *int
	InitialStock  int
	Location      string
	Unit          string
	Weight        decimal.NullDecimal
	Dimensions    string
	UserID        *int
}

func (in CreateProductInput) validate() error {
	var errs ValidationErrors
	if NormalizeCode(in.Code) == "" {
		errs = append(errs, FieldError{Field: "codigo_producto", Description: "code is required"})
	}
	if strings.TrimSpace(in.Name) == "" {
		errs = append(errs, FieldError{Field: "nombre_producto", Description: "name is required"})
	}
	if in.PurchasePrice.IsNegative() {
		errs = append(errs, FieldError{Field: "precio_compra", Description: "purchase price cannot be negative"})
	}
	if in.SalePrice.IsNegative() {
		errs = append(errs, FieldError{Field: "precio_venta", Description: "sale price cannot be negative"})
	}
	if in.StockMinimum != nil && *in.StockMinimum < 0 {
		errs = append(errs, FieldError{Field: "stock_minimo", Description: "minimum stock cannot be negative"})
	}
	if in.InitialStock < 0 {
		errs = append(errs, FieldError{Field: "stock_actual", Description: "initial stock cannot be negative"})
	}
	if in.Weight.Valid && in.Weight.Decimal.IsNegative() {
		errs = append(errs, FieldError{Field: "peso", Description: "weight cannot be negative"})
	}
	return errs.orNil()
}

// checkReferences fails with ErrInvalidReference unless both category and supplier exist and are active.
func checkReferences(ctx context.Context, r repo.Repositories, categoryID, supplierID int) error {
	cat, err := r.Categories.GetByID(ctx, categoryID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && !cat.Active) {
		return fmt.Errorf("%w: category %d", ErrInvalidReference, categoryID)
	}
	if err != nil {
		return err
	}
	sup, err := r.Suppliers.GetByID(ctx, supplierID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && !sup.Active) {
		return fmt.Errorf("%w: supplier %d", ErrInvalidReference, supplierID)
	}
	return err
}

// CreateProduct stores a product with zero stock and books any initial stock as an entry,
// so the ledger accounts for every unit on hand.
func (s *Service) CreateProduct(ctx context.Context, in CreateProductInput) (models.Product, error) {
	if err := in.validate(); err != nil {
		return models.Product{}, err
	}

	pol := s.policy(ctx)
	baseURL := s.settings.String(ctx, settings.KeyQRBaseURL, settings.DefaultQRBaseURL)

	code := NormalizeCode(in.Code)
	minimum := models.DefaultStockMinimum
	if in.StockMinimum != nil {
		minimum = *in.StockMinimum
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = models.DefaultUnit
	}

	payload := QRPayload(baseURL, code)
	dataURL, err := s.encodeQR(payload)
	if err != nil {
		return models.Product{}, err
	}

	var created models.Product
	var raised []models.Alert
	err = s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		if _, err := r.Products.GetByCode(ctx, code); err == nil {
			return fmt.Errorf("%w: %s", ErrDuplicateCode, code)
		} else if !errors.Is(err, repo.ErrProductNotFound) {
			return err
		}
		if err := checkReferences(ctx, r, in.CategoryID, in.SupplierID); err != nil {
			return err
		}

		now := s.now()
		p, err := r.Products.Create(ctx, models.Product{
			Code:          code,
			Name:          strings.TrimSpace(in.Name),
			Description:   strings.TrimSpace(in.Description),
			CategoryID:    in.CategoryID,
			SupplierID:    in.SupplierID,
			PurchasePrice: in.PurchasePrice,
			SalePrice:     in.SalePrice,
			StockMinimum:  minimum,
			Location:      strings.TrimSpace(in.Location),
			Unit:          unit,
			Weight:        in.Weight,
			Dimensions:    strings.TrimSpace(in.Dimensions),
			QRPayload:     payload,
			QRDataURL:     dataURL,
			Active:        true,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			return fmt.Errorf("%w: %s", ErrDuplicateCode, code)
		}
		if err != nil {
			return err
		}
		created = p

		if in.InitialStock > 0 {
			res, err := s.applyMovement(ctx, r, movementRequest{
				productID: p.ID,
				kind:      models.MovementEntry,
				quantity:  in.InitialStock,
				reason:    "initial stock",
				userID:    in.UserID,
			}, pol)
			if err != nil {
				return err
			}
			created = res.Product
			raised = res.Alerts
		}
		return nil
	})
	if err != nil {
		return models.Product{}, err
	}

	s.logger.Info("product created", zap.Int("product_id", created.ID), zap.String("code", created.Code))
	s.notifyRaised(ctx, created, raised, pol)
	return created, nil
}

// ProductPatch lists the editable product fields. Nil fields are left unchanged.
// Stock is not editable here; use the movement operations.
type ProductPatch struct {
	Name          *string
	Description   *string
	CategoryID    *int
	SupplierID    *int
	PurchasePrice *decimal.Decimal
	SalePrice     *decimal.Decimal
	StockMinimum  *int
	Location      *string
	Unit          *string
	Weight        *decimal.Decimal
	Dimensions    *string
}

func (p ProductPatch) validate() error {
	var errs ValidationErrors
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		errs = append(errs, FieldError{Field: "nombre_producto", Description: "name is required"})
	}
	if p.PurchasePrice != nil && p.PurchasePrice.IsNegative() {
		errs = append(errs, FieldError{Field: "precio_compra", Description: "purchase price cannot be negative"})
	}
	if p.SalePrice != nil && p.SalePrice.IsNegative() {
		errs = append(errs, FieldError{Field: "precio_venta", Description: "sale price cannot be negative"})
	}
	if p.StockMinimum != nil && *p.StockMinimum < 0 {
		errs = append(errs, FieldError{Field: "stock_minimo", Description: "minimum stock cannot be negative"})
	}
	if p.Weight != nil && p.Weight.IsNegative() {
		errs = append(errs, FieldError{Field: "peso", Description: "weight cannot be negative"})
	}
	return errs.orNil()
}

func (s *Service) UpdateProduct(ctx context.Context, id int, patch ProductPatch) (models.Product, error) {
	if err := patch.validate(); err != nil {
		return models.Product{}, err
	}

	var updated models.Product
	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		p, err := r.Products.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !p.Active {
			return repo.ErrProductNotFound
		}

		if patch.CategoryID != nil || patch.SupplierID != nil {
			categoryID, supplierID := p.CategoryID, p.SupplierID
			if patch.CategoryID != nil {
				categoryID = *patch.CategoryID
			}
			if patch.SupplierID != nil {
				supplierID = *patch.SupplierID
			}
			if err := checkReferences(ctx, r, categoryID, supplierID); err != nil {
				return err
			}
			p.CategoryID, p.SupplierID = categoryID, supplierID
		}
		if patch.Name != nil {
			p.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Description != nil {
			p.Description = strings.TrimSpace(*patch.Description)
		}
		if patch.PurchasePrice != nil {
			p.PurchasePrice = *patch.PurchasePrice
		}
		if patch.SalePrice != nil {
			p.SalePrice = *patch.SalePrice
		}
		if patch.StockMinimum != nil {
			p.StockMinimum = *patch.StockMinimum
		}
		if patch.Location != nil {
			p.Location = strings.TrimSpace(*patch.Location)
		}
		if patch.Unit != nil && strings.TrimSpace(*patch.Unit) != "" {
			p.Unit = strings.TrimSpace(*patch.Unit)
		}
		if patch.Weight != nil {
			p.Weight = decimal.NewNullDecimal(*patch.Weight)
		}
		if patch.Dimensions != nil {
			p.Dimensions = strings.TrimSpace(*patch.Dimensions)
		}
		p.UpdatedAt = s.now()

		updated, err = r.Products.Update(ctx, p)
		return err
	})
	if err != nil {
		return models.Product{}, err
	}
	return updated, nil
}

type DeleteOutcome string

const (
	Deleted         DeleteOutcome = "deleted"
	Deactivated     DeleteOutcome = "deactivated"
	AlreadyInactive DeleteOutcome = "already_inactive"
)

// DeleteProduct hard-deletes a product with no ledger history and soft-deletes any other.
func (s *Service) DeleteProduct(ctx context.Context, id int) (DeleteOutcome, error) {
	var outcome DeleteOutcome
	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		p, err := r.Products.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !p.Active {
			outcome = AlreadyInactive
			return nil
		}

		n, err := r.Movements.CountByProduct(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			outcome = Deleted
			return r.Products.Delete(ctx, id)
		}

		p.Active = false
		p.UpdatedAt = s.now()
		outcome = Deactivated
		_, err = r.Products.Update(ctx, p)
		return err
	})
	if err != nil {
		return "", err
	}

	s.logger.Info("product deleted", zap.Int("product_id", id), zap.String("outcome", string(outcome)))
	return outcome, nil
}

func (s *Service) GetProduct(ctx context.Context, id int) (models.Product, error) {
	return s.store.Repos().Products.GetByID(ctx, id)
}

func (s *Service) GetProductByCode(ctx context.Context, code string) (models.Product, error) {
	return s.store.Repos().Products.GetByCode(ctx, NormalizeCode(code))
}

// LookupByQR resolves scanned QR text to an active product.
func (s *Service) LookupByQR(ctx context.Context, data string) (models.Product, error) {
	code := CodeFromQR(data)
	if code == "" {
		return models.Product{}, fmt.Errorf("%w: empty qr data", ErrValidation)
	}
	p, err := s.store.Repos().Products.GetByCode(ctx, code)
	if err != nil {
		return models.Product{}, err
	}
	if !p.Active {
		return models.Product{}, repo.ErrProductNotFound
	}
	return p, nil
}

// RegenerateQR rebuilds the QR code of a product. An empty baseURL uses the configured one.
func (s *Service) RegenerateQR(ctx context.Context, id int, baseURL string) (models.Product, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = s.settings.String(ctx, settings.KeyQRBaseURL, settings.DefaultQRBaseURL)
	}

	var updated models.Product
	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		p, err := r.Products.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		p.QRPayload = QRPayload(baseURL, p.Code)
		p.QRDataURL, err = s.encodeQR(p.QRPayload)
		if err != nil {
			return err
		}
		p.UpdatedAt = s.now()
		updated, err = r.Products.Update(ctx, p)
		return err
	})
	return updated, err
}

type ListQuery struct {
	Search       string
	CategoryID   *int
	SupplierID   *int
	LowStockOnly bool
	Page         int
	PageSize     int
}

type ProductPage struct {
	Items      []models.Product
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

func totalPages(total, size int) int {
	return (total + size - 1) / size
}

// ListProducts returns active products sorted by name, one page at a time.
func (s *Service) ListProducts(ctx context.Context, q ListQuery) (ProductPage, error) {
	page, size := normalizePage(q.Page, q.PageSize)
	offset := (page - 1) * size
	active := true

	items, total, err := s.store.Repos().Products.Filter(ctx, repo.ProductFilter{
		Search:       strings.TrimSpace(q.Search),
		CategoryID:   q.CategoryID,
		SupplierID:   q.SupplierID,
		LowStockOnly: q.LowStockOnly,
		Active:       &active,
		Offset:       &offset,
		Limit:        &size,
	})
	if err != nil {
		return ProductPage{}, err
	}
	return ProductPage{Items: items, Total: total, Page: page, PageSize: size, TotalPages: totalPages(total, size)}, nil
}

// LowStockProducts returns every active product at or below its minimum.
func (s *Service) LowStockProducts(ctx context.Context) ([]models.Product, error) {
	active := true
	items, _, err := s.store.Repos().Products.Filter(ctx, repo.ProductFilter{LowStockOnly: true, Active: &active})
	return items, err
}

// ProductMovements returns the latest ledger entries of a product, newest first.
func (s *Service) ProductMovements(ctx context.Context, productID, limit int) ([]models.Movement, error) {
	if _, err := s.store.Repos().Products.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	movements, _, err := s.store.Repos().Movements.Filter(ctx, repo.MovementFilter{ProductID: &productID, Limit: &limit})
	return movements, err
}
