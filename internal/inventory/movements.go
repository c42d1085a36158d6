package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rogerio-castellano/stocktrack/internal/models"
	"github.com/rogerio-castellano/stocktrack/internal/repo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type MovementInput struct {
	ProductID int
	Quantity  int
	Reason    string
	UnitCost  decimal.NullDecimal
	Reference string
	UserID    *int
}

type AdjustInput struct {
	ProductID int
	NewStock  int
	Reason    string
	UserID    *int
}

// MovementResult is the state left behind by a committed stock operation.
type MovementResult struct {
	Product  models.Product
	Movement models.Movement
	Alerts   []models.Alert
}

type movementRequest struct {
	productID int
	kind      models.MovementKind
	quantity  int
	newStock  int
	reason    string
	unitCost  decimal.NullDecimal
	reference string
	userID    *int
	cancelsID *int
}

func (s *Service) RecordEntry(ctx context.Context, in MovementInput) (MovementResult, error) {
	return s.record(ctx, models.MovementEntry, in)
}

func (s *Service) RecordExit(ctx context.Context, in MovementInput) (MovementResult, error) {
	return s.record(ctx, models.MovementExit, in)
}

// RecordReturn books goods coming back from a customer.
func (s *Service) RecordReturn(ctx context.Context, in MovementInput) (MovementResult, error) {
	return s.record(ctx, models.MovementReturn, in)
}

// RecordLoss books damaged, expired or missing goods.
func (s *Service) RecordLoss(ctx context.Context, in MovementInput) (MovementResult, error) {
	return s.record(ctx, models.MovementLoss, in)
}

func (s *Service) record(ctx context.Context, kind models.MovementKind, in MovementInput) (MovementResult, error) {
	if in.Quantity <= 0 {
		return MovementResult{}, ErrInvalidQuantity
	}
	if in.UnitCost.Valid && in.UnitCost.Decimal.IsNegative() {
		return MovementResult{}, ValidationErrors{{Field: "costo_unitario", Description: "unit cost cannot be negative"}}
	}
	return s.commit(ctx, movementRequest{
		productID: in.ProductID,
		kind:      kind,
		quantity:  in.Quantity,
		reason:    in.Reason,
		unitCost:  in.UnitCost,
		reference: in.Reference,
		userID:    in.UserID,
	})
}

// AdjustStock sets the stock to a counted value. The ledger entry stores the absolute difference.
func (s *Service) AdjustStock(ctx context.Context, in AdjustInput) (MovementResult, error) {
	if in.NewStock < 0 {
		return MovementResult{}, ErrNegativeStock
	}
	return s.commit(ctx, movementRequest{
		productID: in.ProductID,
		kind:      models.MovementAdjustment,
		newStock:  in.NewStock,
		reason:    in.Reason,
		userID:    in.UserID,
	})
}

func (s *Service) commit(ctx context.Context, req movementRequest) (MovementResult, error) {
	pol := s.policy(ctx)

	var res MovementResult
	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		var err error
		res, err = s.applyMovement(ctx, r, req, pol)
		return err
	})
	if err != nil {
		return MovementResult{}, err
	}

	s.logger.Info("movement recorded",
		zap.Int("movement_id", res.Movement.ID),
		zap.Int("product_id", res.Product.ID),
		zap.String("kind", string(res.Movement.Kind)),
		zap.Int("stock_before", res.Movement.StockBefore),
		zap.Int("stock_after", res.Movement.StockAfter))
	s.notifyRaised(ctx, res.Product, res.Alerts, pol)
	return res, nil
}

// applyMovement locks the product, moves its stock, appends the ledger entry and raises
// any alerts. It must run inside a transaction.
func (s *Service) applyMovement(ctx context.Context, r repo.Repositories, req movementRequest, pol alertPolicy) (MovementResult, error) {
	p, err := r.Products.GetByIDForUpdate(ctx, req.productID)
	if err != nil {
		return MovementResult{}, err
	}
	if !p.Active {
		return MovementResult{}, repo.ErrProductNotFound
	}

	before := p.StockCurrent
	after := before
	quantity := req.quantity
	var t trigger

	switch {
	case req.kind == models.MovementAdjustment:
		after = req.newStock
		quantity = after - before
		if quantity < 0 {
			quantity = -quantity
		}
		t = afterAdjustment
	case req.kind.Inbound():
		after = before + quantity
		t = afterInbound
	case req.kind.Outbound():
		if quantity > before {
			return MovementResult{}, &InsufficientStockError{Available: before, Requested: quantity}
		}
		after = before - quantity
		t = afterOutbound
	default:
		return MovementResult{}, fmt.Errorf("%w: unknown movement kind %q", ErrValidation, req.kind)
	}

	now := s.now()
	p.StockCurrent = after
	if req.kind == models.MovementEntry && req.unitCost.Valid && req.unitCost.Decimal.IsPositive() {
		p.PurchasePrice = req.unitCost.Decimal
	}
	p.UpdatedAt = now
	p, err = r.Products.Update(ctx, p)
	if err != nil {
		return MovementResult{}, err
	}

	m, err := r.Movements.Create(ctx, models.Movement{
		ProductID:   p.ID,
		UserID:      req.userID,
		Kind:        req.kind,
		Quantity:    quantity,
		StockBefore: before,
		StockAfter:  after,
		UnitCost:    req.unitCost,
		Reason:      strings.TrimSpace(req.reason),
		Reference:   strings.TrimSpace(req.reference),
		CancelsID:   req.cancelsID,
		CreatedAt:   now,
	})
	if err != nil {
		return MovementResult{}, err
	}

	res := MovementResult{Product: p, Movement: m}
	if pol.enabled {
		res.Alerts, err = s.raiseAlerts(ctx, r, p, evaluateAlerts(t, p, pol.excessLimit))
		if err != nil {
			return MovementResult{}, err
		}
	}
	return res, nil
}

type MovementQuery struct {
	ProductID *int
	Kind      models.MovementKind
	Since     *time.Time
	Until     *time.Time
	Page      int
	PageSize  int
}

type MovementPage struct {
	Items      []models.Movement
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// ListMovements pages through the ledger, newest first.
func (s *Service) ListMovements(ctx context.Context, q MovementQuery) (MovementPage, error) {
	if q.Kind != "" && !q.Kind.Valid() {
		return MovementPage{}, ValidationErrors{{Field: "tipo", Description: "unknown movement kind"}}
	}
	page, size := normalizePage(q.Page, q.PageSize)
	offset := (page - 1) * size

	f := repo.MovementFilter{
		ProductID: q.ProductID,
		Since:     q.Since,
		Until:     q.Until,
		Offset:    &offset,
		Limit:     &size,
	}
	if q.Kind != "" {
		f.Kind = &q.Kind
	}
	items, total, err := s.store.Repos().Movements.Filter(ctx, f)
	if err != nil {
		return MovementPage{}, err
	}
	return MovementPage{Items: items, Total: total, Page: page, PageSize: size, TotalPages: totalPages(total, size)}, nil
}

func (s *Service) GetMovement(ctx context.Context, id int) (models.Movement, error) {
	return s.store.Repos().Movements.GetByID(ctx, id)
}
