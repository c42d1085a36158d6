package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rogerio-castellano/stocktrack/internal/models"
	"github.com/rogerio-castellano/stocktrack/internal/repo"
	"go.uber.org/zap"
)

// CancelWindow is how long after creation a movement may still be cancelled.
const CancelWindow = 24 * time.Hour

const cancelReasonFormat = "Anulación de movimiento #%d: %s"

type CancelInput struct {
	MovementID int
	Actor      models.User
	Reason     string
}

// CancelMovement appends an entry that reverses the stock effect of a movement.
// The original movement is left untouched.
func (s *Service) CancelMovement(ctx context.Context, in CancelInput) (MovementResult, error) {
	if !in.Actor.IsAdmin() {
		return MovementResult{}, ErrAdminRequired
	}

	pol := s.policy(ctx)
	actorID := in.Actor.ID

	var res MovementResult
	err := s.store.WithTx(ctx, func(ctx context.Context, r repo.Repositories) error {
		orig, err := r.Movements.GetByID(ctx, in.MovementID)
		if err != nil {
			return err
		}
		if orig.CancelsID != nil {
			return ErrCompensating
		}
		if s.now().Sub(orig.CreatedAt) > CancelWindow {
			return ErrTooOld
		}
		if _, err := r.Movements.GetCancellation(ctx, orig.ID); err == nil {
			return ErrAlreadyCancelled
		} else if !errors.Is(err, repo.ErrMovementNotFound) {
			return err
		}

		p, err := r.Products.GetByIDForUpdate(ctx, orig.ProductID)
		if err != nil {
			return err
		}

		req := movementRequest{
			productID: orig.ProductID,
			reason:    fmt.Sprintf(cancelReasonFormat, orig.ID, strings.TrimSpace(in.Reason)),
			reference: orig.Reference,
			userID:    &actorID,
			cancelsID: &orig.ID,
		}
		switch {
		case orig.Kind.Inbound():
			req.kind, req.quantity = models.MovementExit, orig.Quantity
		case orig.Kind.Outbound():
			req.kind, req.quantity = models.MovementEntry, orig.Quantity
		default:
			delta := orig.StockBefore - p.StockCurrent
			switch {
			case delta > 0:
				req.kind, req.quantity = models.MovementEntry, delta
			case delta < 0:
				req.kind, req.quantity = models.MovementExit, -delta
			default:
				return ErrNothingToCancel
			}
		}

		res, err = s.applyMovement(ctx, r, req, pol)
		return err
	})
	if err != nil {
		return MovementResult{}, err
	}

	s.logger.Info("movement cancelled",
		zap.Int("movement_id", in.MovementID),
		zap.Int("compensating_id", res.Movement.ID),
		zap.Int("actor_id", actorID))
	s.notifyRaised(ctx, res.Product, res.Alerts, pol)
	return res, nil
}
