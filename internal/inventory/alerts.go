package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/rogerio-castellano/stocktrack/internal/models"
	"github.com/rogerio-castellano/stocktrack/internal/repo"
)

type trigger int

const (
	afterInbound trigger = iota
	afterOutbound
	afterAdjustment
)

type alertCandidate struct {
	Kind     models.AlertKind
	Priority models.AlertPriority
	Message  string
}

// lowStockPriority grades a low-stock alert: empty is critical, at or below half the minimum is high.
func lowStockPriority(stock, minimum int) models.AlertPriority {
	switch {
	case stock == 0:
		return models.PriorityCritical
	case stock <= minimum/2:
		return models.PriorityHigh
	default:
		return models.PriorityMedium
	}
}

func lowStockCandidate(p models.Product) alertCandidate {
	return alertCandidate{
		Kind:     models.AlertLowStock,
		Priority: lowStockPriority(p.StockCurrent, p.StockMinimum),
		Message: fmt.Sprintf("El producto %s ha alcanzado su stock mínimo. Stock actual: %d, Stock mínimo: %d",
			p.Name, p.StockCurrent, p.StockMinimum),
	}
}

func outOfStockCandidate(p models.Product) alertCandidate {
	return alertCandidate{
		Kind:     models.AlertOutOfStock,
		Priority: models.PriorityCritical,
		Message:  fmt.Sprintf("¡AGOTADO! El producto %s se ha agotado completamente. Se requiere reposición inmediata.", p.Name),
	}
}

func excessCandidate(p models.Product, limit int) alertCandidate {
	return alertCandidate{
		Kind:     models.AlertExcess,
		Priority: models.PriorityLow,
		Message: fmt.Sprintf("Exceso de stock detectado en %s. Stock actual: %d, Límite sugerido: %d",
			p.Name, p.StockCurrent, limit),
	}
}

// evaluateAlerts derives the alerts a product's new stock calls for.
//
// Inbound movements never raise out_of_stock. Outbound movements raise out_of_stock
// at zero and low_stock otherwise. Adjustments check low_stock first and then
// out_of_stock, so an adjustment to zero raises both.
func evaluateAlerts(t trigger, p models.Product, excessLimit int) []alertCandidate {
	var out []alertCandidate
	switch t {
	case afterInbound:
		if p.NeedsAlert() {
			out = append(out, lowStockCandidate(p))
		}
	case afterOutbound:
		if p.StockCurrent == 0 {
			out = append(out, outOfStockCandidate(p))
		} else if p.NeedsAlert() {
			out = append(out, lowStockCandidate(p))
		}
	case afterAdjustment:
		if p.NeedsAlert() {
			out = append(out, lowStockCandidate(p))
		}
		if p.StockCurrent == 0 {
			out = append(out, outOfStockCandidate(p))
		}
	}

	if t != afterOutbound && excessLimit > 0 && p.StockCurrent > excessLimit {
		out = append(out, excessCandidate(p, excessLimit))
	}
	return out
}

// raiseAlerts stores each candidate unless an unresolved alert of the same kind already exists.
func (s *Service) raiseAlerts(ctx context.Context, r repo.Repositories, p models.Product, candidates []alertCandidate) ([]models.Alert, error) {
	var raised []models.Alert
	for _, c := range candidates {
		_, err := r.Alerts.FindOpen(ctx, p.ID, c.Kind)
		if err == nil {
			continue
		}
		if !errors.Is(err, repo.ErrAlertNotFound) {
			return nil, err
		}

		a, err := r.Alerts.Create(ctx, models.Alert{
			ProductID: p.ID,
			Kind:      c.Kind,
			Priority:  c.Priority,
			Message:   c.Message,
			CreatedAt: s.now(),
		})
		if err != nil {
			return nil, fmt.Errorf("create %s alert: %w", c.Kind, err)
		}
		raised = append(raised, a)
	}
	return raised, nil
}
