package repo

import (
	"time"

	"github.com/rogerio-castellano/stocktrack/internal/models"
)

type ProductFilter struct {
	Search       string
	CategoryID   *int
	SupplierID   *int
	LowStockOnly bool
	Active       *bool
	Offset       *int
	Limit        *int
}

type MovementFilter struct {
	ProductID *int
	Kind      *models.MovementKind
	Since     *time.Time
	Until     *time.Time
	Offset    *int
	Limit     *int
}

type AlertFilter struct {
	ProductID *int
	Kind      *models.AlertKind
	Priority  *models.AlertPriority
	Resolved  *bool
	Offset    *int
	Limit     *int
}

type UserFilter struct {
	Role   *models.Role
	Active *bool
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// page returns the [start, end) window of a slice of length n for offset/limit.
func page(n int, offset, limit *int) (int, int) {
	start := 0
	if offset != nil {
		start = clamp(*offset, 0, n)
	}
	end := n
	if limit != nil && *limit > 0 {
		end = clamp(start+*limit, start, n)
	}
	return start, end
}
