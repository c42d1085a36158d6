package models

import (
	"fmt"
	"time"
)

type AlertKind string

const (
	AlertLowStock   AlertKind = "low_stock"
	AlertOutOfStock AlertKind = "out_of_stock"
	AlertExcess     AlertKind = "excess"
)

func (k AlertKind) Valid() bool {
	return k == AlertLowStock || k == AlertOutOfStock || k == AlertExcess
}

type AlertPriority string

const (
	PriorityLow      AlertPriority = "low"
	PriorityMedium   AlertPriority = "medium"
	PriorityHigh     AlertPriority = "high"
	PriorityCritical AlertPriority = "critical"
)

func (p AlertPriority) Valid() bool {
	return p.Rank() > 0
}

// Rank orders priorities from low (1) to critical (4). Unknown priorities rank 0.
func (p AlertPriority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	}
	return 0
}

// DefaultOverdueAfter is how long an unresolved alert may stay open before it counts as overdue.
const DefaultOverdueAfter = 7 * 24 * time.Hour

type Alert struct {
	ID            int           `json:"id" db:"id"`
	ProductID     int           `json:"product_id" db:"product_id"`
	Kind          AlertKind     `json:"kind" db:"kind"`
	Priority      AlertPriority `json:"priority" db:"priority"`
	Message       string        `json:"message" db:"message"`
	Resolved      bool          `json:"resolved" db:"resolved"`
	ResolvedAt    *time.Time    `json:"resolved_at,omitempty" db:"resolved_at"`
	ResponsibleID *int          `json:"responsible_id,omitempty" db:"responsible_id"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
}

// Overdue reports whether the alert is still open after the given window.
func (a Alert) Overdue(now time.Time, after time.Duration) bool {
	return !a.Resolved && now.Sub(a.CreatedAt) > after
}

// Urgency ranks an alert: critical 4, high 3, overdue 2, anything else 1.
func (a Alert) Urgency(now time.Time, overdueAfter time.Duration) int {
	switch {
	case a.Priority == PriorityCritical:
		return 4
	case a.Priority == PriorityHigh:
		return 3
	case a.Overdue(now, overdueAfter):
		return 2
	default:
		return 1
	}
}

// Elapsed renders the time since creation in the largest whole unit.
func (a Alert) Elapsed(now time.Time) string {
	return ElapsedText(now.Sub(a.CreatedAt))
}

func ElapsedText(d time.Duration) string {
	seconds := int(d.Seconds())
	switch {
	case seconds < 60:
		return fmt.Sprintf("%d segundos", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%d minutos", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%d horas", seconds/3600)
	default:
		return fmt.Sprintf("%d días", seconds/86400)
	}
}
