package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MovementKind string

const (
	MovementEntry      MovementKind = "entry"
	MovementExit       MovementKind = "exit"
	MovementAdjustment MovementKind = "adjustment"
	MovementReturn     MovementKind = "return"
	MovementLoss       MovementKind = "loss"
)

// Valid reports whether k is a known movement kind.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementEntry, MovementExit, MovementAdjustment, MovementReturn, MovementLoss:
		return true
	}
	return false
}

// Inbound reports whether the kind adds stock.
func (k MovementKind) Inbound() bool {
	return k == MovementEntry || k == MovementReturn
}

// Outbound reports whether the kind removes stock.
func (k MovementKind) Outbound() bool {
	return k == MovementExit || k == MovementLoss
}

// Movement is one immutable ledger entry. StockAfter always equals StockBefore plus Impact.
type Movement struct {
	ID          int                 `json:"id" db:"id"`
	ProductID   int                 `json:"product_id" db:"product_id"`
	UserID      *int                `json:"user_id,omitempty" db:"user_id"`
	Kind        MovementKind        `json:"kind" db:"kind"`
	Quantity    int                 `json:"quantity" db:"quantity"`
	StockBefore int                 `json:"stock_before" db:"stock_before"`
	StockAfter  int                 `json:"stock_after" db:"stock_after"`
	UnitCost    decimal.NullDecimal `json:"unit_cost" db:"unit_cost"`
	Reason      string              `json:"reason" db:"reason"`
	Reference   string              `json:"reference,omitempty" db:"reference"`
	CancelsID   *int                `json:"cancels_id,omitempty" db:"cancels_id"`
	CreatedAt   time.Time           `json:"created_at" db:"created_at"`
}

// Impact is the signed stock change the movement produced.
func (m Movement) Impact() int {
	switch {
	case m.Kind.Inbound():
		return m.Quantity
	case m.Kind.Outbound():
		return -m.Quantity
	default:
		return m.StockAfter - m.StockBefore
	}
}

