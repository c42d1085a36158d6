package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestClassifyStock(t *testing.T) {
	tests := []struct {
		stock, minimum int
		want           StockStatus
	}{
		{0, 10, StockCritical},
		{5, 10, StockCritical},
		{6, 10, StockLow},
		{10, 10, StockLow},
		{11, 10, StockNormal},
		{20, 10, StockNormal},
		{21, 10, StockHigh},
		{2, 5, StockCritical},
		{3, 5, StockLow},
		{0, 0, StockCritical},
		{1, 0, StockHigh},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyStock(tt.stock, tt.minimum), "stock=%d min=%d", tt.stock, tt.minimum)
	}
}

func TestProduct_DerivedValues(t *testing.T) {
	p := Product{StockCurrent: 4, StockMinimum: 10, PurchasePrice: decimal.RequireFromString("2.50")}

	assert.True(t, p.NeedsAlert())
	assert.Equal(t, 6, p.Shortfall())
	assert.True(t, decimal.RequireFromString("10").Equal(p.InventoryValue()))

	p.StockCurrent = 12
	assert.False(t, p.NeedsAlert())
	assert.Equal(t, 0, p.Shortfall())
}

func TestMovement_Impact(t *testing.T) {
	tests := []struct {
		m    Movement
		want int
	}{
		{Movement{Kind: MovementEntry, Quantity: 5, StockBefore: 0, StockAfter: 5}, 5},
		{Movement{Kind: MovementReturn, Quantity: 2, StockBefore: 5, StockAfter: 7}, 2},
		{Movement{Kind: MovementExit, Quantity: 3, StockBefore: 7, StockAfter: 4}, -3},
		{Movement{Kind: MovementLoss, Quantity: 1, StockBefore: 4, StockAfter: 3}, -1},
		{Movement{Kind: MovementAdjustment, Quantity: 7, StockBefore: 3, StockAfter: 10}, 7},
		{Movement{Kind: MovementAdjustment, Quantity: 8, StockBefore: 10, StockAfter: 2}, -8},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.m.Impact(), "kind=%s", tt.m.Kind)
		assert.Equal(t, tt.m.StockAfter, tt.m.StockBefore+tt.m.Impact())
	}
}

func TestAlert_UrgencyAndOverdue(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	old := now.Add(-8 * 24 * time.Hour)

	assert.Equal(t, 4, Alert{Priority: PriorityCritical, CreatedAt: now}.Urgency(now, DefaultOverdueAfter))
	assert.Equal(t, 3, Alert{Priority: PriorityHigh, CreatedAt: now}.Urgency(now, DefaultOverdueAfter))
	assert.Equal(t, 2, Alert{Priority: PriorityMedium, CreatedAt: old}.Urgency(now, DefaultOverdueAfter))
	assert.Equal(t, 1, Alert{Priority: PriorityLow, CreatedAt: now}.Urgency(now, DefaultOverdueAfter))

	resolved := Alert{Priority: PriorityLow, CreatedAt: old, Resolved: true}
	assert.False(t, resolved.Overdue(now, DefaultOverdueAfter))
}

func TestElapsedText(t *testing.T) {
	assert.Equal(t, "42 segundos", ElapsedText(42*time.Second))
	assert.Equal(t, "5 minutos", ElapsedText(5*time.Minute+30*time.Second))
	assert.Equal(t, "3 horas", ElapsedText(3*time.Hour))
	assert.Equal(t, "2 días", ElapsedText(50*time.Hour))
}

func TestUser_LockoutCycle(t *testing.T) {
	now := time.Now()
	u := User{Active: true}

	for i := 1; i < MaxFailedAttempts; i++ {
		assert.False(t, u.RegisterFailure(now))
	}
	assert.True(t, u.RegisterFailure(now))
	assert.True(t, u.IsLocked(now))
	assert.False(t, u.CanAccess(now))
	assert.False(t, u.IsLocked(now.Add(LockoutDuration)))

	u.ResetFailures()
	assert.Equal(t, 0, u.FailedAttempts)
	assert.True(t, u.CanAccess(now))
}

func TestSession_Valid(t *testing.T) {
	now := time.Now()
	s := Session{Active: true, ExpiresAt: now.Add(time.Hour)}
	assert.True(t, s.Valid(now))
	assert.False(t, s.Valid(now.Add(time.Hour)))

	s.Active = false
	assert.False(t, s.Valid(now))
}
