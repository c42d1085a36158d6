package inventory

import (
	"testing"

	"github.com/rogerio-castellano/stocktrack/internal/models"
	"github.com/stretchr/testify/assert"
)

func kinds(cs []alertCandidate) []models.AlertKind {
	out := []models.AlertKind{}
	for _, c := range cs {
		out = append(out, c.Kind)
	}
	return out
}

func TestEvaluateAlerts(t *testing.T) {
	tests := []struct {
		name    string
		trigger trigger
		stock   int
		minimum int
		want    []models.AlertKind
	}{
		{"entry above minimum", afterInbound, 11, 10, []models.AlertKind{}},
		{"entry at minimum", afterInbound, 10, 10, []models.AlertKind{models.AlertLowStock}},
		{"entry never reports empty", afterInbound, 0, 0, []models.AlertKind{models.AlertLowStock}},
		{"entry over excess limit", afterInbound, 1200, 10, []models.AlertKind{models.AlertExcess}},
		{"exit to zero", afterOutbound, 0, 10, []models.AlertKind{models.AlertOutOfStock}},
		{"exit to low", afterOutbound, 3, 10, []models.AlertKind{models.AlertLowStock}},
		{"exit ignores excess", afterOutbound, 1200, 10, []models.AlertKind{}},
		{"adjust to zero", afterAdjustment, 0, 10, []models.AlertKind{models.AlertLowStock, models.AlertOutOfStock}},
		{"adjust to zero with zero minimum", afterAdjustment, 0, 0, []models.AlertKind{models.AlertLowStock, models.AlertOutOfStock}},
		{"adjust to normal", afterAdjustment, 15, 10, []models.AlertKind{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := models.Product{Name: "Taladro", StockCurrent: tt.stock, StockMinimum: tt.minimum}
			assert.Equal(t, tt.want, kinds(evaluateAlerts(tt.trigger, p, 1000)))
		})
	}
}

func TestLowStockPriority(t *testing.T) {
	assert.Equal(t, models.PriorityCritical, lowStockPriority(0, 10))
	assert.Equal(t, models.PriorityHigh, lowStockPriority(5, 10))
	assert.Equal(t, models.PriorityMedium, lowStockPriority(6, 10))
}

func TestAlertMessages(t *testing.T) {
	p := models.Product{Name: "Taladro", StockCurrent: 2, StockMinimum: 5}
	assert.Equal(t, "El producto Taladro ha alcanzado su stock mínimo. Stock actual: 2, Stock mínimo: 5", lowStockCandidate(p).Message)
	assert.Contains(t, outOfStockCandidate(p).Message, "¡AGOTADO!")
	assert.Contains(t, excessCandidate(p, 1000).Message, "Límite sugerido: 1000")
}
