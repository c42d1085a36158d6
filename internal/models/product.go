package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockStatus is the stock classification of a product relative to its minimum.
type StockStatus string

const (
	StockCritical StockStatus = "crítico"
	StockLow      StockStatus = "bajo"
	StockNormal   StockStatus = "normal"
	StockHigh     StockStatus = "alto"
)

// DefaultStockMinimum is used when a product is created without a minimum.
const DefaultStockMinimum = 5

// DefaultUnit is the unit of measure assigned when none is given.
const DefaultUnit = "unidad"

// Product represents a product entity in the inventory system.
type Product struct {
	ID            int                 `json:"id" db:"id"`
	Code          string              `json:"code" db:"code"`
	Name          string              `json:"name" db:"name"`
	Description   string              `json:"description" db:"description"`
	CategoryID    int                 `json:"category_id" db:"category_id"`
	SupplierID    int                 `json:"supplier_id" db:"supplier_id"`
	PurchasePrice decimal.Decimal     `json:"purchase_price" db:"purchase_price"`
	SalePrice     decimal.Decimal     `json:"sale_price" db:"sale_price"`
	StockMinimum  int                 `json:"stock_minimum" db:"stock_minimum"`
	StockCurrent  int                 `json:"stock_current" db:"stock_current"`
	Location      string              `json:"location" db:"location"`
	Unit          string              `json:"unit" db:"unit"`
	Weight        decimal.NullDecimal `json:"weight" db:"weight"`
	Dimensions    string              `json:"dimensions" db:"dimensions"`
	QRPayload     string              `json:"qr_payload" db:"qr_payload"`
	QRDataURL     string              `json:"qr_data_url" db:"qr_data_url"`
	Active        bool                `json:"active" db:"active"`
	CreatedAt     time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at" db:"updated_at"`
}

// Status classifies the current stock. Thresholds use integer division of the minimum.
func (p Product) Status() StockStatus {
	return ClassifyStock(p.StockCurrent, p.StockMinimum)
}

// ClassifyStock returns the stock status for a stock level and minimum.
func ClassifyStock(stock, minimum int) StockStatus {
	switch {
	case stock <= minimum/2:
		return StockCritical
	case stock <= minimum:
		return StockLow
	case stock <= minimum*2:
		return StockNormal
	default:
		return StockHigh
	}
}

// NeedsAlert reports whether the stock is at or below the minimum.
func (p Product) NeedsAlert() bool {
	return p.StockCurrent <= p.StockMinimum
}

// InventoryValue is stock times purchase price.
func (p Product) InventoryValue() decimal.Decimal {
	return p.PurchasePrice.Mul(decimal.NewFromInt(int64(p.StockCurrent)))
}

// Shortfall is how many units are missing to reach the minimum, never negative.
func (p Product) Shortfall() int {
	if p.StockCurrent >= p.StockMinimum {
		return 0
	}
	return p.StockMinimum - p.StockCurrent
}
