package inventory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/stocktrack/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ImportMode string

const (
	ImportSkip   ImportMode = "skip"
	ImportUpdate ImportMode = "update"
)

// ParseImportMode defaults to skip for anything but "update".
func ParseImportMode(s string) ImportMode {
	if strings.EqualFold(strings.TrimSpace(s), string(ImportUpdate)) {
		return ImportUpdate
	}
	return ImportSkip
}

// ImportRow is one product line of a CSV import. Category and supplier are referenced by name.
type ImportRow struct {
	Line          int
	Code          string
	Name          string
	Description   string
	Category      string
	Supplier      string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	StockMinimum  *int
	Stock         int
	Location      string
	Unit          string
	parseErr      error
}

type ImportResult struct {
	Imported int      `json:"imported"`
	Updated  int      `json:"updated"`
	Errors   []string `json:"errors"`
}

// ParseImportCSV reads products from CSV. The header row names the columns; codigo,
// nombre, categoria and proveedor are required.
func ParseImportCSV(r io.Reader) ([]ImportRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: invalid CSV header", ErrValidation)
	}
	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range []string{"codigo", "nombre", "categoria", "proveedor"} {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrValidation, col)
		}
	}

	var rows []ImportRow
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: CSV read error on line %d: %v", ErrValidation, line, err)
		}

		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		row := ImportRow{
			Line:        line,
			Code:        field("codigo"),
			Name:        field("nombre"),
			Description: field("descripcion"),
			Category:    field("categoria"),
			Supplier:    field("proveedor"),
			Location:    field("ubicacion"),
			Unit:        field("unidad"),
		}
		row.PurchasePrice, row.parseErr = parseDecimal(field("precio_compra"), row.parseErr)
		row.SalePrice, row.parseErr = parseDecimal(field("precio_venta"), row.parseErr)
		if v := field("stock_minimo"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil && row.parseErr == nil {
				row.parseErr = fmt.Errorf("invalid stock_minimo %q", v)
			}
			row.StockMinimum = &n
		}
		if v := field("stock"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil && row.parseErr == nil {
				row.parseErr = fmt.Errorf("invalid stock %q", v)
			}
			row.Stock = n
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseDecimal(v string, prev error) (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, prev
	}
	d, err := decimal.NewFromString(v)
	if err != nil && prev == nil {
		return decimal.Zero, fmt.Errorf("invalid price %q", v)
	}
	return d, prev
}

// ImportProducts creates the products of each row. Rows whose code already exists are
// reported in skip mode and overwritten in update mode, with stock differences booked
// as adjustments. A failing row never stops the others.
func (s *Service) ImportProducts(ctx context.Context, rows []ImportRow, mode ImportMode, userID *int) (ImportResult, error) {
	res := ImportResult{Errors: []string{}}
	for _, row := range rows {
		updated, err := s.importRow(ctx, row, mode, userID)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", row.Line, err))
			continue
		}
		if updated {
			res.Updated++
		} else {
			res.Imported++
		}
	}

	s.logger.Info("products imported",
		zap.Int("imported", res.Imported),
		zap.Int("updated", res.Updated),
		zap.Int("failed", len(res.Errors)))
	return res, nil
}

func (s *Service) importRow(ctx context.Context, row ImportRow, mode ImportMode, userID *int) (bool, error) {
	if row.parseErr != nil {
		return false, row.parseErr
	}

	repos := s.store.Repos()
	cat, err := repos.Categories.GetByName(ctx, row.Category)
	if err != nil {
		return false, fmt.Errorf("category %q: %w", row.Category, ErrInvalidReference)
	}
	sup, err := repos.Suppliers.GetByName(ctx, row.Supplier)
	if err != nil {
		return false, fmt.Errorf("supplier %q: %w", row.Supplier, ErrInvalidReference)
	}

	existing, err := s.GetProductByCode(ctx, row.Code)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return false, err
	}
	if err == nil {
		if mode == ImportSkip {
			return false, fmt.Errorf("product %q already exists", existing.Code)
		}
		return true, s.overwrite(ctx, existing, row, cat, sup, userID)
	}

	_, err = s.CreateProduct(ctx, CreateProductInput{
		Code:          row.Code,
		Name:          row.Name,
		Description:   row.Description,
		CategoryID:    cat.ID,
		SupplierID:    sup.ID,
		PurchasePrice: row.PurchasePrice,
		SalePrice:     row.SalePrice,
		StockMinimum:  row.StockMinimum,
		InitialStock:  row.Stock,
		Location:      row.Location,
		Unit:          row.Unit,
		UserID:        userID,
	})
	return false, err
}

func (s *Service) overwrite(ctx context.Context, p models.Product, row ImportRow, cat models.Category, sup models.Supplier, userID *int) error {
	if row.Stock < 0 {
		return ErrNegativeStock
	}
	_, err := s.UpdateProduct(ctx, p.ID, ProductPatch{
		Name:          &row.Name,
		Description:   &row.Description,
		CategoryID:    &cat.ID,
		SupplierID:    &sup.ID,
		PurchasePrice: &row.PurchasePrice,
		SalePrice:     &row.SalePrice,
		StockMinimum:  row.StockMinimum,
		Location:      &row.Location,
		Unit:          &row.Unit,
	})
	if err != nil {
		return err
	}
	if row.Stock == p.StockCurrent {
		return nil
	}
	_, err = s.AdjustStock(ctx, AdjustInput{
		ProductID: p.ID,
		NewStock:  row.Stock,
		Reason:    "importación CSV",
		UserID:    userID,
	})
	return err
}
