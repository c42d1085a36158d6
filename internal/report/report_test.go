package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/rogerio-castellano/stocktrack/internal/inventory"
	"github.com/rogerio-castellano/stocktrack/internal/models"
	"github.com/rogerio-castellano/stocktrack/internal/repo"
	"github.com/rogerio-castellano/stocktrack/internal/settings"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type fixture struct {
	reports  *Service
	inv      *inventory.Service
	category models.Category
	supplier models.Supplier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := repo.NewMemoryStore()
	settingsSvc := settings.NewService(store, zap.NewNop())
	_, err := settingsSvc.SeedDefaults(ctx)
	require.NoError(t, err)

	f := &fixture{
		reports: NewService(store, settingsSvc, zap.NewNop()),
		inv:     inventory.NewService(store, settingsSvc, nil, zap.NewNop()),
	}
	f.category, err = f.inv.CreateCategory(ctx, inventory.CategoryInput{Name: "Herramientas"})
	require.NoError(t, err)
	f.supplier, err = f.inv.CreateSupplier(ctx, inventory.SupplierInput{Name: "Ferretería Central"})
	require.NoError(t, err)
	return f
}

func (f *fixture) product(t *testing.T, code string, minimum, initial int, price int64) models.Product {
	t.Helper()
	p, err := f.inv.CreateProduct(context.Background(), inventory.CreateProductInput{
		Code:          code,
		Name:          "Producto " + code,
		CategoryID:    f.category.ID,
		SupplierID:    f.supplier.ID,
		PurchasePrice: decimal.NewFromInt(price),
		SalePrice:     decimal.NewFromInt(price * 2),
		StockMinimum:  &minimum,
		InitialStock:  initial,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) exit(t *testing.T, id, qty int) {
	t.Helper()
	_, err := f.inv.RecordExit(context.Background(), inventory.MovementInput{ProductID: id, Quantity: qty, Reason: "venta"})
	require.NoError(t, err)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.product(t, "A-1", 5, 20, 10)
	b := f.product(t, "B-1", 10, 12, 4)
	f.product(t, "C-1", 5, 0, 3)
	f.exit(t, a.ID, 2)
	f.exit(t, a.ID, 3)
	f.exit(t, b.ID, 4)

	d, err := f.reports.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, d.General.TotalProducts)
	// A-1: 15*10, B-1: 8*4, C-1: 0
	assert.True(t, decimal.NewFromInt(182).Equal(d.General.InventoryValue), d.General.InventoryValue.String())
	assert.Equal(t, 2, d.General.LowStock)
	assert.Equal(t, 1, d.General.OutOfStock)
	assert.Equal(t, 5, d.General.RecentMovements)
	assert.Equal(t, 1, d.General.ActiveAlerts)

	require.NotEmpty(t, d.TopMoved)
	assert.Equal(t, "A-1", d.TopMoved[0].Code)
	assert.Equal(t, 3, d.TopMoved[0].Movements)
	assert.Equal(t, 25, d.TopMoved[0].TotalQuantity)

	require.Len(t, d.Critical, 2)
	assert.Equal(t, "C-1", d.Critical[0].Code)
	assert.Equal(t, "B-1", d.Critical[1].Code)
}

func TestInventoryReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.product(t, "A-1", 5, 20, 10)
	f.product(t, "B-1", 10, 3, 4)
	f.exit(t, a.ID, 6)
	_, err := f.inv.RecordReturn(ctx, inventory.MovementInput{ProductID: a.ID, Quantity: 1, Reason: "devolución"})
	require.NoError(t, err)

	rep, err := f.reports.Inventory(ctx, InventoryQuery{})
	require.NoError(t, err)

	require.Len(t, rep.Rows, 2)
	rows := map[string]InventoryRow{}
	for _, r := range rep.Rows {
		rows[r.Code] = r
	}
	assert.Equal(t, 21, rows["A-1"].Entries)
	assert.Equal(t, 6, rows["A-1"].Exits)
	assert.Equal(t, 15, rows["A-1"].StockCurrent)
	assert.Equal(t, "Herramientas", rows["A-1"].Category)
	assert.Equal(t, "Ferretería Central", rows["A-1"].Supplier)
	assert.Equal(t, models.StockCritical, rows["B-1"].Status)

	assert.Equal(t, 2, rep.Summary.TotalProducts)
	assert.Equal(t, 1, rep.Summary.LowStock)
	assert.True(t, decimal.NewFromInt(162).Equal(rep.Summary.TotalValue))
}

func TestInventoryReport_PeriodExcludesOlderMovements(t *testing.T) {
	f := newFixture(t)
	f.product(t, "A-1", 5, 20, 10)

	future := time.Now().Add(time.Hour)
	rep, err := f.reports.Inventory(context.Background(), InventoryQuery{From: &future})
	require.NoError(t, err)
	require.Len(t, rep.Rows, 1)
	assert.Zero(t, rep.Rows[0].Entries)
	assert.Equal(t, 20, rep.Rows[0].StockCurrent)
}

func TestMovementReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.product(t, "A-1", 5, 20, 10)
	f.exit(t, a.ID, 4)
	_, err := f.inv.AdjustStock(ctx, inventory.AdjustInput{ProductID: a.ID, NewStock: 18, Reason: "conteo"})
	require.NoError(t, err)
	_, err = f.inv.RecordEntry(ctx, inventory.MovementInput{
		ProductID: a.ID,
		Quantity:  2,
		UnitCost:  decimal.NewNullDecimal(decimal.NewFromInt(7)),
	})
	require.NoError(t, err)

	rep, err := f.reports.Movements(ctx, MovementQuery{ProductID: &a.ID})
	require.NoError(t, err)

	require.Len(t, rep.Rows, 4)
	assert.Equal(t, 4, rep.Summary.Total)
	assert.Equal(t, 2, rep.Summary.Entries)
	assert.Equal(t, 1, rep.Summary.Exits)
	assert.Equal(t, 1, rep.Summary.Adjustments)
	for _, r := range rep.Rows {
		assert.Equal(t, "Sistema", r.User)
		assert.Equal(t, "A-1", r.ProductCode)
	}

	exits, err := f.reports.Movements(ctx, MovementQuery{Kind: models.MovementExit})
	require.NoError(t, err)
	require.Len(t, exits.Rows, 1)
	// the later entry at cost 7 became the purchase price
	assert.True(t, decimal.NewFromInt(28).Equal(exits.Rows[0].Value))
}

func TestMovementValue_PrefersUnitCost(t *testing.T) {
	p := models.Product{PurchasePrice: decimal.NewFromInt(10)}

	withCost := models.Movement{Quantity: 3, UnitCost: decimal.NewNullDecimal(decimal.NewFromInt(4))}
	assert.True(t, decimal.NewFromInt(12).Equal(movementValue(withCost, p)))

	withoutCost := models.Movement{Quantity: 3}
	assert.True(t, decimal.NewFromInt(30).Equal(movementValue(withoutCost, p)))
}

func TestProductStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.product(t, "A-1", 5, 20, 10)
	f.product(t, "B-1", 5, 0, 10)

	other, err := f.inv.CreateCategory(ctx, inventory.CategoryInput{Name: "Electricidad"})
	require.NoError(t, err)
	minimum := 2
	_, err = f.inv.CreateProduct(ctx, inventory.CreateProductInput{
		Code: "E-1", Name: "Cable", CategoryID: other.ID, SupplierID: f.supplier.ID,
		PurchasePrice: decimal.NewFromInt(1), SalePrice: decimal.NewFromInt(2),
		StockMinimum: &minimum, InitialStock: 7,
	})
	require.NoError(t, err)

	st, err := f.reports.ProductStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st.TotalProducts)
	assert.Equal(t, 1, st.LowStock)
	assert.Equal(t, 1, st.OutOfStock)
	require.Len(t, st.ByCategory, 2)
	assert.Equal(t, "Electricidad", st.ByCategory[0].Category)
	assert.Equal(t, 7, st.ByCategory[0].TotalStock)
	assert.Equal(t, 2, st.ByCategory[1].Products)
}

func TestAlertStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.product(t, "A-1", 5, 6, 10)
	f.exit(t, a.ID, 6)
	b := f.product(t, "B-1", 10, 10, 10)

	page, err := f.inv.ListAlerts(ctx, inventory.AlertQuery{ProductID: &b.ID})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	_, err = f.inv.ResolveAlert(ctx, page.Items[0].ID, nil, "pedido enviado")
	require.NoError(t, err)

	f.reports.now = func() time.Time { return time.Now().Add(10 * 24 * time.Hour) }
	st, err := f.reports.AlertStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Total)
	assert.Equal(t, 1, st.Active)
	assert.Equal(t, 1, st.Resolved)
	assert.Equal(t, 1, st.Critical)
	assert.Equal(t, 1, st.Overdue)
	assert.Equal(t, 1, st.ByKind[models.AlertOutOfStock])
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"csv", FormatCSV, false},
		{"xlsx", FormatExcel, false},
		{"excel", FormatExcel, false},
		{"pdf", FormatPDF, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func sampleTable(t *testing.T) Table {
	t.Helper()
	f := newFixture(t)
	a := f.product(t, "A-1", 5, 20, 10)
	f.exit(t, a.ID, 4)
	rep, err := f.reports.Inventory(context.Background(), InventoryQuery{})
	require.NoError(t, err)
	return rep.Table()
}

func TestExport_CSV(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	file, err := Export(sampleTable(t), FormatCSV, "reporte_inventario", at)
	require.NoError(t, err)
	assert.Equal(t, "reporte_inventario_20240301_093000.csv", file.Name)
	assert.Equal(t, "text/csv", file.ContentType)

	records, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Código", records[0][0])
	assert.Equal(t, "A-1", records[1][0])
	assert.Equal(t, "16", records[1][4])
	assert.Equal(t, "4", records[1][9])
}

func TestExport_Excel(t *testing.T) {
	file, err := Export(sampleTable(t), FormatExcel, "reporte_inventario", time.Now())
	require.NoError(t, err)
	assert.Contains(t, file.Name, ".xlsx")

	x, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer x.Close()
	head, err := x.GetCellValue(excelSheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Nombre", head)
	code, err := x.GetCellValue(excelSheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "A-1", code)
}

func TestExport_PDF(t *testing.T) {
	file, err := Export(sampleTable(t), FormatPDF, "reporte_inventario", time.Now())
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
}

func TestExport_JSONIsNotRendered(t *testing.T) {
	_, err := Export(Table{}, FormatJSON, "x", time.Now())
	assert.Error(t, err)
}
