package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
	FormatPDF   Format = "pdf"
)

// ParseFormat accepts json, csv, excel (or xlsx) and pdf. Empty means json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "excel", "xlsx":
		return FormatExcel, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unsupported report format %q", s)
}

// Table is a report flattened to text cells.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// File is a rendered export ready to be downloaded.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func (r InventoryReport) Table() Table {
	t := Table{
		Title: fmt.Sprintf("Reporte de inventario %s a %s",
			r.Summary.Period.From.Format(dateLayout), r.Summary.Period.To.Format(dateLayout)),
		Headers: []string{"Código", "Nombre", "Categoría", "Proveedor", "Stock", "Mínimo",
			"P. compra", "P. venta", "Entradas", "Salidas", "Valor", "Estado", "Ubicación"},
	}
	for _, row := range r.Rows {
		t.Rows = append(t.Rows, []string{
			row.Code, row.Name, row.Category, row.Supplier,
			strconv.Itoa(row.StockCurrent), strconv.Itoa(row.StockMinimum),
			row.PurchasePrice.StringFixed(2), row.SalePrice.StringFixed(2),
			strconv.Itoa(row.Entries), strconv.Itoa(row.Exits),
			row.InventoryValue.StringFixed(2), string(row.Status), row.Location,
		})
	}
	return t
}

func (r MovementReport) Table() Table {
	t := Table{
		Title: fmt.Sprintf("Reporte de movimientos %s a %s",
			r.Summary.Period.From.Format(dateLayout), r.Summary.Period.To.Format(dateLayout)),
		Headers: []string{"Fecha", "Código", "Producto", "Tipo", "Cantidad", "Stock anterior",
			"Stock nuevo", "Motivo", "Usuario", "Valor"},
	}
	for _, row := range r.Rows {
		t.Rows = append(t.Rows, []string{
			row.Date.Format("2006-01-02 15:04"), row.ProductCode, row.ProductName, string(row.Kind),
			strconv.Itoa(row.Quantity), strconv.Itoa(row.StockBefore), strconv.Itoa(row.StockAfter),
			row.Reason, row.User, row.Value.StringFixed(2),
		})
	}
	return t
}

// Export renders t as CSV, Excel or PDF. JSON is written by the caller directly.
func Export(t Table, format Format, baseName string, at time.Time) (File, error) {
	name := fmt.Sprintf("%s_%s", baseName, at.Format("20060102_150405"))
	switch format {
	case FormatCSV:
		data, err := renderCSV(t)
		return File{Name: name + ".csv", ContentType: "text/csv", Data: data}, err
	case FormatExcel:
		data, err := renderExcel(t)
		return File{Name: name + ".xlsx", ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", Data: data}, err
	case FormatPDF:
		data, err := renderPDF(t, at)
		return File{Name: name + ".pdf", ContentType: "application/pdf", Data: data}, err
	}
	return File{}, fmt.Errorf("cannot export format %q", format)
}

func renderCSV(t Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Headers); err != nil {
		return nil, err
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

const excelSheet = "Reporte"

func renderExcel(t Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", excelSheet); err != nil {
		return nil, err
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"366092"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	for c, h := range t.Headers {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(excelSheet, cell, h); err != nil {
			return nil, err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(t.Headers), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(excelSheet, "A1", last, header); err != nil {
		return nil, err
	}

	for r, row := range t.Rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			var value any = v
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				value = n
			}
			if err := f.SetCellValue(excelSheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderPDF(t Table, at time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(t.Title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(t.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(0, 6, tr("Generado: "+at.Format("02/01/2006 15:04")), "", 1, "R", false, 0, "")

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colW := (pageW - left - right) / float64(len(t.Headers))

	pdf.SetFont("Helvetica", "B", 7)
	pdf.SetFillColor(54, 96, 146)
	pdf.SetTextColor(255, 255, 255)
	for _, h := range t.Headers {
		pdf.CellFormat(colW, 7, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range t.Rows {
		for _, v := range row {
			pdf.CellFormat(colW, 6, tr(truncate(v, 28)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(t.Rows) == 0 {
		pdf.CellFormat(0, 8, tr("Sin datos para el período"), "", 1, "C", false, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
