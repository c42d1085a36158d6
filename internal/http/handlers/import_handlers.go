package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/stocktrack/internal/auth"
	"github.com/rogerio-castellano/stocktrack/internal/inventory"
	"go.uber.org/zap"
)

const maxImportBytes = 10 << 20

// ImportProducts godoc
// @Summary Import products via CSV
// @Description Columns: codigo, nombre, descripcion, categoria, proveedor, precio_compra, precio_venta, stock_minimo, stock, ubicacion, unidad. Categories and suppliers are matched by name.
// @Tags productos
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Param mode query string false "Import mode (skip|update)"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {string} string "Invalid file"
// @Failure 500 {string} string "Internal error"
// @Router /api/productos/import [post]
func (h *Handler) ImportProducts(w http.ResponseWriter, r *http.Request) {
	mode := inventory.ParseImportMode(r.URL.Query().Get("mode"))

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := inventory.ParseImportCSV(file)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.inventory.ImportProducts(r.Context(), rows, mode, auth.UserID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("products imported",
		zap.String("mode", string(mode)),
		zap.Int("imported", res.Imported),
		zap.Int("updated", res.Updated),
		zap.Int("errors", len(res.Errors)))

	errs := res.Errors
	if errs == nil {
		errs = []string{}
	}
	h.respond(w, r, http.StatusOK, ImportProductsResult{Imported: res.Imported, Updated: res.Updated, Errors: errs})
}
