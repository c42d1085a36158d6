package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rogerio-castellano/stocktrack/internal/models"
	"github.com/rogerio-castellano/stocktrack/internal/report"
	"go.uber.org/zap"
)

// exportFormat reads formato and refuses file exports to non-administrators.
func (h *Handler) exportFormat(w http.ResponseWriter, r *http.Request) (report.Format, bool) {
	format, err := report.ParseFormat(r.URL.Query().Get("formato"))
	if err != nil {
		h.invalidField(w, r, "formato", err.Error())
		return "", false
	}
	if format != report.FormatJSON {
		if u, _ := currentUser(r); !u.IsAdmin() {
			http.Error(w, "administrator role required", http.StatusForbidden)
			return "", false
		}
	}
	return format, true
}

func (h *Handler) sendFile(w http.ResponseWriter, r *http.Request, t report.Table, format report.Format, name string) {
	file, err := report.Export(t, format, name, time.Now())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		h.logger.Warn("failed to write export", zap.String("file", file.Name), zap.Error(err))
	}
}

// Dashboard godoc
// @Summary Dashboard metrics
// @Tags reportes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} report.Dashboard
// @Failure 500 {string} string "Internal error"
// @Router /api/reportes/dashboard [get]
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.reports.Dashboard(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, d)
}

// InventoryReport godoc
// @Summary Inventory report
// @Description Non-JSON formats are file downloads reserved to administrators.
// @Tags reportes
// @Produce json,text/csv,application/pdf
// @Security BearerAuth
// @Param desde query string false "From (RFC3339 or YYYY-MM-DD), default 30 days ago"
// @Param hasta query string false "Until (RFC3339 or YYYY-MM-DD), default now"
// @Param id_categoria query int false "Category ID"
// @Param formato query string false "json, csv, excel or pdf"
// @Success 200 {object} report.InventoryReport
// @Failure 400 {string} string "Invalid input"
// @Failure 403 {string} string "Forbidden"
// @Router /api/reportes/inventario [get]
func (h *Handler) InventoryReport(w http.ResponseWriter, r *http.Request) {
	format, ok := h.exportFormat(w, r)
	if !ok {
		return
	}
	var (
		q   report.InventoryQuery
		err error
	)
	if q.From, err = queryTime(r, "desde", false); err != nil {
		h.invalidInput(w, err)
		return
	}
	if q.To, err = queryTime(r, "hasta", true); err != nil {
		h.invalidInput(w, err)
		return
	}
	if q.CategoryID, err = queryIntPtr(r, "id_categoria"); err != nil {
		h.invalidInput(w, err)
		return
	}

	rep, err := h.reports.Inventory(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if format == report.FormatJSON {
		h.respond(w, r, http.StatusOK, rep)
		return
	}
	h.sendFile(w, r, rep.Table(), format, "reporte_inventario")
}

// MovementReport godoc
// @Summary Movement report
// @Description Non-JSON formats are file downloads reserved to administrators.
// @Tags reportes
// @Produce json,text/csv,application/pdf
// @Security BearerAuth
// @Param id_producto query int false "Product ID"
// @Param tipo query string false "Movement kind"
// @Param desde query string false "From (RFC3339 or YYYY-MM-DD), default 30 days ago"
// @Param hasta query string false "Until (RFC3339 or YYYY-MM-DD), default now"
// @Param formato query string false "json, csv, excel or pdf"
// @Success 200 {object} report.MovementReport
// @Failure 400 {string} string "Invalid input"
// @Failure 403 {string} string "Forbidden"
// @Router /api/reportes/movimientos [get]
func (h *Handler) MovementReport(w http.ResponseWriter, r *http.Request) {
	format, ok := h.exportFormat(w, r)
	if !ok {
		return
	}
	q := report.MovementQuery{Kind: models.MovementKind(r.URL.Query().Get("tipo"))}
	if q.Kind != "" && !q.Kind.Valid() {
		h.invalidField(w, r, "tipo", "unknown movement kind")
		return
	}
	var err error
	if q.ProductID, err = queryIntPtr(r, "id_producto"); err != nil {
		h.invalidInput(w, err)
		return
	}
	if q.From, err = queryTime(r, "desde", false); err != nil {
		h.invalidInput(w, err)
		return
	}
	if q.To, err = queryTime(r, "hasta", true); err != nil {
		h.invalidInput(w, err)
		return
	}

	rep, err := h.reports.Movements(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if format == report.FormatJSON {
		h.respond(w, r, http.StatusOK, rep)
		return
	}
	h.sendFile(w, r, rep.Table(), format, "reporte_movimientos")
}

// ProductStats godoc
// @Summary Product counts and inventory value
// @Tags reportes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} report.ProductStats
// @Router /api/reportes/productos [get]
func (h *Handler) ProductStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.reports.ProductStats(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, st)
}

// AlertStats godoc
// @Summary Alert counts
// @Tags reportes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} report.AlertStats
// @Router /api/reportes/alertas [get]
func (h *Handler) AlertStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.reports.AlertStats(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, st)
}
