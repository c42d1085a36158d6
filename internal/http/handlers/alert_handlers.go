package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/stocktrack/internal/auth"
	"github.com/rogerio-castellano/stocktrack/internal/inventory"
	"github.com/rogerio-castellano/stocktrack/internal/models"
)

// ListAlerts godoc
// @Summary List alerts, most urgent first
// @Tags alertas
// @Produce json
// @Security BearerAuth
// @Param id_producto query int false "Product ID"
// @Param tipo_alerta query string false "low_stock, out_of_stock or excess"
// @Param prioridad query string false "low, medium, high or critical"
// @Param resuelta query bool false "Resolved state"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} AlertsSearchResult
// @Failure 400 {array} inventory.FieldError
// @Router /api/alertas [get]
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	q := inventory.AlertQuery{
		Kind:     models.AlertKind(r.URL.Query().Get("tipo_alerta")),
		Priority: models.AlertPriority(r.URL.Query().Get("prioridad")),
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "page_size"),
	}
	var err error
	if q.ProductID, err = queryIntPtr(r, "id_producto"); err != nil {
		h.invalidInput(w, err)
		return
	}
	if q.Resolved, err = queryBoolPtr(r, "resuelta"); err != nil {
		h.invalidInput(w, err)
		return
	}

	page, err := h.inventory.ListAlerts(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp := AlertsSearchResult{
		Data: make([]AlertResponse, len(page.Items)),
		Meta: Meta{TotalCount: page.Total, Page: page.Page, PageSize: page.PageSize, TotalPages: page.TotalPages},
	}
	for i, v := range page.Items {
		resp.Data[i] = toAlertViewResponse(v)
	}
	h.respond(w, r, http.StatusOK, resp)
}

// GetAlert godoc
// @Summary Get an alert
// @Tags alertas
// @Produce json
// @Security BearerAuth
// @Param id path int true "Alert ID"
// @Success 200 {object} AlertResponse
// @Failure 404 {string} string "Not found"
// @Router /api/alertas/{id} [get]
func (h *Handler) GetAlert(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.invalidInput(w, err)
		return
	}
	v, err := h.inventory.GetAlert(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, toAlertViewResponse(v))
}

// CreateAlert godoc
// @Summary Raise an alert by hand
// @Tags alertas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param alert body AlertRequest true "Alert"
// @Success 201 {object} AlertResponse
// @Failure 400 {array} inventory.FieldError
// @Failure 409 {string} string "Open alert of this kind exists"
// @Router /api/alertas [post]
func (h *Handler) CreateAlert(w http.ResponseWriter, r *http.Request) {
	var req AlertRequest
	if err := readJSON(w, r, &req); err != nil {
		h.invalidInput(w, err)
		return
	}
	a, err := h.inventory.CreateAlert(r.Context(), inventory.ManualAlertInput{
		ProductID: req.ProductID,
		Kind:      req.Kind,
		Priority:  req.Priority,
		Message:   req.Message,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, toAlertResponse(a))
}

// ResolveAlert godoc
// @Summary Resolve an open alert
// @Tags alertas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Alert ID"
// @Param resolution body ResolveAlertRequest false "Comment"
// @Success 200 {object} AlertResponse
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Already resolved"
// @Router /api/alertas/{id}/resolver [post]
func (h *Handler) ResolveAlert(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.invalidInput(w, err)
		return
	}
	var req ResolveAlertRequest
	if r.ContentLength != 0 {
		if err := readJSON(w, r, &req); err != nil {
			h.invalidInput(w, err)
			return
		}
	}
	a, err := h.inventory.ResolveAlert(r.Context(), id, auth.UserID(r.Context()), req.Comment)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, toAlertResponse(a))
}

// ReopenAlert godoc
// @Summary Reopen a resolved alert
// @Tags alertas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Alert ID"
// @Param reopen body ReopenAlertRequest false "Reason"
// @Success 200 {object} AlertResponse
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Not resolved or another open alert exists"
// @Router /api/alertas/{id}/reabrir [post]
func (h *Handler) ReopenAlert(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.invalidInput(w, err)
		return
	}
	var req ReopenAlertRequest
	if r.ContentLength != 0 {
		if err := readJSON(w, r, &req); err != nil {
			h.invalidInput(w, err)
			return
		}
	}
	a, err := h.inventory.ReopenAlert(r.Context(), id, req.Reason)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, toAlertResponse(a))
}
