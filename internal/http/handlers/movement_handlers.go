package handlers

import (
	"context"
	"net/http"

	"github.com/rogerio-castellano/stocktrack/internal/auth"
	"github.com/rogerio-castellano/stocktrack/internal/inventory"
	"github.com/rogerio-castellano/stocktrack/internal/models"
	"github.com/shopspring/decimal"
)

type recordFunc func(context.Context, inventory.MovementInput) (inventory.MovementResult, error)

func (h *Handler) movementResult(ctx context.Context, res inventory.MovementResult) (MovementResult, error) {
	p, err := h.productResponse(ctx, res.Product)
	if err != nil {
		return MovementResult{}, err
	}
	return MovementResult{Product: p, Movement: toMovementResponse(res.Movement), Alerts: toAlertResponses(res.Alerts)}, nil
}

func (h *Handler) recordMovement(w http.ResponseWriter, r *http.Request, record recordFunc) {
	id, err := pathID(r, "id")
	if err != nil {
		h.invalidInput(w, err)
		return
	}
	var req MovementRequest
	if err := readJSON(w, r, &req); err != nil {
		h.invalidInput(w, err)
		return
	}

	in := inventory.MovementInput{
		ProductID: id,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
		Reference: req.Reference,
		UserID:    auth.UserID(r.Context()),
	}
	if req.UnitCost != nil {
		in.UnitCost = decimal.NewNullDecimal(*req.UnitCost)
	}

	res, err := record(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp, err := h.movementResult(r.Context(), res)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, resp)
}

// RecordEntry godoc
// @Summary Book goods received
// @Description A positive costo_unitario also becomes the product's purchase price.
// @Tags movimientos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param movement body MovementRequest true "Quantity received"
// @Success 201 {object} MovementResult
// @Failure 400 {string} string "Invalid quantity"
// @Failure 404 {string} string "Not found"
// @Router /api/productos/{id}/entrada [post]
func (h *Handler) RecordEntry(w http.ResponseWriter, r *http.Request) {
	h.recordMovement(w, r, h.inventory.RecordEntry)
}

// RecordExit godoc
// @Summary Book goods shipped or sold
// @Tags movimientos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param movement body MovementRequest true "Quantity leaving"
// @Success 201 {object} MovementResult
// @Failure 400 {string} string "Invalid quantity"
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Insufficient stock"
// @Router /api/productos/{id}/salida [post]
func (h *Handler) RecordExit(w http.ResponseWriter, r *http.Request) {
	h.recordMovement(w, r, h.inventory.RecordExit)
}

// RecordReturn godoc
// @Summary Book goods returned by a customer
// @Tags movimientos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param movement body MovementRequest true "Quantity returned"
// @Success 201 {object} MovementResult
// @Router /api/productos/{id}/devolucion [post]
func (h *Handler) RecordReturn(w http.ResponseWriter, r *http.Request) {
	h.recordMovement(w, r, h.inventory.RecordReturn)
}

// RecordLoss godoc
// @Summary Book damaged, expired or missing goods
// @Tags movimientos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param movement body MovementRequest true "Quantity lost"
// @Success 201 {object} MovementResult
// @Failure 409 {string} string "Insufficient stock"
// @Router /api/productos/{id}/merma [post]
func (h *Handler) RecordLoss(w http.ResponseWriter, r *http.Request) {
	h.recordMovement(w, r, h.inventory.RecordLoss)
}

// AdjustStock godoc
// @Summary Set the stock of a product to a counted value
// @Tags movimientos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param adjustment body AdjustmentRequest true "Counted stock"
// @Success 201 {object} MovementResult
// @Failure 400 {string} string "Negative stock"
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Router /api/productos/{id}/ajuste [post]
func (h *Handler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.invalidInput(w, err)
		return
	}
	var req AdjustmentRequest
	if err := readJSON(w, r, &req); err != nil {
		h.invalidInput(w, err)
		return
	}
	if req.NewStock == nil {
		h.invalidField(w, r, "nuevo_stock", "new stock is required")
		return
	}

	res, err := h.inventory.AdjustStock(r.Context(), inventory.AdjustInput{
		ProductID: id,
		NewStock:  *req.NewStock,
		Reason:    req.Reason,
		UserID:    auth.UserID(r.Context()),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp, err := h.movementResult(r.Context(), res)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, resp)
}

// ListMovements godoc
// @Summary Search the movement ledger, newest first
// @Tags movimientos
// @Produce json
// @Security BearerAuth
// @Param id_producto query int false "Product ID"
// @Param tipo query string false "Movement kind (entry, exit, adjustment, return, loss)"
// @Param desde query string false "From timestamp (RFC3339 or YYYY-MM-DD)"
// @Param hasta query string false "Until timestamp (RFC3339 or YYYY-MM-DD)"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} MovementsSearchResult
// @Failure 400 {string} string "Invalid input"
// @Router /api/movimientos [get]
func (h *Handler) ListMovements(w http.ResponseWriter, r *http.Request) {
	q := inventory.MovementQuery{
		Kind:     models.MovementKind(r.URL.Query().Get("tipo")),
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "page_size"),
	}
	var err error
	if q.ProductID, err = queryIntPtr(r, "id_producto"); err != nil {
		h.invalidInput(w, err)
		return
	}
	if q.Since, err = queryTime(r, "desde", false); err != nil {
		h.invalidInput(w, err)
		return
	}
	if q.Until, err = queryTime(r, "hasta", true); err != nil {
		h.invalidInput(w, err)
		return
	}

	page, err := h.inventory.ListMovements(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, MovementsSearchResult{
		Data: toMovementResponses(page.Items),
		Meta: Meta{TotalCount: page.Total, Page: page.Page, PageSize: page.PageSize, TotalPages: page.TotalPages},
	})
}

// GetMovement godoc
// @Summary Get a ledger entry
// @Tags movimientos
// @Produce json
// @Security BearerAuth
// @Param id path int true "Movement ID"
// @Success 200 {object} MovementResponse
// @Failure 404 {string} string "Not found"
// @Router /api/movimientos/{id} [get]
func (h *Handler) GetMovement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.invalidInput(w, err)
		return
	}
	m, err := h.inventory.GetMovement(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, toMovementResponse(m))
}

// ProductMovements godoc
// @Summary Latest movements of a product
// @Tags movimientos
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param limit query int false "How many entries (default 50)"
// @Success 200 {array} MovementResponse
// @Failure 404 {string} string "Product not found"
// @Router /api/productos/{id}/movimientos [get]
func (h *Handler) ProductMovements(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.invalidInput(w, err)
		return
	}
	movements, err := h.inventory.ProductMovements(r.Context(), id, queryInt(r, "limit"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, toMovementResponses(movements))
}

// CancelMovement godoc
// @Summary Reverse a movement with a compensating entry
// @Description Only administrators, only within 24 hours, only once per movement.
// @Tags movimientos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Movement ID"
// @Param cancel body CancelRequest true "Reason"
// @Success 201 {object} MovementResult
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Already cancelled or too old"
// @Router /api/movimientos/{id}/anular [post]
func (h *Handler) CancelMovement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.invalidInput(w, err)
		return
	}
	var req CancelRequest
	if err := readJSON(w, r, &req); err != nil {
		h.invalidInput(w, err)
		return
	}
	actor, _ := currentUser(r)

	res, err := h.inventory.CancelMovement(r.Context(), inventory.CancelInput{MovementID: id, Actor: actor, Reason: req.Reason})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp, err := h.movementResult(r.Context(), res)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, resp)
}
