package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/stocktrack/internal/inventory"
)

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ListCategories godoc
// @Summary List categories
// @Tags catalogo
// @Produce json
// @Security BearerAuth
// @Param activas query bool false "Only active categories (default true)"
// @Success 200 {array} CategoryResponse
// @Router /api/categorias [get]
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("activas") == "" || formBool(r.URL.Query().Get("activas"))
	categories, err := h.inventory.ListCategories(r.Context(), activeOnly)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		out[i] = toCategoryResponse(c)
	}
	h.respond(w, r, http.StatusOK, out)
}

// GetCategory godoc
// @Summary Get a category
// @Tags catalogo
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} CategoryResponse
// @Failure 404 {string} string "Not found"
// @Router /api/categorias/{id} [get]
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.invalidInput(w, err)
		return
	}
	c, err := h.inventory.GetCategory(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, toCategoryResponse(c))
}

// CreateCategory godoc
// @Summary Create a category
// @Tags catalogo
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category body CategoryRequest true "Category"
// @Success 201 {object} CategoryResponse
// @Failure 400 {array} inventory.FieldError
// @Failure 409 {string} string "Duplicated name"
// @Router /api/categorias [post]
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := readJSON(w, r, &req); err != nil {
		h.invalidInput(w, err)
		return
	}
	c, err := h.inventory.CreateCategory(r.Context(), inventory.CategoryInput{
		Name:        deref(req.Name),
		Description: deref(req.Description),
		Color:       deref(req.Color),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, toCategoryResponse(c))
}

// UpdateCategory godoc
// @Summary Update a category
// @Tags catalogo
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param category body CategoryRequest true "Fields to change"
// @Success 200 {object} CategoryResponse
// @Failure 404 {string} string "Not found"
// @Router /api/categorias/{id} [put]
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.invalidInput(w, err)
		return
	}
	var req CategoryRequest
	if err := readJSON(w, r, &req); err != nil {
		h.invalidInput(w, err)
		return
	}
	c, err := h.inventory.UpdateCategory(r.Context(), id, inventory.CategoryPatch{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Active:      req.Active,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, toCategoryResponse(c))
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Categories still referenced by products are deactivated instead.
// @Tags catalogo
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} DeleteResult
// @Failure 404 {string} string "Not found"
// @Router /api/categorias/{id} [delete]
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.invalidInput(w, err)
		return
	}
	outcome, err := h.inventory.DeleteCategory(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, DeleteResult{Outcome: outcome})
}

// ListSuppliers godoc
// @Summary List suppliers
// @Tags catalogo
// @Produce json
// @Security BearerAuth
// @Param activos query bool false "Only active suppliers (default true)"
// @Success 200 {array} SupplierResponse
// @Router /api/proveedores [get]
func (h *Handler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("activos") == "" || formBool(r.URL.Query().Get("activos"))
	suppliers, err := h.inventory.ListSuppliers(r.Context(), activeOnly)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]SupplierResponse, len(suppliers))
	for i, s := range suppliers {
		out[i] = toSupplierResponse(s)
	}
	h.respond(w, r, http.StatusOK, out)
}

// GetSupplier godoc
// @Summary Get a supplier
// @Tags catalogo
// @Produce json
// @Security BearerAuth
// @Param id path int true "Supplier ID"
// @Success 200 {object} SupplierResponse
// @Failure 404 {string} string "Not found"
// @Router /api/proveedores/{id} [get]
func (h *Handler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.invalidInput(w, err)
		return
	}
	s, err := h.inventory.GetSupplier(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, toSupplierResponse(s))
}

// CreateSupplier godoc
// @Summary Create a supplier
// @Tags catalogo
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param supplier body SupplierRequest true "Supplier"
// @Success 201 {object} SupplierResponse
// @Failure 400 {array} inventory.FieldError
// @Failure 409 {string} string "Duplicated name"
// @Router /api/proveedores [post]
func (h *Handler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req SupplierRequest
	if err := readJSON(w, r, &req); err != nil {
		h.invalidInput(w, err)
		return
	}
	s, err := h.inventory.CreateSupplier(r.Context(), inventory.SupplierInput{
		Name:    deref(req.Name),
		Contact: deref(req.Contact),
		Phone:   deref(req.Phone),
		Email:   deref(req.Email),
		Address: deref(req.Address),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, toSupplierResponse(s))
}

// UpdateSupplier godoc
// @Summary Update a supplier
// @Tags catalogo
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Supplier ID"
// @Param supplier body SupplierRequest true "Fields to change"
// @Success 200 {object} SupplierResponse
// @Failure 404 {string} string "Not found"
// @Router /api/proveedores/{id} [put]
func (h *Handler) UpdateSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.invalidInput(w, err)
		return
	}
	var req SupplierRequest
	if err := readJSON(w, r, &req); err != nil {
		h.invalidInput(w, err)
		return
	}
	s, err := h.inventory.UpdateSupplier(r.Context(), id, inventory.SupplierPatch{
		Name:    req.Name,
		Contact: req.Contact,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		Active:  req.Active,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, toSupplierResponse(s))
}

// DeleteSupplier godoc
// @Summary Delete a supplier
// @Description Suppliers still referenced by products are deactivated instead.
// @Tags catalogo
// @Produce json
// @Security BearerAuth
// @Param id path int true "Supplier ID"
// @Success 200 {object} DeleteResult
// @Failure 404 {string} string "Not found"
// @Router /api/proveedores/{id} [delete]
func (h *Handler) DeleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.invalidInput(w, err)
		return
	}
	outcome, err := h.inventory.DeleteSupplier(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, DeleteResult{Outcome: outcome})
}
