package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/stocktrack/internal/auth"
	"github.com/rogerio-castellano/stocktrack/internal/inventory"
	"github.com/rogerio-castellano/stocktrack/internal/models"
	"github.com/shopspring/decimal"
)

// catalogNames resolves category and supplier ids to names for product responses.
type catalogNames struct {
	categories map[int]string
	suppliers  map[int]string
}

func (h *Handler) catalogNames(ctx context.Context) (catalogNames, error) {
	categories, err := h.inventory.ListCategories(ctx, false)
	if err != nil {
		return catalogNames{}, err
	}
	suppliers, err := h.inventory.ListSuppliers(ctx, false)
	if err != nil {
		return catalogNames{}, err
	}
	n := catalogNames{categories: make(map[int]string, len(categories)), suppliers: make(map[int]string, len(suppliers))}
	for _, c := range categories {
		n.categories[c.ID] = c.Name
	}
	for _, s := range suppliers {
		n.suppliers[s.ID] = s.Name
	}
	return n, nil
}

func (n catalogNames) product(p models.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		Category:      n.categories[p.CategoryID],
		SupplierID:    p.SupplierID,
		Supplier:      n.suppliers[p.SupplierID],
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		StockMinimum:  p.StockMinimum,
		StockCurrent:  p.StockCurrent,
		Location:      p.Location,
		Unit:          p.Unit,
		Weight:        p.Weight,
		Dimensions:    p.Dimensions,
		Status:        p.Status(),
		QRDataURL:     p.QRDataURL,
		Active:        p.Active,
	}
}

func (n catalogNames) products(ps []models.Product) []ProductResponse {
	out := make([]ProductResponse, len(ps))
	for i, p := range ps {
		out[i] = n.product(p)
	}
	return out
}

func (h *Handler) productResponse(ctx context.Context, p models.Product) (ProductResponse, error) {
	names, err := h.catalogNames(ctx)
	if err != nil {
		return ProductResponse{}, err
	}
	return names.product(p), nil
}

// CreateProduct godoc
// @Summary Create a new product
// @Description Adds a product to the catalog. A positive stock_inicial is booked as an entry movement.
// @Tags productos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductResponse
// @Failure 400 {array} inventory.FieldError
// @Failure 409 {string} string "Duplicated code"
// @Router /api/productos [post]
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		h.invalidInput(w, err)
		return
	}

	in := inventory.CreateProductInput{
		Code:          req.Code,
		Name:          req.Name,
		Description:   req.Description,
		CategoryID:    req.CategoryID,
		SupplierID:    req.SupplierID,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		StockMinimum:  req.StockMinimum,
		InitialStock:  req.InitialStock,
		Location:      req.Location,
		Unit:          req.Unit,
		Dimensions:    req.Dimensions,
		UserID:        auth.UserID(r.Context()),
	}
	if req.Weight != nil {
		in.Weight = decimal.NewNullDecimal(*req.Weight)
	}

	created, err := h.inventory.CreateProduct(r.Context(), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp, err := h.productResponse(r.Context(), created)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, resp)
}

// ListProducts godoc
// @Summary List active products
// @Tags productos
// @Produce json
// @Security BearerAuth
// @Param buscar query string false "Search in code, name and description"
// @Param id_categoria query int false "Category ID"
// @Param id_proveedor query int false "Supplier ID"
// @Param stock_bajo query bool false "Only products at or below their minimum"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size (max 100)"
// @Success 200 {object} ProductsSearchResult
// @Failure 400 {string} string "Invalid filter"
// @Router /api/productos [get]
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := inventory.ListQuery{
		Search:   r.URL.Query().Get("buscar"),
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "page_size"),
	}
	var err error
	if q.CategoryID, err = queryIntPtr(r, "id_categoria"); err != nil {
		h.invalidInput(w, err)
		return
	}
	if q.SupplierID, err = queryIntPtr(r, "id_proveedor"); err != nil {
		h.invalidInput(w, err)
		return
	}
	q.LowStockOnly = formBool(r.URL.Query().Get("stock_bajo"))

	page, err := h.inventory.ListProducts(r.Context(), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	names, err := h.catalogNames(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, ProductsSearchResult{
		Data: names.products(page.Items),
		Meta: Meta{TotalCount: page.Total, Page: page.Page, PageSize: page.PageSize, TotalPages: page.TotalPages},
	})
}

// GetProduct godoc
// @Summary Get product by ID with its latest movements
// @Tags productos
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} ProductDetail
// @Failure 400 {string} string "Invalid ID"
// @Failure 404 {string} string "Not found"
// @Router /api/productos/{id} [get]
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.invalidInput(w, err)
		return
	}
	p, err := h.inventory.GetProduct(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	movements, err := h.inventory.ProductMovements(r.Context(), id, inventory.DefaultHistorySize)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp, err := h.productResponse(r.Context(), p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, ProductDetail{ProductResponse: resp, Movements: toMovementResponses(movements)})
}

// GetProductByCode godoc
// @Summary Get product by code
// @Tags productos
// @Produce json
// @Security BearerAuth
// @Param codigo path string true "Product code"
// @Success 200 {object} ProductResponse
// @Failure 404 {string} string "Not found"
// @Router /api/productos/codigo/{codigo} [get]
func (h *Handler) GetProductByCode(w http.ResponseWriter, r *http.Request) {
	p, err := h.inventory.GetProductByCode(r.Context(), chi.URLParam(r, "codigo"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp, err := h.productResponse(r.Context(), p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, resp)
}

// LookupByQR godoc
// @Summary Resolve scanned QR text to a product
// @Tags productos
// @Produce json
// @Security BearerAuth
// @Param data query string true "Scanned QR text or bare product code"
// @Success 200 {object} ProductResponse
// @Failure 400 {string} string "Empty QR data"
// @Failure 404 {string} string "Not found"
// @Router /api/productos/qr [get]
func (h *Handler) LookupByQR(w http.ResponseWriter, r *http.Request) {
	p, err := h.inventory.LookupByQR(r.Context(), r.URL.Query().Get("data"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp, err := h.productResponse(r.Context(), p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, resp)
}

// UpdateProduct godoc
// @Summary Update product fields
// @Description Stock is not editable here; use the movement endpoints.
// @Tags productos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param product body ProductUpdateRequest true "Fields to change"
// @Success 200 {object} ProductResponse
// @Failure 400 {array} inventory.FieldError
// @Failure 404 {string} string "Not found"
// @Router /api/productos/{id} [put]
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.invalidInput(w, err)
		return
	}
	var req ProductUpdateRequest
	if err := readJSON(w, r, &req); err != nil {
		h.invalidInput(w, err)
		return
	}
	updated, err := h.inventory.UpdateProduct(r.Context(), id, req.patch())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp, err := h.productResponse(r.Context(), updated)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, resp)
}

// DeleteProduct godoc
// @Summary Delete a product
// @Description Products with movements are deactivated instead of removed.
// @Tags productos
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} DeleteResult
// @Failure 400 {string} string "Invalid ID"
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Router /api/productos/{id} [delete]
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.invalidInput(w, err)
		return
	}
	outcome, err := h.inventory.DeleteProduct(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, DeleteResult{Outcome: outcome})
}

// RegenerateQR godoc
// @Summary Rebuild the QR code of a product
// @Tags productos
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param base_url query string false "Base URL encoded in the QR (defaults to the configured one)"
// @Success 200 {object} ProductResponse
// @Failure 404 {string} string "Not found"
// @Router /api/productos/{id}/qr [post]
func (h *Handler) RegenerateQR(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.invalidInput(w, err)
		return
	}
	p, err := h.inventory.RegenerateQR(r.Context(), id, r.URL.Query().Get("base_url"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp, err := h.productResponse(r.Context(), p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, resp)
}

// LowStockProducts godoc
// @Summary List products at or below their minimum stock
// @Tags productos
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ProductResponse
// @Router /api/productos/stock-bajo [get]
func (h *Handler) LowStockProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.inventory.LowStockProducts(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	names, err := h.catalogNames(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, names.products(products))
}
