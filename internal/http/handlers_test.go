package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rogerio-castellano/stocktrack/internal/auth"
	api "github.com/rogerio-castellano/stocktrack/internal/http"
	"github.com/rogerio-castellano/stocktrack/internal/http/handlers"
	rl "github.com/rogerio-castellano/stocktrack/internal/http/rate_limiter"
	"github.com/rogerio-castellano/stocktrack/internal/inventory"
	"github.com/rogerio-castellano/stocktrack/internal/models"
	"github.com/rogerio-castellano/stocktrack/internal/repo"
	"github.com/rogerio-castellano/stocktrack/internal/report"
	"github.com/rogerio-castellano/stocktrack/internal/settings"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "secret1"
)

type testServer struct {
	router     http.Handler
	adminToken string
}

func newTestServer(t *testing.T, limiter *rl.Limiter) *testServer {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()
	store := repo.NewMemoryStore()

	settingsSvc := settings.NewService(store, logger)
	if _, err := settingsSvc.SeedDefaults(ctx); err != nil {
		t.Fatalf("seed settings: %v", err)
	}
	authSvc := auth.NewService(store, auth.NewTokens("test-secret"), logger)
	if _, err := authSvc.EnsureAdmin(ctx, adminEmail, adminPassword); err != nil {
		t.Fatalf("create admin: %v", err)
	}

	h := handlers.NewHandler(handlers.Services{
		Inventory: inventory.NewService(store, settingsSvc, nil, logger),
		Auth:      authSvc,
		Reports:   report.NewService(store, settingsSvc, logger),
		Settings:  settingsSvc,
	}, logger)

	if limiter == nil {
		limiter = rl.New(rate.Limit(1000), 1000, time.Minute)
	}
	s := &testServer{router: api.NewRouter(h, api.RouterConfig{AuthLimiter: limiter, Logger: logger})}
	s.adminToken = s.login(t, adminEmail, adminPassword)
	return s
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/login", "", handlers.UserLogin{Email: email, Password: password})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d: %s", email, w.Code, w.Body.String())
	}
	var res handlers.LoginResult
	decode(t, w, &res)
	if res.Token == "" {
		t.Fatal("expected a token")
	}
	return res.Token
}

func (s *testServer) registerOperator(t *testing.T, email string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/register", "", handlers.RegisterRequest{
		Email: email, Password: "secret1", Confirm: "secret1", Name: "Operador",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var res handlers.RegisterResult
	decode(t, w, &res)
	return res.Token
}

// seedCatalog creates a category and a supplier and returns their ids.
func (s *testServer) seedCatalog(t *testing.T) (int, int) {
	t.Helper()
	name := "Herramientas"
	w := s.do(t, http.MethodPost, "/api/categorias", s.adminToken, handlers.CategoryRequest{Name: &name})
	if w.Code != http.StatusCreated {
		t.Fatalf("create category: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var cat handlers.CategoryResponse
	decode(t, w, &cat)

	supName := "Ferretería Central"
	w = s.do(t, http.MethodPost, "/api/proveedores", s.adminToken, handlers.SupplierRequest{Name: &supName})
	if w.Code != http.StatusCreated {
		t.Fatalf("create supplier: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var sup handlers.SupplierResponse
	decode(t, w, &sup)
	return cat.ID, sup.ID
}

func (s *testServer) createProduct(t *testing.T, code string, categoryID, supplierID, stock int) handlers.ProductResponse {
	t.Helper()
	minimum := 5
	body := map[string]any{
		"codigo_producto": code,
		"nombre_producto": "Martillo " + code,
		"id_categoria":    categoryID,
		"id_proveedor":    supplierID,
		"precio_compra":   "10.50",
		"precio_venta":    "15",
		"stock_minimo":    minimum,
		"stock_inicial":   stock,
	}
	w := s.do(t, http.MethodPost, "/api/productos", s.adminToken, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create product: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var p handlers.ProductResponse
	decode(t, w, &p)
	return p
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	w := s.do(t, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestLogin_FormSetsSessionCookie(t *testing.T) {
	s := newTestServer(t, nil)

	form := url.Values{"email": {adminEmail}, "password": {adminPassword}, "remember_me": {"on"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == handlers.SessionCookie {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatal("expected session cookie")
	}
	if !cookie.HttpOnly {
		t.Error("expected HttpOnly session cookie")
	}

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(cookie)
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d", w.Code)
	}
	var me handlers.UserResponse
	decode(t, w, &me)
	if me.Email != adminEmail || me.Role != models.RoleAdministrator {
		t.Errorf("unexpected user %+v", me)
	}
}

func TestLogin_Failures(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"wrong password", handlers.UserLogin{Email: adminEmail, Password: "wrong!"}, http.StatusUnauthorized},
		{"unknown user", handlers.UserLogin{Email: "ghost@example.com", Password: "secret1"}, http.StatusUnauthorized},
		{"missing fields", handlers.UserLogin{Email: adminEmail}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/login", "", tt.body)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
		})
	}
}

func TestAPI_RequiresSession(t *testing.T) {
	s := newTestServer(t, nil)

	if w := s.do(t, http.MethodGet, "/api/productos", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/productos", "not-a-token", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", w.Code)
	}
}

func TestLogout_EndsSession(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.login(t, adminEmail, adminPassword)

	if w := s.do(t, http.MethodPost, "/logout", token, nil); w.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/me", token, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/me", s.adminToken, nil); w.Code != http.StatusOK {
		t.Fatalf("other session: expected 200, got %d", w.Code)
	}
}

func TestRegister_CreatesOperatorWithoutAdminRights(t *testing.T) {
	s := newTestServer(t, nil)
	token := s.registerOperator(t, "op@example.com")

	w := s.do(t, http.MethodGet, "/api/me", token, nil)
	var me handlers.UserResponse
	decode(t, w, &me)
	if me.Role != models.RoleOperator {
		t.Fatalf("expected operator role, got %q", me.Role)
	}

	name := "Pinturas"
	if w := s.do(t, http.MethodPost, "/api/categorias", token, handlers.CategoryRequest{Name: &name}); w.Code != http.StatusForbidden {
		t.Fatalf("category as operator: expected 403, got %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/usuarios", token, nil); w.Code != http.StatusForbidden {
		t.Fatalf("users as operator: expected 403, got %d", w.Code)
	}

	w = s.do(t, http.MethodPost, "/register", "", handlers.RegisterRequest{
		Email: "op@example.com", Password: "secret1", Confirm: "secret1", Name: "Otro",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate email: expected 409, got %d", w.Code)
	}
}

func TestCreateProduct_Validation(t *testing.T) {
	s := newTestServer(t, nil)

	w := s.do(t, http.MethodPost, "/api/productos", s.adminToken, map[string]any{
		"codigo_producto": " ",
		"precio_compra":   "-1",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var errs []inventory.FieldError
	decode(t, w, &errs)
	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	for _, f := range []string{"codigo_producto", "nombre_producto", "precio_compra"} {
		if !fields[f] {
			t.Errorf("expected error for %s, got %+v", f, errs)
		}
	}
}

func TestCreateProduct_DuplicateCode(t *testing.T) {
	s := newTestServer(t, nil)
	catID, supID := s.seedCatalog(t)
	s.createProduct(t, "mt-01", catID, supID, 0)

	w := s.do(t, http.MethodPost, "/api/productos", s.adminToken, map[string]any{
		"codigo_producto": "MT-01",
		"nombre_producto": "Otro",
		"id_categoria":    catID,
		"id_proveedor":    supID,
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestProductLookups(t *testing.T) {
	s := newTestServer(t, nil)
	catID, supID := s.seedCatalog(t)
	p := s.createProduct(t, "mt-01", catID, supID, 20)

	if p.Code != "MT-01" || p.StockCurrent != 20 || p.Category != "Herramientas" {
		t.Fatalf("unexpected product %+v", p)
	}
	if !strings.HasPrefix(p.QRDataURL, "data:image/png;base64,") {
		t.Errorf("expected QR data url, got %q", p.QRDataURL)
	}

	w := s.do(t, http.MethodGet, "/api/productos/codigo/mt-01", s.adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("by code: expected 200, got %d", w.Code)
	}

	w = s.do(t, http.MethodGet, "/api/productos/qr?data="+url.QueryEscape("https://stocktrack.app/producto/MT-01"), s.adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("by qr: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = s.do(t, http.MethodGet, "/api/productos?buscar=martillo", s.adminToken, nil)
	var list handlers.ProductsSearchResult
	decode(t, w, &list)
	if list.Meta.TotalCount != 1 || len(list.Data) != 1 {
		t.Fatalf("expected one product, got %+v", list.Meta)
	}

	w = s.do(t, http.MethodGet, "/api/productos/999", s.adminToken, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing product: expected 404, got %d", w.Code)
	}

	w = s.do(t, http.MethodGet, "/api/productos/abc", s.adminToken, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad id: expected 400, got %d", w.Code)
	}
}

func TestMovementFlow(t *testing.T) {
	s := newTestServer(t, nil)
	catID, supID := s.seedCatalog(t)
	p := s.createProduct(t, "mt-01", catID, supID, 20)
	operator := s.registerOperator(t, "op@example.com")

	w := s.do(t, http.MethodPost, "/api/productos/"+strconv.Itoa(p.ID)+"/salida", operator, handlers.MovementRequest{Quantity: 16, Reason: "venta"})
	if w.Code != http.StatusCreated {
		t.Fatalf("exit: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var exit handlers.MovementResult
	decode(t, w, &exit)
	if exit.Product.StockCurrent != 4 || exit.Movement.StockBefore != 20 || exit.Movement.StockAfter != 4 {
		t.Fatalf("unexpected exit result %+v", exit.Movement)
	}
	if len(exit.Alerts) != 1 || exit.Alerts[0].Kind != models.AlertLowStock {
		t.Fatalf("expected one low stock alert, got %+v", exit.Alerts)
	}

	w = s.do(t, http.MethodPost, "/api/productos/"+strconv.Itoa(p.ID)+"/salida", operator, handlers.MovementRequest{Quantity: 10})
	if w.Code != http.StatusConflict {
		t.Fatalf("insufficient stock: expected 409, got %d", w.Code)
	}

	w = s.do(t, http.MethodPost, "/api/productos/"+strconv.Itoa(p.ID)+"/entrada", operator, handlers.MovementRequest{Quantity: 0})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("zero quantity: expected 400, got %d", w.Code)
	}

	newStock := 30
	w = s.do(t, http.MethodPost, "/api/productos/"+strconv.Itoa(p.ID)+"/ajuste", operator, handlers.AdjustmentRequest{NewStock: &newStock})
	if w.Code != http.StatusForbidden {
		t.Fatalf("adjust as operator: expected 403, got %d", w.Code)
	}

	cancelPath := "/api/movimientos/" + strconv.Itoa(exit.Movement.ID) + "/anular"
	if w := s.do(t, http.MethodPost, cancelPath, operator, handlers.CancelRequest{Reason: "error"}); w.Code != http.StatusForbidden {
		t.Fatalf("cancel as operator: expected 403, got %d", w.Code)
	}
	w = s.do(t, http.MethodPost, cancelPath, s.adminToken, handlers.CancelRequest{Reason: "error de digitación"})
	if w.Code != http.StatusCreated {
		t.Fatalf("cancel: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var cancelled handlers.MovementResult
	decode(t, w, &cancelled)
	if cancelled.Product.StockCurrent != 20 {
		t.Fatalf("expected stock restored to 20, got %d", cancelled.Product.StockCurrent)
	}
	if cancelled.Movement.CancelsID == nil || *cancelled.Movement.CancelsID != exit.Movement.ID {
		t.Errorf("expected compensating entry to reference %d", exit.Movement.ID)
	}

	if w := s.do(t, http.MethodPost, cancelPath, s.adminToken, handlers.CancelRequest{Reason: "otra vez"}); w.Code != http.StatusConflict {
		t.Fatalf("second cancel: expected 409, got %d", w.Code)
	}

	w = s.do(t, http.MethodGet, "/api/movimientos?id_producto="+strconv.Itoa(p.ID), s.adminToken, nil)
	var movements handlers.MovementsSearchResult
	decode(t, w, &movements)
	if movements.Meta.TotalCount != 3 {
		t.Fatalf("expected initial entry, exit and reversal, got %d", movements.Meta.TotalCount)
	}
}

func TestAlertFlow(t *testing.T) {
	s := newTestServer(t, nil)
	catID, supID := s.seedCatalog(t)
	p := s.createProduct(t, "mt-01", catID, supID, 6)

	w := s.do(t, http.MethodPost, "/api/productos/"+strconv.Itoa(p.ID)+"/salida", s.adminToken, handlers.MovementRequest{Quantity: 6})
	if w.Code != http.StatusCreated {
		t.Fatalf("exit: expected 201, got %d", w.Code)
	}

	w = s.do(t, http.MethodGet, "/api/alertas?resuelta=false", s.adminToken, nil)
	var alerts handlers.AlertsSearchResult
	decode(t, w, &alerts)
	if len(alerts.Data) != 1 || alerts.Data[0].Kind != models.AlertOutOfStock || alerts.Data[0].Priority != models.PriorityCritical {
		t.Fatalf("expected one critical out of stock alert, got %+v", alerts.Data)
	}
	alertPath := "/api/alertas/" + strconv.Itoa(alerts.Data[0].ID)

	w = s.do(t, http.MethodPost, alertPath+"/resolver", s.adminToken, handlers.ResolveAlertRequest{Comment: "pedido enviado"})
	if w.Code != http.StatusOK {
		t.Fatalf("resolve: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resolved handlers.AlertResponse
	decode(t, w, &resolved)
	if !resolved.Resolved || !strings.Contains(resolved.Message, "[RESUELTO] pedido enviado") {
		t.Fatalf("unexpected resolved alert %+v", resolved)
	}

	if w := s.do(t, http.MethodPost, alertPath+"/resolver", s.adminToken, nil); w.Code != http.StatusConflict {
		t.Fatalf("resolve twice: expected 409, got %d", w.Code)
	}
	if w := s.do(t, http.MethodPost, alertPath+"/reabrir", s.adminToken, handlers.ReopenAlertRequest{Reason: "sin stock"}); w.Code != http.StatusOK {
		t.Fatalf("reopen: expected 200, got %d", w.Code)
	}

	w = s.do(t, http.MethodPost, "/api/alertas", s.adminToken, handlers.AlertRequest{
		ProductID: p.ID, Kind: models.AlertOutOfStock, Message: "manual",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate open alert: expected 409, got %d", w.Code)
	}
}

func TestDeleteProduct_DeactivatesWhenMovementsExist(t *testing.T) {
	s := newTestServer(t, nil)
	catID, supID := s.seedCatalog(t)
	p := s.createProduct(t, "mt-01", catID, supID, 3)
	operator := s.registerOperator(t, "op@example.com")

	path := "/api/productos/" + strconv.Itoa(p.ID)
	if w := s.do(t, http.MethodDelete, path, operator, nil); w.Code != http.StatusForbidden {
		t.Fatalf("delete as operator: expected 403, got %d", w.Code)
	}

	w := s.do(t, http.MethodDelete, path, s.adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}
	var res handlers.DeleteResult
	decode(t, w, &res)
	if res.Outcome != inventory.Deactivated {
		t.Fatalf("expected deactivated, got %q", res.Outcome)
	}

	w = s.do(t, http.MethodGet, "/api/productos", s.adminToken, nil)
	var list handlers.ProductsSearchResult
	decode(t, w, &list)
	if list.Meta.TotalCount != 0 {
		t.Fatalf("inactive products must not be listed, got %d", list.Meta.TotalCount)
	}
}

func TestReports(t *testing.T) {
	s := newTestServer(t, nil)
	catID, supID := s.seedCatalog(t)
	p := s.createProduct(t, "mt-01", catID, supID, 20)
	s.do(t, http.MethodPost, "/api/productos/"+strconv.Itoa(p.ID)+"/salida", s.adminToken, handlers.MovementRequest{Quantity: 4})
	operator := s.registerOperator(t, "op@example.com")

	w := s.do(t, http.MethodGet, "/api/reportes/dashboard", operator, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard: expected 200, got %d", w.Code)
	}
	var dash report.Dashboard
	decode(t, w, &dash)
	if dash.General.TotalProducts != 1 || dash.General.RecentMovements != 2 {
		t.Fatalf("unexpected dashboard %+v", dash.General)
	}

	w = s.do(t, http.MethodGet, "/api/reportes/inventario?formato=csv", s.adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("csv export: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("expected text/csv, got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "reporte_inventario_") {
		t.Errorf("unexpected Content-Disposition %q", cd)
	}
	if !strings.Contains(w.Body.String(), "MT-01") {
		t.Errorf("expected product row in export")
	}

	if w := s.do(t, http.MethodGet, "/api/reportes/inventario?formato=csv", operator, nil); w.Code != http.StatusForbidden {
		t.Fatalf("export as operator: expected 403, got %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/reportes/inventario?formato=docx", s.adminToken, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown format: expected 400, got %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/reportes/movimientos?desde=2024-13-01", s.adminToken, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad date: expected 400, got %d", w.Code)
	}
}

func TestImportProducts(t *testing.T) {
	s := newTestServer(t, nil)
	s.seedCatalog(t)

	csvData := "codigo,nombre,categoria,proveedor,precio_compra,precio_venta,stock_minimo,stock\n" +
		"IMP-1,Taladro,Herramientas,Ferretería Central,100,150,2,10\n" +
		"IMP-2,Sierra,Desconocida,Ferretería Central,50,80,2,5\n"

	upload := func(mode string) handlers.ImportProductsResult {
		t.Helper()
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", "productos.csv")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write([]byte(csvData))
		mw.Close()

		req := httptest.NewRequest(http.MethodPost, "/api/productos/import?mode="+mode, &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+s.adminToken)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("import: expected 200, got %d: %s", w.Code, w.Body.String())
		}
		var res handlers.ImportProductsResult
		decode(t, w, &res)
		return res
	}

	res := upload("skip")
	if res.Imported != 1 || len(res.Errors) != 1 {
		t.Fatalf("first import: unexpected result %+v", res)
	}

	res = upload("skip")
	if res.Imported != 0 || res.Updated != 0 || len(res.Errors) != 2 {
		t.Fatalf("skip mode: unexpected result %+v", res)
	}

	res = upload("update")
	if res.Updated != 1 {
		t.Fatalf("update mode: unexpected result %+v", res)
	}
}

func TestSettings(t *testing.T) {
	s := newTestServer(t, nil)
	operator := s.registerOperator(t, "op@example.com")
	path := "/api/configuracion/" + settings.KeyExcessLimit

	if w := s.do(t, http.MethodPut, path, operator, handlers.SettingRequest{Value: 50}); w.Code != http.StatusForbidden {
		t.Fatalf("put as operator: expected 403, got %d", w.Code)
	}
	if w := s.do(t, http.MethodPut, path, s.adminToken, handlers.SettingRequest{Value: "lots"}); w.Code != http.StatusBadRequest {
		t.Fatalf("bad number: expected 400, got %d", w.Code)
	}
	if w := s.do(t, http.MethodPut, path, s.adminToken, handlers.SettingRequest{Value: 50}); w.Code != http.StatusOK {
		t.Fatalf("put: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w := s.do(t, http.MethodGet, "/api/configuracion?grupo=inventario", operator, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("group: expected 200, got %d", w.Code)
	}
	var group map[string]any
	decode(t, w, &group)
	if group["limite_exceso"] != float64(50) {
		t.Fatalf("expected limite_exceso 50, got %v", group["limite_exceso"])
	}

	if w := s.do(t, http.MethodDelete, path, s.adminToken, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, path, s.adminToken, nil); w.Code != http.StatusNotFound {
		t.Fatalf("get deleted: expected 404, got %d", w.Code)
	}
}

func TestUsers(t *testing.T) {
	s := newTestServer(t, nil)
	operator := s.registerOperator(t, "op@example.com")

	w := s.do(t, http.MethodPost, "/api/usuarios", s.adminToken, handlers.RegisterRequest{
		Email: "boss@example.com", Password: "secret1", Confirm: "secret1", Name: "Jefa", Role: models.RoleAdministrator,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create user: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var boss handlers.UserResponse
	decode(t, w, &boss)
	if boss.Role != models.RoleAdministrator {
		t.Fatalf("expected administrator, got %q", boss.Role)
	}

	w = s.do(t, http.MethodGet, "/api/usuarios", s.adminToken, nil)
	var users []handlers.UserResponse
	decode(t, w, &users)
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}

	var opID int
	for _, u := range users {
		if u.Email == "op@example.com" {
			opID = u.ID
		}
	}
	w = s.do(t, http.MethodPut, "/api/usuarios/"+strconv.Itoa(opID)+"/estado", s.adminToken, handlers.UserStatusRequest{Active: false})
	if w.Code != http.StatusOK {
		t.Fatalf("deactivate: expected 200, got %d", w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/me", operator, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("deactivated session: expected 401, got %d", w.Code)
	}

	w = s.do(t, http.MethodGet, "/api/me", s.adminToken, nil)
	var me handlers.UserResponse
	decode(t, w, &me)
	w = s.do(t, http.MethodPut, "/api/usuarios/"+strconv.Itoa(me.ID)+"/estado", s.adminToken, handlers.UserStatusRequest{Active: false})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("self deactivation: expected 400, got %d", w.Code)
	}
}

func TestRateLimit_Login(t *testing.T) {
	limiter := rl.New(rate.Every(time.Hour), 2, time.Minute)
	s := newTestServer(t, limiter)

	// The admin login in newTestServer used one token.
	if w := s.do(t, http.MethodPost, "/login", "", handlers.UserLogin{Email: adminEmail, Password: "wrong!"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	w := s.do(t, http.MethodPost, "/login", "", handlers.UserLogin{Email: adminEmail, Password: adminPassword})
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}

	if w := s.do(t, http.MethodGet, "/api/me", s.adminToken, nil); w.Code != http.StatusOK {
		t.Fatalf("api is not rate limited: expected 200, got %d", w.Code)
	}
}
