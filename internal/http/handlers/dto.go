package handlers

import (
	"time"

	"github.com/rogerio-castellano/stocktrack/internal/auth"
	"github.com/rogerio-castellano/stocktrack/internal/inventory"
	"github.com/rogerio-castellano/stocktrack/internal/models"
	"github.com/shopspring/decimal"
)

type ProductRequest struct {
	Code          string           `json:"codigo_producto"`
	Name          string           `json:"nombre_producto"`
	Description   string           `json:"descripcion"`
	CategoryID    int              `json:"id_categoria"`
	SupplierID    int              `json:"id_proveedor"`
	PurchasePrice decimal.Decimal  `json:"precio_compra"`
	SalePrice     decimal.Decimal  `json:"precio_venta"`
	StockMinimum  *int             `json:"stock_minimo,omitempty"`
	InitialStock  int              `json:"stock_inicial"`
	Location      string           `json:"ubicacion_almacen"`
	Unit          string           `json:"unidad_medida"`
	Weight        *decimal.Decimal `json:"peso,omitempty"`
	Dimensions    string           `json:"dimensiones"`
}

// ProductUpdateRequest only changes the fields present in the body.
type ProductUpdateRequest struct {
	Name          *string          `json:"nombre_producto"`
	Description   *string          `json:"descripcion"`
	CategoryID    *int             `json:"id_categoria"`
	SupplierID    *int             `json:"id_proveedor"`
	PurchasePrice *decimal.Decimal `json:"precio_compra"`
	SalePrice     *decimal.Decimal `json:"precio_venta"`
	StockMinimum  *int             `json:"stock_minimo"`
	Location      *string          `json:"ubicacion_almacen"`
	Unit          *string          `json:"unidad_medida"`
	Weight        *decimal.Decimal `json:"peso"`
	Dimensions    *string          `json:"dimensiones"`
}

func (p ProductUpdateRequest) patch() inventory.ProductPatch {
	return inventory.ProductPatch{
		Name:          p.Name,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		SupplierID:    p.SupplierID,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		StockMinimum:  p.StockMinimum,
		Location:      p.Location,
		Unit:          p.Unit,
		Weight:        p.Weight,
		Dimensions:    p.Dimensions,
	}
}

type ProductResponse struct {
	ID            int                 `json:"id"`
	Code          string              `json:"codigo_producto"`
	Name          string              `json:"nombre_producto"`
	Description   string              `json:"descripcion"`
	CategoryID    int                 `json:"id_categoria"`
	Category      string              `json:"categoria"`
	SupplierID    int                 `json:"id_proveedor"`
	Supplier      string              `json:"proveedor"`
	PurchasePrice decimal.Decimal     `json:"precio_compra"`
	SalePrice     decimal.Decimal     `json:"precio_venta"`
	StockMinimum  int                 `json:"stock_minimo"`
	StockCurrent  int                 `json:"stock_actual"`
	Location      string              `json:"ubicacion_almacen"`
	Unit          string              `json:"unidad_medida"`
	Weight        decimal.NullDecimal `json:"peso"`
	Dimensions    string              `json:"dimensiones,omitempty"`
	Status        models.StockStatus  `json:"estado_stock"`
	QRDataURL     string              `json:"qr_data_url"`
	Active        bool                `json:"activo"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

type ProductsSearchResult struct {
	Data []ProductResponse `json:"data"`
	Meta Meta              `json:"meta"`
}

type ProductDetail struct {
	ProductResponse
	Movements []MovementResponse `json:"movimientos"`
}

type DeleteResult struct {
	Outcome inventory.DeleteOutcome `json:"resultado"`
}

type MovementRequest struct {
	Quantity  int              `json:"cantidad"`
	Reason    string           `json:"motivo"`
	UnitCost  *decimal.Decimal `json:"costo_unitario,omitempty"`
	Reference string           `json:"referencia"`
}

type AdjustmentRequest struct {
	NewStock *int   `json:"nuevo_stock"`
	Reason   string `json:"motivo"`
}

type CancelRequest struct {
	Reason string `json:"motivo"`
}

type MovementResponse struct {
	ID          int                 `json:"id"`
	ProductID   int                 `json:"id_producto"`
	Kind        models.MovementKind `json:"tipo_movimiento"`
	Quantity    int                 `json:"cantidad"`
	StockBefore int                 `json:"stock_anterior"`
	StockAfter  int                 `json:"stock_nuevo"`
	UnitCost    decimal.NullDecimal `json:"costo_unitario"`
	Reason      string              `json:"motivo"`
	Reference   string              `json:"referencia,omitempty"`
	UserID      *int                `json:"id_usuario,omitempty"`
	CancelsID   *int                `json:"anula_movimiento,omitempty"`
	CreatedAt   time.Time           `json:"fecha_movimiento"`
}

type MovementsSearchResult struct {
	Data []MovementResponse `json:"data"`
	Meta Meta               `json:"meta"`
}

// MovementResult is the state after a stock operation: product, ledger entry and any new alerts.
type MovementResult struct {
	Product  ProductResponse  `json:"producto"`
	Movement MovementResponse `json:"movimiento"`
	Alerts   []AlertResponse  `json:"alertas"`
}

type AlertResponse struct {
	ID            int                  `json:"id"`
	ProductID     int                  `json:"id_producto"`
	Kind          models.AlertKind     `json:"tipo_alerta"`
	Priority      models.AlertPriority `json:"prioridad"`
	Message       string               `json:"mensaje"`
	Resolved      bool                 `json:"resuelta"`
	CreatedAt     time.Time            `json:"fecha_creacion"`
	ResolvedAt    *time.Time           `json:"fecha_resolucion,omitempty"`
	ResponsibleID *int                 `json:"id_responsable,omitempty"`
	Elapsed       string               `json:"tiempo_transcurrido,omitempty"`
	Overdue       bool                 `json:"vencida"`
	Urgency       int                  `json:"urgencia,omitempty"`
}

type AlertsSearchResult struct {
	Data []AlertResponse `json:"data"`
	Meta Meta            `json:"meta"`
}

type AlertRequest struct {
	ProductID int                  `json:"id_producto"`
	Kind      models.AlertKind     `json:"tipo_alerta"`
	Priority  models.AlertPriority `json:"prioridad"`
	Message   string               `json:"mensaje"`
}

type ResolveAlertRequest struct {
	Comment string `json:"comentario"`
}

type ReopenAlertRequest struct {
	Reason string `json:"motivo"`
}

type CategoryRequest struct {
	Name        *string `json:"nombre"`
	Description *string `json:"descripcion"`
	Color       *string `json:"color"`
	Active      *bool   `json:"activo"`
}

type CategoryResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
	Color       string `json:"color"`
	Active      bool   `json:"activo"`
}

type SupplierRequest struct {
	Name    *string `json:"nombre"`
	Contact *string `json:"contacto"`
	Phone   *string `json:"telefono"`
	Email   *string `json:"email"`
	Address *string `json:"direccion"`
	Active  *bool   `json:"activo"`
}

type SupplierResponse struct {
	ID      int    `json:"id"`
	Name    string `json:"nombre"`
	Contact string `json:"contacto"`
	Phone   string `json:"telefono"`
	Email   string `json:"email"`
	Address string `json:"direccion"`
	Active  bool   `json:"activo"`
}

type UserLogin struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expira"`
	User      UserResponse `json:"usuario"`
}

type RegisterRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Confirm  string      `json:"confirm_password"`
	Name     string      `json:"nombre"`
	Role     models.Role `json:"rol,omitempty"`
}

type RegisterResult struct {
	Message string       `json:"message"`
	Token   string       `json:"token,omitempty"`
	User    UserResponse `json:"usuario"`
}

type UserResponse struct {
	ID           int         `json:"id"`
	Email        string      `json:"email"`
	Name         string      `json:"nombre"`
	Role         models.Role `json:"rol"`
	Active       bool        `json:"activo"`
	LastAccessAt *time.Time  `json:"ultimo_acceso,omitempty"`
	LockedUntil  *time.Time  `json:"bloqueado_hasta,omitempty"`
}

type ChangePasswordRequest struct {
	Current string `json:"password_actual"`
	New     string `json:"password_nuevo"`
	Confirm string `json:"confirm_password"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type PasswordResetConfirm struct {
	Token    string `json:"token"`
	Password string `json:"password"`
	Confirm  string `json:"confirm_password"`
}

type UserStatusRequest struct {
	Active bool `json:"activo"`
}

type SettingRequest struct {
	Value       any                `json:"valor"`
	Type        models.SettingType `json:"tipo,omitempty"`
	Description string             `json:"descripcion,omitempty"`
}

type SettingResponse struct {
	Key         string             `json:"clave"`
	Value       any                `json:"valor"`
	Type        models.SettingType `json:"tipo"`
	Description string             `json:"descripcion"`
	UpdatedAt   time.Time          `json:"fecha_actualizacion"`
}

type ImportProductsResult struct {
	Imported int      `json:"importados"`
	Updated  int      `json:"actualizados"`
	Errors   []string `json:"errores"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func toUserResponse(u models.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		Active:       u.Active,
		LastAccessAt: u.LastAccessAt,
		LockedUntil:  u.LockedUntil,
	}
}

func toUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	return out
}

func toMovementResponse(m models.Movement) MovementResponse {
	return MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		Kind:        m.Kind,
		Quantity:    m.Quantity,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		UnitCost:    m.UnitCost,
		Reason:      m.Reason,
		Reference:   m.Reference,
		UserID:      m.UserID,
		CancelsID:   m.CancelsID,
		CreatedAt:   m.CreatedAt,
	}
}

func toMovementResponses(ms []models.Movement) []MovementResponse {
	out := make([]MovementResponse, len(ms))
	for i, m := range ms {
		out[i] = toMovementResponse(m)
	}
	return out
}

func toAlertResponse(a models.Alert) AlertResponse {
	return AlertResponse{
		ID:            a.ID,
		ProductID:     a.ProductID,
		Kind:          a.Kind,
		Priority:      a.Priority,
		Message:       a.Message,
		Resolved:      a.Resolved,
		CreatedAt:     a.CreatedAt,
		ResolvedAt:    a.ResolvedAt,
		ResponsibleID: a.ResponsibleID,
	}
}

func toAlertViewResponse(v inventory.AlertView) AlertResponse {
	resp := toAlertResponse(v.Alert)
	resp.Elapsed = v.Elapsed
	resp.Overdue = v.Overdue
	resp.Urgency = v.Urgency
	return resp
}

func toAlertResponses(alerts []models.Alert) []AlertResponse {
	out := make([]AlertResponse, len(alerts))
	for i, a := range alerts {
		out[i] = toAlertResponse(a)
	}
	return out
}

func toCategoryResponse(c models.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description, Color: c.Color, Active: c.Active}
}

func toSupplierResponse(s models.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:      s.ID,
		Name:    s.Name,
		Contact: s.Contact,
		Phone:   s.Phone,
		Email:   s.Email,
		Address: s.Address,
		Active:  s.Active,
	}
}

func loginResult(res auth.LoginResult) LoginResult {
	return LoginResult{Token: res.Token, ExpiresAt: res.Session.ExpiresAt, User: toUserResponse(res.User)}
}
