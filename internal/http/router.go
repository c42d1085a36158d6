package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rogerio-castellano/stocktrack/internal/http/handlers"
	rl "github.com/rogerio-castellano/stocktrack/internal/http/rate_limiter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type RouterConfig struct {
	AllowedOrigins []string
	// AuthLimiter throttles login, registration and password reset per client. Nil disables it.
	AuthLimiter *rl.Limiter
	Logger      *zap.Logger
}

func NewRouter(h *handlers.Handler, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Disposition"},
			AllowCredentials: true,
		}))
	}

	r.Get("/health", h.Health)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Group(func(r chi.Router) {
		if cfg.AuthLimiter != nil {
			r.Use(RateLimit(cfg.AuthLimiter))
		}
		r.Post("/login", h.Login)
		r.Post("/register", h.Register)
		r.Post("/password/forgot", h.RequestPasswordReset)
		r.Post("/password/reset", h.ResetPassword)
	})
	r.Post("/logout", h.Logout)

	r.Route("/api", func(r chi.Router) {
		r.Use(SessionAuth(h.Auth()))

		r.Get("/me", h.Me)
		r.Put("/me/password", h.ChangePassword)

		r.Route("/productos", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Get("/stock-bajo", h.LowStockProducts)
			r.Get("/qr", h.LookupByQR)
			r.Get("/codigo/{codigo}", h.GetProductByCode)
			r.Post("/import", h.ImportProducts)
			r.Get("/{id}", h.GetProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.With(RequireAdmin).Delete("/{id}", h.DeleteProduct)
			r.Post("/{id}/qr", h.RegenerateQR)
			r.Get("/{id}/movimientos", h.ProductMovements)
			r.Post("/{id}/entrada", h.RecordEntry)
			r.Post("/{id}/salida", h.RecordExit)
			r.Post("/{id}/devolucion", h.RecordReturn)
			r.Post("/{id}/merma", h.RecordLoss)
			r.With(RequireAdmin).Post("/{id}/ajuste", h.AdjustStock)
		})

		r.Route("/movimientos", func(r chi.Router) {
			r.Get("/", h.ListMovements)
			r.Get("/{id}", h.GetMovement)
			r.With(RequireAdmin).Post("/{id}/anular", h.CancelMovement)
		})

		r.Route("/categorias", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Get("/{id}", h.GetCategory)
			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin)
				r.Post("/", h.CreateCategory)
				r.Put("/{id}", h.UpdateCategory)
				r.Delete("/{id}", h.DeleteCategory)
			})
		})

		r.Route("/proveedores", func(r chi.Router) {
			r.Get("/", h.ListSuppliers)
			r.Get("/{id}", h.GetSupplier)
			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin)
				r.Post("/", h.CreateSupplier)
				r.Put("/{id}", h.UpdateSupplier)
				r.Delete("/{id}", h.DeleteSupplier)
			})
		})

		r.Route("/alertas", func(r chi.Router) {
			r.Get("/", h.ListAlerts)
			r.Post("/", h.CreateAlert)
			r.Get("/{id}", h.GetAlert)
			r.Post("/{id}/resolver", h.ResolveAlert)
			r.Post("/{id}/reabrir", h.ReopenAlert)
		})

		r.Route("/reportes", func(r chi.Router) {
			r.Get("/dashboard", h.Dashboard)
			r.Get("/inventario", h.InventoryReport)
			r.Get("/movimientos", h.MovementReport)
			r.Get("/productos", h.ProductStats)
			r.Get("/alertas", h.AlertStats)
		})

		r.Route("/usuarios", func(r chi.Router) {
			r.Use(RequireAdmin)
			r.Get("/", h.ListUsers)
			r.Post("/", h.CreateUser)
			r.Get("/estadisticas", h.UserStats)
			r.Get("/{id}", h.GetUser)
			r.Put("/{id}/estado", h.SetUserStatus)
		})

		r.Route("/configuracion", func(r chi.Router) {
			r.Get("/", h.ListSettings)
			r.Get("/{clave}", h.GetSetting)
			r.With(RequireAdmin).Put("/{clave}", h.PutSetting)
			r.With(RequireAdmin).Delete("/{clave}", h.DeleteSetting)
		})
	})

	return r
}
