package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/stocktrack/internal/auth"
	"github.com/rogerio-castellano/stocktrack/internal/inventory"
	"github.com/rogerio-castellano/stocktrack/internal/report"
	"github.com/rogerio-castellano/stocktrack/internal/settings"
	"go.uber.org/zap"
)

// Services are the domain services the handlers call into.
type Services struct {
	Inventory *inventory.Service
	Auth      *auth.Service
	Reports   *report.Service
	Settings  *settings.Service
}

type Handler struct {
	inventory *inventory.Service
	auth      *auth.Service
	reports   *report.Service
	settings  *settings.Service
	logger    *zap.Logger

	// secureCookies marks the session cookie Secure. Off for plain-HTTP development.
	secureCookies bool
}

type Option func(*Handler)

func WithSecureCookies(secure bool) Option {
	return func(h *Handler) { h.secureCookies = secure }
}

func NewHandler(s Services, logger *zap.Logger, opts ...Option) *Handler {
	h := &Handler{
		inventory: s.Inventory,
		auth:      s.Auth,
		reports:   s.Reports,
		settings:  s.Settings,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Auth exposes the session service to the router's middleware.
func (h *Handler) Auth() *auth.Service {
	return h.auth
}

// Health godoc
// @Summary Liveness probe
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
