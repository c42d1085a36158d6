package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/stocktrack/internal/auth"
	"github.com/rogerio-castellano/stocktrack/internal/models"
)

// ListUsers godoc
// @Summary List user accounts
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Param rol query string false "administrator or operator"
// @Param activo query bool false "Active state"
// @Success 200 {array} UserResponse
// @Failure 403 {string} string "Forbidden"
// @Router /api/usuarios [get]
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	var role *models.Role
	if v := r.URL.Query().Get("rol"); v != "" {
		rl := models.Role(v)
		if !rl.Valid() {
			h.invalidField(w, r, "rol", "unknown role")
			return
		}
		role = &rl
	}
	active, err := queryBoolPtr(r, "activo")
	if err != nil {
		h.invalidInput(w, err)
		return
	}

	users, err := h.auth.ListUsers(r.Context(), role, active)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, toUserResponses(users))
}

// GetUser godoc
// @Summary Get a user account
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} UserResponse
// @Failure 404 {string} string "Not found"
// @Router /api/usuarios/{id} [get]
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.invalidInput(w, err)
		return
	}
	u, err := h.auth.GetUser(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, toUserResponse(u))
}

// CreateUser godoc
// @Summary Create user with custom role
// @Tags usuarios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body RegisterRequest true "User to create with role"
// @Success 201 {object} UserResponse
// @Failure 400 {string} string "Invalid input"
// @Failure 403 {string} string "Forbidden"
// @Failure 409 {string} string "User exists"
// @Router /api/usuarios [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := currentUser(r)
	var req RegisterRequest
	if err := readJSON(w, r, &req); err != nil {
		h.invalidInput(w, err)
		return
	}
	u, err := h.auth.Register(r.Context(), auth.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Confirm:  req.Confirm,
		Name:     req.Name,
		Role:     req.Role,
	}, &actor)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusCreated, toUserResponse(u))
}

// SetUserStatus godoc
// @Summary Activate or deactivate an account
// @Description Deactivation ends every open session of the user. Administrators cannot deactivate themselves.
// @Tags usuarios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param status body UserStatusRequest true "New state"
// @Success 200 {object} UserResponse
// @Failure 400 {string} string "Self deactivation"
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Router /api/usuarios/{id}/estado [put]
func (h *Handler) SetUserStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.invalidInput(w, err)
		return
	}
	var req UserStatusRequest
	if err := readJSON(w, r, &req); err != nil {
		h.invalidInput(w, err)
		return
	}
	actor, _ := currentUser(r)
	u, err := h.auth.SetActive(r.Context(), actor, id, req.Active)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, toUserResponse(u))
}

// UserStats godoc
// @Summary Account and session counts
// @Tags usuarios
// @Produce json
// @Security BearerAuth
// @Success 200 {object} auth.Stats
// @Failure 403 {string} string "Forbidden"
// @Router /api/usuarios/estadisticas [get]
func (h *Handler) UserStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.auth.Stats(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, st)
}
