package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/stocktrack/internal/auth"
	"github.com/rogerio-castellano/stocktrack/internal/models"
	"github.com/rogerio-castellano/stocktrack/internal/settings"
)

func toSettingResponse(st models.Setting) SettingResponse {
	return SettingResponse{
		Key:         st.Key,
		Value:       settings.Typed(st),
		Type:        st.Type,
		Description: st.Description,
		UpdatedAt:   st.UpdatedAt,
	}
}

// ListSettings godoc
// @Summary List settings
// @Description With grupo, returns the typed values of that prefix keyed without it.
// @Tags configuracion
// @Produce json
// @Security BearerAuth
// @Param grupo query string false "Prefix group (empresa, sistema, notificacion, qr, inventario)"
// @Success 200 {array} SettingResponse
// @Router /api/configuracion [get]
func (h *Handler) ListSettings(w http.ResponseWriter, r *http.Request) {
	if group := r.URL.Query().Get("grupo"); group != "" {
		prefix := strings.TrimSuffix(group, "_") + "_"
		values, err := h.settings.Group(r.Context(), prefix)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		h.respond(w, r, http.StatusOK, values)
		return
	}

	list, err := h.settings.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]SettingResponse, len(list))
	for i, st := range list {
		out[i] = toSettingResponse(st)
	}
	h.respond(w, r, http.StatusOK, out)
}

// GetSetting godoc
// @Summary Get a setting
// @Tags configuracion
// @Produce json
// @Security BearerAuth
// @Param clave path string true "Key"
// @Success 200 {object} SettingResponse
// @Failure 404 {string} string "Not found"
// @Router /api/configuracion/{clave} [get]
func (h *Handler) GetSetting(w http.ResponseWriter, r *http.Request) {
	st, err := h.settings.Get(r.Context(), chi.URLParam(r, "clave"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, toSettingResponse(st))
}

// PutSetting godoc
// @Summary Create or change a setting
// @Description The value is coerced to the declared type.
// @Tags configuracion
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clave path string true "Key"
// @Param setting body SettingRequest true "Value and optional type"
// @Success 200 {object} SettingResponse
// @Failure 400 {string} string "Invalid value for type"
// @Failure 403 {string} string "Forbidden"
// @Router /api/configuracion/{clave} [put]
func (h *Handler) PutSetting(w http.ResponseWriter, r *http.Request) {
	var req SettingRequest
	if err := readJSON(w, r, &req); err != nil {
		h.invalidInput(w, err)
		return
	}
	st, err := h.settings.Set(r.Context(), chi.URLParam(r, "clave"), req.Value, req.Type, req.Description, auth.UserID(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.respond(w, r, http.StatusOK, toSettingResponse(st))
}

// DeleteSetting godoc
// @Summary Delete a setting
// @Tags configuracion
// @Security BearerAuth
// @Param clave path string true "Key"
// @Success 204 "Deleted"
// @Failure 403 {string} string "Forbidden"
// @Failure 404 {string} string "Not found"
// @Router /api/configuracion/{clave} [delete]
func (h *Handler) DeleteSetting(w http.ResponseWriter, r *http.Request) {
	if err := h.settings.Delete(r.Context(), chi.URLParam(r, "clave")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
