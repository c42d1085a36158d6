package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/stocktrack/internal/inventory"
)

// invalidField answers 400 with a single field error, in the same shape the services use.
func (h *Handler) invalidField(w http.ResponseWriter, r *http.Request, field, description string) {
	h.respond(w, r, http.StatusBadRequest, inventory.ValidationErrors{{Field: field, Description: description}})
}

func (h *Handler) invalidInput(w http.ResponseWriter, err error) {
	http.Error(w, "invalid input: "+err.Error(), http.StatusBadRequest)
}
