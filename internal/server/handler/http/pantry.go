package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mkravets/pantrypal/internal/models"
)

// ListView defines the pantry list operations required by the HTTP
// handlers. Implemented by list.View.
type ListView interface {
	Refresh(ctx context.Context) error
	Items() []models.ProductRecord
	Delete(ctx context.Context, productID string) error
}

// PantryHandler handles HTTP requests for the pantry list.
type PantryHandler struct {
	View ListView
}

// List handles GET /api/pantry: re-fetches and returns the current list
// (all products in guest mode, the user's otherwise).
func (h *PantryHandler) List(w http.ResponseWriter, r *http.Request) {
	if err := h.View.Refresh(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	items := h.View.Items()
	if items == nil {
		items = []models.ProductRecord{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Delete handles DELETE /api/pantry/{id}. On success the remaining list is
// returned so the UI can swap it in without another fetch.
func (h *PantryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.View.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.View.Items())
}
