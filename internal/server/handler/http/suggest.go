package http

import (
	"context"
	"net/http"

	"github.com/mkravets/pantrypal/internal/gateway"
	"github.com/mkravets/pantrypal/internal/models"
)

// Suggester defines the recipe suggestion operation required by the HTTP
// handler. Implemented by suggest.Service.
type Suggester interface {
	Suggest(ctx context.Context, userID string) ([]models.RecipeMessage, error)
}

// UserSource exposes the current user id. Implemented by session.Manager.
type UserSource interface {
	UserID() string
}

// SuggestHandler handles HTTP requests for recipe suggestions.
type SuggestHandler struct {
	Suggest Suggester
	User    UserSource
}

// Run handles POST /api/suggestions. The call blocks while the suggestion
// round polls the message queue; the browser shell shows its own pending
// state meanwhile.
func (h *SuggestHandler) Run(w http.ResponseWriter, r *http.Request) {
	userID := h.User.UserID()
	if userID == "" {
		writeError(w, &gateway.ValidationError{Reason: "user id is missing, please log in"})
		return
	}

	msgs, err := h.Suggest.Suggest(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if msgs == nil {
		msgs = []models.RecipeMessage{}
	}
	writeJSON(w, http.StatusOK, msgs)
}
