// Package http provides the JSON handlers and routing for the browser
// shell: session, pantry list, scan workflow, and recipe suggestions.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mkravets/pantrypal/internal/gateway"
	"github.com/mkravets/pantrypal/internal/models"
)

// SessionService defines the session mutations required by the HTTP
// handlers. Implemented by session.Manager.
type SessionService interface {
	State() models.Session
	Login(id string)
	Logout()
	EnterGuest()
	ExitGuest()
	MarkNoticeSeen()
}

// Authenticator defines the backend credential operations required by the
// session handlers. Implemented by gateway.Client.
type Authenticator interface {
	// LoginUser exchanges credentials for a user id.
	LoginUser(ctx context.Context, username, password string) (string, error)
	// RegisterUser creates a new account.
	RegisterUser(ctx context.Context, draft models.UserDraft) error
}

// SessionHandler handles HTTP requests for identity: login, registration,
// logout, and guest-mode toggling.
type SessionHandler struct {
	Session SessionService
	Auth    Authenticator
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Current handles GET /api/session.
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Session.State())
}

// Login handles POST /api/session/login. On success the session object is
// mutated (which clears the guest flag) and the new state is returned.
// Failure is always the generic invalid-credential message.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username and password are required"})
		return
	}

	id, err := h.Auth.LoginUser(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, gateway.ErrInvalidCredentials) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": gateway.Message(err)})
			return
		}
		writeError(w, err)
		return
	}

	h.Session.Login(id)
	writeJSON(w, http.StatusOK, h.Session.State())
}

// Register handles POST /api/session/register. The draft passes through
// to the backend; no account state is kept locally.
func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	var draft models.UserDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil || draft.Username == "" || draft.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "username and password are required"})
		return
	}

	if err := h.Auth.RegisterUser(r.Context(), draft); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

// Logout handles POST /api/session/logout, clearing both the user id and
// the guest flag.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Session.Logout()
	writeJSON(w, http.StatusOK, h.Session.State())
}

// EnterGuest handles POST /api/session/guest/enter.
func (h *SessionHandler) EnterGuest(w http.ResponseWriter, r *http.Request) {
	h.Session.EnterGuest()
	writeJSON(w, http.StatusOK, h.Session.State())
}

// ExitGuest handles POST /api/session/guest/exit.
func (h *SessionHandler) ExitGuest(w http.ResponseWriter, r *http.Request) {
	h.Session.ExitGuest()
	writeJSON(w, http.StatusOK, h.Session.State())
}

// NoticeSeen handles POST /api/session/notice-seen, recording the one-time
// informational notice as dismissed.
func (h *SessionHandler) NoticeSeen(w http.ResponseWriter, r *http.Request) {
	h.Session.MarkNoticeSeen()
	writeJSON(w, http.StatusOK, h.Session.State())
}
