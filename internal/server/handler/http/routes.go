package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mkravets/pantrypal/internal/middleware"
)

// NewRouter constructs the HTTP handler serving the browser shell.
//
// Routes:
//
//	GET    /api/session              → sessionHandler.Current
//	POST   /api/session/login        → sessionHandler.Login
//	POST   /api/session/register     → sessionHandler.Register
//	POST   /api/session/logout       → sessionHandler.Logout
//	POST   /api/session/guest/enter  → sessionHandler.EnterGuest
//	POST   /api/session/guest/exit   → sessionHandler.ExitGuest
//	POST   /api/session/notice-seen  → sessionHandler.NoticeSeen
//	GET    /api/pantry               → pantryHandler.List
//	DELETE /api/pantry/{id}          → pantryHandler.Delete
//	GET    /api/scan                 → scanHandler.State
//	POST   /api/scan/decode          → scanHandler.Decode
//	POST   /api/scan/manual          → scanHandler.Manual
//	POST   /api/scan/retry           → scanHandler.Retry
//	POST   /api/scan/dismiss         → scanHandler.Dismiss
//	POST   /api/scan/cancel          → scanHandler.Cancel
//	POST   /api/scan/submit          → scanHandler.Submit
//	POST   /api/scan/reset           → scanHandler.ResetScan
//	POST   /api/suggestions          → suggestHandler.Run
//	GET    /ws/scan                  → scanSocket.Serve (websocket)
//
// The /api subtree only accepts application/json bodies; every request is
// logged through the zap logger.
func NewRouter(
	sessionHandler *SessionHandler,
	pantryHandler *PantryHandler,
	scanHandler *ScanHandler,
	scanSocket *ScanSocketHandler,
	suggestHandler *SuggestHandler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		// Only allow requests with Content-Type: application/json
		r.Use(chiMiddleware.AllowContentType("application/json"))

		r.Route("/session", func(r chi.Router) {
			r.Get("/", sessionHandler.Current)
			r.Post("/login", sessionHandler.Login)
			r.Post("/register", sessionHandler.Register)
			r.Post("/logout", sessionHandler.Logout)
			r.Post("/guest/enter", sessionHandler.EnterGuest)
			r.Post("/guest/exit", sessionHandler.ExitGuest)
			r.Post("/notice-seen", sessionHandler.NoticeSeen)
		})

		r.Route("/pantry", func(r chi.Router) {
			r.Get("/", pantryHandler.List)
			r.Delete("/{id}", pantryHandler.Delete)
		})

		r.Route("/scan", func(r chi.Router) {
			r.Get("/", scanHandler.State)
			r.Post("/decode", scanHandler.Decode)
			r.Post("/manual", scanHandler.Manual)
			r.Post("/retry", scanHandler.Retry)
			r.Post("/dismiss", scanHandler.Dismiss)
			r.Post("/cancel", scanHandler.Cancel)
			r.Post("/submit", scanHandler.Submit)
			r.Post("/reset", scanHandler.ResetScan)
		})

		r.Post("/suggestions", suggestHandler.Run)
	})

	// The websocket upgrade carries no JSON content type, so it lives
	// outside the /api subtree.
	r.Get("/ws/scan", scanSocket.Serve)

	return r
}
