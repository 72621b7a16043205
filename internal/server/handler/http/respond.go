package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mkravets/pantrypal/internal/gateway"
)

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a gateway error to an inline JSON error payload. The
// message always comes from gateway.Message so wording stays consistent
// with the workflow's inline banners.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway

	var ve *gateway.ValidationError
	var nf *gateway.NotFoundError
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
	case errors.As(err, &nf):
		status = http.StatusNotFound
	}

	writeJSON(w, status, map[string]string{"error": gateway.Message(err)})
}
