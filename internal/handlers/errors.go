package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/assetflow/assetflow/internal/core"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// JSONError sends a JSON error response with a single "error" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// JSONValidationError sends a JSON error response with "error" and optional "fields" for field-level details.
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	out := map[string]interface{}{"error": message}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	json.NewEncoder(w).Encode(out)
}

// WriteServiceError maps the core error taxonomy to HTTP status codes:
// validation 400, authorization 403, not found 404, stale state 409,
// transaction (retryable) and everything else 500.
func WriteServiceError(w http.ResponseWriter, err error) {
	var (
		valErr   *core.ValidationError
		authErr  *core.AuthorizationError
		nfErr    *core.NotFoundError
		staleErr *core.StaleStateError
		txErr    *core.TransactionError
	)
	switch {
	case errors.As(err, &valErr):
		JSONError(w, valErr.Error(), http.StatusBadRequest)
	case errors.As(err, &authErr):
		JSONError(w, authErr.Error(), http.StatusForbidden)
	case errors.As(err, &nfErr):
		JSONError(w, nfErr.Error(), http.StatusNotFound)
	case errors.As(err, &staleErr):
		JSONError(w, staleErr.Error(), http.StatusConflict)
	case errors.As(err, &txErr):
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
	default:
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
	}
}
