package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/crucial707/catalog/internal/models"
	"github.com/crucial707/catalog/internal/store"
	chimw "github.com/go-chi/chi/v5/middleware"
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
// status is typically http.StatusBadRequest (400).
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	out := map[string]interface{}{"error": message}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	json.NewEncoder(w).Encode(out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeStoreError maps store and validation errors onto HTTP responses.
// Anything unrecognised is logged and answered with a generic 500.
func writeStoreError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		JSONValidationError(w, "validation failed", verr.Fields, http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		JSONError(w, "not found", http.StatusNotFound)
	case errors.Is(err, store.ErrDuplicate):
		JSONError(w, "already exists", http.StatusConflict)
	case errors.Is(err, store.ErrConstraint):
		logger.Warn("constraint violation", "request_id", chimw.GetReqID(r.Context()), "err", err)
		JSONError(w, "record rejected by storage constraints", http.StatusBadRequest)
	case errors.Is(err, store.ErrStorageUnavailable):
		logger.Error("storage unavailable", "request_id", chimw.GetReqID(r.Context()), "err", err)
		JSONError(w, "storage unavailable", http.StatusServiceUnavailable)
	default:
		logger.Error("request failed", "request_id", chimw.GetReqID(r.Context()), "path", r.URL.Path, "err", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
	}
}

// decodeJSON reads a single JSON object into v and writes the 400/413 response
// itself when that fails. Unknown fields are reported per field.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			JSONError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
			JSONValidationError(w, "validation failed",
				map[string]string{strings.Trim(field, `"`): "unknown field"}, http.StatusBadRequest)
			return false
		}
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		JSONError(w, "invalid JSON: unexpected data after object", http.StatusBadRequest)
		return false
	}
	return true
}
