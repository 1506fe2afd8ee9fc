package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/crucial707/catalog/internal/auth"
	"github.com/crucial707/catalog/internal/metrics"
	"github.com/crucial707/catalog/internal/models"
)

// Credentials is the part of the credential service the auth endpoints use.
type Credentials interface {
	Register(ctx context.Context, username, password string) error
	Authenticate(ctx context.Context, username, password string) (auth.Token, error)
}

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Service Credentials
	Logger  *slog.Logger
}

// ==========================
// Register
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input models.Credentials
	if !decodeJSON(w, r, &input) {
		return
	}

	err := h.Service.Register(r.Context(), input.Username, input.Password)
	var verr *models.ValidationError
	switch {
	case err == nil:
		metrics.IncAuthAttempt("register", "success")
		writeJSON(w, http.StatusOK, map[string]string{"message": "user registered"})
	case errors.As(err, &verr):
		metrics.IncAuthAttempt("register", "rejected")
		JSONValidationError(w, "validation failed", verr.Fields, http.StatusBadRequest)
	case errors.Is(err, auth.ErrDuplicateUsername):
		metrics.IncAuthAttempt("register", "rejected")
		JSONError(w, "username already exists", http.StatusBadRequest)
	default:
		metrics.IncAuthAttempt("register", "error")
		writeStoreError(w, r, h.Logger, err)
	}
}

// ==========================
// Login
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input models.Credentials
	if !decodeJSON(w, r, &input) {
		return
	}

	tok, err := h.Service.Authenticate(r.Context(), input.Username, input.Password)
	switch {
	case err == nil:
		metrics.IncAuthAttempt("login", "success")
		writeJSON(w, http.StatusOK, tok)
	case errors.Is(err, auth.ErrInvalidCredentials):
		metrics.IncAuthAttempt("login", "rejected")
		JSONError(w, "invalid credentials", http.StatusUnauthorized)
	default:
		metrics.IncAuthAttempt("login", "error")
		writeStoreError(w, r, h.Logger, err)
	}
}
