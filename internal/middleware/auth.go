package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/crucial707/catalog/internal/auth"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type key string

const subjectKey key = "subject"

// TokenValidator returns the subject of a valid access token.
type TokenValidator interface {
	Validate(token string) (string, error)
}

// WithSubject stores the authenticated username in ctx.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

// Subject returns the authenticated username, or "" outside a protected route.
func Subject(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey).(string)
	return s
}

// RequireAuth rejects requests without a valid bearer token with 401 before
// the wrapped handler runs.
func RequireAuth(v TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				writeJSONError(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			subject, err := v.Validate(token)
			if err != nil {
				reason := "invalid"
				if errors.Is(err, auth.ErrExpiredToken) {
					reason = "expired"
				}
				logger.Info("token rejected",
					"request_id", chimw.GetReqID(r.Context()),
					"path", r.URL.Path,
					"reason", reason)
				writeJSONError(w, "invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), subject)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
