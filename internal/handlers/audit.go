package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/crucial707/catalog/internal/models"
)

// AuditReader lists audit entries, newest first.
type AuditReader interface {
	List(ctx context.Context, limit, offset int) ([]models.AuditEntry, error)
}

// AuditHandler serves audit log endpoints.
type AuditHandler struct {
	Repo   AuditReader
	Logger *slog.Logger
}

// ListAudit returns recent audit log entries. Query: limit (default 50, max 200), offset (default 0).
func (h *AuditHandler) ListAudit(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 && val <= 200 {
			limit = val
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil && val >= 0 {
			offset = val
		}
	}

	entries, err := h.Repo.List(r.Context(), limit, offset)
	if err != nil {
		writeStoreError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
