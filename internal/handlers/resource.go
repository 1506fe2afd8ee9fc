package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/crucial707/catalog/internal/metrics"
	"github.com/crucial707/catalog/internal/middleware"
	"github.com/crucial707/catalog/internal/models"
	"github.com/crucial707/catalog/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// AuditLog records who changed which record.
type AuditLog interface {
	Log(ctx context.Context, username, action, resourceType, resourceID string) error
}

// Resource serves CRUD endpoints for one collection.
type Resource[T store.Entity[T]] struct {
	// Name is the collection's path segment and audit resource type, e.g. "books".
	Name   string
	Store  store.Store[T]
	Audit  AuditLog
	Logger *slog.Logger
}

// Routes returns a router with the collection's endpoints, to be mounted at /api/{Name}.
func (h *Resource[T]) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Patch("/{id}", h.Patch)
	r.Delete("/{id}", h.Delete)
	return r
}

//
// ==========================
// List
// ==========================
//

// List supports ?search=, ?limit=, ?offset= and ?<field>= for any searchable field.
func (h *Resource[T]) List(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		writeStoreError(w, r, h.Logger, err)
		return
	}

	recs, err := h.Store.List(r.Context(), f)
	if err != nil {
		writeStoreError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

func parseFilter(r *http.Request) (store.Filter, error) {
	var f store.Filter
	for name, values := range r.URL.Query() {
		if len(values) == 0 {
			continue
		}
		v := values[0]
		switch name {
		case "search":
			f.Search = v
		case "limit", "offset":
			n, err := strconv.Atoi(v)
			if err != nil {
				return f, models.NewValidationError(name, "must be a number")
			}
			if name == "limit" {
				f.Limit = n
			} else {
				f.Offset = n
			}
		default:
			if f.Fields == nil {
				f.Fields = map[string]string{}
			}
			f.Fields[name] = v
		}
	}
	return f, nil
}

//
// ==========================
// Get
// ==========================
//

func (h *Resource[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	rec, err := h.Store.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

//
// ==========================
// Create
// ==========================
//

func (h *Resource[T]) Create(w http.ResponseWriter, r *http.Request) {
	var rec T
	if !decodeJSON(w, r, &rec) {
		return
	}

	created, err := h.Store.Add(r.Context(), rec)
	if err != nil {
		writeStoreError(w, r, h.Logger, err)
		return
	}

	id := created.EntityID().String()
	h.record(r, models.ActionCreate, id)
	w.Header().Set("Location", "/api/"+h.Name+"/"+id)
	writeJSON(w, http.StatusCreated, created)
}

//
// ==========================
// Update (full replacement)
// ==========================
//

func (h *Resource[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var rec T
	if !decodeJSON(w, r, &rec) {
		return
	}
	h.replace(w, r, id, rec)
}

//
// ==========================
// Patch (fields present in the body replace the stored ones)
// ==========================
//

func (h *Resource[T]) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	rec, err := h.Store.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, h.Logger, err)
		return
	}
	if !decodeJSON(w, r, &rec) {
		return
	}
	h.replace(w, r, id, rec)
}

func (h *Resource[T]) replace(w http.ResponseWriter, r *http.Request, id uuid.UUID, rec T) {
	if bodyID := rec.EntityID(); bodyID != uuid.Nil && bodyID != id {
		JSONError(w, "id in body does not match path", http.StatusBadRequest)
		return
	}

	if err := h.Store.Update(r.Context(), rec.WithID(id)); err != nil {
		writeStoreError(w, r, h.Logger, err)
		return
	}
	h.record(r, models.ActionUpdate, id.String())
	w.WriteHeader(http.StatusNoContent)
}

//
// ==========================
// Delete
// ==========================
//

func (h *Resource[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.Store.Delete(r.Context(), id); err != nil {
		writeStoreError(w, r, h.Logger, err)
		return
	}
	h.record(r, models.ActionDelete, id.String())
	w.WriteHeader(http.StatusNoContent)
}

func parseID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		JSONError(w, "invalid id", http.StatusBadRequest)
		return uuid.Nil, false
	}
	return id, true
}

// record counts a write and appends it to the audit log. An audit failure is
// logged but does not fail the request; the write already happened.
func (h *Resource[T]) record(r *http.Request, action, id string) {
	metrics.IncRecordsWritten(h.Name, action)
	if h.Audit == nil {
		return
	}
	user := middleware.Subject(r.Context())
	if err := h.Audit.Log(r.Context(), user, action, h.Name, id); err != nil {
		h.Logger.Warn("audit log failed", "resource", h.Name, "action", action, "id", id, "err", err)
	}
}
