// Package store defines the Entity Store contract shared by every storage engine,
// its error kinds, and an in-memory engine.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when the referenced identifier does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an identifier or natural key is already taken.
	ErrDuplicate = errors.New("duplicate key")
	// ErrStorageUnavailable is returned when the backing store cannot be reached.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrConstraint is returned when the backing store rejects a value that
	// passed field validation (check, not-null or out-of-range data).
	ErrConstraint = errors.New("constraint violation")
)

// Entity is implemented by every resource record type.
type Entity[T any] interface {
	EntityID() uuid.UUID
	WithID(id uuid.UUID) T
	Validate() error
	// UniqueKey returns the natural key, or "" when the record has none.
	UniqueKey() string
	// SearchFields returns the text fields a Filter may match, keyed by JSON name.
	SearchFields() map[string]string
}

// Filter narrows List results. The zero value lists everything.
type Filter struct {
	// Search is a case-insensitive substring matched against any searchable field.
	Search string
	// Fields holds case-insensitive substrings that must all match their named field.
	Fields map[string]string
	// Limit caps the number of results when > 0.
	Limit  int
	Offset int
}

// Store is the persistence contract for one resource collection.
type Store[T any] interface {
	Add(ctx context.Context, rec T) (T, error)
	Get(ctx context.Context, id uuid.UUID) (T, error)
	List(ctx context.Context, f Filter) ([]T, error)
	Update(ctx context.Context, rec T) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context) (int, error)
}
