package store

import (
	"context"
	"sort"

	"github.com/crucial707/catalog/internal/models"
	"github.com/google/uuid"
)

type validated[T Entity[T]] struct {
	next Store[T]
}

// WithValidation wraps s so that records failing field validation are rejected
// with a *models.ValidationError before they reach the engine, and filters naming
// unknown fields are rejected before a query runs.
func WithValidation[T Entity[T]](s Store[T]) Store[T] {
	return &validated[T]{next: s}
}

func (v *validated[T]) Add(ctx context.Context, rec T) (T, error) {
	if err := rec.Validate(); err != nil {
		var zero T
		return zero, err
	}
	return v.next.Add(ctx, rec)
}

func (v *validated[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	return v.next.Get(ctx, id)
}

func (v *validated[T]) List(ctx context.Context, f Filter) ([]T, error) {
	if err := CheckFilter[T](f); err != nil {
		return nil, err
	}
	return v.next.List(ctx, f)
}

func (v *validated[T]) Update(ctx context.Context, rec T) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	return v.next.Update(ctx, rec)
}

func (v *validated[T]) Delete(ctx context.Context, id uuid.UUID) error {
	return v.next.Delete(ctx, id)
}

func (v *validated[T]) Count(ctx context.Context) (int, error) {
	return v.next.Count(ctx)
}

// CheckFilter rejects field filters that T does not expose and negative paging.
func CheckFilter[T Entity[T]](f Filter) error {
	var zero T
	known := zero.SearchFields()
	bad := map[string]string{}
	for name := range f.Fields {
		if _, ok := known[name]; !ok {
			bad[name] = "unknown filter field"
		}
	}
	if f.Limit < 0 {
		bad["limit"] = "must be 0 or greater"
	}
	if f.Offset < 0 {
		bad["offset"] = "must be 0 or greater"
	}
	if len(bad) > 0 {
		return &models.ValidationError{Fields: bad}
	}
	return nil
}

// SearchColumns lists the searchable field names of T in a stable order.
func SearchColumns[T Entity[T]]() []string {
	var zero T
	cols := make([]string, 0, len(zero.SearchFields()))
	for name := range zero.SearchFields() {
		cols = append(cols, name)
	}
	sort.Strings(cols)
	return cols
}
