package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process engine. Records are kept in insertion order and a
// uniqueness index guards natural keys.
type Memory[T Entity[T]] struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]T
	order  []uuid.UUID
	unique map[string]uuid.UUID
}

// NewMemory returns an empty in-memory store.
func NewMemory[T Entity[T]]() *Memory[T] {
	return &Memory[T]{
		byID:   make(map[uuid.UUID]T),
		unique: make(map[string]uuid.UUID),
	}
}

func (m *Memory[T]) Add(_ context.Context, rec T) (T, error) {
	if rec.EntityID() == uuid.Nil {
		rec = rec.WithID(uuid.New())
	}
	id := rec.EntityID()

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[id]; ok {
		var zero T
		return zero, fmt.Errorf("id %s: %w", id, ErrDuplicate)
	}
	if key := rec.UniqueKey(); key != "" {
		if _, ok := m.unique[key]; ok {
			var zero T
			return zero, fmt.Errorf("key %q: %w", key, ErrDuplicate)
		}
		m.unique[key] = id
	}
	m.byID[id] = rec
	m.order = append(m.order, id)
	return rec, nil
}

func (m *Memory[T]) Get(_ context.Context, id uuid.UUID) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.byID[id]
	if !ok {
		var zero T
		return zero, ErrNotFound
	}
	return rec, nil
}

func (m *Memory[T]) List(_ context.Context, f Filter) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []T{}
	skipped := 0
	for _, id := range m.order {
		rec := m.byID[id]
		if !Matches(rec, f) {
			continue
		}
		if skipped < f.Offset {
			skipped++
			continue
		}
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *Memory[T]) Update(_ context.Context, rec T) error {
	id := rec.EntityID()

	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	oldKey, newKey := old.UniqueKey(), rec.UniqueKey()
	if newKey != oldKey {
		if newKey != "" {
			if owner, taken := m.unique[newKey]; taken && owner != id {
				return fmt.Errorf("key %q: %w", newKey, ErrDuplicate)
			}
			m.unique[newKey] = id
		}
		if oldKey != "" {
			delete(m.unique, oldKey)
		}
	}
	m.byID[id] = rec
	return nil
}

func (m *Memory[T]) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	if key := rec.UniqueKey(); key != "" {
		delete(m.unique, key)
	}
	delete(m.byID, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory[T]) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID), nil
}

// Matches reports whether rec satisfies the search term and every field filter.
func Matches[T Entity[T]](rec T, f Filter) bool {
	fields := rec.SearchFields()
	for name, want := range f.Fields {
		if !containsFold(fields[name], want) {
			return false
		}
	}
	if f.Search == "" {
		return true
	}
	for _, v := range fields {
		if containsFold(v, f.Search) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
