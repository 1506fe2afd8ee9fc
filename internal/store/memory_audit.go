package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/crucial707/catalog/internal/models"
)

// MemoryAudit is an append-only audit log held in memory.
type MemoryAudit struct {
	mu      sync.Mutex
	entries []models.AuditEntry
}

func NewMemoryAudit() *MemoryAudit {
	return &MemoryAudit{}
}

func (m *MemoryAudit) Log(_ context.Context, username, action, resourceType, resourceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, models.AuditEntry{
		ID:           int64(len(m.entries) + 1),
		Username:     username,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		CreatedAt:    time.Now().UTC(),
	})
	return nil
}

// List returns entries newest first.
func (m *MemoryAudit) List(_ context.Context, limit, offset int) ([]models.AuditEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.AuditEntry, len(m.entries))
	copy(out, m.entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })

	if offset >= len(out) {
		return []models.AuditEntry{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
