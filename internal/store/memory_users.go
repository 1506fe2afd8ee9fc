package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/crucial707/catalog/internal/models"
)

// MemoryUsers keeps credentials in memory, unique by username.
type MemoryUsers struct {
	mu     sync.RWMutex
	nextID int
	byName map[string]models.User
}

func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{byName: make(map[string]models.User)}
}

func (m *MemoryUsers) Create(_ context.Context, username, passwordHash string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byName[username]; ok {
		return models.User{}, fmt.Errorf("username %q: %w", username, ErrDuplicate)
	}
	m.nextID++
	u := models.User{
		ID:           m.nextID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	m.byName[username] = u
	return u, nil
}

func (m *MemoryUsers) GetByUsername(_ context.Context, username string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.byName[username]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}
