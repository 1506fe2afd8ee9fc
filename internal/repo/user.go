package repo

import (
	"context"
	"fmt"

	"github.com/crucial707/catalog/internal/models"
	"github.com/jmoiron/sqlx"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB *sqlx.DB
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// ==========================
// Create User
// ==========================

// Create stores a new credential. A taken username yields store.ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, username, passwordHash string) (models.User, error) {
	query := `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, username, password_hash, created_at
	`

	var user models.User
	if err := r.DB.GetContext(ctx, &user, query, username, passwordHash); err != nil {
		return models.User{}, fmt.Errorf("create user %q: %w", username, classify(err))
	}
	return user, nil
}

// ==========================
// Get By Username
// ==========================
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (models.User, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM users
		WHERE username = $1
	`

	var user models.User
	if err := r.DB.GetContext(ctx, &user, query, username); err != nil {
		return models.User{}, classify(err)
	}
	return user, nil
}
