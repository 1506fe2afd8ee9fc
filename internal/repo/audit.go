package repo

import (
	"context"

	"github.com/crucial707/catalog/internal/models"
	"github.com/jmoiron/sqlx"
)

// AuditRepo persists audit log entries.
type AuditRepo struct {
	db *sqlx.DB
}

// NewAuditRepo returns a new AuditRepo.
func NewAuditRepo(db *sqlx.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Log records an audit entry. action is create|update|delete; resourceType is the collection name.
func (r *AuditRepo) Log(ctx context.Context, username, action, resourceType, resourceID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_log (username, action, resource_type, resource_id) VALUES ($1, $2, $3, $4)`,
		username, action, resourceType, resourceID,
	)
	return classify(err)
}

// List returns recent audit entries, newest first.
func (r *AuditRepo) List(ctx context.Context, limit, offset int) ([]models.AuditEntry, error) {
	entries := []models.AuditEntry{}
	err := r.db.SelectContext(ctx, &entries,
		`SELECT id, username, action, resource_type, resource_id, created_at FROM audit_log ORDER BY id DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, classify(err)
	}
	return entries, nil
}
