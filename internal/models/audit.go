package models

import "time"

// Audit actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// AuditEntry represents one audit log row.
type AuditEntry struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Action       string    `json:"action" db:"action"`               // create, update, delete
	ResourceType string    `json:"resource_type" db:"resource_type"` // product, book, employee, question
	ResourceID   string    `json:"resource_id" db:"resource_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
