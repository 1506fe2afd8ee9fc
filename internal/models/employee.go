package models

import (
	"strings"

	"github.com/google/uuid"
)

type Employee struct {
	ID     uuid.UUID `json:"id" db:"id"`
	Name   string    `json:"name" db:"name" validate:"required,notblank,max=100"`
	Email  string    `json:"email" db:"email" validate:"required,email,max=254"`
	Salary float64   `json:"salary" db:"salary" validate:"gte=0,lt=1e16,money"`
}

func (e Employee) EntityID() uuid.UUID { return e.ID }

func (e Employee) WithID(id uuid.UUID) Employee {
	e.ID = id
	return e
}

func (e Employee) Validate() error { return Validate(e) }

// UniqueKey compares e-mail addresses case-insensitively.
func (e Employee) UniqueKey() string { return strings.ToLower(strings.TrimSpace(e.Email)) }

func (e Employee) SearchFields() map[string]string {
	return map[string]string{
		"name":  e.Name,
		"email": e.Email,
	}
}
