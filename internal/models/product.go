package models

import "github.com/google/uuid"

// Product is a catalog item.
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" validate:"required,notblank,max=100"`
	Description string    `json:"description" db:"description" validate:"max=500"`
	Price       float64   `json:"price" db:"price" validate:"gt=0,lt=1e16,money"`
	Units       string    `json:"units" db:"units" validate:"max=20"`
	Picture     string    `json:"picture" db:"picture" validate:"omitempty,url"`
	Stock       int       `json:"stock" db:"stock" validate:"gte=0"`
}

func (p Product) EntityID() uuid.UUID { return p.ID }

func (p Product) WithID(id uuid.UUID) Product {
	p.ID = id
	return p
}

func (p Product) Validate() error { return Validate(p) }

// UniqueKey is empty: products have no natural key.
func (p Product) UniqueKey() string { return "" }

func (p Product) SearchFields() map[string]string {
	return map[string]string{
		"name":        p.Name,
		"description": p.Description,
	}
}
