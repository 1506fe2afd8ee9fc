package models

import (
	"strings"

	"github.com/google/uuid"
)

// Book is identified naturally by its ISBN.
type Book struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ISBN      string    `json:"isbn" db:"isbn" validate:"required,notblank,max=20"`
	Title     string    `json:"title" db:"title" validate:"required,notblank,max=200"`
	Author    string    `json:"author" db:"author" validate:"required,notblank,max=100"`
	Price     float64   `json:"price" db:"price" validate:"gte=0,lt=1e16,money"`
	Year      int       `json:"year,omitempty" db:"year" validate:"omitempty,gte=1900,lte=2100"`
	Available bool      `json:"available" db:"available"`
}

func (b Book) EntityID() uuid.UUID { return b.ID }

func (b Book) WithID(id uuid.UUID) Book {
	b.ID = id
	return b
}

func (b Book) Validate() error { return Validate(b) }

func (b Book) UniqueKey() string { return strings.ToUpper(strings.TrimSpace(b.ISBN)) }

func (b Book) SearchFields() map[string]string {
	return map[string]string{
		"title":  b.Title,
		"author": b.Author,
		"isbn":   b.ISBN,
	}
}
