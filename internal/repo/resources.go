package repo

import (
	"github.com/crucial707/catalog/internal/models"
	"github.com/crucial707/catalog/internal/store"
	"github.com/jmoiron/sqlx"
)

var (
	_ store.Store[models.Product]  = (*Table[models.Product])(nil)
	_ store.Store[models.Book]     = (*Table[models.Book])(nil)
	_ store.Store[models.Employee] = (*Table[models.Employee])(nil)
	_ store.Store[models.Question] = (*Table[models.Question])(nil)
)

func NewProductRepo(db *sqlx.DB) *Table[models.Product] {
	return &Table[models.Product]{
		DB:      db,
		Name:    "products",
		Columns: []string{"id", "name", "description", "price", "units", "picture", "stock"},
	}
}

func NewBookRepo(db *sqlx.DB) *Table[models.Book] {
	return &Table[models.Book]{
		DB:      db,
		Name:    "books",
		Columns: []string{"id", "isbn", "title", "author", "price", "year", "available"},
	}
}

func NewEmployeeRepo(db *sqlx.DB) *Table[models.Employee] {
	return &Table[models.Employee]{
		DB:      db,
		Name:    "employees",
		Columns: []string{"id", "name", "email", "salary"},
	}
}

func NewQuestionRepo(db *sqlx.DB) *Table[models.Question] {
	return &Table[models.Question]{
		DB:      db,
		Name:    "questions",
		Columns: []string{"id", "text", "answer", "asked_by"},
	}
}
