package repo

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/crucial707/catalog/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ========================
// REPOSITORY STRUCT
// ========================

// Table is the PostgreSQL engine for one resource collection. Columns are the
// db tags of T with "id" first; every table also carries a BIGSERIAL seq column
// that fixes insertion order.
type Table[T store.Entity[T]] struct {
	DB      *sqlx.DB
	Name    string
	Columns []string
}

func (t *Table[T]) columnList() string {
	return strings.Join(t.Columns, ", ")
}

// ========================
// ADD
// ========================

func (t *Table[T]) Add(ctx context.Context, rec T) (T, error) {
	if rec.EntityID() == uuid.Nil {
		rec = rec.WithID(uuid.New())
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (:%s)",
		t.Name, t.columnList(), strings.Join(t.Columns, ", :"),
	)
	if _, err := t.DB.NamedExecContext(ctx, query, rec); err != nil {
		var zero T
		return zero, fmt.Errorf("insert into %s: %w", t.Name, classify(err))
	}
	return rec, nil
}

// ========================
// GET BY ID
// ========================

func (t *Table[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	var rec T
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", t.columnList(), t.Name)
	if err := t.DB.GetContext(ctx, &rec, query, id); err != nil {
		var zero T
		return zero, classify(err)
	}
	return rec, nil
}

// ========================
// LIST WITH FILTER
// ========================

func (t *Table[T]) List(ctx context.Context, f store.Filter) ([]T, error) {
	if err := store.CheckFilter[T](f); err != nil {
		return nil, err
	}

	where, args := t.where(f)
	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY seq", t.columnList(), t.Name, where)
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	out := []T{}
	if err := t.DB.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", t.Name, classify(err))
	}
	return out, nil
}

// where builds the WHERE clause for f. Field names were checked against the
// searchable columns of T, so they are safe to splice into the query.
func (t *Table[T]) where(f store.Filter) (string, []any) {
	var conds []string
	var args []any

	names := make([]string, 0, len(f.Fields))
	for name := range f.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		args = append(args, "%"+escapeLike(f.Fields[name])+"%")
		conds = append(conds, fmt.Sprintf("%s ILIKE $%d", name, len(args)))
	}

	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		n := len(args)
		var ors []string
		for _, col := range store.SearchColumns[T]() {
			ors = append(ors, fmt.Sprintf("%s ILIKE $%d", col, n))
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ========================
// UPDATE BY ID
// ========================

func (t *Table[T]) Update(ctx context.Context, rec T) error {
	sets := make([]string, 0, len(t.Columns)-1)
	for _, col := range t.Columns {
		if col == "id" {
			continue
		}
		sets = append(sets, col+" = :"+col)
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = :id", t.Name, strings.Join(sets, ", "))

	res, err := t.DB.NamedExecContext(ctx, query, rec)
	if err != nil {
		return fmt.Errorf("update %s: %w", t.Name, classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify(err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ========================
// DELETE BY ID
// ========================

func (t *Table[T]) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := t.DB.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", t.Name), id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", t.Name, classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify(err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ========================
// COUNT
// ========================

func (t *Table[T]) Count(ctx context.Context) (int, error) {
	var n int
	if err := t.DB.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+t.Name); err != nil {
		return 0, classify(err)
	}
	return n, nil
}
