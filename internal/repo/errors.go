package repo

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/crucial707/catalog/internal/store"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// PostgreSQL error codes.
const (
	pgUniqueViolation = "23505"
	// Class 08 covers connection exceptions.
	pgConnectionClass = "08"
	// Class 22 is data exceptions, class 23 integrity constraint violations.
	pgDataClass      = "22"
	pgIntegrityClass = "23"
)

// classify maps driver errors (lib/pq or pgx) onto the store error kinds.
// The original error stays in the chain for logging.
func classify(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return store.ErrNotFound
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %w", store.ErrDuplicate, err)
	case isUnavailable(err):
		return fmt.Errorf("%w: %w", store.ErrStorageUnavailable, err)
	case isConstraintViolation(err):
		return fmt.Errorf("%w: %w", store.ErrConstraint, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

// isConstraintViolation is checked after isUniqueViolation, so 23505 never reaches it.
func isConstraintViolation(err error) bool {
	var code string
	var pqErr *pq.Error
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pqErr):
		code = string(pqErr.Code)
	case errors.As(err, &pgErr):
		code = pgErr.Code
	default:
		return false
	}
	return strings.HasPrefix(code, pgDataClass) || strings.HasPrefix(code, pgIntegrityClass)
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code.Class()) == pgConnectionClass
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, pgConnectionClass)
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

// escapeLike quotes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
