// Package bootstrap prepares a fresh deployment: it applies the schema and
// loads sample records into empty collections.
package bootstrap

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/crucial707/catalog/internal/auth"
	"github.com/crucial707/catalog/internal/models"
	"github.com/crucial707/catalog/internal/store"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Data is the content of a seed file.
type Data struct {
	Products  []models.Product  `yaml:"products"`
	Books     []models.Book     `yaml:"books"`
	Employees []models.Employee `yaml:"employees"`
	Questions []models.Question `yaml:"questions"`
}

// Stores groups the collections that receive seed records.
type Stores struct {
	Products  store.Store[models.Product]
	Books     store.Store[models.Book]
	Employees store.Store[models.Employee]
	Questions store.Store[models.Question]
}

// Registrar registers credentials. *auth.Service satisfies it.
type Registrar interface {
	Register(ctx context.Context, username, password string) error
}

type Options struct {
	// SeedData enables loading Data (or the bundled seed file when Data is nil).
	SeedData bool
	Data     *Data

	// Admin registers AdminUsername when AdminPassword is non-empty.
	Admin         Registrar
	AdminUsername string
	AdminPassword string

	Logger *slog.Logger
}

// Parse decodes a seed file.
func Parse(b []byte) (Data, error) {
	var d Data
	if err := yaml.Unmarshal(b, &d); err != nil {
		return Data{}, fmt.Errorf("parsing seed data: %w", err)
	}
	return d, nil
}

// Default returns the bundled seed data.
func Default() (Data, error) {
	return Parse(defaultSeed)
}

// Run applies migrate (when non-nil) and then seeds. It is safe to call on
// every start: populated collections and existing users are left alone.
func Run(ctx context.Context, migrate func(context.Context) error, st Stores, opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if migrate != nil {
		if err := migrate(ctx); err != nil {
			return err
		}
		logger.Info("schema up to date")
	}

	if opts.SeedData {
		data := opts.Data
		if data == nil {
			d, err := Default()
			if err != nil {
				return err
			}
			data = &d
		}
		if err := Seed(ctx, st, *data, logger); err != nil {
			return err
		}
	}

	if opts.Admin != nil && opts.AdminPassword != "" {
		if err := SeedAdmin(ctx, opts.Admin, opts.AdminUsername, opts.AdminPassword); err != nil {
			return err
		}
		logger.Info("admin credential ensured", "username", opts.AdminUsername)
	}
	return nil
}

// Seed inserts each collection's records only when that collection is empty.
func Seed(ctx context.Context, st Stores, d Data, logger *slog.Logger) error {
	if err := seedCollection(ctx, "products", st.Products, d.Products, logger); err != nil {
		return err
	}
	if err := seedCollection(ctx, "books", st.Books, d.Books, logger); err != nil {
		return err
	}
	if err := seedCollection(ctx, "employees", st.Employees, d.Employees, logger); err != nil {
		return err
	}
	return seedCollection(ctx, "questions", st.Questions, d.Questions, logger)
}

func seedCollection[T any](ctx context.Context, name string, s store.Store[T], recs []T, logger *slog.Logger) error {
	if s == nil || len(recs) == 0 {
		return nil
	}
	n, err := s.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed %s: count: %w", name, err)
	}
	if n > 0 {
		logger.Debug("seed skipped", "collection", name, "existing", n)
		return nil
	}
	for _, rec := range recs {
		if _, err := s.Add(ctx, rec); err != nil {
			return fmt.Errorf("seed %s: %w", name, err)
		}
	}
	logger.Info("seeded collection", "collection", name, "records", len(recs))
	return nil
}

// SeedAdmin registers the initial credential; an existing username is not an error.
func SeedAdmin(ctx context.Context, reg Registrar, username, password string) error {
	err := reg.Register(ctx, username, password)
	if err != nil && !errors.Is(err, auth.ErrDuplicateUsername) {
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
