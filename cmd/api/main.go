package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/crucial707/catalog/internal/auth"
	"github.com/crucial707/catalog/internal/bootstrap"
	"github.com/crucial707/catalog/internal/config"
	"github.com/crucial707/catalog/internal/db"
	"github.com/crucial707/catalog/internal/handlers"
	"github.com/crucial707/catalog/internal/middleware"
	"github.com/crucial707/catalog/internal/models"
	"github.com/crucial707/catalog/internal/repo"
	"github.com/crucial707/catalog/internal/store"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// auditStore is both ends of the audit log.
type auditStore interface {
	handlers.AuditLog
	handlers.AuditReader
}

// stores is everything the router reads and writes.
type stores struct {
	db        *sqlx.DB // nil with the memory backend
	resources bootstrap.Stores
	users     auth.CredentialStore
	audit     auditStore
}

func postgresStores(conn *sqlx.DB) stores {
	return stores{
		db: conn,
		resources: bootstrap.Stores{
			Products:  store.WithValidation[models.Product](repo.NewProductRepo(conn)),
			Books:     store.WithValidation[models.Book](repo.NewBookRepo(conn)),
			Employees: store.WithValidation[models.Employee](repo.NewEmployeeRepo(conn)),
			Questions: store.WithValidation[models.Question](repo.NewQuestionRepo(conn)),
		},
		users: repo.NewUserRepo(conn),
		audit: repo.NewAuditRepo(conn),
	}
}

func memoryStores() stores {
	return stores{
		resources: bootstrap.Stores{
			Products:  store.WithValidation[models.Product](store.NewMemory[models.Product]()),
			Books:     store.WithValidation[models.Book](store.NewMemory[models.Book]()),
			Employees: store.WithValidation[models.Employee](store.NewMemory[models.Employee]()),
			Questions: store.WithValidation[models.Question](store.NewMemory[models.Question]()),
		},
		users: store.NewMemoryUsers(),
		audit: store.NewMemoryAudit(),
	}
}

func newAuthService(st stores, cfg config.Config, logger *slog.Logger) *auth.Service {
	ttl := time.Duration(cfg.JWTExpireHours) * time.Hour
	return auth.NewService(st.users, []byte(cfg.JWTSecret), ttl, auth.WithLogger(logger))
}

// ==========================
// Router
// ==========================
func newRouter(st stores, svc *auth.Service, cfg config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.RequestLog(logger))
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(cfg.MaxBodyBytes))

	var pinger handlers.Pinger
	if st.db != nil {
		pinger = st.db
	}
	r.Get("/health", handlers.Health)
	r.Get("/ready", handlers.Ready(pinger, logger))
	r.Handle("/metrics", promhttp.Handler())

	authH := &handlers.AuthHandler{Service: svc, Logger: logger}
	auditH := &handlers.AuditHandler{Repo: st.audit, Logger: logger}
	limiter := middleware.AuthRateLimiter(cfg.AuthRatePerMinute)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(limiter.Middleware)
			r.Post("/auth/login", authH.Login)
			r.Post("/auth/register", authH.Register)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(svc, logger))
			r.Mount("/products", (&handlers.Resource[models.Product]{
				Name: "products", Store: st.resources.Products, Audit: st.audit, Logger: logger,
			}).Routes())
			r.Mount("/books", (&handlers.Resource[models.Book]{
				Name: "books", Store: st.resources.Books, Audit: st.audit, Logger: logger,
			}).Routes())
			r.Mount("/employees", (&handlers.Resource[models.Employee]{
				Name: "employees", Store: st.resources.Employees, Audit: st.audit, Logger: logger,
			}).Routes())
			r.Mount("/questions", (&handlers.Resource[models.Question]{
				Name: "questions", Store: st.resources.Questions, Audit: st.audit, Logger: logger,
			}).Routes())
			r.Get("/audit", auditH.ListAudit)
		})
	})

	return r
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func main() {
	cfg := config.Load()
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ===== Storage =====
	var st stores
	var migrate func(context.Context) error
	switch cfg.StoreBackend {
	case config.BackendMemory:
		st = memoryStores()
		logger.Warn("using in-memory storage; data is lost on exit")
	default:
		conn, err := db.Connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer conn.Close()
		logger.Info("connected to database", "driver", cfg.DBDriver)
		st = postgresStores(conn)
		migrate = func(ctx context.Context) error { return db.Migrate(ctx, conn.DB) }
	}

	svc := newAuthService(st, cfg, logger)

	// ===== Bootstrap =====
	err := bootstrap.Run(ctx, migrate, st.resources, bootstrap.Options{
		SeedData:      cfg.SeedData,
		Admin:         svc,
		AdminUsername: cfg.SeedAdminUsername,
		AdminPassword: cfg.SeedAdminPassword,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	// ===== Server =====
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(st, svc, cfg, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "tls", cfg.TLSCertFile != "")
		var err error
		if cfg.TLSCertFile != "" {
			err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
