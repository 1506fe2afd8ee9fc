package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is the development signing key. It is refused when Env is "prod".
const DefaultJWTSecret = "supersecretkey"

// Storage backends.
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Port string

	// Env is "dev" (default) or "prod". When "prod", JWT_SECRET must be set and not the default.
	Env string

	// StoreBackend is "postgres" (default) or "memory".
	StoreBackend string

	// DBDriver selects the database/sql driver: "postgres" (lib/pq, default) or "pgx".
	DBDriver string
	// DatabaseURL overrides the individual DB_* settings when set.
	DatabaseURL string

	DBHost    string
	DBPort    string
	DBName    string
	DBUser    string
	DBPass    string
	DBSSLMode string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int

	JWTSecret string

	// JWTExpireHours is the token lifetime in hours (default 168, seven days). Set via JWT_EXPIRE_HOURS.
	JWTExpireHours int

	// SeedData loads the bundled sample records into empty collections on start-up.
	SeedData bool
	// SeedAdminUsername and SeedAdminPassword register an initial credential when the password is set.
	SeedAdminUsername string
	SeedAdminPassword string

	// AuthRatePerMinute limits login and register attempts per client IP.
	AuthRatePerMinute int
	// TrustProxy takes the client IP from X-Forwarded-For / X-Real-IP. Enable it
	// only behind a reverse proxy that overwrites those headers.
	TrustProxy bool

	// MaxBodyBytes caps request bodies (default 1 MiB).
	MaxBodyBytes int64

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	// When empty, the API listens with plain HTTP.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string
	// LogLevel is debug, info (default), warn or error.
	LogLevel string

	// CORSAllowedOrigins is a list of origins allowed for CORS (e.g. https://app.example.com, http://localhost:3000).
	// Set via CORS_ALLOWED_ORIGINS (comma-separated). When empty, no CORS headers are sent (same-origin only).
	CORSAllowedOrigins []string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real env vars win.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "dev"),

		StoreBackend: getEnv("STORE_BACKEND", BackendPostgres),
		DBDriver:     getEnv("DB_DRIVER", "postgres"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),

		DBHost:    getEnv("DB_HOST", "localhost"),
		DBPort:    getEnv("DB_PORT", "5432"),
		DBName:    getEnv("DB_NAME", "catalog"),
		DBUser:    getEnv("DB_USER", "catalog"),
		DBPass:    getEnv("DB_PASS", "catalog"),
		DBSSLMode: getEnv("DB_SSLMODE", "disable"),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTSecret:      getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTExpireHours: getEnvInt("JWT_EXPIRE_HOURS", 7*24),

		SeedData:          getEnvBool("SEED_DATA", true),
		SeedAdminUsername: getEnv("SEED_ADMIN_USERNAME", "admin"),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),

		AuthRatePerMinute: getEnvInt("AUTH_RATE_PER_MINUTE", 10),
		TrustProxy:        getEnvBool("TRUST_PROXY", false),
		MaxBodyBytes:      int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),

		// Optional TLS configuration for HTTPS.
		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),

		CORSAllowedOrigins: parseCORSOrigins(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}
}

// Validate rejects combinations the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if c.Env == "prod" && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		errs = append(errs, errors.New("JWT_SECRET must be set to a non-default value when ENV=prod"))
	}
	switch c.StoreBackend {
	case BackendPostgres, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_BACKEND %q: want postgres or memory", c.StoreBackend))
	}
	switch c.DBDriver {
	case "postgres", "pgx":
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q: want postgres or pgx", c.DBDriver))
	}
	if (c.TLSCertFile == "") != (c.TLSKeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}
	return errors.Join(errs...)
}

// DSN returns the connection string for the database, preferring DATABASE_URL.
func (c Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPass),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

// parseCORSOrigins splits a comma-separated list of origins and trims spaces. Empty strings are omitted.
func parseCORSOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
