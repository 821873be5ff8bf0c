package store

import (
	"log/slog"
	"strings"
)

// Opts holds configuration for persistent store backends.
type Opts struct {
	// DSN is the backend connection string: a file path for SQLite, a
	// connection URL for PostgreSQL.
	DSN string
}

// Option configures store construction.
type Option func(*Opts)

// WithDSN sets the backend connection string.
func WithDSN(dsn string) Option {
	return func(o *Opts) {
		o.DSN = dsn
	}
}

// DetectDSNType reports which backend a DSN targets: "postgres" for
// PostgreSQL connection strings, "sqlite" for everything else.
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return "postgres"
	}
	return "sqlite"
}

// NewStore creates the store backend matching the DSN: PostgreSQL for
// postgres connection strings, SQLite for file paths, and in-memory when
// the DSN is empty.
func NewStore(dsn string) (Store, error) {
	if dsn == "" {
		slog.Debug("store.NewStore: no DSN provided, using in-memory store")
		return NewInMemoryStore(), nil
	}
	if DetectDSNType(dsn) == "postgres" {
		slog.Debug("store.NewStore: detected PostgreSQL DSN")
		return NewPostgresStore(WithDSN(dsn))
	}
	slog.Debug("store.NewStore: detected SQLite DSN", "path", dsn)
	return NewSQLiteStore(WithDSN(dsn))
}
