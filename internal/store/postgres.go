// Package store provides session storage backends for the speaking
// assessment service.
//
// This file implements a PostgreSQL-backed session store.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "embed"

	"github.com/WWPCA/ieltsprep/internal/models"
	_ "github.com/lib/pq"
)

//go:embed migrations_postgres.sql
var postgresMigrations string

// PostgresStore persists sessions in PostgreSQL for multi-process
// deployments.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL store with the given DSN.
func NewPostgresStore(opts ...Option) (*PostgresStore, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	slog.Debug("NewPostgresStore invoked", "DSN_set", cfg.DSN != "")

	dsn := cfg.DSN
	if dsn == "" {
		slog.Error("PostgresStore DSN not set")
		return nil, fmt.Errorf("database DSN not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		slog.Error("Failed to open PostgreSQL connection", "error", err)
		return nil, err
	}

	if err := db.Ping(); err != nil {
		slog.Error("PostgreSQL ping failed", "error", err)
		return nil, err
	}

	if _, err := db.Exec(postgresMigrations); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Debug("PostgreSQL migrations applied successfully")

	return &PostgresStore{db: db}, nil
}

// GetSession returns the stored session or nil when not found.
func (s *PostgresStore) GetSession(id string) (*models.Session, error) {
	var sessionJSON []byte
	err := s.db.QueryRow(`SELECT session_json FROM sessions WHERE id = $1`, id).Scan(&sessionJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("PostgresStore GetSession query failed", "error", err, "id", id)
		return nil, fmt.Errorf("failed to query session %s: %w", id, err)
	}

	var sess models.Session
	if err := json.Unmarshal(sessionJSON, &sess); err != nil {
		slog.Error("PostgresStore GetSession unmarshal failed", "error", err, "id", id)
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	return &sess, nil
}

// SaveSession inserts or replaces a session.
func (s *PostgresStore) SaveSession(sess models.Session) error {
	sessionJSON, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", sess.ID, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO sessions (id, session_json, last_activity, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE SET
			session_json = EXCLUDED.session_json,
			last_activity = EXCLUDED.last_activity,
			updated_at = NOW()`,
		sess.ID, sessionJSON, sess.LastActivity)
	if err != nil {
		slog.Error("PostgresStore SaveSession failed", "error", err, "id", sess.ID)
		return fmt.Errorf("failed to save session %s: %w", sess.ID, err)
	}
	slog.Debug("PostgresStore SaveSession succeeded", "id", sess.ID, "part", sess.Part)
	return nil
}

// DeleteSession removes a session by id.
func (s *PostgresStore) DeleteSession(id string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		slog.Error("PostgresStore DeleteSession failed", "error", err, "id", id)
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	return nil
}

// ListIdleSessionIDs returns ids idle since before the cutoff.
func (s *PostgresStore) ListIdleSessionIDs(cutoff time.Time) ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM sessions WHERE last_activity < $1`, cutoff)
	if err != nil {
		slog.Error("PostgresStore ListIdleSessionIDs query failed", "error", err)
		return nil, fmt.Errorf("failed to query idle sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the underlying database.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
