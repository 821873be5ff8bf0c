// Package store provides session storage backends for the speaking
// assessment service.
//
// It includes an in-memory store for tests and single-process deployments,
// plus SQLite and PostgreSQL backends for durability across restarts.
package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/WWPCA/ieltsprep/internal/models"
)

// Store abstracts session persistence keyed by session id. The orchestrator
// is the only writer; it serializes calls per session id.
type Store interface {
	// GetSession returns the session with the given id, or nil when the
	// id is unknown.
	GetSession(id string) (*models.Session, error)

	// SaveSession inserts or replaces a session.
	SaveSession(s models.Session) error

	// DeleteSession removes a session. Deleting an unknown id is not an
	// error.
	DeleteSession(id string) error

	// ListIdleSessionIDs returns ids of sessions whose last activity is
	// before the cutoff, for background reclamation.
	ListIdleSessionIDs(cutoff time.Time) ([]string, error)

	// Close releases any backend resources.
	Close() error
}

// InMemoryStore is a mutex-guarded in-memory session store.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

// NewInMemoryStore creates an empty in-memory store.
func NewInMemoryStore() *InMemoryStore {
	slog.Debug("Creating InMemoryStore")
	return &InMemoryStore{sessions: make(map[string]models.Session)}
}

// GetSession returns the stored session or nil when not found.
func (s *InMemoryStore) GetSession(id string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

// SaveSession inserts or replaces a session.
func (s *InMemoryStore) SaveSession(sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

// DeleteSession removes a session by id.
func (s *InMemoryStore) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// ListIdleSessionIDs returns ids idle since before the cutoff.
func (s *InMemoryStore) ListIdleSessionIDs(cutoff time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for id, sess := range s.sessions {
		if sess.LastActivity.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error { return nil }
