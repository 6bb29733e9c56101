// Package memory implements in-memory repositories for development and testing.
package memory

import (
	"context"
	"sync"
	"time"

	"weightduel/internal/domain"
)

// DB implements an in-memory entry store.
type DB struct {
	mu      sync.Mutex
	entries map[domain.Key]domain.Entry
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		entries: make(map[domain.Key]domain.Entry),
	}
}

// Ensure interfaces are met.
var _ domain.EntryRepository = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// --- EntryRepository ---

// UpsertEntry inserts or replaces the entry at its key.
func (db *DB) UpsertEntry(ctx context.Context, e domain.Entry) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.entries[e.Key()] = e
	return nil
}

// UpsertEntries upserts every entry under one lock; later duplicates win.
func (db *DB) UpsertEntries(ctx context.Context, entries []domain.Entry) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, e := range entries {
		db.entries[e.Key()] = e
	}
	return nil
}

// ListEntries returns a copy of every stored entry in no particular order.
func (db *DB) ListEntries(ctx context.Context) ([]domain.Entry, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]domain.Entry, 0, len(db.entries))
	for _, e := range db.entries {
		out = append(out, e)
	}
	return out, nil
}

// DeleteEntry removes the entry at (user, date).
func (db *DB) DeleteEntry(ctx context.Context, user, date string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	k := domain.Key{User: user, Date: date}
	if _, ok := db.entries[k]; !ok {
		return false, nil
	}
	delete(db.entries, k)
	return true, nil
}

// --- SessionRepository ---

// SessionRepo keeps sessions in memory. It is used by every store backend
// that has no session table of its own.
type SessionRepo struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
}

// NewSessionRepo creates a new session repository.
func NewSessionRepo() *SessionRepo {
	return &SessionRepo{sessions: make(map[string]domain.Session)}
}

// CreateSession stores a session.
func (r *SessionRepo) CreateSession(ctx context.Context, s domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[s.Token] = s
	return nil
}

// GetSession retrieves a session by token.
func (r *SessionRepo) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[token]; ok {
		return &s, nil
	}
	return nil, nil
}

// DeleteSession deletes a session.
func (r *SessionRepo) DeleteSession(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, token)
	return nil
}

// DeleteExpiredSessions deletes all sessions expired at now.
func (r *SessionRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k, v := range r.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.sessions, k)
		}
	}
	return nil
}
