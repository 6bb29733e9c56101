package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"weightduel/internal/domain"
)

var _ domain.SessionRepository = (*DB)(nil)

// CreateSession stores a new session.
func (d *DB) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO sessions (token, user_name, expires_at, created_at) VALUES ($1, $2, $3, $4)",
		s.Token, s.User, s.ExpiresAt.UTC(), s.CreatedAt.UTC(),
	)
	return err
}

// GetSession retrieves a session by token.
func (d *DB) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	var s domain.Session
	err := d.sql.QueryRowContext(ctx,
		"SELECT token, user_name, expires_at, created_at FROM sessions WHERE token = $1",
		token,
	).Scan(&s.Token, &s.User, &s.ExpiresAt, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSession deletes a session by token.
func (d *DB) DeleteSession(ctx context.Context, token string) error {
	_, err := d.sql.ExecContext(ctx, "DELETE FROM sessions WHERE token = $1", token)
	return err
}

// DeleteExpiredSessions deletes all sessions expired at now.
func (d *DB) DeleteExpiredSessions(ctx context.Context, now time.Time) error {
	_, err := d.sql.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at < $1", now.UTC())
	return err
}
