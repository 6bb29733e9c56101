package domain

import (
	"context"
	"time"
)

// Session is an active login for one of the fixed users.
type Session struct {
	Token     string
	User      string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// SessionRepository defines the port for session persistence operations.
// GetSession returns (nil, nil) when the token is unknown.
type SessionRepository interface {
	CreateSession(ctx context.Context, s Session) error
	GetSession(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) error
}
