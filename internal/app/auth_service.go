package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"weightduel/internal/domain"
)

// SessionTTL is how long a login lasts.
const SessionTTL = 24 * time.Hour

var (
	// ErrInvalidCredentials indicates that the passcode matched no user.
	ErrInvalidCredentials = errors.New("invalid passcode")
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = errors.New("session expired")
)

// AuthService resolves passcodes to users and manages sessions.
type AuthService struct {
	sessions  domain.SessionRepository
	passcodes map[string]string // user to bcrypt hash
	clock     clockwork.Clock
}

// NewAuthService creates a new authentication service.
func NewAuthService(sessions domain.SessionRepository, passcodes map[string]string, clock clockwork.Clock) *AuthService {
	return &AuthService{
		sessions:  sessions,
		passcodes: passcodes,
		clock:     clock,
	}
}

// Login finds the user whose passcode matches and creates a session.
func (s *AuthService) Login(ctx context.Context, passcode string) (token, user string, err error) {
	if passcode == "" {
		return "", "", ErrInvalidCredentials
	}

	user = s.resolve(passcode)
	if user == "" {
		return "", "", ErrInvalidCredentials
	}

	token, err = generateToken()
	if err != nil {
		return "", "", err
	}

	now := s.clock.Now()
	if err := s.sessions.DeleteExpiredSessions(ctx, now); err != nil {
		logrus.Warnf("delete expired sessions: %s", err)
	}
	err = s.sessions.CreateSession(ctx, domain.Session{
		Token:     token,
		User:      user,
		ExpiresAt: now.Add(SessionTTL),
		CreatedAt: now,
	})
	if err != nil {
		return "", "", fmt.Errorf("create session: %w", err)
	}
	return token, user, nil
}

// resolve returns the user owning passcode, or "".
func (s *AuthService) resolve(passcode string) string {
	users := make([]string, 0, len(s.passcodes))
	for u := range s.passcodes {
		users = append(users, u)
	}
	sort.Strings(users)

	for _, u := range users {
		if bcrypt.CompareHashAndPassword([]byte(s.passcodes[u]), []byte(passcode)) == nil {
			return u
		}
	}
	return ""
}

// Logout invalidates a session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

// ValidateSession returns the user owning a live session token.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (string, error) {
	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return "", ErrSessionNotFound
	}

	if !s.clock.Now().Before(session.ExpiresAt) {
		_ = s.sessions.DeleteSession(ctx, token)
		return "", ErrSessionExpired
	}
	return session.User, nil
}

// HashPasscode returns the bcrypt hash to put in the config file.
func HashPasscode(passcode string) (string, error) {
	if passcode == "" {
		return "", errors.New("empty passcode")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passcode), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
