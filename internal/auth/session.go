package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// SessionCookieName carries the session ID for browser callers.
const SessionCookieName = "cc_session"

// ErrSessionNotFound indicates an unknown or expired session.
var ErrSessionNotFound = errors.New("session not found")

// Session is the explicit per-login state established by the OAuth2
// callback. It holds the delegated access token needed for guild
// lookups and caches the membership verdict; only a true verdict is
// ever stored.
type Session struct {
	ID            string    `json:"id"`
	Subject       string    `json:"subject"`
	Username      string    `json:"username"`
	AccessToken   string    `json:"access_token"`
	GuildVerified bool      `json:"guild_verified"`
	CreatedAt     time.Time `json:"created_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Expired reports whether the session has passed its lifetime.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// SessionStore persists sessions for their configured lifetime.
// Destroying a session discards any cached membership verdict with it.
type SessionStore interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Destroy(ctx context.Context, id string) error
}

// NewSession initializes a session for the given subject.
func NewSession(subject, username, accessToken string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:          uuid.NewString(),
		Subject:     subject,
		Username:    username,
		AccessToken: accessToken,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
}
