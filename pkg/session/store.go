package session

import (
	"context"
	"time"
)

// Store defines the interface for session persistence. Implementations are
// the single chokepoint for the no-plaintext-secrets-at-rest invariant:
// every operation receives the plaintext token and must encrypt it before
// writing and decrypt after reading.
type Store interface {
	// Create stores a new session.
	Create(ctx context.Context, session *Session) error

	// Get retrieves a session by its plaintext token, or ErrSessionNotFound.
	Get(ctx context.Context, token string) (*Session, error)

	// UpdateActivity records activity and the renewed expiry for the
	// session identified by token.
	UpdateActivity(ctx context.Context, token string, lastActivity, expiresAt time.Time) error

	// Delete removes a session by token.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes all expired sessions.
	DeleteExpired(ctx context.Context) error
}
