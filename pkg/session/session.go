package session

import (
	"time"

	"github.com/google/uuid"
)

// Session binds an authenticated principal (user id + email) to a bearer
// token. The token is the only client-held credential; at rest it is stored
// encrypted and indexed by a deterministic digest.
type Session struct {
	ID             uuid.UUID `json:"id"`
	Token          string    `json:"token"`
	UserID         uuid.UUID `json:"user_id"`
	Email          string    `json:"email"`
	ExpiresAt      time.Time `json:"expires_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewSession creates a session for the given principal with the given ttl.
func NewSession(token string, userID uuid.UUID, email string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:             uuid.New(),
		Token:          token,
		UserID:         userID,
		Email:          email,
		ExpiresAt:      now.Add(ttl),
		LastActivityAt: now,
		CreatedAt:      now,
	}
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return s != nil && time.Now().After(s.ExpiresAt)
}

// Touch updates the last activity time.
func (s *Session) Touch() {
	if s == nil {
		return
	}
	s.LastActivityAt = time.Now()
}
