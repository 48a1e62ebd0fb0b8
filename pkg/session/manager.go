package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/worklog/pkg/logger"
)

// Manager issues, resolves, and destroys sessions on top of a Store.
type Manager struct {
	store  Store
	cfg    Config
	logger *slog.Logger
}

// Option configures a Manager during construction.
type Option func(*Manager)

// WithLogger sets a custom logger for the manager.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = log
	}
}

// NewManager creates a session manager.
func NewManager(store Store, cfg Config, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Create issues a fresh session for the authenticated principal. The
// returned session carries the plaintext bearer token; it is never
// recoverable again from storage in that form.
func (m *Manager) Create(ctx context.Context, userID uuid.UUID, email string) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, errors.Join(ErrTokenGeneration, err)
	}

	session := NewSession(token, userID, email, m.cfg.Lifetime)
	if err := m.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	m.logger.InfoContext(ctx, "session created",
		logger.UserID(userID.String()),
		logger.Component("session"),
	)

	return session, nil
}

// Resolve looks up the session for a presented token, enforcing expiry and
// renewing the sliding lifetime when activity is past the update threshold.
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	session, err := m.store.Get(ctx, token)
	if err != nil {
		return nil, err
	}

	if session.IsExpired() {
		// Best effort cleanup; the expired row is unusable either way.
		if err := m.store.Delete(ctx, token); err != nil {
			m.logger.WarnContext(ctx, "failed to delete expired session",
				logger.Error(err),
				logger.Component("session"),
			)
		}
		return nil, ErrSessionExpired
	}

	if time.Since(session.LastActivityAt) >= m.cfg.ActivityUpdateThreshold {
		session.Touch()
		session.ExpiresAt = time.Now().Add(m.cfg.Lifetime)
		if err := m.store.UpdateActivity(ctx, token, session.LastActivityAt, session.ExpiresAt); err != nil {
			m.logger.WarnContext(ctx, "failed to renew session activity",
				logger.Error(err),
				logger.Component("session"),
			)
		}
	}

	return session, nil
}

// Destroy removes the session for the presented token. Destroying an
// unknown token is not an error.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if err := m.store.Delete(ctx, token); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// generateToken creates a cryptographically secure bearer token.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
