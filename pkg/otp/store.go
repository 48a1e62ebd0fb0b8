package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"time"

	"github.com/dmitrymomot/worklog/pkg/secrets"
)

// Purpose identifies what an issued code proves control of an email for.
// The set is closed: tokens for one purpose never satisfy another.
type Purpose string

const (
	PurposeVerification Purpose = "verification"
	PurposeReset        Purpose = "reset"
)

// DefaultTTL is how long an issued code stays valid. The storage layer
// additionally sweeps rows past this age (TTL index), but Verify checks
// expiry explicitly and never relies on the sweep having run.
const DefaultTTL = 10 * time.Minute

// CodeLength is the number of digits in an issued code.
const CodeLength = 6

// Token is the stored form of an issued code. The code itself is persisted
// only encrypted.
type Token struct {
	Email         string
	Purpose       Purpose
	EncryptedCode string
	ExpiresAt     time.Time
	CreatedAt     time.Time
}

// Storage defines the persistence operations required by the store.
type Storage interface {
	// DeleteTokens removes every token for (email, purpose).
	DeleteTokens(ctx context.Context, email string, purpose Purpose) error

	// CreateToken persists a new token.
	CreateToken(ctx context.Context, token Token) error

	// GetToken returns the token for (email, purpose), or ErrCodeNotFound.
	GetToken(ctx context.Context, email string, purpose Purpose) (*Token, error)
}

// Store issues and verifies one-time codes keyed by (email, purpose).
type Store struct {
	storage Storage
	codec   *secrets.Codec
	ttl     time.Duration
	logger  *slog.Logger
}

// Option configures a Store during construction.
type Option func(*Store)

// WithTTL overrides the code lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New creates an OTP store backed by the given storage and codec.
func New(storage Storage, codec *secrets.Codec, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		codec:   codec,
		ttl:     DefaultTTL,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Issue mints a fresh 6-digit code for (email, purpose), superseding any
// prior token for that pair (delete-then-insert, so at most one token is
// logically active). The plaintext code is returned exactly once for
// out-of-band delivery; only its ciphertext is persisted.
func (s *Store) Issue(ctx context.Context, email string, purpose Purpose) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	encrypted, err := s.codec.Encrypt(code)
	if err != nil {
		return "", fmt.Errorf("encrypt code: %w", err)
	}

	if err := s.storage.DeleteTokens(ctx, email, purpose); err != nil {
		return "", fmt.Errorf("supersede existing tokens: %w", err)
	}

	now := time.Now()
	if err := s.storage.CreateToken(ctx, Token{
		Email:         email,
		Purpose:       purpose,
		EncryptedCode: encrypted,
		ExpiresAt:     now.Add(s.ttl),
		CreatedAt:     now,
	}); err != nil {
		return "", fmt.Errorf("persist token: %w", err)
	}

	s.logger.InfoContext(ctx, "otp issued",
		slog.String("email", email),
		slog.String("purpose", string(purpose)),
	)

	return code, nil
}

// Verify checks the candidate against the stored code for (email, purpose).
// The comparison is on the decrypted string (no numeric coercion, leading
// zeros matter) and expiry is checked explicitly so an expired-but-unswept
// token still fails. Verify never deletes the token; callers Consume it
// once the downstream action completes.
func (s *Store) Verify(ctx context.Context, email string, purpose Purpose, candidate string) error {
	token, err := s.storage.GetToken(ctx, email, purpose)
	if err != nil {
		return err
	}

	if time.Now().After(token.ExpiresAt) {
		return ErrCodeExpired
	}

	code, err := s.codec.Decrypt(token.EncryptedCode)
	if err != nil {
		return fmt.Errorf("decrypt stored code: %w", err)
	}

	if !secrets.Equal(code, candidate) {
		return ErrCodeMismatch
	}

	return nil
}

// Consume removes the token for (email, purpose) after it has served its
// purpose. Consuming twice is not an error; the second call is a no-op.
func (s *Store) Consume(ctx context.Context, email string, purpose Purpose) error {
	return s.storage.DeleteTokens(ctx, email, purpose)
}

// generateCode returns a uniformly random 6-digit numeric code in
// [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
