package secrets

import "errors"

var (
	// ErrMissingSecret indicates the master secret is absent or too short.
	// This is a fatal configuration error; encryption is refused rather
	// than downgraded to a default key.
	ErrMissingSecret = errors.New("secrets: master secret missing or shorter than 32 bytes")

	ErrEncryptionFailed    = errors.New("secrets: encryption failed")
	ErrKeyDerivationFailed = errors.New("secrets: key derivation failed")

	// ErrIntegrity indicates a token that is truncated, corrupted, or was
	// produced with a different key. The result must never be trusted.
	ErrIntegrity = errors.New("secrets: ciphertext integrity check failed")
)
