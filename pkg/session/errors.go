package session

import "errors"

var (
	// ErrSessionNotFound indicates no session matches the presented token.
	ErrSessionNotFound = errors.New("session: not found")

	// ErrSessionExpired indicates the session has expired.
	ErrSessionExpired = errors.New("session: expired")

	// ErrTokenGeneration indicates token generation failed.
	ErrTokenGeneration = errors.New("session: token generation failed")
)
