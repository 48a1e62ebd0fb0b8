package auth

import "errors"

// Every validation failure gets its own displayable error; handlers surface
// the message to the end user directly.
var (
	ErrUserNotFound           = errors.New("no account found with this email")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrEmailNotVerified       = errors.New("please verify your email first")
	ErrInvalidCredentials     = errors.New("invalid password")

	ErrInvalidCode = errors.New("invalid verification code")
	ErrCodeExpired = errors.New("verification code expired")

	// ErrAccountNotFound is a storage sentinel for missing federated
	// account links, not a user-facing failure.
	ErrAccountNotFound = errors.New("federated account not found")

	// ErrUnsupportedRequest indicates an Authenticate call with a request
	// variant outside the closed set.
	ErrUnsupportedRequest = errors.New("unsupported authentication request")
)
