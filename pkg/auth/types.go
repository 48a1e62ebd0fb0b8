package auth

import (
	"time"

	"github.com/google/uuid"
)

// Authentication method identifiers used to track how users authenticate.
const (
	MethodPassword  = "password"
	MethodFederated = "federated"
)

// User represents a user account. PasswordHash is nil for federation-only
// accounts. EncryptedAccessToken holds the latest federated provider access
// token, sealed by the secrets codec before it ever reaches this struct's
// storage representation.
type User struct {
	ID                   uuid.UUID
	Email                string
	Name                 string
	PasswordHash         []byte
	IsVerified           bool
	EncryptedAccessToken string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Account links a user to a federated identity provider. One account exists
// per (provider, providerAccountID); tokens are stored encrypted and
// refreshed on every sign-in.
type Account struct {
	UserID                uuid.UUID
	Provider              string
	ProviderAccountID     string
	EncryptedAccessToken  string
	EncryptedRefreshToken string
	CreatedAt             time.Time
}

// Principal is the authenticated identity bound into the session.
type Principal struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Name   string    `json:"name,omitempty"`
}

// Assertion is a verified identity claim from a federated provider after
// code exchange. This package treats it as opaque input.
type Assertion struct {
	Provider     string
	Subject      string
	Email        string
	Name         string
	AccessToken  string
	RefreshToken string
}
