package auth

import "context"

// Request is one of the closed set of authentication request variants
// accepted by Authenticate. Implementations live in this package only.
type Request interface {
	isAuthRequest()
}

// CredentialsLogin authenticates with an email and password.
type CredentialsLogin struct {
	Email    string
	Password string
}

func (CredentialsLogin) isAuthRequest() {}

// FederatedAssertion authenticates with a verified provider assertion.
type FederatedAssertion struct {
	Assertion Assertion
}

func (FederatedAssertion) isAuthRequest() {}

// Authenticate dispatches a request variant to the matching flow and
// returns the authenticated principal. Unknown variants are rejected with
// ErrUnsupportedRequest.
func (s *Service) Authenticate(ctx context.Context, req Request) (*Principal, error) {
	switch r := req.(type) {
	case CredentialsLogin:
		return s.Login(ctx, r.Email, r.Password)
	case FederatedAssertion:
		return s.CompleteFederated(ctx, r.Assertion)
	default:
		return nil, ErrUnsupportedRequest
	}
}
