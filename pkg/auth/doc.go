// Package auth implements email/password authentication with OTP-based
// email verification and password reset, plus federated sign-in through
// the Microsoft identity platform.
//
// The Service exposes the credential flows (RequestSignup, CompleteSignup,
// Login, RequestPasswordReset, ResetPassword) and the federated flow
// (CompleteFederated). Authenticate accepts the closed set of request
// variants and dispatches to the matching flow:
//
//	principal, err := svc.Authenticate(ctx, auth.CredentialsLogin{
//		Email:    "user@example.com",
//		Password: "secret",
//	})
//
// Passwords are hashed with bcrypt. Federated provider tokens are sealed
// by the secrets codec before they reach storage; a sealing failure fails
// the sign-in rather than persisting plaintext.
package auth
