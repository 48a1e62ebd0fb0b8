// Package authapi exposes the authentication flows over a JSON API:
// OTP-based signup and password reset, email/password login, session
// logout and the federated sign-in redirect pair.
package authapi

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/worklog/pkg/auth"
	"github.com/dmitrymomot/worklog/pkg/session"
)

// Service wires the auth flows to HTTP routes.
type Service struct {
	auth     *auth.Service
	sessions *session.Manager
	oidc     *auth.OIDCBridge
	logger   *slog.Logger
}

// Option configures the service.
type Option func(*Service)

// WithOIDC enables the federated sign-in routes.
func WithOIDC(bridge *auth.OIDCBridge) Option {
	return func(s *Service) {
		s.oidc = bridge
	}
}

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		s.logger = log
	}
}

// NewService creates the auth API module.
func NewService(authSvc *auth.Service, sessions *session.Manager, opts ...Option) *Service {
	s := &Service{
		auth:     authSvc,
		sessions: sessions,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Handle returns the module router. Mount it under /auth.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/signup/request", s.requestSignup)
	r.Post("/signup/complete", s.completeSignup)
	r.Post("/login", s.login)
	r.Post("/password/forgot", s.forgotPassword)
	r.Post("/password/reset", s.resetPassword)

	if s.oidc != nil {
		r.Get("/microsoft", s.beginFederated)
		r.Get("/microsoft/callback", s.completeFederated)
	}

	r.Group(func(r chi.Router) {
		r.Use(session.Middleware(s.sessions))
		r.Post("/logout", s.logout)
		r.Get("/me", s.me)
	})

	return r
}
