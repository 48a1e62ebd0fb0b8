package session

import (
	"net/http"
	"strings"
)

// CookieName is the session cookie read alongside the Authorization header.
const CookieName = "sid"

// Middleware resolves the presented bearer token and attaches the session
// principal to the request context so downstream handlers can scope data
// access by user id. Requests without a resolvable session are rejected
// with 401; the middleware guards authenticated routes only.
func Middleware(m *Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			session, err := m.Resolve(r.Context(), token)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// extractToken prefers the Authorization header, falling back to the
// session cookie.
func extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if after, ok := strings.CutPrefix(h, "Bearer "); ok {
			return after
		}
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}
