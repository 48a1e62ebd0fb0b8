package authapi

import (
	"net/http"
	"time"

	"github.com/dmitrymomot/worklog/modules/respond"
	"github.com/dmitrymomot/worklog/pkg/auth"
	"github.com/dmitrymomot/worklog/pkg/logger"
	"github.com/dmitrymomot/worklog/pkg/session"
)

type requestSignupRequest struct {
	Email string `json:"email"`
}

func (s *Service) requestSignup(w http.ResponseWriter, r *http.Request) {
	var req requestSignupRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	if err := s.auth.RequestSignup(r.Context(), req.Email); err != nil {
		respond.Error(w, err)
		return
	}
	respond.Message(w, http.StatusAccepted, "verification code sent")
}

type completeSignupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

func (s *Service) completeSignup(w http.ResponseWriter, r *http.Request) {
	var req completeSignupRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	principal, err := s.auth.CompleteSignup(r.Context(), req.Email, req.Name, req.Password, req.Code)
	if err != nil {
		respond.Error(w, err)
		return
	}
	s.respondWithSession(w, r, principal, http.StatusCreated)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Service) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	principal, err := s.auth.Authenticate(r.Context(), auth.CredentialsLogin{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}
	s.respondWithSession(w, r, principal, http.StatusOK)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (s *Service) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	if err := s.auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		respond.Error(w, err)
		return
	}
	respond.Message(w, http.StatusAccepted, "password reset code sent")
}

type resetPasswordRequest struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Password string `json:"password"`
}

func (s *Service) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	if err := s.auth.ResetPassword(r.Context(), req.Email, req.Code, req.Password); err != nil {
		respond.Error(w, err)
		return
	}
	respond.Message(w, http.StatusOK, "password updated")
}

func (s *Service) logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := session.FromContext(r.Context()); ok {
		if err := s.sessions.Destroy(r.Context(), sess.Token); err != nil {
			respond.Error(w, err)
			return
		}
	}
	clearSessionCookie(w)
	respond.Message(w, http.StatusOK, "logged out")
}

func (s *Service) me(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		respond.Error(w, session.ErrSessionNotFound)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{
		"user_id": sess.UserID.String(),
		"email":   sess.Email,
	})
}

func (s *Service) beginFederated(w http.ResponseWriter, r *http.Request) {
	url, err := s.oidc.Begin()
	if err != nil {
		respond.Error(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (s *Service) completeFederated(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if state == "" || code == "" {
		respond.BadRequest(w, "missing state or code")
		return
	}

	assertion, err := s.oidc.Complete(r.Context(), state, code)
	if err != nil {
		s.logger.WarnContext(r.Context(), "federated sign-in failed",
			logger.Error(err),
			logger.Component("authapi"),
		)
		respond.BadRequest(w, "federated sign-in failed")
		return
	}

	principal, err := s.auth.Authenticate(r.Context(), auth.FederatedAssertion{Assertion: assertion})
	if err != nil {
		respond.Error(w, err)
		return
	}
	s.respondWithSession(w, r, principal, http.StatusOK)
}

type sessionResponse struct {
	Token string          `json:"token"`
	User  *auth.Principal `json:"user"`
}

// respondWithSession issues a session for the principal and returns the
// bearer token both as a cookie and in the JSON body.
func (s *Service) respondWithSession(w http.ResponseWriter, r *http.Request, principal *auth.Principal, status int) {
	sess, err := s.sessions.Create(r.Context(), principal.UserID, principal.Email)
	if err != nil {
		respond.Error(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	respond.JSON(w, status, sessionResponse{Token: sess.Token, User: principal})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
}
