// Package respond carries the JSON response helpers shared by the API
// modules, including the mapping from domain errors to HTTP status codes.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/worklog/pkg/auth"
	"github.com/dmitrymomot/worklog/pkg/email"
	"github.com/dmitrymomot/worklog/pkg/session"
	"github.com/dmitrymomot/worklog/pkg/validator"
	"github.com/dmitrymomot/worklog/pkg/worklog"
)

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Message writes a one-line JSON message.
func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"message": message})
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Error maps a domain error to a status code and writes the JSON error
// body. Unknown errors become an opaque 500; internal details never reach
// the client.
func Error(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, ve := range verrs {
			fields[ve.Field] = ve.Message
		}
		JSON(w, http.StatusBadRequest, errorBody{Error: "validation failed", Fields: fields})
		return
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrEmailNotVerified),
		errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrSessionExpired):
		JSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})

	case errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, auth.ErrEmailAlreadyRegistered),
		errors.Is(err, auth.ErrInvalidCode),
		errors.Is(err, auth.ErrCodeExpired),
		errors.Is(err, worklog.ErrInvalidTimeframe):
		JSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})

	case errors.Is(err, worklog.ErrNoteNotFound):
		JSON(w, http.StatusNotFound, errorBody{Error: err.Error()})

	case errors.Is(err, email.ErrDeliveryFailed):
		JSON(w, http.StatusBadGateway, errorBody{Error: "failed to send email"})

	default:
		JSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

// Decode reads the request body as JSON into v. A malformed body is a
// client error.
func Decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// BadRequest writes a 400 with the given message.
func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, errorBody{Error: message})
}
