// Package notesapi exposes the work-note operations over a JSON API:
// CRUD with project and date-range filters, distinct project listing,
// period statistics and CSV export. Every route requires a session.
package notesapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/worklog/pkg/session"
	"github.com/dmitrymomot/worklog/pkg/worklog"
)

// Service wires the work-note operations to HTTP routes.
type Service struct {
	notes    *worklog.Service
	sessions *session.Manager
}

// NewService creates the notes API module.
func NewService(notes *worklog.Service, sessions *session.Manager) *Service {
	return &Service{notes: notes, sessions: sessions}
}

// Handle returns the module router. Mount it at the API root.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	r.Use(session.Middleware(s.sessions))

	r.Route("/worknotes", func(r chi.Router) {
		r.Get("/", s.list)
		r.Post("/", s.create)
		r.Get("/export", s.exportCSV)
		r.Get("/{id}", s.get)
		r.Put("/{id}", s.update)
		r.Delete("/{id}", s.delete)
	})
	r.Get("/projects", s.projects)
	r.Get("/stats", s.stats)

	return r
}
