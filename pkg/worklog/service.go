package worklog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/worklog/pkg/logger"
	"github.com/dmitrymomot/worklog/pkg/sanitizer"
	"github.com/dmitrymomot/worklog/pkg/validator"
)

// Service implements the work-note operations. Every operation is scoped to
// the acting user; a note belonging to someone else behaves exactly like a
// missing note.
type Service struct {
	storage Storage
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures the service during construction.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		s.logger = log
	}
}

// WithClock overrides the time source, used by stats tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates the work-note service.
func NewService(storage Storage, opts ...Option) *Service {
	s := &Service{
		storage: storage,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// NoteInput carries the user-editable fields of a note.
type NoteInput struct {
	Title       string
	Description string
	ProjectName string
	Date        time.Time
	HoursWorked float64
}

func (in *NoteInput) sanitize() {
	in.Title = sanitizer.TrimText(in.Title)
	in.Description = sanitizer.TrimText(in.Description)
	in.ProjectName = sanitizer.TrimText(in.ProjectName)
}

func (in NoteInput) validate() error {
	return validator.Apply(
		validator.Required("title", in.Title),
		validator.Required("description", in.Description),
		validator.Required("project_name", in.ProjectName),
		validator.InRange("hours_worked", in.HoursWorked, MinHours, MaxHours),
	)
}

// Create records a new note for the user. A zero date defaults to now.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, userEmail string, in NoteInput) (*Note, error) {
	in.sanitize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		in.Date = s.now()
	}

	now := s.now()
	note := &Note{
		ID:          uuid.New(),
		UserID:      userID,
		UserEmail:   userEmail,
		Title:       in.Title,
		Description: in.Description,
		ProjectName: in.ProjectName,
		Date:        in.Date,
		HoursWorked: in.HoursWorked,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.storage.CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	s.logger.InfoContext(ctx, "work note created",
		logger.UserID(userID.String()),
		slog.String("note_id", note.ID.String()),
		logger.Component("worklog"),
	)
	return note, nil
}

// Get returns a single note owned by the user.
func (s *Service) Get(ctx context.Context, userID, noteID uuid.UUID) (*Note, error) {
	return s.ownedNote(ctx, userID, noteID)
}

// List returns the user's notes newest first, optionally filtered by
// project and date range.
func (s *Service) List(ctx context.Context, userID uuid.UUID, filter Filter) ([]Note, error) {
	if filter.ProjectName == "all" {
		filter.ProjectName = ""
	}
	notes, err := s.storage.ListNotes(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// Update replaces the editable fields of a note owned by the user.
func (s *Service) Update(ctx context.Context, userID, noteID uuid.UUID, in NoteInput) (*Note, error) {
	in.sanitize()
	if err := in.validate(); err != nil {
		return nil, err
	}

	note, err := s.ownedNote(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	note.Title = in.Title
	note.Description = in.Description
	note.ProjectName = in.ProjectName
	if !in.Date.IsZero() {
		note.Date = in.Date
	}
	note.HoursWorked = in.HoursWorked
	note.UpdatedAt = s.now()

	if err := s.storage.UpdateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return note, nil
}

// Delete removes a note owned by the user.
func (s *Service) Delete(ctx context.Context, userID, noteID uuid.UUID) error {
	if _, err := s.ownedNote(ctx, userID, noteID); err != nil {
		return err
	}
	if err := s.storage.DeleteNote(ctx, noteID); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// Projects returns the distinct project names the user has logged notes
// against, for filter dropdowns.
func (s *Service) Projects(ctx context.Context, userID uuid.UUID) ([]string, error) {
	projects, err := s.storage.DistinctProjects(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *Service) ownedNote(ctx context.Context, userID, noteID uuid.UUID) (*Note, error) {
	note, err := s.storage.GetNote(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if note.UserID != userID {
		return nil, ErrNoteNotFound
	}
	return note, nil
}
