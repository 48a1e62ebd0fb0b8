package worklog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Hours bounds for a single note. Longer stretches of work are recorded as
// multiple notes.
const (
	MinHours = 0.5
	MaxHours = 4.0
)

// Note is a single dated work entry.
type Note struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	UserEmail   string
	Title       string
	Description string
	ProjectName string
	Date        time.Time
	HoursWorked float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Filter narrows a note listing. A zero value matches everything for the
// user. From and To are inclusive; both must be set for the date filter to
// apply.
type Filter struct {
	ProjectName string
	From        time.Time
	To          time.Time
}

// HasDateRange reports whether the filter constrains dates.
func (f Filter) HasDateRange() bool {
	return !f.From.IsZero() && !f.To.IsZero()
}

// PeriodTotals aggregates a user's notes over a date range.
type PeriodTotals struct {
	Tasks int64
	Hours float64
}

// ProjectStat is the per-project slice of a period, ordered by note count.
type ProjectStat struct {
	ProjectName string  `json:"project_name"`
	Count       int64   `json:"count"`
	Hours       float64 `json:"hours"`
}

// Storage defines the persistence operations required by the service.
// Listings are returned newest first.
type Storage interface {
	CreateNote(ctx context.Context, note *Note) error
	// GetNote returns ErrNoteNotFound when no note exists.
	GetNote(ctx context.Context, id uuid.UUID) (*Note, error)
	ListNotes(ctx context.Context, userID uuid.UUID, filter Filter) ([]Note, error)
	UpdateNote(ctx context.Context, note *Note) error
	DeleteNote(ctx context.Context, id uuid.UUID) error

	PeriodTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) (PeriodTotals, error)
	ProjectBreakdown(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]ProjectStat, error)
	DistinctProjects(ctx context.Context, userID uuid.UUID) ([]string, error)
}
