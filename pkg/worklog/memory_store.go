package worklog

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Storage used in development and tests.
type MemoryStore struct {
	mu    sync.Mutex
	notes map[uuid.UUID]*Note
}

// NewMemoryStore creates an empty in-memory note store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{notes: make(map[uuid.UUID]*Note)}
}

func (s *MemoryStore) CreateNote(_ context.Context, note *Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *note
	s.notes[note.ID] = &clone
	return nil
}

func (s *MemoryStore) GetNote(_ context.Context, id uuid.UUID) (*Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	note, ok := s.notes[id]
	if !ok {
		return nil, ErrNoteNotFound
	}
	clone := *note
	return &clone, nil
}

func (s *MemoryStore) ListNotes(_ context.Context, userID uuid.UUID, filter Filter) ([]Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Note
	for _, note := range s.notes {
		if note.UserID != userID {
			continue
		}
		if filter.ProjectName != "" && note.ProjectName != filter.ProjectName {
			continue
		}
		if filter.HasDateRange() && (note.Date.Before(filter.From) || note.Date.After(filter.To)) {
			continue
		}
		out = append(out, *note)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *MemoryStore) UpdateNote(_ context.Context, note *Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notes[note.ID]; !ok {
		return ErrNoteNotFound
	}
	clone := *note
	s.notes[note.ID] = &clone
	return nil
}

func (s *MemoryStore) DeleteNote(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.notes, id)
	return nil
}

func (s *MemoryStore) PeriodTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) (PeriodTotals, error) {
	notes, err := s.ListNotes(ctx, userID, Filter{From: from, To: to})
	if err != nil {
		return PeriodTotals{}, err
	}
	var totals PeriodTotals
	for _, note := range notes {
		totals.Tasks++
		totals.Hours += note.HoursWorked
	}
	return totals, nil
}

func (s *MemoryStore) ProjectBreakdown(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]ProjectStat, error) {
	notes, err := s.ListNotes(ctx, userID, Filter{From: from, To: to})
	if err != nil {
		return nil, err
	}
	byProject := make(map[string]*ProjectStat)
	for _, note := range notes {
		stat, ok := byProject[note.ProjectName]
		if !ok {
			stat = &ProjectStat{ProjectName: note.ProjectName}
			byProject[note.ProjectName] = stat
		}
		stat.Count++
		stat.Hours += note.HoursWorked
	}
	out := make([]ProjectStat, 0, len(byProject))
	for _, stat := range byProject {
		out = append(out, *stat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out, nil
}

func (s *MemoryStore) DistinctProjects(ctx context.Context, userID uuid.UUID) ([]string, error) {
	notes, err := s.ListNotes(ctx, userID, Filter{})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for _, note := range notes {
		if !seen[note.ProjectName] {
			seen[note.ProjectName] = true
			out = append(out, note.ProjectName)
		}
	}
	slices.Sort(out)
	return out, nil
}

var _ Storage = (*MemoryStore)(nil)
