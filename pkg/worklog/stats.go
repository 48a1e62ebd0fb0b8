package worklog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Timeframe selects the stats window.
type Timeframe string

const (
	TimeframeWeekly  Timeframe = "weekly"
	TimeframeMonthly Timeframe = "monthly"
	TimeframeYearly  Timeframe = "yearly"
)

// ParseTimeframe maps a query value to a Timeframe. Empty input defaults to
// weekly.
func ParseTimeframe(value string) (Timeframe, error) {
	switch Timeframe(value) {
	case TimeframeWeekly, TimeframeMonthly, TimeframeYearly:
		return Timeframe(value), nil
	case "":
		return TimeframeWeekly, nil
	default:
		return "", ErrInvalidTimeframe
	}
}

// Stats summarizes a user's activity over the current period of a
// timeframe, with percentage change against the previous period.
type Stats struct {
	Timeframe             Timeframe     `json:"timeframe"`
	TotalTasks            int64         `json:"total_tasks"`
	TotalHours            float64       `json:"total_hours"`
	TasksByProject        []ProjectStat `json:"tasks_by_project"`
	TasksPercentageChange float64       `json:"tasks_percentage_change"`
	HoursPercentageChange float64       `json:"hours_percentage_change"`
	PeriodStart           time.Time     `json:"period_start"`
	PeriodEnd             time.Time     `json:"period_end"`
}

// Stats computes the summary for the period containing now. A previous
// period with no activity reports a flat 100% change rather than a
// division by zero.
func (s *Service) Stats(ctx context.Context, userID uuid.UUID, timeframe Timeframe) (*Stats, error) {
	now := s.now()
	start, end := periodBounds(now, timeframe)
	if start.IsZero() {
		return nil, ErrInvalidTimeframe
	}
	prevStart, prevEnd := periodBounds(previousPeriodAnchor(now, timeframe), timeframe)

	current, err := s.storage.PeriodTotals(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("current period totals: %w", err)
	}
	previous, err := s.storage.PeriodTotals(ctx, userID, prevStart, prevEnd)
	if err != nil {
		return nil, fmt.Errorf("previous period totals: %w", err)
	}
	byProject, err := s.storage.ProjectBreakdown(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("project breakdown: %w", err)
	}

	return &Stats{
		Timeframe:             timeframe,
		TotalTasks:            current.Tasks,
		TotalHours:            current.Hours,
		TasksByProject:        byProject,
		TasksPercentageChange: percentageChange(float64(current.Tasks), float64(previous.Tasks)),
		HoursPercentageChange: percentageChange(current.Hours, previous.Hours),
		PeriodStart:           start,
		PeriodEnd:             end,
	}, nil
}

func percentageChange(current, previous float64) float64 {
	if previous == 0 {
		return 100
	}
	return (current - previous) / previous * 100
}

// periodBounds returns the inclusive bounds of the period containing t.
// Weeks start on Sunday.
func periodBounds(t time.Time, timeframe Timeframe) (time.Time, time.Time) {
	switch timeframe {
	case TimeframeWeekly:
		start := startOfDay(t).AddDate(0, 0, -int(t.Weekday()))
		return start, start.AddDate(0, 0, 7).Add(-time.Nanosecond)
	case TimeframeMonthly:
		start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
		return start, start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	case TimeframeYearly:
		start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
		return start, start.AddDate(1, 0, 0).Add(-time.Nanosecond)
	default:
		return time.Time{}, time.Time{}
	}
}

// previousPeriodAnchor returns a time inside the period before the one
// containing t.
func previousPeriodAnchor(t time.Time, timeframe Timeframe) time.Time {
	switch timeframe {
	case TimeframeWeekly:
		return t.AddDate(0, 0, -7)
	case TimeframeMonthly:
		// Last day of the previous month; AddDate(0, -1, 0) overshoots
		// when the previous month is shorter than the current day number.
		firstOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
		return firstOfMonth.AddDate(0, 0, -1)
	default:
		return time.Date(t.Year()-1, time.January, 1, 0, 0, 0, 0, t.Location())
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
