package worklog_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/worklog/pkg/worklog"
)

// Tuesday, March 10 2026.
var statsNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func newStatsService(t *testing.T) (*worklog.Service, uuid.UUID) {
	t.Helper()
	svc := worklog.NewService(worklog.NewMemoryStore(), worklog.WithClock(func() time.Time { return statsNow }))
	return svc, uuid.New()
}

func addNote(t *testing.T, svc *worklog.Service, userID uuid.UUID, project string, date time.Time, hours float64) {
	t.Helper()
	in := validInput()
	in.ProjectName = project
	in.Date = date
	in.HoursWorked = hours
	_, err := svc.Create(context.Background(), userID, "user@example.com", in)
	require.NoError(t, err)
}

func TestParseTimeframe(t *testing.T) {
	t.Parallel()

	tf, err := worklog.ParseTimeframe("")
	require.NoError(t, err)
	require.Equal(t, worklog.TimeframeWeekly, tf)

	for _, value := range []string{"weekly", "monthly", "yearly"} {
		tf, err := worklog.ParseTimeframe(value)
		require.NoError(t, err)
		require.Equal(t, worklog.Timeframe(value), tf)
	}

	_, err = worklog.ParseTimeframe("daily")
	require.ErrorIs(t, err, worklog.ErrInvalidTimeframe)
}

func TestWeeklyStats(t *testing.T) {
	t.Parallel()
	svc, userID := newStatsService(t)
	ctx := context.Background()

	// Current week runs Sunday March 8 through Saturday March 14.
	addNote(t, svc, userID, "TravelHelp", time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC), 2)
	addNote(t, svc, userID, "TravelHelp", time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC), 3)
	addNote(t, svc, userID, "NotesO", time.Date(2026, 3, 11, 10, 0, 0, 0, time.UTC), 1)
	// Previous week.
	addNote(t, svc, userID, "TravelHelp", time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC), 4)
	// Outside both weeks.
	addNote(t, svc, userID, "TravelHelp", time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC), 4)

	stats, err := svc.Stats(ctx, userID, worklog.TimeframeWeekly)
	require.NoError(t, err)
	require.Equal(t, int64(3), stats.TotalTasks)
	require.InDelta(t, 6.0, stats.TotalHours, 1e-9)

	require.Len(t, stats.TasksByProject, 2)
	require.Equal(t, "TravelHelp", stats.TasksByProject[0].ProjectName)
	require.Equal(t, int64(2), stats.TasksByProject[0].Count)
	require.InDelta(t, 5.0, stats.TasksByProject[0].Hours, 1e-9)

	// Previous week had 1 task / 4 hours.
	require.InDelta(t, 200.0, stats.TasksPercentageChange, 1e-9)
	require.InDelta(t, 50.0, stats.HoursPercentageChange, 1e-9)

	require.Equal(t, time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC), stats.PeriodStart)
	require.Equal(t, time.Sunday, stats.PeriodStart.Weekday())
}

func TestStatsEmptyPreviousPeriod(t *testing.T) {
	t.Parallel()
	svc, userID := newStatsService(t)

	addNote(t, svc, userID, "TravelHelp", statsNow, 2)

	stats, err := svc.Stats(context.Background(), userID, worklog.TimeframeWeekly)
	require.NoError(t, err)
	require.InDelta(t, 100.0, stats.TasksPercentageChange, 1e-9)
	require.InDelta(t, 100.0, stats.HoursPercentageChange, 1e-9)
}

func TestMonthlyStats(t *testing.T) {
	t.Parallel()
	svc, userID := newStatsService(t)

	addNote(t, svc, userID, "TravelHelp", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), 2)
	addNote(t, svc, userID, "TravelHelp", time.Date(2026, 3, 31, 10, 0, 0, 0, time.UTC), 2)
	addNote(t, svc, userID, "TravelHelp", time.Date(2026, 2, 28, 10, 0, 0, 0, time.UTC), 2)

	stats, err := svc.Stats(context.Background(), userID, worklog.TimeframeMonthly)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.TotalTasks)
	// February had 1 task and 2 hours against March's 2 tasks and 4 hours.
	require.InDelta(t, 100.0, stats.TasksPercentageChange, 1e-9)
	require.InDelta(t, 100.0, stats.HoursPercentageChange, 1e-9)
	require.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), stats.PeriodStart)
}

func TestYearlyStats(t *testing.T) {
	t.Parallel()
	svc, userID := newStatsService(t)

	addNote(t, svc, userID, "TravelHelp", time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC), 2)
	addNote(t, svc, userID, "TravelHelp", time.Date(2025, 12, 30, 10, 0, 0, 0, time.UTC), 4)

	stats, err := svc.Stats(context.Background(), userID, worklog.TimeframeYearly)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.TotalTasks)
	require.InDelta(t, -50.0, stats.HoursPercentageChange, 1e-9)
}

func TestStatsScopedToUser(t *testing.T) {
	t.Parallel()
	svc, userID := newStatsService(t)
	other := uuid.New()

	addNote(t, svc, userID, "TravelHelp", statsNow, 2)
	addNote(t, svc, other, "TravelHelp", statsNow, 4)

	stats, err := svc.Stats(context.Background(), userID, worklog.TimeframeWeekly)
	require.NoError(t, err)
	require.Equal(t, int64(1), stats.TotalTasks)
	require.InDelta(t, 2.0, stats.TotalHours, 1e-9)
}
