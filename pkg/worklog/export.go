package worklog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"
)

var csvHeader = []string{"date", "title", "description", "project_name", "hours_worked"}

// ExportCSV streams the user's notes as CSV, newest first, honoring the
// same filter as List.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, userID uuid.UUID, filter Filter) error {
	notes, err := s.List(ctx, userID, filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, note := range notes {
		record := []string{
			note.Date.Format("2006-01-02"),
			note.Title,
			note.Description,
			note.ProjectName,
			strconv.FormatFloat(note.HoursWorked, 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
