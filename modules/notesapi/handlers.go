package notesapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/worklog/modules/respond"
	"github.com/dmitrymomot/worklog/pkg/session"
	"github.com/dmitrymomot/worklog/pkg/worklog"
)

type noteRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ProjectName string    `json:"project_name"`
	Date        time.Time `json:"date"`
	HoursWorked float64   `json:"hours_worked"`
}

func (r noteRequest) toInput() worklog.NoteInput {
	return worklog.NoteInput{
		Title:       r.Title,
		Description: r.Description,
		ProjectName: r.ProjectName,
		Date:        r.Date,
		HoursWorked: r.HoursWorked,
	}
}

type noteResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ProjectName string    `json:"project_name"`
	Date        time.Time `json:"date"`
	HoursWorked float64   `json:"hours_worked"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toNoteResponse(note *worklog.Note) noteResponse {
	return noteResponse{
		ID:          note.ID,
		Title:       note.Title,
		Description: note.Description,
		ProjectName: note.ProjectName,
		Date:        note.Date,
		HoursWorked: note.HoursWorked,
		CreatedAt:   note.CreatedAt,
		UpdatedAt:   note.UpdatedAt,
	}
}

func (s *Service) create(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	var req noteRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	note, err := s.notes.Create(r.Context(), sess.UserID, sess.Email, req.toInput())
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, toNoteResponse(note))
}

func (s *Service) list(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	filter, err := parseFilter(r)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	notes, err := s.notes.List(r.Context(), sess.UserID, filter)
	if err != nil {
		respond.Error(w, err)
		return
	}

	out := make([]noteResponse, 0, len(notes))
	for i := range notes {
		out = append(out, toNoteResponse(&notes[i]))
	}
	respond.JSON(w, http.StatusOK, out)
}

func (s *Service) get(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	noteID, err := noteIDParam(r)
	if err != nil {
		respond.Error(w, worklog.ErrNoteNotFound)
		return
	}

	note, err := s.notes.Get(r.Context(), sess.UserID, noteID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toNoteResponse(note))
}

func (s *Service) update(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	noteID, err := noteIDParam(r)
	if err != nil {
		respond.Error(w, worklog.ErrNoteNotFound)
		return
	}

	var req noteRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.BadRequest(w, "invalid request body")
		return
	}

	note, err := s.notes.Update(r.Context(), sess.UserID, noteID, req.toInput())
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toNoteResponse(note))
}

func (s *Service) delete(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	noteID, err := noteIDParam(r)
	if err != nil {
		respond.Error(w, worklog.ErrNoteNotFound)
		return
	}

	if err := s.notes.Delete(r.Context(), sess.UserID, noteID); err != nil {
		respond.Error(w, err)
		return
	}
	respond.Message(w, http.StatusOK, "work note deleted")
}

func (s *Service) projects(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	projects, err := s.notes.Projects(r.Context(), sess.UserID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	if projects == nil {
		projects = []string{}
	}
	respond.JSON(w, http.StatusOK, projects)
}

func (s *Service) stats(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	timeframe, err := worklog.ParseTimeframe(r.URL.Query().Get("timeframe"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	stats, err := s.notes.Stats(r.Context(), sess.UserID, timeframe)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, stats)
}

func (s *Service) exportCSV(w http.ResponseWriter, r *http.Request) {
	sess, _ := session.FromContext(r.Context())

	filter, err := parseFilter(r)
	if err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="worklog.csv"`)
	if err := s.notes.ExportCSV(r.Context(), w, sess.UserID, filter); err != nil {
		// Headers are already gone; log-free best effort is all that is
		// left once streaming started.
		return
	}
}

func noteIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

// parseFilter reads projectName/startDate/endDate query parameters. Dates
// are RFC 3339 or plain YYYY-MM-DD; both bounds must be present for the
// range to apply.
func parseFilter(r *http.Request) (worklog.Filter, error) {
	q := r.URL.Query()
	filter := worklog.Filter{ProjectName: q.Get("projectName")}

	start, end := q.Get("startDate"), q.Get("endDate")
	if start == "" && end == "" {
		return filter, nil
	}
	if start == "" || end == "" {
		return worklog.Filter{}, fmt.Errorf("startDate and endDate must be provided together")
	}

	from, err := parseDate(start)
	if err != nil {
		return worklog.Filter{}, fmt.Errorf("invalid startDate")
	}
	to, err := parseDate(end)
	if err != nil {
		return worklog.Filter{}, fmt.Errorf("invalid endDate")
	}

	filter.From = from
	filter.To = to
	return filter, nil
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
