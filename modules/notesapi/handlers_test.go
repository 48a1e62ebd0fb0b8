package notesapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/worklog/modules/notesapi"
	"github.com/dmitrymomot/worklog/pkg/session"
	"github.com/dmitrymomot/worklog/pkg/worklog"
)

type testAPI struct {
	handler  http.Handler
	sessions *session.Manager
	token    string
	userID   uuid.UUID
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	sessions := session.NewManager(session.NewMemoryStore(), session.DefaultConfig())
	notes := worklog.NewService(worklog.NewMemoryStore())
	svc := notesapi.NewService(notes, sessions)

	userID := uuid.New()
	sess, err := sessions.Create(context.Background(), userID, "user@example.com")
	require.NoError(t, err)

	return &testAPI{
		handler:  svc.Handle(),
		sessions: sessions,
		token:    sess.Token,
		userID:   userID,
	}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+a.token)
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func validNoteBody() map[string]any {
	return map[string]any{
		"title":        "Fixed login redirect",
		"description":  "Session cookie was dropped on the callback hop",
		"project_name": "TravelHelp",
		"date":         "2026-03-10T12:00:00Z",
		"hours_worked": 2,
	}
}

func createNote(t *testing.T, api *testAPI) uuid.UUID {
	t.Helper()
	rec := api.do(t, http.MethodPost, "/worknotes", validNoteBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	return created.ID
}

func TestRequiresSession(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/worknotes", nil)
	rec := httptest.NewRecorder()
	api.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateAndListNotes(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	createNote(t, api)

	rec := api.do(t, http.MethodGet, "/worknotes", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var notes []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notes))
	require.Len(t, notes, 1)
	require.Equal(t, "TravelHelp", notes[0]["project_name"])
}

func TestCreateNoteValidation(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	body := validNoteBody()
	body["hours_worked"] = 8
	rec := api.do(t, http.MethodPost, "/worknotes", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Contains(t, resp.Fields, "hours_worked")
}

func TestGetUpdateDeleteNote(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	noteID := createNote(t, api)

	rec := api.do(t, http.MethodGet, "/worknotes/"+noteID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := validNoteBody()
	body["title"] = "Reworked login redirect"
	rec = api.do(t, http.MethodPut, "/worknotes/"+noteID.String(), body)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, "Reworked login redirect", updated.Title)

	rec = api.do(t, http.MethodDelete, "/worknotes/"+noteID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/worknotes/"+noteID.String(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnknownNoteID(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/worknotes/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// A malformed id behaves like a missing note.
	rec = api.do(t, http.MethodGet, "/worknotes/not-a-uuid", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListFilterValidation(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/worknotes?startDate=2026-03-01", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, "/worknotes?startDate=garbage&endDate=2026-03-31", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, "/worknotes?startDate=2026-03-01&endDate=2026-03-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestProjectsEndpoint(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/projects", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "[]\n", rec.Body.String())

	createNote(t, api)
	rec = api.do(t, http.MethodGet, "/projects", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var projects []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &projects))
	require.Equal(t, []string{"TravelHelp"}, projects)
}

func TestStatsEndpoint(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	body := validNoteBody()
	body["date"] = time.Now().Format(time.RFC3339)
	rec := api.do(t, http.MethodPost, "/worknotes", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(t, http.MethodGet, "/stats?timeframe=weekly", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		TotalTasks int64   `json:"total_tasks"`
		TotalHours float64 `json:"total_hours"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Equal(t, int64(1), stats.TotalTasks)
	require.InDelta(t, 2.0, stats.TotalHours, 1e-9)

	rec = api.do(t, http.MethodGet, "/stats?timeframe=daily", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportEndpoint(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	createNote(t, api)

	rec := api.do(t, http.MethodGet, "/worknotes/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	require.Contains(t, rec.Body.String(), "date,title,description,project_name,hours_worked")
	require.Contains(t, rec.Body.String(), "TravelHelp")
}

func TestNotesScopedToSessionUser(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)
	noteID := createNote(t, api)

	otherSess, err := api.sessions.Create(context.Background(), uuid.New(), "other@example.com")
	require.NoError(t, err)

	other := &testAPI{handler: api.handler, sessions: api.sessions, token: otherSess.Token}
	rec := other.do(t, http.MethodGet, "/worknotes/"+noteID.String(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = other.do(t, http.MethodGet, "/worknotes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var notes []any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notes))
	require.Empty(t, notes)
}
