package calendar_api_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"ms-calendar/internal/calendar/calendar_api"
	"ms-calendar/internal/calendar/db"
	"ms-calendar/internal/calendar/render"
	"ms-calendar/internal/calendar/service"
	"ms-calendar/internal/logger"
	"ms-calendar/internal/models"
	"ms-calendar/internal/session"
)

type testServer struct {
	router http.Handler
	repo   *service.EventRepository
	bun    *bun.DB
}

func setupServer(t *testing.T) *testServer {
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { bunDB.Close() })

	_, err = bunDB.NewCreateTable().Model((*models.Event)(nil)).Exec(context.Background())
	require.NoError(t, err)

	repo := service.NewEventRepository(&db.DB{Bun: bunDB}, time.Second, time.UTC)
	h := calendar_api.NewHandler(repo, logger.Discard())
	h.Now = func() time.Time { return time.Date(2013, 1, 17, 12, 0, 0, 0, time.UTC) }

	r := chi.NewRouter()
	r.Use(session.Middleware(session.Options{}))
	h.RegisterRoutes(r)

	return &testServer{router: r, repo: repo, bun: bunDB}
}

func (s *testServer) seed(t *testing.T, title string, start time.Time) int64 {
	id, err := s.repo.Create(context.Background(), models.Event{
		Title:       title,
		Description: title + " description",
		Start:       start,
		End:         start.Add(time.Hour),
	})
	require.NoError(t, err)
	return id
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestShowCurrentMonth(t *testing.T) {
	s := setupServer(t)
	id := s.seed(t, "Breakfast", time.Date(2013, 1, 5, 10, 0, 0, 0, time.UTC))
	s.seed(t, "Next month", time.Date(2013, 2, 1, 0, 0, 1, 0, time.UTC))

	rec := s.do(httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "<h2>January 2013</h2>")
	assert.Contains(t, body, `<a href="/view?event_id=`+itoa(id)+`">Breakfast</a>`)
	assert.NotContains(t, body, "Next month</a>")
	assert.Equal(t, 1, strings.Count(body, `class="today"`))
}

func TestShowMonth(t *testing.T) {
	s := setupServer(t)
	s.seed(t, "Valentine", time.Date(2013, 2, 14, 19, 0, 0, 0, time.UTC))

	rec := s.do(httptest.NewRequest(http.MethodGet, "/2013/02", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h2>February 2013</h2>")
	assert.Contains(t, rec.Body.String(), "Valentine")
	assert.NotContains(t, rec.Body.String(), `class="today"`)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/2013/13", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestViewEvent(t *testing.T) {
	s := setupServer(t)
	id := s.seed(t, "Breakfast", time.Date(2013, 1, 5, 10, 0, 0, 0, time.UTC))

	rec := s.do(httptest.NewRequest(http.MethodGet, "/view?event_id="+itoa(id)+"abc", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h2>Breakfast</h2>")
	assert.Contains(t, rec.Body.String(), "January 05, 2013, 10:00am&mdash;11:00am")

	rec = s.do(httptest.NewRequest(http.MethodGet, "/view?event_id=abc", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = s.do(httptest.NewRequest(http.MethodGet, "/view", nil))
	assert.Equal(t, http.StatusFound, rec.Code)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/view?event_id=999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStorageFailureIsGeneric(t *testing.T) {
	s := setupServer(t)
	require.NoError(t, s.bun.Close())

	rec := s.do(httptest.NewRequest(http.MethodGet, "/view?event_id=1", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error\n", rec.Body.String())

	rec = s.do(httptest.NewRequest(http.MethodGet, "/api/calendar/2013/01", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "sql")
}

func TestAdminForm(t *testing.T) {
	s := setupServer(t)
	id := s.seed(t, "Breakfast", time.Date(2013, 1, 5, 10, 0, 0, 0, time.UTC))

	rec := s.do(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<legend>Create a New Event</legend>")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Contains(t, rec.Body.String(), `name="token" value="`+cookies[0].Value+`"`)

	req := formRequest("/admin", url.Values{"event_id": {itoa(id)}})
	rec = s.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<legend>Edit This Event</legend>")
	assert.Contains(t, rec.Body.String(), `value="Breakfast"`)
	assert.Contains(t, rec.Body.String(), `value="2013-01-05 10:00:00"`)

	rec = s.do(formRequest("/admin", url.Values{"event_id": {"999"}}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<form")
}

func formRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func processRequest(token string, form url.Values) *http.Request {
	form.Set("token", token)
	form.Set("action", models.ActionEventEdit)
	req := formRequest("/process", form)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	return req
}

func TestProcessForm(t *testing.T) {
	s := setupServer(t)
	token := uuid.NewString()

	rec := s.do(processRequest(token, url.Values{
		"event_title":       {"Picnic"},
		"event_start":       {"2013-01-12 12:00:00"},
		"event_end":         {"2013-01-12 15:00:00"},
		"event_description": {"In the park"},
	}))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	events, err := s.repo.FindForMonth(context.Background(), 2013, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Picnic", events[0].Title)

	rec = s.do(processRequest(token, url.Values{
		"event_id":    {itoa(events[0].ID)},
		"event_title": {"Picnic (rain date)"},
		"event_start": {"2013-01-13 12:00:00"},
		"event_end":   {"2013-01-13 15:00:00"},
	}))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	event, err := s.repo.FindByID(context.Background(), itoa(events[0].ID))
	require.NoError(t, err)
	assert.Equal(t, "Picnic (rain date)", event.Title)

	rec = s.do(processRequest(token, url.Values{
		"event_title": {"Backwards"},
		"event_start": {"2013-01-13 12:00:00"},
		"event_end":   {"2013-01-13 11:00:00"},
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessFormRejectsForgedToken(t *testing.T) {
	s := setupServer(t)

	form := url.Values{
		"event_title": {"Forged"},
		"event_start": {"2013-01-12 12:00:00"},
		"event_end":   {"2013-01-12 15:00:00"},
		"token":       {uuid.NewString()},
		"action":      {models.ActionEventEdit},
	}
	req := formRequest("/process", form)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: uuid.NewString()})

	rec := s.do(req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	events, err := s.repo.FindForMonth(context.Background(), 2013, 1)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestMonthJSON(t *testing.T) {
	s := setupServer(t)
	s.seed(t, "Breakfast", time.Date(2013, 1, 5, 10, 0, 0, 0, time.UTC))

	rec := s.do(httptest.NewRequest(http.MethodGet, "/api/calendar/2013/01", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var month render.MonthJSON
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&month))
	assert.Equal(t, 31, month.DaysInMonth)
	assert.Equal(t, 2, month.StartWeekday)
	require.Len(t, month.Weeks, 5)
	require.Len(t, month.Weeks[0][6].Events, 1)
	assert.Equal(t, "Breakfast", month.Weeks[0][6].Events[0].Title)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
