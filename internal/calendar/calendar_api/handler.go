package calendar_api

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"ms-calendar/internal/calendar/grid"
	"ms-calendar/internal/calendar/render"
	"ms-calendar/internal/calendar/service"
	"ms-calendar/internal/logger"
	"ms-calendar/internal/models"
	"ms-calendar/internal/session"
	"ms-calendar/internal/utils"
)

type Handler struct {
	Events *service.EventRepository
	Forms  *service.FormService
	Writer *service.EventWriter
	Logger *logger.Logger
	// Now is the clock used for "today"; defaults to time.Now.
	Now func() time.Time
}

func NewHandler(events *service.EventRepository, log *logger.Logger) *Handler {
	return &Handler{
		Events: events,
		Forms:  service.NewFormService(events),
		Writer: service.NewEventWriter(events),
		Logger: log,
		Now:    time.Now,
	}
}

// RegisterRoutes mounts the calendar pages and the JSON month view.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ShowCurrentMonth)
	r.Get("/{year:[0-9]{4}}/{month:[0-9]{1,2}}", h.ShowMonth)
	r.Get("/view", h.ViewEvent)
	r.Get("/admin", h.AdminForm)
	r.Post("/admin", h.AdminForm)
	r.With(session.RequireToken).Post("/process", h.ProcessForm)
	r.Get("/api/calendar/{year:[0-9]{4}}/{month:[0-9]{1,2}}", h.MonthJSON)
}

func (h *Handler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

func (h *Handler) ShowCurrentMonth(w http.ResponseWriter, r *http.Request) {
	today := h.now().In(h.Events.Location)
	h.renderMonth(w, r, today.Year(), int(today.Month()))
}

func (h *Handler) ShowMonth(w http.ResponseWriter, r *http.Request) {
	year, month, ok := monthParams(r)
	if !ok {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	h.renderMonth(w, r, year, month)
}

func monthParams(r *http.Request) (int, int, bool) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		return 0, 0, false
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, month, true
}

func (h *Handler) buildGrid(ctx context.Context, year, month int) (grid.Grid, error) {
	events, err := h.Events.FindForMonth(ctx, year, month)
	if err != nil {
		return grid.Grid{}, err
	}
	g := grid.Build(year, month, events, h.now(), h.Events.Location)
	h.Logger.Debug("CALENDAR", fmt.Sprintf("Built %s grid with %d cells and %d events", g.Label(), len(g.Cells), len(events)))
	return g, nil
}

func (h *Handler) renderMonth(w http.ResponseWriter, r *http.Request, year, month int) {
	g, err := h.buildGrid(r.Context(), year, month)
	if err != nil {
		h.fail(w, "load month", err)
		return
	}
	body, err := render.Calendar(g)
	if err != nil {
		h.fail(w, "render month", err)
		return
	}
	h.page(w, http.StatusOK, render.PageData{Title: g.Label(), Body: body})
}

func (h *Handler) ViewEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.Events.FindByID(r.Context(), r.URL.Query().Get("event_id"))
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		http.Redirect(w, r, "/", http.StatusFound)
		return
	case errors.Is(err, service.ErrNotFound):
		h.page(w, http.StatusNotFound, render.PageData{
			Title:    "Event Not Found",
			Body:     template.HTML("<h2>Event not found</h2>"),
			BackLink: true,
		})
		return
	case err != nil:
		h.fail(w, "view event", err)
		return
	}

	body, err := render.EventDetail(event, h.Events.Location)
	if err != nil {
		h.fail(w, "render event", err)
		return
	}
	h.page(w, http.StatusOK, render.PageData{Title: "View Event", Body: body, BackLink: true})
}

// AdminForm serves the blank form on GET and the edit form when an
// event_id is posted.
func (h *Handler) AdminForm(w http.ResponseWriter, r *http.Request) {
	var rawID *string
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form body", http.StatusBadRequest)
			return
		}
		if _, ok := r.PostForm["event_id"]; ok {
			id := r.PostForm.Get("event_id")
			rawID = &id
		}
	}

	form, err := h.Forms.PrepareForm(r.Context(), rawID)
	if errors.Is(err, service.ErrNoForm) {
		h.page(w, http.StatusNotFound, render.PageData{Title: "Add/Edit Event", BackLink: true})
		return
	}
	if err != nil {
		h.fail(w, "prepare form", err)
		return
	}

	body, err := render.EventForm(form)
	if err != nil {
		h.fail(w, "render form", err)
		return
	}
	h.page(w, http.StatusOK, render.PageData{Title: "Add/Edit Event", Body: body})
}

func (h *Handler) ProcessForm(w http.ResponseWriter, r *http.Request) {
	if r.PostForm.Get("action") != models.ActionEventEdit {
		http.Error(w, "Unknown action", http.StatusBadRequest)
		return
	}

	id, err := h.Writer.Save(r.Context(), service.EventInput{
		ID:          r.PostForm.Get("event_id"),
		Title:       r.PostForm.Get("event_title"),
		Start:       r.PostForm.Get("event_start"),
		End:         r.PostForm.Get("event_end"),
		Description: r.PostForm.Get("event_description"),
	})
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		http.Error(w, "Invalid event: "+ve.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, service.ErrInvalidInput):
		http.Error(w, "Invalid event id", http.StatusBadRequest)
		return
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, "Event not found", http.StatusNotFound)
		return
	case err != nil:
		h.fail(w, "save event", err)
		return
	}

	h.Logger.Info("CALENDAR", fmt.Sprintf("Saved event %d", id))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) MonthJSON(w http.ResponseWriter, r *http.Request) {
	year, month, ok := monthParams(r)
	if !ok {
		sendJSONResponse(w, http.StatusBadRequest, utils.ErrorResponse("invalid month"))
		return
	}
	g, err := h.buildGrid(r.Context(), year, month)
	if err != nil {
		h.Logger.Error("DATABASE", fmt.Sprintf("month json %04d-%02d: %v", year, month, err))
		sendJSONResponse(w, http.StatusInternalServerError, utils.ErrorResponse("internal server error"))
		return
	}
	sendJSONResponse(w, http.StatusOK, render.CalendarJSON(g))
}

func sendJSONResponse(w http.ResponseWriter, status int, data any) {
	_ = utils.WriteJSON(w, status, data)
}

func (h *Handler) page(w http.ResponseWriter, status int, p render.PageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := render.Page(w, p); err != nil {
		h.Logger.Error("HTTP", fmt.Sprintf("Failed to write page %q: %v", p.Title, err))
	}
}

// fail logs the real cause and answers with a generic 500 so storage
// details never reach the client.
func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	category := "HTTP"
	if service.IsStorageError(err) {
		category = "DATABASE"
	}
	h.Logger.Error(category, fmt.Sprintf("%s: %v", op, err))
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
