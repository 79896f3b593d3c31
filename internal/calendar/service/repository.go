package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ms-calendar/internal/calendar/grid"
	"ms-calendar/internal/models"
)

type EventDBLayer interface {
	GetEventByID(ctx context.Context, id int64) (*models.Event, error)
	GetEventsStartingBetween(ctx context.Context, from, until time.Time) ([]models.Event, error)
	CreateEvent(ctx context.Context, event models.Event) (int64, error)
	UpdateEvent(ctx context.Context, event models.Event) error
}

// EventRepository is the read/write entry point to stored events. Every
// call is bounded by Timeout and storage failures come back as *StorageError.
type EventRepository struct {
	DB       EventDBLayer
	Timeout  time.Duration
	Location *time.Location
}

func NewEventRepository(db EventDBLayer, timeout time.Duration, loc *time.Location) *EventRepository {
	if loc == nil {
		loc = time.Local
	}
	return &EventRepository{DB: db, Timeout: timeout, Location: loc}
}

// SanitizeID keeps only the ASCII digits of raw, so "12abc" becomes "12".
func SanitizeID(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseID sanitizes raw and converts it to an event id. Only an id with no
// digits at all is invalid; "0" parses and simply matches nothing.
func ParseID(raw string) (int64, error) {
	digits := SanitizeID(raw)
	if digits == "" {
		return 0, fmt.Errorf("event id %q: %w", raw, ErrInvalidInput)
	}
	id, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("event id %q: %w", raw, ErrInvalidInput)
	}
	return id, nil
}

func (r *EventRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.Timeout)
}

func (r *EventRepository) FindByID(ctx context.Context, rawID string) (models.Event, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return models.Event{}, err
	}
	return r.findByID(ctx, id)
}

func (r *EventRepository) findByID(ctx context.Context, id int64) (models.Event, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	event, err := r.DB.GetEventByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, fmt.Errorf("event %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Event{}, &StorageError{Op: "find event by id", Err: err}
	}
	if event == nil {
		return models.Event{}, fmt.Errorf("event %d: %w", id, ErrNotFound)
	}
	return *event, nil
}

// FindForMonth returns the events starting within the month, earliest first.
func (r *EventRepository) FindForMonth(ctx context.Context, year, month int) ([]models.Event, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month %d: %w", month, ErrInvalidInput)
	}
	from, until := grid.MonthRange(year, month, r.Location)

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	events, err := r.DB.GetEventsStartingBetween(ctx, from, until)
	if err != nil {
		return nil, &StorageError{Op: fmt.Sprintf("find events for %04d-%02d", year, month), Err: err}
	}
	return events, nil
}

func (r *EventRepository) Create(ctx context.Context, event models.Event) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	id, err := r.DB.CreateEvent(ctx, event)
	if err != nil {
		return 0, &StorageError{Op: "create event", Err: err}
	}
	return id, nil
}

// Update overwrites an existing event; the last write wins.
func (r *EventRepository) Update(ctx context.Context, event models.Event) error {
	if _, err := r.findByID(ctx, event.ID); err != nil {
		return err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.DB.UpdateEvent(ctx, event); err != nil {
		return &StorageError{Op: "update event", Err: err}
	}
	return nil
}
