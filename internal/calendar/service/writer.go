package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"ms-calendar/internal/models"
)

// EventInput is the raw form submission.
type EventInput struct {
	ID          string
	Title       string
	Start       string
	End         string
	Description string
}

// Layouts accepted for event_start/event_end. The T variants are what
// browsers send for datetime-local inputs.
// MaxTitleLength matches the event_title column width.
const MaxTitleLength = 80

var inputLayouts = []string{
	models.FormTimeLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

type EventWriter struct {
	Events *EventRepository
}

func NewEventWriter(events *EventRepository) *EventWriter {
	return &EventWriter{Events: events}
}

// Save creates the event when in.ID is blank and updates it otherwise,
// returning the stored id. Overlapping events are allowed.
func (w *EventWriter) Save(ctx context.Context, in EventInput) (int64, error) {
	event, err := w.validate(in)
	if err != nil {
		return 0, err
	}

	if strings.TrimSpace(in.ID) == "" {
		return w.Events.Create(ctx, event)
	}

	id, err := ParseID(in.ID)
	if err != nil {
		return 0, err
	}
	event.ID = id
	if err := w.Events.Update(ctx, event); err != nil {
		return 0, err
	}
	return id, nil
}

func (w *EventWriter) validate(in EventInput) (models.Event, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Event{}, &ValidationError{Field: "event_title", Reason: "is required"}
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return models.Event{}, &ValidationError{Field: "event_title", Reason: fmt.Sprintf("must be at most %d characters", MaxTitleLength)}
	}

	start, err := w.parseTime(in.Start)
	if err != nil {
		return models.Event{}, &ValidationError{Field: "event_start", Reason: "must look like " + models.FormTimeLayout}
	}
	end, err := w.parseTime(in.End)
	if err != nil {
		return models.Event{}, &ValidationError{Field: "event_end", Reason: "must look like " + models.FormTimeLayout}
	}
	if end.Before(start) {
		return models.Event{}, &ValidationError{Field: "event_end", Reason: "must not be before event_start"}
	}

	return models.Event{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Start:       start,
		End:         end,
	}, nil
}

func (w *EventWriter) parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var err error
	for _, layout := range inputLayouts {
		var t time.Time
		t, err = time.ParseInLocation(layout, raw, w.Events.Location)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
