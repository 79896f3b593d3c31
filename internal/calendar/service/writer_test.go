package service_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-calendar/internal/calendar/service"
)

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func TestSaveCreatesAndUpdates(t *testing.T) {
	repo := setupRepo(t)
	writer := service.NewEventWriter(repo)
	ctx := context.Background()

	id, err := writer.Save(ctx, service.EventInput{
		Title:       "  Standup ",
		Start:       "2013-01-07 09:00:00",
		End:         "2013-01-07T09:15",
		Description: "Daily",
	})
	require.NoError(t, err)

	event, err := repo.FindByID(ctx, itoa(id))
	require.NoError(t, err)
	assert.Equal(t, "Standup", event.Title)
	assert.True(t, event.End.Equal(time.Date(2013, 1, 7, 9, 15, 0, 0, time.UTC)))

	same, err := writer.Save(ctx, service.EventInput{
		ID:    itoa(id),
		Title: "Standup (moved)",
		Start: "2013-01-08 09:00:00",
		End:   "2013-01-08 09:15:00",
	})
	require.NoError(t, err)
	assert.Equal(t, id, same)

	events, err := repo.FindForMonth(ctx, 2013, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Standup (moved)", events[0].Title)
	assert.Equal(t, 8, events[0].Start.In(time.UTC).Day())
}

func TestSaveValidation(t *testing.T) {
	writer := service.NewEventWriter(setupRepo(t))

	tests := []struct {
		name  string
		in    service.EventInput
		field string
	}{
		{"missing title", service.EventInput{Start: "2013-01-01 10:00:00", End: "2013-01-01 11:00:00"}, "event_title"},
		{"title too long", service.EventInput{Title: strings.Repeat("é", service.MaxTitleLength+1), Start: "2013-01-01 10:00:00", End: "2013-01-01 11:00:00"}, "event_title"},
		{"bad start", service.EventInput{Title: "x", Start: "tomorrow", End: "2013-01-01 11:00:00"}, "event_start"},
		{"bad end", service.EventInput{Title: "x", Start: "2013-01-01 10:00:00", End: ""}, "event_end"},
		{"end before start", service.EventInput{Title: "x", Start: "2013-01-01 10:00:00", End: "2013-01-01 09:59:59"}, "event_end"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := writer.Save(context.Background(), tt.in)
			assert.ErrorIs(t, err, service.ErrInvalidInput)

			var ve *service.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestSaveAllowsZeroLengthAndOverlap(t *testing.T) {
	writer := service.NewEventWriter(setupRepo(t))
	ctx := context.Background()

	_, err := writer.Save(ctx, service.EventInput{Title: "a", Start: "2013-01-01 10:00:00", End: "2013-01-01 10:00:00"})
	assert.NoError(t, err)
	_, err = writer.Save(ctx, service.EventInput{Title: "b", Start: "2013-01-01 09:00:00", End: "2013-01-01 11:00:00"})
	assert.NoError(t, err)
}

func TestSaveUnknownID(t *testing.T) {
	writer := service.NewEventWriter(setupRepo(t))

	_, err := writer.Save(context.Background(), service.EventInput{
		ID:    "42",
		Title: "ghost",
		Start: "2013-01-01 10:00:00",
		End:   "2013-01-01 11:00:00",
	})
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = writer.Save(context.Background(), service.EventInput{
		ID:    "abc",
		Title: "ghost",
		Start: "2013-01-01 10:00:00",
		End:   "2013-01-01 11:00:00",
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}
