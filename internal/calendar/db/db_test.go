package db_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"ms-calendar/internal/calendar/db"
	"ms-calendar/internal/models"
)

func setupTestDB(t *testing.T) *db.DB {
	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	// A single connection keeps every query on the same in-memory database.
	sqldb.SetMaxOpenConns(1)

	bunDB := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { bunDB.Close() })

	_, err = bunDB.NewCreateTable().Model((*models.Event)(nil)).Exec(context.Background())
	require.NoError(t, err)

	return &db.DB{Bun: bunDB}
}

func at(y int, m time.Month, d, hh, mm, ss int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, 0, time.UTC)
}

func TestCreateAndGetEvent(t *testing.T) {
	ctx := context.Background()
	eventDB := setupTestDB(t)

	id, err := eventDB.CreateEvent(ctx, models.Event{
		Title:       "New Year's Day",
		Description: "Happy New Year!",
		Start:       at(2013, time.January, 1, 0, 0, 0),
		End:         at(2013, time.January, 1, 23, 59, 59),
	})
	require.NoError(t, err)
	assert.NotZero(t, id)

	event, err := eventDB.GetEventByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, event.ID)
	assert.Equal(t, "New Year's Day", event.Title)
	assert.Equal(t, "Happy New Year!", event.Description)
	assert.True(t, event.Start.Equal(at(2013, time.January, 1, 0, 0, 0)))
	assert.True(t, event.End.Equal(at(2013, time.January, 1, 23, 59, 59)))

	_, err = eventDB.GetEventByID(ctx, id+100)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestGetEventsStartingBetween(t *testing.T) {
	ctx := context.Background()
	eventDB := setupTestDB(t)

	seed := []models.Event{
		{Title: "Late", Start: at(2013, time.January, 21, 12, 0, 0), End: at(2013, time.January, 21, 13, 0, 0)},
		{Title: "Last instant", Start: at(2013, time.January, 31, 23, 59, 59), End: at(2013, time.February, 1, 1, 0, 0)},
		{Title: "Too late", Start: at(2013, time.February, 1, 0, 0, 1), End: at(2013, time.February, 1, 2, 0, 0)},
		{Title: "Early", Start: at(2013, time.January, 5, 10, 0, 0), End: at(2013, time.January, 5, 11, 0, 0)},
		{Title: "First instant", Start: at(2013, time.January, 1, 0, 0, 0), End: at(2013, time.January, 1, 1, 0, 0)},
		{Title: "Too early", Start: at(2012, time.December, 31, 23, 59, 59), End: at(2013, time.January, 1, 1, 0, 0)},
	}
	for _, e := range seed {
		_, err := eventDB.CreateEvent(ctx, e)
		require.NoError(t, err)
	}

	events, err := eventDB.GetEventsStartingBetween(ctx, at(2013, time.January, 1, 0, 0, 0), at(2013, time.February, 1, 0, 0, 0))
	require.NoError(t, err)

	titles := make([]string, 0, len(events))
	for _, e := range events {
		titles = append(titles, e.Title)
	}
	assert.Equal(t, []string{"First instant", "Early", "Late", "Last instant"}, titles)

	events, err = eventDB.GetEventsStartingBetween(ctx, at(2013, time.March, 1, 0, 0, 0), at(2013, time.April, 1, 0, 0, 0))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestUpdateEvent(t *testing.T) {
	ctx := context.Background()
	eventDB := setupTestDB(t)

	id, err := eventDB.CreateEvent(ctx, models.Event{
		Title: "Draft",
		Start: at(2013, time.January, 10, 9, 0, 0),
		End:   at(2013, time.January, 10, 10, 0, 0),
	})
	require.NoError(t, err)

	err = eventDB.UpdateEvent(ctx, models.Event{
		ID:          id,
		Title:       "Final",
		Description: "Moved to the afternoon",
		Start:       at(2013, time.January, 10, 14, 0, 0),
		End:         at(2013, time.January, 10, 15, 0, 0),
	})
	require.NoError(t, err)

	event, err := eventDB.GetEventByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Final", event.Title)
	assert.Equal(t, "Moved to the afternoon", event.Description)
	assert.True(t, event.Start.Equal(at(2013, time.January, 10, 14, 0, 0)))
}
