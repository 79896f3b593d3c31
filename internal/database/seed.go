package database

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"ms-calendar/internal/models"
)

// SampleEvents are the demo events for January 2013.
func SampleEvents(loc *time.Location) []models.Event {
	at := func(day, hour, min int) time.Time {
		return time.Date(2013, time.January, day, hour, min, 0, 0, loc)
	}
	return []models.Event{
		{Title: "New Year's Day", Description: "Happy New Year!", Start: at(1, 0, 0), End: at(1, 23, 59)},
		{Title: "Last Day of January", Description: "Last day of the month! Yay!", Start: at(31, 0, 0), End: at(31, 23, 59)},
		{Title: "Breakfast with Friends", Description: "Pancakes at the diner.", Start: at(5, 10, 0), End: at(5, 11, 0)},
		{Title: "Team Meeting", Description: "Weekly planning.", Start: at(5, 14, 30), End: at(5, 15, 30)},
	}
}

// Seed inserts the sample events when the events table is empty and
// reports how many rows it wrote.
func Seed(ctx context.Context, db *bun.DB, loc *time.Location) (int, error) {
	count, err := db.NewSelect().Model((*models.Event)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	events := SampleEvents(loc)
	if _, err := db.NewInsert().Model(&events).Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to seed events: %w", err)
	}
	return len(events), nil
}
