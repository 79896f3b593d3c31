package db

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"ms-calendar/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) GetEventByID(ctx context.Context, id int64) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Where("event_id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// GetEventsStartingBetween returns events with from <= event_start < until,
// earliest first.
func (d *DB) GetEventsStartingBetween(ctx context.Context, from, until time.Time) ([]models.Event, error) {
	var events []models.Event
	err := d.Bun.NewSelect().
		Model(&events).
		Where("event_start >= ?", from).
		Where("event_start < ?", until).
		Order("event_start ASC", "event_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (d *DB) CreateEvent(ctx context.Context, event models.Event) (int64, error) {
	_, err := d.Bun.NewInsert().
		Model(&event).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return event.ID, nil
}

func (d *DB) UpdateEvent(ctx context.Context, event models.Event) error {
	_, err := d.Bun.NewUpdate().
		Model(&event).
		Column("event_title", "event_desc", "event_start", "event_end").
		Where("event_id = ?", event.ID).
		Exec(ctx)
	return err
}
