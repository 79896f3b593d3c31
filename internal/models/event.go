package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Event is one calendar entry as stored in the events table.
type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          int64     `bun:"event_id,pk,autoincrement" json:"id"`
	Title       string    `bun:"event_title,notnull" json:"title"`
	Description string    `bun:"event_desc" json:"description"`
	Start       time.Time `bun:"event_start,notnull" json:"start"`
	End         time.Time `bun:"event_end,notnull" json:"end"`
}

// FormTimeLayout is how timestamps are shown in and read back from the event form.
const FormTimeLayout = "2006-01-02 15:04:05"

// EventForm is the view model behind the create/edit form.
type EventForm struct {
	ID          string
	Title       string
	Start       string
	End         string
	Description string
	Submit      string
	Token       string
	Action      string
	Editing     bool
}

const (
	SubmitCreate    = "Create a New Event"
	SubmitEdit      = "Edit This Event"
	ActionEventEdit = "event_edit"
)
