package render

import (
	"strconv"
	"time"

	"ms-calendar/internal/calendar/grid"
)

type EventJSON struct {
	ID    int64     `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	URL   string    `json:"url"`
}

type CellJSON struct {
	Day    int         `json:"day,omitempty"`
	Fill   bool        `json:"fill,omitempty"`
	Today  bool        `json:"today,omitempty"`
	Events []EventJSON `json:"events,omitempty"`
}

type MonthJSON struct {
	Year         int          `json:"year"`
	Month        int          `json:"month"`
	Label        string       `json:"label"`
	DaysInMonth  int          `json:"days_in_month"`
	StartWeekday int          `json:"start_weekday"`
	Weekdays     [7]string    `json:"weekdays"`
	Weeks        [][]CellJSON `json:"weeks"`
}

// CalendarJSON is the same month view as Calendar, shaped for encoding/json.
func CalendarJSON(g grid.Grid) MonthJSON {
	out := MonthJSON{
		Year:         g.Year,
		Month:        g.Month,
		Label:        g.Label(),
		DaysInMonth:  g.DaysInMonth,
		StartWeekday: g.StartWeekday,
		Weekdays:     grid.Weekdays,
	}
	for _, week := range g.Weeks() {
		row := make([]CellJSON, 0, len(week))
		for _, c := range week {
			if c.IsFill() {
				row = append(row, CellJSON{Fill: true})
				continue
			}
			cell := CellJSON{Day: c.Day, Today: c.Today}
			for _, e := range c.Events {
				cell.Events = append(cell.Events, EventJSON{
					ID:    e.ID,
					Title: e.Title,
					Start: e.Start,
					End:   e.End,
					URL:   "/view?event_id=" + strconv.FormatInt(e.ID, 10),
				})
			}
			row = append(row, cell)
		}
		out.Weeks = append(out.Weeks, row)
	}
	return out
}
