// Package render turns calendar grids and events into HTML fragments and a
// JSON-friendly month view. Nothing here touches storage.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"ms-calendar/internal/calendar/grid"
	"ms-calendar/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type calendarData struct {
	Label     string
	Weekdays  [7]string
	Weeks     [][]grid.Cell
	PrevURL   string
	PrevLabel string
	NextURL   string
	NextLabel string
}

func MonthURL(year, month int) string {
	return fmt.Sprintf("/%04d/%02d", year, month)
}

func monthLabel(year, month int) string {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
}

// Calendar renders the month heading, weekday labels and one list per week.
func Calendar(g grid.Grid) (template.HTML, error) {
	py, pm := g.Prev()
	ny, nm := g.Next()
	return execute("calendar", calendarData{
		Label:     g.Label(),
		Weekdays:  grid.Weekdays,
		Weeks:     g.Weeks(),
		PrevURL:   MonthURL(py, pm),
		PrevLabel: monthLabel(py, pm),
		NextURL:   MonthURL(ny, nm),
		NextLabel: monthLabel(ny, nm),
	})
}

type eventData struct {
	Title       string
	Date        string
	Start       string
	End         string
	Description string
}

// EventDetail renders one event with its date and start and end times.
func EventDetail(e models.Event, loc *time.Location) (template.HTML, error) {
	if loc == nil {
		loc = time.Local
	}
	start := e.Start.In(loc)
	return execute("event", eventData{
		Title:       e.Title,
		Date:        start.Format("January 02, 2006"),
		Start:       start.Format("3:04pm"),
		End:         e.End.In(loc).Format("3:04pm"),
		Description: e.Description,
	})
}

func EventForm(f *models.EventForm) (template.HTML, error) {
	if f == nil {
		return "", nil
	}
	return execute("form", f)
}

type PageData struct {
	Title    string
	Body     template.HTML
	BackLink bool
}

// Page wraps a rendered fragment in the site chrome.
func Page(w io.Writer, p PageData) error {
	return templates.ExecuteTemplate(w, "page", p)
}

func execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}
