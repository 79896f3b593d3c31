// Package grid lays a month out as a 7-column calendar and buckets events by day.
package grid

import (
	"time"

	"ms-calendar/internal/models"
)

var Weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

type Cell struct {
	// Day is the day of month; zero for fill cells.
	Day    int
	Events []models.Event
	Today  bool
}

func (c Cell) IsFill() bool {
	return c.Day == 0
}

type Grid struct {
	Year         int
	Month        int
	DaysInMonth  int
	StartWeekday int
	Location     *time.Location
	Cells        []Cell
}

// IsLeapYear applies the proleptic Gregorian rule.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in month. Day 0 of the next
// month normalizes to the last day of this one, so December rolls into
// January of the following year.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// StartWeekday returns the weekday of the first of the month, 0 for Sunday.
func StartWeekday(year, month int) int {
	return int(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// MonthRange returns the first instant of the month and the first instant
// of the following one. Every instant t of the month, including the very
// last, satisfies first <= t < next.
func MonthRange(year, month int, loc *time.Location) (first, next time.Time) {
	if loc == nil {
		loc = time.Local
	}
	first = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	lastDay := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, loc)
	next = lastDay.AddDate(0, 0, 1)
	return first, next
}

// Build lays out year/month and attaches each event to the day it starts on.
// Events keep their input order within a day; events starting outside the
// month are dropped. today is compared in the location of the grid.
func Build(year, month int, events []models.Event, today time.Time, loc *time.Location) Grid {
	if loc == nil {
		loc = time.Local
	}
	// Normalizes out-of-range months such as 0 or 13.
	norm := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	year, month = norm.Year(), int(norm.Month())

	g := Grid{
		Year:         year,
		Month:        month,
		DaysInMonth:  DaysInMonth(year, month),
		StartWeekday: StartWeekday(year, month),
		Location:     loc,
	}

	byDay := make(map[int][]models.Event, len(events))
	for _, e := range events {
		start := e.Start.In(loc)
		if start.Year() != year || int(start.Month()) != month {
			continue
		}
		byDay[start.Day()] = append(byDay[start.Day()], e)
	}

	todayDay := 0
	if !today.IsZero() {
		t := today.In(loc)
		if t.Year() == year && int(t.Month()) == month {
			todayDay = t.Day()
		}
	}

	total := g.StartWeekday + g.DaysInMonth
	if rem := total % 7; rem != 0 {
		total += 7 - rem
	}

	g.Cells = make([]Cell, 0, total)
	for i := 0; i < g.StartWeekday; i++ {
		g.Cells = append(g.Cells, Cell{})
	}
	for d := 1; d <= g.DaysInMonth; d++ {
		g.Cells = append(g.Cells, Cell{
			Day:    d,
			Events: byDay[d],
			Today:  d == todayDay,
		})
	}
	for len(g.Cells) < total {
		g.Cells = append(g.Cells, Cell{})
	}

	return g
}

// Weeks splits the cells into rows of seven.
func (g Grid) Weeks() [][]Cell {
	weeks := make([][]Cell, 0, len(g.Cells)/7)
	for i := 0; i+7 <= len(g.Cells); i += 7 {
		weeks = append(weeks, g.Cells[i:i+7])
	}
	return weeks
}

func (g Grid) first() time.Time {
	loc := g.Location
	if loc == nil {
		loc = time.Local
	}
	return time.Date(g.Year, time.Month(g.Month), 1, 0, 0, 0, 0, loc)
}

// Label formats the month heading, e.g. "January 2013".
func (g Grid) Label() string {
	return g.first().Format("January 2006")
}

func (g Grid) Prev() (int, int) {
	p := g.first().AddDate(0, -1, 0)
	return p.Year(), int(p.Month())
}

func (g Grid) Next() (int, int) {
	n := g.first().AddDate(0, 1, 0)
	return n.Year(), int(n.Month())
}

// EventsOn returns the events bucketed into day, or nil.
func (g Grid) EventsOn(day int) []models.Event {
	if day < 1 || day > g.DaysInMonth {
		return nil
	}
	return g.Cells[g.StartWeekday+day-1].Events
}
