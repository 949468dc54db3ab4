// Package availability materializes the day-level coverage implied by a date range.
package availability

import (
	"sort"
	"time"

	"github.com/aidanlsb/socialscope/internal/dates"
	"github.com/aidanlsb/socialscope/internal/model"
)

// Calendar is the set of YYYY-MM-DD days a dataset has data for.
type Calendar struct {
	days map[string]struct{}
	loc  *time.Location
}

// Generate returns one entry per calendar day from r.MinDate to r.MaxDate
// inclusive. An inverted or zero range yields an empty calendar.
func Generate(r model.DateRange) *Calendar {
	c := &Calendar{days: make(map[string]struct{}), loc: r.MinDate.Location()}
	if !r.Valid() {
		return c
	}
	end := dates.StartOfDay(r.MaxDate)
	for d := dates.StartOfDay(r.MinDate); !d.After(end); d = d.AddDate(0, 0, 1) {
		c.days[dates.Format(d)] = struct{}{}
	}
	return c
}

// Len returns the number of days in the calendar.
func (c *Calendar) Len() int {
	if c == nil {
		return 0
	}
	return len(c.days)
}

// Has reports whether the calendar contains the given YYYY-MM-DD day.
func (c *Calendar) Has(day string) bool {
	if c == nil {
		return false
	}
	_, ok := c.days[day]
	return ok
}

// HasDate reports whether the calendar contains t's calendar day.
func (c *Calendar) HasDate(t time.Time) bool {
	return c.Has(dates.Format(t))
}

// Days returns every day in ascending order.
func (c *Calendar) Days() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.days))
	for d := range c.days {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Covers reports whether every day in [start, end] has data.
// An inverted selection is never covered.
func (c *Calendar) Covers(start, end time.Time) bool {
	if dates.StartOfDay(start).After(dates.StartOfDay(end)) {
		return false
	}
	return len(c.Missing(start, end)) == 0
}

// Missing lists the days in [start, end] that have no data.
func (c *Calendar) Missing(start, end time.Time) []string {
	var out []string
	last := dates.StartOfDay(end)
	for d := dates.StartOfDay(start); !d.After(last); d = d.AddDate(0, 0, 1) {
		day := dates.Format(d)
		if !c.Has(day) {
			out = append(out, day)
		}
	}
	return out
}
