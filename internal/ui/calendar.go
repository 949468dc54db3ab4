package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	monthWidth = 20 // 7 columns of "dd" separated by single spaces
	monthGap   = 3
)

var weekdayHeader = "Mo Tu We Th Fr Sa Su"

// MonthGrid renders one month with days for which has returns true drawn in
// DayAvailable and the rest in DayMissing. Weeks start on Monday.
func MonthGrid(year int, month time.Month, loc *time.Location, has func(time.Time) bool) string {
	if loc == nil {
		loc = time.UTC
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)

	var lines []string
	title := first.Format("January 2006")
	lines = append(lines, Bold.Render(lipgloss.PlaceHorizontal(monthWidth, lipgloss.Center, title)))
	lines = append(lines, Muted.Render(weekdayHeader))

	// Monday = 0
	offset := (int(first.Weekday()) + 6) % 7
	cells := make([]string, 0, 42)
	for i := 0; i < offset; i++ {
		cells = append(cells, "  ")
	}
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		label := fmt.Sprintf("%2d", d.Day())
		if has(d) {
			cells = append(cells, DayAvailable.Render(label))
		} else {
			cells = append(cells, DayMissing.Render(label))
		}
	}
	for len(cells)%7 != 0 {
		cells = append(cells, "  ")
	}
	for i := 0; i < len(cells); i += 7 {
		lines = append(lines, strings.Join(cells[i:i+7], " "))
	}
	return strings.Join(lines, "\n")
}

// CalendarRange renders every month from start's month through end's month,
// cols months per row.
func CalendarRange(start, end time.Time, cols int, has func(time.Time) bool) string {
	if end.Before(start) {
		return ""
	}
	if cols < 1 {
		cols = 1
	}

	loc := start.Location()
	var grids []string
	for m := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, loc); !m.After(end); m = m.AddDate(0, 1, 0) {
		grids = append(grids, MonthGrid(m.Year(), m.Month(), loc, has))
	}

	gap := strings.Repeat(" ", monthGap)
	var rows []string
	for i := 0; i < len(grids); i += cols {
		j := i + cols
		if j > len(grids) {
			j = len(grids)
		}
		row := make([]string, 0, 2*(j-i))
		for k, g := range grids[i:j] {
			if k > 0 {
				row = append(row, gap)
			}
			row = append(row, lipgloss.NewStyle().Width(monthWidth).Render(g))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(rows, "\n\n") + "\n"
}
