package dates

import (
	"strings"
	"time"
)

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// MonthNumber finds the first full month name contained in name (case-insensitive).
// "January", "JANUARY" and "januaryish" all match; abbreviations like "Jan" do not.
func MonthNumber(name string) (time.Month, bool) {
	lower := strings.ToLower(name)
	for i, m := range monthNames {
		if strings.Contains(lower, m) {
			return time.Month(i + 1), true
		}
	}
	return 0, false
}

// FirstOfMonth returns the first day of the month in loc.
func FirstOfMonth(year int, month time.Month, loc *time.Location) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, orUTC(loc))
}

// EndOfMonth returns the last day of the month in loc.
func EndOfMonth(year int, month time.Month, loc *time.Location) time.Time {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, orUTC(loc))
}
