// Package dates provides canonical calendar-day parsing and arithmetic.
//
// Every value returned here is a start-of-day time in the caller's location, so
// callers can compare and step through days without worrying about time-of-day.
package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the canonical YYYY-MM-DD layout.
const DateLayout = "2006-01-02"

// CompactLayout is the YYYYMMDD layout used in filenames.
const CompactLayout = "20060102"

var (
	dateRegex    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	compactRegex = regexp.MustCompile(`^\d{8}$`)
)

// IsValidDate checks if a string is a valid YYYY-MM-DD date.
func IsValidDate(s string) bool {
	if !dateRegex.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, error) {
	return ParseDateIn(s, time.UTC)
}

// ParseDateIn parses a YYYY-MM-DD date as a calendar day in loc.
func ParseDateIn(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !IsValidDate(s) {
		return time.Time{}, fmt.Errorf("invalid date: %q", s)
	}
	return time.ParseInLocation(DateLayout, s, orUTC(loc))
}

// ParseCompact parses a YYYYMMDD token as a calendar day in loc.
// Impossible dates such as 20250230 are rejected.
func ParseCompact(s string, loc *time.Location) (time.Time, error) {
	if !compactRegex.MatchString(s) {
		return time.Time{}, fmt.Errorf("invalid compact date: %q", s)
	}
	t, err := time.ParseInLocation(CompactLayout, s, orUTC(loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid compact date: %q", s)
	}
	return t, nil
}

// flexibleLayouts are the free-text layouts accepted on either side of a
// "<date> to <date>" range. Date-only layouts come first.
var flexibleLayouts = []string{
	DateLayout,
	"2006/01/02",
	"01/02/2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseFlexible parses a free-text date and returns its calendar day in loc.
//
// Accepted: YYYY-MM-DD, YYYY/MM/DD, MM/DD/YYYY, long and short month-name forms,
// naive datetimes, and RFC3339 (converted to loc before taking the day).
func ParseFlexible(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("invalid date: empty")
	}
	loc = orUTC(loc)

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return StartOfDay(t.In(loc)), nil
	}
	for _, layout := range flexibleLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return StartOfDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date: %q", s)
}

// ParseDateArg parses a CLI date argument which can be:
// - "today", "yesterday", "tomorrow" (relative dates)
// - "YYYY-MM-DD" format (absolute date)
// - Empty string defaults to today
func ParseDateArg(arg string, now time.Time) (time.Time, error) {
	if arg == "" {
		return StartOfDay(now), nil
	}

	if day, ok := RelativeDay(arg, now); ok {
		return day, nil
	}

	dateArg := strings.TrimSpace(arg)
	parsed, err := ParseDateIn(dateArg, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format '%s', use YYYY-MM-DD or today/yesterday/tomorrow", dateArg)
	}
	return parsed, nil
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddDays moves t by n calendar days, keeping it at start of day.
func AddDays(t time.Time, n int) time.Time {
	return StartOfDay(t).AddDate(0, 0, n)
}

// DaysBetween returns the number of calendar days from a to b (negative when b is earlier).
func DaysBetween(a, b time.Time) int {
	ca := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	cb := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(cb.Sub(ca).Hours() / 24)
}

// Format renders t as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(DateLayout)
}

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
