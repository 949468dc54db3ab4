package model

import (
	"fmt"
	"time"
)

// DateLayout is the canonical calendar-day layout.
const DateLayout = "2006-01-02"

// DateRange is an inclusive interval of calendar days.
// MinDate and MaxDate are start-of-day values; MinDate <= MaxDate.
type DateRange struct {
	MinDate time.Time `json:"min_date"`
	MaxDate time.Time `json:"max_date"`

	// IsDefault is set when no real signal was found and the range was synthesized.
	IsDefault bool `json:"is_default,omitempty"`

	// IsFallback is set when the range was synthesized after a resolution error.
	// IsFallback implies IsDefault.
	IsFallback bool `json:"is_fallback,omitempty"`

	set bool
}

// NewDateRange returns the range [start, end]. Only ranges built here are
// valid; the zero DateRange means "no range" in every location, including
// for bounds that fall on the zero time.
func NewDateRange(start, end time.Time) DateRange {
	return DateRange{MinDate: start, MaxDate: end, set: true}
}

// Valid reports whether the range was built with bounds and is ordered.
func (r DateRange) Valid() bool {
	return r.set && !r.MinDate.After(r.MaxDate)
}

// Days returns the inclusive number of calendar days in the range, or 0 when invalid.
func (r DateRange) Days() int {
	if !r.Valid() {
		return 0
	}
	// Compare civil dates in UTC so DST transitions don't shorten a day.
	a := time.Date(r.MinDate.Year(), r.MinDate.Month(), r.MinDate.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(r.MaxDate.Year(), r.MaxDate.Month(), r.MaxDate.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours()/24) + 1
}

// Label renders the range for display, marking synthesized ranges.
func (r DateRange) Label() string {
	text := fmt.Sprintf("%s to %s", r.MinDate.Format(DateLayout), r.MaxDate.Format(DateLayout))
	switch {
	case r.IsDefault && r.IsFallback:
		text += " (estimated - fallback)"
	case r.IsDefault:
		text += " (estimated)"
	}
	return text
}

// Equal reports whether two ranges cover the same days with the same flags.
func (r DateRange) Equal(other DateRange) bool {
	return r.MinDate.Equal(other.MinDate) &&
		r.MaxDate.Equal(other.MaxDate) &&
		r.IsDefault == other.IsDefault &&
		r.IsFallback == other.IsFallback
}
