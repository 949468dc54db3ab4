// Package daterange infers dataset date ranges from free-text metadata and filenames.
//
// Both inputs are handled by ordered strategy lists: the first strategy that
// produces a valid range wins. Strategies never return errors; malformed or
// unrecognized input is reported as "no match" so the next strategy can try.
package daterange

import (
	"time"

	"github.com/aidanlsb/socialscope/internal/dates"
	"github.com/aidanlsb/socialscope/internal/model"
)

// Defaults for Params.
const (
	DefaultWindowDays       = 30
	DefaultTimestampMinYear = 2010
	DefaultTimestampMaxYear = 2050
)

// Params carries the policy knobs shared by every strategy.
type Params struct {
	// Location defines which calendar day an instant falls on. Defaults to time.Local.
	Location *time.Location

	// WindowDays is how far before a lone end date the synthesized start lies.
	WindowDays int

	// TimestampMinYear and TimestampMaxYear bound the "any 10 digits" timestamp
	// guess; digit runs landing outside are not treated as timestamps.
	TimestampMinYear int
	TimestampMaxYear int

	// Now supplies the current time for relative formats. Defaults to time.Now.
	Now func() time.Time
}

// DefaultParams returns Params with every default applied.
func DefaultParams() Params {
	var p Params
	p.SetDefaults()
	return p
}

// SetDefaults fills in zero-valued fields.
func (p *Params) SetDefaults() {
	if p.Location == nil {
		p.Location = time.Local
	}
	if p.WindowDays <= 0 {
		p.WindowDays = DefaultWindowDays
	}
	if p.TimestampMinYear == 0 {
		p.TimestampMinYear = DefaultTimestampMinYear
	}
	if p.TimestampMaxYear == 0 {
		p.TimestampMaxYear = DefaultTimestampMaxYear
	}
	if p.Now == nil {
		p.Now = time.Now
	}
}

// Today returns the current calendar day in the configured location.
func (p Params) Today() time.Time {
	return dates.StartOfDay(p.Now().In(p.Location))
}

// endingAt builds the WindowDays range that ends on end.
func (p Params) endingAt(end time.Time) model.DateRange {
	end = dates.StartOfDay(end)
	return model.NewDateRange(dates.AddDays(end, -p.WindowDays), end)
}

// between builds a range from explicit bounds, rejecting inverted ones.
func between(start, end time.Time) (model.DateRange, bool) {
	r := model.NewDateRange(dates.StartOfDay(start), dates.StartOfDay(end))
	if !r.Valid() {
		return model.DateRange{}, false
	}
	return r, true
}

// instant converts Unix seconds to a calendar day in loc.
func instant(seconds int64, loc *time.Location) time.Time {
	return dates.StartOfDay(time.Unix(seconds, 0).In(loc))
}
