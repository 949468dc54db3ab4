package daterange

import (
	"regexp"
	"strconv"

	"github.com/aidanlsb/socialscope/internal/dates"
	"github.com/aidanlsb/socialscope/internal/model"
)

// FilenamePattern infers a range from a bare filename.
type FilenamePattern struct {
	Name  string
	Match func(name string, p Params) (model.DateRange, bool)
}

var (
	compactCounterRe    = regexp.MustCompile(`(\d{8})_\d+`)
	trailingTimestampRe = regexp.MustCompile(`_(\d{10})\.(?:csv|json)$`)
	explicitRangeRe     = regexp.MustCompile(`(\d{8})-(\d{8})`)
	anyCompactRe        = regexp.MustCompile(`(\d{8})`)
	anyTimestampRe      = regexp.MustCompile(`(\d{10})`)
)

// DefaultFilenamePatterns returns the cascade in priority order. The first
// pattern that matches wins, even when a later one would be more specific.
func DefaultFilenamePatterns() []FilenamePattern {
	return []FilenamePattern{
		{Name: "compact-date-counter", Match: matchCompactCounter},
		{Name: "trailing-timestamp", Match: matchTrailingTimestamp},
		{Name: "explicit-range", Match: matchExplicitRange},
		{Name: "any-compact-date", Match: matchAnyCompact},
		{Name: "any-timestamp", Match: matchAnyTimestamp},
	}
}

// YYYYMMDD_###### as in drivingsg_data_20250318_155441.json.
func matchCompactCounter(name string, p Params) (model.DateRange, bool) {
	return compactEnd(compactCounterRe, name, p)
}

// <anything>_<10 digits>.csv|.json as in twitter_scraped_singapore_1742189872.csv.
func matchTrailingTimestamp(name string, p Params) (model.DateRange, bool) {
	m := trailingTimestampRe.FindStringSubmatch(name)
	if m == nil {
		return model.DateRange{}, false
	}
	ts, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return model.DateRange{}, false
	}
	return p.endingAt(instant(ts, p.Location)), true
}

// YYYYMMDD-YYYYMMDD; both bounds are taken literally.
func matchExplicitRange(name string, p Params) (model.DateRange, bool) {
	m := explicitRangeRe.FindStringSubmatch(name)
	if m == nil {
		return model.DateRange{}, false
	}
	start, err := dates.ParseCompact(m[1], p.Location)
	if err != nil {
		return model.DateRange{}, false
	}
	end, err := dates.ParseCompact(m[2], p.Location)
	if err != nil {
		return model.DateRange{}, false
	}
	return between(start, end)
}

func matchAnyCompact(name string, p Params) (model.DateRange, bool) {
	return compactEnd(anyCompactRe, name, p)
}

func matchAnyTimestamp(name string, p Params) (model.DateRange, bool) {
	m := anyTimestampRe.FindStringSubmatch(name)
	if m == nil {
		return model.DateRange{}, false
	}
	ts, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return model.DateRange{}, false
	}
	end := instant(ts, p.Location)
	if end.Year() < p.TimestampMinYear || end.Year() > p.TimestampMaxYear {
		return model.DateRange{}, false
	}
	return p.endingAt(end), true
}

// compactEnd treats the first capture of re as a YYYYMMDD end date.
func compactEnd(re *regexp.Regexp, name string, p Params) (model.DateRange, bool) {
	m := re.FindStringSubmatch(name)
	if m == nil {
		return model.DateRange{}, false
	}
	end, err := dates.ParseCompact(m[1], p.Location)
	if err != nil {
		return model.DateRange{}, false
	}
	return p.endingAt(end), true
}

// Cascade runs filename patterns in order.
type Cascade struct {
	Patterns []FilenamePattern
	Params   Params
}

// NewCascade returns a cascade with the default patterns.
func NewCascade(p Params) *Cascade {
	p.SetDefaults()
	return &Cascade{Patterns: DefaultFilenamePatterns(), Params: p}
}

// Infer inspects the final segment of path and returns the first matching
// pattern's range along with the pattern name.
func (c *Cascade) Infer(path string) (model.DateRange, string, bool) {
	name := model.FileName(path)
	if name == "" {
		return model.DateRange{}, "", false
	}
	for _, pat := range c.Patterns {
		if r, ok := pat.Match(name, c.Params); ok {
			return r, pat.Name, true
		}
	}
	return model.DateRange{}, "", false
}
