package daterange

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aidanlsb/socialscope/internal/dates"
	"github.com/aidanlsb/socialscope/internal/model"
)

// MetadataFormat recognizes one free-text date_range shape.
type MetadataFormat struct {
	Name  string
	Parse func(text string, p Params) (model.DateRange, bool)
}

var (
	monthRangeRe = regexp.MustCompile(`([A-Za-z]+)\s+(\d{4})\s*-\s*([A-Za-z]+)\s+(\d{4})`)
	singleDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	lastNRe      = regexp.MustCompile(`(?i)Last\s+(\d+)\s+(days|months)`)
)

// DefaultMetadataFormats returns the metadata formats in priority order.
func DefaultMetadataFormats() []MetadataFormat {
	return []MetadataFormat{
		{Name: "explicit-to", Parse: parseExplicitTo},
		{Name: "month-range", Parse: parseMonthRange},
		{Name: "single-date", Parse: parseSingleDate},
		{Name: "last-n", Parse: parseLastN},
	}
}

// "<date> to <date>"
func parseExplicitTo(text string, p Params) (model.DateRange, bool) {
	if !strings.Contains(text, " to ") {
		return model.DateRange{}, false
	}
	parts := strings.Split(text, " to ")
	if len(parts) != 2 {
		return model.DateRange{}, false
	}
	start, err := dates.ParseFlexible(parts[0], p.Location)
	if err != nil {
		return model.DateRange{}, false
	}
	end, err := dates.ParseFlexible(parts[1], p.Location)
	if err != nil {
		return model.DateRange{}, false
	}
	return between(start, end)
}

// "January 2023 - March 2023": first day of the start month to last day of the end month.
func parseMonthRange(text string, p Params) (model.DateRange, bool) {
	m := monthRangeRe.FindStringSubmatch(text)
	if m == nil {
		return model.DateRange{}, false
	}
	startMonth, ok := dates.MonthNumber(m[1])
	if !ok {
		return model.DateRange{}, false
	}
	endMonth, ok := dates.MonthNumber(m[3])
	if !ok {
		return model.DateRange{}, false
	}
	startYear, err := strconv.Atoi(m[2])
	if err != nil {
		return model.DateRange{}, false
	}
	endYear, err := strconv.Atoi(m[4])
	if err != nil {
		return model.DateRange{}, false
	}
	return between(
		dates.FirstOfMonth(startYear, startMonth, p.Location),
		dates.EndOfMonth(endYear, endMonth, p.Location),
	)
}

// A bare YYYY-MM-DD is the end date.
func parseSingleDate(text string, p Params) (model.DateRange, bool) {
	if !singleDateRe.MatchString(text) {
		return model.DateRange{}, false
	}
	end, err := dates.ParseDateIn(text, p.Location)
	if err != nil {
		return model.DateRange{}, false
	}
	return p.endingAt(end), true
}

// "Last N days" / "Last N months", ending today.
func parseLastN(text string, p Params) (model.DateRange, bool) {
	m := lastNRe.FindStringSubmatch(text)
	if m == nil {
		return model.DateRange{}, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return model.DateRange{}, false
	}
	today := p.Today()
	start := today
	switch strings.ToLower(m[2]) {
	case "days":
		start = today.AddDate(0, 0, -n)
	case "months":
		start = today.AddDate(0, -n, 0)
	}
	return between(start, today)
}

// Parser resolves date_range metadata, falling back to the filename cascade.
type Parser struct {
	Formats  []MetadataFormat
	Filename *Cascade
	Params   Params
}

// NewParser returns a parser with the default formats and filename cascade.
func NewParser(p Params) *Parser {
	p.SetDefaults()
	return &Parser{
		Formats:  DefaultMetadataFormats(),
		Filename: NewCascade(p),
		Params:   p,
	}
}

// Parse tries each metadata format in order, then the filename cascade on path.
// It returns the range and the name of the strategy that produced it. Empty
// text and the "All time" sentinel are treated as no metadata.
func (ps *Parser) Parse(text, path string) (model.DateRange, string, bool) {
	text = strings.TrimSpace(text)
	if text == "" || text == model.AllTime {
		return model.DateRange{}, "", false
	}
	for _, f := range ps.Formats {
		if r, ok := f.Parse(text, ps.Params); ok {
			return r, f.Name, true
		}
	}
	if ps.Filename != nil && path != "" {
		if r, name, ok := ps.Filename.Infer(path); ok {
			return r, "filename:" + name, true
		}
	}
	return model.DateRange{}, "", false
}
