package availability

import (
	"fmt"
	"strings"
	"time"

	"github.com/aidanlsb/socialscope/internal/dates"
	"github.com/aidanlsb/socialscope/internal/model"
)

// Preset is a date-range selection shortcut.
type Preset string

const (
	PresetAll    Preset = "all"
	PresetLast7  Preset = "last7"
	PresetLast30 Preset = "last30"
	PresetLast90 Preset = "last90"
	PresetCustom Preset = "custom"
)

// Presets lists the presets in menu order.
var Presets = []Preset{PresetAll, PresetLast7, PresetLast30, PresetLast90, PresetCustom}

// ParsePreset normalizes a preset name.
func ParsePreset(s string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Presets {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown preset %q (want all, last7, last30, last90 or custom)", s)
}

// Days returns the window length for lastN presets, or 0.
func (p Preset) Days() int {
	switch p {
	case PresetLast7:
		return 7
	case PresetLast30:
		return 30
	case PresetLast90:
		return 90
	default:
		return 0
	}
}

// Option is a preset together with whether it can be selected for a dataset.
type Option struct {
	Preset  Preset `json:"preset"`
	Enabled bool   `json:"enabled"`
}

// Options gates the presets for a dataset range. A lastN preset is disabled
// when fewer than N days separate the range start from today.
func Options(r model.DateRange, today time.Time) []Option {
	span := dates.DaysBetween(r.MinDate, today)
	out := make([]Option, 0, len(Presets))
	for _, p := range Presets {
		enabled := true
		if n := p.Days(); n > 0 && span < n {
			enabled = false
		}
		out = append(out, Option{Preset: p, Enabled: enabled})
	}
	return out
}

// Window resolves a non-custom preset to concrete bounds within r.
// lastN windows end on r.MaxDate and are clamped to r.MinDate.
func Window(p Preset, r model.DateRange) (start, end time.Time, err error) {
	if !r.Valid() {
		return time.Time{}, time.Time{}, fmt.Errorf("dataset has no usable date range")
	}
	switch p {
	case PresetAll:
		return r.MinDate, r.MaxDate, nil
	case PresetLast7, PresetLast30, PresetLast90:
		end = r.MaxDate
		start = dates.AddDays(end, -(p.Days() - 1))
		if start.Before(r.MinDate) {
			start = r.MinDate
		}
		return start, end, nil
	case PresetCustom:
		return time.Time{}, time.Time{}, fmt.Errorf("custom preset needs explicit bounds")
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("unknown preset %q", p)
	}
}
