package availability

import (
	"reflect"
	"testing"
	"time"

	"github.com/aidanlsb/socialscope/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name string
		r    model.DateRange
	}{
		{"single day", model.NewDateRange(day(2025, 3, 18), day(2025, 3, 18))},
		{"thirty day window", model.NewDateRange(day(2025, 2, 16), day(2025, 3, 18))},
		{"year boundary", model.NewDateRange(day(2023, 12, 20), day(2024, 1, 10))},
		{"leap year", model.NewDateRange(day(2024, 1, 1), day(2024, 12, 31))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Generate(tt.r)
			if c.Len() != tt.r.Days() {
				t.Fatalf("Len() = %d, want %d", c.Len(), tt.r.Days())
			}
			if !c.HasDate(tt.r.MinDate) || !c.HasDate(tt.r.MaxDate) {
				t.Fatalf("calendar must include both endpoints")
			}
			if c.HasDate(tt.r.MinDate.AddDate(0, 0, -1)) || c.HasDate(tt.r.MaxDate.AddDate(0, 0, 1)) {
				t.Fatalf("calendar must not extend past the endpoints")
			}
		})
	}
}

func TestGenerateInvertedIsEmpty(t *testing.T) {
	c := Generate(model.NewDateRange(day(2025, 3, 18), day(2025, 3, 1)))
	if c.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", c.Len())
	}
	if c.Has("2025-03-10") {
		t.Fatal("inverted range must not contain days")
	}
	if got := Generate(model.DateRange{}).Len(); got != 0 {
		t.Fatalf("zero range Len() = %d, want 0", got)
	}
}

func TestGenerateIgnoresTimeOfDay(t *testing.T) {
	r := model.NewDateRange(time.Date(2025, 3, 1, 23, 59, 0, 0, time.UTC), time.Date(2025, 3, 3, 0, 1, 0, 0, time.UTC))
	want := []string{"2025-03-01", "2025-03-02", "2025-03-03"}
	if got := Generate(r).Days(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Days() = %v, want %v", got, want)
	}
}

func TestGenerateAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	r := model.NewDateRange(time.Date(2025, 3, 25, 0, 0, 0, 0, loc), time.Date(2025, 4, 2, 0, 0, 0, 0, loc))
	c := Generate(r)
	if c.Len() != 9 {
		t.Fatalf("Len() = %d, want 9", c.Len())
	}
	if !c.Has("2025-03-30") {
		t.Fatal("missing the DST transition day")
	}
}

func TestCoversAndMissing(t *testing.T) {
	c := Generate(model.NewDateRange(day(2025, 3, 1), day(2025, 3, 10)))

	if !c.Covers(day(2025, 3, 2), day(2025, 3, 9)) {
		t.Error("expected inner selection to be covered")
	}
	if !c.Covers(day(2025, 3, 1), day(2025, 3, 10)) {
		t.Error("expected full selection to be covered")
	}
	if c.Covers(day(2025, 2, 27), day(2025, 3, 2)) {
		t.Error("selection starting before the range must not be covered")
	}
	if c.Covers(day(2025, 3, 9), day(2025, 3, 5)) {
		t.Error("inverted selection must not be covered")
	}

	got := c.Missing(day(2025, 2, 27), day(2025, 3, 2))
	want := []string{"2025-02-27", "2025-02-28"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Missing() = %v, want %v", got, want)
	}
}

func TestNilCalendar(t *testing.T) {
	var c *Calendar
	if c.Len() != 0 || c.Has("2025-01-01") || c.Days() != nil {
		t.Fatal("nil calendar should behave as empty")
	}
	if c.Covers(day(2025, 1, 1), day(2025, 1, 1)) {
		t.Fatal("nil calendar covers nothing")
	}
}
