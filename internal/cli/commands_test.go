package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aidanlsb/socialscope/internal/config"
	"github.com/aidanlsb/socialscope/internal/index"
	"github.com/aidanlsb/socialscope/internal/model"
	"github.com/aidanlsb/socialscope/internal/testutil"
	"github.com/aidanlsb/socialscope/internal/ui"
)

func setVar[T any](t *testing.T, p *T, v T) {
	t.Helper()
	prev := *p
	*p = v
	t.Cleanup(func() { *p = prev })
}

func TestDatasetsJSON(t *testing.T) {
	setupDataDir(t)

	t.Run("all sources", func(t *testing.T) {
		resp := runJSON(t, func() error { return runDatasets(datasetsCmd, nil) })
		var data struct {
			Datasets []model.Dataset `json:"datasets"`
		}
		decodeData(t, resp, &data)

		var ids []string
		for _, ds := range data.Datasets {
			ids = append(ids, ds.ID)
		}
		want := "drivingsg_20250318_155441,elections_1742189872,misc"
		if got := strings.Join(ids, ","); got != want {
			t.Fatalf("ids = %s, want %s", got, want)
		}
		if data.Datasets[0].ItemCount != 2 || data.Datasets[1].ItemCount != 3 || data.Datasets[2].ItemCount != 1 {
			t.Errorf("item counts = %d,%d,%d, want 2,3,1",
				data.Datasets[0].ItemCount, data.Datasets[1].ItemCount, data.Datasets[2].ItemCount)
		}
		if resp.Meta == nil || resp.Meta.Count != 3 || resp.Meta.RunID == "" {
			t.Errorf("meta = %+v, want count 3 and a run id", resp.Meta)
		}
	})

	t.Run("source filter", func(t *testing.T) {
		setVar(t, &datasetsSource, "twitter")
		resp := runJSON(t, func() error { return runDatasets(datasetsCmd, nil) })
		var data struct {
			Datasets []model.Dataset `json:"datasets"`
		}
		decodeData(t, resp, &data)
		if len(data.Datasets) != 1 || data.Datasets[0].ID != "elections_1742189872" {
			t.Fatalf("datasets = %+v, want only elections", data.Datasets)
		}
	})

	t.Run("unknown source", func(t *testing.T) {
		setVar(t, &datasetsSource, "mastodon")
		resp := runJSON(t, func() error { return runDatasets(datasetsCmd, nil) })
		if resp.OK || resp.Error == nil || resp.Error.Code != ErrInvalidInput {
			t.Fatalf("resp = %+v, want %s", resp, ErrInvalidInput)
		}
	})
}

func TestRangesJSON(t *testing.T) {
	setupDataDir(t)

	resp := runJSON(t, func() error { return runRanges(rangesCmd, nil) })
	var data struct {
		Ranges []rangeView `json:"ranges"`
	}
	decodeData(t, resp, &data)

	want := []rangeView{
		{ID: "drivingsg_20250318_155441", MinDate: "2025-02-16", MaxDate: "2025-03-18", Days: 31, Strategy: "filename:compact-date-counter"},
		{ID: "elections_1742189872", MinDate: "2025-02-15", MaxDate: "2025-03-17", Days: 31, Strategy: "filename:trailing-timestamp"},
		{ID: "misc", MinDate: "2026-09-16", MaxDate: "2026-10-16", Days: 31, Strategy: "default", IsDefault: true},
	}
	if len(data.Ranges) != len(want) {
		t.Fatalf("got %d ranges, want %d: %+v", len(data.Ranges), len(want), data.Ranges)
	}
	for i, w := range want {
		got := data.Ranges[i]
		if got.ID != w.ID || got.MinDate != w.MinDate || got.MaxDate != w.MaxDate ||
			got.Days != w.Days || got.Strategy != w.Strategy || got.IsDefault != w.IsDefault {
			t.Errorf("range[%d] = %+v, want %+v", i, got, w)
		}
	}
	if got := data.Ranges[2].Label; got != "2026-09-16 to 2026-10-16 (estimated)" {
		t.Errorf("default label = %q", got)
	}
}

func TestRangesSourceFilter(t *testing.T) {
	setupDataDir(t)

	t.Run("twitter", func(t *testing.T) {
		setVar(t, &rangesSource, "twitter")
		resp := runJSON(t, func() error { return runRanges(rangesCmd, nil) })
		var data struct {
			Ranges []rangeView `json:"ranges"`
		}
		decodeData(t, resp, &data)
		if len(data.Ranges) != 1 || data.Ranges[0].ID != "elections_1742189872" || data.Ranges[0].Source != "twitter" {
			t.Fatalf("ranges = %+v", data.Ranges)
		}
	})

	t.Run("unknown source", func(t *testing.T) {
		setVar(t, &rangesSource, "mastodon")
		resp := runJSON(t, func() error { return runRanges(rangesCmd, nil) })
		if resp.OK || resp.Error == nil || resp.Error.Code != ErrInvalidInput {
			t.Fatalf("resp = %+v, want %s", resp, ErrInvalidInput)
		}
	})
}

func TestRenderIndexSummary(t *testing.T) {
	setupDataDir(t)
	s, err := loadSession(rangesCmd)
	if err != nil {
		t.Fatal(err)
	}
	db, err := s.openIndex()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	out, err := renderIndex(db)
	if err != nil {
		t.Fatal(err)
	}
	// drivingsg and elections overlap on 30 days; misc adds 31 more.
	testutil.AssertContainsAll(t, out,
		"drivingsg_20250318_155441", "misc",
		"Indexed 3 datasets over 63 distinct days from 2025-02-15 to 2026-10-16",
		"run "+s.res.RunID)
	if strings.Contains(out, "fallback") {
		t.Errorf("unexpected fallback in summary:\n%s", out)
	}
}

func TestRangesText(t *testing.T) {
	setupDataDir(t)
	jsonOutput = false

	out := captureStdout(t, func() {
		if err := runRanges(rangesCmd, nil); err != nil {
			t.Fatalf("runRanges: %v", err)
		}
	})
	testutil.AssertContainsAll(t, out, "drivingsg_20250318_155441", "2025-02-16 to 2025-03-18", "filename:trailing-timestamp", "(estimated)")
}

func TestCalendarJSON(t *testing.T) {
	setupDataDir(t)

	t.Run("known dataset", func(t *testing.T) {
		resp := runJSON(t, func() error { return runCalendar(calendarCmd, []string{"drivingsg_20250318_155441"}) })
		var view calendarView
		decodeData(t, resp, &view)
		if len(view.Days) != 31 || view.Days[0] != "2025-02-16" || view.Days[30] != "2025-03-18" {
			t.Fatalf("days = %v", view.Days)
		}
		if view.Source != "reddit" || view.Path != "/data/reddit/drivingsg_20250318_155441.json" {
			t.Errorf("source/path = %q %q", view.Source, view.Path)
		}
	})

	t.Run("unknown dataset", func(t *testing.T) {
		resp := runJSON(t, func() error { return runCalendar(calendarCmd, []string{"nope"}) })
		if resp.OK || resp.Error == nil || resp.Error.Code != ErrDatasetNotFound {
			t.Fatalf("resp = %+v, want %s", resp, ErrDatasetNotFound)
		}
	})
}

func TestCalendarTextGrid(t *testing.T) {
	setupDataDir(t)
	jsonOutput = false
	setVar(t, &calendarDisplayContext, func() *ui.DisplayContext { return ui.NewDisplayContextWithWidth(100) })

	out := captureStdout(t, func() {
		if err := runCalendar(calendarCmd, []string{"drivingsg_20250318_155441"}); err != nil {
			t.Fatalf("runCalendar: %v", err)
		}
	})
	testutil.AssertContainsAll(t, out, "February 2025", "March 2025", "Mo Tu We Th Fr Sa Su")
}

func TestPresetsJSON(t *testing.T) {
	setupDataDir(t)

	tests := []struct {
		id      string
		enabled map[string]bool
		last7   string
	}{
		{
			id:      "misc",
			enabled: map[string]bool{"all": true, "last7": true, "last30": true, "last90": false, "custom": true},
			last7:   "2026-10-10",
		},
		{
			id:      "drivingsg_20250318_155441",
			enabled: map[string]bool{"all": true, "last7": true, "last30": true, "last90": true, "custom": true},
			last7:   "2025-03-12",
		},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			resp := runJSON(t, func() error { return runPresets(presetsCmd, []string{tt.id}) })
			var data struct {
				Presets []presetView `json:"presets"`
			}
			decodeData(t, resp, &data)
			if len(data.Presets) != 5 {
				t.Fatalf("got %d presets, want 5", len(data.Presets))
			}
			for _, p := range data.Presets {
				if p.Enabled != tt.enabled[p.Preset] {
					t.Errorf("%s enabled = %v, want %v", p.Preset, p.Enabled, tt.enabled[p.Preset])
				}
				if p.Preset == "last7" && p.Start != tt.last7 {
					t.Errorf("last7 start = %s, want %s", p.Start, tt.last7)
				}
				if p.Preset == "custom" && p.Start != "" {
					t.Errorf("custom start = %q, want empty", p.Start)
				}
			}
		})
	}
}

func TestCheckJSON(t *testing.T) {
	setupDataDir(t)
	id := "drivingsg_20250318_155441"

	tests := []struct {
		name    string
		args    []string
		preset  string
		covered bool
		missing []string
	}{
		{name: "inside range", args: []string{id, "2025-03-01", "2025-03-18"}, covered: true},
		{name: "past the end", args: []string{id, "2025-03-17", "2025-03-20"}, missing: []string{"2025-03-19", "2025-03-20"}},
		{name: "preset", args: []string{id}, preset: "last7", covered: true},
		{name: "inverted", args: []string{id, "2025-03-10", "2025-03-01"}},
		{name: "relative keyword", args: []string{id, "2026-10-15", "yesterday"}, missing: []string{"2026-10-15"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setVar(t, &checkPreset, tt.preset)
			resp := runJSON(t, func() error { return runCheck(checkCmd, tt.args) })
			var view checkView
			decodeData(t, resp, &view)
			if view.Covered != tt.covered {
				t.Errorf("covered = %v, want %v", view.Covered, tt.covered)
			}
			if strings.Join(view.Missing, ",") != strings.Join(tt.missing, ",") {
				t.Errorf("missing = %v, want %v", view.Missing, tt.missing)
			}
		})
	}
}

func TestCheckArgumentErrors(t *testing.T) {
	setupDataDir(t)
	id := "drivingsg_20250318_155441"

	tests := []struct {
		name   string
		args   []string
		preset string
		code   string
	}{
		{name: "no selection", args: []string{id}, code: ErrMissingArgument},
		{name: "start only", args: []string{id, "2025-03-01"}, code: ErrMissingArgument},
		{name: "dates and preset", args: []string{id, "2025-03-01", "2025-03-02"}, preset: "all", code: ErrInvalidInput},
		{name: "bad date", args: []string{id, "2025-02-30", "2025-03-02"}, code: ErrInvalidInput},
		{name: "bad preset", args: []string{id}, preset: "last365", code: ErrInvalidInput},
		{name: "custom preset", args: []string{id}, preset: "custom", code: ErrInvalidInput},
		{name: "unknown dataset", args: []string{"nope", "2025-03-01", "2025-03-02"}, code: ErrDatasetNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setVar(t, &checkPreset, tt.preset)
			resp := runJSON(t, func() error { return runCheck(checkCmd, tt.args) })
			if resp.OK || resp.Error == nil || resp.Error.Code != tt.code {
				t.Fatalf("resp = %+v, want code %s", resp.Error, tt.code)
			}
		})
	}
}

func TestCoveringJSON(t *testing.T) {
	setupDataDir(t)

	t.Run("single day", func(t *testing.T) {
		resp := runJSON(t, func() error { return runCovering(coveringCmd, []string{"2025-03-18"}) })
		var data struct {
			Date     string                `json:"date"`
			Datasets []index.DatasetResult `json:"datasets"`
		}
		decodeData(t, resp, &data)
		if len(data.Datasets) != 1 || data.Datasets[0].ID != "drivingsg_20250318_155441" {
			t.Fatalf("datasets = %+v, want only drivingsg", data.Datasets)
		}
	})

	t.Run("today", func(t *testing.T) {
		resp := runJSON(t, func() error { return runCovering(coveringCmd, []string{"today"}) })
		var data struct {
			Date     string                `json:"date"`
			Datasets []index.DatasetResult `json:"datasets"`
		}
		decodeData(t, resp, &data)
		if data.Date != "2026-10-16" || len(data.Datasets) != 1 || data.Datasets[0].ID != "misc" {
			t.Fatalf("data = %+v, want misc on 2026-10-16", data)
		}
	})

	t.Run("span", func(t *testing.T) {
		setVar(t, &coveringTo, "2025-03-19")
		resp := runJSON(t, func() error { return runCovering(coveringCmd, []string{"2025-03-17"}) })
		var data struct {
			Datasets []index.DatasetResult `json:"datasets"`
			Days     []index.DayCount      `json:"days"`
		}
		decodeData(t, resp, &data)
		if len(data.Datasets) != 2 {
			t.Fatalf("datasets = %+v, want 2", data.Datasets)
		}
		want := []index.DayCount{{Date: "2025-03-17", Datasets: 2}, {Date: "2025-03-18", Datasets: 1}}
		if len(data.Days) != len(want) {
			t.Fatalf("days = %+v, want %+v", data.Days, want)
		}
		for i := range want {
			if data.Days[i] != want[i] {
				t.Errorf("days[%d] = %+v, want %+v", i, data.Days[i], want[i])
			}
		}
	})

	t.Run("inverted span", func(t *testing.T) {
		setVar(t, &coveringTo, "2025-03-01")
		resp := runJSON(t, func() error { return runCovering(coveringCmd, []string{"2025-03-17"}) })
		if resp.OK || resp.Error.Code != ErrInvalidInput {
			t.Fatalf("resp = %+v, want %s", resp.Error, ErrInvalidInput)
		}
	})
}

func TestReportWritesFiles(t *testing.T) {
	setupDataDir(t)
	out := t.TempDir()
	setVar(t, &reportOut, out)
	setVar(t, &reportHTML, true)
	setVar(t, &reportTitle, "March Coverage")

	resp := runJSON(t, func() error { return runReport(reportCmd, nil) })
	var data struct {
		Files []string `json:"files"`
	}
	decodeData(t, resp, &data)

	want := []string{filepath.Join(out, "march-coverage.md"), filepath.Join(out, "march-coverage.html")}
	if strings.Join(data.Files, ",") != strings.Join(want, ",") {
		t.Fatalf("files = %v, want %v", data.Files, want)
	}
	testutil.AssertFileContains(t, want[0], "# March Coverage", "drivingsg_20250318_155441")
	testutil.AssertFileContains(t, want[1], "<table>")
}

func TestReportHTMLNeedsOut(t *testing.T) {
	setupDataDir(t)
	setVar(t, &reportHTML, true)
	setVar(t, &reportOut, "")

	resp := runJSON(t, func() error { return runReport(reportCmd, nil) })
	if resp.OK || resp.Error.Code != ErrMissingArgument {
		t.Fatalf("resp = %+v, want %s", resp.Error, ErrMissingArgument)
	}
}

func TestReportRawText(t *testing.T) {
	setupDataDir(t)
	jsonOutput = false
	setVar(t, &reportRaw, true)
	setVar(t, &reportSource, "twitter")

	out := captureStdout(t, func() {
		if err := runReport(reportCmd, nil); err != nil {
			t.Fatalf("runReport: %v", err)
		}
	})
	if !strings.Contains(out, "elections_1742189872") {
		t.Errorf("report missing twitter dataset:\n%s", out)
	}
	if strings.Contains(out, "drivingsg_20250318_155441") {
		t.Errorf("report includes reddit dataset despite --source twitter:\n%s", out)
	}
}

func TestSessionErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
		code string
	}{
		{name: "missing data dir", cfg: &config.Config{DataDir: filepath.Join(t.TempDir(), "absent")}, code: ErrDataDirMissing},
		{name: "nothing configured", cfg: &config.Config{}, code: ErrDataDirMissing},
		{name: "unknown manifest format", cfg: &config.Config{Catalog: writeTemp(t, "catalog.txt", "x")}, code: ErrCatalogInvalid},
		{name: "broken manifest", cfg: &config.Config{Catalog: writeTemp(t, "catalog.json", "{")}, code: ErrCatalogInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useConfig(t, tt.cfg)
			resp := runJSON(t, func() error { return runRanges(rangesCmd, nil) })
			if resp.OK || resp.Error == nil || resp.Error.Code != tt.code {
				t.Fatalf("resp = %+v, want %s", resp.Error, tt.code)
			}
		})
	}
}

func TestManifestCatalog(t *testing.T) {
	manifest := writeTemp(t, "catalog.yaml", `datasets:
  - id: survey
    source: reddit
    path: /data/reddit/survey.json
    date_range: "January 2023 - March 2023"
  - id: abbreviated
    source: reddit
    path: /data/reddit/abbreviated.json
    date_range: "Jan 2023 - Mar 2023"
  - id: ""
    source: twitter
    path: /data/twitter/blank.csv
`)
	useConfig(t, &config.Config{Catalog: manifest, Timezone: "UTC"})

	resp := runJSON(t, func() error { return runRanges(rangesCmd, nil) })
	var data struct {
		Ranges []rangeView `json:"ranges"`
	}
	decodeData(t, resp, &data)

	want := []struct {
		id, min, max, strategy string
		isDefault              bool
	}{
		{"survey", "2023-01-01", "2023-03-31", "metadata:month-range", false},
		// month names must be spelled out; abbreviations get the default window
		{"abbreviated", "2026-09-16", "2026-10-16", "default", true},
	}
	if len(data.Ranges) != len(want) {
		t.Fatalf("ranges = %+v, want %d", data.Ranges, len(want))
	}
	for i, w := range want {
		got := data.Ranges[i]
		if got.ID != w.id || got.MinDate != w.min || got.MaxDate != w.max ||
			got.Strategy != w.strategy || got.IsDefault != w.isDefault {
			t.Errorf("range %d = %+v, want %+v", i, got, w)
		}
	}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
