package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aidanlsb/socialscope/internal/model"
)

func writeFile(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if !mtime.IsZero() {
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatal(err)
		}
	}
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

	writeFile(t, filepath.Join(dir, "reddit", "drivingsg_data_20250318_155441.json"),
		`[{"id":1},{"id":2},{"id":3}]`, base)
	writeFile(t, filepath.Join(dir, "reddit", "wrapped.json"),
		`{"data":[{"id":1},{"id":2}]}`, base.Add(-time.Hour))
	writeFile(t, filepath.Join(dir, "reddit", "broken.json"),
		`{not json`, base.Add(-2*time.Hour))
	writeFile(t, filepath.Join(dir, "reddit", "notes.txt"), "ignore me", base)
	writeFile(t, filepath.Join(dir, "twitter", "twitter_scraped_singapore_1742189872.csv"),
		"id,text\n1,a\n2,b\n", base.Add(time.Hour))

	cat, err := Scan(dir, time.UTC)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(cat.Datasets) != 4 {
		t.Fatalf("got %d datasets, want 4", len(cat.Datasets))
	}

	wantOrder := []string{
		"twitter_scraped_singapore_1742189872",
		"drivingsg_data_20250318_155441",
		"wrapped",
		"broken",
	}
	for i, id := range wantOrder {
		if cat.Datasets[i].ID != id {
			t.Errorf("Datasets[%d].ID = %q, want %q", i, cat.Datasets[i].ID, id)
		}
	}

	t.Run("json array", func(t *testing.T) {
		ds, ok := cat.Lookup("drivingsg_data_20250318_155441")
		if !ok {
			t.Fatal("dataset missing")
		}
		if ds.Source != model.SourceReddit || ds.Type != "json" {
			t.Errorf("source/type = %s/%s", ds.Source, ds.Type)
		}
		if ds.Path != "/data/reddit/drivingsg_data_20250318_155441.json" {
			t.Errorf("Path = %q", ds.Path)
		}
		if ds.Name != "Drivingsg Data 20250318 155441 (JSON)" {
			t.Errorf("Name = %q", ds.Name)
		}
		if ds.ItemCount != 3 {
			t.Errorf("ItemCount = %d, want 3", ds.ItemCount)
		}
		if ds.DateRange != "20250318" {
			t.Errorf("DateRange = %q, want 20250318", ds.DateRange)
		}
	})

	t.Run("json data wrapper", func(t *testing.T) {
		ds, _ := cat.Lookup("wrapped")
		if ds.ItemCount != 2 {
			t.Errorf("ItemCount = %d, want 2", ds.ItemCount)
		}
		if ds.DateRange != "" {
			t.Errorf("DateRange = %q, want empty", ds.DateRange)
		}
	})

	t.Run("csv with timestamp", func(t *testing.T) {
		ds, _ := cat.Lookup("twitter_scraped_singapore_1742189872")
		if ds.ItemCount != 2 {
			t.Errorf("ItemCount = %d, want 2", ds.ItemCount)
		}
		if ds.DateRange != "20250317" {
			t.Errorf("DateRange = %q, want 20250317", ds.DateRange)
		}
		if ds.Type != "csv" || !strings.HasSuffix(ds.Name, "(CSV)") {
			t.Errorf("type/name = %s/%s", ds.Type, ds.Name)
		}
	})

	t.Run("unreadable content warns", func(t *testing.T) {
		ds, _ := cat.Lookup("broken")
		if ds.ItemCount != 0 {
			t.Errorf("ItemCount = %d, want 0", ds.ItemCount)
		}
		if len(cat.Warnings) != 1 || !strings.Contains(cat.Warnings[0], "broken.json") {
			t.Errorf("Warnings = %v", cat.Warnings)
		}
	})

	if got := len(cat.BySource(model.SourceTwitter)); got != 1 {
		t.Errorf("BySource(twitter) = %d, want 1", got)
	}
}

func TestScanMissingDirs(t *testing.T) {
	if _, err := Scan(filepath.Join(t.TempDir(), "nope"), time.UTC); !errors.Is(err, ErrDataDirNotFound) {
		t.Fatalf("err = %v, want ErrDataDirNotFound", err)
	}

	cat, err := Scan(t.TempDir(), time.UTC)
	if err != nil {
		t.Fatalf("empty dir: %v", err)
	}
	if len(cat.Datasets) != 0 {
		t.Fatalf("got %d datasets, want 0", len(cat.Datasets))
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1024 * 1024, "1.0 MB"},
		{5 * 1024 * 1024 / 2, "2.5 MB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.n); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFilenameDateHint(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"drivingsg_data_20250318_155441.json", "20250318"},
		{"report_20230101-20230131.json", "20230101-20230131"},
		{"twitter_scraped_singapore_1742189872.csv", "20250317"},
		{"twitter_1700000000.csv", "20231114"},
		{"twitter_17abc.csv", ""},
		{"plain.json", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FilenameDateHint(tt.name, time.UTC); got != tt.want {
				t.Errorf("FilenameDateHint(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		file    string
		content string
		want    int
	}{
		{"api.json", `{"success":true,"datasets":[{"id":"a","source":"reddit","path":"/data/reddit/a.json","date_range":"Last 7 days"},{"id":"b","source":"Twitter","path":"/data/twitter/b.csv"}]}`, 2},
		{"bare.json", `[{"id":"a","path":"a.json"}]`, 1},
		{"list.yaml", "datasets:\n  - id: a\n    source: reddit\n    path: /data/reddit/a.json\n    date_range: January 2023 - March 2023\n", 1},
		{"bare.yml", "- id: a\n  path: a.json\n- id: b\n  path: b.json\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			writeFile(t, path, tt.content, time.Time{})
			cat, err := LoadManifest(path)
			if err != nil {
				t.Fatalf("LoadManifest: %v", err)
			}
			if len(cat.Datasets) != tt.want {
				t.Fatalf("got %d datasets, want %d", len(cat.Datasets), tt.want)
			}
			if cat.Origin != path {
				t.Errorf("Origin = %q", cat.Origin)
			}
		})
	}

	t.Run("source normalized", func(t *testing.T) {
		cat, err := LoadManifest(filepath.Join(dir, "api.json"))
		if err != nil {
			t.Fatal(err)
		}
		b, _ := cat.Lookup("b")
		if b.Source != model.SourceTwitter {
			t.Errorf("Source = %q, want twitter", b.Source)
		}
		a, _ := cat.Lookup("a")
		if a.DateRange != "Last 7 days" {
			t.Errorf("DateRange = %q", a.DateRange)
		}
	})

	t.Run("unknown extension", func(t *testing.T) {
		path := filepath.Join(dir, "catalog.txt")
		writeFile(t, path, "[]", time.Time{})
		if _, err := LoadManifest(path); !errors.Is(err, ErrUnknownManifestFormat) {
			t.Fatalf("err = %v, want ErrUnknownManifestFormat", err)
		}
	})

	t.Run("failed response", func(t *testing.T) {
		path := filepath.Join(dir, "failed.json")
		writeFile(t, path, `{"success":false,"error":"Failed to load datasets"}`, time.Time{})
		if _, err := LoadManifest(path); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestLoadPrefersManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := filepath.Join(dir, "catalog.json")
	writeFile(t, manifest, `[{"id":"from-manifest","path":"x.json"}]`, time.Time{})
	writeFile(t, filepath.Join(dir, "reddit", "from_dir.json"), `[]`, time.Time{})

	cat, err := Load(Options{DataDir: dir, Manifest: manifest})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cat.Lookup("from-manifest"); !ok {
		t.Fatal("manifest not used")
	}

	cat, err = Load(Options{DataDir: dir, Location: time.UTC})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := cat.Lookup("from_dir"); !ok {
		t.Fatal("directory not scanned")
	}

	if _, err := Load(Options{}); !errors.Is(err, ErrDataDirNotFound) {
		t.Fatalf("err = %v, want ErrDataDirNotFound", err)
	}
}
