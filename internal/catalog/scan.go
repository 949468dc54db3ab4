package catalog

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/aidanlsb/socialscope/internal/dates"
	"github.com/aidanlsb/socialscope/internal/model"
)

var titleCaser = cases.Title(language.Und)

// Scan builds a catalog from dataDir/reddit and dataDir/twitter. Missing
// source directories are skipped. Files whose item count cannot be read are
// still listed, with a warning.
func Scan(dataDir string, loc *time.Location) (*Catalog, error) {
	if loc == nil {
		loc = time.Local
	}
	if !dirExists(dataDir) {
		return nil, fmt.Errorf("%w: %s", ErrDataDirNotFound, dataDir)
	}

	cat := &Catalog{Origin: dataDir}
	for _, src := range model.Sources {
		dir := filepath.Join(dataDir, string(src))
		if !dirExists(dir) {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || fileType(e.Name()) == "" {
				continue
			}
			ds, err := describe(src, dir, e.Name(), loc, cat)
			if err != nil {
				cat.warnf("skipping %s/%s: %v", src, e.Name(), err)
				continue
			}
			cat.Datasets = append(cat.Datasets, ds)
		}
	}

	sort.SliceStable(cat.Datasets, func(i, j int) bool {
		a, b := cat.Datasets[i], cat.Datasets[j]
		if !a.Modified.Equal(b.Modified) {
			return a.Modified.After(b.Modified)
		}
		return a.ID < b.ID
	})
	return cat, nil
}

func describe(src model.Source, dir, name string, loc *time.Location, cat *Catalog) (model.Dataset, error) {
	full := filepath.Join(dir, name)
	info, err := os.Stat(full)
	if err != nil {
		return model.Dataset{}, err
	}

	typ := fileType(name)
	stem := strings.TrimSuffix(name, filepath.Ext(name))

	count, err := countItems(full, typ)
	if err != nil {
		cat.warnf("error reading %s/%s: %v", src, name, err)
		count = 0
	}

	return model.Dataset{
		ID:        stem,
		Name:      DisplayName(name),
		Source:    src,
		Path:      "/data/" + string(src) + "/" + name,
		DateRange: FilenameDateHint(name, loc),
		Type:      typ,
		Size:      FormatSize(info.Size()),
		ItemCount: count,
		Modified:  info.ModTime(),
	}, nil
}

// fileType returns "json" or "csv" for dataset files, "" otherwise.
func fileType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return "json"
	case ".csv":
		return "csv"
	}
	return ""
}

// DisplayName turns "drivingsg_data_20250318.json" into
// "Drivingsg Data 20250318 (JSON)".
func DisplayName(name string) string {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	label := "CSV"
	if fileType(name) == "json" {
		label = "JSON"
	}
	return titleCaser.String(strings.ReplaceAll(stem, "_", " ")) + " (" + label + ")"
}

// FormatSize renders a byte count with 1024-based units.
func FormatSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}

// FilenameDateHint derives date_range metadata from a filename: the last
// "_"-separated part starting with "20", or failing that a part starting with
// "17" read as a Unix timestamp. Returns "" when neither is present.
func FilenameDateHint(name string, loc *time.Location) string {
	parts := strings.Split(name, "_")
	var hint string
	switch {
	case strings.Contains(name, "_20"):
		for _, p := range parts {
			if strings.HasPrefix(p, "20") {
				hint = strings.SplitN(p, ".", 2)[0]
			}
		}
	case strings.Contains(name, "_17"):
		for _, p := range parts {
			if !strings.HasPrefix(p, "17") {
				continue
			}
			ts, err := strconv.ParseInt(strings.SplitN(p, ".", 2)[0], 10, 64)
			if err != nil {
				continue
			}
			hint = time.Unix(ts, 0).In(loc).Format(dates.CompactLayout)
		}
	}
	return hint
}

func countItems(path, typ string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if typ == "json" {
		return countJSON(f)
	}
	return countCSV(f)
}

func countJSON(r io.Reader) (int, error) {
	var doc any
	if err := json.NewDecoder(bufio.NewReader(r)).Decode(&doc); err != nil {
		return 0, fmt.Errorf("parse json: %w", err)
	}
	switch v := doc.(type) {
	case []any:
		return len(v), nil
	case map[string]any:
		if data, ok := v["data"].([]any); ok {
			return len(data), nil
		}
	}
	return 0, nil
}

func countCSV(r io.Reader) (int, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows := 0
	for {
		_, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("parse csv: %w", err)
		}
		rows++
	}
	if rows == 0 {
		return 0, nil
	}
	return rows - 1, nil
}
