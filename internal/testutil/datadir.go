// Package testutil provides reusable fixtures for socialscope tests.
package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"
)

// DataDir is a temporary data directory with reddit/ and twitter/ folders.
type DataDir struct {
	Path  string
	t     *testing.T
	files []dataFile
}

type dataFile struct {
	rel     string
	content string
	mtime   time.Time
}

// NewDataDir creates a new data directory builder.
// Call Build() to create the actual directory.
func NewDataDir(t *testing.T) *DataDir {
	t.Helper()
	return &DataDir{t: t}
}

// WithDataset adds a dataset file under source/. A zero mtime leaves the
// file's modification time at write time.
func (d *DataDir) WithDataset(source, name, content string, mtime time.Time) *DataDir {
	d.files = append(d.files, dataFile{rel: filepath.Join(source, name), content: content, mtime: mtime})
	return d
}

// WithFile adds an arbitrary file relative to the data directory root.
func (d *DataDir) WithFile(rel, content string) *DataDir {
	d.files = append(d.files, dataFile{rel: rel, content: content})
	return d
}

// Build creates the directory and all configured files.
func (d *DataDir) Build() *DataDir {
	d.t.Helper()
	d.Path = d.t.TempDir()
	for _, f := range d.files {
		d.write(f)
	}
	return d
}

// Write adds or replaces a file in a built directory.
func (d *DataDir) Write(rel, content string) {
	d.t.Helper()
	d.write(dataFile{rel: rel, content: content})
}

// Remove deletes a file from a built directory.
func (d *DataDir) Remove(rel string) {
	d.t.Helper()
	if err := os.Remove(filepath.Join(d.Path, rel)); err != nil {
		d.t.Fatalf("failed to remove %s: %v", rel, err)
	}
}

// Files lists the files under the directory, relative and sorted.
func (d *DataDir) Files() []string {
	d.t.Helper()
	var out []string
	err := filepath.WalkDir(d.Path, func(path string, entry os.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}
		rel, err := filepath.Rel(d.Path, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		d.t.Fatalf("failed to list %s: %v", d.Path, err)
	}
	sort.Strings(out)
	return out
}

func (d *DataDir) write(f dataFile) {
	d.t.Helper()
	full := filepath.Join(d.Path, f.rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		d.t.Fatalf("failed to create directory for %s: %v", f.rel, err)
	}
	if err := os.WriteFile(full, []byte(f.content), 0o644); err != nil {
		d.t.Fatalf("failed to write %s: %v", f.rel, err)
	}
	if !f.mtime.IsZero() {
		if err := os.Chtimes(full, f.mtime, f.mtime); err != nil {
			d.t.Fatalf("failed to set mtime on %s: %v", f.rel, err)
		}
	}
}
