// Package catalog builds the dataset catalog that the resolver consumes,
// either by scanning a data directory or by loading a manifest file.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aidanlsb/socialscope/internal/model"
)

// ErrDataDirNotFound is returned when the data directory does not exist.
var ErrDataDirNotFound = errors.New("data directory not found")

// Catalog is a loaded set of datasets plus non-fatal problems found while
// loading it.
type Catalog struct {
	Datasets []model.Dataset `json:"datasets"`

	// Origin is the directory or manifest the catalog came from.
	Origin string `json:"origin"`

	Warnings []string `json:"warnings,omitempty"`
}

// Options selects where a catalog is loaded from.
type Options struct {
	// DataDir holds reddit/ and twitter/ subdirectories.
	DataDir string

	// Manifest, when set, is loaded instead of scanning DataDir.
	Manifest string

	// Location is used to turn Unix timestamps in filenames into dates.
	// Defaults to time.Local.
	Location *time.Location
}

// Load builds a catalog from the manifest if one is configured, otherwise
// from the data directory.
func Load(opts Options) (*Catalog, error) {
	if strings.TrimSpace(opts.Manifest) != "" {
		return LoadManifest(opts.Manifest)
	}
	if strings.TrimSpace(opts.DataDir) == "" {
		return nil, fmt.Errorf("%w: no data_dir or catalog configured", ErrDataDirNotFound)
	}
	return Scan(opts.DataDir, opts.Location)
}

// Lookup returns the dataset with the given id.
func (c *Catalog) Lookup(id string) (model.Dataset, bool) {
	id = strings.TrimSpace(id)
	for _, ds := range c.Datasets {
		if ds.ID == id {
			return ds, true
		}
	}
	return model.Dataset{}, false
}

// BySource returns the datasets collected from src, in catalog order.
func (c *Catalog) BySource(src model.Source) []model.Dataset {
	var out []model.Dataset
	for _, ds := range c.Datasets {
		if ds.Source == src {
			out = append(out, ds)
		}
	}
	return out
}

func (c *Catalog) warnf(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
