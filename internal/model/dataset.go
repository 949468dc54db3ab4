package model

import (
	"fmt"
	"strings"
	"time"
)

// Source is the social network a dataset was collected from.
type Source string

const (
	SourceReddit  Source = "reddit"
	SourceTwitter Source = "twitter"
)

// Sources lists the known sources in catalog order.
var Sources = []Source{SourceReddit, SourceTwitter}

// ParseSource normalizes a source name.
func ParseSource(s string) (Source, error) {
	switch Source(strings.ToLower(strings.TrimSpace(s))) {
	case SourceReddit:
		return SourceReddit, nil
	case SourceTwitter:
		return SourceTwitter, nil
	default:
		return "", fmt.Errorf("unknown source %q (want reddit or twitter)", s)
	}
}

// AllTime is the catalog's sentinel for "no date metadata".
const AllTime = "All time"

// Dataset describes one ingested social-media data file.
// Datasets are immutable once loaded from the catalog.
type Dataset struct {
	// ID uniquely identifies the dataset, typically the filename stem.
	ID string `json:"id" yaml:"id"`

	// Name is the human-readable display name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	Source Source `json:"source" yaml:"source"`

	// Path is the server-relative path, e.g. "/data/reddit/foo_20250318_155441.json".
	// Only its final segment is used for date inference.
	Path string `json:"path" yaml:"path"`

	// DateRange is the free-text date range metadata, if any.
	DateRange string `json:"date_range,omitempty" yaml:"date_range,omitempty"`

	// Type is the file type ("json" or "csv").
	Type string `json:"type" yaml:"type"`

	// Size is the display size, e.g. "1.2 MB".
	Size string `json:"size,omitempty" yaml:"size,omitempty"`

	ItemCount int `json:"item_count" yaml:"item_count"`

	// Modified is the file modification time, when known.
	Modified time.Time `json:"modified,omitempty" yaml:"modified,omitempty"`
}

// HasDateMetadata reports whether the dataset carries usable date_range text.
func (d Dataset) HasDateMetadata() bool {
	s := strings.TrimSpace(d.DateRange)
	return s != "" && s != AllTime
}

// FileName returns the final path segment of the dataset path.
func (d Dataset) FileName() string {
	return FileName(d.Path)
}

// FileName returns the final "/"-separated segment of a path.
func FileName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
