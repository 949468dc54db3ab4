// Package slugs turns report titles and dataset ids into filenames and
// markdown anchors.
package slugs

import (
	"path/filepath"
	"strings"
	"unicode"

	goslug "github.com/gosimple/slug"
)

// Anchor converts a markdown heading to the fragment id renderers generate
// for it, so a report's summary table can link to dataset sections.
func Anchor(heading string) string {
	var b strings.Builder
	prevDash := false

	for _, r := range strings.ToLower(heading) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		case r == ' ' || r == '-' || r == '_' || r == ':':
			if !prevDash && b.Len() > 0 {
				b.WriteRune('-')
				prevDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// File converts a title or dataset id into a filename stem. A known file
// extension is dropped first so "tweets_2025.csv" and "tweets_2025" agree.
// Underscores survive, matching gosimple/slug.
func File(s string) string {
	switch strings.ToLower(filepath.Ext(s)) {
	case ".json", ".csv", ".md", ".html":
		s = strings.TrimSuffix(s, filepath.Ext(s))
	}
	slugged := goslug.Make(s)
	if slugged == "" {
		slugged = strings.ToLower(strings.Join(strings.Fields(s), "-"))
	}
	if slugged == "" {
		slugged = "untitled"
	}
	return slugged
}
