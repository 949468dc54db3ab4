// Package report renders dataset coverage as markdown and HTML.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/aidanlsb/socialscope/internal/dates"
	"github.com/aidanlsb/socialscope/internal/model"
	"github.com/aidanlsb/socialscope/internal/resolver"
)

// DefaultTitle is used when Options.Title is empty.
const DefaultTitle = "Dataset Coverage"

// Options controls report content.
type Options struct {
	Title string

	// GeneratedAt is printed in the report header.
	GeneratedAt time.Time

	// Source, when set, limits the report to one source.
	Source model.Source
}

// Build renders the coverage report for a resolved catalog as markdown.
// Datasets appear in catalog order; datasets without an entry are listed as
// unresolved.
func Build(catalog []model.Dataset, res *resolver.Resolution, opts Options) string {
	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = DefaultTitle
	}

	var rows []row
	seen := make(map[string]bool)
	for _, ds := range catalog {
		id := strings.TrimSpace(ds.ID)
		if opts.Source != "" && ds.Source != opts.Source {
			continue
		}
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		e, err := res.Lookup(id)
		rows = append(rows, row{ds: ds, entry: e, resolved: err == nil})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Generated %s. %d datasets", opts.GeneratedAt.Format("2006-01-02 15:04 MST"), len(rows))
	if res.Skipped > 0 {
		fmt.Fprintf(&b, ", %d skipped without an id", res.Skipped)
	}
	b.WriteString(".\n\n")

	writeSummary(&b, rows)
	writeSections(&b, rows)
	return b.String()
}

type row struct {
	ds       model.Dataset
	entry    resolver.Entry
	resolved bool
}

func writeSummary(b *strings.Builder, rows []row) {
	b.WriteString("## Summary\n\n")
	if len(rows) == 0 {
		b.WriteString("No datasets found.\n\n")
		return
	}

	var first, last time.Time
	estimated := 0
	for _, r := range rows {
		if !r.resolved {
			continue
		}
		rng := r.entry.Range
		if first.IsZero() || rng.MinDate.Before(first) {
			first = rng.MinDate
		}
		if last.IsZero() || rng.MaxDate.After(last) {
			last = rng.MaxDate
		}
		if rng.IsDefault {
			estimated++
		}
	}
	if !first.IsZero() {
		fmt.Fprintf(b, "Overall span: %s to %s. Estimated ranges: %d.\n\n", dates.Format(first), dates.Format(last), estimated)
	}

	b.WriteString("| Dataset | Source | Range | Days | Inferred from |\n")
	b.WriteString("|---|---|---|---:|---|\n")
	for _, r := range rows {
		if !r.resolved {
			fmt.Fprintf(b, "| %s | %s | unresolved | 0 | |\n", cell(r.ds.ID), r.ds.Source)
			continue
		}
		fmt.Fprintf(b, "| %s | %s | %s | %d | %s |\n",
			cell(r.ds.ID), r.ds.Source, cell(r.entry.Range.Label()), r.entry.Calendar.Len(), cell(r.entry.Strategy))
	}
	b.WriteString("\n")
}

func writeSections(b *strings.Builder, rows []row) {
	if len(rows) == 0 {
		return
	}
	b.WriteString("## Datasets\n\n")
	for _, r := range rows {
		ds := r.ds
		fmt.Fprintf(b, "### %s\n\n", ds.ID)
		if ds.Name != "" {
			fmt.Fprintf(b, "- **Name:** %s\n", ds.Name)
		}
		fmt.Fprintf(b, "- **Source:** %s\n", ds.Source)
		fmt.Fprintf(b, "- **Path:** `%s`\n", ds.Path)
		if ds.Type != "" {
			fmt.Fprintf(b, "- **Type:** %s\n", ds.Type)
		}
		fmt.Fprintf(b, "- **Items:** %d\n", ds.ItemCount)
		if ds.Size != "" {
			fmt.Fprintf(b, "- **Size:** %s\n", ds.Size)
		}
		if ds.HasDateMetadata() {
			fmt.Fprintf(b, "- **Date metadata:** %s\n", ds.DateRange)
		}

		if !r.resolved {
			b.WriteString("- **Range:** unresolved\n\n")
			continue
		}
		e := r.entry
		fmt.Fprintf(b, "- **Range:** %s\n", e.Range.Label())
		fmt.Fprintf(b, "- **Days available:** %d\n", e.Calendar.Len())
		if days := e.Calendar.Days(); len(days) > 0 {
			fmt.Fprintf(b, "- **First day:** %s\n", days[0])
			fmt.Fprintf(b, "- **Last day:** %s\n", days[len(days)-1])
		}
		fmt.Fprintf(b, "- **Inferred from:** %s\n", e.Strategy)

		switch {
		case e.Range.IsFallback:
			fmt.Fprintf(b, "\n> Resolution failed (%s); showing the default window.\n", e.Reason)
		case e.Range.IsDefault:
			b.WriteString("\n> No date information found; showing the default window.\n")
		}
		b.WriteString("\n")
	}
}

// cell escapes pipes inside table cells.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
