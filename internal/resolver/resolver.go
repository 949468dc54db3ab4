// Package resolver turns a dataset catalog into per-dataset date ranges and
// availability calendars.
//
// Each dataset walks a fixed ladder: date_range metadata, then the filename,
// then a synthesized default window. A dataset whose resolution fails
// unexpectedly gets a fallback window instead; other datasets are unaffected.
package resolver

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aidanlsb/socialscope/internal/availability"
	"github.com/aidanlsb/socialscope/internal/daterange"
	"github.com/aidanlsb/socialscope/internal/dates"
	"github.com/aidanlsb/socialscope/internal/logger"
	"github.com/aidanlsb/socialscope/internal/model"
)

// Strategy names recorded on entries that were not parsed from input.
const (
	StrategyDefault  = "default"
	StrategyFallback = "fallback"
)

// ErrUnknownDataset is returned by lookups for ids missing from a resolution.
var ErrUnknownDataset = errors.New("dataset not found")

// Options configures a Resolver.
type Options struct {
	Params daterange.Params

	// Parser overrides the metadata parser (and, through it, the filename cascade).
	Parser *daterange.Parser

	Logger logger.Logger

	// NewRunID generates the id attached to each run's log entries.
	NewRunID func() string
}

// Resolver resolves catalogs. It holds no per-run state and may be reused.
type Resolver struct {
	params   daterange.Params
	parser   *daterange.Parser
	log      logger.Logger
	newRunID func() string
}

// New creates a Resolver, filling unset options with defaults.
func New(opts Options) *Resolver {
	params := opts.Params
	params.SetDefaults()

	parser := opts.Parser
	if parser == nil {
		parser = daterange.NewParser(params)
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	newRunID := opts.NewRunID
	if newRunID == nil {
		newRunID = uuid.NewString
	}

	return &Resolver{params: params, parser: parser, log: log, newRunID: newRunID}
}

// Params returns the effective policy parameters.
func (r *Resolver) Params() daterange.Params {
	return r.params
}

// DefaultRange returns the synthesized window ending today.
func (r *Resolver) DefaultRange() model.DateRange {
	today := r.params.Today()
	rng := model.NewDateRange(dates.AddDays(today, -r.params.WindowDays), today)
	rng.IsDefault = true
	return rng
}

// Resolve builds a fresh Resolution for the catalog. Datasets without an id
// produce no entry. When ids repeat, the later dataset replaces the earlier one.
func (r *Resolver) Resolve(datasets []model.Dataset) *Resolution {
	start := r.params.Now()
	res := newResolution(r.newRunID(), start)
	log := r.log.With(logger.String("run_id", res.RunID))

	for _, ds := range datasets {
		id := strings.TrimSpace(ds.ID)

		entry, err := r.resolveOne(ds)
		if err != nil {
			log.Error("date range resolution failed",
				logger.String("dataset", id),
				logger.String("path", ds.Path),
				logger.Error(err),
			)
			if id == "" {
				res.Skipped++
				continue
			}
			fallback := r.DefaultRange()
			fallback.IsFallback = true
			entry = Entry{
				DatasetID: id,
				Range:     fallback,
				Calendar:  availability.Generate(fallback),
				Strategy:  StrategyFallback,
				Reason:    err.Error(),
			}
		}
		if id == "" {
			log.Warn("skipping dataset without id", logger.String("path", ds.Path))
			res.Skipped++
			continue
		}

		entry.DatasetID = id
		res.put(entry)
		log.Debug("resolved dataset",
			logger.String("dataset", id),
			logger.String("strategy", entry.Strategy),
			logger.Date("min_date", entry.Range.MinDate),
			logger.Date("max_date", entry.Range.MaxDate),
			logger.Int("days", entry.Calendar.Len()),
		)
	}

	log.Info("resolved catalog",
		logger.Int("datasets", len(res.order)),
		logger.Int("skipped", res.Skipped),
		logger.Duration("elapsed", r.params.Now().Sub(start)),
	)
	return res
}

// resolveOne walks the ladder for a single dataset. Panics from strategies and
// ranges that violate MinDate <= MaxDate are reported as errors.
func (r *Resolver) resolveOne(ds model.Dataset) (entry Entry, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			entry = Entry{}
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	rng, strategy := r.ladder(ds)
	if !rng.Valid() {
		return Entry{}, fmt.Errorf("strategy %s produced an invalid range %s..%s",
			strategy, dates.Format(rng.MinDate), dates.Format(rng.MaxDate))
	}
	return Entry{
		Range:    rng,
		Calendar: availability.Generate(rng),
		Strategy: strategy,
	}, nil
}

func (r *Resolver) ladder(ds model.Dataset) (model.DateRange, string) {
	if ds.HasDateMetadata() {
		if rng, name, ok := r.parser.Parse(ds.DateRange, ds.Path); ok {
			if strings.HasPrefix(name, "filename:") {
				return rng, name
			}
			return rng, "metadata:" + name
		}
	}
	if r.parser.Filename != nil {
		if rng, name, ok := r.parser.Filename.Infer(ds.Path); ok {
			return rng, "filename:" + name
		}
	}
	return r.DefaultRange(), StrategyDefault
}

// Entry is the resolved state of one dataset.
type Entry struct {
	DatasetID string                 `json:"dataset_id"`
	Range     model.DateRange        `json:"range"`
	Calendar  *availability.Calendar `json:"-"`
	// Strategy names the rung that produced Range, e.g. "metadata:explicit-to",
	// "filename:trailing-timestamp", "default" or "fallback".
	Strategy string `json:"strategy"`
	// Reason explains a fallback.
	Reason string `json:"reason,omitempty"`
}

// Resolution is the full output of one run, keyed by dataset id.
type Resolution struct {
	RunID      string
	ResolvedAt time.Time
	// Skipped counts datasets that produced no entry.
	Skipped int

	entries map[string]Entry
	order   []string
}

func newResolution(runID string, at time.Time) *Resolution {
	return &Resolution{
		RunID:      runID,
		ResolvedAt: at,
		entries:    make(map[string]Entry),
	}
}

func (res *Resolution) put(e Entry) {
	if _, exists := res.entries[e.DatasetID]; !exists {
		res.order = append(res.order, e.DatasetID)
	}
	res.entries[e.DatasetID] = e
}

// Len returns the number of resolved datasets.
func (res *Resolution) Len() int {
	return len(res.order)
}

// Entries returns entries in catalog order.
func (res *Resolution) Entries() []Entry {
	out := make([]Entry, 0, len(res.order))
	for _, id := range res.order {
		out = append(out, res.entries[id])
	}
	return out
}

// Lookup returns the entry for id.
func (res *Resolution) Lookup(id string) (Entry, error) {
	e, ok := res.entries[strings.TrimSpace(id)]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownDataset, id)
	}
	return e, nil
}

// Ranges returns a copy of the id -> DateRange mapping.
func (res *Resolution) Ranges() map[string]model.DateRange {
	out := make(map[string]model.DateRange, len(res.entries))
	for id, e := range res.entries {
		out[id] = e.Range
	}
	return out
}

// Calendars returns a copy of the id -> Calendar mapping.
func (res *Resolution) Calendars() map[string]*availability.Calendar {
	out := make(map[string]*availability.Calendar, len(res.entries))
	for id, e := range res.entries {
		out[id] = e.Calendar
	}
	return out
}
