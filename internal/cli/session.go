package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/socialscope/internal/audit"
	"github.com/aidanlsb/socialscope/internal/catalog"
	"github.com/aidanlsb/socialscope/internal/index"
	"github.com/aidanlsb/socialscope/internal/logger"
	"github.com/aidanlsb/socialscope/internal/model"
	"github.com/aidanlsb/socialscope/internal/resolver"
	"github.com/aidanlsb/socialscope/internal/ui"
)

// session is one loaded and resolved catalog.
type session struct {
	catalog  *catalog.Catalog
	resolver *resolver.Resolver
	res      *resolver.Resolution
	loc      *time.Location
}

// loadSession loads the configured catalog and resolves every dataset. The
// run is recorded in the audit log when one is configured.
func loadSession(cmd *cobra.Command) (*session, error) {
	c := getConfig()

	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	opts, err := c.CatalogOptions()
	if err != nil {
		return nil, err
	}

	spinner := ui.NewSpinner("Loading catalog...")
	spinner.Start()
	cat, err := catalog.Load(opts)
	spinner.Stop()
	if err != nil {
		return nil, err
	}

	r, err := newResolver()
	if err != nil {
		return nil, err
	}
	s := &session{
		catalog:  cat,
		resolver: r,
		res:      r.Resolve(cat.Datasets),
		loc:      loc,
	}
	recordRun(audit.OpResolve, cmd.Name(), cat.Origin, s.res)
	return s, nil
}

// recordRun appends a resolution run to the audit log. Failures are logged
// and otherwise ignored.
func recordRun(op, command, origin string, res *resolver.Resolution) {
	if err := audit.New(getConfig().AuditLogPath()).LogResolution(op, command, origin, res); err != nil {
		cliLogger.Warn("failed to write audit log", logger.Error(err))
	}
}

func newResolver() (*resolver.Resolver, error) {
	params, err := getConfig().ResolverParams(nowFunc)
	if err != nil {
		return nil, err
	}
	return resolver.New(resolver.Options{Params: params, Logger: cliLogger}), nil
}

// today returns the start of the current day in the session location.
func (s *session) today() time.Time {
	return s.resolver.Params().Today()
}

// lookup finds a dataset in the coverage index and returns its record
// together with the resolved entry holding its calendar.
func (s *session) lookup(id string) (*index.DatasetResult, resolver.Entry, error) {
	db, err := s.openIndex()
	if err != nil {
		return nil, resolver.Entry{}, err
	}
	defer db.Close()

	rec, err := db.Get(id)
	if err != nil {
		return nil, resolver.Entry{}, err
	}
	e, err := s.res.Lookup(rec.ID)
	if err != nil {
		return nil, resolver.Entry{}, err
	}
	return rec, e, nil
}

// openIndex builds the in-memory coverage index for the session.
func (s *session) openIndex() (*index.Database, error) {
	db, err := index.OpenInMemory()
	if err != nil {
		return nil, err
	}
	if err := db.Rebuild(s.catalog.Datasets, s.res); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// warnings collects catalog problems and fallback ranges for the JSON envelope.
func (s *session) warnings() []Warning {
	var out []Warning
	for _, w := range s.catalog.Warnings {
		out = append(out, Warning{Code: WarnCatalog, Message: w})
	}
	for _, e := range s.res.Entries() {
		if e.Range.IsFallback {
			out = append(out, Warning{
				Code:    WarnFallbackRange,
				Message: "date range could not be inferred; using fallback window: " + e.Reason,
				Dataset: e.DatasetID,
			})
		}
	}
	if s.res.Skipped > 0 {
		out = append(out, Warning{
			Code:    WarnSkipped,
			Message: fmt.Sprintf("%d dataset(s) without an id were skipped", s.res.Skipped),
		})
	}
	return out
}

// printWarnings writes catalog warnings to stdout in text mode.
func (s *session) printWarnings() {
	for _, w := range s.catalog.Warnings {
		fmt.Println(ui.Warning(w))
	}
}

func (s *session) meta(count int) *Meta {
	return &Meta{Count: count, RunID: s.res.RunID, Origin: s.catalog.Origin}
}

// datasetsFor returns the catalog, optionally limited to one source.
func (s *session) datasetsFor(source string) ([]model.Dataset, error) {
	src, err := parseSourceFilter(source)
	if err != nil || src == "" {
		return s.catalog.Datasets, err
	}
	return s.catalog.BySource(model.Source(src)), nil
}

// parseSourceFilter validates a --source flag. Blank means every source.
func parseSourceFilter(source string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", nil
	}
	src, err := model.ParseSource(source)
	if err != nil {
		return "", err
	}
	return string(src), nil
}

// handleSessionError maps a loadSession failure to an error code.
func handleSessionError(err error) error {
	switch {
	case errors.Is(err, catalog.ErrDataDirNotFound):
		return handleError(ErrDataDirMissing, err,
			"Set data_dir in config.toml, SOCIALSCOPE_DATA_DIR, or pass --data-dir")
	case errors.Is(err, catalog.ErrUnknownManifestFormat):
		return handleError(ErrCatalogInvalid, err, "Catalog manifests must be .json, .yaml or .yml")
	case strings.Contains(err.Error(), "manifest"):
		return handleError(ErrCatalogInvalid, err, "")
	default:
		return handleError(ErrConfigInvalid, err, "")
	}
}

// handleLookupError maps a dataset lookup failure to an error code.
func handleLookupError(err error) error {
	if errors.Is(err, resolver.ErrUnknownDataset) || errors.Is(err, index.ErrDatasetNotFound) {
		return handleError(ErrDatasetNotFound, err, "Run 'socialscope datasets' to see available ids")
	}
	return handleError(ErrInternal, err, "")
}
