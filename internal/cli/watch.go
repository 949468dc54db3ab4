package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aidanlsb/socialscope/internal/audit"
	"github.com/aidanlsb/socialscope/internal/catalog"
	"github.com/aidanlsb/socialscope/internal/index"
	"github.com/aidanlsb/socialscope/internal/ui"
	"github.com/aidanlsb/socialscope/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the data directory and re-resolve on changes",
	Long: `Watch the data directory (or catalog manifest) for changes and re-resolve
every dataset's date range when files are added, changed or removed.

The watcher:
- Monitors .json and .csv files in reddit/ and twitter/
- Debounces rapid changes (waits 250ms after the last change)
- Reloads the whole catalog and rebuilds the coverage index on every change

Examples:
  socialscope watch
  socialscope watch --data-dir ~/datasets --log-level info`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// renderIndex prints the ranges table and a one-line summary of the rebuilt
// index.
func renderIndex(db *index.Database) (string, error) {
	records, err := db.All("")
	if err != nil {
		return "", err
	}
	stats, err := db.Stats()
	if err != nil {
		return "", err
	}
	return renderRanges(rangeViews(records)) + "\n" + formatStats(stats), nil
}

func formatStats(st *index.IndexStats) string {
	summary := fmt.Sprintf("Indexed %d datasets over %d distinct days", st.DatasetCount, st.DistinctDays)
	if st.FirstDay != "" {
		summary += fmt.Sprintf(" from %s to %s", st.FirstDay, st.LastDay)
	}
	if st.FallbackCount > 0 {
		summary += ", " + ui.Warningf("%d fallback", st.FallbackCount)
	}
	if st.RunID != "" {
		summary += " " + ui.Hint("run "+st.RunID)
	}
	return summary
}

func runWatch(cmd *cobra.Command, args []string) error {
	c := getConfig()
	opts, err := c.CatalogOptions()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}
	r, err := newResolver()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}

	db, err := index.OpenInMemory()
	if err != nil {
		return handleError(ErrDatabaseError, err, "")
	}
	defer db.Close()

	onReload := func(cat *catalog.Catalog, err error) {
		if err != nil {
			fmt.Fprintln(os.Stderr, ui.Errorf("Reload failed: %v", err))
			return
		}
		res := r.Resolve(cat.Datasets)
		if err := db.Rebuild(cat.Datasets, res); err != nil {
			fmt.Fprintln(os.Stderr, ui.Errorf("Index rebuild failed: %v", err))
			return
		}
		recordRun(audit.OpReload, "watch", cat.Origin, res)
		for _, w := range cat.Warnings {
			fmt.Println(ui.Warning(w))
		}
		out, err := renderIndex(db)
		if err != nil {
			fmt.Fprintln(os.Stderr, ui.Errorf("Index read failed: %v", err))
			return
		}
		fmt.Println(out)
	}

	w, err := watcher.New(watcher.Config{
		DataDir:  opts.DataDir,
		Manifest: opts.Manifest,
		Load:     func() (*catalog.Catalog, error) { return catalog.Load(opts) },
		OnReload: onReload,
		Logger:   cliLogger,
	})
	if err != nil {
		return handleError(ErrDataDirMissing, err, "Set data_dir in config.toml or pass --data-dir")
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	origin := opts.Manifest
	if origin == "" {
		origin = opts.DataDir
	}
	fmt.Printf("Watching %s\n", origin)
	fmt.Println(ui.Hint("Press Ctrl+C to stop"))
	fmt.Println()

	w.Reload()
	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return handleError(ErrInternal, err, "")
	}
	fmt.Println("\nShutting down watcher...")
	return nil
}
