// Package watcher reloads the dataset catalog when the data directory changes.
//
// Changes are debounced into a single full reload: the catalog is always
// rebuilt from scratch, never patched.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aidanlsb/socialscope/internal/catalog"
	"github.com/aidanlsb/socialscope/internal/logger"
	"github.com/aidanlsb/socialscope/internal/model"
)

// DefaultDebounce is the quiet period before a reload.
const DefaultDebounce = 250 * time.Millisecond

// Watcher monitors a data directory or manifest and reloads the catalog.
type Watcher struct {
	dataDir  string
	manifest string
	load     func() (*catalog.Catalog, error)
	onReload func(*catalog.Catalog, error)
	log      logger.Logger

	debounceDelay time.Duration
	now           func() time.Time

	fsWatcher *fsnotify.Watcher
	mu        sync.Mutex
	pending   bool
	lastEvent time.Time
}

// Config holds configuration options for the Watcher.
type Config struct {
	// DataDir is watched along with its reddit/ and twitter/ subdirectories.
	DataDir string

	// Manifest, when set, is watched instead of DataDir.
	Manifest string

	// Load rebuilds the catalog. Required.
	Load func() (*catalog.Catalog, error)

	// OnReload receives every reload result. Required.
	OnReload func(*catalog.Catalog, error)

	DebounceDelay time.Duration // Default: DefaultDebounce
	Logger        logger.Logger
}

// New creates a new Watcher with the given configuration.
func New(cfg Config) (*Watcher, error) {
	if cfg.DataDir == "" && cfg.Manifest == "" {
		return nil, fmt.Errorf("data directory or manifest is required")
	}
	if cfg.Load == nil {
		return nil, fmt.Errorf("load function is required")
	}
	if cfg.OnReload == nil {
		return nil, fmt.Errorf("reload callback is required")
	}

	debounce := cfg.DebounceDelay
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}

	return &Watcher{
		dataDir:       filepath.Clean(cfg.DataDir),
		manifest:      cfg.Manifest,
		load:          cfg.Load,
		onReload:      cfg.OnReload,
		log:           log,
		debounceDelay: debounce,
		now:           time.Now,
	}, nil
}

// Start begins watching. It blocks until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	var err error
	w.fsWatcher, err = fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.fsWatcher.Close()

	if err := w.addWatches(); err != nil {
		return err
	}

	go w.processDebounced(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", logger.Error(err))
		}
	}
}

func (w *Watcher) addWatches() error {
	if w.manifest != "" {
		dir := filepath.Dir(w.manifest)
		if err := w.fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.log.Info("watching manifest", logger.String("path", w.manifest))
		return nil
	}

	if err := w.fsWatcher.Add(w.dataDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dataDir, err)
	}
	for _, src := range model.Sources {
		w.watchSourceDir(filepath.Join(w.dataDir, string(src)))
	}
	w.log.Info("watching data directory", logger.String("path", w.dataDir))
	return nil
}

func (w *Watcher) watchSourceDir(dir string) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		w.log.Warn("failed to watch directory", logger.String("path", dir), logger.Error(err))
	}
}

// handleEvent processes a single filesystem event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	// A source directory created after startup needs its own watch.
	if w.manifest == "" && event.Op&fsnotify.Create != 0 && w.isSourceDir(event.Name) {
		w.watchSourceDir(event.Name)
		w.schedule()
		return
	}

	if !w.relevant(event.Name) {
		return
	}
	w.log.Debug("change detected", logger.String("op", event.Op.String()), logger.String("path", event.Name))
	w.schedule()
}

// relevant reports whether a change to path affects the catalog.
func (w *Watcher) relevant(path string) bool {
	if w.manifest != "" {
		return filepath.Clean(path) == filepath.Clean(w.manifest)
	}
	if w.isSourceDir(path) {
		return true
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".csv":
	default:
		return false
	}
	return w.isSourceDir(filepath.Dir(path))
}

func (w *Watcher) isSourceDir(path string) bool {
	if filepath.Clean(filepath.Dir(path)) != w.dataDir {
		return false
	}
	_, err := model.ParseSource(filepath.Base(path))
	return err == nil && filepath.Base(path) == strings.ToLower(filepath.Base(path))
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = true
	w.lastEvent = w.now()
}

// processDebounced checks for a due reload until the context ends.
func (w *Watcher) processDebounced(ctx context.Context) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.processPending()
		}
	}
}

// processPending reloads once the debounce delay has passed since the last
// event. It reports whether a reload ran.
func (w *Watcher) processPending() bool {
	w.mu.Lock()
	due := w.pending && w.now().Sub(w.lastEvent) >= w.debounceDelay
	if due {
		w.pending = false
	}
	w.mu.Unlock()

	if !due {
		return false
	}
	w.Reload()
	return true
}

// Reload rebuilds the catalog immediately and passes it to the callback.
func (w *Watcher) Reload() {
	cat, err := w.load()
	if err != nil {
		w.log.Error("catalog reload failed", logger.Error(err))
	} else {
		w.log.Info("catalog reloaded", logger.Int("datasets", len(cat.Datasets)))
	}
	w.onReload(cat, err)
}
