package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/aidanlsb/socialscope/internal/catalog"
)

func newTestWatcher(t *testing.T, cfg Config) *Watcher {
	t.Helper()
	if cfg.Load == nil {
		cfg.Load = func() (*catalog.Catalog, error) { return &catalog.Catalog{}, nil }
	}
	if cfg.OnReload == nil {
		cfg.OnReload = func(*catalog.Catalog, error) {}
	}
	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w
}

func TestNewValidation(t *testing.T) {
	load := func() (*catalog.Catalog, error) { return nil, nil }
	cb := func(*catalog.Catalog, error) {}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"no source", Config{Load: load, OnReload: cb}},
		{"no load", Config{DataDir: "/d", OnReload: cb}},
		{"no callback", Config{DataDir: "/d", Load: load}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRelevant(t *testing.T) {
	w := newTestWatcher(t, Config{DataDir: "/data"})

	tests := []struct {
		path string
		want bool
	}{
		{"/data/reddit/a.json", true},
		{"/data/twitter/b.CSV", true},
		{"/data/twitter", true},
		{"/data/reddit/notes.txt", false},
		{"/data/other/a.json", false},
		{"/data/a.json", false},
		{"/data/reddit/nested/a.json", false},
		{"/data/Reddit", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := w.relevant(tt.path); got != tt.want {
				t.Errorf("relevant(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}

	m := newTestWatcher(t, Config{Manifest: "/etc/socialscope/datasets.yaml"})
	if !m.relevant("/etc/socialscope/datasets.yaml") {
		t.Error("manifest change not relevant")
	}
	if m.relevant("/etc/socialscope/other.yaml") {
		t.Error("sibling of manifest treated as relevant")
	}
}

func TestDebounceCoalescesEvents(t *testing.T) {
	reloads := 0
	w := newTestWatcher(t, Config{
		DataDir:       "/data",
		DebounceDelay: time.Second,
		OnReload:      func(*catalog.Catalog, error) { reloads++ },
	})
	clock := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return clock }

	w.handleEvent(fsnotify.Event{Name: "/data/reddit/a.json", Op: fsnotify.Create})
	clock = clock.Add(600 * time.Millisecond)
	w.handleEvent(fsnotify.Event{Name: "/data/reddit/a.json", Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: "/data/reddit/a.json", Op: fsnotify.Chmod})
	w.handleEvent(fsnotify.Event{Name: "/data/reddit/a.txt", Op: fsnotify.Write})

	clock = clock.Add(600 * time.Millisecond)
	if w.processPending() {
		t.Fatal("reloaded before the quiet period ended")
	}
	clock = clock.Add(500 * time.Millisecond)
	if !w.processPending() {
		t.Fatal("reload did not run after the quiet period")
	}
	if w.processPending() {
		t.Fatal("reload ran twice for one burst")
	}
	if reloads != 1 {
		t.Fatalf("reloads = %d, want 1", reloads)
	}
}

func TestReloadPassesErrors(t *testing.T) {
	boom := errors.New("boom")
	var got error
	w := newTestWatcher(t, Config{
		DataDir:  "/data",
		Load:     func() (*catalog.Catalog, error) { return nil, boom },
		OnReload: func(_ *catalog.Catalog, err error) { got = err },
	})
	w.Reload()
	if !errors.Is(got, boom) {
		t.Fatalf("callback err = %v, want boom", got)
	}
}

func TestStartReloadsOnFileChange(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "reddit"), 0o755); err != nil {
		t.Fatal(err)
	}

	var once sync.Once
	reloaded := make(chan *catalog.Catalog, 1)
	w := newTestWatcher(t, Config{
		DataDir:       dir,
		DebounceDelay: 20 * time.Millisecond,
		Load:          func() (*catalog.Catalog, error) { return catalog.Scan(dir, time.UTC) },
		OnReload: func(cat *catalog.Catalog, err error) {
			if err == nil {
				once.Do(func() { reloaded <- cat })
			}
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- w.Start(ctx) }()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "reddit", "new_20250318_1.json"), []byte("[1,2]"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cat := <-reloaded:
		if _, ok := cat.Lookup("new_20250318_1"); !ok {
			t.Fatalf("reloaded catalog missing new dataset: %+v", cat.Datasets)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	cancel()
	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Start returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
