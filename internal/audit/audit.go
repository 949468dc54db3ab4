// Package audit provides an append-only log of resolution runs.
//
// Each line of the log is one JSON entry. The log is never rewritten; readers
// skip lines they cannot decode.
package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aidanlsb/socialscope/internal/resolver"
)

// Operations recorded in the log.
const (
	OpResolve = "resolve"
	OpReload  = "reload"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp time.Time `json:"ts"`
	Operation string    `json:"op"` // resolve, reload
	RunID     string    `json:"run_id"`
	Origin    string    `json:"origin,omitempty"` // data directory or manifest
	Command   string    `json:"command,omitempty"`
	Datasets  int       `json:"datasets"`
	Skipped   int       `json:"skipped,omitempty"`
	Defaults  int       `json:"defaults,omitempty"`
	// Fallbacks lists datasets whose resolution failed.
	Fallbacks []string `json:"fallbacks,omitempty"`
}

// Logger handles writing to the audit log.
type Logger struct {
	path    string
	enabled bool
	mu      sync.Mutex
}

// New creates an audit logger appending to path. An empty path yields a
// no-op logger.
func New(path string) *Logger {
	if path == "" {
		return &Logger{enabled: false}
	}
	return &Logger{path: path, enabled: true}
}

// Enabled returns true if the audit logger is enabled.
func (l *Logger) Enabled() bool {
	return l.enabled
}

// Log writes an entry to the audit log.
func (l *Logger) Log(entry Entry) error {
	if !l.enabled {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create audit directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// LogResolution records one resolution run.
func (l *Logger) LogResolution(op, command, origin string, res *resolver.Resolution) error {
	if !l.enabled || res == nil {
		return nil
	}
	entry := Entry{
		Timestamp: res.ResolvedAt.UTC(),
		Operation: op,
		RunID:     res.RunID,
		Origin:    origin,
		Command:   command,
		Datasets:  res.Len(),
		Skipped:   res.Skipped,
	}
	for _, e := range res.Entries() {
		switch {
		case e.Range.IsFallback:
			entry.Fallbacks = append(entry.Fallbacks, e.DatasetID)
		case e.Range.IsDefault:
			entry.Defaults++
		}
	}
	return l.Log(entry)
}

// Read reads all entries from the audit log, oldest first.
func (l *Logger) Read() ([]Entry, error) {
	if !l.enabled {
		return nil, nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}

	var entries []Entry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue // Skip malformed entries
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}
	return entries, nil
}

// ReadSince reads entries recorded at or after since.
func (l *Logger) ReadSince(since time.Time) ([]Entry, error) {
	all, err := l.Read()
	if err != nil {
		return nil, err
	}

	var filtered []Entry
	for _, entry := range all {
		if !entry.Timestamp.Before(since) {
			filtered = append(filtered, entry)
		}
	}
	return filtered, nil
}
