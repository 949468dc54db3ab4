// Package index holds the SQLite coverage index built from a resolution.
package index

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aidanlsb/socialscope/internal/dates"
	"github.com/aidanlsb/socialscope/internal/model"
	"github.com/aidanlsb/socialscope/internal/resolver"
)

// Database is the SQLite database handle.
type Database struct {
	db *sql.DB
}

// ErrDatasetNotFound indicates the requested dataset ID is not in the index.
var ErrDatasetNotFound = errors.New("dataset not found in index")

// OpenInMemory opens an empty in-memory index.
func OpenInMemory() (*Database, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every pooled connection to ":memory:" would get its own database.
	db.SetMaxOpenConns(1)

	d := &Database{db: db}
	if err := d.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the database.
func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) initialize() error {
	schema := `
		PRAGMA temp_store = MEMORY;

		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		-- One row per resolved dataset
		CREATE TABLE IF NOT EXISTS datasets (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			path TEXT NOT NULL,
			min_date TEXT NOT NULL,      -- YYYY-MM-DD
			max_date TEXT NOT NULL,      -- YYYY-MM-DD
			is_default INTEGER NOT NULL DEFAULT 0,
			is_fallback INTEGER NOT NULL DEFAULT 0,
			strategy TEXT NOT NULL,
			label TEXT NOT NULL,
			days INTEGER NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			position INTEGER NOT NULL    -- resolution order
		);

		-- One row per (day, dataset) in each availability calendar
		CREATE TABLE IF NOT EXISTS date_index (
			date TEXT NOT NULL,
			dataset_id TEXT NOT NULL,
			PRIMARY KEY (date, dataset_id)
		);

		CREATE INDEX IF NOT EXISTS idx_datasets_source ON datasets(source);
		CREATE INDEX IF NOT EXISTS idx_date_index_dataset ON date_index(dataset_id);
	`
	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}
	return nil
}

// Rebuild replaces the whole index with the given resolution. Catalog
// datasets supply source and path; entries without a matching dataset are
// indexed with empty values for both.
func (d *Database) Rebuild(catalog []model.Dataset, res *resolver.Resolution) error {
	byID := make(map[string]model.Dataset, len(catalog))
	for _, ds := range catalog {
		byID[strings.TrimSpace(ds.ID)] = ds
	}

	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin rebuild: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := clearAll(tx); err != nil {
		return err
	}

	dsStmt, err := tx.Prepare(`
		INSERT INTO datasets (id, source, path, min_date, max_date, is_default, is_fallback, strategy, label, days, reason, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare datasets insert: %w", err)
	}
	defer dsStmt.Close()

	dayStmt, err := tx.Prepare("INSERT OR IGNORE INTO date_index (date, dataset_id) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("prepare date_index insert: %w", err)
	}
	defer dayStmt.Close()

	for pos, e := range res.Entries() {
		ds := byID[e.DatasetID]
		if _, err := dsStmt.Exec(
			e.DatasetID, string(ds.Source), ds.Path,
			dates.Format(e.Range.MinDate), dates.Format(e.Range.MaxDate),
			e.Range.IsDefault, e.Range.IsFallback, e.Strategy,
			e.Range.Label(), e.Calendar.Len(), e.Reason, pos,
		); err != nil {
			return fmt.Errorf("index dataset %s: %w", e.DatasetID, err)
		}
		for _, day := range e.Calendar.Days() {
			if _, err := dayStmt.Exec(day, e.DatasetID); err != nil {
				return fmt.Errorf("index day %s for %s: %w", day, e.DatasetID, err)
			}
		}
	}

	if _, err := tx.Exec(
		"INSERT OR REPLACE INTO meta (key, value) VALUES ('run_id', ?), ('rebuilt_at', ?)",
		res.RunID, res.ResolvedAt.UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("write meta: %w", err)
	}

	return tx.Commit()
}

func clearAll(tx *sql.Tx) error {
	for _, table := range []string{"date_index", "datasets", "meta"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// IndexStats contains index statistics.
type IndexStats struct {
	DatasetCount  int    `json:"datasets"`
	DayRows       int    `json:"day_rows"`
	DistinctDays  int    `json:"distinct_days"`
	FirstDay      string `json:"first_day,omitempty"`
	LastDay       string `json:"last_day,omitempty"`
	FallbackCount int    `json:"fallbacks"`
	RunID         string `json:"run_id,omitempty"`
}

// Stats returns index statistics.
func (d *Database) Stats() (*IndexStats, error) {
	var stats IndexStats

	if err := d.db.QueryRow("SELECT COUNT(*), COALESCE(SUM(is_fallback), 0) FROM datasets").
		Scan(&stats.DatasetCount, &stats.FallbackCount); err != nil {
		return nil, err
	}

	var first, last sql.NullString
	if err := d.db.QueryRow("SELECT COUNT(*), COUNT(DISTINCT date), MIN(date), MAX(date) FROM date_index").
		Scan(&stats.DayRows, &stats.DistinctDays, &first, &last); err != nil {
		return nil, err
	}
	stats.FirstDay = first.String
	stats.LastDay = last.String

	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'run_id'").Scan(&stats.RunID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return &stats, nil
}
