package index

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// DatasetResult represents one indexed dataset.
type DatasetResult struct {
	ID         string `json:"id"`
	Source     string `json:"source"`
	Path       string `json:"path"`
	MinDate    string `json:"min_date"`
	MaxDate    string `json:"max_date"`
	IsDefault  bool   `json:"is_default"`
	IsFallback bool   `json:"is_fallback"`
	Strategy   string `json:"strategy"`
	Label      string `json:"label"`
	Days       int    `json:"days"`
	Reason     string `json:"reason,omitempty"`
}

// DayCount is the number of datasets available on a day.
type DayCount struct {
	Date     string `json:"date"`
	Datasets int    `json:"datasets"`
}

const datasetColumns = "id, source, path, min_date, max_date, is_default, is_fallback, strategy, label, days, reason"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDataset(row rowScanner) (DatasetResult, error) {
	var r DatasetResult
	err := row.Scan(&r.ID, &r.Source, &r.Path, &r.MinDate, &r.MaxDate, &r.IsDefault, &r.IsFallback,
		&r.Strategy, &r.Label, &r.Days, &r.Reason)
	return r, err
}

// Get returns the indexed dataset with the given ID.
func (d *Database) Get(id string) (*DatasetResult, error) {
	r, err := scanDataset(d.db.QueryRow("SELECT "+datasetColumns+" FROM datasets WHERE id = ?", strings.TrimSpace(id)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// All returns the indexed datasets in resolution order, limited to source
// unless it is empty.
func (d *Database) All(source string) ([]DatasetResult, error) {
	query := "SELECT " + datasetColumns + " FROM datasets"
	var args []any
	if source != "" {
		query += " WHERE source = ?"
		args = append(args, source)
	}
	rows, err := d.db.Query(query+" ORDER BY position", args...)
	if err != nil {
		return nil, err
	}
	return scanRows(rows, scanDataset)
}

// DatasetsCovering returns the datasets whose calendar contains day
// (YYYY-MM-DD), in catalog order.
func (d *Database) DatasetsCovering(day string) ([]DatasetResult, error) {
	rows, err := d.db.Query("SELECT "+datasetColumns+`
		FROM date_index di
		JOIN datasets d ON d.id = di.dataset_id
		WHERE di.date = ?
		ORDER BY d.position
	`, day)
	if err != nil {
		return nil, err
	}
	return scanRows(rows, scanDataset)
}

// DatasetsOverlapping returns the datasets available on at least one day in
// [start, end], in catalog order.
func (d *Database) DatasetsOverlapping(start, end string) ([]DatasetResult, error) {
	rows, err := d.db.Query("SELECT "+datasetColumns+" FROM datasets WHERE min_date <= ? AND max_date >= ? ORDER BY position", end, start)
	if err != nil {
		return nil, err
	}
	return scanRows(rows, scanDataset)
}

// DayCounts returns, for each day in [start, end] that at least one dataset
// covers, how many datasets cover it. When ids are given only those datasets
// are counted.
func (d *Database) DayCounts(start, end string, ids ...string) ([]DayCount, error) {
	query := "SELECT date, COUNT(*) FROM date_index WHERE date >= ? AND date <= ?"
	args := []any{start, end}
	if len(ids) > 0 {
		placeholders, idArgs := inClauseArgs(ids)
		query += " AND dataset_id IN (" + placeholders + ")"
		args = append(args, idArgs...)
	}
	query += " GROUP BY date ORDER BY date"

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	return scanRows(rows, func(rows rowScanner) (DayCount, error) {
		var c DayCount
		err := rows.Scan(&c.Date, &c.Datasets)
		return c, err
	})
}

// inClauseArgs returns "?" placeholders for items and the matching args.
// An empty list yields "NULL" so that IN (NULL) matches nothing.
func inClauseArgs(items []string) (string, []any) {
	if len(items) == 0 {
		return "NULL", nil
	}
	ph := make([]string, len(items))
	args := make([]any, len(items))
	for i, item := range items {
		ph[i] = "?"
		args[i] = item
	}
	return strings.Join(ph, ", "), args
}

// scanRows scans and closes rows.
func scanRows[T any](rows *sql.Rows, scan func(rowScanner) (T, error)) ([]T, error) {
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
