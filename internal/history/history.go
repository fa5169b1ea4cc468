// Package history keeps a local record of audit runs.
//
// Each run's summary lands in a SQLite database so trends are visible
// across audits ("average score went from 61 to 74 over five runs")
// without keeping every audit_results.json around. The full results
// document is not stored, only the summary numbers.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/auditworks/triage/internal/audit"
)

const schema = `
CREATE TABLE IF NOT EXISTS audit_runs (
	run_id      TEXT PRIMARY KEY,
	audit_date  TIMESTAMP NOT NULL,
	total       INTEGER NOT NULL,
	avg_score   REAL NOT NULL,
	compliant   INTEGER NOT NULL,
	noncompliant INTEGER NOT NULL,
	duplicates  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_runs_date ON audit_runs(audit_date);
`

// Entry is one recorded audit run.
type Entry struct {
	RunID        string    `json:"run_id"`
	AuditDate    time.Time `json:"audit_date"`
	Total        int       `json:"total"`
	AvgScore     float64   `json:"avg_score"`
	Compliant    int       `json:"compliant"`
	NonCompliant int       `json:"non_compliant"`
	Duplicates   int       `json:"duplicates"`
}

// Store is the SQLite-backed run history.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed initializes) the history database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores one audit run's summary. Recording the same run id twice
// is an error; a run is immutable once written.
func (s *Store) Record(ctx context.Context, results *audit.Results) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_runs (run_id, audit_date, total, avg_score, compliant, noncompliant, duplicates)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		results.Metadata.RunID,
		results.Metadata.AuditDate,
		results.Summary.TotalIssues,
		results.Summary.AverageScore,
		results.Summary.Compliant80Plus,
		results.Summary.NonCompliant,
		len(results.Duplicates),
	)
	if err != nil {
		return fmt.Errorf("record audit run %s: %w", results.Metadata.RunID, err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, audit_date, total, avg_score, compliant, noncompliant, duplicates
		 FROM audit_runs ORDER BY audit_date DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.RunID, &e.AuditDate, &e.Total, &e.AvgScore,
			&e.Compliant, &e.NonCompliant, &e.Duplicates); err != nil {
			return nil, fmt.Errorf("scan audit run: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Trend reports the average-score delta between the oldest and newest of
// the given entries. Zero when fewer than two runs exist.
func Trend(entries []Entry) float64 {
	if len(entries) < 2 {
		return 0
	}
	newest := entries[0]
	oldest := entries[len(entries)-1]
	return newest.AvgScore - oldest.AvgScore
}
