// Package datastore keeps a local history of pipeline runs. Artifacts on
// disk remain the source of truth; the store only records provenance so
// re-runs and partial runs can be traced.
package datastore

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run statuses, from creation to terminal state.
const (
	StatusPending   = "PENDING"
	StatusRunning   = "RUNNING"
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
)

// Run is one pipeline stage execution.
type Run struct {
	ID           string
	Stage        string
	DatasetPath  string
	Modality     string
	ItemCount    int
	FailureCount int
	Status       string
	CreatedAt    time.Time
	CompletedAt  sql.NullTime
}

// Store wraps the sqlite run-history database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS evaluation_runs (
	id            TEXT PRIMARY KEY,
	stage         TEXT NOT NULL,
	dataset_path  TEXT NOT NULL,
	modality      TEXT NOT NULL DEFAULT '',
	item_count    INTEGER NOT NULL DEFAULT 0,
	failure_count INTEGER NOT NULL DEFAULT 0,
	status        TEXT NOT NULL,
	created_at    TIMESTAMP NOT NULL,
	completed_at  TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON evaluation_runs(created_at);
`

// Open opens (and if needed initializes) the run-history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run store %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize run store schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// StartRun records a new stage execution and returns its id.
func (s *Store) StartRun(stage, datasetPath, modality string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO evaluation_runs (id, stage, dataset_path, modality, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, stage, datasetPath, modality, StatusRunning, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to record run start: %w", err)
	}
	return id, nil
}

// CompleteRun marks a run terminal with its final counts.
func (s *Store) CompleteRun(id string, itemCount, failureCount int, status string) error {
	res, err := s.db.Exec(`
		UPDATE evaluation_runs
		SET item_count = ?, failure_count = ?, status = ?, completed_at = ?
		WHERE id = ?`,
		itemCount, failureCount, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to complete run %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, stage, dataset_path, modality, item_count, failure_count,
		       status, created_at, completed_at
		FROM evaluation_runs
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Stage, &r.DatasetPath, &r.Modality,
			&r.ItemCount, &r.FailureCount, &r.Status, &r.CreatedAt, &r.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
