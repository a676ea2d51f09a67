// Package journal records run history in an embedded SQLite database.
//
// One row per run and one row per processed file make it possible to
// audit what a batch fetch did after the console output is gone:
//
//	j, err := journal.Open(settings.JournalPath())
//	defer j.Close()
//
//	runID, err := j.BeginRun("tissue", []string{"TCGA-BRCA"})
//	j.RecordFile(runID, journal.FileEntry{...})
//	j.FinishRun(runID, "completed")
package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id          TEXT PRIMARY KEY,
    slide_type  TEXT NOT NULL,
    projects    TEXT NOT NULL,
    status      TEXT NOT NULL,
    started_at  TEXT NOT NULL,
    finished_at TEXT
);

CREATE TABLE IF NOT EXISTS files (
    run_id     TEXT NOT NULL REFERENCES runs(id),
    project_id TEXT NOT NULL,
    patient_id TEXT NOT NULL,
    file_id    TEXT NOT NULL,
    file_name  TEXT NOT NULL,
    outcome    TEXT NOT NULL,
    attempts   INTEGER NOT NULL,
    bytes      INTEGER NOT NULL,
    error      TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS files_run_idx ON files(run_id, project_id);
`

// FileEntry is one per-file journal row.
type FileEntry struct {
	ProjectID string
	PatientID string
	FileID    string
	FileName  string
	Outcome   string
	Attempts  int
	Bytes     int64
	Error     string
}

// Journal persists run and file outcomes to SQLite.
type Journal struct {
	db *sql.DB
}

// Open initializes or connects to the journal database at path, creating
// parent directories and the schema as needed.
func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create journal schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// BeginRun inserts a run row and returns its identifier.
func (j *Journal) BeginRun(slideType string, projects []string) (string, error) {
	runID := uuid.NewString()
	_, err := j.db.Exec(
		`INSERT INTO runs (id, slide_type, projects, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		runID,
		slideType,
		strings.Join(projects, ","),
		"running",
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("begin run: %w", err)
	}
	return runID, nil
}

// FinishRun marks a run row with its final status.
func (j *Journal) FinishRun(runID, status string) error {
	_, err := j.db.Exec(
		`UPDATE runs SET status = ?, finished_at = ? WHERE id = ?`,
		status,
		time.Now().UTC().Format(time.RFC3339Nano),
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecordFile inserts one per-file outcome row.
func (j *Journal) RecordFile(runID string, entry FileEntry) error {
	_, err := j.db.Exec(
		`INSERT INTO files (run_id, project_id, patient_id, file_id, file_name, outcome, attempts, bytes, error, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		entry.ProjectID,
		entry.PatientID,
		entry.FileID,
		entry.FileName,
		entry.Outcome,
		entry.Attempts,
		entry.Bytes,
		entry.Error,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record file outcome: %w", err)
	}
	return nil
}

// CountOutcomes returns the per-outcome file counts for a run.
func (j *Journal) CountOutcomes(runID string) (map[string]int, error) {
	rows, err := j.db.Query(
		`SELECT outcome, COUNT(*) FROM files WHERE run_id = ? GROUP BY outcome`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("count outcomes: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, err
		}
		counts[outcome] = n
	}
	return counts, rows.Err()
}
