// Package db persists packaging run history in sqlite.
package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quantmind-br/winpack/internal/core"
	_ "modernc.org/sqlite"
)

// DB represents the history database with separate read/write pools
type DB struct {
	write *sql.DB
	read  *sql.DB
	path  string
}

// New creates a new database instance with separate read/write pools
func New(ctx context.Context, dbPath string) (*DB, error) {
	// Connection string with pragmas
	connStr := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)

	// Write pool: MUST be 1 connection only
	write, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open write connection: %w", err)
	}
	write.SetMaxOpenConns(1)
	write.SetMaxIdleConns(1)
	write.SetConnMaxIdleTime(time.Minute)
	write.SetConnMaxLifetime(time.Hour)

	// Read pool: Can have multiple connections
	read, err := sql.Open("sqlite", connStr)
	if err != nil {
		write.Close()
		return nil, fmt.Errorf("open read connection: %w", err)
	}
	read.SetMaxOpenConns(10)
	read.SetMaxIdleConns(5)
	read.SetConnMaxIdleTime(time.Minute)
	read.SetConnMaxLifetime(time.Hour)

	db := &DB{
		write: write,
		read:  read,
		path:  dbPath,
	}

	if err := db.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return db, nil
}

// Close closes both database connections
func (db *DB) Close() error {
	writeErr := db.write.Close()
	readErr := db.read.Close()
	if writeErr != nil {
		return writeErr
	}
	return readErr
}

func (db *DB) initSchema(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    started_at DATETIME NOT NULL,
    source_dir TEXT NOT NULL,
    total INTEGER NOT NULL,
    succeeded INTEGER NOT NULL,
    failed INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS results (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL REFERENCES runs(run_id),
    app_name TEXT NOT NULL,
    file_name TEXT NOT NULL,
    install_command TEXT NOT NULL,
    uninstall_command TEXT NOT NULL,
    detection_type TEXT NOT NULL,
    detection TEXT NOT NULL,
    status TEXT NOT NULL,
    error_detail TEXT,
    artifact_path TEXT,
    packaged_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_results_run ON results(run_id);
CREATE INDEX IF NOT EXISTS idx_results_app ON results(app_name);
	`

	_, err := db.write.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return nil
}

// Run is one recorded packaging run
type Run struct {
	RunID     string
	StartedAt time.Time
	SourceDir string
	Total     int
	Succeeded int
	Failed    int
}

// SaveRun records a completed packaging run and its per-installer results
// in one transaction.
func (db *DB) SaveRun(ctx context.Context, run Run, results []core.PackageResult) error {
	tx, err := db.write.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, started_at, source_dir, total, succeeded, failed) VALUES (?, ?, ?, ?, ?, ?)`,
		run.RunID, run.StartedAt, run.SourceDir, run.Total, run.Succeeded, run.Failed)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO results (run_id, app_name, file_name, install_command, uninstall_command, detection_type, detection, status, error_detail, artifact_path, packaged_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare result insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		detectionJSON, err := json.Marshal(r.Detection)
		if err != nil {
			return fmt.Errorf("marshal detection for %q: %w", r.AppName, err)
		}

		_, err = stmt.ExecContext(ctx,
			run.RunID,
			r.AppName,
			r.FileName,
			r.InstallCommand,
			r.UninstallCommand,
			string(r.Detection.Type),
			string(detectionJSON),
			string(r.Status),
			r.ErrorDetail,
			r.ArtifactPath,
			r.PackagedAt,
		)
		if err != nil {
			return fmt.Errorf("insert result for %q: %w", r.AppName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}

	return nil
}

// ListRuns retrieves all recorded runs, newest first
func (db *DB) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := db.read.QueryContext(ctx, `
SELECT run_id, started_at, source_dir, total, succeeded, failed
FROM runs ORDER BY started_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.RunID, &run.StartedAt, &run.SourceDir, &run.Total, &run.Succeeded, &run.Failed); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return runs, nil
}

// ListResults retrieves per-installer results for one run
func (db *DB) ListResults(ctx context.Context, runID string) ([]core.PackageResult, error) {
	rows, err := db.read.QueryContext(ctx, `
SELECT app_name, file_name, install_command, uninstall_command, detection, status, error_detail, artifact_path, packaged_at
FROM results WHERE run_id = ? ORDER BY app_name
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var results []core.PackageResult
	for rows.Next() {
		var r core.PackageResult
		var detectionJSON string
		var status string

		err := rows.Scan(
			&r.AppName,
			&r.FileName,
			&r.InstallCommand,
			&r.UninstallCommand,
			&detectionJSON,
			&status,
			&r.ErrorDetail,
			&r.ArtifactPath,
			&r.PackagedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}

		if err := json.Unmarshal([]byte(detectionJSON), &r.Detection); err != nil {
			return nil, fmt.Errorf("unmarshal detection: %w", err)
		}
		r.Status = core.Status(status)

		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return results, nil
}
