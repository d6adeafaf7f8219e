package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages journal persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) error {
	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, query, args...)
		return err
	})
}

// Open initializes or connects to the journal database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("journal path required")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
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

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// StartRun inserts the run row before any broadcast is processed.
func (s *Store) StartRun(ctx context.Context, runID string, startedAt time.Time) error {
	if strings.TrimSpace(runID) == "" {
		return errors.New("run id required")
	}
	return s.execWithRetry(ctx,
		"INSERT INTO runs (id, started_at) VALUES (?, ?)",
		runID, startedAt.UTC().Format(time.RFC3339),
	)
}

// FinishRun stamps the run's end time and aggregate counts.
func (s *Store) FinishRun(ctx context.Context, run Run) error {
	if strings.TrimSpace(run.ID) == "" {
		return errors.New("run id required")
	}
	return s.execWithRetry(ctx,
		"UPDATE runs SET finished_at = ?, archived = ?, failed = ?, skipped = ? WHERE id = ?",
		run.FinishedAt.UTC().Format(time.RFC3339), run.Archived, run.Failed, run.Skipped, run.ID,
	)
}

// RecordBroadcast appends the terminal outcome for one broadcast.
func (s *Store) RecordBroadcast(ctx context.Context, rec Record) error {
	if strings.TrimSpace(rec.RunID) == "" {
		return errors.New("run id required")
	}
	if _, ok := statusSet[rec.Status]; !ok {
		return fmt.Errorf("invalid status %q", rec.Status)
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	return s.execWithRetry(ctx,
		`INSERT INTO broadcasts (run_id, broadcast_id, section, title, scheduled_start, status, error, output_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.BroadcastID, rec.Section, rec.Title,
		rec.ScheduledStart.UTC().Format(time.RFC3339), string(rec.Status),
		rec.ErrorMessage, rec.OutputPath, createdAt.UTC().Format(time.RFC3339),
	)
}

// History returns the most recent broadcast records, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]Record, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, broadcast_id, section, title, scheduled_start, status, error, output_path, created_at
		 FROM broadcasts ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec            Record
			status         string
			scheduledStart string
			createdAt      string
		)
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.BroadcastID, &rec.Section, &rec.Title,
			&scheduledStart, &status, &rec.ErrorMessage, &rec.OutputPath, &createdAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		if parsed, ok := ParseStatus(status); ok {
			rec.Status = parsed
		} else {
			rec.Status = Status(status)
		}
		rec.ScheduledStart = parseStoredTime(scheduledStart)
		rec.CreatedAt = parseStoredTime(createdAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return records, nil
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, COALESCE(finished_at, ''), archived, failed, skipped
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run        Run
			startedAt  string
			finishedAt string
		)
		if err := rows.Scan(&run.ID, &startedAt, &finishedAt, &run.Archived, &run.Failed, &run.Skipped); err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		run.StartedAt = parseStoredTime(startedAt)
		if finishedAt != "" {
			run.FinishedAt = parseStoredTime(finishedAt)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}
	return runs, nil
}

func parseStoredTime(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}
	}
	return parsed
}
