package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const runColumns = "id, run_id, input_path, output_path, status, converted, failed, entries, error_message, started_at, finished_at"

const defaultListLimit = 20

// Run is one recorded conversion.
type Run struct {
	ID         int64
	RunID      string
	Input      string
	Output     string
	Status     string
	Converted  int
	Failed     int
	Entries    int
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration reports how long the run took.
func (r Run) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Record stores a finished run and returns its row identifier.
func (s *Store) Record(ctx context.Context, run Run) (int64, error) {
	if run.RunID == "" {
		return 0, errors.New("run id is required")
	}
	if run.Input == "" {
		return 0, errors.New("input path is required")
	}
	var id int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx,
			`INSERT INTO runs (
                run_id, input_path, output_path, status, converted, failed,
                entries, error_message, started_at, finished_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID,
			run.Input,
			nullableString(run.Output),
			run.Status,
			run.Converted,
			run.Failed,
			run.Entries,
			nullableString(run.Error),
			formatTime(run.StartedAt),
			formatTime(run.FinishedAt),
		)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// List returns the most recent runs, newest first. A non-positive limit
// selects the default.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+runColumns+" FROM runs ORDER BY started_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetByRunID fetches a run by its run identifier. A missing run yields nil.
func (s *Store) GetByRunID(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+runColumns+" FROM runs WHERE run_id = ?", runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return &run, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run         Run
		output      sql.NullString
		errorMsg    sql.NullString
		startedRaw  string
		finishedRaw string
	)
	if err := scanner.Scan(
		&run.ID,
		&run.RunID,
		&run.Input,
		&output,
		&run.Status,
		&run.Converted,
		&run.Failed,
		&run.Entries,
		&errorMsg,
		&startedRaw,
		&finishedRaw,
	); err != nil {
		return Run{}, err
	}
	run.Output = output.String
	run.Error = errorMsg.String
	run.StartedAt = parseTime(startedRaw)
	run.FinishedAt = parseTime(finishedRaw)
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(raw string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return t
}
