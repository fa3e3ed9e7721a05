package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Run records one sync attempt.
type Run struct {
	ID             string
	Trigger        string
	State          string
	Message        string
	Found          int
	Added          int
	PendingArtwork int
	StartedAt      time.Time
	FinishedAt     time.Time
}

// Finished reports whether the run reached a terminal state.
func (r Run) Finished() bool { return !r.FinishedAt.IsZero() }

// Duration returns how long a finished run took.
func (r Run) Duration() time.Duration {
	if !r.Finished() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

const runColumns = "id, trigger, state, message, found, added, pending_artwork, started_at, finished_at"

// BeginRun records the start of a run.
func (s *Store) BeginRun(ctx context.Context, id, trigger string) (Run, error) {
	if id == "" {
		return Run{}, errors.New("run id required")
	}
	run := Run{ID: id, Trigger: trigger, State: "scanning", StartedAt: s.now().UTC()}
	_, err := s.exec(ctx,
		"INSERT INTO sync_runs (id, trigger, state, started_at) VALUES (?, ?, ?, ?)",
		run.ID, run.Trigger, run.State, run.StartedAt.Format(timeLayout))
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// FinishRun stores the outcome of a run started with BeginRun.
func (s *Store) FinishRun(ctx context.Context, run Run) error {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = s.now().UTC()
	}
	res, err := s.exec(ctx,
		`UPDATE sync_runs SET state = ?, message = ?, found = ?, added = ?, pending_artwork = ?, finished_at = ?
		 WHERE id = ?`,
		run.State, nullableString(run.Message), run.Found, run.Added, run.PendingArtwork,
		run.FinishedAt.UTC().Format(timeLayout), run.ID)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("run %s not found", run.ID)
	}
	return nil
}

// RecentRuns returns up to limit runs, newest first. A non-positive limit
// returns all runs.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	query := "SELECT " + runColumns + " FROM sync_runs ORDER BY started_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run         Run
		message     sql.NullString
		startedRaw  string
		finishedRaw sql.NullString
	)
	if err := scanner.Scan(&run.ID, &run.Trigger, &run.State, &message,
		&run.Found, &run.Added, &run.PendingArtwork, &startedRaw, &finishedRaw); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Message = message.String
	if started, err := parseTimeString(startedRaw); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			run.FinishedAt = finished
		}
	}
	return run, nil
}
