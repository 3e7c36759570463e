package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexeygumirov/external-monitor-brightness/internal/infrastructure/database"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 200
)

// SQLiteRepository implements Repository on top of the runs and run_results
// tables created by the embedded migrations.
type SQLiteRepository struct {
	db *database.DB
}

// NewSQLiteRepository creates a run history repository.
//
// Parameters:
//   - db: Open, migrated database connection
//
// Returns:
//   - *SQLiteRepository: Repository instance ready for use
func NewSQLiteRepository(db *database.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// RecordRun persists a run and its per-display results in one transaction.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - run: Run to persist; ID fields are populated on success
//
// Returns:
//   - error: nil on success, otherwise the underlying database error
func (r *SQLiteRepository) RecordRun(ctx context.Context, run *Run) error {
	if run == nil {
		return fmt.Errorf("run is required")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs
		 (started_at, finished_at, season, solar_fallback,
		  displays_found, displays_changed, displays_failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.FinishedAt.UTC().Format(time.RFC3339),
		run.Season,
		boolToInt(run.SolarFallback),
		run.DisplaysFound,
		run.DisplaysChanged,
		run.DisplaysFailed,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading run id: %w", err)
	}
	run.ID = runID

	for i := range run.Results {
		result := &run.Results[i]
		result.RunID = runID

		res, err := tx.ExecContext(ctx,
			`INSERT INTO run_results
			 (run_id, display_number, model, serial,
			  previous_brightness, target_brightness, applied, error)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID,
			result.DisplayNumber,
			result.Model,
			result.Serial,
			nullableInt(result.Previous),
			result.Target,
			boolToInt(result.Applied),
			nullableString(result.Error),
		)
		if err != nil {
			return fmt.Errorf("inserting result for display %d: %w", result.DisplayNumber, err)
		}
		if result.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("reading result id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent runs, newest first.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - limit: Maximum runs to return (default 20, max 200)
//
// Returns:
//   - []Run: Runs ordered by started_at DESC, each with its results
//   - error: nil on success, otherwise the underlying query error
func (r *SQLiteRepository) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultRunLimit
	}
	if limit > maxRunLimit {
		limit = maxRunLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, season, solar_fallback,
		        displays_found, displays_changed, displays_failed
		 FROM runs
		 ORDER BY started_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	runs := make([]Run, 0, limit)
	for rows.Next() {
		var (
			run        Run
			startedAt  string
			finishedAt string
			fallback   int
		)
		if err := rows.Scan(&run.ID, &startedAt, &finishedAt, &run.Season, &fallback,
			&run.DisplaysFound, &run.DisplaysChanged, &run.DisplaysFailed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}

		if run.StartedAt, err = parseTimestamp(startedAt); err != nil {
			return nil, err
		}
		if run.FinishedAt, err = parseTimestamp(finishedAt); err != nil {
			return nil, err
		}
		run.SolarFallback = fallback != 0

		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	for i := range runs {
		if runs[i].Results, err = r.resultsForRun(ctx, runs[i].ID); err != nil {
			return nil, err
		}
	}

	return runs, nil
}

// resultsForRun loads the per-display results of one run.
func (r *SQLiteRepository) resultsForRun(ctx context.Context, runID int64) ([]Result, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, run_id, display_number, model, serial,
		        previous_brightness, target_brightness, applied, error
		 FROM run_results
		 WHERE run_id = ?
		 ORDER BY display_number`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying results for run %d: %w", runID, err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			result   Result
			previous sql.NullInt64
			errMsg   sql.NullString
			applied  int
		)
		if err := rows.Scan(&result.ID, &result.RunID, &result.DisplayNumber,
			&result.Model, &result.Serial, &previous, &result.Target, &applied, &errMsg); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}

		if previous.Valid {
			v := int(previous.Int64)
			result.Previous = &v
		}
		result.Applied = applied != 0
		result.Error = errMsg.String

		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating results: %w", err)
	}
	return results, nil
}

// Prune deletes runs older than the retention period. Results are removed by
// the ON DELETE CASCADE constraint.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - olderThan: Retention period (runs started before now-olderThan are deleted)
//
// Returns:
//   - int64: Number of runs deleted
//   - error: nil on success, otherwise the underlying database error
func (r *SQLiteRepository) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("olderThan must be positive")
	}

	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339)
	res, err := r.db.ExecContext(ctx, "DELETE FROM runs WHERE started_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting runs: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return deleted, nil
}

// parseTimestamp parses a timestamp stored in SQLite.
func parseTimestamp(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("timestamp is empty")
	}
	timestamp, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp: %w", err)
	}
	return timestamp, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
