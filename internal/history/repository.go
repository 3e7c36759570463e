package history

import (
	"context"
	"time"
)

// Run records one brightness pass across all detected displays.
type Run struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time

	// Season is the seasonal profile bucket the pass ran under.
	Season string

	// SolarFallback is true when solar events could not be computed and
	// the pass used the fixed fallback windows.
	SolarFallback bool

	DisplaysFound   int
	DisplaysChanged int
	DisplaysFailed  int

	// Results holds the per-display outcomes, one per detected display.
	Results []Result
}

// Result records the outcome for a single display within a run.
type Result struct {
	ID    int64
	RunID int64

	DisplayNumber int
	Model         string
	Serial        string

	// Previous is the brightness read before writing, nil when the read
	// failed or was skipped.
	Previous *int

	// Target is the brightness the curve produced for this display.
	Target int

	// Applied is true when the target was written to the display. A pass
	// that finds the display already at the target leaves Applied false
	// with an empty Error.
	Applied bool

	// Error holds the failure message when the display could not be
	// updated, empty on success.
	Error string
}

// Repository stores and retrieves brightness run history.
type Repository interface {
	// RecordRun persists a run and its per-display results atomically.
	// On success the IDs of the run and its results are populated.
	RecordRun(ctx context.Context, run *Run) error

	// RecentRuns returns the most recent runs, newest first, including
	// their per-display results.
	RecentRuns(ctx context.Context, limit int) ([]Run, error)

	// Prune deletes runs older than the given retention period and
	// returns the number of runs removed.
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
}
