package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexeygumirov/external-monitor-brightness/internal/history"
	"github.com/alexeygumirov/external-monitor-brightness/internal/infrastructure/logging"
	"github.com/alexeygumirov/external-monitor-brightness/internal/runner"
)

// Runner executes one brightness pass. Implemented by runner.Coordinator.
type Runner interface {
	Run(ctx context.Context) (*history.Run, error)
}

// Scheduler invokes a Runner on wall-clock aligned ticks.
type Scheduler struct {
	interval time.Duration
	runner   Runner
	log      *logging.Logger
}

// New creates a Scheduler. The interval must be positive.
func New(interval time.Duration, r Runner, log *logging.Logger) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("scheduler: interval must be positive, got %v", interval)
	}
	if r == nil {
		return nil, fmt.Errorf("scheduler: runner is required")
	}
	return &Scheduler{
		interval: interval,
		runner:   r,
		log:      log,
	}, nil
}

// Start runs passes until the context is cancelled, then returns nil.
// The first pass runs immediately; subsequent passes fire on ticks aligned
// to the interval.
func (s *Scheduler) Start(ctx context.Context) error {
	s.log.Info("scheduler started", "interval", s.interval)

	s.runOnce(ctx)

	for {
		wait := time.Until(nextTick(time.Now(), s.interval))
		timer := time.NewTimer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("scheduler stopped")
			return nil
		case <-timer.C:
			s.runOnce(ctx)
		}
	}
}

// runOnce executes a single pass and translates its outcome into logs.
// A held lock is an expected overlap with a slow previous pass, not an
// error condition.
func (s *Scheduler) runOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	run, err := s.runner.Run(ctx)
	switch {
	case errors.Is(err, runner.ErrAlreadyRunning):
		s.log.Warn("previous pass still running, skipping tick")
	case err != nil:
		s.log.Error("brightness pass failed", "error", err)
	default:
		s.log.Debug("brightness pass complete",
			"found", run.DisplaysFound,
			"changed", run.DisplaysChanged,
			"failed", run.DisplaysFailed,
		)
	}
}

// nextTick returns the first instant strictly after now that is a whole
// multiple of interval from midnight local time.
func nextTick(now time.Time, interval time.Duration) time.Time {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	elapsed := now.Sub(midnight)
	n := elapsed / interval
	return midnight.Add((n + 1) * interval)
}
