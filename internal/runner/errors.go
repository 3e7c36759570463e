package runner

import "errors"

var (
	// ErrAlreadyRunning indicates another pass holds the single-instance
	// lock. Schedulers should skip the tick and try again next interval.
	ErrAlreadyRunning = errors.New("runner: another instance is already running")

	// ErrDetectFailed indicates display detection failed outright, so no
	// per-display work could be attempted.
	ErrDetectFailed = errors.New("runner: display detection failed")
)
