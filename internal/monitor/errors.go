package monitor

import "errors"

var (
	// ErrCommandFailed indicates that a ddcutil invocation exited with a
	// non-zero status or could not be started at all.
	ErrCommandFailed = errors.New("ddcutil command failed")

	// ErrCommandTimeout indicates that a ddcutil invocation exceeded its
	// configured timeout and was killed.
	ErrCommandTimeout = errors.New("ddcutil command timed out")

	// ErrUnexpectedOutput indicates that ddcutil produced output the
	// parser could not understand.
	ErrUnexpectedOutput = errors.New("unexpected ddcutil output")

	// ErrBrightnessRange indicates a requested brightness outside 0-100.
	ErrBrightnessRange = errors.New("brightness out of range")
)
