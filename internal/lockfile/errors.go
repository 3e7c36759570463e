package lockfile

import "errors"

// Domain errors for the lockfile package.
var (
	// ErrLocked is returned by TryAcquire when another live instance holds
	// the lock. This is an expected condition under periodic triggering,
	// not a failure.
	ErrLocked = errors.New("lockfile: already held by another instance")

	// ErrNotHeld is returned by Release when the token does not match the
	// current lock file contents.
	ErrNotHeld = errors.New("lockfile: lock not held by this token")
)
