// Package lockfile implements the single-instance guard for brightness
// passes: a PID lock file with a liveness check.
//
// Two passes racing on the same monitors would interleave DDC writes, so a
// pass only proceeds if it can acquire the lock. Acquisition is a clean
// test-and-set: a pass that finds the lock held gives up immediately rather
// than waiting, because the next periodic trigger will fire anyway.
//
// A lock left behind by a crashed instance must never wedge the guard. The
// lock file records the owning PID; before reporting the lock as busy, the
// guard verifies the owner is still alive and that /proc/<pid>/cmdline still
// names this program. A dead owner or a recycled PID makes the lock stale,
// and stale locks are swept and re-acquired.
package lockfile
