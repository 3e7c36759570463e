package lockfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// dirPermissions is the permission mode for the lock file directory.
const dirPermissions = 0750

// filePermissions is the permission mode for the lock file itself.
const filePermissions = 0600

// defaultProcessHint is the substring expected in the owning process's
// cmdline. A live PID whose cmdline no longer contains the hint is a
// recycled PID, and the lock is stale.
const defaultProcessHint = "monitor-brightness"

// Guard is a cross-process mutual-exclusion primitive keyed by a lock file
// path. The zero value is not usable; construct with New.
type Guard struct {
	path string

	// processHint identifies the owning program in /proc/<pid>/cmdline.
	processHint string
}

// Token represents exclusive ownership of the guard. It is created by
// TryAcquire and destroyed by Release; a pass must hold a token for its
// whole duration.
type Token struct {
	path string
	pid  int
}

// Option configures a Guard.
type Option func(*Guard)

// WithProcessHint overrides the cmdline substring used for the liveness
// check. Tests use this to match the test binary.
func WithProcessHint(hint string) Option {
	return func(g *Guard) {
		g.processHint = hint
	}
}

// New creates a Guard for the given lock file path.
func New(path string, opts ...Option) *Guard {
	g := &Guard{
		path:        path,
		processHint: defaultProcessHint,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Path returns the lock file location.
func (g *Guard) Path() string {
	return g.path
}

// TryAcquire attempts to take exclusive ownership of the guard.
//
// The acquisition is atomic test-and-set via O_CREATE|O_EXCL. If the lock
// file already exists, the recorded owner is checked for liveness: a dead
// PID, unreadable contents, or a cmdline that no longer names this program
// mark the lock as stale, and the stale file is removed before one retry.
//
// There is no blocking or internal retry on a live owner: a concurrent pass
// means brightness is already being adjusted this cycle.
//
// Returns:
//   - *Token: Ownership token to pass to Release
//   - error: ErrLocked if a live instance holds the lock, or an I/O error
func (g *Guard) TryAcquire() (*Token, error) {
	if err := os.MkdirAll(filepath.Dir(g.path), dirPermissions); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}

	token, err := g.create()
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("creating lock file: %w", err)
	}

	// Lock file exists. Decide whether the owner is alive.
	ownerPID, contents, alive := g.ownerAlive()
	if alive {
		return nil, fmt.Errorf("%w (pid %d)", ErrLocked, ownerPID)
	}

	// Stale lock: sweep it and retry the atomic create exactly once.
	// A concurrent acquirer may win the retry; that is a normal ErrLocked.
	if err := g.sweepStale(contents); err != nil {
		return nil, err
	}

	token, err = g.create()
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("re-creating lock file: %w", err)
	}
	return token, nil
}

// create performs the atomic exclusive create and writes the owner PID.
func (g *Guard) create() (*Token, error) {
	f, err := os.OpenFile(g.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePermissions)
	if err != nil {
		return nil, err
	}

	pid := os.Getpid()
	if _, err := f.WriteString(strconv.Itoa(pid)); err != nil {
		f.Close()
		os.Remove(g.path)
		return nil, fmt.Errorf("writing pid: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(g.path)
		return nil, fmt.Errorf("closing lock file: %w", err)
	}

	return &Token{path: g.path, pid: pid}, nil
}

// ownerAlive reads the lock file and reports whether the recorded owner is
// a live instance of this program, along with the raw contents observed.
// Unreadable or garbage contents count as dead.
func (g *Guard) ownerAlive() (int, string, bool) {
	data, err := os.ReadFile(g.path)
	if err != nil {
		return 0, "", false
	}
	contents := string(data)

	pid, err := strconv.Atoi(strings.TrimSpace(contents))
	if err != nil || pid <= 0 {
		return 0, contents, false
	}

	// Signal 0 probes existence without delivering anything.
	if err := syscall.Kill(pid, 0); err != nil {
		return pid, contents, false
	}

	// The PID is alive, but it may have been recycled by an unrelated
	// process since the lock was written.
	if g.processHint != "" {
		cmdline, err := os.ReadFile(fmt.Sprintf("/proc/%d/cmdline", pid))
		if err != nil {
			// Alive per kill(2) but unreadable cmdline: err on the safe
			// side and treat it as held.
			return pid, contents, true
		}
		if !strings.Contains(string(cmdline), g.processHint) {
			return pid, contents, false
		}
	}

	return pid, contents, true
}

// sweepStale removes the lock file only if it still carries the contents
// observed during the liveness check. A file that vanished or changed in
// the meantime belongs to a concurrent acquirer that won the race, which
// surfaces as ErrLocked rather than a removal of its valid lock.
func (g *Guard) sweepStale(observed string) error {
	data, err := os.ReadFile(g.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("re-reading stale lock: %w", err)
	}
	if string(data) != observed {
		return ErrLocked
	}

	if err := os.Remove(g.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing stale lock: %w", err)
	}
	return nil
}

// Release destroys the token and removes the lock file.
//
// Release is safe to call on every exit path, including after a failed
// pass; releasing a nil token is a no-op. If the lock file on disk no
// longer records the token's PID (another instance swept and re-acquired
// it), the file is left alone and ErrNotHeld is returned.
func (g *Guard) Release(t *Token) error {
	if t == nil {
		return nil
	}

	data, err := os.ReadFile(t.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading lock file: %w", err)
	}

	if strings.TrimSpace(string(data)) != strconv.Itoa(t.pid) {
		return ErrNotHeld
	}

	if err := os.Remove(t.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing lock file: %w", err)
	}
	return nil
}
