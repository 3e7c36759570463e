package schedule

import "errors"

// Domain errors for the schedule package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, schedule.ErrMissingSeasonProfile) {
//	    // configuration problem for this monitor
//	}
var (
	// ErrInvalidSolarOrdering is returned when upstream solar data is
	// malformed: dawn after sunrise, or sunset after dusk. Window semantics
	// are undefined in that case, so the whole pass must not proceed.
	ErrInvalidSolarOrdering = errors.New("schedule: invalid solar instant ordering")

	// ErrMissingSeasonProfile is returned when a monitor has a profile
	// entry that lacks the resolved season's sub-profile. Partial entries
	// are a configuration error, never silently defaulted.
	ErrMissingSeasonProfile = errors.New("schedule: profile entry missing season")
)
