package solar

import "errors"

// Domain errors for the solar package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, solar.ErrNoSolarEvent) {
//	    // polar day or night, use fallback windows
//	}
var (
	// ErrNoSolarEvent is returned when the sun never crosses the required
	// zenith angle on the given date (polar day or polar night).
	ErrNoSolarEvent = errors.New("solar: no solar event for this date and latitude")
)
