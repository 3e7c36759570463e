package schedule

import "time"

// Season selects which half of a seasonal profile applies.
type Season string

const (
	SeasonSummer Season = "summer"
	SeasonWinter Season = "winter"
)

// SeasonFunc maps a date to a season. The resolution strategy is injectable
// so hemisphere or custom calendars can be substituted without touching the
// curve.
type SeasonFunc func(t time.Time) Season

// NorthernHemisphere is the default season policy: April through September
// is summer, October through March is winter.
func NorthernHemisphere(t time.Time) Season {
	m := t.Month()
	if m >= time.April && m <= time.September {
		return SeasonSummer
	}
	return SeasonWinter
}

// SouthernHemisphere mirrors NorthernHemisphere for observers south of the
// equator.
func SouthernHemisphere(t time.Time) Season {
	if NorthernHemisphere(t) == SeasonSummer {
		return SeasonWinter
	}
	return SeasonSummer
}
