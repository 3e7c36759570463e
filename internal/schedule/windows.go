package schedule

import (
	"fmt"
	"time"

	"github.com/alexeygumirov/external-monitor-brightness/internal/solar"
)

// Window is a half-open time span [Start, End) during which brightness ramps
// between the night and day values.
type Window struct {
	Start time.Time
	End   time.Time
}

// Duration returns the window length.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Contains reports whether t falls inside the half-open window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Windows holds the two daily transition windows.
type Windows struct {
	Morning Window // ramp up: night -> day
	Evening Window // ramp down: day -> night
}

// BuildWindows derives the transition windows from the solar instants and
// the configured sunrise/sunset offset:
//
//	morning = [dawn, sunrise+offset)
//	evening = [sunset-offset, dusk)
//
// The instants must satisfy dawn <= sunrise and sunset <= dusk; anything
// else is malformed upstream data and yields ErrInvalidSolarOrdering rather
// than silently reversed windows. Overlapping morning/evening windows are a
// valid (if unusual) state near polar latitudes and are not rejected here;
// Evaluate resolves them deterministically.
func BuildWindows(in solar.Instants, offset time.Duration) (Windows, error) {
	if in.Dawn.After(in.Sunrise) {
		return Windows{}, fmt.Errorf("%w: dawn %v after sunrise %v",
			ErrInvalidSolarOrdering, in.Dawn, in.Sunrise)
	}
	if in.Sunset.After(in.Dusk) {
		return Windows{}, fmt.Errorf("%w: sunset %v after dusk %v",
			ErrInvalidSolarOrdering, in.Sunset, in.Dusk)
	}

	return Windows{
		Morning: Window{Start: in.Dawn, End: in.Sunrise.Add(offset)},
		Evening: Window{Start: in.Sunset.Add(-offset), End: in.Dusk},
	}, nil
}

// FallbackWindows builds zero-length windows at fixed clock times, for dates
// where solar events are undefined (polar day or night). The result degrades
// the curve to a plain night/day/night split: night before dayStart, day
// from dayStart until nightStart, night from nightStart on.
func FallbackWindows(dayStart, nightStart time.Time) Windows {
	return Windows{
		Morning: Window{Start: dayStart, End: dayStart},
		Evening: Window{Start: nightStart, End: nightStart},
	}
}
