package schedule

import (
	"math"
	"time"
)

// Step count bounds. Values outside the range are clamped; the config layer
// rejects them before they get here, so clamping is only a safety net for
// hand-built inputs.
const (
	minSteps = 1
	maxSteps = 10
)

// Evaluate computes the target brightness percentage for one monitor at one
// instant. It is a pure function: identical inputs always produce identical
// output, and the result never leaves [min(day,night), max(day,night)].
//
// The rules apply in fixed precedence order, first match wins:
//
//  1. Before morning.Start or at/after evening.End: night brightness.
//  2. At/after morning.End and before evening.Start: day brightness.
//  3. Inside the morning window: ramp-up plateau value.
//  4. Otherwise (inside the evening window): ramp-down plateau value.
//
// The fixed order is what makes overlapping windows deterministic.
//
// Inside a window of duration L divided into S equal plateaus, plateau k
// (1-indexed) has the value night + k/(S+1)*(day-night). The morning indexes
// plateaus by time elapsed since the window start; the evening indexes by
// time remaining until the window end, which mirrors the staircase so it
// descends. The pure day value is never produced inside a window; it is only
// reached once rule 2 applies.
//
// No rounding is applied: quantising to the integer values a display accepts
// is the device channel's concern.
func Evaluate(now time.Time, w Windows, p Profile, steps int) float64 {
	if steps < minSteps {
		steps = minSteps
	}
	if steps > maxSteps {
		steps = maxSteps
	}

	// Rule 1: night before dawn, night at and after dusk.
	if now.Before(w.Morning.Start) || !now.Before(w.Evening.End) {
		return p.Night
	}

	// Rule 2: full daytime plateau between the windows.
	if !now.Before(w.Morning.End) && now.Before(w.Evening.Start) {
		return p.Day
	}

	// Rule 3: morning ramp, indexed by time elapsed.
	if w.Morning.Contains(now) {
		elapsed := now.Sub(w.Morning.Start)
		k := plateauIndex(elapsed, w.Morning.Duration(), steps)
		return plateauValue(p, k, steps)
	}

	// Rule 4: evening ramp, indexed by time remaining.
	remaining := w.Evening.End.Sub(now)
	k := plateauIndex(remaining, w.Evening.Duration(), steps)
	return plateauValue(p, k, steps)
}

// plateauIndex maps a position within a window of duration total onto a
// 1-indexed plateau number in [1, steps].
func plateauIndex(pos, total time.Duration, steps int) int {
	if total <= 0 {
		return steps
	}

	k := int(math.Floor(float64(pos)/float64(total)*float64(steps))) + 1
	if k < 1 {
		k = 1
	}
	if k > steps {
		k = steps
	}
	return k
}

// plateauValue computes the brightness of plateau k out of steps.
// k/(steps+1) of the night-to-day distance, so the staircase approaches but
// never reaches the day value inside the window.
func plateauValue(p Profile, k, steps int) float64 {
	return p.Night + float64(k)/float64(steps+1)*(p.Day-p.Night)
}
