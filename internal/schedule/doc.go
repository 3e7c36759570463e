// Package schedule contains the brightness scheduling engine: the pure
// functions that map a point in time to a target brightness percentage.
//
// # Model
//
// A day has two transition windows derived from the solar instants:
//
//	morning: [dawn, sunrise+offset)   brightness ramps night -> day
//	evening: [sunset-offset, dusk)    brightness ramps day -> night
//
// Outside the windows the brightness sits on the night value (before dawn,
// at/after dusk) or the day value (between the windows). Inside a window the
// ramp is a staircase of equal-length plateaus; the plateau count is the
// configured adjust_steps.
//
// Everything in this package is a pure function of its inputs: no clocks,
// no I/O, no retained state. The run coordinator owns sequencing and side
// effects.
package schedule
