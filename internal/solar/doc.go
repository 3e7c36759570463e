// Package solar computes the four solar instants the brightness schedule is
// anchored to: civil dawn, sunrise, sunset, and civil dusk.
//
// The Calculator implements the classic sunrise/sunset algorithm from the
// Almanac for Computers (US Naval Observatory), evaluated at two zenith
// angles: 90.833 degrees for sunrise/sunset (accounting for refraction and
// the solar disc) and 96 degrees for civil twilight.
//
// Accuracy is within a couple of minutes, which is far below the granularity
// of a brightness pass that runs every 10-30 minutes.
//
// At high latitudes the sun may never cross one of the zenith angles on a
// given date (polar day or polar night). Events then returns ErrNoSolarEvent
// and the caller decides the fallback policy.
package solar
