package solar

import (
	"fmt"
	"math"
	"time"
)

// Instants holds the four solar timestamps for one date at one location,
// ordered dawn <= sunrise <= sunset <= dusk.
type Instants struct {
	Dawn    time.Time
	Sunrise time.Time
	Sunset  time.Time
	Dusk    time.Time
}

// Provider supplies solar instants for a date. The production implementation
// is Calculator; tests substitute fixed instants.
type Provider interface {
	// Events returns the solar instants for the date of t, in t's location.
	Events(t time.Time) (Instants, error)
}

// Zenith angles in degrees.
const (
	// zenithOfficial is the sunrise/sunset zenith: 90 degrees plus
	// atmospheric refraction and the apparent solar radius.
	zenithOfficial = 90.833

	// zenithCivil is the civil twilight zenith.
	zenithCivil = 96.0
)

// Calculator computes solar instants for a fixed observer position.
type Calculator struct {
	Latitude  float64
	Longitude float64

	// Location is the timezone the returned instants are expressed in.
	Location *time.Location
}

// NewCalculator creates a Calculator for the given coordinates and timezone.
func NewCalculator(latitude, longitude float64, loc *time.Location) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{
		Latitude:  latitude,
		Longitude: longitude,
		Location:  loc,
	}
}

// Events returns dawn, sunrise, sunset and dusk for the date of t.
//
// Parameters:
//   - t: Any instant within the local date of interest
//
// Returns:
//   - Instants: The four solar timestamps in the calculator's timezone
//   - error: ErrNoSolarEvent when the sun never crosses one of the zenith
//     angles on this date (polar day or night)
func (c *Calculator) Events(t time.Time) (Instants, error) {
	local := t.In(c.Location)

	dawn, err := c.event(local, zenithCivil, true)
	if err != nil {
		return Instants{}, fmt.Errorf("dawn: %w", err)
	}
	sunrise, err := c.event(local, zenithOfficial, true)
	if err != nil {
		return Instants{}, fmt.Errorf("sunrise: %w", err)
	}
	sunset, err := c.event(local, zenithOfficial, false)
	if err != nil {
		return Instants{}, fmt.Errorf("sunset: %w", err)
	}
	dusk, err := c.event(local, zenithCivil, false)
	if err != nil {
		return Instants{}, fmt.Errorf("dusk: %w", err)
	}

	return Instants{
		Dawn:    dawn,
		Sunrise: sunrise,
		Sunset:  sunset,
		Dusk:    dusk,
	}, nil
}

// event computes a single horizon crossing for the local date of t.
//
// The math follows the Almanac for Computers sunrise/sunset algorithm.
// All intermediate angles are in degrees.
func (c *Calculator) event(t time.Time, zenith float64, rising bool) (time.Time, error) {
	year, month, day := t.Date()
	dayOfYear := float64(t.YearDay())

	// Longitude hour and approximate event time
	lngHour := c.Longitude / 15.0
	var approx float64
	if rising {
		approx = dayOfYear + ((6.0 - lngHour) / 24.0)
	} else {
		approx = dayOfYear + ((18.0 - lngHour) / 24.0)
	}

	// Sun's mean anomaly
	meanAnomaly := (0.9856 * approx) - 3.289

	// Sun's true longitude
	trueLng := meanAnomaly +
		(1.916 * sinDeg(meanAnomaly)) +
		(0.020 * sinDeg(2*meanAnomaly)) +
		282.634
	trueLng = normalizeDeg(trueLng)

	// Sun's right ascension, adjusted into the same quadrant as trueLng
	rightAsc := atanDeg(0.91764 * tanDeg(trueLng))
	rightAsc = normalizeDeg(rightAsc)
	lngQuadrant := math.Floor(trueLng/90.0) * 90.0
	raQuadrant := math.Floor(rightAsc/90.0) * 90.0
	rightAsc = (rightAsc + (lngQuadrant - raQuadrant)) / 15.0

	// Sun's declination
	sinDec := 0.39782 * sinDeg(trueLng)
	cosDec := cosDeg(asinDeg(sinDec))

	// Local hour angle
	cosH := (cosDeg(zenith) - (sinDec * sinDeg(c.Latitude))) /
		(cosDec * cosDeg(c.Latitude))
	if cosH > 1 || cosH < -1 {
		// The sun never reaches this zenith angle today.
		return time.Time{}, ErrNoSolarEvent
	}

	var hourAngle float64
	if rising {
		hourAngle = 360.0 - acosDeg(cosH)
	} else {
		hourAngle = acosDeg(cosH)
	}
	hourAngle /= 15.0

	// Local mean time of the event
	localMean := hourAngle + rightAsc - (0.06571 * approx) - 6.622

	// Convert to UTC hours
	utc := math.Mod(localMean-lngHour, 24.0)
	if utc < 0 {
		utc += 24.0
	}

	midnight := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	event := midnight.Add(time.Duration(utc * float64(time.Hour)))

	return event.In(c.Location), nil
}

// Degree-based trigonometric helpers.

func sinDeg(d float64) float64  { return math.Sin(d * math.Pi / 180.0) }
func cosDeg(d float64) float64  { return math.Cos(d * math.Pi / 180.0) }
func tanDeg(d float64) float64  { return math.Tan(d * math.Pi / 180.0) }
func asinDeg(x float64) float64 { return math.Asin(x) * 180.0 / math.Pi }
func acosDeg(x float64) float64 { return math.Acos(x) * 180.0 / math.Pi }
func atanDeg(x float64) float64 { return math.Atan(x) * 180.0 / math.Pi }

// normalizeDeg wraps an angle into [0, 360).
func normalizeDeg(d float64) float64 {
	d = math.Mod(d, 360.0)
	if d < 0 {
		d += 360.0
	}
	return d
}
