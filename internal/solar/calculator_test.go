package solar

import (
	"errors"
	"testing"
	"time"
)

func mustLoadLocation(t *testing.T, name string) *time.Location {
	t.Helper()

	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("loading location %s: %v", name, err)
	}
	return loc
}

func TestEvents_Ordering(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lon  float64
		tz   string
		date time.Time
	}{
		{
			name: "Bremen midsummer",
			lat:  53.075144,
			lon:  8.802161,
			tz:   "Europe/Berlin",
			date: time.Date(2025, 6, 21, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "Bremen midwinter",
			lat:  53.075144,
			lon:  8.802161,
			tz:   "Europe/Berlin",
			date: time.Date(2025, 12, 21, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "equator equinox",
			lat:  0.0,
			lon:  0.0,
			tz:   "UTC",
			date: time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC),
		},
		{
			name: "southern hemisphere",
			lat:  -33.87,
			lon:  151.21,
			tz:   "Australia/Sydney",
			date: time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := mustLoadLocation(t, tt.tz)
			calc := NewCalculator(tt.lat, tt.lon, loc)

			got, err := calc.Events(tt.date)
			if err != nil {
				t.Fatalf("Events() error = %v", err)
			}

			if got.Dawn.After(got.Sunrise) {
				t.Errorf("dawn %v after sunrise %v", got.Dawn, got.Sunrise)
			}
			if !got.Sunrise.Before(got.Sunset) {
				t.Errorf("sunrise %v not before sunset %v", got.Sunrise, got.Sunset)
			}
			if got.Sunset.After(got.Dusk) {
				t.Errorf("sunset %v after dusk %v", got.Sunset, got.Dusk)
			}

			// Daylight should be a plausible duration, not a degenerate span.
			daylight := got.Sunset.Sub(got.Sunrise)
			if daylight < 4*time.Hour || daylight > 20*time.Hour {
				t.Errorf("daylight duration %v outside plausible range", daylight)
			}
		})
	}
}

func TestEvents_BremenSummerSanity(t *testing.T) {
	loc := mustLoadLocation(t, "Europe/Berlin")
	calc := NewCalculator(53.075144, 8.802161, loc)

	got, err := calc.Events(time.Date(2025, 6, 21, 12, 0, 0, 0, loc))
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}

	// Midsummer in Bremen: sunrise around 05:00, sunset around 21:45 local.
	if h := got.Sunrise.Hour(); h < 3 || h > 6 {
		t.Errorf("sunrise hour = %d, want between 3 and 6", h)
	}
	if h := got.Sunset.Hour(); h < 20 || h > 23 {
		t.Errorf("sunset hour = %d, want between 20 and 23", h)
	}
}

func TestEvents_PolarDay(t *testing.T) {
	// Longyearbyen, Svalbard: the sun does not set around midsummer.
	calc := NewCalculator(78.22, 15.65, time.UTC)

	_, err := calc.Events(time.Date(2025, 6, 21, 12, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrNoSolarEvent) {
		t.Errorf("Events() error = %v, want ErrNoSolarEvent", err)
	}
}

func TestEvents_PolarNight(t *testing.T) {
	calc := NewCalculator(78.22, 15.65, time.UTC)

	_, err := calc.Events(time.Date(2025, 12, 21, 12, 0, 0, 0, time.UTC))
	if !errors.Is(err, ErrNoSolarEvent) {
		t.Errorf("Events() error = %v, want ErrNoSolarEvent", err)
	}
}

func TestEvents_Deterministic(t *testing.T) {
	loc := mustLoadLocation(t, "Europe/Berlin")
	calc := NewCalculator(53.075144, 8.802161, loc)
	date := time.Date(2025, 4, 15, 9, 30, 0, 0, loc)

	first, err := calc.Events(date)
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}
	second, err := calc.Events(date)
	if err != nil {
		t.Fatalf("Events() error = %v", err)
	}

	if !first.Dawn.Equal(second.Dawn) || !first.Dusk.Equal(second.Dusk) {
		t.Error("Events() is not deterministic for identical inputs")
	}
}
