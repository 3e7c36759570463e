package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeConfig writes a temporary config file and returns its path.
func writeConfig(t *testing.T, content string) string {
	t.Helper()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
location:
  city: "Berlin"
  timezone: "Europe/Berlin"
  latitude: 52.52
  longitude: 13.405
schedule:
  adjust_steps: 2
  interval_minutes: 15
  sunrise_sunset_offset: 30
profiles:
  default:
    summer:
      day_brightness: 100
      night_brightness: 60
    winter:
      day_brightness: 90
      night_brightness: 55
  monitors:
    "ABC123":
      summer:
        day_brightness: 80
        night_brightness: 40
      winter:
        day_brightness: 70
        night_brightness: 40
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Location.City != "Berlin" {
		t.Errorf("Location.City = %q, want %q", cfg.Location.City, "Berlin")
	}
	if cfg.Schedule.AdjustSteps != 2 {
		t.Errorf("Schedule.AdjustSteps = %d, want 2", cfg.Schedule.AdjustSteps)
	}
	if cfg.Schedule.IntervalMinutes != 15 {
		t.Errorf("Schedule.IntervalMinutes = %d, want 15", cfg.Schedule.IntervalMinutes)
	}

	mon, ok := cfg.Profiles.Monitors["ABC123"]
	if !ok {
		t.Fatal("expected monitor entry for serial ABC123")
	}
	if mon.Summer == nil || mon.Summer.DayBrightness != 80 {
		t.Errorf("monitor summer day brightness = %+v, want 80", mon.Summer)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Load() error = %v, want ErrFileNotFound", err)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "schedule: [not a mapping")

	if _, err := Load(path); err == nil {
		t.Error("Load() expected error for malformed YAML, got nil")
	}
}

func TestValidate_Ranges(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "steps too low",
			mutate:  func(c *Config) { c.Schedule.AdjustSteps = 0 },
			wantErr: "adjust_steps",
		},
		{
			name:    "steps too high",
			mutate:  func(c *Config) { c.Schedule.AdjustSteps = 11 },
			wantErr: "adjust_steps",
		},
		{
			name:    "invalid interval",
			mutate:  func(c *Config) { c.Schedule.IntervalMinutes = 7 },
			wantErr: "interval_minutes",
		},
		{
			name:    "offset negative",
			mutate:  func(c *Config) { c.Schedule.SunriseSunsetOffsetMinutes = -1 },
			wantErr: "sunrise_sunset_offset",
		},
		{
			name:    "offset too large",
			mutate:  func(c *Config) { c.Schedule.SunriseSunsetOffsetMinutes = 121 },
			wantErr: "sunrise_sunset_offset",
		},
		{
			name:    "latitude out of range",
			mutate:  func(c *Config) { c.Location.Latitude = 91 },
			wantErr: "latitude",
		},
		{
			name:    "bad timezone",
			mutate:  func(c *Config) { c.Location.Timezone = "Mars/Olympus" },
			wantErr: "timezone",
		},
		{
			name:    "bad fallback time",
			mutate:  func(c *Config) { c.Schedule.Fallback.DayStart = "25:00" },
			wantErr: "fallback.day_start",
		},
		{
			name:    "qos out of range",
			mutate:  func(c *Config) { c.MQTT.Enabled = true; c.MQTT.QoS = 3 },
			wantErr: "mqtt.qos",
		},
		{
			name:    "retention negative",
			mutate:  func(c *Config) { c.Database.RetentionDays = -1 },
			wantErr: "retention_days",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_PartialMonitorProfile(t *testing.T) {
	cfg := Default()
	cfg.Profiles.Monitors = map[string]SeasonalProfile{
		"XYZ789": {
			Summer: &BrightnessProfile{DayBrightness: 80, NightBrightness: 40},
			// winter missing
		},
	}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for partial monitor profile, got nil")
	}
	if !strings.Contains(err.Error(), "XYZ789") || !strings.Contains(err.Error(), "winter") {
		t.Errorf("Validate() error = %q, want mention of serial and missing season", err)
	}
}

func TestValidate_DefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() error = %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
schedule:
  adjust_steps: 3
`)

	t.Setenv("EMB_ADJUST_STEPS", "7")
	t.Setenv("EMB_MQTT_HOST", "broker.local")
	t.Setenv("EMB_DATABASE_RETENTION_DAYS", "30")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Schedule.AdjustSteps != 7 {
		t.Errorf("Schedule.AdjustSteps = %d, want 7 (env override)", cfg.Schedule.AdjustSteps)
	}
	if cfg.MQTT.Broker.Host != "broker.local" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "broker.local")
	}
	if cfg.Database.RetentionDays != 30 {
		t.Errorf("Database.RetentionDays = %d, want 30 (env override)", cfg.Database.RetentionDays)
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{"08:00", 480, false},
		{"00:00", 0, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"08:60", 0, true},
		{"0800", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseClock(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}
