package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the brightness daemon.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Location      LocationConfig      `yaml:"location"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Profiles      ProfilesConfig      `yaml:"profiles"`
	DDC           DDCConfig           `yaml:"ddc"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Lock          LockConfig          `yaml:"lock"`
	Logging       LoggingConfig       `yaml:"logging"`
	Database      DatabaseConfig      `yaml:"database"`
	MQTT          MQTTConfig          `yaml:"mqtt"`
	InfluxDB      InfluxDBConfig      `yaml:"influxdb"`
}

// LocationConfig contains the observer position for solar event calculations.
type LocationConfig struct {
	City      string  `yaml:"city"`
	Country   string  `yaml:"country"`
	Timezone  string  `yaml:"timezone"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// ScheduleConfig contains the brightness schedule parameters.
type ScheduleConfig struct {
	// AdjustSteps is the number of intermediate brightness plateaus
	// within each transition window. Valid range: 1-10.
	AdjustSteps int `yaml:"adjust_steps"`

	// IntervalMinutes is how often a brightness pass runs.
	// Valid values: 10, 12, 15, 20, 30.
	IntervalMinutes int `yaml:"interval_minutes"`

	// SunriseSunsetOffsetMinutes extends the morning window past sunrise
	// and starts the evening window before sunset. Valid range: 0-120.
	SunriseSunsetOffsetMinutes int `yaml:"sunrise_sunset_offset"`

	// Fallback defines fixed day/night boundaries used when solar events
	// cannot be computed (polar day or night).
	Fallback FallbackConfig `yaml:"fallback"`
}

// FallbackConfig contains fixed clock-time boundaries for locations and dates
// where the sun never crosses the relevant horizon angles.
type FallbackConfig struct {
	DayStart   string `yaml:"day_start"`   // "HH:MM" local time
	NightStart string `yaml:"night_start"` // "HH:MM" local time
}

// ProfilesConfig maps monitors to seasonal brightness profiles.
type ProfilesConfig struct {
	// Default applies to any detected display whose serial has no entry
	// in Monitors.
	Default SeasonalProfile `yaml:"default"`

	// Monitors is keyed by display serial number. Each entry must define
	// both seasons; partial entries are rejected at load time.
	Monitors map[string]SeasonalProfile `yaml:"monitors"`
}

// SeasonalProfile holds one brightness profile per season.
type SeasonalProfile struct {
	Summer *BrightnessProfile `yaml:"summer"`
	Winter *BrightnessProfile `yaml:"winter"`
}

// BrightnessProfile is a day/night brightness pair, both percentages in [0,100].
type BrightnessProfile struct {
	DayBrightness   float64 `yaml:"day_brightness"`
	NightBrightness float64 `yaml:"night_brightness"`
}

// DDCConfig contains settings for the ddcutil command channel.
type DDCConfig struct {
	// Binary is the path to the ddcutil executable.
	Binary string `yaml:"binary"`

	// CommandTimeout bounds each ddcutil invocation (seconds).
	CommandTimeout int `yaml:"command_timeout"`
}

// NotificationsConfig contains desktop notification settings.
type NotificationsConfig struct {
	Enabled bool `yaml:"enabled"`

	// Binary is the path to the notify-send executable.
	Binary string `yaml:"binary"`
}

// LockConfig contains single-instance lock file settings.
type LockConfig struct {
	// Path is the lock file location. Defaults to
	// $HOME/.cache/monitor-brightness/monitor-brightness.lock.
	Path string `yaml:"path"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// DatabaseConfig contains settings for the run-history SQLite database.
type DatabaseConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`

	// RetentionDays is how long run history is kept. Runs older than this
	// are pruned at daemon startup; 0 disables pruning.
	RetentionDays int `yaml:"retention_days"`
}

// MQTTConfig contains MQTT broker settings for publishing brightness state.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// InfluxDBConfig contains InfluxDB connection settings for metrics recording.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// validIntervals are the accepted pass intervals in minutes.
var validIntervals = map[int]bool{10: true, 12: true, 15: true, 20: true, 30: true}

// ErrFileNotFound is returned by Load when the config file does not exist.
// Callers may treat this as non-fatal and fall back to Default().
var ErrFileNotFound = errors.New("config: file not found")

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: EMB_SECTION_KEY
// For example: EMB_MQTT_HOST, EMB_DATABASE_PATH.
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: ErrFileNotFound if the file is missing, or a parse/validation error
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with the built-in defaults. These match the
// behaviour of a fresh install with no config file present.
func Default() *Config {
	return &Config{
		Location: LocationConfig{
			City:      "Bremen",
			Country:   "Germany",
			Timezone:  "Europe/Berlin",
			Latitude:  53.075144,
			Longitude: 8.802161,
		},
		Schedule: ScheduleConfig{
			AdjustSteps:                5,
			IntervalMinutes:            12,
			SunriseSunsetOffsetMinutes: 60,
			Fallback: FallbackConfig{
				DayStart:   "08:00",
				NightStart: "20:00",
			},
		},
		Profiles: ProfilesConfig{
			Default: SeasonalProfile{
				Summer: &BrightnessProfile{DayBrightness: 100, NightBrightness: 60},
				Winter: &BrightnessProfile{DayBrightness: 90, NightBrightness: 60},
			},
		},
		DDC: DDCConfig{
			Binary:         "ddcutil",
			CommandTimeout: 10,
		},
		Notifications: NotificationsConfig{
			Enabled: true,
			Binary:  "notify-send",
		},
		Lock: LockConfig{
			Path: defaultLockPath(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Database: DatabaseConfig{
			Enabled:       false,
			Path:          defaultDataPath("history.db"),
			WALMode:       true,
			BusyTimeout:   5,
			RetentionDays: 90,
		},
		MQTT: MQTTConfig{
			Enabled: false,
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "monitor-brightness",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		InfluxDB: InfluxDBConfig{
			Enabled: false,
		},
	}
}

// DefaultPath returns the default config file location:
// $XDG_CONFIG_HOME/monitor-brightness/config.yaml, falling back to
// $HOME/.config.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(base, "monitor-brightness", "config.yaml")
}

// defaultLockPath returns the default lock file location under the user cache dir.
func defaultLockPath() string {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".cache")
	}
	return filepath.Join(base, "monitor-brightness", "monitor-brightness.lock")
}

// defaultDataPath returns a file location under the user data dir.
func defaultDataPath(name string) string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".local", "share")
	}
	return filepath.Join(base, "monitor-brightness", name)
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: EMB_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Schedule
	if v := os.Getenv("EMB_ADJUST_STEPS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.AdjustSteps = n
		}
	}
	if v := os.Getenv("EMB_INTERVAL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.IntervalMinutes = n
		}
	}
	if v := os.Getenv("EMB_SUNRISE_SUNSET_OFFSET"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Schedule.SunriseSunsetOffsetMinutes = n
		}
	}

	// Lock
	if v := os.Getenv("EMB_LOCK_PATH"); v != "" {
		cfg.Lock.Path = v
	}

	// Database
	if v := os.Getenv("EMB_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("EMB_DATABASE_RETENTION_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Database.RetentionDays = n
		}
	}

	// MQTT
	if v := os.Getenv("EMB_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("EMB_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("EMB_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("EMB_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Range validation happens here, at the boundary: the schedule engine
// assumes steps and offsets are already in range.
//
// Returns:
//   - error: Description of all validation failures, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Schedule validation
	if c.Schedule.AdjustSteps < 1 || c.Schedule.AdjustSteps > 10 {
		errs = append(errs, "schedule.adjust_steps must be between 1 and 10")
	}
	if !validIntervals[c.Schedule.IntervalMinutes] {
		errs = append(errs, "schedule.interval_minutes must be 10, 12, 15, 20 or 30")
	}
	if c.Schedule.SunriseSunsetOffsetMinutes < 0 || c.Schedule.SunriseSunsetOffsetMinutes > 120 {
		errs = append(errs, "schedule.sunrise_sunset_offset must be between 0 and 120")
	}
	if _, err := ParseClock(c.Schedule.Fallback.DayStart); err != nil {
		errs = append(errs, "schedule.fallback.day_start: "+err.Error())
	}
	if _, err := ParseClock(c.Schedule.Fallback.NightStart); err != nil {
		errs = append(errs, "schedule.fallback.night_start: "+err.Error())
	}

	// Location validation
	if c.Location.Latitude < -90 || c.Location.Latitude > 90 {
		errs = append(errs, "location.latitude must be between -90 and 90")
	}
	if c.Location.Longitude < -180 || c.Location.Longitude > 180 {
		errs = append(errs, "location.longitude must be between -180 and 180")
	}
	if _, err := time.LoadLocation(c.Location.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("location.timezone %q is not a valid IANA zone", c.Location.Timezone))
	}

	// Profile validation. The default must be complete, and every
	// per-monitor entry must define both seasons: a partial entry is a
	// configuration error, not something to silently default at runtime.
	if err := validateSeasonal("profiles.default", c.Profiles.Default); err != nil {
		errs = append(errs, err.Error())
	}
	for serial, sp := range c.Profiles.Monitors {
		if err := validateSeasonal("profiles.monitors."+serial, sp); err != nil {
			errs = append(errs, err.Error())
		}
	}

	// Lock validation
	if c.Lock.Path == "" {
		errs = append(errs, "lock.path is required")
	}

	// DDC validation
	if c.DDC.Binary == "" {
		errs = append(errs, "ddc.binary is required")
	}
	if c.DDC.CommandTimeout < 1 {
		errs = append(errs, "ddc.command_timeout must be at least 1 second")
	}

	// Database validation
	if c.Database.Enabled && c.Database.Path == "" {
		errs = append(errs, "database.path is required when database.enabled is true")
	}
	if c.Database.RetentionDays < 0 {
		errs = append(errs, "database.retention_days must not be negative")
	}

	// MQTT validation
	if c.MQTT.Enabled {
		if c.MQTT.Broker.Host == "" {
			errs = append(errs, "mqtt.broker.host is required when mqtt.enabled is true")
		}
		if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
			errs = append(errs, "mqtt.qos must be 0, 1, or 2")
		}
	}

	// InfluxDB validation
	if c.InfluxDB.Enabled {
		if c.InfluxDB.URL == "" {
			errs = append(errs, "influxdb.url is required when influxdb.enabled is true")
		}
		if c.InfluxDB.Token == "" {
			errs = append(errs, "influxdb.token is required (set EMB_INFLUXDB_TOKEN environment variable)")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// validateSeasonal checks that a seasonal profile defines both seasons with
// in-range brightness values.
func validateSeasonal(field string, sp SeasonalProfile) error {
	check := func(season string, p *BrightnessProfile) string {
		if p == nil {
			return fmt.Sprintf("%s.%s is missing (both seasons are required)", field, season)
		}
		if p.DayBrightness < 0 || p.DayBrightness > 100 {
			return fmt.Sprintf("%s.%s.day_brightness must be between 0 and 100", field, season)
		}
		if p.NightBrightness < 0 || p.NightBrightness > 100 {
			return fmt.Sprintf("%s.%s.night_brightness must be between 0 and 100", field, season)
		}
		return ""
	}

	var errs []string
	if msg := check("summer", sp.Summer); msg != "" {
		errs = append(errs, msg)
	}
	if msg := check("winter", sp.Winter); msg != "" {
		errs = append(errs, msg)
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Clock is a time of day in minutes since midnight.
type Clock int

// ParseClock parses a "HH:MM" string into a Clock.
func ParseClock(s string) (Clock, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return Clock(h*60 + m), nil
}

// At anchors the clock time to the date of t in t's location.
func (c Clock) At(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), int(c)/60, int(c)%60, 0, 0, t.Location())
}

// GetCommandTimeout returns the ddcutil command timeout as a Duration.
func (c *Config) GetCommandTimeout() time.Duration {
	return time.Duration(c.DDC.CommandTimeout) * time.Second
}

// GetInterval returns the pass interval as a Duration.
func (c *Config) GetInterval() time.Duration {
	return time.Duration(c.Schedule.IntervalMinutes) * time.Minute
}

// GetOffset returns the sunrise/sunset offset as a Duration.
func (c *Config) GetOffset() time.Duration {
	return time.Duration(c.Schedule.SunriseSunsetOffsetMinutes) * time.Minute
}

// GetRetention returns the run-history retention as a Duration.
// Zero means keep forever.
func (c *Config) GetRetention() time.Duration {
	return time.Duration(c.Database.RetentionDays) * 24 * time.Hour
}
