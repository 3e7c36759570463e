package runner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/alexeygumirov/external-monitor-brightness/internal/history"
	"github.com/alexeygumirov/external-monitor-brightness/internal/infrastructure/config"
	"github.com/alexeygumirov/external-monitor-brightness/internal/infrastructure/logging"
	"github.com/alexeygumirov/external-monitor-brightness/internal/infrastructure/mqtt"
	"github.com/alexeygumirov/external-monitor-brightness/internal/lockfile"
	"github.com/alexeygumirov/external-monitor-brightness/internal/monitor"
	"github.com/alexeygumirov/external-monitor-brightness/internal/notify"
	"github.com/alexeygumirov/external-monitor-brightness/internal/schedule"
	"github.com/alexeygumirov/external-monitor-brightness/internal/solar"
)

// Guard is the single-instance lock used to serialise passes.
type Guard interface {
	TryAcquire() (*lockfile.Token, error)
	Release(t *lockfile.Token) error
}

// StatePublisher publishes per-display state and pass summaries.
// Implemented by the MQTT client; nil when MQTT is disabled.
type StatePublisher interface {
	PublishDisplayState(state mqtt.DisplayState) error
	PublishRunSummary(summary mqtt.RunSummary) error
}

// MetricsWriter records brightness telemetry.
// Implemented by the InfluxDB client; nil when InfluxDB is disabled.
type MetricsWriter interface {
	WriteBrightness(serial, model string, display, brightness int, season string)
	WriteRunMetrics(found, changed, failed int, fallback bool, duration time.Duration)
	WriteSolarEvents(dawn, sunrise, sunset, dusk time.Time)
}

// Deps bundles the coordinator's collaborators. Solar, Controller, Notifier
// and Guard are required; the rest may be nil to disable the peripheral.
type Deps struct {
	Solar      solar.Provider
	Controller monitor.Controller
	Notifier   notify.Notifier
	Guard      Guard

	Recorder  history.Repository
	Publisher StatePublisher
	Metrics   MetricsWriter
}

// Coordinator runs brightness passes.
type Coordinator struct {
	cfg *config.Config
	log *logging.Logger
	loc *time.Location

	deps     Deps
	seasonOf schedule.SeasonFunc

	// now is swappable in tests.
	now func() time.Time
}

// New creates a Coordinator.
//
// The season policy is chosen from the configured latitude: observers south
// of the equator get mirrored seasons.
func New(cfg *config.Config, log *logging.Logger, deps Deps) (*Coordinator, error) {
	if deps.Solar == nil || deps.Controller == nil || deps.Notifier == nil || deps.Guard == nil {
		return nil, fmt.Errorf("runner: solar, controller, notifier and guard are required")
	}

	loc, err := time.LoadLocation(cfg.Location.Timezone)
	if err != nil {
		return nil, fmt.Errorf("runner: loading timezone %q: %w", cfg.Location.Timezone, err)
	}

	seasonOf := schedule.NorthernHemisphere
	if cfg.Location.Latitude < 0 {
		seasonOf = schedule.SouthernHemisphere
	}

	return &Coordinator{
		cfg:      cfg,
		log:      log,
		loc:      loc,
		deps:     deps,
		seasonOf: seasonOf,
		now:      time.Now,
	}, nil
}

// Run executes one brightness pass.
//
// The returned Run describes what happened per display; it is non-nil
// whenever the pass got far enough to detect displays. Pass-level failures
// (lock held, detection failure) return an error instead:
//   - ErrAlreadyRunning when another instance holds the lock
//   - ErrDetectFailed when ddcutil detection failed
//
// Per-display failures never fail the pass; they are reported inside the
// Run and counted in DisplaysFailed.
func (c *Coordinator) Run(ctx context.Context) (*history.Run, error) {
	token, err := c.deps.Guard.TryAcquire()
	if err != nil {
		if errors.Is(err, lockfile.ErrLocked) {
			return nil, fmt.Errorf("%w: %w", ErrAlreadyRunning, err)
		}
		return nil, fmt.Errorf("runner: acquiring lock: %w", err)
	}
	defer func() {
		if err := c.deps.Guard.Release(token); err != nil {
			c.log.Warn("failed to release lock", "error", err)
		}
	}()

	now := c.now().In(c.loc)
	season := c.seasonOf(now)

	windows, fallback, err := c.buildWindows(now)
	if err != nil {
		return nil, err
	}

	displays, err := c.deps.Controller.Detect(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDetectFailed, err)
	}

	run := &history.Run{
		StartedAt:     now,
		Season:        string(season),
		SolarFallback: fallback,
		DisplaysFound: len(displays),
	}

	if len(displays) == 0 {
		c.log.Info("no external displays detected")
	}

	table, def := c.profileTable()
	for _, display := range displays {
		result := c.adjustDisplay(ctx, now, display, season, windows, table, def)
		if result.Error != "" {
			run.DisplaysFailed++
		} else if result.Applied {
			run.DisplaysChanged++
		}
		run.Results = append(run.Results, result)
	}

	run.FinishedAt = c.now().In(c.loc)

	c.finishRun(ctx, run)
	return run, nil
}

// buildWindows derives the day's transition windows, falling back to the
// configured fixed boundaries when the sun never crosses the horizon angles.
func (c *Coordinator) buildWindows(now time.Time) (schedule.Windows, bool, error) {
	events, err := c.deps.Solar.Events(now)
	if err != nil {
		if !errors.Is(err, solar.ErrNoSolarEvent) {
			return schedule.Windows{}, false, fmt.Errorf("runner: computing solar events: %w", err)
		}

		dayStart, nightStart, perr := c.fallbackBoundaries(now)
		if perr != nil {
			return schedule.Windows{}, false, perr
		}
		c.log.Warn("no solar events for this date, using fixed fallback windows",
			"latitude", c.cfg.Location.Latitude,
			"day_start", dayStart.Format("15:04"),
			"night_start", nightStart.Format("15:04"),
		)
		return schedule.FallbackWindows(dayStart, nightStart), true, nil
	}

	windows, err := schedule.BuildWindows(events, c.cfg.GetOffset())
	if err != nil {
		return schedule.Windows{}, false, fmt.Errorf("runner: building windows: %w", err)
	}
	if c.deps.Metrics != nil {
		c.deps.Metrics.WriteSolarEvents(events.Dawn, events.Sunrise, events.Sunset, events.Dusk)
	}
	return windows, false, nil
}

// fallbackBoundaries anchors the configured fallback clock times to the
// current date in the configured timezone.
func (c *Coordinator) fallbackBoundaries(now time.Time) (time.Time, time.Time, error) {
	dayClock, err := config.ParseClock(c.cfg.Schedule.Fallback.DayStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("runner: fallback day_start: %w", err)
	}
	nightClock, err := config.ParseClock(c.cfg.Schedule.Fallback.NightStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("runner: fallback night_start: %w", err)
	}
	return dayClock.At(now), nightClock.At(now), nil
}

// profileTable converts the config profile section into schedule types.
func (c *Coordinator) profileTable() (schedule.ProfileTable, schedule.SeasonalProfile) {
	table := make(schedule.ProfileTable, len(c.cfg.Profiles.Monitors))
	for serial, sp := range c.cfg.Profiles.Monitors {
		table[serial] = toSeasonalProfile(sp)
	}
	return table, toSeasonalProfile(c.cfg.Profiles.Default)
}

func toSeasonalProfile(sp config.SeasonalProfile) schedule.SeasonalProfile {
	out := schedule.SeasonalProfile{}
	if sp.Summer != nil {
		out.Summer = &schedule.Profile{Day: sp.Summer.DayBrightness, Night: sp.Summer.NightBrightness}
	}
	if sp.Winter != nil {
		out.Winter = &schedule.Profile{Day: sp.Winter.DayBrightness, Night: sp.Winter.NightBrightness}
	}
	return out
}

// adjustDisplay evaluates and applies the curve for one display. All
// failures are captured in the returned result rather than propagated, so a
// misbehaving monitor cannot abort the rest of the pass.
func (c *Coordinator) adjustDisplay(
	ctx context.Context,
	now time.Time,
	display monitor.Display,
	season schedule.Season,
	windows schedule.Windows,
	table schedule.ProfileTable,
	def schedule.SeasonalProfile,
) history.Result {
	result := history.Result{
		DisplayNumber: display.Number,
		Model:         display.Model,
		Serial:        display.Serial,
	}

	profile, err := schedule.ResolveProfile(display.Serial, season, table, def)
	if err != nil {
		c.log.Error("profile resolution failed", "display", display.Number, "serial", display.Serial, "error", err)
		result.Error = err.Error()
		return result
	}

	target := int(math.Round(schedule.Evaluate(now, windows, profile, c.cfg.Schedule.AdjustSteps)))
	result.Target = target

	// Read-before-write: skip the slow DDC write when the display already
	// sits at the target. A failed read is not fatal, the write proceeds
	// blind.
	current, err := c.deps.Controller.Brightness(ctx, display.Number)
	if err != nil {
		c.log.Warn("brightness read failed, writing blind",
			"display", display.Number, "error", err)
	} else {
		result.Previous = &current
		if current == target {
			c.log.Debug("brightness already at target",
				"display", display.Number, "brightness", target)
			return result
		}
	}

	if err := c.deps.Controller.SetBrightness(ctx, display.Number, target); err != nil {
		c.log.Error("brightness write failed",
			"display", display.Number, "target", target, "error", err)
		result.Error = err.Error()
		return result
	}
	result.Applied = true

	c.log.Info("brightness set",
		"display", display.Number,
		"serial", display.Serial,
		"brightness", target,
		"season", season,
	)

	c.announce(ctx, now, display, target, season)
	return result
}

// announce drives the optional peripherals for one applied change. Their
// failures are logged and swallowed; the brightness is already on the panel.
func (c *Coordinator) announce(ctx context.Context, now time.Time, display monitor.Display, target int, season schedule.Season) {
	if c.cfg.Notifications.Enabled {
		message := fmt.Sprintf("Display %d: %d%%", display.Number, target)
		if err := c.deps.Notifier.Notify(ctx, "Display Brightness", message); err != nil {
			c.log.Warn("notification failed", "display", display.Number, "error", err)
		}
	}

	if c.deps.Publisher != nil {
		state := mqtt.DisplayState{
			Display:    display.Number,
			Model:      display.Model,
			Serial:     display.Serial,
			Brightness: target,
			Season:     string(season),
			Timestamp:  now.UTC().Format(time.RFC3339),
		}
		if err := c.deps.Publisher.PublishDisplayState(state); err != nil {
			c.log.Warn("state publish failed", "display", display.Number, "error", err)
		}
	}

	if c.deps.Metrics != nil {
		c.deps.Metrics.WriteBrightness(display.Serial, display.Model, display.Number, target, string(season))
	}
}

// finishRun records and publishes the pass outcome.
func (c *Coordinator) finishRun(ctx context.Context, run *history.Run) {
	if c.deps.Recorder != nil {
		if err := c.deps.Recorder.RecordRun(ctx, run); err != nil {
			c.log.Warn("recording run history failed", "error", err)
		}
	}

	if c.deps.Publisher != nil {
		summary := mqtt.RunSummary{
			Season:          run.Season,
			SolarFallback:   run.SolarFallback,
			DisplaysFound:   run.DisplaysFound,
			DisplaysChanged: run.DisplaysChanged,
			DisplaysFailed:  run.DisplaysFailed,
			Timestamp:       run.FinishedAt.UTC().Format(time.RFC3339),
		}
		if err := c.deps.Publisher.PublishRunSummary(summary); err != nil {
			c.log.Warn("run summary publish failed", "error", err)
		}
	}

	if c.deps.Metrics != nil {
		c.deps.Metrics.WriteRunMetrics(
			run.DisplaysFound,
			run.DisplaysChanged,
			run.DisplaysFailed,
			run.SolarFallback,
			run.FinishedAt.Sub(run.StartedAt),
		)
	}
}
