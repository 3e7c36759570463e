package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexeygumirov/external-monitor-brightness/internal/history"
	"github.com/alexeygumirov/external-monitor-brightness/internal/infrastructure/config"
	"github.com/alexeygumirov/external-monitor-brightness/internal/infrastructure/database"
	"github.com/alexeygumirov/external-monitor-brightness/internal/infrastructure/influxdb"
	"github.com/alexeygumirov/external-monitor-brightness/internal/infrastructure/logging"
	"github.com/alexeygumirov/external-monitor-brightness/internal/infrastructure/mqtt"
	"github.com/alexeygumirov/external-monitor-brightness/internal/lockfile"
	"github.com/alexeygumirov/external-monitor-brightness/internal/monitor"
	"github.com/alexeygumirov/external-monitor-brightness/internal/notify"
	"github.com/alexeygumirov/external-monitor-brightness/internal/runner"
	"github.com/alexeygumirov/external-monitor-brightness/internal/solar"

	// Registers the embedded SQL migrations with the database package.
	_ "github.com/alexeygumirov/external-monitor-brightness/migrations"
)

// app bundles the constructed coordinator with the peripherals that
// need explicit shutdown.
type app struct {
	coordinator *runner.Coordinator
	history     history.Repository
	closers     []func()
}

// close shuts peripherals down in reverse construction order.
func (r *app) close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
}

// buildApp constructs the coordinator and its collaborators from the
// configuration. Optional peripherals (database, MQTT, InfluxDB) are only
// connected when enabled; a refused connection is fatal so misconfiguration
// surfaces at startup rather than silently during a pass.
func buildApp(ctx context.Context, cfg *config.Config, log *logging.Logger) (*app, error) {
	rt := &app{}

	loc, err := time.LoadLocation(cfg.Location.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", cfg.Location.Timezone, err)
	}

	deps := runner.Deps{
		Solar:      solar.NewCalculator(cfg.Location.Latitude, cfg.Location.Longitude, loc),
		Controller: monitor.NewDDCUtil(cfg.DDC.Binary, cfg.GetCommandTimeout()),
		Guard:      lockfile.New(cfg.Lock.Path),
		Notifier:   notify.Noop{},
	}
	if cfg.Notifications.Enabled {
		deps.Notifier = notify.NewDesktop(cfg.Notifications.Binary)
	}

	if cfg.Database.Enabled {
		db, err := database.Open(database.Config{
			Path:        cfg.Database.Path,
			WALMode:     cfg.Database.WALMode,
			BusyTimeout: cfg.Database.BusyTimeout,
		})
		if err != nil {
			rt.close()
			return nil, fmt.Errorf("opening run history database: %w", err)
		}
		rt.closers = append(rt.closers, func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close database", "error", err)
			}
		})
		if err := db.Migrate(ctx); err != nil {
			rt.close()
			return nil, fmt.Errorf("migrating run history database: %w", err)
		}
		if err := db.HealthCheck(ctx); err != nil {
			rt.close()
			return nil, fmt.Errorf("run history database health check: %w", err)
		}
		repo := history.NewSQLiteRepository(db)
		deps.Recorder = repo
		rt.history = repo
		log.Info("Run history enabled", "path", db.Path())
	}

	if cfg.MQTT.Enabled {
		client, err := mqtt.Connect(cfg.MQTT)
		if err != nil {
			rt.close()
			return nil, fmt.Errorf("connecting to MQTT broker: %w", err)
		}
		rt.closers = append(rt.closers, func() {
			if err := client.Close(); err != nil {
				log.Error("Failed to close MQTT client", "error", err)
			}
		})
		client.SetOnConnect(func() {
			log.Info("MQTT connection established")
		})
		client.SetOnDisconnect(func(err error) {
			log.Warn("MQTT connection lost", "error", err)
		})
		if err := client.HealthCheck(ctx); err != nil {
			log.Warn("MQTT health check failed", "error", err)
		}
		deps.Publisher = client
		log.Info("MQTT state publishing enabled",
			"host", cfg.MQTT.Broker.Host,
			"port", cfg.MQTT.Broker.Port)
	}

	if cfg.InfluxDB.Enabled {
		client, err := influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			rt.close()
			return nil, fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		rt.closers = append(rt.closers, func() {
			if err := client.Close(); err != nil {
				log.Error("Failed to close InfluxDB client", "error", err)
			}
		})
		client.SetOnError(func(err error) {
			log.Warn("InfluxDB write failed", "error", err)
		})
		if err := client.HealthCheck(ctx); err != nil {
			log.Warn("InfluxDB health check failed", "error", err)
		}
		deps.Metrics = client
		log.Info("InfluxDB telemetry enabled",
			"url", cfg.InfluxDB.URL,
			"bucket", cfg.InfluxDB.Bucket)
	}

	coord, err := runner.New(cfg, log, deps)
	if err != nil {
		rt.close()
		return nil, err
	}
	rt.coordinator = coord
	return rt, nil
}
