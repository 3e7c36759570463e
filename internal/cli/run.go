package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexeygumirov/external-monitor-brightness/internal/scheduler"
)

// runCmd starts the scheduling daemon.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the brightness scheduling daemon",
	Long: `Start the daemon: an immediate brightness pass, then one pass on every
wall-clock tick of the configured interval (e.g. :00, :12, :24 for a
12-minute interval) until interrupted.

Examples:
  monitor-brightness run
  monitor-brightness run --interval 15 --offset 30
  monitor-brightness run --config /etc/monitor-brightness/config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		log := newLogger(cfg)

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		rt, err := buildApp(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer rt.close()

		log.Info("Starting monitor-brightness daemon",
			"version", GetVersion(),
			"city", cfg.Location.City,
			"timezone", cfg.Location.Timezone,
			"interval_minutes", cfg.Schedule.IntervalMinutes)

		// Retention: drop run history older than the configured window.
		if rt.history != nil && cfg.Database.RetentionDays > 0 {
			pruned, err := rt.history.Prune(ctx, cfg.GetRetention())
			if err != nil {
				log.Warn("Pruning run history failed", "error", err)
			} else if pruned > 0 {
				log.Info("Pruned run history",
					"runs", pruned,
					"retention_days", cfg.Database.RetentionDays)
			}
		}

		sched, err := scheduler.New(cfg.GetInterval(), rt.coordinator, log)
		if err != nil {
			return err
		}
		if err := sched.Start(ctx); err != nil {
			return err
		}

		log.Info("Shutdown complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
