// Package cli implements the monitor-brightness command-line interface.
//
// Commands:
//
//	monitor-brightness run      - Run the scheduling daemon
//	monitor-brightness once     - Run a single brightness pass
//	monitor-brightness detect   - List DDC/CI capable displays
//	monitor-brightness version  - Print version information
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexeygumirov/external-monitor-brightness/internal/infrastructure/config"
	"github.com/alexeygumirov/external-monitor-brightness/internal/infrastructure/logging"
)

// Persistent flags shared by all commands.
var (
	configFlag      string
	logLevelFlag    string
	adjustStepsFlag int
	intervalFlag    int
	offsetFlag      int
)

// rootCmd is the base command all subcommands attach to.
var rootCmd = &cobra.Command{
	Use:   "monitor-brightness",
	Short: "Solar-tracking brightness control for external monitors",
	Long: `monitor-brightness adjusts external monitor brightness over DDC/CI,
following the sun at a configured location.

Brightness ramps between a night and a day level across the dawn and dusk
twilight windows, with seasonal day/night profiles per monitor. Displays
are driven through ddcutil; state can optionally be recorded to SQLite,
published over MQTT, and written to InfluxDB.

Configuration is read from ` + "`$XDG_CONFIG_HOME/monitor-brightness/config.yaml`" + `
(built-in defaults apply when the file is absent) and can be overridden
with EMB_* environment variables and the flags below.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFlag, "config", "", "config file (default "+config.DefaultPath()+")")
	pf.StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error")
	pf.IntVar(&adjustStepsFlag, "adjust-steps", 0, "transition plateaus per twilight window (1-10)")
	pf.IntVar(&intervalFlag, "interval", 0, "minutes between passes (10, 12, 15, 20 or 30)")
	pf.IntVar(&offsetFlag, "offset", -1, "sunrise/sunset window extension in minutes (0-120)")
}

// loadConfig loads configuration honouring --config and flag overrides.
// A missing config file is not an error: the built-in defaults apply,
// matching first-run behaviour.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configFlag
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		if !errors.Is(err, config.ErrFileNotFound) {
			return nil, err
		}
		cfg = config.Default()
	}

	applyFlagOverrides(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// applyFlagOverrides copies explicitly-set flags into the configuration.
// Flags rank above both the file and EMB_* environment variables.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("adjust-steps") {
		cfg.Schedule.AdjustSteps = adjustStepsFlag
	}
	if flags.Changed("interval") {
		cfg.Schedule.IntervalMinutes = intervalFlag
	}
	if flags.Changed("offset") {
		cfg.Schedule.SunriseSunsetOffsetMinutes = offsetFlag
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevelFlag
	}
}

// newLogger builds the application logger from the loaded configuration.
func newLogger(cfg *config.Config) *logging.Logger {
	return logging.New(cfg.Logging, GetVersion())
}
