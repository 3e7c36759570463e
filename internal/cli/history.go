package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexeygumirov/external-monitor-brightness/internal/history"
	"github.com/alexeygumirov/external-monitor-brightness/internal/infrastructure/database"

	_ "github.com/alexeygumirov/external-monitor-brightness/migrations"
)

var (
	historyLimitFlag   int
	historyDetailsFlag bool
)

// historyCmd shows recent brightness passes from the run history store.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent brightness passes",
	Long: `List recent brightness passes recorded in the run history database,
newest first: when each pass ran, the season, whether fixed fallback
windows were used, and how many displays were found, changed and failed.

Requires database.enabled in the config.

Examples:
  monitor-brightness history
  monitor-brightness history --limit 50
  monitor-brightness history --details`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if !cfg.Database.Enabled {
			return fmt.Errorf("run history is disabled; set database.enabled in the config")
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		db, err := database.Open(database.Config{
			Path:        cfg.Database.Path,
			WALMode:     cfg.Database.WALMode,
			BusyTimeout: cfg.Database.BusyTimeout,
		})
		if err != nil {
			return fmt.Errorf("opening run history database: %w", err)
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("migrating run history database: %w", err)
		}

		runs, err := history.NewSQLiteRepository(db).RecentRuns(ctx, historyLimitFlag)
		if err != nil {
			return fmt.Errorf("reading run history: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println("no recorded passes")
			return nil
		}

		printRuns(os.Stdout, runs, historyDetailsFlag)
		return nil
	},
}

// printRuns renders passes as a table, optionally with per-display rows.
func printRuns(out io.Writer, runs []history.Run, details bool) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tSEASON\tWINDOWS\tFOUND\tCHANGED\tFAILED")
	for _, run := range runs {
		windows := "solar"
		if run.SolarFallback {
			windows = "fallback"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			run.Season, windows,
			run.DisplaysFound, run.DisplaysChanged, run.DisplaysFailed)

		if !details {
			continue
		}
		for _, res := range run.Results {
			outcome := fmt.Sprintf("-> %d%%", res.Target)
			switch {
			case res.Error != "":
				outcome = "failed: " + res.Error
			case !res.Applied:
				outcome = fmt.Sprintf("already at %d%%", res.Target)
			}
			fmt.Fprintf(w, "  display %d\t%s\t%s\t\t\t\n",
				res.DisplayNumber, res.Serial, outcome)
		}
	}
	w.Flush()
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVar(&historyLimitFlag, "limit", 20, "maximum passes to list")
	historyCmd.Flags().BoolVar(&historyDetailsFlag, "details", false, "show per-display outcomes")
}
