package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/alexeygumirov/external-monitor-brightness/internal/runner"
)

// onceCmd runs a single brightness pass and exits.
var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Run a single brightness pass",
	Long: `Detect displays, compute the target brightness for the current time and
season, and apply it to each display. Exits when the pass completes.

Useful from cron, a resume hook, or for trying out profile changes.

Examples:
  monitor-brightness once
  monitor-brightness once --adjust-steps 1
  monitor-brightness once --log-level debug`,
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

		run, err := rt.coordinator.Run(ctx)
		if err != nil {
			if errors.Is(err, runner.ErrAlreadyRunning) {
				log.Warn("Another instance holds the lock, nothing to do")
				return nil
			}
			return err
		}

		for _, res := range run.Results {
			switch {
			case res.Error != "":
				fmt.Printf("display %d (%s): failed: %s\n", res.DisplayNumber, res.Model, res.Error)
			case res.Applied:
				fmt.Printf("display %d (%s): brightness set to %d%%\n", res.DisplayNumber, res.Model, res.Target)
			default:
				fmt.Printf("display %d (%s): already at %d%%\n", res.DisplayNumber, res.Model, res.Target)
			}
		}
		if run.DisplaysFound == 0 {
			fmt.Println("no DDC/CI displays detected")
		}
		if run.DisplaysFailed > 0 {
			return fmt.Errorf("%d of %d displays failed", run.DisplaysFailed, run.DisplaysFound)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(onceCmd)
}
