package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexeygumirov/external-monitor-brightness/internal/monitor"
)

// detectCmd lists DDC/CI capable displays.
var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "List DDC/CI capable displays",
	Long: `Probe the I2C buses via ddcutil and list every display that answers
DDC/CI, together with its current brightness.

The serial column is the key to use for per-monitor profile entries in
the config file.

Examples:
  monitor-brightness detect`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		ctl := monitor.NewDDCUtil(cfg.DDC.Binary, cfg.GetCommandTimeout())
		displays, err := ctl.Detect(ctx)
		if err != nil {
			return fmt.Errorf("detecting displays: %w", err)
		}
		if len(displays) == 0 {
			fmt.Println("no DDC/CI displays detected")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "DISPLAY\tBUS\tMANUFACTURER\tMODEL\tSERIAL\tBRIGHTNESS")
		for _, d := range displays {
			brightness := "?"
			if value, err := ctl.Brightness(ctx, d.Number); err == nil {
				brightness = fmt.Sprintf("%d%%", value)
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
				d.Number, d.Bus, d.Manufacturer, d.Model, d.Serial, brightness)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
