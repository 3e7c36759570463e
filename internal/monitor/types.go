package monitor

import "fmt"

// Display is one DDC/CI-capable external display as reported by detection.
type Display struct {
	// Number is the ddcutil display number used to address the display
	// in getvcp/setvcp calls. Numbers are assigned by ddcutil and may
	// change across reconnects.
	Number int

	// Bus is the I2C device path, e.g. "/dev/i2c-4". Informational only.
	Bus string

	// Manufacturer is the three-letter PNP vendor code, e.g. "del".
	Manufacturer string

	// Model is the monitor model string reported over EDID.
	Model string

	// Serial is the monitor serial number reported over EDID. This is
	// the key used for per-monitor profile lookup. May be empty when the
	// monitor does not report one.
	Serial string
}

// String returns a compact human-readable identity for logging.
func (d Display) String() string {
	return fmt.Sprintf("display %d (%s %s serial=%s)", d.Number, d.Manufacturer, d.Model, d.Serial)
}
