package influxdb

import (
	"strconv"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteBrightness records the brightness applied to one display.
//
// The write is non-blocking; data is batched and sent asynchronously.
// Tags are the display identity, the field is the applied percentage.
//
// Parameters:
//   - serial: Display serial number (stable across reconnects)
//   - model: Display model string
//   - display: ddcutil display number at the time of the write
//   - brightness: Applied brightness percentage
//   - season: Seasonal profile bucket the value was derived from
func (c *Client) WriteBrightness(serial, model string, display, brightness int, season string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"brightness",
		map[string]string{
			"serial": serial,
			"model":  model,
			"season": season,
		},
		map[string]interface{}{
			"percent": brightness,
			"display": display,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteRunMetrics records the outcome of one brightness pass.
//
// Parameters:
//   - found: Number of displays detected
//   - changed: Number of displays whose brightness was written
//   - failed: Number of displays that could not be updated
//   - fallback: Whether the pass used fixed fallback windows
//   - duration: Wall-clock duration of the pass
func (c *Client) WriteRunMetrics(found, changed, failed int, fallback bool, duration time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"runs",
		map[string]string{
			"solar_fallback": strconv.FormatBool(fallback),
		},
		map[string]interface{}{
			"displays_found":   found,
			"displays_changed": changed,
			"displays_failed":  failed,
			"duration_ms":      duration.Milliseconds(),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteSolarEvents records the day's solar instants, written once per pass
// when the events could be computed (fallback passes have none).
//
// Parameters:
//   - dawn, sunrise, sunset, dusk: The four solar timestamps for the pass date
func (c *Client) WriteSolarEvents(dawn, sunrise, sunset, dusk time.Time) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"solar_events",
		map[string]string{},
		map[string]interface{}{
			"dawn":    dawn.Unix(),
			"sunrise": sunrise.Unix(),
			"sunset":  sunset.Unix(),
			"dusk":    dusk.Unix(),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
