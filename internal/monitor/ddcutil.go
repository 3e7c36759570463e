package monitor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

const (
	// vcpBrightness is the MCCS feature code for luminance.
	vcpBrightness = "10"

	// DefaultBinary is the ddcutil executable looked up on PATH when no
	// explicit path is configured.
	DefaultBinary = "ddcutil"

	// DefaultTimeout bounds a single ddcutil invocation. DDC/CI is a slow
	// bus; detection with several displays can take a few seconds.
	DefaultTimeout = 10 * time.Second
)

// Controller abstracts display detection and brightness access so callers can
// be tested without real hardware on the I2C bus.
type Controller interface {
	// Detect lists the connected DDC/CI-capable displays.
	Detect(ctx context.Context) ([]Display, error)

	// Brightness reads the current brightness percentage of a display.
	Brightness(ctx context.Context, display int) (int, error)

	// SetBrightness writes a brightness percentage (0-100) to a display.
	SetBrightness(ctx context.Context, display int, percent int) error
}

// runFunc executes an external command and returns its combined stdout.
// Swappable in tests.
type runFunc func(ctx context.Context, binary string, args ...string) ([]byte, error)

// DDCUtil is a Controller backed by the ddcutil command-line tool.
type DDCUtil struct {
	binary  string
	timeout time.Duration
	run     runFunc
}

// NewDDCUtil creates a Controller that shells out to ddcutil.
// An empty binary falls back to DefaultBinary; a non-positive timeout falls
// back to DefaultTimeout.
func NewDDCUtil(binary string, timeout time.Duration) *DDCUtil {
	if binary == "" {
		binary = DefaultBinary
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	d := &DDCUtil{
		binary:  binary,
		timeout: timeout,
	}
	d.run = d.execute
	return d
}

// Detect lists the connected DDC/CI-capable displays by parsing the terse
// detection output. Displays that fail to initialize ("Invalid display"
// blocks) are skipped rather than reported as errors.
func (d *DDCUtil) Detect(ctx context.Context) ([]Display, error) {
	out, err := d.run(ctx, d.binary, "detect", "--terse")
	if err != nil {
		return nil, fmt.Errorf("detecting displays: %w", err)
	}
	return parseDetect(string(out))
}

// Brightness reads the current value of the luminance feature for the given
// display number.
func (d *DDCUtil) Brightness(ctx context.Context, display int) (int, error) {
	out, err := d.run(ctx, d.binary, "-d", strconv.Itoa(display), "-t", "getvcp", vcpBrightness)
	if err != nil {
		return 0, fmt.Errorf("reading brightness of display %d: %w", display, err)
	}

	value, err := parseVCPValue(string(out))
	if err != nil {
		return 0, fmt.Errorf("reading brightness of display %d: %w", display, err)
	}
	return value, nil
}

// SetBrightness writes a brightness percentage to the given display number.
func (d *DDCUtil) SetBrightness(ctx context.Context, display int, percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%w: %d", ErrBrightnessRange, percent)
	}

	_, err := d.run(ctx, d.binary, "-d", strconv.Itoa(display), "setvcp", vcpBrightness, strconv.Itoa(percent))
	if err != nil {
		return fmt.Errorf("setting brightness of display %d to %d: %w", display, percent, err)
	}
	return nil
}

// execute runs the binary under the configured timeout and returns stdout.
func (d *DDCUtil) execute(ctx context.Context, binary string, args ...string) ([]byte, error) {
	runCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w after %s: %s %s", ErrCommandTimeout, d.timeout, binary, strings.Join(args, " "))
	}

	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		msg = err.Error()
	}
	return nil, fmt.Errorf("%w: %s %s: %s", ErrCommandFailed, binary, strings.Join(args, " "), msg)
}

// parseDetect converts the terse detection output into Display values.
//
// The terse format groups one display per blank-line-separated block:
//
//	Display 1
//	   I2C bus:  /dev/i2c-4
//	   Monitor:  DEL:DELL U2412M:ABC123
//
// Blocks that do not start with a "Display N" header (e.g. "Invalid display")
// are skipped.
func parseDetect(out string) ([]Display, error) {
	var (
		displays []Display
		block    []string
	)

	flush := func() error {
		if len(block) == 0 {
			return nil
		}
		d, ok, err := parseDetectBlock(block)
		if err != nil {
			return err
		}
		if ok {
			displays = append(displays, d)
		}
		block = nil
		return nil
	}

	for _, line := range strings.Split(strings.ToLower(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		block = append(block, line)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return displays, nil
}

// parseDetectBlock parses a single detection block. The second return value
// is false when the block does not describe a usable display.
func parseDetectBlock(lines []string) (Display, bool, error) {
	var d Display

	header := lines[0]
	if !strings.HasPrefix(header, "display ") {
		return Display{}, false, nil
	}

	fields := strings.Fields(header)
	if len(fields) < 2 {
		return Display{}, false, fmt.Errorf("%w: malformed display header %q", ErrUnexpectedOutput, header)
	}
	number, err := strconv.Atoi(fields[1])
	if err != nil {
		return Display{}, false, fmt.Errorf("%w: malformed display header %q", ErrUnexpectedOutput, header)
	}
	d.Number = number

	for _, line := range lines[1:] {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.ReplaceAll(strings.TrimSpace(value), " ", "")

		switch key {
		case "i2c bus":
			// The bus path itself contains no spaces; re-add nothing.
			d.Bus = value
		case "monitor":
			// Format: MFG:MODEL:SERIAL.
			parts := strings.SplitN(value, ":", 3)
			if len(parts) == 3 {
				d.Manufacturer, d.Model, d.Serial = parts[0], parts[1], parts[2]
			}
		}
	}

	return d, true, nil
}

// parseVCPValue extracts the current value from terse getvcp output.
//
// The terse format for a continuous feature is:
//
//	VCP 10 C 50 100
//
// where field 3 is the current value and field 4 the maximum.
func parseVCPValue(out string) (int, error) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return 0, fmt.Errorf("%w: empty getvcp response", ErrUnexpectedOutput)
	}

	fields := strings.Fields(lines[0])
	if len(fields) < 4 {
		return 0, fmt.Errorf("%w: short getvcp response %q", ErrUnexpectedOutput, lines[0])
	}

	value, err := strconv.Atoi(fields[3])
	if err != nil {
		return 0, fmt.Errorf("%w: non-numeric brightness %q", ErrUnexpectedOutput, fields[3])
	}
	return value, nil
}
