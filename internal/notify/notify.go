package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const (
	// DefaultBinary is the notify-send executable looked up on PATH.
	DefaultBinary = "notify-send"

	// sendTimeout bounds a single notification delivery. A missing or hung
	// notification daemon must not stall a brightness pass.
	sendTimeout = 5 * time.Second

	// appName identifies this program to the notification daemon.
	appName = "monitor-brightness"
)

// Notifier delivers a user-visible notification.
type Notifier interface {
	Notify(ctx context.Context, summary, body string) error
}

// Desktop sends notifications through the notify-send command.
type Desktop struct {
	binary string
	run    func(ctx context.Context, binary string, args ...string) error
}

// NewDesktop creates a Notifier backed by notify-send. An empty binary falls
// back to DefaultBinary.
func NewDesktop(binary string) *Desktop {
	if binary == "" {
		binary = DefaultBinary
	}
	d := &Desktop{binary: binary}
	d.run = d.execute
	return d
}

// Notify delivers a notification with normal urgency.
func (d *Desktop) Notify(ctx context.Context, summary, body string) error {
	err := d.run(ctx, d.binary, "--app-name", appName, "--urgency", "normal", summary, body)
	if err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	return nil
}

func (d *Desktop) execute(ctx context.Context, binary string, args ...string) error {
	runCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, binary, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			msg = err.Error()
		}
		return fmt.Errorf("%s: %s", binary, msg)
	}
	return nil
}

// Noop is a Notifier that silently discards every notification.
type Noop struct{}

// Notify implements Notifier and does nothing.
func (Noop) Notify(context.Context, string, string) error { return nil }
