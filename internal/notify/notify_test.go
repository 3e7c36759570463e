package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestDesktop_Notify(t *testing.T) {
	var gotBinary string
	var gotArgs []string

	d := NewDesktop("custom-send")
	d.run = func(_ context.Context, binary string, args ...string) error {
		gotBinary = binary
		gotArgs = args
		return nil
	}

	if err := d.Notify(context.Background(), "Display Brightness", "Display 1: 73%"); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if gotBinary != "custom-send" {
		t.Errorf("binary = %q, want %q", gotBinary, "custom-send")
	}
	joined := strings.Join(gotArgs, " ")
	if !strings.Contains(joined, "--app-name monitor-brightness") {
		t.Errorf("args %q missing app name", joined)
	}
	if !strings.HasSuffix(joined, "Display Brightness Display 1: 73%") {
		t.Errorf("args %q missing summary/body", joined)
	}
}

func TestDesktop_NotifyError(t *testing.T) {
	failure := errors.New("no notification daemon")
	d := NewDesktop("")
	d.run = func(context.Context, string, ...string) error { return failure }

	if err := d.Notify(context.Background(), "s", "b"); !errors.Is(err, failure) {
		t.Errorf("Notify() error = %v, want wrapped failure", err)
	}
}

func TestDesktop_DefaultBinary(t *testing.T) {
	if d := NewDesktop(""); d.binary != DefaultBinary {
		t.Errorf("binary = %q, want %q", d.binary, DefaultBinary)
	}
}

func TestNoop(t *testing.T) {
	if err := (Noop{}).Notify(context.Background(), "s", "b"); err != nil {
		t.Errorf("Noop.Notify() error = %v, want nil", err)
	}
}
