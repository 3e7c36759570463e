package monitor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

const detectTwoDisplays = `Display 1
   I2C bus:  /dev/i2c-4
   Monitor:  DEL:DELL U2412M:ABC123

Display 2
   I2C bus:  /dev/i2c-5
   Monitor:  SAM:U32J59x:HTPK500289
`

func TestParseDetect(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    []Display
		wantErr bool
	}{
		{
			name:   "two displays",
			output: detectTwoDisplays,
			want: []Display{
				{Number: 1, Bus: "/dev/i2c-4", Manufacturer: "del", Model: "dellu2412m", Serial: "abc123"},
				{Number: 2, Bus: "/dev/i2c-5", Manufacturer: "sam", Model: "u32j59x", Serial: "htpk500289"},
			},
		},
		{
			name:   "no displays",
			output: "",
			want:   nil,
		},
		{
			name: "invalid display block skipped",
			output: `Invalid display
   I2C bus:  /dev/i2c-3
   DDC communication failed

Display 1
   I2C bus:  /dev/i2c-4
   Monitor:  DEL:DELL U2412M:ABC123
`,
			want: []Display{
				{Number: 1, Bus: "/dev/i2c-4", Manufacturer: "del", Model: "dellu2412m", Serial: "abc123"},
			},
		},
		{
			name: "missing monitor line",
			output: `Display 1
   I2C bus:  /dev/i2c-4
`,
			want: []Display{
				{Number: 1, Bus: "/dev/i2c-4"},
			},
		},
		{
			name:    "garbled display header",
			output:  "Display\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDetect(tt.output)
			if tt.wantErr {
				if !errors.Is(err, ErrUnexpectedOutput) {
					t.Fatalf("parseDetect() error = %v, want ErrUnexpectedOutput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDetect() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseDetect() returned %d displays, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("display[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseVCPValue(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    int
		wantErr bool
	}{
		{name: "typical", output: "VCP 10 C 50 100\n", want: 50},
		{name: "full brightness", output: "VCP 10 C 100 100", want: 100},
		{name: "trailing noise line", output: "VCP 10 C 73 100\nsome warning", want: 73},
		{name: "empty", output: "", wantErr: true},
		{name: "short line", output: "VCP 10\n", wantErr: true},
		{name: "non-numeric", output: "VCP 10 C xx 100", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVCPValue(tt.output)
			if tt.wantErr {
				if !errors.Is(err, ErrUnexpectedOutput) {
					t.Fatalf("parseVCPValue() error = %v, want ErrUnexpectedOutput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseVCPValue() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("parseVCPValue() = %d, want %d", got, tt.want)
			}
		})
	}
}

// stubController returns a DDCUtil whose command execution is replaced with
// the given function.
func stubController(run runFunc) *DDCUtil {
	d := NewDDCUtil("", time.Second)
	d.run = run
	return d
}

func TestDDCUtil_Detect(t *testing.T) {
	var gotArgs []string
	d := stubController(func(_ context.Context, _ string, args ...string) ([]byte, error) {
		gotArgs = args
		return []byte(detectTwoDisplays), nil
	})

	displays, err := d.Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(displays) != 2 {
		t.Fatalf("Detect() returned %d displays, want 2", len(displays))
	}
	if want := "detect --terse"; strings.Join(gotArgs, " ") != want {
		t.Errorf("Detect() invoked with %q, want %q", strings.Join(gotArgs, " "), want)
	}
}

func TestDDCUtil_Brightness(t *testing.T) {
	d := stubController(func(_ context.Context, _ string, args ...string) ([]byte, error) {
		if want := "-d 2 -t getvcp 10"; strings.Join(args, " ") != want {
			t.Errorf("Brightness() invoked with %q, want %q", strings.Join(args, " "), want)
		}
		return []byte("VCP 10 C 85 100\n"), nil
	})

	got, err := d.Brightness(context.Background(), 2)
	if err != nil {
		t.Fatalf("Brightness() error = %v", err)
	}
	if got != 85 {
		t.Errorf("Brightness() = %d, want 85", got)
	}
}

func TestDDCUtil_SetBrightness(t *testing.T) {
	var gotArgs []string
	d := stubController(func(_ context.Context, _ string, args ...string) ([]byte, error) {
		gotArgs = args
		return nil, nil
	})

	if err := d.SetBrightness(context.Background(), 1, 73); err != nil {
		t.Fatalf("SetBrightness() error = %v", err)
	}
	if want := "-d 1 setvcp 10 73"; strings.Join(gotArgs, " ") != want {
		t.Errorf("SetBrightness() invoked with %q, want %q", strings.Join(gotArgs, " "), want)
	}
}

func TestDDCUtil_SetBrightness_Range(t *testing.T) {
	d := stubController(func(context.Context, string, ...string) ([]byte, error) {
		t.Fatal("command must not run for out-of-range brightness")
		return nil, nil
	})

	for _, percent := range []int{-1, 101} {
		if err := d.SetBrightness(context.Background(), 1, percent); !errors.Is(err, ErrBrightnessRange) {
			t.Errorf("SetBrightness(%d) error = %v, want ErrBrightnessRange", percent, err)
		}
	}
}

func TestDDCUtil_CommandFailure(t *testing.T) {
	failure := errors.New("boom")
	d := stubController(func(context.Context, string, ...string) ([]byte, error) {
		return nil, failure
	})

	if _, err := d.Detect(context.Background()); !errors.Is(err, failure) {
		t.Errorf("Detect() error = %v, want wrapped command failure", err)
	}
	if _, err := d.Brightness(context.Background(), 1); !errors.Is(err, failure) {
		t.Errorf("Brightness() error = %v, want wrapped command failure", err)
	}
	if err := d.SetBrightness(context.Background(), 1, 50); !errors.Is(err, failure) {
		t.Errorf("SetBrightness() error = %v, want wrapped command failure", err)
	}
}

func TestDDCUtil_ExecuteTimeout(t *testing.T) {
	d := NewDDCUtil("sleep", 50*time.Millisecond)

	_, err := d.execute(context.Background(), "sleep", "5")
	if !errors.Is(err, ErrCommandTimeout) {
		t.Fatalf("execute() error = %v, want ErrCommandTimeout", err)
	}
}

func TestDDCUtil_Defaults(t *testing.T) {
	d := NewDDCUtil("", 0)
	if d.binary != DefaultBinary {
		t.Errorf("binary = %q, want %q", d.binary, DefaultBinary)
	}
	if d.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", d.timeout, DefaultTimeout)
	}
}
