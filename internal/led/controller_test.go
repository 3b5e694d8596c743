package led

import (
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"
)

func TestNoopController(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctrl := newNoop("Raspberry Pi 4 Model B", logger)

	tests := []struct {
		name    string
		led     string
		state   State
		wantErr error
	}{
		{"valid state", "usr0", State{Pattern: PatternOn}, ErrNotSupported},
		{"unknown pattern", "usr0", State{Pattern: "strobe"}, ErrUnknownPattern},
		{"unknown led", "usr7", State{Pattern: PatternOff}, ErrUnknownLED},
	}
	for _, tt := range tests {
		if err := ctrl.Set(tt.led, tt.state); !errors.Is(err, tt.wantErr) {
			t.Errorf("%s: Set() error = %v, want %v", tt.name, err, tt.wantErr)
		}
	}

	if _, err := ctrl.Trigger("usr0"); !errors.Is(err, ErrNotSupported) {
		t.Errorf("Trigger() error = %v, want ErrNotSupported", err)
	}

	// Should return empty lists
	if names := ctrl.Available(); len(names) != 0 {
		t.Errorf("Available() = %v, want empty slice", names)
	}

	if patterns := ctrl.Patterns(); len(patterns) != 0 {
		t.Errorf("Patterns() = %v, want empty slice", patterns)
	}
}

func TestSysfsController_Available(t *testing.T) {
	ctrl := newSysfs(BasePath, newFakeFS())

	want := []string{"usr0", "usr1", "usr2", "usr3"}
	if got := ctrl.Available(); !reflect.DeepEqual(got, want) {
		t.Errorf("Available() = %v, want %v", got, want)
	}
}

func TestSysfsController_Patterns(t *testing.T) {
	ctrl := newSysfs(BasePath, newFakeFS())
	patterns := ctrl.Patterns()

	expectedPatterns := []string{"off", "on", "blink", "heartbeat"}
	if !reflect.DeepEqual(patterns, expectedPatterns) {
		t.Errorf("Patterns() = %v, want %v", patterns, expectedPatterns)
	}
}

func TestSysfsController_Set(t *testing.T) {
	tests := []struct {
		name  string
		led   string
		state State
		want  []string
	}{
		{"off", "usr0", State{Pattern: PatternOff}, []string{"trigger=none", "brightness=0"}},
		{"on default", "usr1", State{Pattern: PatternOn}, []string{"trigger=none", "brightness=1"}},
		{"on brightness", "1", State{Pattern: PatternOn, Brightness: 128}, []string{"trigger=none", "brightness=128"}},
		{"blink defaults", "usr2", State{Pattern: PatternBlink}, []string{"trigger=timer", "delay_on=500", "delay_off=500"}},
		{"blink delays", "usr3", State{Pattern: PatternBlink, DelayOnMs: 50, DelayOffMs: 950}, []string{"trigger=timer", "delay_on=50", "delay_off=950"}},
		{"heartbeat", "usr0", State{Pattern: PatternHeartbeat}, []string{"trigger=heartbeat"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeFS()
			ctrl := newSysfs("/sys/class/leds/beaglebone:green:usr", fake)

			if err := ctrl.Set(tt.led, tt.state); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			if got := fake.written(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("writes = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSysfsController_Set_InvalidType(t *testing.T) {
	fake := newFakeFS()
	ctrl := newSysfs(BasePath, fake)

	// Should error on unsupported LED name
	if err := ctrl.Set("nonexistent", State{Pattern: PatternOn}); !errors.Is(err, ErrUnknownLED) {
		t.Errorf("Set() with invalid LED error = %v, want ErrUnknownLED", err)
	}

	// Should error on unsupported pattern without touching the device
	if err := ctrl.Set("usr0", State{Pattern: "strobe"}); !errors.Is(err, ErrUnknownPattern) {
		t.Errorf("Set() with invalid pattern error = %v, want ErrUnknownPattern", err)
	}
	if len(fake.writes) != 0 {
		t.Errorf("invalid requests must not write, got %v", fake.written())
	}
}

func TestSysfsController_Trigger(t *testing.T) {
	fake := newFakeFS()
	ctrl := newSysfs("/leds/usr", fake)
	fake.files["/leds/usr3/trigger"] = "none [heartbeat] timer"

	got, err := ctrl.Trigger("usr3")
	if err != nil || got != Heartbeat {
		t.Errorf("Trigger() = %v, %v; want heartbeat, nil", got, err)
	}

	if _, err := ctrl.Trigger("usr9"); !errors.Is(err, ErrUnknownLED) {
		t.Errorf("Trigger() with invalid LED error = %v, want ErrUnknownLED", err)
	}
}

func TestSysfsController_SerializesPerLED(t *testing.T) {
	fake := newFakeFS()
	ctrl := newSysfs(BasePath, fake)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			state := State{Pattern: PatternBlink, DelayOnMs: uint32(i + 1), DelayOffMs: uint32(i + 1)}
			_ = ctrl.Set("usr0", state)
		}()
	}
	wg.Wait()

	// Each Blink is three writes; a locked controller never interleaves them.
	writes := fake.written()
	if len(writes) != 60 {
		t.Fatalf("expected 60 writes, got %d", len(writes))
	}
	for i := 0; i < len(writes); i += 3 {
		if writes[i] != "trigger=timer" {
			t.Fatalf("write %d = %q, want trigger=timer (interleaved operations)", i, writes[i])
		}
	}
}
