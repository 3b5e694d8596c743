package led

import (
	"errors"
	"testing"
)

func TestParseTriggerState(t *testing.T) {
	tests := []struct {
		content string
		want    Trigger
		wantErr bool
	}{
		{"none [timer] heartbeat", Timer, false},
		{"[heartbeat] none timer", Heartbeat, false},
		{"[none] timer heartbeat\n", None, false},
		{"none mmc0 cpu0 [timer] heartbeat default-on\n", Timer, false},
		{"none timer heartbeat", 0, true},
		{"none [bogus] timer", 0, true},
		{"none [timer heartbeat", 0, true},
		{"none ]timer[ heartbeat", 0, true},
		{"[] none", 0, true},
		{"none [mmc0] timer", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			got, err := ParseTriggerState(tt.content)
			if tt.wantErr {
				if !errors.Is(err, ErrProtocolViolation) {
					t.Fatalf("ParseTriggerState(%q) error = %v, want ErrProtocolViolation", tt.content, err)
				}
				var protoErr *ProtocolError
				if !errors.As(err, &protoErr) || protoErr.Content != tt.content {
					t.Errorf("error should be a *ProtocolError carrying the content, got %#v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTriggerState(%q) error = %v", tt.content, err)
			}
			if got != tt.want {
				t.Errorf("ParseTriggerState(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestTriggerNames(t *testing.T) {
	tests := []struct {
		trigger Trigger
		name    string
	}{
		{Heartbeat, "heartbeat"},
		{None, "none"},
		{Timer, "timer"},
	}

	for _, tt := range tests {
		if got := tt.trigger.String(); got != tt.name {
			t.Errorf("%d.String() = %q, want %q", int(tt.trigger), got, tt.name)
		}

		parsed, err := ParseTrigger(tt.name)
		if err != nil || parsed != tt.trigger {
			t.Errorf("ParseTrigger(%q) = %v, %v; want %v", tt.name, parsed, err, tt.trigger)
		}

		var unmarshaled Trigger
		if err := unmarshaled.UnmarshalText([]byte(tt.name)); err != nil || unmarshaled != tt.trigger {
			t.Errorf("UnmarshalText(%q) = %v, %v", tt.name, unmarshaled, err)
		}
	}

	if _, err := ParseTrigger("Timer"); !errors.Is(err, ErrUnknownTrigger) {
		t.Errorf("ParseTrigger is case sensitive, got err = %v", err)
	}
	if _, err := Trigger(42).MarshalText(); !errors.Is(err, ErrUnknownTrigger) {
		t.Errorf("MarshalText() of invalid trigger error = %v, want ErrUnknownTrigger", err)
	}
}
