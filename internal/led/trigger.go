package led

import (
	"errors"
	"fmt"
	"strings"
)

// Trigger is the kernel LED trigger driving an LED.
type Trigger int

// Trigger modes understood by the controller.
const (
	// Heartbeat blinks with the system heartbeat.
	Heartbeat Trigger = iota
	// None leaves the LED under manual brightness control.
	None
	// Timer blinks with the delays written to delay_on and delay_off.
	Timer
)

var (
	// ErrProtocolViolation means a trigger file did not hold the expected
	// bracketed selection. Callers should treat it as fatal.
	ErrProtocolViolation = errors.New("led: trigger protocol violation")
	// ErrUnknownLED is returned for LED names that do not exist on the board.
	ErrUnknownLED = errors.New("led: unknown LED")
	// ErrUnknownTrigger is returned by ParseTrigger for unsupported names.
	ErrUnknownTrigger = errors.New("led: unknown trigger")
)

// ProtocolError describes trigger file content that could not be parsed.
type ProtocolError struct {
	Content string
	Reason  string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%v: %s in %q", ErrProtocolViolation, e.Reason, e.Content)
}

// Is reports ErrProtocolViolation as a match.
func (e *ProtocolError) Is(target error) bool {
	return target == ErrProtocolViolation
}

// String returns the name the kernel uses for the trigger.
func (t Trigger) String() string {
	switch t {
	case Heartbeat:
		return "heartbeat"
	case None:
		return "none"
	case Timer:
		return "timer"
	default:
		return fmt.Sprintf("Trigger(%d)", int(t))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Trigger) MarshalText() ([]byte, error) {
	switch t {
	case Heartbeat, None, Timer:
		return []byte(t.String()), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownTrigger, int(t))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Trigger) UnmarshalText(text []byte) error {
	parsed, err := ParseTrigger(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTrigger maps a kernel trigger name to a Trigger.
func ParseTrigger(name string) (Trigger, error) {
	switch name {
	case "heartbeat":
		return Heartbeat, nil
	case "none":
		return None, nil
	case "timer":
		return Timer, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTrigger, name)
	}
}

// ParseTriggerState extracts the active trigger from the content of a trigger
// file, e.g. "none [timer] heartbeat". The active name is the text between the
// first '[' and the first ']' after it.
func ParseTriggerState(content string) (Trigger, error) {
	open := strings.IndexByte(content, '[')
	if open < 0 {
		return 0, &ProtocolError{Content: content, Reason: "no active trigger marker"}
	}

	closing := strings.IndexByte(content[open+1:], ']')
	if closing < 0 {
		return 0, &ProtocolError{Content: content, Reason: "unterminated active trigger marker"}
	}

	name := content[open+1 : open+1+closing]
	t, err := ParseTrigger(name)
	if err != nil {
		return 0, &ProtocolError{Content: content, Reason: fmt.Sprintf("unknown trigger %q", name)}
	}

	return t, nil
}
