package led

import (
	"errors"
	"fmt"
)

// Controller abstracts LED control for the daemon and HTTP API.
// Implementations map board LED names onto their hardware.
type Controller interface {
	// Set applies a state to an LED
	// Parameters:
	//   name:  board LED name (e.g., "usr0"); bare suffixes like "0" are accepted
	//   state: pattern plus optional brightness and blink delays
	Set(name string, state State) error

	// Trigger reads the LED's active trigger from the device
	Trigger(name string) (Trigger, error)

	// Available returns the list of LED names supported by this controller
	Available() []string

	// Patterns returns the list of patterns supported by this controller
	Patterns() []string
}

// Pattern is a board-agnostic LED behavior.
type Pattern string

// Patterns accepted by Controller.Set.
const (
	PatternOff       Pattern = "off"
	PatternOn        Pattern = "on"
	PatternBlink     Pattern = "blink"
	PatternHeartbeat Pattern = "heartbeat"
)

// Default blink delays used when a blink state leaves them unset.
const (
	DefaultDelayOnMs  uint32 = 500
	DefaultDelayOffMs uint32 = 500
)

// ErrUnknownPattern is returned for patterns outside Patterns().
var ErrUnknownPattern = errors.New("led: unknown pattern")

// State is the requested behavior of one LED.
type State struct {
	Pattern    Pattern
	Brightness uint8
	DelayOnMs  uint32
	DelayOffMs uint32
}

// Validate checks that the pattern is known.
func (s State) Validate() error {
	switch s.Pattern {
	case PatternOff, PatternOn, PatternBlink, PatternHeartbeat:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPattern, s.Pattern)
	}
}

// Apply drives l into the state.
func (s State) Apply(l Led) error {
	switch s.Pattern {
	case PatternOff:
		return l.SetLow()
	case PatternOn:
		if s.Brightness == 0 {
			return l.SetHigh()
		}
		return l.SetBrightness(s.Brightness)
	case PatternBlink:
		onMs, offMs := s.DelayOnMs, s.DelayOffMs
		if onMs == 0 {
			onMs = DefaultDelayOnMs
		}
		if offMs == 0 {
			offMs = DefaultDelayOffMs
		}
		return l.Blink(onMs, offMs)
	case PatternHeartbeat:
		return l.SetTrigger(Heartbeat)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownPattern, s.Pattern)
	}
}

func allPatterns() []string {
	return []string{
		string(PatternOff),
		string(PatternOn),
		string(PatternBlink),
		string(PatternHeartbeat),
	}
}
