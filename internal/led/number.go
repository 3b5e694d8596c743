package led

import (
	"fmt"
	"strings"
)

// Number identifies one of the four BeagleBone user LEDs.
type Number int

// User LEDs. Declaration order does not follow the sysfs suffix; use Suffix.
const (
	// Zero is usr0, in heartbeat mode by default.
	Zero Number = iota
	// One is usr1, off by default.
	One
	// Three is usr3, tracks disk I/O by default.
	Three
	// Two is usr2, tracks CPU usage by default.
	Two
)

// Numbers returns the four LEDs ordered by sysfs suffix.
func Numbers() []Number {
	return []Number{Zero, One, Two, Three}
}

// Suffix returns the numeric suffix of the LED's sysfs directory.
func (n Number) Suffix() int {
	switch n {
	case Zero:
		return 0
	case One:
		return 1
	case Two:
		return 2
	case Three:
		return 3
	default:
		panic(fmt.Sprintf("led: invalid Number %d", int(n)))
	}
}

// String returns the board name of the LED, e.g. "usr2".
func (n Number) String() string {
	switch n {
	case Zero, One, Two, Three:
		return fmt.Sprintf("usr%d", n.Suffix())
	default:
		return fmt.Sprintf("Number(%d)", int(n))
	}
}

// ParseNumber accepts "usr0".."usr3" or the bare suffix "0".."3".
func ParseNumber(s string) (Number, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "usr")
	switch name {
	case "0":
		return Zero, nil
	case "1":
		return One, nil
	case "2":
		return Two, nil
	case "3":
		return Three, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLED, s)
	}
}
