package led

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotSupported is returned for LED writes and trigger reads on a board
// without user LEDs.
var ErrNotSupported = errors.New("led: LED control not available on this board")

// noop stands in for the sysfs controller off-board. Requests are validated
// like on a BeagleBone, then refused with ErrNotSupported.
type noop struct {
	board  string
	logger *slog.Logger
}

func newNoop(board string, logger *slog.Logger) *noop {
	return &noop{board: board, logger: logger.With("board_model", board)}
}

func (n *noop) Set(name string, state State) error {
	if err := state.Validate(); err != nil {
		return err
	}
	if _, err := ParseNumber(name); err != nil {
		return err
	}
	n.logger.Debug("Refusing LED write, no user LEDs", "led", name, "pattern", state.Pattern)
	return fmt.Errorf("set %s: %w", name, ErrNotSupported)
}

func (n *noop) Trigger(string) (Trigger, error) {
	return 0, ErrNotSupported
}

func (n *noop) Available() []string { return []string{} }

func (n *noop) Patterns() []string { return []string{} }
