// Package cmd holds the one-shot subcommands of the bbled binary.
package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/smazurov/bbled/internal/led"
	"github.com/smazurov/bbled/internal/logging"
	"github.com/spf13/cobra"
)

// exit terminates the process after a failed command.
var exit = os.Exit

// ledFlags selects the LED a command drives.
type ledFlags struct {
	led      string
	basePath string
}

func (f *ledFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&f.led, "led", "0", "LED to drive (0..3 or usr0..usr3)")
	c.Flags().StringVar(&f.basePath, "base-path", led.BasePath, "Control-file prefix; the LED suffix is appended")
}

func (f *ledFlags) open() (led.Led, error) {
	n, err := led.ParseNumber(f.led)
	if err != nil {
		return led.Led{}, err
	}
	return led.New(n, led.WithBasePath(f.basePath)), nil
}

// ledCommand builds a command that opens the selected LED and runs fn on it.
// Any error is printed and the process exits with status 1.
func ledCommand(use, short string, args cobra.PositionalArgs, fn func(c *cobra.Command, l led.Led, args []string) error) *cobra.Command {
	var flags ledFlags
	c := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		Run: func(c *cobra.Command, args []string) {
			err := func() error {
				l, err := flags.open()
				if err != nil {
					return err
				}
				logging.GetLogger("cli").Debug("Running LED command", "command", c.Name(), "led", l.Number().String(), "root", l.Root())
				return fn(c, l, args)
			}()
			if err != nil {
				fmt.Fprintln(c.ErrOrStderr(), "Error:", err)
				exit(1)
			}
		},
	}
	flags.register(c)
	return c
}

// CreateLEDCmds creates the commands that drive a single LED.
func CreateLEDCmds() []*cobra.Command {
	return []*cobra.Command{
		createOnCmd(),
		createOffCmd(),
		createBrightnessCmd(),
		createBlinkCmd(),
		createHeartbeatCmd(),
		createTriggerCmd(),
	}
}

func createOnCmd() *cobra.Command {
	return ledCommand("on", "Turn the LED on", cobra.NoArgs, func(_ *cobra.Command, l led.Led, _ []string) error {
		return l.SetHigh()
	})
}

func createOffCmd() *cobra.Command {
	return ledCommand("off", "Turn the LED off", cobra.NoArgs, func(_ *cobra.Command, l led.Led, _ []string) error {
		return l.SetLow()
	})
}

func createBrightnessCmd() *cobra.Command {
	return ledCommand("brightness <level>", "Set the LED brightness (0-255)", cobra.ExactArgs(1),
		func(_ *cobra.Command, l led.Led, args []string) error {
			level, err := strconv.ParseUint(args[0], 10, 8)
			if err != nil {
				return fmt.Errorf("invalid brightness %q: %w", args[0], err)
			}
			return l.SetBrightness(uint8(level))
		})
}

func createBlinkCmd() *cobra.Command {
	var onMs, offMs uint32
	c := ledCommand("blink", "Blink the LED with the timer trigger", cobra.NoArgs,
		func(_ *cobra.Command, l led.Led, _ []string) error {
			return l.Blink(onMs, offMs)
		})
	c.Flags().Uint32Var(&onMs, "on-ms", led.DefaultDelayOnMs, "Milliseconds on per cycle")
	c.Flags().Uint32Var(&offMs, "off-ms", led.DefaultDelayOffMs, "Milliseconds off per cycle")
	return c
}

func createHeartbeatCmd() *cobra.Command {
	return ledCommand("heartbeat", "Pulse the LED with the heartbeat trigger", cobra.NoArgs,
		func(_ *cobra.Command, l led.Led, _ []string) error {
			return l.SetTrigger(led.Heartbeat)
		})
}

func createTriggerCmd() *cobra.Command {
	return ledCommand("trigger [mode]", "Print the active trigger, or set it (heartbeat, none, timer)", cobra.MaximumNArgs(1),
		func(c *cobra.Command, l led.Led, args []string) error {
			if len(args) == 1 {
				t, err := led.ParseTrigger(args[0])
				if err != nil {
					return err
				}
				return l.SetTrigger(t)
			}

			t, err := l.Trigger()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), t)
			return nil
		})
}
