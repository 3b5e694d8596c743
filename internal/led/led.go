package led

import (
	"path/filepath"
	"strconv"

	"github.com/smazurov/bbled/internal/sysfs"
)

// BasePath is the sysfs directory prefix of the BeagleBone user LEDs. The LED
// suffix is appended directly, e.g. BasePath + "0".
const BasePath = "/sys/class/leds/beaglebone:green:usr"

// Control file names inside an LED directory.
const (
	triggerFile    = "trigger"
	brightnessFile = "brightness"
	delayOnFile    = "delay_on"
	delayOffFile   = "delay_off"
)

// Led drives one user LED through its sysfs control files. It keeps no file
// open between calls and no state besides its directory, so it can be copied.
//
// Operations are not synchronized. Callers sharing an LED between goroutines
// must serialize access themselves.
type Led struct {
	number Number
	root   string
	fs     sysfs.FileSystem
}

// Option configures an Led.
type Option func(*Led)

// WithBasePath overrides the sysfs directory prefix.
func WithBasePath(base string) Option {
	return func(l *Led) {
		l.root = base + strconv.Itoa(l.number.Suffix())
	}
}

// WithFileSystem sets the file system used for control files.
func WithFileSystem(fs sysfs.FileSystem) Option {
	return func(l *Led) {
		l.fs = fs
	}
}

// New returns an Led for the given LED. No I/O happens until an operation runs.
func New(n Number, opts ...Option) Led {
	l := Led{
		number: n,
		root:   BasePath + strconv.Itoa(n.Suffix()),
		fs:     sysfs.FS,
	}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

// Number returns the LED this Led drives.
func (l Led) Number() Number {
	return l.number
}

// Root returns the LED's control-file directory.
func (l Led) Root() string {
	return l.root
}

// SetTrigger changes the trigger mode of the LED.
func (l Led) SetTrigger(t Trigger) error {
	return l.write(triggerFile, t.String())
}

// Trigger returns the trigger mode the LED is using. Content that does not
// carry a known bracketed trigger yields a *ProtocolError.
func (l Led) Trigger() (Trigger, error) {
	content, err := l.fs.ReadAll(filepath.Join(l.root, triggerFile))
	if err != nil {
		return 0, err
	}
	return ParseTriggerState(content)
}

// SetBrightness switches the LED to manual control and sets its brightness.
func (l Led) SetBrightness(level uint8) error {
	if err := l.SetTrigger(None); err != nil {
		return err
	}
	return l.write(brightnessFile, strconv.FormatUint(uint64(level), 10))
}

// SetHigh turns the LED on.
func (l Led) SetHigh() error {
	return l.SetBrightness(1)
}

// SetLow turns the LED off.
func (l Led) SetLow() error {
	return l.SetBrightness(0)
}

// Blink makes the LED blink, on for onMs and off for offMs milliseconds.
// A failure part way leaves the LED in timer mode with whatever delays were
// already written.
func (l Led) Blink(onMs, offMs uint32) error {
	if err := l.SetTrigger(Timer); err != nil {
		return err
	}
	if err := l.write(delayOnFile, strconv.FormatUint(uint64(onMs), 10)); err != nil {
		return err
	}
	return l.write(delayOffFile, strconv.FormatUint(uint64(offMs), 10))
}

func (l Led) write(name, value string) error {
	return l.fs.WriteAll(filepath.Join(l.root, name), []byte(value))
}
