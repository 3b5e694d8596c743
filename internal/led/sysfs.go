package led

import (
	"sync"

	"github.com/smazurov/bbled/internal/sysfs"
)

// sysfsController implements Controller over the four user LEDs.
// Each LED has its own lock so multi-step operations from this process do not
// interleave; other processes writing the same files are not coordinated.
type sysfsController struct {
	leds  map[Number]Led
	locks map[Number]*sync.Mutex
}

// newSysfs creates a sysfs controller rooted at basePath.
func newSysfs(basePath string, fs sysfs.FileSystem) *sysfsController {
	c := &sysfsController{
		leds:  make(map[Number]Led, 4),
		locks: make(map[Number]*sync.Mutex, 4),
	}
	for _, n := range Numbers() {
		c.leds[n] = New(n, WithBasePath(basePath), WithFileSystem(fs))
		c.locks[n] = &sync.Mutex{}
	}
	return c
}

// Set applies state to the named LED
func (c *sysfsController) Set(name string, state State) error {
	if err := state.Validate(); err != nil {
		return err
	}

	n, err := ParseNumber(name)
	if err != nil {
		return err
	}

	c.locks[n].Lock()
	defer c.locks[n].Unlock()

	return state.Apply(c.leds[n])
}

// Trigger reads the active trigger of the named LED
func (c *sysfsController) Trigger(name string) (Trigger, error) {
	n, err := ParseNumber(name)
	if err != nil {
		return 0, err
	}

	c.locks[n].Lock()
	defer c.locks[n].Unlock()

	return c.leds[n].Trigger()
}

// Led returns the Led behind a name, for callers needing its directory.
func (c *sysfsController) Led(name string) (Led, error) {
	n, err := ParseNumber(name)
	if err != nil {
		return Led{}, err
	}
	return c.leds[n], nil
}

// Available returns the LED names ordered by suffix
func (c *sysfsController) Available() []string {
	names := make([]string, 0, len(c.leds))
	for _, n := range Numbers() {
		names = append(names, n.String())
	}
	return names
}

// Patterns returns the list of patterns supported by this controller
func (c *sysfsController) Patterns() []string {
	return allPatterns()
}
