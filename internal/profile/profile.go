// Package profile stores the LED states applied when the daemon starts and
// whenever the profile file changes.
package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/bbled/internal/api/models"
	"github.com/smazurov/bbled/internal/led"
)

// CurrentVersion is the profile document version written by Save.
const CurrentVersion = 1

// ErrUnsupportedVersion is returned for documents newer than CurrentVersion.
var ErrUnsupportedVersion = errors.New("unsupported profile version")

// Profile is the on-disk document:
//
//	version = 1
//
//	[leds.usr0]
//	pattern = "heartbeat"
//
//	[leds.usr3]
//	pattern = "blink"
//	delay_on_ms = 100
//	delay_off_ms = 900
type Profile struct {
	Version int                        `toml:"version" json:"version"`
	LEDs    map[string]models.LEDState `toml:"leds" json:"leds"`
}

// New returns an empty profile at the current version.
func New() *Profile {
	return &Profile{
		Version: CurrentVersion,
		LEDs:    make(map[string]models.LEDState),
	}
}

// Names returns the LED names in sorted order.
func (p *Profile) Names() []string {
	names := make([]string, 0, len(p.LEDs))
	for name := range p.LEDs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Validate checks the version, every LED name and every pattern, and
// rewrites names to their canonical usrN form.
func (p *Profile) Validate() error {
	if p.Version > CurrentVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, p.Version)
	}

	canonical := make(map[string]models.LEDState, len(p.LEDs))
	var errs []error
	for _, name := range p.Names() {
		state := p.LEDs[name]
		n, err := led.ParseNumber(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := canonical[n.String()]; dup {
			errs = append(errs, fmt.Errorf("%s: listed more than once", n))
			continue
		}
		if err := (led.State{Pattern: led.Pattern(state.Pattern)}).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n, err))
			continue
		}
		canonical[n.String()] = state
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	p.LEDs = canonical
	return nil
}

// Load reads and validates the profile at path. A missing file yields an
// empty profile.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	p := New()
	if err := toml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if p.LEDs == nil {
		p.LEDs = make(map[string]models.LEDState)
	}
	if p.Version == 0 {
		p.Version = CurrentVersion
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	return p, nil
}

// Save validates p and writes it to path, creating parent directories.
// The file is replaced atomically.
func Save(path string, p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create profile directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write profile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// Store holds the profile of one file and persists individual LED changes.
type Store struct {
	path    string
	mu      sync.Mutex
	profile *Profile
}

// NewStore creates a store for path. Call Load before use.
func NewStore(path string) *Store {
	if path == "" {
		path = "profile.toml"
	}
	return &Store{path: path, profile: New()}
}

// Path returns the profile file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the file into the store.
func (s *Store) Load() (*Profile, error) {
	p, err := Load(s.path)
	if err != nil {
		return nil, err
	}
	s.Replace(p)
	return p.clone(), nil
}

// Replace swaps the held profile, typically after a reload from disk.
func (s *Store) Replace(p *Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p.clone()
}

// Update swaps the held profile and reports whether p differs from it.
// A reload of the store's own save reports false.
func (s *Store) Update(p *Profile) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Version == s.profile.Version && maps.Equal(p.LEDs, s.profile.LEDs) {
		return false
	}
	s.profile = p.clone()
	return true
}

// Profile returns a copy of the held profile.
func (s *Store) Profile() *Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.clone()
}

// SetLED records state for name and saves the file.
func (s *Store) SetLED(name string, state models.LEDState) error {
	n, err := led.ParseNumber(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.profile.clone()
	next.LEDs[n.String()] = state
	if err := Save(s.path, next); err != nil {
		return err
	}
	s.profile = next
	return nil
}

func (p *Profile) clone() *Profile {
	c := &Profile{Version: p.Version, LEDs: make(map[string]models.LEDState, len(p.LEDs))}
	for name, state := range p.LEDs {
		c.LEDs[name] = state
	}
	return c
}
