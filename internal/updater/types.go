package updater

import (
	"context"
	"slices"
	"time"
)

// State is the phase of the update state machine.
type State string

// Update states.
const (
	StateIdle       State = "idle"
	StateChecking   State = "checking"
	StateAvailable  State = "available"
	StateApplying   State = "applying"
	StateRestarting State = "restarting"
	StateError      State = "error"
	StateRolledBack State = "rolled_back"
)

// entryStates lists the states each state may be entered from. States
// missing here, and the terminal outcomes of a running step, are entered
// unconditionally.
var entryStates = map[State][]State{
	StateChecking: {StateIdle, StateAvailable, StateError, StateRolledBack},
	StateApplying: {StateAvailable},
}

func (s State) canEnterFrom(from State) bool {
	allowed, ok := entryStates[s]
	return !ok || slices.Contains(allowed, from)
}

// Service checks for, installs and reverts bbled releases.
type Service interface {
	// CheckForUpdate compares the latest release with the running version.
	CheckForUpdate(ctx context.Context) (*UpdateInfo, error)

	// ApplyUpdate installs the latest release and schedules a restart.
	ApplyUpdate(ctx context.Context) error

	// Rollback reinstalls the backed up binary and schedules a restart.
	Rollback(ctx context.Context) error

	GetStatus(ctx context.Context) *Status

	// IsEnabled reports false when the executable cannot be replaced.
	IsEnabled() bool
	DisabledReason() string
}

// UpdateInfo describes the latest release relative to the running binary.
type UpdateInfo struct {
	CurrentVersion  string
	LatestVersion   string
	ReleaseNotes    string
	ReleaseURL      string
	PublishedAt     time.Time
	AssetSize       int
	UpdateAvailable bool
}

// Status is a snapshot of the updater.
type Status struct {
	State           State
	CurrentVersion  string
	TargetVersion   string
	Error           string
	LastChecked     *time.Time
	BackupAvailable bool
	BackupVersion   string
}

// Options configures NewService.
type Options struct {
	// Repository is the GitHub slug releases are fetched from.
	Repository string
	Prerelease bool

	// BackupDir holds the previous binary. Empty means ~/.cache/bbled/backup.
	BackupDir string

	// Restart runs after a successful update or rollback. Nil sends SIGTERM
	// to the current process so systemd starts the new binary.
	Restart func()
}
