package updater

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/smazurov/bbled/internal/logging"
	"github.com/smazurov/bbled/internal/version"
)

// restartDelay lets an HTTP response reach the client before the process exits.
const restartDelay = 500 * time.Millisecond

// releaseSource is the part of *selfupdate.Updater the service drives.
type releaseSource interface {
	DetectLatest(ctx context.Context, repository selfupdate.Repository) (*selfupdate.Release, bool, error)
	UpdateTo(ctx context.Context, rel *selfupdate.Release, cmdPath string) error
}

type service struct {
	repository selfupdate.Repository
	source     releaseSource
	backups    *backupManager
	executable func() (string, error)
	restart    func()
	logger     *slog.Logger

	// disabledReason is set when the binary cannot be replaced
	disabledReason string

	mu          sync.RWMutex
	state       State
	release     *selfupdate.Release
	lastChecked *time.Time
	lastError   error
}

// NewService creates the GitHub backed updater. When the executable's
// directory is not writable the service is returned disabled, not as an error.
func NewService(opts Options) (Service, error) {
	logger := logging.GetLogger("updater")

	if opts.Repository == "" {
		return nil, errors.New("updater: repository is required")
	}

	if reason := replaceBlocker(); reason != "" {
		logger.Warn("Update service disabled", "reason", reason)
		return &service{disabledReason: reason, state: StateIdle, logger: logger}, nil
	}

	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, fmt.Errorf("updater: github source: %w", err)
	}
	updater, err := selfupdate.NewUpdater(selfupdate.Config{
		Source:     source,
		Prerelease: opts.Prerelease,
	})
	if err != nil {
		return nil, fmt.Errorf("updater: %w", err)
	}

	return newService(opts, updater, logger), nil
}

func newService(opts Options, source releaseSource, logger *slog.Logger) *service {
	backups, err := newBackupManager(opts.BackupDir, logger)
	if err != nil {
		logger.Warn("Backups unavailable, rollback disabled", "error", err)
	}

	restart := opts.Restart
	if restart == nil {
		restart = func() {
			logger.Info("Sending SIGTERM to trigger restart")
			if err := syscall.Kill(os.Getpid(), syscall.SIGTERM); err != nil {
				logger.Error("Failed to send SIGTERM", "error", err)
			}
		}
	}

	return &service{
		repository: selfupdate.ParseSlug(opts.Repository),
		source:     source,
		backups:    backups,
		executable: selfupdate.ExecutablePath,
		restart:    restart,
		logger:     logger,
		state:      StateIdle,
	}
}

// replaceBlocker returns why the running binary cannot be replaced in place,
// or "" when it can.
func replaceBlocker() string {
	exe, err := os.Executable()
	if err == nil {
		exe, err = filepath.EvalSymlinks(exe)
	}
	if err != nil {
		return fmt.Sprintf("cannot locate executable: %v", err)
	}

	dir := filepath.Dir(exe)
	f, err := os.CreateTemp(dir, ".bbled.update.*")
	if err != nil {
		return fmt.Sprintf("no write permission to %s: %v", dir, err)
	}
	f.Close()
	os.Remove(f.Name())
	return ""
}

func (s *service) IsEnabled() bool        { return s.disabledReason == "" }
func (s *service) DisabledReason() string { return s.disabledReason }

func (s *service) checkEnabled() error {
	if !s.IsEnabled() {
		return fail(CodeDisabled, nil, "%s", s.disabledReason)
	}
	return nil
}

// CheckForUpdate asks the release source for the latest release without
// downloading it. Development builds are always outdated.
func (s *service) CheckForUpdate(ctx context.Context) (*UpdateInfo, error) {
	if err := s.checkEnabled(); err != nil {
		return nil, err
	}
	if err := s.enter(StateChecking); err != nil {
		return nil, err
	}

	release, found, err := s.source.DetectLatest(ctx, s.repository)
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastChecked = &now

	switch {
	case err != nil:
		return nil, s.failLocked(fail(CodeCheckFailed, err, "failed to check for updates"))
	case !found:
		return nil, s.failLocked(fail(CodeNotFound, nil, "repository not found or has no releases"))
	}

	current := version.Version
	info := &UpdateInfo{CurrentVersion: current, LatestVersion: release.Version()}
	if current != "dev" && !release.GreaterThan(current) {
		s.setLocked(StateIdle)
		return info, nil
	}

	info.UpdateAvailable = true
	info.ReleaseNotes = release.ReleaseNotes
	info.ReleaseURL = release.URL
	info.PublishedAt = release.PublishedAt
	info.AssetSize = release.AssetByteSize

	s.release = release
	s.setLocked(StateAvailable)
	return info, nil
}

// ApplyUpdate checks first unless a newer release is already known, backs
// up the running binary and replaces it. A failed replacement restores the
// backup.
func (s *service) ApplyUpdate(ctx context.Context) error {
	if err := s.checkEnabled(); err != nil {
		return err
	}

	if s.currentState() != StateAvailable {
		info, err := s.CheckForUpdate(ctx)
		if err != nil {
			return err
		}
		if !info.UpdateAvailable {
			return fail(CodeNoUpdate, nil, "no update available")
		}
	}
	if err := s.enter(StateApplying); err != nil {
		return err
	}

	exe, err := s.executable()
	if err != nil {
		return s.failWith(fail(CodeApplyFailed, err, "failed to get executable path"))
	}

	if s.backups != nil {
		if err := s.backups.createBackup(exe); err != nil {
			return s.failWith(fail(CodeBackupFailed, err, "failed to create backup"))
		}
	}

	s.mu.RLock()
	release := s.release
	s.mu.RUnlock()

	if err := s.source.UpdateTo(ctx, release, exe); err != nil {
		applyErr := s.failWith(fail(CodeApplyFailed, err, "failed to apply update"))
		s.restoreAfterFailure()
		return applyErr
	}

	s.set(StateRestarting)
	s.logger.Info("Update applied, restarting", "version", release.Version())
	time.AfterFunc(restartDelay, s.restart)
	return nil
}

// Rollback reinstalls the backed up binary and schedules a restart.
func (s *service) Rollback(_ context.Context) error {
	if err := s.checkEnabled(); err != nil {
		return err
	}
	if s.backups == nil || !s.backups.hasBackup() {
		return fail(CodeNoBackup, nil, "no backup available for rollback")
	}
	if err := s.backups.restore(); err != nil {
		return fail(CodeRollbackFailed, err, "failed to restore backup")
	}

	s.set(StateRolledBack)
	s.logger.Info("Rollback completed, restarting")
	time.AfterFunc(restartDelay, s.restart)
	return nil
}

func (s *service) GetStatus(_ context.Context) *Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status := &Status{
		State:          s.state,
		CurrentVersion: version.Version,
		LastChecked:    s.lastChecked,
	}
	if s.release != nil {
		status.TargetVersion = s.release.Version()
	}
	if s.lastError != nil {
		status.Error = s.lastError.Error()
	}
	if s.backups != nil {
		status.BackupAvailable = s.backups.hasBackup()
		status.BackupVersion = s.backups.backupVersion()
	}
	return status
}

// enter moves to next if the state machine allows it from the current state.
func (s *service) enter(next State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !next.canEnterFrom(s.state) {
		return fail(CodeInvalidState, nil, "cannot move from %s to %s", s.state, next)
	}
	s.setLocked(next)
	return nil
}

func (s *service) set(state State) {
	s.mu.Lock()
	s.setLocked(state)
	s.mu.Unlock()
}

func (s *service) setLocked(state State) {
	s.logger.Debug("State transition", "from", s.state, "to", state)
	s.state = state
	s.lastError = nil
}

func (s *service) failWith(err *Error) *Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failLocked(err)
}

func (s *service) failLocked(err *Error) *Error {
	s.state = StateError
	s.lastError = err
	return err
}

func (s *service) currentState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *service) restoreAfterFailure() {
	if s.backups == nil || !s.backups.hasBackup() {
		s.logger.Error("No backup available for automatic rollback")
		return
	}
	if err := s.backups.restore(); err != nil {
		s.logger.Error("Failed to restore backup", "error", err)
		return
	}
	s.set(StateRolledBack)
	s.logger.Info("Automatic rollback completed")
}
