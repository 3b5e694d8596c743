package led

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/smazurov/bbled/internal/api/models"
	"github.com/smazurov/bbled/internal/events"
)

// Event sources reported in LEDStateChangedEvent.
const (
	SourceAPI     = "api"
	SourceProfile = "profile"
)

// pathResolver is implemented by controllers backed by real LED directories.
type pathResolver interface {
	Led(name string) (Led, error)
}

// Manager applies LED profiles received on the event bus and serves on-demand
// LED changes, publishing the outcome of each.
type Manager struct {
	controller  Controller
	eventBus    *events.Bus
	unsubscribe func()
	logger      *slog.Logger
}

// NewManager creates a new LED manager that reacts to profile loads
func NewManager(controller Controller, eventBus *events.Bus, logger *slog.Logger) *Manager {
	return &Manager{
		controller: controller,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Start begins listening for profile loaded events
func (m *Manager) Start() {
	m.unsubscribe = m.eventBus.Subscribe(func(e events.ProfileLoadedEvent) {
		m.handleProfileLoaded(e)
	})
	m.logger.Info("LED manager started", "leds", m.controller.Available())
}

// Stop unsubscribes from events
func (m *Manager) Stop() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.logger.Info("LED manager stopped")
}

// handleProfileLoaded applies a profile published on the bus
func (m *Manager) handleProfileLoaded(e events.ProfileLoadedEvent) {
	if err := m.ApplyProfile(e.Path, e.LEDs); err != nil {
		m.logger.Warn("Profile applied with errors", "path", e.Path, "error", err)
	}
}

// Set applies state to one LED and publishes the change
func (m *Manager) Set(name string, state models.LEDState, source string) error {
	n, err := ParseNumber(name)
	if err != nil {
		return err
	}

	if err := m.controller.Set(n.String(), stateFromModel(state)); err != nil {
		return fmt.Errorf("set %s to %s: %w", n, state.Pattern, err)
	}

	m.logger.Debug("LED state applied",
		"led", n.String(),
		"pattern", state.Pattern,
		"source", source)

	m.eventBus.Publish(events.LEDStateChangedEvent{
		LED:       n.String(),
		State:     state,
		Source:    source,
		Timestamp: time.Now().Format(time.RFC3339),
	})
	return nil
}

// ApplyProfile sets every LED of a profile in name order. A failing LED does
// not stop the others; all failures are returned joined.
func (m *Manager) ApplyProfile(path string, leds map[string]models.LEDState) error {
	names := make([]string, 0, len(leds))
	for name := range leds {
		names = append(names, name)
	}
	slices.Sort(names)

	applied := make([]string, 0, len(names))
	var failed []string
	var errs []error

	for _, name := range names {
		if err := m.Set(name, leds[name], SourceProfile); err != nil {
			m.logger.Warn("Failed to apply profile LED state", "led", name, "error", err)
			failed = append(failed, name)
			errs = append(errs, err)
			continue
		}
		applied = append(applied, name)
	}

	m.logger.Info("Profile applied", "path", path, "applied", len(applied), "failed", len(failed))

	m.eventBus.Publish(events.ProfileAppliedEvent{
		Path:      path,
		Applied:   applied,
		Failed:    failed,
		Timestamp: time.Now().Format(time.RFC3339),
	})

	return errors.Join(errs...)
}

// Status reads one LED's trigger from the device. Read failures are returned
// alongside the partially filled status.
func (m *Manager) Status(name string) (models.LEDStatus, error) {
	n, err := ParseNumber(name)
	if err != nil {
		return models.LEDStatus{}, err
	}

	status := models.LEDStatus{Name: n.String()}
	if resolver, ok := m.controller.(pathResolver); ok {
		if l, resolveErr := resolver.Led(status.Name); resolveErr == nil {
			status.Path = l.Root()
		}
	}

	trigger, err := m.controller.Trigger(status.Name)
	if err != nil {
		status.Error = err.Error()
		return status, err
	}

	status.Trigger = trigger.String()
	return status, nil
}

// List returns the status of every available LED. Per-LED read errors are
// reported in the Error field.
func (m *Manager) List() []models.LEDStatus {
	available := m.controller.Available()
	statuses := make([]models.LEDStatus, 0, len(available))
	for _, name := range available {
		status, err := m.Status(name)
		if err != nil {
			m.logger.Debug("Failed to read LED trigger", "led", name, "error", err)
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// GetController returns the underlying LED controller for direct API access
func (m *Manager) GetController() Controller {
	return m.controller
}

func stateFromModel(s models.LEDState) State {
	return State{
		Pattern:    Pattern(s.Pattern),
		Brightness: s.Brightness,
		DelayOnMs:  s.DelayOnMs,
		DelayOffMs: s.DelayOffMs,
	}
}
