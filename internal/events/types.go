package events

import "github.com/smazurov/bbled/internal/api/models"

// Event type constants for kelindar/event.
const (
	TypeLEDStateChanged uint32 = iota + 1
	TypeProfileLoaded
	TypeProfileApplied
	TypeLogEntry
)

// Event interface required by kelindar/event.
type Event interface {
	Type() uint32
}

// LEDStateChangedEvent is published after a state was written to an LED.
type LEDStateChangedEvent struct {
	LED       string          `json:"led" example:"usr0" doc:"Board LED name"`
	State     models.LEDState `json:"state" doc:"Applied state"`
	Source    string          `json:"source" example:"api" doc:"What requested the change: api, profile"`
	Timestamp string          `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for LEDStateChangedEvent.
func (e LEDStateChangedEvent) Type() uint32 { return TypeLEDStateChanged }

// ProfileLoadedEvent carries a freshly loaded LED profile to the LED manager.
type ProfileLoadedEvent struct {
	Path      string                     `json:"path" example:"profile.toml" doc:"Profile file"`
	LEDs      map[string]models.LEDState `json:"leds" doc:"Desired state per LED"`
	Timestamp string                     `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for ProfileLoadedEvent.
func (e ProfileLoadedEvent) Type() uint32 { return TypeProfileLoaded }

// ProfileAppliedEvent reports the outcome of applying a profile.
type ProfileAppliedEvent struct {
	Path      string   `json:"path" example:"profile.toml" doc:"Profile file"`
	Applied   []string `json:"applied" doc:"LEDs set successfully"`
	Failed    []string `json:"failed,omitempty" doc:"LEDs that could not be set"`
	Timestamp string   `json:"timestamp" example:"2025-01-27T10:30:00Z" doc:"Event timestamp"`
}

// Type returns the event type identifier for ProfileAppliedEvent.
func (e ProfileAppliedEvent) Type() uint32 { return TypeProfileApplied }

// LogEntryEvent represents a log entry for SSE streaming.
type LogEntryEvent struct {
	Timestamp  string         `json:"timestamp" example:"2025-01-09T10:30:00.123Z" doc:"Log timestamp"`
	Level      string         `json:"level" example:"info" doc:"Log level"`
	Module     string         `json:"module" example:"api" doc:"Source module"`
	Message    string         `json:"message" doc:"Log message"`
	Attributes map[string]any `json:"attributes,omitempty" doc:"Structured log attributes"`
}

// Type returns the event type identifier for LogEntryEvent.
func (e LogEntryEvent) Type() uint32 { return TypeLogEntry }
