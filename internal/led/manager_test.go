package led

import (
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/smazurov/bbled/internal/api/models"
	"github.com/smazurov/bbled/internal/events"
)

// Mock controller for testing
type mockController struct {
	mu       sync.Mutex
	setCalls []setCall
	failOn   map[string]error
	triggers map[string]Trigger
}

type setCall struct {
	name  string
	state State
}

func (m *mockController) Set(name string, state State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failOn[name]; err != nil {
		return err
	}
	m.setCalls = append(m.setCalls, setCall{name, state})
	return nil
}

func (m *mockController) Trigger(name string) (Trigger, error) {
	if err := m.failOn[name]; err != nil {
		return 0, err
	}
	return m.triggers[name], nil
}

func (m *mockController) Available() []string {
	return []string{"usr0", "usr1"}
}

func (m *mockController) Patterns() []string {
	return []string{"off", "on"}
}

func (m *mockController) calls() []setCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]setCall(nil), m.setCalls...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestManager_Set(t *testing.T) {
	ctrl := &mockController{}
	eventBus := events.New()
	mgr := NewManager(ctrl, eventBus, testLogger())

	changed := make(chan events.LEDStateChangedEvent, 1)
	unsub := eventBus.Subscribe(func(e events.LEDStateChangedEvent) { changed <- e })
	defer unsub()

	state := models.LEDState{Pattern: "blink", DelayOnMs: 100, DelayOffMs: 200}
	if err := mgr.Set("1", state, SourceAPI); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	want := []setCall{{"usr1", State{Pattern: PatternBlink, DelayOnMs: 100, DelayOffMs: 200}}}
	if got := ctrl.calls(); !reflect.DeepEqual(got, want) {
		t.Errorf("controller calls = %+v, want %+v", got, want)
	}

	select {
	case e := <-changed:
		if e.LED != "usr1" || e.Source != SourceAPI || e.State != state {
			t.Errorf("unexpected event %+v", e)
		}
	case <-time.After(time.Second):
		t.Fatal("no LEDStateChangedEvent published")
	}
}

func TestManager_SetErrors(t *testing.T) {
	denied := errors.New("permission denied")
	ctrl := &mockController{failOn: map[string]error{"usr0": denied}}
	mgr := NewManager(ctrl, events.New(), testLogger())

	if err := mgr.Set("usr7", models.LEDState{Pattern: "on"}, SourceAPI); !errors.Is(err, ErrUnknownLED) {
		t.Errorf("Set() unknown LED error = %v, want ErrUnknownLED", err)
	}
	if err := mgr.Set("usr0", models.LEDState{Pattern: "on"}, SourceAPI); !errors.Is(err, denied) {
		t.Errorf("Set() error = %v, want wrapped controller error", err)
	}
}

func TestManager_ProfileLoaded(t *testing.T) {
	ctrl := &mockController{failOn: map[string]error{"usr2": errors.New("boom")}}
	eventBus := events.New()
	mgr := NewManager(ctrl, eventBus, testLogger())
	mgr.Start()
	defer mgr.Stop()

	applied := make(chan events.ProfileAppliedEvent, 1)
	unsub := eventBus.Subscribe(func(e events.ProfileAppliedEvent) { applied <- e })
	defer unsub()

	eventBus.Publish(events.ProfileLoadedEvent{
		Path: "profile.toml",
		LEDs: map[string]models.LEDState{
			"usr3": {Pattern: "heartbeat"},
			"usr0": {Pattern: "on"},
			"usr2": {Pattern: "off"},
		},
		Timestamp: time.Now().Format(time.RFC3339),
	})

	select {
	case e := <-applied:
		if !reflect.DeepEqual(e.Applied, []string{"usr0", "usr3"}) {
			t.Errorf("Applied = %v, want [usr0 usr3]", e.Applied)
		}
		if !reflect.DeepEqual(e.Failed, []string{"usr2"}) {
			t.Errorf("Failed = %v, want [usr2]", e.Failed)
		}
		if e.Path != "profile.toml" {
			t.Errorf("Path = %q", e.Path)
		}
	case <-time.After(time.Second):
		t.Fatal("no ProfileAppliedEvent published")
	}

	calls := ctrl.calls()
	if len(calls) != 2 || calls[0].name != "usr0" || calls[1].name != "usr3" {
		t.Errorf("controller calls = %+v, want usr0 then usr3", calls)
	}
}

func TestManager_ApplyProfileJoinsErrors(t *testing.T) {
	errA := errors.New("a")
	errB := errors.New("b")
	ctrl := &mockController{failOn: map[string]error{"usr0": errA, "usr1": errB}}
	mgr := NewManager(ctrl, events.New(), testLogger())

	err := mgr.ApplyProfile("p.toml", map[string]models.LEDState{
		"usr0": {Pattern: "on"},
		"usr1": {Pattern: "on"},
	})
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("ApplyProfile() error = %v, want both failures", err)
	}
}

func TestManager_StatusAndList(t *testing.T) {
	ctrl := &mockController{
		triggers: map[string]Trigger{"usr0": Timer},
		failOn:   map[string]error{"usr1": ErrNotSupported},
	}
	mgr := NewManager(ctrl, events.New(), testLogger())

	status, err := mgr.Status("usr0")
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if status.Name != "usr0" || status.Trigger != "timer" || status.Error != "" {
		t.Errorf("Status() = %+v", status)
	}

	statuses := mgr.List()
	if len(statuses) != 2 {
		t.Fatalf("List() returned %d statuses, want 2", len(statuses))
	}
	if statuses[1].Error == "" || statuses[1].Trigger != "" {
		t.Errorf("failed LED status = %+v, want error set", statuses[1])
	}
}

func TestManager_StatusPath(t *testing.T) {
	fake := newFakeFS()
	ctrl := newSysfs("/leds/usr", fake)
	fake.files["/leds/usr2/trigger"] = "[none] timer"
	mgr := NewManager(ctrl, events.New(), testLogger())

	status, err := mgr.Status("usr2")
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}
	if status.Path != "/leds/usr2" || status.Trigger != "none" {
		t.Errorf("Status() = %+v", status)
	}
}

func TestManager_GetController(t *testing.T) {
	ctrl := &mockController{}
	mgr := NewManager(ctrl, events.New(), testLogger())

	if got := mgr.GetController(); got != ctrl {
		t.Error("GetController() did not return the controller passed to NewManager")
	}
}
