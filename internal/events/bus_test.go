package events

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/smazurov/bbled/internal/api/models"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := New()
	received := make(chan LEDStateChangedEvent, 1)

	unsub := bus.Subscribe(func(e LEDStateChangedEvent) {
		received <- e
	})
	defer unsub()

	event := LEDStateChangedEvent{
		LED:       "usr0",
		State:     models.LEDState{Pattern: "blink", DelayOnMs: 100, DelayOffMs: 900},
		Source:    "api",
		Timestamp: "2025-01-27T10:30:00Z",
	}
	bus.Publish(event)

	got := <-received
	if got.LED != event.LED {
		t.Errorf("Expected led %s, got %s", event.LED, got.LED)
	}
	if got.State != event.State {
		t.Errorf("Expected state %+v, got %+v", event.State, got.State)
	}
}

func TestBus_MultipleSubscribers(_ *testing.T) {
	bus := New()
	received1 := make(chan ProfileLoadedEvent, 1)
	received2 := make(chan ProfileLoadedEvent, 1)

	unsub1 := bus.Subscribe(func(e ProfileLoadedEvent) {
		received1 <- e
	})
	defer unsub1()

	unsub2 := bus.Subscribe(func(e ProfileLoadedEvent) {
		received2 <- e
	})
	defer unsub2()

	bus.Publish(ProfileLoadedEvent{
		Path: "profile.toml",
		LEDs: map[string]models.LEDState{"usr0": {Pattern: "heartbeat"}},
	})

	<-received1
	<-received2
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New()
	received := make(chan ProfileAppliedEvent, 1)

	unsub := bus.Subscribe(func(e ProfileAppliedEvent) {
		received <- e
	})

	bus.Publish(ProfileAppliedEvent{Path: "a.toml"})
	<-received

	unsub()

	bus.Publish(ProfileAppliedEvent{Path: "b.toml"})
	select {
	case <-received:
		t.Fatal("Should not have received event after unsubscribe")
	case <-time.After(10 * time.Millisecond):
		// Expected - no event
	}
}

func TestBus_TypeSafety(t *testing.T) {
	bus := New()

	ledReceived := make(chan bool, 1)
	profileReceived := make(chan bool, 1)

	unsub1 := bus.Subscribe(func(_ LEDStateChangedEvent) {
		ledReceived <- true
	})
	defer unsub1()

	unsub2 := bus.Subscribe(func(_ ProfileLoadedEvent) {
		profileReceived <- true
	})
	defer unsub2()

	bus.Publish(LEDStateChangedEvent{LED: "usr1"})
	<-ledReceived

	select {
	case <-profileReceived:
		t.Fatal("Profile subscriber should NOT have received LEDStateChangedEvent")
	case <-time.After(10 * time.Millisecond):
	}

	bus.Publish(ProfileLoadedEvent{Path: "profile.toml"})
	<-profileReceived

	select {
	case <-ledReceived:
		t.Fatal("LED subscriber should NOT have received ProfileLoadedEvent")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestBus_ThreadSafety(_ *testing.T) {
	bus := New()
	var wg sync.WaitGroup
	numGoroutines := 10
	eventsPerGoroutine := 100
	expected := numGoroutines * eventsPerGoroutine

	receivedCh := make(chan bool, expected)

	unsub := bus.Subscribe(func(_ LogEntryEvent) {
		receivedCh <- true
	})
	defer unsub()

	for range numGoroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range eventsPerGoroutine {
				bus.Publish(LogEntryEvent{
					Level:     "info",
					Timestamp: time.Now().Format(time.RFC3339),
				})
			}
		}()
	}

	wg.Wait()

	for range expected {
		<-receivedCh
	}
}

func TestBus_UnknownHandler(t *testing.T) {
	bus := New()

	unsub := bus.Subscribe(func(_ string) {})
	if unsub == nil {
		t.Fatal("Subscribe with unknown handler type should return a no-op unsubscribe")
	}
	unsub()
}

func TestEventJSONSerialization(t *testing.T) {
	tests := []struct {
		name  string
		event any
		key   string
	}{
		{
			"LEDStateChangedEvent",
			LEDStateChangedEvent{
				LED:       "usr2",
				State:     models.LEDState{Pattern: "on", Brightness: 1},
				Source:    "profile",
				Timestamp: "2025-01-27T10:30:00Z",
			},
			"state",
		},
		{
			"ProfileAppliedEvent",
			ProfileAppliedEvent{
				Path:      "profile.toml",
				Applied:   []string{"usr0"},
				Failed:    []string{"usr3"},
				Timestamp: "2025-01-27T10:30:00Z",
			},
			"failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.event)
			if err != nil {
				t.Fatalf("Failed to marshal: %v", err)
			}

			var result map[string]any
			if unmarshalErr := json.Unmarshal(data, &result); unmarshalErr != nil {
				t.Fatalf("Failed to unmarshal: %v", unmarshalErr)
			}

			if _, ok := result[tt.key]; !ok {
				t.Errorf("Expected key %q in %s", tt.key, data)
			}
		})
	}
}

func TestForward(t *testing.T) {
	bus := New()
	ch := make(chan any, 10)

	unsub := Forward[LEDStateChangedEvent](bus, ch)
	defer unsub()

	bus.Publish(LEDStateChangedEvent{LED: "usr3", Source: "api"})

	received := <-ch
	ledEvent, ok := received.(LEDStateChangedEvent)
	if !ok {
		t.Fatalf("Expected LEDStateChangedEvent, got %T", received)
	}
	if ledEvent.LED != "usr3" {
		t.Errorf("Expected led usr3, got %s", ledEvent.LED)
	}
}

func TestForward_NonBlocking(_ *testing.T) {
	bus := New()
	ch := make(chan any) // No buffer

	unsub := Forward[ProfileAppliedEvent](bus, ch)
	defer unsub()

	done := make(chan bool, 1)
	go func() {
		bus.Publish(ProfileAppliedEvent{Path: "profile.toml"})
		done <- true
	}()

	<-done // Should complete without blocking
}

func TestOn(t *testing.T) {
	bus := New()
	got := make(chan LogEntryEvent, 1)

	unsub := On(bus, func(e LogEntryEvent) { got <- e })
	bus.Publish(LogEntryEvent{Module: "leds", Message: "LED state applied"})

	select {
	case e := <-got:
		if e.Module != "leds" {
			t.Errorf("Module = %q, want leds", e.Module)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for LogEntryEvent")
	}
	unsub()
}
