package systemd

import (
	"context"
	"errors"
	"testing"
)

func TestManagerBeforeConnect(t *testing.T) {
	m := NewManager("bbled.service", true)

	if m.Unit() != "bbled.service" {
		t.Errorf("Unit() = %q", m.Unit())
	}
	if _, err := m.ActiveState(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("ActiveState() error = %v, want ErrNotConnected", err)
	}
	if err := m.Restart(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Restart() error = %v, want ErrNotConnected", err)
	}

	// Closing an unconnected manager is safe
	m.Close()
	m.Close()
}
