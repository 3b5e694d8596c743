package systemd

import (
	"context"
	"errors"
	"sync"

	"github.com/coreos/go-systemd/v22/dbus"
)

// ErrNotConnected is returned by unit operations before Connect succeeds.
var ErrNotConnected = errors.New("systemd: not connected to D-Bus")

// Manager controls a single systemd unit over D-Bus. NewManager only records
// the unit; the bus connection is opened by Connect.
type Manager struct {
	unit   string
	system bool

	mu   sync.RWMutex
	conn *dbus.Conn
}

// NewManager returns a manager for the given unit name, e.g. "bbled.service",
// on the system bus or the user bus.
func NewManager(unit string, system bool) *Manager {
	return &Manager{unit: unit, system: system}
}

// Connect opens the bus connection. Calling it again is a no-op.
func (m *Manager) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != nil {
		return nil
	}

	var (
		conn *dbus.Conn
		err  error
	)
	if m.system {
		conn, err = dbus.NewSystemConnectionContext(ctx)
	} else {
		conn, err = dbus.NewUserConnectionContext(ctx)
	}
	if err != nil {
		return err
	}
	m.conn = conn
	return nil
}

// Unit returns the managed unit name.
func (m *Manager) Unit() string {
	return m.unit
}

func (m *Manager) connection() (*dbus.Conn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.conn == nil {
		return nil, ErrNotConnected
	}
	return m.conn, nil
}

// ActiveState returns the unit's ActiveState property, e.g. "active".
func (m *Manager) ActiveState(ctx context.Context) (string, error) {
	conn, err := m.connection()
	if err != nil {
		return "", err
	}
	prop, err := conn.GetUnitPropertyContext(ctx, m.unit, "ActiveState")
	if err != nil {
		return "", err
	}
	// Variant strings are quoted
	state := prop.Value.String()
	if len(state) >= 2 && state[0] == '"' {
		state = state[1 : len(state)-1]
	}
	return state, nil
}

// Restart restarts the unit in replace mode without waiting for the job.
func (m *Manager) Restart(ctx context.Context) error {
	conn, err := m.connection()
	if err != nil {
		return err
	}
	_, err = conn.RestartUnitContext(ctx, m.unit, "replace", nil)
	return err
}

// Close closes the D-Bus connection if one is open.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != nil {
		m.conn.Close()
		m.conn = nil
	}
}
