// Package systemd integrates bbled with the service manager: readiness
// notification over $NOTIFY_SOCKET and unit control over D-Bus.
package systemd

import (
	"fmt"

	"github.com/coreos/go-systemd/v22/daemon"
)

// NotifyReady tells systemd that startup finished. It reports false when
// the process is not running under a Type=notify unit.
func NotifyReady() (bool, error) {
	return notify(daemon.SdNotifyReady)
}

// NotifyStopping tells systemd that shutdown has begun.
func NotifyStopping() (bool, error) {
	return notify(daemon.SdNotifyStopping)
}

// NotifyStatus publishes a free-form status line shown by systemctl status.
func NotifyStatus(status string) (bool, error) {
	return notify("STATUS=" + status)
}

func notify(state string) (bool, error) {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		return false, fmt.Errorf("sd_notify %q: %w", state, err)
	}
	return sent, nil
}
