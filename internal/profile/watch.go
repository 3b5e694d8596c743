package profile

import (
	"log/slog"
	"time"

	"github.com/smazurov/bbled/internal/config"
	"github.com/smazurov/bbled/internal/events"
)

// Publish announces p on the bus so the LED manager applies it.
func Publish(bus *events.Bus, path string, p *Profile) {
	bus.Publish(events.ProfileLoadedEvent{
		Path:      path,
		LEDs:      p.clone().LEDs,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// NewWatcher returns a started-on-demand watcher that reloads the store's
// file on change, replaces the held profile and publishes it. Invalid
// documents are logged and leave the held profile untouched; content equal
// to the held profile, such as the store's own save, is not republished.
func NewWatcher(store *Store, bus *events.Bus, logger *slog.Logger, opts ...config.WatcherOption[*Profile]) *config.Watcher[*Profile] {
	opts = append([]config.WatcherOption[*Profile]{
		config.WithErrorHandler[*Profile](func(err error) {
			logger.Error("Profile reload rejected, keeping previous profile", "path", store.Path(), "error", err)
		}),
	}, opts...)

	w := config.NewConfigWatcher(store.Path(), Load, logger, opts...)
	w.OnReload(func(p *Profile) {
		// SetLED already applied and saved this content
		if !store.Update(p) {
			logger.Debug("Profile unchanged, not reapplying", "path", store.Path())
			return
		}
		logger.Info("Profile reloaded", "path", store.Path(), "leds", len(p.LEDs))
		Publish(bus, store.Path(), p)
	})
	return w
}
