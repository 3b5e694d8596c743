// Package logging provides structured logging with per-module log levels.
//
// Records go to stdout when it is attached to something, to the systemd
// journal when journald is running, and always to an in-memory ring buffer
// that backs the /api/logs endpoints.
//
// Initialize once at startup, then ask for a module logger:
//
//	logging.Initialize(logging.Config{
//		Level:   "info",
//		Format:  "text",
//		Modules: map[string]string{"leds": "debug"},
//	})
//	logger := logging.GetLogger("leds")
//	logger.Info("LED state applied", "led", "usr0")
//
// Module loggers keep a slog.LevelVar, so SetLevels changes verbosity of
// loggers already handed out. Journal entries are tagged with Identifier:
//
//	journalctl -t bbled MODULE=leds
package logging
