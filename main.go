package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/smazurov/bbled/cmd"
	"github.com/smazurov/bbled/internal/api"
	"github.com/smazurov/bbled/internal/config"
	"github.com/smazurov/bbled/internal/events"
	"github.com/smazurov/bbled/internal/led"
	"github.com/smazurov/bbled/internal/logging"
	"github.com/smazurov/bbled/internal/metrics"
	"github.com/smazurov/bbled/internal/metrics/exporters"
	"github.com/smazurov/bbled/internal/profile"
	"github.com/smazurov/bbled/internal/sysfs"
	"github.com/smazurov/bbled/internal/systemd"
	"github.com/smazurov/bbled/internal/updater"
	"github.com/smazurov/bbled/internal/version"
)

const releaseRepository = "smazurov/bbled"

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port string `help:"Port to listen on" short:"p" default:":8091" toml:"server.port" env:"SERVER_PORT"`

	// LED settings
	LedsBasePath     string `help:"Control-file prefix of the user LEDs" default:"/sys/class/leds/beaglebone:green:usr" toml:"leds.base_path" env:"LEDS_BASE_PATH"`
	LedsForce        bool   `help:"Skip board detection and always use sysfs control" default:"false" toml:"leds.force" env:"LEDS_FORCE"`
	LedsProfileFile  string `help:"LED profile applied at start" default:"profile.toml" toml:"leds.profile_file" env:"LEDS_PROFILE_FILE"`
	LedsWatchProfile bool   `help:"Reapply the profile when the file changes" default:"true" toml:"leds.watch_profile" env:"LEDS_WATCH_PROFILE"`

	// Metrics settings
	MetricsEnabled bool `help:"Expose Prometheus metrics on /metrics" default:"true" toml:"metrics.enabled" env:"METRICS_ENABLED"`

	// Auth settings
	AuthUsername string `help:"Basic auth username" default:"admin" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" default:"password" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Update settings
	UpdateEnabled    bool `help:"Enable self-update endpoints" default:"true" toml:"update.enabled" env:"UPDATE_ENABLED"`
	UpdatePrerelease bool `help:"Include prereleases" default:"false" toml:"update.prerelease" env:"UPDATE_PRERELEASE"`

	// systemd settings
	SystemdUnit      string `help:"Unit running bbled, enables /api/systemd routes" default:"" toml:"systemd.unit" env:"SYSTEMD_UNIT"`
	SystemdSystemBus bool   `help:"Use the system bus instead of the user bus" default:"true" toml:"systemd.system_bus" env:"SYSTEMD_SYSTEM_BUS"`

	// Logging settings
	LoggingLevel   string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingLeds    string `help:"LED logging level" default:"info" toml:"logging.leds" env:"LOGGING_LEDS"`
	LoggingProfile string `help:"Profile logging level" default:"info" toml:"logging.profile" env:"LOGGING_PROFILE"`
	LoggingAPI     string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
}

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"leds":    opts.LoggingLeds,
				"profile": opts.LoggingProfile,
				"api":     opts.LoggingAPI,
			},
		})
		logger := logging.GetLogger("main")
		logger.Info("Starting bbled", "version", version.Version)

		eventBus := events.New()

		// Feed buffered log entries to SSE clients
		logging.SetLogCallback(func(entry logging.LogEntry) {
			eventBus.Publish(events.LogEntryEvent{
				Timestamp:  entry.Timestamp.Format(time.RFC3339Nano),
				Level:      entry.Level,
				Module:     entry.Module,
				Message:    entry.Message,
				Attributes: entry.Attributes,
			})
		})

		// Log levels follow the config file without a restart
		logWatcher := config.NewConfigWatcher(opts.Config, config.ReadLoggingConfig, logger)
		logWatcher.OnReload(func(cfg logging.Config) {
			logging.SetLevels(cfg)
			logger.Info("Logging levels reloaded", "level", cfg.Level)
		})

		var fs sysfs.FileSystem = sysfs.FS
		var metricsHandler http.Handler
		var unsubscribeMetrics func()
		if opts.MetricsEnabled {
			reg := exporters.NewRegistry()
			fs = metrics.NewFS(fs, reg)
			unsubscribeMetrics = metrics.NewLEDCollector(reg).Subscribe(eventBus)
			metricsHandler = exporters.HTTPHandler(reg)
		}

		ledLogger := logging.GetLogger("leds")
		controller := led.NewController(ledLogger, led.ControllerOptions{
			BasePath:   opts.LedsBasePath,
			Force:      opts.LedsForce,
			FileSystem: fs,
		})
		ledManager := led.NewManager(controller, eventBus, ledLogger)

		profileLogger := logging.GetLogger("profile")
		profiles := profile.NewStore(opts.LedsProfileFile)
		var profileWatcher *config.Watcher[*profile.Profile]
		if opts.LedsWatchProfile {
			profileWatcher = profile.NewWatcher(profiles, eventBus, profileLogger)
		}

		apiOpts := &api.Options{
			AuthUsername:   opts.AuthUsername,
			AuthPassword:   opts.AuthPassword,
			LEDManager:     ledManager,
			Profiles:       profiles,
			EventBus:       eventBus,
			MetricsHandler: metricsHandler,
		}

		if opts.UpdateEnabled {
			updateService, err := updater.NewService(updater.Options{
				Repository: releaseRepository,
				Prerelease: opts.UpdatePrerelease,
			})
			if err != nil {
				logger.Warn("Failed to create update service", "error", err)
			} else {
				apiOpts.UpdateService = updateService
			}
		}

		// The bus connection is opened in OnStart
		var unitManager *systemd.Manager
		if opts.SystemdUnit != "" {
			unitManager = systemd.NewManager(opts.SystemdUnit, opts.SystemdSystemBus)
			apiOpts.SystemdManager = unitManager
		}

		server := api.NewServer(apiOpts)

		hooks.OnStart(func() {
			ledManager.Start()

			// Apply the saved profile before serving requests
			if p, err := profiles.Load(); err != nil {
				profileLogger.Error("Failed to load LED profile", "path", profiles.Path(), "error", err)
			} else {
				profile.Publish(eventBus, profiles.Path(), p)
			}

			if profileWatcher != nil {
				if err := profileWatcher.Start(); err != nil {
					profileLogger.Warn("Failed to watch LED profile", "path", profiles.Path(), "error", err)
				}
			}
			if err := logWatcher.Start(); err != nil {
				logger.Warn("Failed to watch config file", "path", opts.Config, "error", err)
			}

			if unitManager != nil {
				if err := unitManager.Connect(context.Background()); err != nil {
					logger.Warn("Failed to connect to systemd", "unit", unitManager.Unit(), "error", err)
				}
			}

			if sent, err := systemd.NotifyReady(); err != nil {
				logger.Warn("Failed to notify systemd", "error", err)
			} else if sent {
				logger.Debug("Notified systemd of readiness")
			}

			logger.Info("Starting HTTP server", "port", opts.Port)
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			if _, err := systemd.NotifyStopping(); err != nil {
				logger.Warn("Failed to notify systemd", "error", err)
			}

			if stopErr := server.Stop(); stopErr != nil {
				logger.Error("Error stopping HTTP server", "error", stopErr)
			}

			if profileWatcher != nil {
				if err := profileWatcher.Stop(); err != nil {
					profileLogger.Warn("Error stopping profile watcher", "error", err)
				}
			}
			if err := logWatcher.Stop(); err != nil {
				logger.Warn("Error stopping config watcher", "error", err)
			}

			ledManager.Stop()
			if unsubscribeMetrics != nil {
				unsubscribeMetrics()
			}
			if unitManager != nil {
				unitManager.Close()
			}
		})
	})

	root := cli.Root()
	root.Use = "bbled"
	root.Short = "BeagleBone user LED control"
	for _, c := range cmd.CreateLEDCmds() {
		root.AddCommand(c)
	}
	root.AddCommand(cmd.CreateUpdateCmd(releaseRepository))
	root.AddCommand(cmd.CreateVersionCmd())

	cli.Run()
}
