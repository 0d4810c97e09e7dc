// BattWatch - battery monitor for wireless HID peripherals
//
// BattWatch polls supported devices over the HID bus, tracks battery
// level and charging status, and publishes notifications and tray
// state over MQTT. Raised notifications are optionally journalled to
// SQLite.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/battwatch/battwatch/migrations"

	"github.com/battwatch/battwatch/internal/catalog"
	"github.com/battwatch/battwatch/internal/hidbus"
	"github.com/battwatch/battwatch/internal/infrastructure/config"
	"github.com/battwatch/battwatch/internal/infrastructure/database"
	"github.com/battwatch/battwatch/internal/infrastructure/logging"
	"github.com/battwatch/battwatch/internal/infrastructure/mqtt"
	"github.com/battwatch/battwatch/internal/journal"
	"github.com/battwatch/battwatch/internal/monitor"
	"github.com/battwatch/battwatch/internal/notify"
	"github.com/battwatch/battwatch/internal/tray"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting BattWatch",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open the journal database (optional)
	var db *database.DB
	var journalRepo journal.Repository
	if cfg.Journal.Enabled {
		db, err = database.Open(database.Config{
			Path:        cfg.Database.Path,
			WALMode:     cfg.Database.WALMode,
			BusyTimeout: cfg.Database.BusyTimeout,
		})
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()
		log.Info("database connected", "path", cfg.Database.Path)

		if migrateErr := db.Migrate(ctx); migrateErr != nil {
			return fmt.Errorf("running migrations: %w", migrateErr)
		}
		log.Info("database migrations complete")

		journalRepo = journal.NewSQLiteRepository(db.DB)
	} else {
		log.Info("notification journal disabled")
	}

	// Connect to MQTT broker
	mqttClient, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	mqttClient.SetLogger(log)
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	// Open the HID bus. This is the only fatal hardware error: without
	// enumeration there is nothing to monitor.
	bus, err := hidbus.OpenBus()
	if err != nil {
		return fmt.Errorf("opening HID bus: %w", err)
	}
	defer func() {
		log.Info("closing HID bus")
		if closeErr := bus.Close(); closeErr != nil {
			log.Error("error closing HID bus", "error", closeErr)
		}
	}()
	log.Info("HID bus initialised")

	// Wire the monitor core
	registry := monitor.NewRegistry(bus, catalog.Default(), cfg.GetQueryTimeout())
	registry.SetLogger(log)
	defer func() {
		if closeErr := registry.Close(); closeErr != nil {
			log.Error("error closing device controllers", "error", closeErr)
		}
	}()

	tracker := monitor.NewTracker()
	dispatcher := monitor.NewDispatcher()

	notifier := notify.New(mqttClient, journalRepo, byte(cfg.MQTT.QoS))
	notifier.SetLogger(log)

	trayState := tray.New(mqttClient)
	trayState.SetLogger(log)

	consumer := monitor.NewConsumer(registry, tracker, notifier, trayState, dispatcher)
	consumer.SetLogger(log)
	if cfg.Journal.Enabled {
		// The history command replays recent journalled notices.
		consumer.SetHistoryPublisher(notifier)
	}

	scheduler := monitor.NewScheduler(registry, tracker, notifier, dispatcher,
		cfg.GetPollInterval(), cfg.GetBatteryRefreshInterval())
	scheduler.SetLogger(log)

	// Inbound commands arrive on battwatch/command and join the
	// consumer loop alongside refresh events.
	topics := mqtt.Topics{}
	err = mqttClient.Subscribe(topics.Command(), byte(cfg.MQTT.QoS), func(topic string, payload []byte) error {
		var msg struct {
			Command string `json:"command"`
		}
		if err := json.Unmarshal(payload, &msg); err != nil {
			return fmt.Errorf("decoding command: %w", err)
		}
		cmd, ok := monitor.ParseCommandID(msg.Command)
		if !ok {
			return fmt.Errorf("unknown command %q", msg.Command)
		}
		dispatcher.Dispatch(monitor.CommandEvent{Command: cmd})
		return nil
	})
	if err != nil {
		return fmt.Errorf("subscribing to commands: %w", err)
	}

	// Verify infrastructure connections are healthy
	if err := healthCheck(ctx, db, mqttClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	scheduler.Start(ctx)
	defer func() {
		log.Info("stopping polling scheduler")
		scheduler.Stop()
	}()

	log.Info("initialisation complete, monitoring devices")

	// The consumer runs in the foreground until the context is
	// cancelled or a shutdown command arrives.
	if err := consumer.Run(ctx); err != nil {
		return fmt.Errorf("consumer loop: %w", err)
	}

	log.Info("BattWatch stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses BATTWATCH_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("BATTWATCH_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies infrastructure connections are healthy.
// The database handle is nil when the journal is disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client) error {
	if db != nil {
		if err := db.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	return nil
}
