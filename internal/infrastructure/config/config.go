package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for BattWatch.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Monitor  MonitorConfig  `yaml:"monitor"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Journal  JournalConfig  `yaml:"journal"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// MonitorConfig contains polling cadence settings for the device monitor.
//
// Notification thresholds (critical/low battery levels) are deliberately
// NOT configurable; they are fixed policy constants in the monitor package.
type MonitorConfig struct {
	// PollInterval is how often the bus is enumerated for device
	// arrivals and departures (seconds).
	PollInterval int `yaml:"poll_interval"`

	// BatteryRefreshInterval is how often every connected device is
	// re-queried for battery level and charging status (seconds).
	// Must be a multiple of PollInterval.
	BatteryRefreshInterval int `yaml:"battery_refresh_interval"`

	// QueryTimeout bounds a single battery/charging query (seconds).
	// Expiry is treated as a recoverable query failure for that cycle.
	QueryTimeout int `yaml:"query_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// JournalConfig contains notification journal settings.
// The journal records raised notifications, not battery readings.
type JournalConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DatabaseConfig contains SQLite database settings for the journal.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads, parses, and validates a configuration file.
//
// Values are resolved in order of precedence:
//  1. Environment variables (BATTWATCH_SECTION_KEY)
//  2. Values from the YAML file
//  3. Built-in defaults
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
// The cadence defaults mirror the original desktop monitor:
// enumerate every 5 seconds, refresh batteries every 5 minutes.
func defaultConfig() *Config {
	return &Config{
		Monitor: MonitorConfig{
			PollInterval:           5,
			BatteryRefreshInterval: 300,
			QueryTimeout:           10,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "battwatch",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		Journal: JournalConfig{
			Enabled: true,
		},
		Database: DatabaseConfig{
			Path:        "./data/battwatch.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: BATTWATCH_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Monitor
	if v := os.Getenv("BATTWATCH_MONITOR_POLL_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Monitor.PollInterval = n
		}
	}
	if v := os.Getenv("BATTWATCH_MONITOR_BATTERY_REFRESH_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Monitor.BatteryRefreshInterval = n
		}
	}

	// MQTT
	if v := os.Getenv("BATTWATCH_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("BATTWATCH_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("BATTWATCH_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// Database
	if v := os.Getenv("BATTWATCH_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Monitor cadence validation
	if c.Monitor.PollInterval < 1 {
		errs = append(errs, "monitor.poll_interval must be at least 1 second")
	}
	if c.Monitor.BatteryRefreshInterval < c.Monitor.PollInterval {
		errs = append(errs, "monitor.battery_refresh_interval must be >= monitor.poll_interval")
	}
	if c.Monitor.PollInterval > 0 && c.Monitor.BatteryRefreshInterval%c.Monitor.PollInterval != 0 {
		errs = append(errs, "monitor.battery_refresh_interval must be a multiple of monitor.poll_interval")
	}
	if c.Monitor.QueryTimeout < 1 {
		errs = append(errs, "monitor.query_timeout must be at least 1 second")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}
	if c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required")
	}
	if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}

	// Database validation (only needed when the journal is enabled)
	if c.Journal.Enabled && c.Database.Path == "" {
		errs = append(errs, "database.path is required when journal.enabled is true")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetPollInterval returns the bus enumeration interval as a Duration.
func (c *Config) GetPollInterval() time.Duration {
	return time.Duration(c.Monitor.PollInterval) * time.Second
}

// GetBatteryRefreshInterval returns the battery refresh interval as a Duration.
func (c *Config) GetBatteryRefreshInterval() time.Duration {
	return time.Duration(c.Monitor.BatteryRefreshInterval) * time.Second
}

// GetQueryTimeout returns the per-query timeout as a Duration.
func (c *Config) GetQueryTimeout() time.Duration {
	return time.Duration(c.Monitor.QueryTimeout) * time.Second
}
