// Package tray mirrors the monitor's icon and tooltip state to MQTT.
//
// BattWatch runs headless; any tray renderer (desktop widget,
// dashboard tile) subscribes to the retained battwatch/ui topics and
// repaints from the latest values. Retained publishes mean a renderer
// that starts late still sees the current state immediately.
package tray

import (
	"github.com/battwatch/battwatch/internal/infrastructure/mqtt"
	"github.com/battwatch/battwatch/internal/monitor"
)

// Logger defines the logging interface used by the tray publisher.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Publisher is the outbound MQTT surface the tray needs.
type Publisher interface {
	PublishRetained(topic string, payload []byte) error
}

// Tray publishes icon variants and tooltip text as retained messages.
type Tray struct {
	publisher Publisher
	topics    mqtt.Topics
	logger    Logger
}

// New creates a tray state publisher.
func New(publisher Publisher) *Tray {
	return &Tray{
		publisher: publisher,
		logger:    noopLogger{},
	}
}

// SetLogger sets the logger for the tray publisher.
func (t *Tray) SetLogger(logger Logger) {
	t.logger = logger
}

// SetIcon publishes the current icon variant.
func (t *Tray) SetIcon(variant monitor.IconVariant) {
	if err := t.publisher.PublishRetained(t.topics.UIIcon(), []byte(variant.String())); err != nil {
		t.logger.Warn("failed to publish icon state", "variant", variant.String(), "error", err)
	}
}

// SetTooltip publishes the current tooltip text.
func (t *Tray) SetTooltip(text string) {
	if err := t.publisher.PublishRetained(t.topics.UITooltip(), []byte(text)); err != nil {
		t.logger.Warn("failed to publish tooltip", "error", err)
	}
}
