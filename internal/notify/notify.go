// Package notify delivers user-facing notices over MQTT and records
// them in the notification journal.
//
// Notices are fire-and-forget: a publish or journal failure is logged
// and dropped, never retried and never surfaced to the monitor core.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/battwatch/battwatch/internal/infrastructure/mqtt"
	"github.com/battwatch/battwatch/internal/journal"
)

// recordTimeout bounds the journal write so a slow disk cannot stall
// the consumer loop.
const recordTimeout = 5 * time.Second

// historyLimit is how many notices a history replay carries, most
// recent first.
const historyLimit = 20

// Logger defines the logging interface used by the notifier.
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

// Publisher is the outbound MQTT surface the notifier needs.
type Publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// message is the JSON payload published for every notice.
type message struct {
	Device string `json:"device"`
	Level  *int   `json:"level,omitempty"`
}

// Notifier publishes notices to battwatch/notify/{kind} topics.
type Notifier struct {
	publisher Publisher
	journal   journal.Repository // nil disables journalling
	qos       byte
	topics    mqtt.Topics
	logger    Logger
}

// New creates a notifier. Pass a nil repository to disable the journal.
func New(publisher Publisher, repo journal.Repository, qos byte) *Notifier {
	return &Notifier{
		publisher: publisher,
		journal:   repo,
		qos:       qos,
		logger:    noopLogger{},
	}
}

// SetLogger sets the logger for the notifier.
func (n *Notifier) SetLogger(logger Logger) {
	n.logger = logger
}

// BatteryLow raises a low-battery notice with the current level.
func (n *Notifier) BatteryLow(name string, level int) {
	n.send(journal.KindBatteryLow, name, &level)
}

// BatteryFull raises a fully-charged notice.
func (n *Notifier) BatteryFull(name string) {
	n.send(journal.KindBatteryFull, name, nil)
}

// DeviceConnected raises a connect notice.
func (n *Notifier) DeviceConnected(name string) {
	n.send(journal.KindDeviceConnected, name, nil)
}

// DeviceDisconnected raises a disconnect notice.
func (n *Notifier) DeviceDisconnected(name string) {
	n.send(journal.KindDeviceDisconnected, name, nil)
}

// PublishHistory replays the most recent journalled notices onto
// battwatch/history. Unlike notices, a failure here is returned: the
// replay was explicitly requested and the caller wants to know it
// did not happen.
func (n *Notifier) PublishHistory(ctx context.Context) error {
	if n.journal == nil {
		return errors.New("notify: notification journal is disabled")
	}

	result, err := n.journal.List(ctx, journal.Filter{Limit: historyLimit})
	if err != nil {
		return fmt.Errorf("listing journalled notices: %w", err)
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding notice history: %w", err)
	}

	if err := n.publisher.Publish(n.topics.History(), payload, n.qos, false); err != nil {
		return fmt.Errorf("publishing notice history: %w", err)
	}

	n.logger.Info("published notice history", "entries", len(result.Entries), "total", result.Total)
	return nil
}

func (n *Notifier) send(kind, name string, level *int) {
	payload, err := json.Marshal(message{Device: name, Level: level})
	if err != nil {
		n.logger.Error("failed to encode notice", "kind", kind, "error", err)
		return
	}

	if err := n.publisher.Publish(n.topics.Notification(kind), payload, n.qos, false); err != nil {
		n.logger.Warn("failed to publish notice", "kind", kind, "device", name, "error", err)
	}

	if n.journal == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	entry := &journal.Entry{Kind: kind, DeviceName: name, BatteryLevel: level}
	if err := n.journal.Record(ctx, entry); err != nil {
		n.logger.Warn("failed to journal notice", "kind", kind, "device", name, "error", err)
	}
}
