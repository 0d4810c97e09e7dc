package monitor

import (
	"context"
	"fmt"
)

// Consumer is the single-threaded event loop that owns all UI-facing
// work: per-device battery queries, record updates, notification
// policy, and icon/tooltip writes. Events arrive from the dispatcher
// and are processed strictly in order; refresh events and user
// commands interleave on the same loop.
type Consumer struct {
	registry   *Registry
	tracker    *Tracker
	notifier   Notifier
	icons      IconSink
	dispatcher *Dispatcher
	history    HistoryPublisher
	logger     Logger
}

// NewConsumer creates the consumer loop over the shared components.
func NewConsumer(registry *Registry, tracker *Tracker, notifier Notifier, icons IconSink, dispatcher *Dispatcher) *Consumer {
	return &Consumer{
		registry:   registry,
		tracker:    tracker,
		notifier:   notifier,
		icons:      icons,
		dispatcher: dispatcher,
		logger:     noopLogger{},
	}
}

// SetLogger sets the logger for the consumer.
func (c *Consumer) SetLogger(logger Logger) {
	c.logger = logger
}

// SetHistoryPublisher enables the history command. Without it the
// command is accepted and logged as unavailable.
func (c *Consumer) SetHistoryPublisher(history HistoryPublisher) {
	c.history = history
}

// Run processes events until the context is cancelled or a shutdown
// command arrives. It blocks the calling goroutine; main runs it as
// the foreground loop.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("consumer loop started")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer loop stopping", "reason", ctx.Err())
			return nil
		case ev := <-c.dispatcher.Events():
			switch e := ev.(type) {
			case RefreshEvent:
				c.handleRefresh(ctx, e.IDs)
			case CommandEvent:
				if done := c.handleCommand(ctx, e.Command); done {
					return nil
				}
			default:
				c.logger.Error("unknown event type", "event", fmt.Sprintf("%T", ev))
			}
		}
	}
}

// handleRefresh re-queries every listed device and applies the policy
// and icon logic to each successful reading.
func (c *Consumer) handleRefresh(ctx context.Context, ids []uint16) {
	for _, id := range ids {
		c.pollDevice(ctx, id)
	}
}

// pollDevice performs the paired battery/charging query for one
// device. Both values must arrive before anything is written; a
// failure on either leaves the record stale and skips policy, icon,
// and tooltip for this cycle.
func (c *Consumer) pollDevice(ctx context.Context, id uint16) {
	level, err := c.registry.QueryBatteryLevel(ctx, id)
	if err != nil {
		c.logger.Warn("failed to get battery level", "error", err)
		return
	}

	charging, err := c.registry.QueryChargingStatus(ctx, id)
	if err != nil {
		c.logger.Warn("failed to get charging status", "error", err)
		return
	}

	rec, changed, ok := c.tracker.ApplyPoll(id, level, charging)
	if !ok {
		// Removed between dispatch and delivery.
		return
	}

	c.logger.Info("battery reading",
		"device", rec.Name,
		"level", rec.BatteryLevel,
		"charging", rec.IsCharging)

	switch EvaluateNotification(rec) {
	case NoticeBatteryLow:
		c.logger.Info("battery low", "device", rec.Name, "level", rec.BatteryLevel)
		c.notifier.BatteryLow(rec.Name, rec.BatteryLevel)
	case NoticeBatteryFull:
		c.logger.Info("battery fully charged", "device", rec.Name)
		c.notifier.BatteryFull(rec.Name)
	}

	if changed {
		c.icons.SetIcon(SelectIcon(rec.BatteryLevel, rec.IsCharging))
	}
	c.icons.SetTooltip(fmt.Sprintf("%s: %d%%", rec.Name, rec.BatteryLevel))
}

// handleCommand executes one user command. Returns true when the
// command ends the loop.
func (c *Consumer) handleCommand(ctx context.Context, cmd CommandID) bool {
	switch cmd {
	case CommandRefresh:
		c.logger.Info("manual refresh requested")
		c.handleRefresh(ctx, c.registry.IDs())
	case CommandShutdown:
		c.logger.Info("shutdown requested")
		return true
	case CommandHistory:
		if c.history == nil {
			c.logger.Warn("history requested but journal is disabled")
			break
		}
		c.logger.Info("notice history requested")
		if err := c.history.PublishHistory(ctx); err != nil {
			c.logger.Warn("failed to publish notice history", "error", err)
		}
	default:
		c.logger.Warn("unknown command", "command", int(cmd))
	}
	return false
}
