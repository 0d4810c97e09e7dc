package monitor

import "context"

// Battery policy thresholds. These are fixed constants, not
// configuration: the notification semantics depend on them and
// changing one without revisiting the policy tests is unsafe.
const (
	// criticalThreshold is the level at or below which a discharging
	// device raises a low-battery notice on every poll.
	criticalThreshold = 5

	// lowThreshold is the level whose downward crossing raises a
	// single low-battery notice while discharging.
	lowThreshold = 15

	// fullLevel is the reading that, first reached while charging,
	// raises a battery-full notice.
	fullLevel = 100

	// levelUnknown marks a record whose battery has never been read.
	levelUnknown = -1

	// previousLevelSeed is the neutral previous-level value for a new
	// record. It sits above lowThreshold and below fullLevel so the
	// very first real reading cannot fake a threshold crossing in
	// either direction.
	previousLevelSeed = 50
)

// DeviceRecord is the per-device battery state.
//
// BatteryLevel is levelUnknown until the first successful poll.
// PreviousBatteryLevel always holds the reading observed immediately
// before the current one; it is seeded at creation and never reset, so
// the notification policy can detect threshold crossings.
type DeviceRecord struct {
	ID                   uint16
	Name                 string
	BatteryLevel         int
	PreviousBatteryLevel int
	IsCharging           bool
}

// newDeviceRecord creates the state for a device that just appeared.
func newDeviceRecord(id uint16, name string) *DeviceRecord {
	return &DeviceRecord{
		ID:                   id,
		Name:                 name,
		BatteryLevel:         levelUnknown,
		PreviousBatteryLevel: previousLevelSeed,
	}
}

// Notifier delivers user-facing notices. Implementations log their own
// failures; a notice is fire-and-forget and never affects monitor state.
type Notifier interface {
	BatteryLow(name string, level int)
	BatteryFull(name string)
	DeviceConnected(name string)
	DeviceDisconnected(name string)
}

// IconSink receives status-icon and tooltip updates. Implementations
// log their own failures.
type IconSink interface {
	SetIcon(variant IconVariant)
	SetTooltip(text string)
}

// HistoryPublisher replays recent journalled notices to whatever sink
// the implementation owns. Wired only when the journal is enabled.
type HistoryPublisher interface {
	PublishHistory(ctx context.Context) error
}
