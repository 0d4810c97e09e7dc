package mqtt

import "fmt"

// Topic prefixes for the BattWatch MQTT surface.
//
// Everything the monitor publishes or consumes lives under "battwatch/":
//
//	battwatch/notify/{kind}     notification toasts (fire-and-forget)
//	battwatch/ui/icon           retained tray icon variant
//	battwatch/ui/tooltip        retained tray tooltip text
//	battwatch/command           inbound command messages
//	battwatch/history           recent notices, replayed on request
//	battwatch/system/status     online/offline status (retained, LWT)
const (
	// TopicPrefix is the base for all BattWatch topics.
	TopicPrefix = "battwatch"

	// TopicPrefixNotify is the base for notification topics.
	TopicPrefixNotify = "battwatch/notify"

	// TopicPrefixUI is the base for tray UI state topics.
	TopicPrefixUI = "battwatch/ui"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "battwatch/system"
)

// Topics provides builders for BattWatch MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	lowTopic := topics.Notification("battery_low")
//	// Returns: "battwatch/notify/battery_low"
type Topics struct{}

// Notification returns the topic for a notification kind.
//
// Example: battwatch/notify/battery_low
func (Topics) Notification(kind string) string {
	return fmt.Sprintf("%s/%s", TopicPrefixNotify, kind)
}

// UIIcon returns the retained topic carrying the current tray icon variant.
//
// Example: battwatch/ui/icon
func (Topics) UIIcon() string {
	return fmt.Sprintf("%s/icon", TopicPrefixUI)
}

// UITooltip returns the retained topic carrying the current tooltip text.
//
// Example: battwatch/ui/tooltip
func (Topics) UITooltip() string {
	return fmt.Sprintf("%s/tooltip", TopicPrefixUI)
}

// Command returns the topic commands are received on.
//
// Example: battwatch/command
func (Topics) Command() string {
	return fmt.Sprintf("%s/command", TopicPrefix)
}

// History returns the topic recent notices are replayed on in
// response to a history command.
//
// Example: battwatch/history
func (Topics) History() string {
	return fmt.Sprintf("%s/history", TopicPrefix)
}

// SystemStatus returns the system status topic.
// The Last Will and Testament is published here on unexpected disconnect.
//
// Example: battwatch/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllNotifications returns a pattern matching every notification kind.
//
// Pattern: battwatch/notify/+
func (Topics) AllNotifications() string {
	return fmt.Sprintf("%s/+", TopicPrefixNotify)
}

// AllTopics returns a pattern matching all BattWatch topics.
//
// Pattern: battwatch/#
func (Topics) AllTopics() string {
	return "battwatch/#"
}
