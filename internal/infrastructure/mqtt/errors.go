package mqtt

import "errors"

// Sentinel errors for broker operations. Match with errors.Is; the
// wrapped form carries the underlying paho error.
var (
	// ErrNotConnected: the session is down. Publishes fail fast rather
	// than queueing; the caller decides whether the message matters.
	ErrNotConnected = errors.New("mqtt: client not connected")

	// ErrConnectionFailed: the initial dial in Connect did not complete.
	ErrConnectionFailed = errors.New("mqtt: connection failed")

	// ErrPublishFailed wraps broker-side publish failures and timeouts.
	ErrPublishFailed = errors.New("mqtt: publish failed")

	// ErrSubscribeFailed wraps broker-side subscribe failures and timeouts.
	ErrSubscribeFailed = errors.New("mqtt: subscribe failed")

	// ErrInvalidQoS: QoS outside 0..2.
	ErrInvalidQoS = errors.New("mqtt: invalid QoS level (must be 0, 1, or 2)")

	// ErrInvalidTopic: empty topic string.
	ErrInvalidTopic = errors.New("mqtt: topic cannot be empty")
)
