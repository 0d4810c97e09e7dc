package monitor

import "errors"

// Domain-specific errors for monitor operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrDeviceNotFound is returned when a query names a device id
	// with no open controller, usually because the device disconnected
	// between dispatch and delivery.
	ErrDeviceNotFound = errors.New("device not found")

	// ErrQueryTimeout is returned when a battery or charging query
	// does not complete within the configured bound. The record is
	// left untouched and the query retried on the next cycle.
	ErrQueryTimeout = errors.New("query timed out")
)
