package hidbus

import "errors"

// Domain-specific errors for HID bus operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrInitFailed is returned when the hidapi library cannot be initialised.
	// This is the only fatal error in the package: without a working
	// enumeration subsystem there is nothing to monitor.
	ErrInitFailed = errors.New("hidbus: init failed")

	// ErrOpenFailed is returned when a device handle cannot be opened.
	ErrOpenFailed = errors.New("hidbus: open failed")

	// ErrReportFailed is returned when a feature report exchange fails.
	ErrReportFailed = errors.New("hidbus: feature report failed")

	// ErrBadResponse is returned when the device answers with an
	// unexpected status or a corrupt payload.
	ErrBadResponse = errors.New("hidbus: bad response")
)
