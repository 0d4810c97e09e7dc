package hidbus

// DeviceInfo describes one logical HID endpoint found during bus
// enumeration. A physical device typically contributes several entries,
// one per interface/usage combination.
type DeviceInfo struct {
	// Path is a platform-specific identifier used to open the device.
	Path string

	VendorID  uint16
	ProductID uint16

	// InterfaceNumber is the USB interface behind this endpoint.
	InterfaceNumber int

	// UsagePage and Usage identify the HID usage of the endpoint.
	// UsageValid is false on platforms where enumeration does not
	// expose usage metadata; matching must then skip the usage check.
	UsagePage  uint16
	Usage      uint16
	UsageValid bool
}

// Controller is a per-device handle capable of querying battery state.
//
// Any returned error means "unavailable this cycle"; callers retry on
// their own cadence and never treat a query failure as fatal.
type Controller interface {
	// QueryBatteryLevel reads the current charge as a percentage (0-100).
	QueryBatteryLevel() (int, error)

	// QueryChargingStatus reports whether the device is charging.
	QueryChargingStatus() (bool, error)

	// Close releases the underlying device handle.
	Close() error
}

// Bus enumerates HID devices and opens controllers for them.
type Bus interface {
	// Enumerate lists every HID endpoint currently visible on the bus.
	Enumerate() ([]DeviceInfo, error)

	// Open creates a Controller for the device at the given path.
	Open(name string, productID uint16, path string) (Controller, error)

	// Close releases bus-level resources.
	Close() error
}
