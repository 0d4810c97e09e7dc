package hidbus

import (
	"fmt"
	"runtime"

	hid "github.com/sstallion/go-hid"
)

// HID is the hidapi-backed Bus implementation.
//
// It is safe to share between goroutines: hidapi serialises enumeration
// internally and each Controller owns its device handle.
type HID struct{}

// OpenBus initialises the hidapi library and returns the bus handle.
//
// Returns:
//   - *HID: Ready to enumerate
//   - error: ErrInitFailed if the library cannot be initialised (fatal)
func OpenBus() (*HID, error) {
	if err := hid.Init(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitFailed, err)
	}
	return &HID{}, nil
}

// Enumerate lists every HID endpoint currently visible on the bus.
func (b *HID) Enumerate() ([]DeviceInfo, error) {
	var devices []DeviceInfo

	err := hid.Enumerate(hid.VendorIDAny, hid.ProductIDAny, func(info *hid.DeviceInfo) error {
		devices = append(devices, DeviceInfo{
			Path:            info.Path,
			VendorID:        info.VendorID,
			ProductID:       info.ProductID,
			InterfaceNumber: info.InterfaceNbr,
			UsagePage:       info.UsagePage,
			Usage:           info.Usage,
			UsageValid:      usageMetadataExposed(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("enumerating HID bus: %w", err)
	}

	return devices, nil
}

// Open creates a Razer battery controller for the device at path.
func (b *HID) Open(name string, productID uint16, path string) (Controller, error) {
	dev, err := hid.OpenPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s (%s): %w", ErrOpenFailed, name, path, err)
	}

	return &razerController{
		name:      name,
		productID: productID,
		dev:       dev,
	}, nil
}

// Close releases the hidapi library.
func (b *HID) Close() error {
	if err := hid.Exit(); err != nil {
		return fmt.Errorf("closing HID bus: %w", err)
	}
	return nil
}

// usageMetadataExposed reports whether hidapi fills UsagePage/Usage
// during enumeration on this platform. Windows and macOS always do;
// Linux only learns usage after opening a device, so enumeration
// matching must fall back to the interface number alone.
func usageMetadataExposed() bool {
	return runtime.GOOS == "windows" || runtime.GOOS == "darwin"
}
