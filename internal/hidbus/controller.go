package hidbus

import (
	"fmt"
	"time"

	hid "github.com/sstallion/go-hid"
)

// Razer report protocol constants.
//
// Every command and response is a 90-byte feature report exchanged on
// the control endpoint: a status byte, a transaction id, two packet
// counters, a protocol type, the payload size, a command class and id,
// an 80-byte argument block, an XOR checksum, and a reserved byte.
const (
	reportLength = 90

	// transactionID addresses the device behind a wireless dongle.
	transactionID = 0x1f

	// commandClassPower groups the battery-related commands.
	commandClassPower = 0x07

	// commandBatteryLevel reads the charge level (response arg 1, 0-255).
	commandBatteryLevel = 0x80

	// commandChargingStatus reads the charging flag (response arg 1, 0/1).
	commandChargingStatus = 0x84

	// statusSuccess is the device status byte for a completed command.
	statusSuccess = 0x02

	// responseDelay is how long the device needs between receiving a
	// command and having the response ready for collection.
	responseDelay = 50 * time.Millisecond

	// maxLevelRaw is the raw full-scale battery value.
	maxLevelRaw = 255
)

// Report field offsets within the 90-byte frame.
const (
	offsetStatus      = 0
	offsetTransaction = 1
	offsetDataSize    = 5
	offsetClass       = 6
	offsetCommand     = 7
	offsetArgs        = 8
	offsetCRC         = 88
)

// razerController speaks the Razer feature-report protocol to one device.
//
// Not safe for concurrent use; the monitor serialises all queries for a
// device on its consumer loop.
type razerController struct {
	name      string
	productID uint16
	dev       *hid.Device
}

// QueryBatteryLevel reads the current charge as a percentage (0-100).
func (c *razerController) QueryBatteryLevel() (int, error) {
	resp, err := c.exchange(commandBatteryLevel)
	if err != nil {
		return 0, err
	}

	raw := int(resp[offsetArgs+1])
	return (raw*100 + maxLevelRaw/2) / maxLevelRaw, nil
}

// QueryChargingStatus reports whether the device is charging.
func (c *razerController) QueryChargingStatus() (bool, error) {
	resp, err := c.exchange(commandChargingStatus)
	if err != nil {
		return false, err
	}

	return resp[offsetArgs+1] == 1, nil
}

// Close releases the device handle.
func (c *razerController) Close() error {
	if err := c.dev.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", c.name, err)
	}
	return nil
}

// exchange sends one command frame and collects the device's response.
func (c *razerController) exchange(command byte) ([]byte, error) {
	req := buildRequest(command)

	// Feature reports carry a leading report number (0 = unnumbered).
	buf := make([]byte, reportLength+1)
	copy(buf[1:], req)

	if _, err := c.dev.SendFeatureReport(buf); err != nil {
		return nil, fmt.Errorf("%w: %s command %#02x: %w", ErrReportFailed, c.name, command, err)
	}

	// The device needs a moment before the response is readable.
	time.Sleep(responseDelay)

	resp := make([]byte, reportLength+1)
	if _, err := c.dev.GetFeatureReport(resp); err != nil {
		return nil, fmt.Errorf("%w: %s command %#02x: %w", ErrReportFailed, c.name, command, err)
	}

	return parseResponse(resp[1:], command)
}

// buildRequest assembles a command frame for the power command class.
func buildRequest(command byte) []byte {
	req := make([]byte, reportLength)
	req[offsetTransaction] = transactionID
	req[offsetDataSize] = 0x02
	req[offsetClass] = commandClassPower
	req[offsetCommand] = command
	req[offsetCRC] = checksum(req)
	return req
}

// parseResponse validates a response frame and returns it.
func parseResponse(resp []byte, command byte) ([]byte, error) {
	if len(resp) < reportLength {
		return nil, fmt.Errorf("%w: short frame (%d bytes)", ErrBadResponse, len(resp))
	}
	if resp[offsetStatus] != statusSuccess {
		return nil, fmt.Errorf("%w: device status %#02x", ErrBadResponse, resp[offsetStatus])
	}
	if resp[offsetClass] != commandClassPower || resp[offsetCommand] != command {
		return nil, fmt.Errorf("%w: reply to class %#02x command %#02x",
			ErrBadResponse, resp[offsetClass], resp[offsetCommand])
	}
	if checksum(resp) != resp[offsetCRC] {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrBadResponse)
	}
	return resp, nil
}

// checksum XORs the frame body (everything between the packet counters
// and the CRC byte itself).
func checksum(frame []byte) byte {
	var crc byte
	for _, b := range frame[2:offsetCRC] {
		crc ^= b
	}
	return crc
}
