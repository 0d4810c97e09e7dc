package monitor

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/battwatch/battwatch/internal/catalog"
	"github.com/battwatch/battwatch/internal/hidbus"
)

// connectedDevice is one matched device with its open controller.
// The whole set is replaced on every Fetch, never mutated in place.
type connectedDevice struct {
	name       string
	path       string
	controller hidbus.Controller
}

// Registry tracks which catalogued devices are currently attached.
//
// Fetch enumerates the bus and replaces the connected set wholesale;
// the query methods hand readings to the consumer loop. The lock
// guards only the device map. Hardware I/O runs outside it, so a slow
// or stuck query never blocks enumeration.
//
// All public methods are thread-safe.
type Registry struct {
	bus          hidbus.Bus
	table        catalog.Table
	queryTimeout time.Duration

	mu      sync.Mutex
	devices map[uint16]*connectedDevice

	logger Logger
}

// NewRegistry creates a registry over the given bus and device table.
func NewRegistry(bus hidbus.Bus, table catalog.Table, queryTimeout time.Duration) *Registry {
	return &Registry{
		bus:          bus,
		table:        table,
		queryTimeout: queryTimeout,
		devices:      make(map[uint16]*connectedDevice),
		logger:       noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// Fetch enumerates the bus, matches endpoints against the device
// table, and replaces the connected set with the result. It returns
// the ids that appeared and disappeared since the previous Fetch,
// sorted for deterministic processing.
//
// A single device that matches but cannot be opened is logged and
// skipped; it does not abort the rest of the enumeration. Controllers
// from the previous set are closed after the swap, so a consumer query
// racing a disconnect observes a closed-handle error, which it treats
// like any other failed reading.
func (r *Registry) Fetch() (added, removed []uint16, err error) {
	infos, err := r.bus.Enumerate()
	if err != nil {
		return nil, nil, fmt.Errorf("enumerating devices: %w", err)
	}

	next := make(map[uint16]*connectedDevice)
	for _, info := range infos {
		desc, ok := r.match(info)
		if !ok {
			continue
		}
		if _, dup := next[desc.ProductID]; dup {
			continue
		}

		ctrl, openErr := r.bus.Open(desc.DisplayName, desc.ProductID, info.Path)
		if openErr != nil {
			r.logger.Warn("failed to open device, skipping",
				"device", desc.DisplayName,
				"product_id", fmt.Sprintf("%#04x", desc.ProductID),
				"error", openErr)
			continue
		}

		next[desc.ProductID] = &connectedDevice{
			name:       desc.DisplayName,
			path:       info.Path,
			controller: ctrl,
		}
	}

	r.mu.Lock()
	prev := r.devices
	r.devices = next
	r.mu.Unlock()

	for id := range prev {
		if _, ok := next[id]; !ok {
			removed = append(removed, id)
		}
	}
	for id := range next {
		if _, ok := prev[id]; !ok {
			added = append(added, id)
		}
	}
	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })
	sort.Slice(added, func(i, j int) bool { return added[i] < added[j] })

	for _, dev := range prev {
		if err := dev.controller.Close(); err != nil {
			r.logger.Debug("closing stale controller", "device", dev.name, "error", err)
		}
	}

	return added, removed, nil
}

// match finds the table descriptor for an enumerated endpoint, if any.
// The interface number always participates in the match; usage page
// and usage only where the platform reports them during enumeration.
func (r *Registry) match(info hidbus.DeviceInfo) (catalog.Descriptor, bool) {
	for _, desc := range r.table.Lookup(info.VendorID, info.ProductID) {
		if info.InterfaceNumber != desc.InterfaceNumber {
			continue
		}
		if info.UsageValid && (info.UsagePage != desc.UsagePage || info.Usage != desc.Usage) {
			continue
		}
		return desc, true
	}
	return catalog.Descriptor{}, false
}

// IDs returns the ids of the currently connected devices, sorted.
func (r *Registry) IDs() []uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]uint16, 0, len(r.devices))
	for id := range r.devices {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Name returns the display name of a connected device.
func (r *Registry) Name(id uint16) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dev, ok := r.devices[id]
	if !ok {
		return "", false
	}
	return dev.name, true
}

// QueryBatteryLevel reads the battery percentage of a connected device.
// The query is bounded by the configured timeout; expiry returns
// ErrQueryTimeout and the caller skips the device for this cycle.
func (r *Registry) QueryBatteryLevel(ctx context.Context, id uint16) (int, error) {
	ctrl, name, err := r.controller(id)
	if err != nil {
		return 0, err
	}

	var level int
	err = r.boundedQuery(ctx, name, "battery", func() error {
		var qerr error
		level, qerr = ctrl.QueryBatteryLevel()
		return qerr
	})
	return level, err
}

// QueryChargingStatus reads the charging flag of a connected device,
// bounded by the same timeout as QueryBatteryLevel.
func (r *Registry) QueryChargingStatus(ctx context.Context, id uint16) (bool, error) {
	ctrl, name, err := r.controller(id)
	if err != nil {
		return false, err
	}

	var charging bool
	err = r.boundedQuery(ctx, name, "charging", func() error {
		var qerr error
		charging, qerr = ctrl.QueryChargingStatus()
		return qerr
	})
	return charging, err
}

func (r *Registry) controller(id uint16) (hidbus.Controller, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dev, ok := r.devices[id]
	if !ok {
		return nil, "", fmt.Errorf("%w: %#04x", ErrDeviceNotFound, id)
	}
	return dev.controller, dev.name, nil
}

// boundedQuery runs one hardware query with a deadline. On expiry the
// query goroutine is abandoned; it finishes against the (possibly
// already closed) handle in the background and its result is dropped.
func (r *Registry) boundedQuery(ctx context.Context, name, kind string, query func() error) error {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- query()
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%s %s query: %w", name, kind, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %s %s query after %s", ErrQueryTimeout, name, kind, r.queryTimeout)
	}
}

// Close closes every open controller. Called once at shutdown, after
// both loops have stopped.
func (r *Registry) Close() error {
	r.mu.Lock()
	devices := r.devices
	r.devices = make(map[uint16]*connectedDevice)
	r.mu.Unlock()

	var firstErr error
	for _, dev := range devices {
		if err := dev.controller.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
