package monitor

import "sync"

// Tracker maintains one DeviceRecord per connected device id.
//
// It is the only state shared between the polling scheduler and the
// consumer loop. The lock is held for a lookup or a field update and
// nothing else; hardware queries happen outside it.
//
// All public methods are thread-safe.
type Tracker struct {
	mu      sync.Mutex
	records map[uint16]*DeviceRecord
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		records: make(map[uint16]*DeviceRecord),
	}
}

// Add inserts a fresh record for a device that just appeared.
// Idempotent: an id that already has a record is left untouched, so a
// spurious re-add cannot wipe an established reading.
func (t *Tracker) Add(id uint16, name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.records[id]; ok {
		return
	}
	t.records[id] = newDeviceRecord(id, name)
}

// Remove deletes the record for a departed device and returns the name
// it was tracked under, for use in the disconnect notice.
func (t *Tracker) Remove(id uint16) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[id]
	if !ok {
		return "", false
	}
	delete(t.records, id)
	return rec.Name, true
}

// ApplyPoll records a successful paired reading of battery level and
// charging status. Both values move in one update; a cycle that failed
// to obtain either must not call this at all.
//
// The returned record is a copy taken after the update. changed is
// true when the reading differs from the previous successful poll
// (always true on the first poll), which is the icon sink's
// change-detection signal.
func (t *Tracker) ApplyPoll(id uint16, level int, charging bool) (rec DeviceRecord, changed, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	r, exists := t.records[id]
	if !exists {
		return DeviceRecord{}, false, false
	}

	changed = r.BatteryLevel != level || r.IsCharging != charging

	r.PreviousBatteryLevel = r.BatteryLevel
	r.BatteryLevel = level
	r.IsCharging = charging

	return *r, changed, true
}

// Get returns a copy of the record for id, if tracked.
func (t *Tracker) Get(id uint16) (DeviceRecord, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[id]
	if !ok {
		return DeviceRecord{}, false
	}
	return *rec, true
}

// Len returns the number of tracked devices.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}
