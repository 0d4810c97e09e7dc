package monitor

import (
	"context"
	"sync"
	"time"
)

// Scheduler is the background polling loop. Each cycle it re-fetches
// the connected device set, applies the add/remove diff to the
// tracker, raises connectivity notices, and decides whether the
// consumer needs a refresh dispatch.
//
// The shutdown signal is checked at the top of every cycle; Stop (or
// context cancellation) takes effect before the next enumeration.
type Scheduler struct {
	registry   *Registry
	tracker    *Tracker
	notifier   Notifier
	dispatcher *Dispatcher

	pollInterval time.Duration
	// cadence is how many poll cycles make up one full battery refresh
	// period. The counter wraps modulo cadence every cycle whether or
	// not a dispatch happened.
	cadence int
	counter int

	// lastAdded is the previous cycle's added-id set, kept to detect
	// membership churn between cycles.
	lastAdded map[uint16]struct{}

	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
	logger   Logger
}

// NewScheduler creates a polling scheduler.
//
// refreshInterval must be a multiple of pollInterval; configuration
// validation enforces that before this is reached.
func NewScheduler(registry *Registry, tracker *Tracker, notifier Notifier, dispatcher *Dispatcher, pollInterval, refreshInterval time.Duration) *Scheduler {
	return &Scheduler{
		registry:     registry,
		tracker:      tracker,
		notifier:     notifier,
		dispatcher:   dispatcher,
		pollInterval: pollInterval,
		cadence:      int(refreshInterval / pollInterval),
		lastAdded:    make(map[uint16]struct{}),
		done:         make(chan struct{}),
		stopped:      make(chan struct{}),
		logger:       noopLogger{},
	}
}

// SetLogger sets the logger for the scheduler.
func (s *Scheduler) SetLogger(logger Logger) {
	s.logger = logger
}

// Start launches the polling loop in its own goroutine. The loop exits
// when ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	go s.run(ctx)
}

// Stop signals the loop to exit and waits for the current cycle to
// finish. Safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
	<-s.stopped
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.stopped)

	s.logger.Info("polling scheduler started",
		"poll_interval", s.pollInterval,
		"refresh_every", s.cadence)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("polling scheduler stopping", "reason", ctx.Err())
			return
		case <-s.done:
			s.logger.Info("polling scheduler stopping", "reason", "stop requested")
			return
		default:
		}

		s.cycle()

		select {
		case <-ctx.Done():
			s.logger.Info("polling scheduler stopping", "reason", ctx.Err())
			return
		case <-s.done:
			s.logger.Info("polling scheduler stopping", "reason", "stop requested")
			return
		case <-time.After(s.pollInterval):
		}
	}
}

// cycle runs one enumerate/diff/dispatch pass.
func (s *Scheduler) cycle() {
	added, removed, err := s.registry.Fetch()
	if err != nil {
		s.logger.Warn("device enumeration failed, retrying next cycle", "error", err)
		s.advanceCounter()
		return
	}

	// Removals first: an id that vanished and reappeared in the same
	// cycle gets a clean remove-then-recreate, never a silent update.
	for _, id := range removed {
		name, ok := s.tracker.Remove(id)
		if !ok {
			continue
		}
		s.logger.Info("device removed", "device", name)
		s.notifier.DeviceDisconnected(name)
	}

	for _, id := range added {
		name, ok := s.registry.Name(id)
		if !ok {
			s.logger.Error("no name for connected device", "product_id", id)
			continue
		}
		s.tracker.Add(id, name)
		s.logger.Info("new device", "device", name)
		s.notifier.DeviceConnected(name)
	}

	if s.shouldDispatch(added) {
		s.dispatcher.Dispatch(RefreshEvent{IDs: s.registry.IDs()})
	}
	s.advanceCounter()
}

// shouldDispatch reports whether this cycle warrants a refresh event:
// either the added-id set changed since the previous cycle, or the
// cadence counter completed a full battery refresh period.
func (s *Scheduler) shouldDispatch(added []uint16) bool {
	current := make(map[uint16]struct{}, len(added))
	for _, id := range added {
		current[id] = struct{}{}
	}

	changed := len(current) != len(s.lastAdded)
	if !changed {
		for id := range current {
			if _, ok := s.lastAdded[id]; !ok {
				changed = true
				break
			}
		}
	}
	s.lastAdded = current

	return changed || s.counter == 0
}

func (s *Scheduler) advanceCounter() {
	s.counter = (s.counter + 1) % s.cadence
}
