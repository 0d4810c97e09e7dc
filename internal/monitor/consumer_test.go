package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/battwatch/battwatch/internal/hidbus"
)

// fakeIconSink records icon and tooltip writes.
type fakeIconSink struct {
	mu       sync.Mutex
	icons    []IconVariant
	tooltips []string
}

func (s *fakeIconSink) SetIcon(v IconVariant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.icons = append(s.icons, v)
}

func (s *fakeIconSink) SetTooltip(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tooltips = append(s.tooltips, text)
}

func (s *fakeIconSink) state() ([]IconVariant, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]IconVariant(nil), s.icons...), append([]string(nil), s.tooltips...)
}

func newTestConsumer(ctrl *fakeController) (*Consumer, *Registry, *Tracker, *fakeNotifier, *fakeIconSink, *Dispatcher) {
	bus := &fakeBus{
		infos: []hidbus.DeviceInfo{
			endpoint(0x007A, 0, 0x000C, 0x0001, true, "path-viper"),
		},
		controllers: map[string]*fakeController{"path-viper": ctrl},
	}
	reg := NewRegistry(bus, testTable, time.Second)
	tracker := NewTracker()
	notifier := &fakeNotifier{}
	icons := &fakeIconSink{}
	dispatcher := NewDispatcher()
	consumer := NewConsumer(reg, tracker, notifier, icons, dispatcher)

	if _, _, err := reg.Fetch(); err != nil {
		panic(err)
	}
	tracker.Add(0x007A, "Razer Viper Ultimate")

	return consumer, reg, tracker, notifier, icons, dispatcher
}

func TestConsumerPollUpdatesRecordAndSinks(t *testing.T) {
	ctrl := &fakeController{level: 4, charging: false}
	consumer, _, tracker, notifier, icons, _ := newTestConsumer(ctrl)

	consumer.handleRefresh(context.Background(), []uint16{0x007A})

	rec, _ := tracker.Get(0x007A)
	if rec.BatteryLevel != 4 {
		t.Errorf("BatteryLevel = %d, want 4", rec.BatteryLevel)
	}

	calls := notifier.all()
	if len(calls) != 1 || calls[0] != "low:Razer Viper Ultimate" {
		t.Errorf("notices = %v, want single battery-low", calls)
	}

	iconCalls, tooltips := icons.state()
	if len(iconCalls) != 1 || iconCalls[0] != IconCritical {
		t.Errorf("icons = %v, want [critical]", iconCalls)
	}
	if len(tooltips) != 1 || tooltips[0] != "Razer Viper Ultimate: 4%" {
		t.Errorf("tooltips = %v", tooltips)
	}
}

// A failed reading on either half of the pair leaves the record, the
// policy, and every sink untouched for that cycle.
func TestConsumerPartialQueryFailureSkipsDevice(t *testing.T) {
	tests := []struct {
		name string
		ctrl *fakeController
	}{
		{"battery query fails", &fakeController{levelErr: errors.New("io")}},
		{"charging query fails", &fakeController{level: 50, chargeErr: errors.New("io")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			consumer, _, tracker, notifier, icons, _ := newTestConsumer(tt.ctrl)

			consumer.handleRefresh(context.Background(), []uint16{0x007A})

			rec, _ := tracker.Get(0x007A)
			if rec.BatteryLevel != levelUnknown {
				t.Errorf("record written despite failed query: level = %d", rec.BatteryLevel)
			}
			if calls := notifier.all(); len(calls) != 0 {
				t.Errorf("notices = %v, want none", calls)
			}
			iconCalls, tooltips := icons.state()
			if len(iconCalls) != 0 || len(tooltips) != 0 {
				t.Errorf("sinks invoked despite failed query: icons=%v tooltips=%v", iconCalls, tooltips)
			}
		})
	}
}

// The icon is written only when the reading changed; the tooltip is
// written every successful poll.
func TestConsumerIconChangeDetection(t *testing.T) {
	ctrl := &fakeController{level: 80, charging: false}
	consumer, _, _, _, icons, _ := newTestConsumer(ctrl)

	consumer.handleRefresh(context.Background(), []uint16{0x007A})
	consumer.handleRefresh(context.Background(), []uint16{0x007A})

	iconCalls, tooltips := icons.state()
	if len(iconCalls) != 1 {
		t.Errorf("icon writes = %d, want 1 (second identical poll suppressed)", len(iconCalls))
	}
	if len(tooltips) != 2 {
		t.Errorf("tooltip writes = %d, want 2", len(tooltips))
	}

	// A charging flip alone repaints the icon.
	ctrl.charging = true
	consumer.handleRefresh(context.Background(), []uint16{0x007A})

	iconCalls, tooltips = icons.state()
	if len(iconCalls) != 2 {
		t.Errorf("icon writes = %d after charging flip, want 2", len(iconCalls))
	}
	if iconCalls[1] != IconNormal {
		t.Errorf("icon after flip = %v, want normal", iconCalls[1])
	}
	if len(tooltips) != 3 {
		t.Errorf("tooltip writes = %d, want 3", len(tooltips))
	}
}

func TestConsumerFullChargeScenario(t *testing.T) {
	ctrl := &fakeController{level: 98, charging: true}
	consumer, _, _, notifier, icons, _ := newTestConsumer(ctrl)

	consumer.handleRefresh(context.Background(), []uint16{0x007A})
	ctrl.level = 100
	consumer.handleRefresh(context.Background(), []uint16{0x007A})
	consumer.handleRefresh(context.Background(), []uint16{0x007A})

	var fulls int
	for _, call := range notifier.all() {
		if call == "full:Razer Viper Ultimate" {
			fulls++
		}
	}
	if fulls != 1 {
		t.Errorf("battery-full notices = %d, want exactly 1", fulls)
	}

	iconCalls, _ := icons.state()
	for _, v := range iconCalls {
		if v != IconNormal {
			t.Errorf("icon = %v while charging, want normal", v)
		}
	}
}

func TestConsumerUntrackedIDIgnored(t *testing.T) {
	ctrl := &fakeController{level: 50}
	consumer, _, tracker, notifier, _, _ := newTestConsumer(ctrl)
	tracker.Remove(0x007A)

	consumer.handleRefresh(context.Background(), []uint16{0x007A})

	if calls := notifier.all(); len(calls) != 0 {
		t.Errorf("notices for untracked device = %v, want none", calls)
	}
}

func TestConsumerRunShutdownCommand(t *testing.T) {
	ctrl := &fakeController{level: 50}
	consumer, _, _, _, _, dispatcher := newTestConsumer(ctrl)

	done := make(chan error, 1)
	go func() {
		done <- consumer.Run(context.Background())
	}()

	dispatcher.Dispatch(CommandEvent{Command: CommandShutdown})

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after shutdown command")
	}
}

func TestConsumerRunContextCancel(t *testing.T) {
	ctrl := &fakeController{level: 50}
	consumer, _, _, _, _, _ := newTestConsumer(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- consumer.Run(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, want nil", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after context cancellation")
	}
}

func TestConsumerRefreshCommand(t *testing.T) {
	ctrl := &fakeController{level: 64}
	consumer, _, tracker, _, icons, dispatcher := newTestConsumer(ctrl)

	done := make(chan error, 1)
	go func() {
		done <- consumer.Run(context.Background())
	}()

	dispatcher.Dispatch(CommandEvent{Command: CommandRefresh})
	dispatcher.Dispatch(CommandEvent{Command: CommandShutdown})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() did not return")
	}

	rec, _ := tracker.Get(0x007A)
	if rec.BatteryLevel != 64 {
		t.Errorf("BatteryLevel = %d after refresh command, want 64", rec.BatteryLevel)
	}
	_, tooltips := icons.state()
	if len(tooltips) != 1 {
		t.Errorf("tooltip writes = %d, want 1", len(tooltips))
	}
}

// fakeHistory records history replay requests.
type fakeHistory struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (h *fakeHistory) PublishHistory(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls++
	return h.err
}

func (h *fakeHistory) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls
}

func TestConsumerHistoryCommand(t *testing.T) {
	ctrl := &fakeController{level: 80}
	consumer, _, _, _, _, dispatcher := newTestConsumer(ctrl)

	history := &fakeHistory{}
	consumer.SetHistoryPublisher(history)

	done := make(chan error, 1)
	go func() {
		done <- consumer.Run(context.Background())
	}()

	dispatcher.Dispatch(CommandEvent{Command: CommandHistory})
	dispatcher.Dispatch(CommandEvent{Command: CommandShutdown})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run() did not return after shutdown command")
	}

	if got := history.count(); got != 1 {
		t.Errorf("history replays = %d, want 1", got)
	}
}

func TestConsumerHistoryCommandWithoutPublisher(t *testing.T) {
	// Journal disabled: the command is accepted and dropped, and the
	// loop keeps running.
	ctrl := &fakeController{level: 80}
	consumer, _, _, _, _, _ := newTestConsumer(ctrl)

	if done := consumer.handleCommand(context.Background(), CommandHistory); done {
		t.Error("history command ended the loop")
	}
}

func TestConsumerHistoryCommandFailureIsSwallowed(t *testing.T) {
	ctrl := &fakeController{level: 80}
	consumer, _, _, _, _, _ := newTestConsumer(ctrl)

	history := &fakeHistory{err: errors.New("broker down")}
	consumer.SetHistoryPublisher(history)

	if done := consumer.handleCommand(context.Background(), CommandHistory); done {
		t.Error("failed history command ended the loop")
	}
	if got := history.count(); got != 1 {
		t.Errorf("history replays = %d, want 1", got)
	}
}

func TestParseCommandID(t *testing.T) {
	tests := []struct {
		in     string
		want   CommandID
		wantOK bool
	}{
		{"refresh", CommandRefresh, true},
		{"shutdown", CommandShutdown, true},
		{"history", CommandHistory, true},
		{"reboot", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseCommandID(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseCommandID(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
