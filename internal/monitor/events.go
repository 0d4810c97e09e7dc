package monitor

// eventBuffer sizes the dispatch channel. Event volume is tiny (at
// most one refresh per poll interval plus occasional commands), so the
// buffer exists only to decouple the poller from a momentarily busy
// consumer, never as back-pressure.
const eventBuffer = 128

// Event is a message delivered to the consumer loop. Events are
// processed strictly in arrival order.
type Event interface {
	event()
}

// RefreshEvent asks the consumer to re-query the listed device ids.
type RefreshEvent struct {
	IDs []uint16
}

func (RefreshEvent) event() {}

// CommandID identifies a user command. Commands are matched by value,
// never by position in any menu or list.
type CommandID int

const (
	// CommandRefresh forces an immediate re-query of all devices.
	CommandRefresh CommandID = iota + 1

	// CommandShutdown asks the monitor to stop cleanly.
	CommandShutdown

	// CommandHistory asks for a replay of recent journalled notices.
	CommandHistory
)

// String returns the command name used on the wire and in logs.
func (c CommandID) String() string {
	switch c {
	case CommandRefresh:
		return "refresh"
	case CommandShutdown:
		return "shutdown"
	case CommandHistory:
		return "history"
	default:
		return "unknown"
	}
}

// ParseCommandID maps a wire command name to its identifier.
func ParseCommandID(s string) (CommandID, bool) {
	switch s {
	case "refresh":
		return CommandRefresh, true
	case "shutdown":
		return CommandShutdown, true
	case "history":
		return CommandHistory, true
	default:
		return 0, false
	}
}

// CommandEvent carries a user command onto the consumer loop, where it
// shares ordering with refresh events.
type CommandEvent struct {
	Command CommandID
}

func (CommandEvent) event() {}

// Dispatcher is the ordered channel between the polling scheduler and
// the consumer loop. The scheduler and command sources send; only the
// consumer receives.
type Dispatcher struct {
	ch chan Event
}

// NewDispatcher creates a dispatcher with a generous buffer.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		ch: make(chan Event, eventBuffer),
	}
}

// Dispatch enqueues an event for the consumer.
func (d *Dispatcher) Dispatch(ev Event) {
	d.ch <- ev
}

// Events returns the receive side of the dispatch channel.
func (d *Dispatcher) Events() <-chan Event {
	return d.ch
}
