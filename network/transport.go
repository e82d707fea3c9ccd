package network

import "errors"

var (
	// ErrNotOpen is returned by Transport.Send when the channel is not open.
	// Payloads are never queued for a later open.
	ErrNotOpen = errors.New("transport: not open")
	// ErrSendQueueFull is returned when the outbound queue cannot take more payloads.
	ErrSendQueueFull = errors.New("transport: send queue full")
	// ErrTransportClosed is returned by Connect after Close.
	ErrTransportClosed = errors.New("transport: closed")
)

// EventKind identifies a transport lifecycle event.
type EventKind int

const (
	EventOpen EventKind = iota
	EventMessage
	EventError
	EventClose
)

func (k EventKind) String() string {
	switch k {
	case EventOpen:
		return "open"
	case EventMessage:
		return "message"
	case EventError:
		return "error"
	case EventClose:
		return "close"
	}
	return "unknown"
}

// Event is delivered by a Transport in the order it happened.
type Event struct {
	Kind    EventKind
	Payload []byte // EventMessage only
	Err     error  // reason for EventError and EventClose, may be nil on close
}

// Transport is an event-driven duplex byte channel. Implementations may use
// background goroutines, but they only communicate through Events and never
// call back into the session.
type Transport interface {
	// Connect starts opening the channel and returns without waiting. The
	// outcome is reported as EventOpen or EventError.
	Connect(address string) error
	// Send hands one payload to the channel without blocking.
	Send(payload []byte) error
	// Events delivers lifecycle and message events.
	Events() <-chan Event
	// Close releases the channel. It is safe to call more than once.
	Close() error
}
