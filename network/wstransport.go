package network

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
)

// WsOptions tunes a WsTransport. Zero values select the defaults.
type WsOptions struct {
	DialTimeout time.Duration
	ReadLimit   int64
	QueueSize   int
	EventBuffer int
}

func (o WsOptions) withDefaults() WsOptions {
	if o.DialTimeout <= 0 {
		o.DialTimeout = 10 * time.Second
	}
	if o.ReadLimit <= 0 {
		o.ReadLimit = 1 << 20 // 1MB
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 64
	}
	if o.EventBuffer <= 0 {
		o.EventBuffer = 256
	}
	return o
}

// WsTransport implements Transport over a websocket text channel.
// Dialing, reading and writing run on background goroutines; results reach
// the host only through Events.
type WsTransport struct {
	mu      sync.Mutex
	conn    *websocket.Conn
	open    bool
	started bool
	closed  bool

	opts   WsOptions
	events chan Event
	outbox chan []byte

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWsTransport returns an unconnected websocket transport.
func NewWsTransport(opts WsOptions) *WsTransport {
	opts = opts.withDefaults()
	ctx, cancel := context.WithCancel(context.Background())
	return &WsTransport{
		opts:   opts,
		events: make(chan Event, opts.EventBuffer),
		outbox: make(chan []byte, opts.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Connect dials address in a background goroutine. A bare host:port gets a
// ws:// scheme.
func (t *WsTransport) Connect(address string) error {
	target, err := normalizeAddress(address)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return ErrTransportClosed
	}
	if t.started {
		return errors.New("transport: connect already requested")
	}
	t.started = true

	go t.run(target)
	return nil
}

// Send enqueues payload for the write goroutine. It never blocks.
func (t *WsTransport) Send(payload []byte) error {
	t.mu.Lock()
	open := t.open
	t.mu.Unlock()
	if !open {
		return ErrNotOpen
	}

	select {
	case t.outbox <- payload:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Events returns the event channel.
func (t *WsTransport) Events() <-chan Event {
	return t.events
}

// Close tears the connection down immediately and stops the pumps.
func (t *WsTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.open = false
	conn := t.conn
	t.conn = nil
	t.mu.Unlock()

	t.cancel()
	if conn != nil {
		_ = conn.CloseNow()
	}
	return nil
}

func (t *WsTransport) run(target string) {
	dialCtx, cancel := context.WithTimeout(t.ctx, t.opts.DialTimeout)
	conn, _, err := websocket.Dial(dialCtx, target, nil)
	cancel()
	if err != nil {
		if t.ctx.Err() != nil {
			return
		}
		t.emit(Event{Kind: EventError, Err: fmt.Errorf("dial %s: %w", target, err)})
		return
	}
	conn.SetReadLimit(t.opts.ReadLimit)

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		_ = conn.CloseNow()
		return
	}
	t.conn = conn
	t.open = true
	t.mu.Unlock()

	t.emit(Event{Kind: EventOpen})
	go t.writePump(conn)
	t.readPump(conn)
}

// readPump forwards every inbound message as an event until the connection ends.
func (t *WsTransport) readPump(conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(t.ctx)
		if err != nil {
			t.markDown()
			if t.ctx.Err() != nil {
				return
			}
			if websocket.CloseStatus(err) != -1 {
				t.emit(Event{Kind: EventClose, Err: err})
				return
			}
			t.emit(Event{Kind: EventError, Err: fmt.Errorf("read: %w", err)})
			return
		}
		t.emit(Event{Kind: EventMessage, Payload: data})
	}
}

// writePump drains the outbox onto the socket.
func (t *WsTransport) writePump(conn *websocket.Conn) {
	for {
		select {
		case <-t.ctx.Done():
			return
		case msg := <-t.outbox:
			if err := conn.Write(t.ctx, websocket.MessageText, msg); err != nil {
				// The read pump observes the broken connection and reports it.
				t.markDown()
				return
			}
		}
	}
}

func (t *WsTransport) markDown() {
	t.mu.Lock()
	t.open = false
	t.mu.Unlock()
}

// emit blocks until the host has room for the event, preserving order.
func (t *WsTransport) emit(ev Event) {
	if t.ctx.Err() != nil {
		return
	}
	select {
	case t.events <- ev:
	case <-t.ctx.Done():
	}
}

func normalizeAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", errors.New("transport: empty address")
	}
	if !strings.Contains(address, "://") {
		address = "ws://" + address
	}
	u, err := url.Parse(address)
	if err != nil {
		return "", fmt.Errorf("transport: parse address: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
	default:
		return "", fmt.Errorf("transport: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("transport: missing host in %q", address)
	}
	return u.String(), nil
}
