package network

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap/zaptest"
)

// fakeGate answers a login with self_info, echoes one move as entity_move and
// then closes the connection normally.
func fakeGate(t *testing.T, received chan<- string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_, login, err := conn.ReadMessage()
		if err != nil {
			return
		}
		received <- string(login)
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"cmd":"self_info","data":{"id":7,"type":"player","x":500,"y":500}}`))

		_, move, err := conn.ReadMessage()
		if err != nil {
			return
		}
		received <- string(move)
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"cmd":"entity_move","id":7,"x":520,"y":500}`))

		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))
		_, _, _ = conn.ReadMessage()
	})
	return httptest.NewServer(mux)
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
}

func waitForEvent(t *testing.T, tr *WsTransport, kind EventKind) Event {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-tr.Events():
			if ev.Kind == kind {
				return ev
			}
			t.Fatalf("expected %s event, got %s (%v)", kind, ev.Kind, ev.Err)
		case <-timeout:
			t.Fatalf("timed out waiting for %s", kind)
		}
	}
}

func TestWsTransportRoundTrip(t *testing.T) {
	received := make(chan string, 4)
	server := fakeGate(t, received)
	defer server.Close()

	tr := NewWsTransport(WsOptions{})
	defer tr.Close()

	if err := tr.Send([]byte("early")); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("expected ErrNotOpen before connecting, got %v", err)
	}
	if err := tr.Connect(wsURL(server)); err != nil {
		t.Fatalf("connect: %v", err)
	}
	waitForEvent(t, tr, EventOpen)

	if err := tr.Send([]byte(`{"cmd":"login","userid":1}`)); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := <-received; got != `{"cmd":"login","userid":1}` {
		t.Fatalf("server got %q", got)
	}
	ev := waitForEvent(t, tr, EventMessage)
	if !strings.Contains(string(ev.Payload), `"self_info"`) {
		t.Fatalf("unexpected payload %s", ev.Payload)
	}

	if err := tr.Send([]byte(`{"cmd":"move","x":520,"y":500}`)); err != nil {
		t.Fatalf("send: %v", err)
	}
	<-received
	waitForEvent(t, tr, EventMessage)
	waitForEvent(t, tr, EventClose)

	if err := tr.Send([]byte("late")); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("expected ErrNotOpen after close, got %v", err)
	}
}

func TestWsTransportDialFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := wsURL(server)
	server.Close()

	tr := NewWsTransport(WsOptions{DialTimeout: time.Second})
	defer tr.Close()
	if err := tr.Connect(addr); err != nil {
		t.Fatalf("connect must not fail synchronously: %v", err)
	}
	ev := waitForEvent(t, tr, EventError)
	if ev.Err == nil {
		t.Fatalf("expected a dial error")
	}
}

func TestWsTransportConnectRules(t *testing.T) {
	tr := NewWsTransport(WsOptions{})
	if err := tr.Connect("http://localhost:1"); err == nil {
		t.Fatalf("expected unsupported scheme error")
	}
	if err := tr.Connect(""); err == nil {
		t.Fatalf("expected empty address error")
	}
	_ = tr.Close()
	_ = tr.Close()
	if err := tr.Connect("localhost:1"); !errors.Is(err, ErrTransportClosed) {
		t.Fatalf("expected ErrTransportClosed, got %v", err)
	}
}

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"localhost:8001", "ws://localhost:8001"},
		{" ws://gate:8001/ws ", "ws://gate:8001/ws"},
		{"wss://gate.example.com", "wss://gate.example.com"},
	}
	for _, tt := range tests {
		got, err := normalizeAddress(tt.in)
		if err != nil {
			t.Fatalf("%q: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("%q: expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestSessionOverWebsocket(t *testing.T) {
	received := make(chan string, 4)
	server := fakeGate(t, received)
	defer server.Close()

	tr := NewWsTransport(WsOptions{})
	s := NewSession(tr, Config{UserID: 99}, zaptest.NewLogger(t).Sugar())
	if err := s.Connect(wsURL(server)); err != nil {
		t.Fatalf("connect: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		s.Poll()
		if _, ok := s.LocalID(); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for self_info, state %s", s.State())
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := <-received; got != `{"cmd":"login","userid":99}` {
		t.Fatalf("server got %q", got)
	}

	s.Tick(100*time.Millisecond, InputVector{X: 1})
	if got := <-received; got != `{"cmd":"move","x":520,"y":500}` {
		t.Fatalf("server got %q", got)
	}

	for !s.State().Terminal() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for close, state %s", s.State())
		}
		s.Poll()
		time.Sleep(5 * time.Millisecond)
	}
	if s.State() != StateClosed {
		t.Fatalf("expected closed, got %s", s.State())
	}
	if len(s.Snapshots()) != 0 {
		t.Fatalf("expected store to be cleared on close")
	}
	if tr.ctx.Err() == nil {
		t.Fatalf("expected transport context to be cancelled after the gate closed")
	}
}
