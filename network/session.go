package network

import (
	"errors"
	"fmt"
	"time"

	"github.com/chenmins/mmo-demo/shared/messages"
	"github.com/chenmins/mmo-demo/shared/netconfig"
	"github.com/chenmins/mmo-demo/shared/protocol"
	"github.com/google/uuid"
	"github.com/yohamta/donburi"
	dmath "github.com/yohamta/donburi/features/math"
	"go.uber.org/zap"
)

// ErrAlreadyStarted is returned by Connect on a session that left Disconnected.
var ErrAlreadyStarted = errors.New("session: connect already requested")

// ConnectionState is the lifecycle state of a Session.
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateClosed
	StateErrored
)

func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	case StateErrored:
		return "errored"
	}
	return "unknown"
}

// Terminal reports whether the state can never be left.
func (s ConnectionState) Terminal() bool {
	return s == StateClosed || s == StateErrored
}

// Clock supplies the time used for send throttling.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Config holds per-session tuning. Zero fields take the netconfig defaults.
type Config struct {
	UserID             int
	Speed              float64
	Bounds             Bounds
	SendInterval       time.Duration
	ReconcileThreshold float64
	Clock              Clock
	// PollBudget caps the events handled by one Poll call.
	PollBudget int
}

// DefaultConfig returns the configuration matching the server's defaults.
func DefaultConfig(userID int) Config {
	return Config{UserID: userID}.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.Speed <= 0 {
		c.Speed = netconfig.BaseSpeed
	}
	if c.Bounds == (Bounds{}) {
		c.Bounds = DefaultBounds()
	}
	if c.SendInterval <= 0 {
		c.SendInterval = netconfig.SendInterval
	}
	if c.ReconcileThreshold <= 0 {
		c.ReconcileThreshold = netconfig.ReconcileThreshold
	}
	if c.Clock == nil {
		c.Clock = ClockFunc(time.Now)
	}
	if c.PollBudget <= 0 {
		c.PollBudget = 256
	}
	return c
}

// Session owns one connection attempt: its transport, entity store, throttle
// and prediction state. A Session is not reusable; construct a new one to
// reconnect. All methods must be called from the host loop.
type Session struct {
	id         string
	cfg        Config
	transport  Transport
	store      *EntityStore
	throttle   *SendThrottle
	prediction *PredictionController
	reconciler Reconciler
	metrics    *SessionMetrics
	logger     *zap.SugaredLogger

	state   ConnectionState
	lastErr error
}

// NewSession builds a disconnected session on top of t.
func NewSession(t Transport, cfg Config, logger *zap.SugaredLogger) *Session {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	id := uuid.NewString()

	store := NewEntityStore()
	throttle := NewSendThrottle(cfg.SendInterval)
	return &Session{
		id:         id,
		cfg:        cfg,
		transport:  t,
		store:      store,
		throttle:   throttle,
		prediction: NewPredictionController(store, throttle, cfg.Speed, cfg.Bounds),
		reconciler: Reconciler{Threshold: cfg.ReconcileThreshold},
		metrics:    &SessionMetrics{},
		logger:     logger.Named("session").With("session", id),
		state:      StateDisconnected,
	}
}

func (s *Session) ID() string                { return s.id }
func (s *Session) State() ConnectionState    { return s.state }
func (s *Session) Metrics() *SessionMetrics  { return s.metrics }
func (s *Session) LocalID() (EntityID, bool) { return s.store.LocalID() }

// LastError returns the reason of the terminal transition, if any.
func (s *Session) LastError() error { return s.lastErr }

// Connect moves the session to Connecting and starts opening the transport.
func (s *Session) Connect(address string) error {
	if s.state != StateDisconnected {
		return fmt.Errorf("%w (state %s)", ErrAlreadyStarted, s.state)
	}
	s.setState(StateConnecting)
	if err := s.transport.Connect(address); err != nil {
		s.fail(StateErrored, err)
		return err
	}
	s.logger.Infow("connecting", "address", address)
	return nil
}

// Poll handles every transport event that is already available without
// blocking, then delivers queued store changes to subscribers.
func (s *Session) Poll() {
	events := s.transport.Events()
	for i := 0; i < s.cfg.PollBudget && !s.state.Terminal(); i++ {
		select {
		case ev, ok := <-events:
			if !ok {
				s.fail(StateClosed, ErrTransportClosed)
				s.store.Flush()
				return
			}
			s.HandleEvent(ev)
		default:
			s.store.Flush()
			return
		}
	}
	s.store.Flush()
}

// HandleEvent applies a single transport event to the state machine.
func (s *Session) HandleEvent(ev Event) {
	switch ev.Kind {
	case EventOpen:
		if s.state != StateConnecting {
			return
		}
		s.setState(StateConnected)
		s.send(messages.Login{UserID: s.cfg.UserID})
	case EventMessage:
		if s.state != StateConnected {
			return
		}
		s.handleMessage(ev.Payload)
	case EventError:
		if s.state.Terminal() {
			return
		}
		s.fail(StateErrored, ev.Err)
	case EventClose:
		if s.state.Terminal() {
			return
		}
		s.fail(StateClosed, ev.Err)
	}
}

func (s *Session) handleMessage(payload []byte) {
	s.metrics.IncReceived()
	s.logger.Debugw("message received", "bytes", len(payload))

	msg, err := protocol.Decode(payload)
	if err != nil {
		if errors.Is(err, protocol.ErrProtocolViolation) {
			s.metrics.IncProtocolViolations()
		} else {
			s.metrics.IncDecodeErrors()
		}
		s.logger.Warnw("dropping inbound message", "error", err)
		return
	}
	s.dispatch(msg)
}

func (s *Session) dispatch(msg messages.Inbound) {
	switch m := msg.(type) {
	case messages.SelfInfo:
		if !s.store.BindLocal(m.Entity.ID) {
			local, _ := s.store.LocalID()
			s.logger.Warnw("ignoring repeated self_info", "id", m.Entity.ID, "local", local)
			return
		}
		s.store.UpsertIfAbsent(entityFromState(m.Entity))
		s.logger.Infow("local entity bound", "id", m.Entity.ID, "x", m.Entity.X, "y", m.Entity.Y)
	case messages.AOIAdd:
		s.store.UpsertIfAbsent(entityFromState(m.Entity))
	case messages.AOIRemove:
		if !s.store.Remove(m.ID) {
			s.metrics.IncStaleReferences()
		}
	case messages.EntityMove:
		s.applyMove(m)
	case messages.Unrecognized:
		s.metrics.IncUnrecognized()
		s.logger.Debugw("ignoring unrecognized command", "cmd", m.Tag)
	}
}

func (s *Session) applyMove(m messages.EntityMove) {
	current, ok := s.store.Get(m.ID)
	if !ok {
		s.metrics.IncStaleReferences()
		return
	}
	if local, bound := s.store.LocalID(); !bound || local != m.ID {
		s.store.SetPosition(m.ID, m.X, m.Y)
		return
	}

	pos, corrected := s.reconciler.Resolve(
		dmath.Vec2{X: current.X, Y: current.Y},
		dmath.Vec2{X: m.X, Y: m.Y},
	)
	if !corrected {
		s.metrics.IncCorrectionsDiscarded()
		return
	}
	s.metrics.IncCorrectionsApplied()
	s.logger.Debugw("snapping local entity", "id", m.ID, "from_x", current.X, "from_y", current.Y, "to_x", pos.X, "to_y", pos.Y)
	s.store.SetPosition(m.ID, pos.X, pos.Y)
}

// Tick runs local prediction for one frame and reports the result when the
// throttle allows. It is a no-op unless connected.
func (s *Session) Tick(elapsed time.Duration, input InputVector) {
	if s.state != StateConnected {
		return
	}
	res := s.prediction.Step(elapsed, input, s.cfg.Clock.Now())
	if res.Moved {
		if res.Send {
			s.send(res.Move)
		} else {
			s.metrics.IncMovesThrottled()
		}
	}
	s.store.Flush()
}

// send encodes and hands cmd to the transport. It never fails the session:
// sending while not connected is a silent no-op.
func (s *Session) send(cmd messages.Outbound) {
	if s.state != StateConnected {
		return
	}
	payload, err := protocol.Encode(cmd)
	if err != nil {
		s.metrics.IncSendFailures()
		s.logger.Errorw("encode failed", "cmd", cmd.Cmd(), "error", err)
		return
	}
	if err := s.transport.Send(payload); err != nil {
		s.metrics.IncSendFailures()
		s.logger.Warnw("send failed", "cmd", cmd.Cmd(), "error", err)
		return
	}
	if _, ok := cmd.(messages.Move); ok {
		s.metrics.IncMovesSent()
	}
}

// Close ends the session from the host side.
func (s *Session) Close() error {
	if s.state.Terminal() {
		return nil
	}
	s.teardown(StateClosed, nil)
	return s.transport.Close()
}

// Snapshots returns the renderer projection of every known entity.
func (s *Session) Snapshots() []EntitySnapshot { return s.store.Snapshots() }

// Snapshot returns the renderer projection of one entity.
func (s *Session) Snapshot(id EntityID) (EntitySnapshot, bool) { return s.store.Snapshot(id) }

// LocalSnapshot returns the projection of the locally controlled entity.
func (s *Session) LocalSnapshot() (EntitySnapshot, bool) {
	id, ok := s.store.LocalID()
	if !ok {
		return EntitySnapshot{}, false
	}
	return s.store.Snapshot(id)
}

// Subscribe registers fn for store changes. Changes are delivered during
// Poll and Tick, on the host loop.
func (s *Session) Subscribe(fn func(EntityChange)) {
	EntityChanged.Subscribe(s.store.World(), func(_ donburi.World, c EntityChange) {
		fn(c)
	})
}

func (s *Session) fail(state ConnectionState, err error) {
	s.teardown(state, err)
	_ = s.transport.Close()
	if state == StateErrored {
		s.logger.Errorw("session errored", "error", err)
		return
	}
	s.logger.Infow("session closed", "reason", err)
}

func (s *Session) teardown(state ConnectionState, err error) {
	s.setState(state)
	s.lastErr = err
	s.store.Clear()
	s.store.Flush()
	s.throttle.Reset()
}

func (s *Session) setState(state ConnectionState) {
	if s.state == state {
		return
	}
	s.logger.Debugw("state change", "from", s.state, "to", state)
	s.state = state
}

func entityFromState(st messages.EntityState) Entity {
	return Entity{ID: st.ID, Kind: st.Kind, X: st.X, Y: st.Y}
}
