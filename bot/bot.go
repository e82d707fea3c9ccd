// Package bot drives a network session without a window: it wanders the
// local entity around and publishes a status snapshot for the debug API.
package bot

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/chenmins/mmo-demo/config"
	"github.com/chenmins/mmo-demo/network"
	"go.uber.org/zap"
)

// Options tunes a Runner. Zero TickRate and WanderInterval, or an IdleChance
// outside [0, 1], take config.Bot.
type Options struct {
	TickRate       int
	WanderInterval time.Duration
	IdleChance     float64
	Seed           int64
}

func (o Options) withDefaults() Options {
	if o.TickRate <= 0 {
		o.TickRate = config.Bot.TickRate
	}
	if o.WanderInterval <= 0 {
		o.WanderInterval = config.Bot.WanderInterval
	}
	if o.IdleChance < 0 || o.IdleChance > 1 {
		o.IdleChance = config.Bot.IdleChance
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	return o
}

// EntityView is the JSON form of one known entity.
type EntityView struct {
	ID      uint    `json:"id"`
	Kind    string  `json:"kind"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	IsLocal bool    `json:"is_local"`
}

// Status is an immutable snapshot of the bot's session, safe to read from
// any goroutine.
type Status struct {
	SessionID string         `json:"session_id"`
	State     string         `json:"state"`
	Terminal  bool           `json:"terminal"`
	LastError string         `json:"last_error,omitempty"`
	LocalID   *uint          `json:"local_id,omitempty"`
	Input     [2]int         `json:"input"`
	Entities  []EntityView   `json:"entities"`
	Metrics   map[string]any `json:"metrics"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Runner owns the host loop of one session. Only Run (or Step) touches the
// session; other goroutines read the published Status.
type Runner struct {
	session *network.Session
	opts    Options
	rng     *rand.Rand
	logger  *zap.SugaredLogger

	input    network.InputVector
	nextRoll time.Time

	status atomic.Pointer[Status]
}

// NewRunner wraps an already connecting session.
func NewRunner(session *network.Session, opts Options, logger *zap.SugaredLogger) *Runner {
	opts = opts.withDefaults()
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	r := &Runner{
		session: session,
		opts:    opts,
		rng:     rand.New(rand.NewSource(opts.Seed)),
		logger:  logger.Named("bot").With("session", session.ID()),
	}
	r.publish(time.Now())
	return r
}

// Run ticks the session at the configured rate until the session ends or ctx
// is cancelled. It returns the session's terminal error, or ctx.Err().
func (r *Runner) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(r.opts.TickRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			_ = r.session.Close()
			r.publish(time.Now())
			return ctx.Err()
		case now := <-ticker.C:
			r.Step(now, now.Sub(last))
			last = now
			if r.session.State().Terminal() {
				r.logger.Infow("session ended", "state", r.session.State(), "reason", r.session.LastError())
				return r.session.LastError()
			}
		}
	}
}

// Step runs one host-loop iteration: drain transport events, maybe pick a
// new direction, predict and publish.
func (r *Runner) Step(now time.Time, elapsed time.Duration) {
	r.session.Poll()
	if r.session.State() == network.StateConnected {
		if _, ok := r.session.LocalID(); ok {
			r.wander(now)
			r.session.Tick(elapsed, r.input)
		}
	}
	r.publish(now)
}

// Status returns the latest published snapshot.
func (r *Runner) Status() Status {
	return *r.status.Load()
}

func (r *Runner) wander(now time.Time) {
	if now.Before(r.nextRoll) {
		return
	}
	r.nextRoll = now.Add(r.opts.WanderInterval)

	if r.rng.Float64() < r.opts.IdleChance {
		r.input = network.InputVector{}
	} else {
		// any of the eight directions
		for {
			r.input = network.InputVector{X: r.rng.Intn(3) - 1, Y: r.rng.Intn(3) - 1}
			if !r.input.IsZero() {
				break
			}
		}
	}
	r.logger.Debugw("new direction", "x", r.input.X, "y", r.input.Y)
}

func (r *Runner) publish(now time.Time) {
	st := &Status{
		SessionID: r.session.ID(),
		State:     r.session.State().String(),
		Terminal:  r.session.State().Terminal(),
		Input:     [2]int{r.input.X, r.input.Y},
		Metrics:   r.session.Metrics().Snapshot(),
		UpdatedAt: now,
	}
	if err := r.session.LastError(); err != nil {
		st.LastError = err.Error()
	}
	if id, ok := r.session.LocalID(); ok {
		local := uint(id)
		st.LocalID = &local
	}
	snaps := r.session.Snapshots()
	st.Entities = make([]EntityView, 0, len(snaps))
	for _, s := range snaps {
		st.Entities = append(st.Entities, EntityView{
			ID:      uint(s.ID),
			Kind:    s.Kind.String(),
			X:       s.X,
			Y:       s.Y,
			IsLocal: s.IsLocal,
		})
	}
	r.status.Store(st)
}
