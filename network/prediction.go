package network

import (
	"math"
	"time"

	"github.com/chenmins/mmo-demo/shared/messages"
	"github.com/chenmins/mmo-demo/shared/netconfig"
)

// Bounds is the area the local entity's center may occupy.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// MapBounds returns the bounds of a width x height map shrunk by margin on
// every side, so the entity's full extent stays inside the map.
func MapBounds(width, height, margin float64) Bounds {
	return Bounds{MinX: margin, MinY: margin, MaxX: width - margin, MaxY: height - margin}
}

// DefaultBounds matches the server's 2000x2000 map with a half-entity margin.
func DefaultBounds() Bounds {
	return MapBounds(netconfig.MapWidth, netconfig.MapHeight, netconfig.BoundaryMargin)
}

// Clamp keeps (x, y) inside the bounds. A degenerate axis collapses to its midpoint.
func (b Bounds) Clamp(x, y float64) (float64, float64) {
	return clampAxis(x, b.MinX, b.MaxX), clampAxis(y, b.MinY, b.MaxY)
}

func clampAxis(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	return math.Max(lo, math.Min(hi, v))
}

// SendThrottle gates outbound move reports to one per interval.
type SendThrottle struct {
	interval   time.Duration
	lastSentAt time.Time
	sent       bool
}

// NewSendThrottle returns a throttle that never sent anything.
func NewSendThrottle(interval time.Duration) *SendThrottle {
	return &SendThrottle{interval: interval}
}

// Allow reports whether a send at now is permitted and, if so, records it.
// A send is permitted when strictly more than the interval has passed since
// the previous one.
func (t *SendThrottle) Allow(now time.Time) bool {
	if t.sent && now.Sub(t.lastSentAt) <= t.interval {
		return false
	}
	t.lastSentAt = now
	t.sent = true
	return true
}

// LastSentAt returns the time of the last permitted send.
func (t *SendThrottle) LastSentAt() (time.Time, bool) {
	return t.lastSentAt, t.sent
}

// Reset forgets the last send.
func (t *SendThrottle) Reset() {
	t.lastSentAt = time.Time{}
	t.sent = false
}

// PredictionController applies local input to the local entity before any
// server round-trip and decides when to report the result.
type PredictionController struct {
	store    *EntityStore
	throttle *SendThrottle
	speed    float64
	bounds   Bounds
}

// NewPredictionController builds a controller writing into store.
func NewPredictionController(store *EntityStore, throttle *SendThrottle, speed float64, bounds Bounds) *PredictionController {
	return &PredictionController{
		store:    store,
		throttle: throttle,
		speed:    speed,
		bounds:   bounds,
	}
}

// StepResult describes what one prediction step did.
type StepResult struct {
	// Moved is true when the local entity's predicted position was updated.
	Moved bool
	// Send is true when Move should be reported to the server.
	Send bool
	Move messages.Move
}

// Step advances the local entity by one frame of input. The predicted
// position is written to the store synchronously. Ticks suppressed by the
// throttle are coalesced, not queued: the next permitted report carries the
// latest position.
func (p *PredictionController) Step(elapsed time.Duration, input InputVector, now time.Time) StepResult {
	local, ok := p.store.Local()
	if !ok {
		return StepResult{}
	}

	input = input.normalized()
	if input.IsZero() || elapsed <= 0 {
		return StepResult{}
	}

	speed := p.speed * float64(elapsed) / float64(time.Second)
	newX, newY := p.bounds.Clamp(
		local.X+float64(input.X)*speed,
		local.Y+float64(input.Y)*speed,
	)
	p.store.SetPosition(local.ID, newX, newY)

	res := StepResult{Moved: true}
	if p.throttle.Allow(now) {
		res.Send = true
		res.Move = messages.Move{X: int(math.Floor(newX)), Y: int(math.Floor(newY))}
	}
	return res
}
