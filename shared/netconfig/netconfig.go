// Package netconfig defines lightweight types and tuning values shared by the
// sync engine and its hosts. It must have zero dependencies on ebiten or any
// graphics library so the headless bot binary stays headless.
package netconfig

import (
	"strings"
	"time"
)

// EntityKind identifies what an entity is on the wire ("player" or "npc").
type EntityKind int

const (
	KindUnknown EntityKind = iota
	KindPlayer
	KindNPC
)

var kindNames = map[EntityKind]string{
	KindPlayer: "player",
	KindNPC:    "npc",
}

func (k EntityKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseEntityKind maps a wire kind to an EntityKind. Unrecognised values map
// to KindUnknown with ok=false.
func ParseEntityKind(s string) (EntityKind, bool) {
	switch strings.ToLower(s) {
	case "player":
		return KindPlayer, true
	case "npc":
		return KindNPC, true
	}
	return KindUnknown, false
}

// Movement and map constants. Must match the server's map configuration.
const (
	BaseSpeed      = 200.0 // world units per second
	MapWidth       = 2000.0
	MapHeight      = 2000.0
	EntitySize     = 40.0
	BoundaryMargin = EntitySize / 2

	// ReconcileThreshold is the largest divergence between the predicted and
	// the authoritative local position that is absorbed without a snap.
	ReconcileThreshold = 50.0
)

// SendInterval is the minimum spacing between two outbound move reports.
const SendInterval = 50 * time.Millisecond

// ActionID represents a logical input action collapsed by the host.
type ActionID int

const (
	ActionNone ActionID = iota
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
)
