// Package protocol converts sync-engine commands to and from the JSON wire
// format spoken by the gate server: one JSON object per message, tagged by
// its "cmd" field.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chenmins/mmo-demo/shared/messages"
	"github.com/chenmins/mmo-demo/shared/netconfig"
	"github.com/leap-fish/necs/esync"
)

type loginWire struct {
	Cmd    string `json:"cmd"`
	UserID int    `json:"userid"`
}

type moveWire struct {
	Cmd string `json:"cmd"`
	X   int    `json:"x"`
	Y   int    `json:"y"`
}

type envelope struct {
	Cmd *string `json:"cmd"`
}

type entityWire struct {
	ID   *esync.NetworkId `json:"id"`
	Type *string          `json:"type"`
	Kind *string          `json:"kind"`
	X    *float64         `json:"x"`
	Y    *float64         `json:"y"`
}

type selfInfoWire struct {
	Data *entityWire `json:"data"`
}

type aoiAddWire struct {
	Entity *entityWire `json:"entity"`
}

type aoiRemoveWire struct {
	ID *esync.NetworkId `json:"id"`
}

type entityMoveWire struct {
	ID *esync.NetworkId `json:"id"`
	X  *float64         `json:"x"`
	Y  *float64         `json:"y"`
}

// Encode renders an outbound command.
func Encode(cmd messages.Outbound) ([]byte, error) {
	switch c := cmd.(type) {
	case messages.Login:
		return json.Marshal(loginWire{Cmd: messages.CmdLogin, UserID: c.UserID})
	case *messages.Login:
		if c == nil {
			return nil, errors.New("protocol: nil login")
		}
		return Encode(*c)
	case messages.Move:
		return json.Marshal(moveWire{Cmd: messages.CmdMove, X: c.X, Y: c.Y})
	case *messages.Move:
		if c == nil {
			return nil, errors.New("protocol: nil move")
		}
		return Encode(*c)
	default:
		return nil, fmt.Errorf("protocol: cannot encode %T", cmd)
	}
}

// Decode parses one inbound payload. Unknown command tags decode to
// messages.Unrecognized without error so newer servers stay compatible.
// Failures are *DecodeError values wrapping ErrMalformed or
// ErrProtocolViolation.
func Decode(payload []byte) (messages.Inbound, error) {
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, malformed(err)
	}
	if env.Cmd == nil {
		return nil, malformed(errors.New("missing cmd"))
	}

	switch cmd := *env.Cmd; cmd {
	case messages.CmdSelfInfo:
		var w selfInfoWire
		if err := json.Unmarshal(payload, &w); err != nil {
			return nil, violation(cmd, "%v", err)
		}
		state, err := w.Data.state(cmd, "data")
		if err != nil {
			return nil, err
		}
		return messages.SelfInfo{Entity: state}, nil

	case messages.CmdAOIAdd:
		var w aoiAddWire
		if err := json.Unmarshal(payload, &w); err != nil {
			return nil, violation(cmd, "%v", err)
		}
		state, err := w.Entity.state(cmd, "entity")
		if err != nil {
			return nil, err
		}
		return messages.AOIAdd{Entity: state}, nil

	case messages.CmdAOIRemove:
		var w aoiRemoveWire
		if err := json.Unmarshal(payload, &w); err != nil {
			return nil, violation(cmd, "%v", err)
		}
		if w.ID == nil {
			return nil, violation(cmd, "missing id")
		}
		return messages.AOIRemove{ID: *w.ID}, nil

	case messages.CmdEntityMove:
		var w entityMoveWire
		if err := json.Unmarshal(payload, &w); err != nil {
			return nil, violation(cmd, "%v", err)
		}
		switch {
		case w.ID == nil:
			return nil, violation(cmd, "missing id")
		case w.X == nil:
			return nil, violation(cmd, "missing x")
		case w.Y == nil:
			return nil, violation(cmd, "missing y")
		}
		return messages.EntityMove{ID: *w.ID, X: *w.X, Y: *w.Y}, nil

	default:
		return messages.Unrecognized{Tag: cmd}, nil
	}
}

// state validates an embedded entity object. The kind travels as "type";
// "kind" is accepted when "type" is absent.
func (w *entityWire) state(cmd, field string) (messages.EntityState, error) {
	if w == nil {
		return messages.EntityState{}, violation(cmd, "missing %s", field)
	}
	switch {
	case w.ID == nil:
		return messages.EntityState{}, violation(cmd, "missing %s.id", field)
	case w.X == nil:
		return messages.EntityState{}, violation(cmd, "missing %s.x", field)
	case w.Y == nil:
		return messages.EntityState{}, violation(cmd, "missing %s.y", field)
	}

	raw := w.Type
	if raw == nil {
		raw = w.Kind
	}
	if raw == nil {
		return messages.EntityState{}, violation(cmd, "missing %s.type", field)
	}
	kind, _ := netconfig.ParseEntityKind(*raw)

	return messages.EntityState{ID: *w.ID, Kind: kind, X: *w.X, Y: *w.Y}, nil
}
