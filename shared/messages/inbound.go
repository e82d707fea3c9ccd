package messages

import (
	"github.com/chenmins/mmo-demo/shared/netconfig"
	"github.com/leap-fish/necs/esync"
)

// Wire command tags.
const (
	CmdLogin      = "login"
	CmdMove       = "move"
	CmdSelfInfo   = "self_info"
	CmdAOIAdd     = "aoi_add"
	CmdAOIRemove  = "aoi_remove"
	CmdEntityMove = "entity_move"
)

// Inbound is a decoded server message. The set of implementations is closed:
// SelfInfo, AOIAdd, AOIRemove, EntityMove and Unrecognized.
type Inbound interface {
	inbound()
	Cmd() string
}

// EntityState is the full description of an entity as sent by the server.
type EntityState struct {
	ID   esync.NetworkId
	Kind netconfig.EntityKind
	X, Y float64
}

// SelfInfo tells the client which entity it controls.
type SelfInfo struct {
	Entity EntityState
}

// AOIAdd is sent when an entity enters the client's area of interest.
type AOIAdd struct {
	Entity EntityState
}

// AOIRemove is sent when an entity leaves the client's area of interest.
type AOIRemove struct {
	ID esync.NetworkId
}

// EntityMove carries an authoritative position.
type EntityMove struct {
	ID   esync.NetworkId
	X, Y float64
}

// Unrecognized is a well-formed message whose tag this client does not know.
type Unrecognized struct {
	Tag string
}

func (SelfInfo) inbound()     {}
func (AOIAdd) inbound()       {}
func (AOIRemove) inbound()    {}
func (EntityMove) inbound()   {}
func (Unrecognized) inbound() {}

func (SelfInfo) Cmd() string       { return CmdSelfInfo }
func (AOIAdd) Cmd() string         { return CmdAOIAdd }
func (AOIRemove) Cmd() string      { return CmdAOIRemove }
func (EntityMove) Cmd() string     { return CmdEntityMove }
func (m Unrecognized) Cmd() string { return m.Tag }
