package components

import (
	"github.com/chenmins/mmo-demo/network"
	"github.com/yohamta/donburi"
)

// NetStatusData is the per-frame view of the session shown by the HUD.
type NetStatusData struct {
	SessionID string
	State     network.ConnectionState
	LastError error
	LocalID   network.EntityID
	HasLocal  bool
	Entities  int

	// Running totals from the store change feed.
	Added   int
	Removed int

	MovesSent   int64
	Corrections int64
	Dropped     int64
}

var NetStatus = donburi.NewComponentType[NetStatusData]()
