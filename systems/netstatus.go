package systems

import (
	"sync/atomic"

	"github.com/chenmins/mmo-demo/components"
	"github.com/chenmins/mmo-demo/network"
	"github.com/yohamta/donburi/ecs"
)

// NewNetStatusSystem returns an update system that copies the session's
// connection state and counters into the NetStatus component for the HUD.
func NewNetStatusSystem(session *network.Session) func(*ecs.ECS) {
	var added, removed int
	session.Subscribe(func(c network.EntityChange) {
		switch c.Type {
		case network.ChangeAdded:
			added++
		case network.ChangeRemoved:
			removed++
		}
	})

	return func(e *ecs.ECS) {
		entry, ok := components.NetStatus.First(e.World)
		if !ok {
			return
		}
		status := components.NetStatus.Get(entry)

		m := session.Metrics()
		localID, hasLocal := session.LocalID()
		*status = components.NetStatusData{
			SessionID:   session.ID(),
			State:       session.State(),
			LastError:   session.LastError(),
			LocalID:     localID,
			HasLocal:    hasLocal,
			Entities:    len(session.Snapshots()),
			Added:       added,
			Removed:     removed,
			MovesSent:   atomic.LoadInt64(&m.MovesSent),
			Corrections: atomic.LoadInt64(&m.CorrectionsApplied),
			Dropped:     atomic.LoadInt64(&m.DecodeErrors) + atomic.LoadInt64(&m.ProtocolViolations),
		}
	}
}
