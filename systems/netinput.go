package systems

import (
	"time"

	"github.com/chenmins/mmo-demo/network"
	"github.com/chenmins/mmo-demo/shared/netconfig"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/yohamta/donburi/ecs"
)

// maxFrameStep caps the elapsed time of one tick so a stalled window does
// not teleport the local entity.
const maxFrameStep = 100 * time.Millisecond

var netBindings = map[netconfig.ActionID][]ebiten.Key{
	netconfig.ActionMoveLeft:  {ebiten.KeyArrowLeft, ebiten.KeyA},
	netconfig.ActionMoveRight: {ebiten.KeyArrowRight, ebiten.KeyD},
	netconfig.ActionMoveUp:    {ebiten.KeyArrowUp, ebiten.KeyW},
	netconfig.ActionMoveDown:  {ebiten.KeyArrowDown, ebiten.KeyS},
}

// NewNetworkInputSystem returns an ECS system that polls the movement keys
// and feeds them to the session's prediction once per frame.
func NewNetworkInputSystem(session *network.Session) func(*ecs.ECS) {
	var last time.Time

	return func(e *ecs.ECS) {
		now := time.Now()
		elapsed := time.Second / time.Duration(ebiten.TPS())
		if !last.IsZero() {
			elapsed = min(now.Sub(last), maxFrameStep)
		}
		last = now

		input := network.NewInputVector(
			anyKeyPressed(netBindings[netconfig.ActionMoveLeft]),
			anyKeyPressed(netBindings[netconfig.ActionMoveRight]),
			anyKeyPressed(netBindings[netconfig.ActionMoveUp]),
			anyKeyPressed(netBindings[netconfig.ActionMoveDown]),
		)
		session.Tick(elapsed, input)
	}
}

func anyKeyPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}
