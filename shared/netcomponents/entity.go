package netcomponents

import (
	"github.com/chenmins/mmo-demo/shared/netconfig"
	"github.com/yohamta/donburi"
)

// NetEntityData carries the fixed-shape attributes of a synced entity.
type NetEntityData struct {
	Kind netconfig.EntityKind
}

var NetEntity = donburi.NewComponentType[NetEntityData]()
