package archetypes

import (
	"github.com/chenmins/mmo-demo/components"
	"github.com/chenmins/mmo-demo/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// Render layers, drawn in order.
const (
	LayerWorld ecs.LayerID = iota
	LayerHUD
)

var (
	Camera = newArchetype(
		tags.Camera,
		components.Camera,
	)
	NetStatus = newArchetype(
		tags.HUD,
		components.NetStatus,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(ecs *ecs.ECS, cs ...donburi.IComponentType) *donburi.Entry {
	e := ecs.World.Entry(ecs.Create(
		LayerWorld,
		append(a.components, cs...)...,
	))
	return e
}
