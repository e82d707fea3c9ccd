package factory

import (
	"github.com/chenmins/mmo-demo/archetypes"
	"github.com/chenmins/mmo-demo/components"
	"github.com/yohamta/donburi/ecs"
)

func CreateCamera(ecs *ecs.ECS) {
	camera := archetypes.Camera.Spawn(ecs)
	components.Camera.Set(camera, &components.CameraData{})
}

// CreateNetStatus spawns the entity the HUD reads connection state from.
func CreateNetStatus(ecs *ecs.ECS) {
	status := archetypes.NetStatus.Spawn(ecs)
	components.NetStatus.Set(status, &components.NetStatusData{})
}
