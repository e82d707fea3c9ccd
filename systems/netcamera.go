package systems

import (
	"math"

	"github.com/chenmins/mmo-demo/components"
	"github.com/chenmins/mmo-demo/config"
	"github.com/chenmins/mmo-demo/network"
	"github.com/chenmins/mmo-demo/shared/netconfig"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi/ecs"
	dmath "github.com/yohamta/donburi/features/math"
)

// NewNetCameraSystem returns an update system that keeps the local entity
// centered. Ordinary movement is followed exactly; a jump larger than
// config.Camera.SnapDistance (a reconciliation snap) is eased so the view
// does not jerk. The entity itself still snaps.
func NewNetCameraSystem(session *network.Session) func(*ecs.ECS) {
	return func(e *ecs.ECS) {
		cameraEntry, ok := components.Camera.First(e.World)
		if !ok {
			return
		}
		camera := components.Camera.Get(cameraEntry)

		local, ok := session.LocalSnapshot()
		if !ok {
			return
		}
		target := clampCamera(local.X, local.Y)

		switch {
		case !camera.Initialized:
			camera.Position = target
			camera.Initialized = true
		case math.Hypot(target.X-camera.Target.X, target.Y-camera.Target.Y) > config.Camera.SnapDistance:
			camera.TweenX = gween.New(float32(camera.Position.X), float32(target.X), config.Camera.SnapEaseSeconds, ease.OutQuad)
			camera.TweenY = gween.New(float32(camera.Position.Y), float32(target.Y), config.Camera.SnapEaseSeconds, ease.OutQuad)
		}
		camera.Target = target

		if camera.TweenX == nil {
			camera.Position = target
			return
		}
		dt := float32(1 / float64(ebiten.TPS()))
		x, doneX := camera.TweenX.Update(dt)
		y, doneY := camera.TweenY.Update(dt)
		camera.Position = dmath.Vec2{X: float64(x), Y: float64(y)}
		if doneX && doneY {
			camera.TweenX, camera.TweenY = nil, nil
			camera.Position = target
		}
	}
}

// clampCamera keeps the view inside the map when the map is larger than the window.
func clampCamera(x, y float64) dmath.Vec2 {
	halfW := float64(config.Window.Width) / 2
	halfH := float64(config.Window.Height) / 2

	minX, maxX := halfW, netconfig.MapWidth-halfW
	minY, maxY := halfH, netconfig.MapHeight-halfH
	if minX > maxX {
		minX = netconfig.MapWidth / 2
		maxX = minX
	}
	if minY > maxY {
		minY = netconfig.MapHeight / 2
		maxY = minY
	}

	return dmath.Vec2{
		X: math.Max(minX, math.Min(maxX, x)),
		Y: math.Max(minY, math.Min(maxY, y)),
	}
}

// worldToScreen converts a world position to screen pixels for the camera.
func worldToScreen(camera *components.CameraData, x, y float64) (float32, float32) {
	sx := x - camera.Position.X + float64(config.Window.Width)/2
	sy := y - camera.Position.Y + float64(config.Window.Height)/2
	return float32(sx), float32(sy)
}
