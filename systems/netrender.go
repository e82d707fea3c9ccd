package systems

import (
	"github.com/chenmins/mmo-demo/components"
	cfg "github.com/chenmins/mmo-demo/config"
	"github.com/chenmins/mmo-demo/fonts"
	"github.com/chenmins/mmo-demo/network"
	"github.com/chenmins/mmo-demo/shared/netconfig"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi/ecs"
)

// DrawWorld renders the background grid and the map border.
func DrawWorld(e *ecs.ECS, screen *ebiten.Image) {
	screen.Fill(cfg.Palette.Background)

	cameraEntry, ok := components.Camera.First(e.World)
	if !ok {
		return
	}
	camera := components.Camera.Get(cameraEntry)

	spacing := cfg.WorldView.GridSpacing
	x0, y0 := worldToScreen(camera, 0, 0)
	x1, y1 := worldToScreen(camera, netconfig.MapWidth, netconfig.MapHeight)

	for gx := spacing; gx < netconfig.MapWidth; gx += spacing {
		sx, _ := worldToScreen(camera, gx, 0)
		vector.StrokeLine(screen, sx, y0, sx, y1, 1, cfg.Palette.Grid, false)
	}
	for gy := spacing; gy < netconfig.MapHeight; gy += spacing {
		_, sy := worldToScreen(camera, 0, gy)
		vector.StrokeLine(screen, x0, sy, x1, sy, 1, cfg.Palette.Grid, false)
	}
	vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 2, cfg.Palette.Border, false)
}

// NewDrawNetworkedEntities returns a renderer drawing every entity the
// session knows as a labelled square centered on its position.
func NewDrawNetworkedEntities(session *network.Session) func(*ecs.ECS, *ebiten.Image) {
	return func(e *ecs.ECS, screen *ebiten.Image) {
		cameraEntry, ok := components.Camera.First(e.World)
		if !ok {
			return
		}
		camera := components.Camera.Get(cameraEntry)
		labelFont := fonts.Label.Get()
		size := float32(netconfig.EntitySize)

		for _, snap := range session.Snapshots() {
			cx, cy := worldToScreen(camera, snap.X, snap.Y)
			vector.DrawFilledRect(screen, cx-size/2, cy-size/2, size, size,
				cfg.EntityColor(snap.Kind, snap.IsLocal), false)

			label := cfg.EntityLabel(snap.Kind, uint(snap.ID))
			bounds := text.BoundString(labelFont, label)
			labelX := int(cx) - bounds.Min.X - bounds.Dx()/2
			labelY := int(cy-size/2) - int(cfg.WorldView.LabelOffset)
			text.Draw(screen, label, labelFont, labelX, labelY, cfg.Palette.Label)
		}
	}
}

// NewDrawMinimap returns a renderer for the whole-map overview: one dot per
// known entity plus the rectangle currently visible on screen.
func NewDrawMinimap(session *network.Session) func(*ecs.ECS, *ebiten.Image) {
	return func(e *ecs.ECS, screen *ebiten.Image) {
		mm := cfg.Minimap
		ox, oy := mm.Origin()
		size := float32(mm.Size)
		vector.DrawFilledRect(screen, float32(ox), float32(oy), size, size, cfg.Palette.MinimapBackground, false)
		vector.StrokeRect(screen, float32(ox), float32(oy), size, size, 1, cfg.Palette.Border, false)

		dot := float32(mm.DotSize)
		for _, snap := range session.Snapshots() {
			x, y := mm.Project(snap.X, snap.Y)
			vector.DrawFilledRect(screen, float32(x)-dot/2, float32(y)-dot/2, dot, dot,
				cfg.EntityColor(snap.Kind, snap.IsLocal), false)
		}

		cameraEntry, ok := components.Camera.First(e.World)
		if !ok {
			return
		}
		camera := components.Camera.Get(cameraEntry)
		halfW := float64(cfg.Window.Width) / 2
		halfH := float64(cfg.Window.Height) / 2
		vx, vy := mm.Project(camera.Position.X-halfW, camera.Position.Y-halfH)
		wx, wy := mm.Project(camera.Position.X+halfW, camera.Position.Y+halfH)
		vector.StrokeRect(screen, float32(vx), float32(vy), float32(wx-vx), float32(wy-vy), 1, cfg.Palette.MinimapView, false)
	}
}
