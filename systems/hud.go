package systems

import (
	"fmt"

	"github.com/chenmins/mmo-demo/components"
	cfg "github.com/chenmins/mmo-demo/config"
	"github.com/chenmins/mmo-demo/fonts"
	"github.com/chenmins/mmo-demo/network"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi/ecs"
)

const (
	hudMargin     = 10
	hudLineHeight = 18
	hudWidth      = 330
)

// DrawNetworkHUD renders connection state, entity counts and, once the
// session ended, the reason and how to reconnect.
func DrawNetworkHUD(e *ecs.ECS, screen *ebiten.Image) {
	entry, ok := components.NetStatus.First(e.World)
	if !ok {
		return
	}
	status := components.NetStatus.Get(entry)
	face := fonts.HUD.Get()

	lines := []string{
		fmt.Sprintf("State: %s", status.State),
		fmt.Sprintf("Entities: %d (+%d / -%d)", status.Entities, status.Added, status.Removed),
		fmt.Sprintf("Moves sent: %d  Snaps: %d  Dropped: %d", status.MovesSent, status.Corrections, status.Dropped),
	}
	if status.HasLocal {
		lines = append(lines, fmt.Sprintf("You: %d", status.LocalID))
	}

	// Background (translucent)
	height := float32(len(lines)*hudLineHeight + hudMargin)
	vector.DrawFilledRect(screen, hudMargin/2, hudMargin/2, hudWidth, height, cfg.Palette.HUDBackground, false)

	for i, line := range lines {
		text.Draw(screen, line, face, hudMargin, hudMargin+(i+1)*hudLineHeight-4, cfg.Palette.HUDText)
	}

	if status.State.Terminal() {
		msg := "Connection closed"
		if status.State == network.StateErrored {
			msg = "Connection error"
		}
		if status.LastError != nil {
			msg += ": " + status.LastError.Error()
		}
		y := cfg.Window.Height - 2*hudLineHeight
		text.Draw(screen, msg, face, hudMargin, y, cfg.Palette.HUDError)
		text.Draw(screen, "Press R to reconnect", face, hudMargin, y+hudLineHeight, cfg.Palette.HUDText)
	}
}
