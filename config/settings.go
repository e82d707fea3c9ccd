package config

import (
	"fmt"
	"image/color"
	"math"

	"github.com/chenmins/mmo-demo/shared/netconfig"
)

// WindowConfig sizes the GUI client window.
type WindowConfig struct {
	Width  int
	Height int
	Title  string
}

// CameraConfig controls how the view follows the local entity.
type CameraConfig struct {
	// SnapEaseSeconds is how long the view eases after a jump larger than
	// SnapDistance (a reconciliation snap); smaller moves are followed exactly.
	SnapEaseSeconds float32
	SnapDistance    float64
}

// WorldViewConfig describes the background drawn under the entities.
type WorldViewConfig struct {
	GridSpacing float64
	LabelOffset float64 // label distance above the rectangle
}

// MinimapConfig places the whole-map overview in the top right corner.
type MinimapConfig struct {
	Size    float64 // side of the square inset, in pixels
	Margin  float64
	DotSize float64
}

// PaletteConfig holds the entity and background colors.
type PaletteConfig struct {
	Self       color.RGBA
	Player     color.RGBA
	NPC        color.RGBA
	Unknown    color.RGBA
	Background color.RGBA
	Grid       color.RGBA
	Border     color.RGBA
	Label      color.RGBA
	HUDText    color.RGBA
	HUDError   color.RGBA

	HUDBackground color.RGBA

	MinimapBackground color.RGBA
	MinimapView       color.RGBA
}

var Window WindowConfig
var Camera CameraConfig
var WorldView WorldViewConfig
var Minimap MinimapConfig
var Palette PaletteConfig

func init() {
	Window = WindowConfig{
		Width:  1280,
		Height: 720,
		Title:  "mmo-demo",
	}

	Camera = CameraConfig{
		SnapEaseSeconds: 0.15,
		SnapDistance:    50,
	}

	WorldView = WorldViewConfig{
		GridSpacing: 100,
		LabelOffset: 6,
	}

	Minimap = MinimapConfig{
		Size:    200,
		Margin:  10,
		DotSize: 4,
	}

	Palette = PaletteConfig{
		Self:       color.RGBA{R: 0, G: 100, B: 255, A: 255},
		Player:     color.RGBA{R: 0, G: 200, B: 0, A: 255},
		NPC:        color.RGBA{R: 220, G: 0, B: 0, A: 255},
		Unknown:    color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Background: color.RGBA{R: 24, G: 24, B: 32, A: 255},
		Grid:       color.RGBA{R: 50, G: 50, B: 64, A: 255},
		Border:     color.RGBA{R: 200, G: 200, B: 200, A: 255},
		Label:      color.RGBA{R: 255, G: 255, B: 255, A: 255},
		HUDText:    color.RGBA{R: 255, G: 255, B: 100, A: 255},
		HUDError:   color.RGBA{R: 255, G: 60, B: 60, A: 255},

		HUDBackground: color.RGBA{R: 0, G: 0, B: 0, A: 160},

		MinimapBackground: color.RGBA{R: 0, G: 0, B: 0, A: 180},
		MinimapView:       color.RGBA{R: 255, G: 255, B: 255, A: 200},
	}
}

// EntityColor picks the fill color of an entity: the local entity is always
// Self, other entities are colored by kind.
func EntityColor(kind netconfig.EntityKind, isLocal bool) color.RGBA {
	if isLocal {
		return Palette.Self
	}
	switch kind {
	case netconfig.KindPlayer:
		return Palette.Player
	case netconfig.KindNPC:
		return Palette.NPC
	}
	return Palette.Unknown
}

// EntityLabel is the text drawn above an entity, e.g. "npc:9".
func EntityLabel(kind netconfig.EntityKind, id uint) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

// Origin is the screen position of the minimap's top left corner.
func (m MinimapConfig) Origin() (float64, float64) {
	return float64(Window.Width) - m.Margin - m.Size, m.Margin
}

// Project maps a world position onto the minimap.
func (m MinimapConfig) Project(x, y float64) (float64, float64) {
	ox, oy := m.Origin()
	span := math.Max(netconfig.MapWidth, netconfig.MapHeight)
	return ox + x*m.Size/span, oy + y*m.Size/span
}
