package tags

import "github.com/yohamta/donburi"

var (
	Camera = donburi.NewTag().SetName("Camera")
	HUD    = donburi.NewTag().SetName("HUD")
)
