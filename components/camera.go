package components

import (
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/math"
)

type CameraData struct {
	Position    math.Vec2
	Target      math.Vec2 // last followed position of the local entity
	Initialized bool

	// Active easing after a large jump of the target, nil otherwise.
	TweenX *gween.Tween
	TweenY *gween.Tween
}

var Camera = donburi.NewComponentType[CameraData]()
