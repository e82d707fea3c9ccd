package netcomponents

import "github.com/yohamta/donburi"

// NetPositionData is the stored world position of a synced entity.
type NetPositionData struct {
	X, Y float64
}

var NetPosition = donburi.NewComponentType[NetPositionData]()
