package network

// InputVector is the per-tick movement intent, each axis in {-1, 0, 1}.
// Negative Y is up.
type InputVector struct {
	X, Y int
}

// NewInputVector collapses held direction keys into an InputVector. When both
// keys of an axis are held, left and up win.
func NewInputVector(left, right, up, down bool) InputVector {
	var v InputVector
	if left {
		v.X = -1
	} else if right {
		v.X = 1
	}
	if up {
		v.Y = -1
	} else if down {
		v.Y = 1
	}
	return v
}

// IsZero reports whether no movement is requested.
func (v InputVector) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func (v InputVector) normalized() InputVector {
	return InputVector{X: sign(v.X), Y: sign(v.Y)}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}
