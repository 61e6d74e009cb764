package motion

import "math"

// Rotation is the sensor mounting angle in degrees.
type Rotation uint16

const (
	Rotation0   Rotation = 0
	Rotation90  Rotation = 90
	Rotation180 Rotation = 180
	Rotation270 Rotation = 270
)

// Valid reports whether r is one of the four supported angles.
func (r Rotation) Valid() bool {
	switch r {
	case Rotation0, Rotation90, Rotation180, Rotation270:
		return true
	}
	return false
}

// ScrollAxis picks the component of (x, y) that drives vertical scrolling
// for the given mounting angle. Unsupported angles behave like Rotation0.
func ScrollAxis(x, y int16, r Rotation) int16 {
	switch r {
	case Rotation90:
		return x
	case Rotation180:
		return negate(y)
	case Rotation270:
		return negate(x)
	default:
		return y
	}
}

// HorizontalAxis picks the component of (x, y) that drives the horizontal
// wheel in BothScroll. It is ScrollAxis with the inputs swapped. The
// single-axis horizontal modes use ScrollAxis.
func HorizontalAxis(x, y int16, r Rotation) int16 {
	return ScrollAxis(y, x, r)
}

func negate(v int16) int16 {
	if v == math.MinInt16 {
		return math.MaxInt16
	}
	return -v
}
