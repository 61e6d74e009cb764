package motion

import "math"

// Accumulator collects scroll deltas until they cross a tick threshold.
// The running value saturates at the int16 range.
type Accumulator struct {
	value int16
}

// Value returns the current accumulated delta.
func (a *Accumulator) Value() int16 { return a.value }

// Reset drops any accumulated delta.
func (a *Accumulator) Reset() { a.value = 0 }

// Add folds delta into the accumulator and reports whether the result had
// to be clamped.
func (a *Accumulator) Add(delta int16) bool {
	sum := int32(a.value) + int32(delta)
	switch {
	case sum > math.MaxInt16:
		a.value = math.MaxInt16
		return true
	case sum < math.MinInt16:
		a.value = math.MinInt16
		return true
	default:
		a.value = int16(sum)
		return false
	}
}

// Process adds delta and, once the magnitude reaches threshold, consumes one
// threshold worth and returns a tick of +1 or -1. At most one tick is
// produced per call.
//
// A zero threshold is treated as 1, so an empty accumulator never ticks.
// This differs from the sensor firmware, where a zero threshold fires on
// every call.
func (a *Accumulator) Process(delta int16, threshold uint8) (tick int16, clamped bool) {
	clamped = a.Add(delta)
	t := int32(threshold)
	if t == 0 {
		t = 1
	}
	v := int32(a.value)
	switch {
	case v >= t:
		a.value = int16(v - t)
		return 1, clamped
	case -v >= t:
		a.value = int16(v + t)
		return -1, clamped
	}
	return 0, clamped
}
