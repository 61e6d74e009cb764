package motion_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Alia5/pawd/motion"
)

func TestAccumulatorAddClamps(t *testing.T) {
	var a motion.Accumulator
	assert.False(t, a.Add(math.MaxInt16-1))
	assert.True(t, a.Add(10))
	assert.Equal(t, int16(math.MaxInt16), a.Value())

	a.Reset()
	assert.False(t, a.Add(math.MinInt16+1))
	assert.True(t, a.Add(-10))
	assert.Equal(t, int16(math.MinInt16), a.Value())

	a.Reset()
	a.Add(32760)
	assert.True(t, a.Add(20))
	assert.Equal(t, int16(32767), a.Value())
}

func TestAccumulatorProcess(t *testing.T) {
	tests := []struct {
		name      string
		deltas    []int16
		threshold uint8
		ticks     []int16
		remainder int16
	}{
		{
			name:      "below threshold",
			deltas:    []int16{3, 3},
			threshold: 10,
			ticks:     []int16{0, 0},
			remainder: 6,
		},
		{
			name:      "crosses threshold once",
			deltas:    []int16{6, 6},
			threshold: 10,
			ticks:     []int16{0, 1},
			remainder: 2,
		},
		{
			name:      "three small steps",
			deltas:    []int16{4, 4, 4},
			threshold: 10,
			ticks:     []int16{0, 0, 1},
			remainder: 2,
		},
		{
			name:      "negative direction",
			deltas:    []int16{-10},
			threshold: 10,
			ticks:     []int16{-1},
			remainder: 0,
		},
		{
			name:      "at most one tick per call",
			deltas:    []int16{35, 0, 0, 0},
			threshold: 10,
			ticks:     []int16{1, 1, 1, 0},
			remainder: 5,
		},
		{
			name:      "zero threshold acts as one",
			deltas:    []int16{2, 0, 0},
			threshold: 0,
			ticks:     []int16{1, 1, 0},
			remainder: 0,
		},
		{
			name:      "direction change cancels out",
			deltas:    []int16{8, -8, -8},
			threshold: 10,
			ticks:     []int16{0, 0, 0},
			remainder: -8,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a motion.Accumulator
			var ticks []int16
			for _, d := range tt.deltas {
				tick, _ := a.Process(d, tt.threshold)
				ticks = append(ticks, tick)
			}
			assert.Equal(t, tt.ticks, ticks)
			assert.Equal(t, tt.remainder, a.Value())
		})
	}
}

func TestAccumulatorProcessStaysInRange(t *testing.T) {
	var a motion.Accumulator
	for i := 0; i < 100; i++ {
		tick, _ := a.Process(math.MaxInt16, 255)
		assert.Equal(t, int16(1), tick)
	}
	assert.LessOrEqual(t, a.Value(), int16(math.MaxInt16))
	assert.GreaterOrEqual(t, a.Value(), int16(math.MaxInt16-255))
}
