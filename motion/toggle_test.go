package motion_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/pawd/motion"
)

func TestToggleApply(t *testing.T) {
	tests := []struct {
		from   motion.Mode
		toggle motion.Toggle
		want   motion.Mode
		err    error
	}{
		{motion.ModeMove, motion.ToggleAxis, motion.ModeScroll, nil},
		{motion.ModeSnipe, motion.ToggleAxis, motion.ModeScroll, nil},
		{motion.ModeScroll, motion.ToggleAxis, motion.ModeMove, nil},
		{motion.ModeScrollSnipe, motion.ToggleAxis, motion.ModeMove, nil},
		{motion.ModeScrollHorizontal, motion.ToggleAxis, motion.ModeMove, nil},
		{motion.ModeScrollHorizontalSnipe, motion.ToggleAxis, motion.ModeMove, nil},
		{motion.ModeBothScroll, motion.ToggleAxis, motion.ModeMove, nil},

		{motion.ModeMove, motion.TogglePrecision, motion.ModeSnipe, nil},
		{motion.ModeSnipe, motion.TogglePrecision, motion.ModeMove, nil},
		{motion.ModeScroll, motion.TogglePrecision, motion.ModeScrollSnipe, nil},
		{motion.ModeScrollSnipe, motion.TogglePrecision, motion.ModeScroll, nil},
		{motion.ModeScrollHorizontal, motion.TogglePrecision, motion.ModeScrollHorizontalSnipe, nil},
		{motion.ModeScrollHorizontalSnipe, motion.TogglePrecision, motion.ModeScrollHorizontal, nil},
		{motion.ModeBothScroll, motion.TogglePrecision, motion.ModeBothScroll, motion.ErrNotApplicable},

		{motion.ModeMove, motion.ToggleDirection, motion.ModeMove, motion.ErrNotApplicable},
		{motion.ModeSnipe, motion.ToggleDirection, motion.ModeSnipe, motion.ErrNotApplicable},
		{motion.ModeScroll, motion.ToggleDirection, motion.ModeScrollHorizontal, nil},
		{motion.ModeScrollHorizontal, motion.ToggleDirection, motion.ModeScroll, nil},
		{motion.ModeScrollSnipe, motion.ToggleDirection, motion.ModeScrollHorizontalSnipe, nil},
		{motion.ModeScrollHorizontalSnipe, motion.ToggleDirection, motion.ModeScrollSnipe, nil},
		{motion.ModeBothScroll, motion.ToggleDirection, motion.ModeBothScroll, motion.ErrNotApplicable},
	}
	for _, tt := range tests {
		t.Run(tt.toggle.String()+"/"+tt.from.String(), func(t *testing.T) {
			got, err := tt.toggle.Apply(tt.from)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToggleTablesAreTotal(t *testing.T) {
	for _, tg := range []motion.Toggle{motion.ToggleAxis, motion.TogglePrecision, motion.ToggleDirection} {
		for _, m := range motion.Modes() {
			got, err := tg.Apply(m)
			if err != nil {
				require.ErrorIs(t, err, motion.ErrNotApplicable)
				assert.Equal(t, m, got)
				continue
			}
			assert.True(t, got.Valid())
		}
	}
}

func TestPrecisionIsInvolution(t *testing.T) {
	for _, m := range motion.Modes() {
		once, err := motion.TogglePrecision.Apply(m)
		if err != nil {
			continue
		}
		twice, err := motion.TogglePrecision.Apply(once)
		require.NoError(t, err)
		assert.Equal(t, m, twice)
	}
}

func TestUnknownToggle(t *testing.T) {
	_, err := motion.Toggle(3).Apply(motion.ModeMove)
	assert.ErrorIs(t, err, motion.ErrUnknownToggle)
}

func TestParseToggle(t *testing.T) {
	tests := []struct {
		in   string
		want motion.Toggle
		err  bool
	}{
		{in: "0", want: motion.ToggleAxis},
		{in: "axis", want: motion.ToggleAxis},
		{in: "1", want: motion.TogglePrecision},
		{in: "Snipe", want: motion.TogglePrecision},
		{in: "2", want: motion.ToggleDirection},
		{in: " direction ", want: motion.ToggleDirection},
		{in: "3", err: true},
		{in: "-1", err: true},
		{in: "sideways", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := motion.ParseToggle(tt.in)
			if tt.err {
				assert.ErrorIs(t, err, motion.ErrUnknownToggle)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range motion.Modes() {
		got, err := motion.ParseMode(m.String())
		assert.NoError(t, err)
		assert.Equal(t, m, got)
	}
	_, err := motion.ParseMode("warp")
	assert.ErrorIs(t, err, motion.ErrUnknownMode)
}
