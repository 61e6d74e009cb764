package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/pawd/motion"
)

func defaultMotion() MotionConfig {
	return MotionConfig{
		ScrollTick:         10,
		SnipeDivisor:       2,
		ScrollSnipeDivisor: 2,
		ScrollSnipeTick:    20,
		CPI:                1216,
		SnipeCPI:           608,
		SwitchMethod:       "toggle",
		IdleTimeout:        300 * time.Second,
		PollInterval:       15 * time.Millisecond,
	}
}

func TestToMotionMatchesDefaults(t *testing.T) {
	cfg, err := defaultMotion().toMotion()
	require.NoError(t, err)
	want := motion.DefaultConfig()
	want.SwitchMethod = motion.SwitchToggle
	assert.Equal(t, want, cfg)
}

func TestToMotionLayers(t *testing.T) {
	m := defaultMotion()
	m.SwitchMethod = "layer"
	m.ScrollLayers = []int{3}
	m.ScrollHSnipeLayers = []int{5, 6}
	m.BothScrollLayers = []int{7}
	cfg, err := m.toMotion()
	require.NoError(t, err)
	assert.Equal(t, motion.SwitchLayer, cfg.SwitchMethod)
	assert.Equal(t, []int{3}, cfg.Layers.Scroll)
	assert.Equal(t, []int{5, 6}, cfg.Layers.ScrollHorizontalSnipe)
	assert.Equal(t, []int{7}, cfg.Layers.BothScroll)
}

func TestToMotionRejects(t *testing.T) {
	m := defaultMotion()
	m.SnipeDivisor = 0
	_, err := m.toMotion()
	var ce *motion.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "snipe divisor", ce.Field)

	m = defaultMotion()
	m.SwitchMethod = "chord"
	_, err = m.toMotion()
	assert.ErrorIs(t, err, motion.ErrUnknownSwitch)
}

func TestLayerConfigValidate(t *testing.T) {
	assert.NoError(t, LayerConfig{Source: "control"}.validate())
	assert.NoError(t, LayerConfig{Source: "file", File: "/run/pawd/layer"}.validate())
	assert.Error(t, LayerConfig{Source: "file"}.validate())
}
