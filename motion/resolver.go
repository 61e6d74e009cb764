package motion

import (
	"fmt"
	"slices"
	"strings"
)

// SwitchMethod selects where the active mode comes from.
type SwitchMethod uint8

const (
	// SwitchLayer derives the mode from the highest active keymap layer.
	SwitchLayer SwitchMethod = iota
	// SwitchToggle uses the mode set by Toggle calls.
	SwitchToggle
)

func (s SwitchMethod) String() string {
	switch s {
	case SwitchLayer:
		return "layer"
	case SwitchToggle:
		return "toggle"
	}
	return fmt.Sprintf("switch(%d)", uint8(s))
}

func ParseSwitchMethod(s string) (SwitchMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "layer", "":
		return SwitchLayer, nil
	case "toggle":
		return SwitchToggle, nil
	}
	return SwitchLayer, fmt.Errorf("%w: %q", ErrUnknownSwitch, s)
}

// LayerProvider reports the highest currently active keymap layer.
type LayerProvider interface {
	HighestActiveLayer() int
}

// Layers holds the layer identifiers bound to each non-default mode.
type Layers struct {
	Scroll                []int
	Snipe                 []int
	ScrollHorizontal      []int
	ScrollSnipe           []int
	ScrollHorizontalSnipe []int
	BothScroll            []int
}

// Resolve determines the mode for the current cycle. Under toggle switching
// it returns current; under layer switching it matches the highest active
// layer against the configured lists in fixed priority order.
func Resolve(cfg *Config, current Mode, layers LayerProvider) Mode {
	if cfg.SwitchMethod == SwitchToggle {
		if !current.Valid() {
			return ModeMove
		}
		return current
	}
	if layers == nil {
		return ModeMove
	}
	layer := layers.HighestActiveLayer()
	l := &cfg.Layers
	switch {
	case slices.Contains(l.ScrollHorizontalSnipe, layer):
		return ModeScrollHorizontalSnipe
	case slices.Contains(l.ScrollSnipe, layer):
		return ModeScrollSnipe
	case slices.Contains(l.ScrollHorizontal, layer):
		return ModeScrollHorizontal
	case slices.Contains(l.Scroll, layer):
		return ModeScroll
	case slices.Contains(l.Snipe, layer):
		return ModeSnipe
	case slices.Contains(l.BothScroll, layer):
		return ModeBothScroll
	}
	return ModeMove
}
