package motion

import (
	"fmt"
	"strconv"
	"strings"
)

// Toggle is one of the three mode-switch operations exposed to key bindings.
type Toggle uint8

const (
	// ToggleAxis switches between pointer motion and vertical scrolling.
	ToggleAxis Toggle = iota
	// TogglePrecision flips the snipe variant of the current mode.
	TogglePrecision
	// ToggleDirection flips vertical and horizontal scrolling.
	ToggleDirection
)

func (t Toggle) String() string {
	switch t {
	case ToggleAxis:
		return "axis"
	case TogglePrecision:
		return "precision"
	case ToggleDirection:
		return "direction"
	}
	return fmt.Sprintf("toggle(%d)", uint8(t))
}

// ParseToggle accepts a toggle name or its numeric parameter (0, 1, 2).
func ParseToggle(s string) (Toggle, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "axis", "scroll":
		return ToggleAxis, nil
	case "precision", "snipe":
		return TogglePrecision, nil
	case "direction", "horizontal":
		return ToggleDirection, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > int(ToggleDirection) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownToggle, s)
	}
	return Toggle(n), nil
}

type transition struct {
	next Mode
	ok   bool
}

func to(m Mode) transition { return transition{next: m, ok: true} }

var notApplicable = transition{}

var toggleTables = [...][modeCount]transition{
	ToggleAxis: {
		ModeMove:                  to(ModeScroll),
		ModeSnipe:                 to(ModeScroll),
		ModeScroll:                to(ModeMove),
		ModeScrollSnipe:           to(ModeMove),
		ModeScrollHorizontal:      to(ModeMove),
		ModeScrollHorizontalSnipe: to(ModeMove),
		ModeBothScroll:            to(ModeMove),
	},
	TogglePrecision: {
		ModeMove:                  to(ModeSnipe),
		ModeSnipe:                 to(ModeMove),
		ModeScroll:                to(ModeScrollSnipe),
		ModeScrollSnipe:           to(ModeScroll),
		ModeScrollHorizontal:      to(ModeScrollHorizontalSnipe),
		ModeScrollHorizontalSnipe: to(ModeScrollHorizontal),
		ModeBothScroll:            notApplicable,
	},
	ToggleDirection: {
		ModeMove:                  notApplicable,
		ModeSnipe:                 notApplicable,
		ModeScroll:                to(ModeScrollHorizontal),
		ModeScrollSnipe:           to(ModeScrollHorizontalSnipe),
		ModeScrollHorizontal:      to(ModeScroll),
		ModeScrollHorizontalSnipe: to(ModeScrollSnipe),
		ModeBothScroll:            notApplicable,
	},
}

// Apply returns the mode reached by applying t in mode m. When the toggle
// has no transition from m it returns m together with ErrNotApplicable.
func (t Toggle) Apply(m Mode) (Mode, error) {
	if int(t) >= len(toggleTables) {
		return m, fmt.Errorf("%w: %d", ErrUnknownToggle, uint8(t))
	}
	if !m.Valid() {
		return m, fmt.Errorf("%w: %d", ErrUnknownMode, uint8(m))
	}
	tr := toggleTables[t][m]
	if !tr.ok {
		return m, fmt.Errorf("%w: %s from %s", ErrNotApplicable, t, m)
	}
	return tr.next, nil
}
