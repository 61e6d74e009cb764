// Package motion turns raw sensor deltas into pointer, scroll and precision
// reports. A Device owns the interrupt-driven processing cycle, the scroll
// accumulators, the mode toggles and the idle manager for one sensor.
package motion

import (
	"fmt"
	"strings"
)

// Mode selects how a delta sample is reported.
type Mode uint8

const (
	ModeMove Mode = iota
	ModeSnipe
	ModeScroll
	ModeScrollSnipe
	ModeScrollHorizontal
	ModeScrollHorizontalSnipe
	ModeBothScroll

	modeCount
)

var modeNames = [modeCount]string{
	ModeMove:                  "move",
	ModeSnipe:                 "snipe",
	ModeScroll:                "scroll",
	ModeScrollSnipe:           "scroll-snipe",
	ModeScrollHorizontal:      "scroll-horizontal",
	ModeScrollHorizontalSnipe: "scroll-horizontal-snipe",
	ModeBothScroll:            "both-scroll",
}

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
	return modeNames[m]
}

// Valid reports whether m is one of the defined modes.
func (m Mode) Valid() bool { return m < modeCount }

// IsSnipe reports whether m belongs to the precision family.
func (m Mode) IsSnipe() bool {
	return m == ModeSnipe || m == ModeScrollSnipe || m == ModeScrollHorizontalSnipe
}

// IsScroll reports whether m produces wheel reports instead of pointer motion.
func (m Mode) IsScroll() bool {
	switch m {
	case ModeScroll, ModeScrollSnipe, ModeScrollHorizontal, ModeScrollHorizontalSnipe, ModeBothScroll:
		return true
	}
	return false
}

// ParseMode accepts the names returned by Mode.String, case-insensitive.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if name == s {
			return Mode(m), nil
		}
	}
	return ModeMove, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Modes returns every defined mode in declaration order.
func Modes() []Mode {
	out := make([]Mode, 0, modeCount)
	for m := Mode(0); m < modeCount; m++ {
		out = append(out, m)
	}
	return out
}
