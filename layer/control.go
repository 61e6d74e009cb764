// Package layer provides motion.LayerProvider implementations: a value set
// over the control API and a value read from a watched file.
package layer

import "sync/atomic"

// Control holds a layer id set programmatically, typically by the
// control API's layer/set route.
type Control struct {
	v atomic.Int64
}

func NewControl(initial int) *Control {
	c := &Control{}
	c.Set(initial)
	return c
}

func (c *Control) Set(layer int) { c.v.Store(int64(layer)) }

func (c *Control) HighestActiveLayer() int { return int(c.v.Load()) }
