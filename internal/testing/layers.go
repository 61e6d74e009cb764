package testing

import "sync/atomic"

// FixedLayer is a motion.LayerProvider that returns whatever was last stored.
type FixedLayer struct {
	layer atomic.Int64
}

func (l *FixedLayer) Set(layer int) { l.layer.Store(int64(layer)) }

func (l *FixedLayer) HighestActiveLayer() int { return int(l.layer.Load()) }
