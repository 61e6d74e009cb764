package log

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// RegisterTrace records sensor register traffic one line per access.
type RegisterTrace interface {
	Read(addr, value uint8)
	Write(addr, value uint8)
	Burst(dx, dy int16)
}

type regTrace struct {
	w  io.Writer
	mu sync.Mutex
}

// NewRegisterTrace returns a trace writing to w. A nil w discards everything.
func NewRegisterTrace(w io.Writer) RegisterTrace {
	return &regTrace{w: w}
}

func (r *regTrace) Read(addr, value uint8) { r.line("R", addr, value) }

func (r *regTrace) Write(addr, value uint8) { r.line("W", addr, value) }

func (r *regTrace) Burst(dx, dy int16) {
	if r.w == nil {
		return
	}
	r.emit(fmt.Sprintf("%s B dx=%d dy=%d\n", stamp(), dx, dy))
}

func (r *regTrace) line(dir string, addr, value uint8) {
	if r.w == nil {
		return
	}
	r.emit(fmt.Sprintf("%s %s 0x%02x=0x%02x\n", stamp(), dir, addr, value))
}

func (r *regTrace) emit(line string) {
	r.mu.Lock()
	_, _ = io.WriteString(r.w, line)
	r.mu.Unlock()
}

func stamp() string {
	return time.Now().Format("2006/01/02 15:04:05.000")
}
