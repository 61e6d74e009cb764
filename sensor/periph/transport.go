// Package periph connects the PAW3222 driver and the motion line to real
// hardware through periph.io.
package periph

import (
	"fmt"
	"io"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"

	"github.com/Alia5/pawd/internal/log"
	"github.com/Alia5/pawd/sensor/paw3222"
)

var (
	SpiFrequency = 2 * physic.MegaHertz
	SpiMode      = spi.Mode3
	SpiBits      = 8
)

// Conn is the full-duplex half of spi.Conn used by Transport.
type Conn interface {
	Tx(w, r []byte) error
}

// Transport implements paw3222.Transport over an SPI connection.
type Transport struct {
	mu    sync.Mutex
	c     Conn
	trace log.RegisterTrace
}

var _ paw3222.Transport = (*Transport)(nil)

// NewTransport wraps c. trace may be nil.
func NewTransport(c Conn, trace log.RegisterTrace) *Transport {
	if trace == nil {
		trace = log.NewRegisterTrace(nil)
	}
	return &Transport{c: c, trace: trace}
}

// OpenSPI opens the named SPI port ("" for the first one) and connects at f.
// The returned closer releases the port.
func OpenSPI(name string, f physic.Frequency, trace log.RegisterTrace) (*Transport, io.Closer, error) {
	p, err := spireg.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("open spi port %q: %w", name, err)
	}
	if f == 0 {
		f = SpiFrequency
	}
	c, err := p.Connect(f, SpiMode, SpiBits)
	if err != nil {
		_ = p.Close()
		return nil, nil, fmt.Errorf("connect spi port %q: %w", name, err)
	}
	return NewTransport(c, trace), p, nil
}

func (t *Transport) ReadRegister(addr uint8) (uint8, error) {
	w := []byte{addr &^ paw3222.WriteBit, 0xff}
	r := make([]byte, len(w))
	t.mu.Lock()
	err := t.c.Tx(w, r)
	t.mu.Unlock()
	if err != nil {
		return 0, err
	}
	t.trace.Read(addr, r[1])
	return r[1], nil
}

func (t *Transport) WriteRegister(addr, value uint8) error {
	w := []byte{addr | paw3222.WriteBit, value}
	t.mu.Lock()
	err := t.c.Tx(w, nil)
	t.mu.Unlock()
	if err != nil {
		return err
	}
	t.trace.Write(addr, value)
	return nil
}

// ReadMotionDelta clocks out both delta addresses in one transfer and
// sign-extends the two 8-bit results.
func (t *Transport) ReadMotionDelta() (int16, int16, error) {
	w := []byte{paw3222.RegDeltaX, 0xff, paw3222.RegDeltaY, 0xff}
	r := make([]byte, len(w))
	t.mu.Lock()
	err := t.c.Tx(w, r)
	t.mu.Unlock()
	if err != nil {
		return 0, 0, err
	}
	dx, dy := int16(int8(r[1])), int16(int8(r[3]))
	t.trace.Burst(dx, dy)
	return dx, dy, nil
}
