package periph

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"github.com/Alia5/pawd/motion"
)

// edgePin is the part of gpio.PinIn used for interrupt delivery.
type edgePin interface {
	In(pull gpio.Pull, edge gpio.Edge) error
	WaitForEdge(timeout time.Duration) bool
	Read() gpio.Level
	Name() string
}

// watchTimeout bounds each WaitForEdge call so Close is observed promptly.
const watchTimeout = 100 * time.Millisecond

// Line delivers motion-pin edges to a handler while enabled. It implements
// motion.WakeLine; armed for wake it behaves like enabled.
//
// The sensor holds its motion pin asserted until the deltas are read, so an
// edge missed while disabled never repeats. Enabling therefore samples the
// level and calls the handler if the pin is already active.
type Line struct {
	pin     edgePin
	active  gpio.Level
	enabled atomic.Bool
	handler atomic.Pointer[func()]
	logger  *slog.Logger

	stop chan struct{}
	done chan struct{}
	once sync.Once
}

var _ motion.WakeLine = (*Line)(nil)

// OpenLine configures the named GPIO as the motion interrupt input.
// PAW3222 drives its motion pin low, so activeLow is the usual value.
func OpenLine(name string, activeLow bool, logger *slog.Logger) (*Line, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("gpio %q not found", name)
	}
	return newLine(p, activeLow, logger)
}

func newLine(p edgePin, activeLow bool, logger *slog.Logger) (*Line, error) {
	pull, edge, active := gpio.PullDown, gpio.RisingEdge, gpio.High
	if activeLow {
		pull, edge, active = gpio.PullUp, gpio.FallingEdge, gpio.Low
	}
	if err := p.In(pull, edge); err != nil {
		return nil, fmt.Errorf("configure gpio %s: %w", p.Name(), err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Line{
		pin:    p,
		active: active,
		logger: logger.With("pin", p.Name()),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}, nil
}

// Watch starts delivering edges to handler. It must be called once.
func (l *Line) Watch(handler func()) {
	l.handler.Store(&handler)
	go func() {
		defer close(l.done)
		for {
			select {
			case <-l.stop:
				return
			default:
			}
			if !l.pin.WaitForEdge(watchTimeout) {
				continue
			}
			if l.enabled.Load() && l.pin.Read() == l.active {
				handler()
			}
		}
	}()
}

func (l *Line) EnableInterrupt() error {
	l.enable()
	return nil
}

func (l *Line) DisableInterrupt() error {
	l.enabled.Store(false)
	return nil
}

func (l *Line) ArmWake() error {
	l.logger.Debug("Motion pin armed for wake")
	l.enable()
	return nil
}

func (l *Line) enable() {
	l.enabled.Store(true)
	h := l.handler.Load()
	if h != nil && l.pin.Read() == l.active {
		l.logger.Debug("Motion pin already active")
		(*h)()
	}
}

// Close stops the watcher started by Watch.
func (l *Line) Close() error {
	l.once.Do(func() {
		l.enabled.Store(false)
		close(l.stop)
	})
	return nil
}

// Wait blocks until the watcher goroutine has exited.
func (l *Line) Wait() { <-l.done }
