package testing

import (
	"sync"

	"github.com/Alia5/pawd/motion"
)

// FakeLine records interrupt gating calls.
type FakeLine struct {
	mu        sync.Mutex
	enabled   bool
	wake      bool
	enables   int
	disables  int
	enableErr error
	latched   func()
}

var _ motion.WakeLine = (*FakeLine)(nil)

func (l *FakeLine) EnableInterrupt() error {
	l.mu.Lock()
	l.enables++
	if l.enableErr != nil {
		l.mu.Unlock()
		return l.enableErr
	}
	l.enabled = true
	l.wake = false
	fire := l.takeLatched()
	l.mu.Unlock()
	fire()
	return nil
}

func (l *FakeLine) DisableInterrupt() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.disables++
	l.enabled = false
	return nil
}

func (l *FakeLine) ArmWake() error {
	l.mu.Lock()
	l.wake = true
	fire := l.takeLatched()
	l.mu.Unlock()
	fire()
	return nil
}

// Latch simulates a motion pin that is already active: the next
// EnableInterrupt or ArmWake calls handler once, like a real line sampling
// the level on enable.
func (l *FakeLine) Latch(handler func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.latched = handler
}

func (l *FakeLine) takeLatched() func() {
	f := l.latched
	l.latched = nil
	if f == nil {
		return func() {}
	}
	return f
}

func (l *FakeLine) FailEnable(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enableErr = err
}

func (l *FakeLine) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

func (l *FakeLine) WakeArmed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.wake
}

func (l *FakeLine) Enables() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enables
}

func (l *FakeLine) Disables() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.disables
}
