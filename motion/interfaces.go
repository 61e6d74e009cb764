package motion

import (
	"fmt"
	"time"
)

// Sensor is the register-level view of an optical motion sensor.
type Sensor interface {
	// Motion reports whether a new delta sample is latched.
	Motion() (bool, error)
	ReadDelta() (dx, dy int16, err error)
	SetCPI(cpi uint16) error
	Suspend() error
	Resume() error
}

// Axis identifies a relative input axis on the host side.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
	AxisWheel
	AxisHWheel
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisWheel:
		return "wheel"
	case AxisHWheel:
		return "hwheel"
	}
	return fmt.Sprintf("axis(%d)", uint8(a))
}

// Sink receives relative input reports. final marks the last report of a
// frame; sinks flush or synchronize on it.
type Sink interface {
	ReportRelative(axis Axis, value int16, final bool) error
}

// Line gates delivery of the sensor's motion interrupt. Implementations
// must make DisableInterrupt safe to call from the interrupt path.
type Line interface {
	EnableInterrupt() error
	DisableInterrupt() error
}

// WakeLine is implemented by lines that can keep a wake source armed while
// the device is idle.
type WakeLine interface {
	Line
	ArmWake() error
}

// Clock abstracts timers so the scheduler can be driven by tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is the subset of *time.Timer used by the scheduler.
type Timer interface {
	Stop() bool
	Reset(d time.Duration) bool
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// SystemClock is the wall clock backed by package time.
var SystemClock Clock = systemClock{}
