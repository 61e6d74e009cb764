package motion

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady is returned when a device is used before Start or after Close.
	ErrNotReady = errors.New("device not ready")
	// ErrNotApplicable is returned when a toggle has no transition from the current mode.
	ErrNotApplicable = errors.New("toggle not applicable in current mode")
	ErrUnknownToggle = errors.New("unknown toggle")
	ErrUnknownMode   = errors.New("unknown mode")
	ErrUnknownSwitch = errors.New("unknown switch method")

	ErrUnknownDevice   = errors.New("unknown device")
	ErrDuplicateDevice = errors.New("device already registered")
	ErrAlreadyStarted  = errors.New("device already started")
)

// ConfigError describes a configuration value that cannot be used.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}
