package motion

import (
	"fmt"
	"time"
)

const (
	// DefaultSnipeCPI is used for precision modes when no snipe CPI is configured.
	DefaultSnipeCPI uint16 = 608
	DefaultCPI      uint16 = 1216

	// MinCPI and MaxCPI bound the resolutions the sensor accepts.
	MinCPI uint16 = 608
	MaxCPI uint16 = 4826

	DefaultIdleTimeout  = 300 * time.Second
	DefaultPollInterval = 15 * time.Millisecond
)

// Config is the per-device configuration. It is copied by New and never
// changed afterwards.
type Config struct {
	Rotation           Rotation
	ScrollTick         uint8
	SnipeDivisor       uint8
	ScrollSnipeDivisor uint8
	ScrollSnipeTick    uint8

	// CPI is applied in non-precision modes. Zero leaves the sensor resolution untouched.
	CPI uint16
	// SnipeCPI is applied in precision modes. Zero selects DefaultSnipeCPI.
	SnipeCPI uint16

	SwitchMethod SwitchMethod
	Layers       Layers

	// IdleTimeout of zero disables idle handling.
	IdleTimeout  time.Duration
	PollInterval time.Duration
	// SleepOnIdle asks the sensor to power down while idle.
	SleepOnIdle bool
}

// DefaultConfig returns a configuration with the stock thresholds.
func DefaultConfig() Config {
	return Config{
		Rotation:           Rotation0,
		ScrollTick:         10,
		SnipeDivisor:       2,
		ScrollSnipeDivisor: 2,
		ScrollSnipeTick:    20,
		CPI:                DefaultCPI,
		SnipeCPI:           DefaultSnipeCPI,
		SwitchMethod:       SwitchLayer,
		IdleTimeout:        DefaultIdleTimeout,
		PollInterval:       DefaultPollInterval,
	}
}

// Validate reports the first fatal problem in c.
func (c *Config) Validate() error {
	switch {
	case c.SnipeDivisor == 0:
		return &ConfigError{Field: "snipe divisor", Reason: "must be non-zero"}
	case c.ScrollSnipeDivisor == 0:
		return &ConfigError{Field: "scroll snipe divisor", Reason: "must be non-zero"}
	case c.SwitchMethod != SwitchLayer && c.SwitchMethod != SwitchToggle:
		return &ConfigError{Field: "switch method", Reason: c.SwitchMethod.String()}
	case c.CPI != 0 && (c.CPI < MinCPI || c.CPI > MaxCPI):
		return &ConfigError{Field: "cpi", Reason: fmt.Sprintf("%d not in [%d, %d]", c.CPI, MinCPI, MaxCPI)}
	case c.SnipeCPI != 0 && (c.SnipeCPI < MinCPI || c.SnipeCPI > MaxCPI):
		return &ConfigError{Field: "snipe cpi", Reason: fmt.Sprintf("%d not in [%d, %d]", c.SnipeCPI, MinCPI, MaxCPI)}
	case c.PollInterval < 0:
		return &ConfigError{Field: "poll interval", Reason: "must not be negative"}
	case c.IdleTimeout < 0:
		return &ConfigError{Field: "idle timeout", Reason: "must not be negative"}
	}
	return nil
}

// Warnings lists non-fatal problems that New logs and tolerates.
func (c *Config) Warnings() []string {
	var w []string
	if !c.Rotation.Valid() {
		w = append(w, "rotation must be 0, 90, 180 or 270; using 0")
	}
	if c.ScrollTick == 0 {
		w = append(w, "scroll tick is 0; every delta will scroll")
	}
	if c.ScrollSnipeTick == 0 {
		w = append(w, "scroll snipe tick is 0; every delta will scroll")
	}
	return w
}

func (c *Config) snipeCPI() uint16 {
	if c.SnipeCPI == 0 {
		return DefaultSnipeCPI
	}
	return c.SnipeCPI
}

func (c *Config) pollInterval() time.Duration {
	if c.PollInterval == 0 {
		return DefaultPollInterval
	}
	return c.PollInterval
}
