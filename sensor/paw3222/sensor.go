// Package paw3222 drives a PixArt PAW3222 optical motion sensor over an
// abstract register transport.
package paw3222

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Transport moves bytes to and from sensor registers.
type Transport interface {
	ReadRegister(addr uint8) (uint8, error)
	WriteRegister(addr, value uint8) error
	// ReadMotionDelta reads both delta registers in one transfer.
	ReadMotionDelta() (dx, dy int16, err error)
}

// PowerSwitch drives the optional sensor supply pin.
type PowerSwitch interface {
	SetPower(on bool) error
}

// UpdateRegister rewrites the bits of addr selected by mask. The
// read-modify-write is not atomic.
func UpdateRegister(t Transport, addr, mask, value uint8) error {
	cur, err := t.ReadRegister(addr)
	if err != nil {
		return err
	}
	return t.WriteRegister(addr, (cur&^mask)|(value&mask))
}

// Config is applied by Configure after power-up.
type Config struct {
	// CPI of zero keeps the power-on resolution.
	CPI uint16
	// ForceAwake disables the sensor's internal sleep modes.
	ForceAwake bool
}

type Opts struct {
	Power  PowerSwitch
	Logger *slog.Logger
	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)
}

// Timing of the power and reset sequences.
const (
	PowerOffDelay = 500 * time.Millisecond
	PowerOnDelay  = 10 * time.Millisecond
	ResetDelay    = 2 * time.Millisecond
)

// Sensor is a PAW3222 bound to a transport. It implements motion.Sensor.
type Sensor struct {
	t      Transport
	power  PowerSwitch
	logger *slog.Logger
	sleep  func(time.Duration)
}

func New(t Transport, o *Opts) *Sensor {
	s := &Sensor{t: t, logger: slog.Default(), sleep: time.Sleep}
	if o != nil {
		s.power = o.Power
		if o.Logger != nil {
			s.logger = o.Logger
		}
		if o.Sleep != nil {
			s.sleep = o.Sleep
		}
	}
	return s
}

func (s *Sensor) String() string { return "PAW3222" }

// PowerCycle switches the supply off and on again. Without a power switch
// it does nothing.
func (s *Sensor) PowerCycle() error {
	if s.power == nil {
		return nil
	}
	if err := s.power.SetPower(false); err != nil {
		return fmt.Errorf("power off: %w", err)
	}
	s.sleep(PowerOffDelay)
	if err := s.power.SetPower(true); err != nil {
		return fmt.Errorf("power on: %w", err)
	}
	s.sleep(PowerOnDelay)
	return nil
}

// Configure verifies the product id, resets the sensor and applies c.
// A failing CPI or force-awake write is logged and does not fail Configure.
func (s *Sensor) Configure(c Config) error {
	id, err := s.ProductID()
	if err != nil {
		return err
	}
	if id != ProductID {
		return fmt.Errorf("%w: 0x%02x", ErrUnsupportedProduct, id)
	}
	if err := s.update(RegConfiguration, configReset, configReset); err != nil {
		return err
	}
	s.sleep(ResetDelay)

	if c.CPI > 0 {
		if err := s.SetCPI(c.CPI); err != nil {
			s.logger.Warn("Failed to set initial CPI", "cpi", c.CPI, "error", err)
		}
	}
	if err := s.ForceAwake(c.ForceAwake); err != nil {
		s.logger.Warn("Failed to configure sleep modes", "forceAwake", c.ForceAwake, "error", err)
	}
	s.logger.Info("Sensor configured", "cpi", c.CPI, "forceAwake", c.ForceAwake)
	return nil
}

func (s *Sensor) ProductID() (uint8, error) {
	return s.read(RegProductID1)
}

// Motion reports whether the motion register has new data latched.
func (s *Sensor) Motion() (bool, error) {
	v, err := s.read(RegMotion)
	if err != nil {
		return false, err
	}
	return v&MotionDataReady != 0, nil
}

func (s *Sensor) ReadDelta() (int16, int16, error) {
	dx, dy, err := s.t.ReadMotionDelta()
	if err != nil {
		return 0, 0, &TransportError{Op: "burst read", Addr: RegDeltaX, Err: err}
	}
	return dx, dy, nil
}

// SetCPI programs both axes to cpi, rounded down to a multiple of CPIStep.
func (s *Sensor) SetCPI(cpi uint16) error {
	if cpi < CPIMin || cpi > CPIMax {
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrCPIOutOfRange, cpi, CPIMin, CPIMax)
	}
	v := uint8(cpi / CPIStep)
	return s.unprotected(func() error {
		if err := s.write(RegCPIX, v); err != nil {
			return err
		}
		return s.write(RegCPIY, v)
	})
}

// ForceAwake clears both sleep-enable bits when enable is set and restores
// them otherwise.
func (s *Sensor) ForceAwake(enable bool) error {
	var v uint8 = opModeSleep
	if enable {
		v = 0
	}
	return s.unprotected(func() error {
		return s.update(RegOperationMode, opModeSleep, v)
	})
}

// Suspend enters power-down and then cuts the supply if a power switch is set.
func (s *Sensor) Suspend() error {
	if err := s.update(RegConfiguration, configPowerDown, configPowerDown); err != nil {
		return err
	}
	if s.power != nil {
		if err := s.power.SetPower(false); err != nil {
			return fmt.Errorf("power off: %w", err)
		}
	}
	return nil
}

// Resume restores the supply, waits for it to settle and leaves power-down.
func (s *Sensor) Resume() error {
	if s.power != nil {
		if err := s.power.SetPower(true); err != nil {
			return fmt.Errorf("power on: %w", err)
		}
		s.sleep(PowerOnDelay)
	}
	return s.update(RegConfiguration, configPowerDown, 0)
}

func (s *Sensor) unprotected(fn func() error) error {
	if err := s.write(RegWriteProtect, writeProtectDisable); err != nil {
		return err
	}
	ferr := fn()
	if err := s.write(RegWriteProtect, writeProtectEnable); err != nil {
		return errors.Join(ferr, err)
	}
	return ferr
}

func (s *Sensor) read(addr uint8) (uint8, error) {
	v, err := s.t.ReadRegister(addr)
	if err != nil {
		return 0, &TransportError{Op: "read", Addr: addr, Err: err}
	}
	return v, nil
}

func (s *Sensor) write(addr, value uint8) error {
	if err := s.t.WriteRegister(addr, value); err != nil {
		return &TransportError{Op: "write", Addr: addr, Err: err}
	}
	return nil
}

func (s *Sensor) update(addr, mask, value uint8) error {
	if err := UpdateRegister(s.t, addr, mask, value); err != nil {
		return &TransportError{Op: "update", Addr: addr, Err: err}
	}
	return nil
}
