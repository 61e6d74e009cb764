package periph

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"github.com/Alia5/pawd/sensor/paw3222"
)

type outPin interface {
	Out(l gpio.Level) error
}

// PowerPin switches the sensor supply through a GPIO output.
type PowerPin struct {
	pin outPin
}

var _ paw3222.PowerSwitch = (*PowerPin)(nil)

func OpenPowerPin(name string) (*PowerPin, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("gpio %q not found", name)
	}
	return &PowerPin{pin: p}, nil
}

func (p *PowerPin) SetPower(on bool) error {
	return p.pin.Out(gpio.Level(on))
}
