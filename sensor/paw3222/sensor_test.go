package paw3222_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mtesting "github.com/Alia5/pawd/internal/testing"
	"github.com/Alia5/pawd/motion"
	"github.com/Alia5/pawd/sensor/paw3222"
)

var _ motion.Sensor = (*paw3222.Sensor)(nil)

func TestCPIRangeMatchesMotionConfig(t *testing.T) {
	assert.Equal(t, motion.MinCPI, uint16(paw3222.CPIMin))
	assert.Equal(t, motion.MaxCPI, uint16(paw3222.CPIMax))
}

func newSensor(t *testing.T, power paw3222.PowerSwitch) (*paw3222.Sensor, *mtesting.FakeRegisters, *[]time.Duration) {
	t.Helper()
	regs := &mtesting.FakeRegisters{}
	regs.Set(paw3222.RegProductID1, paw3222.ProductID)
	var slept []time.Duration
	s := paw3222.New(regs, &paw3222.Opts{
		Power:  power,
		Logger: slog.New(slog.DiscardHandler),
		Sleep:  func(d time.Duration) { slept = append(slept, d) },
	})
	return s, regs, &slept
}

func TestUpdateRegister(t *testing.T) {
	regs := &mtesting.FakeRegisters{}
	regs.Set(0x20, 0b1111_0000)
	require.NoError(t, paw3222.UpdateRegister(regs, 0x20, 0b0000_1010, 0b0000_1000))
	assert.Equal(t, uint8(0b1111_1000), regs.Get(0x20))

	require.NoError(t, paw3222.UpdateRegister(regs, 0x20, 0b1000_0000, 0))
	assert.Equal(t, uint8(0b0111_1000), regs.Get(0x20))
}

func TestSetCPI(t *testing.T) {
	tests := []struct {
		name   string
		cpi    uint16
		reg    uint8
		errIs  error
		writes int
	}{
		{name: "minimum", cpi: paw3222.CPIMin, reg: 16, writes: 4},
		{name: "maximum", cpi: paw3222.CPIMax, reg: 127, writes: 4},
		{name: "rounds down", cpi: 1200, reg: 31, writes: 4},
		{name: "below range", cpi: 400, errIs: paw3222.ErrCPIOutOfRange},
		{name: "above range", cpi: 5000, errIs: paw3222.ErrCPIOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, regs, _ := newSensor(t, nil)
			err := s.SetCPI(tt.cpi)
			if tt.errIs != nil {
				assert.ErrorIs(t, err, tt.errIs)
				assert.Empty(t, regs.Writes())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, []mtesting.RegisterWrite{
				{Addr: paw3222.RegWriteProtect, Value: 0x5a},
				{Addr: paw3222.RegCPIX, Value: tt.reg},
				{Addr: paw3222.RegCPIY, Value: tt.reg},
				{Addr: paw3222.RegWriteProtect, Value: 0x00},
			}, regs.Writes())
		})
	}
}

func TestSetCPIRestoresWriteProtect(t *testing.T) {
	s, regs, _ := newSensor(t, nil)
	regs.FailWrite(paw3222.RegCPIY, errors.New("nak"))

	err := s.SetCPI(1216)
	var te *paw3222.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, uint8(paw3222.RegCPIY), te.Addr)
	writes := regs.Writes()
	assert.Equal(t, mtesting.RegisterWrite{Addr: paw3222.RegWriteProtect, Value: 0x00}, writes[len(writes)-1])
}

func TestForceAwake(t *testing.T) {
	s, regs, _ := newSensor(t, nil)
	regs.Set(paw3222.RegOperationMode, 0xa0)

	require.NoError(t, s.ForceAwake(false))
	assert.Equal(t, uint8(0xb8), regs.Get(paw3222.RegOperationMode))

	require.NoError(t, s.ForceAwake(true))
	assert.Equal(t, uint8(0xa0), regs.Get(paw3222.RegOperationMode))
	assert.Equal(t, uint8(0x00), regs.Get(paw3222.RegWriteProtect))
}

func TestMotion(t *testing.T) {
	s, regs, _ := newSensor(t, nil)
	moving, err := s.Motion()
	require.NoError(t, err)
	assert.False(t, moving)

	regs.Set(paw3222.RegMotion, 0x81)
	moving, err = s.Motion()
	require.NoError(t, err)
	assert.True(t, moving)

	regs.FailRead(paw3222.RegMotion, errors.New("bus"))
	_, err = s.Motion()
	var te *paw3222.TransportError
	assert.ErrorAs(t, err, &te)
}

func TestReadDelta(t *testing.T) {
	s, regs, _ := newSensor(t, nil)
	regs.PushDelta(mtesting.Sample{DX: -3, DY: 12})
	dx, dy, err := s.ReadDelta()
	require.NoError(t, err)
	assert.Equal(t, int16(-3), dx)
	assert.Equal(t, int16(12), dy)

	regs.FailBurst(errors.New("timeout"))
	_, _, err = s.ReadDelta()
	var te *paw3222.TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "burst read", te.Op)
}

func TestConfigure(t *testing.T) {
	s, regs, slept := newSensor(t, nil)
	regs.Set(paw3222.RegOperationMode, 0x00)

	require.NoError(t, s.Configure(paw3222.Config{CPI: 1216, ForceAwake: false}))
	assert.Equal(t, uint8(32), regs.Get(paw3222.RegCPIX))
	assert.Equal(t, uint8(0x18), regs.Get(paw3222.RegOperationMode))
	assert.Equal(t, uint8(0x80), regs.Get(paw3222.RegConfiguration)&0x80)
	assert.Equal(t, []time.Duration{paw3222.ResetDelay}, *slept)
}

func TestConfigureSkipsZeroCPI(t *testing.T) {
	s, regs, _ := newSensor(t, nil)
	require.NoError(t, s.Configure(paw3222.Config{ForceAwake: true}))
	for _, w := range regs.Writes() {
		assert.NotEqual(t, uint8(paw3222.RegCPIX), w.Addr)
	}
}

func TestConfigureRejectsUnknownProduct(t *testing.T) {
	s, regs, _ := newSensor(t, nil)
	regs.Set(paw3222.RegProductID1, 0x31)
	err := s.Configure(paw3222.Config{})
	assert.ErrorIs(t, err, paw3222.ErrUnsupportedProduct)
	assert.Empty(t, regs.Writes())
}

func TestConfigureToleratesCPIFailure(t *testing.T) {
	s, _, _ := newSensor(t, nil)
	assert.NoError(t, s.Configure(paw3222.Config{CPI: 100}))
}

func TestPowerSequencing(t *testing.T) {
	power := &mtesting.FakePower{}
	s, regs, slept := newSensor(t, power)

	require.NoError(t, s.PowerCycle())
	assert.Equal(t, []bool{false, true}, power.States())
	assert.Equal(t, []time.Duration{paw3222.PowerOffDelay, paw3222.PowerOnDelay}, *slept)

	require.NoError(t, s.Suspend())
	assert.Equal(t, uint8(0x08), regs.Get(paw3222.RegConfiguration)&0x08)
	assert.Equal(t, []bool{false, true, false}, power.States())

	require.NoError(t, s.Resume())
	assert.Zero(t, regs.Get(paw3222.RegConfiguration)&0x08)
	assert.Equal(t, []bool{false, true, false, true}, power.States())
}

func TestSuspendWithoutPowerSwitch(t *testing.T) {
	s, regs, slept := newSensor(t, nil)
	require.NoError(t, s.PowerCycle())
	require.NoError(t, s.Suspend())
	require.NoError(t, s.Resume())
	assert.Empty(t, *slept)
	assert.Zero(t, regs.Get(paw3222.RegConfiguration))
}
