package viiper

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/Alia5/pawd/motion"
)

// ReportSize is the length of a VIIPER mouse input report.
const ReportSize = 9

// Report is the state consumed by a VIIPER "mouse" device.
//
// Layout (9 bytes, little-endian):
//
//	Byte 0: Button bitfield (bit 0=Left, 1=Right, 2=Middle, 3=Back, 4=Forward)
//	Bytes 1-2: DX
//	Bytes 3-4: DY
//	Bytes 5-6: Wheel
//	Bytes 7-8: Pan
type Report struct {
	Buttons uint8
	DX, DY  int16
	Wheel   int16
	Pan     int16
}

func (r *Report) MarshalBinary() ([]byte, error) {
	b := make([]byte, ReportSize)
	b[0] = r.Buttons & 0x1f
	binary.LittleEndian.PutUint16(b[1:], uint16(r.DX))
	binary.LittleEndian.PutUint16(b[3:], uint16(r.DY))
	binary.LittleEndian.PutUint16(b[5:], uint16(r.Wheel))
	binary.LittleEndian.PutUint16(b[7:], uint16(r.Pan))
	return b, nil
}

func (r *Report) UnmarshalBinary(data []byte) error {
	if len(data) < ReportSize {
		return io.ErrUnexpectedEOF
	}
	r.Buttons = data[0]
	r.DX = int16(binary.LittleEndian.Uint16(data[1:]))
	r.DY = int16(binary.LittleEndian.Uint16(data[3:]))
	r.Wheel = int16(binary.LittleEndian.Uint16(data[5:]))
	r.Pan = int16(binary.LittleEndian.Uint16(data[7:]))
	return nil
}

// add folds one relative value into the report, saturating at the int16
// range. It reports false for an axis the mouse does not carry.
func (r *Report) add(axis motion.Axis, v int16) bool {
	var dst *int16
	switch axis {
	case motion.AxisX:
		dst = &r.DX
	case motion.AxisY:
		dst = &r.DY
	case motion.AxisWheel:
		dst = &r.Wheel
	case motion.AxisHWheel:
		dst = &r.Pan
	default:
		return false
	}
	sum := int32(*dst) + int32(v)
	*dst = int16(max(math.MinInt16, min(math.MaxInt16, sum)))
	return true
}

func (r *Report) empty() bool {
	return r.DX == 0 && r.DY == 0 && r.Wheel == 0 && r.Pan == 0
}
