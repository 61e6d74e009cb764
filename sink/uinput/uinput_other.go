//go:build !linux

package uinput

import (
	"log/slog"

	"github.com/Alia5/pawd/motion"
)

type Device struct{}

func Open(path, name string, logger *slog.Logger) (*Device, error) {
	return nil, ErrUnsupported
}

func (d *Device) ReportRelative(motion.Axis, int16, bool) error { return ErrUnsupported }

func (d *Device) Close() error { return nil }
