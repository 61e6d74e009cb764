//go:build linux

package uinput

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/Alia5/pawd/motion"
)

// ioctl requests and event codes from linux/uinput.h and input-event-codes.h.
const (
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565
	uiSetRelBit  = 0x40045566

	evSyn = 0x00
	evKey = 0x01
	evRel = 0x02

	synReport = 0

	relX      = 0x00
	relY      = 0x01
	relHWheel = 0x06
	relWheel  = 0x08

	btnLeft   = 0x110
	btnRight  = 0x111
	btnMiddle = 0x112

	busVirtual  = 0x06
	maxNameSize = 80
	absSize     = 64
)

type inputID struct {
	Bustype uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

type userDev struct {
	Name       [maxNameSize]byte
	ID         inputID
	EffectsMax uint32
	Absmax     [absSize]int32
	Absmin     [absSize]int32
	Absfuzz    [absSize]int32
	Absflat    [absSize]int32
}

type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

var relCodes = map[motion.Axis]uint16{
	motion.AxisX:      relX,
	motion.AxisY:      relY,
	motion.AxisWheel:  relWheel,
	motion.AxisHWheel: relHWheel,
}

// Device is a virtual pointer created through uinput. It implements motion.Sink.
type Device struct {
	mu     sync.Mutex
	w      io.Writer
	f      *os.File
	now    func() time.Time
	logger *slog.Logger
}

var _ motion.Sink = (*Device)(nil)

// Open creates a virtual pointer called name through the uinput node at path.
func Open(path, name string, logger *slog.Logger) (*Device, error) {
	if path == "" {
		path = DefaultPath
	}
	if logger == nil {
		logger = slog.Default()
	}
	f, err := os.OpenFile(path, unix.O_WRONLY|unix.O_NONBLOCK, 0o660)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := setup(f, name); err != nil {
		_ = f.Close()
		return nil, err
	}
	logger.Info("Created uinput pointer", "name", name, "path", path)
	return &Device{w: f, f: f, now: time.Now, logger: logger}, nil
}

func setup(f *os.File, name string) error {
	fd := int(f.Fd())
	bits := []struct {
		req uint
		val int
	}{
		{uiSetEvBit, evKey},
		{uiSetKeyBit, btnLeft},
		{uiSetKeyBit, btnRight},
		{uiSetKeyBit, btnMiddle},
		{uiSetEvBit, evRel},
		{uiSetRelBit, relX},
		{uiSetRelBit, relY},
		{uiSetRelBit, relWheel},
		{uiSetRelBit, relHWheel},
	}
	for _, b := range bits {
		if err := unix.IoctlSetInt(fd, b.req, b.val); err != nil {
			return fmt.Errorf("uinput ioctl 0x%x(%d): %w", b.req, b.val, err)
		}
	}

	dev := userDev{ID: inputID{Bustype: busVirtual, Vendor: 0x1209, Product: 0x3222, Version: 1}}
	copy(dev.Name[:maxNameSize-1], name)
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.NativeEndian, &dev); err != nil {
		return fmt.Errorf("encode uinput device: %w", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write uinput device: %w", err)
	}
	if err := unix.IoctlSetInt(fd, uiDevCreate, 0); err != nil {
		return fmt.Errorf("create uinput device: %w", err)
	}
	return nil
}

// ReportRelative emits one EV_REL event, followed by SYN_REPORT when final.
func (d *Device) ReportRelative(axis motion.Axis, value int16, final bool) error {
	code, ok := relCodes[axis]
	if !ok {
		return fmt.Errorf("uinput: unsupported axis %s", axis)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	events := []inputEvent{d.event(evRel, code, int32(value))}
	if final {
		events = append(events, d.event(evSyn, synReport, 0))
	}
	var buf bytes.Buffer
	for i := range events {
		if err := binary.Write(&buf, binary.NativeEndian, &events[i]); err != nil {
			return fmt.Errorf("encode input event: %w", err)
		}
	}
	if _, err := d.w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write input event: %w", err)
	}
	return nil
}

func (d *Device) event(typ, code uint16, value int32) inputEvent {
	return inputEvent{Time: unix.NsecToTimeval(d.now().UnixNano()), Type: typ, Code: code, Value: value}
}

// Close destroys the virtual device.
func (d *Device) Close() error {
	if d.f == nil {
		return nil
	}
	err := unix.IoctlSetInt(int(d.f.Fd()), uiDevDestroy, 0)
	if cerr := d.f.Close(); err == nil {
		err = cerr
	}
	d.f = nil
	return err
}
