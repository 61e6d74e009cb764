// Package viiper delivers motion to a VIIPER server: the daemon adds a
// virtual USB mouse to a VIIPER bus and streams its input reports, so the
// pointer can drive a remote machine over USB/IP.
package viiper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/Alia5/pawd/apiclient"
	"github.com/Alia5/pawd/motion"
)

// Config selects the VIIPER server and bus.
type Config struct {
	Addr     string        `help:"VIIPER API address" default:"localhost:3242" env:"PAWD_VIIPER_ADDR"`
	Password string        `help:"VIIPER API password" default:"" env:"PAWD_VIIPER_PASSWORD"`
	BusID    uint32        `help:"Bus to attach the mouse to; 0 uses the first bus or creates one" default:"0" env:"PAWD_VIIPER_BUS"`
	Timeout  time.Duration `help:"Dial and request timeout" default:"3s" env:"PAWD_VIIPER_TIMEOUT"`
}

// device is the VIIPER API's device descriptor.
type device struct {
	BusID uint32 `json:"busId"`
	DevID string `json:"devId"`
	Type  string `json:"type"`
}

type busList struct {
	Buses []uint32 `json:"buses"`
}

type busCreate struct {
	BusID uint32 `json:"busId"`
}

type deviceCreate struct {
	Type string `json:"type"`
}

var ErrClosed = errors.New("viiper sink closed")

// Sink is a motion.Sink that batches reports until the final value of a
// cycle and then writes one mouse report to the device stream. VIIPER
// consumes the relative fields on each USB poll.
type Sink struct {
	logger    *slog.Logger
	transport *apiclient.Transport

	mu      sync.Mutex
	conn    net.Conn
	pending Report
	busID   uint32
	devID   string
}

var _ motion.Sink = (*Sink)(nil)

// Open adds a mouse to the configured bus and connects its input stream.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Sink, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tcfg := &apiclient.Config{
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		Password:     cfg.Password,
	}
	s := &Sink{
		logger:    logger.With("viiper", cfg.Addr),
		transport: apiclient.NewTransportWithConfig(cfg.Addr, tcfg),
	}
	busID, err := s.resolveBus(ctx, cfg.BusID)
	if err != nil {
		return nil, err
	}
	dev, err := call[device](ctx, s.transport, "bus/{id}/add", deviceCreate{Type: "mouse"},
		map[string]string{"id": strconv.FormatUint(uint64(busID), 10)})
	if err != nil {
		return nil, fmt.Errorf("add mouse to bus %d: %w", busID, err)
	}
	s.busID, s.devID = dev.BusID, dev.DevID

	conn, err := s.transport.Dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect stream: %w", err)
	}
	if _, err := fmt.Fprintf(conn, "bus/%d/%s\x00", s.busID, s.devID); err != nil {
		conn.Close()
		return nil, fmt.Errorf("open stream: %w", err)
	}
	s.conn = conn
	s.logger.Info("VIIPER mouse attached", "busId", s.busID, "devId", s.devID)
	return s, nil
}

func (s *Sink) resolveBus(ctx context.Context, want uint32) (uint32, error) {
	if want != 0 {
		return want, nil
	}
	list, err := call[busList](ctx, s.transport, "bus/list", nil, nil)
	if err != nil {
		return 0, fmt.Errorf("list buses: %w", err)
	}
	if len(list.Buses) > 0 {
		return list.Buses[0], nil
	}
	created, err := call[busCreate](ctx, s.transport, "bus/create", nil, nil)
	if err != nil {
		return 0, fmt.Errorf("create bus: %w", err)
	}
	s.logger.Info("Created VIIPER bus", "busId", created.BusID)
	return created.BusID, nil
}

func call[T any](ctx context.Context, t *apiclient.Transport, path string, payload any, params map[string]string) (*T, error) {
	line, err := t.DoCtx(ctx, path, payload, params)
	if err != nil {
		return nil, err
	}
	return apiclient.Parse[T](line)
}

// Device returns the bus and device id the mouse was attached as.
func (s *Sink) Device() (uint32, string) { return s.busID, s.devID }

func (s *Sink) ReportRelative(axis motion.Axis, value int16, final bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return ErrClosed
	}
	if !s.pending.add(axis, value) {
		return fmt.Errorf("viiper: unsupported axis %s", axis)
	}
	if !final {
		return nil
	}
	r := s.pending
	s.pending = Report{}
	if r.empty() {
		return nil
	}
	b, _ := r.MarshalBinary()
	if _, err := s.conn.Write(b); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Close ends the stream; VIIPER removes the mouse after its disconnect
// timeout.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}
