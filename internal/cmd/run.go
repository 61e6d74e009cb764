package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/Alia5/pawd/internal/log"
	"github.com/Alia5/pawd/internal/server/control"
	"github.com/Alia5/pawd/internal/server/control/handler"
	"github.com/Alia5/pawd/layer"
	"github.com/Alia5/pawd/motion"
	"github.com/Alia5/pawd/sensor/paw3222"
	"github.com/Alia5/pawd/sensor/periph"
	"github.com/Alia5/pawd/sink"
	"github.com/Alia5/pawd/sink/uinput"
	"github.com/Alia5/pawd/sink/viiper"
)

// Version is reported by the ping route.
var Version = "dev"

type Run struct {
	Device  string               `help:"Name of the motion device" default:"trackball" env:"PAWD_DEVICE"`
	Sensor  SensorConfig         `embed:"" prefix:"sensor."`
	Motion  MotionConfig         `embed:"" prefix:"motion."`
	Sink    SinkConfig           `embed:"" prefix:"sink."`
	Layer   LayerConfig          `embed:"" prefix:"layer."`
	Control control.ServerConfig `embed:"" prefix:"control."`
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, trace log.RegisterTrace) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return r.StartDaemon(ctx, logger, trace)
}

// closers unwinds resources in reverse order of acquisition.
type closers []func() error

func (c *closers) add(f func() error) { *c = append(*c, f) }

func (c closers) closeAll(logger *slog.Logger) {
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](); err != nil {
			logger.Warn("Shutdown step failed", "error", err)
		}
	}
}

func (r *Run) StartDaemon(ctx context.Context, logger *slog.Logger, trace log.RegisterTrace) error {
	cfg, err := r.Motion.toMotion()
	if err != nil {
		return err
	}
	if err := r.Layer.validate(); err != nil {
		return err
	}
	devLogger := logger.With("device", r.Device)

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("init host drivers: %w", err)
	}

	var cleanup closers
	defer func() { cleanup.closeAll(logger) }()

	transport, port, err := periph.OpenSPI(r.Sensor.SPI, physic.Frequency(r.Sensor.SPIHz)*physic.Hertz, trace)
	if err != nil {
		return err
	}
	cleanup.add(port.Close)

	opts := &paw3222.Opts{Logger: devLogger}
	if r.Sensor.Power != "" {
		pin, err := periph.OpenPowerPin(r.Sensor.Power)
		if err != nil {
			return err
		}
		opts.Power = pin
	}
	sensor := paw3222.New(transport, opts)
	if err := sensor.PowerCycle(); err != nil {
		return err
	}
	if err := sensor.Configure(paw3222.Config{CPI: cfg.CPI, ForceAwake: r.Sensor.ForceAwake}); err != nil {
		return fmt.Errorf("configure sensor: %w", err)
	}

	out, err := r.openSink(ctx, devLogger)
	if err != nil {
		return err
	}
	if c, ok := out.(io.Closer); ok {
		cleanup.add(c.Close)
	}

	layers, err := r.openLayers(ctx, devLogger)
	if err != nil {
		return err
	}

	line, err := periph.OpenLine(r.Sensor.IRQ, r.Sensor.IRQActiveLow, devLogger)
	if err != nil {
		return err
	}
	cleanup.add(line.Close)

	dev, err := motion.New(r.Device, cfg, motion.Options{
		Sensor: sensor,
		Sink:   out,
		Line:   line,
		Layers: layers,
		Logger: devLogger,
	})
	if err != nil {
		return err
	}
	reg := motion.NewRegistry()
	if err := reg.Add(dev); err != nil {
		return err
	}
	cleanup.add(reg.CloseAll)

	line.Watch(dev.HandleInterrupt)
	if err := dev.Start(ctx); err != nil {
		return err
	}
	logger.Info("Motion device started", "device", r.Device, "sink", r.Sink.Type, "switch", cfg.SwitchMethod.String())

	if r.Control.Addr != "" {
		srv, err := control.New(r.Control, logger)
		if err != nil {
			return err
		}
		handler.Register(srv.Router(), Version, reg, layers)
		if err := srv.Start(); err != nil {
			return fmt.Errorf("start control API: %w", err)
		}
		cleanup.add(func() error { srv.Close(); return nil })
	}

	<-ctx.Done()
	logger.Info("Shutting down")
	return nil
}

func (r *Run) openSink(ctx context.Context, logger *slog.Logger) (motion.Sink, error) {
	switch r.Sink.Type {
	case "uinput", "":
		path := r.Sink.UinputPath
		if path == "" {
			path = uinput.DefaultPath
		}
		d, err := uinput.Open(path, r.Sink.Name, logger)
		if err != nil {
			return nil, fmt.Errorf("open uinput: %w", err)
		}
		return d, nil
	case "viiper":
		s, err := viiper.Open(ctx, r.Sink.Viiper, logger)
		if err != nil {
			return nil, fmt.Errorf("attach VIIPER mouse: %w", err)
		}
		return s, nil
	case "log":
		return sink.NewLog(logger, slog.LevelInfo), nil
	}
	return nil, fmt.Errorf("unknown sink %q", r.Sink.Type)
}

// openLayers returns the layer source. A file source is watched until ctx
// ends.
func (r *Run) openLayers(ctx context.Context, logger *slog.Logger) (motion.LayerProvider, error) {
	switch r.Layer.Source {
	case "control", "":
		return layer.NewControl(0), nil
	case "file":
		f := layer.NewFile(r.Layer.File, logger)
		go func() {
			if err := f.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Layer file watcher stopped", "error", err)
			}
		}()
		return f, nil
	}
	return nil, fmt.Errorf("unknown layer source %q", r.Layer.Source)
}
