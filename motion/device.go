package motion

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Phase is the scheduler state of a Device.
type Phase uint8

const (
	// PhaseArmed waits for an interrupt or the poll timer.
	PhaseArmed Phase = iota
	PhaseProcessing
	PhaseIdle
)

func (p Phase) String() string {
	switch p {
	case PhaseArmed:
		return "armed"
	case PhaseProcessing:
		return "processing"
	case PhaseIdle:
		return "idle"
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// Options carries the collaborators of a Device.
type Options struct {
	Sensor Sensor
	Sink   Sink
	Line   Line
	// Layers is required when the switch method is SwitchLayer.
	Layers LayerProvider
	// Clock defaults to SystemClock.
	Clock  Clock
	Logger *slog.Logger
}

// Status is a point-in-time snapshot of a Device.
type Status struct {
	Name string
	// Mode is the toggle-selected mode.
	Mode Mode
	// Resolved is the mode the next cycle would use.
	Resolved        Mode
	Phase           Phase
	CPI             uint16
	Idle            bool
	Ready           bool
	LastActivity    time.Time
	Cycles          uint64
	Reports         uint64
	TransportErrors uint64
}

type runtimeState struct {
	mode         Mode
	cpi          uint16
	primary      Accumulator
	secondary    Accumulator
	idle         bool
	phase        Phase
	lastActivity time.Time

	cycles          uint64
	reports         uint64
	transportErrors uint64
}

// Device drives one sensor. HandleInterrupt is the interrupt entry point;
// all sensor I/O happens on a single worker goroutine started by Start.
type Device struct {
	name   string
	cfg    Config
	sensor Sensor
	sink   Sink
	line   Line
	layers LayerProvider
	clock  Clock
	logger *slog.Logger

	cycleWork work
	idleWork  work
	pollTimer Timer
	idleTimer Timer

	ready     atomic.Bool
	started   atomic.Bool
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once

	mu    sync.Mutex
	state runtimeState
}

// New validates cfg and returns a stopped device in ModeMove.
func New(name string, cfg Config, o Options) (*Device, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch {
	case o.Sensor == nil:
		return nil, &ConfigError{Field: "sensor", Reason: "required"}
	case o.Sink == nil:
		return nil, &ConfigError{Field: "sink", Reason: "required"}
	case o.Line == nil:
		return nil, &ConfigError{Field: "line", Reason: "required"}
	case cfg.SwitchMethod == SwitchLayer && o.Layers == nil:
		return nil, &ConfigError{Field: "layers", Reason: "required for layer switching"}
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("device", name)
	for _, w := range cfg.Warnings() {
		logger.Warn("Config: " + w)
	}
	if !cfg.Rotation.Valid() {
		cfg.Rotation = Rotation0
	}
	cfg.PollInterval = cfg.pollInterval()
	clock := o.Clock
	if clock == nil {
		clock = SystemClock
	}
	return &Device{
		name:      name,
		cfg:       cfg,
		sensor:    o.Sensor,
		sink:      o.Sink,
		line:      o.Line,
		layers:    o.Layers,
		clock:     clock,
		logger:    logger,
		cycleWork: newWork(),
		idleWork:  newWork(),
		done:      make(chan struct{}),
		state:     runtimeState{mode: ModeMove},
	}, nil
}

func (d *Device) Name() string { return d.name }

// Start arms the timers, enables the interrupt line and launches the worker.
// The worker stops when ctx is canceled or Close is called.
func (d *Device) Start(ctx context.Context) error {
	if !d.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	ctx, d.cancel = context.WithCancel(ctx)

	d.pollTimer = d.clock.AfterFunc(d.cfg.PollInterval, func() { d.cycleWork.submit() })
	d.pollTimer.Stop()
	if d.cfg.IdleTimeout > 0 {
		d.idleTimer = d.clock.AfterFunc(d.cfg.IdleTimeout, func() { d.idleWork.submit() })
	}

	d.mu.Lock()
	d.state.lastActivity = d.clock.Now()
	d.state.phase = PhaseArmed
	d.mu.Unlock()

	// Ready before enabling: the line may call HandleInterrupt from
	// EnableInterrupt when motion is already latched.
	d.ready.Store(true)
	if err := d.line.EnableInterrupt(); err != nil {
		d.ready.Store(false)
		d.stopTimers()
		d.cancel()
		close(d.done)
		return fmt.Errorf("enable interrupt: %w", err)
	}
	go d.run(ctx)
	d.logger.Info("Device started", "switch", d.cfg.SwitchMethod, "rotation", uint16(d.cfg.Rotation))
	return nil
}

// Close stops the worker and disables the interrupt line. It is safe to
// call more than once.
func (d *Device) Close() error {
	if !d.started.Load() {
		return nil
	}
	var err error
	d.closeOnce.Do(func() {
		d.ready.Store(false)
		d.cancel()
		<-d.done
		d.stopTimers()
		if e := d.line.DisableInterrupt(); e != nil {
			err = fmt.Errorf("disable interrupt: %w", e)
			return
		}
		d.logger.Info("Device stopped")
	})
	return err
}

// HandleInterrupt is called by the platform on an active edge of the motion
// line. It never blocks and performs no sensor I/O.
func (d *Device) HandleInterrupt() {
	if !d.ready.Load() {
		return
	}
	_ = d.line.DisableInterrupt()
	d.pollTimer.Stop()
	d.cycleWork.submit()
}

// Toggle applies t to the persisted mode.
func (d *Device) Toggle(t Toggle) (Mode, error) {
	if !d.ready.Load() {
		return ModeMove, ErrNotReady
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	next, err := t.Apply(d.state.mode)
	if err != nil {
		d.logger.Debug("Toggle ignored", "toggle", t, "mode", d.state.mode, "error", err)
		return d.state.mode, err
	}
	d.logger.Info("Mode switched", "toggle", t, "from", d.state.mode, "to", next)
	d.state.mode = next
	return next, nil
}

// Mode returns the toggle-selected mode.
func (d *Device) Mode() Mode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.mode
}

func (d *Device) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Status{
		Name:            d.name,
		Mode:            d.state.mode,
		Resolved:        Resolve(&d.cfg, d.state.mode, d.layers),
		Phase:           d.state.phase,
		CPI:             d.state.cpi,
		Idle:            d.state.idle,
		Ready:           d.ready.Load(),
		LastActivity:    d.state.lastActivity,
		Cycles:          d.state.cycles,
		Reports:         d.state.reports,
		TransportErrors: d.state.transportErrors,
	}
}

func (d *Device) run(ctx context.Context) {
	defer close(d.done)
	for {
		select {
		case <-ctx.Done():
			d.ready.Store(false)
			return
		case <-d.cycleWork:
			d.runCycle()
		case <-d.idleWork:
			d.runIdle()
		}
	}
}

func (d *Device) runCycle() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state.idle {
		d.wakeLocked()
		return
	}
	d.state.phase = PhaseProcessing
	d.state.cycles++

	moving, err := d.sensor.Motion()
	if err != nil {
		d.transportFailureLocked("read motion status", err)
		return
	}
	if !moving {
		d.armInterruptLocked()
		return
	}
	dx, dy, err := d.sensor.ReadDelta()
	if err != nil {
		d.transportFailureLocked("read motion delta", err)
		return
	}
	d.recordActivityLocked()

	mode := Resolve(&d.cfg, d.state.mode, d.layers)
	d.applyCPILocked(mode)
	if err := d.dispatchLocked(mode, dx, dy); err != nil {
		d.logger.Warn("Dispatch failed", "mode", mode, "error", err)
	}

	d.state.phase = PhaseArmed
	d.pollTimer.Reset(d.cfg.PollInterval)
}

func (d *Device) runIdle() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state.idle || d.idleTimer == nil {
		return
	}
	if d.clock.Now().Sub(d.state.lastActivity) < d.cfg.IdleTimeout {
		return
	}
	_ = d.line.DisableInterrupt()
	d.pollTimer.Stop()
	d.cycleWork.cancel()
	if d.cfg.SleepOnIdle {
		if err := d.sensor.Suspend(); err != nil {
			d.logger.Warn("Failed to suspend sensor", "error", err)
		}
	}
	d.state.idle = true
	d.state.phase = PhaseIdle
	if wl, ok := d.line.(WakeLine); ok {
		if err := wl.ArmWake(); err != nil {
			d.logger.Warn("Failed to arm wake source", "error", err)
		}
	}
	d.logger.Info("Device idle", "after", d.cfg.IdleTimeout)
}

func (d *Device) wakeLocked() {
	d.state.idle = false
	d.state.phase = PhaseArmed
	if d.cfg.SleepOnIdle {
		if err := d.sensor.Resume(); err != nil {
			d.logger.Warn("Failed to resume sensor", "error", err)
		}
	}
	if err := d.line.EnableInterrupt(); err != nil {
		d.logger.Error("Failed to enable interrupt", "error", err)
	}
	d.recordActivityLocked()
	d.cycleWork.submit()
	d.logger.Info("Device woke from idle")
}

func (d *Device) recordActivityLocked() {
	d.state.lastActivity = d.clock.Now()
	if d.idleTimer != nil {
		d.idleTimer.Reset(d.cfg.IdleTimeout)
	}
}

func (d *Device) armInterruptLocked() {
	d.state.phase = PhaseArmed
	if err := d.line.EnableInterrupt(); err != nil {
		d.logger.Error("Failed to enable interrupt", "error", err)
	}
}

func (d *Device) transportFailureLocked(op string, err error) {
	d.state.transportErrors++
	d.logger.Error("Sensor transport failed", "op", op, "error", err)
	d.armInterruptLocked()
}

func (d *Device) applyCPILocked(mode Mode) {
	target := d.cfg.CPI
	if mode.IsSnipe() {
		target = d.cfg.snipeCPI()
	}
	if target == 0 || target == d.state.cpi {
		return
	}
	if err := d.sensor.SetCPI(target); err != nil {
		d.logger.Warn("Failed to set CPI", "cpi", target, "keeping", d.state.cpi, "error", err)
		return
	}
	d.logger.Debug("CPI changed", "from", d.state.cpi, "to", target, "mode", mode)
	d.state.cpi = target
}

type report struct {
	axis  Axis
	value int16
}

func (d *Device) dispatchLocked(mode Mode, dx, dy int16) error {
	c := &d.cfg
	var reports []report
	switch mode {
	case ModeMove:
		reports = []report{{AxisX, dx}, {AxisY, dy}}
	case ModeSnipe:
		div := divisor(c.SnipeDivisor)
		reports = []report{{AxisX, dx / div}, {AxisY, dy / div}}
	case ModeScroll:
		reports = d.scrollLocked(&d.state.primary, ScrollAxis(dx, dy, c.Rotation), c.ScrollTick, AxisWheel)
	case ModeScrollHorizontal:
		reports = d.scrollLocked(&d.state.primary, ScrollAxis(dx, dy, c.Rotation), c.ScrollTick, AxisHWheel)
	case ModeScrollSnipe:
		v := ScrollAxis(dx, dy, c.Rotation) / divisor(c.ScrollSnipeDivisor)
		reports = d.scrollLocked(&d.state.primary, v, c.ScrollSnipeTick, AxisWheel)
	case ModeScrollHorizontalSnipe:
		v := ScrollAxis(dx, dy, c.Rotation) / divisor(c.ScrollSnipeDivisor)
		reports = d.scrollLocked(&d.state.primary, v, c.ScrollSnipeTick, AxisHWheel)
	case ModeBothScroll:
		reports = append(
			d.scrollLocked(&d.state.secondary, HorizontalAxis(dx, dy, c.Rotation), c.ScrollTick, AxisHWheel),
			d.scrollLocked(&d.state.primary, ScrollAxis(dx, dy, c.Rotation), c.ScrollTick, AxisWheel)...,
		)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownMode, uint8(mode))
	}

	for i, r := range reports {
		if err := d.sink.ReportRelative(r.axis, r.value, i == len(reports)-1); err != nil {
			return fmt.Errorf("report %s: %w", r.axis, err)
		}
		d.state.reports++
	}
	return nil
}

func (d *Device) scrollLocked(acc *Accumulator, delta int16, threshold uint8, axis Axis) []report {
	tick, clamped := acc.Process(delta, threshold)
	if clamped {
		d.logger.Warn("Scroll accumulator saturated", "axis", axis, "value", acc.Value())
	}
	if tick == 0 {
		return nil
	}
	return []report{{axis, tick}}
}

func divisor(v uint8) int16 {
	if v == 0 {
		return 1
	}
	return int16(v)
}

func (d *Device) stopTimers() {
	if d.pollTimer != nil {
		d.pollTimer.Stop()
	}
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
}
