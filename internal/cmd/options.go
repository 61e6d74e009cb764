package cmd

import (
	"errors"
	"time"

	"github.com/Alia5/pawd/motion"
	"github.com/Alia5/pawd/sink/viiper"
)

// SensorConfig selects the PAW3222 wiring.
type SensorConfig struct {
	SPI          string `help:"SPI port name; empty selects the first port" default:"" env:"PAWD_SENSOR_SPI"`
	SPIHz        int64  `name:"spi-hz" help:"SPI clock in Hz" default:"2000000" env:"PAWD_SENSOR_SPI_HZ"`
	IRQ          string `help:"GPIO wired to the sensor motion pin" default:"GPIO25" env:"PAWD_SENSOR_IRQ"`
	IRQActiveLow bool   `name:"irq-active-low" help:"Motion pin is asserted low" default:"true" env:"PAWD_SENSOR_IRQ_ACTIVE_LOW" negatable:""`
	Power        string `help:"GPIO switching the sensor supply; empty when always powered" default:"" env:"PAWD_SENSOR_POWER"`
	ForceAwake   bool   `help:"Disable the sensor's internal sleep modes" default:"false" env:"PAWD_SENSOR_FORCE_AWAKE"`
}

// MotionConfig mirrors motion.Config as flags.
type MotionConfig struct {
	Rotation           uint16        `help:"Sensor mounting rotation (0, 90, 180, 270)" default:"0" env:"PAWD_ROTATION"`
	ScrollTick         uint8         `help:"Accumulated counts per scroll tick" default:"10" env:"PAWD_SCROLL_TICK"`
	SnipeDivisor       uint8         `help:"Divisor applied to pointer motion in snipe mode" default:"2" env:"PAWD_SNIPE_DIVISOR"`
	ScrollSnipeDivisor uint8         `help:"Divisor applied to scroll motion in scroll-snipe modes" default:"2" env:"PAWD_SCROLL_SNIPE_DIVISOR"`
	ScrollSnipeTick    uint8         `help:"Accumulated counts per scroll tick in scroll-snipe modes" default:"20" env:"PAWD_SCROLL_SNIPE_TICK"`
	CPI                uint16        `help:"Sensor CPI outside precision modes; 0 keeps the sensor default" default:"1216" env:"PAWD_CPI"`
	SnipeCPI           uint16        `help:"Sensor CPI in precision modes" default:"608" env:"PAWD_SNIPE_CPI"`
	SwitchMethod       string        `help:"How the mode is chosen" enum:"layer,toggle" default:"toggle" env:"PAWD_SWITCH_METHOD"`
	ScrollLayers       []int         `help:"Layers selecting vertical scroll" env:"PAWD_SCROLL_LAYERS"`
	SnipeLayers        []int         `help:"Layers selecting snipe" env:"PAWD_SNIPE_LAYERS"`
	ScrollHLayers      []int         `name:"scroll-horizontal-layers" help:"Layers selecting horizontal scroll" env:"PAWD_SCROLL_HORIZONTAL_LAYERS"`
	ScrollSnipeLayers  []int         `help:"Layers selecting precise vertical scroll" env:"PAWD_SCROLL_SNIPE_LAYERS"`
	ScrollHSnipeLayers []int         `name:"scroll-horizontal-snipe-layers" help:"Layers selecting precise horizontal scroll" env:"PAWD_SCROLL_HORIZONTAL_SNIPE_LAYERS"`
	BothScrollLayers   []int         `help:"Layers selecting two-axis scroll" env:"PAWD_BOTH_SCROLL_LAYERS"`
	IdleTimeout        time.Duration `help:"Inactivity before the device idles; 0 disables" default:"300s" env:"PAWD_IDLE_TIMEOUT"`
	PollInterval       time.Duration `help:"Interval between reads while motion continues" default:"15ms" env:"PAWD_POLL_INTERVAL"`
	SleepOnIdle        bool          `help:"Power the sensor down while idle" default:"false" env:"PAWD_SLEEP_ON_IDLE"`
}

func (m MotionConfig) toMotion() (motion.Config, error) {
	method, err := motion.ParseSwitchMethod(m.SwitchMethod)
	if err != nil {
		return motion.Config{}, err
	}
	cfg := motion.Config{
		Rotation:           motion.Rotation(m.Rotation),
		ScrollTick:         m.ScrollTick,
		SnipeDivisor:       m.SnipeDivisor,
		ScrollSnipeDivisor: m.ScrollSnipeDivisor,
		ScrollSnipeTick:    m.ScrollSnipeTick,
		CPI:                m.CPI,
		SnipeCPI:           m.SnipeCPI,
		SwitchMethod:       method,
		Layers: motion.Layers{
			Scroll:                m.ScrollLayers,
			Snipe:                 m.SnipeLayers,
			ScrollHorizontal:      m.ScrollHLayers,
			ScrollSnipe:           m.ScrollSnipeLayers,
			ScrollHorizontalSnipe: m.ScrollHSnipeLayers,
			BothScroll:            m.BothScrollLayers,
		},
		IdleTimeout:  m.IdleTimeout,
		PollInterval: m.PollInterval,
		SleepOnIdle:  m.SleepOnIdle,
	}
	if err := cfg.Validate(); err != nil {
		return motion.Config{}, err
	}
	return cfg, nil
}

// SinkConfig selects where reports go.
type SinkConfig struct {
	Type       string        `help:"Report destination" enum:"uinput,viiper,log" default:"uinput" env:"PAWD_SINK"`
	UinputPath string        `name:"uinput-path" help:"uinput device node" default:"/dev/uinput" env:"PAWD_UINPUT_PATH"`
	Name       string        `help:"Name of the created input device" default:"pawd trackball" env:"PAWD_SINK_NAME"`
	Viiper     viiper.Config `embed:"" prefix:"viiper."`
}

// LayerConfig selects the active-layer source used by layer switching.
type LayerConfig struct {
	Source string `help:"Where the active layer comes from" enum:"control,file" default:"control" env:"PAWD_LAYER_SOURCE"`
	File   string `help:"File holding the active layer id" default:"/run/pawd/layer" env:"PAWD_LAYER_FILE"`
}

func (l LayerConfig) validate() error {
	if l.Source == "file" && l.File == "" {
		return errors.New("layer source file needs --layer.file")
	}
	return nil
}
