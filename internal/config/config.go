package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-povring/internal/gamma"
	"github.com/coreman2200/funtimes-povring/internal/led"
	"github.com/coreman2200/funtimes-povring/internal/polar"
	"github.com/coreman2200/funtimes-povring/internal/pov"
	"github.com/coreman2200/funtimes-povring/internal/selftest"
)

var ErrRadialExceedsLEDs = errors.New("radial resolution exceeds LED count")

type SPI struct {
	Dev     string `yaml:"dev"`      // "" picks the first port periph finds
	SpeedHz int    `yaml:"speed_hz"` // e.g. 8000000 for DotStar
}

type WS281x struct {
	GPIO int `yaml:"gpio"`
	DMA  int `yaml:"dma"`
}

type Config struct {
	ImagePath string `yaml:"image_path"` // file path or "pattern:<kind>"
	Fit       bool   `yaml:"fit"`

	LEDCount          int    `yaml:"led_count"`
	AngularResolution int    `yaml:"angular_resolution"`
	RadialResolution  int    `yaml:"radial_resolution"` // 0 = led_count
	Reverse           bool   `yaml:"reverse"`           // arm wired rim first
	ColorOrder        string `yaml:"color_order"`

	Brightness      float64 `yaml:"brightness"`
	PixelBrightness float64 `yaml:"pixel_brightness"`
	Gamma           float64 `yaml:"gamma"`

	Mapping string  `yaml:"mapping"` // legacy | angular
	Bounds  string  `yaml:"bounds"`  // reject | clamp | wrap
	CenterX float64 `yaml:"center_x"`
	CenterY float64 `yaml:"center_y"`
	Radius  float64 `yaml:"radius"`

	Driver string `yaml:"driver"` // dotstar | apa102 | nrz | ws281x | console | sim
	SPI    SPI    `yaml:"spi,omitempty"`
	WS281x WS281x `yaml:"ws281x,omitempty"`

	PowerLimitAmps float64 `yaml:"power_limit_amps"` // supply budget for the arm, 0 = unchecked
	SelfTest       string  `yaml:"self_test"`        // index_sweep | rgb_channels, run before displaying

	Sweeps      int    `yaml:"sweeps"` // 0 = forever
	MonitorAddr string `yaml:"monitor_addr"`
	LogLevel    string `yaml:"log_level"`
}

// Default mirrors the 72-pixel DotStar arm this renderer was first built for.
func Default() *Config {
	return &Config{
		ImagePath:         "sized2.png",
		LEDCount:          72,
		AngularResolution: 360,
		ColorOrder:        "BGR",
		Brightness:        0.25,
		PixelBrightness:   float64(pov.DefaultPixelBrightness),
		Gamma:             gamma.DefaultExponent,
		Mapping:           polar.MappingLegacy.String(),
		Bounds:            polar.BoundsReject.String(),
		CenterX:           128,
		CenterY:           128,
		Radius:            128,
		Driver:            "dotstar",
		SPI:               SPI{SpeedHz: 8000000},
		WS281x:            WS281x{GPIO: 18, DMA: 10},
		LogLevel:          "info",
	}
}

func Load(path string) (*Config, error) {
	c := Default()
	if err := Overlay(path, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Overlay applies the keys present in the YAML file at path on top of c.
func Overlay(path string, c *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Radial is the effective radial resolution.
func (c *Config) Radial() int {
	if c.RadialResolution > 0 {
		return c.RadialResolution
	}
	return c.LEDCount
}

func (c *Config) Geometry() (polar.Geometry, error) {
	m, err := polar.ParseMapping(c.Mapping)
	if err != nil {
		return polar.Geometry{}, err
	}
	b, err := polar.ParseBounds(c.Bounds)
	if err != nil {
		return polar.Geometry{}, err
	}
	return polar.Geometry{
		Angles:  c.AngularResolution,
		Radii:   c.Radial(),
		CenterX: c.CenterX,
		CenterY: c.CenterY,
		Radius:  c.Radius,
		Mapping: m,
		Bounds:  b,
	}, nil
}

func (c *Config) Order() (led.Order, error) { return led.ParseOrder(c.ColorOrder) }

func (c *Config) Arm() led.Arm {
	return led.Arm{Count: c.LEDCount, Used: c.Radial(), Reverse: c.Reverse}
}

// Validate reports every configuration error that must stop startup.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.ImagePath) == "" {
		errs = append(errs, errors.New("image_path is empty"))
	}
	if c.LEDCount <= 0 {
		errs = append(errs, fmt.Errorf("invalid led_count: %d", c.LEDCount))
	}
	if c.AngularResolution <= 0 {
		errs = append(errs, fmt.Errorf("invalid angular_resolution: %d", c.AngularResolution))
	}
	if c.RadialResolution < 0 {
		errs = append(errs, fmt.Errorf("invalid radial_resolution: %d", c.RadialResolution))
	}
	if c.LEDCount > 0 && c.Radial() > c.LEDCount {
		errs = append(errs, fmt.Errorf("%w: %d > %d", ErrRadialExceedsLEDs, c.Radial(), c.LEDCount))
	}
	if c.Brightness < 0 || c.Brightness > 1 {
		errs = append(errs, fmt.Errorf("%w: got %v", gamma.ErrBrightness, c.Brightness))
	}
	if c.PixelBrightness < 0 || c.PixelBrightness > 1 {
		errs = append(errs, fmt.Errorf("invalid pixel_brightness: %v", c.PixelBrightness))
	}
	if c.Gamma <= 0 {
		errs = append(errs, fmt.Errorf("%w: got %v", gamma.ErrExponent, c.Gamma))
	}
	if _, err := c.Order(); err != nil {
		errs = append(errs, err)
	}
	if g, err := c.Geometry(); err != nil {
		errs = append(errs, err)
	} else if c.AngularResolution > 0 && c.Radial() > 0 {
		if err := g.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if !led.KnownDriver(c.Driver) {
		errs = append(errs, fmt.Errorf("unknown driver %q", c.Driver))
	}
	if c.PowerLimitAmps < 0 {
		errs = append(errs, fmt.Errorf("invalid power_limit_amps: %v", c.PowerLimitAmps))
	}
	if _, err := selftest.ParseKind(c.SelfTest); err != nil {
		errs = append(errs, err)
	}
	if c.Sweeps < 0 {
		errs = append(errs, fmt.Errorf("invalid sweeps: %d", c.Sweeps))
	}
	return errors.Join(errs...)
}
