package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-povring/internal/gamma"
	"github.com/coreman2200/funtimes-povring/internal/polar"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 72, c.Radial())

	g, err := c.Geometry()
	require.NoError(t, err)
	assert.Equal(t, polar.DefaultGeometry(), g)

	o, err := c.Order()
	require.NoError(t, err)
	assert.Equal(t, "BGR", o.String())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pov.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
image_path: wheel.png
led_count: 144
radial_resolution: 100
mapping: angular
bounds: clamp
spi:
  dev: SPI0.0
`), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "wheel.png", c.ImagePath)
	assert.Equal(t, 144, c.LEDCount)
	assert.Equal(t, 100, c.Radial())
	assert.Equal(t, "SPI0.0", c.SPI.Dev)
	// untouched keys keep their defaults
	assert.Equal(t, 360, c.AngularResolution)
	assert.Equal(t, 0.25, c.Brightness)
	require.NoError(t, c.Validate())

	g, err := c.Geometry()
	require.NoError(t, err)
	assert.Equal(t, polar.MappingAngular, g.Mapping)
	assert.Equal(t, polar.BoundsClamp, g.Bounds)
	assert.Equal(t, 100, g.Radii)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pov.yaml")
	c := Default()
	c.Reverse = true
	c.MonitorAddr = ":8080"
	require.NoError(t, Save(path, c))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("led_count: [oops"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidateRejects(t *testing.T) {
	var tests = []struct {
		name string
		mod  func(c *Config)
		is   error
	}{
		{"radial over leds", func(c *Config) { c.RadialResolution = 73 }, ErrRadialExceedsLEDs},
		{"brightness", func(c *Config) { c.Brightness = 2 }, gamma.ErrBrightness},
		{"gamma", func(c *Config) { c.Gamma = 0 }, gamma.ErrExponent},
		{"order", func(c *Config) { c.ColorOrder = "RGX" }, nil},
		{"mapping", func(c *Config) { c.Mapping = "spiral" }, nil},
		{"bounds", func(c *Config) { c.Bounds = "ignore" }, nil},
		{"driver", func(c *Config) { c.Driver = "laser" }, nil},
		{"image", func(c *Config) { c.ImagePath = " " }, nil},
		{"leds", func(c *Config) { c.LEDCount = 0 }, nil},
		{"angles", func(c *Config) { c.AngularResolution = 0 }, nil},
		{"radius", func(c *Config) { c.Radius = -1 }, nil},
		{"sweeps", func(c *Config) { c.Sweeps = -1 }, nil},
		{"pixel brightness", func(c *Config) { c.PixelBrightness = 1.5 }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mod(c)
			err := c.Validate()
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestOverlayKeepsUnsetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pov.yaml")
	require.NoError(t, os.WriteFile(path, []byte("gamma: 2.2\n"), 0644))

	c := Default()
	c.Driver = "sim"
	c.LEDCount = 30
	require.NoError(t, Overlay(path, c))
	assert.Equal(t, 2.2, c.Gamma)
	assert.Equal(t, "sim", c.Driver)
	assert.Equal(t, 30, c.LEDCount)
}

func TestValidateSelfTestAndPower(t *testing.T) {
	c := Default()
	c.SelfTest = "rgb_channels"
	c.PowerLimitAmps = 2
	require.NoError(t, c.Validate())

	c.SelfTest = "plane_z"
	c.PowerLimitAmps = -1
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plane_z")
	assert.Contains(t, err.Error(), "power_limit_amps")
}
