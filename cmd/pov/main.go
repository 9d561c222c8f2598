package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-povring/internal/config"
	"github.com/coreman2200/funtimes-povring/internal/display"
	"github.com/coreman2200/funtimes-povring/internal/led"
	"github.com/coreman2200/funtimes-povring/internal/monitor"
	"github.com/coreman2200/funtimes-povring/internal/pipeline"
	"github.com/coreman2200/funtimes-povring/internal/pov"
	"github.com/coreman2200/funtimes-povring/internal/preview"
	"github.com/coreman2200/funtimes-povring/internal/selftest"
)

const selfTestHold = 500 * time.Millisecond

func main() {
	def := config.Default()

	// ---- Flags (config.yaml overrides any key it sets) ----
	var (
		imagePath  = flag.String("image", def.ImagePath, "image file, or pattern:solid[:rrggbb] | pattern:rings | pattern:wedges | pattern:rgb")
		fit        = flag.Bool("fit", def.Fit, "scale the image to cover the whole disk")
		leds       = flag.Int("leds", def.LEDCount, "LEDs on the arm")
		angles     = flag.Int("angles", def.AngularResolution, "angular steps per revolution")
		radii      = flag.Int("radii", def.RadialResolution, "radial steps (0 = leds)")
		reverse    = flag.Bool("reverse", def.Reverse, "arm is wired rim first")
		colorOrder = flag.String("color", def.ColorOrder, "wire color order (RGB, GRB, BGR, ...)")
		brightness = flag.Float64("brightness", def.Brightness, "gamma table brightness 0..1")
		pixelB     = flag.Float64("pixel-brightness", def.PixelBrightness, "per-pixel brightness 0..1")
		gammaExp   = flag.Float64("gamma", def.Gamma, "gamma exponent")
		mapping    = flag.String("mapping", def.Mapping, "polar mapping: legacy | angular")
		bounds     = flag.String("bounds", def.Bounds, "out-of-image cells: reject | clamp | wrap")
		driver     = flag.String("driver", def.Driver, "driver: "+strings.Join(led.Drivers(), " | "))
		spiDev     = flag.String("spi-dev", def.SPI.Dev, "SPI port name (empty = first)")
		spiHz      = flag.Int("spi-hz", def.SPI.SpeedHz, "SPI clock for dotstar")
		selfTest   = flag.String("selftest", def.SelfTest, "run a bring-up pattern first: index_sweep | rgb_channels")
		powerLimit = flag.Float64("power-limit", def.PowerLimitAmps, "warn when a column draws more amps (0 = off)")
		sweeps     = flag.Int("sweeps", def.Sweeps, "revolutions to show (0 = forever)")
		addr       = flag.String("addr", def.MonitorAddr, "monitor listen address (empty = off)")
		level      = flag.String("log-level", def.LogLevel, "log level")
		configPath = flag.String("config", "config.yaml", "path to config.yaml")
		previewOut = flag.String("preview", "", "write a PNG of the polar buffer and exit")
		simOnly    = flag.Bool("sim-only", false, "force simulation (no hardware output)")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	cfg := def
	cfg.ImagePath, cfg.Fit = *imagePath, *fit
	cfg.LEDCount, cfg.AngularResolution, cfg.RadialResolution = *leds, *angles, *radii
	cfg.Reverse, cfg.ColorOrder = *reverse, *colorOrder
	cfg.Brightness, cfg.PixelBrightness, cfg.Gamma = *brightness, *pixelB, *gammaExp
	cfg.Mapping, cfg.Bounds = *mapping, *bounds
	cfg.Driver, cfg.SPI.Dev, cfg.SPI.SpeedHz = *driver, *spiDev, *spiHz
	cfg.SelfTest, cfg.PowerLimitAmps = *selfTest, *powerLimit
	cfg.Sweeps, cfg.MonitorAddr, cfg.LogLevel = *sweeps, *addr, *level

	// ---- Load config.yaml (optional) ----
	if err := config.Overlay(*configPath, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debug().Str("path", *configPath).Msg("no config file; using flags")
		} else {
			log.Fatal().Err(err).Str("path", *configPath).Msg("config load failed")
		}
	}
	if *simOnly {
		cfg.Driver = led.DriverSim
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level; using info")
	} else {
		zerolog.SetGlobalLevel(lvl)
	}

	// ---- Precompute (no hardware touched yet) ----
	status := &pipeline.Status{}
	res, err := pipeline.Precompute(cfg, status)
	if err != nil {
		log.Fatal().Err(err).Msg("precompute failed")
	}
	for _, d := range res.Diagnostics {
		d.Log(log.Logger)
	}

	if *previewOut != "" {
		img, err := preview.Render(res.Polar, res.Geometry)
		if err != nil {
			log.Fatal().Err(err).Msg("preview failed")
		}
		if err := preview.WritePNG(*previewOut, img); err != nil {
			log.Fatal().Err(err).Msg("preview failed")
		}
		log.Info().Str("path", *previewOut).Str("mapping", res.Geometry.Mapping.String()).Msg("preview written")
		return
	}

	if err := show(cfg, res, status); err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Driver).Msg("display failed")
	}
}

// show opens the strip and sweeps until done or interrupted; the strip is blanked and closed
// on every path out.
func show(cfg *config.Config, res *pipeline.Result, status *pipeline.Status) error {
	// ---- Strip ----
	order, err := cfg.Order()
	if err != nil {
		return err
	}
	s, err := led.Open(led.Options{
		Driver:     cfg.Driver,
		Arm:        cfg.Arm(),
		Order:      order,
		SPIDev:     cfg.SPI.Dev,
		SPISpeedHz: cfg.SPI.SpeedHz,
		GPIO:       cfg.WS281x.GPIO,
		DMA:        cfg.WS281x.DMA,
	})
	if err != nil {
		return fmt.Errorf("strip init: %w", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Warn().Err(err).Msg("strip close")
		}
	}()

	sw, err := display.New(res.Polar, s)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- Self-test (optional) ----
	if k, _ := selftest.ParseKind(cfg.SelfTest); k != selftest.None {
		log.Info().Str("test", string(k)).Msg("self-test")
		err := selftest.Run(ctx, s, res.Polar.Radii, k, float32(cfg.PixelBrightness), selfTestHold)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			return err
		}
	}

	// ---- Monitor (optional) ----
	if cfg.MonitorAddr != "" {
		mon := monitor.New(res, cfg.Driver, status)
		mon.SetProgress(sw)
		srv := &http.Server{
			Addr:         cfg.MonitorAddr,
			Handler:      mon.Handler(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go mon.Run(ctx, time.Second)
		go func() {
			log.Info().Str("addr", cfg.MonitorAddr).Msg("monitor starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("monitor server crashed")
			}
		}()
		defer func() {
			mon.Close()
			_ = srv.Close()
		}()
	}

	// ---- Display ----
	status.Set(pov.StageDisplaying)
	log.Info().Str("driver", cfg.Driver).Int("angles", res.Polar.Angles).Int("radii", res.Polar.Radii).
		Int("sweeps", cfg.Sweeps).Msg("displaying")
	err = sw.Run(ctx, cfg.Sweeps)
	if errors.Is(err, context.Canceled) {
		log.Info().Uint64("sweeps", sw.Sweeps()).Msg("shutting down")
		return nil
	}
	if err != nil {
		return fmt.Errorf("after %d sweeps: %w", sw.Sweeps(), err)
	}
	log.Info().Uint64("sweeps", sw.Sweeps()).Msg("done")
	return nil
}
