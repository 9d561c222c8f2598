// Package selftest drives bring-up patterns straight onto the arm, before any image is shown,
// so wiring, LED count and channel order can be checked by eye.
package selftest

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-povring/internal/led"
	"github.com/coreman2200/funtimes-povring/internal/pov"
)

type Kind string

const (
	None       Kind = ""
	IndexSweep Kind = "index_sweep"  // one white LED walking hub to rim
	RGBTest    Kind = "rgb_channels" // whole arm red, then green, then blue
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case None, IndexSweep, RGBTest:
		return k, nil
	}
	return None, fmt.Errorf("unknown self-test %q (want %s or %s)", s, IndexSweep, RGBTest)
}

type Runner struct {
	kind       Kind
	step       int
	brightness float32
}

func NewRunner(k Kind, brightness float32) *Runner { return &Runner{kind: k, brightness: brightness} }

// Step fills px with the next frame; returns false when complete.
func (r *Runner) Step(px []pov.Pixel) bool {
	for i := range px {
		px[i] = pov.Pixel{}
	}
	switch r.kind {
	case IndexSweep:
		if r.step >= len(px) {
			return false
		}
		px[r.step] = pov.Pixel{R: 255, G: 255, B: 255, Brightness: r.brightness}
	case RGBTest:
		if r.step >= 3 {
			return false
		}
		var c pov.Pixel
		switch r.step {
		case 0:
			c.R = 255
		case 1:
			c.G = 255
		case 2:
			c.B = 255
		}
		c.Brightness = r.brightness
		for i := range px {
			px[i] = c
		}
	default:
		return false
	}
	r.step++
	return true
}

// Run shows every frame of k on s for hold each, then blanks the used LEDs.
func Run(ctx context.Context, s led.Strip, radii int, k Kind, brightness float32, hold time.Duration) error {
	px := make([]pov.Pixel, radii)
	r := NewRunner(k, brightness)
	t := time.NewTicker(hold)
	defer t.Stop()
	for n := 0; r.Step(px); n++ {
		if err := show(s, px); err != nil {
			return fmt.Errorf("self-test %s step %d: %w", k, n, err)
		}
		log.Debug().Str("test", string(k)).Int("step", n).Msg("self-test")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	for i := range px {
		px[i] = pov.Pixel{}
	}
	return show(s, px)
}

func show(s led.Strip, px []pov.Pixel) error {
	if err := s.Write(px); err != nil {
		return err
	}
	return s.Flush()
}
