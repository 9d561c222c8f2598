// Package display runs the persistence-of-vision loop: every angular column of the precomputed
// polar buffer is written to the strip and flushed, one full revolution per sweep.
package display

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-povring/internal/led"
	"github.com/coreman2200/funtimes-povring/internal/polar"
)

// Sweeper owns nothing but a read-only polar buffer and the strip it feeds.
type Sweeper struct {
	polar *polar.Buffer
	strip led.Strip

	// OnSweep, when set, is called after each completed revolution.
	OnSweep func(n uint64)

	sweeps atomic.Uint64
	lastNS atomic.Int64
}

func New(p *polar.Buffer, s led.Strip) (*Sweeper, error) {
	if p == nil || s == nil {
		return nil, errors.New("display: nil polar buffer or strip")
	}
	if p.Angles == 0 || p.Radii == 0 {
		return nil, fmt.Errorf("display: empty polar buffer %dx%d", p.Angles, p.Radii)
	}
	return &Sweeper{polar: p, strip: s}, nil
}

// Sweep shows every angular column once. Any strip error aborts the sweep.
func (s *Sweeper) Sweep() error {
	start := time.Now()
	for a := 0; a < s.polar.Angles; a++ {
		if err := s.strip.Write(s.polar.Row(a)); err != nil {
			return fmt.Errorf("angle %d: write: %w", a, err)
		}
		if err := s.strip.Flush(); err != nil {
			return fmt.Errorf("angle %d: flush: %w", a, err)
		}
	}
	took := time.Since(start)
	n := s.sweeps.Add(1)
	s.lastNS.Store(int64(took))
	log.Debug().Uint64("sweep", n).Dur("took", took).Msg("rotation")
	if s.OnSweep != nil {
		s.OnSweep(n)
	}
	return nil
}

// Run sweeps n times, or forever when n is 0. ctx is only checked between sweeps so the
// per-column path stays a copy plus a bus transfer.
func (s *Sweeper) Run(ctx context.Context, n int) error {
	for i := 0; n == 0 || i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Sweep(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sweeper) Sweeps() uint64 { return s.sweeps.Load() }

func (s *Sweeper) LastSweep() time.Duration { return time.Duration(s.lastNS.Load()) }
