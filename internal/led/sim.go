package led

import (
	"errors"

	"github.com/coreman2200/funtimes-povring/internal/pov"
)

var ErrClosed = errors.New("led: strip closed")

// Sim is an in-memory strip. It keeps the last flushed frame and up to Keep earlier ones.
type Sim struct {
	staged
	Keep    int
	Frames  [][]pov.Pixel
	Last    []pov.Pixel
	Writes  int
	Flushes int
	Closed  bool

	// FailAt makes the n-th Flush (1-based) return FailErr.
	FailAt  int
	FailErr error
}

func NewSim(arm Arm, keep int) (*Sim, error) {
	if err := arm.validate(); err != nil {
		return nil, err
	}
	return &Sim{staged: newStaged(arm), Keep: keep, Last: make([]pov.Pixel, arm.Count)}, nil
}

func (s *Sim) Write(px []pov.Pixel) error {
	if s.Closed {
		return ErrClosed
	}
	s.Writes++
	return s.stage(px)
}

func (s *Sim) Flush() error {
	if s.Closed {
		return ErrClosed
	}
	s.Flushes++
	if s.FailAt > 0 && s.Flushes == s.FailAt {
		return s.FailErr
	}
	copy(s.Last, s.frame)
	if len(s.Frames) < s.Keep {
		s.Frames = append(s.Frames, append([]pov.Pixel(nil), s.frame...))
	}
	return nil
}

func (s *Sim) Close() error {
	s.blank()
	copy(s.Last, s.frame)
	s.Closed = true
	return nil
}
