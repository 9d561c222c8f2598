package led

import (
	"errors"
	"fmt"

	"github.com/coreman2200/funtimes-povring/internal/pov"
)

var ErrColumnTooLong = errors.New("led: column longer than the arm")

func (a Arm) validate() error {
	if a.Count <= 0 {
		return fmt.Errorf("invalid LED count: %d", a.Count)
	}
	if a.Used <= 0 || a.Used > a.Count {
		return fmt.Errorf("invalid radial resolution %d for %d LEDs", a.Used, a.Count)
	}
	return nil
}

// staged is the per-strip frame every transport fills before encoding.
type staged struct {
	arm   Arm
	frame []pov.Pixel
}

func newStaged(arm Arm) staged {
	return staged{arm: arm, frame: make([]pov.Pixel, arm.Count)}
}

func (s *staged) stage(px []pov.Pixel) error {
	if len(px) > s.arm.Used {
		return fmt.Errorf("%w: %d > %d", ErrColumnTooLong, len(px), s.arm.Used)
	}
	s.blank()
	s.arm.Place(s.frame, px)
	return nil
}

func (s *staged) blank() {
	for i := range s.frame {
		s.frame[i] = pov.Pixel{}
	}
}

// scale folds the per-pixel brightness into a channel for strips without a brightness field.
func scale(v uint8, b float32) uint8 {
	if b >= 1 {
		return v
	}
	if b <= 0 {
		return 0
	}
	return uint8(float32(v)*b + 0.5)
}
