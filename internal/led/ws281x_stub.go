//go:build !ws281x || !linux

package led

import (
	"errors"

	"github.com/coreman2200/funtimes-povring/internal/pov"
)

var errNoWS281x = errors.New("ws281x driver not compiled in (build with -tags ws281x)")

type WS281x struct{}

func OpenWS281x(gpio, dma int, arm Arm, order Order) (*WS281x, error) {
	return nil, errNoWS281x
}

func (w *WS281x) Write(px []pov.Pixel) error { return errNoWS281x }
func (w *WS281x) Flush() error               { return errNoWS281x }
func (w *WS281x) Close() error               { return nil }
