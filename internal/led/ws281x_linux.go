//go:build ws281x

package led

import (
	"fmt"

	ws2811 "github.com/rpi-ws281x/rpi-ws281x-go"

	"github.com/coreman2200/funtimes-povring/internal/pov"
)

// WS281x drives a strip from the Raspberry Pi PWM/DMA engine through librpi_ws281x.
type WS281x struct {
	staged
	dev *ws2811.WS2811
}

func stripType(o Order) int {
	switch o.String() {
	case "RGB":
		return ws2811.WS2811StripRGB
	case "RBG":
		return ws2811.WS2811StripRBG
	case "GBR":
		return ws2811.WS2811StripGBR
	case "BRG":
		return ws2811.WS2811StripBRG
	case "BGR":
		return ws2811.WS2811StripBGR
	default:
		return ws2811.WS2811StripGRB
	}
}

func OpenWS281x(gpio, dma int, arm Arm, order Order) (*WS281x, error) {
	if err := arm.validate(); err != nil {
		return nil, err
	}
	opt := ws2811.DefaultOptions
	if dma > 0 {
		opt.DmaNum = dma
	}
	opt.Channels[0].GpioPin = gpio
	opt.Channels[0].LedCount = arm.Count
	opt.Channels[0].Brightness = 255
	opt.Channels[0].StripeType = stripType(order)

	dev, err := ws2811.MakeWS2811(&opt)
	if err != nil {
		return nil, fmt.Errorf("ws2811: %w", err)
	}
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("ws2811 init: %w", err)
	}
	return &WS281x{staged: newStaged(arm), dev: dev}, nil
}

func (w *WS281x) Write(px []pov.Pixel) error { return w.stage(px) }

func (w *WS281x) Flush() error {
	leds := w.dev.Leds(0)
	for i, p := range w.frame {
		r := uint32(scale(p.R, p.Brightness))
		g := uint32(scale(p.G, p.Brightness))
		b := uint32(scale(p.B, p.Brightness))
		leds[i] = r<<16 | g<<8 | b
	}
	if err := w.dev.Render(); err != nil {
		return fmt.Errorf("ws2811 render: %w", err)
	}
	return nil
}

func (w *WS281x) Close() error {
	w.blank()
	err := w.Flush()
	w.dev.Fini()
	return err
}
