// Package pattern generates bring-up images so the ring can be checked without an image file.
// An image path of the form "pattern:<kind>[:arg]" selects one.
package pattern

import (
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
)

const Prefix = "pattern:"

type Kind string

const (
	Solid  Kind = "solid"  // pattern:solid:ff0000
	Rings  Kind = "rings"  // concentric red/green/blue rings
	Wedges Kind = "wedges" // 12 colored angular wedges
	RGB    Kind = "rgb"    // vertical thirds, red/green/blue
)

// Is reports whether path names a built-in pattern.
func Is(path string) bool { return strings.HasPrefix(path, Prefix) }

// Parse builds the size×size image described by spec.
func Parse(spec string, size int) (image.Image, error) {
	if !Is(spec) {
		return nil, fmt.Errorf("not a pattern: %q", spec)
	}
	if size <= 0 {
		return nil, fmt.Errorf("invalid pattern size: %d", size)
	}
	parts := strings.SplitN(strings.TrimPrefix(spec, Prefix), ":", 2)
	switch Kind(parts[0]) {
	case Solid:
		c := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
		if len(parts) == 2 {
			var err error
			if c, err = parseHex(parts[1]); err != nil {
				return nil, err
			}
		}
		return fill(size, func(x, y int) color.NRGBA { return c }), nil
	case Rings:
		return rings(size), nil
	case Wedges:
		return wedges(size), nil
	case RGB:
		return fill(size, func(x, y int) color.NRGBA {
			switch 3 * x / size {
			case 0:
				return color.NRGBA{R: 255, A: 255}
			case 1:
				return color.NRGBA{G: 255, A: 255}
			default:
				return color.NRGBA{B: 255, A: 255}
			}
		}), nil
	default:
		return nil, fmt.Errorf("unknown pattern: %q", parts[0])
	}
}

func parseHex(s string) (color.NRGBA, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "#"))
	if err != nil || len(b) != 3 {
		return color.NRGBA{}, fmt.Errorf("bad color %q: want rrggbb", s)
	}
	return color.NRGBA{R: b[0], G: b[1], B: b[2], A: 255}, nil
}

func fill(size int, f func(x, y int) color.NRGBA) *image.NRGBA {
	im := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			im.SetNRGBA(x, y, f(x, y))
		}
	}
	return im
}

var ringColors = []color.NRGBA{
	{R: 255, A: 255},
	{G: 255, A: 255},
	{B: 255, A: 255},
}

func rings(size int) *image.NRGBA {
	c := float64(size) / 2
	band := math.Max(1, c/8)
	return fill(size, func(x, y int) color.NRGBA {
		d := math.Hypot(float64(x)-c, float64(y)-c)
		return ringColors[int(d/band)%len(ringColors)]
	})
}

func wedges(size int) *image.NRGBA {
	c := float64(size) / 2
	return fill(size, func(x, y int) color.NRGBA {
		a := math.Atan2(c-float64(y), float64(x)-c)
		if a < 0 {
			a += 2 * math.Pi
		}
		n := int(a / (2 * math.Pi) * 12)
		h := float64(n%12) / 12
		return hue(h)
	})
}

// hue returns a fully saturated color on the wheel, h in [0,1).
func hue(h float64) color.NRGBA {
	h *= 6
	switch {
	case h < 1.:
		return color.NRGBA{R: 255, G: byte(255 * h), A: 255}
	case h < 2.:
		return color.NRGBA{R: byte(255 * (2 - h)), G: 255, A: 255}
	case h < 3.:
		return color.NRGBA{G: 255, B: byte(255 * (h - 2)), A: 255}
	case h < 4.:
		return color.NRGBA{G: byte(255 * (4 - h)), B: 255, A: 255}
	case h < 5.:
		return color.NRGBA{R: byte(255 * (h - 4)), B: 255, A: 255}
	default:
		return color.NRGBA{R: 255, B: byte(255 * (6 - h)), A: 255}
	}
}
