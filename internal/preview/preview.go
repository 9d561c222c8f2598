// Package preview draws a polar buffer back onto a flat disk, approximating what the spinning
// arm shows, so mappings can be compared without hardware.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/coreman2200/funtimes-povring/internal/polar"
)

// Render returns a square image 2*ceil(radius) wide. Pixels outside the disk stay transparent.
// Brightness is not applied; colors are the gamma-corrected channel values.
func Render(p *polar.Buffer, g polar.Geometry) (*image.NRGBA, error) {
	if p == nil || p.Angles == 0 || p.Radii == 0 {
		return nil, fmt.Errorf("preview: empty polar buffer")
	}
	if g.Radius <= 0 {
		return nil, fmt.Errorf("preview: invalid radius %v", g.Radius)
	}
	side := 2 * int(math.Ceil(g.Radius))
	c := float64(side) / 2
	img := image.NewNRGBA(image.Rect(0, 0, side, side))
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			dx, dy := float64(x)+0.5-c, float64(y)+0.5-c
			d := math.Hypot(dx, dy)
			if d >= g.Radius {
				continue
			}
			r := int(d / g.Radius * float64(p.Radii))
			deg := math.Mod(math.Atan2(dy, dx)*180/math.Pi+360, 360)
			a := int(deg/360*float64(p.Angles)) % p.Angles
			px := p.At(a, r)
			img.SetNRGBA(x, y, color.NRGBA{R: px.R, G: px.G, B: px.B, A: 255})
		}
	}
	return img, nil
}

func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
