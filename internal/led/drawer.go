package led

import (
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"

	"github.com/coreman2200/funtimes-povring/internal/pov"
)

// Drawer shows each column as a 1-pixel-high image on any periph display.Drawer,
// e.g. the ANSI console screen.
type Drawer struct {
	staged
	d   display.Drawer
	img *image.NRGBA
}

func NewDrawer(d display.Drawer, arm Arm) (*Drawer, error) {
	if err := arm.validate(); err != nil {
		return nil, err
	}
	return &Drawer{
		staged: newStaged(arm),
		d:      d,
		img:    image.NewNRGBA(image.Rect(0, 0, arm.Count, 1)),
	}, nil
}

func (d *Drawer) Write(px []pov.Pixel) error { return d.stage(px) }

func (d *Drawer) Flush() error {
	for x, p := range d.frame {
		d.img.SetNRGBA(x, 0, color.NRGBA{
			R: scale(p.R, p.Brightness),
			G: scale(p.G, p.Brightness),
			B: scale(p.B, p.Brightness),
			A: 255,
		})
	}
	return d.d.Draw(d.d.Bounds(), d.img, image.Point{})
}

func (d *Drawer) Close() error { return d.d.Halt() }
