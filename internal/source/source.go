// Package source decodes the input image into the RGB grid consumed by the column builder.
package source

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var ErrEmpty = errors.New("source: image has no pixels")

// RGB is one decoded source pixel. Alpha is dropped, not composited.
type RGB struct{ R, G, B uint8 }

// Grid is a read-only W×H array of RGB triples stored row-major (y*Width + x).
type Grid struct {
	Width  int
	Height int
	Pix    []RGB
}

func NewGrid(w, h int) *Grid {
	return &Grid{Width: w, Height: h, Pix: make([]RGB, w*h)}
}

func (g *Grid) At(x, y int) RGB { return g.Pix[y*g.Width+x] }

func (g *Grid) Set(x, y int, c RGB) { g.Pix[y*g.Width+x] = c }

// Load opens and decodes path and reports the detected format.
// Any registered format works (png, jpeg, gif, bmp, webp).
func Load(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("decode image %s: %w", path, err)
	}
	if img.Bounds().Empty() {
		return nil, format, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	return img, format, nil
}

// Fit scales img to a size×size square with Catmull-Rom resampling.
func Fit(img image.Image, size int) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// FromImage converts any image to a Grid anchored at (0,0).
func FromImage(img image.Image) *Grid {
	b := img.Bounds()
	g := NewGrid(b.Dx(), b.Dy())
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			g.Pix[y*g.Width+x] = RGB{c.R, c.G, c.B}
		}
	}
	return g
}
