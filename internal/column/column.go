// Package column converts the decoded source grid into the gamma-corrected rectangular buffer.
package column

import (
	"github.com/coreman2200/funtimes-povring/internal/gamma"
	"github.com/coreman2200/funtimes-povring/internal/pov"
	"github.com/coreman2200/funtimes-povring/internal/source"
)

// Buffer is a W×H array of corrected pixels, stored column-major: index x*Height + y.
type Buffer struct {
	Width  int
	Height int
	Cells  []pov.Pixel
}

func (b *Buffer) At(x, y int) pov.Pixel { return b.Cells[x*b.Height+y] }

// Column returns the cells of image column x, top to bottom.
func (b *Buffer) Column(x int) []pov.Pixel { return b.Cells[x*b.Height : (x+1)*b.Height] }

// Build applies t to every pixel of g. Each cell carries the fixed per-pixel brightness.
func Build(g *source.Grid, t gamma.Table, brightness float32) *Buffer {
	b := &Buffer{
		Width:  g.Width,
		Height: g.Height,
		Cells:  make([]pov.Pixel, g.Width*g.Height),
	}
	for x := 0; x < g.Width; x++ {
		col := b.Cells[x*g.Height : (x+1)*g.Height]
		for y := range col {
			p := g.Pix[y*g.Width+x]
			col[y] = pov.Pixel{R: t[p.R], G: t[p.G], B: t[p.B], Brightness: brightness}
		}
	}
	return b
}
