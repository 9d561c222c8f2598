package column

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-povring/internal/gamma"
	"github.com/coreman2200/funtimes-povring/internal/pov"
	"github.com/coreman2200/funtimes-povring/internal/source"
)

func TestBuildMatchesTable(t *testing.T) {
	g := source.NewGrid(5, 3)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			g.Set(x, y, source.RGB{R: uint8(x * 50), G: uint8(y * 100), B: uint8(x*10 + y)})
		}
	}
	tbl := gamma.MustBuild(0.25, gamma.DefaultExponent)

	b := Build(g, tbl, pov.DefaultPixelBrightness)
	require.Equal(t, 5, b.Width)
	require.Equal(t, 3, b.Height)
	require.Len(t, b.Cells, 15)

	for x := 0; x < g.Width; x++ {
		for y := 0; y < g.Height; y++ {
			src := g.At(x, y)
			want := pov.Pixel{R: tbl[src.R], G: tbl[src.G], B: tbl[src.B], Brightness: 0.5}
			assert.Equal(t, want, b.At(x, y), "cell (%d,%d)", x, y)
		}
	}
}

func TestColumnSlice(t *testing.T) {
	g := source.NewGrid(2, 4)
	g.Set(1, 3, source.RGB{R: 255, G: 255, B: 255})
	b := Build(g, gamma.MustBuild(1, 1), 1)

	col := b.Column(1)
	assert.Len(t, col, 4)
	assert.Equal(t, pov.Pixel{R: 255, G: 255, B: 255, Brightness: 1}, col[3])
	assert.Equal(t, pov.Pixel{Brightness: 1}, b.Column(0)[3])
}
