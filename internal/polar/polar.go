// Package polar resamples the rectangular column buffer into the angle×radius buffer shown by
// the spinning arm, using inverse mapping from each polar cell back into the source.
package polar

import (
	"errors"
	"fmt"
	"image"

	"github.com/coreman2200/funtimes-povring/internal/column"
	"github.com/coreman2200/funtimes-povring/internal/pov"
)

var ErrOutOfBounds = errors.New("polar: source coordinate out of bounds")

// OutOfBoundsError reports the first polar cell whose source lies outside the column buffer.
type OutOfBoundsError struct {
	Angle, Radius int
	X, Y          int
	Width, Height int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("polar: cell (angle %d, radius %d) maps to (%d,%d) outside %dx%d source",
		e.Angle, e.Radius, e.X, e.Y, e.Width, e.Height)
}

func (e *OutOfBoundsError) Unwrap() error { return ErrOutOfBounds }

// Buffer holds Angles rows of Radii pixels: index angle*Radii + radius.
type Buffer struct {
	Angles int
	Radii  int
	Cells  []pov.Pixel
}

func NewBuffer(angles, radii int) *Buffer {
	return &Buffer{Angles: angles, Radii: radii, Cells: make([]pov.Pixel, angles*radii)}
}

// Row is the column shown at angular step a, hub first. It aliases the buffer.
func (b *Buffer) Row(a int) []pov.Pixel { return b.Cells[a*b.Radii : (a+1)*b.Radii] }

func (b *Buffer) At(a, r int) pov.Pixel { return b.Cells[a*b.Radii+r] }

func (b *Buffer) Equal(o *Buffer) bool {
	if b.Angles != o.Angles || b.Radii != o.Radii || len(b.Cells) != len(o.Cells) {
		return false
	}
	for i := range b.Cells {
		if b.Cells[i] != o.Cells[i] {
			return false
		}
	}
	return true
}

// CheckCoverage fails when a w×h source cannot serve every cell without the bounds policy.
func CheckCoverage(g Geometry, w, h int) error {
	for a := 0; a < g.Angles; a++ {
		for r := 0; r < g.Radii; r++ {
			x, y := g.Locate(a, r)
			if x < 0 || x >= w || y < 0 || y >= h {
				return &OutOfBoundsError{Angle: a, Radius: r, X: x, Y: y, Width: w, Height: h}
			}
		}
	}
	return nil
}

// Resample builds the polar buffer from col. Under BoundsReject nothing is returned unless
// every cell resolves inside col.
func Resample(col *column.Buffer, g Geometry) (*Buffer, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if col.Width == 0 || col.Height == 0 {
		return nil, fmt.Errorf("%w: empty %dx%d source", ErrOutOfBounds, col.Width, col.Height)
	}
	out := NewBuffer(g.Angles, g.Radii)
	for a := 0; a < g.Angles; a++ {
		row := out.Row(a)
		for r := range row {
			fx, fy := g.Locate(a, r)
			x, y, ok := g.resolve(fx, fy, col.Width, col.Height)
			if !ok {
				return nil, &OutOfBoundsError{Angle: a, Radius: r, X: fx, Y: fy, Width: col.Width, Height: col.Height}
			}
			row[r] = col.At(x, y)
		}
	}
	return out, nil
}

// RequiredSize is the smallest source (anchored at 0,0) that needs no bounds policy,
// or an empty rectangle if the disk reaches negative coordinates.
func RequiredSize(g Geometry) image.Rectangle {
	e := g.Extent()
	if e.Min.X < 0 || e.Min.Y < 0 {
		return image.Rectangle{}
	}
	return image.Rect(0, 0, e.Max.X, e.Max.Y)
}

// Outside counts the cells whose raw source coordinate misses a w×h source.
func Outside(g Geometry, w, h int) int {
	n := 0
	for a := 0; a < g.Angles; a++ {
		for r := 0; r < g.Radii; r++ {
			x, y := g.Locate(a, r)
			if x < 0 || x >= w || y < 0 || y >= h {
				n++
			}
		}
	}
	return n
}
