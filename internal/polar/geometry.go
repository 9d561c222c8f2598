package polar

import (
	"fmt"
	"image"
	"math"
	"strings"
)

// Mapping selects the formula for the source row. Both are kept so the output of each can be
// compared against the intended picture on a real ring.
type Mapping int

const (
	// MappingLegacy feeds the radial index into sin() for fy, exactly as the first
	// hand-written version of this renderer did. It distorts the image away from the x axis.
	MappingLegacy Mapping = iota
	// MappingAngular feeds the angle into sin(), mirroring fx: a true polar disk.
	MappingAngular
)

func (m Mapping) String() string {
	switch m {
	case MappingLegacy:
		return "legacy"
	case MappingAngular:
		return "angular"
	default:
		return fmt.Sprintf("Mapping(%d)", int(m))
	}
}

func ParseMapping(s string) (Mapping, error) {
	switch strings.ToLower(s) {
	case "legacy", "":
		return MappingLegacy, nil
	case "angular":
		return MappingAngular, nil
	}
	return 0, fmt.Errorf("unknown mapping %q (want legacy|angular)", s)
}

// Bounds is the policy for source coordinates that fall outside the column buffer.
type Bounds int

const (
	BoundsReject Bounds = iota
	BoundsClamp
	BoundsWrap
)

func (b Bounds) String() string {
	switch b {
	case BoundsReject:
		return "reject"
	case BoundsClamp:
		return "clamp"
	case BoundsWrap:
		return "wrap"
	default:
		return fmt.Sprintf("Bounds(%d)", int(b))
	}
}

func ParseBounds(s string) (Bounds, error) {
	switch strings.ToLower(s) {
	case "reject", "":
		return BoundsReject, nil
	case "clamp":
		return BoundsClamp, nil
	case "wrap":
		return BoundsWrap, nil
	}
	return 0, fmt.Errorf("unknown bounds policy %q (want reject|clamp|wrap)", s)
}

// Geometry fixes the sweep resolution and where the disk sits in the source image.
type Geometry struct {
	Angles  int // angular steps per revolution
	Radii   int // radial steps (LEDs used on the arm)
	CenterX float64
	CenterY float64
	Radius  float64 // source pixels spanned by Radii steps
	Mapping Mapping
	Bounds  Bounds
}

// DefaultGeometry is a 360×72 sweep over a 256×256 image centered at (128,128).
func DefaultGeometry() Geometry {
	return Geometry{
		Angles:  360,
		Radii:   72,
		CenterX: 128,
		CenterY: 128,
		Radius:  128,
		Mapping: MappingLegacy,
		Bounds:  BoundsReject,
	}
}

func (g Geometry) Validate() error {
	if g.Angles <= 0 || g.Radii <= 0 {
		return fmt.Errorf("invalid sweep resolution %dx%d", g.Angles, g.Radii)
	}
	if g.Radius <= 0 || math.IsNaN(g.Radius) {
		return fmt.Errorf("invalid radius %v", g.Radius)
	}
	if g.Mapping != MappingLegacy && g.Mapping != MappingAngular {
		return fmt.Errorf("invalid mapping %v", g.Mapping)
	}
	if g.Bounds < BoundsReject || g.Bounds > BoundsWrap {
		return fmt.Errorf("invalid bounds policy %v", g.Bounds)
	}
	return nil
}

// Locate returns the unchecked source coordinate for angular step a and radial step r.
//
//	distance = (Radius/Radii) * r
//	fx = round(CenterX + distance*cos(angle))
//	fy = round(CenterY - distance*sin(angle))   angular
//	fy = round(CenterY - distance*sin(r°))      legacy
//
// round is half-to-even.
func (g Geometry) Locate(a, r int) (fx, fy int) {
	distance := g.Radius / float64(g.Radii) * float64(r)
	theta := radians(float64(a) * 360 / float64(g.Angles))
	phi := theta
	if g.Mapping == MappingLegacy {
		phi = radians(float64(r))
	}
	fx = int(math.RoundToEven(g.CenterX + distance*math.Cos(theta)))
	fy = int(math.RoundToEven(g.CenterY - distance*math.Sin(phi)))
	return fx, fy
}

// Extent is the smallest rectangle holding every coordinate Locate produces.
func (g Geometry) Extent() image.Rectangle {
	var e image.Rectangle
	for a := 0; a < g.Angles; a++ {
		for r := 0; r < g.Radii; r++ {
			x, y := g.Locate(a, r)
			p := image.Rect(x, y, x+1, y+1)
			if a == 0 && r == 0 {
				e = p
				continue
			}
			e = e.Union(p)
		}
	}
	return e
}

// resolve applies the bounds policy. ok is false only under BoundsReject.
func (g Geometry) resolve(x, y, w, h int) (int, int, bool) {
	switch g.Bounds {
	case BoundsClamp:
		return clamp(x, w), clamp(y, h), true
	case BoundsWrap:
		return wrap(x, w), wrap(y, h), true
	default:
		return x, y, x >= 0 && x < w && y >= 0 && y < h
	}
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func clamp(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
