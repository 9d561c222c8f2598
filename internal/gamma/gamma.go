// Package gamma builds the 256-entry lookup table that maps raw 8-bit channel values to
// perceptually corrected, brightness-scaled LED values.
package gamma

import (
	"errors"
	"fmt"
	"math"
)

// DefaultExponent makes mid-range colors look right on DotStar/NeoPixel strips.
const DefaultExponent = 2.7

var (
	ErrBrightness = errors.New("gamma: brightness must be within [0,1]")
	ErrExponent   = errors.New("gamma: exponent must be positive")
)

// Table maps an input channel value (index) to its corrected output value.
type Table [256]uint8

// Build computes T[i] = round(255 * brightness * (i/255)^exponent), rounding half up.
func Build(brightness, exponent float64) (Table, error) {
	var t Table
	if math.IsNaN(brightness) || brightness < 0 || brightness > 1 {
		return t, fmt.Errorf("%w: got %v", ErrBrightness, brightness)
	}
	if math.IsNaN(exponent) || exponent <= 0 {
		return t, fmt.Errorf("%w: got %v", ErrExponent, exponent)
	}
	for i := range t {
		v := math.Pow(float64(i)/255.0, exponent)*brightness*255.0 + 0.5
		t[i] = uint8(math.Min(255, v))
	}
	return t, nil
}

// MustBuild is Build for compile-time constant inputs.
func MustBuild(brightness, exponent float64) Table {
	t, err := Build(brightness, exponent)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) Apply(v uint8) uint8 { return t[v] }
