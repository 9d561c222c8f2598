package pattern

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolid(t *testing.T) {
	img, err := Parse("pattern:solid:ff0000", 8)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), img.Bounds())
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, img.At(3, 7))

	img, err = Parse("pattern:solid", 2)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, img.At(0, 0))
}

func TestRGBThirds(t *testing.T) {
	img, err := Parse("pattern:rgb", 9)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, img.At(0, 4))
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, img.At(4, 4))
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, img.At(8, 4))
}

func TestRingsCenterIsRed(t *testing.T) {
	img, err := Parse("pattern:rings", 256)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, img.At(128, 128))
	// band width is 16px: 20px out lands in the second (green) ring
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, img.At(148, 128))
}

func TestWedgesFirstIsRed(t *testing.T) {
	img, err := Parse("pattern:wedges", 256)
	require.NoError(t, err)
	// just right of and above center: angle ~0
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, img.At(200, 127))
}

func TestParseErrors(t *testing.T) {
	for _, spec := range []string{
		"rings",
		"pattern:nope",
		"pattern:solid:zz0000",
		"pattern:solid:ff00",
	} {
		_, err := Parse(spec, 16)
		assert.Error(t, err, spec)
	}
	_, err := Parse("pattern:rings", 0)
	assert.Error(t, err)
	assert.True(t, Is("pattern:rgb"))
	assert.False(t, Is("sized2.png"))
}
