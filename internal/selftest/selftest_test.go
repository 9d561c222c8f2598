package selftest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-povring/internal/led"
	"github.com/coreman2200/funtimes-povring/internal/pov"
)

func TestParseKind(t *testing.T) {
	k, err := ParseKind("index_sweep")
	require.NoError(t, err)
	assert.Equal(t, IndexSweep, k)

	k, err = ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, None, k)

	_, err = ParseKind("plane_z")
	assert.Error(t, err)
}

func TestIndexSweepWalksArm(t *testing.T) {
	r := NewRunner(IndexSweep, 0.5)
	px := make([]pov.Pixel, 4)
	for i := 0; i < 4; i++ {
		require.True(t, r.Step(px))
		for j, p := range px {
			if j == i {
				assert.Equal(t, pov.Pixel{R: 255, G: 255, B: 255, Brightness: 0.5}, p)
			} else {
				assert.Equal(t, pov.Pixel{}, p)
			}
		}
	}
	assert.False(t, r.Step(px))
}

func TestRGBChannels(t *testing.T) {
	r := NewRunner(RGBTest, 1)
	px := make([]pov.Pixel, 2)
	want := []pov.Pixel{{R: 255, Brightness: 1}, {G: 255, Brightness: 1}, {B: 255, Brightness: 1}}
	for _, w := range want {
		require.True(t, r.Step(px))
		assert.Equal(t, []pov.Pixel{w, w}, px)
	}
	assert.False(t, r.Step(px))
	assert.False(t, NewRunner(None, 1).Step(px))
}

func TestRunFlushesEveryStepThenBlanks(t *testing.T) {
	sim, err := led.NewSim(led.Arm{Count: 3, Used: 3}, 10)
	require.NoError(t, err)

	require.NoError(t, Run(context.Background(), sim, 3, RGBTest, 0.5, time.Millisecond))
	assert.Equal(t, 4, sim.Flushes)
	require.Len(t, sim.Frames, 4)
	assert.Equal(t, uint8(255), sim.Frames[1][2].G)
	assert.Equal(t, make([]pov.Pixel, 3), sim.Last)
}

func TestRunStopsOnCancel(t *testing.T) {
	sim, err := led.NewSim(led.Arm{Count: 3, Used: 3}, 0)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = Run(ctx, sim, 3, IndexSweep, 0.5, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, sim.Flushes)
}
