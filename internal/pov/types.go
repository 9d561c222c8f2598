// Package pov holds the value types shared by the precompute pipeline and the display loop.
package pov

// DefaultPixelBrightness is the per-pixel brightness written into every buffered cell.
const DefaultPixelBrightness float32 = 0.5

// Pixel is one gamma-corrected LED value plus the per-pixel brightness scalar (0..1).
type Pixel struct {
	R, G, B    uint8
	Brightness float32
}

// Stage is the lifecycle position of a running renderer.
type Stage int32

const (
	StageLoading Stage = iota
	StagePrecomputing
	StageDisplaying
)

func (s Stage) String() string {
	switch s {
	case StageLoading:
		return "loading"
	case StagePrecomputing:
		return "precomputing"
	case StageDisplaying:
		return "displaying"
	default:
		return "unknown"
	}
}
