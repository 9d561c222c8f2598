package led

import "github.com/coreman2200/funtimes-povring/internal/pov"

// Arm maps radial steps onto physical LEDs. Radius 0 is the hub.
type Arm struct {
	Count   int  // LEDs on the strip
	Used    int  // radial steps driven; LEDs beyond stay dark
	Reverse bool // strip data enters at the rim
}

// Index returns the physical LED for radial step r.
func (a Arm) Index(r int) int {
	if a.Reverse {
		return a.Count - 1 - r
	}
	return r
}

// Place copies px into frame (len Count) by physical index, leaving the rest untouched.
func (a Arm) Place(frame, px []pov.Pixel) {
	for r, p := range px {
		frame[a.Index(r)] = p
	}
}
