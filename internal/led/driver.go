// Package led moves precomputed columns onto a physical strip. The display loop only sees Strip;
// each transport owns its own frame buffer and wire format.
package led

import "github.com/coreman2200/funtimes-povring/internal/pov"

// Strip abstracts an LED output sink.
type Strip interface {
	// Write stages one column, hub first. len(px) must not exceed the arm's used LEDs.
	Write(px []pov.Pixel) error
	// Flush transmits the staged frame to the hardware.
	Flush() error
	// Close blanks the strip and releases the bus.
	Close() error
}

const (
	DriverDotStar = "dotstar"
	DriverAPA102  = "apa102"
	DriverNRZ     = "nrz"
	DriverWS281x  = "ws281x"
	DriverConsole = "console"
	DriverSim     = "sim"
)

var drivers = []string{DriverDotStar, DriverAPA102, DriverNRZ, DriverWS281x, DriverConsole, DriverSim}

func Drivers() []string { return append([]string(nil), drivers...) }

func KnownDriver(name string) bool {
	for _, d := range drivers {
		if d == name {
			return true
		}
	}
	return false
}
