package led

import (
	"fmt"

	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"
)

type Options struct {
	Driver     string
	Arm        Arm
	Order      Order
	SPIDev     string
	SPISpeedHz int
	GPIO       int
	DMA        int
}

// Open builds the strip named by o.Driver. Hardware drivers initialise periph first.
func Open(o Options) (Strip, error) {
	if err := o.Arm.validate(); err != nil {
		return nil, err
	}
	switch o.Driver {
	case DriverSim:
		return strip(NewSim(o.Arm, 0))
	case DriverConsole:
		return strip(NewDrawer(screen.New(o.Arm.Count), o.Arm))
	case DriverWS281x:
		return strip(OpenWS281x(o.GPIO, o.DMA, o.Arm, o.Order))
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	switch o.Driver {
	case DriverDotStar:
		return strip(OpenDotStar(o.SPIDev, o.SPISpeedHz, o.Arm, o.Order))
	case DriverAPA102:
		return strip(OpenAPA102(o.SPIDev, o.Arm, o.Order))
	case DriverNRZ:
		return strip(OpenNRZ(o.SPIDev, o.Arm, o.Order))
	default:
		return nil, fmt.Errorf("unknown driver %q", o.Driver)
	}
}

// strip keeps a typed nil out of the Strip interface.
func strip[T Strip](s T, err error) (Strip, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}
