package led

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/apa102"
	"periph.io/x/devices/v3/nrzled"

	"github.com/coreman2200/funtimes-povring/internal/pov"
)

// rawDevice is satisfied by periph's apa102.Dev and nrzled.Dev: both take a packed RGB stream.
type rawDevice interface {
	Write(pixels []byte) (int, error)
	Halt() error
}

// Wire orders the periph drivers emit for an RGB input.
var (
	apa102Native = BGR
	nrzNative    = GRB
)

// Raw adapts a periph pixel device to Strip. The per-pixel brightness is folded into RGB.
type Raw struct {
	staged
	dev   rawDevice
	port  io.Closer
	order Order // fed to dev, already composed with the device's native order
	buf   []byte
}

func NewRaw(dev rawDevice, port io.Closer, arm Arm, order, native Order) (*Raw, error) {
	if err := arm.validate(); err != nil {
		return nil, err
	}
	return &Raw{
		staged: newStaged(arm),
		dev:    dev,
		port:   port,
		order:  order.Through(native),
		buf:    make([]byte, arm.Count*3),
	}, nil
}

// OpenAPA102 uses periph's APA102 driver, which applies its own intensity curve and
// picks the bus speed itself.
func OpenAPA102(dev string, arm Arm, order Order) (*Raw, error) {
	p, err := spireg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", dev, err)
	}
	opts := apa102.DefaultOpts
	opts.NumPixels = arm.Count
	opts.Intensity = 255
	opts.Temperature = apa102.NeutralTemp
	d, err := apa102.New(p, &opts)
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("apa102: %w", err)
	}
	return NewRaw(d, p, arm, order, apa102Native)
}

// OpenNRZ drives WS2812-class strips over SPI, 3 SPI bits per data bit.
func OpenNRZ(dev string, arm Arm, order Order) (*Raw, error) {
	p, err := spireg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", dev, err)
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: arm.Count,
		Channels:  3,
		Freq:      2500 * physic.KiloHertz,
	})
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	return NewRaw(d, p, arm, order, nrzNative)
}

func (r *Raw) Write(px []pov.Pixel) error { return r.stage(px) }

func (r *Raw) Flush() error {
	for i, p := range r.frame {
		r.order.Swizzle(r.buf[i*3:i*3+3], scale(p.R, p.Brightness), scale(p.G, p.Brightness), scale(p.B, p.Brightness))
	}
	if _, err := r.dev.Write(r.buf); err != nil {
		return fmt.Errorf("led write: %w", err)
	}
	return nil
}

func (r *Raw) Close() error {
	err := r.dev.Halt()
	if r.port != nil {
		if cerr := r.port.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
