package led

import (
	"fmt"
	"io"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"

	"github.com/coreman2200/funtimes-povring/internal/pov"
)

// DotStar drives APA102-class strips directly: every LED frame carries its own 5-bit
// brightness, so per-pixel brightness reaches the hardware unscaled.
type DotStar struct {
	staged
	conn  spi.Conn
	port  io.Closer
	order Order
	buf   []byte
}

// NewDotStar encodes onto an already connected SPI conn. port may be nil.
func NewDotStar(conn spi.Conn, port io.Closer, arm Arm, order Order) (*DotStar, error) {
	if err := arm.validate(); err != nil {
		return nil, err
	}
	// start frame, 4 bytes per LED, then one 0xFF per 16 LEDs (rounded up) to clock the tail out
	end := arm.Count / 16
	if arm.Count%16 != 0 {
		end++
	}
	d := &DotStar{
		staged: newStaged(arm),
		conn:   conn,
		port:   port,
		order:  order,
		buf:    make([]byte, 4+arm.Count*4+end),
	}
	for i := 4 + arm.Count*4; i < len(d.buf); i++ {
		d.buf[i] = 0xFF
	}
	return d, nil
}

// OpenDotStar opens an SPI port through periph. dev "" selects the first port.
func OpenDotStar(dev string, speedHz int, arm Arm, order Order) (*DotStar, error) {
	p, err := spireg.Open(dev)
	if err != nil {
		return nil, fmt.Errorf("open spi %q: %w", dev, err)
	}
	if speedHz <= 0 {
		speedHz = 8000000
	}
	c, err := p.Connect(physic.Frequency(speedHz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("connect spi %q: %w", dev, err)
	}
	return NewDotStar(c, p, arm, order)
}

// brightness5 matches the Adafruit DotStar library's 0..1 -> 5-bit mapping.
func brightness5(b float32) byte {
	return byte((32 - int(32-b*31)) & 0x1f)
}

func (d *DotStar) Write(px []pov.Pixel) error { return d.stage(px) }

func (d *DotStar) encode() {
	for i, p := range d.frame {
		off := 4 + i*4
		d.buf[off] = 0xE0 | brightness5(p.Brightness)
		d.order.Swizzle(d.buf[off+1:off+4], p.R, p.G, p.B)
	}
}

func (d *DotStar) Flush() error {
	d.encode()
	if err := d.conn.Tx(d.buf, nil); err != nil {
		return fmt.Errorf("dotstar tx: %w", err)
	}
	return nil
}

func (d *DotStar) Close() error {
	d.blank()
	err := d.Flush()
	if d.port != nil {
		if cerr := d.port.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
