package led

import (
	"fmt"
	"strings"
)

// Order lists, in wire sequence, which channel (0=R, 1=G, 2=B) is sent.
type Order [3]uint8

var (
	RGB = Order{0, 1, 2}
	GRB = Order{1, 0, 2}
	BGR = Order{2, 1, 0}
)

func ParseOrder(s string) (Order, error) {
	var o Order
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 3 {
		return o, fmt.Errorf("invalid color order %q", s)
	}
	var seen [3]bool
	for i := 0; i < 3; i++ {
		var ch uint8
		switch s[i] {
		case 'R':
			ch = 0
		case 'G':
			ch = 1
		case 'B':
			ch = 2
		default:
			return o, fmt.Errorf("invalid color order %q", s)
		}
		if seen[ch] {
			return o, fmt.Errorf("invalid color order %q: repeated channel", s)
		}
		seen[ch] = true
		o[i] = ch
	}
	return o, nil
}

func (o Order) String() string {
	const names = "RGB"
	return string([]byte{names[o[0]], names[o[1]], names[o[2]]})
}

// Swizzle writes r,g,b into dst in wire order.
func (o Order) Swizzle(dst []byte, r, g, b uint8) {
	c := [3]uint8{r, g, b}
	dst[0], dst[1], dst[2] = c[o[0]], c[o[1]], c[o[2]]
}

// Through returns the order to feed a driver that itself emits native on the wire,
// so that the strip finally receives o.
func (o Order) Through(native Order) Order {
	var p Order
	for i := 0; i < 3; i++ {
		p[native[i]] = o[i]
	}
	return p
}
