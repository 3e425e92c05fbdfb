// Package pix models pixel colors as canonical 8-bit RGBA plus a packed
// target encoding for a small, closed set of embedded display formats.
package pix

import "fmt"

// Color is a pixel in canonical RGBA form. Packed is only meaningful after
// Convert has derived it for a particular Mode.
type Color struct {
	R, G, B, A uint8
	Packed     uint16
}

// Mode selects the target packed encoding.
type Mode uint8

const (
	// ModeARGB1555 packs one alpha bit followed by 5 bits per color channel.
	ModeARGB1555 Mode = iota
	// ModeRGB565 packs 5/6/5 bits with no alpha.
	ModeRGB565
	// ModeRGB332 packs 3/3/2 bits into a single byte, no alpha.
	ModeRGB332
)

// Packing walks the channels MSB-first in alpha, red, green, blue order.
// Adding a mode is a table entry, nothing more.
type modeSpec struct {
	name                       string
	aBits, rBits, gBits, bBits uint
}

var modeSpecs = [...]modeSpec{
	ModeARGB1555: {name: "argb1555", aBits: 1, rBits: 5, gBits: 5, bBits: 5},
	ModeRGB565:   {name: "rgb565", rBits: 5, gBits: 6, bBits: 5},
	ModeRGB332:   {name: "rgb332", rBits: 3, gBits: 3, bBits: 2},
}

func (m Mode) String() string {
	if int(m) >= len(modeSpecs) {
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
	return modeSpecs[m].name
}

// ParseMode maps a mode name from a build file to its Mode.
func ParseMode(s string) (Mode, error) {
	for m, spec := range modeSpecs {
		if spec.name == s {
			return Mode(m), nil
		}
	}
	return 0, fmt.Errorf("unknown color mode %q", s)
}

// Convert quantizes c to the channel depths of mode m and derives the
// packed word. The canonical channels come back truncated and
// bit-replicated, so converting an already converted color is a no-op.
// Modes without an alpha bit force the color opaque.
func Convert(c Color, m Mode) Color {
	spec := &modeSpecs[m]

	var out Color
	var packed uint16
	if spec.aBits == 0 {
		out.A = 0xFF
	} else {
		if c.A >= 0x80 {
			out.A = 0xFF
			packed = 1
		} else {
			out.A = 0
		}
	}

	tr := c.R >> (8 - spec.rBits)
	tg := c.G >> (8 - spec.gBits)
	tb := c.B >> (8 - spec.bBits)

	packed = packed<<spec.rBits | uint16(tr)
	packed = packed<<spec.gBits | uint16(tg)
	packed = packed<<spec.bBits | uint16(tb)

	out.R = replicate(tr, spec.rBits)
	out.G = replicate(tg, spec.gBits)
	out.B = replicate(tb, spec.bBits)
	out.Packed = packed

	return out
}

// replicate expands a truncated channel back to 8 bits by repeating its
// bit pattern, so that 0b11111 maps to 0xFF rather than 0xF8.
func replicate(t uint8, bits uint) uint8 {
	v := t << (8 - bits)
	out := v
	for sh := bits; sh < 8; sh += bits {
		out |= v >> sh
	}
	return out
}
