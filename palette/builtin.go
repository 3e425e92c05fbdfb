package palette

import "palgen/pix"

// Builtin palette names. Generating a palette with one of these names
// bypasses quantization entirely and materializes a static 256-entry
// table in ARGB1555 mode.
const (
	BuiltinXlibc  = "xlibc"
	BuiltinRGB332 = "rgb332"
)

func builtinTable(name string) *[MaxEntries * 3]uint8 {
	switch name {
	case BuiltinXlibc:
		return &xlibcTable
	case BuiltinRGB332:
		return &rgb332Table
	default:
		return nil
	}
}

func (p *Palette) generateBuiltin(table *[MaxEntries * 3]uint8, mode pix.Mode) {
	for i := range MaxEntries {
		c := pix.Color{
			R: table[i*3+0],
			G: table[i*3+1],
			B: table[i*3+2],
			A: 0xFF,
		}
		// The table bytes are authoritative: keep them verbatim and only
		// derive the packed word for the target mode.
		c.Packed = pix.Convert(c, mode).Packed
		p.Entries[i] = Entry{Color: c, Index: i, Valid: true}
	}
	p.NumEntries = MaxEntries
	p.Mode = mode
}

// rgb332Table is a uniform 8x8x4-level color cube.
var rgb332Table [MaxEntries * 3]uint8

func init() {
	rgLevels := [8]uint8{0x00, 0x33, 0x5C, 0x7F, 0xA2, 0xC1, 0xE1, 0xFF}
	bLevels := [4]uint8{0x00, 0x68, 0xB7, 0xFF}

	i := 0
	for g := range rgLevels {
		for r := range rgLevels {
			for b := range bLevels {
				rgb332Table[i*3+0] = rgLevels[r]
				rgb332Table[i*3+1] = rgLevels[g]
				rgb332Table[i*3+2] = bLevels[b]
				i++
			}
		}
	}
}

// xlibcTable is a perceptually spread color cube.
var xlibcTable = [MaxEntries * 3]uint8{
	0x00, 0x00, 0x00, 0x00, 0x20, 0x08, 0x00, 0x41, 0x10, 0x00, 0x61, 0x18,
	0x00, 0x82, 0x21, 0x00, 0xA2, 0x29, 0x00, 0xC3, 0x31, 0x00, 0xE3, 0x39,
	0x08, 0x00, 0x42, 0x08, 0x20, 0x4A, 0x08, 0x41, 0x52, 0x08, 0x61, 0x5A,
	0x08, 0x82, 0x63, 0x08, 0xA2, 0x6B, 0x08, 0xC3, 0x73, 0x08, 0xE3, 0x7B,
	0x10, 0x00, 0x84, 0x10, 0x20, 0x8C, 0x10, 0x41, 0x94, 0x10, 0x61, 0x9C,
	0x10, 0x82, 0xA5, 0x10, 0xA2, 0xAD, 0x10, 0xC3, 0xB5, 0x10, 0xE3, 0xBD,
	0x18, 0x00, 0xC6, 0x18, 0x20, 0xCE, 0x18, 0x41, 0xD6, 0x18, 0x61, 0xDE,
	0x18, 0x82, 0xE7, 0x18, 0xA2, 0xEF, 0x18, 0xC3, 0xF7, 0x18, 0xE3, 0xFF,
	0x21, 0x04, 0x00, 0x21, 0x24, 0x08, 0x21, 0x45, 0x10, 0x21, 0x65, 0x18,
	0x21, 0x86, 0x21, 0x21, 0xA6, 0x29, 0x21, 0xC7, 0x31, 0x21, 0xE7, 0x39,
	0x29, 0x04, 0x42, 0x29, 0x24, 0x4A, 0x29, 0x45, 0x52, 0x29, 0x65, 0x5A,
	0x29, 0x86, 0x63, 0x29, 0xA6, 0x6B, 0x29, 0xC7, 0x73, 0x29, 0xE7, 0x7B,
	0x31, 0x04, 0x84, 0x31, 0x24, 0x8C, 0x31, 0x45, 0x94, 0x31, 0x65, 0x9C,
	0x31, 0x86, 0xA5, 0x31, 0xA6, 0xAD, 0x31, 0xC7, 0xB5, 0x31, 0xE7, 0xBD,
	0x39, 0x04, 0xC6, 0x39, 0x24, 0xCE, 0x39, 0x45, 0xD6, 0x39, 0x65, 0xDE,
	0x39, 0x86, 0xE7, 0x39, 0xA6, 0xEF, 0x39, 0xC7, 0xF7, 0x39, 0xE7, 0xFF,
	0x42, 0x08, 0x00, 0x42, 0x28, 0x08, 0x42, 0x49, 0x10, 0x42, 0x69, 0x18,
	0x42, 0x8A, 0x21, 0x42, 0xAA, 0x29, 0x42, 0xCB, 0x31, 0x42, 0xEB, 0x39,
	0x4A, 0x08, 0x42, 0x4A, 0x28, 0x4A, 0x4A, 0x49, 0x52, 0x4A, 0x69, 0x5A,
	0x4A, 0x8A, 0x63, 0x4A, 0xAA, 0x6B, 0x4A, 0xCB, 0x73, 0x4A, 0xEB, 0x7B,
	0x52, 0x08, 0x84, 0x52, 0x28, 0x8C, 0x52, 0x49, 0x94, 0x52, 0x69, 0x9C,
	0x52, 0x8A, 0xA5, 0x52, 0xAA, 0xAD, 0x52, 0xCB, 0xB5, 0x52, 0xEB, 0xBD,
	0x5A, 0x08, 0xC6, 0x5A, 0x28, 0xCE, 0x5A, 0x49, 0xD6, 0x5A, 0x69, 0xDE,
	0x5A, 0x8A, 0xE7, 0x5A, 0xAA, 0xEF, 0x5A, 0xCB, 0xF7, 0x5A, 0xEB, 0xFF,
	0x63, 0x0C, 0x00, 0x63, 0x2C, 0x08, 0x63, 0x4D, 0x10, 0x63, 0x6D, 0x18,
	0x63, 0x8E, 0x21, 0x63, 0xAE, 0x29, 0x63, 0xCF, 0x31, 0x63, 0xEF, 0x39,
	0x6B, 0x0C, 0x42, 0x6B, 0x2C, 0x4A, 0x6B, 0x4D, 0x52, 0x6B, 0x6D, 0x5A,
	0x6B, 0x8E, 0x63, 0x6B, 0xAE, 0x6B, 0x6B, 0xCF, 0x73, 0x6B, 0xEF, 0x7B,
	0x73, 0x0C, 0x84, 0x73, 0x2C, 0x8C, 0x73, 0x4D, 0x94, 0x73, 0x6D, 0x9C,
	0x73, 0x8E, 0xA5, 0x73, 0xAE, 0xAD, 0x73, 0xCF, 0xB5, 0x73, 0xEF, 0xBD,
	0x7B, 0x0C, 0xC6, 0x7B, 0x2C, 0xCE, 0x7B, 0x4D, 0xD6, 0x7B, 0x6D, 0xDE,
	0x7B, 0x8E, 0xE7, 0x7B, 0xAE, 0xEF, 0x7B, 0xCF, 0xF7, 0x7B, 0xEF, 0xFF,
	0x84, 0x10, 0x00, 0x84, 0x30, 0x08, 0x84, 0x51, 0x10, 0x84, 0x71, 0x18,
	0x84, 0x92, 0x21, 0x84, 0xB2, 0x29, 0x84, 0xD3, 0x31, 0x84, 0xF3, 0x39,
	0x8C, 0x10, 0x42, 0x8C, 0x30, 0x4A, 0x8C, 0x51, 0x52, 0x8C, 0x71, 0x5A,
	0x8C, 0x92, 0x63, 0x8C, 0xB2, 0x6B, 0x8C, 0xD3, 0x73, 0x8C, 0xF3, 0x7B,
	0x94, 0x10, 0x84, 0x94, 0x30, 0x8C, 0x94, 0x51, 0x94, 0x94, 0x71, 0x9C,
	0x94, 0x92, 0xA5, 0x94, 0xB2, 0xAD, 0x94, 0xD3, 0xB5, 0x94, 0xF3, 0xBD,
	0x9C, 0x10, 0xC6, 0x9C, 0x30, 0xCE, 0x9C, 0x51, 0xD6, 0x9C, 0x71, 0xDE,
	0x9C, 0x92, 0xE7, 0x9C, 0xB2, 0xEF, 0x9C, 0xD3, 0xF7, 0x9C, 0xF3, 0xFF,
	0xA5, 0x14, 0x00, 0xA5, 0x34, 0x08, 0xA5, 0x55, 0x10, 0xA5, 0x75, 0x18,
	0xA5, 0x96, 0x21, 0xA5, 0xB6, 0x29, 0xA5, 0xD7, 0x31, 0xA5, 0xF7, 0x39,
	0xAD, 0x14, 0x42, 0xAD, 0x34, 0x4A, 0xAD, 0x55, 0x52, 0xAD, 0x75, 0x5A,
	0xAD, 0x96, 0x63, 0xAD, 0xB6, 0x6B, 0xAD, 0xD7, 0x73, 0xAD, 0xF7, 0x7B,
	0xB5, 0x14, 0x84, 0xB5, 0x34, 0x8C, 0xB5, 0x55, 0x94, 0xB5, 0x75, 0x9C,
	0xB5, 0x96, 0xA5, 0xB5, 0xB6, 0xAD, 0xB5, 0xD7, 0xB5, 0xB5, 0xF7, 0xBD,
	0xBD, 0x14, 0xC6, 0xBD, 0x34, 0xCE, 0xBD, 0x55, 0xD6, 0xBD, 0x75, 0xDE,
	0xBD, 0x96, 0xE7, 0xBD, 0xB6, 0xEF, 0xBD, 0xD7, 0xF7, 0xBD, 0xF7, 0xFF,
	0xC6, 0x18, 0x00, 0xC6, 0x38, 0x08, 0xC6, 0x59, 0x10, 0xC6, 0x79, 0x18,
	0xC6, 0x9A, 0x21, 0xC6, 0xBA, 0x29, 0xC6, 0xDB, 0x31, 0xC6, 0xFB, 0x39,
	0xCE, 0x18, 0x42, 0xCE, 0x38, 0x4A, 0xCE, 0x59, 0x52, 0xCE, 0x79, 0x5A,
	0xCE, 0x9A, 0x63, 0xCE, 0xBA, 0x6B, 0xCE, 0xDB, 0x73, 0xCE, 0xFB, 0x7B,
	0xD6, 0x18, 0x84, 0xD6, 0x38, 0x8C, 0xD6, 0x59, 0x94, 0xD6, 0x79, 0x9C,
	0xD6, 0x9A, 0xA5, 0xD6, 0xBA, 0xAD, 0xD6, 0xDB, 0xB5, 0xD6, 0xFB, 0xBD,
	0xDE, 0x18, 0xC6, 0xDE, 0x38, 0xCE, 0xDE, 0x59, 0xD6, 0xDE, 0x79, 0xDE,
	0xDE, 0x9A, 0xE7, 0xDE, 0xBA, 0xEF, 0xDE, 0xDB, 0xF7, 0xDE, 0xFB, 0xFF,
	0xE7, 0x1C, 0x00, 0xE7, 0x3C, 0x08, 0xE7, 0x5D, 0x10, 0xE7, 0x7D, 0x18,
	0xE7, 0x9E, 0x21, 0xE7, 0xBE, 0x29, 0xE7, 0xDF, 0x31, 0xE7, 0xFF, 0x39,
	0xEF, 0x1C, 0x42, 0xEF, 0x3C, 0x4A, 0xEF, 0x5D, 0x52, 0xEF, 0x7D, 0x5A,
	0xEF, 0x9E, 0x63, 0xEF, 0xBE, 0x6B, 0xEF, 0xDF, 0x73, 0xEF, 0xFF, 0x7B,
	0xF7, 0x1C, 0x84, 0xF7, 0x3C, 0x8C, 0xF7, 0x5D, 0x94, 0xF7, 0x7D, 0x9C,
	0xF7, 0x9E, 0xA5, 0xF7, 0xBE, 0xAD, 0xF7, 0xDF, 0xB5, 0xF7, 0xFF, 0xBD,
	0xFF, 0x1C, 0xC6, 0xFF, 0x3C, 0xCE, 0xFF, 0x5D, 0xD6, 0xFF, 0x7D, 0xDE,
	0xFF, 0x9E, 0xE7, 0xFF, 0xBE, 0xEF, 0xFF, 0xDF, 0xF7, 0xFF, 0xFF, 0xFF,
}
