package pix

import "testing"

func TestConvert(t *testing.T) {
	tests := []struct {
		name   string
		in     Color
		mode   Mode
		want   Color
		packed uint16
	}{
		{
			name:   "argb1555 opaque white",
			in:     Color{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
			mode:   ModeARGB1555,
			want:   Color{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
			packed: 0xFFFF,
		},
		{
			name:   "argb1555 opaque black",
			in:     Color{A: 0xFF},
			mode:   ModeARGB1555,
			want:   Color{A: 0xFF},
			packed: 0x8000,
		},
		{
			name:   "argb1555 transparent drops alpha bit",
			in:     Color{R: 0xFF, A: 0x10},
			mode:   ModeARGB1555,
			want:   Color{R: 0xFF},
			packed: 0x7C00,
		},
		{
			name:   "argb1555 truncates low bits",
			in:     Color{R: 0x12, G: 0x34, B: 0x56, A: 0xFF},
			mode:   ModeARGB1555,
			want:   Color{R: 0x10, G: 0x31, B: 0x52, A: 0xFF},
			packed: 0x8000 | 0x02<<10 | 0x06<<5 | 0x0A,
		},
		{
			name:   "rgb565 forces opaque",
			in:     Color{R: 0xFF, G: 0xFF, B: 0xFF, A: 0},
			mode:   ModeRGB565,
			want:   Color{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
			packed: 0xFFFF,
		},
		{
			name:   "rgb332 mid gray",
			in:     Color{R: 0x80, G: 0x80, B: 0x80, A: 0xFF},
			mode:   ModeRGB332,
			want:   Color{R: 0x92, G: 0x92, B: 0xAA, A: 0xFF},
			packed: 0x04<<5 | 0x04<<2 | 0x02,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Convert(tt.in, tt.mode)
			if got.R != tt.want.R || got.G != tt.want.G || got.B != tt.want.B || got.A != tt.want.A {
				t.Errorf("Convert() = %02x/%02x/%02x/%02x, want %02x/%02x/%02x/%02x",
					got.R, got.G, got.B, got.A, tt.want.R, tt.want.G, tt.want.B, tt.want.A)
			}
			if got.Packed != tt.packed {
				t.Errorf("Convert() packed = %04x, want %04x", got.Packed, tt.packed)
			}
		})
	}
}

func TestConvertIdempotent(t *testing.T) {
	for _, mode := range []Mode{ModeARGB1555, ModeRGB565, ModeRGB332} {
		for r := 0; r < 256; r += 7 {
			for g := 0; g < 256; g += 11 {
				c := Color{R: uint8(r), G: uint8(g), B: uint8(r ^ g), A: 0xFF}
				once := Convert(c, mode)
				twice := Convert(once, mode)
				if once != twice {
					t.Fatalf("mode %s: Convert not idempotent for %v: %v != %v", mode, c, once, twice)
				}
			}
		}
	}
}

func TestParseMode(t *testing.T) {
	for _, mode := range []Mode{ModeARGB1555, ModeRGB565, ModeRGB332} {
		got, err := ParseMode(mode.String())
		if err != nil {
			t.Fatalf("ParseMode(%q) error: %v", mode.String(), err)
		}
		if got != mode {
			t.Errorf("ParseMode(%q) = %v, want %v", mode.String(), got, mode)
		}
	}

	if _, err := ParseMode("rgb888"); err == nil {
		t.Error("ParseMode accepted unknown mode")
	}
}
