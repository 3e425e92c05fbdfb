package config

import (
	"fmt"

	"palgen/pix"
)

// ParseHexColor reads a #RGB, #RGBA, #RRGGBB or #RRGGBBAA color string.
func ParseHexColor(s string) (pix.Color, error) {
	var c pix.Color
	c.A = 0xFF

	var n int
	var err error
	switch len(s) {
	case 4:
		n, err = fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
	case 5:
		n, err = fmt.Sscanf(s, "#%1x%1x%1x%1x", &c.R, &c.G, &c.B, &c.A)
	case 7:
		n, err = fmt.Sscanf(s, "#%2x%2x%2x", &c.R, &c.G, &c.B)
	case 9:
		n, err = fmt.Sscanf(s, "#%2x%2x%2x%2x", &c.R, &c.G, &c.B, &c.A)
	default:
		return pix.Color{}, fmt.Errorf("invalid color %q, should be #RGB, #RGBA, #RRGGBB or #RRGGBBAA", s)
	}
	if err != nil {
		return pix.Color{}, fmt.Errorf("could not read color %q: %w", s, err)
	} else if n < 3 {
		return pix.Color{}, fmt.Errorf("insufficient color fields in %q: %d", s, n)
	}

	if len(s) < 7 {
		c.R |= c.R << 4
		c.G |= c.G << 4
		c.B |= c.B << 4
		if len(s) == 5 {
			c.A |= c.A << 4
		}
	}

	return c, nil
}
