package render

import (
	"fmt"
	"image/color"
	"strconv"
)

// ParseHexColor parses "#rgb", "#rrggbb", or "#rrggbbaa" into an NRGBA
// color. Alpha defaults to opaque.
func ParseHexColor(s string) (color.NRGBA, error) {
	if len(s) == 0 || s[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: must start with '#'", s)
	}
	hex := s[1:]

	switch len(hex) {
	case 3:
		expanded := make([]byte, 6)
		for i := 0; i < 3; i++ {
			expanded[2*i] = hex[i]
			expanded[2*i+1] = hex[i]
		}
		hex = string(expanded)
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color %q: need 3, 6, or 8 hex digits", s)
	}

	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}

	c := color.NRGBA{A: 0xff}
	if len(hex) == 8 {
		c.A = uint8(v)
		v >>= 8
	}
	c.B = uint8(v)
	c.G = uint8(v >> 8)
	c.R = uint8(v >> 16)
	return c, nil
}

// Palette maps a normalized intensity in [0, 1] to a color by linear
// interpolation between its stops.
//
// A single-stop palette is the common false-color case: it ramps from
// black to the stop, so the stop's hue scales with intensity. Multi-stop
// palettes interpolate piecewise between consecutive stops.
type Palette struct {
	stops []color.NRGBA
}

// NewPalette builds a palette from hex color stops. At least one stop is
// required.
func NewPalette(stops ...string) (*Palette, error) {
	if len(stops) == 0 {
		return nil, fmt.Errorf("palette needs at least one color stop")
	}
	p := &Palette{stops: make([]color.NRGBA, 0, len(stops))}
	for _, s := range stops {
		c, err := ParseHexColor(s)
		if err != nil {
			return nil, err
		}
		p.stops = append(p.stops, c)
	}
	return p, nil
}

// grayPalette is the fallback for bands without a false color: a plain
// black-to-white ramp.
var grayPalette = &Palette{stops: []color.NRGBA{{R: 0xff, G: 0xff, B: 0xff, A: 0xff}}}

// At returns the palette color for a normalized intensity. Values outside
// [0, 1] are clamped.
func (p *Palette) At(t float64) color.NRGBA {
	if t <= 0 {
		if len(p.stops) == 1 {
			return color.NRGBA{A: p.stops[0].A}
		}
		return p.stops[0]
	}
	if t >= 1 {
		return p.stops[len(p.stops)-1]
	}

	if len(p.stops) == 1 {
		return lerpColor(color.NRGBA{A: p.stops[0].A}, p.stops[0], t)
	}

	scaled := t * float64(len(p.stops)-1)
	i := int(scaled)
	return lerpColor(p.stops[i], p.stops[i+1], scaled-float64(i))
}

func lerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.NRGBA{
		R: lerp(a.R, b.R),
		G: lerp(a.G, b.G),
		B: lerp(a.B, b.B),
		A: lerp(a.A, b.A),
	}
}
