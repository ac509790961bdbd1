package render

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a straight-alpha RGBA value as it appears in resolved ISD style
// attributes.
type Color struct {
	R, G, B, A uint8
}

var (
	Transparent = Color{0, 0, 0, 0}
	Black       = Color{0, 0, 0, 255}
	White       = Color{255, 255, 255, 255}
)

// Named colors from the TTML2 <named-color> production. Values match the CSS
// keywords of the same name.
var namedColors = map[string]Color{
	"transparent": Transparent,
	"black":       Black,
	"silver":      {192, 192, 192, 255},
	"gray":        {128, 128, 128, 255},
	"white":       White,
	"maroon":      {128, 0, 0, 255},
	"red":         {255, 0, 0, 255},
	"purple":      {128, 0, 128, 255},
	"fuchsia":     {255, 0, 255, 255},
	"magenta":     {255, 0, 255, 255},
	"green":       {0, 128, 0, 255},
	"lime":        {0, 255, 0, 255},
	"olive":       {128, 128, 0, 255},
	"yellow":      {255, 255, 0, 255},
	"navy":        {0, 0, 128, 255},
	"blue":        {0, 0, 255, 255},
	"teal":        {0, 128, 128, 255},
	"aqua":        {0, 255, 255, 255},
	"cyan":        {0, 255, 255, 255},
}

// ParseColor parses a TTML <color> expression: #rrggbb, #rrggbbaa,
// rgb(r,g,b), rgba(r,g,b,a) or a named color.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Color{}, fmt.Errorf("empty color expression")
	}
	if c, ok := namedColors[strings.ToLower(s)]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		switch len(hex) {
		case 6, 8:
		default:
			return Color{}, fmt.Errorf("bad hex color %q", s)
		}
		v, err := strconv.ParseUint(hex, 16, 64)
		if err != nil {
			return Color{}, fmt.Errorf("bad hex color %q: %w", s, err)
		}
		if len(hex) == 6 {
			return Color{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}, nil
		}
		return Color{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
	}
	var fn string
	switch {
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		fn = s[5 : len(s)-1]
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		fn = s[4 : len(s)-1]
	default:
		return Color{}, fmt.Errorf("unrecognized color expression %q", s)
	}
	parts := strings.Split(fn, ",")
	want := 3
	if strings.HasPrefix(s, "rgba") {
		want = 4
	}
	if len(parts) != want {
		return Color{}, fmt.Errorf("bad component count in %q", s)
	}
	var comp [4]uint8
	comp[3] = 255
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return Color{}, fmt.Errorf("bad color component in %q: %w", s, err)
		}
		comp[i] = uint8(v)
	}
	return Color{comp[0], comp[1], comp[2], comp[3]}, nil
}

// String renders the color in #rrggbbaa form, stable for snapshots and map
// keys in substitution tables.
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c Color) IsTransparent() bool {
	return c.A == 0
}

// ScaleAlpha multiplies the alpha channel by m clamped to [0,1].
func (c Color) ScaleAlpha(m float64) Color {
	if m < 0 {
		m = 0
	}
	if m > 1 {
		m = 1
	}
	c.A = uint8(float64(c.A)*m + 0.5)
	return c
}
