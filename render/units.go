package render

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit of a TTML length expression.
// ENUM(px, cell, em, percent, rootWidth, rootHeight)
type Unit int

const (
	UnitPx Unit = iota
	UnitCell
	UnitEm
	UnitPercent
	UnitRootWidth
	UnitRootHeight
)

func (u Unit) String() string {
	switch u {
	case UnitPx:
		return "px"
	case UnitCell:
		return "c"
	case UnitEm:
		return "em"
	case UnitPercent:
		return "%"
	case UnitRootWidth:
		return "rw"
	case UnitRootHeight:
		return "rh"
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

// Length preserves a numeric value with its unit until resolution context
// (font size, cell size, container extent) is known.
type Length struct {
	Value float64
	Unit  Unit
}

// ParseLength parses a single TTML <length>: 12px, 1.5c, 0.5em, 80%, 10rw,
// 5rh.
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(s)
	for _, u := range []struct {
		suffix string
		unit   Unit
	}{
		{"px", UnitPx},
		{"em", UnitEm},
		{"rw", UnitRootWidth},
		{"rh", UnitRootHeight},
		{"c", UnitCell},
		{"%", UnitPercent},
	} {
		if strings.HasSuffix(s, u.suffix) {
			v, err := strconv.ParseFloat(strings.TrimSuffix(s, u.suffix), 64)
			if err != nil {
				return Length{}, fmt.Errorf("bad length %q: %w", s, err)
			}
			return Length{Value: v, Unit: u.unit}, nil
		}
	}
	return Length{}, fmt.Errorf("bad length %q: missing or unknown unit", s)
}

// ParseLengthPair parses space separated two-length expressions like
// tts:extent and tts:origin values.
func ParseLengthPair(s string) (Length, Length, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return Length{}, Length{}, fmt.Errorf("expected two lengths in %q", s)
	}
	a, err := ParseLength(parts[0])
	if err != nil {
		return Length{}, Length{}, err
	}
	b, err := ParseLength(parts[1])
	if err != nil {
		return Length{}, Length{}, err
	}
	return a, b, nil
}

// LengthContext supplies everything needed to resolve a Length to pixels.
type LengthContext struct {
	FontSize       float64 // current computed font size, px
	CellW, CellH   float64 // root extent divided by ttp:cellResolution
	RegionW        float64 // containing region extent, px
	RegionH        float64
	RootW, RootH   float64 // root container extent, px
}

// Horizontal resolves the length against the inline (horizontal) measure.
func (c LengthContext) Horizontal(l Length) float64 {
	switch l.Unit {
	case UnitPx:
		return l.Value
	case UnitCell:
		return l.Value * c.CellW
	case UnitEm:
		return l.Value * c.FontSize
	case UnitPercent:
		return l.Value / 100 * c.RegionW
	case UnitRootWidth:
		return l.Value / 100 * c.RootW
	case UnitRootHeight:
		return l.Value / 100 * c.RootH
	}
	return l.Value
}

// Vertical resolves the length against the block (vertical) measure.
func (c LengthContext) Vertical(l Length) float64 {
	switch l.Unit {
	case UnitPx:
		return l.Value
	case UnitCell:
		return l.Value * c.CellH
	case UnitEm:
		return l.Value * c.FontSize
	case UnitPercent:
		return l.Value / 100 * c.RegionH
	case UnitRootWidth:
		return l.Value / 100 * c.RootW
	case UnitRootHeight:
		return l.Value / 100 * c.RootH
	}
	return l.Value
}
