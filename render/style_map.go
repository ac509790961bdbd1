package render

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"ttxr/isd"
)

// Flat per-attribute style mapping: each resolved ISD style value becomes
// one visual property or one pending adjustment flag. No cross-element
// state lives here; everything that depends on where lines actually broke
// is deferred to the post-layout pass.

type styleContext struct {
	lengths  LengthContext
	axes     ProgressionAxes
	fontSize float64 // computed font size of the current element, px
	opts     *Options
	log      *zap.Logger
}

type styleMapper func(v string, b *Box, sc *styleContext)

// styleMap is consulted in the fixed order of styleOrder so dependent
// attributes (fontSize before lineHeight and linePadding) resolve
// deterministically.
var styleMap = map[string]styleMapper{
	isd.StyleColor: func(v string, b *Box, sc *styleContext) {
		c, err := ParseColor(v)
		if err != nil {
			sc.log.Warn("Ignoring bad color", zap.String("value", v), zap.Error(err))
			return
		}
		if sub, ok := sc.opts.ColorMap[c]; ok {
			c = sub
		}
		b.Set(PropColor, c)
	},
	isd.StyleBackground: func(v string, b *Box, sc *styleContext) {
		c, err := ParseColor(v)
		if err != nil {
			sc.log.Warn("Ignoring bad background color", zap.String("value", v), zap.Error(err))
			return
		}
		if sub, ok := sc.opts.BackgroundColorMap[c]; ok {
			c = sub
		}
		if !c.IsTransparent() {
			b.Set(PropBackgroundColor, c)
		}
	},
	isd.StyleFontFamily: func(v string, b *Box, sc *styleContext) {
		if sc.opts.FontFamilyOverride != "" {
			v = sc.opts.FontFamilyOverride
		}
		b.Set(PropFontFamily, v)
	},
	isd.StyleFontSize: func(v string, b *Box, sc *styleContext) {
		l, err := ParseLength(v)
		if err != nil {
			sc.log.Warn("Ignoring bad fontSize", zap.String("value", v), zap.Error(err))
			return
		}
		px := sc.lengths.Vertical(l) * sc.opts.SizeMultiplier
		sc.fontSize = px
		sc.lengths.FontSize = px
		b.Set(PropFontSize, px)
	},
	isd.StyleFontStyle: func(v string, b *Box, sc *styleContext) {
		b.Set(PropFontStyle, v)
	},
	isd.StyleFontWeight: func(v string, b *Box, sc *styleContext) {
		b.Set(PropFontWeight, v)
	},
	isd.StyleLineHeight: func(v string, b *Box, sc *styleContext) {
		if v == "normal" {
			return
		}
		l, err := ParseLength(v)
		if err != nil {
			sc.log.Warn("Ignoring bad lineHeight", zap.String("value", v), zap.Error(err))
			return
		}
		b.Set(PropLineHeight, sc.lengths.Vertical(l)*sc.opts.LineHeightMultiplier)
	},
	isd.StyleTextAlign: func(v string, b *Box, sc *styleContext) {
		b.Set(PropTextAlign, v)
	},
	isd.StyleTextDecoration: func(v string, b *Box, sc *styleContext) {
		b.Set(PropTextDecoration, v)
	},
	isd.StyleOpacity: func(v string, b *Box, sc *styleContext) {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			sc.log.Warn("Ignoring bad opacity", zap.String("value", v), zap.Error(err))
			return
		}
		b.Set(PropOpacity, clamp01(f*sc.opts.OpacityMultiplier))
	},
	isd.StyleVisibility: func(v string, b *Box, sc *styleContext) {
		b.Set(PropVisibility, v)
	},
	isd.StyleDisplayAlign: func(v string, b *Box, sc *styleContext) {
		b.Set(PropDisplayAlign, v)
	},
	isd.StyleWrapOption: func(v string, b *Box, sc *styleContext) {
		b.Set(PropWrap, v)
	},
	isd.StyleRubyPosition: func(v string, b *Box, sc *styleContext) {
		if v == "outside" {
			// resolvable only after line discovery
			b.Pending.RubyOutside = true
			return
		}
		b.Set(PropRubyPosition, v)
	},
	isd.StyleTextEmphasis: mapTextEmphasis,
	isd.StyleRubyReserve:  mapRubyReserve,
	isd.StyleLinePadding: func(v string, b *Box, sc *styleContext) {
		l, err := ParseLength(v)
		if err != nil {
			// malformed values mean the feature is absent
			return
		}
		if px := sc.lengths.Vertical(l) * sc.opts.SizeMultiplier; px > 0 {
			b.Pending.LinePadding = px
		}
	},
	isd.StyleMultiRowAlign: func(v string, b *Box, sc *styleContext) {
		if v != "" && v != "auto" {
			b.Pending.MultiRowAlign = v
		}
	},
	isd.StyleFillLineGap: func(v string, b *Box, sc *styleContext) {
		b.Pending.FillLineGap = v == "true"
	},
}

// styleOrder fixes mapping order: geometry-affecting properties first, then
// everything depending on the computed font size.
var styleOrder = []string{
	isd.StyleFontFamily,
	isd.StyleFontSize,
	isd.StyleFontStyle,
	isd.StyleFontWeight,
	isd.StyleLineHeight,
	isd.StyleColor,
	isd.StyleBackground,
	isd.StyleTextAlign,
	isd.StyleTextDecoration,
	isd.StyleOpacity,
	isd.StyleVisibility,
	isd.StyleDisplayAlign,
	isd.StyleWrapOption,
	isd.StyleRubyPosition,
	isd.StyleTextEmphasis,
	isd.StyleRubyReserve,
	isd.StyleLinePadding,
	isd.StyleMultiRowAlign,
	isd.StyleFillLineGap,
}

func applyStyles(n *isd.Node, b *Box, sc *styleContext) {
	for _, name := range styleOrder {
		if v := n.Style(name); v != "" {
			styleMap[name](v, b, sc)
		}
	}
}

// mapTextEmphasis parses tts:textEmphasis: a style token (filled/open dot,
// circle, sesame or auto) optionally followed by a position (before, after,
// outside). Outside positions stay pending for the post-layout resolver.
func mapTextEmphasis(v string, b *Box, sc *styleContext) {
	if v == "none" {
		return
	}
	var styleTokens []string
	position := ""
	for _, tok := range strings.Fields(v) {
		switch tok {
		case "before", "after", "outside":
			position = tok
		case "auto":
			styleTokens = append(styleTokens, "filled", "dot")
		default:
			styleTokens = append(styleTokens, tok)
		}
	}
	if len(styleTokens) == 0 {
		// internally inconsistent value, feature absent
		return
	}
	b.Set(PropEmphasisStyle, strings.Join(styleTokens, " "))
	switch position {
	case "", "outside":
		b.Pending.EmphasisOutside = true
	default:
		b.Set(PropEmphasisPosition, position)
	}
}

// mapRubyReserve parses tts:rubyReserve: a position keyword optionally
// followed by the reserved annotation size.
func mapRubyReserve(v string, b *Box, sc *styleContext) {
	parts := strings.Fields(v)
	if len(parts) == 0 {
		return
	}
	spec := &RubyReserveSpec{}
	switch parts[0] {
	case "none":
		return
	case "before":
		spec.Position = RubyReserveBefore
	case "after":
		spec.Position = RubyReserveAfter
	case "outside":
		spec.Position = RubyReserveOutside
	case "both":
		spec.Position = RubyReserveBoth
	default:
		// malformed, feature absent
		return
	}
	if len(parts) > 1 {
		l, err := ParseLength(parts[1])
		if err != nil {
			return
		}
		spec.Size = sc.lengths.Vertical(l) * sc.opts.SizeMultiplier
	}
	if spec.Size == 0 {
		spec.Size = sc.fontSize / 2
	}
	b.Pending.RubyReserve = spec
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
