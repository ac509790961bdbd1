package render

import (
	"strings"
	"unicode"

	"go.uber.org/zap"

	"ttxr/isd"
)

// Element tree construction: one-shot structural mapping from ISD node
// kinds to rendered boxes, with the flat style table applied along the way.
// Text runs are split into word boxes so that line discovery and the
// adjusters can address the first and last fragment of every rendered line
// individually.

type treeBuilder struct {
	opts *Options
	log  *zap.Logger
}

// buildTree maps one ISD instant to a fresh box tree rooted at a root
// container sized to the caller's canvas.
func buildTree(doc *isd.Document, opts *Options, log *zap.Logger) *Box {
	tb := &treeBuilder{opts: opts, log: log}

	root := NewBox(KindRoot)
	for _, rn := range doc.Regions {
		if region := tb.buildRegion(rn); region != nil {
			root.Append(region)
		}
	}
	return root
}

func (tb *treeBuilder) lengthContext(regionW, regionH float64) LengthContext {
	cols, rows := tb.opts.CellCols, tb.opts.CellRows
	if cols <= 0 {
		cols = 32
	}
	if rows <= 0 {
		rows = 15
	}
	cellH := tb.opts.RootH / float64(rows)
	return LengthContext{
		FontSize: cellH,
		CellW:    tb.opts.RootW / float64(cols),
		CellH:    cellH,
		RegionW:  regionW,
		RegionH:  regionH,
		RootW:    tb.opts.RootW,
		RootH:    tb.opts.RootH,
	}
}

func (tb *treeBuilder) buildRegion(n *isd.Node) *Box {
	if n.Kind != isd.KindRegion {
		tb.log.Error("Skipping unrenderable subtree", zap.Stringer("kind", n.Kind), zap.String("id", n.ID))
		return nil
	}

	region := NewBox(KindRegion)
	region.ID = n.ID
	region.Axes = AxesFromWritingMode(n.Style(isd.StyleWritingMode))

	geo := &RegionGeometry{W: tb.opts.RootW, H: tb.opts.RootH}
	rootCtx := tb.lengthContext(tb.opts.RootW, tb.opts.RootH)
	if v := n.Style(isd.StyleExtent); v != "" {
		if w, h, err := ParseLengthPair(v); err == nil {
			geo.W = rootCtx.Horizontal(w)
			geo.H = rootCtx.Vertical(h)
		} else {
			tb.log.Warn("Ignoring bad region extent", zap.String("value", v), zap.Error(err))
		}
	}
	if v := n.Style(isd.StyleOrigin); v != "" {
		if x, y, err := ParseLengthPair(v); err == nil {
			geo.X = rootCtx.Horizontal(x)
			geo.Y = rootCtx.Vertical(y)
		} else {
			tb.log.Warn("Ignoring bad region origin", zap.String("value", v), zap.Error(err))
		}
	}
	region.Geometry = geo

	sc := &styleContext{
		lengths: tb.lengthContext(geo.W, geo.H),
		axes:    region.Axes,
		opts:    tb.opts,
		log:     tb.log,
	}
	sc.fontSize = sc.lengths.FontSize
	if v := n.Style(isd.StylePadding); v != "" {
		geo.Padding = tb.parsePadding(v, sc.lengths)
	}
	applyStyles(n, region, sc)

	for _, child := range n.Children {
		tb.buildNode(child, region, *sc)
	}
	return region
}

// parsePadding resolves a 1..4 length tts:padding shorthand into physical
// top/right/bottom/left offsets.
func (tb *treeBuilder) parsePadding(v string, lc LengthContext) [4]float64 {
	fields := strings.Fields(v)
	ls := make([]Length, 0, len(fields))
	for _, f := range fields {
		l, err := ParseLength(f)
		if err != nil {
			tb.log.Warn("Ignoring bad region padding", zap.String("value", v), zap.Error(err))
			return [4]float64{}
		}
		ls = append(ls, l)
	}
	var t, r, b, l Length
	switch len(ls) {
	case 1:
		t, r, b, l = ls[0], ls[0], ls[0], ls[0]
	case 2:
		t, r, b, l = ls[0], ls[1], ls[0], ls[1]
	case 3:
		t, r, b, l = ls[0], ls[1], ls[2], ls[1]
	case 4:
		t, r, b, l = ls[0], ls[1], ls[2], ls[3]
	default:
		return [4]float64{}
	}
	return [4]float64{lc.Vertical(t), lc.Horizontal(r), lc.Vertical(b), lc.Horizontal(l)}
}

// buildNode maps one non-region ISD node. The style context is passed by
// value: computed font size and axes flow downward without shared state.
func (tb *treeBuilder) buildNode(n *isd.Node, parent *Box, sc styleContext) {
	var kind Kind
	switch n.Kind {
	case isd.KindBody:
		kind = KindBody
	case isd.KindDiv:
		kind = KindDiv
	case isd.KindP:
		kind = KindParagraph
	case isd.KindSpan:
		kind = KindSpan
	case isd.KindImage:
		kind = KindImage
	case isd.KindBr:
		parent.Append(NewBox(KindBreak))
		return
	default:
		tb.log.Error("Skipping unrenderable subtree", zap.Stringer("kind", n.Kind), zap.String("id", n.ID))
		return
	}

	b := parent.Append(NewBox(kind))
	b.ID = n.ID
	b.Axes = parent.Axes
	b.Src = n.Src
	b.Ruby = parseRubyRole(n.Style(isd.StyleRuby))
	b.Forced = n.Style(isd.StyleForcedDisplay) == "true"

	if kind == KindParagraph {
		b.Axes = b.Axes.WithDirection(n.Style(isd.StyleDirection))
		sc.axes = b.Axes
	}

	applyStyles(n, b, &sc)

	if tb.opts.ForcedOnly && kind == KindSpan && !b.Forced {
		// forced-only display hides content but keeps its geometry
		b.Set(PropVisibility, "hidden")
	}

	if n.Text != "" {
		tb.appendWords(b, n.Text)
	}
	for _, child := range n.Children {
		if child.Text != "" && len(child.Styles) == 0 {
			tb.appendWords(b, child.Text)
			continue
		}
		tb.buildNode(child, b, sc)
	}
}

func parseRubyRole(v string) RubyRole {
	switch v {
	case "container":
		return RubyContainer
	case "base":
		return RubyBase
	case "baseContainer":
		return RubyBaseContainer
	case "text":
		return RubyText
	case "textContainer":
		return RubyTextContainer
	case "delimiter":
		return RubyDelimiter
	}
	return RubyNone
}

// appendWords splits a text run into word leaves (whitespace sticks to the
// preceding word). Per-word granularity lets adjusters decorate exactly the
// first and last box of a rendered line.
func (tb *treeBuilder) appendWords(parent *Box, text string) {
	for _, w := range splitWords(text) {
		leaf := parent.Append(NewBox(KindText))
		leaf.Text = w
		leaf.Axes = parent.Axes
	}
}

func splitWords(s string) []string {
	var words []string
	var cur strings.Builder
	inSpace := false
	for _, r := range s {
		space := unicode.IsSpace(r)
		if inSpace && !space && cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
		cur.WriteRune(r)
		inSpace = space
	}
	if cur.Len() > 0 {
		words = append(words, cur.String())
	}
	return words
}
