package layout

import "ttxr/render"

// Paragraph flow: greedy line breaking of word leaves along the inline
// axis, honoring explicit breaks and wrapOption. All positions are
// abstract (block/inline from the content box start edges) until the
// paragraph is placed.

type wordBox struct {
	box      *render.Box
	advance  float64
	fontSize float64
}

type lineBox struct {
	words []wordBox
	width float64 // inline extent
	pitch float64 // block extent including leading
	glyph float64 // max glyph height on the line
}

type paragraphFrame struct {
	p         *render.Box
	lines     []lineBox
	blockSize float64
	align     string
	axes      render.ProgressionAxes
	inlineExt float64
}

// effFontSize walks up to the nearest ancestor with a computed font size.
func effFontSize(b *render.Box, def float64) float64 {
	for a := b; a != nil; a = a.Parent {
		if fs := a.GetFloat(render.PropFontSize); fs > 0 {
			return fs
		}
	}
	return def
}

func effLinePitch(p *render.Box, fontSize float64) float64 {
	if lh := p.GetFloat(render.PropLineHeight); lh > 0 {
		return lh
	}
	return fontSize * lineHeightFactor
}

// collectWords flattens the paragraph's renderable leaves in document
// order. Ruby annotation subtrees are skipped so they occupy no geometry.
func collectWords(p *render.Box, defFS float64, out []wordBox) []wordBox {
	for _, c := range p.Children {
		if c.Ruby.Annotation() {
			continue
		}
		switch c.Kind {
		case render.KindText, render.KindBreak, render.KindImage:
			fs := effFontSize(c, defFS)
			w := wordBox{box: c, fontSize: fs}
			if c.Kind == render.KindText {
				w.advance = advanceFactor * fs * float64(len([]rune(c.Text)))
			}
			out = append(out, w)
		default:
			out = collectWords(c, defFS, out)
		}
	}
	return out
}

func (e *Engine) flowParagraph(p *render.Box, c render.Rect) paragraphFrame {
	axes := p.Axes
	f := paragraphFrame{
		p:         p,
		align:     p.GetString(render.PropTextAlign),
		axes:      axes,
		inlineExt: axisExtent(axes, c, false),
	}
	noWrap := p.GetString(render.PropWrap) == "noWrap"
	defFS := effFontSize(p, 16)

	var cur lineBox
	flush := func() {
		if len(cur.words) == 0 {
			return
		}
		pitch := effLinePitch(p, cur.glyph)
		if pitch < cur.glyph {
			pitch = cur.glyph
		}
		cur.pitch = pitch
		f.lines = append(f.lines, cur)
		cur = lineBox{}
	}

	for _, w := range collectWords(p, defFS, nil) {
		if w.box.Kind == render.KindBreak {
			flush()
			continue
		}
		if !noWrap && len(cur.words) > 0 && cur.width+w.advance > f.inlineExt {
			flush()
		}
		if w.fontSize > cur.glyph {
			cur.glyph = w.fontSize
		}
		cur.words = append(cur.words, w)
		cur.width += w.advance
	}
	flush()

	for _, l := range f.lines {
		f.blockSize += l.pitch
	}
	return f
}

// placeParagraph assigns physical geometry to every word of the paragraph,
// with the paragraph's block start at blockPos within the content box.
func (e *Engine) placeParagraph(f paragraphFrame, blockPos float64, c render.Rect) {
	axes := f.axes
	parB0 := blockPos

	for _, l := range f.lines {
		inline := alignOffset(f.align, axes, f.inlineExt, l.width)
		// glyph boxes are centered within the line pitch so that line
		// spacing in excess of glyph height shows up as measurable gaps
		lead := (l.pitch - l.glyph) / 2
		for _, w := range l.words {
			g := w.fontSize
			b0 := blockPos + lead + (l.glyph-g)/2
			e.geo[w.box] = physicalRect(axes, c, b0, b0+g, inline, inline+w.advance)
			inline += w.advance
		}
		blockPos += l.pitch
	}

	if len(f.lines) > 0 {
		e.geo[f.p] = physicalRect(axes, c, parB0, blockPos, 0, f.inlineExt)
	}
}

// alignOffset converts tts:textAlign into an inline offset of the line
// within the paragraph measure.
func alignOffset(align string, axes render.ProgressionAxes, extent, width float64) float64 {
	logical := align
	switch align {
	case "left":
		if axes.Inline == render.DirectionRl {
			logical = "end"
		} else {
			logical = "start"
		}
	case "right":
		if axes.Inline == render.DirectionRl {
			logical = "start"
		} else {
			logical = "end"
		}
	}
	switch logical {
	case "center":
		return (extent - width) / 2
	case "end":
		return extent - width
	}
	return 0
}
