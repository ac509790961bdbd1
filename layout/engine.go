// Package layout is a small box layout engine used as the host surface for
// the renderer: it commits a built box tree, breaks paragraph content into
// lines with fixed-advance font metrics and answers geometry queries. It is
// a measurement stand-in, not a text shaper; any host with real shaping can
// replace it behind the render.Host interface.
package layout

import (
	"go.uber.org/zap"

	"ttxr/render"
)

const (
	// advance per glyph as a fraction of font size, fixed-pitch stand-in
	advanceFactor = 0.6
	// default line pitch as a fraction of font size
	lineHeightFactor = 1.25
)

// Engine lays out one committed tree at a time. Not safe for concurrent
// use; the renderer drives it synchronously.
type Engine struct {
	log *zap.Logger
	geo map[*render.Box]render.Rect
}

func New(log *zap.Logger) *Engine {
	return &Engine{log: log, geo: map[*render.Box]render.Rect{}}
}

// Measure returns committed geometry. Boxes inserted after Commit (or
// never laid out) report a zero rect.
func (e *Engine) Measure(b *render.Box) render.Rect {
	return e.geo[b]
}

// Commit lays the tree out and freezes geometry for subsequent Measure
// calls.
func (e *Engine) Commit(root *render.Box) error {
	e.geo = map[*render.Box]render.Rect{}
	for _, region := range root.Children {
		if region.Kind == render.KindRegion {
			e.layoutRegion(region)
		}
	}
	return nil
}

// content returns the region's padding-adjusted content rect.
func content(region *render.Box) render.Rect {
	g := region.Geometry
	if g == nil {
		return render.Rect{}
	}
	return render.Rect{
		Top:    g.Y + g.Padding[0],
		Left:   g.X + g.Padding[3],
		Bottom: g.Y + g.H - g.Padding[2],
		Right:  g.X + g.W - g.Padding[1],
	}
}

func (e *Engine) layoutRegion(region *render.Box) {
	g := region.Geometry
	if g == nil {
		return
	}
	e.geo[region] = render.Rect{Top: g.Y, Left: g.X, Bottom: g.Y + g.H, Right: g.X + g.W}
	c := content(region)

	var body *render.Box
	for _, child := range region.Children {
		if child.Kind == render.KindBody {
			body = child
			break
		}
	}
	if body == nil {
		return
	}
	e.geo[body] = c

	var paragraphs []*render.Box
	body.Walk(func(b *render.Box) bool {
		switch b.Kind {
		case render.KindParagraph:
			paragraphs = append(paragraphs, b)
			return false
		case render.KindImage:
			// smpte background images fill the region content box
			e.geo[b] = c
			return false
		}
		return true
	})

	frames := make([]paragraphFrame, 0, len(paragraphs))
	total := 0.0
	for _, p := range paragraphs {
		f := e.flowParagraph(p, c)
		total += f.blockSize
		frames = append(frames, f)
	}

	blockExtent := axisExtent(region.Axes, c, true)
	offset := 0.0
	switch region.GetString(render.PropDisplayAlign) {
	case "center":
		offset = (blockExtent - total) / 2
	case "after":
		offset = blockExtent - total
	}

	pos := offset
	for _, f := range frames {
		e.placeParagraph(f, pos, c)
		pos += f.blockSize
	}
}

// axisExtent returns the content box extent along the block (block=true) or
// inline axis.
func axisExtent(axes render.ProgressionAxes, c render.Rect, block bool) float64 {
	vertical := axes.Block != render.DirectionTb
	if block == vertical {
		// block axis of vertical writing, or inline axis of horizontal
		return c.Width()
	}
	return c.Height()
}

// physicalRect maps abstract offsets (block/inline measured from the
// content box's block-start and inline-start edges) to host coordinates.
func physicalRect(axes render.ProgressionAxes, c render.Rect, b0, b1, i0, i1 float64) render.Rect {
	switch axes.Block {
	case render.DirectionTb:
		r := render.Rect{Top: c.Top + b0, Bottom: c.Top + b1}
		if axes.Inline == render.DirectionRl {
			r.Left, r.Right = c.Right-i1, c.Right-i0
		} else {
			r.Left, r.Right = c.Left+i0, c.Left+i1
		}
		return r
	case render.DirectionLr:
		return render.Rect{Left: c.Left + b0, Right: c.Left + b1, Top: c.Top + i0, Bottom: c.Top + i1}
	case render.DirectionRl:
		return render.Rect{Right: c.Right - b0, Left: c.Right - b1, Top: c.Top + i0, Bottom: c.Top + i1}
	}
	return render.Rect{}
}
