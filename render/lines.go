package render

// Line discovery over already-measured inline boxes. Layout decides where
// lines break; this pass reconstructs those breaks from leaf geometry so the
// adjusters can reason about whole lines.

// LineElement is one rendered leaf recorded on a line, together with the
// background color inherited at traversal time and its projected block
// extent.
type LineElement struct {
	Box             *Box
	BackgroundColor *Color
	Before, After   float64
}

// Line is one discovered line of a paragraph or region body. Lines are
// owned by the BuildLineList call that produced them, mutated in place by
// adjusters and discarded when the adjustment pass completes. Region-level
// lines are additionally snapshot into a RegionBuffer for roll-up tracking.
type Line struct {
	Before, After float64 // block extent, signed by block progression
	Start, End    float64 // inline extent, signed by inline progression

	Elements  []LineElement // in document order
	StartElem int           // index of the element at the extreme start edge
	EndElem   int           // index of the element at the extreme end edge

	RubyContainers []*Box
	EmphasisSpans  []*Box

	Text             string
	HasExplicitBreak bool
}

// Thickness is the absolute block-axis extent of the line.
func (l *Line) Thickness() float64 {
	d := l.After - l.Before
	if d < 0 {
		return -d
	}
	return d
}

// isSameLine tests whether a new leaf interval belongs to the current line.
// Strict containment of one interval in the other (in the signed sense)
// absorbs sub-pixel baseline variance between leaves of one line while
// still splitting visually distinct lines; plain overlap would merge
// adjacent lines whose leading touches.
func isSameLine(before1, after1, before2, after2 float64) bool {
	return (after1 < after2 && before1 > before2) || (after2 <= after1 && before2 >= before1)
}

type lineListBuilder struct {
	geo   GeometryProvider
	axes  ProgressionAxes
	lines []*Line
}

// BuildLineList walks the rendered subtree under root and groups its
// non-empty leaves into lines, in document order. inheritedBG is the
// background color in effect at root; it is carried downward during the
// walk so each line element records its nearest-ancestor-or-self
// background.
func BuildLineList(root *Box, inheritedBG *Color, geo GeometryProvider, axes ProgressionAxes) []*Line {
	b := &lineListBuilder{geo: geo, axes: axes}
	b.walk(root, inheritedBG)
	return b.lines
}

func (b *lineListBuilder) last() *Line {
	if len(b.lines) == 0 {
		return nil
	}
	return b.lines[len(b.lines)-1]
}

func (b *lineListBuilder) walk(n *Box, bg *Color) {
	if c := n.GetColor(PropBackgroundColor); c != nil {
		bg = c
	}

	if n.Leaf() {
		b.leaf(n, bg)
		return
	}

	for _, child := range n.Children {
		if child.Ruby.Annotation() {
			// annotation-only content never contributes geometry, but ruby
			// text containers still belong to the line their base landed on
			if child.Ruby == RubyTextContainer {
				if l := b.last(); l != nil && len(l.Elements) > 0 {
					l.RubyContainers = append(l.RubyContainers, child)
				}
			}
			continue
		}

		if child.Kind == KindBreak {
			if l := b.last(); l != nil {
				l.HasExplicitBreak = true
			}
			continue
		}

		b.walk(child, bg)

		if child.Ruby == RubyContainer {
			if l := b.last(); l != nil && len(l.Elements) > 0 {
				l.RubyContainers = append(l.RubyContainers, child)
			}
		}
		if es := child.GetString(PropEmphasisStyle); es != "" && es != "none" {
			if l := b.last(); l != nil && len(l.Elements) > 0 {
				l.EmphasisSpans = append(l.EmphasisSpans, child)
			}
		}
	}
}

func (b *lineListBuilder) leaf(n *Box, bg *Color) {
	r := b.geo.Measure(n)
	if r.Empty() {
		// not rendered, contributes nothing
		return
	}
	er := b.axes.Project(r)

	l := b.last()
	if l == nil || !isSameLine(er.Before, er.After, l.Before, l.After) {
		l = &Line{
			Before: er.Before,
			After:  er.After,
			Start:  er.Start,
			End:    er.End,
		}
		b.lines = append(b.lines, l)
	} else {
		b.merge(l, er)
	}

	l.Elements = append(l.Elements, LineElement{
		Box:             n,
		BackgroundColor: bg,
		Before:          er.Before,
		After:           er.After,
	})
	l.Text += n.Text
}

// merge extends the current line with a leaf that layout placed on it.
// Before/After only grow the line's thickness, never shrink it, and the
// start/end extremes track whichever element reaches furthest; comparisons
// are signed because rl progressions invert numeric order.
func (b *lineListBuilder) merge(l *Line, er EdgeRect) {
	bs, is := b.axes.BlockSign(), b.axes.InlineSign()

	if bs*(er.Before-l.Before) < 0 {
		l.Before = er.Before
	}
	if bs*(er.After-l.After) > 0 {
		l.After = er.After
	}

	idx := len(l.Elements) // index the new element will get
	if is*(er.Start-l.Start) < 0 {
		l.Start = er.Start
		l.StartElem = idx
	}
	if is*(er.End-l.End) > 0 {
		l.End = er.End
		l.EndElem = idx
	}
}
