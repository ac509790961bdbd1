package render

import "fmt"

// Kind of a rendered box. Mirrors the ISD node kinds plus the synthetic
// kinds the renderer itself produces (text fragments, line breaks inserted
// by adjusters, invisible ruby reserve groups).
// ENUM(root, region, body, div, paragraph, span, text, image, break)
type Kind int

const (
	KindRoot Kind = iota
	KindRegion
	KindBody
	KindDiv
	KindParagraph
	KindSpan
	KindText
	KindImage
	KindBreak
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindRegion:
		return "region"
	case KindBody:
		return "body"
	case KindDiv:
		return "div"
	case KindParagraph:
		return "paragraph"
	case KindSpan:
		return "span"
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindBreak:
		return "break"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// RubyRole of a span within a ruby construct.
// ENUM(none, container, base, baseContainer, text, textContainer, delimiter)
type RubyRole int

const (
	RubyNone RubyRole = iota
	RubyContainer
	RubyBase
	RubyBaseContainer
	RubyText
	RubyTextContainer
	RubyDelimiter
)

func (r RubyRole) String() string {
	switch r {
	case RubyNone:
		return "none"
	case RubyContainer:
		return "container"
	case RubyBase:
		return "base"
	case RubyBaseContainer:
		return "baseContainer"
	case RubyText:
		return "text"
	case RubyTextContainer:
		return "textContainer"
	case RubyDelimiter:
		return "delimiter"
	}
	return fmt.Sprintf("RubyRole(%d)", int(r))
}

// Annotation returns true for the ruby annotation roles which never
// contribute to line geometry.
func (r RubyRole) Annotation() bool {
	return r == RubyText || r == RubyTextContainer || r == RubyDelimiter
}

// Prop names a declarative visual property on a rendered box. The final
// property set of every box is the renderer output consumed by the host.
type Prop string

const (
	PropColor           Prop = "color"
	PropBackgroundColor Prop = "background-color"
	PropFontFamily      Prop = "font-family"
	PropFontSize        Prop = "font-size"
	PropFontStyle       Prop = "font-style"
	PropFontWeight      Prop = "font-weight"
	PropLineHeight      Prop = "line-height"
	PropTextAlign       Prop = "text-align"
	PropTextDecoration  Prop = "text-decoration"
	PropOpacity         Prop = "opacity"
	PropVisibility      Prop = "visibility"
	PropDisplayAlign    Prop = "display-align"
	PropWrap            Prop = "wrap"
	PropTransform       Prop = "transform"

	PropRubyPosition     Prop = "ruby-position"
	PropEmphasisStyle    Prop = "text-emphasis-style"
	PropEmphasisPosition Prop = "text-emphasis-position"

	PropBorderTop    Prop = "border-top"
	PropBorderRight  Prop = "border-right"
	PropBorderBottom Prop = "border-bottom"
	PropBorderLeft   Prop = "border-left"

	PropMarginTop    Prop = "margin-top"
	PropMarginRight  Prop = "margin-right"
	PropMarginBottom Prop = "margin-bottom"
	PropMarginLeft   Prop = "margin-left"

	PropPaddingTop    Prop = "padding-top"
	PropPaddingRight  Prop = "padding-right"
	PropPaddingBottom Prop = "padding-bottom"
	PropPaddingLeft   Prop = "padding-left"
)

// BorderProp returns the border property for a physical side.
func BorderProp(s Side) Prop {
	return [...]Prop{PropBorderTop, PropBorderRight, PropBorderBottom, PropBorderLeft}[s]
}

// MarginProp returns the margin property for a physical side.
func MarginProp(s Side) Prop {
	return [...]Prop{PropMarginTop, PropMarginRight, PropMarginBottom, PropMarginLeft}[s]
}

// PaddingProp returns the padding property for a physical side.
func PaddingProp(s Side) Prop {
	return [...]Prop{PropPaddingTop, PropPaddingRight, PropPaddingBottom, PropPaddingLeft}[s]
}

// Border is a solid colored border of the given thickness.
type Border struct {
	Width float64
	Color Color
}

// Animation is a one-shot timed transition of a visual property, recorded
// declaratively so any host can play it.
type Animation struct {
	Prop     Prop
	From, To any
	Duration float64 // seconds
}

// RubyReservePosition selects where reserved ruby space is synthesized.
// ENUM(none, before, after, outside, both)
type RubyReservePosition int

const (
	RubyReserveNone RubyReservePosition = iota
	RubyReserveBefore
	RubyReserveAfter
	RubyReserveOutside
	RubyReserveBoth
)

// RubyReserveSpec is the parsed tts:rubyReserve request of a paragraph.
type RubyReserveSpec struct {
	Position RubyReservePosition
	Size     float64 // annotation font size, px, 0 means half the base size
}

// Pending carries the adjustment requests the style mapping phase leaves
// for the post-layout pass. Every adjuster consumes and clears exactly one
// field.
type Pending struct {
	LinePadding     float64 // resolved px, on paragraphs
	MultiRowAlign   string  // non-empty, non-"auto" multi-row alignment, on paragraphs
	RubyReserve     *RubyReserveSpec
	FillLineGap     bool
	RubyOutside     bool // on ruby containers with rubyPosition "outside"
	EmphasisOutside bool // on spans with textEmphasis position "outside"
}

// Box is one rendered element. Built from the ISD during phase one, laid
// out by the host, then mutated in place by the adjusters.
type Box struct {
	Kind     Kind
	ID       string
	Ruby     RubyRole
	Parent   *Box
	Children []*Box

	Props      map[Prop]any
	Animations []Animation
	Pending    Pending

	Text   string // text leaves only
	Src    string // image boxes only
	Forced bool   // itts:forcedDisplay

	// set by the builder, consulted by the layout engine and adjusters
	Axes ProgressionAxes

	// region boxes only: resolved placement within the root container
	Geometry *RegionGeometry
}

// RegionGeometry is the resolved pixel placement of a region within the
// root container, computed from tts:origin, tts:extent and tts:padding.
type RegionGeometry struct {
	X, Y, W, H float64
	Padding    [4]float64 // top, right, bottom, left
}

// NewBox creates a box of the given kind with an empty property set.
func NewBox(kind Kind) *Box {
	return &Box{Kind: kind, Props: map[Prop]any{}}
}

// Append adds child at the end of b's children.
func (b *Box) Append(child *Box) *Box {
	child.Parent = b
	b.Children = append(b.Children, child)
	return child
}

// InsertBefore places child immediately before ref among b's children.
// Falls back to appending when ref is not a child of b.
func (b *Box) InsertBefore(child, ref *Box) {
	child.Parent = b
	for i, c := range b.Children {
		if c == ref {
			b.Children = append(b.Children[:i], append([]*Box{child}, b.Children[i:]...)...)
			return
		}
	}
	b.Children = append(b.Children, child)
}

// InsertAfter places child immediately after ref among b's children.
func (b *Box) InsertAfter(child, ref *Box) {
	child.Parent = b
	for i, c := range b.Children {
		if c == ref {
			rest := append([]*Box{child}, b.Children[i+1:]...)
			b.Children = append(b.Children[:i+1], rest...)
			return
		}
	}
	b.Children = append(b.Children, child)
}

// Set assigns a visual property.
func (b *Box) Set(p Prop, v any) {
	b.Props[p] = v
}

// Get returns a visual property value and whether it is present.
func (b *Box) Get(p Prop) (any, bool) {
	v, ok := b.Props[p]
	return v, ok
}

// GetString returns a string-valued property or "".
func (b *Box) GetString(p Prop) string {
	if v, ok := b.Props[p]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetFloat returns a numeric property or 0.
func (b *Box) GetFloat(p Prop) float64 {
	if v, ok := b.Props[p]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return 0
}

// GetColor returns a color property, nil when absent.
func (b *Box) GetColor(p Prop) *Color {
	if v, ok := b.Props[p]; ok {
		if c, ok := v.(Color); ok {
			return &c
		}
	}
	return nil
}

// AddFloat accumulates a numeric property, used when several adjusters pad
// the same side of the same box.
func (b *Box) AddFloat(p Prop, delta float64) {
	b.Props[p] = b.GetFloat(p) + delta
}

// Leaf reports whether the box is a rendered inline leaf: a text fragment
// or an image. Only leaves contribute geometry to line discovery.
func (b *Box) Leaf() bool {
	return b.Kind == KindText || b.Kind == KindImage
}

// Walk visits b and all descendants in document order. Returning false from
// fn prunes the subtree.
func (b *Box) Walk(fn func(*Box) bool) {
	if !fn(b) {
		return
	}
	for _, c := range b.Children {
		c.Walk(fn)
	}
}
