package render

import "fmt"

// Rect is an axis-aligned bounding box in the host coordinate space, as
// reported by the geometry provider after layout has been committed.
type Rect struct {
	Top, Left, Bottom, Right float64
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }

func (r Rect) Empty() bool {
	return r.Width() == 0 || r.Height() == 0
}

// GeometryProvider returns committed post-layout geometry for a rendered box.
// All rects of one render pass share a single coordinate space.
type GeometryProvider interface {
	Measure(b *Box) Rect
}

// Host is the layout engine the renderer drives: phase one commits the
// built tree, only then geometry may be queried.
type Host interface {
	GeometryProvider
	Commit(root *Box) error
}

// Direction of one writing-mode axis.
// ENUM(lr, rl, tb)
type Direction int

const (
	DirectionLr Direction = iota
	DirectionRl
	DirectionTb
)

func (d Direction) String() string {
	switch d {
	case DirectionLr:
		return "lr"
	case DirectionRl:
		return "rl"
	case DirectionTb:
		return "tb"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ProgressionAxes captures the inline and block progression directions of a
// region (block axis) and paragraph (inline axis when block progression is
// top to bottom). Both must be set before any projection happens.
type ProgressionAxes struct {
	Inline Direction
	Block  Direction
}

// EdgeRect is a bounding box projected into writing-mode-relative
// coordinates. Before/After follow block progression, Start/End inline
// progression. The sign of (After-Before) encodes direction: for rl
// progression After is numerically smaller than Before.
type EdgeRect struct {
	Before, After, Start, End float64
}

// AxesFromWritingMode maps a tts:writingMode value to progression axes.
// The inline axis of a tb block mode may later be overridden per paragraph
// by tts:direction, see WithDirection.
func AxesFromWritingMode(wm string) ProgressionAxes {
	switch wm {
	case "", "lrtb", "lr":
		return ProgressionAxes{Inline: DirectionLr, Block: DirectionTb}
	case "rltb", "rl":
		return ProgressionAxes{Inline: DirectionRl, Block: DirectionTb}
	case "tblr":
		return ProgressionAxes{Inline: DirectionTb, Block: DirectionLr}
	case "tbrl", "tb":
		return ProgressionAxes{Inline: DirectionTb, Block: DirectionRl}
	}
	// unknown values are caught upstream during style resolution
	return ProgressionAxes{Inline: DirectionLr, Block: DirectionTb}
}

// WithDirection applies a paragraph tts:direction override. It only has an
// effect when block progression is top to bottom.
func (a ProgressionAxes) WithDirection(dir string) ProgressionAxes {
	if a.Block != DirectionTb {
		return a
	}
	switch dir {
	case "rtl":
		a.Inline = DirectionRl
	case "ltr":
		a.Inline = DirectionLr
	}
	return a
}

// Project converts a raw bounding box to writing-mode-relative edges.
// Unsupported axis combinations indicate broken upstream data and panic.
func (a ProgressionAxes) Project(r Rect) EdgeRect {
	switch a.Block {
	case DirectionTb:
		switch a.Inline {
		case DirectionLr:
			return EdgeRect{Before: r.Top, After: r.Bottom, Start: r.Left, End: r.Right}
		case DirectionRl:
			return EdgeRect{Before: r.Top, After: r.Bottom, Start: r.Right, End: r.Left}
		}
	case DirectionLr:
		if a.Inline == DirectionTb {
			return EdgeRect{Before: r.Left, After: r.Right, Start: r.Top, End: r.Bottom}
		}
	case DirectionRl:
		if a.Inline == DirectionTb {
			return EdgeRect{Before: r.Right, After: r.Left, Start: r.Top, End: r.Bottom}
		}
	}
	panic(fmt.Sprintf("invalid progression axes: inline=%s block=%s", a.Inline, a.Block))
}

// BlockSign is +1 when block coordinates grow from before to after and -1
// when they shrink (rl block progression).
func (a ProgressionAxes) BlockSign() float64 {
	if a.Block == DirectionRl {
		return -1
	}
	return 1
}

// InlineSign is +1 when inline coordinates grow from start to end.
func (a ProgressionAxes) InlineSign() float64 {
	if a.Inline == DirectionRl {
		return -1
	}
	return 1
}

// Side names one physical edge of a box. Adjusters select physical sides
// through the axes so their own logic stays direction-agnostic.
// ENUM(top, right, bottom, left)
type Side int

const (
	SideTop Side = iota
	SideRight
	SideBottom
	SideLeft
)

func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideRight:
		return "right"
	case SideBottom:
		return "bottom"
	case SideLeft:
		return "left"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// InlineStartSide returns the physical side at the inline start of a line.
func (a ProgressionAxes) InlineStartSide() Side {
	switch a.Inline {
	case DirectionLr:
		return SideLeft
	case DirectionRl:
		return SideRight
	case DirectionTb:
		return SideTop
	}
	panic(fmt.Sprintf("invalid inline progression: %s", a.Inline))
}

// InlineEndSide returns the physical side at the inline end of a line.
func (a ProgressionAxes) InlineEndSide() Side {
	switch a.Inline {
	case DirectionLr:
		return SideRight
	case DirectionRl:
		return SideLeft
	case DirectionTb:
		return SideBottom
	}
	panic(fmt.Sprintf("invalid inline progression: %s", a.Inline))
}

// BlockLeadingSide returns the physical side facing the block-progression
// "before" direction.
func (a ProgressionAxes) BlockLeadingSide() Side {
	switch a.Block {
	case DirectionTb:
		return SideTop
	case DirectionLr:
		return SideLeft
	case DirectionRl:
		return SideRight
	}
	panic(fmt.Sprintf("invalid block progression: %s", a.Block))
}

// BlockTrailingSide returns the physical side facing "after".
func (a ProgressionAxes) BlockTrailingSide() Side {
	switch a.Block {
	case DirectionTb:
		return SideBottom
	case DirectionLr:
		return SideRight
	case DirectionRl:
		return SideLeft
	}
	panic(fmt.Sprintf("invalid block progression: %s", a.Block))
}
