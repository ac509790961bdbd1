package render

import (
	"fmt"

	"github.com/google/uuid"
)

// Outside ruby and emphasis positioning can only be resolved once line
// breaks are known: annotations of the first line go to the outer "before"
// side, annotations of every other line to the "after" side, so they always
// face away from the paragraph body.

// outsideSide resolves the position for a given line index. For rl block
// progression the ruby mapping is mirrored; text emphasis keeps the tb
// mapping for all modes.
func outsideSide(lineIdx int, axes ProgressionAxes, mirrorRl bool) string {
	before := lineIdx == 0
	if mirrorRl && axes.Block == DirectionRl {
		before = !before
	}
	if before {
		return "before"
	}
	return "after"
}

// ResolveRubyPositions pins "outside" ruby containers of every line to a
// concrete side. Containers carrying an explicit before/after position are
// never touched.
func ResolveRubyPositions(lines []*Line, axes ProgressionAxes) {
	for i, l := range lines {
		for _, rc := range l.RubyContainers {
			if !rc.Pending.RubyOutside {
				continue
			}
			rc.Pending.RubyOutside = false
			rc.Set(PropRubyPosition, outsideSide(i, axes, true))
		}
	}
}

// ResolveEmphasisPositions pins "outside" text emphasis marks of every line
// to a concrete side, using the same first-vs-subsequent rule as ruby but
// without the rl mirroring.
func ResolveEmphasisPositions(lines []*Line, axes ProgressionAxes) {
	for i, l := range lines {
		for _, es := range l.EmphasisSpans {
			if !es.Pending.EmphasisOutside {
				continue
			}
			es.Pending.EmphasisOutside = false
			es.Set(PropEmphasisPosition, outsideSide(i, axes, false))
		}
	}
}

// SynthesizeRubyReserve inserts an invisible ruby group into every line of
// a paragraph that requests reserved ruby space, so line spacing stays
// constant whether or not real annotations are present. The group carries a
// zero-width base glyph and one or two hidden annotation containers sized
// to the reserved font size.
//
// When the line already holds a ruby container the group is inserted right
// before it and copies that container's explicit style properties, so the
// synthetic annotation measures like the real one. Otherwise it goes before
// the line's first element.
func SynthesizeRubyReserve(lines []*Line, spec *RubyReserveSpec, axes ProgressionAxes) {
	if spec == nil || spec.Position == RubyReserveNone {
		return
	}
	for i, l := range lines {
		if len(l.Elements) == 0 {
			continue
		}

		var sides []string
		switch spec.Position {
		case RubyReserveBefore:
			sides = []string{"before"}
		case RubyReserveAfter:
			sides = []string{"after"}
		case RubyReserveBoth:
			sides = []string{"before", "after"}
		case RubyReserveOutside:
			if len(lines) == 1 {
				sides = []string{"before", "after"}
			} else {
				sides = []string{outsideSide(i, axes, true)}
			}
		default:
			return
		}

		var donor *Box
		anchor := l.Elements[0].Box
		if len(l.RubyContainers) > 0 {
			donor = l.RubyContainers[0]
			anchor = donor
		}
		if anchor.Parent == nil {
			continue
		}

		group := newReserveGroup(spec, sides, donor)
		anchor.Parent.InsertBefore(group, anchor)
	}
}

func newReserveGroup(spec *RubyReserveSpec, sides []string, donor *Box) *Box {
	group := NewBox(KindSpan)
	group.Ruby = RubyContainer
	// synthetic groups need stable unique ids for snapshots and debugging
	group.ID = "ruby-reserve-" + uuid.NewString()
	if donor != nil {
		for p, v := range donor.Props {
			group.Set(p, v)
		}
	}

	base := group.Append(NewBox(KindSpan))
	base.Ruby = RubyBase
	glyph := base.Append(NewBox(KindText))
	glyph.Text = "​" // zero width space keeps the base measurable but empty

	for n, side := range sides {
		rtc := NewBox(KindSpan)
		rtc.Ruby = RubyTextContainer
		rtc.ID = fmt.Sprintf("%s-reserve-%d", side, n)
		rtc.Set(PropRubyPosition, side)
		rtc.Set(PropVisibility, "hidden")
		if spec.Size > 0 {
			rtc.Set(PropFontSize, spec.Size)
		}
		rt := rtc.Append(NewBox(KindSpan))
		rt.Ruby = RubyText
		rt.Append(NewBox(KindText)).Text = "​"
		group.Append(rtc)
	}
	return group
}
