package render

import (
	"strings"
	"testing"
)

func outsideLines(t *testing.T, n int) (*Box, []*Line) {
	t.Helper()

	p := NewBox(KindParagraph)
	geo := stubGeo{}
	for i := 0; i < n; i++ {
		b := textBox(p, "line")
		geo[b] = Rect{
			Top:    float64(i * 20),
			Bottom: float64(i*20 + 10),
			Left:   0, Right: 40,
		}
	}
	lines := BuildLineList(p, nil, geo, AxesFromWritingMode("lrtb"))
	if len(lines) != n {
		t.Fatalf("fixture produced %d lines, want %d", len(lines), n)
	}
	return p, lines
}

func rubyContainerOn(line *Line) *Box {
	rc := NewBox(KindSpan)
	rc.Ruby = RubyContainer
	rc.Pending.RubyOutside = true
	line.RubyContainers = append(line.RubyContainers, rc)
	return rc
}

func TestResolveRubyPositions(t *testing.T) {
	_, lines := outsideLines(t, 3)
	first := rubyContainerOn(lines[0])
	mid := rubyContainerOn(lines[1])
	last := rubyContainerOn(lines[2])

	ResolveRubyPositions(lines, AxesFromWritingMode("lrtb"))

	if got := first.GetString(PropRubyPosition); got != "before" {
		t.Errorf("first line position = %q, want before", got)
	}
	if got := mid.GetString(PropRubyPosition); got != "after" {
		t.Errorf("middle line position = %q, want after", got)
	}
	if got := last.GetString(PropRubyPosition); got != "after" {
		t.Errorf("last line position = %q, want after", got)
	}
	if first.Pending.RubyOutside {
		t.Error("pending flag not cleared")
	}
}

func TestResolveRubyPositionsMirroredRl(t *testing.T) {
	p := NewBox(KindParagraph)
	a := textBox(p, "一")
	b := textBox(p, "二")
	geo := stubGeo{
		a: {Top: 0, Bottom: 40, Left: 80, Right: 100},
		b: {Top: 0, Bottom: 40, Left: 50, Right: 70},
	}
	axes := AxesFromWritingMode("tbrl")
	lines := BuildLineList(p, nil, geo, axes)

	first := rubyContainerOn(lines[0])
	second := rubyContainerOn(lines[1])

	ResolveRubyPositions(lines, axes)

	// rl block progression flips ruby so annotations still face outward
	if got := first.GetString(PropRubyPosition); got != "after" {
		t.Errorf("first rl line position = %q, want after", got)
	}
	if got := second.GetString(PropRubyPosition); got != "before" {
		t.Errorf("second rl line position = %q, want before", got)
	}
}

func TestResolveRubyPositionsExplicitUntouched(t *testing.T) {
	_, lines := outsideLines(t, 1)
	rc := NewBox(KindSpan)
	rc.Ruby = RubyContainer
	rc.Set(PropRubyPosition, "after")
	lines[0].RubyContainers = append(lines[0].RubyContainers, rc)

	ResolveRubyPositions(lines, AxesFromWritingMode("lrtb"))

	if got := rc.GetString(PropRubyPosition); got != "after" {
		t.Errorf("explicit position rewritten to %q", got)
	}
}

func TestResolveEmphasisPositionsNotMirrored(t *testing.T) {
	p := NewBox(KindParagraph)
	a := textBox(p, "一")
	b := textBox(p, "二")
	geo := stubGeo{
		a: {Top: 0, Bottom: 40, Left: 80, Right: 100},
		b: {Top: 0, Bottom: 40, Left: 50, Right: 70},
	}
	axes := AxesFromWritingMode("tbrl")
	lines := BuildLineList(p, nil, geo, axes)

	es := NewBox(KindSpan)
	es.Pending.EmphasisOutside = true
	lines[0].EmphasisSpans = append(lines[0].EmphasisSpans, es)

	ResolveEmphasisPositions(lines, axes)

	// emphasis keeps the tb mapping even for rl
	if got := es.GetString(PropEmphasisPosition); got != "before" {
		t.Errorf("first rl line emphasis = %q, want before", got)
	}
	if es.Pending.EmphasisOutside {
		t.Error("pending flag not cleared")
	}
}

func countReserveGroups(p *Box) []*Box {
	var groups []*Box
	p.Walk(func(b *Box) bool {
		if b.Ruby == RubyContainer && strings.HasPrefix(b.ID, "ruby-reserve-") {
			groups = append(groups, b)
			return false
		}
		return true
	})
	return groups
}

func TestSynthesizeRubyReserveBefore(t *testing.T) {
	p, lines := outsideLines(t, 2)

	SynthesizeRubyReserve(lines, &RubyReserveSpec{Position: RubyReserveBefore, Size: 12}, AxesFromWritingMode("lrtb"))

	groups := countReserveGroups(p)
	if len(groups) != 2 {
		t.Fatalf("synthesized %d groups, want one per line", len(groups))
	}
	// each group precedes its line's first element
	for i, g := range groups {
		if p.Children[i*2] != g {
			t.Errorf("group %d not inserted before its line", i)
		}
		var base, rtc *Box
		for _, c := range g.Children {
			switch c.Ruby {
			case RubyBase:
				base = c
			case RubyTextContainer:
				rtc = c
			}
		}
		if base == nil || len(base.Children) != 1 || base.Children[0].Text != "​" {
			t.Error("group missing zero width base glyph")
		}
		if rtc == nil {
			t.Fatal("group missing annotation container")
		}
		if got := rtc.GetString(PropRubyPosition); got != "before" {
			t.Errorf("annotation position = %q, want before", got)
		}
		if got := rtc.GetString(PropVisibility); got != "hidden" {
			t.Errorf("annotation visibility = %q, want hidden", got)
		}
		if got := rtc.GetFloat(PropFontSize); got != 12 {
			t.Errorf("annotation font size = %v, want 12", got)
		}
	}
}

func TestSynthesizeRubyReserveBoth(t *testing.T) {
	p, lines := outsideLines(t, 1)

	SynthesizeRubyReserve(lines, &RubyReserveSpec{Position: RubyReserveBoth}, AxesFromWritingMode("lrtb"))

	groups := countReserveGroups(p)
	if len(groups) != 1 {
		t.Fatalf("synthesized %d groups, want 1", len(groups))
	}
	var sides []string
	for _, c := range groups[0].Children {
		if c.Ruby == RubyTextContainer {
			sides = append(sides, c.GetString(PropRubyPosition))
			if c.GetFloat(PropFontSize) != 0 {
				t.Error("zero spec size must leave font size unset")
			}
		}
	}
	if len(sides) != 2 || sides[0] != "before" || sides[1] != "after" {
		t.Errorf("annotation sides = %v, want [before after]", sides)
	}
}

func TestSynthesizeRubyReserveOutside(t *testing.T) {
	// single line reserves both sides
	p, lines := outsideLines(t, 1)
	SynthesizeRubyReserve(lines, &RubyReserveSpec{Position: RubyReserveOutside}, AxesFromWritingMode("lrtb"))
	groups := countReserveGroups(p)
	if len(groups) != 1 {
		t.Fatalf("synthesized %d groups, want 1", len(groups))
	}
	n := 0
	for _, c := range groups[0].Children {
		if c.Ruby == RubyTextContainer {
			n++
		}
	}
	if n != 2 {
		t.Errorf("single outside line reserved %d sides, want 2", n)
	}

	// multi line follows the first-vs-subsequent rule
	p, lines = outsideLines(t, 2)
	SynthesizeRubyReserve(lines, &RubyReserveSpec{Position: RubyReserveOutside}, AxesFromWritingMode("lrtb"))
	groups = countReserveGroups(p)
	if len(groups) != 2 {
		t.Fatalf("synthesized %d groups, want 2", len(groups))
	}
	wantSides := []string{"before", "after"}
	for i, g := range groups {
		for _, c := range g.Children {
			if c.Ruby == RubyTextContainer {
				if got := c.GetString(PropRubyPosition); got != wantSides[i] {
					t.Errorf("line %d reserved side %q, want %q", i, got, wantSides[i])
				}
			}
		}
	}
}

func TestSynthesizeRubyReserveDonor(t *testing.T) {
	p, lines := outsideLines(t, 1)

	donor := NewBox(KindSpan)
	donor.Ruby = RubyContainer
	donor.Set(PropFontSize, 18.0)
	donor.Set(PropColor, Color{255, 0, 0, 255})
	p.Append(donor)
	lines[0].RubyContainers = append(lines[0].RubyContainers, donor)

	SynthesizeRubyReserve(lines, &RubyReserveSpec{Position: RubyReserveBefore}, AxesFromWritingMode("lrtb"))

	groups := countReserveGroups(p)
	if len(groups) != 1 {
		t.Fatalf("synthesized %d groups, want 1", len(groups))
	}
	g := groups[0]
	if g.GetFloat(PropFontSize) != 18.0 {
		t.Error("donor font size not copied onto the group")
	}
	if c := g.GetColor(PropColor); c == nil || *c != (Color{255, 0, 0, 255}) {
		t.Error("donor color not copied onto the group")
	}
	// the group lands right before the existing container
	for i, c := range p.Children {
		if c == donor {
			if i == 0 || p.Children[i-1] != g {
				t.Error("group not inserted before the existing ruby container")
			}
		}
	}
}

func TestSynthesizeRubyReserveNone(t *testing.T) {
	p, lines := outsideLines(t, 1)
	SynthesizeRubyReserve(lines, nil, AxesFromWritingMode("lrtb"))
	SynthesizeRubyReserve(lines, &RubyReserveSpec{Position: RubyReserveNone}, AxesFromWritingMode("lrtb"))
	if groups := countReserveGroups(p); len(groups) != 0 {
		t.Errorf("synthesized %d groups, want none", len(groups))
	}
}
