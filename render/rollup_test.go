package render

import "testing"

func snapshotLines(texts ...string) []*Line {
	var lines []*Line
	for i, txt := range texts {
		lines = append(lines, &Line{
			Before: float64(i * 20),
			After:  float64(i*20 + 16),
			Text:   txt,
		})
	}
	return lines
}

func rollUpRegion(id string) (*Box, *Box) {
	region := NewBox(KindRegion)
	region.ID = id
	region.Set(PropDisplayAlign, "after")
	body := region.Append(NewBox(KindBody))
	return region, body
}

func TestSnapshot(t *testing.T) {
	buf := Snapshot("r1", snapshotLines("a", "b"))
	if buf.RegionID != "r1" {
		t.Errorf("region id = %q", buf.RegionID)
	}
	if len(buf.Lines) != 2 || buf.Lines[0].Text != "a" || buf.Lines[1].Thickness != 16 {
		t.Errorf("snapshot = %+v", buf.Lines)
	}
	if buf.Animating {
		t.Error("fresh snapshot marked animating")
	}

	if buf := Snapshot("", nil); buf.RegionID != DefaultRegionID {
		t.Errorf("empty region id mapped to %q", buf.RegionID)
	}
}

func TestTrackRollUp(t *testing.T) {
	region, body := rollUpRegion("r1")

	prev := NewRollUpStateTracker(true, nil)
	prev.Track(region, body, snapshotLines("a", "b"))

	tr := NewRollUpStateTracker(true, prev.State())
	buf := tr.Track(region, body, snapshotLines("a", "b", "c"))

	if !buf.Animating {
		t.Fatal("one-line append did not start the slide")
	}
	if got := body.GetString(PropTransform); got != "translateY(16.000px)" {
		t.Errorf("transform = %q", got)
	}
	if len(body.Animations) != 1 {
		t.Fatalf("recorded %d animations, want 1", len(body.Animations))
	}
	a := body.Animations[0]
	if a.Prop != PropTransform || a.To != "translateY(0)" || a.Duration != rollUpDuration {
		t.Errorf("animation = %+v", a)
	}
	if tr.State()["r1"] != buf {
		t.Error("buffer not recorded in frame state")
	}
}

func TestTrackNoAnimation(t *testing.T) {
	base := NewRollUpStateTracker(true, nil)
	region, body := rollUpRegion("r1")
	base.Track(region, body, snapshotLines("a", "b"))
	prevState := base.State()

	tests := []struct {
		name    string
		enabled bool
		prev    FrameState
		setup   func() (*Box, *Box)
		lines   []*Line
	}{
		{
			name:    "disabled",
			enabled: false,
			prev:    prevState,
			setup:   func() (*Box, *Box) { return rollUpRegion("r1") },
			lines:   snapshotLines("a", "b", "c"),
		},
		{
			name:    "no previous state",
			enabled: true,
			prev:    nil,
			setup:   func() (*Box, *Box) { return rollUpRegion("r1") },
			lines:   snapshotLines("a", "b", "c"),
		},
		{
			name:    "text mismatch",
			enabled: true,
			prev:    prevState,
			setup:   func() (*Box, *Box) { return rollUpRegion("r1") },
			lines:   snapshotLines("a", "x", "c"),
		},
		{
			name:    "single line",
			enabled: true,
			prev:    prevState,
			setup:   func() (*Box, *Box) { return rollUpRegion("r1") },
			lines:   snapshotLines("b"),
		},
		{
			name:    "not after aligned",
			enabled: true,
			prev:    prevState,
			setup: func() (*Box, *Box) {
				region, body := rollUpRegion("r1")
				region.Set(PropDisplayAlign, "before")
				return region, body
			},
			lines: snapshotLines("a", "b", "c"),
		},
		{
			name:    "nil body",
			enabled: true,
			prev:    prevState,
			setup: func() (*Box, *Box) {
				region, _ := rollUpRegion("r1")
				return region, nil
			},
			lines: snapshotLines("a", "b", "c"),
		},
		{
			name:    "different region",
			enabled: true,
			prev:    prevState,
			setup:   func() (*Box, *Box) { return rollUpRegion("r2") },
			lines:   snapshotLines("a", "b", "c"),
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			region, body := tc.setup()
			tr := NewRollUpStateTracker(tc.enabled, tc.prev)
			buf := tr.Track(region, body, tc.lines)
			if buf.Animating {
				t.Error("frame animated, want stable")
			}
			if body != nil && len(body.Animations) != 0 {
				t.Error("animation recorded, want none")
			}
			if tr.State()[buf.RegionID] != buf {
				t.Error("buffer not recorded in frame state")
			}
		})
	}
}

func TestTrackDefaultRegionID(t *testing.T) {
	region, body := rollUpRegion("")

	prev := NewRollUpStateTracker(true, nil)
	prev.Track(region, body, snapshotLines("a"))
	if _, ok := prev.State()[DefaultRegionID]; !ok {
		t.Fatal("anonymous region not keyed by default id")
	}

	tr := NewRollUpStateTracker(true, prev.State())
	buf := tr.Track(region, body, snapshotLines("a", "b"))
	if !buf.Animating {
		t.Error("anonymous region continuity lost across frames")
	}
}
