package render

import "fmt"

// Roll-up emulation: when an ISD frame appends exactly one new line to a
// bottom-aligned region while keeping the previous content, legacy CEA-608
// style presentation slides the region body up by the new line's thickness.
// Detection works by comparing per-region line snapshots across frames.

// DefaultRegionID keys regions whose ISD carries no id.
const DefaultRegionID = "__region__"

// rollUpDuration is the slide transition length in seconds.
const rollUpDuration = 0.4

// LineSnapshot is the read-only per-line record kept across frames.
type LineSnapshot struct {
	Text      string
	Thickness float64
}

// RegionBuffer captures what one region presented during a frame. Buffers
// are created fresh every render call; the full map is handed back to the
// caller and becomes the previous state of the next call.
type RegionBuffer struct {
	RegionID  string
	Lines     []LineSnapshot
	Animating bool
}

// FrameState maps region id to its presentation buffer for one frame.
type FrameState map[string]*RegionBuffer

// Snapshot converts a discovered line list into its cross-frame record.
func Snapshot(regionID string, lines []*Line) *RegionBuffer {
	if regionID == "" {
		regionID = DefaultRegionID
	}
	buf := &RegionBuffer{RegionID: regionID}
	for _, l := range lines {
		buf.Lines = append(buf.Lines, LineSnapshot{Text: l.Text, Thickness: l.Thickness()})
	}
	return buf
}

// RollUpStateTracker decides, region by region, whether the current frame
// continues a roll-up scroll. Previous state is read-only input; the fresh
// state map is built up via Track calls.
type RollUpStateTracker struct {
	enabled bool
	prev    FrameState
	next    FrameState
}

func NewRollUpStateTracker(enabled bool, prev FrameState) *RollUpStateTracker {
	return &RollUpStateTracker{
		enabled: enabled,
		prev:    prev,
		next:    FrameState{},
	}
}

// State returns the accumulated per-region state for this frame.
func (t *RollUpStateTracker) State() FrameState {
	return t.next
}

// Track records the region's buffer for this frame and starts the slide
// transition on body when the frame looks like a one-line roll-up: the
// region is after-aligned, roll-up is enabled, a previous buffer exists and
// the second-to-last current line repeats the previous frame's last line.
// Multi-line insertions and mid-line edits intentionally fall back to no
// animation; the text-match heuristic is the documented behavior, not an
// approximation of a richer one.
func (t *RollUpStateTracker) Track(region, body *Box, lines []*Line) *RegionBuffer {
	buf := Snapshot(regionIDOf(region), lines)
	t.next[buf.RegionID] = buf

	if !t.enabled || body == nil || len(buf.Lines) < 2 {
		return buf
	}
	if region.GetString(PropDisplayAlign) != "after" {
		return buf
	}
	prev, ok := t.prev[buf.RegionID]
	if !ok || len(prev.Lines) == 0 {
		// first frame for this region, nothing to scroll from
		return buf
	}
	cur := buf.Lines
	if cur[len(cur)-2].Text != prev.Lines[len(prev.Lines)-1].Text {
		return buf
	}

	offset := cur[len(cur)-1].Thickness
	from := fmt.Sprintf("translateY(%.3fpx)", offset)
	body.Set(PropTransform, from)
	body.Animations = append(body.Animations, Animation{
		Prop:     PropTransform,
		From:     from,
		To:       "translateY(0)",
		Duration: rollUpDuration,
	})
	buf.Animating = true
	return buf
}

func regionIDOf(region *Box) string {
	if region == nil || region.ID == "" {
		return DefaultRegionID
	}
	return region.ID
}
