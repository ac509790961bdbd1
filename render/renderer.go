// Package render turns resolved ISD instants into adjusted visual box
// trees. Rendering runs in three phases with a hard layout barrier: the box
// tree is built and styled, committed to the host layout engine, and only
// then measured; the post-layout pass groups measured leaves into lines and
// applies the adjustments that depend on where line breaks actually fell.
package render

import (
	"fmt"

	"go.uber.org/zap"

	"ttxr/isd"
)

// Options is the caller-supplied render configuration, consumed read-only.
type Options struct {
	RootW, RootH float64 // root container extent, px
	CellCols     int     // ttp:cellResolution columns, 32 when unset
	CellRows     int     // ttp:cellResolution rows, 15 when unset

	SizeMultiplier       float64
	LineHeightMultiplier float64
	OpacityMultiplier    float64

	ColorMap           map[Color]Color
	BackgroundColorMap map[Color]Color
	FontFamilyOverride string

	ForcedOnly    bool
	RollUpEnabled bool
}

// withDefaults normalizes zero multipliers so an empty Options renders
// unscaled.
func (o Options) withDefaults() Options {
	if o.RootW == 0 {
		o.RootW = 640
	}
	if o.RootH == 0 {
		o.RootH = 480
	}
	if o.SizeMultiplier == 0 {
		o.SizeMultiplier = 1
	}
	if o.LineHeightMultiplier == 0 {
		o.LineHeightMultiplier = 1
	}
	if o.OpacityMultiplier == 0 {
		o.OpacityMultiplier = 1
	}
	return o
}

// Renderer renders successive ISD instants onto one host surface. It keeps
// no state of its own: cross-frame continuity travels through the
// FrameState value the caller threads from call to call, so one renderer
// serves any number of concurrently displayed tracks.
type Renderer struct {
	host Host
	opts Options
	log  *zap.Logger
}

func New(host Host, opts Options, log *zap.Logger) *Renderer {
	return &Renderer{host: host, opts: opts.withDefaults(), log: log}
}

// Frame is the result of rendering one ISD instant: the adjusted box tree
// and the state to pass as previous on the next call.
type Frame struct {
	Root  *Box
	State FrameState
}

// RenderISD renders one instant. prev is the state returned by the
// previous call, nil for the first frame; it is never mutated.
func (r *Renderer) RenderISD(doc *isd.Document, prev FrameState) (*Frame, error) {
	if doc == nil {
		return nil, fmt.Errorf("nil ISD document")
	}

	// phase 1: structure and flat styling
	root := buildTree(doc, &r.opts, r.log)

	// layout barrier: geometry is meaningless until the host commits
	if err := r.host.Commit(root); err != nil {
		return nil, fmt.Errorf("unable to commit layout: %w", err)
	}

	// phase 3: line discovery and post-layout adjustment
	tracker := NewRollUpStateTracker(r.opts.RollUpEnabled, prev)
	for _, region := range root.Children {
		r.adjustRegion(region, tracker)
	}

	return &Frame{Root: root, State: tracker.State()}, nil
}

func (r *Renderer) adjustRegion(region *Box, tracker *RollUpStateTracker) {
	regionBG := region.GetColor(PropBackgroundColor)

	var paragraphs []*Box
	region.Walk(func(b *Box) bool {
		if b.Kind == KindParagraph {
			paragraphs = append(paragraphs, b)
			return false
		}
		return true
	})

	for _, p := range paragraphs {
		r.adjustParagraph(p, regionBG)
	}

	body := bodyOf(region)
	if body == nil {
		return
	}
	lines := BuildLineList(body, regionBG, r.host, region.Axes)
	if len(lines) == 0 {
		return
	}
	tracker.Track(region, body, lines)
}

// adjustParagraph runs the adjusters in their fixed order. Each consumes
// and clears one pending flag left by the style mapping phase; flags on
// nested spans are consumed through the line annotations.
func (r *Renderer) adjustParagraph(p *Box, inheritedBG *Color) {
	if bg := nearestBackground(p, inheritedBG); bg != nil {
		inheritedBG = bg
	}
	if !needsAdjustment(p) {
		return
	}

	axes := p.Axes
	lines := BuildLineList(p, inheritedBG, r.host, axes)
	if len(lines) == 0 {
		return
	}

	if spec := p.Pending.RubyReserve; spec != nil {
		p.Pending.RubyReserve = nil
		SynthesizeRubyReserve(lines, spec, axes)
	}
	ResolveRubyPositions(lines, axes)
	ResolveEmphasisPositions(lines, axes)
	if p.Pending.MultiRowAlign != "" {
		p.Pending.MultiRowAlign = ""
		ApplyMultiRowAlign(lines)
	}
	if pad := p.Pending.LinePadding; pad > 0 {
		p.Pending.LinePadding = 0
		ApplyLinePadding(lines, pad, axes)
	}
	if p.Pending.FillLineGap {
		p.Pending.FillLineGap = false
		er := axes.Project(r.host.Measure(p))
		ApplyFillLineGap(lines, er.Before, er.After, axes)
	}
}

// needsAdjustment reports whether the paragraph or any span below it left a
// pending flag for the post-layout pass.
func needsAdjustment(p *Box) bool {
	pending := false
	p.Walk(func(b *Box) bool {
		pnd := b.Pending
		if pnd.LinePadding > 0 || pnd.MultiRowAlign != "" || pnd.RubyReserve != nil ||
			pnd.FillLineGap || pnd.RubyOutside || pnd.EmphasisOutside {
			pending = true
			return false
		}
		return true
	})
	return pending
}

func nearestBackground(b *Box, fallback *Color) *Color {
	for a := b.Parent; a != nil; a = a.Parent {
		if c := a.GetColor(PropBackgroundColor); c != nil {
			return c
		}
	}
	return fallback
}

func bodyOf(region *Box) *Box {
	for _, c := range region.Children {
		if c.Kind == KindBody {
			return c
		}
	}
	return nil
}
