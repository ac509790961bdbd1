package render

// ApplyLinePadding extends each line's background by pad pixels at its
// start and end edges. The strip is a colored border paired with an equal
// negative margin on the start and end elements, so the rendered width of
// the line does not change and layout already committed stays valid.
//
// The pad length arrives already resolved and scaled by the caller.
func ApplyLinePadding(lines []*Line, pad float64, axes ProgressionAxes) {
	if pad <= 0 {
		return
	}
	startSide, endSide := axes.InlineStartSide(), axes.InlineEndSide()
	for _, l := range lines {
		if len(l.Elements) == 0 {
			continue
		}
		padElement(l.Elements[l.StartElem], startSide, pad)
		padElement(l.Elements[l.EndElem], endSide, pad)
	}
}

func padElement(e LineElement, side Side, pad float64) {
	color := Transparent
	if e.BackgroundColor != nil {
		color = *e.BackgroundColor
	}
	e.Box.Set(BorderProp(side), Border{Width: pad, Color: color})
	e.Box.AddFloat(MarginProp(side), -pad)
}

// ApplyMultiRowAlign prepares a paragraph for explicit multi-row alignment
// by hardening every discovered line break: without it, re-aligning the
// rows would reflow the very line boundaries that were just measured. The
// last line never gets a break, and lines that already end on an explicit
// break are left alone.
func ApplyMultiRowAlign(lines []*Line) {
	for i, l := range lines {
		if i == len(lines)-1 {
			break
		}
		if l.HasExplicitBreak || len(l.Elements) == 0 {
			continue
		}
		last := l.Elements[len(l.Elements)-1].Box
		if last.Parent == nil {
			continue
		}
		last.Parent.InsertAfter(NewBox(KindBreak), last)
		l.HasExplicitBreak = true
	}
}

// ApplyFillLineGap closes inter-line gaps of a paragraph spanning parBefore
// to parAfter along the block axis. For every frontier (the paragraph's
// leading edge, each midpoint between consecutive lines, the trailing
// edge), background-colored elements of the adjacent lines get their block
// padding extended up to the frontier. Comparisons are signed by block
// progression so one formula serves all writing modes.
func ApplyFillLineGap(lines []*Line, parBefore, parAfter float64, axes ProgressionAxes) {
	if len(lines) == 0 {
		return
	}
	sign := axes.BlockSign()
	leading, trailing := axes.BlockLeadingSide(), axes.BlockTrailingSide()

	for i := 0; i <= len(lines); i++ {
		var frontier float64
		switch i {
		case 0:
			frontier = parBefore
		case len(lines):
			frontier = parAfter
		default:
			frontier = (lines[i-1].After + lines[i].Before) / 2
		}

		if i > 0 {
			for _, e := range lines[i-1].Elements {
				if e.BackgroundColor == nil || e.BackgroundColor.IsTransparent() {
					continue
				}
				if gap := sign * (frontier - e.After); gap > 0 {
					e.Box.AddFloat(PaddingProp(trailing), gap)
				}
			}
		}
		if i < len(lines) {
			for _, e := range lines[i].Elements {
				if e.BackgroundColor == nil || e.BackgroundColor.IsTransparent() {
					continue
				}
				if gap := sign * (e.Before - frontier); gap > 0 {
					e.Box.AddFloat(PaddingProp(leading), gap)
				}
			}
		}
	}
}
