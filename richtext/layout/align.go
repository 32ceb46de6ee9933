package layout

// Alignment is the paragraph alignment mode (spec.md §4.6).
type Alignment uint8

const (
	AlignStart Alignment = iota
	AlignEnd
	AlignLeft
	AlignRight
	AlignCenter
	AlignJustify
)

// AlignOptions carries the align_when_overflowing flag (spec.md §4.6).
type AlignOptions struct {
	AlignWhenOverflowing bool
}

// Align implements the Aligner (spec.md C7): sets each line's
// Metrics.Offset and, for Justify, distributes extra advance across the
// line's space clusters. Grounded on the teacher's formatLines pass
// (skia/paragraph/paragraph_impl_layout.go) which applies TextAlign after
// breaking; generalized to spec.md's six-way alignment plus
// align_when_overflowing and idempotent re-justification.
func (lay *Layout) Align(containerWidth float32, alignment Alignment, opts AlignOptions) {
	if containerWidth <= 0 {
		containerWidth = lay.AlignWidth
	}
	lay.AlignWidth = containerWidth
	rtlBase := lay.IsRTL()

	resolved := alignment
	switch alignment {
	case AlignStart:
		if rtlBase {
			resolved = AlignRight
		} else {
			resolved = AlignLeft
		}
	case AlignEnd:
		if rtlBase {
			resolved = AlignLeft
		} else {
			resolved = AlignRight
		}
	}

	for li := range lay.Lines {
		line := &lay.Lines[li]
		if line.IsJustified {
			// Undo a previous justification pass before re-measuring
			// extra (spec.md §4.6: "Record is_aligned_justified so a
			// later re-align can undo it").
			line.IsJustified = false
		}
		extra := containerWidth - (line.Metrics.Advance - line.Metrics.TrailingWhitespace)

		switch resolved {
		case AlignCenter:
			if extra >= 0 || opts.AlignWhenOverflowing {
				line.Metrics.Offset = extra / 2
			} else {
				line.Metrics.Offset = 0
			}
		case AlignRight:
			if extra >= 0 || opts.AlignWhenOverflowing {
				line.Metrics.Offset = extra
			} else {
				line.Metrics.Offset = 0
			}
		case AlignJustify:
			isFinalLine := li == len(lay.Lines)-1 || line.BreakReason == BreakReasonExplicit
			if !isFinalLine && extra > 0 && line.NumSpaces > 0 {
				lay.justifyLine(li, extra)
				line.IsJustified = true
			}
			line.Metrics.Offset = 0
		default: // Left
			line.Metrics.Offset = 0
		}
	}
}

// justifyLine distributes extra equally across the line's space clusters
// (spec.md §4.6 "Justify").
func (lay *Layout) justifyLine(lineIdx int, extra float32) {
	line := &lay.Lines[lineIdx]
	if line.NumSpaces <= 0 {
		return
	}
	perSpace := extra / float32(line.NumSpaces)
	remaining := line.NumSpaces
	for i := line.ItemRange.Start; i < line.ItemRange.End && remaining > 0; i++ {
		li := lay.LineItems[i]
		if li.Item.Kind != ItemRun {
			continue
		}
		for ci := li.ClusterRange.Start; ci < li.ClusterRange.End && remaining > 0; ci++ {
			c := &lay.Clusters[ci]
			if c.IsWhitespace() {
				c.Advance += perSpace
				remaining--
			}
		}
	}
	line.Metrics.Advance += extra
}

// IndentOptions configures text-indent (spec.md §4.6).
type IndentOptions struct {
	EachLine bool
	Hanging  bool
}

// Indent implements spec.md §4.6 "Text-indent" on the lines as currently
// broken: it adds amount to Metrics.Offset of each scope line (of every
// other line when opts.Hanging is set). The line breaker does not
// subtract the indent from max_advance, so it does not change where lines
// wrap; callers that want that pass a pre-reduced max_advance to the
// Breaker. A later Align or BreakLines call overwrites the offsets set
// here.
func (lay *Layout) Indent(amount float32, opts IndentOptions) {
	rtlBase := lay.IsRTL()
	isScopeLine := func(lineIdx int) bool {
		if lineIdx == 0 {
			return true
		}
		if opts.EachLine && lay.Lines[lineIdx-1].BreakReason == BreakReasonExplicit {
			return true
		}
		return false
	}
	for li := range lay.Lines {
		scope := isScopeLine(li)
		apply := scope
		if opts.Hanging {
			apply = !scope
		}
		if !apply {
			continue
		}
		if rtlBase {
			lay.Lines[li].Metrics.Offset -= amount
		} else {
			lay.Lines[li].Metrics.Offset += amount
		}
	}
}

// CalculateContentWidths implements spec.md §6/§9 Open Question (2): the
// min/max intrinsic widths, computed by re-breaking once at max_advance=∞
// and once breaking at every opportunity. Declared imprecise for
// mixed-direction text per the spec's own caveat — not guaranteed exact
// for bidi text.
func (lay *Layout) CalculateContentWidths(overflowWrap OverflowWrapPolicy, wrapMode WrapMode) ContentWidths {
	maxBreaker := NewBreaker(lay, float32(1e30), overflowWrap, wrapMode)
	maxBreaker.BreakLines()
	maxWidth := lay.FullWidth

	minBreaker := NewBreaker(lay, 0, overflowWrap, wrapMode)
	minBreaker.BreakLines()
	minWidth := lay.Width

	return ContentWidths{Min: minWidth, Max: maxWidth}
}
