package layout

import (
	"math"

	"golang.org/x/image/math/fixed"
)

// finalizeLines implements spec.md §4.5 "Post-commit finalization (per
// line)" and "Overall layout finalization". Grounded on
// skia/paragraph/internal_line_metrics.go's Add/Clean/UpdateLineMetrics
// accumulation pattern, generalized to operate over this package's
// LineItem/Cluster model and to add the UBA L2 reorder and quantization
// steps spec.md calls for (the teacher's equivalent pass predates a full
// bidi reorder and is simplified here into an explicit step).
func (b *Breaker) finalizeLines() {
	lay := b.lay

	for li := range lay.Lines {
		line := &lay.Lines[li]
		b.computeRunFlags(line)
		b.computeLineMetrics(line)
		b.reorderLineItems(line)
		b.computeTrailingWhitespace(line)
	}

	for li := range lay.Lines {
		if li == 0 {
			continue
		}
		line := &lay.Lines[li]
		if line.ItemRange.IsEmpty() && line.Metrics.Advance == 0 {
			line.Metrics = lay.Lines[li-1].Metrics
			line.Metrics.Advance = 0
			line.Metrics.TrailingWhitespace = 0
		}
	}

	if lay.Quantize {
		for li := range lay.Lines {
			b.quantizeLine(&lay.Lines[li])
		}
	}

	b.finalizeLayout()
}

// computeRunFlags is the spec.md §4.5 first-bullet step (is_whitespace/
// has_trailing_whitespace per run item). It does nothing: no flag is
// stored, and computeLineMetrics (via isAllWhitespace) and
// computeTrailingWhitespace derive what they need from
// Cluster.IsWhitespace.
func (b *Breaker) computeRunFlags(line *Line) {
	// No persistent storage needed: computeTrailingWhitespace and
	// computeLineMetrics recompute what they need on demand from
	// Cluster.IsWhitespace directly.
}

func (b *Breaker) computeLineMetrics(line *Line) {
	lay := b.lay
	var ascent, descent, leading, lineHeight float32

	for i := line.ItemRange.Start; i < line.ItemRange.End; i++ {
		li := lay.LineItems[i]
		switch li.Item.Kind {
		case ItemRun:
			run := lay.Runs[li.Item.Index]
			if isAllWhitespace(lay, li) {
				continue
			}
			if run.Ascent > ascent {
				ascent = run.Ascent
			}
			if run.Descent > descent {
				descent = run.Descent
			}
			if run.Leading > leading {
				leading = run.Leading
			}
			if run.LineHeight > lineHeight {
				lineHeight = run.LineHeight
			}
		case ItemInlineBox:
			box := lay.InlineBoxes[li.Item.Index]
			if box.Kind == InlineBoxInFlow && box.Height > ascent {
				ascent = box.Height
			}
			if box.Height > lineHeight {
				lineHeight = box.Height
			}
		}
	}
	if lineHeight == 0 {
		lineHeight = ascent + descent + leading
	}
	line.Metrics.Ascent = ascent
	line.Metrics.Descent = descent
	line.Metrics.LineHeight = lineHeight
	line.Metrics.Leading = lineHeight - (ascent + descent)
	line.Metrics.Baseline = ascent
}

func isAllWhitespace(lay *Layout, li LineItem) bool {
	if li.Item.Kind != ItemRun {
		return false
	}
	if li.ClusterRange.IsEmpty() {
		return true
	}
	for ci := li.ClusterRange.Start; ci < li.ClusterRange.End; ci++ {
		if !lay.Clusters[ci].IsWhitespace() {
			return false
		}
	}
	return true
}

// reorderLineItems applies UBA L2 (spec.md §4.5: "for each odd level
// from highest down to lowest, reverse the item sub-ranges with level ≥
// current").
func (b *Breaker) reorderLineItems(line *Line) {
	lay := b.lay
	start, end := line.ItemRange.Start, line.ItemRange.End
	if end-start < 2 {
		return
	}
	levels := make([]uint8, end-start)
	var maxLevel uint8
	var minOdd uint8 = 255
	for i := start; i < end; i++ {
		li := lay.LineItems[i]
		var level uint8
		if li.Item.Kind == ItemRun {
			level = lay.Runs[li.Item.Index].BidiLevel
		}
		levels[i-start] = level
		if level > maxLevel {
			maxLevel = level
		}
		if level%2 == 1 && level < minOdd {
			minOdd = level
		}
	}
	if minOdd == 255 {
		return
	}
	for level := maxLevel; level >= minOdd; level-- {
		i := 0
		for i < len(levels) {
			if levels[i] >= level {
				j := i
				for j < len(levels) && levels[j] >= level {
					j++
				}
				reverseLineItems(lay.LineItems[start+i:start+j])
				reverseBytes(levels[i:j])
				i = j
			} else {
				i++
			}
		}
		if level == 0 {
			break
		}
	}
}

func reverseLineItems(s []LineItem) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseBytes(s []uint8) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// computeTrailingWhitespace sums the advance of trailing whitespace
// clusters on the paragraph's "end" side (spec.md §4.5).
func (b *Breaker) computeTrailingWhitespace(line *Line) {
	lay := b.lay
	rtlBase := lay.IsRTL()
	start, end := line.ItemRange.Start, line.ItemRange.End
	if end <= start {
		return
	}
	var idx int
	var step int
	if !rtlBase {
		idx, step = end-1, -1
	} else {
		idx, step = start, 1
	}
	var total float32
	for idx >= start && idx < end {
		li := lay.LineItems[idx]
		if li.Item.Kind != ItemRun {
			break
		}
		stop := false
		if !rtlBase {
			for ci := li.ClusterRange.End - 1; ci >= li.ClusterRange.Start; ci-- {
				c := lay.Clusters[ci]
				if !c.IsWhitespace() {
					stop = true
					break
				}
				total += c.Advance
			}
		} else {
			for ci := li.ClusterRange.Start; ci < li.ClusterRange.End; ci++ {
				c := lay.Clusters[ci]
				if !c.IsWhitespace() {
					stop = true
					break
				}
				total += c.Advance
			}
		}
		if stop {
			break
		}
		idx += step
	}
	line.Metrics.TrailingWhitespace = total
}

// quantizeLine implements spec.md §4.5's rounding step.
func (b *Breaker) quantizeLine(line *Line) {
	m := &line.Metrics
	ascent := roundHalf(m.Ascent)
	descent := roundHalf(m.Descent)
	leading := ascent + descent
	leading = m.LineHeight - leading
	below := ceilHalf(leading / 2)
	above := leading - below
	baseline := ascent + above
	m.Ascent, m.Descent = ascent, descent
	m.Leading = leading
	m.Baseline = baseline
	m.BlockMin = baseline - ascent - maxF(above, 0)
	m.BlockMax = baseline + descent + maxF(below, 0)
}

// roundHalf and ceilHalf quantize to whole device pixels via 26.6
// fixed-point arithmetic, the representation go-text/typesetting's
// shaper and the teacher's harfbuzz.go advance conversion both use, so
// quantization rounds the same sub-pixel remainder a shaper would.
func roundHalf(v float32) float32 {
	f := fixed.Int26_6(math.Round(float64(v) * 64))
	return float32((f+32)&^63) / 64
}

func ceilHalf(v float32) float32 {
	f := fixed.Int26_6(math.Round(float64(v) * 64))
	return float32((f+63)&^63) / 64
}
func maxF(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// finalizeLayout implements spec.md §4.5 "Overall layout finalization".
func (b *Breaker) finalizeLayout() {
	lay := b.lay
	var width, fullWidth, height float32
	for li, line := range lay.Lines {
		adv := line.Metrics.Advance
		if adv-line.Metrics.TrailingWhitespace > width {
			width = adv - line.Metrics.TrailingWhitespace
		}
		if adv > fullWidth {
			fullWidth = adv
		}
		isFinalEmpty := li == len(lay.Lines)-1 && line.ItemRange.IsEmpty() && len(lay.Lines) > 1
		if !isFinalEmpty {
			height += line.Metrics.LineHeight
		}
	}
	lay.Width = width
	lay.FullWidth = fullWidth
	lay.Height = height

	for li := range lay.Lines {
		line := &lay.Lines[li]
		if math.IsInf(float64(b.maxAdvance), 1) {
			line.Metrics.InlineMaxCoord = line.Metrics.InlineMinCoord + width
		} else {
			line.Metrics.InlineMaxCoord = line.Metrics.InlineMinCoord + b.maxAdvance
		}
	}
}
