// Package cursor implements the Cursor half of spec.md C8: mapping
// between (byte index, affinity) and geometry, and logical/visual/word/line
// navigation. The package has no Selection type and computes no selection
// rectangles.
//
// Grounded on skia/paragraph/position.go (PositionWithAffinity/TextBox,
// the teacher's much thinner analogue) enriched per SPEC_FULL.md's
// "Supplemented features" using the richer navigation surface described
// in _examples/original_source/parley/src/layout/cursor.rs and
// editing/selection.rs, expressed as Go value types and methods rather
// than transliterated Rust.
package cursor

import (
	"github.com/richtext/layoutengine/richtext/geom"
	"github.com/richtext/layoutengine/richtext/layout"
	"github.com/richtext/layoutengine/richtext/textpos"
)

// Cursor is (byte_index, affinity) (spec.md §4.7). It holds no reference
// to a Layout (spec.md §9 "Avoiding cyclic state") and must be evaluated
// against one on every query.
type Cursor struct {
	ByteIndex int
	Affinity  textpos.Affinity
}

// FromByteIndex constructs a cursor at idx, forcing Downstream at index 0
// (spec.md §4.7: "byte_index == 0 forces Downstream"). Non-char-boundary
// indices clamp to text_len with Upstream affinity (spec.md §5 "Failure
// semantics").
func FromByteIndex(lay *layout.Layout, idx int, affinity textpos.Affinity) Cursor {
	if idx < 0 {
		idx = 0
	}
	if idx > len(lay.Text) {
		idx = len(lay.Text)
		affinity = textpos.Upstream
	} else if !isCharBoundary(lay.Text, idx) {
		idx = len(lay.Text)
		affinity = textpos.Upstream
	}
	if idx == 0 {
		affinity = textpos.Downstream
	}
	return Cursor{ByteIndex: idx, Affinity: affinity}
}

func isCharBoundary(s string, idx int) bool {
	if idx == 0 || idx == len(s) {
		return true
	}
	if idx < 0 || idx > len(s) {
		return false
	}
	b := s[idx]
	return b&0xC0 != 0x80
}

// clusterAt finds the cluster covering byte offset idx and the line it
// belongs to. affinity disambiguates a position that sits exactly on a
// cluster boundary (spec.md §4.7): Downstream resolves to the cluster
// that starts at idx, Upstream to the cluster that ends at idx. When no
// cluster matches, clusterIdx is -1 and lineIdx is the first line whose
// text range contains idx, or -1 if there is none (e.g. empty layout).
func clusterAt(lay *layout.Layout, idx int, affinity textpos.Affinity) (clusterIdx, lineIdx int) {
	fallback := -1
	for li, line := range lay.Lines {
		if idx >= line.TextRange.Start && idx <= line.TextRange.End {
			for i := line.ItemRange.Start; i < line.ItemRange.End; i++ {
				item := lay.LineItems[i]
				if item.Item.Kind != layout.ItemRun {
					continue
				}
				run := lay.Runs[item.Item.Index]
				for ci := item.ClusterRange.Start; ci < item.ClusterRange.End; ci++ {
					c := lay.Clusters[ci]
					s := run.TextRange.Start + c.TextOffset
					e := s + c.TextLen
					if affinity == textpos.Upstream {
						if idx > s && idx <= e {
							return ci, li
						}
					} else if idx >= s && idx < e {
						return ci, li
					}
				}
			}
			// A line ending at idx shares that offset with the next line's
			// start; keep looking so the next line's cluster can match.
			if fallback < 0 {
				fallback = li
			}
		}
	}
	return -1, fallback
}

// FromPoint constructs a cursor from a point (spec.md §4.7): locate the
// cluster under the point, snapping left/right per its visual side.
func FromPoint(lay *layout.Layout, x, y float32) Cursor {
	lineIdx := lineAtY(lay, y)
	if lineIdx < 0 {
		return FromByteIndex(lay, 0, textpos.Downstream)
	}
	line := lay.Lines[lineIdx]

	var runningX float32 = line.Metrics.Offset
	for i := line.ItemRange.Start; i < line.ItemRange.End; i++ {
		item := lay.LineItems[i]
		if item.Item.Kind != layout.ItemRun {
			continue
		}
		run := lay.Runs[item.Item.Index]
		for ci := item.ClusterRange.Start; ci < item.ClusterRange.End; ci++ {
			c := lay.Clusters[ci]
			width := c.Advance
			if x < runningX+width {
				onLeft := x < runningX+width/2
				textStart := run.TextRange.Start + c.TextOffset
				textEnd := textStart + c.TextLen
				if run.IsRTL() {
					if onLeft {
						return FromByteIndex(lay, textEnd, textpos.Downstream)
					}
					return FromByteIndex(lay, textStart, textpos.Downstream)
				}
				if onLeft {
					return FromByteIndex(lay, textStart, textpos.Downstream)
				}
				return FromByteIndex(lay, textEnd, textpos.Downstream)
			}
			runningX += width
		}
	}
	return FromByteIndex(lay, line.TextRange.End, textpos.Upstream)
}

func lineAtY(lay *layout.Layout, y float32) int {
	var cur float32
	for i, line := range lay.Lines {
		next := cur + line.Metrics.LineHeight
		if y < next || i == len(lay.Lines)-1 {
			return i
		}
		cur = next
	}
	return -1
}

// VisualClusters returns the [left, right] bounding clusters for c
// (spec.md §4.7 "Visual bounding clusters"). Indices are cluster indices;
// -1 means none (paragraph edge).
func (c Cursor) VisualClusters(lay *layout.Layout) [2]int {
	clusterIdx, _ := clusterAt(lay, c.ByteIndex, c.Affinity)
	if clusterIdx < 0 {
		return [2]int{-1, -1}
	}
	run := lay.Runs[lay.Clusters[clusterIdx].RunIndex]
	if c.Affinity == textpos.Downstream {
		// clusterIdx starts at the cursor: it is the logical successor.
		if run.IsRTL() {
			return [2]int{clusterIdx, nextVisualCluster(lay, clusterIdx)}
		}
		return [2]int{prevVisualCluster(lay, clusterIdx), clusterIdx}
	}
	// clusterIdx ends at the cursor: it is the logical predecessor.
	if run.IsRTL() {
		return [2]int{prevVisualCluster(lay, clusterIdx), clusterIdx}
	}
	return [2]int{clusterIdx, nextVisualCluster(lay, clusterIdx)}
}

func nextVisualCluster(lay *layout.Layout, clusterIdx int) int {
	run := lay.Runs[lay.Clusters[clusterIdx].RunIndex]
	if run.IsRTL() {
		if clusterIdx-1 >= run.ClusterRange.Start {
			return clusterIdx - 1
		}
	} else if clusterIdx+1 < run.ClusterRange.End {
		return clusterIdx + 1
	}
	return -1
}

func prevVisualCluster(lay *layout.Layout, clusterIdx int) int {
	run := lay.Runs[lay.Clusters[clusterIdx].RunIndex]
	if run.IsRTL() {
		if clusterIdx+1 < run.ClusterRange.End {
			return clusterIdx + 1
		}
	} else if clusterIdx-1 >= run.ClusterRange.Start {
		return clusterIdx - 1
	}
	return -1
}

// LogicalClusters returns the [previous, next] clusters in logical
// (byte) order.
func (c Cursor) LogicalClusters(lay *layout.Layout) [2]int {
	clusterIdx, _ := clusterAt(lay, c.ByteIndex, c.Affinity)
	if clusterIdx < 0 {
		return [2]int{-1, -1}
	}
	prev, next := clusterIdx-1, clusterIdx
	if c.Affinity == textpos.Upstream {
		prev, next = clusterIdx, clusterIdx+1
	}
	if prev < 0 {
		prev = -1
	}
	if next >= len(lay.Clusters) {
		next = -1
	}
	return [2]int{prev, next}
}

// NextVisual implements spec.md §4.7's visual right-motion rule.
func (c Cursor) NextVisual(lay *layout.Layout) Cursor {
	bounds := c.VisualClusters(lay)
	right := bounds[1]
	if right < 0 {
		return FromByteIndex(lay, len(lay.Text), textpos.Upstream)
	}
	run := lay.Runs[lay.Clusters[right].RunIndex]
	cl := lay.Clusters[right]
	start := run.TextRange.Start + cl.TextOffset
	end := start + cl.TextLen
	if run.IsRTL() {
		return FromByteIndex(lay, start, textpos.Downstream)
	}
	return FromByteIndex(lay, end, textpos.Upstream)
}

// PreviousVisual implements spec.md §4.7's visual left-motion rule,
// symmetric to NextVisual.
func (c Cursor) PreviousVisual(lay *layout.Layout) Cursor {
	bounds := c.VisualClusters(lay)
	left := bounds[0]
	if left < 0 {
		return FromByteIndex(lay, 0, textpos.Downstream)
	}
	run := lay.Runs[lay.Clusters[left].RunIndex]
	cl := lay.Clusters[left]
	start := run.TextRange.Start + cl.TextOffset
	end := start + cl.TextLen
	if run.IsRTL() {
		return FromByteIndex(lay, end, textpos.Upstream)
	}
	return FromByteIndex(lay, start, textpos.Downstream)
}

// NextVisualWord repeats NextVisual until a word boundary is found
// (spec.md §4.7).
func (c Cursor) NextVisualWord(lay *layout.Layout) Cursor {
	cur := c
	for i := 0; i < len(lay.Clusters)+1; i++ {
		nxt := cur.NextVisual(lay)
		if nxt == cur {
			return nxt
		}
		bounds := nxt.VisualClusters(lay)
		right := bounds[1]
		left := bounds[0]
		rightIsBoundary := right < 0 || lay.Clusters[right].Boundary == layout.BreakWord || lay.Clusters[right].Boundary == layout.BreakMandatory
		leftIsSpace := left >= 0 && lay.Clusters[left].IsWhitespace()
		if rightIsBoundary && !leftIsSpace {
			return nxt
		}
		cur = nxt
	}
	return cur
}

// PreviousVisualWord is symmetric to NextVisualWord.
func (c Cursor) PreviousVisualWord(lay *layout.Layout) Cursor {
	cur := c
	for i := 0; i < len(lay.Clusters)+1; i++ {
		nxt := cur.PreviousVisual(lay)
		if nxt == cur {
			return nxt
		}
		bounds := nxt.VisualClusters(lay)
		left := bounds[0]
		rightIsBoundary := left < 0 || lay.Clusters[left].Boundary == layout.BreakWord || lay.Clusters[left].Boundary == layout.BreakMandatory
		if rightIsBoundary {
			return nxt
		}
		cur = nxt
	}
	return cur
}

// NextLogicalWord walks clusters in logical order to the next word
// boundary that is not whitespace (spec.md §4.7).
func (c Cursor) NextLogicalWord(lay *layout.Layout) Cursor {
	idx, _ := clusterAt(lay, c.ByteIndex, c.Affinity)
	if idx < 0 {
		return c
	}
	for i := idx + 1; i < len(lay.Clusters); i++ {
		cl := lay.Clusters[i]
		if cl.Boundary == layout.BreakWord && !cl.IsWhitespace() {
			run := lay.Runs[cl.RunIndex]
			return FromByteIndex(lay, run.TextRange.Start+cl.TextOffset, textpos.Downstream)
		}
	}
	return FromByteIndex(lay, len(lay.Text), textpos.Upstream)
}

// PreviousLogicalWord is symmetric to NextLogicalWord.
func (c Cursor) PreviousLogicalWord(lay *layout.Layout) Cursor {
	idx, _ := clusterAt(lay, c.ByteIndex, c.Affinity)
	if idx < 0 {
		return c
	}
	for i := idx - 1; i >= 0; i-- {
		cl := lay.Clusters[i]
		if cl.Boundary == layout.BreakWord && !cl.IsWhitespace() {
			run := lay.Runs[cl.RunIndex]
			return FromByteIndex(lay, run.TextRange.Start+cl.TextOffset, textpos.Downstream)
		}
	}
	return FromByteIndex(lay, 0, textpos.Downstream)
}

// LineIndex returns the line this cursor falls on.
func (c Cursor) LineIndex(lay *layout.Layout) int {
	_, li := clusterAt(lay, c.ByteIndex, c.Affinity)
	if li >= 0 {
		return li
	}
	for i, line := range lay.Lines {
		if c.ByteIndex >= line.TextRange.Start && c.ByteIndex <= line.TextRange.End {
			return i
		}
	}
	if len(lay.Lines) > 0 {
		return len(lay.Lines) - 1
	}
	return -1
}

// MoveLines moves delta lines, preserving a horizontal anchor hPos
// (spec.md §4.7 "Line navigation"). hPos should be the x of the starting
// cursor, computed by the caller via Geometry.
func (c Cursor) MoveLines(lay *layout.Layout, delta int, hPos float32) Cursor {
	li := c.LineIndex(lay)
	if li < 0 {
		return c
	}
	target := li + delta
	if target < 0 || target >= len(lay.Lines) {
		return c
	}
	line := lay.Lines[target]
	y := line.Metrics.BlockMax - line.Metrics.Ascent/2
	return fromPointOnLine(lay, target, hPos, y)
}

func (c Cursor) NextLine(lay *layout.Layout, hPos float32) Cursor {
	return c.MoveLines(lay, 1, hPos)
}

func (c Cursor) PreviousLine(lay *layout.Layout, hPos float32) Cursor {
	return c.MoveLines(lay, -1, hPos)
}

func fromPointOnLine(lay *layout.Layout, lineIdx int, x, y float32) Cursor {
	_ = y
	line := lay.Lines[lineIdx]
	var runningX float32 = line.Metrics.Offset
	for i := line.ItemRange.Start; i < line.ItemRange.End; i++ {
		item := lay.LineItems[i]
		if item.Item.Kind != layout.ItemRun {
			continue
		}
		run := lay.Runs[item.Item.Index]
		for ci := item.ClusterRange.Start; ci < item.ClusterRange.End; ci++ {
			cl := lay.Clusters[ci]
			if x < runningX+cl.Advance {
				start := run.TextRange.Start + cl.TextOffset
				return FromByteIndex(lay, start, textpos.Downstream)
			}
			runningX += cl.Advance
		}
	}
	return FromByteIndex(lay, line.TextRange.End, textpos.Upstream)
}

// LineStart snaps to the bounding line's text start (spec.md §4.7).
func (c Cursor) LineStart(lay *layout.Layout) Cursor {
	li := c.LineIndex(lay)
	if li < 0 {
		return c
	}
	return FromByteIndex(lay, lay.Lines[li].TextRange.Start, textpos.Downstream)
}

// LineEnd snaps to the bounding line's text end, landing before the
// newline with Downstream affinity when the line ended with an explicit
// break (spec.md §4.7).
func (c Cursor) LineEnd(lay *layout.Layout) Cursor {
	li := c.LineIndex(lay)
	if li < 0 {
		return c
	}
	line := lay.Lines[li]
	if line.BreakReason == layout.BreakReasonExplicit {
		end := line.TextRange.End
		// Land on the character before the newline.
		for end > line.TextRange.Start && !isCharBoundary(lay.Text, end-1) {
			end--
		}
		if end > line.TextRange.Start {
			end--
			for end > 0 && !isCharBoundary(lay.Text, end) {
				end--
			}
		}
		return FromByteIndex(lay, end, textpos.Downstream)
	}
	return FromByteIndex(lay, line.TextRange.End, textpos.Upstream)
}

// HardLineStart/HardLineEnd snap to the paragraph boundary rather than
// the soft-wrap line boundary (SPEC_FULL.md supplemented feature).
func (c Cursor) HardLineStart(lay *layout.Layout) Cursor {
	li := c.LineIndex(lay)
	if li < 0 {
		return c
	}
	for li > 0 && lay.Lines[li-1].BreakReason != layout.BreakReasonExplicit {
		li--
	}
	return FromByteIndex(lay, lay.Lines[li].TextRange.Start, textpos.Downstream)
}

func (c Cursor) HardLineEnd(lay *layout.Layout) Cursor {
	li := c.LineIndex(lay)
	if li < 0 {
		return c
	}
	for li < len(lay.Lines)-1 && lay.Lines[li].BreakReason != layout.BreakReasonExplicit {
		li++
	}
	cc := Cursor{ByteIndex: lay.Lines[li].TextRange.Start, Affinity: textpos.Downstream}
	return cc.LineEnd(lay)
}

// Refresh re-evaluates the cursor against a layout that may have been
// re-broken; since Cursor carries only (byte_index, affinity) there is
// nothing to recompute beyond re-clamping to the new text_len (spec.md
// §9 "Avoiding cyclic state").
func (c Cursor) Refresh(lay *layout.Layout) Cursor {
	return FromByteIndex(lay, c.ByteIndex, c.Affinity)
}

// Geometry returns the cursor's caret rectangle (spec.md §4.7
// "Geometry"): zero-to-width wide, spanning the bounding line's
// block_min..block_max, placed at the cluster's visual offset.
func (c Cursor) Geometry(lay *layout.Layout, width float32) geom.Rect {
	li := c.LineIndex(lay)
	if li < 0 {
		return geom.Rect{}
	}
	line := lay.Lines[li]
	x := c.visualOffset(lay, li)
	return geom.Rect{Left: x, Right: x + width, Top: line.Metrics.BlockMin, Bottom: line.Metrics.BlockMax}
}

func (c Cursor) visualOffset(lay *layout.Layout, lineIdx int) float32 {
	line := lay.Lines[lineIdx]
	var runningX float32 = line.Metrics.Offset
	for i := line.ItemRange.Start; i < line.ItemRange.End; i++ {
		item := lay.LineItems[i]
		if item.Item.Kind != layout.ItemRun {
			runningX += lay.InlineBoxes[item.Item.Index].Width
			continue
		}
		run := lay.Runs[item.Item.Index]
		for ci := item.ClusterRange.Start; ci < item.ClusterRange.End; ci++ {
			cl := lay.Clusters[ci]
			start := run.TextRange.Start + cl.TextOffset
			end := start + cl.TextLen
			if c.ByteIndex == start && c.Affinity == textpos.Downstream {
				return runningX
			}
			if c.ByteIndex == end && c.Affinity == textpos.Upstream {
				return runningX + cl.Advance
			}
			runningX += cl.Advance
		}
	}
	return runningX
}
