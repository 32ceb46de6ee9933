package layout

import "github.com/richtext/layoutengine/richtext/textpos"

// breakOpportunity is a saved snapshot the greedy breaker can restore to
// (spec.md §4.5: "two saved break opportunities (regular and emergency)").
type breakOpportunity struct {
	valid      bool
	itemIdx    int
	clusterIdx int
	x          float32
	numSpaces  int
	lineItemAt int // len(lay.LineItems) at the moment the opportunity was taken
}

// breakerState is the line breaker's running per-line state (spec.md
// §4.5).
type breakerState struct {
	x             float32
	numSpaces     int
	maxLineHeight float32
	regular       breakOpportunity
	emergency     breakOpportunity
	skipMandatory bool
}

// OverflowWrapPolicy mirrors rich.OverflowWrap without this package
// depending on the style package's representation.
type OverflowWrapPolicy uint8

const (
	OverflowWrapNormal OverflowWrapPolicy = iota
	OverflowWrapAnywhere
	OverflowWrapBreakWord
)

type WrapMode uint8

const (
	WrapEnabled WrapMode = iota
	WrapDisabled
)

// Breaker implements the greedy Line Breaker (spec.md C6): a single pass
// in logical order over layout items, grounded on
// skia/paragraph/text_wrapper.go's TextStretch/ClusterPos accumulator
// pattern, generalized to this package's Item/Cluster/InlineBox model.
type Breaker struct {
	lay          *Layout
	maxAdvance   float32
	overflowWrap OverflowWrapPolicy
	wrapMode     WrapMode

	lineItemRangeStart int
}

func NewBreaker(lay *Layout, maxAdvance float32, overflowWrap OverflowWrapPolicy, wrapMode WrapMode) *Breaker {
	return &Breaker{lay: lay, maxAdvance: maxAdvance, overflowWrap: overflowWrap, wrapMode: wrapMode}
}

// BreakLines runs the full greedy pass, populating lay.Lines and
// lay.LineItems (spec.md §4.5).
func (b *Breaker) BreakLines() {
	lay := b.lay
	lay.Lines = lay.Lines[:0]
	lay.LineItems = lay.LineItems[:0]
	b.lineItemRangeStart = 0

	st := breakerState{}
	wrapping := b.wrapMode == WrapEnabled

	if len(lay.Items) == 0 {
		b.commit(&st, BreakReasonNone)
		b.finalizeLines()
		return
	}

	itemIdx := 0
	resumeCluster := -1
	for itemIdx < len(lay.Items) {
		item := lay.Items[itemIdx]

		if item.Kind == ItemInlineBox {
			box := lay.InlineBoxes[item.Index]
			advance := float32(0)
			if box.Kind == InlineBoxInFlow {
				advance = box.Width
			}
			fits := st.x == 0 || st.x+advance <= b.maxAdvance
			if fits {
				b.appendItem(item, 0, 0)
				st.x += advance
				if box.Kind == InlineBoxInFlow && box.Height > st.maxLineHeight {
					st.maxLineHeight = box.Height
				}
				itemIdx++
				continue
			}
			if st.regular.valid {
				itemIdx, resumeCluster = b.restore(&st, st.regular)
				b.commit(&st, BreakReasonRegular)
				continue
			}
			b.commit(&st, BreakReasonEmergency)
			continue
		}

		run := lay.Runs[item.Index]
		clusterIdx := run.ClusterRange.Start
		if resumeCluster >= 0 {
			clusterIdx = resumeCluster
			resumeCluster = -1
		}

		brokeOut := false
		for clusterIdx < run.ClusterRange.End {
			c := lay.Clusters[clusterIdx]

			if c.Boundary == BreakMandatory && !st.skipMandatory {
				b.appendItem(item, clusterIdx, clusterIdx+1)
				st.skipMandatory = true
				b.commit(&st, BreakReasonExplicit)
				clusterIdx++
				continue
			}
			st.skipMandatory = false

			if c.Boundary == BreakLine && wrapping && !c.IsLigatureComponent() && st.x != 0 {
				st.regular = breakOpportunity{true, itemIdx, clusterIdx, st.x, st.numSpaces, len(lay.LineItems)}
			} else if b.overflowWrap != OverflowWrapNormal && !c.IsLigatureComponent() && wrapping && st.x != 0 {
				st.emergency = breakOpportunity{true, itemIdx, clusterIdx, st.x, st.numSpaces, len(lay.LineItems)}
			}

			groupEnd := clusterIdx + 1
			groupAdvance := c.Advance
			if c.IsLigatureStart() {
				for groupEnd < run.ClusterRange.End && lay.Clusters[groupEnd].IsLigatureComponent() {
					groupAdvance += lay.Clusters[groupEnd].Advance
					groupEnd++
				}
			}

			nextX := st.x + groupAdvance
			if nextX <= b.maxAdvance {
				b.appendItem(item, clusterIdx, groupEnd)
				st.x = nextX
				if c.IsWhitespace() {
					st.numSpaces++
				}
				clusterIdx = groupEnd
				continue
			}

			// Overflow.
			if c.IsWhitespace() && wrapping {
				b.appendItem(item, clusterIdx, groupEnd)
				b.commit(&st, BreakReasonRegular)
				clusterIdx = groupEnd
				continue
			}
			if st.regular.valid {
				itemIdx, resumeCluster = b.restore(&st, st.regular)
				b.commit(&st, BreakReasonRegular)
				brokeOut = true
				break
			}
			if st.emergency.valid {
				itemIdx, resumeCluster = b.restore(&st, st.emergency)
				b.commit(&st, BreakReasonEmergency)
				brokeOut = true
				break
			}
			// Nothing to restore to: accept the overflow (spec.md §4.5
			// step 6 final else).
			b.appendItem(item, clusterIdx, groupEnd)
			st.x = nextX
			clusterIdx = groupEnd
		}
		if !brokeOut {
			itemIdx++
		}
	}

	if b.lineItemRangeStart < len(lay.LineItems) || len(lay.Lines) == 0 {
		b.commit(&st, BreakReasonNone)
	} else if n := len(lay.Lines); n > 0 && lay.Lines[n-1].BreakReason == BreakReasonExplicit {
		// A paragraph ending in a hard break has one more (empty) line
		// after it (spec.md §4.5 boundary behavior: "\n" alone produces
		// two lines).
		b.commit(&st, BreakReasonNone)
	}

	b.finalizeLines()
}

// appendItem stages a cluster range of item into lay.LineItems, merging
// with the previous entry when contiguous. The merge must never reach
// into an entry already owned by a committed line (index <
// b.lineItemRangeStart): committed lines store their ItemRange as
// indices into this same backing array, so extending an already-sealed
// entry in place would retroactively change what an earlier, already-
// committed line covers once finalizeLines re-reads it.
func (b *Breaker) appendItem(item Item, clusterStart, clusterEnd int) {
	lay := b.lay
	cr := textpos.Range[int]{Start: clusterStart, End: clusterEnd}
	if n := len(lay.LineItems); n > b.lineItemRangeStart {
		last := &lay.LineItems[n-1]
		if last.Item == item && last.ClusterRange.End == clusterStart {
			last.ClusterRange.End = clusterEnd
			return
		}
	}
	lay.LineItems = append(lay.LineItems, LineItem{Item: item, ClusterRange: cr})
}

// restore truncates lay.LineItems back to the snapshot taken at op, and
// returns the (item index, cluster index) iteration should resume from.
// The cluster index must be honored by the caller: the saved opportunity
// may sit mid-run, and the run's cluster loop must resume there rather
// than restart at the run's first cluster, or already-committed clusters
// get re-appended into the next line (and, since the same cluster
// overflows again, the breaker never makes progress).
func (b *Breaker) restore(st *breakerState, op breakOpportunity) (int, int) {
	lay := b.lay
	lay.LineItems = lay.LineItems[:op.lineItemAt]
	st.x = op.x
	st.numSpaces = op.numSpaces
	st.regular = breakOpportunity{}
	st.emergency = breakOpportunity{}
	return op.itemIdx, op.clusterIdx
}

// commit finalizes the current line (spec.md §4.5 "Line commit"). The
// committed Advance is recomputed from the clusters actually staged in
// [itemRangeStart,itemRangeEnd), rather than trusted from st.x: the
// overflow paths above stage a trailing whitespace cluster into
// lay.LineItems without always advancing st.x past it first, and a
// stale st.x would make finalizeLayout's width/full_width computation
// double-subtract (or entirely omit) that trailing whitespace.
func (b *Breaker) commit(st *breakerState, reason BreakReason) {
	lay := b.lay
	itemRangeStart := b.lineItemRangeStart
	itemRangeEnd := len(lay.LineItems)

	numSpaces := st.numSpaces
	if reason == BreakReasonRegular && numSpaces > 0 {
		numSpaces--
	}

	textStart, textEnd := 0, 0
	var advance float32
	if itemRangeEnd > itemRangeStart {
		textStart, textEnd = lineTextRange(lay, itemRangeStart, itemRangeEnd)
		advance = lineAdvance(lay, itemRangeStart, itemRangeEnd)
	}

	lay.Lines = append(lay.Lines, Line{
		TextRange:   textpos.ByteRange{Start: textStart, End: textEnd},
		ItemRange:   textpos.Range[int]{Start: itemRangeStart, End: itemRangeEnd},
		BreakReason: reason,
		NumSpaces:   numSpaces,
		Metrics:     LineMetrics{Advance: advance},
	})

	b.lineItemRangeStart = itemRangeEnd
	st.x = 0
	st.numSpaces = 0
	st.maxLineHeight = 0
	st.regular = breakOpportunity{}
	st.emergency = breakOpportunity{}
}

// lineAdvance sums the natural advance of every item staged in
// [itemStart,itemEnd): cluster advances for run items (already carrying
// letter/word spacing, spec.md §4.4 "Spacing"), box width for in-flow
// inline boxes.
func lineAdvance(lay *Layout, itemStart, itemEnd int) float32 {
	var total float32
	for i := itemStart; i < itemEnd; i++ {
		li := lay.LineItems[i]
		switch li.Item.Kind {
		case ItemRun:
			for ci := li.ClusterRange.Start; ci < li.ClusterRange.End; ci++ {
				total += lay.Clusters[ci].Advance
			}
		case ItemInlineBox:
			box := lay.InlineBoxes[li.Item.Index]
			if box.Kind == InlineBoxInFlow {
				total += box.Width
			}
		}
	}
	return total
}

func lineTextRange(lay *Layout, itemStart, itemEnd int) (int, int) {
	start, end := -1, -1
	for i := itemStart; i < itemEnd; i++ {
		li := lay.LineItems[i]
		if li.Item.Kind != ItemRun {
			continue
		}
		run := lay.Runs[li.Item.Index]
		for ci := li.ClusterRange.Start; ci < li.ClusterRange.End; ci++ {
			c := lay.Clusters[ci]
			s := run.TextRange.Start + c.TextOffset
			e := s + c.TextLen
			if start == -1 || s < start {
				start = s
			}
			if end == -1 || e > end {
				end = e
			}
		}
	}
	if start == -1 {
		return 0, 0
	}
	return start, end
}
