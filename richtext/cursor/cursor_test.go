package cursor

import (
	"testing"

	"github.com/richtext/layoutengine/richtext/layout"
	"github.com/richtext/layoutengine/richtext/textpos"
)

// buildSimpleLayout makes a one-line, one-run layout for "abc", one
// cluster per character, each 10 units wide, with a word boundary after
// each character so word navigation has something to land on.
func buildSimpleLayout() *layout.Layout {
	text := "abc"
	var clusters []layout.Cluster
	for i, r := range text {
		clusters = append(clusters, layout.Cluster{
			Boundary:   layout.BreakWord,
			SourceChar: r,
			Advance:    10,
			TextOffset: i,
			TextLen:    1,
			RunIndex:   0,
			GlyphLen:   layout.InlineGlyphLen,
		})
	}
	run := layout.Run{
		TextRange:    textpos.ByteRange{Start: 0, End: len(text)},
		ClusterRange: textpos.Range[int]{Start: 0, End: len(clusters)},
		Ascent:       10, Descent: 2, LineHeight: 12,
	}
	lay := &layout.Layout{
		Text:     text,
		Clusters: clusters,
		Runs:     []layout.Run{run},
		Items:    []layout.Item{{Kind: layout.ItemRun, Index: 0}},
		Lines: []layout.Line{{
			TextRange:   textpos.ByteRange{Start: 0, End: len(text)},
			ItemRange:   textpos.Range[int]{Start: 0, End: 1},
			Metrics:     layout.LineMetrics{Advance: 30, LineHeight: 12, Ascent: 10, Descent: 2, BlockMin: -10, BlockMax: 2},
			BreakReason: layout.BreakReasonNone,
		}},
		LineItems: []layout.LineItem{{Item: layout.Item{Kind: layout.ItemRun, Index: 0}, ClusterRange: textpos.Range[int]{Start: 0, End: 3}}},
	}
	return lay
}

func TestFromByteIndexForcesDownstreamAtZero(t *testing.T) {
	lay := buildSimpleLayout()
	c := FromByteIndex(lay, 0, textpos.Upstream)
	if c.Affinity != textpos.Downstream {
		t.Errorf("byte_index 0 must force Downstream affinity, got %v", c.Affinity)
	}
}

func TestFromByteIndexClampsOutOfRange(t *testing.T) {
	lay := buildSimpleLayout()
	c := FromByteIndex(lay, 1000, textpos.Downstream)
	if c.ByteIndex != len(lay.Text) {
		t.Errorf("out-of-range index should clamp to text_len %d, got %d", len(lay.Text), c.ByteIndex)
	}
	if c.Affinity != textpos.Upstream {
		t.Errorf("clamped end-of-text cursor should carry Upstream affinity, got %v", c.Affinity)
	}
}

func TestNextVisualAdvancesLTR(t *testing.T) {
	lay := buildSimpleLayout()
	c := FromByteIndex(lay, 0, textpos.Downstream)
	next := c.NextVisual(lay)
	if next.ByteIndex <= c.ByteIndex {
		t.Errorf("NextVisual should move forward in an LTR run, got byte_index %d from %d", next.ByteIndex, c.ByteIndex)
	}
}

func TestPreviousVisualIsInverseOfNextVisual(t *testing.T) {
	lay := buildSimpleLayout()
	start := FromByteIndex(lay, 1, textpos.Downstream)
	next := start.NextVisual(lay)
	back := next.PreviousVisual(lay)
	if back.ByteIndex != start.ByteIndex {
		t.Errorf("PreviousVisual(NextVisual(c)) byte_index = %d, want %d", back.ByteIndex, start.ByteIndex)
	}
}

func TestLineStartAndEnd(t *testing.T) {
	lay := buildSimpleLayout()
	mid := FromByteIndex(lay, 1, textpos.Downstream)
	if got := mid.LineStart(lay); got.ByteIndex != 0 {
		t.Errorf("LineStart = %d, want 0", got.ByteIndex)
	}
	if got := mid.LineEnd(lay); got.ByteIndex != len(lay.Text) {
		t.Errorf("LineEnd = %d, want %d", got.ByteIndex, len(lay.Text))
	}
}

func TestRefreshReclampsToNewTextLen(t *testing.T) {
	lay := buildSimpleLayout()
	c := FromByteIndex(lay, 3, textpos.Upstream)
	lay.Text = "ab" // simulate a re-break over shorter text
	refreshed := c.Refresh(lay)
	if refreshed.ByteIndex != 2 {
		t.Errorf("Refresh should clamp to the new text_len, got %d", refreshed.ByteIndex)
	}
}
