package layout

import (
	"testing"

	"github.com/richtext/layoutengine/richtext/textpos"
)

// makeWordRun builds a single run of clusters, one per character, with
// the given advances; spaces are marked whitespace + BreakLine, letters
// get BreakNone except the last cluster of each word which is BreakLine.
func makeWordRun(words []string, advance float32) (*Layout, []Cluster) {
	var clusters []Cluster
	var text string
	for wi, w := range words {
		for ci, r := range w {
			last := ci == len(w)-1
			b := BreakNone
			if last {
				b = BreakLine
			}
			clusters = append(clusters, Cluster{
				Boundary:   b,
				SourceChar: r,
				Advance:    advance,
				TextOffset: len(text),
				TextLen:    1,
				RunIndex:   0,
			})
			text += string(r)
		}
		if wi != len(words)-1 {
			clusters = append(clusters, Cluster{
				Boundary:   BreakLine,
				Flags:      ClusterWhitespace,
				SourceChar: ' ',
				Advance:    advance,
				TextOffset: len(text),
				TextLen:    1,
				RunIndex:   0,
			})
			text += " "
		}
	}
	run := Run{
		TextRange:    textpos.ByteRange{Start: 0, End: len(text)},
		ClusterRange: textpos.Range[int]{Start: 0, End: len(clusters)},
		Ascent:       10, Descent: 2, LineHeight: 12,
	}
	lay := &Layout{
		Text:     text,
		Clusters: clusters,
		Runs:     []Run{run},
		Items:    []Item{{Kind: ItemRun, Index: 0}},
	}
	return lay, clusters
}

func TestGreedyWrapBasic(t *testing.T) {
	// Five one-char words, each 10 units wide (9 clusters incl. 4 spaces),
	// wrapped at 35 units: "a b c d e" -> should split across multiple lines.
	lay, _ := makeWordRun([]string{"a", "b", "c", "d", "e"}, 10)
	b := NewBreaker(lay, 35, OverflowWrapNormal, WrapEnabled)
	b.BreakLines()

	if len(lay.Lines) < 2 {
		t.Fatalf("expected wrapping to produce multiple lines, got %d", len(lay.Lines))
	}
	for i, line := range lay.Lines {
		if line.Metrics.Advance-line.Metrics.TrailingWhitespace > 35+1e-3 {
			t.Errorf("line %d advance (minus trailing whitespace) %v exceeds max_advance 35", i, line.Metrics.Advance-line.Metrics.TrailingWhitespace)
		}
	}

	// Every byte of text must appear in exactly one line's TextRange.
	var covered int
	for _, line := range lay.Lines {
		if line.TextRange.Start != covered {
			t.Fatalf("line text ranges must be contiguous: got start %d, want %d", line.TextRange.Start, covered)
		}
		covered = line.TextRange.End
	}
	if covered != len(lay.Text) {
		t.Errorf("lines cover %d bytes, want %d", covered, len(lay.Text))
	}
}

func TestNoWrapProducesOneLine(t *testing.T) {
	lay, _ := makeWordRun([]string{"a", "b", "c"}, 10)
	b := NewBreaker(lay, 5, OverflowWrapNormal, WrapDisabled)
	b.BreakLines()
	if len(lay.Lines) != 1 {
		t.Errorf("WrapDisabled should always produce exactly one line, got %d", len(lay.Lines))
	}
}

func TestHardBreakProducesTwoLines(t *testing.T) {
	lay := &Layout{
		Text: "\n",
		Clusters: []Cluster{
			{Boundary: BreakMandatory, Flags: ClusterIsHardBreak, SourceChar: '\n', TextOffset: 0, TextLen: 1, RunIndex: 0, GlyphLen: InlineGlyphLen},
		},
		Runs: []Run{{
			TextRange:    textpos.ByteRange{Start: 0, End: 1},
			ClusterRange: textpos.Range[int]{Start: 0, End: 1},
			Ascent:       10, Descent: 2, LineHeight: 12,
		}},
		Items: []Item{{Kind: ItemRun, Index: 0}},
	}
	b := NewBreaker(lay, 1e30, OverflowWrapNormal, WrapEnabled)
	b.BreakLines()

	if len(lay.Lines) != 2 {
		t.Fatalf("text consisting of only \"\\n\" should produce two lines, got %d", len(lay.Lines))
	}
	second := lay.Lines[1]
	if second.Metrics.Advance != 0 {
		t.Errorf("second line should have zero advance, got %v", second.Metrics.Advance)
	}
	if second.Metrics.LineHeight != lay.Lines[0].Metrics.LineHeight {
		t.Errorf("second (empty) line should copy metrics from the first line")
	}
}

func TestEmptyTextProducesOneLine(t *testing.T) {
	lay := &Layout{Text: ""}
	b := NewBreaker(lay, 1e30, OverflowWrapNormal, WrapEnabled)
	b.BreakLines()
	if len(lay.Lines) != 1 {
		t.Fatalf("empty text should produce exactly one line, got %d", len(lay.Lines))
	}
}
