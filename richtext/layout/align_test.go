package layout

import "testing"

func twoLineLayout() *Layout {
	lay, _ := makeWordRun([]string{"a", "b", "c", "d", "e"}, 10)
	NewBreaker(lay, 35, OverflowWrapNormal, WrapEnabled).BreakLines()
	return lay
}

func TestAlignCenter(t *testing.T) {
	lay := twoLineLayout()
	lay.Align(100, AlignCenter, AlignOptions{})
	for i, line := range lay.Lines {
		extra := 100 - (line.Metrics.Advance - line.Metrics.TrailingWhitespace)
		want := extra / 2
		if extra < 0 {
			want = 0
		}
		if line.Metrics.Offset != want {
			t.Errorf("line %d offset = %v, want %v", i, line.Metrics.Offset, want)
		}
	}
}

func TestAlignRightOverflowDefaultsToZero(t *testing.T) {
	lay := twoLineLayout()
	// Container narrower than content: without align_when_overflowing the
	// offset must stay 0 (spec.md §4.6).
	lay.Align(1, AlignRight, AlignOptions{AlignWhenOverflowing: false})
	for i, line := range lay.Lines {
		if line.Metrics.Offset != 0 {
			t.Errorf("line %d offset = %v, want 0 (overflowing without align_when_overflowing)", i, line.Metrics.Offset)
		}
	}
}

func TestJustifyIsIdempotent(t *testing.T) {
	lay := twoLineLayout()
	lay.Align(200, AlignJustify, AlignOptions{})
	first := make([]float32, len(lay.Lines))
	for i, line := range lay.Lines {
		first[i] = line.Metrics.Advance
	}
	lay.Align(200, AlignJustify, AlignOptions{})
	for i, line := range lay.Lines {
		if line.Metrics.Advance != first[i] {
			t.Errorf("re-justifying line %d changed advance from %v to %v, expected idempotence", i, first[i], line.Metrics.Advance)
		}
	}
}

func TestIndentFirstLineOnly(t *testing.T) {
	lay := twoLineLayout()
	lay.Indent(20, IndentOptions{})
	if lay.Lines[0].Metrics.Offset != 20 {
		t.Errorf("first line offset = %v, want 20", lay.Lines[0].Metrics.Offset)
	}
	for i := 1; i < len(lay.Lines); i++ {
		if lay.Lines[i].Metrics.Offset != 0 {
			t.Errorf("line %d offset = %v, want 0 (indent without each_line only applies to the paragraph's first line)", i, lay.Lines[i].Metrics.Offset)
		}
	}
}

func TestIndentHangingInvertsScope(t *testing.T) {
	lay := twoLineLayout()
	lay.Indent(20, IndentOptions{Hanging: true})
	if lay.Lines[0].Metrics.Offset != 0 {
		t.Errorf("hanging indent: first line offset = %v, want 0", lay.Lines[0].Metrics.Offset)
	}
	for i := 1; i < len(lay.Lines); i++ {
		if lay.Lines[i].Metrics.Offset != 20 {
			t.Errorf("hanging indent: line %d offset = %v, want 20", i, lay.Lines[i].Metrics.Offset)
		}
	}
}

func TestCalculateContentWidths(t *testing.T) {
	lay := twoLineLayout()
	widths := lay.CalculateContentWidths(OverflowWrapNormal, WrapEnabled)
	if widths.Min > widths.Max {
		t.Errorf("min width %v should not exceed max width %v", widths.Min, widths.Max)
	}
	if widths.Min <= 0 {
		t.Errorf("min width should be positive for non-empty text, got %v", widths.Min)
	}
}
