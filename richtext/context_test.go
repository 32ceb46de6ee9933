package richtext

import (
	"testing"

	"github.com/richtext/layoutengine/richtext/collab"
	"github.com/richtext/layoutengine/richtext/layout"
	"github.com/richtext/layoutengine/richtext/rich"
)

// fakeFontCollaborator always reports complete coverage for one candidate
// with no backing font.Face, exercising the Complete-stops-the-query path
// of spec.md §4.4 without needing a real font file.
type fakeFontCollaborator struct{}

func (fakeFontCollaborator) Query(families []string, attrs collab.FontAttributes, visit collab.Visitor) {
	visit(collab.QueryFont{Face: nil, FaceIndex: 0}, collab.CoverageComplete)
}

// fakeShaper shapes one glyph per character with a fixed advance,
// mirroring a trivial monospace shaper (spec.md §6 "Shaper collaborator").
type fakeShaper struct{ advance float32 }

func (s fakeShaper) Shape(in collab.ShapeInput) collab.ShapeOutput {
	var glyphs []collab.ShapeGlyph
	for i := in.RunStart; i < in.RunEnd; i++ {
		glyphs = append(glyphs, collab.ShapeGlyph{GlyphID: uint16(in.Text[i]), ClusterID: i, XAdvance: s.advance})
	}
	if in.RTL {
		for l, r := 0, len(glyphs)-1; l < r; l, r = l+1, r-1 {
			glyphs[l], glyphs[r] = glyphs[r], glyphs[l]
		}
	}
	return collab.ShapeOutput{Glyphs: glyphs}
}

func newTestContext() *LayoutContext {
	return NewLayoutContext(fakeFontCollaborator{}, fakeShaper{advance: 10})
}

func TestRangedBuilderBuildAndBreak(t *testing.T) {
	lcx := newTestContext()
	text := "hello world"
	rb := lcx.RangedBuilder(text, 1, false)
	rb.PushDefault(func(s *rich.Style) { s.FontSize = 16 })
	lay := rb.Build(text)

	if lay.Data().Text != text {
		t.Fatalf("layout text = %q, want %q", lay.Data().Text, text)
	}
	if len(lay.Data().Clusters) != len(text) {
		t.Fatalf("expected one cluster per character, got %d clusters for %d chars", len(lay.Data().Clusters), len(text))
	}

	lay.BreakAllLines(55, layout.OverflowWrapNormal, layout.WrapEnabled)
	if lay.Len() == 0 {
		t.Fatal("expected at least one line after breaking")
	}
	var covered int
	for i := 0; i < lay.Len(); i++ {
		line := lay.Get(i)
		if line.TextRange.Start != covered {
			t.Fatalf("line %d starts at %d, want %d (lines must partition the text)", i, line.TextRange.Start, covered)
		}
		covered = line.TextRange.End
	}
	if covered != len(text) {
		t.Errorf("lines cover %d bytes, want %d", covered, len(text))
	}
}

func TestRangedBuilderAlignAfterBreak(t *testing.T) {
	lcx := newTestContext()
	text := "hi there friend"
	rb := lcx.RangedBuilder(text, 1, false)
	lay := rb.Build(text)
	lay.BreakAllLines(60, layout.OverflowWrapNormal, layout.WrapEnabled)
	lay.Align(200, layout.AlignCenter, layout.AlignOptions{})

	for i := 0; i < lay.Len(); i++ {
		line := lay.Get(i)
		if line.Metrics.Offset < 0 {
			t.Errorf("line %d has negative center offset %v", i, line.Metrics.Offset)
		}
	}
}

func TestTreeBuilderBuild(t *testing.T) {
	lcx := newTestContext()
	tb := lcx.TreeBuilder(1, false, rich.DefaultStyle())
	tb.PushStyleModificationSpan(func(s *rich.Style) { s.FontWeight = 700 })
	tb.PushText("bold")
	tb.Pop()
	tb.PushText(" normal")
	lay := tb.Build()

	if lay.Data().Text != "bold normal" {
		t.Fatalf("tree-built text = %q, want %q", lay.Data().Text, "bold normal")
	}
	if len(lay.Data().StyleTable) < 2 {
		t.Errorf("expected at least 2 style spans (bold run + normal run), got %d", len(lay.Data().StyleTable))
	}
}
