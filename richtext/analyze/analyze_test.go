package analyze

import (
	"testing"

	"github.com/richtext/layoutengine/richtext/rich"
	"github.com/richtext/layoutengine/richtext/textpos"
	"golang.org/x/text/unicode/bidi"
)

func defaultStyles(textLen int) []rich.RangedStyle {
	return []rich.RangedStyle{{Style: rich.DefaultStyle(), Start: 0, End: textLen}}
}

func TestAnalyzeMandatoryBreak(t *testing.T) {
	text := "ab\ncd"
	a := Analyze(text, defaultStyles(len(text)), bidi.LeftToRight)
	if len(a.Chars) != len(text) {
		t.Fatalf("expected %d chars, got %d", len(text), len(a.Chars))
	}
	nl := a.Chars[2]
	if nl.Boundary != textpos.BoundaryMandatory {
		t.Errorf("'\\n' should carry BoundaryMandatory, got %v", nl.Boundary)
	}
	if nl.Whitespace != textpos.WhitespaceNewline {
		t.Errorf("'\\n' should classify as WhitespaceNewline, got %v", nl.Whitespace)
	}
}

func TestAnalyzeRTLBase(t *testing.T) {
	// Hebrew text: base paragraph direction should resolve RTL.
	text := "אבג"
	a := Analyze(text, defaultStyles(len(text)), bidi.LeftToRight)
	if !a.IsRTL {
		t.Error("expected Hebrew-only paragraph to resolve RTL base direction")
	}
	for i, c := range a.Chars {
		if c.BidiLevel%2 != 1 {
			t.Errorf("char %d: expected odd (RTL) bidi level, got %d", i, c.BidiLevel)
		}
	}
}

func TestAnalyzeLTRBase(t *testing.T) {
	text := "hello"
	a := Analyze(text, defaultStyles(len(text)), bidi.LeftToRight)
	if a.IsRTL {
		t.Error("expected plain ASCII paragraph to resolve LTR base direction")
	}
}

func TestAnalyzeByteOffsetsRoundTrip(t *testing.T) {
	text := "aéb" // ASCII, 2-byte, ASCII
	a := Analyze(text, defaultStyles(len(text)), bidi.LeftToRight)
	if len(a.Chars) != 3 {
		t.Fatalf("expected 3 characters, got %d", len(a.Chars))
	}
	if a.Chars[0].ByteOffset != 0 || a.Chars[0].ByteLen != 1 {
		t.Errorf("char 0: offset/len = %d/%d, want 0/1", a.Chars[0].ByteOffset, a.Chars[0].ByteLen)
	}
	if a.Chars[1].ByteOffset != 1 || a.Chars[1].ByteLen != 2 {
		t.Errorf("char 1: offset/len = %d/%d, want 1/2", a.Chars[1].ByteOffset, a.Chars[1].ByteLen)
	}
	if a.Chars[2].ByteOffset != 3 || a.Chars[2].ByteLen != 1 {
		t.Errorf("char 2: offset/len = %d/%d, want 3/1", a.Chars[2].ByteOffset, a.Chars[2].ByteLen)
	}
}

func TestAnalyzeEmptyText(t *testing.T) {
	a := Analyze("", nil, bidi.LeftToRight)
	if len(a.Chars) != 0 {
		t.Errorf("expected no chars for empty text, got %d", len(a.Chars))
	}
}
