// Package analyze implements the Text Analyzer (spec.md C2): per-character
// script, bidi embedding level, and boundary classification.
//
// Grounded on skia/paragraph/paragraph_impl_layout.go's
// computeCodeUnitProperties, which already drives golang.org/x/text/unicode/bidi
// over the whole paragraph text; generalized here from the teacher's
// simplified whitespace/hardbreak-only classification to the full
// segmenter-driven boundary classification spec.md §4.2 describes, using
// github.com/go-text/typesetting/segmenter for word/line boundaries.
package analyze

import (
	"unicode"

	"github.com/go-text/typesetting/segmenter"
	"github.com/richtext/layoutengine/richtext/rich"
	"github.com/richtext/layoutengine/richtext/textpos"
	"golang.org/x/text/unicode/bidi"
)

// CharInfo is the per-character analysis record (spec.md §3 "Character
// info").
type CharInfo struct {
	Script             uint32 // Unicode Script property, coerced to a small int id
	BidiLevel          uint8
	Boundary           textpos.Boundary
	Whitespace         textpos.WhitespaceClass
	IsEmoji            bool
	ContributesToShape bool
	ForceNormalize     bool
	StyleIndex         int
	ByteOffset         int // offset of this character's first byte
	ByteLen            int
}

// mandatory breaks per spec.md §4.2.
func isMandatoryBreak(r rune) bool {
	switch r {
	case '\n', '\r', 0x0085, 0x2028, 0x2029:
		return true
	}
	return false
}

func whitespaceClass(r rune) textpos.WhitespaceClass {
	switch {
	case isMandatoryBreak(r):
		return textpos.WhitespaceNewline
	case r == '\t':
		return textpos.WhitespaceTab
	case r == 0x00A0:
		return textpos.WhitespaceNoBreakSpace
	case unicode.IsSpace(r):
		return textpos.WhitespaceSpace
	}
	return textpos.WhitespaceNone
}

// Analysis is the full per-paragraph analysis result.
type Analysis struct {
	Chars  []CharInfo
	IsRTL  bool // base paragraph level is odd
}

// scriptOrder maps a small set of unicode.Scripts table entries to stable
// small integers (looked up by scriptOf); any other script, including
// Common/Inherited/Unknown, maps to 0 meaning "inherit the
// surrounding real script" per spec.md §4.4.
var scriptOrder = []struct {
	id    uint32
	table *unicode.RangeTable
}{
	{1, unicode.Latin},
	{2, unicode.Arabic},
	{3, unicode.Hebrew},
	{4, unicode.Han},
	{5, unicode.Hiragana},
	{6, unicode.Katakana},
	{7, unicode.Hangul},
	{8, unicode.Cyrillic},
	{9, unicode.Greek},
	{10, unicode.Devanagari},
	{11, unicode.Thai},
}

func scriptOf(r rune) uint32 {
	for _, e := range scriptOrder {
		if unicode.Is(e.table, r) {
			return e.id
		}
	}
	return 0
}

// isRealScript reports whether id is a "real" script rather than
// Common/Unknown/Inherited (spec.md §4.4 item segmentation rule).
func isRealScript(id uint32) bool { return id != 0 }

// Analyze runs the Unicode Bidirectional Algorithm and the word/line
// segmenters over text and the resolved style sequence, producing one
// CharInfo per character (spec.md §4.2).
//
// baseDirHint is handed to the bidi paragraph as its default direction
// (via bidi.DefaultDirection), not as a forced direction; the callers in
// this module pass bidi.LeftToRight.
func Analyze(text string, styles []rich.RangedStyle, baseDirHint bidi.Direction) Analysis {
	runes := []rune(text)
	n := len(runes)
	chars := make([]CharInfo, n)

	byteOffsets := make([]int, n+1)
	off := 0
	for i, r := range runes {
		byteOffsets[i] = off
		off += len(string(r))
	}
	byteOffsets[n] = off

	// --- Bidi embedding levels ---
	levels := make([]uint8, n)
	baseRTL := false
	if len(text) > 0 {
		var p bidi.Paragraph
		if _, err := p.SetString(text, bidi.DefaultDirection(baseDirHint)); err == nil {
			if ordering, err := p.Order(); err == nil && ordering.NumRuns() > 0 {
				pos := 0
				for pos < len(text) {
					run := p.RunAt(pos)
					s := run.String()
					length := len(s)
					if length == 0 {
						break
					}
					level := uint8(0)
					if run.Direction() == bidi.RightToLeft {
						level = 1
					}
					// Stamp every char whose byte offset falls in [pos, pos+length).
					for i := 0; i < n; i++ {
						if byteOffsets[i] >= pos && byteOffsets[i] < pos+length {
							levels[i] = level
						}
					}
					pos += length
				}
				if n > 0 {
					baseRTL = levels[0]%2 == 1
				}
			}
		}
	}

	// --- Boundaries via word/line segmenters, split by word-break policy ---
	boundaries := make([]textpos.Boundary, n)
	wordBoundary := make([]bool, n)
	{
		var seg segmenter.Segmenter
		seg.Init(runes)
		it := seg.WordIterator()
		for it.Next() {
			w := it.Word()
			end := w.Offset + len(w.Text)
			if end-1 >= 0 && end-1 < n {
				wordBoundary[end-1] = true
			}
		}
	}
	{
		// Split into substrings of uniform word-break policy the way
		// spec.md §4.2 prescribes, then run the line segmenter per
		// substring and stitch with a one-character overlap.
		runStart := 0
		for runStart < n {
			policy := styleWordBreakAt(styles, byteOffsets[runStart])
			runEnd := runStart
			for runEnd < n && styleWordBreakAt(styles, byteOffsets[runEnd]) == policy {
				runEnd++
			}
			overlapStart := runStart
			if overlapStart > 0 {
				overlapStart--
			}
			sub := runes[overlapStart:runEnd]
			var seg segmenter.Segmenter
			seg.Init(sub)
			it := seg.LineIterator()
			for it.Next() {
				l := it.Line()
				end := l.Offset + len(l.Text)
				abs := overlapStart + end - 1
				if abs >= runStart && abs < runEnd {
					boundaries[abs] = textpos.BoundaryLine
				}
			}
			runStart = runEnd
		}
	}
	for i := 0; i < n; i++ {
		if boundaries[i] == textpos.BoundaryNone && wordBoundary[i] {
			boundaries[i] = textpos.BoundaryWord
		}
		if isMandatoryBreak(runes[i]) {
			boundaries[i] = textpos.BoundaryMandatory
		}
	}

	// --- Per-character derived fields ---
	for i, r := range runes {
		script := scriptOf(r)
		isControl := unicode.IsControl(r)
		isFormat := unicode.Is(unicode.Cf, r)
		contributes := !isControl || (isFormat && script != 0)
		gcExtend := unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Me, r)
		gcSpacingMark := unicode.Is(unicode.Mc, r)
		isZWNJ := r == 0x200C
		isVariationSelector := r >= 0xFE00 && r <= 0xFE0F
		forceNormalize := (gcExtend && !isZWNJ && !isVariationSelector) || gcSpacingMark

		chars[i] = CharInfo{
			Script:             script,
			BidiLevel:          levels[i],
			Boundary:           boundaries[i],
			Whitespace:         whitespaceClass(r),
			IsEmoji:            isEmoji(r),
			ContributesToShape: contributes,
			ForceNormalize:     forceNormalize,
			StyleIndex:         styleIndexAt(styles, byteOffsets[i]),
			ByteOffset:         byteOffsets[i],
			ByteLen:            byteOffsets[i+1] - byteOffsets[i],
		}
		_ = isRealScript
	}

	return Analysis{Chars: chars, IsRTL: baseRTL}
}

func isEmoji(r rune) bool {
	return unicode.Is(unicode.So, r) && r >= 0x1F000
}

func styleIndexAt(styles []rich.RangedStyle, byteOffset int) int {
	for i, s := range styles {
		if byteOffset >= s.Start && byteOffset < s.End {
			return i
		}
	}
	if len(styles) > 0 {
		return len(styles) - 1
	}
	return 0
}

func styleWordBreakAt(styles []rich.RangedStyle, byteOffset int) rich.WordBreak {
	for _, s := range styles {
		if byteOffset >= s.Start && byteOffset < s.End {
			return s.Style.WordBreak
		}
	}
	return rich.WordBreakNormal
}
