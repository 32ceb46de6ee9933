// Package collab defines the external collaborator contracts spec.md §6
// names: the font data source, the shaper, and the Unicode data source.
// These are deliberately out of the core's scope (spec.md §1) — only
// their contracts live here; concrete implementations are caller-owned
// (typically thin wrappers over github.com/go-text/typesetting, the same
// library the teacher wraps in skia/interfaces.SkFont/SkFontMgr and
// skia/shaper.Shaper).
package collab

import (
	"github.com/go-text/typesetting/font"
	"github.com/richtext/layoutengine/richtext/rich"
)

// Synthesis records rendering-time adjustments compensating for a
// missing face variant (spec.md GLOSSARY "Synthesis").
type Synthesis struct {
	Embolden    bool
	SkewAngle   *float32 // non-nil when synthetic oblique is requested
	Variations  []rich.Setting
}

// QueryFont is one candidate returned by the font collaborator's Query
// (spec.md §6).
type QueryFont struct {
	Face      *font.Face
	FaceIndex int
	Synthesis Synthesis
}

// Coverage is the charmap-coverage verdict the shaper driver uses to
// decide whether to keep iterating candidates (spec.md §4.4).
type Coverage uint8

const (
	CoverageDiscard Coverage = iota // none of the cluster's characters have a glyph
	CoverageKeep                    // some do
	CoverageComplete                // every character in the cluster has a glyph
)

// Visitor decides, for each QueryFont the font collaborator yields,
// whether the search should continue. The font collaborator calls it
// with each candidate and that candidate's coverage verdict; the driver
// supplies the visitor and returns true (stop) on CoverageComplete.
type Visitor func(QueryFont, Coverage) (stop bool)

// FontAttributes is the target search key passed to Query (width/weight/
// style per §4.3, plus the fallback key of script+locale per §4.4).
type FontAttributes struct {
	Width   float32
	Weight  float32
	Style   rich.FontStyle
	Script  uint32
	Locale  string
}

// FontCollaborator is the font data source / system-enumeration layer
// (spec.md §6 "Font collaborator").
type FontCollaborator interface {
	// Query iterates candidate fonts for families (with generic fallback
	// families such as "Emoji" already appended by the caller per
	// spec.md §4.4), driving visit for each until it returns true.
	Query(families []string, attrs FontAttributes, visit Visitor)
}

// ShaperCollaborator is the low-level glyph shaper (spec.md §6 "Shaper
// collaborator"). The core's own richtext/shaping package implements the
// item segmentation and font-selection logic on top of this; the
// collaborator itself just turns (text, font, features, direction) into
// glyphs, exactly as github.com/go-text/typesetting/shaping.HarfbuzzShaper
// does (grounded on skia/shaper/harfbuzz.go).
type ShaperCollaborator interface {
	Shape(in ShapeInput) ShapeOutput
}

// ShapeInput mirrors the fields skia/shaper/harfbuzz.go assembles into a
// github.com/go-text/typesetting/shaping.Input before calling the
// HarfbuzzShaper.
type ShapeInput struct {
	Text      []rune
	RunStart  int
	RunEnd    int
	RTL       bool
	Face      *font.Face
	SizePx    float32
	Script    uint32
	Language  string
	Features  []rich.Setting
	Variations []rich.Setting
}

// ShapeGlyph is one output glyph (spec.md §6).
type ShapeGlyph struct {
	GlyphID    uint16
	ClusterID  int // index into the character-info array, not byte offset
	XOffset    float32
	YOffset    float32
	XAdvance   float32
	YAdvance   float32
}

type ShapeOutput struct {
	Glyphs []ShapeGlyph
}

// UnicodeDataCollaborator is the ICU-like Unicode property and segmenter
// data source (spec.md §6). No type in this module implements it and the
// pipeline does not consume it: richtext/analyze uses the unicode package,
// golang.org/x/text/unicode/bidi and github.com/go-text/typesetting/segmenter
// directly.
type UnicodeDataCollaborator interface {
	Script(r rune) uint32
	IsEmoji(r rune) bool
	IsExtendedPictographic(r rune) bool
	IsRegionalIndicator(r rune) bool
	IsVariationSelector(r rune) bool
}
