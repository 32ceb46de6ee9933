// Package layout implements the Layout Data Model (spec.md C5), the
// greedy Line Breaker (C6), and the Aligner (C7): a flat struct-of-arrays
// across runs, clusters, glyphs, lines and line items, linked by index
// ranges rather than a pointer graph (spec.md §9 "Graph shapes").
//
// Grounded on skia/paragraph/{cluster,run,text_line,text_wrapper,
// internal_line_metrics,paragraph_impl,paragraph_impl_layout}.go, which
// already structure the teacher's paragraph this way (Run/Cluster slices
// indexed by int, TextLine holding a line-item range); generalized from
// Skia's fixed TextStyle/Block model to spec.md's resolved-style and
// inline-box model.
package layout

import (
	"github.com/richtext/layoutengine/richtext/geom"
	"github.com/richtext/layoutengine/richtext/rich"
	"github.com/richtext/layoutengine/richtext/textpos"
)

// BreakType classifies a cluster boundary, mirroring
// skia/paragraph/cluster.go's BreakType but generalized to spec.md's
// Boundary set (None/Word/Line/Mandatory). The ligature tags are
// ClusterFlags, not BreakType values.
type BreakType uint8

const (
	BreakNone BreakType = iota
	BreakWord
	BreakLine
	BreakMandatory
)

// ClusterFlags are bit-flags kept dense per spec.md §9 ("Cluster/run
// variants are encoded with bit-flags rather than multiple structs").
type ClusterFlags uint8

const (
	ClusterWhitespace ClusterFlags = 1 << iota
	ClusterLigatureStart
	ClusterLigatureComponent
	ClusterIsHardBreak
)

// InlineGlyphLen is the sentinel GlyphLen marking an inlined single-glyph
// cluster (spec.md §4.4 "Inlined single-glyph optimization"), mirroring
// the 0xFF sentinel the spec text calls out.
const InlineGlyphLen = 0xFF

// Cluster is the atomic shaped unit (spec.md §3 "Cluster").
type Cluster struct {
	Boundary     BreakType
	Flags        ClusterFlags
	SourceChar   rune
	StyleIndex   int
	Advance      float32
	TextOffset   int // relative to owning run's TextRange.Start
	TextLen      int
	RunIndex     int
	GlyphID      uint16 // valid iff GlyphLen == InlineGlyphLen
	GlyphOffset  int    // into Layout.Glyphs, when not inlined
	GlyphLen     uint8
}

func (c Cluster) IsWhitespace() bool   { return c.Flags&ClusterWhitespace != 0 }
func (c Cluster) IsLigatureStart() bool { return c.Flags&ClusterLigatureStart != 0 }
func (c Cluster) IsLigatureComponent() bool {
	return c.Flags&ClusterLigatureComponent != 0
}

// Glyph is one shaped glyph (spec.md §3 "Layout").
type Glyph struct {
	ID      uint16
	Offset  geom.Point
	Advance float32
}

// Synthesis mirrors collab.Synthesis but is copied into the Run record so
// the layout is self-contained (no live reference back to the font
// collaborator), per spec.md §3 Run: "synthesis (embolden/oblique
// fallback synthesis flags)".
type Synthesis struct {
	Embolden  bool
	SkewAngle float32
	HasSkew   bool
}

// Run is a contiguous cluster sequence sharing font/size/synthesis/level
// (spec.md §3 "Run").
type Run struct {
	FontIndex       int
	FontSize        float32
	Synthesis       Synthesis
	Variations      []rich.Setting
	BidiLevel       uint8
	TextRange       textpos.ByteRange
	ClusterRange    textpos.Range[int]
	GlyphBase       int
	Ascent          float32
	Descent         float32
	Leading         float32
	LineHeight      float32
	UnderlineOffset float32
	UnderlineSize   float32
	StrikeOffset    float32
	StrikeSize      float32
	WordSpacing     float32
	LetterSpacing   float32
	Advance         float32
}

func (r Run) IsRTL() bool { return r.BidiLevel%2 == 1 }

// InlineBoxKind tags in-flow/out-of-flow placeholders (spec.md §3
// "Source inputs").
type InlineBoxKind uint8

const (
	InlineBoxInFlow InlineBoxKind = iota
	InlineBoxOutOfFlow
	InlineBoxCustomOutOfFlow
)

// InlineBox is an inline placeholder anchored at a byte index.
type InlineBox struct {
	Index  int
	Width  float32
	Height float32
	Kind   InlineBoxKind
}

// ItemKind tags a layout item as a run or an inline box (spec.md §3
// "Layout": "layout items (run or inline box...)").
type ItemKind uint8

const (
	ItemRun ItemKind = iota
	ItemInlineBox
)

// Item is one entry of Layout.Items (logical order) or Line.Items
// (visual order, via LineItem).
type Item struct {
	Kind  ItemKind
	Index int // index into Runs or InlineBoxes depending on Kind
}

// BreakReason classifies why a line ended (spec.md §3 "Line").
type BreakReason uint8

const (
	BreakReasonNone BreakReason = iota
	BreakReasonRegular
	BreakReasonExplicit
	BreakReasonEmergency
)

// LineMetrics holds the per-line geometry spec.md §3 "Line" names.
type LineMetrics struct {
	Ascent             float32
	Descent            float32
	Leading            float32
	LineHeight         float32
	Baseline           float32
	TrailingWhitespace float32
	Offset             float32
	BlockMin           float32
	BlockMax           float32
	InlineMinCoord     float32
	InlineMaxCoord     float32
	Advance            float32
}

// LineItem is a run or inline box placed on a line, in visual order
// (spec.md GLOSSARY "Line item"). ClusterRange restricts a run item to
// the portion of clusters that actually fall on this line (spec.md §4.5
// "Line commit").
type LineItem struct {
	Item         Item
	ClusterRange textpos.Range[int]
}

// Line is a text range, an item range (into Layout.LineItems), and
// metrics (spec.md §3 "Line").
type Line struct {
	TextRange   textpos.ByteRange
	ItemRange   textpos.Range[int]
	Metrics     LineMetrics
	BreakReason BreakReason
	NumSpaces   int
	IsJustified bool
}

// Layout is the full immutable (apart from break/align/indent) product
// of the pipeline (spec.md §3 "Layout").
type Layout struct {
	Text         string
	Scale        float32
	Quantize     bool
	BaseBidiLevel uint8
	Width        float32
	FullWidth    float32
	Height       float32
	AlignWidth   float32 // container width recorded by the last Align call (Align falls back to it for widths <= 0); the line breaker does not set it

	StyleTable []rich.RangedStyle
	FontTable  []int // opaque font handles, indices meaningful to the caller's collaborator

	InlineBoxes []InlineBox
	Items       []Item // logical order
	Runs        []Run
	Clusters    []Cluster
	Glyphs      []Glyph

	Lines     []Line
	LineItems []LineItem
}

func (l *Layout) IsRTL() bool { return l.BaseBidiLevel%2 == 1 }
func (l *Layout) Len() int    { return len(l.Lines) }
func (l *Layout) Get(i int) *Line {
	if i < 0 || i >= len(l.Lines) {
		return nil
	}
	return &l.Lines[i]
}
func (l *Layout) Lines_() []Line { return l.Lines }

// ContentWidths is the result of calculate_content_widths (spec.md §6,
// §9 Open Question 2): computed by re-breaking at max_advance=∞ and at
// the narrowest possible width, explicitly imprecise for bidi text per
// the spec's own caveat.
type ContentWidths struct {
	Min float32
	Max float32
}
