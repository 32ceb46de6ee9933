// Package richtext is the public entry point (spec.md §6 "Public surface
// sketch"): LayoutContext owns the amortized scratch a build needs and
// hands out RangedBuilder/TreeBuilder values; those in turn produce a
// Layout that break_lines/align/indent/calculate_content_widths operate
// on in place.
//
// Grounded on skia/paragraph/paragraph_builder.go's ParagraphBuilder
// (entry-point-over-sub-packages pattern) and
// skia/paragraph/font_collection.go (the caller-owned collaborator held
// across builds); generalized from Skia's single fixed pipeline to this
// module's C1-C8 package split.
package richtext

import (
	"sort"

	"github.com/richtext/layoutengine/richtext/analyze"
	"github.com/richtext/layoutengine/richtext/collab"
	"github.com/richtext/layoutengine/richtext/layout"
	"github.com/richtext/layoutengine/richtext/rich"
	"github.com/richtext/layoutengine/richtext/shaping"
	"golang.org/x/text/unicode/bidi"
)

// LayoutContext holds the amortized scratch a build needs: the style
// interner, and the shaper driver's font-selection cache (spec.md §5:
// "A LayoutContext holds amortized scratch buffers ... It is a
// single-threaded resource; to shape in parallel an application
// instantiates one context per thread").
type LayoutContext struct {
	Interner *rich.Interner
	driver   *shaping.Driver
}

// NewLayoutContext constructs a context bound to the caller-owned font
// and shaper collaborators (spec.md §6 "LayoutContext::new()").
func NewLayoutContext(font collab.FontCollaborator, shaper collab.ShaperCollaborator) *LayoutContext {
	return &LayoutContext{
		Interner: rich.NewInterner(),
		driver:   shaping.NewDriver(font, shaper),
	}
}

// RangedBuilder wraps richtext/rich.RangedBuilder with the scale/quantize
// flags the rest of the pipeline needs (spec.md §6
// ".ranged_builder(fcx, text, scale, quantize) -> RangedBuilder").
type RangedBuilder struct {
	lcx      *LayoutContext
	inner    *rich.RangedBuilder
	scale    float32
	quantize bool
	boxes    []pendingInlineBox
}

type pendingInlineBox struct {
	index  int
	width  float32
	height float32
	kind   layout.InlineBoxKind
}

// RangedBuilder constructs a RangedBuilder over text (spec.md §6).
// scale defaults to 1.0 when <= 0.
func (lcx *LayoutContext) RangedBuilder(text string, scale float32, quantize bool) *RangedBuilder {
	if scale <= 0 {
		scale = 1
	}
	return &RangedBuilder{
		lcx:      lcx,
		inner:    rich.NewRangedBuilder(lcx.Interner, len(text), rich.DefaultStyle()),
		scale:    scale,
		quantize: quantize,
	}
}

// PushDefault applies prop to the whole text (spec.md §6
// "RangedBuilder::push_default(prop)").
func (b *RangedBuilder) PushDefault(prop rich.Property) { b.inner.PushDefault(prop) }

// Push applies prop to [start,end) (spec.md §6 ".push(prop, range)").
func (b *RangedBuilder) Push(prop rich.Property, start, end int) { b.inner.Push(prop, start, end) }

// PushInlineBox registers an inline placeholder anchored at index (spec.md
// §6 ".push_inline_box(box)").
func (b *RangedBuilder) PushInlineBox(index int, width, height float32, kind layout.InlineBoxKind) {
	b.boxes = append(b.boxes, pendingInlineBox{index, width, height, kind})
}

// Build runs C1 (style resolution), C2 (text analysis) and C4 (shaping)
// over text, returning a Layout with no lines broken yet (spec.md §6
// ".build(text) -> Layout").
func (b *RangedBuilder) Build(text string) *Layout {
	lay := &layout.Layout{}
	b.BuildInto(lay, text)
	return &Layout{data: lay, lcx: b.lcx}
}

// BuildInto is the allocation-reusing form (spec.md §6 ".build_into(layout, text)").
func (b *RangedBuilder) BuildInto(lay *layout.Layout, text string) {
	*lay = layout.Layout{Text: text, Scale: b.scale, Quantize: b.quantize}
	styles := b.inner.Build()
	lay.StyleTable = styles

	analysis := analyze.Analyze(text, styles, bidi.LeftToRight)
	if analysis.IsRTL {
		lay.BaseBidiLevel = 1
	}

	inlineBoxes := make([]layout.InlineBox, 0, len(b.boxes))
	for _, pb := range b.boxes {
		inlineBoxes = append(inlineBoxes, layout.InlineBox{Index: pb.index, Width: pb.width, Height: pb.height, Kind: pb.kind})
	}
	sort.SliceStable(inlineBoxes, func(i, j int) bool { return inlineBoxes[i].Index < inlineBoxes[j].Index })

	b.lcx.driver.Shape(lay, text, analysis.Chars, styles, inlineBoxes, b.lcx.Interner)
}

// TreeBuilder wraps richtext/rich.TreeBuilder the same way RangedBuilder
// wraps rich.RangedBuilder (spec.md §6 ".tree_builder(fcx, scale,
// quantize, root_style) -> TreeBuilder").
type TreeBuilder struct {
	lcx      *LayoutContext
	inner    *rich.TreeBuilder
	scale    float32
	quantize bool
}

func (lcx *LayoutContext) TreeBuilder(scale float32, quantize bool, rootStyle rich.Style) *TreeBuilder {
	if scale <= 0 {
		scale = 1
	}
	return &TreeBuilder{lcx: lcx, inner: rich.NewTreeBuilder(lcx.Interner, rootStyle), scale: scale, quantize: quantize}
}

func (t *TreeBuilder) PushStyleSpan(style rich.Style)                { t.inner.PushStyleSpan(style) }
func (t *TreeBuilder) PushStyleModificationSpan(prop rich.Property) { t.inner.PushStyleModificationSpan(prop) }
func (t *TreeBuilder) Pop()                                         { t.inner.Pop() }
func (t *TreeBuilder) PushText(s string)                            { t.inner.PushText(s) }

// Build flattens the tree into text + ranged styles and runs the same
// analyze+shape pipeline RangedBuilder.Build does.
func (t *TreeBuilder) Build() *Layout {
	text, styles := t.inner.Build()
	lay := &layout.Layout{Text: text, Scale: t.scale, Quantize: t.quantize, StyleTable: styles}

	analysis := analyze.Analyze(text, styles, bidi.LeftToRight)
	if analysis.IsRTL {
		lay.BaseBidiLevel = 1
	}
	t.lcx.driver.Shape(lay, text, analysis.Chars, styles, nil, t.lcx.Interner)
	return &Layout{data: lay, lcx: t.lcx}
}

// Layout is the public read-mostly handle spec.md §6 names
// (break_lines/break_all_lines/indent/align/calculate_content_widths/
// width/full_width/height/len/get/lines/is_rtl/inline_boxes).
type Layout struct {
	data *layout.Layout
	lcx  *LayoutContext
}

// BreakAllLines implements spec.md §6 ".break_all_lines(max_advance)":
// one call, no incremental per-line API, matching spec.md §9's decision
// not to expose a streaming break_next.
func (l *Layout) BreakAllLines(maxAdvance float32, overflowWrap layout.OverflowWrapPolicy, wrapMode layout.WrapMode) {
	layout.NewBreaker(l.data, maxAdvance, overflowWrap, wrapMode).BreakLines()
}

// BreakLines breaks at the layout's last recorded AlignWidth, or at an
// effectively unbounded width if none has been set yet (spec.md §6
// "Layout::break_lines()").
func (l *Layout) BreakLines(overflowWrap layout.OverflowWrapPolicy, wrapMode layout.WrapMode) {
	max := l.data.AlignWidth
	if max <= 0 {
		max = 1e30
	}
	l.BreakAllLines(max, overflowWrap, wrapMode)
}

func (l *Layout) Indent(amount float32, opts layout.IndentOptions) { l.data.Indent(amount, opts) }

func (l *Layout) Align(containerWidth float32, alignment layout.Alignment, opts layout.AlignOptions) {
	l.data.Align(containerWidth, alignment, opts)
}

func (l *Layout) CalculateContentWidths(overflowWrap layout.OverflowWrapPolicy, wrapMode layout.WrapMode) layout.ContentWidths {
	return l.data.CalculateContentWidths(overflowWrap, wrapMode)
}

func (l *Layout) Width() float32      { return l.data.Width }
func (l *Layout) FullWidth() float32  { return l.data.FullWidth }
func (l *Layout) Height() float32     { return l.data.Height }
func (l *Layout) Len() int            { return l.data.Len() }
func (l *Layout) Get(i int) *layout.Line { return l.data.Get(i) }
func (l *Layout) Lines() []layout.Line   { return l.data.Lines }
func (l *Layout) IsRTL() bool             { return l.data.IsRTL() }
func (l *Layout) InlineBoxes() []layout.InlineBox { return l.data.InlineBoxes }

// Data exposes the underlying richtext/layout.Layout for packages (such
// as richtext/cursor) that operate directly on it.
func (l *Layout) Data() *layout.Layout { return l.data }
