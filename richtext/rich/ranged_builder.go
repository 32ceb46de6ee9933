package rich

// Property is a single style attribute assignment. Rather than one
// variant type per CSS property (which the teacher's block/TextStyle
// split needs because it mutates a whole struct at once), the ranged
// builder here takes a mutator closure, mirroring how spec.md describes
// the tree builder's "modification spans push a lambda of property
// overrides" — used for both builders so ranged pushes and tree overrides
// share one representation.
type Property func(*Style)

// span is one entry of the builder's sorted non-overlapping span list
// (spec.md §4.1 "Ranged builder maintains a sorted list of
// non-overlapping span breakpoints"): a byte range and its style.
type span struct {
	start, end int
	style      Style
}

// RangedBuilder flattens ranged style pushes into RangedStyle records
// whose ranges partition [0, text_len). Grounded on
// skia/paragraph/paragraph_builder.go's ParagraphBuilder, replacing its
// stub Build() (which ignored the style stack) with the split/coalesce
// algorithm spec.md §4.1 describes.
type RangedBuilder struct {
	interner *Interner
	textLen  int
	spans    []span
}

// NewRangedBuilder creates a builder over text of the given byte length,
// starting from defaultStyle applied over the whole range.
func NewRangedBuilder(interner *Interner, textLen int, defaultStyle Style) *RangedBuilder {
	if textLen < 0 {
		textLen = 0
	}
	return &RangedBuilder{
		interner: interner,
		textLen:  textLen,
		spans:    []span{{start: 0, end: textLen, style: defaultStyle}},
	}
}

// PushDefault applies prop over the whole text, used before any ranged
// push to set the baseline (spec.md §6 RangedBuilder::push_default).
func (b *RangedBuilder) PushDefault(prop Property) {
	b.Push(prop, 0, b.textLen)
}

// Push applies prop over [start, end), splitting and coalescing spans.
// Invalid ranges are clamped to [0, text_len] and empty ranges ignored
// (spec.md §4.1 "Errors").
func (b *RangedBuilder) Push(prop Property, start, end int) {
	if start < 0 {
		start = 0
	}
	if end > b.textLen {
		end = b.textLen
	}
	if start >= end {
		return
	}
	b.split(start)
	b.split(end)
	for i := range b.spans {
		if b.spans[i].start >= start && b.spans[i].end <= end {
			prop(&b.spans[i].style)
		}
	}
	b.coalesce()
}

// split ensures `at` is a span boundary.
func (b *RangedBuilder) split(at int) {
	if at <= 0 || at >= b.textLen {
		return
	}
	for i, s := range b.spans {
		if s.start < at && at < s.end {
			left := span{start: s.start, end: at, style: s.style}
			right := span{start: at, end: s.end, style: s.style}
			b.spans = append(b.spans[:i], append([]span{left, right}, b.spans[i+1:]...)...)
			return
		}
	}
}

// coalesce merges adjacent spans whose resolved style is byte-equal
// (spec.md §4.1).
func (b *RangedBuilder) coalesce() {
	if len(b.spans) < 2 {
		return
	}
	out := b.spans[:1]
	for _, s := range b.spans[1:] {
		last := &out[len(out)-1]
		if last.end == s.start && last.style.Equal(s.style) {
			last.end = s.end
			continue
		}
		out = append(out, s)
	}
	b.spans = out
}

// Build finalizes the builder into the ordered RangedStyle sequence
// (spec.md §4.1 "Produces an ordered sequence of RangedStyle records
// whose ranges partition [0, text_len)").
func (b *RangedBuilder) Build() []RangedStyle {
	if b.textLen == 0 {
		style := DefaultStyle()
		if len(b.spans) > 0 {
			style = b.spans[0].style
		}
		return []RangedStyle{{Style: style, Start: 0, End: 0}}
	}
	out := make([]RangedStyle, 0, len(b.spans))
	for _, s := range b.spans {
		out = append(out, RangedStyle{Style: s.style, Start: s.start, End: s.end})
	}
	return out
}
