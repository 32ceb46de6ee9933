package rich

// treeFrame is one entry in the tree builder's stack of partial styles
// (spec.md §4.1 "Tree builder is implemented as a stack of partial
// styles").
type treeFrame struct {
	style    Style
	textEnd  int // byte offset where this frame's previous span ended
}

// TreeBuilder consumes a tree of nested style spans emitting text
// (spec.md §4.1 contract (b), §6 LayoutContext::tree_builder). Supplements
// spec.md's brief mention with the push/pop API parley/src/builder.rs
// exposes (see SPEC_FULL.md "Supplemented features").
type TreeBuilder struct {
	interner *Interner
	text     []byte
	spans    []RangedStyle
	stack    []treeFrame
}

func NewTreeBuilder(interner *Interner, rootStyle Style) *TreeBuilder {
	return &TreeBuilder{
		interner: interner,
		stack:    []treeFrame{{style: rootStyle}},
	}
}

func (t *TreeBuilder) top() *treeFrame { return &t.stack[len(t.stack)-1] }

// PushStyleSpan pushes a fully resolved style as the new top of stack.
func (t *TreeBuilder) PushStyleSpan(style Style) {
	t.stack = append(t.stack, treeFrame{style: style, textEnd: len(t.text)})
}

// PushStyleModificationSpan pushes a property override applied on top of
// the current style (spec.md §4.1: "modification spans push a lambda of
// property overrides applied to the current top").
func (t *TreeBuilder) PushStyleModificationSpan(prop Property) {
	cur := t.top().style
	prop(&cur)
	t.stack = append(t.stack, treeFrame{style: cur, textEnd: len(t.text)})
}

// Pop pops the most recently pushed span.
func (t *TreeBuilder) Pop() {
	if len(t.stack) > 1 {
		t.stack = t.stack[:len(t.stack)-1]
	}
}

// PushText appends text, extending the current top span's style over the
// appended bytes, starting from where the previous top span ended
// (spec.md §4.1: "on push_text the current top's style is extended over
// the appended bytes, its previous end being where the previous top-span
// ended").
func (t *TreeBuilder) PushText(s string) {
	start := len(t.text)
	t.text = append(t.text, s...)
	end := len(t.text)
	if start == end {
		return
	}
	frame := t.top()
	t.spans = append(t.spans, RangedStyle{Style: frame.style, Start: start, End: end})
	frame.textEnd = end
}

// Build finalizes the tree into text plus the RangedStyle sequence,
// coalescing adjacent equal-style spans like the ranged builder does.
func (t *TreeBuilder) Build() (string, []RangedStyle) {
	text := string(t.text)
	if len(t.spans) == 0 {
		return text, []RangedStyle{{Style: t.stack[0].style, Start: 0, End: 0}}
	}
	out := t.spans[:1]
	for _, s := range t.spans[1:] {
		last := &out[len(out)-1]
		if last.End == s.Start && last.Style.Equal(s.Style) {
			last.End = s.End
			continue
		}
		out = append(out, s)
	}
	return text, out
}
