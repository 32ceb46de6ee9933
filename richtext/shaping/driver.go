// Package shaping implements the Shaper Driver (spec.md C4): item
// segmentation, per-cluster font selection with coverage fallback,
// shaping calls through a collab.ShaperCollaborator, and cluster/glyph
// assembly into a layout.Layout.
//
// Grounded on skia/paragraph/one_line_shaper.go (the teacher's font-
// fallback-driven shaping loop) and skia/shaper/harfbuzz.go (item
// segmentation by iterator boundaries, visual reordering, fixed-point
// advance conversion), generalized from Skia's SkFont/SkTypeface
// collaborator surface to this module's collab package and from
// character-per-glyph clustering to the ligature-aware clustering
// spec.md §4.4 requires.
package shaping

import (
	"fmt"
	"log"
	"strings"

	"github.com/richtext/layoutengine/richtext/analyze"
	"github.com/richtext/layoutengine/richtext/collab"
	"github.com/richtext/layoutengine/richtext/geom"
	"github.com/richtext/layoutengine/richtext/layout"
	"github.com/richtext/layoutengine/richtext/rich"
	"github.com/richtext/layoutengine/richtext/textpos"
)

// Driver holds the amortized scratch a LayoutContext would hold for
// shaping (spec.md §5): one bounded LRU of font-selection results. It
// caches no shaper data, shaper instances or shaping plans.
type Driver struct {
	Font   collab.FontCollaborator
	Shaper collab.ShaperCollaborator

	planCache *lru
}

// NewDriver constructs a Driver with a single capacity-16 LRU that caches
// font-selection results keyed by family list and font attributes
// (fontSelectionKey). Shaper data, instances and plans are not cached
// here; any such state lives behind collab.ShaperCollaborator.
func NewDriver(font collab.FontCollaborator, shaper collab.ShaperCollaborator) *Driver {
	return &Driver{Font: font, Shaper: shaper, planCache: newLRU(16)}
}

// shapeItem is the accumulator spec.md §4.4 "Item segmentation" names:
// a run of characters with uniform style/size/script/level/locale/
// variations/features/spacing.
type shapeItem struct {
	start, end int // character indices, not byte offsets
	styleIndex int
	script     uint32
	bidiLevel  uint8
}

// sameItemKey reports whether chars i and j belong to the same shape
// item per spec.md §4.4's break conditions.
func sameItemKey(chars []analyze.CharInfo, styles []rich.RangedStyle, i, j int) bool {
	if chars[i].StyleIndex != chars[j].StyleIndex {
		// Only a "different value of any of these fields" breaks the
		// item; if both indices resolve to byte-equal styles it's still
		// one item, but style indices are already coalesced upstream so
		// a differing index means a differing style here.
		return false
	}
	if chars[i].BidiLevel != chars[j].BidiLevel {
		return false
	}
	si, sj := chars[i].Script, chars[j].Script
	if si != 0 && sj != 0 && si != sj {
		return false
	}
	return true
}

// Shape runs the full C4 pipeline over text, appending runs/clusters/
// glyphs to lay. inlineBoxes is sorted by anchor index (spec.md §3
// "Layout" invariant). interner resolves each style's FontStack handle
// to its family list for font selection (spec.md §4.4 "Family set: the
// style's font stack").
func (d *Driver) Shape(lay *layout.Layout, text string, chars []analyze.CharInfo, styles []rich.RangedStyle, inlineBoxes []layout.InlineBox, interner *rich.Interner) {
	runes := []rune(text)
	n := len(runes)
	lay.InlineBoxes = inlineBoxes
	boxIdx := 0

	i := 0
	for i < n {
		// Flush any inline boxes anchored at or before this byte offset
		// before starting a new item (spec.md §4.4).
		byteOff := chars[i].ByteOffset
		for boxIdx < len(inlineBoxes) && inlineBoxes[boxIdx].Index <= byteOff {
			lay.Items = append(lay.Items, layout.Item{Kind: layout.ItemInlineBox, Index: boxIdx})
			boxIdx++
		}

		j := i + 1
		for j < n && sameItemKey(chars, styles, i, j-1) && sameItemKey(chars, styles, i, j) {
			// Also break at any inline box anchor inside the item.
			if boxIdx < len(inlineBoxes) && inlineBoxes[boxIdx].Index <= chars[j].ByteOffset && inlineBoxes[boxIdx].Index > byteOff {
				break
			}
			j++
		}

		d.shapeRun(lay, runes, chars, styles, i, j, interner)
		i = j
	}
	for boxIdx < len(inlineBoxes) {
		lay.Items = append(lay.Items, layout.Item{Kind: layout.ItemInlineBox, Index: boxIdx})
		boxIdx++
	}
}

// shapeRun shapes characters [start,end) (one item) into one or more
// Run records (font selection can still split an item into multiple
// shaping segments per spec.md §4.4 "Font selection per cluster").
func (d *Driver) shapeRun(lay *layout.Layout, runes []rune, chars []analyze.CharInfo, styles []rich.RangedStyle, start, end int, interner *rich.Interner) {
	if start >= end {
		return
	}
	styleIdx := chars[start].StyleIndex
	style := rich.DefaultStyle()
	if styleIdx >= 0 && styleIdx < len(styles) {
		style = styles[styleIdx].Style
	}

	segStart := start
	var prevFont *collab.QueryFont
	for c := start; c <= end; c++ {
		var f *collab.QueryFont
		if c < end {
			f = d.selectFont(chars[c], style, interner)
		}
		boundary := c == end || !sameFont(prevFont, f)
		if boundary && c > segStart {
			d.shapeSegment(lay, runes, chars, style, segStart, c, prevFont)
			segStart = c
		}
		if c < end {
			prevFont = f
		}
	}
}

func sameFont(a, b *collab.QueryFont) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Face == b.Face && a.FaceIndex == b.FaceIndex
}

// selectFont implements spec.md §4.4 "Font selection per cluster": query
// candidates in order, stop at the first Complete, else retain best Keep,
// else first Discard.
func (d *Driver) selectFont(ch analyze.CharInfo, style rich.Style, interner *rich.Interner) *collab.QueryFont {
	if d.Font == nil {
		return nil
	}
	families := familiesFor(interner, style, ch.IsEmoji)
	attrs := collab.FontAttributes{
		Width:  style.FontWidth,
		Weight: style.FontWeight,
		Style:  style.FontStyle,
		Script: ch.Script,
		Locale: style.Locale,
	}

	key := fontSelectionKey(families, attrs)
	if d.planCache != nil {
		if cached, ok := d.planCache.get(key); ok {
			qf := cached.(collab.QueryFont)
			return &qf
		}
	}

	var best *collab.QueryFont
	var bestCoverage collab.Coverage = collab.CoverageDiscard
	var first *collab.QueryFont
	d.Font.Query(families, attrs, func(qf collab.QueryFont, cov collab.Coverage) bool {
		if first == nil {
			first = &qf
		}
		if cov == collab.CoverageComplete {
			best = &qf
			bestCoverage = cov
			return true
		}
		if cov == collab.CoverageKeep && bestCoverage != collab.CoverageKeep {
			best = &qf
			bestCoverage = cov
		}
		return false
	})
	chosen := best
	if chosen == nil {
		chosen = first
	}
	if chosen != nil && d.planCache != nil {
		d.planCache.put(key, *chosen)
	}
	return chosen
}

// fontSelectionKey builds the cache key for the font-selection LRU
// (spec.md §4.4: matching is keyed on the family list plus the resolved
// width/style/weight/script/locale target).
func fontSelectionKey(families []string, attrs collab.FontAttributes) string {
	return fmt.Sprintf("%s|%v|%v|%v|%d|%s",
		strings.Join(families, ","), attrs.Width, attrs.Style, attrs.Weight, attrs.Script, attrs.Locale)
}

// familiesFor resolves style.FontStack through interner to the family
// list spec.md §4.4's "Family set" names, falling back to the generic
// sans-serif family when the stack is unset or interner is nil (e.g. in
// tests that shape without a real style pipeline). The generic Emoji
// family is always appended last for emoji characters.
func familiesFor(interner *rich.Interner, style rich.Style, isEmoji bool) []string {
	var families []string
	if interner != nil {
		families = append(families, interner.FontStack(style.FontStack)...)
	}
	if len(families) == 0 {
		families = []string{"sans-serif"}
	}
	if isEmoji {
		families = append(families, "Emoji")
	}
	return families
}

// shapeSegment shapes one contiguous run of characters sharing a font,
// invokes the shaper collaborator, and assembles clusters/glyphs
// (spec.md §4.4 "Shaping call", "Cluster assembly").
func (d *Driver) shapeSegment(lay *layout.Layout, runes []rune, chars []analyze.CharInfo, style rich.Style, start, end int, qf *collab.QueryFont) {
	if start >= end {
		return
	}
	bidiLevel := chars[start].BidiLevel
	rtl := bidiLevel%2 == 1

	in := collab.ShapeInput{
		Text:     runes,
		RunStart: start,
		RunEnd:   end,
		RTL:      rtl,
		SizePx:   style.FontSize,
		Script:   chars[start].Script,
		Language: style.Locale,
	}
	if qf != nil {
		in.Face = qf.Face
	}

	var out collab.ShapeOutput
	if d.Shaper != nil {
		out = d.Shaper.Shape(in)
	}
	if len(out.Glyphs) == 0 {
		log.Printf("shaping: empty output for segment [%d,%d)", start, end)
	}

	runIndex := len(lay.Runs)
	textStart := chars[start].ByteOffset
	textEnd := chars[end-1].ByteOffset + chars[end-1].ByteLen

	run := layout.Run{
		FontSize:      style.FontSize,
		BidiLevel:     bidiLevel,
		TextRange:     textpos.ByteRange{Start: textStart, End: textEnd},
		WordSpacing:   style.WordSpacing,
		LetterSpacing: style.LetterSpacing,
		GlyphBase:     len(lay.Glyphs),
	}
	applyFontMetrics(&run, qf, style)

	clusterStart := len(lay.Clusters)
	assembleClusters(lay, &run, runes, chars, start, end, out, rtl, runIndex)
	run.ClusterRange = textpos.Range[int]{Start: clusterStart, End: len(lay.Clusters)}

	applySpacing(lay, &run)

	lay.Runs = append(lay.Runs, run)
	lay.Items = append(lay.Items, layout.Item{Kind: layout.ItemRun, Index: runIndex})
}

// applyFontMetrics fills in Run ascent/descent/leading/underline/
// strikethrough/line-height per spec.md §4.4 "Run metrics".
func applyFontMetrics(run *layout.Run, qf *collab.QueryFont, style rich.Style) {
	var ascent, descent, leading, upm float32 = run.FontSize * 0.8, run.FontSize * 0.2, 0, 1000
	var underlineOff, underlineSize, strikeOff, strikeSize float32

	if qf != nil && qf.Face != nil {
		m := qf.Face.FontExtents(nil)
		upm = float32(qf.Face.Upem())
		if upm <= 0 {
			upm = 1000
		}
		scale := run.FontSize / upm
		ascent = m.Ascender * scale
		descent = -m.Descender * scale
		leading = m.LineGap * scale
	}
	underlineSize = upm / 18 * (run.FontSize / upm)
	strikeOff = ascent / 2
	strikeSize = upm / 18 * (run.FontSize / upm)
	underlineOff = -underlineSize

	run.Ascent, run.Descent, run.Leading = ascent, descent, leading
	run.UnderlineOffset, run.UnderlineSize = underlineOff, underlineSize
	run.StrikeOffset, run.StrikeSize = strikeOff, strikeSize

	switch style.LineHeight.Kind {
	case rich.LineHeightAbsolute:
		run.LineHeight = style.LineHeight.Value
	case rich.LineHeightFontSizeRelative:
		run.LineHeight = style.LineHeight.Value * style.FontSize
	case rich.LineHeightMetricsRelative:
		run.LineHeight = (ascent + descent + leading) * style.LineHeight.Value
	}
	if qf != nil {
		run.Synthesis.Embolden = qf.Synthesis.Embolden
		if qf.Synthesis.SkewAngle != nil {
			run.Synthesis.HasSkew = true
			run.Synthesis.SkewAngle = *qf.Synthesis.SkewAngle
		}
		run.Variations = qf.Synthesis.Variations
	}
}

// assembleClusters implements spec.md §4.4 "Cluster assembly": groups
// glyphs by cluster id, detects ligatures via the component-count rule,
// applies the inlined-single-glyph optimization, and handles newline
// clusters specially.
func assembleClusters(lay *layout.Layout, run *layout.Run, runes []rune, chars []analyze.CharInfo, start, end int, out collab.ShapeOutput, rtl bool, runIndex int) {
	// Group glyph indices by cluster id (character index).
	byCluster := make(map[int][]collab.ShapeGlyph)
	order := make([]int, 0, end-start)
	seen := make(map[int]bool)
	for _, g := range out.Glyphs {
		cid := g.ClusterID
		if !seen[cid] {
			seen[cid] = true
			order = append(order, cid)
		}
		byCluster[cid] = append(byCluster[cid], g)
	}
	if rtl {
		// Glyphs arrive in visual (right-to-left) order; reverse to
		// logical order for storage (spec.md §4.4).
		reverseInts(order)
	}
	if len(order) == 0 {
		for c := start; c < end; c++ {
			order = append(order, c)
		}
	}

	for oi, cid := range order {
		if cid < start || cid >= end {
			continue
		}
		glyphs := byCluster[cid]

		// order is logical for both directions here (RTL was reversed
		// above), so the component count is the gap to the next cluster id.
		var compCount int
		if oi+1 < len(order) {
			compCount = order[oi+1] - cid
		} else {
			compCount = end - cid
		}
		if compCount < 1 {
			compCount = 1
		}

		var totalAdvance float32
		for _, g := range glyphs {
			totalAdvance += g.XAdvance
		}

		ch := chars[cid]
		isHardBreak := ch.Boundary == textpos.BoundaryMandatory

		cl := layout.Cluster{
			Boundary:   layout.BreakType(ch.Boundary),
			SourceChar: runes[cid],
			StyleIndex: ch.StyleIndex,
			TextOffset: ch.ByteOffset - run.TextRange.Start,
			TextLen:    ch.ByteLen,
			RunIndex:   runIndex,
		}
		if ch.Whitespace != 0 {
			cl.Flags |= layout.ClusterWhitespace
		}
		if isHardBreak {
			cl.Flags |= layout.ClusterIsHardBreak
			cl.Advance = 0
			cl.GlyphLen = layout.InlineGlyphLen
			cl.GlyphID = 0
			lay.Clusters = append(lay.Clusters, cl)
			continue
		}

		if compCount > 1 {
			perComponent := totalAdvance / float32(compCount)
			startCl := cl
			startCl.Flags |= layout.ClusterLigatureStart
			startCl.Advance = perComponent
			appendGlyphCluster(lay, run, &startCl, glyphs)
			lay.Clusters = append(lay.Clusters, startCl)
			for k := 1; k < compCount; k++ {
				compCl := layout.Cluster{
					SourceChar: cl.SourceChar,
					StyleIndex: cl.StyleIndex,
					TextOffset: cl.TextOffset,
					TextLen:    cl.TextLen,
					RunIndex:   runIndex,
					Advance:    perComponent,
					Flags:      cl.Flags | layout.ClusterLigatureComponent,
					GlyphLen:   0,
				}
				lay.Clusters = append(lay.Clusters, compCl)
			}
			continue
		}

		cl.Advance = totalAdvance
		appendGlyphCluster(lay, run, &cl, glyphs)
		lay.Clusters = append(lay.Clusters, cl)
	}
}

func appendGlyphCluster(lay *layout.Layout, run *layout.Run, cl *layout.Cluster, glyphs []collab.ShapeGlyph) {
	if len(glyphs) == 1 && glyphs[0].XOffset == 0 && glyphs[0].YOffset == 0 {
		cl.GlyphLen = layout.InlineGlyphLen
		cl.GlyphID = glyphs[0].GlyphID
		return
	}
	cl.GlyphOffset = len(lay.Glyphs)
	cl.GlyphLen = uint8(len(glyphs))
	for _, g := range glyphs {
		lay.Glyphs = append(lay.Glyphs, layout.Glyph{
			ID:      g.GlyphID,
			Offset:  geom.Point{X: g.XOffset, Y: g.YOffset},
			Advance: g.XAdvance,
		})
	}
}

func reverseInts(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// applySpacing implements spec.md §4.4 "Spacing": letter-spacing applies
// to every cluster's advance; word-spacing applies to Space/NoBreakSpace
// clusters; extra advance accrues to the run's total advance.
func applySpacing(lay *layout.Layout, run *layout.Run) {
	var total float32
	for i := run.ClusterRange.Start; i < run.ClusterRange.End; i++ {
		c := &lay.Clusters[i]
		c.Advance += run.LetterSpacing
		// Space and NoBreakSpace: whitespace that is neither a tab nor a
		// hard break.
		if c.IsWhitespace() && c.Flags&layout.ClusterIsHardBreak == 0 && c.SourceChar != '\t' {
			c.Advance += run.WordSpacing
		}
		total += c.Advance
	}
	run.Advance = total
}
