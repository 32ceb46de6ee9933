// Package rich implements the Style Resolver (spec.md C1): flattening
// ranged or tree-shaped style inputs into per-character resolved styles,
// with interning of font stacks, variation settings and feature settings
// so downstream equality checks are O(1).
//
// Grounded on skia/paragraph/text_style.go (the resolved-style record
// shape), skia/paragraph/block.go (ranged style spans) and
// skia/paragraph/paragraph_style.go, generalized from Skia's fixed
// property set to the property set spec.md §3 "Resolved style" names.
package rich

import (
	"sort"
	"strings"
)

// FontSlantKind tags a FontStyle as Normal, Italic, or Oblique (spec.md §3).
type FontSlantKind uint8

const (
	SlantNormal FontSlantKind = iota
	SlantItalic
	SlantOblique
)

// FontStyle is a CSS Fonts Level 4 style value: Normal, Italic, or
// Oblique(angle in degrees).
type FontStyle struct {
	Kind  FontSlantKind
	Angle float32 // only meaningful when Kind == SlantOblique
}

func StyleNormal() FontStyle  { return FontStyle{Kind: SlantNormal} }
func StyleItalic() FontStyle  { return FontStyle{Kind: SlantItalic} }
func StyleOblique(angle float32) FontStyle {
	return FontStyle{Kind: SlantOblique, Angle: angle}
}

func (s FontStyle) Equal(o FontStyle) bool {
	return s.Kind == o.Kind && (s.Kind != SlantOblique || s.Angle == o.Angle)
}

// WordBreak is the word-break policy (spec.md §3).
type WordBreak uint8

const (
	WordBreakNormal WordBreak = iota
	WordBreakBreakAll
	WordBreakKeepAll
)

// OverflowWrap is the overflow-wrap policy (spec.md §3).
type OverflowWrap uint8

const (
	OverflowWrapNormal OverflowWrap = iota
	OverflowWrapAnywhere
	OverflowWrapBreakWord
)

// TextWrapMode toggles wrapping entirely (spec.md §3).
type TextWrapMode uint8

const (
	TextWrapModeWrap TextWrapMode = iota
	TextWrapModeNoWrap
)

// LineHeightKind tags the three line-height interpretations (spec.md §3).
type LineHeightKind uint8

const (
	LineHeightAbsolute LineHeightKind = iota
	LineHeightFontSizeRelative
	LineHeightMetricsRelative
)

type LineHeight struct {
	Kind  LineHeightKind
	Value float32
}

// Decoration is an underline or strikethrough decoration (spec.md §3).
type Decoration struct {
	Enabled bool
	Offset  *float32
	Size    *float32
	Brush   Brush
}

// Brush is the polymorphic paint handle spec.md §9 describes: any
// concrete paint type satisfying {clone, equality, default, debug} can be
// plugged in. Here it is a small closed interface so callers supply their
// own color/paint type.
type Brush interface {
	Equal(other Brush) bool
}

// DefaultBrush is a simple ID-keyed Brush implementation. DefaultStyle
// does not set it: a style's Brush stays nil unless the caller sets one.
type DefaultBrush struct{ ID uint32 }

func (b DefaultBrush) Equal(other Brush) bool {
	o, ok := other.(DefaultBrush)
	return ok && o.ID == b.ID
}

// FontStackHandle is an interned handle to a list of family identifiers.
type FontStackHandle int

// SettingsHandle is an interned handle to a sorted (tag, value) list, used
// for both font-variation-settings and font-feature-settings.
type SettingsHandle int

// Setting is one (tag, value) pair, e.g. a variation axis or OT feature.
type Setting struct {
	Tag   string
	Value float32
}

// EmptySettingsHandle is the sentinel handle for an empty settings list
// (spec.md §4.1: "empty lists map to a sentinel handle").
const EmptySettingsHandle SettingsHandle = 0

// Style is the flat per-character resolved style record (spec.md §3
// "Resolved style").
type Style struct {
	FontStack       FontStackHandle
	FontSize        float32
	FontWidth       float32 // CSS width ratio, 100 = normal
	FontStyle       FontStyle
	FontWeight      float32 // CSS numeric weight, 400 = normal
	Variations      SettingsHandle
	Features        SettingsHandle
	Locale          string
	Brush           Brush
	Underline       Decoration
	Strikethrough   Decoration
	LineHeight      LineHeight
	WordSpacing     float32
	LetterSpacing   float32
	WordBreak       WordBreak
	OverflowWrap    OverflowWrap
	TextWrapMode    TextWrapMode
}

// DefaultStyle returns the spec's baseline style: 16px, normal everything.
func DefaultStyle() Style {
	return Style{
		FontStack:  EmptyFontStack,
		FontSize:   16,
		FontWidth:  100,
		FontStyle:  StyleNormal(),
		FontWeight: 400,
		Variations: EmptySettingsHandle,
		Features:   EmptySettingsHandle,
		LineHeight: LineHeight{Kind: LineHeightMetricsRelative, Value: 1.2},
	}
}

// Equal reports byte-equality of two resolved styles (used for span
// coalescing, spec.md §4.1).
func (s Style) Equal(o Style) bool {
	return s.FontStack == o.FontStack &&
		s.FontSize == o.FontSize &&
		s.FontWidth == o.FontWidth &&
		s.FontStyle.Equal(o.FontStyle) &&
		s.FontWeight == o.FontWeight &&
		s.Variations == o.Variations &&
		s.Features == o.Features &&
		s.Locale == o.Locale &&
		brushEqual(s.Brush, o.Brush) &&
		s.Underline == o.Underline &&
		s.Strikethrough == o.Strikethrough &&
		s.LineHeight == o.LineHeight &&
		s.WordSpacing == o.WordSpacing &&
		s.LetterSpacing == o.LetterSpacing &&
		s.WordBreak == o.WordBreak &&
		s.OverflowWrap == o.OverflowWrap &&
		s.TextWrapMode == o.TextWrapMode
}

func brushEqual(a, b Brush) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// RangedStyle pairs a resolved style with the byte range it covers
// (spec.md §4.1).
type RangedStyle struct {
	Style Style
	Start int
	End   int
}

// EmptyFontStack is the sentinel handle for an unset font stack.
const EmptyFontStack FontStackHandle = 0

// Interner maps equal sequences of strings (family lists) or Setting
// slices (variation/feature lists) to stable integer handles, per
// spec.md §4.1: "Interning caches map equal sequences ... to integer
// handles so downstream equality checks are O(1)."
//
// Grounded on the teacher's style of small owning caches
// (skia/paragraph/font_collection.go keeps a map-backed typeface cache);
// generalized here to two parallel interning tables.
type Interner struct {
	stacks        []([]string)
	stackIndex    map[string]FontStackHandle
	settings      [][]Setting
	settingsIndex map[string]SettingsHandle
}

func NewInterner() *Interner {
	in := &Interner{
		stackIndex:    make(map[string]FontStackHandle),
		settingsIndex: make(map[string]SettingsHandle),
	}
	// Reserve handle 0 as the empty sentinel for both tables.
	in.stacks = append(in.stacks, nil)
	in.settings = append(in.settings, nil)
	return in
}

func (in *Interner) InternFontStack(families []string) FontStackHandle {
	if len(families) == 0 {
		return EmptyFontStack
	}
	key := strings.Join(families, "\x00")
	if h, ok := in.stackIndex[key]; ok {
		return h
	}
	h := FontStackHandle(len(in.stacks))
	cp := append([]string(nil), families...)
	in.stacks = append(in.stacks, cp)
	in.stackIndex[key] = h
	return h
}

func (in *Interner) FontStack(h FontStackHandle) []string {
	if int(h) < 0 || int(h) >= len(in.stacks) {
		return nil
	}
	return in.stacks[h]
}

// InternSettings sorts by tag and interns a variation/feature list
// (spec.md §4.1: "sorted by tag before interning").
func (in *Interner) InternSettings(settings []Setting) SettingsHandle {
	if len(settings) == 0 {
		return EmptySettingsHandle
	}
	sorted := append([]Setting(nil), settings...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Tag < sorted[j].Tag })
	var sb strings.Builder
	for _, s := range sorted {
		sb.WriteString(s.Tag)
		sb.WriteByte('=')
		sb.WriteString(formatFloat(s.Value))
		sb.WriteByte(';')
	}
	key := sb.String()
	if h, ok := in.settingsIndex[key]; ok {
		return h
	}
	h := SettingsHandle(len(in.settings))
	in.settings = append(in.settings, sorted)
	in.settingsIndex[key] = h
	return h
}

func (in *Interner) Settings(h SettingsHandle) []Setting {
	if int(h) < 0 || int(h) >= len(in.settings) {
		return nil
	}
	return in.settings[h]
}

func formatFloat(f float32) string {
	// Small fixed-precision encoding, sufficient for interning-key purposes.
	i := int64(f * 1000)
	return itoa(i)
}

func itoa(i int64) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [32]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
