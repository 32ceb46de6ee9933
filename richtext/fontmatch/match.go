// Package fontmatch implements the Font Matcher (spec.md C3): CSS Fonts
// Level 4 matching given a candidate set and a target (width, style,
// weight).
//
// Grounded algorithmically on _examples/original_source/fontique/src/matching.rs
// (the only place the precise three-pass search order is defined),
// expressed in the collaborator-interface idiom of
// skia/interfaces/font_mgr.go (SkFontStyleSet.MatchStyle plays the same
// role this package's Match function does, but against a richer
// width/style/weight candidate set than SkFontStyle's 1-9 width enum).
package fontmatch

import "github.com/richtext/layoutengine/richtext/rich"

// ObliqueThreshold is the fixed 14-degree boundary spec.md §4.3 names.
const ObliqueThreshold = float32(14)

// Candidate is one matchable font's CSS-relevant attributes (spec.md
// §4.3 contract).
type Candidate struct {
	Width         float32 // CSS width percentage, 100 = normal
	Style         rich.FontStyle
	Weight        float32 // CSS numeric weight
	HasSlantAxis  bool
}

// Target is the style being searched for.
type Target struct {
	Width  float32
	Style  rich.FontStyle
	Weight float32
}

// Match returns the index of the best match in candidates, or -1 if
// candidates is empty (spec.md §4.3: "return ... or None on empty
// input"). synthesizeStyle enables oblique-via-slant-axis synthesis
// fallback in the style pass.
func Match(candidates []Candidate, target Target, synthesizeStyle bool) int {
	if len(candidates) == 0 {
		return -1
	}
	idx := make([]int, len(candidates))
	for i := range idx {
		idx[i] = i
	}

	idx = widthPass(candidates, idx, target.Width)
	idx = stylePass(candidates, idx, target.Style, synthesizeStyle)
	idx = weightPass(candidates, idx, target.Weight)
	if len(idx) == 0 {
		return -1
	}
	return idx[0]
}

func widthPass(c []Candidate, idx []int, target float32) []int {
	// Exact match first.
	if exact := filterEq(c, idx, func(i int) float32 { return c[i].Width }, target); len(exact) > 0 {
		return exact
	}
	var order []int
	if target <= 100 {
		order = append(order, searchBelow(c, idx, target)...)
		order = append(order, searchAbove(c, idx, target)...)
	} else {
		order = append(order, searchAbove(c, idx, target)...)
		order = append(order, searchBelow(c, idx, target)...)
	}
	if len(order) == 0 {
		return idx
	}
	selected := c[order[0]].Width
	return filterEq(c, idx, func(i int) float32 { return c[i].Width }, selected)
}

// searchBelow returns candidate indices with width < target, sorted
// descending by width (closest-below first).
func searchBelow(c []Candidate, idx []int, target float32) []int {
	var out []int
	for _, i := range idx {
		if c[i].Width < target {
			out = append(out, i)
		}
	}
	sortDesc(out, func(i int) float32 { return c[i].Width })
	return out
}

func searchAbove(c []Candidate, idx []int, target float32) []int {
	var out []int
	for _, i := range idx {
		if c[i].Width > target {
			out = append(out, i)
		}
	}
	sortAsc(out, func(i int) float32 { return c[i].Width })
	return out
}

func filterEq(c []Candidate, idx []int, key func(int) float32, target float32) []int {
	var out []int
	for _, i := range idx {
		if key(i) == target {
			out = append(out, i)
		}
	}
	return out
}

func obliqueAngle(s rich.FontStyle) float32 {
	switch s.Kind {
	case rich.SlantItalic:
		return ObliqueThreshold // Italic is treated as if at the threshold for ordering purposes
	case rich.SlantOblique:
		return s.Angle
	default:
		return 0
	}
}

func stylePass(c []Candidate, idx []int, target rich.FontStyle, synthesize bool) []int {
	// Exact match first.
	var exact []int
	for _, i := range idx {
		if c[i].Style.Equal(target) {
			exact = append(exact, i)
		}
	}
	if len(exact) > 0 {
		return exact
	}

	obliqueOf := func(i int) (float32, bool) {
		if c[i].Style.Kind == rich.SlantOblique {
			return c[i].Style.Angle, true
		}
		return 0, false
	}

	var ordered []int
	switch target.Kind {
	case rich.SlantItalic:
		ordered = append(ordered, obliqueAtLeastAsc(c, idx, obliqueOf, ObliqueThreshold)...)
		ordered = append(ordered, obliqueBetweenDesc(c, idx, obliqueOf, 0, ObliqueThreshold)...)
		ordered = append(ordered, italicCandidates(c, idx)...)
		ordered = append(ordered, obliqueAtMostDesc(c, idx, obliqueOf, 0)...)
	case rich.SlantOblique:
		a := target.Angle
		switch {
		case a >= ObliqueThreshold:
			ordered = append(ordered, obliqueAtLeastAsc(c, idx, obliqueOf, a)...)
			ordered = append(ordered, obliqueBetweenDesc(c, idx, obliqueOf, 0, a)...)
			ordered = append(ordered, synthesisOrItalic(c, idx, synthesize)...)
			ordered = append(ordered, obliqueAtMostDesc(c, idx, obliqueOf, 0)...)
		case a >= 0:
			ordered = append(ordered, obliqueBetweenDesc(c, idx, obliqueOf, 0, a)...)
			ordered = append(ordered, obliqueAtLeastAsc(c, idx, obliqueOf, a)...)
			ordered = append(ordered, synthesisOrItalic(c, idx, synthesize)...)
		case a > -ObliqueThreshold:
			ordered = append(ordered, obliqueBetweenAsc(c, idx, obliqueOf, a, 0)...)
			ordered = append(ordered, obliqueAtMostDesc(c, idx, obliqueOf, a)...)
			ordered = append(ordered, synthesisOrItalic(c, idx, synthesize)...)
		default:
			ordered = append(ordered, obliqueAtMostDesc(c, idx, obliqueOf, a)...)
			ordered = append(ordered, obliqueBetweenAsc(c, idx, obliqueOf, a, 0)...)
			ordered = append(ordered, synthesisOrItalic(c, idx, synthesize)...)
		}
	default: // Normal
		ordered = append(ordered, obliqueAtLeastAsc(c, idx, obliqueOf, 0)...)
		ordered = append(ordered, italicCandidates(c, idx)...)
		ordered = append(ordered, obliqueAtMostDesc(c, idx, obliqueOf, 0)...)
	}
	if len(ordered) == 0 {
		return idx // "else any"
	}
	selected := c[ordered[0]].Style
	var out []int
	for _, i := range idx {
		if c[i].Style.Equal(selected) {
			out = append(out, i)
		}
	}
	return out
}

func synthesisOrItalic(c []Candidate, idx []int, synthesize bool) []int {
	if synthesize {
		var out []int
		for _, i := range idx {
			if c[i].HasSlantAxis {
				out = append(out, i)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return italicCandidates(c, idx)
}

func italicCandidates(c []Candidate, idx []int) []int {
	var out []int
	for _, i := range idx {
		if c[i].Style.Kind == rich.SlantItalic {
			out = append(out, i)
		}
	}
	return out
}

func obliqueAtLeastAsc(c []Candidate, idx []int, of func(int) (float32, bool), min float32) []int {
	var out []int
	for _, i := range idx {
		if a, ok := of(i); ok && a >= min {
			out = append(out, i)
		}
	}
	sortAsc(out, func(i int) float32 { a, _ := of(i); return a })
	return out
}

func obliqueAtMostDesc(c []Candidate, idx []int, of func(int) (float32, bool), max float32) []int {
	var out []int
	for _, i := range idx {
		if a, ok := of(i); ok && a <= max {
			out = append(out, i)
		}
	}
	sortDesc(out, func(i int) float32 { a, _ := of(i); return a })
	return out
}

func obliqueBetweenDesc(c []Candidate, idx []int, of func(int) (float32, bool), lo, hi float32) []int {
	var out []int
	for _, i := range idx {
		if a, ok := of(i); ok && a > lo && a < hi {
			out = append(out, i)
		}
	}
	sortDesc(out, func(i int) float32 { a, _ := of(i); return a })
	return out
}

func obliqueBetweenAsc(c []Candidate, idx []int, of func(int) (float32, bool), lo, hi float32) []int {
	var out []int
	for _, i := range idx {
		if a, ok := of(i); ok && a > lo && a < hi {
			out = append(out, i)
		}
	}
	sortAsc(out, func(i int) float32 { a, _ := of(i); return a })
	return out
}

func weightPass(c []Candidate, idx []int, target float32) []int {
	if exact := filterEq(c, idx, func(i int) float32 { return c[i].Weight }, target); len(exact) > 0 {
		return exact
	}
	var order []int
	switch {
	case target >= 400 && target <= 500:
		order = append(order, weightRange(c, idx, target, 500, true)...)
		order = append(order, weightBelowDesc(c, idx, target)...)
		order = append(order, weightAboveAsc(c, idx, 500)...)
	case target < 400:
		order = append(order, weightBelowDesc(c, idx, target)...)
		order = append(order, weightAboveAsc(c, idx, target)...)
	default: // > 500
		order = append(order, weightAboveAsc(c, idx, target)...)
		order = append(order, weightBelowDesc(c, idx, target)...)
	}
	if len(order) == 0 {
		return nil // "Return None only if weight pass yields no candidate"
	}
	selected := c[order[0]].Weight
	return filterEq(c, idx, func(i int) float32 { return c[i].Weight }, selected)
}

func weightRange(c []Candidate, idx []int, lo, hi float32, ascending bool) []int {
	var out []int
	for _, i := range idx {
		if c[i].Weight >= lo && c[i].Weight <= hi {
			out = append(out, i)
		}
	}
	if ascending {
		sortAsc(out, func(i int) float32 { return c[i].Weight })
	} else {
		sortDesc(out, func(i int) float32 { return c[i].Weight })
	}
	return out
}

func weightBelowDesc(c []Candidate, idx []int, target float32) []int {
	var out []int
	for _, i := range idx {
		if c[i].Weight < target {
			out = append(out, i)
		}
	}
	sortDesc(out, func(i int) float32 { return c[i].Weight })
	return out
}

func weightAboveAsc(c []Candidate, idx []int, target float32) []int {
	var out []int
	for _, i := range idx {
		if c[i].Weight > target {
			out = append(out, i)
		}
	}
	sortAsc(out, func(i int) float32 { return c[i].Weight })
	return out
}

func sortAsc(idx []int, key func(int) float32) {
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0 && key(idx[j]) < key(idx[j-1]); j-- {
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}
}

func sortDesc(idx []int, key func(int) float32) {
	for i := 1; i < len(idx); i++ {
		for j := i; j > 0 && key(idx[j]) > key(idx[j-1]); j-- {
			idx[j], idx[j-1] = idx[j-1], idx[j]
		}
	}
}
