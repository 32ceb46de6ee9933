// Package textpos holds the small value types shared across the layout
// pipeline: byte ranges over the source text and cursor affinity.
//
// Grounded on skia/paragraph/range.go (generic Range[T]) and
// skia/paragraph/position.go (affinity-adjacent position types), ported to
// the names spec.md §3/§4.7 use (Range, Affinity, Boundary).
package textpos

import "math"

// EmptyIndex marks an invalid/unset index, matching the teacher's
// EmptyIndex sentinel (skia/paragraph/range.go).
const EmptyIndex = math.MaxInt

// Range is a half-open [Start, End) range of byte offsets, generic over the
// unit it counts (bytes, runes, clusters, lines...), mirroring the
// teacher's generic Range[T].
type Range[T ~int | ~int32 | ~int64 | ~uint32] struct {
	Start T
	End   T
}

func NewRange[T ~int | ~int32 | ~int64 | ~uint32](start, end T) Range[T] {
	return Range[T]{Start: start, End: end}
}

func (r Range[T]) Len() T { return r.End - r.Start }

func (r Range[T]) IsEmpty() bool { return r.Start >= r.End }

func (r Range[T]) Contains(i T) bool { return i >= r.Start && i < r.End }

func (r Range[T]) Intersects(other Range[T]) bool {
	return maxT(r.Start, other.Start) < minT(r.End, other.End)
}

func (r Range[T]) Intersection(other Range[T]) Range[T] {
	return Range[T]{Start: maxT(r.Start, other.Start), End: minT(r.End, other.End)}
}

func (r Range[T]) Union(other Range[T]) Range[T] {
	return Range[T]{Start: minT(r.Start, other.Start), End: maxT(r.End, other.End)}
}

func minT[T ~int | ~int32 | ~int64 | ~uint32](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func maxT[T ~int | ~int32 | ~int64 | ~uint32](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// ByteRange is a Range of UTF-8 byte offsets into the source text.
type ByteRange = Range[int]

// Affinity disambiguates a cursor position at a directional or
// soft-line-break boundary. Upstream favors the logical predecessor,
// Downstream the logical successor (spec.md §4.7, GLOSSARY).
type Affinity uint8

const (
	Upstream Affinity = iota
	Downstream
)

func (a Affinity) String() string {
	if a == Upstream {
		return "Upstream"
	}
	return "Downstream"
}

// Boundary classifies the break opportunity attached to a character
// (spec.md §2 C2, §3 "Character info").
type Boundary uint8

const (
	BoundaryNone Boundary = iota
	BoundaryWord
	BoundaryLine
	BoundaryMandatory
)

// WhitespaceClass classifies a character for spacing/justification
// purposes (spec.md §3 "Character info").
type WhitespaceClass uint8

const (
	WhitespaceNone WhitespaceClass = iota
	WhitespaceSpace
	WhitespaceTab
	WhitespaceNewline
	WhitespaceNoBreakSpace
)
