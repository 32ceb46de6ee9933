package fontmatch

import (
	"testing"

	"github.com/richtext/layoutengine/richtext/rich"
)

func TestMatchEmptyCandidates(t *testing.T) {
	if got := Match(nil, Target{Width: 100, Style: rich.StyleNormal(), Weight: 400}, false); got != -1 {
		t.Errorf("Match(nil, ...) = %d, want -1", got)
	}
}

func TestMatchExactWidthStyleWeight(t *testing.T) {
	candidates := []Candidate{
		{Width: 100, Style: rich.StyleNormal(), Weight: 400},
		{Width: 100, Style: rich.StyleItalic(), Weight: 400},
		{Width: 75, Style: rich.StyleNormal(), Weight: 700},
	}
	got := Match(candidates, Target{Width: 100, Style: rich.StyleNormal(), Weight: 400}, false)
	if got != 0 {
		t.Errorf("Match = %d, want 0 (exact match)", got)
	}
}

func TestMatchWidthFallback(t *testing.T) {
	// Target width 100 (normal): below-then-above search order.
	candidates := []Candidate{
		{Width: 125, Style: rich.StyleNormal(), Weight: 400}, // above
		{Width: 87.5, Style: rich.StyleNormal(), Weight: 400}, // below, closer
	}
	got := Match(candidates, Target{Width: 100, Style: rich.StyleNormal(), Weight: 400}, false)
	if got != 1 {
		t.Errorf("Match = %d, want 1 (closest-below width candidate)", got)
	}
}

func TestMatchWidthFallbackAboveWhenTargetExpanded(t *testing.T) {
	// Target width > 100: search above first.
	candidates := []Candidate{
		{Width: 75, Style: rich.StyleNormal(), Weight: 400},
		{Width: 150, Style: rich.StyleNormal(), Weight: 400},
	}
	got := Match(candidates, Target{Width: 125, Style: rich.StyleNormal(), Weight: 400}, false)
	if got != 1 {
		t.Errorf("Match = %d, want 1 (above candidate preferred for expanded target)", got)
	}
}

func TestMatchStyleObliqueFallsBackToItalic(t *testing.T) {
	candidates := []Candidate{
		{Width: 100, Style: rich.StyleNormal(), Weight: 400},
		{Width: 100, Style: rich.StyleItalic(), Weight: 400},
	}
	got := Match(candidates, Target{Width: 100, Style: rich.StyleOblique(10), Weight: 400}, false)
	if got != 1 {
		t.Errorf("Match = %d, want 1 (italic candidate used when no oblique present)", got)
	}
}

func TestMatchWeightNearestInRange(t *testing.T) {
	candidates := []Candidate{
		{Width: 100, Style: rich.StyleNormal(), Weight: 300},
		{Width: 100, Style: rich.StyleNormal(), Weight: 600},
	}
	// Target 450 is in [400,500]: the [target,500] band is empty here, so
	// the search falls through to weight-below (300) before weight-above.
	got := Match(candidates, Target{Width: 100, Style: rich.StyleNormal(), Weight: 450}, false)
	if got != 0 {
		t.Errorf("Match = %d, want 0 (below-target candidate preferred over above when the [target,500] band is empty)", got)
	}
}

func TestMatchIsStable(t *testing.T) {
	candidates := []Candidate{
		{Width: 100, Style: rich.StyleNormal(), Weight: 400},
		{Width: 100, Style: rich.StyleNormal(), Weight: 500},
	}
	target := Target{Width: 100, Style: rich.StyleNormal(), Weight: 450}
	first := Match(candidates, target, false)
	for i := 0; i < 5; i++ {
		if got := Match(candidates, target, false); got != first {
			t.Fatalf("Match is not stable: got %d, expected %d on repeat %d", got, first, i)
		}
	}
}
