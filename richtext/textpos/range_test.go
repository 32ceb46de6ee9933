package textpos

import "testing"

func TestRangeLenAndEmpty(t *testing.T) {
	tests := []struct {
		name    string
		r       Range[int]
		wantLen int
		wantEmp bool
	}{
		{"normal", NewRange(10, 20), 10, false},
		{"empty", NewRange(5, 5), 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Len(); got != tt.wantLen {
				t.Errorf("Len() = %d, want %d", got, tt.wantLen)
			}
			if got := tt.r.IsEmpty(); got != tt.wantEmp {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.wantEmp)
			}
		})
	}
}

func TestRangeContains(t *testing.T) {
	r := NewRange(10, 20)
	if !r.Contains(15) {
		t.Error("expected 15 to be contained in [10,20)")
	}
	if r.Contains(20) {
		t.Error("did not expect end to be contained (half-open range)")
	}
	if r.Contains(9) {
		t.Error("did not expect 9 to be contained")
	}
}

func TestRangeIntersection(t *testing.T) {
	a := NewRange(0, 10)
	b := NewRange(5, 15)
	if !a.Intersects(b) {
		t.Fatal("expected a and b to intersect")
	}
	got := a.Intersection(b)
	if got.Start != 5 || got.End != 10 {
		t.Errorf("Intersection = {%d,%d}, want {5,10}", got.Start, got.End)
	}

	c := NewRange(20, 30)
	if a.Intersects(c) {
		t.Error("did not expect disjoint ranges to intersect")
	}
}

func TestRangeUnion(t *testing.T) {
	a := NewRange(0, 10)
	b := NewRange(5, 15)
	u := a.Union(b)
	if u.Start != 0 || u.End != 15 {
		t.Errorf("Union = {%d,%d}, want {0,15}", u.Start, u.End)
	}
}

func TestAffinityString(t *testing.T) {
	if Upstream.String() == Downstream.String() {
		t.Error("Upstream and Downstream should have distinct string forms")
	}
}
