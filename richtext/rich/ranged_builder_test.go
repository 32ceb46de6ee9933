package rich

import "testing"

func TestRangedBuilderPushAndCoalesce(t *testing.T) {
	interner := NewInterner()
	b := NewRangedBuilder(interner, 10, DefaultStyle())
	b.Push(func(s *Style) { s.FontSize = 24 }, 2, 5)
	b.Push(func(s *Style) { s.FontSize = 24 }, 5, 8)

	spans := b.Build()
	if len(spans) != 3 {
		t.Fatalf("expected 3 spans after coalescing equal adjacent [2,5) and [5,8), got %d: %+v", len(spans), spans)
	}
	if spans[1].Start != 2 || spans[1].End != 8 {
		t.Errorf("expected the coalesced span to be [2,8), got [%d,%d)", spans[1].Start, spans[1].End)
	}
	if spans[1].Style.FontSize != 24 {
		t.Errorf("expected coalesced span FontSize = 24, got %v", spans[1].Style.FontSize)
	}
}

func TestRangedBuilderPartitionsWholeText(t *testing.T) {
	interner := NewInterner()
	b := NewRangedBuilder(interner, 10, DefaultStyle())
	b.Push(func(s *Style) { s.FontWeight = 700 }, 3, 6)
	spans := b.Build()

	var covered int
	for i, s := range spans {
		if s.Start != covered {
			t.Fatalf("span %d starts at %d, expected %d (spans must partition [0,text_len))", i, s.Start, covered)
		}
		covered = s.End
	}
	if covered != 10 {
		t.Errorf("spans cover up to %d, want 10", covered)
	}
}

func TestRangedBuilderEmptyText(t *testing.T) {
	interner := NewInterner()
	b := NewRangedBuilder(interner, 0, DefaultStyle())
	spans := b.Build()
	if len(spans) != 1 || spans[0].Start != 0 || spans[0].End != 0 {
		t.Errorf("expected one empty span for empty text, got %+v", spans)
	}
}

func TestInternerDeduplicates(t *testing.T) {
	in := NewInterner()
	h1 := in.InternFontStack([]string{"Arial", "sans-serif"})
	h2 := in.InternFontStack([]string{"Arial", "sans-serif"})
	if h1 != h2 {
		t.Errorf("expected identical family lists to intern to the same handle, got %v and %v", h1, h2)
	}
	h3 := in.InternFontStack([]string{"Georgia"})
	if h3 == h1 {
		t.Error("expected distinct family lists to intern to distinct handles")
	}
	if got := in.FontStack(h1); len(got) != 2 || got[0] != "Arial" {
		t.Errorf("FontStack(h1) = %v, want [Arial sans-serif]", got)
	}
}

func TestInternerSettingsSortedByTag(t *testing.T) {
	in := NewInterner()
	h1 := in.InternSettings([]Setting{{Tag: "wght", Value: 400}, {Tag: "wdth", Value: 100}})
	h2 := in.InternSettings([]Setting{{Tag: "wdth", Value: 100}, {Tag: "wght", Value: 400}})
	if h1 != h2 {
		t.Error("expected settings interning to be order-independent (sorted by tag before interning)")
	}
}

func TestInternerEmptySentinel(t *testing.T) {
	in := NewInterner()
	if h := in.InternFontStack(nil); h != EmptyFontStack {
		t.Errorf("InternFontStack(nil) = %v, want EmptyFontStack", h)
	}
	if h := in.InternSettings(nil); h != EmptySettingsHandle {
		t.Errorf("InternSettings(nil) = %v, want EmptySettingsHandle", h)
	}
}
