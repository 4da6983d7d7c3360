package preview

import "testing"

func TestRatio(t *testing.T) {
	if got := Ratio(ScrollMetrics{TrackPosition: 0, Max: 100, PageSize: 20}); got != 0 {
		t.Fatalf("top ratio = %v, want 0", got)
	}
	if got := Ratio(ScrollMetrics{TrackPosition: 40, Max: 100, PageSize: 20}); got != 0.5 {
		t.Fatalf("middle ratio = %v, want 0.5", got)
	}
	if got := Ratio(ScrollMetrics{TrackPosition: 80, Max: 100, PageSize: 20}); got != 1 {
		t.Fatalf("bottom ratio = %v, want 1", got)
	}
}

func TestRatioDegenerateMetrics(t *testing.T) {
	if got := Ratio(ScrollMetrics{TrackPosition: 0, Max: 10, PageSize: 10}); got != 0 {
		t.Fatalf("non-scrollable ratio = %v, want 0", got)
	}
	if got := Ratio(ScrollMetrics{TrackPosition: 3, Max: 5, PageSize: 40}); got != 0 {
		t.Fatalf("page larger than document ratio = %v, want 0", got)
	}
	if got := Ratio(ScrollMetrics{}); got != 0 {
		t.Fatalf("zero metrics ratio = %v, want 0", got)
	}
}

func TestRatioClamped(t *testing.T) {
	if got := Ratio(ScrollMetrics{TrackPosition: 95, Max: 100, PageSize: 20}); got != 1 {
		t.Fatalf("overscrolled ratio = %v, want 1", got)
	}
	if got := Ratio(ScrollMetrics{TrackPosition: -4, Max: 100, PageSize: 20}); got != 0 {
		t.Fatalf("negative ratio = %v, want 0", got)
	}
}

func TestRatioBounds(t *testing.T) {
	for mx := 1; mx <= 60; mx++ {
		for page := 0; page < mx; page++ {
			for pos := 0; pos <= mx; pos++ {
				r := Ratio(ScrollMetrics{TrackPosition: pos, Max: mx, PageSize: page})
				if r < 0 || r > 1 {
					t.Fatalf("Ratio(%d, %d, %d) = %v, out of [0, 1]", pos, mx, page, r)
				}
			}
		}
	}
}

func TestScrollSynchronizerSync(t *testing.T) {
	v := &fakeView{}
	s := NewScrollSynchronizer(v)
	s.Sync(ScrollMetrics{TrackPosition: 10, Max: 50, PageSize: 10})
	if len(v.ratios) != 1 || v.ratios[0] != 0.25 {
		t.Fatalf("ratios = %v, want [0.25]", v.ratios)
	}
}
