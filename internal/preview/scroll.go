package preview

import "math"

// ScrollSynchronizer mirrors the editor's vertical position onto the view.
type ScrollSynchronizer struct {
	view View
}

func NewScrollSynchronizer(view View) *ScrollSynchronizer {
	return &ScrollSynchronizer{view: view}
}

// Ratio maps editor metrics to a position in [0, 1]. A document that cannot
// scroll (Max <= PageSize) maps to 0.
func Ratio(m ScrollMetrics) float64 {
	span := m.Max - m.PageSize
	if span <= 0 {
		return 0
	}
	r := float64(m.TrackPosition) / float64(span)
	if math.IsNaN(r) || r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

func (s *ScrollSynchronizer) Sync(m ScrollMetrics) {
	s.view.ScrollByRatio(Ratio(m))
}
