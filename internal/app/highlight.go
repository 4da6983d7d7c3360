package app

import (
	"strconv"

	"github.com/kobzarvs/mdview/internal/editor"
	"github.com/kobzarvs/mdview/internal/treesitter"
)

const maxHighlightBytes = 8 << 20

// highlighter reparses the active buffer when it changes and refreshes the
// spans for the visible lines.
type highlighter struct {
	ts     *treesitter.Engine
	ed     *editor.Editor
	docID  int
	tick   uint64
	start  int
	end    int
	parsed bool
}

func newHighlighter(ts *treesitter.Engine, ed *editor.Editor) *highlighter {
	return &highlighter{ts: ts, ed: ed, start: -1, end: -1}
}

func (h *highlighter) sync() {
	if h.ts == nil {
		return
	}
	d := h.ed.Active()
	if d == nil {
		return
	}
	key := strconv.Itoa(d.ID())
	changed := !h.parsed || d.ID() != h.docID || d.ChangeTick() != h.tick
	if changed {
		h.docID = d.ID()
		h.tick = d.ChangeTick()
		text := d.Text()
		if len(text) > maxHighlightBytes {
			h.ts.Forget(key)
			h.parsed = false
			h.ed.SetHighlights(-1, -1, nil)
			return
		}
		h.parsed = h.ts.ParseSync(key, text)
	}
	if !h.parsed {
		return
	}
	start, end := h.ed.VisibleRange()
	if !changed && start == h.start && end == h.end && h.ed.HasHighlights() {
		return
	}
	h.start, h.end = start, end
	spans := h.ts.Highlights(key, start, end)
	if spans == nil {
		h.ed.SetHighlights(-1, -1, nil)
		return
	}
	out := make(map[int][]editor.HighlightSpan, len(spans))
	for line, lineSpans := range spans {
		dst := make([]editor.HighlightSpan, len(lineSpans))
		for i, span := range lineSpans {
			dst[i] = editor.HighlightSpan{
				StartCol: span.StartCol,
				EndCol:   span.EndCol,
				Kind:     span.Kind,
			}
		}
		out[line] = dst
	}
	h.ed.SetHighlights(start, end, out)
}
