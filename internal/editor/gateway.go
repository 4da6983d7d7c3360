package editor

import (
	"github.com/kobzarvs/mdview/internal/preview"
)

// Gateway reads one buffer on behalf of the preview controller. It stays bound
// to its buffer until Rebind, independent of which buffer is active.
type Gateway struct {
	ed *Editor
	id int
}

func (e *Editor) Gateway(id int) *Gateway {
	return &Gateway{ed: e, id: id}
}

func (g *Gateway) Rebind(bufferID int) {
	g.id = bufferID
}

func (g *Gateway) BufferID() int {
	return g.id
}

// Text is empty when the bound buffer no longer exists.
func (g *Gateway) Text() string {
	if d := g.ed.Document(g.id); d != nil {
		return d.Text()
	}
	return ""
}

func (g *Gateway) ScrollMetrics() preview.ScrollMetrics {
	d := g.ed.Document(g.id)
	if d == nil {
		return preview.ScrollMetrics{}
	}
	return preview.ScrollMetrics{
		TrackPosition: d.scroll,
		Max:           len(d.lines) - 1,
		PageSize:      g.ed.viewHeight,
	}
}
