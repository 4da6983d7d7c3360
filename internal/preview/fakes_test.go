package preview

import (
	"errors"
	"strings"
)

type fakeEditor struct {
	texts   map[int]string
	metrics map[int]ScrollMetrics
	bound   int
	reads   []int
}

func newFakeEditor(id int, text string) *fakeEditor {
	return &fakeEditor{
		texts:   map[int]string{id: text},
		metrics: map[int]ScrollMetrics{},
		bound:   id,
	}
}

func (e *fakeEditor) Text() string {
	e.reads = append(e.reads, e.bound)
	return e.texts[e.bound]
}

func (e *fakeEditor) ScrollMetrics() ScrollMetrics { return e.metrics[e.bound] }
func (e *fakeEditor) Rebind(id int)                { e.bound = id }
func (e *fakeEditor) BufferID() int                { return e.bound }

type fakeDocs struct {
	names  map[int]string
	active int
}

func (d *fakeDocs) CurrentFileName() string { return d.names[d.active] }
func (d *fakeDocs) CurrentBufferID() int    { return d.active }

type fakeConverter struct {
	calls  int
	err    error
	panics bool
}

func (c *fakeConverter) Convert(source string) (string, error) {
	c.calls++
	if c.panics {
		panic("boom")
	}
	if c.err != nil {
		return "", c.err
	}
	if strings.HasPrefix(source, "# ") {
		return "<h1>" + strings.TrimPrefix(source, "# ") + "</h1>\n", nil
	}
	return "<p>" + source + "</p>\n", nil
}

type renderCall struct {
	markup string
	file   string
}

type fakeView struct {
	visible  bool
	renders  []renderCall
	messages []string
	ratios   []float64
	shows    int
}

func (v *fakeView) Render(markup, file string) {
	v.renders = append(v.renders, renderCall{markup: markup, file: file})
}
func (v *fakeView) RenderMessage(markup string) { v.messages = append(v.messages, markup) }
func (v *fakeView) ScrollByRatio(r float64)     { v.ratios = append(v.ratios, r) }
func (v *fakeView) Visible() bool               { return v.visible }
func (v *fakeView) Show()                       { v.visible = true; v.shows++ }
func (v *fakeView) Hide()                       { v.visible = false }

type fakeConfig struct {
	opts Options
}

func (c *fakeConfig) Options() Options { return c.opts }
func (c *fakeConfig) ToggleSynchronizeScrolling() bool {
	c.opts.SynchronizeScrolling = !c.opts.SynchronizeScrolling
	return c.opts.SynchronizeScrolling
}

var errConvert = errors.New("malformed")

type harness struct {
	editor *fakeEditor
	docs   *fakeDocs
	conv   *fakeConverter
	view   *fakeView
	config *fakeConfig
	ctrl   *Controller
}

func newHarness(name, text string) *harness {
	h := &harness{
		editor: newFakeEditor(1, text),
		docs:   &fakeDocs{names: map[int]string{1: name}, active: 1},
		conv:   &fakeConverter{},
		view:   &fakeView{visible: true},
		config: &fakeConfig{opts: Options{
			FileExtensions:       []string{"md", "markdown"},
			SynchronizeScrolling: true,
		}},
	}
	h.ctrl = NewController(h.editor, h.docs, h.conv, h.view, h.config)
	return h
}
