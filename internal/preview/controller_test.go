package preview

import (
	"strings"
	"testing"
)

func TestIneligibleMessage(t *testing.T) {
	got := IneligibleMessage("data.csv", []string{"md", "markdown"})
	if !strings.Contains(got, "'data.csv'") {
		t.Fatalf("message missing file name: %q", got)
	}
	if !strings.Contains(got, "'markdown,md'") {
		t.Fatalf("message missing extensions: %q", got)
	}
	if again := IneligibleMessage("data.csv", []string{"markdown", "md"}); again != got {
		t.Fatalf("message depends on extension order:\n%q\n%q", got, again)
	}
	if esc := IneligibleMessage("<x>.csv", nil); !strings.Contains(esc, "&lt;x&gt;.csv") {
		t.Fatalf("file name not escaped: %q", esc)
	}
}

func TestUpdateScenarioHeading(t *testing.T) {
	h := newHarness("notes.md", "# Hi")
	h.editor.metrics[1] = ScrollMetrics{TrackPosition: 5, Max: 30, PageSize: 10}

	h.ctrl.Update(true, true)

	if len(h.view.renders) != 1 {
		t.Fatalf("renders = %d, want 1", len(h.view.renders))
	}
	r := h.view.renders[0]
	if r.markup != "<h1>Hi</h1>\n" {
		t.Fatalf("markup = %q, want %q", r.markup, "<h1>Hi</h1>\n")
	}
	if r.file != "notes.md" {
		t.Fatalf("file = %q, want %q", r.file, "notes.md")
	}
	if len(h.view.ratios) != 1 || h.view.ratios[0] != 0.25 {
		t.Fatalf("ratios = %v, want [0.25]", h.view.ratios)
	}
	if h.ctrl.Dirty() != Clean {
		t.Fatalf("dirty = %v, want clean", h.ctrl.Dirty())
	}
}

func TestUpdateIneligibleAlwaysShowsMessage(t *testing.T) {
	h := newHarness("data.csv", "a,b,c")

	h.ctrl.Update(false, false)
	h.ctrl.Update(true, true)
	h.ctrl.MarkEdited(true, false)
	h.ctrl.Update(false, false)

	if len(h.view.messages) != 3 {
		t.Fatalf("messages = %d, want 3", len(h.view.messages))
	}
	for i, m := range h.view.messages {
		if m != h.view.messages[0] {
			t.Fatalf("message %d differs: %q", i, m)
		}
	}
	if !strings.Contains(h.view.messages[0], "data.csv") || !strings.Contains(h.view.messages[0], "markdown,md") {
		t.Fatalf("message = %q", h.view.messages[0])
	}
	if h.conv.calls != 0 {
		t.Fatalf("converter calls = %d, want 0", h.conv.calls)
	}
	if len(h.view.ratios) != 0 {
		t.Fatalf("scroll synced for ineligible file")
	}
	if h.ctrl.Dirty() != Dirty {
		t.Fatalf("ineligible pass changed dirty state to %v", h.ctrl.Dirty())
	}
}

func TestUpdateNoDoubleRender(t *testing.T) {
	h := newHarness("notes.md", "text")
	h.ctrl.Update(false, false)
	h.ctrl.Update(false, false)
	if h.conv.calls != 1 {
		t.Fatalf("converter calls = %d, want 1", h.conv.calls)
	}

	h.ctrl.MarkEdited(true, false)
	h.ctrl.Update(false, false)
	if h.conv.calls != 2 {
		t.Fatalf("converter calls after edit = %d, want 2", h.conv.calls)
	}
}

func TestUpdateForceAlwaysRenders(t *testing.T) {
	h := newHarness("notes.md", "text")
	for i := 1; i <= 3; i++ {
		h.ctrl.Update(false, true)
		if h.conv.calls != i {
			t.Fatalf("converter calls = %d, want %d", h.conv.calls, i)
		}
	}
	if len(h.view.renders) != 3 {
		t.Fatalf("renders = %d, want 3", len(h.view.renders))
	}
}

func TestUpdateConversionFailure(t *testing.T) {
	h := newHarness("notes.md", "text")
	h.conv.err = errConvert

	h.ctrl.Update(false, false)
	if len(h.view.messages) != 1 || h.view.messages[0] != FailureMessage {
		t.Fatalf("messages = %v, want failure message", h.view.messages)
	}
	if h.ctrl.Dirty() != Clean {
		t.Fatalf("dirty = %v after failure, want clean", h.ctrl.Dirty())
	}
	h.ctrl.Update(false, false)
	if h.conv.calls != 1 {
		t.Fatalf("failing document converted %d times, want 1", h.conv.calls)
	}
}

func TestUpdateConverterPanic(t *testing.T) {
	h := newHarness("notes.md", "text")
	h.conv.panics = true

	h.ctrl.Update(false, false)
	if len(h.view.messages) != 1 || h.view.messages[0] != FailureMessage {
		t.Fatalf("messages = %v, want failure message", h.view.messages)
	}
	if h.ctrl.Updating() {
		t.Fatalf("controller still updating after panic")
	}
}

func TestUpdateScrollSyncGatedByOption(t *testing.T) {
	h := newHarness("notes.md", "text")
	h.editor.metrics[1] = ScrollMetrics{TrackPosition: 10, Max: 30, PageSize: 10}

	h.ctrl.Update(false, false)
	if len(h.view.ratios) != 0 {
		t.Fatalf("synced without vertical scroll")
	}

	h.config.opts.SynchronizeScrolling = false
	h.ctrl.Update(true, false)
	if len(h.view.ratios) != 0 {
		t.Fatalf("synced with option off")
	}

	h.config.opts.SynchronizeScrolling = true
	h.ctrl.Update(true, false)
	if len(h.view.ratios) != 1 || h.view.ratios[0] != 0.5 {
		t.Fatalf("ratios = %v, want [0.5]", h.view.ratios)
	}
}

func TestActivateRebindsBeforeReading(t *testing.T) {
	h := newHarness("a.md", "alpha")
	h.editor.texts[2] = "beta"
	h.docs.names[2] = "b.md"
	h.ctrl.Update(false, false)

	h.docs.active = 2
	h.ctrl.Activate(2)

	if h.editor.BufferID() != 2 {
		t.Fatalf("bound buffer = %d, want 2", h.editor.BufferID())
	}
	last := h.view.renders[len(h.view.renders)-1]
	if last.markup != "<p>beta</p>\n" || last.file != "b.md" {
		t.Fatalf("last render = %+v, want beta from b.md", last)
	}
	if h.editor.reads[len(h.editor.reads)-1] != 2 {
		t.Fatalf("text read from buffer %d, want 2", h.editor.reads[len(h.editor.reads)-1])
	}
}

func TestMarkEditedIgnoredDuringPass(t *testing.T) {
	h := newHarness("notes.md", "text")
	h.ctrl.Update(false, false)

	h.ctrl.updating = true
	h.ctrl.MarkEdited(true, true)
	h.ctrl.updating = false
	if h.ctrl.Dirty() != Clean {
		t.Fatalf("edit during pass marked dirty")
	}

	h.ctrl.MarkEdited(false, true)
	if h.ctrl.Dirty() != Dirty {
		t.Fatalf("edit between passes lost")
	}
}

func TestShowRendersActiveBuffer(t *testing.T) {
	h := newHarness("a.md", "alpha")
	h.view.visible = false
	h.editor.texts[2] = "beta"
	h.docs.names[2] = "b.md"
	h.docs.active = 2

	h.ctrl.Show()
	if !h.view.visible || h.view.shows != 1 {
		t.Fatalf("view not shown")
	}
	if h.ctrl.FileName() != "b.md" {
		t.Fatalf("FileName = %q, want %q", h.ctrl.FileName(), "b.md")
	}
	if len(h.view.renders) != 1 || h.view.renders[0].file != "b.md" {
		t.Fatalf("renders = %+v", h.view.renders)
	}

	h.ctrl.Show()
	if h.view.shows != 1 || h.conv.calls != 1 {
		t.Fatalf("second Show rendered again")
	}
}

func TestTogglePreview(t *testing.T) {
	h := newHarness("notes.md", "text")
	h.view.visible = false
	if !h.ctrl.TogglePreview() {
		t.Fatalf("toggle from hidden = false, want true")
	}
	if h.ctrl.TogglePreview() {
		t.Fatalf("toggle from visible = true, want false")
	}
}

func TestToggleSynchronizeScrolling(t *testing.T) {
	h := newHarness("notes.md", "text")
	h.editor.metrics[1] = ScrollMetrics{TrackPosition: 30, Max: 30, PageSize: 10}

	if h.ctrl.ToggleSynchronizeScrolling() {
		t.Fatalf("toggle from on = true, want false")
	}
	if len(h.view.ratios) != 0 {
		t.Fatalf("synced when turning off")
	}
	if !h.ctrl.ToggleSynchronizeScrolling() {
		t.Fatalf("toggle from off = false, want true")
	}
	if len(h.view.ratios) != 1 || h.view.ratios[0] != 1 {
		t.Fatalf("ratios = %v, want [1]", h.view.ratios)
	}
}

func TestOptionsChangedRerenders(t *testing.T) {
	h := newHarness("data.txt", "text")
	h.ctrl.Update(false, false)
	if len(h.view.messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(h.view.messages))
	}

	h.config.opts.FileExtensions = append(h.config.opts.FileExtensions, "txt")
	h.ctrl.OptionsChanged()
	if len(h.view.renders) != 1 {
		t.Fatalf("renders = %d after options change, want 1", len(h.view.renders))
	}
}
