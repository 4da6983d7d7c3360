package preview

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/kobzarvs/mdview/internal/logger"
)

// FailureMessage replaces the preview when conversion fails.
const FailureMessage = "<p>Couldn't render the currently selected file!</p>"

// IneligibleMessage is shown instead of a render when the active file's
// extension is not configured for preview. The extension list is sorted so the
// text depends only on its arguments.
func IneligibleMessage(fileName string, extensions []string) string {
	exts := append([]string(nil), extensions...)
	sort.Strings(exts)
	return fmt.Sprintf(`<p>
Your configuration settings do not include the currently selected file extension.<br />
The rendered file extensions are <b>'%s'</b>.<br />
The current file is <i>'%s'</i>.
</p>`, html.EscapeString(strings.Join(exts, ",")), html.EscapeString(fileName))
}

// HostDocuments is the host side the controller consults when it needs to
// find the active buffer on its own (opening the preview).
type HostDocuments interface {
	Documents
	CurrentBufferID() int
}

// Controller owns the per-session preview state and runs update passes.
type Controller struct {
	editor    Editor
	docs      HostDocuments
	converter Converter
	view      View
	config    Configuration

	file     FileContext
	dirty    *DirtyTracker
	scroll   *ScrollSynchronizer
	updating bool
}

func NewController(editor Editor, docs HostDocuments, converter Converter, view View, config Configuration) *Controller {
	c := &Controller{
		editor:    editor,
		docs:      docs,
		converter: converter,
		view:      view,
		config:    config,
		dirty:     NewDirtyTracker(),
		scroll:    NewScrollSynchronizer(view),
	}
	c.file.Refresh(docs.CurrentFileName())
	return c
}

// Update runs one pass. forceScrollSync moves the view to the editor's scroll
// position when scrolling is synchronized; forceRender converts the buffer even
// when it is clean. Update never fails: problems end up in the view.
func (c *Controller) Update(forceScrollSync, forceRender bool) {
	c.updating = true
	defer func() { c.updating = false }()

	opts := c.config.Options()
	if !c.file.IsEligible(opts.FileExtensions) {
		logger.Debug("preview: file not eligible", "file", c.file.Name(), "extensions", opts.FileExtensions)
		c.view.RenderMessage(IneligibleMessage(c.file.Name(), opts.FileExtensions))
		return
	}
	if forceRender {
		c.dirty.OnForce()
	}
	if c.dirty.IsDirty() {
		c.render()
	}
	if opts.SynchronizeScrolling && forceScrollSync {
		c.scroll.Sync(c.editor.ScrollMetrics())
	}
}

func (c *Controller) render() {
	markup, err := c.convert(c.editor.Text())
	if err != nil {
		logger.Warn("preview: conversion failed", "file", c.file.Name(), "error", err)
		c.view.RenderMessage(FailureMessage)
	} else {
		c.view.Render(markup, c.file.Name())
	}
	// Cleared on failure too, otherwise a broken document re-converts on
	// every notification.
	c.dirty.OnRenderDispatched()
}

func (c *Controller) convert(text string) (markup string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("converter panic: %v", r)
		}
	}()
	return c.converter.Convert(text)
}

// Activate follows a buffer switch. The handle is rebound before anything
// reads text or metrics, and the new buffer always gets a full render.
func (c *Controller) Activate(bufferID int) {
	c.editor.Rebind(bufferID)
	c.file.Refresh(c.docs.CurrentFileName())
	c.Update(true, true)
}

// Show opens the view with a fresh render of the host's active buffer.
func (c *Controller) Show() {
	if c.view.Visible() {
		return
	}
	c.editor.Rebind(c.docs.CurrentBufferID())
	c.file.Refresh(c.docs.CurrentFileName())
	c.Update(true, true)
	c.view.Show()
}

func (c *Controller) Hide() {
	c.view.Hide()
}

// TogglePreview shows a hidden view and hides a visible one. It returns the
// resulting visibility.
func (c *Controller) TogglePreview() bool {
	if c.view.Visible() {
		c.Hide()
	} else {
		c.Show()
	}
	return c.view.Visible()
}

// ToggleSynchronizeScrolling flips the scrolling option. Turning it on syncs
// right away.
func (c *Controller) ToggleSynchronizeScrolling() bool {
	on := c.config.ToggleSynchronizeScrolling()
	if on {
		c.scroll.Sync(c.editor.ScrollMetrics())
	}
	return on
}

// OptionsChanged re-renders after the options were edited.
func (c *Controller) OptionsChanged() {
	c.Update(true, true)
}

// MarkEdited records a text modification unless it arrived while a pass was
// running.
func (c *Controller) MarkEdited(isInsert, isDelete bool) {
	if c.updating {
		return
	}
	c.dirty.OnEdit(isInsert, isDelete)
}

func (c *Controller) Updating() bool {
	return c.updating
}

func (c *Controller) FileName() string {
	return c.file.Name()
}

func (c *Controller) Dirty() DirtyState {
	return c.dirty.State()
}

func (c *Controller) Visible() bool {
	return c.view.Visible()
}
