package editor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/mdview/internal/config"
	"github.com/kobzarvs/mdview/internal/preview"
)

const (
	actionMoveLeft    = "move_left"
	actionMoveRight   = "move_right"
	actionMoveUp      = "move_up"
	actionMoveDown    = "move_down"
	actionLineStart   = "line_start"
	actionLineEnd     = "line_end"
	actionFileStart   = "file_start"
	actionFileEnd     = "file_end"
	actionPageUp      = "page_up"
	actionPageDown    = "page_down"
	actionScrollUp    = "scroll_up"
	actionScrollDown  = "scroll_down"
	actionNewline     = "newline"
	actionBackspace   = "backspace"
	actionDeleteChar  = "delete_char"
	actionInsertTab   = "insert_tab"
	actionSave        = "save"
	actionQuit        = "quit"
	actionNextBuffer  = "next_buffer"
	actionPrevBuffer  = "prev_buffer"
)

// Commands the editor cannot run itself. They are queued for the app.
const (
	CommandTogglePreview    = "toggle_preview"
	CommandToggleSyncScroll = "toggle_sync_scroll"
	CommandReloadOptions    = "reload_options"
	CommandAbout            = "about"
	CommandCopyHTML         = "copy_html"
)

var appCommands = map[string]bool{
	CommandTogglePreview:    true,
	CommandToggleSyncScroll: true,
	CommandReloadOptions:    true,
	CommandAbout:            true,
	CommandCopyHTML:         true,
}

type HighlightSpan struct {
	StartCol int
	EndCol   int
	Kind     string
}

// Notify receives host notifications produced while handling input.
type Notify func(preview.Notification)

type Editor struct {
	docs          []*Document
	active        int
	nextID        int
	keymap        map[string]string
	tabWidth      int
	viewHeight    int
	statusMessage string
	commands      []string
	notify        Notify

	previewVisible bool
	syncScroll     bool
	branch         string

	highlights     map[int][]HighlightSpan
	highlightStart int
	highlightEnd   int

	styles styles
}

func New(cfg config.Config) *Editor {
	keymap := make(map[string]string, len(cfg.Keymap))
	for k, v := range cfg.Keymap {
		keymap[k] = v
	}
	tabWidth := cfg.Editor.TabWidth
	if tabWidth < 1 {
		tabWidth = 1
	}
	return &Editor{
		active:         -1,
		nextID:         1,
		keymap:         keymap,
		tabWidth:       tabWidth,
		syncScroll:     cfg.Preview.SynchronizeScrolling,
		styles:         newStyles(cfg.Theme),
		highlightStart: -1,
		highlightEnd:   -1,
	}
}

func (e *Editor) SetNotify(fn Notify) {
	e.notify = fn
}

// SetTheme restyles the pane after a config reload.
func (e *Editor) SetTheme(theme config.Theme) {
	e.styles = newStyles(theme)
}

// Open reads path into a new buffer and makes it active. A missing file
// opens as an empty buffer that will be created on save. A path that is
// already open just becomes active.
func (e *Editor) Open(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	for i, d := range e.docs {
		if d.path == path {
			e.active = i
			e.clearHighlights()
			return d, nil
		}
	}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return e.AddDocument(path, string(data)), nil
}

// AddDocument opens text as a new active buffer. An empty path makes a
// scratch buffer.
func (e *Editor) AddDocument(path, text string) *Document {
	d := newDocument(e.nextID, path, text)
	e.nextID++
	e.docs = append(e.docs, d)
	e.active = len(e.docs) - 1
	e.clearHighlights()
	return d
}

func (e *Editor) Documents() []*Document {
	return append([]*Document(nil), e.docs...)
}

func (e *Editor) Active() *Document {
	if e.active < 0 || e.active >= len(e.docs) {
		return nil
	}
	return e.docs[e.active]
}

// Document returns the buffer with id, or nil.
func (e *Editor) Document(id int) *Document {
	for _, d := range e.docs {
		if d.id == id {
			return d
		}
	}
	return nil
}

// CurrentFileName is the path of the active buffer; empty for scratch buffers.
func (e *Editor) CurrentFileName() string {
	if d := e.Active(); d != nil {
		return d.path
	}
	return ""
}

func (e *Editor) CurrentBufferID() int {
	if d := e.Active(); d != nil {
		return d.id
	}
	return 0
}

// Activate switches to buffer id and reports it.
func (e *Editor) Activate(id int) bool {
	for i, d := range e.docs {
		if d.id != id {
			continue
		}
		if i != e.active {
			e.active = i
			e.clearHighlights()
			e.emit(preview.BufferActivated{BufferID: id})
		}
		return true
	}
	return false
}

func (e *Editor) SetStatusMessage(msg string) {
	e.statusMessage = msg
}

func (e *Editor) StatusMessage() string {
	return e.statusMessage
}

// SetPreviewState feeds the status line.
// SetBranch sets the version control branch shown next to the file name.
func (e *Editor) SetBranch(branch string) {
	e.branch = branch
}

func (e *Editor) SetPreviewState(visible, syncScroll bool) {
	e.previewVisible = visible
	e.syncScroll = syncScroll
}

// ConsumeCommand pops the oldest queued app command.
func (e *Editor) ConsumeCommand() (string, bool) {
	if len(e.commands) == 0 {
		return "", false
	}
	cmd := e.commands[0]
	e.commands = e.commands[1:]
	return cmd, true
}

// ChangeTick is the edit counter of the active buffer.
func (e *Editor) ChangeTick() uint64 {
	if d := e.Active(); d != nil {
		return d.changeTick
	}
	return 0
}

// Save writes the active buffer.
func (e *Editor) Save() error {
	d := e.Active()
	if d == nil {
		return ErrNoFileName
	}
	return d.save()
}

// HandleKey applies one key event and reports whether the editor should quit.
func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	d := e.Active()
	if d == nil {
		return false
	}
	e.statusMessage = ""
	prevID, prevScroll := d.id, d.scroll

	quit := false
	if action, ok := e.keymap[keyString(ev)]; ok {
		quit = e.execAction(action)
	} else if ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) == 0 {
		e.insertRune(ev.Rune())
	}

	d = e.Active()
	e.ensureCursorVisible()
	e.emit(preview.UIUpdated{VerticalScroll: d.id == prevID && d.scroll != prevScroll})
	return quit
}

// HandleMouse scrolls on wheel events.
func (e *Editor) HandleMouse(ev *tcell.EventMouse) {
	d := e.Active()
	if d == nil {
		return
	}
	prev := d.scroll
	switch {
	case ev.Buttons()&tcell.WheelUp != 0:
		e.scrollBy(-3)
	case ev.Buttons()&tcell.WheelDown != 0:
		e.scrollBy(3)
	default:
		return
	}
	e.emit(preview.UIUpdated{VerticalScroll: d.scroll != prev})
}

// Resized reports a geometry change so the preview can follow.
func (e *Editor) Resized() {
	e.emit(preview.UIUpdated{VerticalScroll: true})
}

func (e *Editor) execAction(action string) bool {
	d := e.Active()
	switch action {
	case actionMoveLeft:
		if d.cursor.Col > 0 {
			d.cursor.Col--
		} else if d.cursor.Row > 0 {
			d.cursor.Row--
			d.cursor.Col = len(d.lines[d.cursor.Row])
		}
	case actionMoveRight:
		if d.cursor.Col < len(d.lines[d.cursor.Row]) {
			d.cursor.Col++
		} else if d.cursor.Row < len(d.lines)-1 {
			d.cursor.Row++
			d.cursor.Col = 0
		}
	case actionMoveUp:
		d.cursor.Row--
		d.clampCursor()
	case actionMoveDown:
		d.cursor.Row++
		d.clampCursor()
	case actionLineStart:
		d.cursor.Col = 0
	case actionLineEnd:
		d.cursor.Col = len(d.lines[d.cursor.Row])
	case actionFileStart:
		d.cursor = Cursor{}
	case actionFileEnd:
		d.cursor.Row = len(d.lines) - 1
		d.cursor.Col = len(d.lines[d.cursor.Row])
	case actionPageUp:
		page := e.viewHeightCached()
		d.cursor.Row -= page
		d.scroll -= page
		if d.scroll < 0 {
			d.scroll = 0
		}
		d.clampCursor()
	case actionPageDown:
		page := e.viewHeightCached()
		d.cursor.Row += page
		d.scroll = clampRange(d.scroll+page, 0, len(d.lines)-1)
		d.clampCursor()
	case actionScrollUp:
		e.scrollBy(-1)
	case actionScrollDown:
		e.scrollBy(1)
	case actionNewline:
		d.splitLine()
		e.emit(preview.TextModified{Insert: true})
	case actionBackspace:
		if d.backspace() {
			e.emit(preview.TextModified{Delete: true})
		}
	case actionDeleteChar:
		if d.deleteChar() {
			e.emit(preview.TextModified{Delete: true})
		}
	case actionInsertTab:
		e.insertRune('\t')
	case actionSave:
		if err := d.save(); err != nil {
			e.statusMessage = fmt.Sprintf("save failed: %v", err)
		} else {
			e.statusMessage = fmt.Sprintf("written %d lines to %s", len(d.lines), filepath.Base(d.path))
		}
	case actionNextBuffer:
		e.cycleBuffer(1)
	case actionPrevBuffer:
		e.cycleBuffer(-1)
	case actionQuit:
		return true
	default:
		if appCommands[action] {
			e.commands = append(e.commands, action)
		}
	}
	return false
}

func (e *Editor) insertRune(r rune) {
	e.Active().insertRune(r)
	e.emit(preview.TextModified{Insert: true})
}

func (e *Editor) cycleBuffer(step int) {
	if len(e.docs) < 2 {
		return
	}
	next := (e.active + step + len(e.docs)) % len(e.docs)
	e.Activate(e.docs[next].id)
}

// scrollBy moves the view and drags the cursor along when it leaves it.
func (e *Editor) scrollBy(lines int) {
	d := e.Active()
	d.scroll = clampRange(d.scroll+lines, 0, len(d.lines)-1)
	vh := e.viewHeightCached()
	if d.cursor.Row < d.scroll {
		d.cursor.Row = d.scroll
	} else if d.cursor.Row >= d.scroll+vh {
		d.cursor.Row = d.scroll + vh - 1
	}
	d.clampCursor()
}

func (e *Editor) ensureCursorVisible() {
	d := e.Active()
	if d == nil || e.viewHeight <= 0 {
		return
	}
	if d.cursor.Row < d.scroll {
		d.scroll = d.cursor.Row
		return
	}
	if d.cursor.Row >= d.scroll+e.viewHeight {
		d.scroll = d.cursor.Row - e.viewHeight + 1
	}
}

func (e *Editor) emit(n preview.Notification) {
	if e.notify != nil {
		e.notify(n)
	}
}

func (e *Editor) viewHeightCached() int {
	if e.viewHeight < 1 {
		return 1
	}
	return e.viewHeight
}

// SetViewHeight sets the text area height before the first Render.
func (e *Editor) SetViewHeight(h int) {
	e.viewHeight = h
}

func (e *Editor) ViewHeight() int {
	return e.viewHeight
}

// VisibleRange is the first and last buffer line on screen.
func (e *Editor) VisibleRange() (int, int) {
	d := e.Active()
	if d == nil {
		return 0, 0
	}
	start := d.scroll
	end := start + e.viewHeight - 1
	if end < start {
		end = start
	}
	if end >= len(d.lines) {
		end = len(d.lines) - 1
	}
	return start, end
}

func (e *Editor) SetHighlights(startLine, endLine int, spans map[int][]HighlightSpan) {
	if spans == nil || startLine < 0 || endLine < startLine {
		e.clearHighlights()
		return
	}
	e.highlights = spans
	e.highlightStart = startLine
	e.highlightEnd = endLine
}

func (e *Editor) HasHighlights() bool {
	return e.highlights != nil && e.highlightStart >= 0 && e.highlightEnd >= e.highlightStart
}

func (e *Editor) clearHighlights() {
	e.highlights = nil
	e.highlightStart = -1
	e.highlightEnd = -1
}
