package app

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"

	"github.com/kobzarvs/mdview/internal/config"
	"github.com/kobzarvs/mdview/internal/editor"
	"github.com/kobzarvs/mdview/internal/gitinfo"
	"github.com/kobzarvs/mdview/internal/logger"
	"github.com/kobzarvs/mdview/internal/preview"
	"github.com/kobzarvs/mdview/internal/server"
	"github.com/kobzarvs/mdview/internal/session"
)

// workspace ties the editor to the preview and runs the editor's app
// commands. Everything here runs on the UI goroutine.
type workspace struct {
	store *config.Store
	ed    *editor.Editor
	view  *server.Server
	ctrl  *preview.Controller
	disp  *preview.Dispatcher
	sess  *session.Manager
	url   string

	branches *gitinfo.Cache

	copyText func(string) error
	openURL  func(string) error

	pending []preview.Notification
}

func newWorkspace(store *config.Store, ed *editor.Editor, conv preview.Converter, view *server.Server) *workspace {
	w := &workspace{
		store:    store,
		ed:       ed,
		view:     view,
		branches: gitinfo.NewCache(2 * time.Second),
		copyText: clipboard.WriteAll,
		openURL:  openBrowser,
	}
	ed.SetNotify(func(n preview.Notification) {
		w.pending = append(w.pending, n)
	})
	w.ctrl = preview.NewController(ed.Gateway(ed.CurrentBufferID()), ed, conv, view, previewOptions{store: store})
	w.disp = preview.NewDispatcher(w.ctrl)
	return w
}

// pump hands queued editor notifications to the dispatcher in order.
func (w *workspace) pump() {
	for len(w.pending) > 0 {
		n := w.pending[0]
		w.pending = w.pending[1:]
		w.disp.Dispatch(n)
	}
}

func (w *workspace) runCommands() {
	for {
		cmd, ok := w.ed.ConsumeCommand()
		if !ok {
			return
		}
		w.runCommand(cmd)
	}
}

func (w *workspace) runCommand(cmd string) {
	switch cmd {
	case editor.CommandTogglePreview:
		visible := w.ctrl.TogglePreview()
		if w.sess != nil {
			w.sess.SetPreviewOpen(visible)
		}
		if !visible {
			w.ed.SetStatusMessage("preview closed")
			return
		}
		w.ed.SetStatusMessage("preview at " + w.url)
		if w.store.Get().Server.OpenBrowser && w.url != "" {
			if err := w.openURL(w.url); err != nil {
				logger.Warn("open browser", "url", w.url, "error", err)
			}
		}
	case editor.CommandToggleSyncScroll:
		if w.ctrl.ToggleSynchronizeScrolling() {
			w.ed.SetStatusMessage("scroll sync on")
		} else {
			w.ed.SetStatusMessage("scroll sync off")
		}
	case editor.CommandReloadOptions:
		path := w.store.Path()
		if path == "" {
			w.ed.SetStatusMessage("no config file")
			return
		}
		cfg, err := config.LoadFile(path)
		if err != nil {
			logger.Warn("reload options", "path", path, "error", err)
			w.ed.SetStatusMessage(fmt.Sprintf("config error: %v", err))
			return
		}
		w.applyConfig(cfg)
		w.ed.SetStatusMessage("options reloaded")
	case editor.CommandAbout:
		w.ed.SetStatusMessage(fmt.Sprintf("%s %s, preview at %s", Name, Version, w.url))
	case editor.CommandCopyHTML:
		html := w.view.HTML()
		if html == "" {
			w.ed.SetStatusMessage("nothing rendered to copy")
			return
		}
		if err := w.copyText(html); err != nil {
			logger.Warn("copy html", "error", err)
			w.ed.SetStatusMessage(fmt.Sprintf("copy failed: %v", err))
			return
		}
		w.ed.SetStatusMessage("html copied")
	default:
		logger.Debug("unknown app command", "command", cmd)
	}
}

// applyConfig installs a reloaded configuration and re-renders an open
// preview with it.
func (w *workspace) applyConfig(cfg config.Config) {
	w.store.Replace(cfg)
	w.ed.SetTheme(cfg.Theme)
	logger.SetDebug(cfg.Editor.Debug)
	if w.ctrl.Visible() {
		w.ctrl.OptionsChanged()
	}
	logger.Info("options applied", "extensions", cfg.Preview.FileExtensions, "sync", cfg.Preview.SynchronizeScrolling)
}

func (w *workspace) refreshStatus() {
	w.ed.SetPreviewState(w.view.Visible(), w.store.Preview().SynchronizeScrolling)
	w.ed.SetBranch(w.branches.Branch(w.ed.CurrentFileName()))
}

// restore moves the cursor of every open file to where the last session left it.
func (w *workspace) restore() {
	if w.sess == nil {
		return
	}
	for _, d := range w.ed.Documents() {
		if d.Path() == "" {
			continue
		}
		if st, ok := w.sess.FileState(d.Path()); ok {
			d.SetPosition(editor.Cursor{Row: st.CursorRow, Col: st.CursorCol}, st.ScrollY)
		}
	}
}

// record stores cursor positions and the active file for the next run.
func (w *workspace) record() {
	if w.sess == nil {
		return
	}
	for _, d := range w.ed.Documents() {
		if d.Path() == "" {
			continue
		}
		cur := d.Cursor()
		w.sess.SetFileState(d.Path(), session.FileState{CursorRow: cur.Row, CursorCol: cur.Col, ScrollY: d.Scroll()})
	}
	if name := w.ed.CurrentFileName(); name != "" {
		w.sess.SetActiveFile(name)
	}
}
