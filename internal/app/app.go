package app

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/mdview/internal/config"
	"github.com/kobzarvs/mdview/internal/editor"
	"github.com/kobzarvs/mdview/internal/logger"
	"github.com/kobzarvs/mdview/internal/markdown"
	"github.com/kobzarvs/mdview/internal/server"
	"github.com/kobzarvs/mdview/internal/session"
	"github.com/kobzarvs/mdview/internal/treesitter"
)

const (
	Name    = "mdview"
	Version = "0.3.0"
)

// App is the top-level runtime for mdview.
type App struct {
	args []string
}

func New(args []string) *App {
	return &App{args: args}
}

// configEvent carries a reloaded config from the watcher into the UI loop.
type configEvent struct {
	tcell.EventTime
	cfg config.Config
}

func (a *App) Run() error {
	runtime.LockOSThread()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfgPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Editor.Debug); err != nil {
		fmt.Fprintln(os.Stderr, "mdview: logging disabled:", err)
	}
	defer logger.Close()
	store := config.NewStore(cfg, cfgPath)

	pipeline := markdown.New(markdown.WithStyle(cfg.Preview.CodeStyle))
	css, err := pipeline.Stylesheet()
	if err != nil {
		logger.Warn("code stylesheet", "style", pipeline.Style(), "error", err)
	}
	view := server.New(cfg.Server.Listen, css)
	addr, err := view.Start()
	if err != nil {
		return err
	}
	defer view.Close()

	sess, err := session.NewManager()
	if err != nil {
		logger.Warn("session disabled", "error", err)
		sess = nil
	}
	if sess != nil {
		defer func() {
			if err := sess.Stop(); err != nil {
				logger.Warn("save session", "error", err)
			}
		}()
	}

	ts, err := treesitter.New()
	if err != nil {
		logger.Warn("syntax highlighting disabled", "error", err)
		ts = nil
	}
	if ts != nil {
		defer ts.Close()
	}

	ed := editor.New(cfg)
	if err := a.openFiles(ed, sess); err != nil {
		return err
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	s.EnableMouse()
	defer s.Fini()
	_, h := s.Size()
	ed.SetViewHeight(h - 1)

	w := newWorkspace(store, ed, pipeline, view)
	w.sess = sess
	w.url = "http://" + addr.String() + "/"
	w.restore()
	defer w.record()

	watcher, err := config.NewWatcher(cfgPath, 150*time.Millisecond)
	if err != nil {
		logger.Warn("config watcher disabled", "path", cfgPath, "error", err)
	} else {
		defer watcher.Close()
		stop := make(chan struct{})
		defer close(stop)
		go forwardConfig(s, watcher, stop)
	}

	if cfg.Preview.ShowOnStart || (sess != nil && sess.PreviewOpen()) {
		w.ctrl.Show()
		if sess != nil {
			sess.SetPreviewOpen(true)
		}
	}
	ed.SetStatusMessage("preview at " + w.url)
	logger.Info("mdview started", "url", w.url, "files", len(ed.Documents()))

	hl := newHighlighter(ts, ed)
	w.refreshStatus()
	hl.sync()
	ed.Render(s)
	for {
		switch ev := s.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventKey:
			if ed.HandleKey(ev) {
				w.pump()
				return nil
			}
		case *tcell.EventMouse:
			ed.HandleMouse(ev)
		case *tcell.EventResize:
			s.Sync()
			_, h := s.Size()
			ed.SetViewHeight(h - 1)
			ed.Resized()
		case *configEvent:
			w.applyConfig(ev.cfg)
			ed.SetStatusMessage("options reloaded")
		}
		w.pump()
		w.runCommands()
		w.refreshStatus()
		hl.sync()
		ed.Render(s)
	}
}

// openFiles opens the command line files, or the last active file of the
// previous session, or a scratch buffer.
func (a *App) openFiles(ed *editor.Editor, sess *session.Manager) error {
	for _, path := range a.args {
		if _, err := ed.Open(path); err != nil {
			return err
		}
	}
	if len(a.args) > 0 {
		if docs := ed.Documents(); len(docs) > 0 {
			ed.Activate(docs[0].ID())
		}
		return nil
	}
	if sess != nil {
		if last := sess.ActiveFile(); last != "" {
			if _, err := os.Stat(last); err == nil {
				if _, err := ed.Open(last); err == nil {
					return nil
				}
			}
		}
	}
	ed.AddDocument("", "")
	return nil
}

func forwardConfig(s tcell.Screen, w *config.Watcher, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case cfg, ok := <-w.Changes():
			if !ok {
				return
			}
			ev := &configEvent{cfg: cfg}
			ev.SetEventNow()
			if err := s.PostEvent(ev); err != nil {
				logger.Debug("config event dropped", "error", err)
			}
		case err, ok := <-w.Errors():
			if !ok {
				return
			}
			logger.Warn("config watcher", "error", err)
		}
	}
}
