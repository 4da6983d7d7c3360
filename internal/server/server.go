// Package server is the rendered view of the preview: a local HTTP page that
// follows the editor over server-sent events.
package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/kobzarvs/mdview/internal/logger"
)

var ErrClosed = errors.New("server closed")

//go:embed page.html
var pageSource string

var pageTemplate = template.Must(template.New("page").Parse(pageSource))

const (
	EventRender     = "render"
	EventMessage    = "message"
	EventScroll     = "scroll"
	EventVisibility = "visibility"
)

// State is what a newly connected page needs to catch up.
type State struct {
	Visible bool    `json:"visible"`
	HTML    string  `json:"html"`
	File    string  `json:"file,omitempty"`
	Message bool    `json:"message"`
	Ratio   float64 `json:"ratio"`
}

type event struct {
	Type    string  `json:"type"`
	HTML    string  `json:"html,omitempty"`
	File    string  `json:"file,omitempty"`
	Ratio   float64 `json:"ratio,omitempty"`
	Visible bool    `json:"visible,omitempty"`
}

type Server struct {
	addr       string
	stylesheet string
	keepalive  time.Duration

	mu      sync.Mutex
	state   State
	counter uint64
	clients map[chan string]struct{}
	srv     *http.Server
	closed  bool
	done    chan struct{}
}

// New prepares a server for addr. stylesheet is inlined into the page head.
func New(addr, stylesheet string) *Server {
	return &Server{
		addr:       addr,
		stylesheet: stylesheet,
		keepalive:  10 * time.Second,
		clients:    make(map[chan string]struct{}),
		done:       make(chan struct{}),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.servePage)
	mux.HandleFunc("/events", s.serveEvents)
	mux.HandleFunc("/state", s.serveState)
	return mux
}

// Start listens and serves in the background. The returned address is the
// bound one, which matters when addr asks for port 0.
func (s *Server) Start() (net.Addr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if s.srv != nil {
		return nil, fmt.Errorf("server already started")
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("preview server stopped", "error", err)
		}
	}(s.srv)
	logger.Info("preview server listening", "addr", ln.Addr().String())
	return ln.Addr(), nil
}

// Close ends event streams and stops the listener.
func (s *Server) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.closed = true
	close(s.done)
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func (s *Server) Render(markup, sourceFileName string) {
	s.mu.Lock()
	s.state.HTML = markup
	s.state.File = sourceFileName
	s.state.Message = false
	s.broadcastLocked(event{Type: EventRender, HTML: markup, File: sourceFileName})
	s.mu.Unlock()
}

func (s *Server) RenderMessage(markup string) {
	s.mu.Lock()
	s.state.HTML = markup
	s.state.File = ""
	s.state.Message = true
	s.broadcastLocked(event{Type: EventMessage, HTML: markup})
	s.mu.Unlock()
}

func (s *Server) ScrollByRatio(ratio float64) {
	s.mu.Lock()
	s.state.Ratio = ratio
	s.broadcastLocked(event{Type: EventScroll, Ratio: ratio})
	s.mu.Unlock()
}

func (s *Server) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Visible
}

func (s *Server) Show() {
	s.setVisible(true)
}

func (s *Server) Hide() {
	s.setVisible(false)
}

func (s *Server) setVisible(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Visible == v {
		return
	}
	s.state.Visible = v
	s.broadcastLocked(event{Type: EventVisibility, Visible: v})
}

// HTML returns the last rendered markup, or "" when a message is shown.
func (s *Server) HTML() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Message {
		return ""
	}
	return s.state.HTML
}

func (s *Server) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) broadcastLocked(ev event) {
	data, err := json.Marshal(ev)
	if err != nil {
		logger.Warn("encode preview event", "type", ev.Type, "error", err)
		return
	}
	s.counter++
	msg := fmt.Sprintf("id: %d\ndata: %s", s.counter, data)
	for ch := range s.clients {
		select {
		case ch <- msg:
		default:
			logger.Debug("preview client lagging, event dropped", "type", ev.Type)
		}
	}
}

// snapshotEventsLocked replays the current state as events for a new client.
func (s *Server) snapshotEventsLocked() []string {
	st := s.state
	evs := []event{{Type: EventVisibility, Visible: st.Visible}}
	if st.Message {
		evs = append(evs, event{Type: EventMessage, HTML: st.HTML})
	} else if st.HTML != "" {
		evs = append(evs, event{Type: EventRender, HTML: st.HTML, File: st.File})
	}
	evs = append(evs, event{Type: EventScroll, Ratio: st.Ratio})
	out := make([]string, 0, len(evs))
	for _, ev := range evs {
		data, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		out = append(out, fmt.Sprintf("data: %s", data))
	}
	return out
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	st := s.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := pageTemplate.Execute(w, struct {
		Title      string
		Stylesheet template.CSS
		Body       template.HTML
		Visible    bool
	}{
		Title:      pageTitle(st.File),
		Stylesheet: template.CSS(s.stylesheet),
		Body:       template.HTML(st.HTML),
		Visible:    st.Visible,
	})
	if err != nil {
		logger.Warn("render preview page", "error", err)
	}
}

func (s *Server) serveState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Snapshot()); err != nil {
		logger.Warn("encode preview state", "error", err)
	}
}

func (s *Server) serveEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	ch := make(chan string, 16)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		http.Error(w, ErrClosed.Error(), http.StatusServiceUnavailable)
		return
	}
	s.clients[ch] = struct{}{}
	count := len(s.clients)
	initial := s.snapshotEventsLocked()
	s.mu.Unlock()
	logger.Info("preview client connected", "clients", count, "remote", r.RemoteAddr)

	defer func() {
		s.mu.Lock()
		delete(s.clients, ch)
		count := len(s.clients)
		s.mu.Unlock()
		logger.Info("preview client disconnected", "clients", count)
	}()

	fmt.Fprint(w, ": connected\n\n")
	for _, msg := range initial {
		fmt.Fprintf(w, "%s\n\n", msg)
	}
	flusher.Flush()

	ticker := time.NewTicker(s.keepalive)
	defer ticker.Stop()
	for {
		select {
		case msg := <-ch:
			if _, err := fmt.Fprintf(w, "%s\n\n", msg); err != nil {
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case <-s.done:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func pageTitle(file string) string {
	if file == "" {
		return "mdview"
	}
	return filepath.Base(file) + " - mdview"
}
