package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kobzarvs/mdview/internal/logger"
)

// FileState is where the user left a file.
type FileState struct {
	CursorRow int `json:"cursor_row"`
	CursorCol int `json:"cursor_col"`
	ScrollY   int `json:"scroll_y"`
}

type Session struct {
	Files       map[string]FileState `json:"files"`
	ActiveFile  string               `json:"active_file,omitempty"`
	PreviewOpen bool                 `json:"preview_open"`
	LastSaved   time.Time            `json:"last_saved"`
}

// Manager keeps the session in memory and writes it out periodically.
type Manager struct {
	mu       sync.RWMutex
	session  Session
	path     string
	dirty    bool
	stopOnce sync.Once
	stopChan chan struct{}
	done     chan struct{}
}

const autosaveInterval = 15 * time.Second

func NewManager() (*Manager, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return NewManagerAt(path, autosaveInterval), nil
}

// NewManagerAt loads the session stored at path and autosaves it every
// interval. A missing or unreadable file starts an empty session.
func NewManagerAt(path string, interval time.Duration) *Manager {
	m := &Manager{
		session:  Session{Files: make(map[string]FileState)},
		path:     path,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
	m.load()
	go m.autosaveLoop(interval)
	return m
}

// Path is session.json under MDVIEW_STATE_HOME, else XDG_STATE_HOME/mdview,
// else ~/.local/state/mdview.
func Path() (string, error) {
	if dir := os.Getenv("MDVIEW_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "session.json"), nil
	}
	stateDir := os.Getenv("XDG_STATE_HOME")
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		stateDir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateDir, "mdview", "session.json"), nil
}

func (m *Manager) load() {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		logger.Warn("ignoring unreadable session", "path", m.path, "error", err)
		return
	}
	if s.Files == nil {
		s.Files = make(map[string]FileState)
	}
	m.session = s
}

// Save writes the session when something changed since the last write.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.dirty {
		return nil
	}
	m.session.LastSaved = time.Now()
	data, err := json.MarshalIndent(m.session, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	m.dirty = false
	return nil
}

func (m *Manager) FileState(absPath string) (FileState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.session.Files[absPath]
	return st, ok
}

func (m *Manager) SetFileState(absPath string, st FileState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.session.Files[absPath]; ok && cur == st {
		return
	}
	m.session.Files[absPath] = st
	m.dirty = true
}

func (m *Manager) ActiveFile() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.ActiveFile
}

func (m *Manager) SetActiveFile(absPath string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session.ActiveFile == absPath {
		return
	}
	m.session.ActiveFile = absPath
	m.dirty = true
}

func (m *Manager) PreviewOpen() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session.PreviewOpen
}

func (m *Manager) SetPreviewOpen(open bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session.PreviewOpen == open {
		return
	}
	m.session.PreviewOpen = open
	m.dirty = true
}

func (m *Manager) autosaveLoop(interval time.Duration) {
	defer close(m.done)
	if interval <= 0 {
		interval = autosaveInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := m.Save(); err != nil {
				logger.Warn("session autosave failed", "error", err)
			}
		case <-m.stopChan:
			return
		}
	}
}

// Stop ends the autosave loop and writes pending changes.
func (m *Manager) Stop() error {
	var err error
	m.stopOnce.Do(func() {
		close(m.stopChan)
		<-m.done
		err = m.Save()
	})
	return err
}
