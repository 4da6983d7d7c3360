package config

import (
	"sync"
)

// Store holds the live configuration. The UI goroutine reads it on every
// update pass while the watcher replaces it from its own goroutine.
type Store struct {
	mu   sync.RWMutex
	cfg  Config
	path string
}

// NewStore wraps cfg. An empty path disables persistence.
func NewStore(cfg Config, path string) *Store {
	return &Store{cfg: cfg, path: path}
}

func (s *Store) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *Store) Preview() PreviewOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := s.cfg.Preview
	p.FileExtensions = append([]string(nil), p.FileExtensions...)
	return p
}

func (s *Store) Replace(cfg Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

// ToggleSynchronizeScrolling flips the option, writes the config file when the
// store has a path, and returns the new value with the write error.
func (s *Store) ToggleSynchronizeScrolling() (bool, error) {
	s.mu.Lock()
	s.cfg.Preview.SynchronizeScrolling = !s.cfg.Preview.SynchronizeScrolling
	on := s.cfg.Preview.SynchronizeScrolling
	cfg := s.cfg
	s.mu.Unlock()
	if s.path == "" {
		return on, nil
	}
	return on, Save(s.path, cfg)
}

func (s *Store) Path() string {
	return s.path
}
