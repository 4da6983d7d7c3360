package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPathEnv(t *testing.T) {
	t.Setenv("MDVIEW_STATE_HOME", "/tmp/mdview-state")
	p, err := Path()
	if err != nil {
		t.Fatalf("Path error: %v", err)
	}
	if p != "/tmp/mdview-state/session.json" {
		t.Fatalf("Path = %q", p)
	}

	t.Setenv("MDVIEW_STATE_HOME", "")
	t.Setenv("XDG_STATE_HOME", "/tmp/xdg-state")
	p, _ = Path()
	if p != "/tmp/xdg-state/mdview/session.json" {
		t.Fatalf("Path = %q", p)
	}
}

func TestStopPersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.json")
	m := NewManagerAt(path, time.Hour)
	m.SetFileState("/docs/a.md", FileState{CursorRow: 3, CursorCol: 1, ScrollY: 2})
	m.SetActiveFile("/docs/a.md")
	m.SetPreviewOpen(true)
	if err := m.Stop(); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
	if err := m.Stop(); err != nil {
		t.Fatalf("second Stop error: %v", err)
	}

	again := NewManagerAt(path, time.Hour)
	defer again.Stop()
	st, ok := again.FileState("/docs/a.md")
	if !ok || st != (FileState{CursorRow: 3, CursorCol: 1, ScrollY: 2}) {
		t.Fatalf("FileState = %+v %v", st, ok)
	}
	if again.ActiveFile() != "/docs/a.md" {
		t.Fatalf("ActiveFile = %q", again.ActiveFile())
	}
	if !again.PreviewOpen() {
		t.Fatalf("PreviewOpen = false, want true")
	}
}

func TestSaveSkipsWhenClean(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	m := NewManagerAt(path, time.Hour)
	defer m.Stop()
	if err := m.Save(); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("clean Save wrote a file: %v", err)
	}
}

func TestAutosave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	m := NewManagerAt(path, 10*time.Millisecond)
	defer m.Stop()
	m.SetActiveFile("/docs/b.md")

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := os.Stat(path); err == nil {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("autosave did not write %s", path)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestCorruptSessionStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	m := NewManagerAt(path, time.Hour)
	defer m.Stop()
	if _, ok := m.FileState("/x.md"); ok {
		t.Fatalf("corrupt session produced file state")
	}
}
