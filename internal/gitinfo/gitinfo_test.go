package gitinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func fakeRepo(t *testing.T, head string) string {
	t.Helper()
	dir := t.TempDir()
	gitDir := filepath.Join(dir, ".git")
	if err := os.MkdirAll(gitDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte(head+"\n"), 0o644); err != nil {
		t.Fatalf("write HEAD: %v", err)
	}
	return dir
}

func TestBranchAndRoot(t *testing.T) {
	dir := fakeRepo(t, "ref: refs/heads/feature/preview")
	sub := filepath.Join(dir, "docs")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if got := Branch(sub); got != "feature/preview" {
		t.Fatalf("Branch = %q, want %q", got, "feature/preview")
	}
	if got := Root(sub); got != dir {
		t.Fatalf("Root = %q, want %q", got, dir)
	}
}

func TestDetachedHead(t *testing.T) {
	dir := fakeRepo(t, "0123456789abcdef")
	if got := Branch(dir); got != "detached:0123456" {
		t.Fatalf("Branch = %q, want detached:0123456", got)
	}
}

func TestGitFilePointer(t *testing.T) {
	repo := fakeRepo(t, "ref: refs/heads/wt")
	work := t.TempDir()
	line := "gitdir: " + filepath.Join(repo, ".git")
	if err := os.WriteFile(filepath.Join(work, ".git"), []byte(line), 0o644); err != nil {
		t.Fatalf("write .git: %v", err)
	}
	if got := Branch(work); got != "wt" {
		t.Fatalf("Branch = %q, want wt", got)
	}
}

func TestCacheExpires(t *testing.T) {
	dir := fakeRepo(t, "ref: refs/heads/main")
	file := filepath.Join(dir, "notes.md")
	now := time.Unix(100, 0)
	c := NewCache(time.Second)
	c.now = func() time.Time { return now }

	if got := c.Branch(file); got != "main" {
		t.Fatalf("Branch = %q, want main", got)
	}
	if err := os.WriteFile(filepath.Join(dir, ".git", "HEAD"), []byte("ref: refs/heads/dev\n"), 0o644); err != nil {
		t.Fatalf("write HEAD: %v", err)
	}
	if got := c.Branch(file); got != "main" {
		t.Fatalf("cached Branch = %q, want main", got)
	}
	now = now.Add(2 * time.Second)
	if got := c.Branch(file); got != "dev" {
		t.Fatalf("Branch after ttl = %q, want dev", got)
	}
	if got := c.Branch(""); got != "" {
		t.Fatalf("scratch Branch = %q, want empty", got)
	}
}
