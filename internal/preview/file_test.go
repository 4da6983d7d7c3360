package preview

import "testing"

func TestFileContextRefresh(t *testing.T) {
	var f FileContext
	f.Refresh("/tmp/notes.md")
	if f.Name() != "/tmp/notes.md" {
		t.Fatalf("Name = %q, want %q", f.Name(), "/tmp/notes.md")
	}
	if f.Extension() != "md" {
		t.Fatalf("Extension = %q, want %q", f.Extension(), "md")
	}

	f.Refresh("Makefile")
	if f.Extension() != "" {
		t.Fatalf("Extension = %q, want empty", f.Extension())
	}

	f.Refresh("archive.tar.gz")
	if f.Extension() != "gz" {
		t.Fatalf("Extension = %q, want %q", f.Extension(), "gz")
	}

	f.Refresh("")
	if f.Name() != "" || f.Extension() != "" {
		t.Fatalf("empty refresh = %q/%q, want empty", f.Name(), f.Extension())
	}
}

func TestFileContextIsEligible(t *testing.T) {
	var f FileContext
	f.Refresh("README.MD")
	if !f.IsEligible([]string{"markdown", "md"}) {
		t.Fatalf("README.MD not eligible for md")
	}
	if !f.IsEligible([]string{".md"}) {
		t.Fatalf("README.MD not eligible for .md")
	}
	if f.IsEligible([]string{"txt"}) {
		t.Fatalf("README.MD eligible for txt")
	}
}

func TestFileContextEmptyAllowListFailsClosed(t *testing.T) {
	var f FileContext
	f.Refresh("notes.md")
	if f.IsEligible(nil) {
		t.Fatalf("eligible with nil allow list")
	}
	if f.IsEligible([]string{}) {
		t.Fatalf("eligible with empty allow list")
	}

	f.Refresh("Makefile")
	if f.IsEligible([]string{"", " "}) {
		t.Fatalf("file without extension eligible for blank entries")
	}
}
