package markdown

import (
	"strings"
	"testing"
)

func TestConvertHeading(t *testing.T) {
	out, err := New().Convert("# Hi")
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if out != "<h1 id=\"hi\">Hi</h1>\n" {
		t.Fatalf("Convert = %q, want %q", out, "<h1 id=\"hi\">Hi</h1>\n")
	}
}

func TestConvertGFM(t *testing.T) {
	src := "| a | b |\n|---|---|\n| 1 | 2 |\n\n~~gone~~\n\n- [x] done\n"
	out, err := New().Convert(src)
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	for _, want := range []string{"<table>", "<del>gone</del>", "checked"} {
		if !strings.Contains(out, want) {
			t.Fatalf("Convert output missing %q:\n%s", want, out)
		}
	}
}

func TestConvertHighlightsCode(t *testing.T) {
	src := "```go\nfunc main() {}\n```\n"
	out, err := New().Convert(src)
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if !strings.Contains(out, "class=\"chroma\"") {
		t.Fatalf("code block not highlighted:\n%s", out)
	}
}

func TestConvertEscapesRawHTMLByDefault(t *testing.T) {
	out, err := New().Convert("<script>alert(1)</script>\n")
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Fatalf("raw HTML passed through:\n%s", out)
	}

	out, err = New(WithUnsafeHTML()).Convert("<b>x</b>\n")
	if err != nil {
		t.Fatalf("Convert error: %v", err)
	}
	if !strings.Contains(out, "<b>x</b>") {
		t.Fatalf("unsafe pipeline dropped raw HTML:\n%s", out)
	}
}

func TestStyleFallback(t *testing.T) {
	if got := New(WithStyle("no-such-style")).Style(); got != defaultStyle {
		t.Fatalf("Style = %q, want %q", got, defaultStyle)
	}
	if got := New(WithStyle("monokai")).Style(); got != "monokai" {
		t.Fatalf("Style = %q, want %q", got, "monokai")
	}
}

func TestStylesheet(t *testing.T) {
	css, err := New().Stylesheet()
	if err != nil {
		t.Fatalf("Stylesheet error: %v", err)
	}
	if !strings.Contains(css, ".chroma") {
		t.Fatalf("stylesheet missing .chroma rules")
	}
}
