// Package markdown converts markdown source to HTML for the preview page.
package markdown

import (
	"bytes"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

const defaultStyle = "github"

type Option func(*Pipeline)

// WithStyle picks the chroma style used for fenced code blocks. Unknown names
// fall back to the default style.
func WithStyle(name string) Option {
	return func(p *Pipeline) {
		if name = strings.TrimSpace(name); name != "" {
			p.style = name
		}
	}
}

// WithUnsafeHTML passes raw HTML in the source through to the output.
func WithUnsafeHTML() Option {
	return func(p *Pipeline) {
		p.unsafe = true
	}
}

// Pipeline is a configured goldmark instance. It is safe for concurrent use.
type Pipeline struct {
	style  string
	unsafe bool
	md     goldmark.Markdown
}

func New(opts ...Option) *Pipeline {
	p := &Pipeline{style: defaultStyle}
	for _, opt := range opts {
		opt(p)
	}
	if styles.Get(p.style) == styles.Fallback && p.style != "fallback" {
		p.style = defaultStyle
	}
	rendererOpts := []goldmark.Option{}
	if p.unsafe {
		rendererOpts = append(rendererOpts, goldmark.WithRendererOptions(html.WithUnsafe()))
	}
	p.md = goldmark.New(append([]goldmark.Option{
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(p.style),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	}, rendererOpts...)...)
	return p
}

// Convert renders source as HTML.
func (p *Pipeline) Convert(source string) (string, error) {
	var buf bytes.Buffer
	if err := p.md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Stylesheet returns the CSS for the highlighted code classes Convert emits.
func (p *Pipeline) Stylesheet() (string, error) {
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(p.style)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (p *Pipeline) Style() string {
	return p.style
}
