package treesitter

import (
	"context"
	"math"
	"strings"
	"sync"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	tree_sitter_markdown "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown"
	tree_sitter_markdown_inline "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown-inline"
)

// Engine keeps a markdown syntax tree per open buffer and answers highlight
// queries for the editor pane.
type Engine struct {
	parser       *sitter.Parser
	inlineParser *sitter.Parser
	blockQuery   *sitter.Query
	inlineQuery  *sitter.Query
	trees        map[string]*sitter.Tree
	sources      map[string][]byte
	mu           sync.Mutex
}

type HighlightSpan struct {
	StartCol int
	EndCol   int
	Kind     string
}

func New() (*Engine, error) {
	blockLang := tree_sitter_markdown.GetLanguage()
	inlineLang := tree_sitter_markdown_inline.GetLanguage()

	blockQuery, err := sitter.NewQuery([]byte(markdownBlockHighlightQuery), blockLang)
	if err != nil {
		return nil, err
	}
	inlineQuery, err := sitter.NewQuery([]byte(markdownInlineHighlightQuery), inlineLang)
	if err != nil {
		blockQuery.Close()
		return nil, err
	}

	parser := sitter.NewParser()
	parser.SetLanguage(blockLang)
	inlineParser := sitter.NewParser()
	inlineParser.SetLanguage(inlineLang)

	return &Engine{
		parser:       parser,
		inlineParser: inlineParser,
		blockQuery:   blockQuery,
		inlineQuery:  inlineQuery,
		trees:        make(map[string]*sitter.Tree),
		sources:      make(map[string][]byte),
	}, nil
}

// ParseSync reparses key's text. key is any stable buffer identifier.
func (e *Engine) ParseSync(key, text string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	source := []byte(text)
	tree, err := e.parser.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		return false
	}
	if old := e.trees[key]; old != nil {
		old.Close()
	}
	e.trees[key] = tree
	e.sources[key] = source
	return true
}

func (e *Engine) Forget(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if tree := e.trees[key]; tree != nil {
		tree.Close()
	}
	delete(e.trees, key)
	delete(e.sources, key)
}

func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for key, tree := range e.trees {
		tree.Close()
		delete(e.trees, key)
	}
	e.blockQuery.Close()
	e.inlineQuery.Close()
	e.parser.Close()
	e.inlineParser.Close()
}

// Highlights returns spans keyed by line for lines startLine..endLine.
// Columns are rune offsets. A key that was never parsed yields nil.
func (e *Engine) Highlights(key string, startLine, endLine int) map[int][]HighlightSpan {
	if startLine < 0 || endLine < startLine {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	tree := e.trees[key]
	source := e.sources[key]
	if tree == nil {
		return nil
	}

	out := queryHighlights(e.blockQuery, tree, source, startLine, endLine)
	lines := strings.Split(string(source), "\n")
	if endLine >= len(lines) {
		endLine = len(lines) - 1
	}

	skip := collectCodeRows(tree.RootNode())
	for row := startLine; row <= endLine; row++ {
		if skip[row] || lines[row] == "" {
			continue
		}
		line := []byte(lines[row])
		inlineTree, err := e.inlineParser.ParseCtx(context.Background(), nil, line)
		if err != nil || inlineTree == nil {
			continue
		}
		for _, span := range queryHighlights(e.inlineQuery, inlineTree, line, 0, 0)[0] {
			out[row] = append(out[row], span)
		}
		inlineTree.Close()
	}

	for row, spans := range out {
		if row < len(lines) {
			out[row] = runeColumns(lines[row], spans)
		}
	}
	return out
}

func queryHighlights(query *sitter.Query, tree *sitter.Tree, source []byte, startLine, endLine int) map[int][]HighlightSpan {
	out := make(map[int][]HighlightSpan)
	if query == nil || tree == nil {
		return out
	}
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.SetPointRange(
		sitter.Point{Row: uint32(startLine), Column: 0},
		sitter.Point{Row: uint32(endLine + 1), Column: 0},
	)
	cursor.Exec(query, tree.RootNode())

	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, source)
		if match == nil {
			continue
		}
		for _, capture := range match.Captures {
			kind := query.CaptureNameForId(capture.Index)
			start := capture.Node.StartPoint()
			end := capture.Node.EndPoint()
			for row := int(start.Row); row <= int(end.Row); row++ {
				if row < startLine || row > endLine {
					continue
				}
				startCol := 0
				endCol := math.MaxInt32
				if row == int(start.Row) {
					startCol = int(start.Column)
				}
				if row == int(end.Row) {
					endCol = int(end.Column)
				}
				if startCol == endCol {
					continue
				}
				out[row] = append(out[row], HighlightSpan{
					StartCol: startCol,
					EndCol:   endCol,
					Kind:     kind,
				})
			}
		}
	}
	return out
}

// collectCodeRows marks rows inside code blocks; inline markup is not parsed
// there.
func collectCodeRows(root *sitter.Node) map[int]bool {
	rows := map[int]bool{}
	stack := []*sitter.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			continue
		}
		switch n.Type() {
		case "fenced_code_block", "indented_code_block":
			for row := int(n.StartPoint().Row); row <= int(n.EndPoint().Row); row++ {
				rows[row] = true
			}
			continue
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			stack = append(stack, n.NamedChild(i))
		}
	}
	return rows
}

// runeColumns converts byte columns reported by tree-sitter into rune columns.
func runeColumns(line string, spans []HighlightSpan) []HighlightSpan {
	n := len(line)
	for i := range spans {
		spans[i].StartCol = utf8.RuneCountInString(line[:clampCol(spans[i].StartCol, n)])
		if spans[i].EndCol != math.MaxInt32 {
			spans[i].EndCol = utf8.RuneCountInString(line[:clampCol(spans[i].EndCol, n)])
		}
	}
	return spans
}

func clampCol(col, n int) int {
	if col < 0 {
		return 0
	}
	if col > n {
		return n
	}
	return col
}

const markdownBlockHighlightQuery = `
(atx_heading) @keyword
(setext_heading) @keyword
(thematic_break) @comment
(block_quote_marker) @comment
(list_marker_plus) @keyword
(list_marker_minus) @keyword
(list_marker_star) @keyword
(list_marker_dot) @keyword
(list_marker_parenthesis) @keyword
(task_list_marker_checked) @constant
(task_list_marker_unchecked) @constant
(fenced_code_block) @string
(indented_code_block) @string
(info_string) @comment
(language) @type
(link_reference_definition) @function
(pipe_table_delimiter_row) @comment
`

const markdownInlineHighlightQuery = `
(code_span) @string
(emphasis) @type
(strong_emphasis) @type
(strikethrough) @comment
(inline_link) @function
(full_reference_link) @function
(collapsed_reference_link) @function
(shortcut_link) @function
(image) @function
(uri_autolink) @function
(email_autolink) @function
(html_tag) @type
`
