package editor

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/mdview/internal/config"
)

type styles struct {
	main     tcell.Style
	status   tcell.Style
	keyword  tcell.Style
	str      tcell.Style
	comment  tcell.Style
	typ      tcell.Style
	function tcell.Style
	constant tcell.Style
}

func newStyles(theme config.Theme) styles {
	mainFg := parseColor(theme.Foreground, tcell.ColorWhite)
	mainBg := parseColor(theme.Background, tcell.ColorBlack)
	statusFg := parseColor(theme.StatuslineForeground, tcell.ColorBlack)
	statusBg := parseColor(theme.StatuslineBackground, tcell.ColorGray)
	syntax := func(name string) tcell.Style {
		return tcell.StyleDefault.Foreground(parseColor(name, mainFg)).Background(mainBg)
	}
	return styles{
		main:     tcell.StyleDefault.Foreground(mainFg).Background(mainBg),
		status:   tcell.StyleDefault.Foreground(statusFg).Background(statusBg),
		keyword:  syntax(theme.SyntaxKeyword),
		str:      syntax(theme.SyntaxString),
		comment:  syntax(theme.SyntaxComment),
		typ:      syntax(theme.SyntaxType),
		function: syntax(theme.SyntaxFunction),
		constant: syntax(theme.SyntaxConstant),
	}
}

// Render draws the active buffer and the status line. The last row is the
// status line; everything above it is text.
func (e *Editor) Render(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	viewHeight := h - 1
	if viewHeight < 0 {
		viewHeight = 0
	}
	e.viewHeight = viewHeight
	e.ensureCursorVisible()

	s.SetStyle(e.styles.main)
	s.Clear()

	d := e.Active()
	if d == nil {
		s.HideCursor()
		s.Show()
		return
	}
	for y := 0; y < viewHeight; y++ {
		lineIdx := d.scroll + y
		if lineIdx >= len(d.lines) {
			clearLine(s, y, w, e.styles.main)
			continue
		}
		var spans []HighlightSpan
		if lineIdx >= e.highlightStart && lineIdx <= e.highlightEnd {
			spans = e.highlights[lineIdx]
		}
		e.drawLine(s, y, w, d.lines[lineIdx], spans)
	}
	e.renderStatusline(s, w, h-1)

	cy := d.cursor.Row - d.scroll
	if cy < 0 || cy >= viewHeight {
		s.HideCursor()
		s.Show()
		return
	}
	cx := visualCol(d.lines[d.cursor.Row], d.cursor.Col, e.tabWidth)
	if cx >= w {
		cx = w - 1
	}
	s.SetCursorStyle(tcell.CursorStyleSteadyBar)
	s.ShowCursor(cx, cy)
	s.Show()
}

func (e *Editor) renderStatusline(s tcell.Screen, w, y int) {
	d := e.Active()
	name := "[scratch]"
	if d.path != "" {
		name = filepath.Base(d.path)
	}
	dirty := ""
	if d.dirty {
		dirty = "*"
	}
	if e.branch != "" {
		dirty += " (" + e.branch + ")"
	}
	left := fmt.Sprintf(" %s%s ", name, dirty)
	if e.statusMessage != "" {
		left = fmt.Sprintf(" %s%s | %s ", name, dirty, e.statusMessage)
	}

	preview := "off"
	if e.previewVisible {
		preview = "on"
	}
	sync := "off"
	if e.syncScroll {
		sync = "on"
	}
	right := fmt.Sprintf(" Ln %d, Col %d | preview %s | sync %s ",
		d.cursor.Row+1, visualCol(d.lines[d.cursor.Row], d.cursor.Col, e.tabWidth)+1, preview, sync)

	line := composeStatusLine(left, right, w)
	for x, r := range line {
		if x >= w {
			break
		}
		s.SetContent(x, y, r, nil, e.styles.status)
	}
}

func (e *Editor) drawLine(s tcell.Screen, y, w int, line []rune, spans []HighlightSpan) {
	x := 0
	for idx, r := range line {
		if x >= w {
			break
		}
		style := e.styles.main
		if kind, ok := highlightKindAt(spans, idx); ok {
			style = e.styleForHighlight(kind)
		}
		if r == '\t' {
			spaces := e.tabWidth - (x % e.tabWidth)
			for i := 0; i < spaces && x < w; i++ {
				s.SetContent(x, y, ' ', nil, style)
				x++
			}
			continue
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
	for x < w {
		s.SetContent(x, y, ' ', nil, e.styles.main)
		x++
	}
}

func (e *Editor) styleForHighlight(kind string) tcell.Style {
	switch kind {
	case "keyword":
		return e.styles.keyword
	case "string":
		return e.styles.str
	case "comment":
		return e.styles.comment
	case "type":
		return e.styles.typ
	case "function":
		return e.styles.function
	case "constant":
		return e.styles.constant
	default:
		return e.styles.main
	}
}

// highlightPriority picks a winner where block and inline spans overlap.
func highlightPriority(kind string) int {
	switch kind {
	case "string":
		return 6
	case "function":
		return 5
	case "type", "constant":
		return 4
	case "comment":
		return 3
	case "keyword":
		return 2
	default:
		return 0
	}
}

func highlightKindAt(spans []HighlightSpan, col int) (string, bool) {
	bestKind := ""
	bestPriority := 0
	for _, span := range spans {
		if col < span.StartCol || col >= span.EndCol {
			continue
		}
		if p := highlightPriority(span.Kind); p > bestPriority {
			bestPriority = p
			bestKind = span.Kind
		}
	}
	return bestKind, bestKind != ""
}

func clearLine(s tcell.Screen, y, w int, style tcell.Style) {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
}

func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	leftRunes := []rune(left)
	rightRunes := []rune(right)
	if len(leftRunes)+len(rightRunes) > width {
		if len(rightRunes) >= width {
			rightRunes = rightRunes[len(rightRunes)-width:]
			leftRunes = nil
		} else {
			leftRunes = leftRunes[:width-len(rightRunes)]
		}
	}
	line := make([]rune, 0, width)
	line = append(line, leftRunes...)
	for i := len(leftRunes) + len(rightRunes); i < width; i++ {
		line = append(line, ' ')
	}
	return append(line, rightRunes...)
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		v, err := strconv.ParseUint(name[1:], 16, 32)
		if err != nil {
			return fallback
		}
		return tcell.NewHexColor(int32(v))
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	if c := tcell.GetColor(name); c != tcell.ColorDefault {
		return c
	}
	return fallback
}

func visualCol(line []rune, logicalCol int, tabWidth int) int {
	if tabWidth < 1 {
		tabWidth = 1
	}
	logicalCol = clampRange(logicalCol, 0, len(line))
	col := 0
	for i := 0; i < logicalCol; i++ {
		if line[i] == '\t' {
			col += tabWidth - (col % tabWidth)
			continue
		}
		col++
	}
	return col
}
