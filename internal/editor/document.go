package editor

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

var ErrNoFileName = errors.New("no file name")

type Cursor struct {
	Row int
	Col int
}

// Document is one open buffer. Lines never is empty; an empty buffer holds one
// empty line.
type Document struct {
	id         int
	path       string
	lines      [][]rune
	cursor     Cursor
	scroll     int
	dirty      bool
	changeTick uint64
}

func newDocument(id int, path, text string) *Document {
	return &Document{
		id:    id,
		path:  path,
		lines: splitLines([]byte(text)),
	}
}

func (d *Document) ID() int {
	return d.id
}

func (d *Document) Path() string {
	return d.path
}

func (d *Document) Text() string {
	return joinLines(d.lines)
}

func (d *Document) LineCount() int {
	return len(d.lines)
}

func (d *Document) Dirty() bool {
	return d.dirty
}

func (d *Document) Cursor() Cursor {
	return d.cursor
}

func (d *Document) Scroll() int {
	return d.scroll
}

func (d *Document) ChangeTick() uint64 {
	return d.changeTick
}

// SetPosition moves the cursor and scroll offset, clamping both to the
// buffer. Used to restore saved positions.
func (d *Document) SetPosition(cur Cursor, scroll int) {
	d.cursor = cur
	d.clampCursor()
	d.scroll = clampRange(scroll, 0, len(d.lines)-1)
}

func (d *Document) save() error {
	if d.path == "" {
		return ErrNoFileName
	}
	if dir := filepath.Dir(d.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(d.path, []byte(d.Text()), 0o644); err != nil {
		return err
	}
	d.dirty = false
	return nil
}

func (d *Document) touch() {
	d.dirty = true
	d.changeTick++
}

func (d *Document) clampCursor() {
	d.cursor.Row = clampRange(d.cursor.Row, 0, len(d.lines)-1)
	d.cursor.Col = clampRange(d.cursor.Col, 0, len(d.lines[d.cursor.Row]))
}

func (d *Document) insertRune(r rune) {
	row, col := d.cursor.Row, d.cursor.Col
	line := d.lines[row]
	next := make([]rune, 0, len(line)+1)
	next = append(next, line[:col]...)
	next = append(next, r)
	next = append(next, line[col:]...)
	d.lines[row] = next
	d.cursor.Col++
	d.touch()
}

func (d *Document) splitLine() {
	row, col := d.cursor.Row, d.cursor.Col
	line := d.lines[row]
	head := append([]rune(nil), line[:col]...)
	tail := append([]rune(nil), line[col:]...)
	d.lines[row] = head
	d.lines = append(d.lines, nil)
	copy(d.lines[row+2:], d.lines[row+1:])
	d.lines[row+1] = tail
	d.cursor = Cursor{Row: row + 1, Col: 0}
	d.touch()
}

// backspace reports whether anything was removed.
func (d *Document) backspace() bool {
	row, col := d.cursor.Row, d.cursor.Col
	if col > 0 {
		line := d.lines[row]
		d.lines[row] = append(line[:col-1:col-1], line[col:]...)
		d.cursor.Col--
		d.touch()
		return true
	}
	if row == 0 {
		return false
	}
	prevLen := len(d.lines[row-1])
	d.joinWithNext(row - 1)
	d.cursor = Cursor{Row: row - 1, Col: prevLen}
	return true
}

func (d *Document) deleteChar() bool {
	row, col := d.cursor.Row, d.cursor.Col
	line := d.lines[row]
	if col < len(line) {
		d.lines[row] = append(line[:col:col], line[col+1:]...)
		d.touch()
		return true
	}
	if row >= len(d.lines)-1 {
		return false
	}
	d.joinWithNext(row)
	return true
}

func (d *Document) joinWithNext(row int) {
	joined := make([]rune, 0, len(d.lines[row])+len(d.lines[row+1]))
	joined = append(joined, d.lines[row]...)
	joined = append(joined, d.lines[row+1]...)
	d.lines[row] = joined
	d.lines = append(d.lines[:row+1], d.lines[row+2:]...)
	d.touch()
}

func splitLines(data []byte) [][]rune {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	parts := strings.Split(text, "\n")
	lines := make([][]rune, len(parts))
	for i, p := range parts {
		lines[i] = []rune(p)
	}
	return lines
}

func joinLines(lines [][]rune) string {
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(line))
	}
	return b.String()
}

func clampRange(value, min, max int) int {
	if max < min {
		max = min
	}
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
