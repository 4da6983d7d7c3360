// Package preview keeps a rendered markdown view in step with an editor buffer.
//
// The host feeds editor notifications to a Dispatcher. The Dispatcher marks
// the buffer dirty on text edits and asks the Controller for an update pass on
// UI updates and buffer switches. The Controller decides whether to convert the
// buffer again and whether to move the rendered view's scroll position.
//
// All types in this package expect to be driven from a single goroutine.
package preview

// ScrollMetrics describes the vertical scroll state of the source editor.
// Max is the last scrollable position and PageSize the visible extent, in the
// same unit as TrackPosition.
type ScrollMetrics struct {
	TrackPosition int
	Max           int
	PageSize      int
}

// Editor is the handle to the editor buffer the controller reads from.
type Editor interface {
	Text() string
	ScrollMetrics() ScrollMetrics
	// Rebind points the handle at another buffer. Reads after Rebind return
	// the new buffer's content.
	Rebind(bufferID int)
	BufferID() int
}

// Documents answers which file the host currently has active.
type Documents interface {
	CurrentFileName() string
}

// Converter turns buffer text into displayable markup.
type Converter interface {
	Convert(source string) (string, error)
}

// View is the rendered document surface.
type View interface {
	// Render shows converted markup produced from sourceFileName.
	Render(markup, sourceFileName string)
	// RenderMessage shows a fixed informational or failure message.
	RenderMessage(markup string)
	ScrollByRatio(ratio float64)
	Visible() bool
	Show()
	Hide()
}

// Options are the user settings the controller reads on every pass.
type Options struct {
	FileExtensions       []string
	SynchronizeScrolling bool
}

// Configuration exposes the current Options and the single write path the
// controller needs.
type Configuration interface {
	Options() Options
	// ToggleSynchronizeScrolling flips the scrolling option and returns the
	// new value.
	ToggleSynchronizeScrolling() bool
}
