package preview

// Notification is one editor event. The set of implementations is closed:
// UIUpdated, BufferActivated and TextModified.
type Notification interface {
	notification()
}

// UIUpdated is sent after the editor redrew because of an edit, a cursor move
// or a scroll.
type UIUpdated struct {
	VerticalScroll bool
}

// BufferActivated is sent when the host switched to another document.
type BufferActivated struct {
	BufferID int
}

// TextModified is sent for every buffer modification.
type TextModified struct {
	Insert bool
	Delete bool
}

func (UIUpdated) notification()       {}
func (BufferActivated) notification() {}
func (TextModified) notification()    {}

// Dispatcher routes notifications to the controller while the view is open.
type Dispatcher struct {
	ctrl *Controller
}

func NewDispatcher(ctrl *Controller) *Dispatcher {
	return &Dispatcher{ctrl: ctrl}
}

// Dispatch handles n. With the view hidden it does nothing at all. Text
// modifications only mark the buffer dirty; the next UIUpdated renders it.
func (d *Dispatcher) Dispatch(n Notification) {
	if !d.ctrl.Visible() {
		return
	}
	switch n := n.(type) {
	case UIUpdated:
		d.ctrl.Update(n.VerticalScroll, false)
	case BufferActivated:
		d.ctrl.Activate(n.BufferID)
	case TextModified:
		d.ctrl.MarkEdited(n.Insert, n.Delete)
	}
}
