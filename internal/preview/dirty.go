package preview

// DirtyState says whether the buffer changed since the last dispatched render.
type DirtyState int

const (
	Clean DirtyState = iota
	Dirty
)

func (s DirtyState) String() string {
	switch s {
	case Clean:
		return "clean"
	case Dirty:
		return "dirty"
	default:
		return "unknown"
	}
}

// DirtyTracker is a two-state machine fed by edit notifications and render
// dispatches. The zero value is not ready for use; call NewDirtyTracker.
type DirtyTracker struct {
	state DirtyState
}

// NewDirtyTracker starts Dirty so the first update pass always renders.
func NewDirtyTracker() *DirtyTracker {
	return &DirtyTracker{state: Dirty}
}

func (t *DirtyTracker) OnForce() {
	t.state = Dirty
}

// OnEdit marks the tracker Dirty when the edit inserted or deleted text.
// Other modifications (styling, markers) leave the state alone.
func (t *DirtyTracker) OnEdit(isInsert, isDelete bool) {
	if isInsert || isDelete {
		t.state = Dirty
	}
}

func (t *DirtyTracker) OnRenderDispatched() {
	t.state = Clean
}

func (t *DirtyTracker) IsDirty() bool {
	return t.state == Dirty
}

func (t *DirtyTracker) State() DirtyState {
	return t.state
}
