package overlay

// WindowHost is the window-system side of the coordinator: everything that
// touches an actual OS window. Implementations live behind this interface so
// Coordinator's visibility/lock/anchor/resize logic can be tested without a
// windowing system (see window_fyne.go for the real implementation).
type WindowHost interface {
	// EnsureCreated creates the window with the given initial bounds if it
	// does not already exist. Calling it again after creation is a no-op.
	EnsureCreated(initial Bounds) error
	// Exists reports whether the window has been created yet.
	Exists() bool
	Show()
	Hide()
	// ApplyBounds moves/resizes an existing window. Undefined if !Exists().
	ApplyBounds(b Bounds)
	// SetIgnoreCursorEvents makes the window click-through (or not).
	SetIgnoreCursorEvents(ignore bool)
	SetAlwaysOnTop(onTop bool)
	// SetCloseHandler registers the callback invoked when the window
	// system delivers a close request. The coordinator uses this to
	// intercept the close and hide instead of destroying the window.
	SetCloseHandler(handler func())
}

// EventKind names one overlay state-change notification, taken from the
// emit names of the original implementation this spec was distilled from.
type EventKind string

const (
	EventVisibility EventKind = "overlay:visibility"
	EventLock       EventKind = "overlay:lock"
	EventAnchor     EventKind = "overlay:anchor"
	EventResized    EventKind = "overlay:resized"
)

// Event is published on the coordinator's subscriber bus for every
// visibility/lock/anchor/resize change.
type Event struct {
	Kind    EventKind
	Bounds  Bounds
	Visible bool
	Locked  bool
	Anchor  Anchor
}
