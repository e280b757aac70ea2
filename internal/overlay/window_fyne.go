package overlay

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
)

// nativeHooks covers the window-placement operations fyne's portable API
// does not expose (position, always-on-top, click-through). Implementations
// live behind platform-specific build tags, following the same native
// window-handle trick the teacher uses for the X11 maximize hint
// (window_x11_maximize.go's driver.NativeWindow.RunNative).
type nativeHooks interface {
	applyPosition(w fyne.Window, x, y float64)
	setIgnoreCursorEvents(w fyne.Window, ignore bool)
	setAlwaysOnTop(w fyne.Window, onTop bool)
}

// fyneWindowHost is the fyne.io/fyne/v2-backed WindowHost, modeled on the
// teacher's app.NewWithID/NewWindow/Resize/CenterOnScreen pattern in
// internal/ui/fyne_ui.go. The overlay's note rendering itself is out of
// scope (the GPU-consuming renderer is an explicit non-goal); the window
// hosts a single transparent-background canvas rectangle as a placeholder
// surface for that renderer to attach to later.
type fyneWindowHost struct {
	app          fyne.App
	window       fyne.Window
	hooks        nativeHooks
	closeHandler func()
}

// NewFyneWindowHost constructs a WindowHost bound to app. app is expected
// to be the single fyne.App the process creates via app.NewWithID, shared
// with any other windows (there are none in this repo's scope).
func NewFyneWindowHost(app fyne.App) WindowHost {
	return &fyneWindowHost{app: app, hooks: platformNativeHooks()}
}

func (h *fyneWindowHost) Exists() bool { return h.window != nil }

func (h *fyneWindowHost) EnsureCreated(initial Bounds) error {
	if h.window != nil {
		return nil
	}
	w := h.app.NewWindow("dmnote overlay")
	w.SetPadded(false)
	w.SetContent(canvas.NewRectangle(nil))
	w.Resize(fyne.NewSize(float32(initial.W), float32(initial.H)))
	w.SetCloseIntercept(func() {
		if h.closeHandler != nil {
			h.closeHandler()
		}
	})
	h.window = w
	h.hooks.applyPosition(w, initial.X, initial.Y)
	return nil
}

func (h *fyneWindowHost) Show() {
	if h.window != nil {
		h.window.Show()
	}
}

func (h *fyneWindowHost) Hide() {
	if h.window != nil {
		h.window.Hide()
	}
}

func (h *fyneWindowHost) ApplyBounds(b Bounds) {
	if h.window == nil {
		return
	}
	h.window.Resize(fyne.NewSize(float32(b.W), float32(b.H)))
	h.hooks.applyPosition(h.window, b.X, b.Y)
}

func (h *fyneWindowHost) SetIgnoreCursorEvents(ignore bool) {
	if h.window != nil {
		h.hooks.setIgnoreCursorEvents(h.window, ignore)
	}
}

func (h *fyneWindowHost) SetAlwaysOnTop(onTop bool) {
	if h.window != nil {
		h.hooks.setAlwaysOnTop(h.window, onTop)
	}
}

func (h *fyneWindowHost) SetCloseHandler(handler func()) {
	h.closeHandler = handler
}
