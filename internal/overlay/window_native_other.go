//go:build (!windows && !linux) || wayland

package overlay

import "fyne.io/fyne/v2"

// noopHooks is the fallback nativeHooks for platforms (or window managers)
// this repo has no native window-placement binding for. Position, stacking,
// and click-through requests are silently ignored; see DESIGN.md.
type noopHooks struct{}

func platformNativeHooks() nativeHooks { return noopHooks{} }

func (noopHooks) applyPosition(w fyne.Window, x, y float64)        {}
func (noopHooks) setIgnoreCursorEvents(w fyne.Window, ignore bool) {}
func (noopHooks) setAlwaysOnTop(w fyne.Window, onTop bool)         {}
