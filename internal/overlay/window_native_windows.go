//go:build windows

package overlay

import (
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"
)

// winHooks implements nativeHooks via the same syscall.NewLazySystemDLL
// user32.dll idiom as monitor_windows.go, extracting the native HWND
// through driver.NativeWindow.RunNative exactly as the X11 hooks extract
// an X11 window handle.
type winHooks struct{}

func platformNativeHooks() nativeHooks { return winHooks{} }

var (
	_SetWindowPos  = user32.NewProc("SetWindowPos")
	_SetWindowLong = user32.NewProc("SetWindowLongW")
	_GetWindowLong = user32.NewProc("GetWindowLongW")
)

const (
	_GWL_EXSTYLE       = -20
	_WS_EX_LAYERED     = 0x00080000
	_WS_EX_TRANSPARENT = 0x00000020
	_SWP_NOSIZE        = 0x0001
	_SWP_NOACTIVATE    = 0x0010
	_SWP_NOZORDER      = 0x0004
	_HWND_TOPMOST      = ^uintptr(0) // -1
	_HWND_NOTOPMOST    = ^uintptr(1) // -2
)

func winHandle(w fyne.Window) (syscall.Handle, bool) {
	nw, ok := w.(driver.NativeWindow)
	if !ok {
		return 0, false
	}
	var handle syscall.Handle
	nw.RunNative(func(ctx any) {
		if winCtx, ok := ctx.(driver.WindowsWindowContext); ok {
			handle = syscall.Handle(winCtx.HWND)
		}
	})
	return handle, handle != 0
}

func (winHooks) applyPosition(w fyne.Window, x, y float64) {
	hwnd, ok := winHandle(w)
	if !ok {
		return
	}
	_SetWindowPos.Call(uintptr(hwnd), 0, uintptr(int32(x)), uintptr(int32(y)), 0, 0,
		uintptr(_SWP_NOSIZE|_SWP_NOZORDER|_SWP_NOACTIVATE))
}

func (winHooks) setAlwaysOnTop(w fyne.Window, onTop bool) {
	hwnd, ok := winHandle(w)
	if !ok {
		return
	}
	insertAfter := _HWND_NOTOPMOST
	if onTop {
		insertAfter = _HWND_TOPMOST
	}
	_SetWindowPos.Call(uintptr(hwnd), insertAfter, 0, 0, 0, 0,
		uintptr(_SWP_NOSIZE|_SWP_NOACTIVATE))
}

func (winHooks) setIgnoreCursorEvents(w fyne.Window, ignore bool) {
	hwnd, ok := winHandle(w)
	if !ok {
		return
	}
	style, _, _ := _GetWindowLong.Call(uintptr(hwnd), uintptr(_GWL_EXSTYLE))
	if ignore {
		style |= _WS_EX_LAYERED | _WS_EX_TRANSPARENT
	} else {
		style &^= _WS_EX_TRANSPARENT
	}
	_SetWindowLong.Call(uintptr(hwnd), uintptr(_GWL_EXSTYLE), style)
}
