//go:build windows

package inputcapture

import (
	"syscall"
	"unsafe"

	"dmnote/internal/label"
)

// Windows low-level keyboard/mouse hooks, following the same
// syscall.NewLazySystemDLL("user32.dll")/NewProc idiom used for DPI and
// window placement elsewhere in this repo (grounded on gioui.org's
// app/internal/window/os_windows.go message-loop plumbing, enriched here
// with the hook installation calls that driver never needed).
var (
	hookUser32 = syscall.NewLazySystemDLL("user32.dll")

	_SetWindowsHookExW   = hookUser32.NewProc("SetWindowsHookExW")
	_UnhookWindowsHookEx = hookUser32.NewProc("UnhookWindowsHookEx")
	_CallNextHookEx      = hookUser32.NewProc("CallNextHookEx")
	_GetMessageW         = hookUser32.NewProc("GetMessageW")
	_TranslateMessage    = hookUser32.NewProc("TranslateMessage")
	_DispatchMessageW    = hookUser32.NewProc("DispatchMessageW")
)

const (
	_WH_KEYBOARD_LL = 13
	_WH_MOUSE_LL    = 14

	_LLKHF_EXTENDED = 0x01
	_LLKHF_INJECTED = 0x10

	_WM_KEYDOWN    = 0x0100
	_WM_KEYUP      = 0x0101
	_WM_SYSKEYDOWN = 0x0104
	_WM_SYSKEYUP   = 0x0105

	_WM_LBUTTONDOWN = 0x0201
	_WM_LBUTTONUP   = 0x0202
	_WM_RBUTTONDOWN = 0x0204
	_WM_RBUTTONUP   = 0x0205
	_WM_MBUTTONDOWN = 0x0207
	_WM_MBUTTONUP   = 0x0208
	_WM_XBUTTONDOWN = 0x020B
	_WM_XBUTTONUP   = 0x020C

	_XBUTTON1 = 1
	_XBUTTON2 = 2
)

type point struct{ x, y int32 }

type kbdllhookstruct struct {
	vkCode      uint32
	scanCode    uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

type msllhookstruct struct {
	pt          point
	mouseData   uint32
	flags       uint32
	time        uint32
	dwExtraInfo uintptr
}

type winMsg struct {
	hwnd    syscall.Handle
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      point
}

// vkToKey maps the Windows virtual-key codes this repo cares about to the
// normalized label.Key enum; codes absent here fall through to
// label.LabelsForKeyboard's unknown-vk handling.
var vkToKey = buildVKToKey()

func buildVKToKey() map[uint32]label.Key {
	m := map[uint32]label.Key{
		0x08: label.KeyBackSpace, 0x09: label.KeyTab, 0x0D: label.KeyEnter,
		0x1B: label.KeyEscape, 0x20: label.KeySpace,
		0x21: label.KeyPageUp, 0x22: label.KeyPageDown, 0x24: label.KeyHome,
		0x25: label.KeyArrowLeft, 0x26: label.KeyArrowUp, 0x27: label.KeyArrowRight,
		0x28: label.KeyArrowDown, 0x2C: label.KeyPrintScreen,
		0x2D: label.KeyInsert, 0x2E: label.KeyDelete,
		0x5B: label.KeyLeftWindows, 0x5C: label.KeyRightWindows,
		0x6A: label.KeyMultiply, 0x6B: label.KeyAdd, 0x6C: label.KeySeparator,
		0x6D: label.KeySubtract, 0x6E: label.KeyDecimal, 0x6F: label.KeyDivide,
		0x90: label.KeyNumLock, 0x91: label.KeyScrollLock, 0x14: label.KeyCapsLock,
		0xA0: label.KeyLeftShift, 0xA1: label.KeyRightShift,
		0xA2: label.KeyLeftControl, 0xA3: label.KeyRightControl,
		0xA4: label.KeyLeftAlt, 0xA5: label.KeyRightAlt,
		0xBA: label.KeySemiColon, 0xBC: label.KeyComma, 0xBD: label.KeySubtract,
		0xBE: label.KeyPeriod, 0xBF: label.KeySlash, 0xC0: label.KeyGrave,
		0xDB: label.KeyLeftBrace, 0xDC: label.KeyBackwardSlash, 0xDD: label.KeyRightBrace,
		0xDE: label.KeyApostrophe,
	}
	for i := 0; i < 26; i++ {
		m[uint32(0x41+i)] = label.Key(int(label.KeyA) + i)
	}
	for i := 0; i < 10; i++ {
		m[uint32(0x30+i)] = label.Key(int(label.KeyNumber0) + i)
	}
	for i := 0; i < 10; i++ {
		m[uint32(0x60+i)] = label.Key(int(label.KeyNumpad0) + i)
	}
	for i := 0; i < 24; i++ {
		m[uint32(0x70+i)] = label.Key(int(label.KeyF1) + i)
	}
	return m
}

func windowsKeyEvent(h *kbdllhookstruct) label.KeyEvent {
	key, known := vkToKey[h.vkCode]
	ev := label.KeyEvent{
		VKCode:   h.vkCode,
		ScanCode: h.scanCode,
		Flags:    label.NormalizeLowLevelFlags(h.flags&_LLKHF_EXTENDED != 0),
		Key:      key,
		HasKey:   known,
		Injected: h.flags&_LLKHF_INJECTED != 0,
	}
	return ev
}

// Run installs the keyboard and mouse low-level hooks and pumps the
// message loop on the calling goroutine until stop is closed, emitting
// through e. It must run on a dedicated OS thread (see cmd/input-daemon,
// which locks the goroutine to its OS thread before calling Run) since
// Windows delivers low-level hooks on the thread that installed them.
func Run(e *Emitter, stop <-chan struct{}) error {
	keyboardProc := syscall.NewCallback(func(nCode int32, wParam uintptr, lParam uintptr) uintptr {
		if nCode >= 0 {
			h := (*kbdllhookstruct)(unsafe.Pointer(lParam))
			ev := windowsKeyEvent(h)
			state := label.StateDown
			if wParam == _WM_KEYUP || wParam == _WM_SYSKEYUP {
				state = label.StateUp
			}
			e.EmitKey(ev, state)
		}
		next, _, _ := _CallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
		return next
	})
	mouseProc := syscall.NewCallback(func(nCode int32, wParam uintptr, lParam uintptr) uintptr {
		if nCode >= 0 {
			h := (*msllhookstruct)(unsafe.Pointer(lParam))
			if delta, ok := windowsMouseDelta(uint32(wParam), h.mouseData); ok {
				e.EmitMouseButtons([]label.ButtonDelta{delta})
			}
		}
		next, _, _ := _CallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
		return next
	})

	kbHook, _, _ := _SetWindowsHookExW.Call(uintptr(_WH_KEYBOARD_LL), keyboardProc, 0, 0)
	if kbHook == 0 {
		return errHookInstallFailed("keyboard")
	}
	defer _UnhookWindowsHookEx.Call(kbHook)

	msHook, _, _ := _SetWindowsHookExW.Call(uintptr(_WH_MOUSE_LL), mouseProc, 0, 0)
	if msHook == 0 {
		return errHookInstallFailed("mouse")
	}
	defer _UnhookWindowsHookEx.Call(msHook)

	done := make(chan struct{})
	go func() {
		<-stop
		close(done)
	}()

	var m winMsg
	for {
		select {
		case <-done:
			return nil
		default:
		}
		r, _, _ := _GetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(r) <= 0 {
			return nil
		}
		_TranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		_DispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}
}

func windowsMouseDelta(message uint32, mouseData uint32) (label.ButtonDelta, bool) {
	switch message {
	case _WM_LBUTTONDOWN:
		return label.ButtonDelta{Button: label.MouseLeft, WentDown: true}, true
	case _WM_LBUTTONUP:
		return label.ButtonDelta{Button: label.MouseLeft, WentUp: true}, true
	case _WM_RBUTTONDOWN:
		return label.ButtonDelta{Button: label.MouseRight, WentDown: true}, true
	case _WM_RBUTTONUP:
		return label.ButtonDelta{Button: label.MouseRight, WentUp: true}, true
	case _WM_MBUTTONDOWN:
		return label.ButtonDelta{Button: label.MouseMiddle, WentDown: true}, true
	case _WM_MBUTTONUP:
		return label.ButtonDelta{Button: label.MouseMiddle, WentUp: true}, true
	case _WM_XBUTTONDOWN:
		return label.ButtonDelta{Button: xButton(mouseData), WentDown: true}, true
	case _WM_XBUTTONUP:
		return label.ButtonDelta{Button: xButton(mouseData), WentUp: true}, true
	}
	return label.ButtonDelta{}, false
}

func xButton(mouseData uint32) label.MouseButton {
	if (mouseData>>16)&0xFFFF == _XBUTTON2 {
		return label.MouseX2
	}
	return label.MouseX1
}

type hookInstallError string

func (e hookInstallError) Error() string { return "inputcapture: failed to install " + string(e) + " hook" }

func errHookInstallFailed(which string) error { return hookInstallError(which) }
