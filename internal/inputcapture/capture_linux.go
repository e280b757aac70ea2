//go:build linux

package inputcapture

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"dmnote/internal/label"

	"github.com/andrieee44/mylib/linux/input"
)

// evdevToKey maps the evdev keycodes this repo cares about to the normalized
// label.Key enum. Unlike the Windows vkToKey table, evdev already assigns
// numpad keys their own codes (KEY_KP0 etc.), so no scancode-ambiguity
// override is needed on this platform.
var evdevToKey = buildEvdevToKey()

func buildEvdevToKey() map[uint16]label.Key {
	m := map[uint16]label.Key{
		input.KEY_BACKSPACE: label.KeyBackSpace, input.KEY_TAB: label.KeyTab,
		input.KEY_ENTER: label.KeyEnter, input.KEY_ESC: label.KeyEscape,
		input.KEY_SPACE: label.KeySpace,
		input.KEY_PAGEUP: label.KeyPageUp, input.KEY_PAGEDOWN: label.KeyPageDown,
		input.KEY_HOME: label.KeyHome,
		input.KEY_LEFT: label.KeyArrowLeft, input.KEY_UP: label.KeyArrowUp,
		input.KEY_RIGHT: label.KeyArrowRight, input.KEY_DOWN: label.KeyArrowDown,
		input.KEY_SYSRQ: label.KeyPrintScreen, input.KEY_PRINT: label.KeyPrint,
		input.KEY_INSERT: label.KeyInsert, input.KEY_DELETE: label.KeyDelete,
		input.KEY_LEFTMETA: label.KeyLeftWindows, input.KEY_RIGHTMETA: label.KeyRightWindows,
		input.KEY_KPASTERISK: label.KeyMultiply, input.KEY_KPPLUS: label.KeyAdd,
		input.KEY_KPMINUS: label.KeySubtract, input.KEY_KPDOT: label.KeyDecimal,
		input.KEY_KPSLASH: label.KeyDivide,
		input.KEY_NUMLOCK: label.KeyNumLock, input.KEY_SCROLLLOCK: label.KeyScrollLock,
		input.KEY_CAPSLOCK: label.KeyCapsLock,
		input.KEY_LEFTSHIFT: label.KeyLeftShift, input.KEY_RIGHTSHIFT: label.KeyRightShift,
		input.KEY_LEFTCTRL: label.KeyLeftControl, input.KEY_RIGHTCTRL: label.KeyRightControl,
		input.KEY_LEFTALT: label.KeyLeftAlt, input.KEY_RIGHTALT: label.KeyRightAlt,
		input.KEY_SEMICOLON: label.KeySemiColon, input.KEY_COMMA: label.KeyComma,
		input.KEY_MINUS: label.KeySubtract, input.KEY_DOT: label.KeyPeriod,
		input.KEY_SLASH: label.KeySlash, input.KEY_GRAVE: label.KeyGrave,
		input.KEY_LEFTBRACE: label.KeyLeftBrace, input.KEY_BACKSLASH: label.KeyBackwardSlash,
		input.KEY_RIGHTBRACE: label.KeyRightBrace, input.KEY_APOSTROPHE: label.KeyApostrophe,
		input.KEY_KPENTER: label.KeyEnter,
	}
	letters := []uint16{
		input.KEY_A, input.KEY_B, input.KEY_C, input.KEY_D, input.KEY_E,
		input.KEY_F, input.KEY_G, input.KEY_H, input.KEY_I, input.KEY_J,
		input.KEY_K, input.KEY_L, input.KEY_M, input.KEY_N, input.KEY_O,
		input.KEY_P, input.KEY_Q, input.KEY_R, input.KEY_S, input.KEY_T,
		input.KEY_U, input.KEY_V, input.KEY_W, input.KEY_X, input.KEY_Y, input.KEY_Z,
	}
	for i, code := range letters {
		m[code] = label.Key(int(label.KeyA) + i)
	}
	digits := []uint16{
		input.KEY_0, input.KEY_1, input.KEY_2, input.KEY_3, input.KEY_4,
		input.KEY_5, input.KEY_6, input.KEY_7, input.KEY_8, input.KEY_9,
	}
	for i, code := range digits {
		m[code] = label.Key(int(label.KeyNumber0) + i)
	}
	numpad := []uint16{
		input.KEY_KP0, input.KEY_KP1, input.KEY_KP2, input.KEY_KP3, input.KEY_KP4,
		input.KEY_KP5, input.KEY_KP6, input.KEY_KP7, input.KEY_KP8, input.KEY_KP9,
	}
	for i, code := range numpad {
		m[code] = label.Key(int(label.KeyNumpad0) + i)
	}
	functionKeys := []uint16{
		input.KEY_F1, input.KEY_F2, input.KEY_F3, input.KEY_F4, input.KEY_F5, input.KEY_F6,
		input.KEY_F7, input.KEY_F8, input.KEY_F9, input.KEY_F10, input.KEY_F11, input.KEY_F12,
		input.KEY_F13, input.KEY_F14, input.KEY_F15, input.KEY_F16, input.KEY_F17, input.KEY_F18,
		input.KEY_F19, input.KEY_F20, input.KEY_F21, input.KEY_F22, input.KEY_F23, input.KEY_F24,
	}
	for i, code := range functionKeys {
		m[code] = label.Key(int(label.KeyF1) + i)
	}
	return m
}

// evdevToMouseButton maps the evdev BTN_* codes this repo recognizes to the
// five canonical mouse buttons.
var evdevToMouseButton = map[uint16]label.MouseButton{
	input.BTN_LEFT:    label.MouseLeft,
	input.BTN_RIGHT:   label.MouseRight,
	input.BTN_MIDDLE:  label.MouseMiddle,
	input.BTN_SIDE:    label.MouseX1,
	input.BTN_EXTRA:   label.MouseX2,
	input.BTN_FORWARD: label.MouseX2,
	input.BTN_BACK:    label.MouseX1,
}

func linuxKeyEvent(code uint16) label.KeyEvent {
	key, known := evdevToKey[code]
	return label.KeyEvent{
		VKCode:   0,
		ScanCode: uint32(code),
		Key:      key,
		HasKey:   known,
	}
}

// tappedDevice pairs the capability-introspection handle
// (github.com/andrieee44/mylib/linux/input.Device, used only for Events/Codes
// and Close) with a second raw handle opened on the same path for blocking
// binary reads of kernel input_event records. Devices() does not expose the
// path it globbed internally, so discoverDevices globs independently.
type tappedDevice struct {
	path       string
	dev        *input.Device
	raw        *os.File
	isKeyboard bool
	isMouse    bool
}

var errNoInputDevices = errors.New("inputcapture: no usable /dev/input devices found (check group membership, e.g. the input group)")

func discoverDevices() ([]*tappedDevice, error) {
	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, fmt.Errorf("inputcapture: glob /dev/input: %w", err)
	}

	var tapped []*tappedDevice
	for _, path := range paths {
		dev, err := input.NewDevice(path)
		if err != nil {
			continue
		}

		isKeyboard, isMouse := classifyDevice(dev)
		if !isKeyboard && !isMouse {
			dev.Close()
			continue
		}

		raw, err := os.Open(path)
		if err != nil {
			dev.Close()
			continue
		}

		tapped = append(tapped, &tappedDevice{
			path:       path,
			dev:        dev,
			raw:        raw,
			isKeyboard: isKeyboard,
			isMouse:    isMouse,
		})
	}
	return tapped, nil
}

func classifyDevice(dev *input.Device) (isKeyboard, isMouse bool) {
	events, err := dev.Events()
	if err != nil {
		return false, false
	}
	hasKeyEvents := false
	for _, ev := range events {
		if uint16(ev) == input.EV_KEY {
			hasKeyEvents = true
			break
		}
	}
	if !hasKeyEvents {
		return false, false
	}

	codes, err := dev.Codes(input.EV_KEY)
	if err != nil {
		return false, false
	}
	for _, c := range codes {
		switch uint16(c) {
		case input.KEY_A, input.KEY_SPACE, input.KEY_ENTER:
			isKeyboard = true
		case input.BTN_LEFT, input.BTN_RIGHT, input.BTN_MIDDLE:
			isMouse = true
		}
	}
	return isKeyboard, isMouse
}

// Run polls every classified keyboard/mouse device concurrently (one
// goroutine per device, mirroring the one-reader-per-fd shape the kernel's
// evdev interface requires) and forwards each decoded event through e until
// stop is closed or forwarding an event through e fails. A device whose read
// fails stops being polled without ending Run.
func Run(e *Emitter, stop <-chan struct{}) error {
	devices, err := discoverDevices()
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		return errNoInputDevices
	}

	fatal := make(chan error, 1)
	for _, d := range devices {
		d := d
		go func() {
			if err := readLoop(d, e); err != nil {
				select {
				case fatal <- err:
				default:
				}
			}
		}()
	}

	closeAll := func() {
		for _, d := range devices {
			d.raw.Close()
			d.dev.Close()
		}
	}

	select {
	case <-stop:
		closeAll()
		return nil
	case err := <-fatal:
		closeAll()
		return err
	}
}

// readLoop decodes kernel input_event records from d.raw until the file is
// closed (by Run's stop handling) or a real read error occurs.
func readLoop(d *tappedDevice, e *Emitter) error {
	var ev input.Event
	for {
		if err := binary.Read(d.raw, binary.LittleEndian, &ev); err != nil {
			return nil
		}
		if ev.Type != input.EV_KEY {
			continue
		}

		down := ev.Value != 0
		if d.isMouse {
			if button, known := evdevToMouseButton[ev.Code]; known {
				delta := label.ButtonDelta{Button: button, WentDown: down, WentUp: !down}
				if err := e.EmitMouseButtons([]label.ButtonDelta{delta}); err != nil {
					return fmt.Errorf("inputcapture: %s: %w", d.path, err)
				}
				continue
			}
		}
		if d.isKeyboard {
			state := label.StateUp
			if down {
				state = label.StateDown
			}
			if err := e.EmitKey(linuxKeyEvent(ev.Code), state); err != nil {
				return fmt.Errorf("inputcapture: %s: %w", d.path, err)
			}
		}
	}
}
