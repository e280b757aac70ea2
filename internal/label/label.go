// Package label translates raw keyboard and mouse events captured by the
// input daemon into the stable textual vocabulary shared with the note
// engine and the host's track configuration.
package label

import "strconv"

// Device identifies the originating input device of a Record.
type Device string

const (
	DeviceKeyboard Device = "keyboard"
	DeviceMouse    Device = "mouse"
	DeviceGamepad  Device = "gamepad"
	DeviceUnknown  Device = "unknown"
)

// State is the transition direction of an input event.
type State string

const (
	StateDown State = "DOWN"
	StateUp   State = "UP"
)

// llkhfExtended mirrors the low-level-hook EXTENDED flag bit; the numpad
// disambiguation rule needs it regardless of which platform tap produced it.
const llkhfExtended = 0x01

// rightAltVK and hangulVK are the two raw virtual-key codes that collapse to
// the shared Right-Alt / Han-Eng physical key.
const (
	rightAltVK = 0xA5
	hangulVK   = 0x15
)

// KeyEvent is the raw, not-yet-normalized keyboard event handed to
// LabelsForKeyboard by a platform capture tap.
type KeyEvent struct {
	VKCode   uint32
	ScanCode uint32
	Flags    uint32
	Key      Key
	HasKey   bool
	Injected bool
}

// LabelsForKeyboard implements the C1 contract: given a raw event, produce
// the ordered label list used by downstream matching. A nil result with
// ok=false means the event must be dropped entirely (injected input, or the
// IME Han-Eng Shift companion).
func LabelsForKeyboard(ev KeyEvent) (labels []string, ok bool) {
	if ev.Injected {
		return nil, false
	}
	if isShiftEvent(ev) && ev.ScanCode == 554 {
		return nil, false
	}

	if ev.VKCode == rightAltVK || ev.VKCode == hangulVK {
		return []string{"21", "RIGHT ALT"}, true
	}

	if label, matched := numpadOverrideLabel(ev.ScanCode, ev.Flags); matched {
		return []string{label}, true
	}

	if ev.HasKey {
		if labels, known := keyLabels[ev.Key]; known && len(labels) > 0 {
			return append([]string(nil), labels...), true
		}
	}

	code := ev.VKCode
	if code == 0 {
		code = ev.ScanCode
	}
	if labels, known := unknownVKLabels[code]; known {
		return append([]string(nil), labels...), true
	}

	return []string{strconv.FormatUint(uint64(code), 10)}, true
}

func isShiftEvent(ev KeyEvent) bool {
	switch ev.VKCode {
	case 0x10, 0xA0, 0xA1:
		return true
	}
	return ev.HasKey && (ev.Key == KeyLeftShift || ev.Key == KeyRightShift)
}

// numpadOverrideLabel implements the scancode-set numpad disambiguation
// rule: scancodes 71-83 and 28 require the EXTENDED flag off, except 28
// (NUMPAD RETURN) which requires it on.
func numpadOverrideLabel(scan uint32, flags uint32) (string, bool) {
	label, known := numpadScancodes[scan]
	if !known {
		return "", false
	}
	extended := flags&llkhfExtended != 0
	if scan == 28 {
		if !extended {
			return "", false
		}
		return label, true
	}
	if extended {
		return "", false
	}
	return label, true
}

// NormalizeLowLevelFlags derives an LLKHF_EXTENDED-style flags byte from a
// raw Windows EXTENDED bit so the numpad rule behaves identically regardless
// of which hook API produced the event.
func NormalizeLowLevelFlags(extended bool) uint32 {
	if extended {
		return llkhfExtended
	}
	return 0
}

// MouseButton identifies one of the five canonical mouse buttons.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
	MouseX1
	MouseX2
)

// ButtonTransition is one (label, state) pair produced by a mouse button
// bitmask delta.
type ButtonTransition struct {
	Label string
	State State
}

var mouseLabels = map[MouseButton]string{
	MouseLeft:   "MOUSE1",
	MouseRight:  "MOUSE2",
	MouseMiddle: "MOUSE3",
	MouseX1:     "MOUSE4",
	MouseX2:     "MOUSE5",
}

// ButtonDelta describes one button's down/up bits within a mouse button-flag
// delta mask, in the fixed evaluation order the spec requires.
type ButtonDelta struct {
	Button  MouseButton
	WentDown bool
	WentUp   bool
}

// LabelsForMouseButtonTransition maps a set of button transitions (already
// decoded from the OS button-flag delta in L, R, M, X1, X2 order) to ordered
// (label, state) pairs. Each button contributes at most one DOWN and one UP
// entry, down before up.
func LabelsForMouseButtonTransition(deltas []ButtonDelta) []ButtonTransition {
	order := []MouseButton{MouseLeft, MouseRight, MouseMiddle, MouseX1, MouseX2}
	byButton := make(map[MouseButton]ButtonDelta, len(deltas))
	for _, d := range deltas {
		byButton[d.Button] = d
	}

	out := make([]ButtonTransition, 0, len(deltas)*2)
	for _, b := range order {
		d, present := byButton[b]
		if !present {
			continue
		}
		label := mouseLabels[b]
		if d.WentDown {
			out = append(out, ButtonTransition{Label: label, State: StateDown})
		}
		if d.WentUp {
			out = append(out, ButtonTransition{Label: label, State: StateUp})
		}
	}
	return out
}
