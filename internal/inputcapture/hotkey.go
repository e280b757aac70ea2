// Package inputcapture implements the out-of-process input tap (C2): a
// platform hook normalizes raw keyboard/mouse events through the label
// vocabulary, detects the configured global hotkeys, and writes the
// resulting commands/records to an IPC transport. Grounded on the original
// daemon's (`app_state.rs::start_keyboard_hook`) poll loop shape and the
// config JSON hotkey binding described by the persisted settings format.
package inputcapture

import (
	"encoding/json"
	"fmt"
	"strings"

	"dmnote/internal/config"
	"dmnote/internal/label"
)

// EnvHotkeys is the environment variable the daemon reads its hotkey
// configuration from: a JSON object of action name to config.HotkeyBinding,
// matching the persisted settings file's "hotkeys" shape exactly so the
// host can pass its current bindings straight through to the child process.
const EnvHotkeys = "DMNOTE_HOTKEYS"

// ParseHotkeyConfig parses the JSON hotkey configuration from raw (as read
// from EnvHotkeys). An empty string falls back to config.DefaultHotkeys();
// a non-empty but malformed value is an error the caller should log and
// treat the same way.
func ParseHotkeyConfig(raw string) (map[string]config.HotkeyBinding, error) {
	if strings.TrimSpace(raw) == "" {
		return config.DefaultHotkeys(), nil
	}
	var bindings map[string]config.HotkeyBinding
	if err := json.Unmarshal([]byte(raw), &bindings); err != nil {
		return nil, fmt.Errorf("inputcapture: malformed %s: %w", EnvHotkeys, err)
	}
	return bindings, nil
}

// vocabularyKeyNames maps the closed hotkey key-name vocabulary (spec §6)
// to the normalized Key enum shared with the label tables, covering every
// entry expressible as a single physical key.
var vocabularyKeyNames = map[string]label.Key{
	"KeyA": label.KeyA, "KeyB": label.KeyB, "KeyC": label.KeyC, "KeyD": label.KeyD,
	"KeyE": label.KeyE, "KeyF": label.KeyF, "KeyG": label.KeyG, "KeyH": label.KeyH,
	"KeyI": label.KeyI, "KeyJ": label.KeyJ, "KeyK": label.KeyK, "KeyL": label.KeyL,
	"KeyM": label.KeyM, "KeyN": label.KeyN, "KeyO": label.KeyO, "KeyP": label.KeyP,
	"KeyQ": label.KeyQ, "KeyR": label.KeyR, "KeyS": label.KeyS, "KeyT": label.KeyT,
	"KeyU": label.KeyU, "KeyV": label.KeyV, "KeyW": label.KeyW, "KeyX": label.KeyX,
	"KeyY": label.KeyY, "KeyZ": label.KeyZ,

	"Digit0": label.KeyNumber0, "Digit1": label.KeyNumber1, "Digit2": label.KeyNumber2,
	"Digit3": label.KeyNumber3, "Digit4": label.KeyNumber4, "Digit5": label.KeyNumber5,
	"Digit6": label.KeyNumber6, "Digit7": label.KeyNumber7, "Digit8": label.KeyNumber8,
	"Digit9": label.KeyNumber9,

	"F1": label.KeyF1, "F2": label.KeyF2, "F3": label.KeyF3, "F4": label.KeyF4,
	"F5": label.KeyF5, "F6": label.KeyF6, "F7": label.KeyF7, "F8": label.KeyF8,
	"F9": label.KeyF9, "F10": label.KeyF10, "F11": label.KeyF11, "F12": label.KeyF12,
	"F13": label.KeyF13, "F14": label.KeyF14, "F15": label.KeyF15, "F16": label.KeyF16,
	"F17": label.KeyF17, "F18": label.KeyF18, "F19": label.KeyF19, "F20": label.KeyF20,
	"F21": label.KeyF21, "F22": label.KeyF22, "F23": label.KeyF23, "F24": label.KeyF24,

	"Tab": label.KeyTab, "Enter": label.KeyEnter, "Escape": label.KeyEscape,
	"Space": label.KeySpace, "Backspace": label.KeyBackSpace, "Insert": label.KeyInsert,
	"Delete": label.KeyDelete, "Home": label.KeyHome, "PageUp": label.KeyPageUp,
	"PageDown": label.KeyPageDown, "ArrowLeft": label.KeyArrowLeft,
	"ArrowUp": label.KeyArrowUp, "ArrowRight": label.KeyArrowRight,
	"ArrowDown": label.KeyArrowDown, "Comma": label.KeyComma, "Period": label.KeyPeriod,
	"Slash": label.KeySlash, "Semicolon": label.KeySemiColon, "Quote": label.KeyApostrophe,
	"BracketLeft": label.KeyLeftBrace, "BracketRight": label.KeyRightBrace,
	"Backslash": label.KeyBackwardSlash, "Backquote": label.KeyGrave,
	"Minus": label.KeySubtract,
}

// vocabularyKeyNameByRawCode covers the two vocabulary entries ("End",
// "Equal") with no corresponding label.Key, matched directly on the raw
// virtual-key/scan code the way label.go's unknownVKLabels table does.
var vocabularyKeyNameByRawCode = map[uint32]string{
	35:  "End",
	187: "Equal",
}

// vocabularyNameByKey is the reverse of vocabularyKeyNames, built once so
// event resolution is a single map lookup instead of a linear scan.
var vocabularyNameByKey = func() map[label.Key]string {
	m := make(map[label.Key]string, len(vocabularyKeyNames))
	for name, key := range vocabularyKeyNames {
		m[key] = name
	}
	return m
}()

// Modifiers is the eight-bit half-key bitset (left/right Ctrl/Shift/Alt/
// Meta) the daemon tracks across DOWN/UP transitions to evaluate hotkeys.
type Modifiers struct {
	LeftCtrl, RightCtrl   bool
	LeftShift, RightShift bool
	LeftAlt, RightAlt     bool
	LeftMeta, RightMeta   bool
}

// Update applies one keyboard transition to the bitset if key is one of the
// eight tracked modifier half-keys; it is a no-op otherwise.
func (m *Modifiers) Update(key label.Key, down bool) {
	switch key {
	case label.KeyLeftControl:
		m.LeftCtrl = down
	case label.KeyRightControl:
		m.RightCtrl = down
	case label.KeyLeftShift:
		m.LeftShift = down
	case label.KeyRightShift:
		m.RightShift = down
	case label.KeyLeftAlt:
		m.LeftAlt = down
	case label.KeyRightAlt:
		m.RightAlt = down
	case label.KeyLeftWindows:
		m.LeftMeta = down
	case label.KeyRightWindows:
		m.RightMeta = down
	}
}

func (m Modifiers) ctrl() bool  { return m.LeftCtrl || m.RightCtrl }
func (m Modifiers) shift() bool { return m.LeftShift || m.RightShift }
func (m Modifiers) alt() bool   { return m.LeftAlt || m.RightAlt }
func (m Modifiers) meta() bool  { return m.LeftMeta || m.RightMeta }

// matches reports whether the current modifier state exactly matches b's
// configured modifiers (spec §4.2: "whose current modifier bitset exactly
// matches the configured modifiers").
func (m Modifiers) matches(b config.HotkeyBinding) bool {
	return m.ctrl() == b.Ctrl && m.shift() == b.Shift && m.alt() == b.Alt && m.meta() == b.Meta
}

// isModifierKey reports whether key is one of the eight half-keys tracked
// by Modifiers; such keys never themselves trigger a hotkey.
func isModifierKey(key label.Key) bool {
	switch key {
	case label.KeyLeftControl, label.KeyRightControl,
		label.KeyLeftShift, label.KeyRightShift,
		label.KeyLeftAlt, label.KeyRightAlt,
		label.KeyLeftWindows, label.KeyRightWindows:
		return true
	}
	return false
}

// vocabularyKeyName resolves a raw keyboard event to its closed
// hotkey-vocabulary name, if any.
func vocabularyKeyName(ev label.KeyEvent) (string, bool) {
	if ev.HasKey {
		if name, ok := vocabularyNameByKey[ev.Key]; ok {
			return name, true
		}
	}
	code := ev.VKCode
	if code == 0 {
		code = ev.ScanCode
	}
	if name, ok := vocabularyKeyNameByRawCode[code]; ok {
		return name, true
	}
	return "", false
}

// HotkeyDetector tracks modifier state and matches non-modifier DOWN events
// against the configured bindings.
type HotkeyDetector struct {
	bindings  map[string]config.HotkeyBinding
	modifiers Modifiers
}

// NewHotkeyDetector constructs a detector for the given bindings (action
// name to binding, as produced by ParseHotkeyConfig). A nil/empty map
// disables hotkey detection entirely.
func NewHotkeyDetector(bindings map[string]config.HotkeyBinding) *HotkeyDetector {
	return &HotkeyDetector{bindings: bindings}
}

// Observe updates modifier tracking for ev and, on a non-modifier DOWN
// event whose vocabulary key and current modifiers exactly match a
// configured binding, returns that binding's action name.
func (d *HotkeyDetector) Observe(ev label.KeyEvent, down bool) (action string, matched bool) {
	if ev.HasKey && isModifierKey(ev.Key) {
		d.modifiers.Update(ev.Key, down)
		return "", false
	}
	if !down {
		return "", false
	}

	name, ok := vocabularyKeyName(ev)
	if !ok {
		return "", false
	}
	for action, binding := range d.bindings {
		if binding.Key == "" {
			continue
		}
		if binding.Key == name && d.modifiers.matches(binding) {
			return action, true
		}
	}
	return "", false
}
