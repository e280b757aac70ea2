package inputcapture

import (
	"testing"

	"dmnote/internal/config"
	"dmnote/internal/label"
)

func TestParseHotkeyConfigEmptyFallsBackToDefaults(t *testing.T) {
	bindings, err := ParseHotkeyConfig("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bindings[config.ActionToggleOverlay].Key != "KeyO" {
		t.Fatalf("toggle_overlay key = %q, want KeyO", bindings[config.ActionToggleOverlay].Key)
	}
}

func TestParseHotkeyConfigMalformedIsError(t *testing.T) {
	if _, err := ParseHotkeyConfig("{not json"); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}

func TestParseHotkeyConfigParsesCustomBinding(t *testing.T) {
	bindings, err := ParseHotkeyConfig(`{"toggle_overlay":{"key":"KeyP","ctrl":true}}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b := bindings[config.ActionToggleOverlay]
	if b.Key != "KeyP" || !b.Ctrl || b.Shift {
		t.Fatalf("unexpected binding: %+v", b)
	}
}

func TestHotkeyDetectorExactModifierMatch(t *testing.T) {
	d := NewHotkeyDetector(map[string]config.HotkeyBinding{
		config.ActionToggleOverlay: {Key: "KeyO", Ctrl: true, Shift: true},
	})

	d.Observe(label.KeyEvent{HasKey: true, Key: label.KeyLeftControl}, true)
	d.Observe(label.KeyEvent{HasKey: true, Key: label.KeyLeftShift}, true)
	if _, matched := d.Observe(label.KeyEvent{HasKey: true, Key: label.KeyO}, true); !matched {
		t.Fatal("expected Ctrl+Shift+O to match")
	}
}

func TestHotkeyDetectorRejectsSupersetModifiers(t *testing.T) {
	d := NewHotkeyDetector(map[string]config.HotkeyBinding{
		config.ActionToggleOverlay: {Key: "KeyO", Ctrl: true},
	})

	d.Observe(label.KeyEvent{HasKey: true, Key: label.KeyLeftControl}, true)
	d.Observe(label.KeyEvent{HasKey: true, Key: label.KeyLeftShift}, true)
	if _, matched := d.Observe(label.KeyEvent{HasKey: true, Key: label.KeyO}, true); matched {
		t.Fatal("extra held Shift must fail an exact-match binding for plain Ctrl+O")
	}
}

func TestHotkeyDetectorIgnoresModifierUpAsTrigger(t *testing.T) {
	d := NewHotkeyDetector(map[string]config.HotkeyBinding{
		config.ActionToggleOverlay: {Key: "KeyO", Ctrl: true},
	})
	d.Observe(label.KeyEvent{HasKey: true, Key: label.KeyLeftControl}, true)
	if _, matched := d.Observe(label.KeyEvent{HasKey: true, Key: label.KeyLeftControl}, false); matched {
		t.Fatal("releasing a modifier key must never itself trigger a hotkey")
	}
}

func TestHotkeyDetectorIgnoresKeyUp(t *testing.T) {
	d := NewHotkeyDetector(map[string]config.HotkeyBinding{
		config.ActionToggleOverlay: {Key: "KeyO"},
	})
	if _, matched := d.Observe(label.KeyEvent{HasKey: true, Key: label.KeyO}, false); matched {
		t.Fatal("a key-up event must never trigger a hotkey")
	}
}

func TestHotkeyDetectorDisabledBindingNeverMatches(t *testing.T) {
	d := NewHotkeyDetector(map[string]config.HotkeyBinding{
		config.ActionToggleOverlayLock: {},
	})
	if _, matched := d.Observe(label.KeyEvent{HasKey: true, Key: label.KeyO}, true); matched {
		t.Fatal("an empty Key binding must be disabled")
	}
}

func TestVocabularyKeyNameRawCodeFallback(t *testing.T) {
	name, ok := vocabularyKeyName(label.KeyEvent{VKCode: 35})
	if !ok || name != "End" {
		t.Fatalf("raw code 35 = (%q, %v), want (End, true)", name, ok)
	}
}
