// Package config loads and saves the small amount of state this repo
// persists between runs: the overlay's last bounds/anchor/lock, and the
// global hotkey bindings. Modeled on the devkit's settings file: JSON with
// defaults pre-seeded, invariant re-clamping on load, atomic-enough
// MkdirAll+WriteFile on save.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Anchor is the corner or center of the overlay that stays fixed on resize.
type Anchor string

const (
	AnchorTopLeft     Anchor = "top-left"
	AnchorTopRight    Anchor = "top-right"
	AnchorBottomLeft  Anchor = "bottom-left"
	AnchorBottomRight Anchor = "bottom-right"
	AnchorCenter      Anchor = "center"
)

func (a Anchor) valid() bool {
	switch a {
	case AnchorTopLeft, AnchorTopRight, AnchorBottomLeft, AnchorBottomRight, AnchorCenter:
		return true
	}
	return false
}

// OverlayBounds is the persisted logical position/size of the overlay
// window, plus the anchor and lock state and the last content-top-offset
// used when resizing.
type OverlayBounds struct {
	X                float64 `json:"x"`
	Y                float64 `json:"y"`
	W                float64 `json:"w"`
	H                float64 `json:"h"`
	Anchor           Anchor  `json:"anchor"`
	Locked           bool    `json:"locked"`
	Visible          bool    `json:"visible"`
	LastContentTopMs float64 `json:"last_content_top_offset"`
	BoundsAreLogical bool    `json:"bounds_are_logical"`
}

// HotkeyBinding is one action's global hotkey, using the closed key-name
// vocabulary described by the IPC hotkey configuration format. An empty Key
// disables the binding.
type HotkeyBinding struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl"`
	Shift bool   `json:"shift"`
	Alt   bool   `json:"alt"`
	Meta  bool   `json:"meta"`
}

// Settings is the full persisted document.
type Settings struct {
	Overlay OverlayBounds            `json:"overlay"`
	Hotkeys map[string]HotkeyBinding `json:"hotkeys"`
}

const (
	minOverlaySize = 100
	maxOverlaySize = 2000
)

// Hotkey action names, shared with the capture daemon's environment-variable
// configuration (see internal/inputcapture).
const (
	ActionToggleOverlay     = "toggle_overlay"
	ActionToggleOverlayLock = "toggle_overlay_lock"
	ActionToggleAlwaysOnTop = "toggle_always_on_top"
)

// DefaultHotkeys returns the built-in hotkey bindings, used both as the
// settings-file default and as the capture daemon's fallback when its
// environment-variable hotkey configuration is absent or empty.
func DefaultHotkeys() map[string]HotkeyBinding {
	return map[string]HotkeyBinding{
		ActionToggleOverlay:     {Key: "KeyO", Ctrl: true, Shift: true},
		ActionToggleOverlayLock: {},
		ActionToggleAlwaysOnTop: {},
	}
}

func defaultSettings() Settings {
	return Settings{
		Overlay: OverlayBounds{
			W:                400,
			H:                300,
			Anchor:           AnchorBottomRight,
			BoundsAreLogical: true,
		},
		Hotkeys: DefaultHotkeys(),
	}
}

// Path returns the default settings file location, or "" if the OS config
// directory cannot be resolved.
func Path() string {
	cfgDir, err := os.UserConfigDir()
	if err != nil || cfgDir == "" {
		return ""
	}
	return filepath.Join(cfgDir, "dmnote", "overlay_settings.json")
}

// Load reads settings from path, falling back to defaults if the file is
// absent or empty, and re-clamps invariants regardless of source.
func Load(path string) (Settings, error) {
	settings := defaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, err
	}
	if len(data) == 0 {
		return settings, nil
	}
	if err := json.Unmarshal(data, &settings); err != nil {
		return defaultSettings(), err
	}

	clamp(&settings)
	return settings, nil
}

// Save writes settings to path after re-clamping invariants.
func Save(path string, settings Settings) error {
	if path == "" {
		return nil
	}
	clamp(&settings)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func clamp(settings *Settings) {
	if settings.Overlay.W < minOverlaySize {
		settings.Overlay.W = minOverlaySize
	}
	if settings.Overlay.W > maxOverlaySize {
		settings.Overlay.W = maxOverlaySize
	}
	if settings.Overlay.H < minOverlaySize {
		settings.Overlay.H = minOverlaySize
	}
	if settings.Overlay.H > maxOverlaySize {
		settings.Overlay.H = maxOverlaySize
	}
	if !settings.Overlay.Anchor.valid() {
		settings.Overlay.Anchor = AnchorBottomRight
	}
	if settings.Hotkeys == nil {
		settings.Hotkeys = defaultSettings().Hotkeys
	}
}
