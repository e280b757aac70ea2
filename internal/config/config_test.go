package config

import (
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.json")

	settings, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if settings.Overlay.Anchor != AnchorBottomRight {
		t.Fatalf("anchor = %v, want default bottom-right", settings.Overlay.Anchor)
	}
	if settings.Overlay.W != 400 || settings.Overlay.H != 300 {
		t.Fatalf("unexpected default size: %v x %v", settings.Overlay.W, settings.Overlay.H)
	}
}

func TestSaveThenLoad_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")

	original := defaultSettings()
	original.Overlay.X = 120
	original.Overlay.Y = 80
	original.Overlay.Anchor = AnchorCenter
	original.Overlay.Locked = true
	original.Hotkeys["toggle_overlay"] = HotkeyBinding{Key: "F9", Ctrl: true}

	if err := Save(path, original); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Overlay.X != 120 || loaded.Overlay.Y != 80 {
		t.Fatalf("bounds did not round-trip: %+v", loaded.Overlay)
	}
	if loaded.Overlay.Anchor != AnchorCenter || !loaded.Overlay.Locked {
		t.Fatalf("anchor/lock did not round-trip: %+v", loaded.Overlay)
	}
	if loaded.Hotkeys["toggle_overlay"].Key != "F9" {
		t.Fatalf("hotkey did not round-trip: %+v", loaded.Hotkeys["toggle_overlay"])
	}
}

func TestLoad_ClampsOutOfRangeSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")

	bad := defaultSettings()
	bad.Overlay.W = 5
	bad.Overlay.H = 9999
	if err := Save(path, bad); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Overlay.W != minOverlaySize {
		t.Fatalf("W = %v, want clamped to %v", loaded.Overlay.W, minOverlaySize)
	}
	if loaded.Overlay.H != maxOverlaySize {
		t.Fatalf("H = %v, want clamped to %v", loaded.Overlay.H, maxOverlaySize)
	}
}

func TestLoad_InvalidAnchorFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")

	bad := defaultSettings()
	bad.Overlay.Anchor = "diagonal"
	if err := Save(path, bad); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Overlay.Anchor != AnchorBottomRight {
		t.Fatalf("anchor = %v, want fallback to bottom-right", loaded.Overlay.Anchor)
	}
}
