package inputcapture

import (
	"fmt"

	"dmnote/internal/applog"
	"dmnote/internal/config"
	"dmnote/internal/ipc"
	"dmnote/internal/label"
)

// Emitter turns raw platform key/mouse events into wire lines: label
// resolution (C1), hotkey detection, and command-before-record ordering,
// shared by every platform tap so capture_windows.go/capture_linux.go only
// need to supply the OS-level event source.
type Emitter struct {
	transport ipc.Transport
	logger    *applog.Logger
	detector  *HotkeyDetector
}

// NewEmitter constructs an Emitter writing to transport. logger may be nil.
func NewEmitter(transport ipc.Transport, logger *applog.Logger, hotkeys map[string]config.HotkeyBinding) *Emitter {
	return &Emitter{
		transport: transport,
		logger:    logger,
		detector:  NewHotkeyDetector(hotkeys),
	}
}

// EmitKey processes one raw keyboard transition: it runs hotkey detection
// first and, on a match, writes the resulting Command line strictly before
// the input Record line (spec §4.2's "ordering" supplement), then writes
// the record line unless LabelsForKeyboard says the event must be dropped.
func (e *Emitter) EmitKey(ev label.KeyEvent, state label.State) error {
	if action, matched := e.detector.Observe(ev, state == label.StateDown); matched {
		if err := e.writeCommand(action); err != nil {
			return err
		}
	}

	labels, ok := label.LabelsForKeyboard(ev)
	if !ok {
		return nil
	}

	rec := ipc.Record{
		Device: label.DeviceKeyboard,
		Labels: labels,
		State:  state,
	}
	if ev.VKCode != 0 {
		vk := ev.VKCode
		rec.VKCode = &vk
	}
	if ev.ScanCode != 0 {
		sc := ev.ScanCode
		rec.ScanCode = &sc
	}
	if ev.Flags != 0 {
		fl := ev.Flags
		rec.Flags = &fl
	}
	return e.writeRecord(rec)
}

// EmitMouseButtons writes one record per (label, state) transition produced
// by LabelsForMouseButtonTransition, in the fixed L/R/M/X1/X2 order.
func (e *Emitter) EmitMouseButtons(deltas []label.ButtonDelta) error {
	for _, t := range label.LabelsForMouseButtonTransition(deltas) {
		rec := ipc.Record{
			Device: label.DeviceMouse,
			Labels: []string{t.Label},
			State:  t.State,
		}
		if err := e.writeRecord(rec); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) writeCommand(actionToType string) error {
	line, err := ipc.EncodeCommand(ipc.Command{Type: actionToCommandType(actionToType)})
	if err != nil {
		return fmt.Errorf("inputcapture: encode command: %w", err)
	}
	return e.transport.WriteLine(line)
}

func (e *Emitter) writeRecord(rec ipc.Record) error {
	line, err := ipc.EncodeRecord(rec)
	if err != nil {
		return fmt.Errorf("inputcapture: encode record: %w", err)
	}
	return e.transport.WriteLine(line)
}

func actionToCommandType(action string) string {
	switch action {
	case config.ActionToggleOverlay:
		return ipc.CommandToggleOverlay
	case config.ActionToggleOverlayLock:
		return ipc.CommandToggleOverlayLock
	case config.ActionToggleAlwaysOnTop:
		return ipc.CommandToggleAlwaysOnTop
	default:
		return action
	}
}
