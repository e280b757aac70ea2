package notebuffer

import (
	"encoding/binary"
	"math"
	"testing"
)

func layoutAt(trackIndex float32) Layout {
	return Layout{
		TrackIndex:   trackIndex,
		TrackX:       10,
		TrackBottomY: 500,
		Width:        40,
		ColorTop:     [3]float32{1, 0, 0},
		ColorBottom:  [3]float32{0, 1, 0},
		BorderRadius: 4,
	}
}

func TestAllocate_InsertOrderedByTrackIndex(t *testing.T) {
	b := New()
	b.Allocate(1, "a", 0, layoutAt(2))
	b.Allocate(2, "b", 0, layoutAt(0))
	b.Allocate(3, "c", 0, layoutAt(1))

	if b.ActiveCount() != 3 {
		t.Fatalf("active count = %d, want 3", b.ActiveCount())
	}
	wantOrder := []uint64{2, 3, 1}
	for i, id := range wantOrder {
		if b.IDAtIndex(i) != id {
			t.Fatalf("index %d: got id %d, want %d", i, b.IDAtIndex(i), id)
		}
	}
}

func TestAllocate_StrictTieBreakPreservesInsertionOrder(t *testing.T) {
	b := New()
	b.Allocate(1, "a", 0, layoutAt(5))
	b.Allocate(2, "b", 0, layoutAt(5))
	b.Allocate(3, "c", 0, layoutAt(5))

	wantOrder := []uint64{1, 2, 3}
	for i, id := range wantOrder {
		if b.IDAtIndex(i) != id {
			t.Fatalf("index %d: got id %d, want %d (equal track indices must use strict > not >=)", i, b.IDAtIndex(i), id)
		}
	}
}

func TestAllocate_CapacityExhausted(t *testing.T) {
	b := New()
	for i := 0; i < MaxNotes; i++ {
		if idx := b.Allocate(uint64(i+1), "k", 0, layoutAt(0)); idx < 0 {
			t.Fatalf("unexpected allocation failure at i=%d", i)
		}
	}
	if idx := b.Allocate(uint64(MaxNotes+1), "k", 0, layoutAt(0)); idx != -1 {
		t.Fatalf("expected -1 at capacity, got %d", idx)
	}
}

func TestFinalize_UnknownIDReturnsNegativeOne(t *testing.T) {
	b := New()
	if idx := b.Finalize(999, 100); idx != -1 {
		t.Fatalf("expected -1 for unknown id, got %d", idx)
	}
}

func TestFinalize_WritesEndTimeInPlace(t *testing.T) {
	b := New()
	b.Allocate(1, "a", 0, layoutAt(0))
	idx := b.Finalize(1, 250)
	if idx != 0 {
		t.Fatalf("expected index 0, got %d", idx)
	}
	if got := b.EndTimeAtIndex(0); got != 250 {
		t.Fatalf("end time = %v, want 250", got)
	}
}

func TestRelease_UnknownIDReturnsNegativeOne(t *testing.T) {
	b := New()
	if idx := b.Release(999); idx != -1 {
		t.Fatalf("expected -1 for unknown id, got %d", idx)
	}
}

func TestRelease_MaintainsIDBijectionAfterShift(t *testing.T) {
	b := New()
	b.Allocate(1, "a", 0, layoutAt(0))
	b.Allocate(2, "b", 0, layoutAt(1))
	b.Allocate(3, "c", 0, layoutAt(2))

	if idx := b.Release(1); idx != 0 {
		t.Fatalf("expected release at index 0, got %d", idx)
	}
	if b.ActiveCount() != 2 {
		t.Fatalf("active count = %d, want 2", b.ActiveCount())
	}
	if b.IDAtIndex(0) != 2 || b.IDAtIndex(1) != 3 {
		t.Fatalf("got order [%d %d], want [2 3]", b.IDAtIndex(0), b.IDAtIndex(1))
	}

	// ids must still finalize correctly after the shift.
	if idx := b.Finalize(3, 42); idx != 1 {
		t.Fatalf("finalize(3) index = %d, want 1", idx)
	}
}

func TestAllocateThenRelease_RoundTripsToPriorState(t *testing.T) {
	b := New()
	b.Allocate(1, "a", 0, layoutAt(0))
	versionBefore := b.Version()
	countBefore := b.ActiveCount()

	b.Allocate(2, "b", 0, layoutAt(1))
	b.Release(2)

	if b.ActiveCount() != countBefore {
		t.Fatalf("active count = %d, want %d", b.ActiveCount(), countBefore)
	}
	if b.IDAtIndex(0) != 1 {
		t.Fatalf("remaining id = %d, want 1", b.IDAtIndex(0))
	}
	// version is monotonic (sans wraparound) across the allocate+release pair.
	if b.Version() <= versionBefore {
		t.Fatalf("version did not advance: before=%d after=%d", versionBefore, b.Version())
	}
}

func TestClear_ZeroesEverything(t *testing.T) {
	b := New()
	b.Allocate(1, "a", 0, layoutAt(0))
	b.Allocate(2, "b", 0, layoutAt(1))
	b.Clear()

	if b.ActiveCount() != 0 {
		t.Fatalf("active count = %d, want 0", b.ActiveCount())
	}
	if b.IDAtIndex(0) != 0 {
		t.Fatalf("expected zeroed slot, got id %d", b.IDAtIndex(0))
	}
	if b.Finalize(1, 10) != -1 {
		t.Fatal("finalize should fail after clear")
	}
}

func TestSerializeActive_HeaderFields(t *testing.T) {
	b := New()
	b.Allocate(1, "a", 0, layoutAt(0))
	b.Allocate(2, "b", 0, layoutAt(1))

	frame := b.SerializeActive(MessageAdd)
	if len(frame) < frameHeaderBytes {
		t.Fatalf("frame too short: %d bytes", len(frame))
	}
	if magic := binary.LittleEndian.Uint32(frame[0:4]); magic != frameMagic {
		t.Fatalf("magic = %#x, want %#x", magic, frameMagic)
	}
	if frame[4] != byte(MessageAdd) {
		t.Fatalf("msg_type = %d, want %d", frame[4], MessageAdd)
	}
	if v := binary.LittleEndian.Uint32(frame[8:12]); v != b.Version() {
		t.Fatalf("version = %d, want %d", v, b.Version())
	}
	if n := binary.LittleEndian.Uint32(frame[12:16]); n != 2 {
		t.Fatalf("active_count = %d, want 2", n)
	}
	if m := binary.LittleEndian.Uint32(frame[16:20]); m != MaxNotes {
		t.Fatalf("max_notes = %d, want %d", m, MaxNotes)
	}
}

func TestSerializeActive_BodyLengthMatchesActiveCount(t *testing.T) {
	b := New()
	for i := 0; i < 5; i++ {
		b.Allocate(uint64(i+1), "k", 0, layoutAt(float32(i)))
	}
	frame := b.SerializeActive(MessageSync)
	floatsPerNote := 3 + 2 + 4 + 4 + 1 + 3 + 3 + 3 + 1
	wantLen := frameHeaderBytes + 5*floatsPerNote*4
	if len(frame) != wantLen {
		t.Fatalf("frame length = %d, want %d", len(frame), wantLen)
	}
}

func TestSerializeActive_CompandsColorToSRGB(t *testing.T) {
	b := New()
	layout := layoutAt(0)
	layout.ColorTop = [3]float32{1.0, 1.0, 1.0}
	b.Allocate(1, "a", 0, layout)

	frame := b.SerializeActive(MessageAdd)
	// note_info(3) + note_size(2) = 5 floats before note_color_top starts.
	offset := frameHeaderBytes + 5*4
	r := math.Float32frombits(binary.LittleEndian.Uint32(frame[offset : offset+4]))
	if r <= 0.999 {
		t.Fatalf("expected companding of linear 1.0 to stay ~1.0, got %v", r)
	}

	layout2 := layoutAt(0)
	layout2.ColorTop = [3]float32{0.0, 0.0, 0.0}
	b2 := New()
	b2.Allocate(1, "a", 0, layout2)
	frame2 := b2.SerializeActive(MessageAdd)
	r2 := math.Float32frombits(binary.LittleEndian.Uint32(frame2[offset : offset+4]))
	if r2 != 0 {
		t.Fatalf("expected linear 0.0 to compand to 0.0, got %v", r2)
	}
}

func TestSerializeActive_EmptyBufferIsHeaderOnly(t *testing.T) {
	b := New()
	frame := b.SerializeActive(MessageClear)
	if len(frame) != frameHeaderBytes {
		t.Fatalf("frame length = %d, want %d", len(frame), frameHeaderBytes)
	}
}
