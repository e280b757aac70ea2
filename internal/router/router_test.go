package router

import (
	"testing"

	"dmnote/internal/ipc"
	"dmnote/internal/label"
	"dmnote/internal/noteengine"
)

type fakeClock struct{ t float64 }

func (c *fakeClock) NowMs() float64 { return c.t }

func newTestRouter(t *testing.T) (*Router, *noteengine.Engine, *fakeClock) {
	t.Helper()
	engine := noteengine.New()
	engine.UpdateTrackLayouts([]noteengine.TrackLayoutInput{{
		TrackKey: "A", TrackIndex: 0, TrackX: 0, TrackBottomY: 100, Width: 40,
		NoteEffectEnabled: true, NoteColorTopHex: "#FFFFFF", NoteColorBottomHex: "#FFFFFF",
		NoteOpacityTop: 100, NoteOpacityBottom: 100,
	}})
	r := New(engine, nil, nil)
	clock := &fakeClock{}
	r.SetClock(clock)
	r.SetActiveLabels("default", map[string]string{"A": "A"})
	return r, engine, clock
}

func TestDispatchMatchedKeyOpensNote(t *testing.T) {
	r, engine, clock := newTestRouter(t)
	clock.t = 1000
	r.Dispatch(ipc.Record{Device: label.DeviceKeyboard, Labels: []string{"A"}, State: label.StateDown})
	if engine.Buffer().ActiveCount() != 1 {
		t.Fatalf("active_count = %d, want 1", engine.Buffer().ActiveCount())
	}

	clock.t = 1200
	r.Dispatch(ipc.Record{Device: label.DeviceKeyboard, Labels: []string{"A"}, State: label.StateUp})
	if end := engine.Buffer().EndTimeAtIndex(0); end != 1200 {
		t.Fatalf("end time = %v, want 1200", end)
	}
}

func TestDispatchSuppressesAutorepeat(t *testing.T) {
	r, engine, clock := newTestRouter(t)
	clock.t = 1000
	r.Dispatch(ipc.Record{Device: label.DeviceKeyboard, Labels: []string{"A"}, State: label.StateDown})
	clock.t = 1050
	r.Dispatch(ipc.Record{Device: label.DeviceKeyboard, Labels: []string{"A"}, State: label.StateDown})
	if engine.Buffer().ActiveCount() != 1 {
		t.Fatalf("active_count = %d, want 1 (autorepeat must not open a second note)", engine.Buffer().ActiveCount())
	}
	if r.ModeHeldCount("default") != 1 {
		t.Fatalf("mode held count = %d, want 1", r.ModeHeldCount("default"))
	}
}

func TestDispatchDropsUnmatchedLabel(t *testing.T) {
	r, engine, _ := newTestRouter(t)
	r.Dispatch(ipc.Record{Device: label.DeviceKeyboard, Labels: []string{"ZZZ"}, State: label.StateDown})
	if engine.Buffer().ActiveCount() != 0 {
		t.Fatalf("active_count = %d, want 0 for an unmatched label", engine.Buffer().ActiveCount())
	}
}

func TestDispatchBroadcastsEvenWhenUnmatched(t *testing.T) {
	r, _, _ := newTestRouter(t)
	ch, unsubscribe := r.Subscribe(4)
	defer unsubscribe()

	r.Dispatch(ipc.Record{Device: label.DeviceKeyboard, Labels: []string{"ZZZ"}, State: label.StateDown})

	select {
	case ev := <-ch:
		if ev.Matched {
			t.Fatal("expected an unmatched raw event")
		}
	default:
		t.Fatal("expected a broadcast raw event regardless of match")
	}
}

func TestDispatchStrayUpIsTolerated(t *testing.T) {
	r, engine, clock := newTestRouter(t)
	clock.t = 500
	r.Dispatch(ipc.Record{Device: label.DeviceKeyboard, Labels: []string{"A"}, State: label.StateUp})
	if engine.Buffer().ActiveCount() != 0 {
		t.Fatalf("active_count = %d, want 0 after a stray UP", engine.Buffer().ActiveCount())
	}
	if r.ModeHeldCount("default") != 0 {
		t.Fatalf("mode held count = %d, want 0 after a stray UP", r.ModeHeldCount("default"))
	}
}
