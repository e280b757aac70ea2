package noteengine

import "testing"

func simpleTrackInput(key string, trackIndex int32) TrackLayoutInput {
	return TrackLayoutInput{
		TrackKey:           key,
		TrackIndex:         trackIndex,
		TrackX:             10,
		TrackBottomY:       100,
		Width:              40,
		NoteEffectEnabled:  true,
		NoteColorTopHex:    "#FFFFFF",
		NoteColorBottomHex: "#FFFFFF",
		NoteOpacityTop:     100,
		NoteOpacityBottom:  100,
	}
}

func TestScenarioS1_SimpleTapNoDelay(t *testing.T) {
	e := New()
	fs := float32(180)
	th := float32(150)
	minPx := float32(0)
	e.UpdateSettings(SettingsUpdate{FlowSpeed: &fs, TrackHeight: &th, ShortNoteMinLengthPx: &minPx})
	e.UpdateTrackLayouts([]TrackLayoutInput{simpleTrackInput("A", 0)})

	if hint := e.OnKeyDown("A", 1000); hint != HintAdd {
		t.Fatalf("DOWN hint = %v, want Add", hint)
	}
	if e.Buffer().ActiveCount() != 1 {
		t.Fatalf("active_count = %d, want 1", e.Buffer().ActiveCount())
	}

	if hint := e.OnKeyUp("A", 1200); hint != HintFinalize {
		t.Fatalf("UP hint = %v, want Finalize", hint)
	}
	if end := e.Buffer().EndTimeAtIndex(0); end != 1200 {
		t.Fatalf("end time = %v, want 1200", end)
	}

	if hint := e.Tick(2200); hint != HintNone {
		t.Fatalf("tick@2200 hint = %v, want None (y=180 < 350)", hint)
	}
	if e.Buffer().ActiveCount() != 1 {
		t.Fatalf("active_count after tick@2200 = %d, want 1", e.Buffer().ActiveCount())
	}

	if hint := e.Tick(3200); hint != HintCleanup {
		t.Fatalf("tick@3200 hint = %v, want Cleanup (y=360 >= 350)", hint)
	}
	if e.Buffer().ActiveCount() != 0 {
		t.Fatalf("active_count after cleanup = %d, want 0", e.Buffer().ActiveCount())
	}
}

func TestScenarioS2_AutorepeatSuppression(t *testing.T) {
	e := New()
	e.UpdateTrackLayouts([]TrackLayoutInput{simpleTrackInput("A", 0)})

	if hint := e.OnKeyDown("A", 1000); hint != HintAdd {
		t.Fatalf("first DOWN hint = %v, want Add", hint)
	}
	if hint := e.OnKeyDown("A", 1050); hint != HintNone {
		t.Fatalf("autorepeat DOWN hint = %v, want None", hint)
	}
	if e.Buffer().ActiveCount() != 1 {
		t.Fatalf("active_count = %d, want 1 (autorepeat must not allocate)", e.Buffer().ActiveCount())
	}
	if hint := e.OnKeyUp("A", 1200); hint != HintFinalize {
		t.Fatalf("UP hint = %v, want Finalize", hint)
	}
}

func delayedSettings() (fs, dm, minPx float32, de bool) {
	return 180, 80, 30, true
}

func TestScenarioS3_DelayedReleasedBeforeScheduledStart(t *testing.T) {
	e := New()
	fs, dm, minPx, de := delayedSettings()
	e.UpdateSettings(SettingsUpdate{FlowSpeed: &fs, DelayMs: &dm, ShortNoteMinLengthPx: &minPx, DelayEnabled: &de})
	e.UpdateTrackLayouts([]TrackLayoutInput{simpleTrackInput("A", 0)})

	if hint := e.OnKeyDown("A", 1000); hint != HintNone {
		t.Fatalf("deferred DOWN hint = %v, want None", hint)
	}
	if hint := e.OnKeyUp("A", 1030); hint != HintNone {
		t.Fatalf("early UP hint = %v, want None", hint)
	}

	if hint := e.Tick(1080); hint != HintAdd {
		t.Fatalf("tick@1080 hint = %v, want Add", hint)
	}
	if start := e.Buffer().EndTimeAtIndex(0); start != 0 {
		t.Fatalf("end time should still be unset right after Add, got %v", start)
	}

	if hint := e.Tick(1300); hint != HintFinalize {
		t.Fatalf("tick@1300 hint = %v, want Finalize", hint)
	}
	if end := e.Buffer().EndTimeAtIndex(0); end != 1247 {
		t.Fatalf("end time = %v, want 1247", end)
	}
}

func TestScenarioS4_HeldLongerThanMinLengthWithDelay(t *testing.T) {
	e := New()
	fs, dm, minPx, de := delayedSettings()
	e.UpdateSettings(SettingsUpdate{FlowSpeed: &fs, DelayMs: &dm, ShortNoteMinLengthPx: &minPx, DelayEnabled: &de})
	e.UpdateTrackLayouts([]TrackLayoutInput{simpleTrackInput("A", 0)})

	e.OnKeyDown("A", 1000)
	if hint := e.Tick(1080); hint != HintAdd {
		t.Fatalf("tick@1080 hint = %v, want Add", hint)
	}
	if hint := e.OnKeyUp("A", 1400); hint != HintNone {
		t.Fatalf("UP hint = %v, want None (still pending finalize)", hint)
	}
	if hint := e.Tick(1401); hint != HintFinalize {
		t.Fatalf("tick@1401 hint = %v, want Finalize", hint)
	}
	if end := e.Buffer().EndTimeAtIndex(0); end != 1400 {
		t.Fatalf("end time = %v, want 1400", end)
	}
}

func TestScenarioS5_TwoTracksStrictTieBreakOrdering(t *testing.T) {
	e := New()
	e.UpdateTrackLayouts([]TrackLayoutInput{
		simpleTrackInput("B", 1),
		simpleTrackInput("A", 0),
	})

	e.OnKeyDown("B", 1000)
	e.OnKeyDown("A", 1001)

	if e.Buffer().ActiveCount() != 2 {
		t.Fatalf("active_count = %d, want 2", e.Buffer().ActiveCount())
	}
	idA := e.Buffer().IDAtIndex(0)
	idB := e.Buffer().IDAtIndex(1)
	// B was allocated first (id 1), A second (id 2); A's lower track index
	// must place it ahead of B.
	if idA != 2 || idB != 1 {
		t.Fatalf("ids at index 0/1 = %d %d, want 2 (A) then 1 (B)", idA, idB)
	}
}

func TestOnKeyDown_DisabledIsNoop(t *testing.T) {
	e := New()
	e.UpdateTrackLayouts([]TrackLayoutInput{simpleTrackInput("A", 0)})
	e.SetEnabled(false)

	if hint := e.OnKeyDown("A", 1000); hint != HintNone {
		t.Fatalf("hint = %v, want None when disabled", hint)
	}
	if e.Buffer().ActiveCount() != 0 {
		t.Fatalf("active_count = %d, want 0", e.Buffer().ActiveCount())
	}
}

func TestSetEnabled_FalseTwiceIsIdempotentClear(t *testing.T) {
	e := New()
	e.UpdateTrackLayouts([]TrackLayoutInput{simpleTrackInput("A", 0)})
	e.OnKeyDown("A", 1000)

	if hint := e.SetEnabled(false); hint != HintClear {
		t.Fatalf("first SetEnabled(false) hint = %v, want Clear", hint)
	}
	if hint := e.SetEnabled(false); hint != HintClear {
		t.Fatalf("second SetEnabled(false) hint = %v, want Clear", hint)
	}
	if e.Buffer().ActiveCount() != 0 {
		t.Fatalf("active_count = %d, want 0", e.Buffer().ActiveCount())
	}
}

func TestOnKeyUp_StrayUpIsTolerated(t *testing.T) {
	e := New()
	e.UpdateTrackLayouts([]TrackLayoutInput{simpleTrackInput("A", 0)})
	if hint := e.OnKeyUp("A", 1000); hint != HintNone {
		t.Fatalf("stray UP hint = %v, want None", hint)
	}
}

func TestTick_DroppedLayoutBeforeScheduledStartIsSilentlyDiscarded(t *testing.T) {
	e := New()
	dm := float32(80)
	de := true
	e.UpdateSettings(SettingsUpdate{DelayMs: &dm, DelayEnabled: &de})
	e.UpdateTrackLayouts([]TrackLayoutInput{simpleTrackInput("A", 0)})

	e.OnKeyDown("A", 1000)
	// Layout vanishes before the scheduled start (1080).
	e.UpdateTrackLayouts(nil)

	if hint := e.Tick(1080); hint != HintNone {
		t.Fatalf("hint = %v, want None (pending state must be dropped silently)", hint)
	}
	if e.Buffer().ActiveCount() != 0 {
		t.Fatalf("active_count = %d, want 0", e.Buffer().ActiveCount())
	}
}

func TestCleanup_SkippedWhenFlowSpeedNonPositive(t *testing.T) {
	e := New()
	fs := float32(0)
	e.UpdateSettings(SettingsUpdate{FlowSpeed: &fs})
	e.UpdateTrackLayouts([]TrackLayoutInput{simpleTrackInput("A", 0)})

	e.OnKeyDown("A", 1000)
	e.OnKeyUp("A", 1200)

	if hint := e.Tick(1000000); hint != HintNone {
		t.Fatalf("hint = %v, want None (cleanup must be skipped at flow_speed=0)", hint)
	}
	if e.Buffer().ActiveCount() != 1 {
		t.Fatalf("active_count = %d, want 1 (note must not be evicted)", e.Buffer().ActiveCount())
	}
}
