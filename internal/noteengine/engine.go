// Package noteengine implements the note lifecycle state machine (C5): a
// deterministic function of current time, ordered key events, track layouts
// and runtime settings that drives the shared note buffer and reports which
// kind of change happened on each call.
package noteengine

import (
	"math"
	"sync"

	"dmnote/internal/notebuffer"
)

// Hint classifies the most salient change an engine call produced.
type Hint int

const (
	HintNone Hint = iota
	HintSync
	HintAdd
	HintFinalize
	HintCleanup
	HintClear
)

// RuntimeSettings controls flow speed, track geometry, and the optional
// display-delay / minimum-length behaviors. Only finite values are applied
// by UpdateSettings; negative values are clamped to zero.
type RuntimeSettings struct {
	FlowSpeed            float32
	TrackHeight          float32
	DelayEnabled         bool
	DelayMs              float32
	ShortNoteMinLengthPx float32
}

// SettingsUpdate carries a partial update; nil fields are left unchanged.
type SettingsUpdate struct {
	FlowSpeed            *float32
	TrackHeight          *float32
	DelayEnabled         *bool
	DelayMs              *float32
	ShortNoteMinLengthPx *float32
}

func defaultSettings() RuntimeSettings {
	return RuntimeSettings{
		FlowSpeed:   180,
		TrackHeight: 150,
	}
}

// activeState tracks one press lifecycle on a track. At most one state per
// track may have released == false at any time.
type activeState struct {
	useDelay             bool
	downTimeMs           float64
	releaseTimeMs        *float64
	startTimeMs          *float64
	noteID               uint64
	created              bool
	released             bool
	releasedBeforeStart  bool
	targetEndTimeMs      *float64
}

// Engine is the note lifecycle state machine. The zero value is not usable;
// construct with New. All public methods are safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	enabled      bool
	settings     RuntimeSettings
	layouts      map[string]notebuffer.Layout
	activeStates map[string][]*activeState
	buffer       *notebuffer.Buffer
	nextNoteID   uint64
}

// New constructs an enabled engine with default settings and an empty buffer.
func New() *Engine {
	return &Engine{
		enabled:      true,
		settings:     defaultSettings(),
		layouts:      make(map[string]notebuffer.Layout),
		activeStates: make(map[string][]*activeState),
		buffer:       notebuffer.New(),
		nextNoteID:   1,
	}
}

// Buffer exposes the underlying note buffer for renderer-facing reads
// (Snapshot wraps the common case of a Sync-tagged frame).
func (e *Engine) Buffer() *notebuffer.Buffer {
	return e.buffer
}

// Snapshot serializes the current active notes tagged as a Sync frame.
func (e *Engine) Snapshot() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buffer.SerializeActive(notebuffer.MessageSync)
}

// SetEnabled toggles the engine. Disabling drops every active state and
// clears the buffer, reporting HintClear; this is idempotent. Enabling is
// always a no-op report.
func (e *Engine) SetEnabled(enabled bool) Hint {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.enabled = enabled
	if enabled {
		return HintNone
	}
	e.activeStates = make(map[string][]*activeState)
	e.buffer.Clear()
	return HintClear
}

// UpdateSettings applies a partial update; non-finite values are ignored,
// and the resulting numeric fields are clamped to be non-negative.
func (e *Engine) UpdateSettings(u SettingsUpdate) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if u.FlowSpeed != nil && isFinite32(*u.FlowSpeed) {
		e.settings.FlowSpeed = nonNegative(*u.FlowSpeed)
	}
	if u.TrackHeight != nil && isFinite32(*u.TrackHeight) {
		e.settings.TrackHeight = nonNegative(*u.TrackHeight)
	}
	if u.DelayEnabled != nil {
		e.settings.DelayEnabled = *u.DelayEnabled
	}
	if u.DelayMs != nil && isFinite32(*u.DelayMs) {
		e.settings.DelayMs = nonNegative(*u.DelayMs)
	}
	if u.ShortNoteMinLengthPx != nil && isFinite32(*u.ShortNoteMinLengthPx) {
		e.settings.ShortNoteMinLengthPx = nonNegative(*u.ShortNoteMinLengthPx)
	}
}

// UpdateTrackLayouts replaces the whole layout set. Existing buffer entries
// and active states are untouched; tracks whose layout disappears simply
// stop accepting new presses and drain out through cleanup.
func (e *Engine) UpdateTrackLayouts(inputs []TrackLayoutInput) {
	e.mu.Lock()
	defer e.mu.Unlock()

	layouts := make(map[string]notebuffer.Layout, len(inputs))
	for _, in := range inputs {
		if layout, ok := normalizeLayout(in); ok {
			layouts[in.TrackKey] = layout
		}
	}
	e.layouts = layouts
}

// OnKeyDown begins a press on trackKey at time t (milliseconds, monotonic,
// non-decreasing). Autorepeat while the track already holds an unreleased
// state is rejected with HintNone.
func (e *Engine) OnKeyDown(trackKey string, t float64) Hint {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.enabled {
		return HintNone
	}
	layout, hasLayout := e.layouts[trackKey]
	if !hasLayout {
		return HintNone
	}
	for _, s := range e.activeStates[trackKey] {
		if !s.released {
			return HintNone
		}
	}

	useDelay := e.settings.DelayEnabled && e.settings.DelayMs > 0
	if useDelay {
		st := &activeState{useDelay: true, downTimeMs: t}
		e.activeStates[trackKey] = append(e.activeStates[trackKey], st)
		return HintNone
	}

	noteID := e.allocNoteID()
	e.buffer.Allocate(noteID, trackKey, float32(t), layout)
	start := t
	st := &activeState{
		useDelay:    false,
		downTimeMs:  t,
		created:     true,
		startTimeMs: &start,
		noteID:      noteID,
	}
	e.activeStates[trackKey] = append(e.activeStates[trackKey], st)
	return HintAdd
}

// OnKeyUp ends the most recent unreleased press on trackKey at time t. Stray
// UPs with no matching DOWN are tolerated and reported as HintNone.
func (e *Engine) OnKeyUp(trackKey string, t float64) Hint {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.enabled {
		return HintNone
	}
	states := e.activeStates[trackKey]
	if len(states) == 0 {
		return HintNone
	}

	idx := -1
	for i := len(states) - 1; i >= 0; i-- {
		if !states[i].released {
			idx = i
			break
		}
	}
	if idx == -1 {
		return HintNone
	}

	s := states[idx]
	s.released = true
	release := t
	s.releaseTimeMs = &release

	if !s.useDelay {
		e.buffer.Finalize(s.noteID, float32(t))
		e.activeStates[trackKey] = removeAt(states, idx)
		return HintFinalize
	}

	if !s.created {
		s.releasedBeforeStart = true
		return HintNone
	}

	if s.targetEndTimeMs == nil {
		target := e.computeTargetEndTimeMs(s, t, false)
		s.targetEndTimeMs = &target
	}
	return HintNone
}

// Tick advances deferred allocations, deferred finalizations, and eviction
// cleanup to time t. The returned Hint is the highest-precedence change
// observed this call, in order Cleanup > Finalize > Add.
func (e *Engine) Tick(t float64) Hint {
	e.mu.Lock()
	defer e.mu.Unlock()

	sawAdd := false
	sawFinalize := false

	for trackKey, states := range e.activeStates {
		layout, hasLayout := e.layouts[trackKey]
		kept := make([]*activeState, 0, len(states))

		for _, s := range states {
			if s.useDelay && !s.created {
				scheduledStart := s.downTimeMs + float64(e.settings.DelayMs)
				if t >= scheduledStart {
					if !hasLayout {
						// Open question resolution: a pending delayed state
						// whose layout vanished before its scheduled start
						// is dropped silently.
						continue
					}
					noteID := e.allocNoteID()
					e.buffer.Allocate(noteID, trackKey, float32(scheduledStart), layout)
					s.created = true
					startCopy := scheduledStart
					s.startTimeMs = &startCopy
					s.noteID = noteID
					sawAdd = true

					if s.released {
						target := e.computeTargetEndTimeMs(s, t, s.releasedBeforeStart)
						s.targetEndTimeMs = &target
						s.releasedBeforeStart = false
					}
				}
			}

			if s.useDelay && s.created && s.released && s.targetEndTimeMs != nil && t >= *s.targetEndTimeMs {
				e.buffer.Finalize(s.noteID, float32(*s.targetEndTimeMs))
				sawFinalize = true
				continue
			}

			kept = append(kept, s)
		}

		if len(kept) == 0 {
			delete(e.activeStates, trackKey)
		} else {
			e.activeStates[trackKey] = kept
		}
	}

	sawCleanup := e.cleanup(t)

	switch {
	case sawCleanup:
		return HintCleanup
	case sawFinalize:
		return HintFinalize
	case sawAdd:
		return HintAdd
	default:
		return HintNone
	}
}

// cleanup releases any buffer entry that has fallen past the track's bottom
// margin. Skipped entirely when flow speed is non-positive.
func (e *Engine) cleanup(t float64) bool {
	if e.settings.FlowSpeed <= 0 {
		return false
	}

	var toRelease []uint64
	for i := 0; i < e.buffer.ActiveCount(); i++ {
		endTime := e.buffer.EndTimeAtIndex(i)
		if endTime == 0 {
			continue
		}
		y := (float32(t) - endTime) * e.settings.FlowSpeed / 1000
		if y >= e.settings.TrackHeight+200 {
			toRelease = append(toRelease, e.buffer.IDAtIndex(i))
		}
	}
	for _, id := range toRelease {
		e.buffer.Release(id)
	}
	return len(toRelease) > 0
}

// computeTargetEndTimeMs derives the terminal end time for a delayed note,
// optionally forcing the minimum length (used when the press was released
// before its deferred allocation happened).
func (e *Engine) computeTargetEndTimeMs(s *activeState, t float64, forceMin bool) float64 {
	start := s.downTimeMs
	if s.startTimeMs != nil {
		start = *s.startTimeMs
	}
	release := t
	if s.releaseTimeMs != nil {
		release = *s.releaseTimeMs
	}
	baseline := math.Min(start, release)
	held := math.Max(release-baseline, 0)

	minLen := e.minLengthMs()
	var desired float64
	if forceMin {
		desired = minLen
	} else {
		desired = math.Max(minLen, held)
	}
	safe := math.Max(desired, 1)
	return start + safe
}

func (e *Engine) minLengthMs() float64 {
	if e.settings.ShortNoteMinLengthPx <= 0 || e.settings.FlowSpeed <= 0 {
		return 0
	}
	return math.Round(float64(e.settings.ShortNoteMinLengthPx) * 1000 / float64(e.settings.FlowSpeed))
}

func (e *Engine) allocNoteID() uint64 {
	id := e.nextNoteID
	e.nextNoteID++
	if e.nextNoteID == 0 {
		e.nextNoteID = 1
	}
	return id
}

func isFinite32(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func nonNegative(v float32) float32 {
	if v < 0 {
		return 0
	}
	return v
}

func removeAt(states []*activeState, idx int) []*activeState {
	out := make([]*activeState, 0, len(states)-1)
	out = append(out, states[:idx]...)
	out = append(out, states[idx+1:]...)
	return out
}
