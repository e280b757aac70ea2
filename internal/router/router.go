// Package router implements the host-side input dispatch thread (C6): it
// reads classified IPC lines, matches keyboard labels against the current
// mode's active track set to suppress OS autorepeat, drives the note
// engine, and fans raw events out to best-effort subscribers.
package router

import (
	"errors"
	"io"
	"sync"
	"time"

	"dmnote/internal/applog"
	"dmnote/internal/eventbus"
	"dmnote/internal/ipc"
	"dmnote/internal/label"
	"dmnote/internal/noteengine"
)

// Clock supplies the millisecond time source handed to the note engine. The
// wire record (see package ipc) carries no timestamp, so in practice the
// host's receive-time clock is always what's in effect; this interface
// exists so tests can supply a deterministic source instead of wall time.
type Clock interface {
	NowMs() float64
}

type systemClock struct{ start time.Time }

func newSystemClock() systemClock { return systemClock{start: time.Now()} }

func (c systemClock) NowMs() float64 {
	return float64(time.Since(c.start).Microseconds()) / 1000
}

// RawEvent is broadcast to raw-input subscribers for every keyboard/mouse
// record received, regardless of whether its label matched the active
// track set (spec §4.6 rule 2).
type RawEvent struct {
	Device     label.Device
	Labels     []string
	State      label.State
	Matched    bool
	MatchedKey string
}

// CommandHandler receives daemon commands (hotkey-triggered) in arrival order.
type CommandHandler func(ipc.Command)

type downKey struct {
	mode string
	key  string
}

// Router is the host-side reader/dispatcher. The zero value is not usable;
// construct with New.
type Router struct {
	engine    *noteengine.Engine
	logger    *applog.Logger
	onCommand CommandHandler
	events    *eventbus.Bus[RawEvent]

	mu         sync.Mutex
	clock      Clock
	mode       string
	labelSet   map[string]string // label -> track key, for the current mode
	activeDown map[downKey]struct{}
	modeHeld   map[string]int
}

// New constructs a Router bound to engine. onCommand may be nil if the
// caller dispatches commands some other way.
func New(engine *noteengine.Engine, logger *applog.Logger, onCommand CommandHandler) *Router {
	return &Router{
		engine:     engine,
		logger:     logger,
		onCommand:  onCommand,
		events:     eventbus.New[RawEvent](),
		clock:      newSystemClock(),
		labelSet:   make(map[string]string),
		activeDown: make(map[downKey]struct{}),
		modeHeld:   make(map[string]int),
	}
}

// SetClock overrides the time source; intended for tests.
func (r *Router) SetClock(c Clock) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clock = c
}

// SetActiveLabels replaces the current mode's active track label set: the
// union of label lists configured for every track, mapping each label to
// the track key it should open. Switching modes never touches held keys
// registered under a different mode; they keep draining on their own UP.
func (r *Router) SetActiveLabels(mode string, labelToTrack map[string]string) {
	set := make(map[string]string, len(labelToTrack))
	for k, v := range labelToTrack {
		set[k] = v
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mode = mode
	r.labelSet = set
}

// ModeHeldCount reports how many (mode, key) pairs are currently registered
// as down for mode. Exposed for diagnostics and tests.
func (r *Router) ModeHeldCount(mode string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.modeHeld[mode]
}

// Subscribe registers a best-effort raw-event receiver.
func (r *Router) Subscribe(buffer int) (<-chan RawEvent, func()) {
	return r.events.Subscribe(buffer)
}

// Run reads lines from transport until it returns an error (including
// io.EOF on daemon disconnect) or cancel is closed. It is meant to run on
// its own goroutine. No OS thread priority is raised for it on any platform.
func (r *Router) Run(transport ipc.Transport, cancel <-chan struct{}) error {
	for {
		select {
		case <-cancel:
			return nil
		default:
		}

		line, err := transport.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return io.EOF
			}
			return err
		}

		cmd, rec, err := ipc.ParseLine(line)
		if err != nil {
			if r.logger != nil {
				r.logger.LogRouterf(applog.LevelWarning, "dropping malformed line: %v", err)
			}
			continue
		}
		if cmd != nil {
			if r.onCommand != nil {
				r.onCommand(*cmd)
			}
			continue
		}
		r.Dispatch(*rec)
	}
}

// Dispatch applies the dispatch rules of spec §4.6 to one record. It is
// exported so tests (and alternate transports) can drive it directly.
func (r *Router) Dispatch(rec ipc.Record) {
	var matchedKey string
	var matched bool
	if rec.Device == label.DeviceKeyboard {
		matchedKey, matched = r.matchLabel(rec.Labels)
	}

	r.events.Publish(RawEvent{
		Device:     rec.Device,
		Labels:     rec.Labels,
		State:      rec.State,
		Matched:    matched,
		MatchedKey: matchedKey,
	})

	if !matched {
		return
	}

	r.mu.Lock()
	mode := r.mode
	clock := r.clock
	r.mu.Unlock()
	t := clock.NowMs()
	dk := downKey{mode: mode, key: matchedKey}

	switch rec.State {
	case label.StateDown:
		r.mu.Lock()
		_, already := r.activeDown[dk]
		if !already {
			r.activeDown[dk] = struct{}{}
			r.modeHeld[mode]++
		}
		r.mu.Unlock()
		if !already {
			r.engine.OnKeyDown(matchedKey, t)
		}
	case label.StateUp:
		r.mu.Lock()
		_, wasDown := r.activeDown[dk]
		if wasDown {
			delete(r.activeDown, dk)
			r.modeHeld[mode]--
		}
		r.mu.Unlock()
		if wasDown {
			r.engine.OnKeyUp(matchedKey, t)
		}
	}
}

func (r *Router) matchLabel(labels []string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range labels {
		if track, ok := r.labelSet[l]; ok {
			return track, true
		}
	}
	return "", false
}
