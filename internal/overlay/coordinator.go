// Package overlay implements the overlay window coordinator (C7):
// visibility, lock, anchor, and anchor-aware resize, with multi-monitor
// DPI-aware bounds persistence. State is guarded by a single RWMutex
// (spec §5/§9: "never hold the engine lock across a window-system call" —
// this lock is entirely separate from the note engine's).
package overlay

import (
	"sync"

	"dmnote/internal/config"
	"dmnote/internal/eventbus"
)

const (
	defaultOverlayWidth  = 400
	defaultOverlayHeight = 300
	defaultInsetPx       = 40
)

// Coordinator owns the overlay window's visibility/lock/anchor/bounds state
// and the window-system handle that realizes it. The zero value is not
// usable; construct with New.
type Coordinator struct {
	host     WindowHost
	monitors MonitorProvider
	persist  func(config.OverlayBounds)
	events   *eventbus.Bus[Event]

	mu                   sync.RWMutex
	bounds               Bounds
	hasBounds            bool
	anchor               Anchor
	locked               bool
	visible              bool
	alwaysOnTop          bool
	lastContentTopOffset float64
	forceClose           bool
}

// New constructs a Coordinator. persist may be nil to skip persistence.
func New(host WindowHost, monitors MonitorProvider, persist func(config.OverlayBounds)) *Coordinator {
	c := &Coordinator{
		host:     host,
		monitors: monitors,
		persist:  persist,
		events:   eventbus.New[Event](),
		anchor:   config.AnchorBottomRight,
	}
	host.SetCloseHandler(c.onCloseRequested)
	return c
}

// LoadPersisted seeds the coordinator's state from a previously saved
// config.OverlayBounds, migrating a legacy physical-pixel bounds record to
// logical pixels via the owning monitor's scale factor.
func (c *Coordinator) LoadPersisted(saved config.OverlayBounds) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b := Bounds{X: saved.X, Y: saved.Y, W: saved.W, H: saved.H}
	if !saved.BoundsAreLogical {
		b = PhysicalToLogicalBounds(b, c.monitors)
	}
	c.bounds = b
	c.hasBounds = true
	c.anchor = saved.Anchor
	c.locked = saved.Locked
	c.lastContentTopOffset = saved.LastContentTopMs
}

// Subscribe registers a best-effort receiver for overlay state-change events.
func (c *Coordinator) Subscribe(buffer int) (<-chan Event, func()) {
	return c.events.Subscribe(buffer)
}

// SetForceClose toggles the latch that lets a close request actually
// destroy the window instead of being intercepted into a hide. Set before
// asking the window system to close during full application shutdown.
func (c *Coordinator) SetForceClose(force bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.forceClose = force
}

// SetAlwaysOnTop records the always-on-top preference applied whenever the
// window becomes visible.
func (c *Coordinator) SetAlwaysOnTop(onTop bool) {
	c.mu.Lock()
	c.alwaysOnTop = onTop
	exists := c.host.Exists()
	c.mu.Unlock()
	if exists {
		c.host.SetAlwaysOnTop(onTop)
	}
}

// AlwaysOnTop reports the current always-on-top preference.
func (c *Coordinator) AlwaysOnTop() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.alwaysOnTop
}

// Bounds returns the current logical bounds.
func (c *Coordinator) Bounds() Bounds {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bounds
}

// Visible reports whether the overlay is currently shown.
func (c *Coordinator) Visible() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.visible
}

// Locked reports whether the overlay currently ignores cursor events.
func (c *Coordinator) Locked() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.locked
}

// SetVisibility shows or hides the overlay. Showing creates the window on
// first use (lazily), remapped onto an appropriate monitor; hiding is a
// no-op if the window was never created.
func (c *Coordinator) SetVisibility(show bool) {
	c.mu.Lock()
	if !show {
		if !c.host.Exists() {
			c.mu.Unlock()
			return
		}
		c.visible = false
		c.mu.Unlock()
		c.host.Hide()
		c.persistLocked()
		c.events.Publish(Event{Kind: EventVisibility, Visible: false})
		return
	}

	if !c.host.Exists() {
		resolved := c.resolveCreationBoundsLocked()
		c.bounds = resolved
		c.hasBounds = true
	}
	locked := c.locked
	alwaysOnTop := c.alwaysOnTop
	bounds := c.bounds
	c.visible = true
	c.mu.Unlock()

	if err := c.host.EnsureCreated(bounds); err != nil {
		return
	}
	c.host.SetIgnoreCursorEvents(locked)
	c.host.SetAlwaysOnTop(alwaysOnTop)
	c.host.Show()
	c.persistLocked()
	c.events.Publish(Event{Kind: EventVisibility, Visible: true})
}

// resolveCreationBoundsLocked must be called with c.mu held. It picks the
// bounds to create the window with: persisted bounds remapped onto the
// monitor whose logical center contains them, or a default inset from the
// primary monitor's bottom-right corner when none are persisted or the
// saved monitor configuration no longer matches.
func (c *Coordinator) resolveCreationBoundsLocked() Bounds {
	if c.hasBounds {
		cx, cy := c.bounds.Center()
		if _, ok := FindMonitorForLogicalCenter(c.monitors.Monitors(), cx, cy); ok {
			return c.bounds
		}
	}

	primary := c.monitors.Primary()
	x, y, w, h := primary.LogicalRect()
	width, height := defaultOverlayWidth, defaultOverlayHeight
	if c.hasBounds {
		width, height = int(c.bounds.W), int(c.bounds.H)
	}
	return Bounds{
		X: x + w - float64(width) - defaultInsetPx,
		Y: y + h - float64(height) - defaultInsetPx,
		W: float64(width),
		H: float64(height),
	}
}

// SetLock toggles click-through. persist controls whether the new lock
// state is written out; ignore-cursor-events is only applied to the window
// while it is visible.
func (c *Coordinator) SetLock(locked bool, persist bool) {
	c.mu.Lock()
	c.locked = locked
	visible := c.visible
	c.mu.Unlock()

	if visible {
		c.host.SetIgnoreCursorEvents(locked)
	}
	if persist {
		c.persistLocked()
	}
	c.events.Publish(Event{Kind: EventLock, Locked: locked})
}

// SetAnchor changes which corner (or center) stays fixed across resizes.
func (c *Coordinator) SetAnchor(anchor Anchor) {
	c.mu.Lock()
	c.anchor = anchor
	c.mu.Unlock()
	c.persistLocked()
	c.events.Publish(Event{Kind: EventAnchor, Anchor: anchor})
}

// Resize clamps w/h to [100,2000], keeps the given (or current) anchor
// corner stationary, applies the content-top-offset delta if provided, and
// writes the resulting bounds to the window (if created) and to storage.
func (c *Coordinator) Resize(w, h float64, anchor *Anchor, contentTopOffset *float64) {
	c.mu.Lock()
	effectiveAnchor := c.anchor
	if anchor != nil {
		effectiveAnchor = *anchor
	}
	next, newLast := ResizeWithAnchor(c.bounds, effectiveAnchor, w, h, contentTopOffset, c.lastContentTopOffset)
	c.bounds = next
	c.hasBounds = true
	c.lastContentTopOffset = newLast
	exists := c.host.Exists()
	c.mu.Unlock()

	if exists {
		c.host.ApplyBounds(next)
	}
	c.persistLocked()
	c.events.Publish(Event{Kind: EventResized, Bounds: next})
}

// onCloseRequested is registered with the window host as its close
// handler. Per spec §4.7, a close request hides the window rather than
// destroying it, unless the force-close latch is set (full shutdown).
func (c *Coordinator) onCloseRequested() {
	c.mu.Lock()
	if c.forceClose {
		c.mu.Unlock()
		return
	}
	c.visible = false
	c.mu.Unlock()

	c.host.Hide()
	c.persistLocked()
	c.events.Publish(Event{Kind: EventVisibility, Visible: false})
}

func (c *Coordinator) persistLocked() {
	if c.persist == nil {
		return
	}
	c.mu.RLock()
	saved := config.OverlayBounds{
		X: c.bounds.X, Y: c.bounds.Y, W: c.bounds.W, H: c.bounds.H,
		Anchor:           c.anchor,
		Locked:           c.locked,
		Visible:          c.visible,
		LastContentTopMs: c.lastContentTopOffset,
		BoundsAreLogical: true,
	}
	c.mu.RUnlock()
	c.persist(saved)
}
