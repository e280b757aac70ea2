package overlay

import (
	"math"

	"dmnote/internal/config"
)

// Anchor is the corner or center of the overlay that stays fixed on resize.
type Anchor = config.Anchor

const (
	AnchorTopLeft     = config.AnchorTopLeft
	AnchorTopRight    = config.AnchorTopRight
	AnchorBottomLeft  = config.AnchorBottomLeft
	AnchorBottomRight = config.AnchorBottomRight
	AnchorCenter      = config.AnchorCenter
)

// Bounds is the logical-pixel position and size of the overlay window.
type Bounds struct {
	X, Y, W, H float64
}

// Center returns the logical-pixel center point of b.
func (b Bounds) Center() (x, y float64) {
	return b.X + b.W/2, b.Y + b.H/2
}

const (
	minOverlaySize = 100
	maxOverlaySize = 2000
)

func clampSize(v float64) float64 {
	if v < minOverlaySize {
		return minOverlaySize
	}
	if v > maxOverlaySize {
		return maxOverlaySize
	}
	return v
}

// ResizeWithAnchor implements the §4.7 resize contract: clamp w/h to
// [100,2000] and round to whole pixels, keep the anchor corner stationary,
// and apply the content-top-offset delta (halved for center, ignored for
// bottom anchors, subtracted otherwise). It returns the new bounds and the
// lastContentTopOffset value to remember for the next call.
func ResizeWithAnchor(current Bounds, anchor Anchor, w, h float64, contentTopOffset *float64, lastContentTopOffset float64) (Bounds, float64) {
	w = math.Round(clampSize(w))
	h = math.Round(clampSize(h))

	next := Bounds{X: current.X, Y: current.Y, W: w, H: h}
	switch anchor {
	case AnchorTopLeft:
		// anchor point (x,y) is already stationary.
	case AnchorTopRight:
		next.X = current.X + current.W - w
	case AnchorBottomLeft:
		next.Y = current.Y + current.H - h
	case AnchorBottomRight:
		next.X = current.X + current.W - w
		next.Y = current.Y + current.H - h
	case AnchorCenter:
		next.X = current.X + current.W/2 - w/2
		next.Y = current.Y + current.H/2 - h/2
	}

	newLast := lastContentTopOffset
	if contentTopOffset != nil {
		delta := *contentTopOffset - lastContentTopOffset
		switch anchor {
		case AnchorCenter:
			next.Y -= delta / 2
		case AnchorBottomLeft, AnchorBottomRight:
			// ignored: the content grows away from the bottom edge.
		default:
			next.Y -= delta
		}
		newLast = *contentTopOffset
	}

	return next, newLast
}
