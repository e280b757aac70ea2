package overlay

import "testing"

func TestResizeWithAnchorClampsSize(t *testing.T) {
	current := Bounds{X: 10, Y: 10, W: 200, H: 200}
	next, _ := ResizeWithAnchor(current, AnchorTopLeft, 10, 5000, nil, 0)
	if next.W != minOverlaySize {
		t.Fatalf("width = %v, want %v", next.W, minOverlaySize)
	}
	if next.H != maxOverlaySize {
		t.Fatalf("height = %v, want %v", next.H, maxOverlaySize)
	}
}

func TestResizeWithAnchorKeepsCornerFixed(t *testing.T) {
	current := Bounds{X: 100, Y: 100, W: 200, H: 200}

	cases := []struct {
		anchor      Anchor
		wantCornerX float64
		wantCornerY float64
	}{
		{AnchorTopLeft, 100, 100},
		{AnchorTopRight, 300, 100},
		{AnchorBottomLeft, 100, 300},
		{AnchorBottomRight, 300, 300},
	}
	for _, c := range cases {
		next, _ := ResizeWithAnchor(current, c.anchor, 120, 140, nil, 0)
		var cornerX, cornerY float64
		switch c.anchor {
		case AnchorTopLeft:
			cornerX, cornerY = next.X, next.Y
		case AnchorTopRight:
			cornerX, cornerY = next.X+next.W, next.Y
		case AnchorBottomLeft:
			cornerX, cornerY = next.X, next.Y+next.H
		case AnchorBottomRight:
			cornerX, cornerY = next.X+next.W, next.Y+next.H
		}
		if cornerX != c.wantCornerX || cornerY != c.wantCornerY {
			t.Fatalf("%v: anchor corner = (%v,%v), want (%v,%v)", c.anchor, cornerX, cornerY, c.wantCornerX, c.wantCornerY)
		}
	}
}

func TestResizeWithAnchorCenterKeepsCenterFixed(t *testing.T) {
	current := Bounds{X: 100, Y: 100, W: 200, H: 200}
	cx, cy := current.Center()

	next, _ := ResizeWithAnchor(current, AnchorCenter, 120, 80, nil, 0)
	ncx, ncy := next.Center()
	if ncx != cx || ncy != cy {
		t.Fatalf("center = (%v,%v), want (%v,%v)", ncx, ncy, cx, cy)
	}
}

func TestResizeContentTopOffsetHalvedForCenter(t *testing.T) {
	current := Bounds{X: 0, Y: 100, W: 200, H: 200}
	offset := 40.0
	next, newLast := ResizeWithAnchor(current, AnchorCenter, 200, 200, &offset, 0)
	if next.Y != 100-20 {
		t.Fatalf("y = %v, want %v", next.Y, 100-20.0)
	}
	if newLast != 40 {
		t.Fatalf("lastContentTopOffset = %v, want 40", newLast)
	}
}

func TestResizeContentTopOffsetIgnoredForBottomAnchors(t *testing.T) {
	current := Bounds{X: 0, Y: 100, W: 200, H: 200}
	offset := 40.0
	next, _ := ResizeWithAnchor(current, AnchorBottomLeft, 200, 150, &offset, 0)
	// Bottom anchor already shifts y to keep the bottom edge fixed; the
	// content-top-offset delta must not add a further shift.
	if next.Y != current.Y+current.H-150 {
		t.Fatalf("y = %v, want %v", next.Y, current.Y+current.H-150)
	}
}

func TestResizeContentTopOffsetSubtractedForTopAnchors(t *testing.T) {
	current := Bounds{X: 0, Y: 100, W: 200, H: 200}
	offset := 40.0
	next, _ := ResizeWithAnchor(current, AnchorTopLeft, 200, 200, &offset, 10)
	// delta = 40 - 10 = 30, subtracted from y.
	if next.Y != 100-30 {
		t.Fatalf("y = %v, want %v", next.Y, 100-30.0)
	}
}
