package noteengine

import "dmnote/internal/notebuffer"

// TrackLayoutInput is the external (host-supplied) description of one
// track's visual parameters, colors given as sRGB hex strings as they arrive
// from the track configuration.
type TrackLayoutInput struct {
	TrackKey     string
	TrackIndex   int32
	TrackX       float32
	TrackBottomY float32
	Width        float32

	NoteEffectEnabled bool
	BorderRadius      float32

	NoteColorTopHex    string
	NoteColorBottomHex string
	NoteOpacityTop     float64 // percent, 0-100
	NoteOpacityBottom  float64

	NoteGlowEnabled           bool
	NoteGlowSize              float32
	NoteGlowOpacityTop        float64
	NoteGlowOpacityBottom     float64
	NoteGlowColorTopHex       string
	NoteGlowColorBottomHex    string
}

// normalizeLayout converts one track's raw input into the normalized,
// linear-color layout stored by the engine and handed to the buffer on
// allocation. ok is false when the track must be omitted entirely (disabled
// note effect, or non-positive width).
func normalizeLayout(in TrackLayoutInput) (notebuffer.Layout, bool) {
	if !in.NoteEffectEnabled {
		return notebuffer.Layout{}, false
	}
	if in.Width <= 0 {
		return notebuffer.Layout{}, false
	}

	layout := notebuffer.Layout{
		TrackIndex:   float32(in.TrackIndex),
		TrackX:       in.TrackX,
		TrackBottomY: in.TrackBottomY,
		Width:        in.Width,
		BorderRadius: in.BorderRadius,

		ColorTop:      colorOrWhite(in.NoteColorTopHex),
		ColorBottom:   colorOrWhite(in.NoteColorBottomHex),
		OpacityTop:    clampPercent01(in.NoteOpacityTop),
		OpacityBottom: clampPercent01(in.NoteOpacityBottom),
	}

	if in.NoteGlowEnabled {
		layout.GlowSize = clampFloat32(in.NoteGlowSize, 0, 50)
		layout.GlowOpacityTop = clampPercent01(in.NoteGlowOpacityTop)
		layout.GlowOpacityBot = clampPercent01(in.NoteGlowOpacityBottom)
		layout.GlowColorTop = colorOrWhite(in.NoteGlowColorTopHex)
		layout.GlowColorBottom = colorOrWhite(in.NoteGlowColorBottomHex)
	}

	return layout, true
}
