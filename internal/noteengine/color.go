package noteengine

import (
	"math"
	"strconv"
	"strings"
)

// srgbU8ToLinear converts one 8-bit sRGB channel value to a linear float in
// [0,1] using the standard inverse companding curve.
func srgbU8ToLinear(value uint8) float32 {
	c := float64(value) / 255
	if c <= 0.04045 {
		return float32(c * 0.0773993808)
	}
	return float32(math.Pow(c*0.9478672986+0.0521327014, 2.4))
}

// parseHexColor parses a "#RRGGBB" (or "RRGGBB") string into a linear RGB
// triple. Returns ok=false for anything other than exactly 6 hex digits.
func parseHexColor(hex string) (rgb [3]float32, ok bool) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return rgb, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return rgb, false
	}
	r := uint8(v >> 16)
	g := uint8(v >> 8)
	b := uint8(v)
	return [3]float32{srgbU8ToLinear(r), srgbU8ToLinear(g), srgbU8ToLinear(b)}, true
}

var whiteLinear = [3]float32{1, 1, 1}

func colorOrWhite(hex string) [3]float32 {
	if rgb, ok := parseHexColor(hex); ok {
		return rgb
	}
	return whiteLinear
}

func clampPercent01(percent float64) float32 {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return float32(percent / 100)
}

func clampFloat32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
