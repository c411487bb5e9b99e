package render

import (
	"github.com/lixenwraith/pepterm/terminal"
)

// RGB is an alias to terminal.RGB for colors, allowing render package to extend functionality
type RGB = terminal.RGB

// Cleared samples carry white so a stray "on" write without color stays visible
var (
	RGBBlack = terminal.RGBBlack
	RGBWhite = terminal.RGBWhite
)

// clamp converts float to uint8 by truncation, saturating at both ends
func clamp(v float64) uint8 {
	if v >= 255.0 {
		return 255
	}
	if v <= 0.0 || v != v {
		return 0
	}
	return uint8(v)
}

// LerpTrunc blends a toward b by t in [0,1], truncating each channel
// t outside [0,1] is clamped; t=0 yields a and t=1 yields b exactly
func LerpTrunc(a, b RGB, t float64) RGB {
	if t <= 0 || t != t {
		return a
	}
	if t >= 1 {
		return b
	}
	return RGB{
		R: clamp(float64(a.R) + t*float64(int(b.R)-int(a.R))),
		G: clamp(float64(a.G) + t*float64(int(b.G)-int(a.G))),
		B: clamp(float64(a.B) + t*float64(int(b.B)-int(a.B))),
	}
}

// colorSum accumulates channel totals for block averaging
type colorSum struct {
	r, g, b, n int
}

func (s *colorSum) add(c RGB) {
	s.r += int(c.R)
	s.g += int(c.G)
	s.b += int(c.B)
	s.n++
}

// mean returns the truncated average, black when nothing was added
func (s *colorSum) mean() RGB {
	if s.n == 0 {
		return RGBBlack
	}
	return RGB{R: uint8(s.r / s.n), G: uint8(s.g / s.n), B: uint8(s.b / s.n)}
}
