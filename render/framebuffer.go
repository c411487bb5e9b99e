package render

import (
	"github.com/lixenwraith/pepterm/vmath"
)

// Sample is one sub-character framebuffer cell
type Sample struct {
	On    bool
	Color RGB
}

// clearedSample is the state every sample returns to on Clear
var clearedSample = Sample{On: false, Color: RGBWhite}

// Framebuffer is a row-major grid of samples addressed at sub-character resolution
// Owned by the frame loop; not safe for concurrent use
type Framebuffer struct {
	cells  []Sample
	width  int
	height int
}

// NewFramebuffer creates a cleared framebuffer, negative dimensions are treated as zero
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{}
	fb.Resize(width, height)
	return fb
}

func (f *Framebuffer) Width() int  { return f.width }
func (f *Framebuffer) Height() int { return f.height }

// Rect returns the full framebuffer rectangle
func (f *Framebuffer) Rect() Rect {
	return Rect{X0: 0, Y0: 0, X1: f.width, Y1: f.height}
}

// Resize adjusts dimensions, returns false and keeps content when unchanged
// A real resize is lossy: every sample is cleared, capacity is reused when sufficient
func (f *Framebuffer) Resize(width, height int) bool {
	width, height = max(width, 0), max(height, 0)
	if f.cells != nil && width == f.width && height == f.height {
		return false
	}
	size := width * height
	if cap(f.cells) < size {
		f.cells = make([]Sample, size)
	} else {
		f.cells = f.cells[:size]
	}
	f.width = width
	f.height = height
	f.Clear()
	return true
}

// Clear resets all samples to off/white using exponential copy
func (f *Framebuffer) Clear() {
	if len(f.cells) == 0 {
		return
	}
	f.cells[0] = clearedSample
	for filled := 1; filled < len(f.cells); filled *= 2 {
		copy(f.cells[filled:], f.cells[:filled])
	}
}

// inBounds returns true if in framebuffer bounds
func (f *Framebuffer) inBounds(x, y int) bool {
	return x >= 0 && x < f.width && y >= 0 && y < f.height
}

// Write sets one sample, out-of-bounds writes are silently dropped
func (f *Framebuffer) Write(on bool, p vmath.Point, c RGB) {
	if !f.inBounds(p.X, p.Y) {
		return
	}
	f.cells[p.Y*f.width+p.X] = Sample{On: on, Color: c}
}

// At returns the sample at (x, y), the cleared sample when out of bounds
func (f *Framebuffer) At(x, y int) Sample {
	if !f.inBounds(x, y) {
		return clearedSample
	}
	return f.cells[y*f.width+x]
}

// Count returns the number of "on" samples
func (f *Framebuffer) Count() int {
	n := 0
	for i := range f.cells {
		if f.cells[i].On {
			n++
		}
	}
	return n
}

// DrawLine rasterizes start..end with Bresenham, blending color by step index
// Samples outside the framebuffer are skipped without cutting the walk short
func (f *Framebuffer) DrawLine(start, end vmath.Point, startColor, endColor RGB) {
	f.line(start, end, startColor, endColor, f.Rect())
}

// DrawLineClipped is DrawLine restricted to region, intersected with the framebuffer
func (f *Framebuffer) DrawLineClipped(start, end vmath.Point, startColor, endColor RGB, region Rect) {
	f.line(start, end, startColor, endColor, region.Intersect(f.Rect()))
}

func (f *Framebuffer) line(a, b vmath.Point, ca, cb RGB, clip Rect) {
	if clip.Empty() {
		return
	}
	// Both ends beyond the same edge: no sample of the walk can land in clip
	if (a.X < clip.X0 && b.X < clip.X0) || (a.X >= clip.X1 && b.X >= clip.X1) ||
		(a.Y < clip.Y0 && b.Y < clip.Y0) || (a.Y >= clip.Y1 && b.Y >= clip.Y1) {
		return
	}

	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}

	// One step per sample along the major axis, so step total hits endColor exactly
	total := float64(max(dx, -dy, 1))
	sameColor := ca == cb

	x, y := a.X, a.Y
	err := dx + dy
	for step := 0; ; step++ {
		if clip.Contains(x, y) {
			c := ca
			if !sameColor {
				c = LerpTrunc(ca, cb, float64(step)/total)
			}
			f.cells[y*f.width+x] = Sample{On: true, Color: c}
		}
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
