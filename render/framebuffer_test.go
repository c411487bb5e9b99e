package render

import (
	"math/rand"
	"testing"

	"github.com/lixenwraith/pepterm/vmath"
)

// TestWriteOutOfBounds verifies out-of-range writes are silent no-ops
func TestWriteOutOfBounds(t *testing.T) {
	fb := NewFramebuffer(4, 3)
	red := RGB{R: 255, G: 0, B: 0}

	for _, p := range []vmath.Point{{X: -1, Y: 0}, {X: 0, Y: -1}, {X: 4, Y: 0}, {X: 0, Y: 3}, {X: 1 << 30, Y: 1 << 30}} {
		fb.Write(true, p, red)
	}
	if n := fb.Count(); n != 0 {
		t.Errorf("Expected no samples written, got %d", n)
	}

	fb.Write(true, vmath.Pt(3, 2), red)
	if s := fb.At(3, 2); !s.On || s.Color != red {
		t.Errorf("Expected red sample at corner, got %+v", s)
	}
}

// TestClearResetsSamples verifies Clear restores off/white everywhere
func TestClearResetsSamples(t *testing.T) {
	fb := NewFramebuffer(7, 5)
	fb.DrawLine(vmath.Pt(0, 0), vmath.Pt(6, 4), RGBBlack, RGBBlack)
	fb.Clear()
	for y := 0; y < 5; y++ {
		for x := 0; x < 7; x++ {
			if s := fb.At(x, y); s.On || s.Color != RGBWhite {
				t.Fatalf("Expected cleared sample at (%d,%d), got %+v", x, y, s)
			}
		}
	}
}

// TestResizeRoundTrip verifies same-size resize preserves content and a real resize clears it
func TestResizeRoundTrip(t *testing.T) {
	fb := NewFramebuffer(10, 8)
	fb.Write(true, vmath.Pt(2, 2), RGBBlack)

	if fb.Resize(10, 8) {
		t.Error("Expected same-size resize to be a no-op")
	}
	if fb.Resize(10, 8) {
		t.Error("Expected second same-size resize to be a no-op")
	}
	if !fb.At(2, 2).On {
		t.Error("Expected content preserved across same-size resize")
	}

	if !fb.Resize(6, 4) {
		t.Error("Expected resize to new dimensions to report reallocation")
	}
	if fb.Width() != 6 || fb.Height() != 4 {
		t.Errorf("Expected 6x4, got %dx%d", fb.Width(), fb.Height())
	}
	if n := fb.Count(); n != 0 {
		t.Errorf("Expected content cleared after resize, got %d samples", n)
	}

	fb.Resize(-3, 2)
	if fb.Width() != 0 || fb.Height() != 2 {
		t.Errorf("Expected negative width clamped to 0, got %dx%d", fb.Width(), fb.Height())
	}
}

// TestDrawLineEndpoints verifies both endpoints carry their exact colors in every octant
func TestDrawLineEndpoints(t *testing.T) {
	a := RGB{R: 10, G: 200, B: 30}
	b := RGB{R: 250, G: 7, B: 128}
	c := vmath.Pt(20, 20)

	tests := []struct {
		name string
		end  vmath.Point
	}{
		{"E", vmath.Pt(35, 20)},
		{"ENE", vmath.Pt(37, 14)},
		{"NNE", vmath.Pt(24, 2)},
		{"N", vmath.Pt(20, 1)},
		{"NNW", vmath.Pt(13, 0)},
		{"WNW", vmath.Pt(0, 12)},
		{"W", vmath.Pt(3, 20)},
		{"WSW", vmath.Pt(1, 27)},
		{"SSW", vmath.Pt(16, 39)},
		{"S", vmath.Pt(20, 38)},
		{"SSE", vmath.Pt(29, 39)},
		{"ESE", vmath.Pt(39, 31)},
		{"diagonal", vmath.Pt(39, 39)},
		{"single", c},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := NewFramebuffer(40, 40)
			fb.DrawLine(c, tt.end, a, b)

			if tt.end == c {
				// Degenerate line: the single sample is both endpoints, step 0 wins
				if s := fb.At(c.X, c.Y); !s.On || s.Color != a {
					t.Errorf("Expected start color at single point, got %+v", s)
				}
				return
			}
			if s := fb.At(c.X, c.Y); !s.On || s.Color != a {
				t.Errorf("Expected start sample %v, got %+v", a, s)
			}
			if s := fb.At(tt.end.X, tt.end.Y); !s.On || s.Color != b {
				t.Errorf("Expected end sample %v, got %+v", b, s)
			}
		})
	}
}

// TestDrawLineColorSteps verifies interpolation is by step index with truncation
func TestDrawLineColorSteps(t *testing.T) {
	fb := NewFramebuffer(20, 3)
	fb.DrawLine(vmath.Pt(0, 1), vmath.Pt(10, 1), RGBBlack, RGB{R: 100, G: 201, B: 51})

	tests := []struct {
		x    int
		want RGB
	}{
		{0, RGB{R: 0, G: 0, B: 0}},
		{1, RGB{R: 10, G: 20, B: 5}},
		{5, RGB{R: 50, G: 100, B: 25}},
		{10, RGB{R: 100, G: 201, B: 51}},
	}
	for _, tt := range tests {
		if s := fb.At(tt.x, 1); s.Color != tt.want {
			t.Errorf("x=%d: expected %v, got %v", tt.x, tt.want, s.Color)
		}
	}
	if n := fb.Count(); n != 11 {
		t.Errorf("Expected 11 samples on a 10-step line, got %d", n)
	}
}

// TestDrawLineOffscreen verifies out-of-bounds portions are skipped without truncating the visible part
func TestDrawLineOffscreen(t *testing.T) {
	fb := NewFramebuffer(20, 10)
	fb.DrawLine(vmath.Pt(-1000, 5), vmath.Pt(1000, 5), RGBWhite, RGBWhite)
	for x := 0; x < 20; x++ {
		if !fb.At(x, 5).On {
			t.Errorf("Expected sample at x=%d on row 5", x)
		}
	}
	if n := fb.Count(); n != 20 {
		t.Errorf("Expected exactly one row of samples, got %d", n)
	}

	fb.Clear()
	fb.DrawLine(vmath.Pt(-50, -50), vmath.Pt(-1, 400), RGBWhite, RGBWhite)
	if n := fb.Count(); n != 0 {
		t.Errorf("Expected nothing drawn left of the buffer, got %d", n)
	}
}

// TestDrawLineClippedFullRegion verifies full-region clipping matches DrawLine sample for sample
func TestDrawLineClippedFullRegion(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	plain := NewFramebuffer(50, 30)
	clipped := NewFramebuffer(50, 30)

	for i := 0; i < 200; i++ {
		a := vmath.Pt(rng.Intn(90)-20, rng.Intn(70)-20)
		b := vmath.Pt(rng.Intn(90)-20, rng.Intn(70)-20)
		ca := RGB{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256))}
		cb := RGB{R: uint8(rng.Intn(256)), G: uint8(rng.Intn(256)), B: uint8(rng.Intn(256))}
		plain.DrawLine(a, b, ca, cb)
		clipped.DrawLineClipped(a, b, ca, cb, clipped.Rect())
	}

	for y := 0; y < 30; y++ {
		for x := 0; x < 50; x++ {
			if plain.At(x, y) != clipped.At(x, y) {
				t.Fatalf("Mismatch at (%d,%d): %+v vs %+v", x, y, plain.At(x, y), clipped.At(x, y))
			}
		}
	}
}

// TestDrawLineClippedRegion verifies no sample escapes the region
func TestDrawLineClippedRegion(t *testing.T) {
	fb := NewFramebuffer(80, 20)
	region := Rect{X0: 40, Y0: 0, X1: 80, Y1: 20}
	fb.DrawLineClipped(vmath.Pt(-100, 10), vmath.Pt(200, 10), RGBWhite, RGBWhite, region)
	fb.DrawLineClipped(vmath.Pt(0, 0), vmath.Pt(79, 19), RGBWhite, RGBWhite, region)

	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			if fb.At(x, y).On {
				t.Fatalf("Sample leaked outside region at (%d,%d)", x, y)
			}
		}
	}
	if !fb.At(40, 10).On || !fb.At(79, 10).On {
		t.Error("Expected region columns 40 and 79 on row 10 to be drawn")
	}
}

// TestLerpTrunc verifies boundary and truncation behavior
func TestLerpTrunc(t *testing.T) {
	a := RGB{R: 0, G: 255, B: 10}
	b := RGB{R: 255, G: 0, B: 11}
	tests := []struct {
		name string
		t    float64
		want RGB
	}{
		{"start", 0, a},
		{"end", 1, b},
		{"below", -2, a},
		{"above", 3, b},
		{"half", 0.5, RGB{R: 127, G: 127, B: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LerpTrunc(a, b, tt.t); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}
