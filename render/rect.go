package render

// Rect is a half-open sample rectangle: X0 <= x < X1, Y0 <= y < Y1
type Rect struct {
	X0, Y0, X1, Y1 int
}

// Contains reports whether (x, y) lies inside the rectangle
func (r Rect) Contains(x, y int) bool {
	return x >= r.X0 && x < r.X1 && y >= r.Y0 && y < r.Y1
}

// Empty reports whether the rectangle holds no samples
func (r Rect) Empty() bool {
	return r.X0 >= r.X1 || r.Y0 >= r.Y1
}

func (r Rect) Width() int {
	if r.X1 <= r.X0 {
		return 0
	}
	return r.X1 - r.X0
}

func (r Rect) Height() int {
	if r.Y1 <= r.Y0 {
		return 0
	}
	return r.Y1 - r.Y0
}

// Intersect returns the overlap of two rectangles, possibly empty
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		X0: max(r.X0, o.X0),
		Y0: max(r.Y0, o.Y0),
		X1: min(r.X1, o.X1),
		Y1: min(r.Y1, o.Y1),
	}
	if out.Empty() {
		return Rect{}
	}
	return out
}
