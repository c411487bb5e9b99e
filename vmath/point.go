package vmath

// Point is a discrete framebuffer sample coordinate
// Origin is top-left, X grows right, Y grows down
type Point struct {
	X, Y int
}

// Pt builds a Point
func Pt(x, y int) Point {
	return Point{x, y}
}
