package vmath

import (
	"math"
)

// Vec3F is a float64 3D point or direction in model, world or camera space
type Vec3F struct {
	X, Y, Z float64
}

// V3F builds a Vec3F from components
func V3F(x, y, z float64) Vec3F {
	return Vec3F{x, y, z}
}

func V3FAdd(a, b Vec3F) Vec3F {
	return Vec3F{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func V3FSub(a, b Vec3F) Vec3F {
	return Vec3F{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func V3FScale(v Vec3F, s float64) Vec3F {
	return Vec3F{v.X * s, v.Y * s, v.Z * s}
}

func V3FMagSq(v Vec3F) float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func V3FMag(v Vec3F) float64 {
	return math.Sqrt(V3FMagSq(v))
}

// V3FLerp returns a + (b-a)*t
func V3FLerp(a, b Vec3F, t float64) Vec3F {
	return Vec3F{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}

// V3FMin returns the component-wise minimum
func V3FMin(a, b Vec3F) Vec3F {
	return Vec3F{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}

// V3FMax returns the component-wise maximum
func V3FMax(a, b Vec3F) Vec3F {
	return Vec3F{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}

// V3FFinite reports whether all components are finite
func V3FFinite(v Vec3F) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) &&
		!math.IsNaN(v.Y) && !math.IsInf(v.Y, 0) &&
		!math.IsNaN(v.Z) && !math.IsInf(v.Z, 0)
}

// V3FNear reports whether a and b differ by less than eps on every axis
func V3FNear(a, b Vec3F, eps float64) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}
