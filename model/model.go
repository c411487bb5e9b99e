// Package model holds wireframe models: colored line segments in model space
// plus the offset that places them in the world.
package model

import (
	"github.com/lixenwraith/pepterm/render"
	"github.com/lixenwraith/pepterm/vmath"
)

// ColoredSegment is one renderable line with a color per endpoint
// StartT/EndT are the scalar parameters color schemes are evaluated at
type ColoredSegment struct {
	Start, End           vmath.Vec3F
	StartColor, EndColor render.RGB
	StartT, EndT         float64
}

// Length returns the Euclidean length of the segment
func (s ColoredSegment) Length() float64 {
	return vmath.V3FMag(vmath.V3FSub(s.End, s.Start))
}

// Model is an immutable-geometry wireframe; only colors change after load
type Model struct {
	Name     string
	Segments []ColoredSegment
	Points   []vmath.Vec3F
	Offset   vmath.Vec3F
}

// ToWorld translates a model-space point into world space
func (m *Model) ToWorld(p vmath.Vec3F) vmath.Vec3F {
	return vmath.V3FAdd(p, m.Offset)
}

// Bounds returns the model-space box over points and segment endpoints
func (m *Model) Bounds() vmath.Bounds {
	var b vmath.Bounds
	for _, p := range m.Points {
		b = b.Extend(p)
	}
	for i := range m.Segments {
		b = b.Extend(m.Segments[i].Start)
		b = b.Extend(m.Segments[i].End)
	}
	return b
}

// WorldBounds returns Bounds translated by the model offset
func (m *Model) WorldBounds() vmath.Bounds {
	return m.Bounds().Translate(m.Offset)
}

// ApplyScheme recolors every segment endpoint from its scalar parameter
func (m *Model) ApplyScheme(color func(t float64) render.RGB) {
	for i := range m.Segments {
		s := &m.Segments[i]
		s.StartColor = color(s.StartT)
		s.EndColor = color(s.EndT)
	}
}
