// Package camera projects world-space wireframes onto a render.Framebuffer:
// pose transform, pinhole projection, near-plane clipping, frustum culling,
// and the side-by-side viewport compositor.
package camera

import (
	"math"

	"github.com/lixenwraith/pepterm/model"
	"github.com/lixenwraith/pepterm/render"
	"github.com/lixenwraith/pepterm/vmath"
)

// Lens holds the projection constants fixed at construction
type Lens struct {
	Distance float64 // near plane and viewport distance
	FOV      float64 // horizontal field of view, radians
}

// tanHalf returns tan(FOV/2)
func (l Lens) tanHalf() float64 {
	return math.Tan(l.FOV / 2)
}

// Pose is a camera position and orientation, applied yaw then pitch then roll
type Pose struct {
	Position         vmath.Vec3F
	Yaw, Pitch, Roll float64
}

// WorldToCamera translates by the camera position, then undoes yaw, pitch and roll in that order
func (p Pose) WorldToCamera(v vmath.Vec3F) vmath.Vec3F {
	sy, cy := math.Sincos(p.Yaw)
	sp, cp := math.Sincos(p.Pitch)
	sr, cr := math.Sincos(p.Roll)

	d := vmath.V3FSub(v, p.Position)

	// Undo yaw about the vertical axis
	x := d.X*cy - d.Z*sy
	y := d.Y
	z := d.X*sy + d.Z*cy

	// Undo pitch about the yawed horizontal axis
	y, z = y*cp-z*sp, y*sp+z*cp

	// Undo roll about the view axis
	x, y = x*cr-y*sr, x*sr+y*cr

	return vmath.Vec3F{X: x, Y: y, Z: z}
}

// Camera renders models through one shared pose into a framebuffer
// Owned by the frame loop; not safe for concurrent use
type Camera struct {
	Pose
	Lens

	fb    *render.Framebuffer
	stats Stats
}

// New creates a camera drawing into fb
func New(pose Pose, lens Lens, fb *render.Framebuffer) *Camera {
	return &Camera{Pose: pose, Lens: lens, fb: fb}
}

// Framebuffer returns the render target
func (c *Camera) Framebuffer() *render.Framebuffer {
	return c.fb
}

// Stats returns the counters accumulated since the last ResetStats
func (c *Camera) Stats() Stats {
	return c.stats
}

// ResetStats zeroes the per-frame counters
func (c *Camera) ResetStats() {
	c.stats = Stats{}
}

// fullTarget projects onto the whole framebuffer
func (c *Camera) fullTarget() target {
	return target{
		proj:   newProjection(c.Lens, c.fb.Width(), c.fb.Height()),
		region: c.fb.Rect(),
	}
}

// CameraToScreen projects a camera-space point onto framebuffer samples
// Returns false for degenerate depth (z <= 0, NaN, Inf) or an empty framebuffer
func (c *Camera) CameraToScreen(p vmath.Vec3F) (vmath.Point, bool) {
	return newProjection(c.Lens, c.fb.Width(), c.fb.Height()).toScreen(p)
}

// PlotPoint writes a single world-space point if it is in front of the near plane
func (c *Camera) PlotPoint(p vmath.Vec3F, col render.RGB) {
	cp := c.WorldToCamera(p)
	if !(cp.Z >= c.Distance) {
		return
	}
	if sp, ok := c.CameraToScreen(cp); ok {
		c.fb.Write(true, sp, col)
	}
}

// PlotSegment draws one world-space segment through clip, cull and projection
func (c *Camera) PlotSegment(a, b vmath.Vec3F, ca, cb render.RGB) {
	c.plot(c.Pose, c.fullTarget(), a, b, ca, cb)
}

// PlotModel draws every segment of m, translated to world space, in stored order
func (c *Camera) PlotModel(m *model.Model) {
	t := c.fullTarget()
	for i := range m.Segments {
		s := &m.Segments[i]
		c.plot(c.Pose, t, m.ToWorld(s.Start), m.ToWorld(s.End), s.StartColor, s.EndColor)
	}
}

// PlotModelPoints writes every model vertex as a single sample
func (c *Camera) PlotModelPoints(m *model.Model, col render.RGB) {
	for _, p := range m.Points {
		c.PlotPoint(m.ToWorld(p), col)
	}
}

// target is a projection plus where its output lands in the framebuffer
type target struct {
	proj    projection
	offset  int
	region  render.Rect
	clipped bool
}

// plot runs the per-segment pipeline for world-space endpoints
func (c *Camera) plot(pose Pose, t target, a, b vmath.Vec3F, ca, cb render.RGB) {
	seg := Segment{
		A:  pose.WorldToCamera(a),
		B:  pose.WorldToCamera(b),
		CA: ca,
		CB: cb,
	}
	if !vmath.V3FFinite(seg.A) || !vmath.V3FFinite(seg.B) {
		c.stats.Degenerate++
		return
	}

	seg, res := ClipNear(seg, c.Distance)
	switch res {
	case ClipRejected:
		c.stats.BehindNear++
		return
	case ClipPartial:
		c.stats.NearClipped++
	case ClipNone:
		if t.proj.culled(seg.A, seg.B) {
			c.stats.Culled++
			return
		}
	}

	p0, ok0 := t.proj.toScreen(seg.A)
	p1, ok1 := t.proj.toScreen(seg.B)
	if !ok0 || !ok1 {
		c.stats.Degenerate++
		return
	}
	c.stats.Drawn++

	if !t.clipped {
		c.fb.DrawLine(p0, p1, seg.CA, seg.CB)
		return
	}
	p0.X += t.offset
	p1.X += t.offset
	c.fb.DrawLineClipped(p0, p1, seg.CA, seg.CB, t.region)
}
