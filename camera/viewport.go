package camera

import (
	"github.com/lixenwraith/pepterm/model"
	"github.com/lixenwraith/pepterm/render"
)

// Viewport is a column region of the framebuffer: [Offset, Offset+Width) x [0, Height)
type Viewport struct {
	Offset int
	Width  int
	Height int
}

// Rect returns the region as a framebuffer rectangle
func (v Viewport) Rect() render.Rect {
	return render.Rect{X0: v.Offset, Y0: 0, X1: v.Offset + v.Width, Y1: v.Height}
}

// SplitColumns partitions a framebuffer into n equal-width column regions
// Columns left over by the integer division stay empty
func SplitColumns(fbWidth, fbHeight, n int) []Viewport {
	if n <= 0 || fbWidth <= 0 || fbHeight <= 0 {
		return nil
	}
	w := fbWidth / n
	vps := make([]Viewport, n)
	for i := range vps {
		vps[i] = Viewport{Offset: i * w, Width: w, Height: fbHeight}
	}
	return vps
}

// PlotModelInViewport draws m through pose into vp only
// The camera's own pose is not read or written; projection and culling use the viewport's aspect
func (c *Camera) PlotModelInViewport(m *model.Model, pose Pose, vp Viewport) {
	region := vp.Rect()
	if region.Empty() {
		return
	}
	t := target{
		proj:    newProjection(c.Lens, vp.Width, vp.Height),
		offset:  vp.Offset,
		region:  region,
		clipped: true,
	}
	for i := range m.Segments {
		s := &m.Segments[i]
		c.plot(pose, t, m.ToWorld(s.Start), m.ToWorld(s.End), s.StartColor, s.EndColor)
	}
}
