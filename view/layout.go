package view

import (
	"github.com/lixenwraith/pepterm/camera"
	"github.com/lixenwraith/pepterm/model"
	"github.com/lixenwraith/pepterm/parameter"
	"github.com/lixenwraith/pepterm/vmath"
)

// Subject is a loaded model with its cached world extent
type Subject struct {
	Model    *model.Model
	Center   vmath.Vec3F
	Diagonal float64
}

// NewSubject measures m in world space
func NewSubject(m *model.Model) Subject {
	b := m.WorldBounds()
	return Subject{Model: m, Center: b.Center(), Diagonal: b.Diagonal()}
}

// MaxDiagonal returns the largest diagonal, 0 for none
func MaxDiagonal(subjects []Subject) float64 {
	var d float64
	for _, s := range subjects {
		d = max(d, s.Diagonal)
	}
	return d
}

// Home returns the first subject's center, the orbit's reset target
func Home(subjects []Subject) vmath.Vec3F {
	if len(subjects) == 0 {
		return vmath.Vec3F{}
	}
	return subjects[0].Center
}

// Placement is where and how one subject is drawn this frame
type Placement struct {
	Subject  Subject
	Pose     camera.Pose
	Viewport camera.Viewport
	Split    bool // false: whole framebuffer through the camera's own pose
}

// Layout places every subject for a fbWidth x fbHeight framebuffer
// One subject fills the framebuffer around the pan center; several get equal columns,
// each orbiting its own center at a distance scaled to the column size
func (o *Orbit) Layout(subjects []Subject, fbWidth, fbHeight int) []Placement {
	switch len(subjects) {
	case 0:
		return nil
	case 1:
		return []Placement{{
			Subject:  subjects[0],
			Pose:     o.Pose(o.Center, o.Distance),
			Viewport: camera.Viewport{Width: fbWidth, Height: fbHeight},
		}}
	}

	vps := camera.SplitColumns(fbWidth, fbHeight, len(subjects))
	if len(vps) == 0 {
		return nil
	}
	limiting := min(float64(vps[0].Width), float64(fbHeight)/2)
	scale := limiting * parameter.ViewportScaleFactor
	ratio := o.ZoomRatio()
	offset := o.PanOffset()

	out := make([]Placement, len(subjects))
	for i, s := range subjects {
		dist := s.Diagonal * parameter.InitialDistanceFactor * scale * ratio
		out[i] = Placement{
			Subject:  s,
			Pose:     o.Pose(vmath.V3FAdd(s.Center, offset), dist),
			Viewport: vps[i],
			Split:    true,
		}
	}
	return out
}
