package camera

import (
	"github.com/lixenwraith/pepterm/render"
	"github.com/lixenwraith/pepterm/vmath"
)

// Segment is a camera-space line with a color per endpoint
type Segment struct {
	A, B   vmath.Vec3F
	CA, CB render.RGB
}

// ClipResult classifies a segment against the near plane
type ClipResult uint8

const (
	ClipNone     ClipResult = iota // fully visible, returned unchanged
	ClipPartial                    // one endpoint replaced by a point on the near plane
	ClipRejected                   // fully behind the near plane
)

func (r ClipResult) String() string {
	switch r {
	case ClipPartial:
		return "partial"
	case ClipRejected:
		return "rejected"
	default:
		return "none"
	}
}

// ClipNear clips s against the plane z = d; points with z >= d are visible
// On ClipPartial the returned segment runs from the synthesized point (exactly z = d,
// color blended at lambda) to the unclipped endpoint
func ClipNear(s Segment, d float64) (Segment, ClipResult) {
	clipA := !(s.A.Z >= d)
	clipB := !(s.B.Z >= d)

	switch {
	case clipA && clipB:
		return s, ClipRejected
	case !clipA && !clipB:
		return s, ClipNone
	}

	clipped, unclipped, cc, uc := s.A, s.B, s.CA, s.CB
	if clipB {
		clipped, unclipped, cc, uc = s.B, s.A, s.CB, s.CA
	}

	lambda := (d - clipped.Z) / (unclipped.Z - clipped.Z)
	p := vmath.V3FLerp(clipped, unclipped, lambda)
	p.Z = d

	return Segment{A: p, B: unclipped, CA: render.LerpTrunc(cc, uc, lambda), CB: uc}, ClipPartial
}
