package camera

import (
	"github.com/lixenwraith/pepterm/vmath"
)

// CullMargin widens the frustum half-extent before a segment may be rejected
const CullMargin = 1.5

// culled reports whether a segment fully in front of the near plane lies outside one frustum side
// The nearer depth gives a cheap gate; each endpoint is then tested against the widened
// side plane at its own depth, so rejection implies the whole segment is outside that half-space
func (p projection) culled(a, b vmath.Vec3F) bool {
	halfW := p.tanHalf * CullMargin
	halfH := halfW * p.aspect

	zMin := min(a.Z, b.Z)
	gateW := zMin * halfW
	gateH := zMin * halfH

	left := a.X < -gateW && b.X < -gateW && a.X < -a.Z*halfW && b.X < -b.Z*halfW
	right := a.X > gateW && b.X > gateW && a.X > a.Z*halfW && b.X > b.Z*halfW
	up := a.Y > gateH && b.Y > gateH && a.Y > a.Z*halfH && b.Y > b.Z*halfH
	down := a.Y < -gateH && b.Y < -gateH && a.Y < -a.Z*halfH && b.Y < -b.Z*halfH

	return left || right || up || down
}
