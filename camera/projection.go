package camera

import (
	"math"

	"github.com/lixenwraith/pepterm/vmath"
)

// screenLimit bounds projected coordinates so float to int conversion stays defined
const screenLimit = 1 << 20

// projection maps camera space onto a width x height sample grid
type projection struct {
	distance float64
	tanHalf  float64
	aspect   float64 // height / width
	vpWidth  float64
	vpHeight float64
	width    float64
	height   float64
}

func newProjection(lens Lens, width, height int) projection {
	p := projection{
		distance: lens.Distance,
		tanHalf:  lens.tanHalf(),
		width:    float64(width),
		height:   float64(height),
	}
	if width > 0 {
		p.aspect = float64(height) / float64(width)
	}
	p.vpWidth = 2 * lens.Distance * p.tanHalf
	p.vpHeight = p.aspect * p.vpWidth
	return p
}

// toScreen perspective-divides onto the viewport plane and maps to samples, y flipped
func (p projection) toScreen(v vmath.Vec3F) (vmath.Point, bool) {
	if !(v.Z > 0) || math.IsInf(v.Z, 0) || p.vpWidth <= 0 || p.vpHeight <= 0 {
		return vmath.Point{}, false
	}

	vx := v.X * p.distance / v.Z
	vy := v.Y * p.distance / v.Z

	sx := (vx/p.vpWidth + 0.5) * p.width
	sy := (1 - (vy/p.vpHeight + 0.5)) * p.height

	if math.IsNaN(sx) || math.IsNaN(sy) {
		return vmath.Point{}, false
	}
	return vmath.Point{X: roundClamp(sx), Y: roundClamp(sy)}, true
}

func roundClamp(v float64) int {
	v = math.Round(v)
	if v > screenLimit {
		return screenLimit
	}
	if v < -screenLimit {
		return -screenLimit
	}
	return int(v)
}
