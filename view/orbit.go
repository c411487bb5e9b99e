// Package view turns per-frame input into camera poses orbiting the loaded models
package view

import (
	"math"

	"github.com/lixenwraith/pepterm/camera"
	"github.com/lixenwraith/pepterm/input"
	"github.com/lixenwraith/pepterm/parameter"
	"github.com/lixenwraith/pepterm/vmath"
)

// Settings are the user-tunable sensitivities
type Settings struct {
	MouseSpeed      float64
	ZoomStep        float64
	PanSpeed        float64
	AutoRotateSpeed float64
}

// DefaultSettings returns the built-in sensitivities
func DefaultSettings() Settings {
	return Settings{
		MouseSpeed:      parameter.MouseSpeed,
		ZoomStep:        parameter.ZoomStep,
		PanSpeed:        parameter.PanSpeed,
		AutoRotateSpeed: parameter.AutoRotateSpeed,
	}
}

// Orbit is the view state: an eye circling Center at Distance
// Yaw and Pitch are the view angles; the camera looks back with their negation
type Orbit struct {
	Yaw, Pitch float64
	Distance   float64
	Center     vmath.Vec3F
	AutoRotate bool

	// Pan is true while a shift-drag is moving Center this frame
	Pan bool

	home            vmath.Vec3F
	maxDiagonal     float64
	initialDistance float64
	settings        Settings
}

// NewOrbit starts an orbit around home sized for the largest model diagonal
func NewOrbit(home vmath.Vec3F, maxDiagonal float64, s Settings) *Orbit {
	o := &Orbit{
		home:            home,
		maxDiagonal:     maxDiagonal,
		initialDistance: maxDiagonal * parameter.InitialDistanceFactor,
		settings:        s,
	}
	o.Reset()
	return o
}

// Reset restores the startup view and turns auto-rotate back on
func (o *Orbit) Reset() {
	o.Yaw = parameter.InitialYaw
	o.Pitch = parameter.InitialPitch
	o.Distance = o.initialDistance
	o.Center = o.home
	o.AutoRotate = true
	o.Pan = false
}

// ZoomRatio is Distance relative to the startup distance, 1 when the scene has no extent
func (o *Orbit) ZoomRatio() float64 {
	if o.initialDistance <= 0 {
		return 1
	}
	return o.Distance / o.initialDistance
}

// PanOffset is how far Center has moved from home
func (o *Orbit) PanOffset() vmath.Vec3F {
	return vmath.V3FSub(o.Center, o.home)
}

// Apply advances the orbit by one frame of input
// fbWidth is the framebuffer width in samples, drag speed is relative to it
func (o *Orbit) Apply(d input.Delta, fbWidth int) {
	for _, it := range d.Intents {
		switch it {
		case input.IntentReset:
			o.Reset()
		case input.IntentToggleAutoRotate:
			o.AutoRotate = !o.AutoRotate
		}
	}

	if d.Zoom != 0 {
		o.Distance = math.Max(0, o.Distance+float64(d.Zoom)*o.maxDiagonal*o.settings.ZoomStep)
	}

	// A frame without pointer activity stops motion and leaves pan mode
	var sx, sy float64
	o.Pan = false
	if d.Active {
		o.Pan = d.Pan
		if fbWidth > 0 {
			sx = float64(d.DragX) / float64(fbWidth) * o.settings.MouseSpeed
			sy = float64(d.DragY) / float64(fbWidth) * o.settings.MouseSpeed
		}
	}
	if d.Dragging {
		o.AutoRotate = false
	}

	switch {
	case o.Pan:
		o.pan(sx, sy)
	case o.AutoRotate:
		o.Yaw += o.settings.AutoRotateSpeed
	default:
		o.Yaw -= sx
		o.Pitch -= sy
	}
}

// pan slides Center in the camera's screen plane
func (o *Orbit) pan(sx, sy float64) {
	k := o.maxDiagonal * o.settings.PanSpeed
	sy0, cy0 := math.Sincos(-o.Yaw)
	sp0, cp0 := math.Sincos(-o.Pitch)

	o.Center.X -= sx * cy0 * k
	o.Center.Z += sx * sy0 * k
	o.Center.Y -= sy * cp0 * k
	o.Center.X += sy * sy0 * sp0 * k
	o.Center.Z += sy * cy0 * sp0 * k
}

// Pose places the camera at dist from center along the current view angles
func (o *Orbit) Pose(center vmath.Vec3F, dist float64) camera.Pose {
	sy, cy := math.Sincos(o.Yaw)
	sp, cp := math.Sincos(o.Pitch)
	return camera.Pose{
		Position: vmath.Vec3F{
			X: sy*cp*dist + center.X,
			Y: sp*dist + center.Y,
			Z: -cy*cp*dist + center.Z,
		},
		Yaw:   -o.Yaw,
		Pitch: -o.Pitch,
	}
}
