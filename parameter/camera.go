package parameter

// Lens
const (
	// CameraFOV is the horizontal field of view in radians
	CameraFOV = 1.7

	// CameraNear is the near plane distance, anything closer is clipped
	CameraNear = 0.1
)

// Orbit defaults
const (
	// InitialYaw and InitialPitch give a slightly elevated three-quarter view on startup and reset
	InitialYaw   = 0.3
	InitialPitch = 0.2

	// InitialDistanceFactor scales the largest model diagonal into the starting orbit radius
	InitialDistanceFactor = 1.2
)

// Multi-model layout
const (
	// ViewportScaleFactor converts a viewport's limiting size (cells) into a distance multiplier
	ViewportScaleFactor = 0.012
)
