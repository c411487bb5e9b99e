package parameter

// Pointer and wheel sensitivity
const (
	// MouseSpeed scales drag displacement, expressed as a fraction of framebuffer width, into radians
	MouseSpeed = 30.0

	// ZoomStep is the distance change per wheel notch as a fraction of the largest model diagonal
	ZoomStep = 0.03

	// PanSpeed scales shift-drag into world units as a fraction of the largest model diagonal
	PanSpeed = 0.1

	// AutoRotateSpeed is the yaw added each frame while auto-rotate is on (radians)
	AutoRotateSpeed = 0.002
)

// Default key bindings
const (
	KeyQuit       = 'q'
	KeyCycleColor = 'c'
	KeyAutoRotate = 'r'
	KeyReset      = '0'
)
