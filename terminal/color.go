package terminal

// ColorMode indicates terminal color capability
type ColorMode uint8

const (
	ColorMode256       ColorMode = iota // xterm-256 palette
	ColorModeTrueColor                  // 24-bit RGB
)

// String returns the flag spelling of the mode
func (m ColorMode) String() string {
	if m == ColorModeTrueColor {
		return "truecolor"
	}
	return "256"
}

// RGB represents a 24-bit color
type RGB struct {
	R, G, B uint8
}

var (
	RGBBlack = RGB{0, 0, 0}
	RGBWhite = RGB{255, 255, 255}
)

// Equal returns true if colors match
func (c RGB) Equal(other RGB) bool {
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// Color cube values for 6x6x6 palette (indices 16-231)
var cubeValues = [6]uint8{0, 95, 135, 175, 215, 255}

// cubeIndex maps 0-255 to nearest cube index 0-5
var cubeIndex [256]uint8

func init() {
	for i := 0; i < 256; i++ {
		best := 0
		bestDist := abs(i - int(cubeValues[0]))
		for j := 1; j < 6; j++ {
			d := abs(i - int(cubeValues[j]))
			if d < bestDist {
				bestDist = d
				best = j
			}
		}
		cubeIndex[i] = uint8(best)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// RGBTo256 converts RGB to nearest 256-color palette index
// Near-gray colors compare the grayscale ramp (232-255) against the cube
func RGBTo256(c RGB) uint8 {
	r, g, b := int(c.R), int(c.G), int(c.B)
	gray := (r + g + b) / 3
	maxDiff := max(abs(r-gray), abs(g-gray), abs(b-gray))

	cr, cg, cb := cubeIndex[c.R], cubeIndex[c.G], cubeIndex[c.B]
	cubeIdx := uint8(16 + 36*int(cr) + 6*int(cg) + int(cb))

	if maxDiff >= 10 {
		return cubeIdx
	}
	if gray < 4 {
		return 16
	}
	if gray > 243 {
		return 231
	}

	grayIdx := 232 + (gray-8)/10
	if grayIdx > 255 {
		grayIdx = 255
	}
	if grayIdx < 232 {
		grayIdx = 232
	}
	level := 8 + (grayIdx-232)*10
	grayDist := abs(r-level) + abs(g-level) + abs(b-level)
	cubeDist := abs(r-int(cubeValues[cr])) + abs(g-int(cubeValues[cg])) + abs(b-int(cubeValues[cb]))
	if grayDist < cubeDist {
		return uint8(grayIdx)
	}
	return cubeIdx
}
