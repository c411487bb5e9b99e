package camera

// Stats counts how segments left the pipeline during a frame
type Stats struct {
	Drawn       int // rasterized, whole or near-clipped
	NearClipped int // drawn after one endpoint was moved onto the near plane
	BehindNear  int // both endpoints behind the near plane
	Culled      int // rejected by the frustum test
	Degenerate  int // non-finite coordinates or unprojectable depth
}

// Total returns the number of segments submitted
func (s Stats) Total() int {
	return s.Drawn + s.BehindNear + s.Culled + s.Degenerate
}
