package vmath

// Bounds is an axis-aligned box
// Zero value with Valid=false is the empty box; Extend seeds it with the first point
type Bounds struct {
	Min, Max Vec3F
	Valid    bool
}

// Extend grows the box to contain p
func (b Bounds) Extend(p Vec3F) Bounds {
	if !b.Valid {
		return Bounds{Min: p, Max: p, Valid: true}
	}
	b.Min = V3FMin(b.Min, p)
	b.Max = V3FMax(b.Max, p)
	return b
}

// Center returns the box midpoint, origin for the empty box
func (b Bounds) Center() Vec3F {
	if !b.Valid {
		return Vec3F{}
	}
	return V3FScale(V3FAdd(b.Min, b.Max), 0.5)
}

// Diagonal returns the length of the box diagonal, 0 for the empty box
func (b Bounds) Diagonal() float64 {
	if !b.Valid {
		return 0
	}
	return V3FMag(V3FSub(b.Max, b.Min))
}

// Translate shifts the box by offset
func (b Bounds) Translate(offset Vec3F) Bounds {
	if !b.Valid {
		return b
	}
	return Bounds{Min: V3FAdd(b.Min, offset), Max: V3FAdd(b.Max, offset), Valid: true}
}
