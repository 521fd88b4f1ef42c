package strokefit

import "math"

// Box3 is an axis-aligned bounding box.
type Box3 struct {
	Min Point3
	Max Point3
}

// EmptyBox returns a box that contains no points. The union of an empty
// box and any other box is the other box.
func EmptyBox() Box3 {
	inf := math.Inf(1)
	return Box3{
		Min: Point3{inf, inf, inf},
		Max: Point3{-inf, -inf, -inf},
	}
}

// NewBoxFromPoints returns the smallest box containing all of pts.
func NewBoxFromPoints(pts ...Point3) Box3 {
	b := EmptyBox()
	for _, pt := range pts {
		b = b.Add(pt)
	}
	return b
}

// IsEmpty reports whether the box contains no points.
func (b Box3) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Add returns the smallest box enclosing b and pt.
func (b Box3) Add(pt Point3) Box3 {
	return Box3{
		Min: Point3{min(b.Min.X, pt.X), min(b.Min.Y, pt.Y), min(b.Min.Z, pt.Z)},
		Max: Point3{max(b.Max.X, pt.X), max(b.Max.Y, pt.Y), max(b.Max.Z, pt.Z)},
	}
}

// Union returns the smallest box enclosing b and o.
func (b Box3) Union(o Box3) Box3 {
	return Box3{
		Min: Point3{min(b.Min.X, o.Min.X), min(b.Min.Y, o.Min.Y), min(b.Min.Z, o.Min.Z)},
		Max: Point3{max(b.Max.X, o.Max.X), max(b.Max.Y, o.Max.Y), max(b.Max.Z, o.Max.Z)},
	}
}

// Inflate returns a box grown by d on every side.
func (b Box3) Inflate(d float64) Box3 {
	return Box3{
		Min: Point3{b.Min.X - d, b.Min.Y - d, b.Min.Z - d},
		Max: Point3{b.Max.X + d, b.Max.Y + d, b.Max.Z + d},
	}
}

func (b Box3) Center() Point3 {
	return b.Min.Midpoint(b.Max)
}

func (b Box3) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Contains reports whether pt lies inside the box, boundary included.
func (b Box3) Contains(pt Point3) bool {
	return pt.X >= b.Min.X && pt.X <= b.Max.X &&
		pt.Y >= b.Min.Y && pt.Y <= b.Max.Y &&
		pt.Z >= b.Min.Z && pt.Z <= b.Max.Z
}

// DistanceSquared returns the squared distance from pt to the closest point
// of the box. It is zero for points inside the box.
func (b Box3) DistanceSquared(pt Point3) float64 {
	axis := func(v, lo, hi float64) float64 {
		if v < lo {
			return lo - v
		}
		if v > hi {
			return v - hi
		}
		return 0
	}
	dx := axis(pt.X, b.Min.X, b.Max.X)
	dy := axis(pt.Y, b.Min.Y, b.Max.Y)
	dz := axis(pt.Z, b.Min.Z, b.Max.Z)
	return dx*dx + dy*dy + dz*dz
}
