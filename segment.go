package strokefit

// Segment3 represents a line segment in 3D space.
type Segment3 struct {
	// The segment's start point.
	P0 Point3
	// The segment's end point.
	P1 Point3
}

// Length returns the length of the segment.
func (s Segment3) Length() float64 {
	return s.P1.Sub(s.P0).Hypot()
}

func (s Segment3) Eval(t float64) Point3 {
	return s.P0.Lerp(s.P1, t)
}

// Nearest returns the squared distance from pt to the closest point of the
// segment and the parameter of that point.
func (s Segment3) Nearest(pt Point3) (distSq, t float64) {
	d := s.P1.Sub(s.P0)
	dotp := d.Dot(pt.Sub(s.P0))
	dSquared := d.Dot(d)
	if dotp <= 0.0 {
		return pt.Sub(s.P0).Hypot2(), 0.0
	} else if dotp >= dSquared {
		return pt.Sub(s.P1).Hypot2(), 1.0
	} else {
		t := dotp / dSquared
		dist := pt.Sub(s.Eval(t)).Hypot2()
		return dist, t
	}
}

func (s Segment3) BoundingBox() Box3 {
	return NewBoxFromPoints(s.P0, s.P1)
}

func (s Segment3) IsNaN() bool {
	return s.P0.IsNaN() || s.P1.IsNaN()
}
