package strokefit

import "math"

// Triangle is a triangle in 3D space.
type Triangle struct {
	A, B, C Point3
}

func (tri Triangle) BoundingBox() Box3 {
	return NewBoxFromPoints(tri.A, tri.B, tri.C)
}

// Normal returns the unnormalized face normal (B−A) × (C−A).
func (tri Triangle) Normal() Vec3 {
	return tri.B.Sub(tri.A).Cross(tri.C.Sub(tri.A))
}

// IsDegenerate reports whether the triangle has (nearly) no area.
func (tri Triangle) IsDegenerate() bool {
	return tri.Normal().Hypot2() < 1e-24
}

// ClosestPoint returns the point of the triangle closest to pt.
//
// The query is classified by the Voronoi region of the triangle that pt
// projects into, as described in Ericson's Real-Time Collision Detection,
// section 5.1.5.
func (tri Triangle) ClosestPoint(pt Point3) Point3 {
	a, b, c := tri.A, tri.B, tri.C
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := pt.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := pt.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Translate(ab.Mul(v))
	}

	cp := pt.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Translate(ac.Mul(w))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Translate(c.Sub(b).Mul(w))
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Translate(ab.Mul(v)).Translate(ac.Mul(w))
}

// IntersectRay intersects the half-line origin + t·dir, t ≥ 0, with the
// triangle, using the Möller–Trumbore algorithm. Both faces are hit.
func (tri Triangle) IntersectRay(origin Point3, dir Vec3) (float64, bool) {
	const epsilon = 1e-12
	e1 := tri.B.Sub(tri.A)
	e2 := tri.C.Sub(tri.A)
	p := dir.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < epsilon {
		// Ray is parallel to the triangle's plane.
		return 0, false
	}
	inv := 1 / det
	s := origin.Sub(tri.A)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}
