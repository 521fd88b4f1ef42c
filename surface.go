package strokefit

import (
	"errors"
	"math"
)

// Surface is the target a stroke is fitted against. Implementations must
// not modify themselves in response to queries. A Surface used by a
// session with more than one worker must be safe for concurrent use.
//
// Any error returned from a query aborts the fit with a [NoSurfaceError].
type Surface interface {
	// ClosestPoint returns the point of the surface closest to pt.
	ClosestPoint(pt Point3) (Point3, error)
	// Intersects reports whether the half-line origin + t·dir, t ≥ 0,
	// hits the surface.
	Intersects(origin Point3, dir Vec3) (bool, error)
}

var (
	_ Surface = Plane{}
	_ Surface = Sphere{}
)

var errDegenerateSurface = errors.New("degenerate surface")

// Plane is the infinite plane through Point with normal Normal. Normal
// need not be of unit length.
type Plane struct {
	Point  Point3
	Normal Vec3
}

func (pl Plane) ClosestPoint(pt Point3) (Point3, error) {
	n, ok := pl.Normal.TryNormalize()
	if !ok {
		return Point3{}, &NoSurfaceError{Err: errDegenerateSurface}
	}
	d := pt.Sub(pl.Point).Dot(n)
	return pt.Translate(n.Mul(-d)), nil
}

func (pl Plane) Intersects(origin Point3, dir Vec3) (bool, error) {
	n, ok := pl.Normal.TryNormalize()
	if !ok {
		return false, &NoSurfaceError{Err: errDegenerateSurface}
	}
	dist := pl.Point.Sub(origin).Dot(n)
	denom := dir.Dot(n)
	if math.Abs(denom) < 1e-12 {
		// Parallel; only hits if the ray lies in the plane.
		return math.Abs(dist) < 1e-12, nil
	}
	return dist/denom >= 0, nil
}

// Sphere is the surface of a ball.
type Sphere struct {
	Center Point3
	Radius float64
}

func (s Sphere) ClosestPoint(pt Point3) (Point3, error) {
	if !(s.Radius > 0) {
		return Point3{}, &NoSurfaceError{Err: errDegenerateSurface}
	}
	d, ok := pt.Sub(s.Center).TryNormalize()
	if !ok {
		// Every surface point is equally close to the center.
		d = Vec(1, 0, 0)
	}
	return s.Center.Translate(d.Mul(s.Radius)), nil
}

func (s Sphere) Intersects(origin Point3, dir Vec3) (bool, error) {
	if !(s.Radius > 0) {
		return false, &NoSurfaceError{Err: errDegenerateSurface}
	}
	oc := origin.Sub(s.Center)
	a := dir.Hypot2()
	halfB := oc.Dot(dir)
	c := oc.Hypot2() - s.Radius*s.Radius
	disc := halfB*halfB - a*c
	if disc < 0 {
		return false, nil
	}
	sq := math.Sqrt(disc)
	// The far root is the larger one; if it is behind the origin, so is
	// the near one.
	return (-halfB+sq)/a >= 0, nil
}

// distanceTo returns the distance from pt to the surface.
func distanceTo(s Surface, pt Point3) (float64, error) {
	c, err := s.ClosestPoint(pt)
	if err != nil {
		return 0, surfaceError(err)
	}
	return pt.Distance(c), nil
}
