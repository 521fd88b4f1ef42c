package strokefit

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func diff(t *testing.T, want, got any, opts ...cmp.Option) {
	t.Helper()
	if d := cmp.Diff(want, got, opts...); d != "" {
		t.Error(d)
	}
}

func approx(epsilon float64) cmp.Option {
	return cmpopts.EquateApprox(0, epsilon)
}

func approxEqual(x, y, epsilon float64) bool {
	return math.Abs(x-y) <= epsilon
}

// downRays returns rays cast straight down from height h at the given x
// coordinates.
func downRays(h float64, xs ...float64) Stroke {
	out := make(Stroke, len(xs))
	for i, x := range xs {
		out[i] = Ray{Origin: Pt3(x, 0, h), Direction: Vec(0, 0, -1)}
	}
	return out
}

// ground is the plane z = 0.
var ground = Plane{Point: Pt3(0, 0, 0), Normal: Vec(0, 0, 1)}

// countingSurface counts queries to the wrapped surface.
type countingSurface struct {
	Surface
	closest int
	hits    int
}

func (c *countingSurface) ClosestPoint(pt Point3) (Point3, error) {
	c.closest++
	return c.Surface.ClosestPoint(pt)
}

func (c *countingSurface) Intersects(origin Point3, dir Vec3) (bool, error) {
	c.hits++
	return c.Surface.Intersects(origin, dir)
}

// failingSurface fails every query with err.
type failingSurface struct{ err error }

func (f failingSurface) ClosestPoint(Point3) (Point3, error)   { return Point3{}, f.err }
func (f failingSurface) Intersects(Point3, Vec3) (bool, error) { return false, f.err }

var cmpIgnoreResidual = cmpopts.IgnoreFields(NonConvergenceWarning{}, "Residual")
