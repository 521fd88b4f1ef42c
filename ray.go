package strokefit

import (
	"fmt"
	"math"
)

// Ray is one sample of a stroke: a picking ray and the resolved parameter
// along it.
type Ray struct {
	Origin    Point3
	Direction Vec3
	T         float64
}

// NewRay returns a ray with t = 0. It returns [ErrInvalidRay] if the
// direction is zero or any component is not finite.
func NewRay(origin Point3, dir Vec3) (Ray, error) {
	if !origin.IsFinite() || dir.IsNaN() || dir.IsInf() || dir.IsZero() {
		return Ray{}, fmt.Errorf("%w: origin %v, direction %v", ErrInvalidRay, origin, dir)
	}
	return Ray{Origin: origin, Direction: dir}, nil
}

// Position returns origin + t·direction.
func (r Ray) Position() Point3 {
	return r.At(r.T)
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Point3 {
	return r.Origin.Translate(r.Direction.Mul(t))
}

// Stroke is the ordered list of samples of one gesture. Index 0 is the
// root, the last index the tip.
type Stroke []Ray

// Points returns the positions of all rays.
func (s Stroke) Points() []Point3 {
	out := make([]Point3, len(s))
	for i, r := range s {
		out[i] = r.Position()
	}
	return out
}

// Params returns the t values of all rays.
func (s Stroke) Params() []float64 {
	out := make([]float64, len(s))
	for i, r := range s {
		out[i] = r.T
	}
	return out
}

// Length returns the length of the polyline through the positions of all
// rays.
func (s Stroke) Length() float64 {
	var l float64
	for i := 1; i < len(s); i++ {
		l += Segment3{s[i-1].Position(), s[i].Position()}.Length()
	}
	return l
}

// Clone returns a copy of s that shares no memory with it.
func (s Stroke) Clone() Stroke {
	if s == nil {
		return nil
	}
	out := make(Stroke, len(s))
	copy(out, s)
	return out
}

func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
