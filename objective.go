package strokefit

import "math"

// Objective is the energy minimized by the refiner. It combines, per ray,
// the squared deviation from the target offset (error), the squared
// deviation from straightness at the ray (angle), and the squared lengths
// of the adjacent segments (length), weighted per mode.
//
// Terms are evaluated per ray index so that the refiner can update one ray
// without re-evaluating the whole stroke.
type Objective struct {
	surface Surface
	stroke  Stroke
	opts    Options
	weights Weights
}

// NewObjective returns the objective of stroke. The objective reads the
// stroke's t values on every evaluation, so changes made to the stroke are
// observed.
func NewObjective(s Surface, stroke Stroke, opts Options) *Objective {
	return &Objective{
		surface: s,
		stroke:  stroke,
		opts:    opts,
		weights: opts.WeightsFor(opts.Mode),
	}
}

func (o *Objective) point(i int) Point3 { return o.stroke[i].Position() }

// ErrorTerm returns the squared offset error of ray i. In fur and feather
// mode only the root and tip are constrained; interior rays return zero.
func (o *Objective) ErrorTerm(i int) (float64, error) {
	n := len(o.stroke)
	if o.opts.Mode != LevelMode && i != 0 && i != n-1 {
		return 0, nil
	}
	d, err := distanceTo(o.surface, o.point(i))
	if err != nil {
		return 0, err
	}
	e := d - o.opts.level(i, n)
	return e * e, nil
}

// AngleTerm returns (1 − u·v)², where u and v are the unit directions of the
// segments entering and leaving ray i. It is zero for collinear segments
// and for segments too short to have a direction.
//
// The root of a level stroke and the tip of any stroke have no angle. The
// root of a fur or feather stroke is compared against a synthetic control
// point placed on the root's incoming direction, see [Objective.RootDirection].
func (o *Objective) AngleTerm(i int) (float64, error) {
	n := len(o.stroke)
	if i < 0 || i >= n-1 {
		return 0, nil
	}
	if i == 0 {
		if o.opts.Mode == LevelMode {
			return 0, nil
		}
		in, ok, err := o.RootDirection()
		if err != nil || !ok {
			return 0, err
		}
		out, ok := o.point(1).Sub(o.point(0)).TryNormalize()
		if !ok {
			return 0, nil
		}
		return angleCost(in, out), nil
	}
	in, ok1 := o.point(i).Sub(o.point(i - 1)).TryNormalize()
	out, ok2 := o.point(i + 1).Sub(o.point(i)).TryNormalize()
	if !ok1 || !ok2 {
		return 0, nil
	}
	return angleCost(in, out), nil
}

func angleCost(in, out Vec3) float64 {
	d := in.Dot(out)
	if math.IsNaN(d) {
		return 0
	}
	d = max(-1, min(1, d))
	return (1 - d) * (1 - d)
}

// RootDirection returns the unit direction in which a fur or feather
// stroke should leave its root. It reports false if the direction is
// undefined, which is the case when the root lies on the surface.
//
// For fur, this is the surface normal at the root: the direction from the
// root's closest surface point to the root. Feathers lie in the stroke's
// minimum-skew plane, whose normal is D × (R × D), where D points from the
// tip to the root and R is the tip ray's direction. Their root direction
// is the surface normal projected into that plane, oriented towards the
// tip. When the normal is perpendicular to the plane the chord from root
// to tip is used instead, and when the chord is parallel to the tip ray
// feathers fall back to the fur direction.
func (o *Objective) RootDirection() (Vec3, bool, error) {
	p0 := o.point(0)
	c, err := o.surface.ClosestPoint(p0)
	if err != nil {
		return Vec3{}, false, surfaceError(err)
	}
	normal, ok := p0.Sub(c).TryNormalize()
	if !ok {
		return Vec3{}, false, nil
	}
	if o.opts.Mode != FeatherMode {
		return normal, true, nil
	}
	tip := o.stroke[len(o.stroke)-1]
	d := p0.Sub(tip.Position())
	skew, ok := d.Cross(tip.Direction.Cross(d)).TryNormalize()
	if !ok {
		return normal, true, nil
	}
	dir, ok := normal.Sub(skew.Mul(skew.Dot(normal))).TryNormalize()
	if !ok {
		dir = d.Negate().Normalize()
	}
	if dir.Dot(d) > 0 {
		dir = dir.Negate()
	}
	return dir, true, nil
}

// LengthTerm returns the sum of the squared lengths of the segments
// adjacent to ray i.
func (o *Objective) LengthTerm(i int) float64 {
	n := len(o.stroke)
	p := o.point(i)
	var out float64
	if i > 0 {
		out += p.DistanceSquared(o.point(i - 1))
	}
	if i < n-1 {
		out += p.DistanceSquared(o.point(i + 1))
	}
	return out
}

// Assess returns the part of the objective that depends on the t value of
// ray i: its error and length terms, and the angle terms of itself and its
// neighbours. The root of a fur or feather stroke is anchored by its error
// term alone. The tip of a feather also steers the root direction, so its
// assessment includes the root's angle term.
func (o *Objective) Assess(i int) (float64, error) {
	w := o.weights
	e, err := o.ErrorTerm(i)
	if err != nil {
		return 0, err
	}
	if i == 0 && o.opts.Mode != LevelMode {
		return w.Error * e, nil
	}
	var a float64
	for j := i - 1; j <= i+1; j++ {
		if j < 0 {
			continue
		}
		aj, err := o.AngleTerm(j)
		if err != nil {
			return 0, err
		}
		a += aj
	}
	if o.opts.Mode == FeatherMode && i == len(o.stroke)-1 && i-1 > 0 {
		a0, err := o.AngleTerm(0)
		if err != nil {
			return 0, err
		}
		a += a0
	}
	return w.Error*e + w.Angle*a + w.Length*o.LengthTerm(i), nil
}

// Gradient returns the forward difference Assess(i) at t+h minus Assess(i)
// at t. The t value of ray i is restored before returning.
func (o *Objective) Gradient(i int, h float64) (float64, error) {
	cur, err := o.Assess(i)
	if err != nil {
		return 0, err
	}
	t := o.stroke[i].T
	o.stroke[i].T = t + h
	next, err := o.Assess(i)
	o.stroke[i].T = t
	if err != nil {
		return 0, err
	}
	return next - cur, nil
}

// Total returns the objective of the whole stroke. Each segment's length
// is counted once.
func (o *Objective) Total() (float64, error) {
	w := o.weights
	var total float64
	for i := range o.stroke {
		e, err := o.ErrorTerm(i)
		if err != nil {
			return 0, err
		}
		a, err := o.AngleTerm(i)
		if err != nil {
			return 0, err
		}
		total += w.Error*e + w.Angle*a
		if i > 0 {
			total += w.Length * o.point(i).DistanceSquared(o.point(i-1))
		}
	}
	return total, nil
}

// AngleTotal returns the sum of all angle terms.
func (o *Objective) AngleTotal() (float64, error) {
	var total float64
	for i := range o.stroke {
		a, err := o.AngleTerm(i)
		if err != nil {
			return 0, err
		}
		total += a
	}
	return total, nil
}
