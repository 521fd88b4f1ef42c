package strokefit

import (
	"math"
	"testing"
)

// strokeAt returns rays cast straight down from z = 10 at x = 0, 1, 2, …
// whose positions have the given heights.
func strokeAt(zs ...float64) Stroke {
	s := make(Stroke, len(zs))
	for i, z := range zs {
		s[i] = Ray{Origin: Pt3(float64(i), 0, 10), Direction: Vec(0, 0, -1), T: 10 - z}
	}
	return s
}

func modeOptions(mode Mode, start, end float64) Options {
	opts := DefaultOptions()
	opts.Mode = mode
	opts.StartLevel = start
	opts.EndLevel = end
	return opts
}

func TestObjectiveErrorTerm(t *testing.T) {
	s := strokeAt(1.5, 2, 0.5)
	o := NewObjective(ground, s, modeOptions(LevelMode, 1, 0))
	for i, want := range []float64{0.25, 1, 0.25} {
		got, err := o.ErrorTerm(i)
		if err != nil {
			t.Fatal(err)
		}
		if !approxEqual(got, want, 1e-12) {
			t.Errorf("ErrorTerm(%d) = %v, want %v", i, got, want)
		}
	}

	o = NewObjective(ground, s, modeOptions(FurMode, 1, 0))
	for i, want := range []float64{0.25, 0, 0.25} {
		got, err := o.ErrorTerm(i)
		if err != nil {
			t.Fatal(err)
		}
		if !approxEqual(got, want, 1e-12) {
			t.Errorf("fur ErrorTerm(%d) = %v, want %v", i, got, want)
		}
	}

	// The objective observes changes to the stroke.
	s[1].T = 9
	o = NewObjective(ground, s, modeOptions(LevelMode, 1, 0))
	if got, _ := o.ErrorTerm(1); got != 0 {
		t.Errorf("ErrorTerm(1) = %v after moving the ray onto its level", got)
	}
}

func TestObjectiveAngleTerm(t *testing.T) {
	o := NewObjective(ground, strokeAt(1, 1, 1), modeOptions(LevelMode, 1, 0))
	for i := range 3 {
		if got, err := o.AngleTerm(i); err != nil || got != 0 {
			t.Errorf("AngleTerm(%d) of a straight stroke = (%v, %v), want 0", i, got, err)
		}
	}

	// A right angle at the middle ray.
	s := Stroke{
		{Origin: Pt3(0, 0, 1), Direction: Vec(0, 0, -1)},
		{Origin: Pt3(1, 0, 1), Direction: Vec(0, 0, -1)},
		{Origin: Pt3(1, 1, 1), Direction: Vec(0, 0, -1)},
	}
	o = NewObjective(ground, s, modeOptions(LevelMode, 1, 0))
	if got, _ := o.AngleTerm(1); !approxEqual(got, 1, 1e-12) {
		t.Errorf("got %v for a right angle, want 1", got)
	}

	// Turning back on itself.
	s[2].Origin = Pt3(0, 0, 1)
	if got, _ := o.AngleTerm(1); !approxEqual(got, 4, 1e-12) {
		t.Errorf("got %v for a reversal, want 4", got)
	}

	// Coincident points have no direction.
	s[2].Origin = s[1].Origin
	got, err := o.AngleTerm(1)
	if err != nil || got != 0 || math.IsNaN(got) {
		t.Errorf("got (%v, %v) for a zero-length segment, want 0", got, err)
	}
}

func TestObjectiveRootDirection(t *testing.T) {
	s := strokeAt(0.5, 0.4, 0.2, 0)
	fur := NewObjective(ground, s, modeOptions(FurMode, 0.5, 0))
	dir, ok, err := fur.RootDirection()
	if err != nil || !ok {
		t.Fatalf("got (%t, %v)", ok, err)
	}
	diff(t, Vec(0, 0, 1), dir, approx(1e-12))

	// Feathers leave the root in the plane of the stroke, towards the tip.
	feather := NewObjective(ground, s, modeOptions(FeatherMode, 0.5, 0))
	dir, ok, err = feather.RootDirection()
	if err != nil || !ok {
		t.Fatalf("got (%t, %v)", ok, err)
	}
	diff(t, Vec(3, 0, -0.5).Normalize(), dir, approx(1e-9))

	// A root on the surface has no normal.
	onSurface := NewObjective(ground, strokeAt(0, 1, 1), modeOptions(FurMode, 0, 0))
	if _, ok, err := onSurface.RootDirection(); ok || err != nil {
		t.Errorf("got (%t, %v), want no direction", ok, err)
	}
	if a, err := onSurface.AngleTerm(0); a != 0 || err != nil {
		t.Errorf("got (%v, %v) for the root angle, want 0", a, err)
	}
}

func TestObjectiveAssessRoot(t *testing.T) {
	// The root of a fur stroke is anchored by its error alone.
	s := strokeAt(1.5, 3, 0, 4)
	o := NewObjective(ground, s, modeOptions(FurMode, 1, 0))
	got, err := o.Assess(0)
	if err != nil {
		t.Fatal(err)
	}
	if !approxEqual(got, 0.25, 1e-12) {
		t.Errorf("Assess(0) = %v, want 0.25", got)
	}
}

func TestObjectiveGradientSign(t *testing.T) {
	const h = 0.001
	check := func(o *Objective, s Stroke, i int) {
		t.Helper()
		grad, err := o.Gradient(i, h)
		if err != nil {
			t.Fatal(err)
		}
		before, _ := o.Total()
		t0 := s[i].T
		s[i].T = t0 + h
		after, _ := o.Total()
		s[i].T = t0
		want := after - before
		if math.Signbit(grad) != math.Signbit(want) || !approxEqual(grad, want, 1e-12) {
			t.Errorf("ray %d: gradient %v, objective changed by %v", i, grad, want)
		}
	}

	level := strokeAt(1.08, 1.0, 1.05, 1.02)
	o := NewObjective(ground, level, modeOptions(LevelMode, 1, 0))
	for i := range level {
		check(o, level, i)
	}

	fur := strokeAt(0.5, 0.9, 1.1, 0.7, 0.2)
	o = NewObjective(ground, fur, modeOptions(FurMode, 0.5, 0))
	for i := 1; i < len(fur)-1; i++ {
		check(o, fur, i)
	}

	// The tip of a feather steers the root direction.
	feather := strokeAt(0.5, 0.9, 1.1, 0.7, 0.2)
	o = NewObjective(ground, feather, modeOptions(FeatherMode, 0.5, 0))
	for i := 1; i < len(feather); i++ {
		check(o, feather, i)
	}

	// Gradient leaves the stroke unchanged.
	diff(t, strokeAt(0.5, 0.9, 1.1, 0.7, 0.2), fur)
}

func TestObjectiveTotal(t *testing.T) {
	s := strokeAt(1, 1, 1)
	opts := modeOptions(FurMode, 1, 1)
	o := NewObjective(ground, s, opts)
	got, err := o.Total()
	if err != nil {
		t.Fatal(err)
	}
	// Two unit segments; the root angle against the surface normal is a
	// right angle.
	w := opts.WeightsFor(FurMode)
	if want := 2*w.Length + w.Angle; !approxEqual(got, want, 1e-12) {
		t.Errorf("Total() = %v, want %v", got, want)
	}
	a, err := o.AngleTotal()
	if err != nil || !approxEqual(a, 1, 1e-12) {
		t.Errorf("AngleTotal() = (%v, %v), want 1", a, err)
	}
}
