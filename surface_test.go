package strokefit

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestPlane(t *testing.T) {
	pl := Plane{Point: Pt3(0, 0, 1), Normal: Vec(0, 0, 2)}
	c, err := pl.ClosestPoint(Pt3(3, 4, 5))
	if err != nil {
		t.Fatal(err)
	}
	diff(t, Pt3(3, 4, 1), c)

	f := func(origin Point3, dir Vec3, want bool) {
		t.Helper()
		got, err := pl.Intersects(origin, dir)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("Intersects(%v, %v) = %t, want %t", origin, dir, got, want)
		}
	}
	f(Pt3(0, 0, 5), Vec(0, 0, -1), true)
	f(Pt3(0, 0, 5), Vec(1, 0, -1), true)
	f(Pt3(0, 0, 5), Vec(0, 0, 1), false)
	f(Pt3(0, 0, -5), Vec(0, 0, 1), true)
	f(Pt3(0, 0, 5), Vec(1, 0, 0), false)
	f(Pt3(0, 0, 1), Vec(1, 0, 0), true)

	_, err = Plane{}.ClosestPoint(Pt3(0, 0, 0))
	if !errors.Is(err, ErrNoSurface) {
		t.Errorf("got error %v, want %v", err, ErrNoSurface)
	}
}

func TestSphere(t *testing.T) {
	s := Sphere{Center: Pt3(1, 0, 0), Radius: 2}
	c, err := s.ClosestPoint(Pt3(1, 0, 10))
	if err != nil {
		t.Fatal(err)
	}
	diff(t, Pt3(1, 0, 2), c)

	// The center is equidistant to every surface point.
	c, err = s.ClosestPoint(s.Center)
	if err != nil {
		t.Fatal(err)
	}
	if d := c.Distance(s.Center); !approxEqual(d, 2, 1e-12) {
		t.Errorf("got distance %v from center, want 2", d)
	}

	f := func(origin Point3, dir Vec3, want bool) {
		t.Helper()
		got, err := s.Intersects(origin, dir)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("Intersects(%v, %v) = %t, want %t", origin, dir, got, want)
		}
	}
	f(Pt3(1, 0, 10), Vec(0, 0, -1), true)
	f(Pt3(1, 0, 10), Vec(0, 0, 1), false)
	f(Pt3(1, 3, 10), Vec(0, 0, -1), false)
	// from inside
	f(Pt3(1, 0, 0), Vec(0, 1, 0), true)

	if _, err := (Sphere{Radius: -1}).Intersects(Pt3(0, 0, 0), Vec(1, 0, 0)); !errors.Is(err, ErrNoSurface) {
		t.Errorf("got error %v, want %v", err, ErrNoSurface)
	}
}

// unitSquare is the square [0, 1]² in the plane z = 0.
func unitSquare(t *testing.T) *Mesh {
	t.Helper()
	m, err := NewMesh(
		[]Point3{Pt3(0, 0, 0), Pt3(1, 0, 0), Pt3(1, 1, 0), Pt3(0, 1, 0)},
		[][3]int{{0, 1, 2}, {0, 2, 3}},
	)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestMesh(t *testing.T) {
	m := unitSquare(t)
	if n := m.Len(); n != 2 {
		t.Errorf("got %d triangles, want 2", n)
	}
	diff(t, Box3{Min: Pt3(0, 0, 0), Max: Pt3(1, 1, 0)}, m.Bounds())

	f := func(pt, want Point3) {
		t.Helper()
		got, err := m.ClosestPoint(pt)
		if err != nil {
			t.Fatal(err)
		}
		diff(t, want, got, approx(1e-12))
	}
	f(Pt3(0.25, 0.75, 3), Pt3(0.25, 0.75, 0))
	f(Pt3(0.75, 0.25, -3), Pt3(0.75, 0.25, 0))
	f(Pt3(2, 2, 1), Pt3(1, 1, 0))
	f(Pt3(0.5, -4, 0), Pt3(0.5, 0, 0))

	hit, err := m.Intersects(Pt3(0.9, 0.1, 2), Vec(0, 0, -1))
	if err != nil || !hit {
		t.Errorf("got (%t, %v), want hit", hit, err)
	}
	hit, err = m.Intersects(Pt3(1.5, 0.5, 2), Vec(0, 0, -1))
	if err != nil || hit {
		t.Errorf("got (%t, %v), want miss", hit, err)
	}
}

func TestMeshErrors(t *testing.T) {
	if _, err := NewMesh([]Point3{Pt3(0, 0, 0)}, [][3]int{{0, 0, 1}}); err == nil {
		t.Error("out of range face accepted")
	}
	if _, err := NewMesh([]Point3{Pt3(0, math.NaN(), 0)}, nil); err == nil {
		t.Error("NaN vertex accepted")
	}

	empty, err := NewMesh(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := empty.ClosestPoint(Pt3(0, 0, 0)); !errors.Is(err, ErrNoSurface) {
		t.Errorf("got error %v, want %v", err, ErrNoSurface)
	}
	if _, err := empty.Intersects(Pt3(0, 0, 0), Vec(1, 0, 0)); !errors.Is(err, ErrNoSurface) {
		t.Errorf("got error %v, want %v", err, ErrNoSurface)
	}
}

func TestReadOBJ(t *testing.T) {
	const src = `# unit square
o square
v 0 0 0
v 1 0 0
v 1 1 0 # corner
v 0 1 0
vn 0 0 1
f 1/1/1 2/2/1 3/3/1 4/4/1
f -4 -2 -1
`
	m, err := ReadOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if n := m.Len(); n != 3 {
		t.Errorf("got %d triangles, want 3", n)
	}
	c, err := m.ClosestPoint(Pt3(0.5, 0.5, 1))
	if err != nil {
		t.Fatal(err)
	}
	diff(t, Pt3(0.5, 0.5, 0), c, approx(1e-12))

	for _, bad := range []string{
		"v 0 0\n",
		"v 0 0 x\n",
		"v 0 0 0\nf 1 1\n",
		"v 0 0 0\nf 0 1 1\n",
		"v 0 0 0\nf 1 2 3\n",
	} {
		if _, err := ReadOBJ(strings.NewReader(bad)); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestDistanceToWrapsErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := distanceTo(failingSurface{boom}, Pt3(0, 0, 0))
	var nse *NoSurfaceError
	if !errors.As(err, &nse) {
		t.Fatalf("got %T, want *NoSurfaceError", err)
	}
	if !errors.Is(err, boom) || !errors.Is(err, ErrNoSurface) {
		t.Errorf("%v does not match both the cause and ErrNoSurface", err)
	}
	if got, want := err.Error(), "strokefit: no target surface: boom"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
