package strokefit

import (
	"context"
	"errors"
	"math"
	"testing"
)

// orthoViewport casts rays straight down, one world unit per ten pixels.
type orthoViewport struct{}

func (orthoViewport) ViewToWorld(x, y int) (Point3, Vec3) {
	return Pt3(float64(x)/10, float64(y)/10, 10), Vec(0, 0, -1)
}

func TestTool(t *testing.T) {
	var sink PointSink
	s, err := NewSession(ground, &sink, modeOptions(LevelMode, 1, 0))
	if err != nil {
		t.Fatal(err)
	}
	tool := NewTool(s, orthoViewport{})
	if err := tool.Press(0, 0); err != nil {
		t.Fatal(err)
	}
	for _, tc := range []struct {
		x, y int
		want bool
	}{
		{1, 0, false},
		{2, 2, false},
		{3, 0, true},
		{4, 1, false},
		{10, 0, true},
		{10, 10, true},
	} {
		got, err := tool.Drag(tc.x, tc.y)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Errorf("Drag(%d, %d) = %t, want %t", tc.x, tc.y, got, tc.want)
		}
	}
	res, err := tool.Release(context.Background(), 20, 10)
	if err != nil {
		t.Fatal(err)
	}
	want := []Point3{Pt3(0, 0, 1), Pt3(0.3, 0, 1), Pt3(1, 0, 1), Pt3(1, 1, 1), Pt3(2, 1, 1)}
	diff(t, want, res.Points, approx(1e-9))
	diff(t, [][]Point3{res.Points}, sink.Curves)

	if _, err := tool.Drag(50, 50); !errors.Is(err, ErrNoStroke) {
		t.Errorf("got %v, want %v", err, ErrNoStroke)
	}
}

func TestToolReleaseAtLastDrag(t *testing.T) {
	s, err := NewSession(ground, nil, modeOptions(LevelMode, 1, 0))
	if err != nil {
		t.Fatal(err)
	}
	tool := NewTool(s, orthoViewport{})
	if err := tool.Press(0, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := tool.Drag(10, 0); err != nil {
		t.Fatal(err)
	}
	res, err := tool.Release(context.Background(), 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, []Point3{Pt3(0, 0, 1), Pt3(1, 0, 1)}, res.Points, approx(1e-9))
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings %v", res.Warnings)
	}
}

func TestPerspectiveCamera(t *testing.T) {
	c := PerspectiveCamera{
		Eye:    Pt3(0, 0, 10),
		Target: Pt3(0, 0, 0),
		Up:     Vec(0, 1, 0),
		FOV:    90,
		Width:  101,
		Height: 101,
	}
	if err := c.Validate(); err != nil {
		t.Fatal(err)
	}

	origin, dir := c.ViewToWorld(50, 50)
	diff(t, c.Eye, origin)
	diff(t, Vec(0, 0, -1), dir, approx(1e-12))

	// Top left is up and to the left, 45° off axis at the image border.
	_, dir = c.ViewToWorld(0, 0)
	diff(t, Vec(-1+1.0/101, 1-1.0/101, -1), dir, approx(1e-12))

	_, dir = c.ViewToWorld(100, 50)
	if angle := math.Atan2(dir.X, -dir.Z) * 180 / math.Pi; !approxEqual(angle, 45*100.0/101, 0.5) {
		t.Errorf("got horizontal angle %v", angle)
	}

	for _, bad := range []PerspectiveCamera{
		{Eye: Pt3(0, 0, 0), Target: Pt3(0, 0, 0), Up: Vec(0, 1, 0), FOV: 90, Width: 1, Height: 1},
		{Eye: Pt3(0, 0, 1), Target: Pt3(0, 0, 0), Up: Vec(0, 0, 1), FOV: 90, Width: 1, Height: 1},
		{Eye: Pt3(0, 0, 1), Target: Pt3(0, 0, 0), Up: Vec(0, 1, 0), FOV: 180, Width: 1, Height: 1},
		{Eye: Pt3(0, 0, 1), Target: Pt3(0, 0, 0), Up: Vec(0, 1, 0), FOV: 60, Width: 0, Height: 1},
	} {
		if err := bad.Validate(); err == nil {
			t.Errorf("%+v: expected error", bad)
		}
	}
}

func TestToolWithCamera(t *testing.T) {
	c := PerspectiveCamera{
		Eye:    Pt3(0, 0, 10),
		Target: Pt3(0, 0, 0),
		Up:     Vec(0, 1, 0),
		FOV:    60,
		Width:  200,
		Height: 100,
	}
	opts := modeOptions(LevelMode, 1, 0)
	s, err := NewSession(ground, nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	tool := NewTool(s, c)
	tool.Press(80, 50)
	tool.Drag(100, 50)
	res, err := tool.Release(context.Background(), 120, 50)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range res.Points {
		if p.Z < 0.9 || p.Z > 1+opts.Tolerance {
			t.Errorf("point %v is not at level 1", p)
		}
	}
}
