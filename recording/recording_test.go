package recording

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"honnef.co/go/strokefit"
)

const levelStroke = `
mode: level
start_level: 1
surface:
  plane:
    point: [0, 0, 0]
    normal: [0, 0, 1]
samples:
  - origin: [0, 0, 10]
    direction: [0, 0, -1]
  - origin: [1, 0, 10]
    direction: [0, 0, -1]
  - origin: [2, 0, 10]
    direction: [0, 0, -1]
`

func TestReplay(t *testing.T) {
	rec, err := Decode(strings.NewReader(levelStroke))
	require.NoError(t, err)
	require.Len(t, rec.Samples, 3)

	surface, err := rec.Surface("")
	require.NoError(t, err)
	assert.Equal(t, strokefit.Plane{Point: strokefit.Pt3(0, 0, 0), Normal: strokefit.Vec(0, 0, 1)}, surface)

	opts := strokefit.DefaultOptions()
	opts.Mode = strokefit.FurMode
	rec.Apply(&opts)
	assert.Equal(t, strokefit.LevelMode, opts.Mode)
	assert.Equal(t, 1.0, opts.StartLevel)
	assert.Equal(t, 0.0, opts.EndLevel)

	var sink strokefit.PointSink
	s, err := strokefit.NewSession(surface, &sink, opts)
	require.NoError(t, err)
	res, err := rec.Replay(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, res.Points, 3)
	for i, p := range res.Points {
		assert.InDelta(t, float64(i), p.X, 1e-9)
		assert.InDelta(t, 1, p.Z, 1e-9)
	}
	assert.Equal(t, 1, s.Curves())
	assert.False(t, s.Active())
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(strings.NewReader(levelStroke + "color: red\n"))
	assert.ErrorContains(t, err, "color")

	_, err = Decode(strings.NewReader("surface:\n  sphere: {center: [0, 0, 0], radius: 1}\n"))
	assert.ErrorIs(t, err, ErrNoSamples)

	_, err = Decode(strings.NewReader("mode: hair\nsamples: [{origin: [0, 0, 0], direction: [0, 0, 1]}]\n"))
	assert.ErrorIs(t, err, strokefit.ErrInvalidOptions)

	_, err = Decode(strings.NewReader(""))
	assert.Error(t, err)
}

func TestSurface(t *testing.T) {
	dir := t.TempDir()
	obj := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tri.obj"), []byte(obj), 0o644))

	rec := &Recording{Target: Surface{Mesh: "tri.obj"}}
	s, err := rec.Surface(dir)
	require.NoError(t, err)
	m, ok := s.(*strokefit.Mesh)
	require.True(t, ok)
	assert.Equal(t, 1, m.Len())

	rec = &Recording{Target: Surface{Sphere: &Sphere{Center: Vector{1, 2, 3}, Radius: 2}}}
	s, err = rec.Surface(dir)
	require.NoError(t, err)
	assert.Equal(t, strokefit.Sphere{Center: strokefit.Pt3(1, 2, 3), Radius: 2}, s)

	for _, bad := range []Surface{
		{},
		{Mesh: "tri.obj", Sphere: &Sphere{Radius: 1}},
	} {
		rec := &Recording{Target: bad}
		_, err := rec.Surface(dir)
		assert.ErrorIs(t, err, ErrInvalidSurface)
	}

	rec = &Recording{Target: Surface{Mesh: "missing.obj"}}
	_, err = rec.Surface(dir)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRoundTrip(t *testing.T) {
	stroke := strokefit.Stroke{
		{Origin: strokefit.Pt3(0, 0, 10), Direction: strokefit.Vec(0, 0, -1), T: 3},
		{Origin: strokefit.Pt3(0.5, -1, 10), Direction: strokefit.Vec(0.1, 0, -1)},
	}
	opts := strokefit.DefaultOptions()
	opts.Mode = strokefit.FeatherMode
	opts.StartLevel = 0.25
	rec := FromStroke(stroke, opts, Surface{Mesh: "head.obj"})

	var buf bytes.Buffer
	require.NoError(t, rec.Encode(&buf))
	assert.Contains(t, buf.String(), "mode: feather")
	assert.Contains(t, buf.String(), "origin: [0.5, -1, 10]")

	got, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestReplayInvalidSample(t *testing.T) {
	rec := &Recording{Samples: []Sample{
		{Origin: Vector{0, 0, 10}, Direction: Vector{0, 0, -1}},
		{Origin: Vector{1, 0, 10}, Direction: Vector{0, 0, 0}},
		{Origin: Vector{2, 0, 10}, Direction: Vector{0, 0, -1}},
	}}
	s, err := strokefit.NewSession(strokefit.Plane{Normal: strokefit.Vec(0, 0, 1)}, nil, strokefit.DefaultOptions())
	require.NoError(t, err)
	_, err = rec.Replay(context.Background(), s)
	assert.ErrorIs(t, err, strokefit.ErrInvalidRay)
	assert.False(t, s.Active())
	assert.Zero(t, s.Curves())
}
