// Package recording stores strokes as YAML documents so that they can be
// fitted again outside of an interactive host.
//
// A recording names the surface the stroke was drawn on and lists its
// samples in order, root first:
//
//	mode: feather
//	start_level: 0.5
//	end_level: 0
//	surface:
//	  mesh: head.obj
//	samples:
//	  - origin: [0, 0, 10]
//	    direction: [0, 0, -1]
//	  - origin: [1, 0, 10]
//	    direction: [0, 0, -1]
package recording

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"honnef.co/go/strokefit"
)

var (
	// ErrNoSamples indicates a recording without samples
	ErrNoSamples = errors.New("recording: no samples")
	// ErrInvalidSurface indicates a surface description that doesn't name
	// exactly one surface
	ErrInvalidSurface = errors.New("recording: surface must be exactly one of plane, sphere or mesh")
)

// Vector is a point or direction, written as a flow sequence.
type Vector [3]float64

func (v Vector) point() strokefit.Point3 { return strokefit.Pt3(v[0], v[1], v[2]) }
func (v Vector) vec() strokefit.Vec3     { return strokefit.Vec(v[0], v[1], v[2]) }

// MarshalYAML writes vectors in flow style.
func (v Vector) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, f := range v {
		var c yaml.Node
		if err := c.Encode(f); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, &c)
	}
	return n, nil
}

type Plane struct {
	Point  Vector `yaml:"point"`
	Normal Vector `yaml:"normal"`
}

type Sphere struct {
	Center Vector  `yaml:"center"`
	Radius float64 `yaml:"radius"`
}

// Surface describes the target surface. Exactly one field must be set.
type Surface struct {
	Plane  *Plane  `yaml:"plane,omitempty"`
	Sphere *Sphere `yaml:"sphere,omitempty"`
	// Mesh is the path of a Wavefront OBJ file, relative to the
	// recording.
	Mesh string `yaml:"mesh,omitempty"`
}

type Sample struct {
	Origin    Vector `yaml:"origin"`
	Direction Vector `yaml:"direction"`
}

// Recording is one stroke. Mode and levels are optional and override the
// options of the session the recording is replayed into.
type Recording struct {
	Mode       *strokefit.Mode `yaml:"mode,omitempty"`
	StartLevel *float64        `yaml:"start_level,omitempty"`
	EndLevel   *float64        `yaml:"end_level,omitempty"`
	Target     Surface         `yaml:"surface"`
	Samples    []Sample        `yaml:"samples"`
}

// Decode reads a recording. Unknown fields are an error.
func Decode(r io.Reader) (*Recording, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var rec *Recording
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("recording: %w", err)
	}
	if rec == nil || len(rec.Samples) == 0 {
		return nil, ErrNoSamples
	}
	return rec, nil
}

// Load reads the recording in the named file.
func Load(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes the recording as YAML.
func (rec *Recording) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(rec); err != nil {
		return err
	}
	return enc.Close()
}

// Surface resolves the target surface. Mesh paths are relative to baseDir.
func (rec *Recording) Surface(baseDir string) (strokefit.Surface, error) {
	s := rec.Target
	n := 0
	for _, set := range []bool{s.Plane != nil, s.Sphere != nil, s.Mesh != ""} {
		if set {
			n++
		}
	}
	if n != 1 {
		return nil, ErrInvalidSurface
	}

	switch {
	case s.Plane != nil:
		return strokefit.Plane{Point: s.Plane.Point.point(), Normal: s.Plane.Normal.vec()}, nil
	case s.Sphere != nil:
		return strokefit.Sphere{Center: s.Sphere.Center.point(), Radius: s.Sphere.Radius}, nil
	default:
		path := s.Mesh
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		m, err := strokefit.ReadOBJ(f)
		if err != nil {
			return nil, fmt.Errorf("recording: %s: %w", s.Mesh, err)
		}
		return m, nil
	}
}

// Apply overrides the mode and levels of opts with those of the recording.
func (rec *Recording) Apply(opts *strokefit.Options) {
	if rec.Mode != nil {
		opts.Mode = *rec.Mode
	}
	if rec.StartLevel != nil {
		opts.StartLevel = *rec.StartLevel
	}
	if rec.EndLevel != nil {
		opts.EndLevel = *rec.EndLevel
	}
}

// Replay draws the recorded stroke in s.
func (rec *Recording) Replay(ctx context.Context, s *strokefit.Session) (strokefit.Result, error) {
	if len(rec.Samples) == 0 {
		return strokefit.Result{}, ErrNoSamples
	}
	s.BeginStroke()
	last := len(rec.Samples) - 1
	for i, smp := range rec.Samples[:last] {
		if err := s.ExtendStroke(smp.Origin.point(), smp.Direction.vec()); err != nil {
			s.Abort()
			return strokefit.Result{}, fmt.Errorf("recording: sample %d: %w", i, err)
		}
	}
	end := rec.Samples[last]
	return s.EndStroke(ctx, end.Origin.point(), end.Direction.vec())
}

// FromStroke returns a recording of the samples of stroke.
func FromStroke(stroke strokefit.Stroke, opts strokefit.Options, surface Surface) *Recording {
	mode := opts.Mode
	start, end := opts.StartLevel, opts.EndLevel
	rec := &Recording{
		Mode:       &mode,
		StartLevel: &start,
		EndLevel:   &end,
		Target:     surface,
		Samples:    make([]Sample, len(stroke)),
	}
	for i, r := range stroke {
		rec.Samples[i] = Sample{
			Origin:    Vector{r.Origin.X, r.Origin.Y, r.Origin.Z},
			Direction: Vector{r.Direction.X, r.Direction.Y, r.Direction.Z},
		}
	}
	return rec
}
