package strokefit

import (
	"bufio"
	"io"
	"slices"
)

// Emitter receives the points of every successfully fitted stroke and
// turns them into a curve. The slice must not be retained.
type Emitter interface {
	Emit(points []Point3) error
}

// EmitterFunc adapts a function to [Emitter].
type EmitterFunc func(points []Point3) error

func (f EmitterFunc) Emit(points []Point3) error { return f(points) }

// PointSink is an Emitter that keeps copies of all emitted curves.
type PointSink struct {
	Curves [][]Point3
}

var _ Emitter = (*PointSink)(nil)

func (s *PointSink) Emit(points []Point3) error {
	s.Curves = append(s.Curves, slices.Clone(points))
	return nil
}

// Last returns the most recently emitted curve, or nil.
func (s *PointSink) Last() []Point3 {
	if len(s.Curves) == 0 {
		return nil
	}
	return s.Curves[len(s.Curves)-1]
}

// MELEmitter writes a degree-1 curve creation command per curve, of the
// form
//
//	curve -d 1 -p x0 y0 z0 -p x1 y1 z1 ...;
type MELEmitter struct {
	W io.Writer
}

var _ Emitter = MELEmitter{}

func (e MELEmitter) Emit(points []Point3) error {
	bw := bufio.NewWriter(e.W)
	bw.WriteString("curve -d 1")
	for _, p := range points {
		bw.WriteString(" -p ")
		bw.WriteString(formatFloat(p.X))
		bw.WriteByte(' ')
		bw.WriteString(formatFloat(p.Y))
		bw.WriteByte(' ')
		bw.WriteString(formatFloat(p.Z))
	}
	bw.WriteString(";\n")
	return bw.Flush()
}

// MultiEmitter emits every curve to each emitter in turn, stopping at the
// first error.
type MultiEmitter []Emitter

func (m MultiEmitter) Emit(points []Point3) error {
	for _, e := range m {
		if err := e.Emit(points); err != nil {
			return err
		}
	}
	return nil
}
