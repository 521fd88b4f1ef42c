package strokefit

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadOBJ reads the vertices and faces of a Wavefront OBJ stream into a
// mesh. Faces with more than three vertices are fan-triangulated; texture
// and normal indices are ignored, negative (relative) indices are
// supported. All other statements are skipped.
func ReadOBJ(r io.Reader) (*Mesh, error) {
	var (
		verts []Point3
		faces [][3]int
	)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj: line %d: vertex needs 3 coordinates", line)
			}
			var xyz [3]float64
			for i := range xyz {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("obj: line %d: %w", line, err)
				}
				xyz[i] = f
			}
			verts = append(verts, Pt3(xyz[0], xyz[1], xyz[2]))
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("obj: line %d: face needs at least 3 vertices", line)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, f := range fields[1:] {
				ref, _, _ := strings.Cut(f, "/")
				n, err := strconv.Atoi(ref)
				if err != nil {
					return nil, fmt.Errorf("obj: line %d: %w", line, err)
				}
				switch {
				case n > 0:
					n--
				case n < 0:
					n += len(verts)
				default:
					return nil, fmt.Errorf("obj: line %d: vertex index 0", line)
				}
				idx = append(idx, n)
			}
			for i := 1; i+1 < len(idx); i++ {
				faces = append(faces, [3]int{idx[0], idx[i], idx[i+1]})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("obj: %w", err)
	}
	return NewMesh(verts, faces)
}

// OBJEmitter writes each emitted curve as a Wavefront OBJ polyline.
// Vertex indices continue across curves written to the same emitter.
type OBJEmitter struct {
	W io.Writer

	written int
}

var _ Emitter = (*OBJEmitter)(nil)

func (e *OBJEmitter) Emit(points []Point3) error {
	bw := bufio.NewWriter(e.W)
	for _, p := range points {
		fmt.Fprintf(bw, "v %s %s %s\n", formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z))
	}
	bw.WriteString("l")
	for i := range points {
		fmt.Fprintf(bw, " %d", e.written+i+1)
	}
	bw.WriteString("\n")
	if err := bw.Flush(); err != nil {
		return err
	}
	e.written += len(points)
	return nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
