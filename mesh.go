package strokefit

import (
	"fmt"
	"math"
)

// Mesh is a triangle mesh surface. It is immutable after construction and
// safe for concurrent use. A nil *Mesh is an empty mesh.
type Mesh struct {
	tris   []Triangle
	boxes  []Box3
	bounds Box3
}

var _ Surface = (*Mesh)(nil)

// NewMesh builds a mesh from a vertex list and triangles given as indices
// into it.
func NewMesh(vertices []Point3, faces [][3]int) (*Mesh, error) {
	m := &Mesh{
		tris:   make([]Triangle, 0, len(faces)),
		boxes:  make([]Box3, 0, len(faces)),
		bounds: EmptyBox(),
	}
	for _, v := range vertices {
		if !v.IsFinite() {
			return nil, fmt.Errorf("mesh: vertex %v is not finite", v)
		}
	}
	for fi, f := range faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("mesh: face %d references vertex %d of %d", fi, idx, len(vertices))
			}
		}
		tri := Triangle{vertices[f[0]], vertices[f[1]], vertices[f[2]]}
		box := tri.BoundingBox()
		m.tris = append(m.tris, tri)
		m.boxes = append(m.boxes, box)
		m.bounds = m.bounds.Union(box)
	}
	return m, nil
}

// Len returns the number of triangles.
func (m *Mesh) Len() int {
	if m == nil {
		return 0
	}
	return len(m.tris)
}

// Bounds returns the bounding box of all triangles.
func (m *Mesh) Bounds() Box3 {
	if m == nil {
		return EmptyBox()
	}
	return m.bounds
}

func (m *Mesh) ClosestPoint(pt Point3) (Point3, error) {
	if m.Len() == 0 {
		return Point3{}, &NoSurfaceError{}
	}
	var best option[Point3]
	bestDist := math.Inf(1)
	for i, tri := range m.tris {
		if m.boxes[i].DistanceSquared(pt) >= bestDist {
			continue
		}
		c := tri.ClosestPoint(pt)
		if d := c.DistanceSquared(pt); d < bestDist {
			bestDist = d
			best.set(c)
		}
	}
	if !best.isSet {
		return Point3{}, &NoSurfaceError{Err: fmt.Errorf("mesh: no closest point to %v", pt)}
	}
	return best.value, nil
}

func (m *Mesh) Intersects(origin Point3, dir Vec3) (bool, error) {
	if m.Len() == 0 {
		return false, &NoSurfaceError{}
	}
	for _, tri := range m.tris {
		if _, ok := tri.IntersectRay(origin, dir); ok {
			return true, nil
		}
	}
	return false, nil
}
