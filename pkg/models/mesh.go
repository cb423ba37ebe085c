// Package models provides triangle meshes and their bounding volumes, loaded
// from glTF files or tessellated from signed distance fields.
package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/bounds/pkg/geom"
	"github.com/taigrr/bounds/pkg/math3d"
)

var (
	// ErrNoGeometry is returned when a source yields no triangles.
	ErrNoGeometry = errors.New("models: no geometry")
	// ErrIndexRange is returned when a face refers to a missing vertex.
	ErrIndexRange = errors.New("models: vertex index out of range")
)

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Name     string
	Vertices []math3d.Vec3
	Faces    [][3]int // Indices into Vertices, counter-clockwise when seen from the front
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]math3d.Vec3, 0),
		Faces:    make([][3]int, 0),
	}
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Validate checks that every face index refers to a vertex.
func (m *Mesh) Validate() error {
	for i, f := range m.Faces {
		for _, v := range f {
			if v < 0 || v >= len(m.Vertices) {
				return fmt.Errorf("mesh %q face %d: %w: %d of %d", m.Name, i, ErrIndexRange, v, len(m.Vertices))
			}
		}
	}
	return nil
}

// Triangle returns face i as a triangle.
func (m *Mesh) Triangle(i int) geom.Triangle {
	f := m.Faces[i]
	return geom.NewTriangle(m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]])
}

// Triangles returns every face as a triangle.
func (m *Mesh) Triangles() []geom.Triangle {
	tris := make([]geom.Triangle, len(m.Faces))
	for i := range m.Faces {
		tris[i] = m.Triangle(i)
	}
	return tris
}

// BoundingBox returns the box around every vertex, or geom.EmptyBox() for a
// mesh without vertices.
func (m *Mesh) BoundingBox() geom.Box {
	return geom.BoxFromPoints(m.Vertices)
}

// BoundingSphere returns a Ritter sphere around every vertex.
func (m *Mesh) BoundingSphere() (geom.Sphere, error) {
	s, err := geom.SphereFromPoints(m.Vertices)
	if err != nil {
		return geom.Sphere{}, fmt.Errorf("mesh %q: %w", m.Name, err)
	}
	return s, nil
}

// Area returns the total surface area.
func (m *Mesh) Area() float64 {
	var area float64
	for i := range m.Faces {
		area += m.Triangle(i).Area()
	}
	return area
}

// IntersectsRay returns the distance to the nearest triangle hit by the
// ray and that triangle's face index.
func (m *Mesh) IntersectsRay(r geom.Ray) (dist float64, face int, hit bool) {
	dist = math.Inf(1)
	face = -1
	for i := range m.Faces {
		if d, ok := m.Triangle(i).IntersectsRay(r); ok && d < dist {
			dist, face = d, i
		}
	}
	if face < 0 {
		return 0, -1, false
	}
	return dist, face, true
}

// Transform applies a transformation matrix to all vertices.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i] = mat.MulVec3(m.Vertices[i])
	}
}

// FitTransform returns the matrix that centers the mesh bounds on the
// origin and scales the longest side to size. Meshes without extent get a
// pure translation.
func (m *Mesh) FitTransform(size float64) math3d.Mat4 {
	b := m.BoundingBox()
	if b.IsEmpty() {
		return math3d.Identity()
	}
	center := b.Center()
	ext := b.Size()
	maxDim := math.Max(ext.X, math.Max(ext.Y, ext.Z))
	if maxDim == 0 {
		return math3d.Translate(center.Negate())
	}
	return math3d.ScaleUniform(size / maxDim).Mul(math3d.Translate(center.Negate()))
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:     m.Name,
		Vertices: make([]math3d.Vec3, len(m.Vertices)),
		Faces:    make([][3]int, len(m.Faces)),
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	return clone
}

// Append adds the geometry of other to m, offsetting its indices.
func (m *Mesh) Append(other *Mesh) {
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, f := range other.Faces {
		m.Faces = append(m.Faces, [3]int{f[0] + base, f[1] + base, f[2] + base})
	}
}
