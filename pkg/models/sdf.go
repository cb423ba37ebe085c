package models

import (
	"fmt"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/taigrr/bounds/pkg/geom"
	"github.com/taigrr/bounds/pkg/math3d"
)

// DefaultCells is the marching cubes resolution along the longest side of
// the solid's bounding box.
const DefaultCells = 64

// FromSDF tessellates a solid with uniform marching cubes. Coincident
// vertices are shared between faces.
func FromSDF(name string, s sdf.SDF3, cells int) (*Mesh, error) {
	if cells <= 0 {
		return nil, fmt.Errorf("tessellate %q: cells must be positive, got %d", name, cells)
	}

	triangles := render.ToTriangles(s, render.NewMarchingCubesUniform(cells))
	if len(triangles) == 0 {
		return nil, fmt.Errorf("tessellate %q: %w", name, ErrNoGeometry)
	}

	mesh := NewMesh(name)
	index := make(map[v3.Vec]int, len(triangles))
	vertex := func(v v3.Vec) int {
		if i, ok := index[v]; ok {
			return i
		}
		i := len(mesh.Vertices)
		index[v] = i
		mesh.Vertices = append(mesh.Vertices, toVec3(v))
		return i
	}

	for _, tri := range triangles {
		mesh.Faces = append(mesh.Faces, [3]int{vertex(tri[0]), vertex(tri[1]), vertex(tri[2])})
	}
	return mesh, nil
}

// BoxFromSDF returns the solid's own bounding box. It is what the SDF
// reports, usually a little larger than the tessellated mesh.
func BoxFromSDF(s sdf.SDF3) geom.Box {
	bb := s.BoundingBox()
	return geom.NewBox(toVec3(bb.Min), toVec3(bb.Max))
}

func toVec3(v v3.Vec) math3d.Vec3 {
	return math3d.V3(v.X, v.Y, v.Z)
}
