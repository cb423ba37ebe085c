package models

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/bounds/pkg/math3d"
)

// GLTFLoader loads glTF/GLB triangle geometry into meshes. Only positions
// and indices are read; node transforms are not applied, so every mesh is
// in its own local space.
type GLTFLoader struct {
	// Merge combines every glTF mesh into a single Mesh named after the file.
	Merge bool
	// SkipEmpty drops glTF meshes without triangle primitives instead of
	// returning them with no faces.
	SkipEmpty bool
}

// NewGLTFLoader creates a new glTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		SkipEmpty: true,
	}
}

// LoadGLB loads a glTF or GLB file as a single merged mesh.
func LoadGLB(path string) (*Mesh, error) {
	loader := NewGLTFLoader()
	loader.Merge = true
	meshes, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	return meshes[0], nil
}

// Load loads a glTF or GLB file. It fails with ErrNoGeometry when the file
// has no triangles.
func (l *GLTFLoader) Load(path string) ([]*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	meshes, err := l.FromDocument(doc, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return meshes, nil
}

// FromDocument extracts the meshes of a decoded document. name labels the
// merged mesh and unnamed glTF meshes.
func (l *GLTFLoader) FromDocument(doc *gltf.Document, name string) ([]*Mesh, error) {
	var meshes []*Mesh
	for i, gm := range doc.Meshes {
		meshName := gm.Name
		if meshName == "" {
			meshName = fmt.Sprintf("%s#%d", name, i)
		}

		mesh := NewMesh(meshName)
		if err := readMesh(doc, gm, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", meshName, err)
		}
		if l.SkipEmpty && mesh.TriangleCount() == 0 {
			continue
		}
		meshes = append(meshes, mesh)
	}

	if len(meshes) == 0 || totalTriangles(meshes) == 0 {
		return nil, ErrNoGeometry
	}

	if l.Merge {
		merged := NewMesh(name)
		for _, m := range meshes {
			merged.Append(m)
		}
		return []*Mesh{merged}, nil
	}
	return meshes, nil
}

func totalTriangles(meshes []*Mesh) int {
	n := 0
	for _, m := range meshes {
		n += m.TriangleCount()
	}
	return n
}

// readMesh appends the triangle primitives of a glTF mesh.
func readMesh(doc *gltf.Document, gm *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range gm.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			// Skip non-triangle primitives (lines, points, strips)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		if posIdx < 0 || posIdx >= len(doc.Accessors) {
			return fmt.Errorf("position accessor %d of %d", posIdx, len(doc.Accessors))
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		base := len(mesh.Vertices)
		for _, p := range positions {
			mesh.Vertices = append(mesh.Vertices, math3d.V3(float64(p[0]), float64(p[1]), float64(p[2])))
		}

		if prim.Indices != nil {
			if *prim.Indices < 0 || *prim.Indices >= len(doc.Accessors) {
				return fmt.Errorf("index accessor %d of %d", *prim.Indices, len(doc.Accessors))
			}
			indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
			for i := 0; i+2 < len(indices); i += 3 {
				mesh.Faces = append(mesh.Faces, [3]int{
					base + int(indices[i]),
					base + int(indices[i+1]),
					base + int(indices[i+2]),
				})
			}
		} else {
			// No indices: consecutive vertices form triangles
			for i := 0; i+2 < len(positions); i += 3 {
				mesh.Faces = append(mesh.Faces, [3]int{base + i, base + i + 1, base + i + 2})
			}
		}
	}

	return mesh.Validate()
}
