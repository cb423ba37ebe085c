package geom

import (
	"math"

	"github.com/taigrr/bounds/pkg/math3d"
)

// Triangle is defined by three vertices. Degenerate triangles (coincident
// or collinear vertices) are valid values.
type Triangle struct {
	A, B, C math3d.Vec3
}

// NewTriangle creates a triangle.
func NewTriangle(a, b, c math3d.Vec3) Triangle {
	return Triangle{A: a, B: b, C: c}
}

// LengthA returns the length of the side opposite A (B to C).
func (t Triangle) LengthA() float64 {
	return t.B.Distance(t.C)
}

// LengthB returns the length of the side opposite B (C to A).
func (t Triangle) LengthB() float64 {
	return t.C.Distance(t.A)
}

// LengthC returns the length of the side opposite C (A to B).
func (t Triangle) LengthC() float64 {
	return t.A.Distance(t.B)
}

// Perimeter returns the sum of the side lengths.
func (t Triangle) Perimeter() float64 {
	return t.LengthA() + t.LengthB() + t.LengthC()
}

// Area returns the area from Heron's formula. Rounding can push the product
// slightly negative for degenerate triangles; that case reports zero.
func (t Triangle) Area() float64 {
	a, b, c := t.LengthA(), t.LengthB(), t.LengthC()
	s := (a + b + c) / 2
	p := s * (s - a) * (s - b) * (s - c)
	if p <= 0 {
		return 0
	}
	return math.Sqrt(p)
}

// Normal returns the unit normal following the winding A -> B -> C, or zero
// when the triangle is degenerate.
func (t Triangle) Normal() math3d.Vec3 {
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A)).Normalize()
}

// Centroid returns the average of the vertices.
func (t Triangle) Centroid() math3d.Vec3 {
	return t.A.Add(t.B).Add(t.C).Scale(1.0 / 3.0)
}

// HasArea reports whether no two vertices coincide. It is a cheap
// necessary condition for a non-degenerate triangle; collinear vertices
// still pass.
func (t Triangle) HasArea() bool {
	return t.A != t.B && t.B != t.C && t.C != t.A
}

// Edges returns the sides AB, BC and CA.
func (t Triangle) Edges() [3]Line {
	return [3]Line{{t.A, t.B}, {t.B, t.C}, {t.C, t.A}}
}

// Plane returns the plane through the triangle.
func (t Triangle) Plane() Plane {
	return PlaneFromPoints(t.A, t.B, t.C)
}

// BoundingBox returns the box around the vertices.
func (t Triangle) BoundingBox() Box {
	return BoxFromPoints([]math3d.Vec3{t.A, t.B, t.C})
}

// BoundingSphere returns the Ritter sphere around the vertices.
func (t Triangle) BoundingSphere() Sphere {
	return ritter([]math3d.Vec3{t.A, t.B, t.C})
}

// IntersectsRay returns the ray distance to the triangle (Möller–Trumbore).
// Both faces are hit; rays in the triangle's plane miss. The parallel test
// is relative to the edge and direction lengths, so tiny triangles still hit.
func (t Triangle) IntersectsRay(r Ray) (float64, bool) {
	e1 := t.B.Sub(t.A)
	e2 := t.C.Sub(t.A)
	pvec := r.Direction.Cross(e2)
	det := e1.Dot(pvec)
	if math.Abs(det) < rayEpsilon*e1.Len()*e2.Len()*r.Direction.Len() || det == 0 {
		return 0, false
	}

	invDet := 1.0 / det
	tvec := r.Origin.Sub(t.A)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}

	qvec := tvec.Cross(e1)
	v := r.Direction.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}

	dist := e2.Dot(qvec) * invDet
	if dist < 0 {
		return 0, false
	}
	return dist, true
}
