package geom

import (
	"github.com/taigrr/bounds/pkg/math3d"
)

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal and D the offset. Normal·P + D is the signed
// distance from P when the normal has unit length.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// NewPlane creates a plane from a normal and offset. The normal is used as
// given.
func NewPlane(normal math3d.Vec3, d float64) Plane {
	return Plane{Normal: normal, D: d}
}

// PlaneFromVec4 creates a plane from the coefficients {A, B, C, D}.
func PlaneFromVec4(v math3d.Vec4) Plane {
	return Plane{Normal: v.Vec3(), D: v.W}
}

// PlaneFromPoints creates the plane through a, b and c. The normal follows
// the counter-clockwise winding a -> b -> c.
func PlaneFromPoints(a, b, c math3d.Vec3) Plane {
	n := b.Sub(a).Cross(c.Sub(a)).Normalize()
	return Plane{Normal: n, D: -n.Dot(a)}
}

// Normalize returns the plane scaled so the normal has unit length.
// A zero normal yields NaN/Inf coefficients.
func (p Plane) Normalize() Plane {
	l := p.Normal.Len()
	return Plane{Normal: p.Normal.Div(l), D: p.D / l}
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// ClassifyPoint reports which side of the plane the point lies on.
// A point exactly on the plane is Intersecting.
func (p Plane) ClassifyPoint(point math3d.Vec3) PlaneIntersectionType {
	d := p.DistanceToPoint(point)
	switch {
	case d > 0:
		return Front
	case d < 0:
		return Back
	default:
		return Intersecting
	}
}

// IntersectsBox classifies the box against the plane.
func (p Plane) IntersectsBox(b Box) PlaneIntersectionType {
	return b.IntersectsPlane(p)
}

// IntersectsSphere classifies the sphere against the plane.
func (p Plane) IntersectsSphere(s Sphere) PlaneIntersectionType {
	return s.IntersectsPlane(p)
}

// IntersectsFrustum classifies the frustum against the plane.
func (p Plane) IntersectsFrustum(f *Frustum) PlaneIntersectionType {
	return f.IntersectsPlane(p)
}
