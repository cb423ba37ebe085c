package geom

import (
	"fmt"
	"math"

	"github.com/taigrr/bounds/pkg/math3d"
)

// Frustum plane indices, in the order the planes are stored.
const (
	FrustumNear = iota
	FrustumFar
	FrustumLeft
	FrustumRight
	FrustumTop
	FrustumBottom

	FrustumPlaneCount
)

// Frustum is the convex volume seen through a view-projection matrix.
//
// The matrix is the only settable state. Setting it recomputes the six
// planes and eight corners together, so they always describe the same
// matrix. Plane normals point out of the frustum: a positive signed
// distance means outside.
//
// The matrix must be column-major, map column vectors (clip = M * p) and
// produce clip depth in [0, w], as math3d.PerspectiveZO and
// math3d.OrthographicZO do.
//
// A Frustum is not safe for concurrent use while SetMatrix may be called;
// guard writers externally. Readers alone may share it.
type Frustum struct {
	matrix  math3d.Mat4
	planes  [FrustumPlaneCount]Plane
	corners [CornerCount]math3d.Vec3
}

// NewFrustum creates a frustum from a view-projection matrix.
func NewFrustum(m math3d.Mat4) *Frustum {
	f := &Frustum{}
	f.SetMatrix(m)
	return f
}

// Matrix returns the matrix the frustum was derived from.
func (f *Frustum) Matrix() math3d.Mat4 {
	return f.matrix
}

// SetMatrix replaces the matrix and recomputes planes and corners.
func (f *Frustum) SetMatrix(m math3d.Mat4) {
	planes := extractPlanes(m)
	corners := frustumCorners(&planes)
	f.matrix = m
	f.planes = planes
	f.corners = corners
}

// extractPlanes derives the six clip planes from the rows of m with the
// Gribb/Hartmann method and normalizes them. A clip-space point is inside
// when -w <= x <= w, -w <= y <= w and 0 <= z <= w; each plane is the
// outward-facing form of one of those inequalities.
func extractPlanes(m math3d.Mat4) [FrustumPlaneCount]Plane {
	r0, r1, r2, r3 := m.Row(0), m.Row(1), m.Row(2), m.Row(3)

	var planes [FrustumPlaneCount]Plane
	planes[FrustumNear] = PlaneFromVec4(r2.Negate())
	planes[FrustumFar] = PlaneFromVec4(r2.Sub(r3))
	planes[FrustumLeft] = PlaneFromVec4(r3.Negate().Sub(r0))
	planes[FrustumRight] = PlaneFromVec4(r0.Sub(r3))
	planes[FrustumTop] = PlaneFromVec4(r1.Sub(r3))
	planes[FrustumBottom] = PlaneFromVec4(r3.Negate().Sub(r1))

	for i := range planes {
		planes[i] = planes[i].Normalize()
	}
	return planes
}

// frustumCorners intersects the planes in the order near then far, each
// bottom-left, bottom-right, top-right, top-left.
func frustumCorners(p *[FrustumPlaneCount]Plane) [CornerCount]math3d.Vec3 {
	var corners [CornerCount]math3d.Vec3
	for i, depth := range [2]int{FrustumNear, FrustumFar} {
		base := i * 4
		corners[base+0] = intersectPlanes(p[depth], p[FrustumBottom], p[FrustumLeft])
		corners[base+1] = intersectPlanes(p[depth], p[FrustumBottom], p[FrustumRight])
		corners[base+2] = intersectPlanes(p[depth], p[FrustumTop], p[FrustumRight])
		corners[base+3] = intersectPlanes(p[depth], p[FrustumTop], p[FrustumLeft])
	}
	return corners
}

// intersectPlanes returns the point shared by three planes:
//
//	P = -(D1(N2×N3) + D2(N3×N1) + D3(N1×N2)) / (N1·(N2×N3))
//
// Parallel planes make the denominator zero and the result NaN or Inf.
func intersectPlanes(a, b, c Plane) math3d.Vec3 {
	bc := b.Normal.Cross(c.Normal)
	denom := a.Normal.Dot(bc)

	v1 := bc.Scale(a.D)
	v2 := c.Normal.Cross(a.Normal).Scale(b.D)
	v3 := a.Normal.Cross(b.Normal).Scale(c.D)

	return v1.Add(v2).Add(v3).Scale(-1 / denom)
}

// Planes returns a copy of the six planes, indexed by FrustumNear..FrustumBottom.
func (f *Frustum) Planes() [FrustumPlaneCount]Plane {
	return f.planes
}

// Plane returns plane i (FrustumNear..FrustumBottom).
func (f *Frustum) Plane(i int) Plane {
	return f.planes[i]
}

// Near returns the near plane.
func (f *Frustum) Near() Plane { return f.planes[FrustumNear] }

// Far returns the far plane.
func (f *Frustum) Far() Plane { return f.planes[FrustumFar] }

// Left returns the left plane.
func (f *Frustum) Left() Plane { return f.planes[FrustumLeft] }

// Right returns the right plane.
func (f *Frustum) Right() Plane { return f.planes[FrustumRight] }

// Top returns the top plane.
func (f *Frustum) Top() Plane { return f.planes[FrustumTop] }

// Bottom returns the bottom plane.
func (f *Frustum) Bottom() Plane { return f.planes[FrustumBottom] }

// Corners returns a copy of the eight corners: near bottom-left,
// bottom-right, top-right, top-left, then the same for the far plane.
func (f *Frustum) Corners() [CornerCount]math3d.Vec3 {
	return f.corners
}

// CornersInto writes the corners into dst, which must hold at least
// CornerCount elements.
func (f *Frustum) CornersInto(dst []math3d.Vec3) error {
	if len(dst) < CornerCount {
		return fmt.Errorf("frustum corners: %w: have %d, need %d", ErrCornerBuffer, len(dst), CornerCount)
	}
	copy(dst, f.corners[:])
	return nil
}

// Equal reports whether both frustums come from bit-identical matrices.
// Different matrices describing the same volume compare unequal.
func (f *Frustum) Equal(other *Frustum) bool {
	if f == other {
		return true
	}
	if f == nil || other == nil {
		return false
	}
	return f.matrix.BitEqual(other.matrix)
}

// ContainsBox classifies the box against the frustum.
func (f *Frustum) ContainsBox(b Box) ContainmentType {
	intersects := false
	for i := range f.planes {
		switch b.IntersectsPlane(f.planes[i]) {
		case Front:
			return Disjoint
		case Intersecting:
			intersects = true
		}
	}
	if intersects {
		return Intersects
	}
	return Contains
}

// ContainsSphere classifies the sphere against the frustum.
func (f *Frustum) ContainsSphere(s Sphere) ContainmentType {
	intersects := false
	for i := range f.planes {
		switch s.IntersectsPlane(f.planes[i]) {
		case Front:
			return Disjoint
		case Intersecting:
			intersects = true
		}
	}
	if intersects {
		return Intersects
	}
	return Contains
}

// ContainsFrustum classifies other against the frustum by testing other's
// corners against each of this frustum's planes. Frustums built from
// bit-identical matrices contain each other. A nil other is Disjoint.
//
// This is a plane-only test, not an exact polytope intersection: a frustum
// that misses this one diagonally, without lying wholly in front of any
// single plane, is reported as Intersects.
func (f *Frustum) ContainsFrustum(other *Frustum) ContainmentType {
	if f.Equal(other) {
		return Contains
	}
	if other == nil {
		return Disjoint
	}

	intersects := false
	for i := range f.planes {
		switch other.IntersectsPlane(f.planes[i]) {
		case Front:
			return Disjoint
		case Intersecting:
			intersects = true
		}
	}
	if intersects {
		return Intersects
	}
	return Contains
}

// ContainsPoint returns Disjoint if the point is in front of any plane and
// Contains otherwise. Points on the boundary are contained.
func (f *Frustum) ContainsPoint(p math3d.Vec3) ContainmentType {
	for i := range f.planes {
		if f.planes[i].ClassifyPoint(p) == Front {
			return Disjoint
		}
	}
	return Contains
}

// IntersectsBox reports whether the box touches the frustum.
func (f *Frustum) IntersectsBox(b Box) bool {
	return f.ContainsBox(b) != Disjoint
}

// IntersectsSphere reports whether the sphere touches the frustum.
func (f *Frustum) IntersectsSphere(s Sphere) bool {
	return f.ContainsSphere(s) != Disjoint
}

// IntersectsFrustum reports whether other touches the frustum, with the
// same plane-only approximation as ContainsFrustum.
func (f *Frustum) IntersectsFrustum(other *Frustum) bool {
	return f.ContainsFrustum(other) != Disjoint
}

// IntersectsPlane classifies the frustum against the plane from its eight
// corners: Front or Back only when every corner agrees.
func (f *Frustum) IntersectsPlane(p Plane) PlaneIntersectionType {
	result := p.ClassifyPoint(f.corners[0])
	for _, c := range f.corners[1:] {
		if p.ClassifyPoint(c) != result {
			return Intersecting
		}
	}
	return result
}

// IntersectsRay returns the distance along the ray to the frustum, in units
// of the ray direction. A ray starting inside hits at 0. Otherwise the ray
// is clipped against each plane (Cyrus–Beck) and the entry distance is
// returned.
func (f *Frustum) IntersectsRay(r Ray) (float64, bool) {
	if f.ContainsPoint(r.Origin) == Contains {
		return 0, true
	}

	tEnter, tExit := 0.0, math.Inf(1)
	for i := range f.planes {
		p := f.planes[i]
		dist := p.DistanceToPoint(r.Origin)
		den := p.Normal.Dot(r.Direction)

		if den == 0 {
			if dist > 0 {
				return 0, false
			}
			continue
		}

		t := -dist / den
		if den < 0 {
			tEnter = math.Max(tEnter, t)
		} else {
			tExit = math.Min(tExit, t)
		}
		if tEnter > tExit {
			return 0, false
		}
	}
	return tEnter, true
}
