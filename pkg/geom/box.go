package geom

import (
	"fmt"
	"math"

	"github.com/taigrr/bounds/pkg/math3d"
)

// CornerCount is the number of corners of a Box or a Frustum.
const CornerCount = 8

// Box represents an axis-aligned bounding box. Bounds are inclusive.
// A box with Min greater than Max on some axis is empty; the tests below do
// not check for it.
type Box struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewBox creates a Box from min and max points.
func NewBox(min, max math3d.Vec3) Box {
	return Box{Min: min, Max: max}
}

// EmptyBox returns the inverted box used as the seed for accumulating
// points: Min at +MaxFloat64 and Max at -MaxFloat64 on every axis.
// Merging any point or box into it yields that point or box.
func EmptyBox() Box {
	return Box{
		Min: math3d.Splat3(math.MaxFloat64),
		Max: math3d.Splat3(-math.MaxFloat64),
	}
}

// BoxFromPoints returns the smallest box containing every point.
// For an empty slice the result is EmptyBox(); check IsEmpty when the input
// may be empty.
func BoxFromPoints(points []math3d.Vec3) Box {
	b := EmptyBox()
	for _, p := range points {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// BoxFromSphere returns the smallest box containing the sphere.
func BoxFromSphere(s Sphere) Box {
	r := math3d.Splat3(s.Radius)
	return Box{Min: s.Center.Sub(r), Max: s.Center.Add(r)}
}

// IsEmpty reports whether Min exceeds Max on any axis.
func (b Box) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

// Merge returns the smallest box containing both boxes.
func (b Box) Merge(other Box) Box {
	return Box{Min: b.Min.Min(other.Min), Max: b.Max.Max(other.Max)}
}

// Center returns the center of the box.
func (b Box) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the dimensions of the box.
func (b Box) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// HalfSize returns half the dimensions (extents from center).
func (b Box) HalfSize() math3d.Vec3 {
	return b.Size().Scale(0.5)
}

// Corners returns the 8 corners. Bit 0 of the index selects Max.X, bit 1
// Max.Y and bit 2 Max.Z.
func (b Box) Corners() [CornerCount]math3d.Vec3 {
	return [CornerCount]math3d.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}
}

// CornersInto writes the corners into dst, which must hold at least
// CornerCount elements.
func (b Box) CornersInto(dst []math3d.Vec3) error {
	if len(dst) < CornerCount {
		return fmt.Errorf("box corners: %w: have %d, need %d", ErrCornerBuffer, len(dst), CornerCount)
	}
	corners := b.Corners()
	copy(dst, corners[:])
	return nil
}

// Transform returns a box that bounds the original box after transformation.
// This computes a new box that contains all 8 transformed corners.
func (b Box) Transform(m math3d.Mat4) Box {
	corners := b.Corners()

	transformed := m.MulVec3(corners[0])
	newMin := transformed
	newMax := transformed

	for i := 1; i < CornerCount; i++ {
		transformed = m.MulVec3(corners[i])
		newMin = newMin.Min(transformed)
		newMax = newMax.Max(transformed)
	}

	return Box{Min: newMin, Max: newMax}
}

// DistanceSqToPoint returns the squared distance from p to the nearest
// point of the box; zero when p is inside.
func (b Box) DistanceSqToPoint(p math3d.Vec3) float64 {
	var dmin float64
	for i := range 3 {
		c := p.Component(i)
		if lo := b.Min.Component(i); c < lo {
			dmin += (c - lo) * (c - lo)
		} else if hi := b.Max.Component(i); c > hi {
			dmin += (c - hi) * (c - hi)
		}
	}
	return dmin
}

// ContainsBox classifies other against the box.
func (b Box) ContainsBox(other Box) ContainmentType {
	if other.Max.X < b.Min.X || other.Min.X > b.Max.X ||
		other.Max.Y < b.Min.Y || other.Min.Y > b.Max.Y ||
		other.Max.Z < b.Min.Z || other.Min.Z > b.Max.Z {
		return Disjoint
	}

	if other.Min.X >= b.Min.X && other.Max.X <= b.Max.X &&
		other.Min.Y >= b.Min.Y && other.Max.Y <= b.Max.Y &&
		other.Min.Z >= b.Min.Z && other.Max.Z <= b.Max.Z {
		return Contains
	}

	return Intersects
}

// ContainsSphere classifies the sphere against the box.
func (b Box) ContainsSphere(s Sphere) ContainmentType {
	c, r := s.Center, s.Radius
	if c.X-b.Min.X >= r && c.Y-b.Min.Y >= r && c.Z-b.Min.Z >= r &&
		b.Max.X-c.X >= r && b.Max.Y-c.Y >= r && b.Max.Z-c.Z >= r {
		return Contains
	}

	var dmin float64
	for i := range 3 {
		ci := c.Component(i)
		if e := ci - b.Min.Component(i); e < 0 {
			if e < -r {
				return Disjoint
			}
			dmin += e * e
		} else if e := ci - b.Max.Component(i); e > 0 {
			if e > r {
				return Disjoint
			}
			dmin += e * e
		}
	}

	if dmin <= r*r {
		return Intersects
	}
	return Disjoint
}

// ContainsPoint returns Contains if the point is inside the box (bounds
// inclusive) and Disjoint otherwise.
func (b Box) ContainsPoint(p math3d.Vec3) ContainmentType {
	if p.X < b.Min.X || p.X > b.Max.X ||
		p.Y < b.Min.Y || p.Y > b.Max.Y ||
		p.Z < b.Min.Z || p.Z > b.Max.Z {
		return Disjoint
	}
	return Contains
}

// ContainsFrustum classifies the frustum against the box.
func (b Box) ContainsFrustum(f *Frustum) ContainmentType {
	inside := 0
	for _, c := range f.corners {
		if b.ContainsPoint(c) == Contains {
			inside++
		}
	}
	switch {
	case inside == CornerCount:
		return Contains
	case inside > 0:
		return Intersects
	case f.IntersectsBox(b):
		return Intersects
	default:
		return Disjoint
	}
}

// IntersectsBox reports whether the boxes overlap. Touching faces count.
func (b Box) IntersectsBox(other Box) bool {
	if b.Max.X < other.Min.X || b.Min.X > other.Max.X {
		return false
	}
	if b.Max.Y < other.Min.Y || b.Min.Y > other.Max.Y {
		return false
	}
	return b.Max.Z >= other.Min.Z && b.Min.Z <= other.Max.Z
}

// IntersectsSphere reports whether the sphere touches the box.
func (b Box) IntersectsSphere(s Sphere) bool {
	c, r := s.Center, s.Radius
	if c.X-b.Min.X > r && c.Y-b.Min.Y > r && c.Z-b.Min.Z > r &&
		b.Max.X-c.X > r && b.Max.Y-c.Y > r && b.Max.Z-c.Z > r {
		return true
	}
	return b.DistanceSqToPoint(c) <= r*r
}

// IntersectsPlane classifies the box against the plane using the two
// corners furthest along and against the plane normal.
func (b Box) IntersectsPlane(p Plane) PlaneIntersectionType {
	var positive, negative math3d.Vec3

	if p.Normal.X >= 0 {
		positive.X, negative.X = b.Max.X, b.Min.X
	} else {
		positive.X, negative.X = b.Min.X, b.Max.X
	}
	if p.Normal.Y >= 0 {
		positive.Y, negative.Y = b.Max.Y, b.Min.Y
	} else {
		positive.Y, negative.Y = b.Min.Y, b.Max.Y
	}
	if p.Normal.Z >= 0 {
		positive.Z, negative.Z = b.Max.Z, b.Min.Z
	} else {
		positive.Z, negative.Z = b.Min.Z, b.Max.Z
	}

	if p.DistanceToPoint(negative) > 0 {
		return Front
	}
	if p.DistanceToPoint(positive) < 0 {
		return Back
	}
	return Intersecting
}

// IntersectsRay returns the distance along the ray to the box, in units of
// the ray direction, using the slab method. A ray starting inside the box
// hits at distance 0.
func (b Box) IntersectsRay(r Ray) (float64, bool) {
	tMin, tMax := math.Inf(-1), math.Inf(1)

	for i := range 3 {
		origin, dir := r.Origin.Component(i), r.Direction.Component(i)
		lo, hi := b.Min.Component(i), b.Max.Component(i)

		// Parallel to the slab: either always inside it or never.
		if math.Abs(dir) < rayEpsilon {
			if origin < lo || origin > hi {
				return 0, false
			}
			continue
		}

		t1 := (lo - origin) / dir
		t2 := (hi - origin) / dir
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	if tMax < 0 {
		return 0, false
	}
	if tMin < 0 {
		return 0, true
	}
	return tMin, true
}

// IntersectsFrustum reports whether the frustum touches the box.
func (b Box) IntersectsFrustum(f *Frustum) bool {
	return f.IntersectsBox(b)
}
