package geom

import (
	"fmt"
	"math"

	"github.com/taigrr/bounds/pkg/math3d"
)

// Sphere is a bounding sphere. Radius is expected to be non-negative.
type Sphere struct {
	Center math3d.Vec3
	Radius float64
}

// NewSphere creates a sphere from a center and radius.
func NewSphere(center math3d.Vec3, radius float64) Sphere {
	return Sphere{Center: center, Radius: radius}
}

// SphereFromPoints builds a bounding sphere with Ritter's algorithm: it seeds
// the sphere from the most separated pair of axis-extreme points, then grows
// it in a single pass over the points. The result encloses every point but
// is not in general the minimal sphere.
func SphereFromPoints(points []math3d.Vec3) (Sphere, error) {
	if len(points) == 0 {
		return Sphere{}, fmt.Errorf("bounding sphere: %w", ErrNoPoints)
	}
	return ritter(points), nil
}

// ritter expects at least one point.
func ritter(points []math3d.Vec3) Sphere {
	var lo, hi [3]math3d.Vec3
	for i := range 3 {
		lo[i], hi[i] = points[0], points[0]
	}
	for _, p := range points[1:] {
		for i := range 3 {
			if p.Component(i) < lo[i].Component(i) {
				lo[i] = p
			}
			if p.Component(i) > hi[i].Component(i) {
				hi[i] = p
			}
		}
	}

	// Pick the axis whose extreme points are furthest apart.
	axis := 0
	best := hi[0].DistanceSq(lo[0])
	for i := 1; i < 3; i++ {
		if d := hi[i].DistanceSq(lo[i]); d > best {
			axis, best = i, d
		}
	}

	center := lo[axis].Add(hi[axis]).Scale(0.5)
	radius := hi[axis].Distance(center)
	radiusSq := radius * radius

	for _, p := range points {
		diff := p.Sub(center)
		distSq := diff.LenSq()
		if distSq <= radiusSq {
			continue
		}
		// Move the center toward p so the sphere keeps its far side and
		// just reaches p.
		dist := math.Sqrt(distSq)
		back := center.Sub(diff.Scale(radius / dist))
		center = back.Add(p).Scale(0.5)
		radius = p.Distance(center)
		radiusSq = radius * radius
	}

	return Sphere{Center: center, Radius: radius}
}

// SphereFromBox returns the sphere through the corners of the box.
func SphereFromBox(b Box) Sphere {
	center := b.Center()
	return Sphere{Center: center, Radius: center.Distance(b.Max)}
}

// SphereFromFrustum returns a Ritter sphere around the frustum corners.
func SphereFromFrustum(f *Frustum) Sphere {
	return ritter(f.corners[:])
}

// BoundingBox returns the smallest box containing the sphere.
func (s Sphere) BoundingBox() Box {
	return BoxFromSphere(s)
}

// Merge returns a sphere enclosing both spheres. When one sphere already
// encloses the other it is returned unchanged.
func (s Sphere) Merge(other Sphere) Sphere {
	diff := other.Center.Sub(s.Center)
	d := diff.Len()

	if d <= s.Radius-other.Radius {
		return s
	}
	if d <= other.Radius-s.Radius {
		return other
	}

	// The new diameter runs from the far side of s to the far side of other.
	radius := (d + s.Radius + other.Radius) / 2
	center := s.Center.Add(diff.Scale((radius - s.Radius) / d))
	return Sphere{Center: center, Radius: radius}
}

// Transform returns the sphere transformed by m. The radius is scaled by
// m.MaxScaleOnAxis. That bound is exact for rotation, translation and scale
// along the sphere's own axes; when m scales non-uniformly after rotating,
// the transformed surface can reach past the returned radius.
func (s Sphere) Transform(m math3d.Mat4) Sphere {
	return Sphere{
		Center: m.MulVec3(s.Center),
		Radius: s.Radius * m.MaxScaleOnAxis(),
	}
}

// ContainsBox classifies the box against the sphere.
func (s Sphere) ContainsBox(b Box) ContainmentType {
	inside := true
	for _, c := range b.Corners() {
		if s.ContainsPoint(c) == Disjoint {
			inside = false
			break
		}
	}
	if inside {
		return Contains
	}

	if b.DistanceSqToPoint(s.Center) <= s.Radius*s.Radius {
		return Intersects
	}
	return Disjoint
}

// ContainsSphere classifies other against the sphere.
func (s Sphere) ContainsSphere(other Sphere) ContainmentType {
	d := s.Center.Distance(other.Center)
	switch {
	case d > s.Radius+other.Radius:
		return Disjoint
	case d <= s.Radius-other.Radius:
		return Contains
	default:
		return Intersects
	}
}

// ContainsPoint returns Contains for points strictly inside, Intersects for
// points exactly on the surface and Disjoint otherwise.
func (s Sphere) ContainsPoint(p math3d.Vec3) ContainmentType {
	distSq := p.DistanceSq(s.Center)
	radiusSq := s.Radius * s.Radius
	switch {
	case distSq > radiusSq:
		return Disjoint
	case distSq < radiusSq:
		return Contains
	default:
		return Intersects
	}
}

// ContainsFrustum classifies the frustum against the sphere.
func (s Sphere) ContainsFrustum(f *Frustum) ContainmentType {
	inside := true
	for _, c := range f.corners {
		if s.ContainsPoint(c) == Disjoint {
			inside = false
			break
		}
	}
	if inside {
		return Contains
	}
	if f.IntersectsSphere(s) {
		return Intersects
	}
	return Disjoint
}

// IntersectsBox reports whether the sphere touches the box.
func (s Sphere) IntersectsBox(b Box) bool {
	return b.IntersectsSphere(s)
}

// IntersectsSphere reports whether the spheres touch.
func (s Sphere) IntersectsSphere(other Sphere) bool {
	sum := s.Radius + other.Radius
	return s.Center.DistanceSq(other.Center) <= sum*sum
}

// IntersectsPlane classifies the sphere against the plane.
func (s Sphere) IntersectsPlane(p Plane) PlaneIntersectionType {
	d := p.DistanceToPoint(s.Center)
	switch {
	case d > s.Radius:
		return Front
	case d < -s.Radius:
		return Back
	default:
		return Intersecting
	}
}

// IntersectsRay returns the distance along the ray to the sphere surface, in
// units of the ray direction. A ray starting inside hits at distance 0.
func (s Sphere) IntersectsRay(r Ray) (float64, bool) {
	diff := s.Center.Sub(r.Origin)
	diffSq := diff.LenSq()
	radiusSq := s.Radius * s.Radius
	if diffSq < radiusSq {
		return 0, true
	}

	along := r.Direction.Dot(diff)
	if along <= 0 {
		return 0, false
	}

	a := r.Direction.LenSq()
	disc := along*along - a*(diffSq-radiusSq)
	if disc < 0 {
		return 0, false
	}
	return (along - math.Sqrt(disc)) / a, true
}

// IntersectsFrustum reports whether the frustum touches the sphere.
func (s Sphere) IntersectsFrustum(f *Frustum) bool {
	return f.IntersectsSphere(s)
}
