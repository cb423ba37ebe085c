package geom

import (
	"math"

	"github.com/taigrr/bounds/pkg/math3d"
)

// rayEpsilon is the magnitude below which a direction component or a
// direction/normal dot product is treated as parallel.
const rayEpsilon = 1e-8

// Ray represents a half-line with an origin and direction. Distances
// returned by the intersection tests are in units of Direction, so they are
// world distances only when Direction has unit length.
type Ray struct {
	Origin    math3d.Vec3
	Direction math3d.Vec3
}

// NewRay creates a new ray.
func NewRay(origin, direction math3d.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) math3d.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectsBox returns the distance to the box.
func (r Ray) IntersectsBox(b Box) (float64, bool) {
	return b.IntersectsRay(r)
}

// IntersectsSphere returns the distance to the sphere.
func (r Ray) IntersectsSphere(s Sphere) (float64, bool) {
	return s.IntersectsRay(r)
}

// IntersectsFrustum returns the distance to the frustum.
func (r Ray) IntersectsFrustum(f *Frustum) (float64, bool) {
	return f.IntersectsRay(r)
}

// IntersectsPlane returns the distance to the plane. Rays parallel to the
// plane and planes behind the origin do not intersect; an origin lying on
// the plane within rayEpsilon hits at 0.
func (r Ray) IntersectsPlane(p Plane) (float64, bool) {
	den := r.Direction.Dot(p.Normal)
	if math.Abs(den) < rayEpsilon {
		return 0, false
	}

	t := -p.DistanceToPoint(r.Origin) / den
	if t < 0 {
		if t < -rayEpsilon {
			return 0, false
		}
		t = 0
	}
	return t, true
}
