package geom

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/bounds/pkg/math3d"
)

// unitOrtho is the box [-1,1] x [-1,1] x [-2,0] as a frustum. All of its
// plane coefficients are exact in binary floating point.
func unitOrtho() *Frustum {
	return NewFrustum(math3d.OrthographicZO(-1, 1, -1, 1, 0, 2))
}

func unitOrthoBox() Box {
	return NewBox(math3d.V3(-1, -1, -2), math3d.V3(1, 1, 0))
}

// perspectiveFixture looks down -Z from (0, 0, 5) with a 90 degree square
// field of view. The near plane is at z=4 (half width 1) and the far plane
// at z=-5 (half width 10).
func perspectiveFixture() *Frustum {
	view := math3d.LookAt(math3d.V3(0, 0, 5), math3d.Zero3(), math3d.Up())
	proj := math3d.PerspectiveZO(math.Pi/2, 1, 1, 10)
	return NewFrustum(proj.Mul(view))
}

func TestFrustumPlanesNormalized(t *testing.T) {
	f := perspectiveFixture()
	for i, p := range f.Planes() {
		if math.Abs(p.Normal.Len()-1) > 1e-12 {
			t.Errorf("plane %d normal length = %v, want 1", i, p.Normal.Len())
		}
	}
}

func TestFrustumPlanesFaceOutward(t *testing.T) {
	f := unitOrtho()
	tests := []struct {
		name   string
		plane  Plane
		normal math3d.Vec3
		d      float64
	}{
		{"near", f.Near(), math3d.V3(0, 0, 1), 0},
		{"far", f.Far(), math3d.V3(0, 0, -1), -2},
		{"left", f.Left(), math3d.V3(-1, 0, 0), -1},
		{"right", f.Right(), math3d.V3(1, 0, 0), -1},
		{"top", f.Top(), math3d.V3(0, 1, 0), -1},
		{"bottom", f.Bottom(), math3d.V3(0, -1, 0), -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.plane.Normal.ApproxEqual(tc.normal, 1e-12) {
				t.Errorf("normal = %v, want %v", tc.plane.Normal, tc.normal)
			}
			if math.Abs(tc.plane.D-tc.d) > 1e-12 {
				t.Errorf("D = %v, want %v", tc.plane.D, tc.d)
			}
		})
	}
}

func TestFrustumPlaneAccessors(t *testing.T) {
	f := perspectiveFixture()
	planes := f.Planes()
	named := []Plane{f.Near(), f.Far(), f.Left(), f.Right(), f.Top(), f.Bottom()}
	for i := range FrustumPlaneCount {
		assert.Equal(t, planes[i], f.Plane(i))
		assert.Equal(t, planes[i], named[i])
	}
}

func TestFrustumCorners(t *testing.T) {
	f := perspectiveFixture()
	want := [CornerCount]math3d.Vec3{
		math3d.V3(-1, -1, 4), math3d.V3(1, -1, 4), math3d.V3(1, 1, 4), math3d.V3(-1, 1, 4),
		math3d.V3(-10, -10, -5), math3d.V3(10, -10, -5), math3d.V3(10, 10, -5), math3d.V3(-10, 10, -5),
	}

	got := f.Corners()
	for i := range want {
		if !got[i].ApproxEqual(want[i], 1e-9) {
			t.Errorf("corner %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFrustumCornersLieOnTheirPlanes(t *testing.T) {
	frustums := map[string]*Frustum{
		"ortho":       unitOrtho(),
		"perspective": perspectiveFixture(),
		"rotated": NewFrustum(
			math3d.PerspectiveZO(1.1, 1.6, 0.5, 40).
				Mul(math3d.LookAt(math3d.V3(3, 7, -2), math3d.V3(-4, 0, 9), math3d.Up())),
		),
	}

	// Planes meeting at each corner, in corner order.
	meet := [CornerCount][3]int{
		{FrustumNear, FrustumBottom, FrustumLeft},
		{FrustumNear, FrustumBottom, FrustumRight},
		{FrustumNear, FrustumTop, FrustumRight},
		{FrustumNear, FrustumTop, FrustumLeft},
		{FrustumFar, FrustumBottom, FrustumLeft},
		{FrustumFar, FrustumBottom, FrustumRight},
		{FrustumFar, FrustumTop, FrustumRight},
		{FrustumFar, FrustumTop, FrustumLeft},
	}

	for name, f := range frustums {
		t.Run(name, func(t *testing.T) {
			corners := f.Corners()
			for i, c := range corners {
				for _, pi := range meet[i] {
					d := f.Plane(pi).DistanceToPoint(c)
					assert.InDelta(t, 0, d, 1e-6, "corner %d plane %d", i, pi)
				}
			}
		})
	}
}

func TestFrustumCornersMatchInverseProjection(t *testing.T) {
	m := math3d.PerspectiveZO(math.Pi/3, 16.0/9.0, 0.1, 100).
		Mul(math3d.LookAt(math3d.V3(2, 3, 10), math3d.V3(0, 1, 0), math3d.Up()))
	f := NewFrustum(m)
	inv := m.Inverse()

	ndc := [CornerCount]math3d.Vec3{
		math3d.V3(-1, -1, 0), math3d.V3(1, -1, 0), math3d.V3(1, 1, 0), math3d.V3(-1, 1, 0),
		math3d.V3(-1, -1, 1), math3d.V3(1, -1, 1), math3d.V3(1, 1, 1), math3d.V3(-1, 1, 1),
	}

	corners := f.Corners()
	for i, p := range ndc {
		want := inv.MulVec3(p)
		if !corners[i].ApproxEqual(want, 1e-6*math.Max(1, want.Len())) {
			t.Errorf("corner %d = %v, want %v", i, corners[i], want)
		}
	}
}

func TestFrustumCornersInto(t *testing.T) {
	f := unitOrtho()

	dst := make([]math3d.Vec3, CornerCount+2)
	require.NoError(t, f.CornersInto(dst))
	corners := f.Corners()
	assert.Equal(t, corners[:], dst[:CornerCount])
	assert.Equal(t, math3d.Vec3{}, dst[CornerCount])

	err := f.CornersInto(make([]math3d.Vec3, 7))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCornerBuffer))
}

func TestFrustumSetMatrix(t *testing.T) {
	f := unitOrtho()
	require.Equal(t, Contains, f.ContainsPoint(math3d.V3(0, 0, -1)))

	m := math3d.OrthographicZO(-1, 1, -1, 1, 0, 2).Mul(math3d.Translate(math3d.V3(-10, 0, 0)))
	f.SetMatrix(m)

	assert.True(t, f.Matrix().BitEqual(m))
	assert.Equal(t, Disjoint, f.ContainsPoint(math3d.V3(0, 0, -1)))
	assert.Equal(t, Contains, f.ContainsPoint(math3d.V3(10, 0, -1)))
	assert.InDelta(t, 9, f.Corners()[0].X, 1e-12)
}

func TestFrustumDegenerateMatrix(t *testing.T) {
	f := NewFrustum(math3d.Mat4{})
	c := f.Corners()[0]
	assert.True(t, math.IsNaN(c.X), "corner of a zero matrix should be NaN, got %v", c)
}

func TestFrustumEqual(t *testing.T) {
	a := perspectiveFixture()
	b := perspectiveFixture()
	assert.True(t, a.Equal(a))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(unitOrtho()))
	assert.False(t, a.Equal(nil))

	// Same volume, different matrix.
	scaled := a.Matrix()
	for i := range scaled {
		scaled[i] *= 2
	}
	c := NewFrustum(scaled)
	assert.False(t, a.Equal(c))
	for i := range FrustumPlaneCount {
		assert.True(t, a.Plane(i).Normal.ApproxEqual(c.Plane(i).Normal, 1e-12))
	}
}

func TestFrustumContainsPoint(t *testing.T) {
	f := perspectiveFixture()
	tests := []struct {
		name  string
		point math3d.Vec3
		want  ContainmentType
	}{
		{"center", math3d.V3(0, 0, 0), Contains},
		{"behind camera", math3d.V3(0, 0, 6), Disjoint},
		{"between eye and near", math3d.V3(0, 0, 4.5), Disjoint},
		{"beyond far", math3d.V3(0, 0, -6), Disjoint},
		{"far right", math3d.V3(20, 0, 0), Disjoint},
		{"near corner", math3d.V3(0.999, 0.999, 3.999), Contains},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.ContainsPoint(tc.point); got != tc.want {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.want)
			}
		})
	}
}

func TestFrustumContainsPointOnBoundary(t *testing.T) {
	f := unitOrtho()
	for _, p := range []math3d.Vec3{
		math3d.V3(1, 0, -1),
		math3d.V3(0, 0, 0),
		math3d.V3(-1, -1, -2),
	} {
		assert.Equal(t, Contains, f.ContainsPoint(p), "point %v", p)
	}
}

func TestFrustumContainsBox(t *testing.T) {
	f := perspectiveFixture()
	tests := []struct {
		name string
		box  Box
		want ContainmentType
	}{
		{"inside", NewBox(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1)), Contains},
		{"straddles right", NewBox(math3d.V3(4, -1, -1), math3d.V3(6, 1, 1)), Intersects},
		{"straddles far", NewBox(math3d.V3(-1, -1, -6), math3d.V3(1, 1, -4)), Intersects},
		{"behind camera", NewBox(math3d.V3(-1, -1, 6), math3d.V3(1, 1, 8)), Disjoint},
		{"off to the side", NewBox(math3d.V3(100, 100, 100), math3d.V3(101, 101, 101)), Disjoint},
		{"encloses frustum", NewBox(math3d.Splat3(-20), math3d.Splat3(20)), Intersects},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.ContainsBox(tc.box); got != tc.want {
				t.Errorf("ContainsBox(%v) = %v, want %v", tc.box, got, tc.want)
			}
			if got := f.IntersectsBox(tc.box); got != (tc.want != Disjoint) {
				t.Errorf("IntersectsBox(%v) = %v", tc.box, got)
			}
		})
	}
}

func TestFrustumContainsTouchingBox(t *testing.T) {
	f := unitOrtho()
	touching := NewBox(math3d.V3(1, -1, -1), math3d.V3(2, 1, 0))

	assert.Equal(t, Intersects, f.ContainsBox(touching))
	assert.True(t, f.IntersectsBox(touching))
	assert.True(t, unitOrthoBox().IntersectsBox(touching))
}

func TestFrustumContainsSphere(t *testing.T) {
	f := perspectiveFixture()
	tests := []struct {
		name   string
		sphere Sphere
		want   ContainmentType
	}{
		{"inside", NewSphere(math3d.Zero3(), 1), Contains},
		{"on far plane", NewSphere(math3d.V3(0, 0, -5), 1), Intersects},
		{"behind", NewSphere(math3d.V3(0, 0, 50), 1), Disjoint},
		{"enclosing", NewSphere(math3d.Zero3(), 100), Intersects},
		{"just outside right", NewSphere(math3d.V3(8, 0, 0), 1), Disjoint},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.ContainsSphere(tc.sphere); got != tc.want {
				t.Errorf("ContainsSphere(%v) = %v, want %v", tc.sphere, got, tc.want)
			}
			if got := f.IntersectsSphere(tc.sphere); got != (tc.want != Disjoint) {
				t.Errorf("IntersectsSphere(%v) = %v", tc.sphere, got)
			}
		})
	}
}

func TestFrustumContainsFrustum(t *testing.T) {
	unit := unitOrtho()
	large := NewFrustum(math3d.OrthographicZO(-2, 2, -2, 2, 0, 4))
	small := NewFrustum(math3d.OrthographicZO(-1, 1, -1, 1, 0.5, 1.5))
	shifted := NewFrustum(math3d.OrthographicZO(-1, 1, -1, 1, 0, 2).Mul(math3d.Translate(math3d.V3(-10, 0, 0))))

	tests := []struct {
		name  string
		f, g  *Frustum
		want  ContainmentType
		inter bool
	}{
		{"self", unit, unit, Contains, true},
		{"identical matrix", unit, unitOrtho(), Contains, true},
		{"small inside large", large, small, Contains, true},
		{"large around small", small, large, Intersects, true},
		{"shifted away", unit, shifted, Disjoint, false},
		{"perspective around ortho", perspectiveFixture(), unit, Contains, true},
		{"ortho inside perspective", unit, perspectiveFixture(), Intersects, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.f.ContainsFrustum(tc.g))
			assert.Equal(t, tc.inter, tc.f.IntersectsFrustum(tc.g))
		})
	}
}

func TestFrustumContainsNilFrustum(t *testing.T) {
	f := unitOrtho()
	assert.Equal(t, Disjoint, f.ContainsFrustum(nil))
	assert.False(t, f.IntersectsFrustum(nil))
}

func TestFrustumIntersectsPlane(t *testing.T) {
	f := unitOrtho()
	tests := []struct {
		name  string
		plane Plane
		want  PlaneIntersectionType
	}{
		{"above, facing away", NewPlane(math3d.V3(0, 0, 1), -5), Back},
		{"above, facing in", NewPlane(math3d.V3(0, 0, -1), 5), Front},
		{"through the middle", NewPlane(math3d.V3(0, 0, 1), 1), Intersecting},
		{"tangent to a face", NewPlane(math3d.V3(1, 0, 0), -1), Intersecting},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.IntersectsPlane(tc.plane); got != tc.want {
				t.Errorf("IntersectsPlane(%v) = %v, want %v", tc.plane, got, tc.want)
			}
			if got := tc.plane.IntersectsFrustum(f); got != tc.want {
				t.Errorf("Plane.IntersectsFrustum = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFrustumIntersectsRay(t *testing.T) {
	f := unitOrtho()
	tests := []struct {
		name string
		ray  Ray
		dist float64
		hit  bool
	}{
		{"origin inside", NewRay(math3d.V3(0, 0, -1), math3d.V3(1, 0, 0)), 0, true},
		{"from above", NewRay(math3d.V3(0, 0, 5), math3d.V3(0, 0, -1)), 5, true},
		{"from the side", NewRay(math3d.V3(5, 0, -1), math3d.V3(-1, 0, 0)), 4, true},
		{"pointing away", NewRay(math3d.V3(5, 0, -1), math3d.V3(1, 0, 0)), 0, false},
		{"parallel outside", NewRay(math3d.V3(5, 5, -1), math3d.V3(0, 0, -1)), 0, false},
		{"unnormalized direction", NewRay(math3d.V3(0, 0, 5), math3d.V3(0, 0, -2)), 2.5, true},
		{"diagonal miss", NewRay(math3d.V3(3, 0, -1), math3d.V3(-1, 5, 0)), 0, false},
		{"diagonal hit", NewRay(math3d.V3(3, 3, -1), math3d.V3(-1, -1, 0)), 2, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist, hit := f.IntersectsRay(tc.ray)
			require.Equal(t, tc.hit, hit)
			if hit {
				assert.InDelta(t, tc.dist, dist, 1e-12)
			}

			rdist, rhit := tc.ray.IntersectsFrustum(f)
			assert.Equal(t, hit, rhit)
			assert.Equal(t, dist, rdist)
		})
	}
}

func TestFrustumIntersectsRayMatchesBox(t *testing.T) {
	f := unitOrtho()
	box := unitOrthoBox()
	rng := newRand()

	for range 500 {
		origin := randVec(rng, 6)
		target := randVec(rng, 1.5)
		r := NewRay(origin, target.Sub(origin))

		fd, fhit := f.IntersectsRay(r)
		bd, bhit := box.IntersectsRay(r)
		require.Equal(t, bhit, fhit, "ray %v", r)
		if fhit {
			assert.InDelta(t, bd, fd, 1e-9, "ray %v", r)
		}
	}
}

func TestFrustumMatchesEquivalentBox(t *testing.T) {
	f := unitOrtho()
	box := unitOrthoBox()
	rng := newRand()

	for range 1000 {
		b := randBox(rng, 3)
		require.Equal(t, box.ContainsBox(b), f.ContainsBox(b), "box %v", b)

		// The plane test is conservative near edges and corners, so it may
		// report spheres the box misses, never the reverse.
		s := NewSphere(randVec(rng, 3), rng.Float64()*1.5)
		if box.IntersectsSphere(s) {
			require.True(t, f.IntersectsSphere(s), "sphere %v", s)
		}
		require.Equal(t, box.ContainsSphere(s) == Contains, f.ContainsSphere(s) == Contains, "sphere %v", s)
	}
}

func TestBoxAndSphereContainFrustum(t *testing.T) {
	f := unitOrtho()

	assert.Equal(t, Contains, NewBox(math3d.Splat3(-3), math3d.Splat3(3)).ContainsFrustum(f))
	assert.Equal(t, Intersects, NewBox(math3d.V3(0, 0, -1), math3d.V3(3, 3, 3)).ContainsFrustum(f))
	assert.Equal(t, Intersects, NewBox(math3d.V3(-0.5, -0.5, -1.5), math3d.V3(0.5, 0.5, -0.5)).ContainsFrustum(f))
	assert.Equal(t, Disjoint, NewBox(math3d.Splat3(5), math3d.Splat3(6)).ContainsFrustum(f))

	assert.Equal(t, Contains, NewSphere(math3d.V3(0, 0, -1), 3).ContainsFrustum(f))
	assert.Equal(t, Intersects, NewSphere(math3d.V3(0, 0, -1), 0.5).ContainsFrustum(f))
	assert.Equal(t, Disjoint, NewSphere(math3d.V3(0, 0, 10), 1).ContainsFrustum(f))

	assert.True(t, NewBox(math3d.V3(0, 0, -1), math3d.V3(3, 3, 3)).IntersectsFrustum(f))
	assert.False(t, NewSphere(math3d.V3(0, 0, 10), 1).IntersectsFrustum(f))
}

func TestSphereFromFrustum(t *testing.T) {
	f := perspectiveFixture()
	s := SphereFromFrustum(f)
	for i, c := range f.Corners() {
		assert.LessOrEqual(t, s.Center.Distance(c), s.Radius+1e-9, "corner %d", i)
	}
	assert.True(t, s.IntersectsFrustum(f))
}
