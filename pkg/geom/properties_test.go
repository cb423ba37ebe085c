package geom

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/bounds/pkg/math3d"
)

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

// randVec returns a point in [-extent, extent] on every axis.
func randVec(rng *rand.Rand, extent float64) math3d.Vec3 {
	return math3d.V3(
		(rng.Float64()*2-1)*extent,
		(rng.Float64()*2-1)*extent,
		(rng.Float64()*2-1)*extent,
	)
}

func randBox(rng *rand.Rand, extent float64) Box {
	a, b := randVec(rng, extent), randVec(rng, extent)
	return Box{Min: a.Min(b), Max: a.Max(b)}
}

func randSphere(rng *rand.Rand, extent float64) Sphere {
	return Sphere{Center: randVec(rng, extent), Radius: rng.Float64() * extent / 2}
}

func TestIntersectionIsSymmetric(t *testing.T) {
	rng := newRand()
	f := perspectiveFixture()

	for range 2000 {
		a, b := randBox(rng, 10), randBox(rng, 10)
		s, u := randSphere(rng, 10), randSphere(rng, 10)

		require.Equal(t, a.IntersectsBox(b), b.IntersectsBox(a), "boxes %v %v", a, b)
		require.Equal(t, s.IntersectsSphere(u), u.IntersectsSphere(s), "spheres %v %v", s, u)
		require.Equal(t, a.IntersectsSphere(s), s.IntersectsBox(a), "box %v sphere %v", a, s)
		require.Equal(t, f.IntersectsBox(a), a.IntersectsFrustum(f), "box %v", a)
		require.Equal(t, f.IntersectsSphere(s), s.IntersectsFrustum(f), "sphere %v", s)
	}
}

func TestIntersectsAgreesWithContains(t *testing.T) {
	rng := newRand()
	f := perspectiveFixture()

	for range 2000 {
		a, b := randBox(rng, 10), randBox(rng, 10)
		s, u := randSphere(rng, 10), randSphere(rng, 10)

		require.Equal(t, a.IntersectsBox(b), a.ContainsBox(b) != Disjoint, "boxes %v %v", a, b)
		require.Equal(t, a.IntersectsSphere(s), a.ContainsSphere(s) != Disjoint, "box %v sphere %v", a, s)
		require.Equal(t, s.IntersectsSphere(u), s.ContainsSphere(u) != Disjoint, "spheres %v %v", s, u)
		require.Equal(t, s.IntersectsBox(a), s.ContainsBox(a) != Disjoint, "sphere %v box %v", s, a)
		require.Equal(t, f.IntersectsBox(a), f.ContainsBox(a) != Disjoint, "box %v", a)
		require.Equal(t, f.IntersectsSphere(s), f.ContainsSphere(s) != Disjoint, "sphere %v", s)
	}
}

func TestContainsIsReflexive(t *testing.T) {
	rng := newRand()
	for range 200 {
		b := randBox(rng, 10)
		s := randSphere(rng, 10)
		require.Equal(t, Contains, b.ContainsBox(b))
		require.Equal(t, Contains, s.ContainsSphere(s))
		require.Equal(t, Contains, b.ContainsPoint(b.Center()))
	}

	f := perspectiveFixture()
	assert.Equal(t, Contains, f.ContainsFrustum(f))
}

func TestContainedBoxCornersAreContained(t *testing.T) {
	rng := newRand()
	for range 1000 {
		outer, inner := randBox(rng, 10), randBox(rng, 10)
		if outer.ContainsBox(inner) != Contains {
			continue
		}
		for _, c := range inner.Corners() {
			require.Equal(t, Contains, outer.ContainsPoint(c))
		}
	}
}

func TestBoxRayHitLiesOnSurface(t *testing.T) {
	rng := newRand()
	for range 1000 {
		b := randBox(rng, 5)
		r := NewRay(randVec(rng, 10), randVec(rng, 1))

		dist, hit := b.IntersectsRay(r)
		if !hit || dist == 0 {
			continue
		}
		p := r.At(dist)
		require.True(t, NewBox(b.Min.Sub(math3d.Splat3(1e-9)), b.Max.Add(math3d.Splat3(1e-9))).ContainsPoint(p) == Contains,
			"hit %v outside %v", p, b)
		require.Equal(t, Disjoint, b.ContainsPoint(r.Origin))
	}
}

func TestSphereRayHitLiesOnSurface(t *testing.T) {
	rng := newRand()
	for range 1000 {
		s := randSphere(rng, 5)
		r := NewRay(randVec(rng, 10), randVec(rng, 1))

		dist, hit := s.IntersectsRay(r)
		if !hit || dist == 0 {
			continue
		}
		require.InDelta(t, s.Radius, r.At(dist).Distance(s.Center), 1e-6)
	}
}
