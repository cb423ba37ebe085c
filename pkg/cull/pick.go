package cull

import (
	"math"

	"github.com/taigrr/bounds/pkg/geom"
)

// Pick returns the index of the nearest object whose bounds the ray hits and
// the distance along the ray to its box. Objects are rejected on their
// sphere first. An origin inside a box hits at distance 0.
func Pick(r geom.Ray, objects []Object) (index int, dist float64, ok bool) {
	index = -1
	dist = math.Inf(1)
	for i, o := range objects {
		if d, hit := r.IntersectsSphere(o.Sphere); !hit || d > dist {
			continue
		}
		if d, hit := r.IntersectsBox(o.Bounds); hit && d < dist {
			index, dist = i, d
		}
	}
	if index < 0 {
		return -1, 0, false
	}
	return index, dist, true
}
