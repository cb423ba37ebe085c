package geom

import (
	"github.com/taigrr/bounds/pkg/math3d"
)

// Line is the segment between A and B. A == B is a valid zero-length line.
type Line struct {
	A, B math3d.Vec3
}

// NewLine creates a line segment.
func NewLine(a, b math3d.Vec3) Line {
	return Line{A: a, B: b}
}

// Length returns the segment length.
func (l Line) Length() float64 {
	return l.A.Distance(l.B)
}

// LengthSq returns the squared segment length.
func (l Line) LengthSq() float64 {
	return l.A.DistanceSq(l.B)
}

// Midpoint returns the point halfway between A and B.
func (l Line) Midpoint() math3d.Vec3 {
	return l.A.Add(l.B).Scale(0.5)
}

// Direction returns the unit vector from A to B, or zero for a zero-length
// line.
func (l Line) Direction() math3d.Vec3 {
	return l.B.Sub(l.A).Normalize()
}

// PointAt returns A + t(B - A).
func (l Line) PointAt(t float64) math3d.Vec3 {
	return l.A.Lerp(l.B, t)
}

// ClosestPoint returns the point of the segment nearest to p.
func (l Line) ClosestPoint(p math3d.Vec3) math3d.Vec3 {
	ab := l.B.Sub(l.A)
	lenSq := ab.LenSq()
	if lenSq == 0 {
		return l.A
	}
	t := p.Sub(l.A).Dot(ab) / lenSq
	switch {
	case t < 0:
		t = 0
	case t > 1:
		t = 1
	}
	return l.A.Add(ab.Scale(t))
}

// Ray returns the ray from A through B with an unnormalized direction, so
// the segment spans ray distances [0, 1].
func (l Line) Ray() Ray {
	return Ray{Origin: l.A, Direction: l.B.Sub(l.A)}
}

// BoundingBox returns the box spanned by the endpoints.
func (l Line) BoundingBox() Box {
	return Box{Min: l.A.Min(l.B), Max: l.A.Max(l.B)}
}

// BoundingSphere returns the sphere centered on the midpoint that passes
// through both endpoints.
func (l Line) BoundingSphere() Sphere {
	return Sphere{Center: l.Midpoint(), Radius: l.Length() / 2}
}
