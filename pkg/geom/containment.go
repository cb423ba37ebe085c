// Package geom provides bounding volumes (boxes, spheres, frustums) plus
// lines, rays and triangles, and the containment and intersection tests
// between them.
//
// All types except Frustum are plain values and safe to share between
// goroutines. Degenerate input (zero-length plane normals, parallel planes)
// is not trapped: it propagates as NaN or Inf through the results.
package geom

// ContainmentType classifies how one volume relates to another.
type ContainmentType int

const (
	// Disjoint means the volumes do not touch.
	Disjoint ContainmentType = iota
	// Intersects means the volumes overlap but neither contains the other.
	Intersects
	// Contains means the tested volume lies entirely inside the receiver.
	Contains
)

func (c ContainmentType) String() string {
	switch c {
	case Disjoint:
		return "Disjoint"
	case Intersects:
		return "Intersects"
	case Contains:
		return "Contains"
	default:
		return "ContainmentType(?)"
	}
}

// PlaneIntersectionType classifies a volume against a single plane.
type PlaneIntersectionType int

const (
	// Front means entirely on the side the normal points to.
	Front PlaneIntersectionType = iota
	// Back means entirely on the side opposite the normal.
	Back
	// Intersecting means the volume straddles the plane. For a point it
	// means the point lies exactly on the plane.
	Intersecting
)

func (p PlaneIntersectionType) String() string {
	switch p {
	case Front:
		return "Front"
	case Back:
		return "Back"
	case Intersecting:
		return "Intersecting"
	default:
		return "PlaneIntersectionType(?)"
	}
}
