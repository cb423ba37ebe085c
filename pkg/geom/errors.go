package geom

import "errors"

var (
	// ErrNoPoints is returned when a bounding volume is requested for an
	// empty point set.
	ErrNoPoints = errors.New("geom: no points")

	// ErrCornerBuffer is returned when a corner destination slice holds
	// fewer than CornerCount elements.
	ErrCornerBuffer = errors.New("geom: corner buffer too small")
)
