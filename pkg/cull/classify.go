package cull

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/bounds/pkg/geom"
)

// Object is something with world-space bounds to cull.
type Object struct {
	Name   string
	Bounds geom.Box
	// Sphere encloses Bounds and serves as a cheap first test.
	Sphere geom.Sphere
}

// NewObject creates an object whose sphere is derived from its box.
func NewObject(name string, bounds geom.Box) Object {
	return Object{Name: name, Bounds: bounds, Sphere: geom.SphereFromBox(bounds)}
}

// Stats counts classification results.
type Stats struct {
	Visible int // entirely inside the frustum
	Partial int // crossing the frustum boundary
	Culled  int // entirely outside
}

// Total returns the number of classified objects.
func (s Stats) Total() int {
	return s.Visible + s.Partial + s.Culled
}

// Drawn returns the number of objects that need drawing.
func (s Stats) Drawn() int {
	return s.Visible + s.Partial
}

func (s *Stats) add(c geom.ContainmentType) {
	switch c {
	case geom.Contains:
		s.Visible++
	case geom.Intersects:
		s.Partial++
	default:
		s.Culled++
	}
}

func (s *Stats) merge(o Stats) {
	s.Visible += o.Visible
	s.Partial += o.Partial
	s.Culled += o.Culled
}

// ClassifyObject classifies one object against the frustum. The sphere
// settles the easy cases; only spheres crossing the boundary fall through to
// the tighter box test.
func ClassifyObject(f *geom.Frustum, o Object) geom.ContainmentType {
	switch f.ContainsSphere(o.Sphere) {
	case geom.Disjoint:
		return geom.Disjoint
	case geom.Contains:
		return geom.Contains
	}
	return f.ContainsBox(o.Bounds)
}

// Classify classifies every object, writing the results into out (grown as
// needed) and returning it with the totals.
func Classify(f *geom.Frustum, objects []Object, out []geom.ContainmentType) ([]geom.ContainmentType, Stats) {
	out = resize(out, len(objects))
	var stats Stats
	for i, o := range objects {
		out[i] = ClassifyObject(f, o)
		stats.add(out[i])
	}
	return out, stats
}

// minChunk is the smallest slice of objects handed to one worker.
const minChunk = 256

// ClassifyParallel is Classify split across workers goroutines (GOMAXPROCS
// when workers <= 0). The frustum is only read, so it must not be modified
// until ClassifyParallel returns. Cancelling ctx stops the remaining chunks
// and returns ctx's error.
func ClassifyParallel(ctx context.Context, f *geom.Frustum, objects []Object, out []geom.ContainmentType, workers int) ([]geom.ContainmentType, Stats, error) {
	out = resize(out, len(objects))
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	chunk := max((len(objects)+workers-1)/workers, minChunk)
	chunks := (len(objects) + chunk - 1) / chunk
	partial := make([]Stats, chunks)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for c := range chunks {
		lo := c * chunk
		hi := min(lo+chunk, len(objects))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				out[i] = ClassifyObject(f, objects[i])
				partial[c].add(out[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, Stats{}, err
	}

	var stats Stats
	for _, p := range partial {
		stats.merge(p)
	}
	return out, stats, nil
}

func resize(out []geom.ContainmentType, n int) []geom.ContainmentType {
	if cap(out) < n {
		return make([]geom.ContainmentType, n)
	}
	return out[:n]
}
