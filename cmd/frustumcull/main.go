// frustumcull - orbiting camera culling a field of bounded objects
//
// Builds a grid of objects (tessellated SDF solids, or copies of a glTF
// model), orbits a camera around it and classifies every object against the
// view frustum each frame.
//
// Usage:
//
//	frustumcull [options] [model.glb]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/taigrr/bounds/pkg/cull"
	"github.com/taigrr/bounds/pkg/geom"
	"github.com/taigrr/bounds/pkg/math3d"
	"github.com/taigrr/bounds/pkg/models"
)

var (
	targetFPS = flag.Int("fps", 30, "Frames per second")
	frames    = flag.Int("frames", 300, "Frames to run (0 runs until interrupted)")
	every     = flag.Int("every", 15, "Log stats every N frames")
	gridSize  = flag.Int("grid", 24, "Objects per grid side")
	spacing   = flag.Float64("spacing", 4, "Distance between grid cells")
	cells     = flag.Int("cells", 24, "Marching cubes resolution for SDF solids")
	workers   = flag.Int("workers", 0, "Classification workers (0 uses GOMAXPROCS)")
	realtime  = flag.Bool("realtime", false, "Pace frames at the target FPS")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "frustumcull - frustum culling demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: frustumcull [options] [model.glb|model.gltf]\n\n")
		fmt.Fprintf(os.Stderr, "Without a model, the grid is built from SDF spheres and boxes.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *targetFPS <= 0 || *gridSize <= 0 || *every <= 0 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// prototype is a shape centered on the origin that grid cells instance.
type prototype struct {
	name   string
	bounds geom.Box
}

func run(modelPath string) error {
	protos, err := loadPrototypes(modelPath)
	if err != nil {
		return err
	}

	objects := buildGrid(protos, *gridSize, *spacing)
	extent := float64(*gridSize) * *spacing
	log.Printf("scene: %d objects over %.0f units", len(objects), extent)

	cam := cull.NewCamera()
	cam.SetClipPlanes(0.5, extent*2)

	orbit := cull.NewOrbit(*targetFPS, math3d.Zero3(), extent*0.75)
	orbit.SetGoal(0, 0.5, extent*0.75)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Yaw a full turn every ten seconds; every 120 frames swing the
	// distance so the near and far planes sweep the grid.
	yawStep := 2 * math.Pi / float64(*targetFPS*10)
	zoomIn := true

	targetDuration := time.Second / time.Duration(*targetFPS)
	var out []geom.ContainmentType
	var total cull.Stats
	var elapsed time.Duration
	ran := 0

	for frame := 0; *frames == 0 || frame < *frames; frame++ {
		select {
		case <-ctx.Done():
			log.Printf("interrupted after %d frames", frame)
			return nil
		default:
		}
		frameStart := time.Now()

		orbit.Nudge(yawStep, 0, 0)
		if frame%120 == 0 {
			if zoomIn {
				orbit.Nudge(0, -0.3, -extent*0.5)
			} else {
				orbit.Nudge(0, 0.3, extent*0.5)
			}
			zoomIn = !zoomIn
		}
		orbit.Update()
		orbit.Apply(cam)

		start := time.Now()
		var stats cull.Stats
		out, stats, err = cull.ClassifyParallel(ctx, cam.Frustum(), objects, out, *workers)
		if err != nil {
			if ctx.Err() != nil {
				log.Printf("interrupted after %d frames", frame)
				return nil
			}
			return fmt.Errorf("classify frame %d: %w", frame, err)
		}
		elapsed += time.Since(start)
		ran++
		total.Visible += stats.Visible
		total.Partial += stats.Partial
		total.Culled += stats.Culled

		if frame%*every == 0 {
			yaw, pitch, dist := orbit.Angles()
			picked := "nothing"
			if i, d, ok := cull.Pick(cam.PickRay(0.5, 0.5, 1, 1), objects); ok {
				picked = fmt.Sprintf("%s at %.1f", objects[i].Name, d)
			}
			log.Printf("frame %4d yaw %6.1f° pitch %5.1f° dist %6.1f: visible %d partial %d culled %d, center %s",
				frame, yaw*180/math.Pi, pitch*180/math.Pi, dist,
				stats.Visible, stats.Partial, stats.Culled, picked)
		}

		if *realtime {
			if wait := targetDuration - time.Since(frameStart); wait > 0 {
				time.Sleep(wait)
			}
		}
	}

	if n := total.Total(); n > 0 {
		log.Printf("done: drawn %.1f%% of %d classifications, %v per frame",
			100*float64(total.Drawn())/float64(n), n, elapsed/time.Duration(ran))
	}
	return nil
}

// loadPrototypes returns the shapes to place on the grid: the meshes of a
// glTF file when a path is given, otherwise a tessellated sphere and box.
func loadPrototypes(modelPath string) ([]prototype, error) {
	if modelPath != "" {
		loader := models.NewGLTFLoader()
		meshes, err := loader.Load(modelPath)
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		protos := make([]prototype, 0, len(meshes))
		for _, m := range meshes {
			m.Transform(m.FitTransform(2))
			protos = append(protos, prototype{name: m.Name, bounds: m.BoundingBox()})
			log.Printf("loaded %s (%d vertices, %d triangles)", m.Name, m.VertexCount(), m.TriangleCount())
		}
		log.Printf("model %s: %d meshes", filepath.Base(modelPath), len(protos))
		return protos, nil
	}

	sphere, err := sdf.Sphere3D(1)
	if err != nil {
		return nil, fmt.Errorf("sphere: %w", err)
	}
	box, err := sdf.Box3D(v3.Vec{X: 2, Y: 1, Z: 1.5}, 0.1)
	if err != nil {
		return nil, fmt.Errorf("box: %w", err)
	}

	var protos []prototype
	for _, solid := range []struct {
		name string
		s    sdf.SDF3
	}{
		{"sphere", sphere},
		{"box", box},
	} {
		mesh, err := models.FromSDF(solid.name, solid.s, *cells)
		if err != nil {
			return nil, err
		}
		log.Printf("tessellated %s (%d vertices, %d triangles)", mesh.Name, mesh.VertexCount(), mesh.TriangleCount())
		protos = append(protos, prototype{name: mesh.Name, bounds: mesh.BoundingBox()})
	}
	return protos, nil
}

// buildGrid lays out n×n objects on the XZ plane centered on the origin,
// cycling through the prototypes and turning each copy about Y.
func buildGrid(protos []prototype, n int, spacing float64) []cull.Object {
	objects := make([]cull.Object, 0, n*n)
	offset := float64(n-1) * spacing / 2
	for z := range n {
		for x := range n {
			i := len(objects)
			p := protos[i%len(protos)]
			at := math3d.V3(float64(x)*spacing-offset, 0, float64(z)*spacing-offset)
			world := math3d.Translate(at).Mul(math3d.RotateY(float64(i) * 0.37))
			objects = append(objects, cull.NewObject(fmt.Sprintf("%s-%d", p.name, i), p.bounds.Transform(world)))
		}
	}
	return objects
}
