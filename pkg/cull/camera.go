// Package cull drives frustum culling: a camera that owns the view frustum,
// a spring-damped orbit controller and batch visibility classification.
package cull

import (
	"math"

	"github.com/taigrr/bounds/pkg/geom"
	"github.com/taigrr/bounds/pkg/math3d"
)

// Camera represents a 3D camera with position and orientation.
//
// The view frustum is derived lazily: changing the camera only marks it
// stale, and Frustum re-derives it the next time it is asked for.
type Camera struct {
	// Position in world space
	Position math3d.Vec3

	// Orientation (Euler angles in radians)
	Pitch float64 // Rotation around X axis (look up/down)
	Yaw   float64 // Rotation around Y axis (look left/right)
	Roll  float64 // Rotation around Z axis (tilt)

	// Projection parameters
	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64 // Near clipping plane
	Far         float64 // Far clipping plane

	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	frustum        *geom.Frustum

	viewDirty     bool
	projDirty     bool
	viewProjDirty bool
}

// NewCamera creates a new camera with default settings.
func NewCamera() *Camera {
	return &Camera{
		Position:      math3d.V3(0, 10, 0),
		FOV:           math.Pi / 3, // 60 degrees
		AspectRatio:   16.0 / 9.0,
		Near:          0.1,
		Far:           1000,
		viewDirty:     true,
		projDirty:     true,
		viewProjDirty: true,
	}
}

func (c *Camera) invalidateView() {
	c.viewDirty = true
	c.viewProjDirty = true
}

func (c *Camera) invalidateProjection() {
	c.projDirty = true
	c.viewProjDirty = true
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.invalidateView()
}

// SetRotation sets the camera rotation (pitch, yaw, roll in radians).
func (c *Camera) SetRotation(pitch, yaw, roll float64) {
	c.Pitch = pitch
	c.Yaw = yaw
	c.Roll = roll
	c.invalidateView()
}

// SetFOV sets the vertical field of view (in radians).
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.invalidateProjection()
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.invalidateProjection()
}

// SetClipPlanes sets the near and far clipping distances.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.invalidateProjection()
}

// Forward returns the forward direction vector.
func (c *Camera) Forward() math3d.Vec3 {
	// Forward is -Z in camera space, rotated by yaw and pitch
	return math3d.V3(
		-math.Sin(c.Yaw)*math.Cos(c.Pitch),
		math.Sin(c.Pitch),
		-math.Cos(c.Yaw)*math.Cos(c.Pitch),
	)
}

// Right returns the right direction vector.
func (c *Camera) Right() math3d.Vec3 {
	return math3d.V3(
		math.Cos(c.Yaw),
		0,
		-math.Sin(c.Yaw),
	)
}

// Up returns the up direction vector.
func (c *Camera) Up() math3d.Vec3 {
	return c.Right().Cross(c.Forward())
}

// ViewMatrix returns the view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		// View = Rotation * Translation(-position), the inverse of the
		// camera's own placement.
		rot := math3d.RotateZ(-c.Roll).Mul(
			math3d.RotateX(-c.Pitch)).Mul(
			math3d.RotateY(-c.Yaw))
		c.viewMatrix = rot.Mul(math3d.Translate(c.Position.Negate()))
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the projection matrix. Clip depth runs from 0 at
// the near plane to w at the far plane, the range geom.Frustum expects.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.PerspectiveZO(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns the combined view-projection matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.viewProjDirty {
		c.viewProjMatrix = c.ProjectionMatrix().Mul(c.ViewMatrix())
		c.viewProjDirty = false
	}
	return c.viewProjMatrix
}

// Frustum returns the camera's view frustum. The same *geom.Frustum is
// returned on every call; it is updated in place when the camera changed
// since the last call.
func (c *Camera) Frustum() *geom.Frustum {
	stale := c.viewProjDirty || c.frustum == nil
	m := c.ViewProjectionMatrix()
	if c.frustum == nil {
		c.frustum = geom.NewFrustum(m)
	} else if stale {
		c.frustum.SetMatrix(m)
	}
	return c.frustum
}

// MoveForward moves the camera forward (or backward if negative).
func (c *Camera) MoveForward(distance float64) {
	c.Position = c.Position.Add(c.Forward().Scale(distance))
	c.invalidateView()
}

// MoveRight moves the camera right (or left if negative).
func (c *Camera) MoveRight(distance float64) {
	c.Position = c.Position.Add(c.Right().Scale(distance))
	c.invalidateView()
}

// MoveUp moves the camera up (or down if negative).
func (c *Camera) MoveUp(distance float64) {
	c.Position = c.Position.Add(math3d.Up().Scale(distance))
	c.invalidateView()
}

// maxPitch keeps the camera off the poles, where yaw is undefined.
const maxPitch = math.Pi/2 - 0.01

// Rotate rotates the camera by the given angles (in radians).
func (c *Camera) Rotate(deltaPitch, deltaYaw, deltaRoll float64) {
	c.Pitch = clampPitch(c.Pitch + deltaPitch)
	c.Yaw += deltaYaw
	c.Roll += deltaRoll
	c.invalidateView()
}

func clampPitch(p float64) float64 {
	return math.Max(-maxPitch, math.Min(maxPitch, p))
}

// LookAt makes the camera look at a target point.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()

	c.Pitch = math.Asin(dir.Y)
	c.Yaw = math.Atan2(-dir.X, -dir.Z)
	c.Roll = 0

	c.invalidateView()
}

// WorldToScreen transforms a world point to screen coordinates.
// Returns (screenX, screenY, depth, visible); depth is 0 at the near plane
// and 1 at the far plane.
func (c *Camera) WorldToScreen(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, visible bool) {
	clipPos := c.ViewProjectionMatrix().MulVec4(math3d.V4FromV3(worldPos, 1))

	// Behind the camera
	if clipPos.W <= 0 {
		return 0, 0, 0, false
	}

	ndc := clipPos.PerspectiveDivide()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < 0 || ndc.Z > 1 {
		return 0, 0, 0, false
	}

	x = (ndc.X + 1) * 0.5 * float64(screenWidth)
	y = (1 - ndc.Y) * 0.5 * float64(screenHeight) // Y is flipped
	return x, y, ndc.Z, true
}

// PickRay returns the world-space ray through the screen point (x, y),
// starting on the near plane. The direction has unit length, so ray
// distances are world distances.
func (c *Camera) PickRay(x, y float64, screenWidth, screenHeight int) geom.Ray {
	ndcX := x/float64(screenWidth)*2 - 1
	ndcY := 1 - y/float64(screenHeight)*2

	inv := c.ViewProjectionMatrix().Inverse()
	near := inv.MulVec3(math3d.V3(ndcX, ndcY, 0))
	far := inv.MulVec3(math3d.V3(ndcX, ndcY, 1))
	return geom.NewRay(near, far.Sub(near).Normalize())
}
