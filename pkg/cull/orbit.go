package cull

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/bounds/pkg/math3d"
)

// axis tracks one spring-driven orbit coordinate.
type axis struct {
	pos  float64
	vel  float64
	goal float64
}

func (a *axis) update(s harmonica.Spring) {
	a.pos, a.vel = s.Update(a.pos, a.vel, a.goal)
}

func (a *axis) settled(eps float64) bool {
	return math.Abs(a.pos-a.goal) <= eps && math.Abs(a.vel) <= eps
}

// Orbit moves a camera around a target point. Yaw, pitch and distance each
// ease toward their goal on a critically damped spring, one step per frame.
type Orbit struct {
	Target math3d.Vec3

	spring   harmonica.Spring
	yaw      axis
	pitch    axis
	distance axis

	// MinDistance keeps the camera from passing through the target.
	MinDistance float64
}

// Spring parameters: angular frequency and damping ratio. A damping ratio
// of 1 approaches the goal as fast as possible without overshooting.
const (
	orbitFrequency = 4.0
	orbitDamping   = 1.0
)

// NewOrbit creates an orbit around target at the given distance, stepped at
// fps updates per second.
func NewOrbit(fps int, target math3d.Vec3, distance float64) *Orbit {
	return &Orbit{
		Target:      target,
		spring:      harmonica.NewSpring(harmonica.FPS(fps), orbitFrequency, orbitDamping),
		distance:    axis{pos: distance, goal: distance},
		MinDistance: 0.5,
	}
}

// SetGoal sets the yaw, pitch (radians) and distance to ease toward.
// Pitch is clamped short of straight up or down.
func (o *Orbit) SetGoal(yaw, pitch, distance float64) {
	o.yaw.goal = yaw
	o.pitch.goal = clampPitch(pitch)
	o.distance.goal = math.Max(distance, o.MinDistance)
}

// Nudge offsets the current goal.
func (o *Orbit) Nudge(dYaw, dPitch, dDistance float64) {
	o.SetGoal(o.yaw.goal+dYaw, o.pitch.goal+dPitch, o.distance.goal+dDistance)
}

// Update advances every spring by one frame.
func (o *Orbit) Update() {
	o.yaw.update(o.spring)
	o.pitch.update(o.spring)
	o.distance.update(o.spring)
}

// Settled reports whether every coordinate is within eps of its goal and
// nearly at rest.
func (o *Orbit) Settled(eps float64) bool {
	return o.yaw.settled(eps) && o.pitch.settled(eps) && o.distance.settled(eps)
}

// Angles returns the current yaw, pitch and distance.
func (o *Orbit) Angles() (yaw, pitch, distance float64) {
	return o.yaw.pos, o.pitch.pos, o.distance.pos
}

// Eye returns the current camera position. Yaw 0 and pitch 0 put the camera
// on the +Z side of the target.
func (o *Orbit) Eye() math3d.Vec3 {
	cp := math.Cos(o.pitch.pos)
	offset := math3d.V3(
		math.Sin(o.yaw.pos)*cp,
		math.Sin(o.pitch.pos),
		math.Cos(o.yaw.pos)*cp,
	)
	return o.Target.Add(offset.Scale(o.distance.pos))
}

// Apply places the camera at the eye point, looking at the target.
func (o *Orbit) Apply(c *Camera) {
	c.SetPosition(o.Eye())
	c.LookAt(o.Target)
}
