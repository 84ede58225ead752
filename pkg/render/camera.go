package render

import (
	"github.com/taigrr/hangar/pkg/math3d"
)

// Camera is a free-flying first-person camera. Yaw and Pitch are unbounded
// accumulators in radians; the look direction is derived from them by
// UpdateLookAtTarget.
type Camera struct {
	// Position in world space
	Position math3d.Vec3

	// Direction is the last computed look direction (unit length once
	// UpdateLookAtTarget has run).
	Direction math3d.Vec3

	// ForwardVelocity is the displacement applied by the last move.
	ForwardVelocity math3d.Vec3

	Yaw   float64 // Rotation around Y axis (look left/right)
	Pitch float64 // Rotation around X axis (look up/down)
}

// NewCamera creates a camera at position looking along direction.
func NewCamera(position, direction math3d.Vec3) *Camera {
	return &Camera{
		Position:  position,
		Direction: direction,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
}

// SetDirection sets the look direction. It is overwritten by the next
// UpdateLookAtTarget.
func (c *Camera) SetDirection(dir math3d.Vec3) {
	c.Direction = dir
}

// SetForwardVelocity sets the stored forward velocity.
func (c *Camera) SetForwardVelocity(v math3d.Vec3) {
	c.ForwardVelocity = v
}

// RotateYaw adds delta radians to the yaw.
func (c *Camera) RotateYaw(delta float64) {
	c.Yaw += delta
}

// RotatePitch adds delta radians to the pitch. Pitch is not clamped, so
// looking past straight up turns the view over.
func (c *Camera) RotatePitch(delta float64) {
	c.Pitch += delta
}

// UpdateLookAtTarget recomputes Direction from yaw and pitch and returns
// the point one unit ahead of the camera.
func (c *Camera) UpdateLookAtTarget() math3d.Vec3 {
	rotation := math3d.RotateX(c.Pitch).Mul(math3d.RotateY(c.Yaw))
	c.Direction = rotation.MulVec3Dir(math3d.Forward())
	return c.Position.Add(c.Direction)
}

// ViewMatrix recomputes the look-at target and returns the left-handed view
// matrix for the current pose.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	target := c.UpdateLookAtTarget()
	return math3d.LookAtLH(c.Position, target, math3d.Up())
}

// MoveForward moves distance units along Direction.
func (c *Camera) MoveForward(distance float64) {
	c.ForwardVelocity = c.Direction.Scale(distance)
	c.Position = c.Position.Add(c.ForwardVelocity)
}

// MoveBackward moves distance units against Direction.
func (c *Camera) MoveBackward(distance float64) {
	c.ForwardVelocity = c.Direction.Scale(distance)
	c.Position = c.Position.Sub(c.ForwardVelocity)
}
