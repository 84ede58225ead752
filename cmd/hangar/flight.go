package main

import "github.com/charmbracelet/harmonica"

// Per-keypress impulses. Yaw, pitch and throttle keep a 1:3:5 ratio.
const (
	yawImpulse      = 0.25
	pitchImpulse    = 0.75
	throttleImpulse = 1.25
)

// Axis is one rate of motion (rad/s or units/s) that springs back to zero
// once input stops.
type Axis struct {
	Velocity  float64
	spring    harmonica.Spring
	springVel float64
}

// NewAxis creates a critically damped axis stepped at fps.
func NewAxis(fps int) Axis {
	// Frequency 4.0 = moderate decay, damping 1.0 = no overshoot
	return Axis{spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

// Step returns the distance covered over dt and decays the velocity.
func (a *Axis) Step(dt float64) float64 {
	d := a.Velocity * dt
	a.Velocity, a.springVel = a.spring.Update(a.Velocity, a.springVel, 0)
	return d
}

// Flight smooths camera motion: keypresses add impulses, the frame loop
// turns them into yaw, pitch and forward deltas.
type Flight struct {
	Yaw, Pitch, Throttle Axis
	fps                  int
}

// NewFlight creates a resting flight state.
func NewFlight(fps int) *Flight {
	return &Flight{
		Yaw:      NewAxis(fps),
		Pitch:    NewAxis(fps),
		Throttle: NewAxis(fps),
		fps:      fps,
	}
}

// Impulse adds to the axis velocities.
func (f *Flight) Impulse(yaw, pitch, throttle float64) {
	f.Yaw.Velocity += yaw
	f.Pitch.Velocity += pitch
	f.Throttle.Velocity += throttle
}

// Step advances all axes by dt seconds.
func (f *Flight) Step(dt float64) (yaw, pitch, distance float64) {
	return f.Yaw.Step(dt), f.Pitch.Step(dt), f.Throttle.Step(dt)
}

// Reset stops all motion.
func (f *Flight) Reset() {
	f.Yaw = NewAxis(f.fps)
	f.Pitch = NewAxis(f.fps)
	f.Throttle = NewAxis(f.fps)
}
