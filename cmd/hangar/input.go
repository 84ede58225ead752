package main

import "github.com/taigrr/hangar/pkg/render"

type commandKind int

const (
	cmdQuit commandKind = iota
	cmdMode
	cmdCull
	cmdPitchUp
	cmdPitchDown
	cmdYawLeft
	cmdYawRight
	cmdForward
	cmdBackward
	cmdStop
	cmdToggleHUD
	cmdResize
)

// command is sent from the input goroutine to the frame loop, which is the
// only place the camera and pipeline are touched.
type command struct {
	kind          commandKind
	mode          render.RenderMode
	cull          render.CullMode
	width, height int
}

type binding struct {
	keys []string
	cmd  command
}

var bindings = []binding{
	{[]string{"escape", "ctrl+c"}, command{kind: cmdQuit}},
	{[]string{"1"}, command{kind: cmdMode, mode: render.ModeWireVertex}},
	{[]string{"2"}, command{kind: cmdMode, mode: render.ModeWire}},
	{[]string{"3"}, command{kind: cmdMode, mode: render.ModeFillTriangle}},
	{[]string{"4"}, command{kind: cmdMode, mode: render.ModeFillTriangleWire}},
	{[]string{"5"}, command{kind: cmdMode, mode: render.ModeTextured}},
	{[]string{"6"}, command{kind: cmdMode, mode: render.ModeTexturedWire}},
	{[]string{"c"}, command{kind: cmdCull, cull: render.CullBackface}},
	{[]string{"x"}, command{kind: cmdCull, cull: render.CullNone}},
	{[]string{"i", "up"}, command{kind: cmdPitchUp}},
	{[]string{"k", "down"}, command{kind: cmdPitchDown}},
	{[]string{"j", "left"}, command{kind: cmdYawLeft}},
	{[]string{"l", "right"}, command{kind: cmdYawRight}},
	{[]string{"w"}, command{kind: cmdForward}},
	{[]string{"s"}, command{kind: cmdBackward}},
	{[]string{"space"}, command{kind: cmdStop}},
	{[]string{"?", "shift+/"}, command{kind: cmdToggleHUD}},
}

// matchKey returns the command bound to a key press. match reports whether
// the pressed key is any of the given names.
func matchKey(match func(keys ...string) bool) (command, bool) {
	for _, b := range bindings {
		if match(b.keys...) {
			return b.cmd, true
		}
	}
	return command{}, false
}

// viewState is the interactive state owned by the frame loop.
type viewState struct {
	mode    render.RenderMode
	cull    render.CullMode
	showHUD bool
}

// apply executes a command. It returns false when the program should exit.
func apply(cmd command, view *viewState, flight *Flight) bool {
	switch cmd.kind {
	case cmdQuit:
		return false
	case cmdMode:
		view.mode = cmd.mode
	case cmdCull:
		view.cull = cmd.cull
	case cmdPitchUp:
		// Stick forward: positive pitch tips the view down
		flight.Impulse(0, pitchImpulse, 0)
	case cmdPitchDown:
		flight.Impulse(0, -pitchImpulse, 0)
	case cmdYawLeft:
		flight.Impulse(-yawImpulse, 0, 0)
	case cmdYawRight:
		flight.Impulse(yawImpulse, 0, 0)
	case cmdForward:
		flight.Impulse(0, 0, throttleImpulse)
	case cmdBackward:
		flight.Impulse(0, 0, -throttleImpulse)
	case cmdStop:
		flight.Reset()
	case cmdToggleHUD:
		view.showHUD = !view.showHUD
	}
	return true
}

// fly moves the camera by one frame of flight.
func fly(cam *render.Camera, flight *Flight, dt float64) {
	yaw, pitch, dist := flight.Step(dt)
	cam.RotateYaw(yaw)
	cam.RotatePitch(pitch)
	switch {
	case dist > 0:
		cam.MoveForward(dist)
	case dist < 0:
		cam.MoveBackward(-dist)
	}
}
