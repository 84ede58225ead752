package render

import (
	"image/color"

	"github.com/taigrr/hangar/pkg/math3d"
)

// Light is a single directional light. Direction points from the light
// into the scene.
type Light struct {
	Direction math3d.Vec3
}

// NewLight returns a light shining along dir (normalized).
func NewLight(dir math3d.Vec3) Light {
	return Light{Direction: dir.Normalize()}
}

// Intensity returns the flat shading factor for a face with unit normal n:
// the negated cosine between the normal and the light direction.
// Not clamped; ApplyIntensity does that.
func (l Light) Intensity(n math3d.Vec3) float64 {
	return -n.Dot(l.Direction)
}

// ApplyIntensity scales the red, green and blue channels of a packed ARGB
// color by factor clamped to [0, 1]. Alpha is kept.
func ApplyIntensity(argb uint32, factor float64) uint32 {
	factor = max(0, min(1, factor))

	a := argb & 0xFF000000
	r := uint32(float64(argb&0x00FF0000)*factor) & 0x00FF0000
	g := uint32(float64(argb&0x0000FF00)*factor) & 0x0000FF00
	b := uint32(float64(argb&0x000000FF)*factor) & 0x000000FF

	return a | r | g | b
}

// UnpackColor expands a packed ARGB color.
func UnpackColor(argb uint32) color.RGBA {
	return color.RGBA{
		R: uint8(argb >> 16),
		G: uint8(argb >> 8),
		B: uint8(argb),
		A: uint8(argb >> 24),
	}
}
