package render

import (
	"math"
	"testing"

	"github.com/taigrr/hangar/pkg/math3d"
)

func testFrustum() Frustum {
	return NewFrustum(math.Pi/2, math.Pi/2, 1, 20)
}

func TestPlaneDistance(t *testing.T) {
	// Plane at Z=2, normal pointing +Z
	plane := Plane{Point: math3d.V3(0, 0, 2), Normal: math3d.V3(0, 0, 1)}

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected float64
	}{
		{"on plane", math3d.V3(0, 0, 2), 0},
		{"in front", math3d.V3(0, 0, 5), 3},
		{"behind", math3d.V3(0, 0, -3), -5},
		{"offset XY", math3d.V3(10, -5, 2), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist := plane.Distance(tc.point)
			if math.Abs(dist-tc.expected) > 1e-9 {
				t.Errorf("got %v, want %v", dist, tc.expected)
			}
		})
	}
}

func TestNewFrustumPlanes(t *testing.T) {
	fovx, fovy := math.Pi/2, math.Pi/3
	f := NewFrustum(fovx, fovy, 1, 20)

	cx, sx := math.Cos(fovx/2), math.Sin(fovx/2)
	cy, sy := math.Cos(fovy/2), math.Sin(fovy/2)

	tests := []struct {
		id     FrustumPlane
		point  math3d.Vec3
		normal math3d.Vec3
	}{
		{FrustumLeft, math3d.Zero3(), math3d.V3(cx, 0, sx)},
		{FrustumRight, math3d.Zero3(), math3d.V3(-cx, 0, sx)},
		{FrustumTop, math3d.Zero3(), math3d.V3(0, -cy, sy)},
		{FrustumBottom, math3d.Zero3(), math3d.V3(0, cy, sy)},
		{FrustumNear, math3d.V3(0, 0, 1), math3d.V3(0, 0, 1)},
		{FrustumFar, math3d.V3(0, 0, 20), math3d.V3(0, 0, -1)},
	}

	for _, tc := range tests {
		t.Run(tc.id.String(), func(t *testing.T) {
			p := f.Plane(tc.id)
			if !p.Point.ApproxEqual(tc.point, 1e-12) {
				t.Errorf("point = %v, want %v", p.Point, tc.point)
			}
			if !p.Normal.ApproxEqual(tc.normal, 1e-12) {
				t.Errorf("normal = %v, want %v", p.Normal, tc.normal)
			}
			if math.Abs(p.Normal.Len()-1) > 1e-12 {
				t.Errorf("normal length = %v, want 1", p.Normal.Len())
			}
		})
	}
}

// insideAll reports whether p is on the inner side of every plane.
func insideAll(f Frustum, p math3d.Vec3) bool {
	for _, pl := range f.Planes {
		if pl.Distance(p) < 0 {
			return false
		}
	}
	return true
}

func TestFrustumPlanesEnclose(t *testing.T) {
	f := testFrustum()

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected bool
	}{
		{"center", math3d.V3(0, 0, 5), true},
		{"on near plane", math3d.V3(0, 0, 1), true},
		{"on far plane", math3d.V3(0, 0, 20), true},
		{"behind camera", math3d.V3(0, 0, -5), false},
		{"before near", math3d.V3(0, 0, 0.5), false},
		{"beyond far", math3d.V3(0, 0, 25), false},
		{"far left", math3d.V3(-10, 0, 5), false},
		{"far right", math3d.V3(10, 0, 5), false},
		{"far up", math3d.V3(0, 10, 5), false},
		{"far down", math3d.V3(0, -10, 5), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := insideAll(f, tc.point); got != tc.expected {
				t.Errorf("inside(%v) = %v, want %v", tc.point, got, tc.expected)
			}
		})
	}
}

func TestFrustumIntersectAABB(t *testing.T) {
	f := testFrustum()

	tests := []struct {
		name     string
		box      AABB
		expected bool
	}{
		{"inside", NewAABB(math3d.V3(-1, -1, 4), math3d.V3(1, 1, 6)), true},
		{"straddles near", NewAABB(math3d.V3(-1, -1, 0), math3d.V3(1, 1, 2)), true},
		{"contains frustum", NewAABB(math3d.V3(-100, -100, -100), math3d.V3(100, 100, 100)), true},
		{"behind camera", NewAABB(math3d.V3(-1, -1, -6), math3d.V3(1, 1, -4)), false},
		{"beyond far", NewAABB(math3d.V3(-1, -1, 30), math3d.V3(1, 1, 40)), false},
		{"off to the right", NewAABB(math3d.V3(20, -1, 4), math3d.V3(22, 1, 6)), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.IntersectAABB(tc.box); got != tc.expected {
				t.Errorf("IntersectAABB = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestAABBTransform(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	moved := box.Transform(math3d.Translate(math3d.V3(0, 0, 10)))
	if !moved.Min.ApproxEqual(math3d.V3(-1, -1, 9), 1e-12) || !moved.Max.ApproxEqual(math3d.V3(1, 1, 11), 1e-12) {
		t.Errorf("translated box = %v..%v", moved.Min, moved.Max)
	}

	// 45 degrees around Y grows the X/Z extent to sqrt(2)
	rotated := box.Transform(math3d.RotateY(math.Pi / 4))
	want := math.Sqrt2
	if math.Abs(rotated.Max.X-want) > 1e-9 || math.Abs(rotated.Max.Z-want) > 1e-9 {
		t.Errorf("rotated max = %v, want x=z=%v", rotated.Max, want)
	}
	if center := rotated.Min.Add(rotated.Max).Scale(0.5); !center.ApproxEqual(math3d.Zero3(), 1e-9) {
		t.Errorf("rotated center = %v", center)
	}
}

func BenchmarkFrustumIntersectAABB(b *testing.B) {
	f := testFrustum()
	box := NewAABB(math3d.V3(-1, -1, 4), math3d.V3(1, 1, 6))

	for b.Loop() {
		f.IntersectAABB(box)
	}
}

func BenchmarkAABBTransform(b *testing.B) {
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))
	m := math3d.World(math3d.V3(1, 1, 1), math3d.V3(0.3, 0.5, 0), math3d.V3(0, 0, 10))

	for b.Loop() {
		box.Transform(m)
	}
}
