package math3d

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestRotateYForward(t *testing.T) {
	tests := []struct {
		name  string
		angle float64
	}{
		{"zero", 0},
		{"quarter", math.Pi / 2},
		{"small", 0.3},
		{"negative", -1.2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := RotateY(tc.angle).MulVec3Dir(Forward())
			want := V3(math.Sin(tc.angle), 0, math.Cos(tc.angle))
			if !got.ApproxEqual(want, eps) {
				t.Errorf("RotateY(%v) * forward = %v, want %v", tc.angle, got, want)
			}
		})
	}
}

func TestWorldOrder(t *testing.T) {
	// Scale first, then rotate, then translate.
	m := World(V3(2, 2, 2), V3(0, math.Pi/2, 0), V3(10, 0, 0))
	got := m.MulPoint(V3(0, 0, 1))
	// (0,0,1) -> scale (0,0,2) -> rotY 90° (2,0,0) -> translate (12,0,0)
	want := V3(12, 0, 0)
	if !got.ApproxEqual(want, eps) {
		t.Errorf("World * (0,0,1) = %v, want %v", got, want)
	}
}

func TestWorldIdentity(t *testing.T) {
	m := World(V3(1, 1, 1), Zero3(), Zero3())
	if m != Identity() {
		t.Errorf("World with neutral parameters = %v, want identity", m)
	}
}

func TestLookAtLHIdentity(t *testing.T) {
	view := LookAtLH(Zero3(), Forward(), Up())
	p := V3(1, 2, 3)
	if got := view.MulPoint(p); !got.ApproxEqual(p, eps) {
		t.Errorf("view * %v = %v, want unchanged", p, got)
	}
}

func TestLookAtLHTranslated(t *testing.T) {
	eye := V3(0, 0, -5)
	view := LookAtLH(eye, V3(0, 0, 0), Up())
	got := view.MulPoint(V3(0, 0, 0))
	want := V3(0, 0, 5)
	if !got.ApproxEqual(want, eps) {
		t.Errorf("origin in camera space = %v, want %v", got, want)
	}
}

func TestPerspectiveLH(t *testing.T) {
	near, far := 1.0, 20.0
	proj := PerspectiveLH(math.Pi/3, 1.5, near, far)

	t.Run("w carries depth", func(t *testing.T) {
		p := proj.MulVec4(V4(0.5, -0.5, 7, 1))
		if math.Abs(p.W-7) > eps {
			t.Errorf("W = %v, want 7", p.W)
		}
	})

	t.Run("near maps to 0", func(t *testing.T) {
		p := proj.MulVec4(V4(0, 0, near, 1)).PerspectiveDivide()
		if math.Abs(p.Z) > eps {
			t.Errorf("near depth = %v, want 0", p.Z)
		}
	})

	t.Run("far maps to 1", func(t *testing.T) {
		p := proj.MulVec4(V4(0, 0, far, 1)).PerspectiveDivide()
		if math.Abs(p.Z-1) > eps {
			t.Errorf("far depth = %v, want 1", p.Z)
		}
	})

	t.Run("edge of fov maps to ndc 1", func(t *testing.T) {
		z := 4.0
		y := z * math.Tan(math.Pi/6)
		p := proj.MulVec4(V4(0, y, z, 1)).PerspectiveDivide()
		if math.Abs(p.Y-1) > eps {
			t.Errorf("ndc y = %v, want 1", p.Y)
		}
	})
}

func TestPerspectiveDivideZeroW(t *testing.T) {
	v := V4(3, 4, 5, 0)
	if got := v.PerspectiveDivide(); got != v {
		t.Errorf("PerspectiveDivide with w=0 = %v, want %v", got, v)
	}
}

func TestHorizontalFOV(t *testing.T) {
	fovy := math.Pi / 3
	if got := HorizontalFOV(fovy, 1); math.Abs(got-fovy) > eps {
		t.Errorf("HorizontalFOV(aspect=1) = %v, want %v", got, fovy)
	}
	if got := HorizontalFOV(fovy, 2); got <= fovy {
		t.Errorf("HorizontalFOV(aspect=2) = %v, want > %v", got, fovy)
	}
}

func TestVec2Lerp(t *testing.T) {
	a := V2(0, 1)
	b := V2(1, 0)
	got := a.Lerp(b, 0.25)
	want := V2(0.25, 0.75)
	if !got.ApproxEqual(want, eps) {
		t.Errorf("Lerp = %v, want %v", got, want)
	}
}
