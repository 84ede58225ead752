package models

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/taigrr/hangar/pkg/math3d"
)

const quadOBJ = `# a textured quad
v -1 -1 0
v -1 1 0
v 1 1 0
v 1 -1 0
vt 0 0
vt 0 1
vt 1 1
vt 1 0
f 1/1 2/2 3/3 4/4
`

func TestParseOBJQuadFan(t *testing.T) {
	mesh, err := ParseOBJ(strings.NewReader(quadOBJ), "quad")
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}

	if mesh.VertexCount() != 4 {
		t.Errorf("vertex count = %d, want 4", mesh.VertexCount())
	}
	if mesh.TriangleCount() != 2 {
		t.Fatalf("triangle count = %d, want 2", mesh.TriangleCount())
	}

	want := [][3]int{{0, 1, 2}, {0, 2, 3}}
	for i, w := range want {
		if mesh.Faces[i].V != w {
			t.Errorf("face %d indices = %v, want %v", i, mesh.Faces[i].V, w)
		}
		if mesh.Faces[i].Color != DefaultFaceColor {
			t.Errorf("face %d color = %#x, want %#x", i, mesh.Faces[i].Color, DefaultFaceColor)
		}
	}

	if got := mesh.Faces[1].UV[2]; !got.ApproxEqual(math3d.V2(1, 0), 1e-12) {
		t.Errorf("face 1 uv[2] = %v, want (1,0)", got)
	}

	if !mesh.BoundsMin.ApproxEqual(math3d.V3(-1, -1, 0), 1e-12) ||
		!mesh.BoundsMax.ApproxEqual(math3d.V3(1, 1, 0), 1e-12) {
		t.Errorf("bounds = %v..%v", mesh.BoundsMin, mesh.BoundsMax)
	}
}

func TestParseOBJIndexForms(t *testing.T) {
	tests := []struct {
		name string
		face string
		want [3]int
	}{
		{"plain", "f 1 2 3", [3]int{0, 1, 2}},
		{"with normals", "f 1//1 2//1 3//1", [3]int{0, 1, 2}},
		{"full", "f 1/1/1 2/1/1 3/1/1", [3]int{0, 1, 2}},
		{"negative", "f -3 -2 -1", [3]int{0, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "v 0 0 0\nv 0 1 0\nv 1 0 0\nvt 0 0\n" + tt.face + "\n"
			mesh, err := ParseOBJ(strings.NewReader(src), tt.name)
			if err != nil {
				t.Fatalf("ParseOBJ: %v", err)
			}
			if mesh.Faces[0].V != tt.want {
				t.Errorf("indices = %v, want %v", mesh.Faces[0].V, tt.want)
			}
		})
	}
}

func TestParseOBJMissingTexcoordIsZero(t *testing.T) {
	mesh, err := ParseOBJ(strings.NewReader("v 0 0 0\nv 0 1 0\nv 1 0 0\nf 1 2 3\n"), "tri")
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	for i, uv := range mesh.Faces[0].UV {
		if uv != (math3d.Vec2{}) {
			t.Errorf("uv[%d] = %v, want zero", i, uv)
		}
	}
}

func TestParseOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no faces", "v 0 0 0\n"},
		{"index zero", "v 0 0 0\nv 0 1 0\nv 1 0 0\nf 0 1 2\n"},
		{"out of range", "v 0 0 0\nv 0 1 0\nv 1 0 0\nf 1 2 4\n"},
		{"bad float", "v 0 x 0\n"},
		{"short vertex", "v 0 0\n"},
		{"two corners", "v 0 0 0\nv 0 1 0\nf 1 2\n"},
		{"bad texcoord index", "v 0 0 0\nv 0 1 0\nv 1 0 0\nf 1/1 2/1 3/1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseOBJ(strings.NewReader(tt.src), tt.name); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadOBJ(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.obj")
	if err := os.WriteFile(path, []byte(quadOBJ), 0o644); err != nil {
		t.Fatal(err)
	}

	mesh, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if mesh.Name != "quad.obj" {
		t.Errorf("name = %q, want quad.obj", mesh.Name)
	}
	if !mesh.Scale.ApproxEqual(math3d.V3(1, 1, 1), 0) {
		t.Errorf("scale = %v, want unit", mesh.Scale)
	}
}

func TestLoadOBJInvalidPath(t *testing.T) {
	if _, err := LoadOBJ("/nonexistent/path.obj"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}
