package render

import (
	"math"
	"testing"

	"github.com/taigrr/hangar/pkg/math3d"
	"github.com/taigrr/hangar/pkg/models"
)

// testMesh is a minimal MeshSource.
type testMesh struct {
	vertices    []math3d.Vec3
	faces       [][3]int
	color       uint32
	translation math3d.Vec3
	rotation    math3d.Vec3
}

func (m *testMesh) TriangleCount() int          { return len(m.faces) }
func (m *testMesh) GetVertex(i int) math3d.Vec3 { return m.vertices[i] }
func (m *testMesh) GetFace(i int) ([3]int, [3]math3d.Vec2, uint32) {
	return m.faces[i], [3]math3d.Vec2{{X: 0, Y: 0}, {X: 0.5, Y: 1}, {X: 1, Y: 0}}, m.color
}
func (m *testMesh) GetTransform() (scale, rotation, translation math3d.Vec3) {
	return math3d.V3(1, 1, 1), m.rotation, m.translation
}

func triangleMesh(a, b, c math3d.Vec3) *testMesh {
	return &testMesh{
		vertices: []math3d.Vec3{a, b, c},
		faces:    [][3]int{{0, 1, 2}},
		color:    0xFFFFFFFF,
	}
}

// frontTriangle faces a camera at the origin looking down +Z.
func frontTriangle() *testMesh {
	return triangleMesh(math3d.V3(-1, -1, 5), math3d.V3(0, 1, 5), math3d.V3(1, -1, 5))
}

// backTriangle is frontTriangle with the opposite winding.
func backTriangle() *testMesh {
	return triangleMesh(math3d.V3(-1, -1, 5), math3d.V3(1, -1, 5), math3d.V3(0, 1, 5))
}

func newTestPipeline(cull CullMode, queueCapacity int) *Pipeline {
	cam := NewCamera(math3d.Zero3(), math3d.V3(0, 0, 1))
	p := NewPipeline(cam, NewLight(math3d.V3(0, 0, 1)),
		Projection{FOVY: math.Pi / 3, Near: 1, Far: 20},
		Viewport{Width: 800, Height: 600},
		queueCapacity,
	)
	p.Cull = cull
	return p
}

func TestPipelineFrontFaceEmitted(t *testing.T) {
	p := newTestPipeline(CullBackface, 0)

	stats := p.Update([]Object{{Mesh: frontTriangle()}})

	if stats.Emitted != 1 || p.Queue().Len() != 1 {
		t.Fatalf("emitted %d, queue %d, want 1", stats.Emitted, p.Queue().Len())
	}
	tri := p.Queue().Triangles()[0]
	// Normal (0,0,-1) faces the light (0,0,1): full intensity
	if tri.Color != 0xFFFFFFFF {
		t.Errorf("color = %#x, want 0xffffffff", tri.Color)
	}
	for i, pt := range tri.Points {
		if math.Abs(pt.W-5) > 1e-9 {
			t.Errorf("point %d w = %v, want camera depth 5", i, pt.W)
		}
	}
	// Vertex B is above center: smaller screen y
	if tri.Points[1].Y >= 300 {
		t.Errorf("top vertex y = %v, want above center", tri.Points[1].Y)
	}
}

func TestPipelineBackfaceCulling(t *testing.T) {
	tests := []struct {
		name        string
		cull        CullMode
		wantEmitted int
		wantCulled  int
	}{
		{"cull enabled", CullBackface, 0, 1},
		{"cull disabled", CullNone, 1, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := newTestPipeline(tc.cull, 0)

			stats := p.Update([]Object{{Mesh: backTriangle()}})

			if stats.Emitted != tc.wantEmitted || p.Queue().Len() != tc.wantEmitted {
				t.Errorf("emitted %d, queue %d, want %d", stats.Emitted, p.Queue().Len(), tc.wantEmitted)
			}
			if stats.Culled != tc.wantCulled {
				t.Errorf("culled = %d, want %d", stats.Culled, tc.wantCulled)
			}
		})
	}
}

func TestPipelineBackFaceUnlit(t *testing.T) {
	p := newTestPipeline(CullNone, 0)
	p.Update([]Object{{Mesh: backTriangle()}})

	// Normal points along the light: negative intensity clamps to 0
	if got := p.Queue().Triangles()[0].Color; got != 0xFF000000 {
		t.Errorf("color = %#x, want 0xff000000", got)
	}
}

func TestPipelineScreenCenter(t *testing.T) {
	p := newTestPipeline(CullBackface, 0)

	for _, z := range []float64{1, 5, 19.5} {
		got := p.ToScreen(math3d.V4(0, 0, z, 1))
		if math.Abs(got.X-400) > 1e-9 || math.Abs(got.Y-300) > 1e-9 {
			t.Errorf("z=%v: screen = (%v, %v), want (400, 300)", z, got.X, got.Y)
		}
	}
}

func TestPipelineScreenEdges(t *testing.T) {
	p := newTestPipeline(CullBackface, 0)
	halfY := math.Tan(math.Pi / 6)

	// A point on the top frustum edge lands on row 0
	got := p.ToScreen(math3d.V4(0, 5*halfY, 5, 1))
	if math.Abs(got.Y) > 1e-9 {
		t.Errorf("top edge y = %v, want 0", got.Y)
	}

	// w = 0 skips the divide instead of producing Inf
	got = p.ToScreen(math3d.V4(0, 0, 0, 1))
	if math.IsInf(got.X, 0) || math.IsNaN(got.X) {
		t.Errorf("w=0 produced %v", got)
	}
}

func TestPipelineBehindNearPlane(t *testing.T) {
	p := newTestPipeline(CullNone, 0)
	mesh := triangleMesh(math3d.V3(-50, -50, 0.5), math3d.V3(0, 50, 0.5), math3d.V3(50, -50, 0.5))

	stats := p.Update([]Object{{Mesh: mesh}})

	if stats.Emitted != 0 || p.Queue().Len() != 0 {
		t.Errorf("emitted %d, want 0", stats.Emitted)
	}
	if stats.ClippedAway != 1 {
		t.Errorf("clipped away = %d, want 1", stats.ClippedAway)
	}
}

func TestPipelineClippedFaceSharesColor(t *testing.T) {
	p := newTestPipeline(CullBackface, 0)
	p.Light = NewLight(math3d.V3(0, -1, 1))

	// Straddles the near plane: B is in front of it
	mesh := triangleMesh(math3d.V3(-0.2, -0.2, 3), math3d.V3(0, 0.2, 0.5), math3d.V3(0.2, -0.2, 3))
	mesh.color = 0xFF808080
	stats := p.Update([]Object{{Mesh: mesh}})

	if stats.Emitted != 2 {
		t.Fatalf("emitted = %d, want 2", stats.Emitted)
	}
	tris := p.Queue().Triangles()
	if tris[0].Color != tris[1].Color {
		t.Errorf("sub-triangle colors differ: %#x vs %#x", tris[0].Color, tris[1].Color)
	}
}

func TestPipelineQueueOverflow(t *testing.T) {
	p := newTestPipeline(CullBackface, 1)

	stats := p.Update([]Object{{Mesh: frontTriangle()}, {Mesh: frontTriangle()}})

	if p.Queue().Len() != 1 {
		t.Errorf("queue len = %d, want 1", p.Queue().Len())
	}
	if stats.Emitted != 1 || stats.Dropped != 1 {
		t.Errorf("emitted %d dropped %d, want 1 and 1", stats.Emitted, stats.Dropped)
	}
}

func TestPipelineResetsEachFrame(t *testing.T) {
	p := newTestPipeline(CullBackface, 0)
	objects := []Object{{Mesh: frontTriangle()}}

	p.Update(objects)
	p.Update(objects)

	if p.Queue().Len() != 1 {
		t.Errorf("queue len after two frames = %d, want 1", p.Queue().Len())
	}
}

func TestPipelineCarriesTexture(t *testing.T) {
	p := newTestPipeline(CullBackface, 0)
	tex := NewCheckerTexture(4, 4, 2, ColorWhite, ColorBlack)

	p.Update([]Object{{Mesh: frontTriangle(), Texture: tex}})

	tri := p.Queue().Triangles()[0]
	if tri.Texture != tex {
		t.Error("texture not carried to the render queue")
	}
	if tri.TexCoords[1] != math3d.V2(0.5, 1) {
		t.Errorf("texcoord = %v, want (0.5,1)", tri.TexCoords[1])
	}
}

func TestPipelineFollowsCamera(t *testing.T) {
	p := newTestPipeline(CullBackface, 0)

	// Turn around: the front triangle is now behind the camera
	p.Camera.RotateYaw(math.Pi)
	if stats := p.Update([]Object{{Mesh: frontTriangle()}}); stats.Emitted != 0 {
		t.Errorf("emitted %d behind camera, want 0", stats.Emitted)
	}

	behind := triangleMesh(math3d.V3(1, -1, -5), math3d.V3(0, 1, -5), math3d.V3(-1, -1, -5))
	if stats := p.Update([]Object{{Mesh: behind}}); stats.Emitted != 1 {
		t.Errorf("emitted %d, want 1", stats.Emitted)
	}
}

func TestPipelineWorldTransform(t *testing.T) {
	p := newTestPipeline(CullBackface, 0)
	mesh := triangleMesh(math3d.V3(-1, -1, 0), math3d.V3(0, 1, 0), math3d.V3(1, -1, 0))
	mesh.translation = math3d.V3(0, 0, 5)

	p.Update([]Object{{Mesh: mesh}})

	if p.Queue().Len() != 1 {
		t.Fatalf("queue len = %d, want 1", p.Queue().Len())
	}
	if w := p.Queue().Triangles()[0].Points[0].W; math.Abs(w-5) > 1e-9 {
		t.Errorf("w = %v, want 5", w)
	}
}

func TestPipelineCube(t *testing.T) {
	p := newTestPipeline(CullBackface, 0)
	cube := models.NewCube("cube")
	cube.Translation = math3d.V3(0, 0, 5)

	stats := p.Update([]Object{{Mesh: cube}})

	// Only the two triangles of the face toward the camera survive
	if stats.Faces != 12 || stats.Culled != 10 || stats.Emitted != 2 {
		t.Errorf("faces %d culled %d emitted %d, want 12/10/2", stats.Faces, stats.Culled, stats.Emitted)
	}
}

func TestPipelineSkipsObjectOutsideFrustum(t *testing.T) {
	p := newTestPipeline(CullBackface, 0)
	cube := models.NewCube("cube")
	cube.Translation = math3d.V3(0, 0, -10)

	stats := p.Update([]Object{{Mesh: cube}})

	if stats.ObjectsSkipped != 1 || stats.Faces != 0 {
		t.Errorf("skipped %d faces %d, want 1 and 0", stats.ObjectsSkipped, stats.Faces)
	}
}

func TestPipelineResize(t *testing.T) {
	p := newTestPipeline(CullBackface, 0)
	p.Resize(Viewport{Width: 100, Height: 50})

	got := p.ToScreen(math3d.V4(0, 0, 5, 1))
	if got.X != 50 || got.Y != 25 {
		t.Errorf("center = (%v, %v), want (50, 25)", got.X, got.Y)
	}
	if p.viewport.Width != 100 {
		t.Errorf("viewport = %v", p.viewport)
	}
}

func BenchmarkPipelineUpdate(b *testing.B) {
	p := newTestPipeline(CullBackface, 0)
	objects := make([]Object, 0, 20)
	for i := range 20 {
		cube := models.NewCube("cube")
		cube.Translation = math3d.V3(float64(i%5)-2, float64(i/5)-2, 8)
		cube.Rotation = math3d.V3(0.3*float64(i), 0.5, 0)
		objects = append(objects, Object{Mesh: cube})
	}

	for b.Loop() {
		p.Update(objects)
	}
}
