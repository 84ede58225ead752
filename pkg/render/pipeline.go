package render

import (
	"log/slog"

	"github.com/taigrr/hangar/pkg/math3d"
)

// MeshSource is the geometry the pipeline reads. models.Mesh implements it.
type MeshSource interface {
	TriangleCount() int
	GetVertex(i int) math3d.Vec3
	GetFace(i int) (v [3]int, uv [3]math3d.Vec2, color uint32)
	GetTransform() (scale, rotation, translation math3d.Vec3)
}

// BoundedMeshSource is a MeshSource with a model-space bounding box, which
// lets the pipeline skip objects entirely outside the frustum.
type BoundedMeshSource interface {
	MeshSource
	GetBounds() (min, max math3d.Vec3)
}

// Object is one drawable: geometry plus the texture its triangles carry.
type Object struct {
	Mesh    MeshSource
	Texture *Texture
}

// Projection holds the perspective parameters. FOVY is the full vertical
// field of view in radians.
type Projection struct {
	FOVY float64
	Near float64
	Far  float64
}

// Viewport is the output size in pixels.
type Viewport struct {
	Width  int
	Height int
}

// Aspect returns width / height.
func (v Viewport) Aspect() float64 {
	if v.Height == 0 {
		return 1
	}
	return float64(v.Width) / float64(v.Height)
}

// FrameStats counts what happened to the faces of one Update.
type FrameStats struct {
	Objects        int // Objects submitted
	ObjectsSkipped int // Objects whose bounds were outside the frustum
	Faces          int // Faces examined
	Culled         int // Faces rejected as back-facing
	ClippedAway    int // Faces with nothing left after clipping
	Emitted        int // Triangles pushed to the queue
	Dropped        int // Triangles rejected by a full queue
}

// Pipeline turns objects into screen-space triangles each frame: world and
// view transform, backface cull, frustum clip, projection, screen mapping
// and flat lighting. It is not safe for concurrent use.
type Pipeline struct {
	Camera *Camera
	Light  Light
	Cull   CullMode

	projection Projection
	viewport   Viewport
	frustum    Frustum
	projMatrix math3d.Mat4

	queue   *RenderQueue
	stats   FrameStats
	clipBuf []ClipTriangle
}

// NewPipeline creates a pipeline for the given camera, light, projection and
// viewport. queueCapacity bounds the render queue (<= 0 for the default).
func NewPipeline(camera *Camera, light Light, proj Projection, vp Viewport, queueCapacity int) *Pipeline {
	p := &Pipeline{
		Camera:  camera,
		Light:   light,
		Cull:    CullBackface,
		queue:   NewRenderQueue(queueCapacity),
		clipBuf: make([]ClipTriangle, 0, MaxClipTriangles),
	}
	p.configure(proj, vp)
	return p
}

// Resize rebuilds the frustum and projection for a new viewport.
func (p *Pipeline) Resize(vp Viewport) {
	p.configure(p.projection, vp)
}

func (p *Pipeline) configure(proj Projection, vp Viewport) {
	p.projection = proj
	p.viewport = vp

	aspect := vp.Aspect()
	fovx := math3d.HorizontalFOV(proj.FOVY, aspect)
	p.frustum = NewFrustum(fovx, proj.FOVY, proj.Near, proj.Far)
	p.projMatrix = math3d.PerspectiveLH(proj.FOVY, aspect, proj.Near, proj.Far)
}

// Queue returns the render queue filled by the last Update.
func (p *Pipeline) Queue() *RenderQueue { return p.queue }

// Update runs one frame: the queue is reset, the view matrix is built once
// from the camera, and every face of every object is pushed through the
// pipeline in order.
func (p *Pipeline) Update(objects []Object) FrameStats {
	p.queue.Reset()
	p.stats = FrameStats{Objects: len(objects)}

	view := p.Camera.ViewMatrix()

	for _, obj := range objects {
		if obj.Mesh == nil {
			continue
		}
		scale, rotation, translation := obj.Mesh.GetTransform()
		modelView := view.Mul(math3d.World(scale, rotation, translation))

		if !p.objectVisible(obj.Mesh, modelView) {
			p.stats.ObjectsSkipped++
			continue
		}

		n := obj.Mesh.TriangleCount()
		for i := range n {
			p.processFace(obj, modelView, i)
		}
	}

	p.stats.Dropped = p.queue.Dropped()

	log := Logger()
	if p.stats.Dropped > 0 {
		log.Warn("render queue full", "capacity", p.queue.Cap(), "dropped", p.stats.Dropped)
	}
	log.Debug("frame",
		slog.Int("objects", p.stats.Objects),
		slog.Int("skipped", p.stats.ObjectsSkipped),
		slog.Int("faces", p.stats.Faces),
		slog.Int("culled", p.stats.Culled),
		slog.Int("clipped", p.stats.ClippedAway),
		slog.Int("emitted", p.stats.Emitted),
	)

	return p.stats
}

// objectVisible reports whether a bounded mesh can touch the frustum.
// Meshes without (or with degenerate) bounds always pass.
func (p *Pipeline) objectVisible(mesh MeshSource, modelView math3d.Mat4) bool {
	bounded, ok := mesh.(BoundedMeshSource)
	if !ok {
		return true
	}
	lo, hi := bounded.GetBounds()
	if lo == hi {
		return true
	}
	return p.frustum.IntersectAABB(NewAABB(lo, hi).Transform(modelView))
}

func (p *Pipeline) processFace(obj Object, modelView math3d.Mat4, face int) {
	p.stats.Faces++
	idx, uv, baseColor := obj.Mesh.GetFace(face)

	a := modelView.MulPoint(obj.Mesh.GetVertex(idx[0]))
	b := modelView.MulPoint(obj.Mesh.GetVertex(idx[1]))
	c := modelView.MulPoint(obj.Mesh.GetVertex(idx[2]))

	normal := b.Sub(a).Cross(c.Sub(a)).Normalize()

	if p.Cull == CullBackface {
		cameraRay := math3d.Zero3().Sub(a)
		if normal.Dot(cameraRay) < 0 {
			p.stats.Culled++
			return
		}
	}

	poly := NewPolygonFromTriangle(a, b, c, uv[0], uv[1], uv[2])
	p.frustum.ClipPolygon(&poly)

	p.clipBuf = poly.AppendTriangles(p.clipBuf[:0])
	if len(p.clipBuf) == 0 {
		p.stats.ClippedAway++
		return
	}

	color := ApplyIntensity(baseColor, p.Light.Intensity(normal))

	for _, ct := range p.clipBuf {
		tri := Triangle{
			TexCoords: ct.TexCoords,
			Color:     color,
			Texture:   obj.Texture,
		}
		for j, pt := range ct.Points {
			tri.Points[j] = p.ToScreen(pt)
		}
		if p.queue.Push(tri) {
			p.stats.Emitted++
		}
	}
}

// ToScreen projects a camera-space point and maps it to pixel coordinates.
// The divide is skipped when w is zero; the returned W is the camera-space
// depth.
func (p *Pipeline) ToScreen(pt math3d.Vec4) math3d.Vec4 {
	proj := p.projMatrix.MulVec4(pt).PerspectiveDivide()

	halfW := float64(p.viewport.Width) / 2
	halfH := float64(p.viewport.Height) / 2

	// Screen Y grows downward
	proj.Y = -proj.Y

	proj.X = proj.X*halfW + halfW
	proj.Y = proj.Y*halfH + halfH
	return proj
}
