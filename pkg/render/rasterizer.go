package render

import (
	"math"

	"github.com/taigrr/hangar/pkg/math3d"
)

// Colors the rasterizer draws overlays with.
var (
	WireColor   = UnpackColor(0xFFFFFFFF)
	VertexColor = UnpackColor(0xFF0000FF)
	GridColor   = UnpackColor(0xFF303030)
)

// GridDivisions is the number of background grid cells along each axis.
const GridDivisions = 15

// vertexMarkerSize is the side of the square drawn on each vertex.
const vertexMarkerSize = 6

// Rasterizer draws the contents of a render queue into a framebuffer.
type Rasterizer struct {
	fb   *Framebuffer
	Mode RenderMode

	// Background is the clear color; Grid enables the background grid.
	Background Color
	Grid       bool
}

// NewRasterizer creates a rasterizer drawing into fb.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	return &Rasterizer{
		fb:         fb,
		Mode:       ModeTextured,
		Background: ColorBlack,
		Grid:       true,
	}
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int { return r.fb.Width }

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int { return r.fb.Height }

// Render clears the framebuffer and draws every queued triangle, oldest
// first, according to Mode.
func (r *Rasterizer) Render(q *RenderQueue) {
	r.fb.Clear(r.Background)
	r.fb.ClearDepth()
	if r.Grid {
		r.fb.DrawGrid(GridDivisions, GridColor)
	}

	for _, tri := range q.Triangles() {
		r.DrawTriangle(tri)
	}
}

// DrawTriangle draws one screen-space triangle according to Mode.
func (r *Rasterizer) DrawTriangle(tri Triangle) {
	switch {
	case r.Mode.Filled():
		r.DrawTriangleFilled(tri)
	case r.Mode.Textured():
		if tri.Texture != nil {
			r.DrawTriangleTextured(tri)
		} else {
			r.DrawTriangleFilled(tri)
		}
	}

	if r.Mode.Wireframe() {
		r.DrawTriangleWire(tri, WireColor)
	}

	if r.Mode.Vertices() {
		half := vertexMarkerSize / 2
		for _, p := range tri.Points {
			r.fb.DrawRect(int(p.X)-half, int(p.Y)-half, vertexMarkerSize, vertexMarkerSize, VertexColor)
		}
	}
}

// DrawTriangleWire outlines a triangle.
func (r *Rasterizer) DrawTriangleWire(tri Triangle, c Color) {
	p := tri.Points
	r.fb.DrawLine(int(p[0].X), int(p[0].Y), int(p[1].X), int(p[1].Y), c)
	r.fb.DrawLine(int(p[1].X), int(p[1].Y), int(p[2].X), int(p[2].Y), c)
	r.fb.DrawLine(int(p[2].X), int(p[2].Y), int(p[0].X), int(p[0].Y), c)
}

// DrawTriangleFilled fills a triangle with its lit color, depth tested on
// interpolated 1/w.
func (r *Rasterizer) DrawTriangleFilled(tri Triangle) {
	color := UnpackColor(tri.Color)
	r.scan(tri, func(x, y int, bc math3d.Vec3, invW [3]float64) {
		oneOverW := bc.X*invW[0] + bc.Y*invW[1] + bc.Z*invW[2]
		r.fb.SetPixelDepth(x, y, 1-oneOverW, color)
	})
}

// DrawTriangleTextured maps the triangle's texture with perspective-correct
// UV interpolation. Texels are drawn unlit.
func (r *Rasterizer) DrawTriangleTextured(tri Triangle) {
	tex := tri.Texture
	uv := tri.TexCoords
	r.scan(tri, func(x, y int, bc math3d.Vec3, invW [3]float64) {
		// Interpolate UV/W and 1/W, then divide to get correct UV
		w0, w1, w2 := bc.X*invW[0], bc.Y*invW[1], bc.Z*invW[2]
		oneOverW := w0 + w1 + w2
		if oneOverW == 0 {
			return
		}
		depth := 1 - oneOverW
		if depth >= r.fb.DepthAt(x, y) {
			return
		}

		u := (w0*uv[0].X + w1*uv[1].X + w2*uv[2].X) / oneOverW
		v := (w0*uv[0].Y + w1*uv[1].Y + w2*uv[2].Y) / oneOverW
		r.fb.SetPixelDepth(x, y, depth, tex.Sample(u, v))
	})
}

// scan calls fn for every pixel center inside the triangle, with the
// barycentric weights of that pixel and the reciprocal w of each vertex.
func (r *Rasterizer) scan(tri Triangle, fn func(x, y int, bc math3d.Vec3, invW [3]float64)) {
	p := tri.Points

	var invW [3]float64
	for i := range 3 {
		if p[i].W != 0 {
			invW[i] = 1.0 / p[i].W
		}
	}

	// Zero area: nothing to fill
	area := (p[1].X-p[0].X)*(p[2].Y-p[0].Y) - (p[2].X-p[0].X)*(p[1].Y-p[0].Y)
	if area == 0 || math.IsNaN(area) {
		return
	}

	// Find bounding box
	minX := int(math.Max(0, math.Floor(min3(p[0].X, p[1].X, p[2].X))))
	maxX := int(math.Min(float64(r.Width()-1), math.Ceil(max3(p[0].X, p[1].X, p[2].X))))
	minY := int(math.Max(0, math.Floor(min3(p[0].Y, p[1].Y, p[2].Y))))
	maxY := int(math.Min(float64(r.Height()-1), math.Ceil(max3(p[0].Y, p[1].Y, p[2].Y))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5

			bc := barycentric(p[0].X, p[0].Y, p[1].X, p[1].Y, p[2].X, p[2].Y, px, py)
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}
			fn(x, y, bc, invW)
		}
	}
}

// barycentric calculates barycentric coordinates for point (px, py) in triangle.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) math3d.Vec3 {
	v0x, v0y := x2-x0, y2-y0
	v1x, v1y := x1-x0, y1-y0
	v2x, v2y := px-x0, py-y0

	dot00 := v0x*v0x + v0y*v0y
	dot01 := v0x*v1x + v0y*v1y
	dot02 := v0x*v2x + v0y*v2y
	dot11 := v1x*v1x + v1y*v1y
	dot12 := v1x*v2x + v1y*v2y

	invDenom := 1.0 / (dot00*dot11 - dot01*dot01)
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	return math3d.V3(1-u-v, v, u)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
