package render

import (
	"github.com/taigrr/hangar/pkg/math3d"
)

// MaxPolygonVertices bounds a clipped polygon: a triangle gains at most one
// vertex per frustum plane.
const MaxPolygonVertices = 9

// MaxClipTriangles is the most triangles a clipped polygon can fan into.
const MaxClipTriangles = MaxPolygonVertices - 2

// TexCoord is a (u, v) texture coordinate paired with a vertex.
type TexCoord = math3d.Vec2

// Polygon is a convex camera-space polygon with one texture coordinate per
// vertex. Only the first Count entries are meaningful; clipping rewrites
// them in place and preserves winding.
type Polygon struct {
	Vertices  [MaxPolygonVertices]math3d.Vec3
	TexCoords [MaxPolygonVertices]TexCoord
	Count     int
}

// ClipTriangle is one triangle produced by fanning a clipped polygon.
// Points carry w = 1 and are still in camera space.
type ClipTriangle struct {
	Points    [3]math3d.Vec4
	TexCoords [3]TexCoord
}

// NewPolygonFromTriangle starts a polygon from a camera-space triangle.
func NewPolygonFromTriangle(v0, v1, v2 math3d.Vec3, t0, t1, t2 TexCoord) Polygon {
	return Polygon{
		Vertices:  [MaxPolygonVertices]math3d.Vec3{v0, v1, v2},
		TexCoords: [MaxPolygonVertices]TexCoord{t0, t1, t2},
		Count:     3,
	}
}

// ClipPolygonAgainstPlane clips poly against one frustum plane
// (Sutherland–Hodgman). Vertices on the plane are kept; an intersection is
// emitted only where consecutive vertices lie strictly on opposite sides.
func (f Frustum) ClipPolygonAgainstPlane(poly *Polygon, id FrustumPlane) {
	if poly.Count == 0 {
		return
	}
	plane := f.Planes[id]

	var (
		inside    [MaxPolygonVertices]math3d.Vec3
		insideUV  [MaxPolygonVertices]TexCoord
		numInside int
	)
	emit := func(v math3d.Vec3, uv TexCoord) {
		if numInside < MaxPolygonVertices {
			inside[numInside] = v
			insideUV[numInside] = uv
			numInside++
		}
	}

	prev := poly.Count - 1
	prevDist := plane.Distance(poly.Vertices[prev])

	for curr := 0; curr < poly.Count; curr++ {
		currDist := plane.Distance(poly.Vertices[curr])

		if prevDist*currDist < 0 {
			t := prevDist / (prevDist - currDist)
			emit(
				poly.Vertices[prev].Lerp(poly.Vertices[curr], t),
				poly.TexCoords[prev].Lerp(poly.TexCoords[curr], t),
			)
		}

		if currDist >= 0 {
			emit(poly.Vertices[curr], poly.TexCoords[curr])
		}

		prev, prevDist = curr, currDist
	}

	poly.Vertices = inside
	poly.TexCoords = insideUV
	poly.Count = numInside
}

// ClipPolygon clips poly against all six planes, in order left, right, top,
// bottom, near, far.
func (f Frustum) ClipPolygon(poly *Polygon) {
	for id := FrustumLeft; id <= FrustumFar; id++ {
		f.ClipPolygonAgainstPlane(poly, id)
		if poly.Count == 0 {
			return
		}
	}
}

// Triangulate fans the polygon from vertex 0: (0,1,2), (0,2,3), ...
// A polygon with fewer than three vertices yields nothing.
func (p *Polygon) Triangulate() []ClipTriangle {
	var buf [MaxClipTriangles]ClipTriangle
	return p.AppendTriangles(buf[:0])
}

// AppendTriangles is Triangulate appending into dst, for callers that reuse
// a buffer across faces.
func (p *Polygon) AppendTriangles(dst []ClipTriangle) []ClipTriangle {
	for i := 0; i+2 < p.Count; i++ {
		dst = append(dst, ClipTriangle{
			Points: [3]math3d.Vec4{
				math3d.V4FromV3(p.Vertices[0], 1),
				math3d.V4FromV3(p.Vertices[i+1], 1),
				math3d.V4FromV3(p.Vertices[i+2], 1),
			},
			TexCoords: [3]TexCoord{p.TexCoords[0], p.TexCoords[i+1], p.TexCoords[i+2]},
		})
	}
	return dst
}
