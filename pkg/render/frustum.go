// Package render implements the hangar geometry pipeline: camera, frustum
// clipping, projection into a render queue, and the software rasterizer and
// terminal output that consume it.
package render

import (
	"math"

	"github.com/taigrr/hangar/pkg/math3d"
)

// Plane is a plane through Point with unit Normal. The side the normal
// points to is inside.
type Plane struct {
	Point  math3d.Vec3
	Normal math3d.Vec3
}

// Distance returns the signed distance from the plane to p.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) Distance(point math3d.Vec3) float64 {
	return point.Sub(p.Point).Dot(p.Normal)
}

// FrustumPlane indexes Frustum.Planes. The order is also the clipping order.
type FrustumPlane int

// Frustum plane indices.
const (
	FrustumLeft FrustumPlane = iota
	FrustumRight
	FrustumTop
	FrustumBottom
	FrustumNear
	FrustumFar
)

var planeNames = [...]string{"left", "right", "top", "bottom", "near", "far"}

func (p FrustumPlane) String() string {
	if p < 0 || int(p) >= len(planeNames) {
		return "unknown"
	}
	return planeNames[p]
}

// Frustum holds the six camera-space view planes, normals pointing inward.
// It is built once and only read afterwards.
type Frustum struct {
	Planes [6]Plane
}

// NewFrustum builds the camera-space frustum for a camera looking down +Z.
// fovx and fovy are full angles in radians; the side planes pass through
// the eye, near and far are perpendicular to Z.
func NewFrustum(fovx, fovy, near, far float64) Frustum {
	cosX, sinX := math.Cos(fovx/2), math.Sin(fovx/2)
	cosY, sinY := math.Cos(fovy/2), math.Sin(fovy/2)
	origin := math3d.Zero3()

	var f Frustum
	f.Planes[FrustumLeft] = Plane{Point: origin, Normal: math3d.V3(cosX, 0, sinX)}
	f.Planes[FrustumRight] = Plane{Point: origin, Normal: math3d.V3(-cosX, 0, sinX)}
	f.Planes[FrustumTop] = Plane{Point: origin, Normal: math3d.V3(0, -cosY, sinY)}
	f.Planes[FrustumBottom] = Plane{Point: origin, Normal: math3d.V3(0, cosY, sinY)}
	f.Planes[FrustumNear] = Plane{Point: math3d.V3(0, 0, near), Normal: math3d.V3(0, 0, 1)}
	f.Planes[FrustumFar] = Plane{Point: math3d.V3(0, 0, far), Normal: math3d.V3(0, 0, -1)}
	return f
}

// Plane returns the plane with the given index.
func (f Frustum) Plane(id FrustumPlane) Plane {
	return f.Planes[id]
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points.
func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Transform returns the AABB bounding all 8 transformed corners.
func (b AABB) Transform(m math3d.Mat4) AABB {
	lo, hi := b.Min, b.Max
	first := true
	var out AABB
	for i := range 8 {
		corner := math3d.V3(
			selectComponent(i&1 != 0, hi.X, lo.X),
			selectComponent(i&2 != 0, hi.Y, lo.Y),
			selectComponent(i&4 != 0, hi.Z, lo.Z),
		)
		p := m.MulPoint(corner)
		if first {
			out = AABB{Min: p, Max: p}
			first = false
			continue
		}
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// IntersectAABB tests if any part of the box may be inside the frustum.
// It uses the "positive vertex" test: if the corner furthest along a plane
// normal is behind that plane, the whole box is.
func (f Frustum) IntersectAABB(box AABB) bool {
	for i := range f.Planes {
		plane := f.Planes[i]

		pVertex := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)

		if plane.Distance(pVertex) < 0 {
			return false
		}
	}
	return true
}

func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
