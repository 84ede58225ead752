// Package models provides mesh loading and representation for hangar.
package models

import (
	"image"

	"github.com/taigrr/hangar/pkg/math3d"
)

// DefaultFaceColor is the packed ARGB base color given to faces that carry
// no color of their own.
const DefaultFaceColor uint32 = 0xFFFFFFFF

// Mesh holds the geometry of one model plus its placement in the world.
type Mesh struct {
	Name     string
	Vertices []math3d.Vec3
	Faces    []Face
	Texture  image.Image // Optional, decoded by the loader

	// Placement, applied as T · Rx · Ry · Rz · S
	Scale       math3d.Vec3
	Rotation    math3d.Vec3 // Euler angles in radians
	Translation math3d.Vec3

	// Bounding box in model space (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// Face is a triangle: three 0-based vertex indices, the texture coordinate
// of each corner and a packed ARGB base color.
type Face struct {
	V     [3]int
	UV    [3]math3d.Vec2
	Color uint32
}

// NewMesh creates an empty mesh with unit scale.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]math3d.Vec3, 0),
		Faces:    make([]Face, 0),
		Scale:    math3d.V3(1, 1, 1),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0]
	m.BoundsMax = m.Vertices[0]

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v)
		m.BoundsMax = m.BoundsMax.Max(v)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// SetColor overwrites the base color of every face.
func (m *Mesh) SetColor(color uint32) {
	for i := range m.Faces {
		m.Faces[i].Color = color
	}
}

// Clone creates a deep copy of the mesh geometry. The texture is shared.
func (m *Mesh) Clone() *Mesh {
	clone := *m
	clone.Vertices = make([]math3d.Vec3, len(m.Vertices))
	clone.Faces = make([]Face, len(m.Faces))
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	return &clone
}

// GetVertex returns the model-space position of vertex i.
// Implements render.MeshSource.
func (m *Mesh) GetVertex(i int) math3d.Vec3 {
	return m.Vertices[i]
}

// GetFace returns the vertex indices, texture coordinates and base color of face i.
// Implements render.MeshSource.
func (m *Mesh) GetFace(i int) (v [3]int, uv [3]math3d.Vec2, color uint32) {
	f := m.Faces[i]
	return f.V, f.UV, f.Color
}

// GetTransform returns the mesh placement.
// Implements render.MeshSource.
func (m *Mesh) GetTransform() (scale, rotation, translation math3d.Vec3) {
	return m.Scale, m.Rotation, m.Translation
}

// GetBounds returns the model-space bounding box.
// Implements render.BoundedMeshSource.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}

// NewCube builds a unit cube centered on the origin with per-face texture
// coordinates. Faces wind clockwise when seen from outside, the convention
// the pipeline treats as front-facing.
func NewCube(name string) *Mesh {
	m := NewMesh(name)
	m.Vertices = append(m.Vertices,
		math3d.V3(-1, -1, -1),
		math3d.V3(-1, 1, -1),
		math3d.V3(1, 1, -1),
		math3d.V3(1, -1, -1),
		math3d.V3(1, 1, 1),
		math3d.V3(1, -1, 1),
		math3d.V3(-1, 1, 1),
		math3d.V3(-1, -1, 1),
	)

	quads := [6][4]int{
		{0, 1, 2, 3}, // front (-Z)
		{3, 2, 4, 5}, // right
		{5, 4, 6, 7}, // back
		{7, 6, 1, 0}, // left
		{1, 6, 4, 2}, // top
		{5, 7, 0, 3}, // bottom
	}
	uvA := [3]math3d.Vec2{math3d.V2(0, 0), math3d.V2(0, 1), math3d.V2(1, 1)}
	uvB := [3]math3d.Vec2{math3d.V2(0, 0), math3d.V2(1, 1), math3d.V2(1, 0)}

	for _, q := range quads {
		m.Faces = append(m.Faces,
			Face{V: [3]int{q[0], q[1], q[2]}, UV: uvA, Color: DefaultFaceColor},
			Face{V: [3]int{q[0], q[2], q[3]}, UV: uvB, Color: DefaultFaceColor},
		)
	}

	m.CalculateBounds()
	return m
}
