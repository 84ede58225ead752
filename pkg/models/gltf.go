package models

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/hangar/pkg/math3d"
)

// LoadGLB loads a binary GLTF (.glb) or .gltf file without textures.
func LoadGLB(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return meshFromDocument(doc, filepath.Base(path))
}

// LoadGLBWithTexture loads a GLTF file and decodes the first usable image it
// references, embedded or external. The texture is nil when none decodes.
func LoadGLBWithTexture(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh, err := meshFromDocument(doc, filepath.Base(path))
	if err != nil {
		return nil, err
	}

	for _, img := range doc.Images {
		data := imageBytes(doc, img, filepath.Dir(path))
		if len(data) == 0 {
			continue
		}
		decoded, err := decodeImage(img, data)
		if err == nil {
			mesh.Texture = decoded
			break
		}
	}

	return mesh, nil
}

func meshFromDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)

	for _, m := range doc.Meshes {
		if err := processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("no triangles in %s", name)
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// processMesh appends the triangle primitives of a GLTF mesh.
func processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var uvs []math3d.Vec2
		if uvIdx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = readVec2Accessor(doc, uvIdx)
			if err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		color := primitiveColor(doc, prim)
		baseVertex := len(mesh.Vertices)
		mesh.Vertices = append(mesh.Vertices, positions...)

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		uvAt := func(i int) math3d.Vec2 {
			if i >= len(uvs) {
				return math3d.Vec2{}
			}
			// GLTF puts V=0 at the top of the image; flip to bottom-left origin
			return math3d.V2(uvs[i].X, 1.0-uvs[i].Y)
		}

		// GLTF front faces wind CCW; the pipeline expects CW, so swap b and c
		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := indices[i], indices[i+2], indices[i+1]
			mesh.Faces = append(mesh.Faces, Face{
				V:     [3]int{baseVertex + a, baseVertex + b, baseVertex + c},
				UV:    [3]math3d.Vec2{uvAt(a), uvAt(b), uvAt(c)},
				Color: color,
			})
		}
	}

	return nil
}

// primitiveColor packs the material base color factor as ARGB.
func primitiveColor(doc *gltf.Document, prim *gltf.Primitive) uint32 {
	if prim.Material == nil || *prim.Material >= len(doc.Materials) {
		return DefaultFaceColor
	}
	pbr := doc.Materials[*prim.Material].PBRMetallicRoughness
	if pbr == nil || pbr.BaseColorFactor == nil {
		return DefaultFaceColor
	}
	f := pbr.BaseColorFactor
	channel := func(v float64) uint32 {
		return uint32(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return channel(f[3])<<24 | channel(f[0])<<16 | channel(f[1])<<8 | channel(f[2])
}

// decodeImage picks the decoder from the image's MIME type, falling back to
// the data URI media type or the file extension.
func decodeImage(img *gltf.Image, data []byte) (image.Image, error) {
	kind := img.MimeType
	if kind == "" && strings.HasPrefix(img.URI, "data:") {
		kind, _, _ = strings.Cut(strings.TrimPrefix(img.URI, "data:"), ";")
	}
	if kind == "" {
		switch strings.ToLower(filepath.Ext(img.URI)) {
		case ".png":
			kind = "image/png"
		case ".jpg", ".jpeg":
			kind = "image/jpeg"
		}
	}

	switch kind {
	case "image/png":
		return png.Decode(bytes.NewReader(data))
	case "image/jpeg":
		return jpeg.Decode(bytes.NewReader(data))
	default:
		decoded, _, err := image.Decode(bytes.NewReader(data))
		return decoded, err
	}
}

func imageBytes(doc *gltf.Document, img *gltf.Image, dir string) []byte {
	if img.BufferView != nil {
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		if buf.Data == nil {
			return nil
		}
		return buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
	}
	if img.URI == "" || img.IsEmbeddedResource() {
		data, err := img.MarshalData()
		if err != nil {
			return nil
		}
		return data
	}
	data, err := os.ReadFile(filepath.Join(dir, img.URI))
	if err != nil {
		return nil
	}
	return data
}

// readVec3Accessor reads Vec3 data from a GLTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}

	floats, err := readFloatComponents(doc, accessor, 3)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, accessor.Count)
	for i := range result {
		result[i] = math3d.V3(floats[i*3], floats[i*3+1], floats[i*3+2])
	}
	return result, nil
}

// readVec2Accessor reads Vec2 data from a GLTF accessor.
func readVec2Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec2, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec2 {
		return nil, fmt.Errorf("expected VEC2, got %v", accessor.Type)
	}

	floats, err := readFloatComponents(doc, accessor, 2)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec2, accessor.Count)
	for i := range result {
		result[i] = math3d.V2(floats[i*2], floats[i*2+1])
	}
	return result, nil
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	accessor := doc.Accessors[accessorIdx]
	data, stride, err := accessorBytes(doc, accessor)
	if err != nil {
		return nil, err
	}

	size := 0
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index component type: %v", accessor.ComponentType)
	}
	if stride == 0 {
		stride = size
	}

	result := make([]int, accessor.Count)
	for i := range result {
		off := i * stride
		var v uint32
		for b := range size {
			v |= uint32(data[off+b]) << (8 * b)
		}
		result[i] = int(v)
	}
	return result, nil
}

// readFloatComponents reads n little-endian float32 components per element.
func readFloatComponents(doc *gltf.Document, accessor *gltf.Accessor, n int) ([]float64, error) {
	if accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("unsupported component type: %v", accessor.ComponentType)
	}
	data, stride, err := accessorBytes(doc, accessor)
	if err != nil {
		return nil, err
	}
	if stride == 0 {
		stride = n * 4
	}

	out := make([]float64, accessor.Count*n)
	for i := range accessor.Count {
		for j := range n {
			off := i*stride + j*4
			bits := uint32(data[off]) | uint32(data[off+1])<<8 | uint32(data[off+2])<<16 | uint32(data[off+3])<<24
			out[i*n+j] = float64(math.Float32frombits(bits))
		}
	}
	return out, nil
}

// accessorBytes returns the buffer bytes starting at the accessor's first
// element, plus the buffer view stride (0 = tightly packed).
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]
	if buffer.Data == nil {
		return nil, 0, fmt.Errorf("buffer has no data")
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	if start > len(buffer.Data) {
		return nil, 0, fmt.Errorf("accessor offset %d beyond buffer length %d", start, len(buffer.Data))
	}
	return buffer.Data[start:], bufferView.ByteStride, nil
}
