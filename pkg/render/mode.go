package render

// RenderMode selects what the rasterizer draws for each queued triangle.
type RenderMode int

const (
	// ModeWireVertex draws edges plus a marker on every vertex.
	ModeWireVertex RenderMode = iota
	// ModeWire draws edges only.
	ModeWire
	// ModeFillTriangle fills with the lit face color.
	ModeFillTriangle
	// ModeFillTriangleWire fills and outlines.
	ModeFillTriangleWire
	// ModeTextured maps the object texture.
	ModeTextured
	// ModeTexturedWire maps the texture and outlines.
	ModeTexturedWire
)

var renderModeNames = [...]string{
	"wire+vertex", "wire", "fill", "fill+wire", "textured", "textured+wire",
}

// String returns the flag name of the render mode.
func (m RenderMode) String() string {
	if m < 0 || int(m) >= len(renderModeNames) {
		return "unknown"
	}
	return renderModeNames[m]
}

// ParseRenderMode parses the name printed by String.
func ParseRenderMode(s string) (RenderMode, bool) {
	for i, name := range renderModeNames {
		if name == s {
			return RenderMode(i), true
		}
	}
	return 0, false
}

// Filled reports whether triangles are filled with flat color.
func (m RenderMode) Filled() bool {
	return m == ModeFillTriangle || m == ModeFillTriangleWire
}

// Textured reports whether triangles are texture mapped.
func (m RenderMode) Textured() bool {
	return m == ModeTextured || m == ModeTexturedWire
}

// Wireframe reports whether triangle edges are drawn.
func (m RenderMode) Wireframe() bool {
	return m == ModeWireVertex || m == ModeWire ||
		m == ModeFillTriangleWire || m == ModeTexturedWire
}

// Vertices reports whether vertex markers are drawn.
func (m RenderMode) Vertices() bool {
	return m == ModeWireVertex
}

// CullMode selects whether back faces are discarded.
type CullMode int

const (
	// CullBackface discards faces pointing away from the camera.
	CullBackface CullMode = iota
	// CullNone keeps every face.
	CullNone
)

// String returns the flag name of the cull mode.
func (c CullMode) String() string {
	switch c {
	case CullBackface:
		return "backface"
	case CullNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseCullMode parses the name printed by String.
func ParseCullMode(s string) (CullMode, bool) {
	switch s {
	case "backface":
		return CullBackface, true
	case "none":
		return CullNone, true
	}
	return 0, false
}
