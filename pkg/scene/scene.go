// Package scene describes what hangar renders: the meshes, their placement,
// the camera, the light and the projection, loaded from a JSON file or
// taken from the built-in hangar layout.
package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/hangar/pkg/math3d"
	"github.com/taigrr/hangar/pkg/models"
	"github.com/taigrr/hangar/pkg/render"
)

// Vec is a JSON [x, y, z] triple.
type Vec [3]float64

// V3 converts to a math3d vector.
func (v Vec) V3() math3d.Vec3 { return math3d.V3(v[0], v[1], v[2]) }

// MeshConfig places one model in the scene.
type MeshConfig struct {
	Model       string `json:"model"`
	Texture     string `json:"texture,omitempty"`
	Scale       *Vec   `json:"scale,omitempty"`    // Default [1,1,1]
	Rotation    Vec    `json:"rotation,omitempty"` // Euler angles in radians
	Translation Vec    `json:"translation,omitempty"`
	Color       string `json:"color,omitempty"` // ARGB, e.g. "0xFFC0C0C0"
}

// CameraConfig is the starting camera pose.
type CameraConfig struct {
	Position  Vec     `json:"position"`
	Direction Vec     `json:"direction"`
	Yaw       float64 `json:"yaw"`
	Pitch     float64 `json:"pitch"`
}

// ProjectionConfig holds the perspective parameters. FOVY is in degrees.
type ProjectionConfig struct {
	FOVY float64 `json:"fov_y"`
	Near float64 `json:"near"`
	Far  float64 `json:"far"`
}

// Config is a scene file.
type Config struct {
	// BaseDir is where relative model and texture paths are resolved from.
	// Load sets it to the scene file's directory.
	BaseDir string `json:"base_dir,omitempty"`

	Camera        CameraConfig     `json:"camera"`
	Light         Vec              `json:"light"`
	Projection    ProjectionConfig `json:"projection"`
	RenderMode    string           `json:"render_mode,omitempty"`
	CullMode      string           `json:"cull_mode,omitempty"`
	Filter        string           `json:"filter,omitempty"` // nearest or bilinear
	QueueCapacity int              `json:"queue_capacity,omitempty"`

	// FallbackCubes substitutes a cube for any model file that is missing.
	FallbackCubes bool `json:"fallback_cubes,omitempty"`

	Meshes []MeshConfig `json:"meshes"`
}

// Flags holds CLI flag values that override scene file settings.
type Flags struct {
	FOVY          float64 // Degrees
	Near          float64
	Far           float64
	QueueCapacity int
	RenderMode    string
	Filter        string
}

// Load reads a JSON scene file. Fields not set in the file keep their zero
// values until Resolve.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("scene: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("scene: parse %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	switch {
	case cfg.BaseDir == "":
		cfg.BaseDir = dir
	case !filepath.IsAbs(cfg.BaseDir):
		cfg.BaseDir = filepath.Join(dir, cfg.BaseDir)
	}

	return cfg, nil
}

// Default returns the hangar layout: a runway with three aircraft parked in
// front of the camera. Assets are looked up under assetDir; missing ones
// become cubes.
func Default(assetDir string) Config {
	faceLeft := Vec{0, -math.Pi / 2, 0}
	return Config{
		BaseDir:       assetDir,
		Camera:        CameraConfig{Direction: Vec{0, 0, 1}},
		Light:         Vec{0, 0, 1},
		Projection:    ProjectionConfig{FOVY: 60, Near: 1, Far: 20},
		RenderMode:    render.ModeTextured.String(),
		CullMode:      render.CullBackface.String(),
		FallbackCubes: true,
		Meshes: []MeshConfig{
			{Model: "runway.obj", Texture: "runway.png", Translation: Vec{0, -1.5, 23}},
			{Model: "f22.obj", Texture: "f22.png", Translation: Vec{0, -1.3, 5}, Rotation: faceLeft},
			{Model: "efa.obj", Texture: "efa.png", Translation: Vec{-2, -1.3, 9}, Rotation: faceLeft},
			{Model: "f117.obj", Texture: "f117.png", Translation: Vec{2, -1.3, 9}, Rotation: faceLeft},
		},
	}
}

// Resolve applies flag overrides, fills defaults and makes paths absolute.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override the scene file
	if flags.FOVY > 0 {
		c.Projection.FOVY = flags.FOVY
	}
	if flags.Near > 0 {
		c.Projection.Near = flags.Near
	}
	if flags.Far > 0 {
		c.Projection.Far = flags.Far
	}
	if flags.QueueCapacity > 0 {
		c.QueueCapacity = flags.QueueCapacity
	}
	if flags.RenderMode != "" {
		c.RenderMode = flags.RenderMode
	}
	if flags.Filter != "" {
		c.Filter = flags.Filter
	}

	if c.Projection.FOVY <= 0 {
		c.Projection.FOVY = 60
	}
	if c.Projection.Near <= 0 {
		c.Projection.Near = 1
	}
	if c.Projection.Far <= 0 {
		c.Projection.Far = 20
	}
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = render.DefaultQueueCapacity
	}
	if c.RenderMode == "" {
		c.RenderMode = render.ModeTextured.String()
	}
	if c.CullMode == "" {
		c.CullMode = render.CullBackface.String()
	}
	if c.Filter == "" {
		c.Filter = render.FilterNearest.String()
	}
	if c.Light == (Vec{}) {
		c.Light = Vec{0, 0, 1}
	}
	if c.Camera.Direction == (Vec{}) {
		c.Camera.Direction = Vec{0, 0, 1}
	}

	for i := range c.Meshes {
		m := &c.Meshes[i]
		m.Model = c.resolvePath(m.Model)
		m.Texture = c.resolvePath(m.Texture)
	}
}

func (c *Config) resolvePath(p string) string {
	if p == "" || filepath.IsAbs(p) || c.BaseDir == "" {
		return p
	}
	return filepath.Join(c.BaseDir, p)
}

// Validate reports settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Projection.Near <= 0 || c.Projection.Far <= c.Projection.Near {
		return fmt.Errorf("scene: invalid clip range near=%v far=%v", c.Projection.Near, c.Projection.Far)
	}
	if c.Projection.FOVY <= 0 || c.Projection.FOVY >= 180 {
		return fmt.Errorf("scene: invalid fov_y %v", c.Projection.FOVY)
	}
	if _, ok := render.ParseRenderMode(c.RenderMode); !ok {
		return fmt.Errorf("scene: unknown render mode %q", c.RenderMode)
	}
	if _, ok := render.ParseCullMode(c.CullMode); !ok {
		return fmt.Errorf("scene: unknown cull mode %q", c.CullMode)
	}
	if _, ok := render.ParseFilterMode(c.Filter); !ok {
		return fmt.Errorf("scene: unknown filter %q", c.Filter)
	}
	if len(c.Meshes) == 0 {
		return errors.New("scene: no meshes")
	}
	for i, m := range c.Meshes {
		if m.Model == "" {
			return fmt.Errorf("scene: mesh %d has no model", i)
		}
		if _, err := parseColor(m.Color); err != nil {
			return fmt.Errorf("scene: mesh %d: %w", i, err)
		}
	}
	return nil
}

// Scene is a loaded, ready-to-render scene.
type Scene struct {
	Camera     *render.Camera
	Light      render.Light
	Projection render.Projection
	Mode       render.RenderMode
	Cull       render.CullMode
	Meshes     []*models.Mesh
	Objects    []render.Object
}

// TriangleCount returns the total face count of all meshes.
func (s *Scene) TriangleCount() int {
	n := 0
	for _, m := range s.Meshes {
		n += m.TriangleCount()
	}
	return n
}

// Build loads every mesh and texture of a resolved, valid config.
// Textures larger than texMax on a side are downscaled (0 = no limit).
func Build(c Config, texMax int) (*Scene, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	mode, _ := render.ParseRenderMode(c.RenderMode)
	cull, _ := render.ParseCullMode(c.CullMode)
	filter, _ := render.ParseFilterMode(c.Filter)

	cam := render.NewCamera(c.Camera.Position.V3(), c.Camera.Direction.V3())
	cam.RotateYaw(c.Camera.Yaw)
	cam.RotatePitch(c.Camera.Pitch)

	s := &Scene{
		Camera: cam,
		Light:  render.NewLight(c.Light.V3()),
		Projection: render.Projection{
			FOVY: c.Projection.FOVY * math.Pi / 180,
			Near: c.Projection.Near,
			Far:  c.Projection.Far,
		},
		Mode: mode,
		Cull: cull,
	}

	// Meshes sharing a model file load it once and get their own copy
	loaded := make(map[string]*models.Mesh)
	for _, mc := range c.Meshes {
		mesh, tex, err := loadMesh(mc, loaded, c.FallbackCubes, texMax)
		if err != nil {
			return nil, err
		}
		if tex != nil {
			tex.FilterMode = filter
		}
		s.Meshes = append(s.Meshes, mesh)
		s.Objects = append(s.Objects, render.Object{Mesh: mesh, Texture: tex})
	}

	return s, nil
}

func loadMesh(mc MeshConfig, loaded map[string]*models.Mesh, fallback bool, texMax int) (*models.Mesh, *render.Texture, error) {
	log := render.Logger()

	var err error
	mesh, ok := loaded[mc.Model]
	if ok {
		mesh = mesh.Clone()
	} else {
		mesh, err = LoadModel(mc.Model)
		if err != nil {
			if !fallback || !errors.Is(err, fs.ErrNotExist) {
				return nil, nil, err
			}
			log.Warn("model missing, using cube", "model", mc.Model)
			mesh = models.NewCube(filepath.Base(mc.Model))
		}
		loaded[mc.Model] = mesh.Clone()
	}

	if mc.Scale != nil {
		mesh.Scale = mc.Scale.V3()
	}
	mesh.Rotation = mc.Rotation.V3()
	mesh.Translation = mc.Translation.V3()

	if mc.Color != "" {
		color, _ := parseColor(mc.Color)
		mesh.SetColor(color)
	}

	var tex *render.Texture
	switch {
	case mc.Texture != "":
		tex, err = render.LoadTextureScaled(mc.Texture, texMax)
		if err != nil {
			if !fallback || !errors.Is(err, fs.ErrNotExist) {
				return nil, nil, err
			}
			log.Warn("texture missing, using checker", "texture", mc.Texture)
			tex = render.NewCheckerTexture(64, 64, 8, render.ColorWhite, render.ColorGray)
		}
	case mesh.Texture != nil:
		tex = render.TextureFromImageScaled(mesh.Texture, texMax)
	}

	log.Info("mesh loaded", "name", mesh.Name,
		"vertices", mesh.VertexCount(), "faces", mesh.TriangleCount(),
		"center", mesh.Center(), "size", mesh.Size(), "textured", tex != nil)
	return mesh, tex, nil
}

// LoadModel loads an OBJ, GLB or glTF file by extension.
func LoadModel(path string) (*models.Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return models.LoadOBJ(path)
	case ".glb", ".gltf":
		return models.LoadGLBWithTexture(path)
	default:
		return nil, fmt.Errorf("unsupported model format: %s", filepath.Ext(path))
	}
}

// parseColor parses an ARGB color such as "0xFF808080" or "#808080"
// (alpha defaults to opaque).
func parseColor(s string) (uint32, error) {
	if s == "" {
		return models.DefaultFaceColor, nil
	}
	hex := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(s), "#"), "0x")
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) <= 6 {
		v |= 0xFF000000
	}
	return uint32(v), nil
}
