package render

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp" // Register BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// FilterMode determines how texture sampling is performed.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Nearest-neighbor (pixelated)
	FilterBilinear                   // Bilinear interpolation (smooth)
)

var filterNames = [...]string{
	FilterNearest:  "nearest",
	FilterBilinear: "bilinear",
}

// String returns the flag name of the filter.
func (f FilterMode) String() string {
	if f < 0 || int(f) >= len(filterNames) {
		return fmt.Sprintf("FilterMode(%d)", int(f))
	}
	return filterNames[f]
}

// ParseFilterMode parses "nearest" or "bilinear".
func ParseFilterMode(s string) (FilterMode, bool) {
	for i, name := range filterNames {
		if name == s {
			return FilterMode(i), true
		}
	}
	return FilterNearest, false
}

// Texture holds a 2D image for texture mapping. Coordinates repeat outside
// [0,1].
type Texture struct {
	Width      int
	Height     int
	Pixels     []Color // Row-major pixel data, row 0 at the top
	FilterMode FilterMode
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// LoadTextureScaled loads a PNG, JPEG, TGA, BMP or WebP texture and shrinks
// it so neither side exceeds maxSize (0 = no limit).
func LoadTextureScaled(path string, maxSize int) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, format, err := DecodeImage(f, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", path, err)
	}

	Logger().Debug("texture loaded", "path", path, "format", format,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return TextureFromImageScaled(img, maxSize), nil
}

// DecodeImage decodes a texture image. TGA has no magic number, so it is
// chosen by extension and never registered with image.Decode, where its
// empty signature would claim every format.
func DecodeImage(r io.Reader, ext string) (image.Image, string, error) {
	if strings.EqualFold(ext, ".tga") {
		img, err := tga.Decode(r)
		return img, "tga", err
	}
	return image.Decode(r)
}

// TextureFromImage creates a texture from an image.Image.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	tex := NewTexture(width, height)

	for y := range height {
		for x := range width {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA returns 16-bit values, scale to 8-bit
			tex.Pixels[y*width+x] = Color{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
				A: uint8(a >> 8),
			}
		}
	}

	return tex
}

// TextureFromImageScaled is TextureFromImage with the image first resampled
// (Catmull-Rom) so its longer side is at most maxSize. A maxSize of 0, or an
// image already small enough, is converted as is.
func TextureFromImageScaled(img image.Image, maxSize int) *Texture {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return TextureFromImage(img)
	}

	scale := float64(maxSize) / float64(max(w, h))
	dw := max(1, int(math.Round(float64(w)*scale)))
	dh := max(1, int(math.Round(float64(h)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return TextureFromImage(dst)
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// SetPixel sets a pixel in the texture.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the pixel at (x, y) with bounds checking.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample samples the texture at UV coordinates, V=0 at the bottom edge.
func (t *Texture) Sample(u, v float64) Color {
	if t.Width == 0 || t.Height == 0 {
		return Color{}
	}
	u -= math.Floor(u)
	v -= math.Floor(v)

	// Image row 0 is the top
	v = 1.0 - v

	if t.FilterMode == FilterBilinear {
		return t.sampleBilinear(u, v)
	}
	return t.sampleNearest(u, v)
}

func (t *Texture) sampleNearest(u, v float64) Color {
	x := min(int(u*float64(t.Width)), t.Width-1)
	y := min(int(v*float64(t.Height)), t.Height-1)
	return t.GetPixel(x, y)
}

func (t *Texture) sampleBilinear(u, v float64) Color {
	fx := u*float64(t.Width) - 0.5
	fy := v*float64(t.Height) - 0.5

	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	x1 := wrapIndex(x0+1, t.Width)
	y1 := wrapIndex(y0+1, t.Height)
	x0 = wrapIndex(x0, t.Width)
	y0 = wrapIndex(y0, t.Height)

	top := lerpColor(t.GetPixel(x0, y0), t.GetPixel(x1, y0), tx)
	bot := lerpColor(t.GetPixel(x0, y1), t.GetPixel(x1, y1), tx)
	return lerpColor(top, bot, ty)
}

func wrapIndex(x, size int) int {
	x %= size
	if x < 0 {
		x += size
	}
	return x
}

func lerpColor(a, b Color, t float64) Color {
	return Color{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: uint8(float64(a.A) + (float64(b.A)-float64(a.A))*t),
	}
}
