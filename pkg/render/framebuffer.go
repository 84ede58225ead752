package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
)

// Framebuffer holds the color and depth of every pixel. In the terminal
// each cell shows two vertically stacked pixels via half-blocks, so Height
// is twice the number of rows.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA // Row-major pixel data
	Depth  []float64    // 1 - 1/w per pixel; smaller is closer, 1 is empty
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
		Depth:  make([]float64, width*height),
	}
}

// Resize reallocates the buffers if the size changed.
func (fb *Framebuffer) Resize(width, height int) {
	if width == fb.Width && height == fb.Height {
		return
	}
	*fb = *NewFramebuffer(width, height)
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// ClearDepth resets every depth sample to the far value 1.
func (fb *Framebuffer) ClearDepth() {
	for i := range fb.Depth {
		fb.Depth[i] = 1
	}
}

// SetPixel sets a pixel at (x, y). Out-of-bounds writes are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DepthAt returns the stored depth, 1 outside the buffer.
func (fb *Framebuffer) DepthAt(x, y int) float64 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return 1
	}
	return fb.Depth[y*fb.Width+x]
}

// SetPixelDepth writes c at (x, y) if depth is nearer than what is stored.
func (fb *Framebuffer) SetPixelDepth(x, y int, depth float64, c color.RGBA) bool {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return false
	}
	i := y*fb.Width + x
	if depth >= fb.Depth[i] {
		return false
	}
	fb.Depth[i] = depth
	fb.Pixels[i] = c
	return true
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawRect draws a filled rectangle.
func (fb *Framebuffer) DrawRect(x, y, w, h int, c color.RGBA) {
	for py := y; py < y+h; py++ {
		for px := x; px < x+w; px++ {
			fb.SetPixel(px, py, c)
		}
	}
}

// DrawGrid draws divisions evenly spaced horizontal and vertical lines.
func (fb *Framebuffer) DrawGrid(divisions int, c color.RGBA) {
	if divisions <= 0 {
		return
	}
	stepY := max(1, fb.Height/divisions)
	stepX := max(1, fb.Width/divisions)

	for y := 0; y < fb.Height; y += stepY {
		fb.DrawLine(0, y, fb.Width-1, y, c)
	}
	for x := 0; x < fb.Width; x += stepX {
		fb.DrawLine(x, 0, x, fb.Height-1, c)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, fb.ToImage()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SaveWebP saves the framebuffer as a lossless WebP file.
func (fb *Framebuffer) SaveWebP(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := nativewebp.Encode(f, fb.ToImage(), nil); err != nil {
		return fmt.Errorf("encode webp: %w", err)
	}
	return nil
}

// Save writes a PNG or WebP depending on the file extension.
func (fb *Framebuffer) Save(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		return fb.SaveWebP(path)
	case ".png":
		return fb.SavePNG(path)
	default:
		return fmt.Errorf("unsupported snapshot format %q", filepath.Ext(path))
	}
}
