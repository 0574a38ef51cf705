// Package render holds the render targets, textures, samplers, cameras and
// lights consumed by the rasterizer, plus terminal presentation.
//
// All 2D grids in this package are stored bottom-up: y=0 is the bottom row,
// matching screen projection of clip-space +Y. Conversions to image.Image
// and terminal output flip rows.
package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
)

// Bitmap is a readable grid of colors. Samplers address bitmaps through
// this interface so textures, framebuffers and depth buffers can all be
// sampled.
type Bitmap interface {
	Size() (width, height int)
	ColorAt(x, y int) Color
}

// Framebuffer is a color render target.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []Color // rows bottom-up
}

// NewFramebuffer creates a framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// Size implements Bitmap.
func (fb *Framebuffer) Size() (int, int) {
	return fb.Width, fb.Height
}

// ColorAt implements Bitmap.
func (fb *Framebuffer) ColorAt(x, y int) Color {
	return fb.GetPixel(x, y)
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c Color) {
	if len(fb.Pixels) == 0 {
		return
	}
	fb.Pixels[0] = c
	for filled := 1; filled < len(fb.Pixels); filled *= 2 {
		copy(fb.Pixels[filled:], fb.Pixels[:filled])
	}
}

// InBounds reports whether (x, y) addresses a pixel.
func (fb *Framebuffer) InBounds(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

// SetPixel overwrites the pixel at (x, y). Out-of-bounds writes are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if !fb.InBounds(x, y) {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// BlendPixel composites c over the pixel at (x, y) using c's alpha.
func (fb *Framebuffer) BlendPixel(x, y int, c Color) {
	if !fb.InBounds(x, y) {
		return
	}
	i := y*fb.Width + x
	fb.Pixels[i] = c.Over(fb.Pixels[i])
}

// GetPixel returns the color at (x, y), or transparent black outside.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if !fb.InBounds(x, y) {
		return Color{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DrawLine draws a hard-edged one pixel wide line.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	Line(x0, y0, x1, y1, func(x, y int, _ float64) {
		fb.SetPixel(x, y, c)
	})
}

// DrawLineSmooth draws an antialiased line, blending each pixel by its
// coverage.
func (fb *Framebuffer) DrawLineSmooth(x0, y0, x1, y1 float64, c Color) {
	SmoothLine(x0, y0, x1, y1, func(x, y int, _, coverage float64) {
		fb.BlendPixel(x, y, Color{c.R, c.G, c.B, c.A * coverage})
	})
}

// DrawRectOutline draws a rectangle outline with (x, y) as its lower-left
// corner.
func (fb *Framebuffer) DrawRectOutline(x, y, w, h int, c Color) {
	if w <= 0 || h <= 0 {
		return
	}
	fb.DrawLine(x, y, x+w-1, y, c)
	fb.DrawLine(x, y+h-1, x+w-1, y+h-1, c)
	fb.DrawLine(x, y, x, y+h-1, c)
	fb.DrawLine(x+w-1, y, x+w-1, y+h-1, c)
}

// DrawBitmap resamples src into the w×h rectangle whose lower-left corner
// is (x, y).
func (fb *Framebuffer) DrawBitmap(src Bitmap, x, y, w, h int, s Sampler) {
	for py := range h {
		v := (float64(py) + 0.5) / float64(h)
		for px := range w {
			u := (float64(px) + 0.5) / float64(w)
			fb.SetPixel(x+px, y+py, s.Sample(src, u, v))
		}
	}
}

// ToImage converts the framebuffer to a top-down image.
func (fb *Framebuffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		row := fb.Pixels[y*fb.Width : (y+1)*fb.Width]
		dy := fb.Height - 1 - y
		for x, c := range row {
			img.SetNRGBA(x, dy, c.NRGBA())
		}
	}
	return img
}

// WritePNG encodes the framebuffer as PNG.
func (fb *Framebuffer) WritePNG(w io.Writer) error {
	return png.Encode(w, fb.ToImage())
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fb.WritePNG(f)
}

// Clone returns a deep copy.
func (fb *Framebuffer) Clone() *Framebuffer {
	c := NewFramebuffer(fb.Width, fb.Height)
	copy(c.Pixels, fb.Pixels)
	return c
}
