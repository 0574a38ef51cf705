package render

import "math"

// DepthBuffer stores one NDC depth value per pixel, bottom-up like
// Framebuffer. Cleared depth is math.MaxFloat64 so any fragment passes.
type DepthBuffer struct {
	Width  int
	Height int
	Values []float64
}

// NewDepthBuffer creates a cleared depth buffer.
func NewDepthBuffer(width, height int) *DepthBuffer {
	d := &DepthBuffer{
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}
	d.Clear()
	return d
}

// Clear resets every value to math.MaxFloat64.
func (d *DepthBuffer) Clear() {
	if len(d.Values) == 0 {
		return
	}
	d.Values[0] = math.MaxFloat64
	for filled := 1; filled < len(d.Values); filled *= 2 {
		copy(d.Values[filled:], d.Values[:filled])
	}
}

// At returns the depth at (x, y), or math.MaxFloat64 outside.
func (d *DepthBuffer) At(x, y int) float64 {
	if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
		return math.MaxFloat64
	}
	return d.Values[y*d.Width+x]
}

// Set stores a depth value. Out-of-bounds writes are ignored.
func (d *DepthBuffer) Set(x, y int, z float64) {
	if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
		return
	}
	d.Values[y*d.Width+x] = z
}

// Size implements Bitmap.
func (d *DepthBuffer) Size() (int, int) {
	return d.Width, d.Height
}

// ColorAt implements Bitmap, mapping NDC depth [-1,1] to gray [0,1].
// Cleared pixels read as white.
func (d *DepthBuffer) ColorAt(x, y int) Color {
	z := d.At(x, y)
	if z == math.MaxFloat64 {
		return ColorWhite
	}
	return Gray(clamp01((z + 1) / 2))
}
