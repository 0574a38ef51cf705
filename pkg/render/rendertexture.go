package render

// RenderTexture is an offscreen target: a color buffer and an optional
// depth buffer of the same size. A shadow map is a RenderTexture whose
// depth buffer is later sampled.
type RenderTexture struct {
	Color *Framebuffer
	Depth *DepthBuffer
}

// NewRenderTexture allocates a target of the given size.
func NewRenderTexture(width, height int, withDepth bool) *RenderTexture {
	rt := &RenderTexture{Color: NewFramebuffer(width, height)}
	if withDepth {
		rt.Depth = NewDepthBuffer(width, height)
	}
	return rt
}

// Size returns the target dimensions.
func (rt *RenderTexture) Size() (int, int) {
	return rt.Color.Width, rt.Color.Height
}

// Clear resets the color buffer to c and/or the depth buffer.
func (rt *RenderTexture) Clear(color, depth bool, c Color) {
	if color {
		rt.Color.Clear(c)
	}
	if depth && rt.Depth != nil {
		rt.Depth.Clear()
	}
}

// DepthBuffer returns the depth buffer, or nil for color-only targets.
func (rt *RenderTexture) DepthBuffer() *DepthBuffer {
	return rt.Depth
}

// SetPixel writes a color.
func (rt *RenderTexture) SetPixel(x, y int, c Color) {
	rt.Color.SetPixel(x, y, c)
}

// ColorAt reads a color.
func (rt *RenderTexture) ColorAt(x, y int) Color {
	return rt.Color.GetPixel(x, y)
}
