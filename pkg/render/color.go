package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a linear RGBA color with float channels in [0, 1]. Shaders may
// produce values outside that range; they are clamped when written to a
// target.
type Color struct {
	R, G, B, A float64
}

// Colors for convenience
var (
	ColorTransparent = Color{}
	ColorBlack       = Color{0, 0, 0, 1}
	ColorWhite       = Color{1, 1, 1, 1}
	ColorRed         = Color{1, 0, 0, 1}
	ColorGreen       = Color{0, 1, 0, 1}
	ColorBlue        = Color{0, 0, 1, 1}
	ColorYellow      = Color{1, 1, 0, 1}
	ColorCyan        = Color{0, 1, 1, 1}
	ColorMagenta     = Color{1, 0, 1, 1}
	ColorGray        = Color{0.5, 0.5, 0.5, 1}
	ColorSky         = Color{135.0 / 255, 206.0 / 255, 235.0 / 255, 1}
)

// RGB creates an opaque color.
func RGB(r, g, b float64) Color {
	return Color{r, g, b, 1}
}

// RGBA8 creates a color from 8-bit channels.
func RGBA8(r, g, b, a uint8) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255, float64(a) / 255}
}

// Gray creates an opaque gray of intensity v.
func Gray(v float64) Color {
	return Color{v, v, v, 1}
}

// ParseHex parses "#rgb" or "#rrggbb" into an opaque color.
func ParseHex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{c.R, c.G, c.B, 1}, nil
}

// Hex formats the color as "#rrggbb", ignoring alpha.
func (c Color) Hex() string {
	c = c.Clamp()
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Hex()
}

// ColorFromStd converts any color.Color to a Color.
func ColorFromStd(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA8(n.R, n.G, n.B, n.A)
}

// Add returns c + o on all four channels.
func (c Color) Add(o Color) Color {
	return Color{c.R + o.R, c.G + o.G, c.B + o.B, c.A + o.A}
}

// Sub returns c - o on all four channels.
func (c Color) Sub(o Color) Color {
	return Color{c.R - o.R, c.G - o.G, c.B - o.B, c.A - o.A}
}

// Mul modulates c by o on all four channels.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B, c.A * o.A}
}

// Scale multiplies the RGB channels by s and keeps alpha.
func (c Color) Scale(s float64) Color {
	return Color{c.R * s, c.G * s, c.B * s, c.A}
}

// Lerp interpolates all four channels.
func (c Color) Lerp(o Color, t float64) Color {
	return Color{
		c.R + (o.R-c.R)*t,
		c.G + (o.G-c.G)*t,
		c.B + (o.B-c.B)*t,
		c.A + (o.A-c.A)*t,
	}
}

// Lerp4 blends four texels bilinearly: c00/c10 on the first row, c01/c11 on
// the second, fx across and fy down.
func Lerp4(c00, c10, c01, c11 Color, fx, fy float64) Color {
	return c00.Lerp(c10, fx).Lerp(c01.Lerp(c11, fx), fy)
}

// Clamp limits every channel to [0, 1].
func (c Color) Clamp() Color {
	return Color{clamp01(c.R), clamp01(c.G), clamp01(c.B), clamp01(c.A)}
}

// Over composites c over dst using c's alpha.
func (c Color) Over(dst Color) Color {
	a := clamp01(c.A)
	return Color{
		c.R*a + dst.R*(1-a),
		c.G*a + dst.G*(1-a),
		c.B*a + dst.B*(1-a),
		a + dst.A*(1-a),
	}
}

// Luminance returns the Rec. 709 luma of the RGB channels.
func (c Color) Luminance() float64 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

// NRGBA converts to a non-premultiplied 8-bit color.
func (c Color) NRGBA() color.NRGBA {
	c = c.Clamp()
	return color.NRGBA{
		R: uint8(math.Round(c.R * 255)),
		G: uint8(math.Round(c.G * 255)),
		B: uint8(math.Round(c.B * 255)),
		A: uint8(math.Round(c.A * 255)),
	}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
