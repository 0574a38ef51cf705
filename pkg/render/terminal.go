package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// TerminalPixels returns the framebuffer size that fills a terminal area of
// cols×rows cells. Each cell shows two vertically stacked pixels.
func TerminalPixels(cols, rows int) (width, height int) {
	return cols, rows * 2
}

// Draw implements uv.Drawable. Each terminal row shows two framebuffer rows
// with the upper half block: foreground is the upper pixel, background the
// lower one. The framebuffer is bottom-up, so the top terminal row shows
// the last two framebuffer rows.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	for row := 0; row < area.Dy(); row++ {
		topY := fb.Height - 1 - row*2
		botY := topY - 1
		if topY < 0 {
			break
		}
		for col := 0; col < area.Dx() && col < fb.Width; col++ {
			scr.SetCell(area.Min.X+col, area.Min.Y+row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.GetPixel(col, topY)),
					Bg: cellColor(fb.GetPixel(col, botY)),
				},
			})
		}
	}
}

// cellColor maps fully transparent pixels to the terminal default.
func cellColor(c Color) color.Color {
	if c.A <= 0 {
		return nil
	}
	return c.NRGBA()
}
