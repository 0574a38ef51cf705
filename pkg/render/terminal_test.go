package render

import (
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
)

func TestFramebufferDrawHalfBlocks(t *testing.T) {
	fb := NewFramebuffer(2, 4)
	fb.Clear(ColorBlack)
	fb.SetPixel(0, 3, ColorRed)   // top row of the image
	fb.SetPixel(0, 2, ColorGreen) // second row
	fb.SetPixel(1, 0, ColorBlue)  // bottom row

	w, h := 2, 2
	scr := uv.NewScreenBuffer(w, h)
	fb.Draw(scr, uv.Rect(0, 0, w, h))

	top := scr.CellAt(0, 0)
	if top == nil || top.Content != "▀" {
		t.Fatalf("cell (0,0) = %+v, want half block", top)
	}
	if ColorFromStd(top.Style.Fg) != ColorRed || ColorFromStd(top.Style.Bg) != ColorGreen {
		t.Errorf("top cell colors = %v / %v, want red / green", top.Style.Fg, top.Style.Bg)
	}
	bottom := scr.CellAt(1, 1)
	if bottom == nil || ColorFromStd(bottom.Style.Bg) != ColorBlue {
		t.Errorf("bottom cell = %+v, want blue background", bottom)
	}
}

func TestTerminalPixels(t *testing.T) {
	w, h := TerminalPixels(80, 24)
	if w != 80 || h != 48 {
		t.Errorf("TerminalPixels = %dx%d, want 80x48", w, h)
	}
}
