package render

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestTextureFromImageFlipsRows(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255}) // top-left
	img.SetNRGBA(1, 1, color.NRGBA{0, 0, 255, 255}) // bottom-right

	tex := TextureFromImage(img)
	if tex.GetPixel(0, 1) != ColorRed {
		t.Errorf("top-left of image should be row 1, got %v", tex.GetPixel(0, 1))
	}
	if tex.GetPixel(1, 0) != ColorBlue {
		t.Errorf("bottom-right of image should be row 0, got %v", tex.GetPixel(1, 0))
	}

	back := tex.ToImage()
	if ColorFromStd(back.At(0, 0)) != ColorRed {
		t.Error("ToImage did not restore top-down order")
	}
}

func TestLoadTexture(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(2, 0, color.NRGBA{0, 255, 0, 255})

	path := filepath.Join(t.TempDir(), "tex.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	tex, err := LoadTexture(path)
	if err != nil {
		t.Fatalf("LoadTexture: %v", err)
	}
	if tex.Width != 3 || tex.Height != 2 {
		t.Fatalf("size = %dx%d, want 3x2", tex.Width, tex.Height)
	}
	if tex.GetPixel(2, 1) != ColorGreen {
		t.Errorf("pixel = %v, want green", tex.GetPixel(2, 1))
	}

	if _, err := LoadTexture(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGenerateMipmaps(t *testing.T) {
	tex := NewCheckerTexture(16, 8, 1, ColorWhite, ColorBlack)
	tex.GenerateMipmaps()

	wantSizes := [][2]int{{16, 8}, {8, 4}, {4, 2}, {2, 1}, {1, 1}}
	if tex.Levels() != len(wantSizes) {
		t.Fatalf("Levels = %d, want %d", tex.Levels(), len(wantSizes))
	}
	for i, want := range wantSizes {
		l := tex.Level(i)
		if l.Width != want[0] || l.Height != want[1] {
			t.Errorf("level %d = %dx%d, want %dx%d", i, l.Width, l.Height, want[0], want[1])
		}
	}
	if tex.Level(99) != tex.Level(4) {
		t.Error("Level should clamp to the smallest level")
	}

	// A one-texel checker averages to gray once downscaled.
	c := tex.Level(4).GetPixel(0, 0)
	if c.R < 0.3 || c.R > 0.7 {
		t.Errorf("1x1 level = %v, want roughly mid gray", c)
	}
}

func TestTextureSampleUsesOwnSampler(t *testing.T) {
	tex := NewGradientTexture(4, 1, ColorBlack, ColorWhite)
	tex.Sampler = NewSampler(ClampAddresser{}, LinearFilter{})
	if got := tex.Sample(0.5, 0.5); got.R <= 0.3 || got.R >= 0.7 {
		t.Errorf("center sample = %v, want mid gray", got)
	}
	if got := tex.Sample(5, 0.5); got != ColorWhite {
		t.Errorf("clamped sample = %v, want white", got)
	}
}
