package render

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder
)

// Texture holds a 2D image for texture mapping, rows bottom-up so that
// v=0 addresses the bottom of the source image.
type Texture struct {
	Width   int
	Height  int
	Pixels  []Color
	Sampler Sampler // used by Sample

	mips []*Texture // level 1 and down, filled by GenerateMipmaps
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// LoadTexture decodes a PNG, JPEG, GIF, BMP, TIFF or WebP file.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage converts a top-down image into a texture.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	tex := NewTexture(bounds.Dx(), bounds.Dy())
	for y := range tex.Height {
		sy := bounds.Max.Y - 1 - y
		for x := range tex.Width {
			tex.Pixels[y*tex.Width+x] = ColorFromStd(img.At(bounds.Min.X+x, sy))
		}
	}
	return tex
}

// ToImage converts the texture back to a top-down image.
func (t *Texture) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
	for y := range t.Height {
		for x := range t.Width {
			img.SetNRGBA(x, t.Height-1-y, t.Pixels[y*t.Width+x].NRGBA())
		}
	}
	return img
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

// NewGradientTexture creates a horizontal gradient texture.
func NewGradientTexture(width, height int, left, right Color) *Texture {
	tex := NewTexture(width, height)
	for x := range width {
		t := 0.0
		if width > 1 {
			t = float64(x) / float64(width-1)
		}
		c := left.Lerp(right, t)
		for y := range height {
			tex.SetPixel(x, y, c)
		}
	}
	return tex
}

// Size implements Bitmap.
func (t *Texture) Size() (int, int) {
	return t.Width, t.Height
}

// ColorAt implements Bitmap.
func (t *Texture) ColorAt(x, y int) Color {
	return t.GetPixel(x, y)
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

// Sample samples the base level through the texture's own sampler.
func (t *Texture) Sample(u, v float64) Color {
	return t.Sampler.Sample(t, u, v)
}

// GenerateMipmaps builds the chain of half-size levels down to 1x1 with
// bilinear downscaling.
func (t *Texture) GenerateMipmaps() {
	t.mips = t.mips[:0]
	src := t.ToImage()
	w, h := t.Width, t.Height
	for w > 1 || h > 1 {
		w, h = max(1, w/2), max(1, h/2)
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		level := TextureFromImage(dst)
		level.Sampler = t.Sampler
		t.mips = append(t.mips, level)
		src = dst
	}
}

// Levels returns the number of mip levels including the base.
func (t *Texture) Levels() int {
	return 1 + len(t.mips)
}

// Level returns mip level i, clamped to the available chain. Level 0 is
// the texture itself.
func (t *Texture) Level(i int) *Texture {
	if i <= 0 || len(t.mips) == 0 {
		return t
	}
	return t.mips[min(i, len(t.mips))-1]
}
