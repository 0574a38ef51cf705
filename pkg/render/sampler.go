package render

import "math"

// Addresser maps texture coordinates onto one axis of a bitmap.
//
// CalcAddress turns a normalized coordinate (possibly outside [0,1)) into a
// continuous pixel-space coordinate whose integer values are texel centers.
// FixAddress folds an integer texel index, possibly one step outside the
// bitmap after filtering, back into [0, length).
type Addresser interface {
	CalcAddress(coord float64, length int) float64
	FixAddress(coord, length int) int
}

// WrapAddresser tiles the bitmap.
type WrapAddresser struct{}

func (WrapAddresser) CalcAddress(coord float64, length int) float64 {
	return (coord-math.Floor(coord))*float64(length) - 0.5
}

func (WrapAddresser) FixAddress(coord, length int) int {
	coord %= length
	if coord < 0 {
		coord += length
	}
	return coord
}

// ClampAddresser repeats the edge texels.
type ClampAddresser struct{}

func (ClampAddresser) CalcAddress(coord float64, length int) float64 {
	l := float64(length)
	return math.Max(0.5, math.Min(l-0.5, coord*l)) - 0.5
}

func (ClampAddresser) FixAddress(coord, length int) int {
	return max(0, min(length-1, coord))
}

// MirrorAddresser reflects the bitmap at every integer boundary, so odd
// tiles run backwards.
type MirrorAddresser struct{}

func (MirrorAddresser) CalcAddress(coord float64, length int) float64 {
	tile := math.Floor(coord)
	local := coord - tile
	if int64(tile)&1 != 0 {
		local = 1 - local
	}
	return local*float64(length) - 0.5
}

func (MirrorAddresser) FixAddress(coord, length int) int {
	return max(0, min(length-1, coord))
}

// Filter reconstructs a color from the texels around (u, v).
type Filter interface {
	Filter(b Bitmap, u, v float64, au, av Addresser) Color
}

// PointFilter returns the nearest texel.
type PointFilter struct{}

func (PointFilter) Filter(b Bitmap, u, v float64, au, av Addresser) Color {
	w, h := b.Size()
	x := au.FixAddress(roundHalfUp(au.CalcAddress(u, w)), w)
	y := av.FixAddress(roundHalfUp(av.CalcAddress(v, h)), h)
	return b.ColorAt(x, y)
}

// LinearFilter blends the four surrounding texels.
type LinearFilter struct{}

func (LinearFilter) Filter(b Bitmap, u, v float64, au, av Addresser) Color {
	w, h := b.Size()
	x0, x1, fx := taps(au, u, w)
	y0, y1, fy := taps(av, v, h)
	return Lerp4(b.ColorAt(x0, y0), b.ColorAt(x1, y0), b.ColorAt(x0, y1), b.ColorAt(x1, y1), fx, fy)
}

// taps returns the two texel indices straddling coord and the weight of
// the second.
func taps(a Addresser, coord float64, length int) (i0, i1 int, frac float64) {
	f := a.CalcAddress(coord, length)
	fl := math.Floor(f)
	i := int(fl)
	return a.FixAddress(i, length), a.FixAddress(i+1, length), f - fl
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Sampler combines an addressing policy per axis with a filter. The zero
// value wraps in both axes with point filtering.
type Sampler struct {
	AddressU Addresser
	AddressV Addresser
	Filter   Filter
}

// NewSampler returns a sampler using the same addresser on both axes.
func NewSampler(a Addresser, f Filter) Sampler {
	return Sampler{AddressU: a, AddressV: a, Filter: f}
}

func (s Sampler) resolve() (Addresser, Addresser, Filter) {
	au, av, f := s.AddressU, s.AddressV, s.Filter
	if au == nil {
		au = WrapAddresser{}
	}
	if av == nil {
		av = WrapAddresser{}
	}
	if f == nil {
		f = PointFilter{}
	}
	return au, av, f
}

// Sample returns the filtered color of b at (u, v). v=0 is the bottom row.
// Empty bitmaps sample as transparent black.
func (s Sampler) Sample(b Bitmap, u, v float64) Color {
	if b == nil {
		return Color{}
	}
	if w, h := b.Size(); w <= 0 || h <= 0 {
		return Color{}
	}
	au, av, f := s.resolve()
	return f.Filter(b, u, v, au, av)
}

// SampleLevel samples a mip level of t chosen by lod, rounding to the
// nearest generated level.
func (s Sampler) SampleLevel(t *Texture, u, v, lod float64) Color {
	return s.Sample(t.Level(roundHalfUp(math.Max(0, lod))), u, v)
}

// CompareDepth runs a shadow-map comparison at (u, v): each of the four
// surrounding texels counts as occluded when ref-bias lies behind the
// stored depth, and the results are blended bilinearly. The return value
// is the occluded fraction in [0,1]. Coordinates outside [0,1] are never
// occluded.
func (s Sampler) CompareDepth(d *DepthBuffer, u, v, ref, bias float64) float64 {
	if d == nil || d.Width == 0 || d.Height == 0 {
		return 0
	}
	if u < 0 || u > 1 || v < 0 || v > 1 {
		return 0
	}
	au, av, _ := s.resolve()
	x0, x1, fx := taps(au, u, d.Width)
	y0, y1, fy := taps(av, v, d.Height)

	test := func(x, y int) float64 {
		if ref-bias > d.At(x, y) {
			return 1
		}
		return 0
	}
	top := lerp(test(x0, y0), test(x1, y0), fx)
	bot := lerp(test(x0, y1), test(x1, y1), fx)
	return lerp(top, bot, fy)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
