package shaders

import (
	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/raster"
	"github.com/taigrr/softrender/pkg/render"
)

// Position carries only the clip-space position.
type Position struct {
	Pos math3d.Vec4
}

var positionDecl = raster.Decl{
	{Offset: 0, Usage: raster.UsagePosition, Format: raster.Vec4},
}

func (Position) Decl() raster.Decl { return positionDecl }

func (v Position) Store(dst []float64) { v.Pos.Slice(dst) }

func (Position) Load(src []float64) Position {
	return Position{Pos: math3d.V4FromSlice(src)}
}

// Colored carries a per-vertex color.
type Colored struct {
	Pos   math3d.Vec4
	Color render.Color
}

var coloredDecl = raster.Decl{
	{Offset: 0, Usage: raster.UsagePosition, Format: raster.Vec4},
	{Offset: 4, Usage: raster.UsageColor, Format: raster.Vec4},
}

func (Colored) Decl() raster.Decl { return coloredDecl }

func (v Colored) Store(dst []float64) {
	v.Pos.Slice(dst)
	dst[4], dst[5], dst[6], dst[7] = v.Color.R, v.Color.G, v.Color.B, v.Color.A
}

func (Colored) Load(src []float64) Colored {
	return Colored{
		Pos:   math3d.V4FromSlice(src),
		Color: render.Color{R: src[4], G: src[5], B: src[6], A: src[7]},
	}
}

// Texcoord carries texture coordinates and a precomputed light factor.
type Texcoord struct {
	Pos   math3d.Vec4
	UV    math3d.Vec2
	Light render.Color
}

var texcoordDecl = raster.Decl{
	{Offset: 0, Usage: raster.UsagePosition, Format: raster.Vec4},
	{Offset: 4, Usage: raster.UsageTexcoord, Format: raster.Vec2},
	{Offset: 6, Usage: raster.UsageColor, Format: raster.Vec3},
}

func (Texcoord) Decl() raster.Decl { return texcoordDecl }

func (v Texcoord) Store(dst []float64) {
	v.Pos.Slice(dst)
	dst[4], dst[5] = v.UV.X, v.UV.Y
	dst[6], dst[7], dst[8] = v.Light.R, v.Light.G, v.Light.B
}

func (Texcoord) Load(src []float64) Texcoord {
	return Texcoord{
		Pos:   math3d.V4FromSlice(src),
		UV:    math3d.V2(src[4], src[5]),
		Light: render.Color{R: src[6], G: src[7], B: src[8], A: 1},
	}
}

// Surface carries everything per-pixel lighting needs.
type Surface struct {
	Pos    math3d.Vec4
	World  math3d.Vec3
	Normal math3d.Vec3
	UV     math3d.Vec2
}

var surfaceDecl = raster.Decl{
	{Offset: 0, Usage: raster.UsagePosition, Format: raster.Vec4},
	{Offset: 4, Usage: raster.UsageWorldPosition, Format: raster.Vec3},
	{Offset: 7, Usage: raster.UsageNormal, Format: raster.Vec3},
	{Offset: 10, Usage: raster.UsageTexcoord, Format: raster.Vec2},
}

func (Surface) Decl() raster.Decl { return surfaceDecl }

func (v Surface) Store(dst []float64) {
	v.Pos.Slice(dst)
	dst[4], dst[5], dst[6] = v.World.X, v.World.Y, v.World.Z
	dst[7], dst[8], dst[9] = v.Normal.X, v.Normal.Y, v.Normal.Z
	dst[10], dst[11] = v.UV.X, v.UV.Y
}

func (Surface) Load(src []float64) Surface {
	return Surface{
		Pos:    math3d.V4FromSlice(src),
		World:  math3d.V3(src[4], src[5], src[6]),
		Normal: math3d.V3(src[7], src[8], src[9]),
		UV:     math3d.V2(src[10], src[11]),
	}
}
