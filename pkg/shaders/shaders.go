// Package shaders provides the stock shaders for drawing models.MeshVertex
// meshes through the raster pipeline.
package shaders

import (
	"math"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/models"
	"github.com/taigrr/softrender/pkg/raster"
	"github.com/taigrr/softrender/pkg/render"
)

// DefaultShadowBias is the depth offset in NDC units applied before
// comparing against a shadow map.
const DefaultShadowBias = 0.005

// transform is embedded by every shader to receive the current matrices.
type transform struct {
	m raster.Matrices
}

// SetMatrices implements raster.MatrixReceiver.
func (t *transform) SetMatrices(m raster.Matrices) { t.m = m }

func (t *transform) clip(p math3d.Vec3) math3d.Vec4 {
	return t.m.MVP.MulPoint(p)
}

func (t *transform) world(p math3d.Vec3) math3d.Vec3 {
	return t.m.Model.MulVec3(p)
}

func (t *transform) normal(n math3d.Vec3) math3d.Vec3 {
	return t.m.Normal.MulVec3Dir(n).Normalize()
}

// lambert returns the diffuse light reaching a surface point.
func lambert(l *render.Light, world, normal math3d.Vec3) render.Color {
	if l == nil {
		return render.ColorWhite
	}
	toLight, atten := l.Illuminate(world)
	d := math.Max(0, normal.Dot(toLight)) * atten
	return l.Color.Scale(d)
}

func withAlpha(c render.Color, a float64) render.Color {
	c.A = a
	return c
}

// Unlit draws a flat color.
type Unlit struct {
	transform
	Color render.Color
}

// NewUnlit returns an unlit shader of the given color.
func NewUnlit(c render.Color) *Unlit { return &Unlit{Color: c} }

func (s *Unlit) Vertex(in models.MeshVertex) Position {
	return Position{Pos: s.clip(in.Position)}
}

func (s *Unlit) Fragment(Position) render.Color { return s.Color }

// Gouraud lights each vertex with a Lambert term and interpolates the
// resulting color.
type Gouraud struct {
	transform
	Color   render.Color
	Light   *render.Light
	Ambient float64
}

// NewGouraud returns a Gouraud shader lit by l.
func NewGouraud(c render.Color, l *render.Light) *Gouraud {
	return &Gouraud{Color: c, Light: l, Ambient: 0.15}
}

func (s *Gouraud) Vertex(in models.MeshVertex) Colored {
	world := s.world(in.Position)
	light := lambert(s.Light, world, s.normal(in.Normal)).Add(render.Gray(s.Ambient))
	return Colored{
		Pos:   s.clip(in.Position),
		Color: withAlpha(s.Color.Mul(light), s.Color.A),
	}
}

func (s *Gouraud) Fragment(v Colored) render.Color { return v.Color }

// Textured samples a texture and modulates it by per-vertex Lambert light.
// Without a texture it falls back to Tint.
type Textured struct {
	transform
	Texture *render.Texture
	Sampler render.Sampler
	Tint    render.Color
	Light   *render.Light
	Ambient float64
}

// NewTextured returns a textured shader with wrap addressing and bilinear
// filtering.
func NewTextured(tex *render.Texture, l *render.Light) *Textured {
	return &Textured{
		Texture: tex,
		Sampler: render.NewSampler(render.WrapAddresser{}, render.LinearFilter{}),
		Tint:    render.ColorWhite,
		Light:   l,
		Ambient: 0.15,
	}
}

func (s *Textured) Vertex(in models.MeshVertex) Texcoord {
	world := s.world(in.Position)
	return Texcoord{
		Pos:   s.clip(in.Position),
		UV:    in.UV,
		Light: lambert(s.Light, world, s.normal(in.Normal)).Add(render.Gray(s.Ambient)),
	}
}

func (s *Textured) Fragment(v Texcoord) render.Color {
	base := s.Tint
	if s.Texture != nil {
		base = base.Mul(s.Sampler.Sample(s.Texture, v.UV.X, v.UV.Y))
	}
	return withAlpha(base.Mul(v.Light), base.A)
}

// ShadowPrePass renders depth from the light's point of view. Pair it
// with a depth-only render state.
type ShadowPrePass struct {
	transform
}

func (s *ShadowPrePass) Vertex(in models.MeshVertex) Position {
	return Position{Pos: s.clip(in.Position)}
}

func (s *ShadowPrePass) Fragment(v Position) render.Color {
	return render.Gray((v.Pos.Z + 1) / 2)
}

// ShadowLit lights each pixel with Lambert and Blinn-Phong terms and
// darkens the parts the shadow map marks as occluded.
type ShadowLit struct {
	transform
	Color   render.Color
	Texture *render.Texture
	Sampler render.Sampler
	Light   *render.Light
	Ambient float64

	Specular  float64
	Shininess float64

	// ShadowMap is the depth rendered by ShadowPrePass through
	// LightViewProj. A nil map disables shadowing.
	ShadowMap     *render.DepthBuffer
	ShadowSampler render.Sampler
	LightViewProj math3d.Mat4
	Bias          float64

	eye math3d.Vec3
}

// NewShadowLit returns a shadowed shader with the default bias.
func NewShadowLit(c render.Color, l *render.Light) *ShadowLit {
	return &ShadowLit{
		Color:     c,
		Sampler:   render.NewSampler(render.WrapAddresser{}, render.LinearFilter{}),
		Light:     l,
		Ambient:   0.15,
		Shininess: 32,

		ShadowSampler: render.NewSampler(render.ClampAddresser{}, render.LinearFilter{}),
		Bias:          DefaultShadowBias,
	}
}

// SetShadow points the shader at a shadow map rendered with lightVP.
func (s *ShadowLit) SetShadow(depth *render.DepthBuffer, lightVP math3d.Mat4) {
	s.ShadowMap = depth
	s.LightViewProj = lightVP
}

// SetMatrices also records the eye position for specular highlights.
func (s *ShadowLit) SetMatrices(m raster.Matrices) {
	s.transform.SetMatrices(m)
	s.eye = m.View.Inverse().Translation()
}

func (s *ShadowLit) Vertex(in models.MeshVertex) Surface {
	return Surface{
		Pos:    s.clip(in.Position),
		World:  s.world(in.Position),
		Normal: s.normal(in.Normal),
		UV:     in.UV,
	}
}

// Shadow returns the occluded fraction of the light at a world position.
func (s *ShadowLit) Shadow(world math3d.Vec3) float64 {
	if s.ShadowMap == nil {
		return 0
	}
	lp := s.LightViewProj.MulPoint(world)
	if lp.W <= 0 {
		return 0
	}
	ndc := lp.PerspectiveDivide()
	return s.ShadowSampler.CompareDepth(s.ShadowMap, (ndc.X+1)/2, (ndc.Y+1)/2, ndc.Z, s.Bias)
}

func (s *ShadowLit) Fragment(v Surface) render.Color {
	base := s.Color
	if s.Texture != nil {
		base = base.Mul(s.Sampler.Sample(s.Texture, v.UV.X, v.UV.Y))
	}
	if s.Light == nil {
		return base
	}
	n := v.Normal.Normalize()
	light := render.Gray(s.Ambient)
	toLight, atten := s.Light.Illuminate(v.World)
	if ndl := n.Dot(toLight); ndl > 0 && atten > 0 {
		lit := 1 - s.Shadow(v.World)
		light = light.Add(s.Light.Color.Scale(ndl * atten * lit))
		if s.Specular > 0 {
			h := toLight.Add(s.eye.Sub(v.World).Normalize()).Normalize()
			spec := math.Pow(math.Max(0, n.Dot(h)), s.Shininess) * s.Specular * atten * lit
			light = light.Add(s.Light.Color.Scale(spec))
		}
	}
	return withAlpha(base.Mul(light), base.A)
}
