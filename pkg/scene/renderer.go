package scene

import (
	"context"
	"log/slog"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/models"
	"github.com/taigrr/softrender/pkg/raster"
	"github.com/taigrr/softrender/pkg/render"
	"github.com/taigrr/softrender/pkg/shaders"
)

// Options control a Renderer's passes.
type Options struct {
	Background render.Color
	Ambient    float64
	Sampler    render.Sampler

	// ShadowSize is the edge length of the square shadow map. Zero
	// disables shadows.
	ShadowSize int
	ShadowBias float64

	// Wireframe overlays every object's triangle edges.
	Wireframe   bool
	WireColor   render.Color
	SmoothLines bool

	// ShadowInset copies the shadow map into the lower-left corner.
	ShadowInset bool
}

// DefaultOptions returns bilinear wrapped sampling, a 1024 shadow map, dim
// ambient light and a dark background.
func DefaultOptions() Options {
	return Options{
		Background: render.RGB(0.08, 0.08, 0.12),
		Ambient:    0.15,
		Sampler:    render.NewSampler(render.WrapAddresser{}, render.LinearFilter{}),
		ShadowSize: 1024,
		ShadowBias: shaders.DefaultShadowBias,
		WireColor:  render.ColorWhite,
	}
}

// FrameStats reports what a Render call did.
type FrameStats struct {
	Objects  int
	Visible  int
	Shadowed int
	raster.Stats
}

// Renderer draws objects into a render target. It is not safe for
// concurrent use.
type Renderer struct {
	Target *render.RenderTexture
	Light  *render.Light
	Options
	Gizmos Gizmos

	logger *slog.Logger
	shadow *render.RenderTexture

	ctx      *raster.Context
	unlit    *raster.Pipeline[models.MeshVertex, shaders.Position]
	gouraud  *raster.Pipeline[models.MeshVertex, shaders.Colored]
	textured *raster.Pipeline[models.MeshVertex, shaders.Texcoord]
	lit      *raster.Pipeline[models.MeshVertex, shaders.Surface]
	gizmos   *raster.Pipeline[GizmoVertex, shaders.Colored]

	shadowCtx  *raster.Context
	shadowPass *raster.Pipeline[models.MeshVertex, shaders.Position]
	lightVP    math3d.Mat4
}

// NewRenderer creates a renderer drawing into target, lit by light. A nil
// light draws everything fully lit.
func NewRenderer(target *render.RenderTexture, light *render.Light) *Renderer {
	r := &Renderer{
		Target:  target,
		Light:   light,
		Options: DefaultOptions(),
		logger:  raster.Logger(),
	}
	r.ctx = raster.NewContext(target)
	r.unlit = raster.New[models.MeshVertex, shaders.Position](r.ctx)
	r.gouraud = raster.New[models.MeshVertex, shaders.Colored](r.ctx)
	r.textured = raster.New[models.MeshVertex, shaders.Texcoord](r.ctx)
	r.lit = raster.New[models.MeshVertex, shaders.Surface](r.ctx)
	r.gizmos = raster.New[GizmoVertex, shaders.Colored](r.ctx)
	r.gizmos.SetShader(&gizmoShader{})

	r.shadowCtx = raster.NewContext(nil)
	r.shadowPass = raster.New[models.MeshVertex, shaders.Position](r.shadowCtx)
	r.shadowPass.SetShader(&shaders.ShadowPrePass{})
	return r
}

// SetLogger sets the logger for this renderer and its pipelines. A nil
// logger falls back to the package-wide raster logger.
func (r *Renderer) SetLogger(l *slog.Logger) {
	if l == nil {
		l = raster.Logger()
	}
	r.logger = l
	r.ctx.Logger = l
	r.shadowCtx.Logger = l
}

// Resize replaces the render target with a new one of the given size.
func (r *Renderer) Resize(width, height int) {
	if w, h := r.Target.Size(); w == width && h == height {
		return
	}
	r.Target = render.NewRenderTexture(width, height, true)
}

// ShadowMap returns the depth from the last shadow pass, or nil.
func (r *Renderer) ShadowMap() *render.DepthBuffer {
	if r.shadow == nil {
		return nil
	}
	return r.shadow.Depth
}

// LightViewProjection returns the matrix the last shadow pass used.
func (r *Renderer) LightViewProjection() math3d.Mat4 { return r.lightVP }

// Render clears the target and draws objects seen from cam. It checks ctx
// between objects and returns its error if cancelled.
func (r *Renderer) Render(ctx context.Context, cam *render.Camera, objects []*Object) (FrameStats, error) {
	var fs FrameStats
	r.ctx.Target = r.Target
	r.ctx.Stats = raster.Stats{}
	r.shadowCtx.Stats = raster.Stats{}
	r.Target.Clear(true, true, r.Background)

	var (
		visible []*Object
		casters []*Object
		world   = render.EmptyAABB()
	)
	frustum := cam.Frustum()
	for _, o := range objects {
		if o == nil || o.Mesh == nil || o.Hidden {
			continue
		}
		fs.Objects++
		b := o.Bounds()
		world = world.Union(b)
		if o.CastShadows {
			casters = append(casters, o)
		}
		if frustum.IntersectAABB(b) {
			visible = append(visible, o)
		}
	}
	fs.Visible = len(visible)

	shadowed := r.Light != nil && r.ShadowSize > 0 && len(casters) > 0
	if shadowed {
		if err := r.renderShadows(ctx, cam, casters, world); err != nil {
			return fs, err
		}
		fs.Shadowed = len(casters)
	}

	r.ctx.SetCamera(cam)
	for _, o := range visible {
		if err := ctx.Err(); err != nil {
			return fs, err
		}
		if err := r.draw(o, shadowed); err != nil {
			return fs, err
		}
	}

	if err := r.drawLines(visible); err != nil {
		return fs, err
	}

	if shadowed && r.ShadowInset {
		r.drawShadowInset()
	}

	fs.Stats = r.ctx.Stats
	fs.Stats.Add(r.shadowCtx.Stats)
	r.logger.Debug("frame",
		"objects", fs.Objects,
		"visible", fs.Visible,
		"shadowed", fs.Shadowed,
		"primitives", fs.Primitives,
		"fragments", fs.Fragments,
	)
	return fs, nil
}

// renderShadows fits a light camera around the part of the view frustum
// that holds geometry and renders caster depth into the shadow map.
func (r *Renderer) renderShadows(ctx context.Context, cam *render.Camera, casters []*Object, world render.AABB) error {
	if r.shadow == nil || r.shadow.Depth.Width != r.ShadowSize {
		r.shadow = render.NewRenderTexture(r.ShadowSize, r.ShadowSize, true)
	}
	r.shadow.Clear(false, true, render.Color{})

	fit := *cam
	if far := farthest(cam.Position, world); far < fit.Far {
		fit.SetClipPlanes(fit.Near, max(far, fit.Near*2))
	}
	lightCam := r.Light.ShadowCamera(fit.InverseViewProjection(), world)
	r.lightVP = lightCam.ViewProjectionMatrix()

	r.shadowCtx.Target = r.shadow
	r.shadowCtx.State = raster.RenderState{
		Cull:       raster.CullOff,
		DepthTest:  true,
		DepthWrite: true,
		DepthOnly:  true,
	}
	r.shadowPass.SetCamera(lightCam)
	for _, o := range casters {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.shadowPass.SetModel(o.Transform)
		err := r.shadowPass.Submit(raster.Batch[models.MeshVertex]{
			Vertices: o.Mesh.Vertices,
			Indices:  o.Mesh.Indices(),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func farthest(p math3d.Vec3, b render.AABB) float64 {
	var d float64
	for _, c := range b.Corners() {
		d = max(d, c.Distance(p))
	}
	return d
}

func (r *Renderer) draw(o *Object, shadowed bool) error {
	r.ctx.Model = o.Transform
	r.ctx.State = raster.DefaultRenderState()
	r.ctx.State.Cull = o.Cull
	r.ctx.State.Blend = o.Material.Color.A < 1

	for _, p := range o.parts() {
		b := raster.Batch[models.MeshVertex]{Vertices: o.Mesh.Vertices, Indices: p.indices}
		var err error
		switch o.Material.Shading {
		case ShadingUnlit:
			r.unlit.SetShader(shaders.NewUnlit(p.color))
			err = r.unlit.Submit(b)
		case ShadingGouraud:
			s := shaders.NewGouraud(p.color, r.Light)
			s.Ambient = r.Ambient
			r.gouraud.SetShader(s)
			err = r.gouraud.Submit(b)
		case ShadingTextured:
			s := shaders.NewTextured(p.texture, r.Light)
			s.Tint = p.color
			s.Sampler = r.Sampler
			s.Ambient = r.Ambient
			r.textured.SetShader(s)
			err = r.textured.Submit(b)
		default:
			s := shaders.NewShadowLit(p.color, r.Light)
			s.Texture = p.texture
			s.Sampler = r.Sampler
			s.Ambient = r.Ambient
			s.Specular = o.Material.Specular
			s.Bias = r.ShadowBias
			if shadowed {
				s.SetShadow(r.shadow.Depth, r.lightVP)
			}
			r.lit.SetShader(s)
			err = r.lit.Submit(b)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// drawLines draws wireframe overlays and queued gizmos.
func (r *Renderer) drawLines(visible []*Object) error {
	r.ctx.State = raster.RenderState{
		Cull:        raster.CullOff,
		Blend:       r.SmoothLines,
		SmoothLines: r.SmoothLines,
	}
	r.unlit.SetShader(shaders.NewUnlit(r.WireColor))
	for _, o := range visible {
		if !r.Wireframe && !o.Wireframe {
			continue
		}
		r.ctx.Model = o.Transform
		err := r.unlit.Submit(raster.Batch[models.MeshVertex]{
			Vertices: o.Mesh.Vertices,
			Indices:  edgeIndices(o.Mesh),
			Topology: raster.Lines,
		})
		if err != nil {
			return err
		}
	}

	if r.Gizmos.Len() == 0 {
		return nil
	}
	r.ctx.Model = math3d.Identity()
	r.ctx.State.DepthTest = true
	return r.gizmos.Submit(r.Gizmos.batch())
}

func (r *Renderer) drawShadowInset() {
	w, h := r.Target.Size()
	size := min(w, h) / 4
	if size < 8 {
		return
	}
	sampler := render.NewSampler(render.ClampAddresser{}, render.PointFilter{})
	r.Target.Color.DrawBitmap(r.shadow.Depth, 1, 1, size, size, sampler)
	r.Target.Color.DrawRectOutline(0, 0, size+2, size+2, render.ColorWhite)
}
