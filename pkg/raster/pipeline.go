// Package raster is a software rasterization pipeline. A submit runs the
// vertex shader over a batch, assembles primitives, clips them in
// homogeneous space, rasterizes the survivors with perspective-correct
// interpolation and runs the fragment shader, depth test and blend for
// every covered pixel.
//
// The pipeline is single-threaded and keeps no global state: targets,
// matrices and render state live in a Context.
package raster

import (
	"fmt"
	"log/slog"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/render"
)

// Topology selects how a batch's indices group into primitives.
type Topology int

const (
	Triangles Topology = iota
	Lines
	Points
	Quads
)

func (t Topology) String() string {
	switch t {
	case Triangles:
		return "triangles"
	case Lines:
		return "lines"
	case Points:
		return "points"
	case Quads:
		return "quads"
	default:
		return fmt.Sprintf("topology(%d)", int(t))
	}
}

func (t Topology) arity() int {
	switch t {
	case Triangles:
		return 3
	case Lines:
		return 2
	case Points:
		return 1
	case Quads:
		return 4
	default:
		return 0
	}
}

// Batch is one draw: a vertex buffer and an optional index buffer. With nil
// Indices the vertices are consumed in order.
type Batch[In any] struct {
	Vertices []In
	Indices  []int
	Topology Topology
}

// Context is the state a submit reads: where to draw, with which
// transforms and toggles. Several pipelines may share one context.
type Context struct {
	Target     *render.RenderTexture
	Model      math3d.Mat4
	View       math3d.Mat4
	Projection math3d.Mat4
	State      RenderState
	Stats      Stats
	Logger     *slog.Logger // nil uses the package logger
}

// NewContext returns a context with identity transforms and the default
// render state.
func NewContext(target *render.RenderTexture) *Context {
	return &Context{
		Target:     target,
		Model:      math3d.Identity(),
		View:       math3d.Identity(),
		Projection: math3d.Identity(),
		State:      DefaultRenderState(),
	}
}

// SetCamera copies the camera's view and projection matrices.
func (c *Context) SetCamera(cam Camera) {
	c.View = cam.ViewMatrix()
	c.Projection = cam.ProjectionMatrix()
}

func (c *Context) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return Logger()
}

// Pipeline draws batches of In vertices shaded into V varyings.
type Pipeline[In any, V Varying[V]] struct {
	ctx    *Context
	shader Shader[In, V]
}

// New creates a pipeline drawing through ctx. A nil ctx gets a fresh
// context without a target.
func New[In any, V Varying[V]](ctx *Context) *Pipeline[In, V] {
	if ctx == nil {
		ctx = NewContext(nil)
	}
	return &Pipeline[In, V]{ctx: ctx}
}

// Context returns the context the pipeline draws through.
func (p *Pipeline[In, V]) Context() *Context { return p.ctx }

// SetRenderTarget selects the target for subsequent submits.
func (p *Pipeline[In, V]) SetRenderTarget(rt *render.RenderTexture) { p.ctx.Target = rt }

// RenderTarget returns the current target.
func (p *Pipeline[In, V]) RenderTarget() *render.RenderTexture { return p.ctx.Target }

// SetCamera copies the camera's view and projection matrices.
func (p *Pipeline[In, V]) SetCamera(cam Camera) { p.ctx.SetCamera(cam) }

// SetModel sets the object-to-world transform.
func (p *Pipeline[In, V]) SetModel(m math3d.Mat4) { p.ctx.Model = m }

// SetShader sets the shader used by Submit.
func (p *Pipeline[In, V]) SetShader(s Shader[In, V]) { p.shader = s }

// SetState replaces the render state.
func (p *Pipeline[In, V]) SetState(s RenderState) { p.ctx.State = s }

// State returns the render state.
func (p *Pipeline[In, V]) State() RenderState { return p.ctx.State }

// Stats returns the counters accumulated since the last reset.
func (p *Pipeline[In, V]) Stats() Stats { return p.ctx.Stats }

// ResetStats zeroes the counters.
func (p *Pipeline[In, V]) ResetStats() { p.ctx.Stats = Stats{} }

// Clear resets the target's color to c and its depth to the far value.
func (p *Pipeline[In, V]) Clear(c render.Color) {
	if p.ctx.Target != nil {
		p.ctx.Target.Clear(true, true, c)
	}
}

// Submit draws a batch into the current target. It returns an error for
// misuse (missing target or shader, a bad varying declaration, indices that
// do not fit the topology or vertex buffer) before anything is drawn.
// Geometry that is clipped away, culled or degenerate is skipped and
// counted in Stats.
func (p *Pipeline[In, V]) Submit(b Batch[In]) error {
	ctx := p.ctx
	if ctx.Target == nil || ctx.Target.Color == nil {
		return ErrNoTarget
	}
	if p.shader == nil {
		return ErrNoShader
	}
	arity := b.Topology.arity()
	if arity == 0 {
		return fmt.Errorf("%w: %d", ErrUnknownTopology, int(b.Topology))
	}

	var zero V
	decl := zero.Decl()
	stride := decl.Stride()
	if st, ok := any(zero).(Strider); ok {
		stride = st.Stride()
	}
	if err := decl.Validate(stride); err != nil {
		return fmt.Errorf("submit: %w", err)
	}

	count := len(b.Vertices)
	if b.Indices != nil {
		count = len(b.Indices)
	}
	if count%arity != 0 {
		return fmt.Errorf("%w: %d indices for %s", ErrIndexCount, count, b.Topology)
	}
	for i, idx := range b.Indices {
		if idx < 0 || idx >= len(b.Vertices) {
			return fmt.Errorf("%w: indices[%d] = %d with %d vertices", ErrIndexOutOfRange, i, idx, len(b.Vertices))
		}
	}

	if mr, ok := p.shader.(MatrixReceiver); ok {
		mr.SetMatrices(NewMatrices(ctx.Model, ctx.View, ctx.Projection))
	}

	s := &submission[In, V]{
		shader:  p.shader,
		decl:    decl,
		state:   ctx.State,
		color:   ctx.Target.Color,
		depth:   ctx.Target.Depth,
		scratch: make([]float64, stride),
	}
	s.width, s.height = ctx.Target.Size()
	s.stats.Submits = 1

	// Vertex stage: every vertex is shaded once into a shared slab.
	slab := make([]float64, len(b.Vertices)*stride)
	records := make([]Record, len(b.Vertices))
	for i, v := range b.Vertices {
		data := slab[i*stride : (i+1)*stride : (i+1)*stride]
		p.shader.Vertex(v).Store(data)
		records[i] = Record{Data: data, Decl: decl}
	}
	s.stats.Vertices = len(b.Vertices)

	vertex := func(i int) Record {
		if b.Indices == nil {
			return records[i]
		}
		return records[b.Indices[i]]
	}

	var err error
	for i := 0; i < count && err == nil; i += arity {
		s.stats.Primitives++
		switch b.Topology {
		case Triangles:
			var result coverage
			result, err = s.triangle(Triangle[Record]{vertex(i), vertex(i + 1), vertex(i + 2)})
			s.count(result)
		case Quads:
			q := Quad[Record]{vertex(i), vertex(i + 1), vertex(i + 2), vertex(i + 3)}
			result := clipped
			for _, tri := range q.Triangles() {
				var r coverage
				if r, err = s.triangle(tri); err != nil {
					break
				}
				result = result.merge(r)
			}
			s.count(result)
		case Lines:
			err = s.line(Line[Record]{vertex(i), vertex(i + 1)})
		case Points:
			err = s.point(Point[Record]{vertex(i)})
		}
	}

	ctx.Stats.Add(s.stats)
	ctx.logger().Debug("submit",
		"topology", b.Topology,
		"primitives", s.stats.Primitives,
		"clipped", s.stats.Clipped,
		"culled", s.stats.Culled,
		"degenerate", s.stats.Degenerate,
		"fragments", s.stats.Fragments,
	)
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	return nil
}
