package scene

import (
	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/raster"
	"github.com/taigrr/softrender/pkg/render"
	"github.com/taigrr/softrender/pkg/shaders"
)

// GizmoVertex is one end of a debug line.
type GizmoVertex struct {
	Pos   math3d.Vec3
	Color render.Color
}

// Gizmos collects world-space debug lines drawn on top of the scene. The
// lines go through the full pipeline, so they are clipped and depth
// tested against the shaded geometry.
type Gizmos struct {
	verts []GizmoVertex
}

// Reset drops all queued lines.
func (g *Gizmos) Reset() { g.verts = g.verts[:0] }

// Len returns the number of queued lines.
func (g *Gizmos) Len() int { return len(g.verts) / 2 }

// Line queues a segment.
func (g *Gizmos) Line(a, b math3d.Vec3, c render.Color) {
	g.verts = append(g.verts, GizmoVertex{a, c}, GizmoVertex{b, c})
}

var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7},
	{0, 2}, {1, 3}, {4, 6}, {5, 7},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// Box queues the twelve edges of b.
func (g *Gizmos) Box(b render.AABB, c render.Color) {
	if b.IsEmpty() {
		return
	}
	corners := b.Corners()
	for _, e := range boxEdges {
		g.Line(corners[e[0]], corners[e[1]], c)
	}
}

// Axes queues the X, Y and Z axes at the origin in red, green and blue.
func (g *Gizmos) Axes(length float64) {
	origin := math3d.Zero3()
	g.Line(origin, math3d.V3(length, 0, 0), render.ColorRed)
	g.Line(origin, math3d.V3(0, length, 0), render.ColorGreen)
	g.Line(origin, math3d.V3(0, 0, length), render.ColorBlue)
}

// Grid queues a square grid on the XZ plane at y=0.
func (g *Gizmos) Grid(size, step float64, c render.Color) {
	if step <= 0 {
		return
	}
	half := size / 2
	n := int(size / step)
	for i := 0; i <= n; i++ {
		v := -half + float64(i)*step
		g.Line(math3d.V3(v, 0, -half), math3d.V3(v, 0, half), c)
		g.Line(math3d.V3(-half, 0, v), math3d.V3(half, 0, v), c)
	}
}

// Point queues a small three-axis cross.
func (g *Gizmos) Point(pos math3d.Vec3, size float64, c render.Color) {
	h := size / 2
	g.Line(pos.Add(math3d.V3(-h, 0, 0)), pos.Add(math3d.V3(h, 0, 0)), c)
	g.Line(pos.Add(math3d.V3(0, -h, 0)), pos.Add(math3d.V3(0, h, 0)), c)
	g.Line(pos.Add(math3d.V3(0, 0, -h)), pos.Add(math3d.V3(0, 0, h)), c)
}

// Frustum queues the edges of the volume whose inverse view-projection is
// invViewProj.
func (g *Gizmos) Frustum(invViewProj math3d.Mat4, c render.Color) {
	corners := render.FrustumCorners(invViewProj)
	for _, e := range boxEdges {
		g.Line(corners[e[0]], corners[e[1]], c)
	}
}

func (g *Gizmos) batch() raster.Batch[GizmoVertex] {
	return raster.Batch[GizmoVertex]{Vertices: g.verts, Topology: raster.Lines}
}

// gizmoShader passes per-vertex colors through.
type gizmoShader struct {
	m raster.Matrices
}

func (s *gizmoShader) SetMatrices(m raster.Matrices) { s.m = m }

func (s *gizmoShader) Vertex(in GizmoVertex) shaders.Colored {
	return shaders.Colored{Pos: s.m.MVP.MulPoint(in.Pos), Color: in.Color}
}

func (s *gizmoShader) Fragment(v shaders.Colored) render.Color { return v.Color }
