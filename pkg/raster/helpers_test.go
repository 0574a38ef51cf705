package raster

import (
	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/render"
)

// cv is a minimal clippable vertex carrying one scalar attribute.
type cv struct {
	pos math3d.Vec4
	u   float64
}

func (v cv) ClipPosition() math3d.Vec4 { return v.pos }

func (v cv) Lerp(to cv, t float64) cv {
	return cv{pos: v.pos.Lerp(to.pos, t), u: v.u + (to.u-v.u)*t}
}

type testVertex struct {
	pos math3d.Vec4
	u   float64
}

type testVarying struct {
	Pos math3d.Vec4
	U   float64
}

var testDecl = Decl{
	{Offset: 0, Usage: UsagePosition, Format: Vec4},
	{Offset: 4, Usage: UsageCustom, Format: Float},
}

func (testVarying) Decl() Decl { return testDecl }

func (v testVarying) Store(dst []float64) {
	v.Pos.Slice(dst)
	dst[4] = v.U
}

func (testVarying) Load(src []float64) testVarying {
	return testVarying{Pos: math3d.V4FromSlice(src), U: src[4]}
}

// recordShader passes positions through and remembers every fragment.
type recordShader struct {
	color    render.Color
	frags    map[[2]int]float64
	count    int
	matrices Matrices
	useMVP   bool
}

func newRecordShader(c render.Color) *recordShader {
	return &recordShader{color: c, frags: make(map[[2]int]float64)}
}

func (s *recordShader) SetMatrices(m Matrices) { s.matrices = m }

func (s *recordShader) Vertex(in testVertex) testVarying {
	pos := in.pos
	if s.useMVP {
		pos = s.matrices.MVP.MulVec4(pos)
	}
	return testVarying{Pos: pos, U: in.u}
}

func (s *recordShader) Fragment(v testVarying) render.Color {
	s.frags[[2]int{int(v.Pos.X), int(v.Pos.Y)}] = v.U
	s.count++
	return s.color
}

func newTestPipeline(w, h int) (*Pipeline[testVertex, testVarying], *recordShader, *render.RenderTexture) {
	rt := render.NewRenderTexture(w, h, true)
	p := New[testVertex, testVarying](NewContext(rt))
	s := newRecordShader(render.ColorWhite)
	p.SetShader(s)
	return p, s, rt
}

func tv(x, y, z, w, u float64) testVertex {
	return testVertex{pos: math3d.V4(x, y, z, w), u: u}
}

// fullScreenQuad covers clip space at depth z, wound counter-clockwise.
func fullScreenQuad(z float64) Batch[testVertex] {
	return Batch[testVertex]{
		Vertices: []testVertex{
			tv(-1, -1, z, 1, 0),
			tv(1, -1, z, 1, 0),
			tv(1, 1, z, 1, 0),
			tv(-1, 1, z, 1, 0),
		},
		Topology: Quads,
	}
}
