package raster

import "github.com/taigrr/softrender/pkg/render"

// submission carries the per-submit state shared by the primitive stages.
type submission[In any, V Varying[V]] struct {
	shader        Shader[In, V]
	decl          Decl
	state         RenderState
	color         *render.Framebuffer
	depth         *render.DepthBuffer
	width, height int
	scratch       []float64
	stats         Stats
}

// triangle clips, rasterizes and shades tri, reporting the combined
// outcome of its clipped pieces. Counting is left to the caller so a source
// primitive is counted once however many pieces it clips into.
func (s *submission[In, V]) triangle(tri Triangle[Record]) (coverage, error) {
	result := clipped
	for piece := range ClipTriangle(tri) {
		var proj [3]Projection
		for i, r := range piece {
			pr, err := Project(r.ClipPosition(), s.width, s.height)
			if err != nil {
				return result, err
			}
			proj[i] = pr
		}
		a, b, c := piece[0].Data, piece[1].Data, piece[2].Data
		result = result.merge(rasterizeTriangle(proj, s.width, s.height, s.state.Cull, func(x, y int, z float64, w [3]float64) {
			s.decl.Barycentric(s.scratch, a, b, c, w[0], w[1], w[2])
			s.fragment(x, y, z, 1)
		}))
	}
	return result, nil
}

// count records the outcome of one source primitive.
func (s *submission[In, V]) count(result coverage) {
	switch result {
	case culled:
		s.stats.Culled++
	case degenerate:
		s.stats.Degenerate++
	case clipped:
		s.stats.Clipped++
	}
}

func (s *submission[In, V]) line(l Line[Record]) error {
	emitted := false
	for seg := range ClipLine(l) {
		emitted = true
		pa, err := Project(seg[0].ClipPosition(), s.width, s.height)
		if err != nil {
			return err
		}
		pb, err := Project(seg[1].ClipPosition(), s.width, s.height)
		if err != nil {
			return err
		}
		if pa.X == pb.X && pa.Y == pb.Y {
			s.stats.Degenerate++
			continue
		}

		a, b := seg[0].Data, seg[1].Data
		plot := func(x, y int, t, coverage float64) {
			if !s.color.InBounds(x, y) {
				return
			}
			// Screen-space t to perspective-correct t.
			q0, q1 := (1-t)*pa.InvW, t*pb.InvW
			s.decl.Lerp(s.scratch, a, b, q1/(q0+q1))
			s.fragment(x, y, pa.Z+(pb.Z-pa.Z)*t, coverage)
		}

		if s.state.SmoothLines {
			x0, y0, _ := windowXY(seg[0].ClipPosition(), s.width, s.height)
			x1, y1, _ := windowXY(seg[1].ClipPosition(), s.width, s.height)
			render.SmoothLine(x0, y0, x1, y1, plot)
		} else {
			render.Line(pa.X, pa.Y, pb.X, pb.Y, func(x, y int, t float64) {
				plot(x, y, t, 1)
			})
		}
	}
	if !emitted {
		s.stats.Clipped++
	}
	return nil
}

func (s *submission[In, V]) point(p Point[Record]) error {
	emitted := false
	for pt := range ClipPoint(p) {
		emitted = true
		pr, err := Project(pt[0].ClipPosition(), s.width, s.height)
		if err != nil {
			return err
		}
		if !s.color.InBounds(pr.X, pr.Y) {
			continue
		}
		copy(s.scratch, pt[0].Data)
		s.fragment(pr.X, pr.Y, pr.Z, 1)
	}
	if !emitted {
		s.stats.Clipped++
	}
	return nil
}

// fragment depth-tests, shades and writes one pixel whose interpolated
// record sits in s.scratch. coverage below 1 scales alpha and forces
// blending.
func (s *submission[In, V]) fragment(x, y int, z, coverage float64) {
	if s.depth != nil && s.state.DepthTest && z >= s.depth.At(x, y) {
		s.stats.DepthRejected++
		return
	}

	s.scratch[0], s.scratch[1], s.scratch[2] = float64(x), float64(y), z
	s.scratch[3] = 1 / s.scratch[3]
	var zero V
	c := s.shader.Fragment(zero.Load(s.scratch))
	s.stats.Fragments++

	if s.depth != nil && s.state.DepthWrite {
		s.depth.Set(x, y, z)
	}
	if s.state.DepthOnly {
		return
	}
	if coverage < 1 || s.state.Blend {
		c.A *= coverage
		s.color.BlendPixel(x, y, c)
		return
	}
	s.color.SetPixel(x, y, c.Clamp())
}
