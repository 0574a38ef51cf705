package raster

// coverage is the outcome of rasterizing one triangle.
type coverage int

const (
	covered coverage = iota
	culled
	degenerate
	offscreen
	clipped // nothing survived clipping
)

// merge combines the outcomes of pieces of one source primitive. Any drawn
// piece wins, then culled, then degenerate.
func (c coverage) merge(o coverage) coverage {
	if c.rank() <= o.rank() {
		return c
	}
	return o
}

func (c coverage) rank() int {
	switch c {
	case covered, offscreen:
		return 0
	case culled:
		return 1
	case degenerate:
		return 2
	default:
		return 3
	}
}

// edge is an integer edge function E(p) = (b-a) x (p-a) stepped across the
// bounding box one pixel at a time.
type edge struct {
	row          int // value at the start of the current row
	stepX, stepY int
	bias         int // -1 for edges that do not own their pixels
}

func newEdge(a, b Projection, x, y int) edge {
	dx, dy := b.X-a.X, b.Y-a.Y
	e := edge{
		row:   dx*(y-a.Y) - dy*(x-a.X),
		stepX: -dy,
		stepY: dx,
	}
	if !ownsEdge(dx, dy) {
		e.bias = -1
	}
	return e
}

// ownsEdge is the fill rule for counter-clockwise triangles in raster order
// (y=0 first): pixels exactly on an edge belong to the triangle only when
// the edge lies on its low-y side (a horizontal edge running +x) or its
// low-x side (an edge running towards -y). Two triangles sharing an edge
// therefore never both cover it, and a target-filling quad covers every
// pixel once.
func ownsEdge(dx, dy int) bool {
	return dy < 0 || (dy == 0 && dx > 0)
}

// fragmentFunc receives a covered pixel, its screen-space depth and the
// perspective-correct weights of the triangle's three input vertices.
type fragmentFunc func(x, y int, z float64, w [3]float64)

// rasterizeTriangle enumerates the pixels covered by p inside a
// width x height target. Barycentric weights come from the edge functions;
// depth is interpolated linearly in screen space and the weights handed to
// emit are divided by w per vertex and renormalized.
func rasterizeTriangle(p [3]Projection, width, height int, cull CullMode, emit fragmentFunc) coverage {
	area := Orient2D(p[0], p[1], p[2])
	if area == 0 {
		return degenerate
	}
	if cull.culls(area) {
		return culled
	}

	// Walk every triangle counter-clockwise and remember where each vertex
	// came from so the weights line up with the caller's order.
	order := [3]int{0, 1, 2}
	if area < 0 {
		order = [3]int{0, 2, 1}
		area = -area
	}
	a, b, c := p[order[0]], p[order[1]], p[order[2]]

	minX := max(min(a.X, b.X, c.X), 0)
	maxX := min(max(a.X, b.X, c.X), width-1)
	minY := max(min(a.Y, b.Y, c.Y), 0)
	maxY := min(max(a.Y, b.Y, c.Y), height-1)
	if minX > maxX || minY > maxY {
		return offscreen
	}

	// e0 is opposite a and weights a, and so on.
	e0 := newEdge(b, c, minX, minY)
	e1 := newEdge(c, a, minX, minY)
	e2 := newEdge(a, b, minX, minY)

	invArea := 1 / float64(area)
	invW := [3]float64{a.InvW, b.InvW, c.InvW}
	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := e0.row, e1.row, e2.row
		for x := minX; x <= maxX; x++ {
			if w0+e0.bias >= 0 && w1+e1.bias >= 0 && w2+e2.bias >= 0 {
				l := [3]float64{float64(w0) * invArea, float64(w1) * invArea, float64(w2) * invArea}
				z := l[0]*a.Z + l[1]*b.Z + l[2]*c.Z
				q := perspectiveWeights(l, invW)
				var pw [3]float64
				pw[order[0]], pw[order[1]], pw[order[2]] = q[0], q[1], q[2]
				emit(x, y, z, pw)
			}
			w0 += e0.stepX
			w1 += e1.stepX
			w2 += e2.stepX
		}
		e0.row += e0.stepY
		e1.row += e1.stepY
		e2.row += e2.stepY
	}
	return covered
}

// perspectiveWeights divides screen-space weights by w per vertex and
// renormalizes them.
func perspectiveWeights(l [3]float64, invW [3]float64) [3]float64 {
	q := [3]float64{l[0] * invW[0], l[1] * invW[1], l[2] * invW[2]}
	s := 1 / (q[0] + q[1] + q[2])
	return [3]float64{q[0] * s, q[1] * s, q[2] * s}
}
