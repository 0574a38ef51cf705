package raster

import (
	"iter"

	"github.com/taigrr/softrender/pkg/math3d"
)

// Clippable is a vertex that carries a clip-space position and can be
// interpolated as a whole.
type Clippable[T any] interface {
	ClipPosition() math3d.Vec4
	Lerp(to T, t float64) T
}

// wEpsilon is the smallest w a clipped vertex may keep.
const wEpsilon = 1e-6

type clipPlane uint

const (
	planeNear clipPlane = iota
	planeFar
	planeLeft
	planeRight
	planeTop
	planeBottom
	planeW
	numClipPlanes
)

// distance is positive inside the plane and negative outside.
func (p clipPlane) distance(v math3d.Vec4) float64 {
	switch p {
	case planeNear:
		return v.Z + v.W
	case planeFar:
		return v.W - v.Z
	case planeLeft:
		return v.X + v.W
	case planeRight:
		return v.W - v.X
	case planeTop:
		return v.W - v.Y
	case planeBottom:
		return v.Y + v.W
	default:
		return v.W - wEpsilon
	}
}

// outcode sets one bit per plane the position lies outside of.
func outcode(v math3d.Vec4) uint8 {
	var code uint8
	for p := range numClipPlanes {
		if p.distance(v) < 0 {
			code |= 1 << p
		}
	}
	return code
}

// InsideFrustum reports whether a clip-space position satisfies
// -w <= x,y,z <= w with w > 0.
func InsideFrustum(v math3d.Vec4) bool {
	return outcode(v) == 0
}

// ClipTriangle clips tri against the view frustum, testing the near, far,
// left, right, top and bottom planes in that order and finally w > 0. A
// triangle already inside is yielded unchanged; one wholly outside a single
// plane yields nothing. Otherwise the clipped polygon is fanned into
// triangles around its first vertex.
func ClipTriangle[T Clippable[T]](tri Triangle[T]) iter.Seq[Triangle[T]] {
	return func(yield func(Triangle[T]) bool) {
		c0 := outcode(tri[0].ClipPosition())
		c1 := outcode(tri[1].ClipPosition())
		c2 := outcode(tri[2].ClipPosition())
		if c0|c1|c2 == 0 {
			yield(tri)
			return
		}
		if c0&c1&c2 != 0 {
			return
		}

		poly := tri[:]
		mask := c0 | c1 | c2
		for p := range numClipPlanes {
			if mask&(1<<p) == 0 {
				continue
			}
			poly = clipPolygon(poly, p)
			if len(poly) < 3 {
				return
			}
		}
		for i := 1; i+1 < len(poly); i++ {
			if !yield(Triangle[T]{poly[0], poly[i], poly[i+1]}) {
				return
			}
		}
	}
}

// clipPolygon is one Sutherland-Hodgman pass against a single plane.
func clipPolygon[T Clippable[T]](poly []T, p clipPlane) []T {
	out := make([]T, 0, len(poly)+1)
	prev := poly[len(poly)-1]
	dPrev := p.distance(prev.ClipPosition())
	for _, cur := range poly {
		dCur := p.distance(cur.ClipPosition())
		switch {
		case dCur >= 0:
			if dPrev < 0 && dCur > 0 {
				out = append(out, prev.Lerp(cur, dPrev/(dPrev-dCur)))
			}
			out = append(out, cur)
		case dPrev > 0:
			out = append(out, prev.Lerp(cur, dPrev/(dPrev-dCur)))
		}
		prev, dPrev = cur, dCur
	}
	return out
}

// ClipLine clips l against the same planes as ClipTriangle and yields the
// surviving segment, if any.
func ClipLine[T Clippable[T]](l Line[T]) iter.Seq[Line[T]] {
	return func(yield func(Line[T]) bool) {
		c0 := outcode(l[0].ClipPosition())
		c1 := outcode(l[1].ClipPosition())
		if c0|c1 == 0 {
			yield(l)
			return
		}
		if c0&c1 != 0 {
			return
		}

		a, b := l[0], l[1]
		mask := c0 | c1
		for p := range numClipPlanes {
			if mask&(1<<p) == 0 {
				continue
			}
			da := p.distance(a.ClipPosition())
			db := p.distance(b.ClipPosition())
			switch {
			case da < 0 && db < 0:
				return
			case da < 0:
				a = a.Lerp(b, da/(da-db))
			case db < 0:
				b = b.Lerp(a, db/(db-da))
			}
		}
		yield(Line[T]{a, b})
	}
}

// ClipPoint yields p when its position lies inside the frustum.
func ClipPoint[T Clippable[T]](p Point[T]) iter.Seq[Point[T]] {
	return func(yield func(Point[T]) bool) {
		if InsideFrustum(p[0].ClipPosition()) {
			yield(p)
		}
	}
}
