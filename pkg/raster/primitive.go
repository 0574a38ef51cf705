package raster

import "fmt"

// Point is a single-vertex primitive.
type Point[T any] [1]T

// Line is a two-vertex primitive.
type Line[T any] [2]T

// Triangle is a three-vertex primitive.
type Triangle[T any] [3]T

// Quad is a four-vertex primitive, split into triangles before rasterizing.
type Quad[T any] [4]T

func at[T any](vs []T, i int) (T, error) {
	if i < 0 || i >= len(vs) {
		var zero T
		return zero, fmt.Errorf("%w: %d of %d", ErrVertexIndex, i, len(vs))
	}
	return vs[i], nil
}

// At returns vertex i.
func (p Point[T]) At(i int) (T, error) { return at(p[:], i) }

// At returns vertex i.
func (l Line[T]) At(i int) (T, error) { return at(l[:], i) }

// At returns vertex i.
func (t Triangle[T]) At(i int) (T, error) { return at(t[:], i) }

// At returns vertex i.
func (q Quad[T]) At(i int) (T, error) { return at(q[:], i) }

// Triangles splits the quad along its 0-2 diagonal, keeping the winding.
func (q Quad[T]) Triangles() [2]Triangle[T] {
	return [2]Triangle[T]{
		{q[0], q[1], q[2]},
		{q[2], q[3], q[0]},
	}
}
