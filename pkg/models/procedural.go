package models

import (
	"math"

	"github.com/taigrr/softrender/pkg/math3d"
)

// NewPlane returns a 2x2 quad in the XY plane facing +Z, indexed
// 0,1,2 and 2,3,0.
func NewPlane() *Mesh {
	m := NewMesh("plane")
	n := math3d.V3(0, 0, 1)
	m.Vertices = []MeshVertex{
		{Position: math3d.V3(-1, -1, 0), Normal: n, UV: math3d.V2(0, 0)},
		{Position: math3d.V3(1, -1, 0), Normal: n, UV: math3d.V2(1, 0)},
		{Position: math3d.V3(1, 1, 0), Normal: n, UV: math3d.V2(1, 1)},
		{Position: math3d.V3(-1, 1, 0), Normal: n, UV: math3d.V2(0, 1)},
	}
	m.AddFace(0, 1, 2)
	m.AddFace(2, 3, 0)
	m.CalculateBounds()
	return m
}

// NewGround returns NewPlane laid flat facing +Y and scaled to size.
func NewGround(size float64) *Mesh {
	m := NewPlane()
	m.Name = "ground"
	m.Transform(math3d.ScaleUniform(size / 2).Mul(math3d.RotateX(-math.Pi / 2)))
	return m
}

// cubeFaces lists each face as normal, then the in-plane u and v axes,
// chosen so u x v = normal and the face winds counter-clockwise from
// outside.
var cubeFaces = [6][3]math3d.Vec3{
	{{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
	{{X: 0, Y: 0, Z: -1}, {X: -1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
	{{X: 1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: -1}, {X: 0, Y: 1, Z: 0}},
	{{X: -1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1}, {X: 0, Y: 1, Z: 0}},
	{{X: 0, Y: 1, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: -1}},
	{{X: 0, Y: -1, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 0, Z: 1}},
}

// NewCube returns a cube spanning [-1,1] on every axis with 4 vertices per
// face, so normals and UVs stay flat per face.
func NewCube() *Mesh {
	m := NewMesh("cube")
	corners := [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
	for _, f := range cubeFaces {
		n, u, v := f[0], f[1], f[2]
		base := len(m.Vertices)
		for _, c := range corners {
			m.AddVertex(MeshVertex{
				Position: n.Add(u.Scale(c[0])).Add(v.Scale(c[1])),
				Normal:   n,
				UV:       math3d.V2((c[0]+1)/2, (c[1]+1)/2),
			})
		}
		m.AddFace(base, base+1, base+2)
		m.AddFace(base+2, base+3, base)
	}
	m.CalculateBounds()
	return m
}

// NewSphere returns a UV sphere of radius 1. segments counts longitude
// steps and rings latitude steps; both are raised to sane minimums.
func NewSphere(segments, rings int) *Mesh {
	segments = max(segments, 3)
	rings = max(rings, 2)
	m := NewMesh("sphere")
	for r := 0; r <= rings; r++ {
		v := float64(r) / float64(rings)
		theta := v * math.Pi
		sinT, cosT := math.Sincos(theta)
		for s := 0; s <= segments; s++ {
			u := float64(s) / float64(segments)
			sinP, cosP := math.Sincos(u * 2 * math.Pi)
			n := math3d.V3(sinT*sinP, cosT, sinT*cosP)
			m.AddVertex(MeshVertex{Position: n, Normal: n, UV: math3d.V2(u, 1-v)})
		}
	}
	stride := segments + 1
	for r := range rings {
		for s := range segments {
			a := r*stride + s
			b := a + stride
			if r != 0 {
				m.AddFace(a, b, a+1)
			}
			if r != rings-1 {
				m.AddFace(a+1, b, b+1)
			}
		}
	}
	m.CalculateBounds()
	return m
}
