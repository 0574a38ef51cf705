package math3d

import "math"

// Mat4 is a 4x4 matrix stored in column-major order: element (row, col)
// lives at index row+col*4, so indices 12..14 hold the translation.
//
//	| 0  4  8  12 |
//	| 1  5  9  13 |
//	| 2  6  10 14 |
//	| 3  7  11 15 |
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// FromCols builds a matrix from four column vectors.
func FromCols(c0, c1, c2, c3 Vec4) Mat4 {
	return Mat4{
		c0.X, c0.Y, c0.Z, c0.W,
		c1.X, c1.Y, c1.Z, c1.W,
		c2.X, c2.Y, c2.Z, c2.W,
		c3.X, c3.Y, c3.Z, c3.W,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m.SetTranslation(v)
	return m
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// ScaleUniform creates a uniform scaling matrix.
func ScaleUniform(s float64) Mat4 {
	return Scale(Splat3(s))
}

// RotateX rotates around the X axis by angle radians.
func RotateX(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY rotates around the Y axis by angle radians.
func RotateY(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ rotates around the Z axis by angle radians.
func RotateZ(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Rotate rotates around an arbitrary axis by angle radians.
func Rotate(axis Vec3, angle float64) Mat4 {
	return QuatFromAxisAngle(axis, angle).Mat4()
}

// LookAt creates a right-handed view matrix looking from eye towards center.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)

	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// Perspective creates a perspective projection. fovy is the vertical field
// of view in radians and aspect is width/height. Points on the near plane
// map to z = -w and points on the far plane to z = w.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovy/2)
	nf := 1 / (near - far)

	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) * nf
	m[11] = -1
	m[14] = 2 * far * near * nf
	return m
}

// Orthographic creates an orthographic projection of the given view box.
func Orthographic(left, right, bottom, top, near, far float64) Mat4 {
	rl := 1 / (right - left)
	tb := 1 / (top - bottom)
	fn := 1 / (far - near)

	m := Identity()
	m[0] = 2 * rl
	m[5] = 2 * tb
	m[10] = -2 * fn
	m[12] = -(right + left) * rl
	m[13] = -(top + bottom) * tb
	m[14] = -(far + near) * fn
	return m
}

// Mul returns a * b, the transform that applies b first.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			m[row+col*4] = a[row]*b[col*4] +
				a[row+4]*b[1+col*4] +
				a[row+8]*b[2+col*4] +
				a[row+12]*b[3+col*4]
		}
	}
	return m
}

// MulPoint transforms v as a point (w=1) without dividing, which is what a
// vertex shader produces for clip space.
func (m Mat4) MulPoint(v Vec3) Vec4 {
	return m.MulVec4(V4FromV3(v, 1))
}

// MulVec3 transforms v as a point and applies the perspective divide.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulPoint(v).PerspectiveDivide()
}

// MulVec3Dir transforms v as a direction (w=0).
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z,
	}
}

// MulVec4 transforms a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	var t Mat4
	for row := range 4 {
		for col := range 4 {
			t[col+row*4] = m[row+col*4]
		}
	}
	return t
}

// minors holds the 2x2 sub-determinants of the top two rows (s) and the
// bottom two rows (c), shared by Determinant and Inverse.
type minors struct {
	s [6]float64
	c [6]float64
}

func (m Mat4) minors() minors {
	a := func(r, c int) float64 { return m[r+c*4] }
	return minors{
		s: [6]float64{
			a(0, 0)*a(1, 1) - a(1, 0)*a(0, 1),
			a(0, 0)*a(1, 2) - a(1, 0)*a(0, 2),
			a(0, 0)*a(1, 3) - a(1, 0)*a(0, 3),
			a(0, 1)*a(1, 2) - a(1, 1)*a(0, 2),
			a(0, 1)*a(1, 3) - a(1, 1)*a(0, 3),
			a(0, 2)*a(1, 3) - a(1, 2)*a(0, 3),
		},
		c: [6]float64{
			a(2, 0)*a(3, 1) - a(3, 0)*a(2, 1),
			a(2, 0)*a(3, 2) - a(3, 0)*a(2, 2),
			a(2, 0)*a(3, 3) - a(3, 0)*a(2, 3),
			a(2, 1)*a(3, 2) - a(3, 1)*a(2, 2),
			a(2, 1)*a(3, 3) - a(3, 1)*a(2, 3),
			a(2, 2)*a(3, 3) - a(3, 2)*a(2, 3),
		},
	}
}

func (n minors) det() float64 {
	s, c := n.s, n.c
	return s[0]*c[5] - s[1]*c[4] + s[2]*c[3] + s[3]*c[2] - s[4]*c[1] + s[5]*c[0]
}

// Determinant returns the determinant of the matrix.
func (m Mat4) Determinant() float64 {
	return m.minors().det()
}

// Inverse returns the inverse of the matrix, or the identity if the matrix
// is singular.
func (m Mat4) Inverse() Mat4 {
	inv, ok := m.TryInverse()
	if !ok {
		return Identity()
	}
	return inv
}

// TryInverse returns the inverse and false when the matrix is singular.
func (m Mat4) TryInverse() (Mat4, bool) {
	n := m.minors()
	det := n.det()
	if det == 0 {
		return Mat4{}, false
	}
	d := 1 / det
	s, c := n.s, n.c
	a := func(r, c int) float64 { return m[r+c*4] }

	var inv Mat4
	set := func(r, col int, v float64) { inv[r+col*4] = v * d }

	set(0, 0, a(1, 1)*c[5]-a(1, 2)*c[4]+a(1, 3)*c[3])
	set(0, 1, -a(0, 1)*c[5]+a(0, 2)*c[4]-a(0, 3)*c[3])
	set(0, 2, a(3, 1)*s[5]-a(3, 2)*s[4]+a(3, 3)*s[3])
	set(0, 3, -a(2, 1)*s[5]+a(2, 2)*s[4]-a(2, 3)*s[3])

	set(1, 0, -a(1, 0)*c[5]+a(1, 2)*c[2]-a(1, 3)*c[1])
	set(1, 1, a(0, 0)*c[5]-a(0, 2)*c[2]+a(0, 3)*c[1])
	set(1, 2, -a(3, 0)*s[5]+a(3, 2)*s[2]-a(3, 3)*s[1])
	set(1, 3, a(2, 0)*s[5]-a(2, 2)*s[2]+a(2, 3)*s[1])

	set(2, 0, a(1, 0)*c[4]-a(1, 1)*c[2]+a(1, 3)*c[0])
	set(2, 1, -a(0, 0)*c[4]+a(0, 1)*c[2]-a(0, 3)*c[0])
	set(2, 2, a(3, 0)*s[4]-a(3, 1)*s[2]+a(3, 3)*s[0])
	set(2, 3, -a(2, 0)*s[4]+a(2, 1)*s[2]-a(2, 3)*s[0])

	set(3, 0, -a(1, 0)*c[3]+a(1, 1)*c[1]-a(1, 2)*c[0])
	set(3, 1, a(0, 0)*c[3]-a(0, 1)*c[1]+a(0, 2)*c[0])
	set(3, 2, -a(3, 0)*s[3]+a(3, 1)*s[1]-a(3, 2)*s[0])
	set(3, 3, a(2, 0)*s[3]-a(2, 1)*s[1]+a(2, 2)*s[0])

	return inv, true
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+col*4]
}

// Set sets the element at (row, col).
func (m *Mat4) Set(row, col int, val float64) {
	m[row+col*4] = val
}

// Col returns column i.
func (m Mat4) Col(i int) Vec4 {
	return Vec4{m[i*4], m[i*4+1], m[i*4+2], m[i*4+3]}
}

// Row returns row i.
func (m Mat4) Row(i int) Vec4 {
	return Vec4{m[i], m[i+4], m[i+8], m[i+12]}
}

// Translation extracts the translation component.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// SetTranslation sets the translation component.
func (m *Mat4) SetTranslation(v Vec3) {
	m[12], m[13], m[14] = v.X, v.Y, v.Z
}

// ApproxEqual reports whether every element differs by at most eps.
func (m Mat4) ApproxEqual(o Mat4, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-o[i]) > eps {
			return false
		}
	}
	return true
}
