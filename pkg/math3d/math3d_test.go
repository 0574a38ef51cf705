package math3d

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestMat4Inverse(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
	}{
		{"identity", Identity()},
		{"translate", Translate(V3(1, -2, 3))},
		{"trs", Translate(V3(1, 2, 3)).Mul(RotateY(0.7)).Mul(Scale(V3(2, 3, 4)))},
		{"perspective", Perspective(math.Pi/3, 4.0/3.0, 0.3, 20)},
		{"view-projection", Perspective(math.Pi/3, 1, 0.1, 50).Mul(LookAt(V3(3, 4, 5), Zero3(), Up()))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok := tt.m.TryInverse()
			if !ok {
				t.Fatal("expected invertible matrix")
			}
			if got := tt.m.Mul(inv); !got.ApproxEqual(Identity(), 1e-9) {
				t.Errorf("m * inverse = %v, want identity", got)
			}
			if got := inv.Mul(tt.m); !got.ApproxEqual(Identity(), 1e-9) {
				t.Errorf("inverse * m = %v, want identity", got)
			}
		})
	}
}

func TestMat4InverseSingular(t *testing.T) {
	m := Scale(V3(1, 0, 1))
	if _, ok := m.TryInverse(); ok {
		t.Error("singular matrix reported invertible")
	}
	if m.Inverse() != Identity() {
		t.Error("Inverse of singular matrix should fall back to identity")
	}
}

func TestMat4Determinant(t *testing.T) {
	m := Scale(V3(2, 3, 4))
	if got := m.Determinant(); math.Abs(got-24) > eps {
		t.Errorf("Determinant = %v, want 24", got)
	}
	if got := RotateZ(1.1).Determinant(); math.Abs(got-1) > eps {
		t.Errorf("rotation determinant = %v, want 1", got)
	}
}

func TestPerspectiveDepthRange(t *testing.T) {
	near, far := 0.5, 10.0
	p := Perspective(math.Pi/2, 1, near, far)

	n := p.MulPoint(V3(0, 0, -near))
	if math.Abs(n.Z/n.W+1) > eps {
		t.Errorf("near plane maps to z/w = %v, want -1", n.Z/n.W)
	}
	f := p.MulPoint(V3(0, 0, -far))
	if math.Abs(f.Z/f.W-1) > eps {
		t.Errorf("far plane maps to z/w = %v, want 1", f.Z/f.W)
	}
	if n.W <= 0 || f.W <= 0 {
		t.Error("points in front of the camera must have positive w")
	}
}

func TestOrthographicCorners(t *testing.T) {
	o := Orthographic(-2, 2, -1, 1, 1, 5)
	got := o.MulVec3(V3(2, 1, -5))
	if !got.ApproxEqual(V3(1, 1, 1), eps) {
		t.Errorf("corner maps to %v, want (1,1,1)", got)
	}
	got = o.MulVec3(V3(-2, -1, -1))
	if !got.ApproxEqual(V3(-1, -1, -1), eps) {
		t.Errorf("corner maps to %v, want (-1,-1,-1)", got)
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := V3(3, 2, 7)
	v := LookAt(eye, V3(0, 1, 0), Up())
	if got := v.MulVec3(eye); !got.ApproxEqual(Zero3(), eps) {
		t.Errorf("eye in view space = %v, want origin", got)
	}
	target := v.MulVec3(V3(0, 1, 0))
	if target.Z >= 0 {
		t.Errorf("target should be in front (negative z), got %v", target)
	}
}

func TestQuatMatchesMatrixRotation(t *testing.T) {
	tests := []struct {
		name string
		q    Quat
		m    Mat4
	}{
		{"x", QuatFromAxisAngle(Right(), 0.4), RotateX(0.4)},
		{"y", QuatFromAxisAngle(Up(), -1.2), RotateY(-1.2)},
		{"z", QuatFromAxisAngle(V3(0, 0, 1), 2.5), RotateZ(2.5)},
	}

	v := V3(0.3, -1.7, 2.2)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.q.Mat4().ApproxEqual(tt.m, 1e-12) {
				t.Errorf("Mat4() = %v, want %v", tt.q.Mat4(), tt.m)
			}
			if got, want := tt.q.Rotate(v), tt.m.MulVec3Dir(v); !got.ApproxEqual(want, 1e-12) {
				t.Errorf("Rotate = %v, want %v", got, want)
			}
		})
	}
}

func TestQuatFromEulerOrder(t *testing.T) {
	pitch, yaw, roll := 0.3, 0.9, -0.4
	q := QuatFromEuler(pitch, yaw, roll)
	want := RotateY(yaw).Mul(RotateX(pitch)).Mul(RotateZ(roll))
	if !q.Mat4().ApproxEqual(want, 1e-12) {
		t.Errorf("QuatFromEuler matrix = %v, want %v", q.Mat4(), want)
	}
}

func TestQuatSlerpEndpoints(t *testing.T) {
	a := QuatFromAxisAngle(Up(), 0)
	b := QuatFromAxisAngle(Up(), math.Pi/2)

	mid := a.Slerp(b, 0.5)
	want := QuatFromAxisAngle(Up(), math.Pi/4)
	if math.Abs(mid.Dot(want)-1) > 1e-12 {
		t.Errorf("Slerp(0.5) = %v, want %v", mid, want)
	}
	if got := a.Slerp(b, 1); math.Abs(math.Abs(got.Dot(b))-1) > 1e-12 {
		t.Errorf("Slerp(1) = %v, want %v", got, b)
	}
}

func TestTransformMatrix(t *testing.T) {
	tr := NewTransform()
	tr.Position = V3(1, 2, 3)
	tr.Rotation = QuatFromAxisAngle(Up(), math.Pi/2)
	tr.Scale = V3(2, 2, 2)

	got := tr.Matrix().MulVec3(V3(1, 0, 0))
	want := V3(1, 2, 1)
	if !got.ApproxEqual(want, 1e-12) {
		t.Errorf("Matrix() * (1,0,0) = %v, want %v", got, want)
	}
}

func TestVec2(t *testing.T) {
	a, b := V2(3, 4), V2(1, -2)
	if a.Len() != 5 {
		t.Errorf("Len = %v, want 5", a.Len())
	}
	if got := a.Cross(b); got != -10 {
		t.Errorf("Cross = %v, want -10", got)
	}
	if got := a.Lerp(b, 0.5); got != V2(2, 1) {
		t.Errorf("Lerp = %v, want (2,1)", got)
	}
}
