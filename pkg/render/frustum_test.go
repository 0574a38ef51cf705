package render

import (
	"math"
	"testing"

	"github.com/taigrr/softrender/pkg/math3d"
)

const eps = 1e-9

// lookCamera returns a 90° square perspective camera at eye facing target.
func lookCamera(eye, target math3d.Vec3) *Camera {
	c := NewCamera()
	c.SetPerspective(math.Pi/2, 1, 1, 10)
	c.SetPosition(eye)
	c.LookAt(target)
	return c
}

func TestPlane(t *testing.T) {
	p := Plane{Normal: math3d.V3(0, 3, 4), D: 10}
	p.Normalize()
	if math.Abs(p.Normal.Len()-1) > eps || math.Abs(p.D-2) > eps {
		t.Fatalf("normalized plane = %+v, want unit normal and D=2", p)
	}

	cases := []struct {
		name string
		p    math3d.Vec3
		want float64
	}{
		{"on plane", math3d.V3(5, 0, -2.5), 0},
		{"normal side", math3d.V3(7, 0, 0), 2},
		{"far side", math3d.V3(0, -6, -4), -4.8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.DistanceToPoint(tc.p); math.Abs(got-tc.want) > eps {
				t.Errorf("DistanceToPoint(%v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}

	var zero Plane
	zero.Normalize()
	if zero.D != 0 || zero.Normal != (math3d.Vec3{}) {
		t.Errorf("zero plane changed by Normalize: %+v", zero)
	}
}

func TestAABB(t *testing.T) {
	box := AABBFromPoints(math3d.V3(1, -2, 0), math3d.V3(-1, 2, 3), math3d.V3(0, 0, -3))

	if want := NewAABB(math3d.V3(-1, -2, -3), math3d.V3(1, 2, 3)); box != want {
		t.Fatalf("AABBFromPoints = %+v, want %+v", box, want)
	}
	if c := box.Center(); !c.ApproxEqual(math3d.Vec3{}, eps) {
		t.Errorf("Center = %v", c)
	}
	if s := box.Size(); s != math3d.V3(2, 4, 6) {
		t.Errorf("Size = %v", s)
	}
	if box.IsEmpty() || !EmptyAABB().IsEmpty() || !AABBFromPoints().IsEmpty() {
		t.Error("IsEmpty mismatch")
	}

	t.Run("union", func(t *testing.T) {
		u := box.Union(NewAABB(math3d.V3(0, 0, 0), math3d.V3(5, 1, 1)))
		if u.Min != math3d.V3(-1, -2, -3) || u.Max != math3d.V3(5, 2, 3) {
			t.Errorf("Union = %+v", u)
		}
		if box.Union(EmptyAABB()) != box || EmptyAABB().Union(box) != box {
			t.Error("union with empty box should be the other box")
		}
	})

	t.Run("contains", func(t *testing.T) {
		cases := []struct {
			p    math3d.Vec3
			slop float64
			want bool
		}{
			{math3d.V3(0, 0, 0), 0, true},
			{math3d.V3(1, 2, 3), 0, true},
			{math3d.V3(1.05, 0, 0), 0, false},
			{math3d.V3(1.05, 0, 0), 0.1, true},
			{math3d.V3(0, -2.5, 0), 0.1, false},
		}
		for _, tc := range cases {
			if got := box.ContainsPoint(tc.p, tc.slop); got != tc.want {
				t.Errorf("ContainsPoint(%v, %v) = %v, want %v", tc.p, tc.slop, got, tc.want)
			}
		}
	})

	t.Run("corners", func(t *testing.T) {
		seen := map[math3d.Vec3]bool{}
		for _, c := range box.Corners() {
			if !box.ContainsPoint(c, 0) {
				t.Errorf("corner %v outside box", c)
			}
			seen[c] = true
		}
		if len(seen) != 8 {
			t.Errorf("got %d distinct corners, want 8", len(seen))
		}
	})
}

func TestAABBTransform(t *testing.T) {
	unit := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	cases := []struct {
		name     string
		m        math3d.Mat4
		min, max math3d.Vec3
	}{
		{"identity", math3d.Identity(), unit.Min, unit.Max},
		{"translate", math3d.Translate(math3d.V3(3, 0, -2)), math3d.V3(2, -1, -3), math3d.V3(4, 1, -1)},
		{"scale", math3d.Scale(math3d.V3(2, 1, 0.5)), math3d.V3(-2, -1, -0.5), math3d.V3(2, 1, 0.5)},
		{"rotate 45", math3d.RotateY(math.Pi / 4), math3d.V3(-math.Sqrt2, -1, -math.Sqrt2), math3d.V3(math.Sqrt2, 1, math.Sqrt2)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := unit.Transform(tc.m)
			if !got.Min.ApproxEqual(tc.min, eps) || !got.Max.ApproxEqual(tc.max, eps) {
				t.Errorf("Transform = %+v, want [%v %v]", got, tc.min, tc.max)
			}
		})
	}

	if !EmptyAABB().Transform(math3d.Translate(math3d.V3(1, 1, 1))).IsEmpty() {
		t.Error("transformed empty box should stay empty")
	}
}

func TestFrustumPlanesFaceInward(t *testing.T) {
	f := lookCamera(math3d.Vec3{}, math3d.V3(0, 0, -1)).Frustum()
	inside := math3d.V3(0, 0, -5)

	for i, p := range f.Planes {
		if math.Abs(p.Normal.Len()-1) > eps {
			t.Errorf("plane %d not normalized: %v", i, p.Normal)
		}
		if d := p.DistanceToPoint(inside); d <= 0 {
			t.Errorf("plane %d: interior point distance %v, want > 0", i, d)
		}
	}

	if d := f.Planes[FrustumNear].DistanceToPoint(math3d.V3(0, 0, -1)); math.Abs(d) > 1e-9 {
		t.Errorf("near plane distance at z=-1 = %v, want 0", d)
	}
	if d := f.Planes[FrustumFar].DistanceToPoint(math3d.V3(0, 0, -10)); math.Abs(d) > 1e-9 {
		t.Errorf("far plane distance at z=-10 = %v, want 0", d)
	}
}

func TestFrustumCulling(t *testing.T) {
	// Looking down +X from the origin.
	f := lookCamera(math3d.Vec3{}, math3d.V3(1, 0, 0)).Frustum()

	points := []struct {
		name string
		p    math3d.Vec3
		want bool
	}{
		{"ahead", math3d.V3(5, 0, 0), true},
		{"ahead off axis", math3d.V3(5, 4, -4), true},
		{"behind", math3d.V3(-5, 0, 0), false},
		{"before near", math3d.V3(0.5, 0, 0), false},
		{"past far", math3d.V3(11, 0, 0), false},
		{"outside side", math3d.V3(2, 0, 3), false},
	}
	for _, tc := range points {
		t.Run("point "+tc.name, func(t *testing.T) {
			if got := f.ContainsPoint(tc.p); got != tc.want {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}

	boxes := []struct {
		name string
		box  AABB
		want bool
	}{
		{"inside", NewAABB(math3d.V3(4, -1, -1), math3d.V3(6, 1, 1)), true},
		{"straddles near", NewAABB(math3d.V3(0, -0.5, -0.5), math3d.V3(2, 0.5, 0.5)), true},
		{"encloses camera", NewAABB(math3d.V3(-50, -50, -50), math3d.V3(50, 50, 50)), true},
		{"behind", NewAABB(math3d.V3(-6, -1, -1), math3d.V3(-4, 1, 1)), false},
		{"beyond far", NewAABB(math3d.V3(12, -1, -1), math3d.V3(14, 1, 1)), false},
		{"beside view", NewAABB(math3d.V3(2, -1, 5), math3d.V3(3, 1, 6)), false},
	}
	for _, tc := range boxes {
		t.Run("box "+tc.name, func(t *testing.T) {
			if got := f.IntersectAABB(tc.box); got != tc.want {
				t.Errorf("IntersectAABB(%+v) = %v, want %v", tc.box, got, tc.want)
			}
		})
	}

	spheres := []struct {
		name   string
		center math3d.Vec3
		radius float64
		want   bool
	}{
		{"inside", math3d.V3(5, 0, 0), 1, true},
		{"grazing near", math3d.V3(0, 0, 0), 1.5, true},
		{"behind", math3d.V3(-3, 0, 0), 1, false},
		{"beyond far", math3d.V3(13, 0, 0), 2, false},
	}
	for _, tc := range spheres {
		t.Run("sphere "+tc.name, func(t *testing.T) {
			if got := f.IntersectsSphere(tc.center, tc.radius); got != tc.want {
				t.Errorf("IntersectsSphere(%v, %v) = %v, want %v", tc.center, tc.radius, got, tc.want)
			}
		})
	}
}

func TestOrthographicFrustum(t *testing.T) {
	c := NewOrthographicCamera(OrthoBox{Left: -2, Right: 2, Bottom: -1, Top: 1}, 0.5, 20)
	c.SetPosition(math3d.V3(0, 0, 5))
	c.LookAt(math3d.Vec3{})
	f := c.Frustum()

	cases := []struct {
		p    math3d.Vec3
		want bool
	}{
		{math3d.V3(1.9, 0.9, -10), true},
		{math3d.V3(2.1, 0, 0), false},
		{math3d.V3(0, 1.1, 0), false},
		{math3d.V3(0, 0, 4.6), false},
		{math3d.V3(0, 0, -14), true},
		{math3d.V3(0, 0, -16), false},
	}
	for _, tc := range cases {
		if got := f.ContainsPoint(tc.p); got != tc.want {
			t.Errorf("ContainsPoint(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
}

func TestFrustumCorners(t *testing.T) {
	c := lookCamera(math3d.V3(1, 2, 3), math3d.V3(1, 2, -7))
	corners := FrustumCorners(c.InverseViewProjection())
	vp := c.ViewProjectionMatrix()

	i := 0
	for _, z := range []float64{-1, 1} {
		for _, y := range []float64{-1, 1} {
			for _, x := range []float64{-1, 1} {
				ndc := vp.MulPoint(corners[i]).PerspectiveDivide()
				if !ndc.ApproxEqual(math3d.V3(x, y, z), 1e-6) {
					t.Errorf("corner %d maps to %v, want (%v, %v, %v)", i, ndc, x, y, z)
				}
				i++
			}
		}
	}

	// 90° square frustum: near half-extent 1, far half-extent 10.
	if !corners[0].ApproxEqual(math3d.V3(0, 1, 2), 1e-6) {
		t.Errorf("near bottom-left = %v, want (0, 1, 2)", corners[0])
	}
	if !corners[7].ApproxEqual(math3d.V3(11, 12, -7), 1e-6) {
		t.Errorf("far top-right = %v, want (11, 12, -7)", corners[7])
	}

	if !c.Frustum().IntersectAABB(AABBFromPoints(corners[:]...)) {
		t.Error("frustum should intersect its own bounds")
	}
}

func BenchmarkFrustumIntersectAABB(b *testing.B) {
	f := lookCamera(math3d.V3(0, 2, 8), math3d.Vec3{}).Frustum()
	boxes := make([]AABB, 64)
	for i := range boxes {
		o := math3d.V3(float64(i%8-4)*3, 0, float64(i/8-4)*3)
		boxes[i] = NewAABB(o, o.Add(math3d.One3()))
	}

	for b.Loop() {
		for _, box := range boxes {
			_ = f.IntersectAABB(box)
		}
	}
}

func BenchmarkCameraFrustum(b *testing.B) {
	c := lookCamera(math3d.V3(0, 2, 8), math3d.Vec3{})

	for b.Loop() {
		c.SetPosition(math3d.V3(0, 2, 8))
		_ = c.Frustum()
	}
}

func BenchmarkAABBTransform(b *testing.B) {
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))
	m := math3d.Translate(math3d.V3(1, 2, 3)).Mul(math3d.RotateY(0.7))

	for b.Loop() {
		_ = box.Transform(m)
	}
}
