package render

import (
	"math"
	"testing"

	"github.com/taigrr/softrender/pkg/math3d"
)

func TestCameraViewProjectionTracksChanges(t *testing.T) {
	c := NewCamera()
	before := c.ViewProjectionMatrix()

	c.SetPosition(math3d.V3(0, 0, 5))
	after := c.ViewProjectionMatrix()
	if before == after {
		t.Fatal("view-projection not refreshed after SetPosition")
	}
	want := c.ProjectionMatrix().Mul(c.ViewMatrix())
	if !after.ApproxEqual(want, 1e-12) {
		t.Error("view-projection does not equal projection * view")
	}

	// Reading view alone must not leave the combined matrix stale.
	c.SetPosition(math3d.V3(1, 0, 5))
	_ = c.ViewMatrix()
	want = c.ProjectionMatrix().Mul(c.ViewMatrix())
	if !c.ViewProjectionMatrix().ApproxEqual(want, 1e-12) {
		t.Error("view-projection stale after reading ViewMatrix first")
	}
}

func TestCameraLookAt(t *testing.T) {
	c := NewCamera()
	c.SetPosition(math3d.V3(3, 4, 5))
	c.LookAt(math3d.V3(0, 0, 0))

	fwd := c.Forward()
	want := math3d.V3(-3, -4, -5).Normalize()
	if !fwd.ApproxEqual(want, 1e-9) {
		t.Errorf("Forward = %v, want %v", fwd, want)
	}

	target := c.ViewMatrix().MulVec3(math3d.Zero3())
	if math.Abs(target.X) > 1e-9 || math.Abs(target.Y) > 1e-9 || target.Z >= 0 {
		t.Errorf("target in view space = %v, want on -Z axis", target)
	}
}

func TestCameraOrthographic(t *testing.T) {
	c := NewOrthographicCamera(OrthoBox{-2, 2, -1, 1}, 0.5, 10)
	clip := c.ViewProjectionMatrix().MulPoint(math3d.V3(2, 1, -10))
	if clip.W != 1 {
		t.Errorf("orthographic w = %v, want 1", clip.W)
	}
	if !clip.Vec3().ApproxEqual(math3d.V3(1, 1, 1), 1e-9) {
		t.Errorf("far corner = %v, want (1,1,1)", clip)
	}
}

func TestWorldToScreenIsBottomUp(t *testing.T) {
	c := NewCamera()
	c.SetPerspective(math.Pi/2, 1, 0.1, 100)

	_, yHigh, _, ok := c.WorldToScreen(math3d.V3(0, 0.5, -1), 100, 100)
	if !ok {
		t.Fatal("point should be visible")
	}
	if yHigh <= 50 {
		t.Errorf("point above the axis maps to y=%v, want > 50", yHigh)
	}
	if _, _, _, ok := c.WorldToScreen(math3d.V3(0, 0, 1), 100, 100); ok {
		t.Error("point behind camera reported visible")
	}
}

func TestCameraOrbit(t *testing.T) {
	c := NewCamera()
	c.Orbit(math3d.V3(1, 0, 0), 4, 0, 0)
	if !c.Position.ApproxEqual(math3d.V3(1, 0, 4), 1e-9) {
		t.Errorf("Position = %v, want (1,0,4)", c.Position)
	}
	if !c.Forward().ApproxEqual(math3d.V3(0, 0, -1), 1e-9) {
		t.Errorf("Forward = %v, want -Z", c.Forward())
	}
}
