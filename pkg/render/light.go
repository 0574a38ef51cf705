package render

import (
	"math"

	"github.com/taigrr/softrender/pkg/math3d"
)

// LightKind selects how a light's direction and falloff are computed.
type LightKind int

const (
	DirectionalLight LightKind = iota
	PointLight
)

// Light is a single scene light.
type Light struct {
	Kind      LightKind
	Direction math3d.Vec3 // direction the light travels (directional)
	Position  math3d.Vec3 // world position (point)
	Color     Color
	Intensity float64
	Range     float64 // point lights contribute nothing beyond Range; 0 is unbounded

	// Attenuation holds the constant, linear and quadratic falloff terms
	// for point lights.
	Attenuation [3]float64
}

// NewDirectionalLight creates a white directional light.
func NewDirectionalLight(dir math3d.Vec3) *Light {
	return &Light{
		Kind:      DirectionalLight,
		Direction: dir.Normalize(),
		Color:     ColorWhite,
		Intensity: 1,
	}
}

// NewPointLight creates a white point light with inverse-square falloff.
func NewPointLight(pos math3d.Vec3, rng float64) *Light {
	return &Light{
		Kind:        PointLight,
		Position:    pos,
		Color:       ColorWhite,
		Intensity:   1,
		Range:       rng,
		Attenuation: [3]float64{1, 0, 1},
	}
}

// Illuminate returns the unit vector from worldPos towards the light and
// the light's attenuation at that point.
func (l *Light) Illuminate(worldPos math3d.Vec3) (toLight math3d.Vec3, atten float64) {
	if l.Kind != PointLight {
		return l.Direction.Negate().Normalize(), l.Intensity
	}
	d := l.Position.Sub(worldPos)
	dist := d.Len()
	if dist == 0 {
		return math3d.Up(), l.Intensity
	}
	if l.Range > 0 && dist > l.Range {
		return d.Scale(1 / dist), 0
	}
	a := l.Attenuation
	denom := a[0] + a[1]*dist + a[2]*dist*dist
	if denom <= 0 {
		denom = 1
	}
	return d.Scale(1 / dist), l.Intensity / denom
}

// ShadowDirection is the direction shadow rays travel towards target.
func (l *Light) ShadowDirection(target math3d.Vec3) math3d.Vec3 {
	if l.Kind == PointLight {
		if dir := target.Sub(l.Position).Normalize(); dir.LenSq() > 0 {
			return dir
		}
	}
	return l.Direction.Normalize()
}

// ShadowCamera builds an orthographic camera looking along the light that
// tightly bounds the volume seen through invViewProj, the inverse of the
// main camera's view-projection matrix. The eight NDC cube corners are
// mapped back to world space and fitted in light view space.
//
// When scene is not empty its depth range along the light is merged in so
// casters between the light and the visible volume still land in the map.
func (l *Light) ShadowCamera(invViewProj math3d.Mat4, scene AABB) *Camera {
	corners := FrustumCorners(invViewProj)

	var center math3d.Vec3
	for _, c := range corners {
		center = center.Add(c)
	}
	center = center.Scale(1.0 / float64(len(corners)))

	dir := l.ShadowDirection(center)
	cam := NewCamera()
	cam.Position = center
	cam.LookAlong(dir)

	view := cam.ViewMatrix()
	box := EmptyAABB()
	for _, c := range corners {
		box = box.Extend(view.MulVec3(c))
	}
	minZ, maxZ := box.Min.Z, box.Max.Z
	if !scene.IsEmpty() {
		for _, c := range scene.Corners() {
			z := view.MulVec3(c).Z
			minZ = math.Min(minZ, z)
			maxZ = math.Max(maxZ, z)
		}
	}

	// Pull the camera back so every point sits in front of the near plane.
	depth := maxZ - minZ
	pad := 0.01*depth + 1e-3
	back := maxZ + pad
	cam.SetPosition(center.Sub(dir.Scale(back)))

	near := pad / 2
	far := back - minZ + pad/2
	cam.SetOrthographic(OrthoBox{
		Left:   box.Min.X,
		Right:  box.Max.X,
		Bottom: box.Min.Y,
		Top:    box.Max.Y,
	}, near, far)
	return cam
}
