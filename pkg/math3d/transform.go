package math3d

// Transform places an object in the world: scale, then rotate, then
// translate.
type Transform struct {
	Position Vec3
	Rotation Quat
	Scale    Vec3
}

// NewTransform returns a transform at the origin with unit scale.
func NewTransform() Transform {
	return Transform{Rotation: QuatIdentity(), Scale: One3()}
}

// Matrix returns the local-to-world matrix T * R * S.
func (t Transform) Matrix() Mat4 {
	return Translate(t.Position).Mul(t.Rotation.Mat4()).Mul(Scale(t.Scale))
}

// Forward returns the local -Z axis in world space.
func (t Transform) Forward() Vec3 {
	return t.Rotation.Rotate(Forward())
}
