package render

import (
	"math"

	"github.com/taigrr/softrender/pkg/math3d"
)

// Projection selects how a camera maps view space to clip space.
type Projection int

const (
	Perspective Projection = iota
	Orthographic
)

// OrthoBox is the view-space box an orthographic camera maps to the NDC
// cube.
type OrthoBox struct {
	Left, Right, Bottom, Top float64
}

// Camera represents a 3D camera with position and orientation.
type Camera struct {
	// Position in world space
	Position math3d.Vec3

	// Orientation (Euler angles in radians)
	Pitch float64 // Rotation around X axis (look up/down)
	Yaw   float64 // Rotation around Y axis (look left/right)
	Roll  float64 // Rotation around Z axis (tilt)

	// Projection parameters
	Mode        Projection
	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Ortho       OrthoBox
	Near        float64 // Near clipping plane
	Far         float64 // Far clipping plane

	viewMatrix     math3d.Mat4
	projMatrix     math3d.Mat4
	viewProjMatrix math3d.Mat4
	viewDirty      bool
	projDirty      bool
	vpDirty        bool
}

// NewCamera creates a perspective camera at the origin looking down -Z.
func NewCamera() *Camera {
	return &Camera{
		FOV:         math.Pi / 3,
		AspectRatio: 4.0 / 3.0,
		Near:        0.3,
		Far:         100,
		viewDirty:   true,
		projDirty:   true,
		vpDirty:     true,
	}
}

// NewOrthographicCamera creates a camera projecting the given view box.
func NewOrthographicCamera(box OrthoBox, near, far float64) *Camera {
	c := NewCamera()
	c.SetOrthographic(box, near, far)
	return c
}

func (c *Camera) markView() {
	c.viewDirty = true
	c.vpDirty = true
}

func (c *Camera) markProj() {
	c.projDirty = true
	c.vpDirty = true
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.markView()
}

// SetRotation sets the camera rotation (pitch, yaw, roll in radians).
func (c *Camera) SetRotation(pitch, yaw, roll float64) {
	c.Pitch, c.Yaw, c.Roll = pitch, yaw, roll
	c.markView()
}

// SetPerspective switches to a perspective projection.
func (c *Camera) SetPerspective(fov, aspect, near, far float64) {
	c.Mode = Perspective
	c.FOV, c.AspectRatio, c.Near, c.Far = fov, aspect, near, far
	c.markProj()
}

// SetOrthographic switches to an orthographic projection.
func (c *Camera) SetOrthographic(box OrthoBox, near, far float64) {
	c.Mode = Orthographic
	c.Ortho, c.Near, c.Far = box, near, far
	c.markProj()
}

// SetFOV sets the field of view (in radians).
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.markProj()
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.markProj()
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near, c.Far = near, far
	c.markProj()
}

// Forward returns the forward direction vector.
func (c *Camera) Forward() math3d.Vec3 {
	return math3d.V3(
		-math.Sin(c.Yaw)*math.Cos(c.Pitch),
		math.Sin(c.Pitch),
		-math.Cos(c.Yaw)*math.Cos(c.Pitch),
	)
}

// Right returns the right direction vector.
func (c *Camera) Right() math3d.Vec3 {
	return math3d.V3(math.Cos(c.Yaw), 0, -math.Sin(c.Yaw))
}

// Up returns the up direction vector.
func (c *Camera) Up() math3d.Vec3 {
	return c.Right().Cross(c.Forward())
}

// ViewMatrix returns the world-to-view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		rot := math3d.RotateZ(-c.Roll).
			Mul(math3d.RotateX(-c.Pitch)).
			Mul(math3d.RotateY(-c.Yaw))
		c.viewMatrix = rot.Mul(math3d.Translate(c.Position.Negate()))
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the view-to-clip matrix.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		switch c.Mode {
		case Orthographic:
			b := c.Ortho
			c.projMatrix = math3d.Orthographic(b.Left, b.Right, b.Bottom, b.Top, c.Near, c.Far)
		default:
			c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		}
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns projection * view.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	if c.vpDirty || c.viewDirty || c.projDirty {
		c.viewProjMatrix = c.ProjectionMatrix().Mul(c.ViewMatrix())
		c.vpDirty = false
	}
	return c.viewProjMatrix
}

// InverseViewProjection maps NDC back to world space.
func (c *Camera) InverseViewProjection() math3d.Mat4 {
	return c.ViewProjectionMatrix().Inverse()
}

// MoveForward moves the camera forward (or backward if negative).
func (c *Camera) MoveForward(distance float64) {
	c.SetPosition(c.Position.Add(c.Forward().Scale(distance)))
}

// MoveRight moves the camera right (or left if negative).
func (c *Camera) MoveRight(distance float64) {
	c.SetPosition(c.Position.Add(c.Right().Scale(distance)))
}

// Rotate rotates the camera by the given angles (in radians).
func (c *Camera) Rotate(deltaPitch, deltaYaw, deltaRoll float64) {
	const maxPitch = math.Pi/2 - 0.01
	c.Pitch = math.Max(-maxPitch, math.Min(maxPitch, c.Pitch+deltaPitch))
	c.Yaw += deltaYaw
	c.Roll += deltaRoll
	c.markView()
}

// LookAt makes the camera look at a target point.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()
	if dir.LenSq() == 0 {
		return
	}
	c.Pitch = math.Asin(math.Max(-1, math.Min(1, dir.Y)))
	c.Yaw = math.Atan2(-dir.X, -dir.Z)
	c.Roll = 0
	c.markView()
}

// LookAlong points the camera along dir.
func (c *Camera) LookAlong(dir math3d.Vec3) {
	c.LookAt(c.Position.Add(dir))
}

// Orbit places the camera on a sphere around target, yaw and pitch in
// radians, and looks at the target.
func (c *Camera) Orbit(target math3d.Vec3, distance, yaw, pitch float64) {
	offset := math3d.V3(
		math.Sin(yaw)*math.Cos(pitch),
		math.Sin(pitch),
		math.Cos(yaw)*math.Cos(pitch),
	).Scale(distance)
	c.Position = target.Add(offset)
	c.LookAt(target)
}

// WorldToScreen projects a world point into a bottom-up pixel grid of the
// given size. visible is false behind the camera or outside the frustum.
func (c *Camera) WorldToScreen(worldPos math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, visible bool) {
	clip := c.ViewProjectionMatrix().MulPoint(worldPos)
	if clip.W <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.PerspectiveDivide()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, 0, false
	}
	x = (ndc.X + 1) * 0.5 * float64(screenWidth)
	y = (ndc.Y + 1) * 0.5 * float64(screenHeight)
	return x, y, ndc.Z, true
}
