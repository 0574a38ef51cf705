package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/models"
	"github.com/taigrr/softrender/pkg/raster"
	"github.com/taigrr/softrender/pkg/render"
	"github.com/taigrr/softrender/pkg/scene"
)

// Scene is a config resolved into renderable values.
type Scene struct {
	Camera  *render.Camera
	Light   *render.Light
	Objects []*scene.Object
	Options scene.Options
	Gizmos  scene.Gizmos

	spin float64
	base []math3d.Mat4
}

// Build loads meshes and textures and assembles the scene. Meshes and
// textures referenced by several objects are loaded once.
func (c *Config) Build() (*Scene, error) {
	s := &Scene{
		Camera:  c.NewCamera(float64(c.Width) / float64(c.Height)),
		Options: scene.DefaultOptions(),
		spin:    c.Spin,
	}

	light, err := c.newLight()
	if err != nil {
		return nil, err
	}
	s.Light = light

	opts := &s.Options
	if opts.Background, err = render.ParseHex(c.Background); err != nil {
		return nil, err
	}
	opts.Ambient = *c.Ambient
	opts.Wireframe = c.Wireframe
	opts.SmoothLines = c.SmoothLines
	opts.ShadowSize = 0
	if c.Shadow.On() {
		opts.ShadowSize = c.Shadow.Size
	}
	opts.ShadowBias = c.Shadow.Bias
	opts.ShadowInset = c.Shadow.Inset
	addr, err := parseAddresser(c.Sampler.Address)
	if err != nil {
		return nil, err
	}
	filter, err := parseFilter(c.Sampler.Filter)
	if err != nil {
		return nil, err
	}
	opts.Sampler = render.NewSampler(addr, filter)

	meshes := make(map[string]*models.Mesh)
	textures := make(map[string]*render.Texture)
	for _, oc := range c.Objects {
		mesh, ok := meshes[oc.Mesh]
		if !ok {
			if mesh, err = c.loadMesh(oc.Mesh); err != nil {
				return nil, fmt.Errorf("object %q: %w", oc.Name, err)
			}
			meshes[oc.Mesh] = mesh
		}
		o, err := newObject(oc, mesh)
		if err != nil {
			return nil, err
		}
		if oc.Texture != "" {
			tex, ok := textures[oc.Texture]
			if !ok {
				if tex, err = c.loadTexture(oc.Texture); err != nil {
					return nil, fmt.Errorf("object %q: %w", oc.Name, err)
				}
				textures[oc.Texture] = tex
			}
			o.Material.Texture = tex
		}
		s.Objects = append(s.Objects, o)
		s.base = append(s.base, o.Transform)
	}

	if c.Gizmos.Axes > 0 {
		s.Gizmos.Axes(c.Gizmos.Axes)
	}
	if c.Gizmos.Grid > 0 {
		s.Gizmos.Grid(c.Gizmos.Grid, c.Gizmos.GridStep, render.Gray(0.35))
	}
	if c.Gizmos.Bounds {
		for _, o := range s.Objects {
			s.Gizmos.Box(o.Bounds(), render.RGB(1, 1, 0))
		}
	}
	return s, nil
}

// NewCamera builds the configured camera for a target of the given
// aspect ratio.
func (c *Config) NewCamera(aspect float64) *render.Camera {
	cc := c.Camera
	cam := render.NewCamera()
	if cc.Orthographic {
		h := cc.OrthoSize
		cam.SetOrthographic(render.OrthoBox{Left: -h * aspect, Right: h * aspect, Bottom: -h, Top: h}, cc.Near, cc.Far)
	} else {
		cam.SetPerspective(math3d.Radians(cc.FOV), aspect, cc.Near, cc.Far)
	}
	cam.SetPosition(cc.Position.Vec())
	cam.LookAt(cc.Target.Vec())
	return cam
}

func (c *Config) newLight() (*render.Light, error) {
	lc := c.Light
	var l *render.Light
	switch strings.ToLower(lc.Kind) {
	case "none":
		return nil, nil
	case "point":
		l = render.NewPointLight(lc.Position.Vec(), lc.Range)
	default:
		l = render.NewDirectionalLight(lc.Direction.Vec())
	}
	col, err := render.ParseHex(lc.Color)
	if err != nil {
		return nil, err
	}
	l.Color = col
	l.Intensity = lc.Intensity
	return l, nil
}

func newObject(oc Object, mesh *models.Mesh) (*scene.Object, error) {
	o := scene.NewObject(oc.Name, mesh)
	o.Transform = math3d.Transform{
		Position: oc.Position.Vec(),
		Rotation: math3d.QuatFromEulerDegrees(oc.Rotation.Vec()),
		Scale:    oc.Scale.Vec(),
	}.Matrix()

	var err error
	if o.Material.Color, err = render.ParseHex(oc.Color); err != nil {
		return nil, fmt.Errorf("object %q: %w", oc.Name, err)
	}
	if o.Material.Shading, err = scene.ParseShading(oc.Shading); err != nil {
		return nil, fmt.Errorf("object %q: %w", oc.Name, err)
	}
	if o.Cull, err = raster.ParseCullMode(oc.Cull); err != nil {
		return nil, fmt.Errorf("object %q: %w", oc.Name, err)
	}
	o.Material.Specular = oc.Specular
	o.Wireframe = oc.Wireframe
	if oc.CastShadows != nil {
		o.CastShadows = *oc.CastShadows
	}
	return o, nil
}

func (c *Config) path(p string) string {
	if filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}

func (c *Config) loadMesh(name string) (*models.Mesh, error) {
	switch strings.ToLower(name) {
	case "plane":
		return models.NewPlane(), nil
	case "ground":
		return models.NewGround(10), nil
	case "cube":
		return models.NewCube(), nil
	case "sphere":
		return models.NewSphere(24, 16), nil
	}
	mesh, err := models.LoadGLTF(c.path(name))
	if err != nil {
		return nil, err
	}
	mesh.Normalize(2)
	return mesh, nil
}

func (c *Config) loadTexture(name string) (*render.Texture, error) {
	if strings.EqualFold(name, "checker") {
		tex := render.NewCheckerTexture(64, 64, 8, render.Gray(0.85), render.Gray(0.45))
		tex.GenerateMipmaps()
		return tex, nil
	}
	tex, err := render.LoadTexture(c.path(name))
	if err != nil {
		return nil, err
	}
	tex.GenerateMipmaps()
	return tex, nil
}

// Pose sets every object's transform to m applied after its configured
// placement.
func (s *Scene) Pose(m math3d.Mat4) {
	for i, o := range s.Objects {
		o.Transform = m.Mul(s.base[i])
	}
}

// Frame poses the scene for frame i of a spin animation.
func (s *Scene) Frame(i int) {
	s.Pose(math3d.RotateY(math3d.Radians(s.spin * float64(i))))
}

// Apply copies the scene's light, options and gizmos into r.
func (s *Scene) Apply(r *scene.Renderer) {
	r.Light = s.Light
	r.Options = s.Options
	r.Gizmos = s.Gizmos
}
