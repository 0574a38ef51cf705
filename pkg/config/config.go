// Package config reads scene descriptions from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/raster"
	"github.com/taigrr/softrender/pkg/render"
	"github.com/taigrr/softrender/pkg/scene"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

const maxDimension = 8192

// Vec3 is a three-component YAML sequence.
type Vec3 [3]float64

// UnmarshalYAML requires exactly three numbers.
func (v *Vec3) UnmarshalYAML(n *yaml.Node) error {
	var s []float64
	if err := n.Decode(&s); err != nil {
		return err
	}
	if len(s) != 3 {
		return fmt.Errorf("line %d: want 3 components, got %d", n.Line, len(s))
	}
	copy(v[:], s)
	return nil
}

// MarshalYAML writes the vector as a sequence.
func (v Vec3) MarshalYAML() (any, error) {
	return v[:], nil
}

// Vec converts to a math3d vector.
func (v Vec3) Vec() math3d.Vec3 { return math3d.V3(v[0], v[1], v[2]) }

// Config describes a scene and how to render it.
type Config struct {
	Width       int      `yaml:"width"`
	Height      int      `yaml:"height"`
	Background  string   `yaml:"background"`
	Ambient     *float64 `yaml:"ambient,omitempty"`
	Wireframe   bool     `yaml:"wireframe"`
	SmoothLines bool     `yaml:"smooth_lines"`

	Camera  Camera   `yaml:"camera"`
	Light   Light    `yaml:"light"`
	Shadow  Shadow   `yaml:"shadow"`
	Sampler Sampler  `yaml:"sampler"`
	Gizmos  Gizmos   `yaml:"gizmos"`
	Objects []Object `yaml:"objects"`

	// Frames is how many frames render produces; Spin rotates every
	// object about Y by that many degrees per frame.
	Frames int     `yaml:"frames"`
	Spin   float64 `yaml:"spin"`

	// Dir resolves relative mesh and texture paths. Load sets it to the
	// file's directory.
	Dir string `yaml:"-"`
}

type Camera struct {
	Position     Vec3    `yaml:"position"`
	Target       Vec3    `yaml:"target"`
	FOV          float64 `yaml:"fov"` // degrees
	Near         float64 `yaml:"near"`
	Far          float64 `yaml:"far"`
	Orthographic bool    `yaml:"orthographic"`
	OrthoSize    float64 `yaml:"ortho_size"` // half height of the view box
}

type Light struct {
	Kind      string  `yaml:"kind"` // directional, point or none
	Direction Vec3    `yaml:"direction"`
	Position  Vec3    `yaml:"position"`
	Color     string  `yaml:"color"`
	Intensity float64 `yaml:"intensity"`
	Range     float64 `yaml:"range"`
}

type Shadow struct {
	Enabled *bool   `yaml:"enabled,omitempty"`
	Size    int     `yaml:"size"`
	Bias    float64 `yaml:"bias"`
	Inset   bool    `yaml:"inset"`
}

// On reports whether shadows are enabled, defaulting to true.
func (s Shadow) On() bool { return s.Enabled == nil || *s.Enabled }

type Sampler struct {
	Address string `yaml:"address"` // wrap, clamp or mirror
	Filter  string `yaml:"filter"`  // point or linear
}

type Gizmos struct {
	Axes     float64 `yaml:"axes"` // axis length, 0 hides
	Grid     float64 `yaml:"grid"` // grid size, 0 hides
	GridStep float64 `yaml:"grid_step"`
	Bounds   bool    `yaml:"bounds"`
}

// Object places one mesh. Mesh is plane, ground, cube, sphere or a path to
// a .gltf/.glb file; Texture is checker or an image path.
type Object struct {
	Name        string  `yaml:"name"`
	Mesh        string  `yaml:"mesh"`
	Position    Vec3    `yaml:"position"`
	Rotation    Vec3    `yaml:"rotation"` // degrees
	Scale       Vec3    `yaml:"scale"`
	Color       string  `yaml:"color"`
	Texture     string  `yaml:"texture"`
	Shading     string  `yaml:"shading"`
	Cull        string  `yaml:"cull"`
	CastShadows *bool   `yaml:"cast_shadows,omitempty"`
	Wireframe   bool    `yaml:"wireframe"`
	Specular    float64 `yaml:"specular"`
}

// Default returns a ground plane with a cube lit from above.
func Default() *Config {
	c := &Config{
		Objects: []Object{
			{Name: "ground", Mesh: "ground", Color: "#8c8c99", Texture: "checker"},
			{Name: "cube", Mesh: "cube", Position: Vec3{0, 1, 0}, Rotation: Vec3{0, 30, 0}, Color: "#d9593d", Specular: 0.4},
		},
	}
	c.applyDefaults()
	no := false
	c.Objects[0].CastShadows = &no
	return c
}

// Load reads and validates a scene file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Dir = filepath.Dir(path)
	return c, nil
}

// Parse decodes YAML, fills unset fields with defaults and validates.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Marshal encodes the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

func (c *Config) applyDefaults() {
	if c.Width == 0 {
		c.Width = 320
	}
	if c.Height == 0 {
		c.Height = 240
	}
	if c.Background == "" {
		c.Background = "#14141f"
	}
	if c.Ambient == nil {
		a := 0.15
		c.Ambient = &a
	}
	if c.Frames == 0 {
		c.Frames = 1
	}

	cam := &c.Camera
	if cam.Position == (Vec3{}) {
		cam.Position = Vec3{0, 3, 6}
	}
	if cam.FOV == 0 {
		cam.FOV = 60
	}
	if cam.Near == 0 {
		cam.Near = 0.1
	}
	if cam.Far == 0 {
		cam.Far = 100
	}
	if cam.OrthoSize == 0 {
		cam.OrthoSize = 3
	}

	l := &c.Light
	if l.Kind == "" {
		l.Kind = "directional"
	}
	if l.Direction == (Vec3{}) {
		l.Direction = Vec3{-0.5, -1, -0.3}
	}
	if l.Color == "" {
		l.Color = "#ffffff"
	}
	if l.Intensity == 0 {
		l.Intensity = 1
	}
	if l.Range == 0 {
		l.Range = 20
	}

	if c.Shadow.Size == 0 {
		c.Shadow.Size = 1024
	}
	if c.Shadow.Bias == 0 {
		c.Shadow.Bias = 0.005
	}
	if c.Sampler.Address == "" {
		c.Sampler.Address = "wrap"
	}
	if c.Sampler.Filter == "" {
		c.Sampler.Filter = "linear"
	}
	if c.Gizmos.GridStep == 0 {
		c.Gizmos.GridStep = 1
	}

	for i := range c.Objects {
		o := &c.Objects[i]
		if o.Name == "" {
			o.Name = fmt.Sprintf("object%d", i)
		}
		if o.Scale == (Vec3{}) {
			o.Scale = Vec3{1, 1, 1}
		}
		if o.Color == "" {
			o.Color = "#ffffff"
		}
		if o.Shading == "" {
			o.Shading = "lit"
		}
		if o.Cull == "" {
			o.Cull = "back"
		}
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...)))
	}

	if c.Width <= 0 || c.Width > maxDimension || c.Height <= 0 || c.Height > maxDimension {
		bad("size %dx%d outside 1..%d", c.Width, c.Height, maxDimension)
	}
	if _, err := render.ParseHex(c.Background); err != nil {
		bad("background: %v", err)
	}
	if c.Frames < 1 {
		bad("frames must be at least 1, got %d", c.Frames)
	}

	cam := c.Camera
	if cam.FOV <= 0 || cam.FOV >= 180 {
		bad("camera fov %v outside (0, 180)", cam.FOV)
	}
	if cam.Near <= 0 || cam.Far <= cam.Near {
		bad("camera clip planes near=%v far=%v", cam.Near, cam.Far)
	}
	if cam.Position == cam.Target {
		bad("camera position equals target")
	}

	switch strings.ToLower(c.Light.Kind) {
	case "directional", "point", "none":
	default:
		bad("unknown light kind %q", c.Light.Kind)
	}
	if _, err := render.ParseHex(c.Light.Color); err != nil {
		bad("light color: %v", err)
	}
	if c.Shadow.On() && (c.Shadow.Size < 16 || c.Shadow.Size > maxDimension) {
		bad("shadow size %d outside 16..%d", c.Shadow.Size, maxDimension)
	}
	if _, err := parseAddresser(c.Sampler.Address); err != nil {
		bad("sampler: %v", err)
	}
	if _, err := parseFilter(c.Sampler.Filter); err != nil {
		bad("sampler: %v", err)
	}

	for _, o := range c.Objects {
		if o.Mesh == "" {
			bad("object %q: no mesh", o.Name)
		}
		if _, err := render.ParseHex(o.Color); err != nil {
			bad("object %q color: %v", o.Name, err)
		}
		if _, err := scene.ParseShading(o.Shading); err != nil {
			bad("object %q: %v", o.Name, err)
		}
		if _, err := raster.ParseCullMode(o.Cull); err != nil {
			bad("object %q: %v", o.Name, err)
		}
	}
	return errors.Join(errs...)
}

func parseAddresser(name string) (render.Addresser, error) {
	switch strings.ToLower(name) {
	case "wrap", "repeat":
		return render.WrapAddresser{}, nil
	case "clamp":
		return render.ClampAddresser{}, nil
	case "mirror":
		return render.MirrorAddresser{}, nil
	}
	return nil, fmt.Errorf("unknown address mode %q", name)
}

func parseFilter(name string) (render.Filter, error) {
	switch strings.ToLower(name) {
	case "point", "nearest":
		return render.PointFilter{}, nil
	case "linear", "bilinear":
		return render.LinearFilter{}, nil
	}
	return nil, fmt.Errorf("unknown filter %q", name)
}
