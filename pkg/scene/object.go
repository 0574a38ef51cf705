// Package scene draws lists of meshes through the raster pipeline with a
// shadow pre-pass, line overlays and debug gizmos.
package scene

import (
	"fmt"
	"strings"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/models"
	"github.com/taigrr/softrender/pkg/raster"
	"github.com/taigrr/softrender/pkg/render"
)

// Shading selects the shader an object is drawn with.
type Shading int

const (
	ShadingLit Shading = iota
	ShadingGouraud
	ShadingTextured
	ShadingUnlit
)

var shadingNames = [...]string{
	ShadingLit:      "lit",
	ShadingGouraud:  "gouraud",
	ShadingTextured: "textured",
	ShadingUnlit:    "unlit",
}

func (s Shading) String() string {
	if s >= 0 && int(s) < len(shadingNames) {
		return shadingNames[s]
	}
	return fmt.Sprintf("Shading(%d)", int(s))
}

// ParseShading parses a shading name, case-insensitively.
func ParseShading(name string) (Shading, error) {
	for i, n := range shadingNames {
		if strings.EqualFold(n, name) {
			return Shading(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shading %q", name)
}

// Material overrides how an object is shaded. Color multiplies the mesh's
// own material colors.
type Material struct {
	Color    render.Color
	Texture  *render.Texture
	Shading  Shading
	Specular float64
}

// Object is a mesh placed in the world.
type Object struct {
	Name      string
	Mesh      *models.Mesh
	Transform math3d.Mat4
	Material  Material

	Cull        raster.CullMode
	CastShadows bool
	Wireframe   bool
	Hidden      bool
}

// NewObject places mesh at the origin with lit white shading.
func NewObject(name string, mesh *models.Mesh) *Object {
	return &Object{
		Name:        name,
		Mesh:        mesh,
		Transform:   math3d.Identity(),
		Material:    Material{Color: render.ColorWhite, Shading: ShadingLit},
		Cull:        raster.CullBack,
		CastShadows: true,
	}
}

// Bounds returns the world-space bounding box.
func (o *Object) Bounds() render.AABB {
	if o.Mesh == nil {
		return render.EmptyAABB()
	}
	return o.Mesh.Bounds.Transform(o.Transform)
}

// part is one material group of an object resolved for drawing.
type part struct {
	color   render.Color
	texture *render.Texture
	indices []int
}

func (o *Object) parts() []part {
	groups := o.Mesh.Groups()
	parts := make([]part, 0, len(groups))
	for _, g := range groups {
		p := part{color: o.Material.Color, texture: o.Material.Texture, indices: g.Indices}
		if m := o.Mesh.Material(g.Material); m != nil {
			p.color = p.color.Mul(m.BaseColor)
			if p.texture == nil {
				p.texture = m.Texture
			}
		}
		parts = append(parts, p)
	}
	return parts
}

// edgeIndices returns each triangle edge of m once, as line-list indices.
func edgeIndices(m *models.Mesh) []int {
	seen := make(map[[2]int]struct{}, len(m.Faces)*3/2)
	idx := make([]int, 0, len(m.Faces)*3)
	for _, f := range m.Faces {
		for i := range 3 {
			a, b := f.V[i], f.V[(i+1)%3]
			key := [2]int{min(a, b), max(a, b)}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			idx = append(idx, a, b)
		}
	}
	return idx
}
