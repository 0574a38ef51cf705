// Package models holds triangle meshes for the rasterizer: loading from
// glTF/GLB files and building simple shapes procedurally.
package models

import (
	"cmp"
	"slices"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/render"
)

// Mesh is an indexed triangle mesh. Faces wind counter-clockwise when seen
// from the front.
type Mesh struct {
	Name      string
	Vertices  []MeshVertex
	Faces     []Face
	Materials []Material

	// Bounds is the object-space bounding box, refreshed by CalculateBounds.
	Bounds render.AABB
}

// MeshVertex is the vertex format fed to the shaders.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Face is one triangle.
type Face struct {
	V        [3]int // indices into Mesh.Vertices
	Material int    // index into Mesh.Materials, -1 for none
}

// Material is the subset of a glTF PBR material the shaders use.
type Material struct {
	Name      string
	BaseColor render.Color
	Metallic  float64
	Roughness float64
	Texture   *render.Texture // nil when untextured
}

// DefaultMaterial is opaque white, fully rough.
func DefaultMaterial() Material {
	return Material{Name: "default", BaseColor: render.ColorWhite, Roughness: 1}
}

// Group is a run of faces sharing a material, flattened for drawing.
type Group struct {
	Material int
	Indices  []int
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name, Bounds: render.EmptyAABB()}
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(v MeshVertex) int {
	m.Vertices = append(m.Vertices, v)
	return len(m.Vertices) - 1
}

// AddFace appends a triangle without a material.
func (m *Mesh) AddFace(a, b, c int) {
	m.Faces = append(m.Faces, Face{V: [3]int{a, b, c}, Material: -1})
}

// CalculateBounds recomputes Bounds from the vertex positions.
func (m *Mesh) CalculateBounds() {
	b := render.EmptyAABB()
	for _, v := range m.Vertices {
		b = b.Extend(v.Position)
	}
	m.Bounds = b
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.Bounds.Center()
}

// Size returns the extent of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.Bounds.Size()
}

// TriangleCount returns the number of faces.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Indices flattens every face into an index buffer.
func (m *Mesh) Indices() []int {
	idx := make([]int, 0, len(m.Faces)*3)
	for _, f := range m.Faces {
		idx = append(idx, f.V[0], f.V[1], f.V[2])
	}
	return idx
}

// Groups splits the faces by material, ordered by material index.
func (m *Mesh) Groups() []Group {
	byMat := make(map[int][]int)
	for _, f := range m.Faces {
		byMat[f.Material] = append(byMat[f.Material], f.V[0], f.V[1], f.V[2])
	}
	groups := make([]Group, 0, len(byMat))
	for mat, idx := range byMat {
		groups = append(groups, Group{Material: mat, Indices: idx})
	}
	slices.SortFunc(groups, func(a, b Group) int { return cmp.Compare(a.Material, b.Material) })
	return groups
}

func (m *Mesh) faceNormal(f Face) math3d.Vec3 {
	v0 := m.Vertices[f.V[0]].Position
	v1 := m.Vertices[f.V[1]].Position
	v2 := m.Vertices[f.V[2]].Position
	return v1.Sub(v0).Cross(v2.Sub(v0))
}

// CalculateFlatNormals gives every face its own vertices so each carries
// the face normal.
func (m *Mesh) CalculateFlatNormals() {
	verts := make([]MeshVertex, 0, len(m.Faces)*3)
	for i, f := range m.Faces {
		n := m.faceNormal(f).Normalize()
		for k, vi := range f.V {
			v := m.Vertices[vi]
			v.Normal = n
			verts = append(verts, v)
			m.Faces[i].V[k] = len(verts) - 1
		}
	}
	m.Vertices = verts
}

// CalculateSmoothNormals sets each vertex normal to the area-weighted
// average of its faces' normals.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}
	for _, f := range m.Faces {
		n := m.faceNormal(f)
		for _, vi := range f.V {
			m.Vertices[vi].Normal = m.Vertices[vi].Normal.Add(n)
		}
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// HasNormals reports whether any vertex carries a usable normal.
func (m *Mesh) HasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.LenSq() > 1e-6 {
			return true
		}
	}
	return false
}

// Transform bakes mat into the vertices. Normals go through the inverse
// transpose so non-uniform scales keep them perpendicular.
func (m *Mesh) Transform(mat math3d.Mat4) {
	normalMat := mat.Inverse().Transpose()
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = mat.MulVec3(v.Position)
		v.Normal = normalMat.MulVec3Dir(v.Normal).Normalize()
	}
	m.CalculateBounds()
}

// Normalize centers the mesh on the origin and scales it so its largest
// extent equals size.
func (m *Mesh) Normalize(size float64) {
	m.CalculateBounds()
	if m.Bounds.IsEmpty() {
		return
	}
	ext := m.Size()
	largest := max(ext.X, ext.Y, ext.Z)
	if largest == 0 {
		return
	}
	s := size / largest
	m.Transform(math3d.ScaleUniform(s).Mul(math3d.Translate(m.Center().Negate())))
}

// Append merges other into m, offsetting its indices and materials.
func (m *Mesh) Append(other *Mesh) {
	base := len(m.Vertices)
	matBase := len(m.Materials)
	m.Vertices = append(m.Vertices, other.Vertices...)
	m.Materials = append(m.Materials, other.Materials...)
	for _, f := range other.Faces {
		nf := Face{V: [3]int{f.V[0] + base, f.V[1] + base, f.V[2] + base}, Material: -1}
		if f.Material >= 0 {
			nf.Material = f.Material + matBase
		}
		m.Faces = append(m.Faces, nf)
	}
	m.CalculateBounds()
}

// Clone returns a deep copy. Textures are shared.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Name:      m.Name,
		Vertices:  slices.Clone(m.Vertices),
		Faces:     slices.Clone(m.Faces),
		Materials: slices.Clone(m.Materials),
		Bounds:    m.Bounds,
	}
}

// FaceMaterial returns the material index of face i, -1 when unset.
func (m *Mesh) FaceMaterial(i int) int {
	return m.Faces[i].Material
}

// Material returns material i, or nil when i is out of range.
func (m *Mesh) Material(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}
