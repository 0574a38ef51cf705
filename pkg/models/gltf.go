package models

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/render"
)

// ErrNoGeometry is returned when a file holds no triangle primitives.
var ErrNoGeometry = errors.New("models: no triangle geometry")

// GLTFLoader loads .gltf and .glb files into a Mesh.
type GLTFLoader struct {
	// SmoothNormals selects averaged normals when the file has none;
	// otherwise faces are split and shaded flat.
	SmoothNormals bool
	// Textures decodes base color textures into materials.
	Textures bool
	// Mipmaps builds a mip chain for every decoded texture.
	Mipmaps bool
}

// NewGLTFLoader returns a loader with smooth normals and textures on.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{SmoothNormals: true, Textures: true, Mipmaps: true}
}

// LoadGLTF loads path with the default loader.
func LoadGLTF(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load reads every triangle primitive of every mesh in the document into
// one Mesh. glTF front faces wind counter-clockwise, which the pipeline
// also treats as front, so indices are kept in file order.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	mesh.Materials = l.materials(doc, filepath.Dir(path))

	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoGeometry)
	}

	if !mesh.HasNormals() {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateFlatNormals()
		}
	}
	mesh.CalculateBounds()
	return mesh, nil
}

func (l *GLTFLoader) materials(doc *gltf.Document, dir string) []Material {
	mats := make([]Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		mat := DefaultMaterial()
		mat.Name = gm.Name
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			if f := pbr.BaseColorFactor; f != nil {
				mat.BaseColor = render.Color{R: f[0], G: f[1], B: f[2], A: f[3]}
			}
			if pbr.MetallicFactor != nil {
				mat.Metallic = *pbr.MetallicFactor
			}
			if pbr.RoughnessFactor != nil {
				mat.Roughness = *pbr.RoughnessFactor
			}
			if l.Textures && pbr.BaseColorTexture != nil {
				mat.Texture = l.texture(doc, dir, pbr.BaseColorTexture.Index)
			}
		}
		mats[i] = mat
	}
	return mats
}

// texture decodes texture index ti, returning nil when it cannot be read.
// A missing texture degrades to the base color rather than failing the
// whole model.
func (l *GLTFLoader) texture(doc *gltf.Document, dir string, ti int) *render.Texture {
	if ti < 0 || ti >= len(doc.Textures) || doc.Textures[ti].Source == nil {
		return nil
	}
	src := *doc.Textures[ti].Source
	if src < 0 || src >= len(doc.Images) {
		return nil
	}
	data, err := imageData(doc, dir, doc.Images[src])
	if err != nil {
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	tex := render.TextureFromImage(img)
	if l.Mipmaps {
		tex.GenerateMipmaps()
	}
	return tex
}

func imageData(doc *gltf.Document, dir string, img *gltf.Image) ([]byte, error) {
	if img.BufferView != nil {
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		end := bv.ByteOffset + bv.ByteLength
		if end > len(buf.Data) {
			return nil, fmt.Errorf("image view ends at %d past buffer of %d bytes", end, len(buf.Data))
		}
		return buf.Data[bv.ByteOffset:end], nil
	}
	if img.URI == "" {
		return nil, errors.New("image has neither buffer view nor uri")
	}
	return os.ReadFile(filepath.Join(dir, img.URI))
}

func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Lines and points are not meshes.
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := readVec3(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}
		var normals []math3d.Vec3
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = readVec3(doc, idx); err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}
		var uvs []math3d.Vec2
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if uvs, err = readVec2(doc, idx); err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		base := len(mesh.Vertices)
		for i, p := range positions {
			v := MeshVertex{Position: p}
			if i < len(normals) {
				v.Normal = normals[i]
			}
			if i < len(uvs) {
				// glTF puts v=0 at the top of the image; textures here
				// are stored bottom-up.
				v.UV = math3d.V2(uvs[i].X, 1-uvs[i].Y)
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		var indices []int
		if prim.Indices != nil {
			if indices, err = readIndices(doc, *prim.Indices); err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		mat := -1
		if prim.Material != nil && *prim.Material < len(mesh.Materials) {
			mat = *prim.Material
		}
		for i := 0; i+2 < len(indices); i += 3 {
			f := Face{V: [3]int{base + indices[i], base + indices[i+1], base + indices[i+2]}, Material: mat}
			for _, vi := range f.V {
				if vi >= len(mesh.Vertices) {
					return fmt.Errorf("index %d past %d vertices", vi-base, len(positions))
				}
			}
			mesh.Faces = append(mesh.Faces, f)
		}
	}
	return nil
}

// accessorView returns the bytes backing an accessor and the distance
// between consecutive elements.
func accessorView(doc *gltf.Document, idx, elemSize int) (*gltf.Accessor, []byte, int, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, nil, 0, fmt.Errorf("accessor %d out of range", idx)
	}
	acc := doc.Accessors[idx]
	if acc.BufferView == nil {
		return nil, nil, 0, errors.New("accessor has no buffer view")
	}
	bv := doc.BufferViews[*acc.BufferView]
	data := doc.Buffers[bv.Buffer].Data
	stride := bv.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := bv.ByteOffset + acc.ByteOffset
	if start > len(data) {
		return nil, nil, 0, fmt.Errorf("accessor %d starts at byte %d of %d", idx, start, len(data))
	}
	if acc.Count > 0 {
		if end := start + (acc.Count-1)*stride + elemSize; end > len(data) {
			return nil, nil, 0, fmt.Errorf("accessor %d reads to byte %d of %d", idx, end, len(data))
		}
	}
	return acc, data[start:], stride, nil
}

func readFloats(doc *gltf.Document, idx int, typ gltf.AccessorType, n int) ([]float32, int, error) {
	acc, data, stride, err := accessorView(doc, idx, 4*n)
	if err != nil {
		return nil, 0, err
	}
	if acc.Type != typ || acc.ComponentType != gltf.ComponentFloat {
		return nil, 0, fmt.Errorf("expected float %v, got %v %v", typ, acc.ComponentType, acc.Type)
	}
	out := make([]float32, acc.Count*n)
	for i := range acc.Count {
		for j := range n {
			bits := binary.LittleEndian.Uint32(data[i*stride+j*4:])
			out[i*n+j] = math.Float32frombits(bits)
		}
	}
	return out, acc.Count, nil
}

func readVec3(doc *gltf.Document, idx int) ([]math3d.Vec3, error) {
	f, count, err := readFloats(doc, idx, gltf.AccessorVec3, 3)
	if err != nil {
		return nil, err
	}
	out := make([]math3d.Vec3, count)
	for i := range out {
		out[i] = math3d.V3(float64(f[i*3]), float64(f[i*3+1]), float64(f[i*3+2]))
	}
	return out, nil
}

func readVec2(doc *gltf.Document, idx int) ([]math3d.Vec2, error) {
	f, count, err := readFloats(doc, idx, gltf.AccessorVec2, 2)
	if err != nil {
		return nil, err
	}
	out := make([]math3d.Vec2, count)
	for i := range out {
		out[i] = math3d.V2(float64(f[i*2]), float64(f[i*2+1]))
	}
	return out, nil
}

func readIndices(doc *gltf.Document, idx int) ([]int, error) {
	if idx < 0 || idx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	var size int
	switch doc.Accessors[idx].ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unsupported index component %v", doc.Accessors[idx].ComponentType)
	}
	acc, data, stride, err := accessorView(doc, idx, size)
	if err != nil {
		return nil, err
	}
	out := make([]int, acc.Count)
	for i := range out {
		b := data[i*stride:]
		switch size {
		case 1:
			out[i] = int(b[0])
		case 2:
			out[i] = int(binary.LittleEndian.Uint16(b))
		default:
			out[i] = int(binary.LittleEndian.Uint32(b))
		}
	}
	return out, nil
}
