package raster

import (
	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/render"
)

// Shader is the programmable part of the pipeline. Vertex runs once per
// submitted vertex and must place the clip-space position in element 0 of
// its varying. Fragment runs once per covered pixel that survives the depth
// test.
//
// When Fragment runs, the position field of the varying holds the window
// coordinate instead: x and y in pixels, z the depth in [-1,1] and w the
// reciprocal of the clip-space w.
type Shader[In any, V Varying[V]] interface {
	Vertex(in In) V
	Fragment(v V) render.Color
}

// Camera supplies view and projection matrices. *render.Camera satisfies it.
type Camera interface {
	ViewMatrix() math3d.Mat4
	ProjectionMatrix() math3d.Mat4
}

// Matrices are the transforms in effect for one submit.
type Matrices struct {
	Model          math3d.Mat4
	View           math3d.Mat4
	Projection     math3d.Mat4
	ViewProjection math3d.Mat4
	MVP            math3d.Mat4
	Normal         math3d.Mat4 // inverse transpose of Model
}

// NewMatrices derives the combined transforms.
func NewMatrices(model, view, proj math3d.Mat4) Matrices {
	vp := proj.Mul(view)
	return Matrices{
		Model:          model,
		View:           view,
		Projection:     proj,
		ViewProjection: vp,
		MVP:            vp.Mul(model),
		Normal:         model.Inverse().Transpose(),
	}
}

// MatrixReceiver is implemented by shaders that want the current transforms.
// Submit calls SetMatrices before the vertex stage.
type MatrixReceiver interface {
	SetMatrices(m Matrices)
}
