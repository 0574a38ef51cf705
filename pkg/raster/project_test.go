package raster

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/softrender/pkg/math3d"
)

func TestProject(t *testing.T) {
	tests := []struct {
		name          string
		pos           math3d.Vec4
		width, height int
		want          Projection
	}{
		{"center", math3d.V4(0, 0, 0, 1), 64, 32, Projection{X: 32, Y: 16, Z: 0, InvW: 1}},
		{"bottom left", math3d.V4(-1, -1, -1, 1), 64, 32, Projection{X: 0, Y: 0, Z: -1, InvW: 1}},
		{"top right", math3d.V4(1, 1, 1, 1), 64, 32, Projection{X: 64, Y: 32, Z: 1, InvW: 1}},
		{"divides by w", math3d.V4(1, -1, 1, 2), 64, 32, Projection{X: 48, Y: 8, Z: 0.5, InvW: 0.5}},
		{"rounds half away", math3d.V4(0, 0, 0, 1), 21, 21, Projection{X: 11, Y: 11, Z: 0, InvW: 1}},
		{"rounds down", math3d.V4(-0.95, 0, 0, 1), 10, 10, Projection{X: 0, Y: 5, Z: 0, InvW: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Project(tt.pos, tt.width, tt.height)
			if err != nil {
				t.Fatal(err)
			}
			if got.X != tt.want.X || got.Y != tt.want.Y ||
				math.Abs(got.Z-tt.want.Z) > 1e-12 || math.Abs(got.InvW-tt.want.InvW) > 1e-12 {
				t.Errorf("Project() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestProjectRejectsNonPositiveW(t *testing.T) {
	for _, w := range []float64{0, -1, math.NaN()} {
		if _, err := Project(math3d.V4(0, 0, 0, w), 8, 8); !errors.Is(err, ErrNonPositiveW) {
			t.Errorf("Project(w=%g) error = %v, want ErrNonPositiveW", w, err)
		}
	}
}

func TestOrient2D(t *testing.T) {
	p := func(x, y int) Projection { return Projection{X: x, Y: y} }
	tests := []struct {
		name       string
		a, b, c    Projection
		wantDouble int
	}{
		{"counter-clockwise", p(0, 0), p(4, 0), p(0, 4), 16},
		{"clockwise", p(0, 0), p(0, 4), p(4, 0), -16},
		{"collinear", p(0, 0), p(2, 2), p(5, 5), 0},
		{"repeated vertex", p(3, 3), p(3, 3), p(7, 1), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Orient2D(tt.a, tt.b, tt.c)
			if got != tt.wantDouble {
				t.Errorf("Orient2D() = %d, want %d", got, tt.wantDouble)
			}
		})
	}
}
