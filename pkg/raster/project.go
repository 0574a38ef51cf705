package raster

import (
	"fmt"
	"math"

	"github.com/taigrr/softrender/pkg/math3d"
)

// Projection is a clipped vertex mapped to window coordinates. X and Y are
// pixels with y=0 at the bottom row, Z is the NDC depth in [-1,1] and InvW
// is 1/w of the clip-space position.
type Projection struct {
	X, Y int
	Z    float64
	InvW float64
}

// Project maps a clip-space position onto a width x height target. The
// position must have w > 0, which clipping guarantees.
func Project(pos math3d.Vec4, width, height int) (Projection, error) {
	x, y, err := windowXY(pos, width, height)
	if err != nil {
		return Projection{}, err
	}
	invW := 1 / pos.W
	return Projection{
		X:    int(math.Round(x)),
		Y:    int(math.Round(y)),
		Z:    pos.Z * invW,
		InvW: invW,
	}, nil
}

// windowXY is Project without rounding, used by antialiased lines.
func windowXY(pos math3d.Vec4, width, height int) (x, y float64, err error) {
	if !(pos.W > 0) {
		return 0, 0, fmt.Errorf("%w: got %g", ErrNonPositiveW, pos.W)
	}
	invW := 1 / pos.W
	x = (pos.X*invW + 1) / 2 * float64(width)
	y = (pos.Y*invW + 1) / 2 * float64(height)
	return x, y, nil
}

// Orient2D returns twice the signed area of p0 p1 p2. It is positive when
// the points wind counter-clockwise with y up.
func Orient2D(p0, p1, p2 Projection) int {
	return (p1.X-p0.X)*(p2.Y-p1.Y) - (p1.Y-p0.Y)*(p2.X-p1.X)
}
