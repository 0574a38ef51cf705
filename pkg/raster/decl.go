package raster

import (
	"fmt"

	"github.com/taigrr/softrender/pkg/math3d"
)

// Usage tags the meaning of a varying field.
type Usage int

const (
	UsagePosition Usage = iota
	UsageNormal
	UsageTexcoord
	UsageColor
	UsageWorldPosition
	UsageCustom
)

func (u Usage) String() string {
	switch u {
	case UsagePosition:
		return "position"
	case UsageNormal:
		return "normal"
	case UsageTexcoord:
		return "texcoord"
	case UsageColor:
		return "color"
	case UsageWorldPosition:
		return "world-position"
	case UsageCustom:
		return "custom"
	default:
		return fmt.Sprintf("usage(%d)", int(u))
	}
}

// Format is the shape of a varying field. The zero value is invalid.
type Format int

const (
	Float Format = iota + 1
	Vec2
	Vec3
	Vec4
)

// Size returns the number of float components in the format, or 0 for an
// unknown format.
func (f Format) Size() int {
	switch f {
	case Float:
		return 1
	case Vec2:
		return 2
	case Vec3:
		return 3
	case Vec4:
		return 4
	default:
		return 0
	}
}

// Element is one field of a varying record. Offset counts float components
// from the start of the record.
type Element struct {
	Offset int
	Usage  Usage
	Format Format
}

func (e Element) end() int {
	return e.Offset + e.Format.Size()
}

// Decl declares the layout of a varying record. The first element is always
// the clip-space position as a Vec4 at offset 0.
type Decl []Element

// Stride returns the smallest record length that holds every element.
func (d Decl) Stride() int {
	stride := 0
	for _, e := range d {
		stride = max(stride, e.end())
	}
	return stride
}

// Validate checks the declaration against a record length.
func (d Decl) Validate(stride int) error {
	if len(d) == 0 {
		return fmt.Errorf("%w: no elements", ErrInvalidDecl)
	}
	if p := d[0]; p.Usage != UsagePosition || p.Format != Vec4 || p.Offset != 0 {
		return fmt.Errorf("%w: element 0 must be a vec4 position at offset 0, got %s %d at %d",
			ErrInvalidDecl, p.Usage, p.Format.Size(), p.Offset)
	}
	for i, e := range d {
		switch {
		case e.Format.Size() == 0:
			return fmt.Errorf("%w: element %d has unknown format %d", ErrInvalidDecl, i, int(e.Format))
		case e.Offset < 0:
			return fmt.Errorf("%w: element %d has negative offset %d", ErrInvalidDecl, i, e.Offset)
		case e.end() > stride:
			return fmt.Errorf("%w: element %d ends at %d past stride %d", ErrInvalidDecl, i, e.end(), stride)
		}
		for j := range i {
			o := d[j]
			if e.Offset < o.end() && o.Offset < e.end() {
				return fmt.Errorf("%w: elements %d and %d overlap", ErrInvalidDecl, j, i)
			}
		}
	}
	return nil
}

// Lerp interpolates every declared field of a and b into dst with the same t.
// Components outside the declaration are left untouched.
func (d Decl) Lerp(dst, a, b []float64, t float64) {
	for _, e := range d {
		for k := e.Offset; k < e.end(); k++ {
			dst[k] = a[k] + (b[k]-a[k])*t
		}
	}
}

// Barycentric blends three records into dst with the given weights.
func (d Decl) Barycentric(dst, a, b, c []float64, w0, w1, w2 float64) {
	for _, e := range d {
		for k := e.Offset; k < e.end(); k++ {
			dst[k] = a[k]*w0 + b[k]*w1 + c[k]*w2
		}
	}
}

// Varying is the output of a vertex shader and the input of a fragment
// shader. Store flattens the value into a record laid out by Decl and Load
// rebuilds a value from an interpolated record.
type Varying[V any] interface {
	Decl() Decl
	Store(dst []float64)
	Load(src []float64) V
}

// Strider is implemented by varyings whose Store writes a record of a fixed
// length, for example one with padding after the declared fields. Submit
// validates the declaration against that length. Varyings without it get
// records exactly as long as their declaration.
type Strider interface {
	Stride() int
}

// Record is a flattened varying together with its declaration.
type Record struct {
	Data []float64
	Decl Decl
}

// ClipPosition returns the clip-space position held in element 0.
func (r Record) ClipPosition() math3d.Vec4 {
	return math3d.V4FromSlice(r.Data)
}

// Lerp returns a new record interpolated from r towards to.
func (r Record) Lerp(to Record, t float64) Record {
	out := Record{Data: make([]float64, len(r.Data)), Decl: r.Decl}
	r.Decl.Lerp(out.Data, r.Data, to.Data, t)
	return out
}
