package raster

import (
	"errors"
	"testing"
)

func TestDeclValidate(t *testing.T) {
	pos := Element{Offset: 0, Usage: UsagePosition, Format: Vec4}
	tests := []struct {
		name    string
		decl    Decl
		stride  int
		wantErr bool
	}{
		{"position only", Decl{pos}, 4, false},
		{"position uv normal", Decl{pos, {4, UsageTexcoord, Vec2}, {6, UsageNormal, Vec3}}, 9, false},
		{"padding allowed", Decl{pos, {8, UsageColor, Vec4}}, 12, false},
		{"empty", Decl{}, 4, true},
		{"position not first", Decl{{0, UsageNormal, Vec4}}, 4, true},
		{"position wrong format", Decl{{0, UsagePosition, Vec3}}, 4, true},
		{"position offset", Decl{{1, UsagePosition, Vec4}}, 5, true},
		{"overlap", Decl{pos, {4, UsageTexcoord, Vec2}, {5, UsageColor, Float}}, 6, true},
		{"overlaps position", Decl{pos, {3, UsageCustom, Float}}, 4, true},
		{"past stride", Decl{pos, {4, UsageNormal, Vec3}}, 6, true},
		{"negative offset", Decl{pos, {-2, UsageCustom, Float}}, 4, true},
		{"unknown format", Decl{pos, {4, UsageCustom, Format(9)}}, 8, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.decl.Validate(tt.stride)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidDecl) {
				t.Errorf("error %v does not wrap ErrInvalidDecl", err)
			}
		})
	}
}

func TestDeclStride(t *testing.T) {
	d := Decl{{0, UsagePosition, Vec4}, {7, UsageTexcoord, Vec2}, {4, UsageNormal, Vec3}}
	if got := d.Stride(); got != 9 {
		t.Errorf("Stride() = %d, want 9", got)
	}
}

func TestDeclLerpSkipsPadding(t *testing.T) {
	d := Decl{{0, UsagePosition, Vec4}, {5, UsageCustom, Float}}
	a := []float64{0, 0, 0, 1, 100, 2}
	b := []float64{4, 8, 2, 3, 200, 6}
	dst := []float64{-1, -1, -1, -1, -1, -1}
	d.Lerp(dst, a, b, 0.25)
	want := []float64{1, 2, 0.5, 1.5, -1, 3}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %g, want %g", i, dst[i], want[i])
		}
	}
}

func TestDeclBarycentric(t *testing.T) {
	d := Decl{{0, UsagePosition, Vec4}, {4, UsageColor, Vec2}}
	a := []float64{1, 0, 0, 1, 1, 0}
	b := []float64{0, 1, 0, 1, 0, 1}
	c := []float64{0, 0, 1, 1, 0, 0}
	dst := make([]float64, 6)
	d.Barycentric(dst, a, b, c, 0.5, 0.25, 0.25)
	want := []float64{0.5, 0.25, 0.25, 1, 0.5, 0.25}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %g, want %g", i, dst[i], want[i])
		}
	}
}

func TestRecordLerp(t *testing.T) {
	a := Record{Data: []float64{0, 0, 0, 1, 0}, Decl: testDecl}
	b := Record{Data: []float64{2, 4, 6, 1, 10}, Decl: testDecl}
	got := a.Lerp(b, 0.5)
	if got.Data[4] != 5 || got.ClipPosition().Y != 2 {
		t.Errorf("Lerp = %v", got.Data)
	}
	if a.Data[4] != 0 {
		t.Error("Lerp modified its receiver")
	}
}

func TestPrimitiveAt(t *testing.T) {
	tri := Triangle[int]{10, 11, 12}
	for i := range 3 {
		v, err := tri.At(i)
		if err != nil || v != 10+i {
			t.Errorf("At(%d) = %d, %v", i, v, err)
		}
	}
	for _, i := range []int{-1, 3, 100} {
		if _, err := tri.At(i); !errors.Is(err, ErrVertexIndex) {
			t.Errorf("At(%d) error = %v, want ErrVertexIndex", i, err)
		}
	}
	if _, err := (Line[int]{1, 2}).At(2); !errors.Is(err, ErrVertexIndex) {
		t.Errorf("Line.At(2) error = %v", err)
	}
	if _, err := (Point[int]{1}).At(1); !errors.Is(err, ErrVertexIndex) {
		t.Errorf("Point.At(1) error = %v", err)
	}
	if v, err := (Quad[int]{1, 2, 3, 4}).At(3); err != nil || v != 4 {
		t.Errorf("Quad.At(3) = %d, %v", v, err)
	}
}

func TestQuadTriangles(t *testing.T) {
	got := Quad[int]{0, 1, 2, 3}.Triangles()
	want := [2]Triangle[int]{{0, 1, 2}, {2, 3, 0}}
	if got != want {
		t.Errorf("Triangles() = %v, want %v", got, want)
	}
}
