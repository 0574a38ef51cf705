package render

import (
	"math"
	"slices"
	"testing"
)

type pixel struct{ x, y int }

func collectLine(x0, y0, x1, y1 int) []pixel {
	var out []pixel
	Line(x0, y0, x1, y1, func(x, y int, _ float64) {
		out = append(out, pixel{x, y})
	})
	return out
}

func sortedPixels(p []pixel) []pixel {
	s := slices.Clone(p)
	slices.SortFunc(s, func(a, b pixel) int {
		if a.x != b.x {
			return a.x - b.x
		}
		return a.y - b.y
	})
	return s
}

func TestLineHorizontal(t *testing.T) {
	got := collectLine(0, 0, 3, 0)
	want := []pixel{{0, 0}, {1, 0}, {2, 0}, {3, 0}}
	if !slices.Equal(got, want) {
		t.Errorf("Line (0,0)-(3,0) = %v, want %v", got, want)
	}
	if rev := sortedPixels(collectLine(3, 0, 0, 0)); !slices.Equal(rev, want) {
		t.Errorf("reversed line = %v, want %v", rev, want)
	}
}

func TestLineSymmetric(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		wantLen        int
	}{
		{"shallow", 0, 0, 7, 3, 8},
		{"steep", 1, 1, 3, 9, 9},
		{"negative slope", 0, 5, 6, -1, 7},
		{"vertical", 2, 0, 2, 4, 5},
		{"diagonal", 0, 0, 4, 4, 5},
		{"single point", 3, 3, 3, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fwd := collectLine(tt.x0, tt.y0, tt.x1, tt.y1)
			rev := collectLine(tt.x1, tt.y1, tt.x0, tt.y0)
			if len(fwd) != tt.wantLen {
				t.Errorf("got %d pixels, want %d", len(fwd), tt.wantLen)
			}
			if !slices.Equal(sortedPixels(fwd), sortedPixels(rev)) {
				t.Errorf("forward %v and reversed %v differ", fwd, rev)
			}
			if !slices.Contains(fwd, pixel{tt.x0, tt.y0}) || !slices.Contains(fwd, pixel{tt.x1, tt.y1}) {
				t.Errorf("endpoints missing from %v", fwd)
			}
		})
	}
}

func TestLineParameter(t *testing.T) {
	ts := map[pixel]float64{}
	Line(4, 0, 0, 0, func(x, y int, t float64) { ts[pixel{x, y}] = t })
	if ts[pixel{4, 0}] != 0 || ts[pixel{0, 0}] != 1 || ts[pixel{1, 0}] != 0.75 {
		t.Errorf("t along reversed line = %v", ts)
	}
}

func TestSmoothLineCoverage(t *testing.T) {
	cover := map[pixel]float64{}
	SmoothLine(0, 0.5, 8, 4.5, func(x, y int, _, c float64) {
		cover[pixel{x, y}] += c
	})

	// Interior columns split exactly one pixel of coverage.
	for x := 1; x < 8; x++ {
		var sum float64
		for p, c := range cover {
			if p.x == x {
				sum += c
			}
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("column %d coverage = %v, want 1", x, sum)
		}
	}
	for p, c := range cover {
		if c < 0 || c > 1 {
			t.Errorf("pixel %v coverage %v outside [0,1]", p, c)
		}
	}
}

func TestSmoothLineSymmetric(t *testing.T) {
	collect := func(x0, y0, x1, y1 float64) map[pixel]float64 {
		m := map[pixel]float64{}
		SmoothLine(x0, y0, x1, y1, func(x, y int, _, c float64) { m[pixel{x, y}] += c })
		return m
	}
	a := collect(1.2, 0.3, 3.7, 9.1)
	b := collect(3.7, 9.1, 1.2, 0.3)
	if len(a) != len(b) {
		t.Fatalf("pixel counts differ: %d vs %d", len(a), len(b))
	}
	for p, c := range a {
		if math.Abs(b[p]-c) > 1e-9 {
			t.Errorf("pixel %v coverage %v vs %v", p, c, b[p])
		}
	}
}

func TestFramebufferDrawLineSmoothBlends(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	fb.Clear(ColorBlack)
	fb.DrawLineSmooth(0, 2.25, 7, 2.25, ColorWhite)

	row2 := fb.GetPixel(3, 2)
	row3 := fb.GetPixel(3, 3)
	if math.Abs(row2.R-0.75) > 1e-9 || math.Abs(row3.R-0.25) > 1e-9 {
		t.Errorf("blended rows = %v / %v, want 0.75 / 0.25", row2.R, row3.R)
	}
	if row2.A != 1 {
		t.Errorf("alpha over opaque = %v, want 1", row2.A)
	}
}

func BenchmarkLine(b *testing.B) {
	for b.Loop() {
		Line(0, 0, 200, 73, func(int, int, float64) {})
	}
}
