package render

import "math"

// Line walks the pixels of the segment (x0,y0)-(x1,y1) with Bresenham's
// algorithm, both endpoints included. Steep lines swap axes and every line
// is walked from its lower-x end, so swapping the endpoints yields the same
// pixel set. plot receives t in [0,1] measured from (x0,y0).
func Line(x0, y0, x1, y1 int, plot func(x, y int, t float64)) {
	steep := abs(y1-y0) > abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	reversed := x0 > x1
	if reversed {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	dy := abs(y1 - y0)
	errAcc := dx / 2
	yStep := -1
	if y0 < y1 {
		yStep = 1
	}

	for x, y := x0, y0; x <= x1; x++ {
		t := 0.0
		if dx > 0 {
			t = float64(x-x0) / float64(dx)
		}
		if reversed {
			t = 1 - t
		}
		if steep {
			plot(y, x, t)
		} else {
			plot(x, y, t)
		}
		errAcc -= dy
		if errAcc < 0 {
			y += yStep
			errAcc += dx
		}
	}
}

// SmoothLine walks the segment with Xiaolin Wu's algorithm, reporting two
// pixels per column with their fractional coverage. Like Line it swaps axes
// for steep lines and always iterates from the lower-x end; t is measured
// from (x0,y0).
func SmoothLine(x0, y0, x1, y1 float64, plot func(x, y int, t, coverage float64)) {
	steep := math.Abs(y1-y0) > math.Abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	reversed := x0 > x1
	if reversed {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	gradient := 1.0
	if dx != 0 {
		gradient = (y1 - y0) / dx
	}

	param := func(x float64) float64 {
		if dx == 0 {
			return 0
		}
		t := math.Max(0, math.Min(1, (x-x0)/dx))
		if reversed {
			return 1 - t
		}
		return t
	}
	emit := func(x, y int, coverage float64) {
		if coverage <= 0 {
			return
		}
		t := param(float64(x))
		if steep {
			plot(y, x, t, coverage)
		} else {
			plot(x, y, t, coverage)
		}
	}

	xend := math.Round(x0)
	yend := y0 + gradient*(xend-x0)
	xgap := 1 - fpart(x0+0.5)
	xpxl1 := int(xend)
	ypxl1 := int(math.Floor(yend))
	emit(xpxl1, ypxl1, (1-fpart(yend))*xgap)
	emit(xpxl1, ypxl1+1, fpart(yend)*xgap)
	intery := yend + gradient

	xend = math.Round(x1)
	yend = y1 + gradient*(xend-x1)
	xgap = fpart(x1 + 0.5)
	xpxl2 := int(xend)
	ypxl2 := int(math.Floor(yend))
	if xpxl2 != xpxl1 {
		emit(xpxl2, ypxl2, (1-fpart(yend))*xgap)
		emit(xpxl2, ypxl2+1, fpart(yend)*xgap)
	}

	for x := xpxl1 + 1; x < xpxl2; x++ {
		y := int(math.Floor(intery))
		f := fpart(intery)
		emit(x, y, 1-f)
		emit(x, y+1, f)
		intery += gradient
	}
}

func fpart(v float64) float64 {
	return v - math.Floor(v)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
