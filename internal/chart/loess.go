package chart

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot/plotter"
)

// loessGridN is the number of evaluation points for the trend overlay.
const loessGridN = 101

// Loess fits a tricube-weighted local linear regression through the
// points (xs, ys), which must be sorted by x, and evaluates it on an
// even grid of gridN points over the x extent. span is the fraction of
// points in each local window, in (0, 1].
func Loess(xs, ys []float64, span float64, gridN int) (plotter.XYs, error) {
	if span <= 0 || span > 1 {
		return nil, fmt.Errorf("smooth span %v outside (0,1]", span)
	}
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("got %d x values and %d y values", len(xs), len(ys))
	}
	n := len(xs)
	if n < 2 || gridN < 2 {
		return nil, fmt.Errorf("smoothing needs at least two points")
	}

	k := int(math.Ceil(span * float64(n)))
	if k < 2 {
		k = 2
	}
	if k > n {
		k = n
	}

	grid := make(plotter.XYs, gridN)
	x0, x1 := xs[0], xs[n-1]
	lo := 0
	for i := range grid {
		xg := x0 + (x1-x0)*float64(i)/float64(gridN-1)
		// slide the window of the k nearest points; xg only grows
		for lo+k < n && xg-xs[lo] > xs[lo+k]-xg {
			lo++
		}
		grid[i] = plotter.XY{X: xg, Y: fitLocal(xs[lo:lo+k], ys[lo:lo+k], xg)}
	}
	return grid, nil
}

// fitLocal evaluates one weighted linear fit over a window at xg.
func fitLocal(xs, ys []float64, xg float64) float64 {
	dmax := math.Max(xg-xs[0], xs[len(xs)-1]-xg)
	if dmax <= 0 || xs[0] == xs[len(xs)-1] {
		return stat.Mean(ys, nil)
	}
	weights := make([]float64, len(xs))
	sum := 0.0
	for i, x := range xs {
		weights[i] = tricube(math.Abs(x-xg) / dmax)
		sum += weights[i]
	}
	if sum == 0 {
		return stat.Mean(ys, nil)
	}
	alpha, beta := stat.LinearRegression(xs, ys, weights, false)
	y := alpha + beta*xg
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return stat.Mean(ys, weights)
	}
	return y
}

func tricube(u float64) float64 {
	if u >= 1 {
		return 0
	}
	c := 1 - u*u*u
	return c * c * c
}
