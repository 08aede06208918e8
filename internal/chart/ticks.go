package chart

import (
	"math"
	"strconv"

	"gonum.org/v1/plot"
)

// GenomicTicks lays out x-axis ticks at round genomic coordinates,
// labeled in bp, kb or Mb depending on magnitude.
type GenomicTicks struct{}

var _ plot.Ticker = GenomicTicks{}

// Ticks returns ticks at nice round steps inside [min, max], aiming
// for about six marks.
func (GenomicTicks) Ticks(min, max float64) []plot.Tick {
	if math.IsNaN(min) || math.IsNaN(max) || max <= min {
		return nil
	}
	const want = 6
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/(want-1))))
	step := mag
	best := math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		s := c * mag
		count := math.Ceil(span/s) + 1
		if d := math.Abs(count - want); d < best {
			best = d
			step = s
		}
	}
	var ticks []plot.Tick
	for v := math.Ceil(min/step) * step; v <= max+step/1e6; v += step {
		ticks = append(ticks, plot.Tick{Value: v, Label: formatCoord(v)})
	}
	return ticks
}

// formatCoord renders a genomic coordinate, switching to kb and Mb
// units once raw base-pair numbers get long.
func formatCoord(v float64) string {
	av := math.Abs(v)
	switch {
	case av >= 1e6:
		return strconv.FormatFloat(v/1e6, 'f', 2, 64) + " Mb"
	case av >= 1e4:
		return strconv.FormatFloat(v/1e3, 'f', 1, 64) + " kb"
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// unlabeledTicks keeps a Ticker's marks but drops the labels, for rows
// whose x annotation lives on the row below.
type unlabeledTicks struct {
	plot.Ticker
}

func (u unlabeledTicks) Ticks(min, max float64) []plot.Tick {
	ticks := u.Ticker.Ticks(min, max)
	for i := range ticks {
		ticks[i].Label = ""
	}
	return ticks
}
